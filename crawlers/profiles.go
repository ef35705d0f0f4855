package crawlers

// The category packages register their profiles from init.
import (
	_ "github.com/bpresles/CasaNova/crawlers/banking"
	_ "github.com/bpresles/CasaNova/crawlers/healthcare"
	_ "github.com/bpresles/CasaNova/crawlers/housing"
	_ "github.com/bpresles/CasaNova/crawlers/job"
	_ "github.com/bpresles/CasaNova/crawlers/visa"
)
