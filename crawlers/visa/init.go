package visa

import (
	"github.com/bpresles/CasaNova/common/crawler"
)

// init registers the visa profile with the profile registry
func init() {
	crawler.RegisterProfile(Profile())
}
