package housing

import (
	"github.com/bpresles/CasaNova/common/crawler"
)

// init registers the housing profile with the profile registry
func init() {
	crawler.RegisterProfile(Profile())
}
