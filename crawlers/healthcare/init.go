package healthcare

import (
	"github.com/bpresles/CasaNova/common/crawler"
)

// init registers the healthcare profile with the profile registry
func init() {
	crawler.RegisterProfile(Profile())
}
