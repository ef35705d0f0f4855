package banking

import (
	"github.com/bpresles/CasaNova/common/crawler"
)

// init registers the banking profile with the profile registry
func init() {
	crawler.RegisterProfile(Profile())
}
