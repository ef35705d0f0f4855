package job

import (
	"github.com/bpresles/CasaNova/common/crawler"
)

// init registers the job market profile with the profile registry
func init() {
	crawler.RegisterProfile(Profile())
}
