package job

import (
	"regexp"
	"strings"

	"github.com/bpresles/CasaNova/common/constants"
	"github.com/bpresles/CasaNova/common/crawler"
	"github.com/bpresles/CasaNova/common/document"
	"github.com/bpresles/CasaNova/common/models"
	"github.com/samber/mo"
)

var keywords = []string{
	"job", "work", "employment", "career", "salary",
	"hiring", "recruit", "labour", "labor", "profession",
}

var rules = []crawler.Rule{
	{Label: "work_permit", Keywords: []string{"permit", "authorization"}},
	{Label: "salary", Keywords: []string{"salary", "wage"}},
	{Label: "job_search", Keywords: []string{"search", "find"}},
	{Label: "sectors", Keywords: []string{"sector", "industry"}},
	{Label: "rights", Keywords: []string{"right", "law"}},
	{Label: "contracts", Keywords: []string{"contract"}},
}

var sectors = []string{
	"technology", "healthcare", "finance", "engineering", "tourism",
	"education", "manufacturing", "agriculture", "retail", "construction",
}

var (
	permitNotRequired = []string{"no work permit", "without permit"}
	permitRequired    = []string{"work permit required", "need a work permit"}
)

var salaryPatterns = []*regexp.Regexp{
	regexp.MustCompile(`(?i)average\s+salary[:\s]+[€$£]?\s*[\d,]+`),
	regexp.MustCompile(`(?i)minimum\s+wage[:\s]+[€$£]?\s*[\d,]+`),
	regexp.MustCompile(`(?i)[€$£]\s*[\d,]+\s*(?:per\s+)?(?:month|year|hour)`),
}

// Profile returns the job market scraper profile.
func Profile() *crawler.Profile {
	return &crawler.Profile{
		Category:        constants.Job,
		DisplayName:     "Job Market",
		BlockSelector:   crawler.DefaultBlockSelector,
		HeadingSelector: crawler.DefaultHeadingSelector,
		Keywords:        keywords,
		Rules:           rules,
		Build:           build,
		BuildFallback:   buildFallback,
	}
}

func build(b crawler.Block) models.Record {
	return &models.JobInfo{
		InfoBase:           b.Base,
		Category:           b.Label,
		WorkPermitRequired: workPermitRequired(b.Text),
		AverageSalary:      crawler.FirstMatch(b.Text, salaryPatterns),
		JobSearchTips:      b.ListItems,
		PopularSectors:     crawler.MatchVocabulary(b.Text, sectors),
		JobPortals:         crawler.ModelLinks(crawler.FilterLinks(b.Links, isPortal)),
	}
}

func buildFallback(base models.InfoBase) models.Record {
	return &models.JobInfo{
		InfoBase: base,
		Category: constants.GeneralLabel,
	}
}

// workPermitRequired is a tri-state: absent when the text says nothing either way.
// "no work permit required" contains a positive phrase, so negations are checked first.
func workPermitRequired(text string) mo.Option[bool] {
	switch {
	case crawler.ContainsAny(text, permitNotRequired...):
		return mo.Some(false)
	case crawler.ContainsAny(text, permitRequired...):
		return mo.Some(true)
	}
	return mo.None[bool]()
}

// A portal link mentions "job" in its text, or in its href as written.
func isPortal(l document.Link) bool {
	return crawler.ContainsAny(l.Text, "job") || strings.Contains(l.Href, "job")
}
