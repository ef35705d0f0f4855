package visa

import (
	"regexp"
	"strings"

	"github.com/bpresles/CasaNova/common/constants"
	"github.com/bpresles/CasaNova/common/crawler"
	"github.com/bpresles/CasaNova/common/models"
)

const (
	blockSelector   = "article, .content-section, .visa-info, section"
	headingSelector = "h1, h2, h3"
)

// Visa sections have no relevance keywords: every headed section counts.
var rules = []crawler.Rule{
	{Label: "tourist", Keywords: []string{"tourist", "visitor"}},
	{Label: "work", Keywords: []string{"work", "employment"}},
	{Label: "student", Keywords: []string{"student", "study"}},
	{Label: "business", Keywords: []string{"business"}},
	{Label: "transit", Keywords: []string{"transit"}},
	{Label: "family", Keywords: []string{"family", "spouse"}},
	{Label: "residence", Keywords: []string{"permanent", "residence"}},
}

// Processing time and validity are searched in lower-cased text, cost in the raw text.
var (
	processingTimePatterns = []*regexp.Regexp{
		regexp.MustCompile(`(?i)(\d+)\s*(?:to|-)\s*(\d+)\s*(?:business\s+)?days?`),
		regexp.MustCompile(`(?i)(\d+)\s*(?:business\s+)?days?`),
		regexp.MustCompile(`(?i)(\d+)\s*(?:to|-)\s*(\d+)\s*weeks?`),
		regexp.MustCompile(`(?i)(\d+)\s*weeks?`),
	}
	costPatterns = []*regexp.Regexp{
		regexp.MustCompile(`[€$£]\s*\d+(?:[.,]\d{2})?`),
		regexp.MustCompile(`(?i)\d+(?:[.,]\d{2})?\s*(?:EUR|USD|GBP)`),
		regexp.MustCompile(`(?i)(?:fee|cost|price)(?:\s*:)?\s*[€$£]?\s*\d+`),
	}
	validityPatterns = []*regexp.Regexp{
		regexp.MustCompile(`(?i)valid(?:ity)?(?:\s*:)?\s*(\d+)\s*(?:months?|years?|days?)`),
		regexp.MustCompile(`(?i)(\d+)\s*(?:months?|years?)\s*validity`),
		regexp.MustCompile(`(?i)up\s*to\s*(\d+)\s*(?:months?|years?|days?)`),
	}
)

// Profile returns the visa scraper profile.
func Profile() *crawler.Profile {
	return &crawler.Profile{
		Category:        constants.Visa,
		DisplayName:     "Visa",
		BlockSelector:   blockSelector,
		HeadingSelector: headingSelector,
		Rules:           rules,
		Build:           build,
		BuildFallback:   buildFallback,
	}
}

func build(b crawler.Block) models.Record {
	lower := strings.ToLower(b.Text)
	return &models.VisaInfo{
		InfoBase:       b.Base,
		VisaType:       b.Label,
		Requirements:   b.ListItems,
		ProcessingTime: crawler.FirstMatch(lower, processingTimePatterns),
		Cost:           crawler.FirstMatch(b.Text, costPatterns),
		Validity:       crawler.FirstMatch(lower, validityPatterns),
	}
}

func buildFallback(base models.InfoBase) models.Record {
	return &models.VisaInfo{
		InfoBase: base,
		VisaType: constants.GeneralLabel,
	}
}
