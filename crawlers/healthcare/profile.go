package healthcare

import (
	"maps"
	"regexp"

	"github.com/bpresles/CasaNova/common/constants"
	"github.com/bpresles/CasaNova/common/crawler"
	"github.com/bpresles/CasaNova/common/document"
	"github.com/bpresles/CasaNova/common/models"
	"github.com/samber/lo"
)

var keywords = []string{
	"health", "medical", "insurance", "hospital", "doctor",
	"care", "emergency", "medicine", "patient",
}

var rules = []crawler.Rule{
	{Label: "insurance", Keywords: []string{"insurance"}},
	{Label: "emergency", Keywords: []string{"emergency"}},
	{Label: "hospitals", Keywords: []string{"hospital"}},
	{Label: "doctors", Keywords: []string{"doctor", "gp"}},
	{Label: "pharmacy", Keywords: []string{"pharmacy", "medicine"}},
	{Label: "dental", Keywords: []string{"dental"}},
}

var insurancePhrases = []string{
	"insurance required", "mandatory insurance", "health coverage", "ehic", "social security",
}

var (
	publicSystemPatterns = []*regexp.Regexp{
		regexp.MustCompile(`(?i)public\s+health\s+(?:system|care|insurance)[^.]+\.`),
		regexp.MustCompile(`(?i)national\s+health[^.]+\.`),
		regexp.MustCompile(`(?i)universal\s+(?:health)?care[^.]+\.`),
	}
	emergencyPatterns = []*regexp.Regexp{
		regexp.MustCompile(`(?i)emergency[:\s]+(\d{2,3})`),
		regexp.MustCompile(`(?i)ambulance[:\s]+(\d{2,3})`),
		regexp.MustCompile(`(?i)(\d{3})\s*(?:emergency|ambulance)`),
	}
)

// defaultEmergencyNumbers backs fallback records when a page yields nothing.
var defaultEmergencyNumbers = map[string]map[string]string{
	"FR": {"emergency": "112", "samu": "15", "police": "17", "fire": "18"},
	"DE": {"emergency": "112", "police": "110"},
	"ES": {"emergency": "112"},
	"IT": {"emergency": "112", "carabinieri": "112"},
	"GB": {"emergency": "999", "nhs": "111"},
	"US": {"emergency": "911"},
	"CA": {"emergency": "911"},
	"AU": {"emergency": "000"},
}

// Profile returns the healthcare scraper profile.
func Profile() *crawler.Profile {
	return &crawler.Profile{
		Category:        constants.Healthcare,
		DisplayName:     "Healthcare",
		BlockSelector:   crawler.DefaultBlockSelector,
		HeadingSelector: crawler.DefaultHeadingSelector,
		Keywords:        keywords,
		Rules:           rules,
		Build:           build,
		BuildFallback:   buildFallback,
	}
}

// Healthcare records carry no page-wide list items.
func build(b crawler.Block) models.Record {
	return &models.HealthcareInfo{
		InfoBase:              b.Base,
		Category:              b.Label,
		PublicSystemInfo:      crawler.FirstMatch(b.Text, publicSystemPatterns),
		InsuranceRequirements: crawler.MatchVocabulary(b.Text, insurancePhrases),
		EmergencyNumbers:      models.NewEmergencyMatches(crawler.MatchEach(b.Text, emergencyPatterns)),
		UsefulLinks:           crawler.ModelLinks(crawler.FilterLinks(b.Links, isUseful)),
	}
}

func buildFallback(base models.InfoBase) models.Record {
	return &models.HealthcareInfo{
		InfoBase:         base,
		Category:         constants.GeneralLabel,
		EmergencyNumbers: DefaultEmergencyNumbers(base.CountryCode),
	}
}

// DefaultEmergencyNumbers returns the static service table of a country, or nil.
func DefaultEmergencyNumbers(countryCode string) *models.EmergencyNumbers {
	services, ok := defaultEmergencyNumbers[countryCode]
	if !ok {
		return nil
	}
	return models.NewEmergencyServices(maps.Clone(services))
}

func isUseful(l document.Link) bool {
	return crawler.ContainsAny(lo.Ternary(l.Text != "", l.Text, l.Href), keywords...)
}
