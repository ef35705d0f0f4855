package housing

import (
	"regexp"

	"github.com/bpresles/CasaNova/common/constants"
	"github.com/bpresles/CasaNova/common/crawler"
	"github.com/bpresles/CasaNova/common/document"
	"github.com/bpresles/CasaNova/common/models"
	"github.com/samber/lo"
	"github.com/samber/mo"
)

var keywords = []string{
	"housing", "rent", "apartment", "flat", "accommodation", "lease",
	"tenant", "landlord", "property", "home", "living",
}

var rules = []crawler.Rule{
	{Label: "rental", Keywords: []string{"rent"}},
	{Label: "buying", Keywords: []string{"buy", "purchase"}},
	{Label: "student", Keywords: []string{"student"}},
	{Label: "temporary", Keywords: []string{"temporary", "short"}},
	{Label: "social_housing", Keywords: []string{"social"}},
	{Label: "rights", Keywords: []string{"right", "law"}},
}

// Cities are matched case-sensitively, first in table order wins.
var majorCities = []string{
	"Paris", "Lyon", "Marseille", "Berlin", "Munich", "Frankfurt", "Hamburg",
	"Madrid", "Barcelona", "Amsterdam", "Rotterdam", "London", "Manchester",
	"Toronto", "Vancouver", "Montreal", "Sydney", "Melbourne", "New York",
	"Los Angeles", "Tokyo", "Singapore", "Dubai",
}

var documents = []string{
	"passport", "id", "proof of income", "bank statement", "employment contract",
	"references", "deposit", "guarantor", "visa",
}

var rentPatterns = []*regexp.Regexp{
	regexp.MustCompile(`(?i)average\s+rent[:\s]+[€$£]?\s*[\d,]+`),
	regexp.MustCompile(`(?i)[€$£]\s*[\d,]+\s*(?:per\s+)?(?:month|week)`),
	regexp.MustCompile(`(?i)rent[:\s]+[€$£]?\s*[\d,]+\s*[-–]\s*[€$£]?\s*[\d,]+`),
}

// Profile returns the housing scraper profile.
func Profile() *crawler.Profile {
	return &crawler.Profile{
		Category:        constants.Housing,
		DisplayName:     "Housing",
		BlockSelector:   crawler.DefaultBlockSelector,
		HeadingSelector: crawler.DefaultHeadingSelector,
		Keywords:        keywords,
		Rules:           rules,
		Build:           build,
		BuildFallback:   buildFallback,
	}
}

func build(b crawler.Block) models.Record {
	return &models.HousingInfo{
		InfoBase:          b.Base,
		City:              city(b.Text),
		Category:          b.Label,
		AverageRent:       crawler.FirstMatch(b.Text, rentPatterns),
		RequiredDocuments: crawler.MatchVocabulary(b.Text, documents),
		Tips:              b.ListItems,
		RentalPlatforms:   crawler.ModelLinks(crawler.FilterLinks(b.Links, isPlatform)),
	}
}

func buildFallback(base models.InfoBase) models.Record {
	return &models.HousingInfo{
		InfoBase: base,
		Category: constants.GeneralLabel,
	}
}

func city(text string) mo.Option[string] {
	if c, ok := lo.First(crawler.MatchExact(text, majorCities)); ok {
		return mo.Some(c)
	}
	return mo.None[string]()
}

// A platform link passes the relevance test on its text, or on its href when it has no text.
func isPlatform(l document.Link) bool {
	return crawler.ContainsAny(lo.Ternary(l.Text != "", l.Text, l.Href), keywords...)
}
