package banking

import (
	"github.com/bpresles/CasaNova/common/constants"
	"github.com/bpresles/CasaNova/common/crawler"
	"github.com/bpresles/CasaNova/common/models"
)

var keywords = []string{
	"bank", "account", "finance", "money", "transfer",
	"payment", "credit", "debit", "savings",
}

var rules = []crawler.Rule{
	{Label: "accounts", Keywords: []string{"account"}},
	{Label: "transfers", Keywords: []string{"transfer"}},
	{Label: "credit", Keywords: []string{"credit"}},
	{Label: "savings", Keywords: []string{"savings"}},
	{Label: "taxes", Keywords: []string{"tax"}},
	{Label: "investment", Keywords: []string{"investment"}},
}

var accountRequirements = []string{
	"passport", "id", "proof of address", "proof of income",
	"residence permit", "tax number", "social security",
}

// knownBanks is matched case-sensitively and reported in this order.
var knownBanks = []string{
	"BNP Paribas", "Societe Generale", "Credit Agricole", "HSBC",
	"Deutsche Bank", "Commerzbank", "ING", "Santander", "BBVA",
	"Barclays", "Lloyds", "NatWest", "TD Bank", "RBC", "Scotiabank",
	"Commonwealth Bank", "Westpac", "ANZ", "NAB", "N26", "Revolut",
}

// Profile returns the banking scraper profile.
func Profile() *crawler.Profile {
	return &crawler.Profile{
		Category:        constants.Banking,
		DisplayName:     "Banking",
		BlockSelector:   crawler.DefaultBlockSelector,
		HeadingSelector: crawler.DefaultHeadingSelector,
		Keywords:        keywords,
		Rules:           rules,
		Build:           build,
		BuildFallback:   buildFallback,
	}
}

func build(b crawler.Block) models.Record {
	return &models.BankingInfo{
		InfoBase:            b.Base,
		Category:            b.Label,
		AccountRequirements: crawler.MatchVocabulary(b.Text, accountRequirements),
		RecommendedBanks:    crawler.MatchExact(b.Text, knownBanks),
		Tips:                b.ListItems,
	}
}

func buildFallback(base models.InfoBase) models.Record {
	return &models.BankingInfo{
		InfoBase: base,
		Category: constants.GeneralLabel,
	}
}
