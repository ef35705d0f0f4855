package banking

import (
	"encoding/json"
	"testing"

	"github.com/bpresles/CasaNova/common/constants"
	"github.com/bpresles/CasaNova/common/crawler"
	"github.com/bpresles/CasaNova/common/document"
	"github.com/bpresles/CasaNova/common/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var source = models.Source{Name: "Expatica", URL: "https://www.expatica.com/fr/finance/", Type: "guide"}

func extract(t *testing.T, html string) []*models.BankingInfo {
	t.Helper()
	doc, err := document.ParseString(html, source.URL)
	require.NoError(t, err)

	var out []*models.BankingInfo
	for _, r := range Profile().Extract(doc, source, source.URL, "fr") {
		out = append(out, r.(*models.BankingInfo))
	}
	return out
}

func TestRegistered(t *testing.T) {
	_, err := crawler.GetProfile(constants.Banking)
	require.NoError(t, err)
}

func TestRecommendedBanksInTableOrder(t *testing.T) {
	records := extract(t, `<section><h2>Online banks</h2>
		<p>Revolut is popular with newcomers, and so is N26.</p></section>`)
	require.Len(t, records, 1)

	data, err := json.Marshal(records[0].RecommendedBanks)
	require.NoError(t, err)
	var banks []string
	require.NoError(t, json.Unmarshal(data, &banks))
	assert.Equal(t, []string{"N26", "Revolut"}, banks)
}

func TestBankingCategories(t *testing.T) {
	p := Profile()
	tests := []struct {
		heading string
		want    string
	}{
		{"Opening an account", "accounts"},
		{"Money transfers", "transfers"},
		{"Credit cards", "credit"},
		{"Savings", "savings"},
		{"Tax on bank interest", "taxes"},
		{"Investment banking", "investment"},
		{"Banks in France", "general"},
	}
	for _, tt := range tests {
		t.Run(tt.heading, func(t *testing.T) {
			assert.Equal(t, tt.want, p.Classify(tt.heading))
		})
	}
}

func TestBankingFields(t *testing.T) {
	records := extract(t, `<html><body>
		<div class="info-block">
			<span class="title">Bank account requirements</span>
			<p>Bring a Passport and proof of address. BNP Paribas and HSBC accept
			a residence permit; hsbc lowercase does not count.</p>
		</div>
		<ul><li>Compare fees</li></ul>
	</body></html>`)
	require.Len(t, records, 1)

	b := records[0]
	assert.Equal(t, "accounts", b.Category)
	assert.Equal(t, "Bank account requirements", b.Title)
	assert.Equal(t, models.List[string]{"passport", "id", "proof of address", "residence permit"}, b.AccountRequirements)
	assert.Equal(t, models.List[string]{"BNP Paribas", "HSBC"}, b.RecommendedBanks)
	assert.Equal(t, models.List[string]{"Compare fees"}, b.Tips)
}

func TestBankingFallback(t *testing.T) {
	records := extract(t, `<html><body><section><h2>Weather</h2></section></body></html>`)
	require.Len(t, records, 1)

	b := records[0]
	assert.Equal(t, "Banking Information for FR", b.Title)
	assert.Equal(t, "general", b.Category)
	assert.Nil(t, b.AccountRequirements)
	assert.Nil(t, b.RecommendedBanks)
	assert.Nil(t, b.Tips)
}
