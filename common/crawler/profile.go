package crawler

import (
	"fmt"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/bpresles/CasaNova/common/constants"
	"github.com/bpresles/CasaNova/common/document"
	"github.com/bpresles/CasaNova/common/models"
	"github.com/samber/lo"
)

const (
	// DefaultBlockSelector finds candidate content sections on sites with no common structure.
	DefaultBlockSelector = "article, .content-section, section, .card, .info-block"
	// DefaultHeadingSelector finds the heading of a content section.
	DefaultHeadingSelector = "h1, h2, h3, .title"
	// ListItemSelector collects page-wide tips and requirements.
	ListItemSelector = "ul li, ol li"
)

// Rule maps heading keywords to a classification label.
type Rule struct {
	Label    string
	Keywords []string
}

// Block is a relevant content section ready to be turned into a record.
type Block struct {
	// Base is pre-filled with country, title, description, source and language.
	Base  models.InfoBase
	Label string
	// Text is the full text of the section as found in the page.
	Text      string
	Selection *goquery.Selection
	// ListItems holds every list item of the whole page.
	ListItems []string
	Links     []document.Link
}

// Profile configures the generic engine for one category.
type Profile struct {
	Category        constants.Category
	DisplayName     string
	BlockSelector   string
	HeadingSelector string
	// Keywords is the relevance test. An empty list accepts every heading.
	Keywords []string
	// Rules are tested in order against the heading; the first match wins.
	Rules []Rule
	// Build runs the field extractors of the category on a relevant block.
	Build func(b Block) models.Record
	// BuildFallback makes the single record used when no block is relevant.
	// Structured fields stay empty unless the category has static defaults.
	BuildFallback func(base models.InfoBase) models.Record
}

func (p *Profile) Validate() error {
	switch {
	case !lo.Contains(constants.Categories, p.Category):
		return fmt.Errorf("%w: unknown category %q", ErrInvalidProfile, p.Category)
	case p.BlockSelector == "" || p.HeadingSelector == "":
		return fmt.Errorf("%w: %s has no selectors", ErrInvalidProfile, p.Category)
	case p.Build == nil || p.BuildFallback == nil:
		return fmt.Errorf("%w: %s has no record builders", ErrInvalidProfile, p.Category)
	}
	return nil
}

// Relevant applies the relevance test to a heading.
func (p *Profile) Relevant(heading string) bool {
	if heading == "" {
		return false
	}
	if len(p.Keywords) == 0 {
		return true
	}
	return ContainsAny(heading, p.Keywords...)
}

// Classify returns the label of the first rule matching heading, or "general".
func (p *Profile) Classify(heading string) string {
	for _, rule := range p.Rules {
		if ContainsAny(heading, rule.Keywords...) {
			return rule.Label
		}
	}
	return constants.GeneralLabel
}

// Extract turns a parsed page into records. It never fails: when no section
// is relevant, exactly one fallback record is returned.
func (p *Profile) Extract(doc *document.Document, src models.Source, finalURL, countryCode string) []models.Record {
	code := strings.ToUpper(strings.TrimSpace(countryCode))
	if finalURL == "" {
		finalURL = src.URL
	}
	base := models.InfoBase{
		CountryCode: code,
		SourceURL:   finalURL,
		SourceName:  src.Name,
		Language:    constants.DefaultLanguage,
	}

	listItems := document.ListItems(doc.Root(), ListItemSelector)

	var records []models.Record
	doc.Find(p.BlockSelector).Each(func(_ int, section *goquery.Selection) {
		heading, ok := document.Text(section, p.HeadingSelector).Get()
		if !ok || !p.Relevant(heading) {
			return
		}

		b := base
		b.Title = heading
		b.Description = document.Text(section, "p").FlatMap(document.CleanText)

		records = append(records, p.Build(Block{
			Base:      b,
			Label:     p.Classify(heading),
			Text:      section.Text(),
			Selection: section,
			ListItems: listItems,
			Links:     doc.Links(section),
		}))
	})

	if len(records) == 0 {
		records = append(records, p.fallback(doc, base))
	}
	return records
}

func (p *Profile) fallback(doc *document.Document, base models.InfoBase) models.Record {
	title := doc.Text("h1").
		OrElse(doc.Text("title").
			OrElse(fmt.Sprintf("%s Information for %s", p.DisplayName, base.CountryCode)))

	description := doc.Attr(`meta[name="description"]`, "content")
	if description.IsAbsent() {
		description = doc.Text("p")
	}

	base.Title = title
	base.Description = document.CleanText(description.OrEmpty())
	return p.BuildFallback(base)
}
