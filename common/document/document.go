package document

import (
	"fmt"
	"io"
	"net/url"
	"regexp"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/samber/mo"
)

// Document is a parsed page that can be queried with CSS selectors.
type Document struct {
	doc  *goquery.Document
	base *url.URL
}

// Link is an anchor found in a page.
type Link struct {
	Text string
	// Href is the attribute value as written in the page.
	Href string
	// URL is Href resolved against the page URL, or Href when it cannot be resolved.
	URL string
}

var (
	whitespaceRun  = regexp.MustCompile(`\s+`)
	horizontalRun  = regexp.MustCompile(`[^\S\n]+`)
	lineBreakBlock = regexp.MustCompile(`\s*\n\s*`)
)

// Parse loads HTML from r. baseURL is used to resolve relative links and may be empty.
func Parse(r io.Reader, baseURL string) (*Document, error) {
	doc, err := goquery.NewDocumentFromReader(r)
	if err != nil {
		return nil, fmt.Errorf("parse html: %w", err)
	}
	d := &Document{doc: doc}
	if baseURL != "" {
		if u, err := url.Parse(baseURL); err == nil {
			d.base = u
		}
	}
	return d, nil
}

// ParseString is Parse for in-memory HTML.
func ParseString(html, baseURL string) (*Document, error) {
	return Parse(strings.NewReader(html), baseURL)
}

func (d *Document) Root() *goquery.Selection {
	return d.doc.Selection
}

func (d *Document) Find(selector string) *goquery.Selection {
	return d.doc.Find(selector)
}

// HTML renders the whole document.
func (d *Document) HTML() (string, error) {
	return d.doc.Html()
}

// Text returns the collapsed text of the first element matching selector in the page.
func (d *Document) Text(selector string) mo.Option[string] {
	return Text(d.doc.Selection, selector)
}

// Attr returns attribute attr of the first element matching selector in the page.
func (d *Document) Attr(selector, attr string) mo.Option[string] {
	return Attr(d.doc.Selection, selector, attr)
}

// Links lists the anchors with an href inside scope.
func (d *Document) Links(scope *goquery.Selection) []Link {
	var links []Link
	scope.Find("a[href]").Each(func(_ int, s *goquery.Selection) {
		href, _ := s.Attr("href")
		href = strings.TrimSpace(href)
		if href == "" {
			return
		}
		links = append(links, Link{
			Text: CollapseWhitespace(s.Text()),
			Href: href,
			URL:  d.resolve(href),
		})
	})
	return links
}

func (d *Document) resolve(href string) string {
	if d.base == nil {
		return href
	}
	ref, err := url.Parse(href)
	if err != nil {
		return href
	}
	return d.base.ResolveReference(ref).String()
}

// Text returns the trimmed, whitespace-collapsed text of the first element
// matching selector within scope. Absent or empty text yields None.
func Text(scope *goquery.Selection, selector string) mo.Option[string] {
	sel := scope.Find(selector).First()
	if sel.Length() == 0 {
		return mo.None[string]()
	}
	return nonEmpty(CollapseWhitespace(sel.Text()))
}

func Attr(scope *goquery.Selection, selector, attr string) mo.Option[string] {
	v, ok := scope.Find(selector).First().Attr(attr)
	if !ok {
		return mo.None[string]()
	}
	return nonEmpty(CollapseWhitespace(v))
}

// ListItems returns the collapsed text of every element matching selector
// within scope, in document order, skipping empty ones.
func ListItems(scope *goquery.Selection, selector string) []string {
	var items []string
	scope.Find(selector).Each(func(_ int, s *goquery.Selection) {
		if text := CollapseWhitespace(s.Text()); text != "" {
			items = append(items, text)
		}
	})
	return items
}

// CollapseWhitespace trims s and replaces every whitespace run, newlines included, with one space.
func CollapseWhitespace(s string) string {
	return whitespaceRun.ReplaceAllString(strings.TrimSpace(s), " ")
}

// CleanText keeps line structure: horizontal runs become one space and runs
// of blank lines become a single newline.
func CleanText(s string) mo.Option[string] {
	s = horizontalRun.ReplaceAllString(s, " ")
	s = lineBreakBlock.ReplaceAllString(s, "\n")
	return nonEmpty(strings.TrimSpace(s))
}

func nonEmpty(s string) mo.Option[string] {
	if s == "" {
		return mo.None[string]()
	}
	return mo.Some(s)
}
