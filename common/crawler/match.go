package crawler

import (
	"regexp"
	"strings"

	"github.com/bpresles/CasaNova/common/document"
	"github.com/bpresles/CasaNova/common/models"
	"github.com/samber/lo"
	"github.com/samber/mo"
)

// ContainsAny reports whether text contains one of keywords, ignoring case.
// keywords must be lower case.
func ContainsAny(text string, keywords ...string) bool {
	lower := strings.ToLower(text)
	return lo.SomeBy(keywords, func(kw string) bool {
		return strings.Contains(lower, kw)
	})
}

// MatchVocabulary returns the entries of vocabulary found in text ignoring
// case, in vocabulary order. No match yields nil.
func MatchVocabulary(text string, vocabulary []string) []string {
	lower := strings.ToLower(text)
	return orNil(lo.Filter(vocabulary, func(term string, _ int) bool {
		return strings.Contains(lower, strings.ToLower(term))
	}))
}

// MatchExact is MatchVocabulary with case-sensitive comparison, used for proper names.
func MatchExact(text string, vocabulary []string) []string {
	return orNil(lo.Filter(vocabulary, func(term string, _ int) bool {
		return strings.Contains(text, term)
	}))
}

func orNil[T any](s []T) []T {
	if len(s) == 0 {
		return nil
	}
	return s
}

// FirstMatch returns the whole match of the first pattern that matches text,
// whitespace-collapsed.
func FirstMatch(text string, patterns []*regexp.Regexp) mo.Option[string] {
	for _, re := range patterns {
		if m := re.FindString(text); m != "" {
			return mo.Some(document.CollapseWhitespace(m))
		}
	}
	return mo.None[string]()
}

// MatchEach returns the first match of each pattern that matches text, in pattern order.
func MatchEach(text string, patterns []*regexp.Regexp) []string {
	var out []string
	for _, re := range patterns {
		if m := re.FindString(text); m != "" {
			out = append(out, document.CollapseWhitespace(m))
		}
	}
	return out
}

// FilterLinks keeps the links accepted by keep.
func FilterLinks(links []document.Link, keep func(document.Link) bool) []document.Link {
	return lo.Filter(links, func(l document.Link, _ int) bool {
		return keep(l)
	})
}

// ModelLinks converts page links to stored links, using the resolved URL.
// An empty input yields nil.
func ModelLinks(links []document.Link) []models.Link {
	if len(links) == 0 {
		return nil
	}
	return lo.Map(links, func(l document.Link, _ int) models.Link {
		name := mo.None[string]()
		if l.Text != "" {
			name = mo.Some(l.Text)
		}
		return models.Link{Name: name, URL: l.URL}
	})
}
