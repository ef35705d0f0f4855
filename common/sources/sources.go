package sources

import (
	_ "embed"
	"fmt"
	"os"
	"slices"
	"strings"

	"github.com/bpresles/CasaNova/common"
	"github.com/bpresles/CasaNova/common/constants"
	"github.com/bpresles/CasaNova/common/models"
	"gopkg.in/yaml.v3"
)

//go:embed sources.yaml
var defaultSources []byte

// Catalog maps category and upper-case country code to the ordered sources to scrape.
type Catalog struct {
	entries map[constants.Category]map[string][]models.Source
}

// Default returns the catalog embedded in the binary.
func Default() (*Catalog, error) {
	return Parse(defaultSources)
}

// Load reads the catalog from path, or the embedded one when path is empty.
func Load(path string) (*Catalog, error) {
	if path == "" {
		return Default()
	}
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading sources file %s: %w", path, err)
	}
	return Parse(b)
}

// Parse decodes a YAML document of the form category -> country -> [source].
func Parse(b []byte) (*Catalog, error) {
	var raw map[string]map[string][]models.Source
	if err := yaml.Unmarshal(b, &raw); err != nil {
		return nil, fmt.Errorf("%w: decoding sources: %v", common.ErrInvalidConfig, err)
	}

	c := &Catalog{entries: make(map[constants.Category]map[string][]models.Source)}
	for name, countries := range raw {
		category, ok := constants.ParseCategory(name)
		if !ok {
			return nil, fmt.Errorf("%w: %w %q in sources", common.ErrInvalidConfig, common.ErrUnknownCategory, name)
		}
		byCountry := make(map[string][]models.Source, len(countries))
		for code, list := range countries {
			code = strings.ToUpper(strings.TrimSpace(code))
			for i, src := range list {
				if strings.TrimSpace(src.URL) == "" {
					return nil, fmt.Errorf("%w: %s/%s source #%d has no url", common.ErrInvalidConfig, category, code, i)
				}
				if src.Name == "" {
					list[i].Name = src.URL
				}
			}
			byCountry[code] = append(byCountry[code], list...)
		}
		c.entries[category] = byCountry
	}
	return c, nil
}

// For returns the sources of a country for a category, in configured order.
func (c *Catalog) For(category constants.Category, countryCode string) []models.Source {
	list := c.entries[category][strings.ToUpper(strings.TrimSpace(countryCode))]
	out := make([]models.Source, len(list))
	copy(out, list)
	return out
}

// Countries lists, sorted, the country codes having at least one source for category.
func (c *Catalog) Countries(category constants.Category) []string {
	var codes []string
	for code, list := range c.entries[category] {
		if len(list) > 0 {
			codes = append(codes, code)
		}
	}
	slices.Sort(codes)
	return codes
}
