package constants

import "strings"

// Category is one of the five information domains scraped and served.
type Category string

const (
	Visa       Category = "visa"
	Job        Category = "job"
	Housing    Category = "housing"
	Healthcare Category = "healthcare"
	Banking    Category = "banking"
)

// Categories lists every category in the order bulk runs process them.
var Categories = []Category{Visa, Job, Housing, Healthcare, Banking}

// ParseCategory normalizes s and reports whether it names a known category.
func ParseCategory(s string) (Category, bool) {
	c := Category(strings.ToLower(strings.TrimSpace(s)))
	for _, known := range Categories {
		if c == known {
			return c, true
		}
	}
	return "", false
}

func (c Category) String() string {
	return string(c)
}

// Table is the name of the table holding records of this category.
func (c Category) Table() string {
	return string(c) + "_info"
}

// GeneralLabel is assigned when no classification rule matches.
const GeneralLabel = "general"

// DefaultLanguage is stored on every extracted record.
const DefaultLanguage = "en"
