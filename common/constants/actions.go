package constants

// ActionType defines the kind of background work tracked by the work manager.
type ActionType string

const (
	// ScrapeAllAction scrapes every known country for one category.
	ScrapeAllAction ActionType = "scrape-all"
)

// WorkID builds the work manager key for an action on a category.
func WorkID(action ActionType, c Category) string {
	return string(action) + ":" + string(c)
}
