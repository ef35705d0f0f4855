package messaging

import (
	"time"

	"github.com/bpresles/CasaNova/common/constants"
)

// ScrapeCompletedEvent is published once a country scrape for a category finished.
type ScrapeCompletedEvent struct {
	Category   constants.Category `json:"category"`
	Country    string             `json:"country"`
	Items      int                `json:"items"`
	Sources    int                `json:"sources"`
	Errors     int                `json:"errors"`
	FinishedAt time.Time          `json:"finished_at"`
}
