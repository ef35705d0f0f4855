package models

import (
	"time"

	"github.com/samber/mo"
)

type ScrapeStatus string

const (
	ScrapeStatusSuccess ScrapeStatus = "success"
	ScrapeStatusError   ScrapeStatus = "error"
)

// ScrapeLog records one attempt at one source. Write-once.
type ScrapeLog struct {
	ID           int64             `json:"id,omitempty"`
	SourceName   string            `json:"source_name"`
	SourceURL    string            `json:"source_url"`
	Status       ScrapeStatus      `json:"status"`
	ItemsScraped int               `json:"items_scraped"`
	ErrorMessage mo.Option[string] `json:"error_message"`
	StartedAt    time.Time         `json:"started_at"`
	CompletedAt  time.Time         `json:"completed_at"`
}
