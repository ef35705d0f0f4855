package models

type WorkResponse struct {
	ID      string `json:"id"`
	Running bool   `json:"running"`
}

// WorkListResponse lists the running work ids and, when this instance runs
// bulk scrapes, the state of its per-category pools.
type WorkListResponse struct {
	Works []string       `json:"works"`
	Pools map[string]any `json:"pools,omitempty"`
}
