package models

// ImportStats summarizes the outcome of a bulk member import. Per-row
// failures are tallied, not fatal to the batch.
type ImportStats struct {
	Total   int `json:"total"`
	Created int `json:"created"`
	Updated int `json:"updated"`
	Skipped int `json:"skipped"`
	Errors  int `json:"errors"`
}
