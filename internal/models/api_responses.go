package models

import "time"

// CrawlSummary is a history entry without its link records.
type CrawlSummary struct {
	ID           string    `json:"id"`
	URL          string    `json:"url"`
	Host         string    `json:"host"`
	Date         time.Time `json:"date"`
	Total        int       `json:"total"`
	WorkingCount int       `json:"working_count"`
	BrokenCount  int       `json:"broken_count"`
}

// HistoryResponse lists a visitor's crawl history, most recent first.
type HistoryResponse struct {
	Sessions   []CrawlSummary `json:"sessions"`
	SelectedID string         `json:"selected_id,omitempty"`
}

// CrawlViewResponse contains a session and the filtered view of its records.
type CrawlViewResponse struct {
	ID           string       `json:"id"`
	URL          string       `json:"url"`
	Date         time.Time    `json:"date"`
	Filter       string       `json:"filter"`
	Search       string       `json:"search,omitempty"`
	Total        int          `json:"total"`
	WorkingCount int          `json:"working_count"`
	BrokenCount  int          `json:"broken_count"`
	Results      []LinkRecord `json:"results"`
}

// StateResponse describes what the visitor's workspace is doing.
type StateResponse struct {
	State     string `json:"state"`
	SessionID string `json:"session_id,omitempty"`
}
