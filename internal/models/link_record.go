package models

// LinkRecord is one link discovered during a crawl.
// OK is fixed at crawl time from the status and never recomputed.
type LinkRecord struct {
	URL       string `json:"url"`
	SourceURL string `json:"sourceUrl"`
	Status    int    `json:"status"`
	OK        bool   `json:"ok"`
}

// IsHealthyStatus reports whether a status code counts as a working link.
// Status 0 means the link never answered.
func IsHealthyStatus(status int) bool {
	return status >= 200 && status < 400
}

// NewLinkRecord builds a record with OK derived from the status.
func NewLinkRecord(url, sourceURL string, status int) LinkRecord {
	return LinkRecord{
		URL:       url,
		SourceURL: sourceURL,
		Status:    status,
		OK:        IsHealthyStatus(status),
	}
}
