package models

import (
	"net/url"
	"time"
)

// CrawlSession is one completed crawl as stored in history.
type CrawlSession struct {
	ID      string       `json:"id"`
	URL     string       `json:"url"`
	Date    time.Time    `json:"date"`
	Results []LinkRecord `json:"results"`
}

// Host returns the hostname of the crawled root URL, or the raw URL when it
// cannot be parsed.
func (s *CrawlSession) Host() string {
	u, err := url.Parse(s.URL)
	if err != nil || u.Hostname() == "" {
		return s.URL
	}
	return u.Hostname()
}

// WorkingCount returns the number of healthy links in the session.
func (s *CrawlSession) WorkingCount() int {
	n := 0
	for _, r := range s.Results {
		if r.OK {
			n++
		}
	}
	return n
}

// BrokenCount returns the number of broken links in the session.
func (s *CrawlSession) BrokenCount() int {
	return len(s.Results) - s.WorkingCount()
}

// Summary returns the list view of the session without its records.
func (s *CrawlSession) Summary() CrawlSummary {
	return CrawlSummary{
		ID:           s.ID,
		URL:          s.URL,
		Host:         s.Host(),
		Date:         s.Date,
		Total:        len(s.Results),
		WorkingCount: s.WorkingCount(),
		BrokenCount:  s.BrokenCount(),
	}
}
