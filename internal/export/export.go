// Package export writes a crawl session's link records as downloadable files.
package export

import (
	"fmt"
	"io"
	"strings"

	"linkchecker/internal/models"
)

// Exporter writes records in one file format.
type Exporter interface {
	// Export writes the session's records to w.
	Export(w io.Writer, session models.CrawlSession, records []models.LinkRecord) error
	ContentType() string
	Extension() string
}

// ForFormat returns the exporter for "csv" or "json".
func ForFormat(format string) (Exporter, error) {
	switch strings.ToLower(format) {
	case "", "csv":
		return NewCSVExporter(), nil
	case "json":
		return NewJSONExporter(), nil
	default:
		return nil, fmt.Errorf("unsupported export format %q", format)
	}
}

// Filename builds the download name for a session export. The host part is
// reduced to [A-Za-z0-9.-] so it is safe inside a Content-Disposition header.
func Filename(session models.CrawlSession, e Exporter) string {
	return fmt.Sprintf("crawl-%s-%s.%s", filenameHost(session.Host()), session.Date.UTC().Format("20060102-150405"), e.Extension())
}

func filenameHost(host string) string {
	safe := strings.Map(func(r rune) rune {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9', r == '.', r == '-':
			return r
		}
		return '-'
	}, host)
	if strings.Trim(safe, ".-") == "" {
		return "site"
	}
	return safe
}
