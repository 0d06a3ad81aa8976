package export

import (
	"encoding/json"
	"io"

	"linkchecker/internal/models"
)

type JSONExporter struct{}

func NewJSONExporter() Exporter {
	return &JSONExporter{}
}

// Export writes the session header with the given records in place of its full
// result list.
func (e *JSONExporter) Export(w io.Writer, session models.CrawlSession, records []models.LinkRecord) error {
	out := session
	out.Results = records
	if out.Results == nil {
		out.Results = []models.LinkRecord{}
	}

	enc := json.NewEncoder(w)
	enc.SetIndent("", "    ")
	return enc.Encode(out)
}

func (e *JSONExporter) ContentType() string { return "application/json" }

func (e *JSONExporter) Extension() string { return "json" }
