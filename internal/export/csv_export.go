package export

import (
	"io"

	"github.com/gocarina/gocsv"

	"linkchecker/internal/models"
)

// LinkRow is one CSV line of an export.
type LinkRow struct {
	Status    int    `csv:"Status"`
	Result    string `csv:"Result"`
	URL       string `csv:"Link URL"`
	SourceURL string `csv:"Found On"`
}

type CSVExporter struct{}

func NewCSVExporter() Exporter {
	return &CSVExporter{}
}

func (e *CSVExporter) Export(w io.Writer, _ models.CrawlSession, records []models.LinkRecord) error {
	rows := make([]LinkRow, 0, len(records))
	for _, r := range records {
		result := "broken"
		if r.OK {
			result = "ok"
		}
		rows = append(rows, LinkRow{
			Status:    r.Status,
			Result:    result,
			URL:       r.URL,
			SourceURL: r.SourceURL,
		})
	}
	return gocsv.Marshal(&rows, w)
}

func (e *CSVExporter) ContentType() string { return "text/csv; charset=utf-8" }

func (e *CSVExporter) Extension() string { return "csv" }
