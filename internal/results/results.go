// Package results derives the displayable subset of a crawl's link records.
package results

import (
	"strings"

	"linkchecker/internal/models"
)

// Filter selects records by health.
type Filter string

const (
	FilterAll    Filter = "all"
	FilterBroken Filter = "broken"
	FilterOK     Filter = "ok"
)

// ParseFilter maps a query value to a Filter. Unknown values mean FilterAll.
func ParseFilter(s string) Filter {
	switch Filter(strings.ToLower(strings.TrimSpace(s))) {
	case FilterBroken:
		return FilterBroken
	case FilterOK:
		return FilterOK
	default:
		return FilterAll
	}
}

// View is the projection of a session's records. Counts are taken over the
// unfiltered records.
type View struct {
	Records      []models.LinkRecord
	Filter       Filter
	SearchTerm   string
	Total        int
	WorkingCount int
	BrokenCount  int
}

// Empty reports whether no record survived the projection.
func (v View) Empty() bool {
	return len(v.Records) == 0
}

// Project keeps records passing the status filter and, when searchTerm is not
// empty, whose URL or source URL contains it (case-insensitive). Order is kept.
func Project(records []models.LinkRecord, filter Filter, searchTerm string) View {
	v := View{
		Records:    make([]models.LinkRecord, 0, len(records)),
		Filter:     filter,
		SearchTerm: searchTerm,
		Total:      len(records),
	}

	term := strings.ToLower(searchTerm)
	for _, r := range records {
		if r.OK {
			v.WorkingCount++
		} else {
			v.BrokenCount++
		}

		if !matchesFilter(r, filter) {
			continue
		}
		if term != "" && !matchesSearch(r, term) {
			continue
		}
		v.Records = append(v.Records, r)
	}

	return v
}

func matchesFilter(r models.LinkRecord, filter Filter) bool {
	switch filter {
	case FilterBroken:
		return !r.OK
	case FilterOK:
		return r.OK
	default:
		return true
	}
}

func matchesSearch(r models.LinkRecord, lowerTerm string) bool {
	return strings.Contains(strings.ToLower(r.URL), lowerTerm) ||
		strings.Contains(strings.ToLower(r.SourceURL), lowerTerm)
}
