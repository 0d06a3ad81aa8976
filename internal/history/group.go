package history

import "linkchecker/internal/models"

// DayGroup is the sidebar bucket of sessions crawled on one calendar day.
type DayGroup struct {
	Day      string
	Sessions []models.CrawlSummary
}

// GroupByDay buckets sessions by the UTC date they were crawled on, keeping
// the input order both across and within groups.
func GroupByDay(sessions []models.CrawlSession) []DayGroup {
	var groups []DayGroup
	index := make(map[string]int)

	for i := range sessions {
		day := sessions[i].Date.UTC().Format("2006-01-02")
		pos, ok := index[day]
		if !ok {
			pos = len(groups)
			index[day] = pos
			groups = append(groups, DayGroup{Day: day})
		}
		groups[pos].Sessions = append(groups[pos].Sessions, sessions[i].Summary())
	}

	return groups
}
