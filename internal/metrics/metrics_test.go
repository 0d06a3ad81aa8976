package metrics

import (
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
)

type fixedStats struct{ visitors, sessions int }

func (f fixedStats) Stats() (int, int) { return f.visitors, f.sessions }

func TestRecordCrawl(t *testing.T) {
	before := testutil.ToFloat64(crawlsTotal.WithLabelValues(OutcomeFailed))

	RecordCrawl(OutcomeFailed, 150*time.Millisecond)
	RecordCrawl(OutcomeFailed, time.Second)

	after := testutil.ToFloat64(crawlsTotal.WithLabelValues(OutcomeFailed))
	if after-before != 2 {
		t.Errorf("failed crawls increased by %v, want 2", after-before)
	}
}

func TestWorkspaceCollector(t *testing.T) {
	c := &WorkspaceCollector{source: fixedStats{visitors: 3, sessions: 11}}

	reg := prometheus.NewRegistry()
	reg.MustRegister(c)

	expected := `
# HELP linkchecker_active_visitors Visitors with a loaded crawl history
# TYPE linkchecker_active_visitors gauge
linkchecker_active_visitors 3
# HELP linkchecker_history_sessions Crawl sessions held in loaded histories
# TYPE linkchecker_history_sessions gauge
linkchecker_history_sessions 11
`
	if err := testutil.GatherAndCompare(reg, strings.NewReader(expected)); err != nil {
		t.Error(err)
	}
}
