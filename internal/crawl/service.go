// Package crawl runs crawls for a visitor and records them in the visitor's
// history.
package crawl

import (
	"context"
	"strings"
	"time"

	"linkchecker/internal/config"
	"linkchecker/internal/models"
)

// Service discovers the links reachable from a root URL.
type Service interface {
	Crawl(ctx context.Context, rootURL string) ([]models.LinkRecord, error)
}

// ServiceFunc adapts a function to a Service.
type ServiceFunc func(ctx context.Context, rootURL string) ([]models.LinkRecord, error)

// Crawl calls f.
func (f ServiceFunc) Crawl(ctx context.Context, rootURL string) ([]models.LinkRecord, error) {
	return f(ctx, rootURL)
}

// StubService pretends to crawl: it waits Delay and returns the fixtures with
// {root} replaced by the root URL. It never touches the network.
type StubService struct {
	Delay    time.Duration
	Fixtures []config.FixtureLink
}

// NewStubService creates a stub over the given fixtures, or the defaults when
// fixtures is empty.
func NewStubService(delay time.Duration, fixtures []config.FixtureLink) *StubService {
	if len(fixtures) == 0 {
		fixtures = config.DefaultFixtures()
	}
	return &StubService{Delay: delay, Fixtures: fixtures}
}

// Crawl returns the canned records for rootURL.
func (s *StubService) Crawl(ctx context.Context, rootURL string) ([]models.LinkRecord, error) {
	if s.Delay > 0 {
		timer := time.NewTimer(s.Delay)
		defer timer.Stop()

		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-timer.C:
		}
	}

	records := make([]models.LinkRecord, 0, len(s.Fixtures))
	for _, f := range s.Fixtures {
		records = append(records, models.NewLinkRecord(
			expand(f.URL, rootURL),
			expand(f.Source, rootURL),
			f.Status,
		))
	}
	return records, nil
}

func expand(template, root string) string {
	return strings.ReplaceAll(template, config.RootPlaceholder, root)
}
