package crawl

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"linkchecker/internal/config"
)

func TestStubService_CannedResults(t *testing.T) {
	svc := NewStubService(0, nil)

	records, err := svc.Crawl(context.Background(), "https://example.com")
	require.NoError(t, err)
	require.Len(t, records, 9)

	ok := 0
	for _, r := range records {
		if r.OK {
			ok++
		}
	}
	assert.Equal(t, 5, ok)

	assert.Equal(t, "https://example.com/about", records[0].URL)
	assert.Equal(t, "https://example.com", records[0].SourceURL)
	assert.Equal(t, 200, records[0].Status)

	assert.Equal(t, "https://external-site.com/resource", records[6].URL)
	assert.Equal(t, "https://example.com/resources", records[6].SourceURL)
	assert.Equal(t, 500, records[6].Status)
	assert.False(t, records[6].OK)
}

func TestStubService_CustomFixtures(t *testing.T) {
	svc := NewStubService(0, []config.FixtureLink{
		{URL: "{root}/x", Source: "{root}", Status: 0},
	})

	records, err := svc.Crawl(context.Background(), "http://a.test")
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Equal(t, "http://a.test/x", records[0].URL)
	assert.False(t, records[0].OK)
}

func TestStubService_HonorsContext(t *testing.T) {
	svc := NewStubService(time.Hour, nil)
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Millisecond)
	defer cancel()

	_, err := svc.Crawl(ctx, "https://example.com")
	assert.ErrorIs(t, err, context.DeadlineExceeded)
}

func TestStubService_ReturnsFreshSlices(t *testing.T) {
	svc := NewStubService(0, nil)

	a, err := svc.Crawl(context.Background(), "https://a.test")
	require.NoError(t, err)
	a[0].URL = "mutated"

	b, err := svc.Crawl(context.Background(), "https://a.test")
	require.NoError(t, err)
	assert.Equal(t, "https://a.test/about", b[0].URL)
}
