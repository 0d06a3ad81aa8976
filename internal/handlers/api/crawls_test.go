package api

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gofiber/fiber/v3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"linkchecker/internal/crawl"
	"linkchecker/internal/middleware"
	"linkchecker/internal/models"
	"linkchecker/internal/testutil"
)

type envelope[T any] struct {
	Status string `json:"status"`
	Data   T      `json:"data"`
	Error  string `json:"error"`
}

func newTestApp(ws *crawl.Workspaces) *fiber.App {
	h := NewCrawlHandler(ws, zap.NewNop())

	app := fiber.New()
	v1 := app.Group("/api/v1", func(c fiber.Ctx) error {
		c.Locals(middleware.LocalsVisitor, "anon:api-test")
		return c.Next()
	})
	v1.Get("/crawls", h.List)
	v1.Post("/crawls", h.Create)
	v1.Get("/crawls/:id", h.Get)
	v1.Post("/crawls/:id/select", h.Select)
	v1.Get("/state", h.State)
	return app
}

func call[T any](t *testing.T, app *fiber.App, method, target, body string) (int, envelope[T]) {
	t.Helper()

	var r io.Reader
	if body != "" {
		r = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, target, r)
	req.Header.Set("Content-Type", "application/json")

	resp, err := app.Test(req)
	require.NoError(t, err)

	var env envelope[T]
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&env))
	return resp.StatusCode, env
}

func TestCreate_RunsCrawlEndToEnd(t *testing.T) {
	ws, _ := testutil.NewWorkspaces(t)
	app := newTestApp(ws)

	status, env := call[models.CrawlViewResponse](t, app, http.MethodPost, "/api/v1/crawls", `{"url":"example.com"}`)
	require.Equal(t, fiber.StatusCreated, status)
	assert.Equal(t, "ok", env.Status)

	view := env.Data
	assert.NotEmpty(t, view.ID)
	assert.Equal(t, "https://example.com", view.URL)
	assert.Equal(t, "all", view.Filter)
	assert.Equal(t, 9, view.Total)
	assert.Equal(t, 5, view.WorkingCount)
	assert.Equal(t, 4, view.BrokenCount)
	require.Len(t, view.Results, 9)
	assert.Equal(t, "https://example.com/about", view.Results[0].URL)

	ok := 0
	for _, r := range view.Results {
		if r.OK {
			ok++
		}
	}
	assert.Equal(t, 5, ok)

	status, state := call[models.StateResponse](t, app, http.MethodGet, "/api/v1/state", "")
	require.Equal(t, fiber.StatusOK, status)
	assert.Equal(t, "viewing", state.Data.State)
	assert.Equal(t, view.ID, state.Data.SessionID)
}

func TestCreate_Errors(t *testing.T) {
	tests := []struct {
		name       string
		svc        crawl.Service
		body       string
		wantStatus int
	}{
		{"malformed body", crawl.NewStubService(0, nil), `{"url":`, fiber.StatusBadRequest},
		{"empty url", crawl.NewStubService(0, nil), `{"url":"   "}`, fiber.StatusBadRequest},
		{"crawl failure", crawl.ServiceFunc(func(context.Context, string) ([]models.LinkRecord, error) {
			return nil, errors.New("boom")
		}), `{"url":"example.com"}`, fiber.StatusBadGateway},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ws, _ := testutil.NewWorkspacesWith(t, tt.svc)
			app := newTestApp(ws)

			status, env := call[any](t, app, http.MethodPost, "/api/v1/crawls", tt.body)
			assert.Equal(t, tt.wantStatus, status)
			assert.Equal(t, "error", env.Status)
			assert.NotEmpty(t, env.Error)

			_, list := call[models.HistoryResponse](t, app, http.MethodGet, "/api/v1/crawls", "")
			assert.Empty(t, list.Data.Sessions)
		})
	}
}

func TestList_MostRecentFirst(t *testing.T) {
	ws, _ := testutil.NewWorkspaces(t)
	app := newTestApp(ws)

	_, first := call[models.CrawlViewResponse](t, app, http.MethodPost, "/api/v1/crawls", `{"url":"first.example"}`)
	_, second := call[models.CrawlViewResponse](t, app, http.MethodPost, "/api/v1/crawls", `{"url":"http://second.example"}`)

	status, env := call[models.HistoryResponse](t, app, http.MethodGet, "/api/v1/crawls", "")
	require.Equal(t, fiber.StatusOK, status)
	require.Len(t, env.Data.Sessions, 2)
	assert.Equal(t, second.Data.ID, env.Data.Sessions[0].ID)
	assert.Equal(t, "http://second.example", env.Data.Sessions[0].URL)
	assert.Equal(t, "second.example", env.Data.Sessions[0].Host)
	assert.Equal(t, first.Data.ID, env.Data.Sessions[1].ID)
	assert.Equal(t, second.Data.ID, env.Data.SelectedID)
}

func TestGet_ProjectsResults(t *testing.T) {
	ws, _ := testutil.NewWorkspaces(t)
	app := newTestApp(ws)

	_, created := call[models.CrawlViewResponse](t, app, http.MethodPost, "/api/v1/crawls", `{"url":"example.com"}`)
	id := created.Data.ID

	status, env := call[models.CrawlViewResponse](t, app, http.MethodGet, "/api/v1/crawls/"+id+"?filter=broken&q=EXTERNAL", "")
	require.Equal(t, fiber.StatusOK, status)
	assert.Equal(t, "broken", env.Data.Filter)
	assert.Equal(t, "EXTERNAL", env.Data.Search)
	assert.Equal(t, 9, env.Data.Total)
	require.Len(t, env.Data.Results, 2)
	assert.Equal(t, "https://external-site.com/resource", env.Data.Results[0].URL)
	assert.Equal(t, "https://broken-external.com", env.Data.Results[1].URL)

	status, _ = call[any](t, app, http.MethodGet, "/api/v1/crawls/unknown", "")
	assert.Equal(t, fiber.StatusNotFound, status)

	status, _ = call[any](t, app, http.MethodGet, "/api/v1/crawls/not_valid!", "")
	assert.Equal(t, fiber.StatusBadRequest, status)
}

func TestSelect(t *testing.T) {
	ws, _ := testutil.NewWorkspaces(t)
	app := newTestApp(ws)

	_, first := call[models.CrawlViewResponse](t, app, http.MethodPost, "/api/v1/crawls", `{"url":"first.example"}`)
	_, _ = call[models.CrawlViewResponse](t, app, http.MethodPost, "/api/v1/crawls", `{"url":"second.example"}`)

	status, env := call[models.StateResponse](t, app, http.MethodPost, "/api/v1/crawls/"+first.Data.ID+"/select", "")
	require.Equal(t, fiber.StatusOK, status)
	assert.Equal(t, "viewing", env.Data.State)
	assert.Equal(t, first.Data.ID, env.Data.SessionID)

	status, _ = call[any](t, app, http.MethodPost, "/api/v1/crawls/unknown/select", "")
	assert.Equal(t, fiber.StatusNotFound, status)

	_, state := call[models.StateResponse](t, app, http.MethodGet, "/api/v1/state", "")
	assert.Equal(t, first.Data.ID, state.Data.SessionID)
}

func TestState_IdleWithoutHistory(t *testing.T) {
	ws, _ := testutil.NewWorkspaces(t)
	app := newTestApp(ws)

	status, env := call[models.StateResponse](t, app, http.MethodGet, "/api/v1/state", "")
	require.Equal(t, fiber.StatusOK, status)
	assert.Equal(t, "idle", env.Data.State)
	assert.Empty(t, env.Data.SessionID)
}
