package api

import (
	"encoding/json"
	"errors"

	"github.com/gofiber/fiber/v3"
	"go.uber.org/zap"

	"linkchecker/internal/crawl"
	"linkchecker/internal/middleware"
	"linkchecker/internal/models"
	"linkchecker/internal/results"
	"linkchecker/internal/validation"
)

// CrawlHandler exposes a visitor's crawl workspace as JSON.
type CrawlHandler struct {
	workspaces *crawl.Workspaces
	log        *zap.Logger
}

// NewCrawlHandler creates a new API crawl handler.
func NewCrawlHandler(workspaces *crawl.Workspaces, log *zap.Logger) *CrawlHandler {
	return &CrawlHandler{workspaces: workspaces, log: log}
}

func (h *CrawlHandler) workspace(c fiber.Ctx) (*crawl.Orchestrator, error) {
	visitor := middleware.VisitorFrom(c)
	o, err := h.workspaces.Get(c.Context(), visitor, "")
	if err != nil {
		h.log.Error("failed to load crawl history", zap.String("visitor", visitor), zap.Error(err))
		return nil, err
	}
	return o, nil
}

// List returns the crawl history, most recent first.
func (h *CrawlHandler) List(c fiber.Ctx) error {
	o, err := h.workspace(c)
	if err != nil {
		return jsonError(c, fiber.StatusServiceUnavailable, "crawl history is unavailable")
	}

	sessions := o.History().Sessions()
	resp := models.HistoryResponse{
		Sessions:   make([]models.CrawlSummary, 0, len(sessions)),
		SelectedID: o.History().SelectedID(),
	}
	for i := range sessions {
		resp.Sessions = append(resp.Sessions, sessions[i].Summary())
	}

	return jsonSuccess(c, resp)
}

// Create runs a crawl and returns the recorded session.
func (h *CrawlHandler) Create(c fiber.Ctx) error {
	var body struct {
		URL string `json:"url"`
	}
	if err := json.Unmarshal(c.Body(), &body); err != nil {
		return jsonError(c, fiber.StatusBadRequest, "invalid request body")
	}

	o, err := h.workspace(c)
	if err != nil {
		return jsonError(c, fiber.StatusServiceUnavailable, "crawl history is unavailable")
	}

	session, err := o.Submit(c.Context(), body.URL)
	switch {
	case errors.Is(err, crawl.ErrEmptyURL):
		return jsonError(c, fiber.StatusBadRequest, "url is required")
	case errors.Is(err, crawl.ErrCrawlInProgress):
		return jsonError(c, fiber.StatusConflict, "a crawl is already running")
	case err != nil:
		return jsonError(c, fiber.StatusBadGateway, "the crawl failed")
	}

	return jsonCreated(c, toView(session, results.FilterAll, ""))
}

// Get returns one session with its records narrowed by ?filter= and ?q=.
func (h *CrawlHandler) Get(c fiber.Ctx) error {
	id := c.Params("id")
	if !validation.ValidateSessionID(id) {
		return jsonError(c, fiber.StatusBadRequest, "invalid crawl id")
	}

	o, err := h.workspace(c)
	if err != nil {
		return jsonError(c, fiber.StatusServiceUnavailable, "crawl history is unavailable")
	}

	session, ok := o.History().Get(id)
	if !ok {
		return jsonError(c, fiber.StatusNotFound, "crawl not found")
	}

	return jsonSuccess(c, toView(session, results.ParseFilter(c.Query("filter")), c.Query("q")))
}

// Select makes a past session the one being viewed.
func (h *CrawlHandler) Select(c fiber.Ctx) error {
	id := c.Params("id")
	if !validation.ValidateSessionID(id) {
		return jsonError(c, fiber.StatusBadRequest, "invalid crawl id")
	}

	o, err := h.workspace(c)
	if err != nil {
		return jsonError(c, fiber.StatusServiceUnavailable, "crawl history is unavailable")
	}

	if !o.View(id) {
		return jsonError(c, fiber.StatusNotFound, "crawl not found")
	}

	return jsonSuccess(c, stateResponse(o.State()))
}

// State reports whether the workspace is idle, crawling or viewing a session.
func (h *CrawlHandler) State(c fiber.Ctx) error {
	o, err := h.workspace(c)
	if err != nil {
		return jsonError(c, fiber.StatusServiceUnavailable, "crawl history is unavailable")
	}

	return jsonSuccess(c, stateResponse(o.State()))
}

func toView(session models.CrawlSession, filter results.Filter, search string) models.CrawlViewResponse {
	view := results.Project(session.Results, filter, search)
	return models.CrawlViewResponse{
		ID:           session.ID,
		URL:          session.URL,
		Date:         session.Date,
		Filter:       string(view.Filter),
		Search:       view.SearchTerm,
		Total:        view.Total,
		WorkingCount: view.WorkingCount,
		BrokenCount:  view.BrokenCount,
		Results:      view.Records,
	}
}

func stateResponse(s crawl.State) models.StateResponse {
	return models.StateResponse{
		State:     s.Phase.String(),
		SessionID: s.SessionID,
	}
}
