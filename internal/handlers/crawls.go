package handlers

import (
	"bytes"
	"errors"

	"github.com/gofiber/fiber/v3"
	"go.uber.org/zap"

	"linkchecker/internal/config"
	"linkchecker/internal/crawl"
	"linkchecker/internal/export"
	"linkchecker/internal/history"
	"linkchecker/internal/middleware"
	"linkchecker/internal/models"
	"linkchecker/internal/results"
	"linkchecker/internal/validation"
)

// CrawlHandler serves the link checker pages.
type CrawlHandler struct {
	workspaces *crawl.Workspaces
	cfg        *config.Config
	log        *zap.Logger
}

// NewCrawlHandler creates a new crawl handler.
func NewCrawlHandler(workspaces *crawl.Workspaces, cfg *config.Config, log *zap.Logger) *CrawlHandler {
	return &CrawlHandler{workspaces: workspaces, cfg: cfg, log: log}
}

// workspace returns the visitor's orchestrator. ref is only honored when the
// history is loaded for the first time.
func (h *CrawlHandler) workspace(c fiber.Ctx, ref string) (*crawl.Orchestrator, error) {
	visitor := middleware.VisitorFrom(c)
	o, err := h.workspaces.Get(c.Context(), visitor, ref)
	if err != nil {
		h.log.Error("failed to load crawl history", zap.String("visitor", visitor), zap.Error(err))
		return nil, fiber.NewError(fiber.StatusServiceUnavailable, "crawl history is unavailable")
	}
	return o, nil
}

// pageData builds the template data for the sidebar and workspace. session
// is nil when nothing is selected.
func (h *CrawlHandler) pageData(c fiber.Ctx, o *crawl.Orchestrator, session *models.CrawlSession, filter results.Filter, search string) fiber.Map {
	data := fiber.Map{
		"Groups":     history.GroupByDay(o.History().Sessions()),
		"Crawling":   o.State().Phase == crawl.PhaseCrawling,
		"Filter":     string(filter),
		"Search":     search,
		"SelectedID": "",
	}
	if session != nil {
		data["Session"] = session
		data["SelectedID"] = session.ID
		data["Title"] = session.Host()
		data["View"] = results.Project(session.Results, filter, search)
	}
	return MergeLayout(c, data, h.cfg)
}

// Index renders the checker page. ?id= selects a past crawl; an unknown id
// renders the empty workspace without touching the current selection.
func (h *CrawlHandler) Index(c fiber.Ctx) error {
	ref := c.Query("id")
	o, err := h.workspace(c, ref)
	if err != nil {
		return err
	}

	var session *models.CrawlSession
	if ref != "" {
		if validation.ValidateSessionID(ref) && o.View(ref) {
			if s, ok := o.History().Get(ref); ok {
				session = &s
			}
		}
	} else if s, ok := o.History().Selected(); ok {
		session = &s
	}

	return c.Render("index", h.pageData(c, o, session, results.ParseFilter(c.Query("filter")), c.Query("q")))
}

// Submit runs a crawl for the posted url and shows its results.
func (h *CrawlHandler) Submit(c fiber.Ctx) error {
	o, err := h.workspace(c, "")
	if err != nil {
		return err
	}

	session, err := o.Submit(c.Context(), c.FormValue("url"))
	switch {
	case errors.Is(err, crawl.ErrEmptyURL):
		return c.SendStatus(fiber.StatusNoContent)
	case errors.Is(err, crawl.ErrCrawlInProgress):
		if isHTMX(c) {
			return htmxCrawlError(c, "A crawl is already running. Wait for it to finish.")
		}
		return fiber.NewError(fiber.StatusConflict, "a crawl is already running")
	case err != nil:
		if isHTMX(c) {
			return htmxCrawlError(c, "The crawl failed. Please try again.")
		}
		return fiber.NewError(fiber.StatusBadGateway, "the crawl failed")
	}

	viewURL := "/?id=" + session.ID
	if !isHTMX(c) {
		return c.Redirect().To(viewURL)
	}

	c.Set("HX-Push-Url", viewURL)
	return c.Render("partials/app", h.pageData(c, o, &session, results.FilterAll, ""), "")
}

// Results renders the filtered result table of one crawl for HTMX.
func (h *CrawlHandler) Results(c fiber.Ctx) error {
	o, err := h.workspace(c, "")
	if err != nil {
		return err
	}

	session, ok := o.History().Get(c.Query("id"))
	if !ok {
		return fiber.NewError(fiber.StatusNotFound, "crawl not found")
	}

	search := c.Query("q")
	return c.Render("partials/results", fiber.Map{
		"View":   results.Project(session.Results, results.ParseFilter(c.Query("filter")), search),
		"Search": search,
	}, "")
}

// Export downloads a crawl's records, narrowed by the same filter and search
// as the results table.
func (h *CrawlHandler) Export(c fiber.Ctx) error {
	o, err := h.workspace(c, "")
	if err != nil {
		return err
	}

	id := c.Params("id")
	if !validation.ValidateSessionID(id) {
		return fiber.NewError(fiber.StatusBadRequest, "invalid crawl id")
	}
	session, ok := o.History().Get(id)
	if !ok {
		return fiber.NewError(fiber.StatusNotFound, "crawl not found")
	}

	exporter, err := export.ForFormat(c.Query("format"))
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, err.Error())
	}

	view := results.Project(session.Results, results.ParseFilter(c.Query("filter")), c.Query("q"))

	var buf bytes.Buffer
	if err := exporter.Export(&buf, session, view.Records); err != nil {
		h.log.Error("export failed", zap.String("session_id", id), zap.Error(err))
		return fiber.NewError(fiber.StatusInternalServerError, "export failed")
	}

	c.Attachment(export.Filename(session, exporter))
	c.Set(fiber.HeaderContentType, exporter.ContentType())
	return c.Send(buf.Bytes())
}
