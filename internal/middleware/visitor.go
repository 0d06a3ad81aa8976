package middleware

import (
	"strings"

	"github.com/gofiber/fiber/v3"
	"github.com/gofiber/fiber/v3/middleware/session"
	"github.com/google/uuid"

	"linkchecker/internal/config"
)

// Session and locals keys shared with the auth handlers.
const (
	SessionUserSub       = "user_sub"
	SessionVisitorID     = "visitor_id"
	SessionRedirectAfter = "redirect_after_login"

	LocalsVisitor = "visitor"
)

// VisitorMiddleware resolves which crawl history a request works on.
type VisitorMiddleware struct {
	cfg *config.Config
}

// NewVisitorMiddleware creates a new visitor middleware instance.
func NewVisitorMiddleware(cfg *config.Config) *VisitorMiddleware {
	return &VisitorMiddleware{cfg: cfg}
}

// Identify stores the visitor key in the request locals. Logged-in users are
// keyed by their OIDC subject, everyone else by a random id kept in the
// session.
func (m *VisitorMiddleware) Identify(c fiber.Ctx) error {
	sess := session.FromContext(c)
	if sess == nil {
		return fiber.NewError(fiber.StatusInternalServerError, "session not available")
	}

	if sub, ok := sess.Get(SessionUserSub).(string); ok && sub != "" {
		c.Locals(LocalsVisitor, "user:"+sub)
		return c.Next()
	}

	id, ok := sess.Get(SessionVisitorID).(string)
	if !ok || id == "" {
		id = uuid.NewString()
		sess.Set(SessionVisitorID, id)
	}
	c.Locals(LocalsVisitor, "anon:"+id)
	return c.Next()
}

// RequireAuth redirects anonymous visitors to /login when login is
// required and OIDC is configured. API requests get a 401 instead.
// Otherwise it is a pass-through.
func (m *VisitorMiddleware) RequireAuth(c fiber.Ctx) error {
	if !m.cfg.RequireLogin || !m.cfg.IsOIDCEnabled() || IsLoggedIn(c) {
		return c.Next()
	}

	if strings.HasPrefix(c.Path(), "/api/") {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
			"status": "error",
			"error":  "unauthorized",
		})
	}

	if sess := session.FromContext(c); sess != nil && c.Method() == fiber.MethodGet {
		sess.Set(SessionRedirectAfter, c.OriginalURL())
	}
	return c.Redirect().To("/login")
}

// IsLoggedIn reports whether the request carries an OIDC login.
func IsLoggedIn(c fiber.Ctx) bool {
	sess := session.FromContext(c)
	if sess == nil {
		return false
	}
	sub, ok := sess.Get(SessionUserSub).(string)
	return ok && sub != ""
}

// VisitorFrom returns the key set by Identify, or "" outside it.
func VisitorFrom(c fiber.Ctx) string {
	v, _ := c.Locals(LocalsVisitor).(string)
	return v
}
