package handlers

import (
	"html"

	"github.com/gofiber/fiber/v3"
)

// isHTMX reports whether the request was issued by HTMX.
func isHTMX(c fiber.Ctx) bool {
	return c.Get("HX-Request") == "true"
}

// htmxError returns an error message as HTML that HTMX will display.
// Uses 200 status so HTMX processes the swap (HTMX ignores non-2xx by default).
func htmxError(c fiber.Ctx, message string) error {
	return c.SendString(
		`<div class="p-3 rounded-lg bg-red-50 text-red-700 text-sm">` + html.EscapeString(message) + `</div>`,
	)
}

// htmxCrawlError swaps message into the crawl form's error slot instead of
// the request's own target.
func htmxCrawlError(c fiber.Ctx, message string) error {
	c.Set("HX-Retarget", "#crawl-error")
	c.Set("HX-Reswap", "innerHTML")
	return htmxError(c, message)
}
