package email

import (
	"fmt"
	"html"
	"strings"

	"linkchecker/internal/config"
	"linkchecker/internal/models"
)

// Templates provides email template generation.
type Templates struct {
	cfg *config.Config
}

// NewTemplates creates a new templates instance.
func NewTemplates(cfg *config.Config) *Templates {
	return &Templates{cfg: cfg}
}

// baseHTML wraps content in a consistent HTML email template.
func (t *Templates) baseHTML(title, content string) string {
	return fmt.Sprintf(`<!DOCTYPE html>
<html>
<head>
    <meta charset="utf-8">
    <title>%s</title>
    <style>
        body { font-family: -apple-system, BlinkMacSystemFont, 'Segoe UI', Roboto, sans-serif; line-height: 1.6; color: #333; max-width: 640px; margin: 0 auto; padding: 20px; }
        .header { background: #0f172a; color: white; padding: 20px; text-align: center; border-radius: 8px 8px 0 0; }
        .content { background: #f9fafb; padding: 20px; border: 1px solid #e5e7eb; }
        .footer { padding: 15px; text-align: center; font-size: 12px; color: #6b7280; }
        table { width: 100%%; border-collapse: collapse; font-size: 13px; }
        td, th { text-align: left; padding: 6px; border-bottom: 1px solid #e5e7eb; }
        .ok { color: #059669; }
        .broken { color: #dc2626; }
    </style>
</head>
<body>
    <div class="header"><h1>%s</h1></div>
    <div class="content">
        %s
    </div>
    <div class="footer">
        <p>This email was sent by %s</p>
        <p><a href="%s">%s</a></p>
    </div>
</body>
</html>`, html.EscapeString(title), html.EscapeString(t.cfg.SiteTitle), content, html.EscapeString(t.cfg.SiteTitle), t.cfg.BaseURL, t.cfg.BaseURL)
}

// CrawlReport generates the summary email for a completed crawl. Only broken
// links are listed.
func (t *Templates) CrawlReport(session models.CrawlSession) (subject, htmlBody, textBody string) {
	working, broken := session.WorkingCount(), session.BrokenCount()
	subject = fmt.Sprintf("[%s] %d broken links on %s", t.cfg.SiteTitle, broken, session.Host())

	viewURL := fmt.Sprintf("%s/?id=%s", strings.TrimRight(t.cfg.BaseURL, "/"), session.ID)

	var rows strings.Builder
	var text strings.Builder
	for _, r := range session.Results {
		if r.OK {
			continue
		}
		rows.WriteString(fmt.Sprintf(`<tr><td class="broken">%d</td><td>%s</td><td>%s</td></tr>`,
			r.Status, html.EscapeString(r.URL), html.EscapeString(r.SourceURL)))
		text.WriteString(fmt.Sprintf("  [%d] %s (found on %s)\n", r.Status, r.URL, r.SourceURL))
	}

	content := fmt.Sprintf(`
        <p>The crawl of <strong>%s</strong> finished on %s.</p>
        <p>Total: %d &middot; <span class="ok">Working: %d</span> &middot; <span class="broken">Broken: %d</span></p>`,
		html.EscapeString(session.URL), session.Date.UTC().Format("2006-01-02 15:04 MST"),
		len(session.Results), working, broken)

	if broken > 0 {
		content += fmt.Sprintf(`
        <table>
            <tr><th>Status</th><th>Link URL</th><th>Found On</th></tr>
            %s
        </table>`, rows.String())
	}
	content += fmt.Sprintf(`
        <p><a href="%s">View the full results</a></p>`, viewURL)

	htmlBody = t.baseHTML("Crawl report", content)

	textBody = fmt.Sprintf("The crawl of %s finished on %s.\n\nTotal: %d, working: %d, broken: %d\n\n%s\nView the full results: %s\n",
		session.URL, session.Date.UTC().Format("2006-01-02 15:04 MST"),
		len(session.Results), working, broken, text.String(), viewURL)

	return subject, htmlBody, textBody
}
