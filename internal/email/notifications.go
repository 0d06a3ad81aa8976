package email

import (
	"context"
	"strings"

	"go.uber.org/zap"

	"linkchecker/internal/config"
	"linkchecker/internal/models"
)

// Notifier emails a report after each crawl.
type Notifier struct {
	service    *Service
	templates  *Templates
	recipients []string
}

// NewNotifier creates a new email notifier.
func NewNotifier(cfg *config.Config, log *zap.Logger) *Notifier {
	return &Notifier{
		service:    NewService(cfg, log),
		templates:  NewTemplates(cfg),
		recipients: splitRecipients(cfg.ReportEmailTo),
	}
}

// Enabled reports whether reports will actually be sent.
func (n *Notifier) Enabled() bool {
	return n.service.IsEnabled() && len(n.recipients) > 0
}

// CrawlCompleted sends the crawl report in the background.
func (n *Notifier) CrawlCompleted(_ context.Context, session models.CrawlSession) {
	if !n.Enabled() {
		return
	}
	subject, htmlBody, textBody := n.templates.CrawlReport(session)
	n.service.SendAsync(n.recipients, subject, htmlBody, textBody)
}

func splitRecipients(list string) []string {
	var out []string
	for _, r := range strings.Split(list, ",") {
		if r = strings.TrimSpace(r); r != "" {
			out = append(out, r)
		}
	}
	return out
}
