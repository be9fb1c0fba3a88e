package notify

import (
	"context"
	"fmt"
	"time"

	"github.com/wolfman30/leadflow/internal/importer"
	"github.com/wolfman30/leadflow/pkg/logging"
)

// Service sends operator notifications when bulk work finishes.
// Delivery is best-effort; a failed notification is logged and dropped,
// never propagated back into the operation that triggered it.
type Service struct {
	email     EmailSender
	recipient string
	timeout   time.Duration
	logger    *logging.Logger
}

// NewService creates a notification service. recipient may be empty to
// disable import notifications entirely.
func NewService(email EmailSender, recipient string, logger *logging.Logger) *Service {
	if logger == nil {
		logger = logging.Default()
	}
	return &Service{
		email:     email,
		recipient: recipient,
		timeout:   10 * time.Second,
		logger:    logger,
	}
}

// ImportCompleted emails the final counts of a bulk import.
func (s *Service) ImportCompleted(orgID, campaignName string, result *importer.Result) {
	if s == nil || s.email == nil || s.recipient == "" || result == nil {
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), s.timeout)
	defer cancel()

	subject := fmt.Sprintf("Import finished - %s", campaignName)
	body := fmt.Sprintf(`The lead import into %q has finished.

Created: %d
Errors:  %d
Skipped: %d

Org: %s`, campaignName, result.Created, result.Errors, result.Skipped, orgID)

	if err := s.email.Send(ctx, EmailMessage{
		To:      s.recipient,
		Subject: subject,
		Body:    body,
	}); err != nil {
		s.logger.Error("notify: import completion email failed", "error", err, "org_id", orgID)
		return
	}
	s.logger.Info("notify: import completion email sent", "org_id", orgID, "campaign", campaignName)
}

var _ importer.Completion = (*Service)(nil)
