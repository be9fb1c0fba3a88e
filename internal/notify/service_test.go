package notify

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/wolfman30/leadflow/internal/importer"
	"github.com/wolfman30/leadflow/pkg/logging"
)

type fakeSender struct {
	sent []EmailMessage
	err  error
}

func (f *fakeSender) Send(ctx context.Context, msg EmailMessage) error {
	if f.err != nil {
		return f.err
	}
	f.sent = append(f.sent, msg)
	return nil
}

func TestImportCompleted(t *testing.T) {
	sender := &fakeSender{}
	svc := NewService(sender, "ops@example.com", logging.Default())

	svc.ImportCompleted("org-1", "Trade Show", &importer.Result{Created: 45, Errors: 5, Skipped: 2})

	if len(sender.sent) != 1 {
		t.Fatalf("sent = %d, want 1", len(sender.sent))
	}
	msg := sender.sent[0]
	if msg.To != "ops@example.com" {
		t.Errorf("To = %q", msg.To)
	}
	if !strings.Contains(msg.Subject, "Trade Show") {
		t.Errorf("subject %q does not name the campaign", msg.Subject)
	}
	for _, want := range []string{"Created: 45", "Errors:  5", "Skipped: 2"} {
		if !strings.Contains(msg.Body, want) {
			t.Errorf("body missing %q:\n%s", want, msg.Body)
		}
	}
}

func TestImportCompletedNoRecipient(t *testing.T) {
	sender := &fakeSender{}
	svc := NewService(sender, "", logging.Default())

	svc.ImportCompleted("org-1", "Trade Show", &importer.Result{Created: 1})

	if len(sender.sent) != 0 {
		t.Errorf("sent = %d, want 0", len(sender.sent))
	}
}

func TestImportCompletedSendFailureIsSwallowed(t *testing.T) {
	svc := NewService(&fakeSender{err: errors.New("smtp down")}, "ops@example.com", logging.Default())
	// must not panic or propagate
	svc.ImportCompleted("org-1", "Trade Show", &importer.Result{Created: 1})
}
