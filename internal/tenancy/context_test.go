package tenancy

import (
	"context"
	"testing"
)

func TestOrgIDRoundTrip(t *testing.T) {
	ctx := WithOrgID(context.Background(), "org-42")

	orgID, ok := OrgIDFromContext(ctx)
	if !ok || orgID != "org-42" {
		t.Fatalf("got (%q, %v), want (org-42, true)", orgID, ok)
	}
}

func TestOrgIDAbsent(t *testing.T) {
	if orgID, ok := OrgIDFromContext(context.Background()); ok {
		t.Fatalf("expected no org id, got %q", orgID)
	}
}

func TestWithOrgIDIgnoresEmpty(t *testing.T) {
	ctx := WithOrgID(context.Background(), "")
	if _, ok := OrgIDFromContext(ctx); ok {
		t.Fatalf("empty org id should not be attached")
	}
}

func TestWithOrgIDOverwrites(t *testing.T) {
	ctx := WithOrgID(WithOrgID(context.Background(), "org-a"), "org-b")
	orgID, _ := OrgIDFromContext(ctx)
	if orgID != "org-b" {
		t.Fatalf("got %q, want org-b", orgID)
	}
}
