package leads

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/wolfman30/leadflow/internal/tenancy"
	"github.com/wolfman30/leadflow/pkg/logging"
)

func listRequest(t *testing.T, campaignID, query string) *http.Request {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, "/campaigns/"+campaignID+"/leads"+query, nil)
	ctx := tenancy.WithOrgID(req.Context(), "org-1")
	rctx := chi.NewRouteContext()
	rctx.URLParams.Add("campaignID", campaignID)
	return req.WithContext(context.WithValue(ctx, chi.RouteCtxKey, rctx))
}

func TestHandlerList(t *testing.T) {
	store, c, _ := setup(t)
	handler := NewHandler(store, logging.Default())

	if _, err := store.CreateBatch(context.Background(), "org-1", c.ID, []Candidate{
		{ClientName: "Ada"}, {ClientName: "Grace"},
	}); err != nil {
		t.Fatal(err)
	}

	w := httptest.NewRecorder()
	handler.List(w, listRequest(t, c.ID, ""))

	if w.Code != http.StatusOK {
		t.Fatalf("expected status %d, got %d", http.StatusOK, w.Code)
	}
	var resp ListResponse
	if err := json.NewDecoder(w.Body).Decode(&resp); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if resp.Count != 2 {
		t.Errorf("Count = %d, want 2", resp.Count)
	}
}

func TestHandlerListUnknownCampaign(t *testing.T) {
	store, _, _ := setup(t)
	handler := NewHandler(store, logging.Default())

	w := httptest.NewRecorder()
	handler.List(w, listRequest(t, "ghost", ""))

	if w.Code != http.StatusNotFound {
		t.Fatalf("expected status %d, got %d", http.StatusNotFound, w.Code)
	}
}

func TestHandlerListBadStatusFilter(t *testing.T) {
	store, c, _ := setup(t)
	handler := NewHandler(store, logging.Default())

	w := httptest.NewRecorder()
	handler.List(w, listRequest(t, c.ID, "?status=sizzling"))

	if w.Code != http.StatusBadRequest {
		t.Fatalf("expected status %d, got %d", http.StatusBadRequest, w.Code)
	}
}
