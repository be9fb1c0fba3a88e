package team

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/wolfman30/leadflow/internal/tenancy"
	"github.com/wolfman30/leadflow/pkg/logging"
)

func TestHandlerList(t *testing.T) {
	repo := NewInMemoryRepository()
	if err := repo.Upsert(context.Background(), &Member{OrgID: "org-1", DisplayName: "Ada", Active: true}); err != nil {
		t.Fatal(err)
	}
	handler := NewHandler(repo, logging.Default())

	req := httptest.NewRequest(http.MethodGet, "/team/members", nil)
	req = req.WithContext(tenancy.WithOrgID(req.Context(), "org-1"))
	w := httptest.NewRecorder()
	handler.List(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("expected status %d, got %d", http.StatusOK, w.Code)
	}
	var resp struct {
		Members []Member `json:"members"`
		Count   int      `json:"count"`
	}
	if err := json.NewDecoder(w.Body).Decode(&resp); err != nil {
		t.Fatal(err)
	}
	if resp.Count != 1 || resp.Members[0].DisplayName != "Ada" {
		t.Errorf("unexpected response %+v", resp)
	}
}

func TestHandlerListMissingOrg(t *testing.T) {
	handler := NewHandler(NewInMemoryRepository(), logging.Default())
	w := httptest.NewRecorder()
	handler.List(w, httptest.NewRequest(http.MethodGet, "/team/members", nil))

	if w.Code != http.StatusBadRequest {
		t.Fatalf("expected status %d, got %d", http.StatusBadRequest, w.Code)
	}
}

func TestHandlerUpsertDefaultsRole(t *testing.T) {
	repo := NewInMemoryRepository()
	handler := NewHandler(repo, logging.Default())

	body, _ := json.Marshal(Member{DisplayName: "Grace"})
	req := httptest.NewRequest(http.MethodPut, "/team/members", bytes.NewReader(body))
	req = req.WithContext(tenancy.WithOrgID(req.Context(), "org-1"))
	w := httptest.NewRecorder()
	handler.Upsert(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("expected status %d, got %d", http.StatusOK, w.Code)
	}
	var m Member
	if err := json.NewDecoder(w.Body).Decode(&m); err != nil {
		t.Fatal(err)
	}
	if m.Role != "member" || m.OrgID != "org-1" {
		t.Errorf("unexpected member %+v", m)
	}
}
