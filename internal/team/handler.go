package team

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/wolfman30/leadflow/internal/tenancy"
	"github.com/wolfman30/leadflow/pkg/logging"
)

// Handler serves the assignable-members read and write paths.
type Handler struct {
	repo   Repository
	logger *logging.Logger
}

func NewHandler(repo Repository, logger *logging.Logger) *Handler {
	if logger == nil {
		logger = logging.Default()
	}
	return &Handler{repo: repo, logger: logger}
}

// List handles GET /team/members.
func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	orgID, ok := tenancy.OrgIDFromContext(r.Context())
	if !ok {
		http.Error(w, "missing org context", http.StatusBadRequest)
		return
	}
	members, err := h.repo.List(r.Context(), orgID)
	if err != nil {
		h.logger.Error("failed to list team members", "error", err, "org_id", orgID)
		http.Error(w, "failed to list team members", http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"members": members,
		"count":   len(members),
	})
}

// Upsert handles PUT /team/members.
func (h *Handler) Upsert(w http.ResponseWriter, r *http.Request) {
	orgID, ok := tenancy.OrgIDFromContext(r.Context())
	if !ok {
		http.Error(w, "missing org context", http.StatusBadRequest)
		return
	}
	var m Member
	if err := json.NewDecoder(r.Body).Decode(&m); err != nil || m.DisplayName == "" {
		http.Error(w, "display_name is required", http.StatusBadRequest)
		return
	}
	m.OrgID = orgID
	if m.Role == "" {
		m.Role = "member"
	}
	if err := h.repo.Upsert(r.Context(), &m); err != nil {
		h.logger.Error("failed to save team member", "error", err, "org_id", orgID)
		http.Error(w, "failed to save team member", http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusOK, m)
}

// Delete handles DELETE /team/members/{memberID}.
func (h *Handler) Delete(w http.ResponseWriter, r *http.Request) {
	orgID, ok := tenancy.OrgIDFromContext(r.Context())
	if !ok {
		http.Error(w, "missing org context", http.StatusBadRequest)
		return
	}
	id := chi.URLParam(r, "memberID")
	if id == "" {
		http.Error(w, "missing member id", http.StatusBadRequest)
		return
	}
	if err := h.repo.Delete(r.Context(), orgID, id); err != nil {
		h.logger.Error("failed to delete team member", "error", err, "org_id", orgID)
		http.Error(w, "failed to delete team member", http.StatusInternalServerError)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
