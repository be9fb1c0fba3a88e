package campaigns

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/wolfman30/leadflow/internal/tenancy"
	"github.com/wolfman30/leadflow/pkg/logging"
)

// Handler handles HTTP requests for campaigns.
type Handler struct {
	repo     Repository
	overview OverviewSource
	logger   *logging.Logger
}

// NewHandler creates a new campaigns handler. overview may be the
// repository itself or a cache wrapped around it.
func NewHandler(repo Repository, overview OverviewSource, logger *logging.Logger) *Handler {
	if overview == nil {
		overview = repo
	}
	if logger == nil {
		logger = logging.Default()
	}
	return &Handler{repo: repo, overview: overview, logger: logger}
}

// List handles GET /campaigns.
func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	orgID, ok := tenancy.OrgIDFromContext(r.Context())
	if !ok {
		http.Error(w, "missing org context", http.StatusBadRequest)
		return
	}

	filter := ListFilter{
		Status: Status(r.URL.Query().Get("status")),
		Method: Method(r.URL.Query().Get("method")),
		Search: r.URL.Query().Get("search"),
	}
	if filter.Status != "" && !filter.Status.Valid() {
		http.Error(w, "unknown status filter", http.StatusBadRequest)
		return
	}
	if filter.Method != "" && !filter.Method.Valid() {
		http.Error(w, "unknown method filter", http.StatusBadRequest)
		return
	}

	campaigns, err := h.repo.List(r.Context(), orgID, filter)
	if err != nil {
		h.logger.Error("failed to list campaigns", "error", err, "org_id", orgID)
		http.Error(w, "failed to list campaigns", http.StatusInternalServerError)
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"campaigns": campaigns,
		"count":     len(campaigns),
	})
}

// Create handles POST /campaigns.
func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	var req CreateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid request body", http.StatusBadRequest)
		return
	}

	orgID, ok := tenancy.OrgIDFromContext(r.Context())
	if !ok {
		http.Error(w, "missing org context", http.StatusBadRequest)
		return
	}
	req.OrgID = orgID

	campaign, err := h.repo.Create(r.Context(), &req)
	if err != nil {
		h.respondError(w, "create campaign", err)
		return
	}

	h.logger.Info("campaign created", "id", campaign.ID, "name", campaign.Name, "method", campaign.Method)
	writeJSON(w, http.StatusCreated, campaign)
}

// Get handles GET /campaigns/{campaignID}.
func (h *Handler) Get(w http.ResponseWriter, r *http.Request) {
	orgID, id, ok := h.scope(w, r)
	if !ok {
		return
	}
	campaign, err := h.repo.GetByID(r.Context(), orgID, id)
	if err != nil {
		h.respondError(w, "get campaign", err)
		return
	}
	writeJSON(w, http.StatusOK, campaign)
}

// Update handles PATCH /campaigns/{campaignID}.
func (h *Handler) Update(w http.ResponseWriter, r *http.Request) {
	orgID, id, ok := h.scope(w, r)
	if !ok {
		return
	}
	var req UpdateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid request body", http.StatusBadRequest)
		return
	}
	campaign, err := h.repo.Update(r.Context(), orgID, id, &req)
	if err != nil {
		h.respondError(w, "update campaign", err)
		return
	}
	writeJSON(w, http.StatusOK, campaign)
}

type statusRequest struct {
	Event Event `json:"event"`
}

// SetStatus handles POST /campaigns/{campaignID}/status.
func (h *Handler) SetStatus(w http.ResponseWriter, r *http.Request) {
	orgID, id, ok := h.scope(w, r)
	if !ok {
		return
	}
	var req statusRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.Event == "" {
		http.Error(w, "invalid request body", http.StatusBadRequest)
		return
	}
	campaign, err := h.repo.SetStatus(r.Context(), orgID, id, req.Event)
	if err != nil {
		h.respondError(w, "set campaign status", err)
		return
	}
	h.logger.Info("campaign status changed", "id", id, "event", req.Event, "status", campaign.Status)
	writeJSON(w, http.StatusOK, campaign)
}

// Duplicate handles POST /campaigns/{campaignID}/duplicate.
func (h *Handler) Duplicate(w http.ResponseWriter, r *http.Request) {
	orgID, id, ok := h.scope(w, r)
	if !ok {
		return
	}
	campaign, err := h.repo.Duplicate(r.Context(), orgID, id)
	if err != nil {
		h.respondError(w, "duplicate campaign", err)
		return
	}
	writeJSON(w, http.StatusCreated, campaign)
}

// Delete handles DELETE /campaigns/{campaignID}.
func (h *Handler) Delete(w http.ResponseWriter, r *http.Request) {
	orgID, id, ok := h.scope(w, r)
	if !ok {
		return
	}
	if err := h.repo.Delete(r.Context(), orgID, id); err != nil {
		h.respondError(w, "delete campaign", err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// GetOverview handles GET /campaigns/overview.
func (h *Handler) GetOverview(w http.ResponseWriter, r *http.Request) {
	orgID, ok := tenancy.OrgIDFromContext(r.Context())
	if !ok {
		http.Error(w, "missing org context", http.StatusBadRequest)
		return
	}
	ov, err := h.overview.Overview(r.Context(), orgID)
	if err != nil {
		h.logger.Error("failed to load campaign overview", "error", err, "org_id", orgID)
		http.Error(w, "failed to load overview", http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusOK, ov)
}

type setAssigneesRequest struct {
	Assignees      []Assignee `json:"assignees"`
	AutoDistribute bool       `json:"auto_distribute"`
}

// SetAssignees handles PUT /campaigns/{campaignID}/assignees.
func (h *Handler) SetAssignees(w http.ResponseWriter, r *http.Request) {
	orgID, id, ok := h.scope(w, r)
	if !ok {
		return
	}
	var req setAssigneesRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid request body", http.StatusBadRequest)
		return
	}
	campaign, err := h.repo.SetAssignees(r.Context(), orgID, id, req.Assignees, req.AutoDistribute)
	if err != nil {
		h.respondError(w, "set assignees", err)
		return
	}
	h.respondWithAdvisory(w, campaign)
}

type percentageRequest struct {
	Percentage int `json:"percentage"`
}

// SetAssigneePercentage handles PATCH /campaigns/{campaignID}/assignees/{userRef}.
func (h *Handler) SetAssigneePercentage(w http.ResponseWriter, r *http.Request) {
	orgID, id, ok := h.scope(w, r)
	if !ok {
		return
	}
	userRef := chi.URLParam(r, "userRef")
	if userRef == "" {
		http.Error(w, "missing user ref", http.StatusBadRequest)
		return
	}
	var req percentageRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid request body", http.StatusBadRequest)
		return
	}
	campaign, err := h.repo.SetAssigneePercentage(r.Context(), orgID, id, userRef, req.Percentage)
	if err != nil {
		h.respondError(w, "set assignee percentage", err)
		return
	}
	h.respondWithAdvisory(w, campaign)
}

// respondWithAdvisory includes the imbalance warning so the UI can
// flag it without blocking the save.
func (h *Handler) respondWithAdvisory(w http.ResponseWriter, c *Campaign) {
	resp := map[string]any{"campaign": c}
	if imb := c.Imbalance(); imb != nil {
		resp["warning"] = imb.Error()
	}
	writeJSON(w, http.StatusOK, resp)
}

func (h *Handler) scope(w http.ResponseWriter, r *http.Request) (orgID, id string, ok bool) {
	orgID, present := tenancy.OrgIDFromContext(r.Context())
	if !present {
		http.Error(w, "missing org context", http.StatusBadRequest)
		return "", "", false
	}
	id = chi.URLParam(r, "campaignID")
	if id == "" {
		http.Error(w, "missing campaign id", http.StatusBadRequest)
		return "", "", false
	}
	return orgID, id, true
}

func (h *Handler) respondError(w http.ResponseWriter, op string, err error) {
	status := statusForError(err)
	if status == http.StatusInternalServerError {
		h.logger.Error("campaign operation failed", "op", op, "error", err)
		http.Error(w, "internal error", status)
		return
	}
	http.Error(w, err.Error(), status)
}

// statusForError maps domain errors onto HTTP status codes.
func statusForError(err error) int {
	switch {
	case errors.Is(err, ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, ErrInvalidTransition),
		errors.Is(err, ErrStructureLocked),
		errors.Is(err, ErrArchived),
		errors.Is(err, ErrNotIngestible):
		return http.StatusConflict
	case errors.Is(err, ErrPercentageImbalance):
		return http.StatusUnprocessableEntity
	case errors.Is(err, ErrMissingOrgID),
		errors.Is(err, ErrNameRequired),
		errors.Is(err, ErrInvalidMethod),
		errors.Is(err, ErrInvalidPriority),
		errors.Is(err, ErrInvalidAssignmentRule),
		errors.Is(err, ErrNegativeExpectedCount),
		errors.Is(err, ErrInvalidRole),
		errors.Is(err, ErrAssigneeNotFound):
		return http.StatusBadRequest
	}
	return http.StatusInternalServerError
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}
