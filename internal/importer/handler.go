package importer

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/gorilla/websocket"

	"github.com/wolfman30/leadflow/internal/campaigns"
	"github.com/wolfman30/leadflow/internal/leads"
	"github.com/wolfman30/leadflow/internal/tenancy"
	"github.com/wolfman30/leadflow/pkg/logging"
)

// Completion is notified after a bulk import finishes. Implementations
// must be best-effort; a notification failure never fails the import.
type Completion interface {
	ImportCompleted(orgID, campaignName string, result *Result)
}

// Handler exposes the import pipeline over HTTP and WebSocket.
type Handler struct {
	importer *Importer
	notify   Completion
	logger   *logging.Logger
	upgrader websocket.Upgrader
}

// NewHandler creates an import handler. notify may be nil.
func NewHandler(importer *Importer, notify Completion, logger *logging.Logger) *Handler {
	if logger == nil {
		logger = logging.Default()
	}
	return &Handler{
		importer: importer,
		notify:   notify,
		logger:   logger,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin:     func(*http.Request) bool { return true },
		},
	}
}

type importRequest struct {
	Payload   string           `json:"payload"`
	Mapping   map[Field]string `json:"mapping"`
	BatchSize int              `json:"batch_size"`
}

// candidates parses the payload, applies the proposed mapping plus any
// caller overrides, and normalizes every data row.
func (req importRequest) candidates() []leads.Candidate {
	table := ParseTabular(req.Payload)
	mapping := MapColumns(table.Headers).Merge(req.Mapping)
	out := make([]leads.Candidate, 0, len(table.Rows))
	for _, row := range table.Rows {
		out = append(out, Normalize(row, mapping))
	}
	return out
}

// ImportTabular handles POST /campaigns/{campaignID}/import.
func (h *Handler) ImportTabular(w http.ResponseWriter, r *http.Request) {
	orgID, campaignID, ok := h.scope(w, r)
	if !ok {
		return
	}

	var req importRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.Payload == "" {
		http.Error(w, "payload is required", http.StatusBadRequest)
		return
	}

	result, err := h.importer.Run(r.Context(), orgID, campaignID, req.candidates(), Options{BatchSize: req.BatchSize})
	if err != nil {
		h.respondError(w, err)
		return
	}

	h.notifyCompleted(orgID, result)
	writeJSON(w, http.StatusOK, result)
}

// Preview handles POST /import/preview: it proposes a column mapping
// and reports how many rows would be skipped, without ingesting
// anything.
func (h *Handler) Preview(w http.ResponseWriter, r *http.Request) {
	var req importRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.Payload == "" {
		http.Error(w, "payload is required", http.StatusBadRequest)
		return
	}

	table := ParseTabular(req.Payload)
	mapping := MapColumns(table.Headers).Merge(req.Mapping)

	skipped := 0
	for _, row := range table.Rows {
		if !Normalize(row, mapping).Identified() {
			skipped++
		}
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"headers":    table.Headers,
		"mapping":    mapping,
		"total_rows": len(table.Rows),
		"importable": len(table.Rows) - skipped,
		"skipped":    skipped,
	})
}

// AddLead handles POST /campaigns/{campaignID}/leads, the manual
// single-record entry point. It is the degenerate case of the bulk
// pipeline with one candidate and a batch size of one.
func (h *Handler) AddLead(w http.ResponseWriter, r *http.Request) {
	orgID, campaignID, ok := h.scope(w, r)
	if !ok {
		return
	}

	var entry ManualEntry
	if err := json.NewDecoder(r.Body).Decode(&entry); err != nil {
		http.Error(w, "invalid request body", http.StatusBadRequest)
		return
	}

	candidate := FromManualEntry(entry)
	if !candidate.Identified() {
		http.Error(w, "a client name or an email is required", http.StatusUnprocessableEntity)
		return
	}

	result, err := h.importer.Run(r.Context(), orgID, campaignID, []leads.Candidate{candidate}, Options{BatchSize: 1})
	if err != nil {
		h.respondError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, result)
}

type wsFrame struct {
	Type     string    `json:"type"` // "progress", "done", "error"
	Progress *Progress `json:"progress,omitempty"`
	Result   *Result   `json:"result,omitempty"`
	Message  string    `json:"message,omitempty"`
}

// StreamImport handles GET /campaigns/{campaignID}/import/ws. The
// client sends one import request frame; the server streams a progress
// frame per chunk and closes with a done or error frame.
func (h *Handler) StreamImport(w http.ResponseWriter, r *http.Request) {
	orgID, campaignID, ok := h.scope(w, r)
	if !ok {
		return
	}

	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.logger.Error("websocket upgrade failed", "error", err, "campaign_id", campaignID)
		return
	}
	defer conn.Close()

	var req importRequest
	if err := conn.ReadJSON(&req); err != nil || req.Payload == "" {
		_ = conn.WriteJSON(wsFrame{Type: "error", Message: "payload is required"})
		return
	}

	opts := Options{
		BatchSize: req.BatchSize,
		OnProgress: func(p Progress) {
			_ = conn.WriteJSON(wsFrame{Type: "progress", Progress: &p})
		},
	}
	result, err := h.importer.Run(r.Context(), orgID, campaignID, req.candidates(), opts)
	if err != nil {
		_ = conn.WriteJSON(wsFrame{Type: "error", Message: err.Error()})
		return
	}

	h.notifyCompleted(orgID, result)
	_ = conn.WriteJSON(wsFrame{Type: "done", Result: result})
}

func (h *Handler) notifyCompleted(orgID string, result *Result) {
	if h.notify == nil || result.Campaign == nil {
		return
	}
	h.notify.ImportCompleted(orgID, result.Campaign.Name, result)
}

func (h *Handler) scope(w http.ResponseWriter, r *http.Request) (orgID, campaignID string, ok bool) {
	orgID, present := tenancy.OrgIDFromContext(r.Context())
	if !present {
		http.Error(w, "missing org context", http.StatusBadRequest)
		return "", "", false
	}
	campaignID = chi.URLParam(r, "campaignID")
	if campaignID == "" {
		http.Error(w, "missing campaign id", http.StatusBadRequest)
		return "", "", false
	}
	return orgID, campaignID, true
}

func (h *Handler) respondError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, campaigns.ErrNotFound):
		http.Error(w, err.Error(), http.StatusNotFound)
	case errors.Is(err, campaigns.ErrNotIngestible):
		http.Error(w, err.Error(), http.StatusConflict)
	default:
		h.logger.Error("import failed", "error", err)
		http.Error(w, "import failed", http.StatusInternalServerError)
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
