package router

import (
	"encoding/json"
	"net/http"
	"strings"

	"github.com/wolfman30/leadflow/internal/tenancy"
)

// orgHeader names the workspace the request operates on. Every tenant
// route rejects requests that omit it.
const orgHeader = "X-Org-Id"

func requireOrgID(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		orgID := strings.TrimSpace(r.Header.Get(orgHeader))
		if orgID == "" {
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusBadRequest)
			json.NewEncoder(w).Encode(map[string]string{
				"error": "the " + orgHeader + " header is required",
			})
			return
		}
		next.ServeHTTP(w, r.WithContext(tenancy.WithOrgID(r.Context(), orgID)))
	})
}
