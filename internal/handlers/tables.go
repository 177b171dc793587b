package handlers

import (
	"io"
	"net/http"
	"strconv"
	"strings"

	applog "costbook/internal/log"
	"costbook/internal/workspace"
)

const (
	tablesAPIPrefix = "/app/api/tables/"
	maxTablePayload = 4 << 20 // 4 MiB
)

type recomputeResponse struct {
	Tables  any `json:"tables"`
	Metrics any `json:"metrics"`
}

// Tables serves GET and PUT on /app/api/tables/{name}. PUT replaces the table's
// rows and recomputes; ?reprice=true also drops cached SKU unit costs.
func Tables(w http.ResponseWriter, r *http.Request) {
	name := strings.Trim(strings.TrimPrefix(r.URL.Path, tablesAPIPrefix), "/")
	if name == "" || strings.Contains(name, "/") {
		writeJSONError(w, http.StatusNotFound, "table not found")
		return
	}
	if costingData == nil {
		writeError(w, r, workspace.ErrNoData)
		return
	}

	switch r.Method {
	case http.MethodGet:
		table, err := costingData.Table(name)
		if err != nil {
			writeError(w, r, err)
			return
		}
		writeJSON(w, http.StatusOK, table)
	case http.MethodPut:
		payload, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxTablePayload))
		if err != nil {
			writeJSONError(w, http.StatusRequestEntityTooLarge, "table payload too large")
			return
		}
		reprice, _ := strconv.ParseBool(r.URL.Query().Get("reprice"))
		if err := costingData.ReplaceTable(r.Context(), name, payload, workspace.ReplaceOptions{Reprice: reprice}); err != nil {
			writeError(w, r, err)
			return
		}
		userID, _ := currentUserID(r)
		applog.Info(r.Context(), "table replaced", "table", name, "reprice", reprice, "user", userID)
		table, err := costingData.Table(name)
		if err != nil {
			writeError(w, r, err)
			return
		}
		writeJSON(w, http.StatusOK, table)
	default:
		w.Header().Set("Allow", "GET, PUT")
		w.WriteHeader(http.StatusMethodNotAllowed)
	}
}

// Recompute derives every computed column again without saving and returns the
// whole dataset with its metrics.
func Recompute(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}
	if costingData == nil {
		writeError(w, r, workspace.ErrNoData)
		return
	}
	tables, err := costingData.Recompute(r.Context())
	if err != nil {
		writeError(w, r, err)
		return
	}
	metrics, err := costingData.Dashboard()
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, recomputeResponse{Tables: tables, Metrics: metrics})
}
