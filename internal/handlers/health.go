package handlers

import (
	"net/http"
	"time"

	applog "costbook/internal/log"
	"costbook/internal/workspace"
)

type healthResponse struct {
	Status    string            `json:"status"`
	Time      time.Time         `json:"time"`
	Workspace *workspace.Status `json:"workspace,omitempty"`
}

// Health is a readiness handler for load balancers and orchestrators. It stays 200
// while the workspace is empty so a fresh install can still be reached to upload.
func Health(w http.ResponseWriter, r *http.Request) {
	applog.Debug(r.Context(), "health check requested", "method", r.Method)
	resp := healthResponse{
		Status: "ok",
		Time:   time.Now().UTC(),
	}
	if costingData != nil {
		status := costingData.Status()
		resp.Workspace = &status
		if status.Error != "" {
			resp.Status = "degraded"
		}
	}
	writeJSON(w, http.StatusOK, resp)
}
