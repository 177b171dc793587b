package handlers

import (
	"errors"
	"net/http"

	templpkg "github.com/a-h/templ"

	applog "costbook/internal/log"
	"costbook/internal/views/pages"
	"costbook/internal/workspace"
)

// Dashboard renders the metrics, menu and recipe tables once a user is authenticated.
func Dashboard(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet && r.Method != http.MethodHead {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}

	kind, message := popFlash(r)
	var component templpkg.Component
	if isHTMX(r) {
		component = dashboardPartial(r, kind, message)
	} else {
		component = pages.Dashboard(dashboardSnapshot(r, kind, message))
	}
	renderComponent(w, r, component)
}

func dashboardPartial(r *http.Request, kind, message string) templpkg.Component {
	return pages.DashboardPartial(dashboardSnapshot(r, kind, message))
}

func dashboardSnapshot(r *http.Request, kind, message string) pages.DashboardSnapshot {
	snapshot := pages.DashboardSnapshot{
		UserName:    currentUserName(r),
		Message:     message,
		MessageKind: kind,
	}
	if costingData == nil {
		return snapshot
	}
	snapshot.Status = costingData.Status()

	tables, err := costingData.Tables()
	if err != nil {
		if !errors.Is(err, workspace.ErrNoData) {
			applog.Error(r.Context(), "failed to read costing tables", "error", err)
		}
		return snapshot
	}
	snapshot.Tables = tables
	snapshot.Metrics, _ = costingData.Dashboard()
	snapshot.Issues, _ = costingData.Diagnostics()
	return snapshot
}

type dashboardResponse struct {
	Metrics any              `json:"metrics"`
	Issues  []string         `json:"issues"`
	Status  workspace.Status `json:"status"`
}

// DashboardMetrics returns the headline metrics, data issues and workspace state as JSON.
func DashboardMetrics(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}
	if costingData == nil {
		writeError(w, r, workspace.ErrNoData)
		return
	}

	metrics, err := costingData.Dashboard()
	if err != nil {
		writeError(w, r, err)
		return
	}
	issues, err := costingData.Diagnostics()
	if err != nil {
		writeError(w, r, err)
		return
	}

	resp := dashboardResponse{Metrics: metrics, Issues: make([]string, 0, len(issues)), Status: costingData.Status()}
	for _, issue := range issues {
		resp.Issues = append(resp.Issues, issue.String())
	}
	writeJSON(w, http.StatusOK, resp)
}
