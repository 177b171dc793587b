package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	templpkg "github.com/a-h/templ"

	"costbook/internal/costing"
	applog "costbook/internal/log"
	"costbook/internal/pricelist"
	"costbook/internal/workbook"
	"costbook/internal/workspace"
)

func isHTMX(r *http.Request) bool {
	return r.Header.Get("HX-Request") == "true" || r.Header.Get("HX-Boosted") == "true"
}

func wantsJSON(r *http.Request) bool {
	return strings.Contains(r.Header.Get("Accept"), "application/json") ||
		strings.HasPrefix(r.Header.Get("Content-Type"), "application/json")
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		applog.Error(context.Background(), "failed to encode json response", "error", err)
	}
}

func writeJSONError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]string{"error": message})
}

func renderComponent(w http.ResponseWriter, r *http.Request, component templpkg.Component) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := component.Render(r.Context(), w); err != nil {
		applog.Error(r.Context(), "failed to render component", "error", err)
		http.Error(w, err.Error(), http.StatusInternalServerError)
	}
}

// errorStatus maps domain errors onto HTTP status codes. Problems with the
// user's data are 422 so the client can show the message as-is.
func errorStatus(err error) int {
	var (
		cellErr   *workbook.CellError
		decodeErr *workspace.DecodeError
		uploadErr *uploadError
	)
	switch {
	case errors.As(err, &uploadErr):
		return http.StatusBadRequest
	case errors.Is(err, workspace.ErrUnknownTable):
		return http.StatusNotFound
	case errors.Is(err, workspace.ErrDerivedTable):
		return http.StatusMethodNotAllowed
	case errors.Is(err, workspace.ErrNoData):
		return http.StatusConflict
	case errors.Is(err, pricelist.ErrUnsupportedType):
		return http.StatusUnsupportedMediaType
	case costing.IsDataError(err), errors.Is(err, workbook.ErrInvalidWorkbook),
		errors.As(err, &cellErr), errors.As(err, &decodeErr):
		return http.StatusUnprocessableEntity
	default:
		return http.StatusInternalServerError
	}
}

func writeError(w http.ResponseWriter, r *http.Request, err error) {
	status := errorStatus(err)
	message := err.Error()
	if status == http.StatusInternalServerError {
		applog.Error(r.Context(), "request failed", "path", r.URL.Path, "error", err)
		message = "internal error"
	} else {
		applog.Debug(r.Context(), "request rejected", "path", r.URL.Path, "status", status, "error", err)
	}
	writeJSONError(w, status, message)
}

// respondAction finishes a form-style action: JSON clients get payload, HTMX gets
// the refreshed dashboard and plain forms are redirected back with a flash.
func respondAction(w http.ResponseWriter, r *http.Request, payload any, err error, success string) {
	switch {
	case wantsJSON(r):
		if err != nil {
			writeError(w, r, err)
			return
		}
		writeJSON(w, http.StatusOK, payload)
	case isHTMX(r):
		kind, message := "success", success
		if err != nil {
			kind, message = "error", userMessage(r, err)
		}
		renderComponent(w, r, dashboardPartial(r, kind, message))
	default:
		if err != nil {
			putFlash(r, "error", userMessage(r, err))
		} else {
			putFlash(r, "success", success)
		}
		http.Redirect(w, r, "/app", http.StatusSeeOther)
	}
}

func userMessage(r *http.Request, err error) string {
	if errorStatus(err) == http.StatusInternalServerError {
		applog.Error(r.Context(), "action failed", "path", r.URL.Path, "error", err)
		return "Something went wrong. Please try again."
	}
	return err.Error()
}
