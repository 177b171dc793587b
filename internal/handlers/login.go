package handlers

import (
	"net/http"
	"strings"

	"github.com/a-h/templ"

	applog "costbook/internal/log"
	"costbook/internal/views/pages"
)

const loginFailedMessage = "We were unable to sign you in. Please try again."

// Login renders the sign-in form and processes submissions.
func Login(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet, http.MethodHead:
		showLogin(w, r)
	case http.MethodPost:
		submitLogin(w, r)
	default:
		w.WriteHeader(http.StatusMethodNotAllowed)
	}
}

func showLogin(w http.ResponseWriter, r *http.Request) {
	if ActiveSession(r) {
		redirectToApp(w, r)
		return
	}
	message := ""
	if sessionManager != nil {
		message = sessionManager.PopString(r.Context(), sessionLoginMessageKey)
	}
	renderLogin(w, r, message, "")
}

func submitLogin(w http.ResponseWriter, r *http.Request) {
	if sessionManager == nil || database == nil {
		applog.Debug(r.Context(), "login unavailable", "hasSession", sessionManager != nil, "hasDatabase", database != nil)
		http.Error(w, "authentication not available", http.StatusServiceUnavailable)
		return
	}
	if err := r.ParseForm(); err != nil {
		http.Error(w, "invalid form submission", http.StatusBadRequest)
		return
	}

	email := strings.TrimSpace(r.PostFormValue("email"))
	password := r.PostFormValue("password")
	if email == "" || password == "" {
		renderLogin(w, r, "Email and password are required.", email)
		return
	}

	if !authenticate(w, r, email, password) {
		applog.Debug(r.Context(), "login rejected", "email", strings.ToLower(email))
		message := sessionManager.PopString(r.Context(), sessionLoginMessageKey)
		if message == "" {
			message = loginFailedMessage
		}
		renderLogin(w, r, message, email)
		return
	}
	redirectToApp(w, r)
}

func renderLogin(w http.ResponseWriter, r *http.Request, message, email string) {
	var component templ.Component
	if isHTMX(r) {
		component = pages.LoginPartial(message, email)
	} else {
		component = pages.Login(message, email)
	}
	renderComponent(w, r, component)
}
