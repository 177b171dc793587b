package handlers

import (
	"errors"
	"net/http"

	"github.com/alexedwards/scs/v2"
	"gorm.io/gorm"

	"costbook/internal/db"
	applog "costbook/internal/log"
	"costbook/internal/workspace"
	"costbook/models"
)

const (
	sessionAuthenticatedKey = "auth:authenticated"
	sessionLoginMessageKey  = "auth:message"
	sessionUserIDKey        = "auth:user:id"
	sessionUserEmailKey     = "auth:user:email"
	sessionUserNameKey      = "auth:user:name"
	sessionFlashKey         = "app:flash"
	sessionFlashKindKey     = "app:flash:kind"
)

var (
	sessionManager *scs.SessionManager
	database       *gorm.DB
	costingData    *workspace.Workspace
)

// Configure installs the shared dependencies used by the HTTP handlers.
func Configure(sm *scs.SessionManager, gormDB *gorm.DB, ws *workspace.Workspace) {
	sessionManager = sm
	database = gormDB
	costingData = ws
}

// authenticate verifies the provided credentials and populates the session if successful.
func authenticate(w http.ResponseWriter, r *http.Request, email, password string) bool {
	if sessionManager == nil {
		http.Error(w, "authentication not available", http.StatusServiceUnavailable)
		return false
	}

	user, err := db.FindUserByEmail(r.Context(), database, email)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			sessionManager.Put(r.Context(), sessionLoginMessageKey, "Invalid email or password. Please try again.")
		} else {
			applog.Error(r.Context(), "failed to load user during login", "error", err)
			sessionManager.Put(r.Context(), sessionLoginMessageKey, loginFailedMessage)
		}
		return false
	}

	if !db.CheckPassword(user, password) {
		sessionManager.Put(r.Context(), sessionLoginMessageKey, "Invalid email or password. Please try again.")
		return false
	}

	if err := establishSession(r, user); err != nil {
		applog.Error(r.Context(), "failed to establish session", "error", err)
		sessionManager.Put(r.Context(), sessionLoginMessageKey, loginFailedMessage)
		return false
	}

	applog.Info(r.Context(), "user signed in", "user", user.ID)
	return true
}

func establishSession(r *http.Request, user *models.User) error {
	if sessionManager == nil {
		return errors.New("session manager not configured")
	}
	if err := sessionManager.RenewToken(r.Context()); err != nil {
		return err
	}
	sessionManager.Put(r.Context(), sessionAuthenticatedKey, true)
	sessionManager.Put(r.Context(), sessionUserIDKey, int(user.ID))
	sessionManager.Put(r.Context(), sessionUserEmailKey, user.Email)
	sessionManager.Put(r.Context(), sessionUserNameKey, user.Name)
	return nil
}

// RequireAuthentication ensures the user has an active session before accessing the resource.
func RequireAuthentication(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !ActiveSession(r) {
			if wantsJSON(r) {
				writeJSONError(w, http.StatusUnauthorized, "authentication required")
				return
			}
			redirectToLogin(w, r)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// Logout destroys the current session and redirects the user to the login screen.
func Logout(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet, http.MethodPost:
	default:
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}

	if sessionManager != nil {
		if err := sessionManager.Destroy(r.Context()); err != nil {
			applog.Error(r.Context(), "failed to destroy session", "error", err)
		}
	}

	redirectToLogin(w, r)
}

func redirectToLogin(w http.ResponseWriter, r *http.Request) {
	redirectTo(w, r, "/login")
}

func redirectToApp(w http.ResponseWriter, r *http.Request) {
	redirectTo(w, r, "/app")
}

func redirectTo(w http.ResponseWriter, r *http.Request, path string) {
	if isHTMX(r) {
		w.Header().Set("HX-Redirect", path)
		w.WriteHeader(http.StatusSeeOther)
		return
	}
	http.Redirect(w, r, path, http.StatusSeeOther)
}

// ActiveSession returns true when the current request has an authenticated session.
func ActiveSession(r *http.Request) bool {
	if _, ok := currentUserID(r); !ok {
		return false
	}
	return sessionManager.GetBool(r.Context(), sessionAuthenticatedKey)
}

func currentUserID(r *http.Request) (uint, bool) {
	if sessionManager == nil {
		return 0, false
	}
	id := sessionManager.GetInt(r.Context(), sessionUserIDKey)
	if id <= 0 {
		return 0, false
	}
	return uint(id), true
}

func currentUserName(r *http.Request) string {
	if sessionManager == nil {
		return ""
	}
	if name := sessionManager.GetString(r.Context(), sessionUserNameKey); name != "" {
		return name
	}
	return sessionManager.GetString(r.Context(), sessionUserEmailKey)
}

func putFlash(r *http.Request, kind, message string) {
	if sessionManager == nil {
		return
	}
	sessionManager.Put(r.Context(), sessionFlashKindKey, kind)
	sessionManager.Put(r.Context(), sessionFlashKey, message)
}

func popFlash(r *http.Request) (kind, message string) {
	if sessionManager == nil {
		return "", ""
	}
	return sessionManager.PopString(r.Context(), sessionFlashKindKey), sessionManager.PopString(r.Context(), sessionFlashKey)
}
