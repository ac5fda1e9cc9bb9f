// Package admin provides the HTTP admin API for global settings and
// per-record field forms.
package admin

import (
	"crypto/subtle"
	"encoding/json"
	"net/http"
	"sync"

	"github.com/artpar/themedesigner/adapters/metrics"
	"github.com/artpar/themedesigner/app"
	"github.com/artpar/themedesigner/ports"
	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"
)

// Realm is sent in the WWW-Authenticate challenge.
const Realm = "themedesigner admin"

// Handler provides admin API endpoints.
type Handler struct {
	fields    *app.FieldService
	settings  *app.SettingsService
	hasher    ports.Hasher
	metrics   *metrics.Collector
	logger    zerolog.Logger
	namespace string

	// Hot-reloadable: replaced when the config changes.
	mu           sync.RWMutex
	username     string
	passwordHash []byte
}

// Deps contains dependencies for the admin handler.
type Deps struct {
	Fields       *app.FieldService
	Settings     *app.SettingsService
	Hasher       ports.Hasher
	Metrics      *metrics.Collector // optional
	Logger       zerolog.Logger
	Namespace    string
	Username     string
	PasswordHash string
}

// NewHandler creates a new admin handler.
func NewHandler(deps Deps) *Handler {
	h := &Handler{
		fields:    deps.Fields,
		settings:  deps.Settings,
		hasher:    deps.Hasher,
		metrics:   deps.Metrics,
		logger:    deps.Logger,
		namespace: deps.Namespace,
	}
	h.SetCredentials(deps.Username, deps.PasswordHash)
	return h
}

// SetCredentials replaces the accepted admin username and password hash.
func (h *Handler) SetCredentials(username, passwordHash string) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.username = username
	h.passwordHash = []byte(passwordHash)
}

// Router returns the admin API router.
func (h *Handler) Router() chi.Router {
	r := chi.NewRouter()

	r.Group(func(r chi.Router) {
		r.Use(h.AuthMiddleware)

		// Global settings
		r.Get("/settings", h.GetSettings)
		r.Put("/settings", h.UpdateSettings)
		r.Delete("/settings", h.ResetSettings)
		r.Post("/settings/validate", h.ValidateSettings)

		// Field managers
		r.Get("/managers", h.ListManagers)
		r.Get("/records/{recordID}/fields/{manager}", h.GetFields)
		r.Post("/records/{recordID}/fields/{manager}", h.SaveFields)
		r.Post("/records/fields/{manager}", h.CreateFields)
	})

	return r
}

// AuthMiddleware checks HTTP basic credentials against the configured
// username and bcrypt password hash.
func (h *Handler) AuthMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if reason := h.authenticate(r); reason != "" {
			if h.metrics != nil {
				h.metrics.AuthFailures.WithLabelValues(reason).Inc()
			}
			h.logger.Debug().
				Str("reason", reason).
				Str("remote_addr", r.RemoteAddr).
				Msg("admin auth failed")
			w.Header().Set("WWW-Authenticate", `Basic realm="`+Realm+`"`)
			writeError(w, http.StatusUnauthorized, "unauthorized", "Valid admin credentials required")
			return
		}
		next.ServeHTTP(w, r)
	})
}

// authenticate returns "" on success or the failure reason.
func (h *Handler) authenticate(r *http.Request) string {
	user, pass, ok := r.BasicAuth()
	if !ok {
		return "missing"
	}

	h.mu.RLock()
	username, hash := h.username, h.passwordHash
	h.mu.RUnlock()

	if len(hash) == 0 {
		return "disabled"
	}
	if subtle.ConstantTimeCompare([]byte(user), []byte(username)) != 1 {
		return "bad_username"
	}
	if !h.hasher.Compare(hash, pass) {
		return "bad_password"
	}
	return ""
}

// -----------------------------------------------------------------------------
// Helpers
// -----------------------------------------------------------------------------

// ErrorResponse represents an API error.
type ErrorResponse struct {
	Error struct {
		Code    string `json:"code"`
		Message string `json:"message"`
	} `json:"error"`
}

func writeJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

func writeError(w http.ResponseWriter, status int, code, message string) {
	var resp ErrorResponse
	resp.Error.Code = code
	resp.Error.Message = message
	writeJSON(w, status, resp)
}
