package admin

import (
	"encoding/json"
	"errors"
	"mime"
	"net/http"
	"strconv"

	"github.com/artpar/themedesigner/domain/settings"
)

// maxBodyBytes caps admin request bodies.
const maxBodyBytes = 1 << 20

// SettingsResponse represents the options in effect.
type SettingsResponse struct {
	Settings   settings.Options  `json:"settings"`
	Permalinks map[string]string `json:"permalinks"`
	Conflicts  []settings.Rule   `json:"conflicts"`
}

func newSettingsResponse(opts settings.Options, res settings.Resolution) SettingsResponse {
	conflicts := res.Applied
	if conflicts == nil {
		conflicts = []settings.Rule{}
	}
	return SettingsResponse{
		Settings:   opts,
		Permalinks: opts.Permalinks(),
		Conflicts:  conflicts,
	}
}

// GetSettings returns the current options.
//
//	@Summary		Get settings
//	@Description	Get the options in effect and the permalink prefixes they produce
//	@Tags			Admin - Settings
//	@Produce		json
//	@Success		200	{object}	SettingsResponse
//	@Failure		401	{object}	ErrorResponse
//	@Security		BasicAuth
//	@Router			/admin/settings [get]
func (h *Handler) GetSettings(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, newSettingsResponse(h.settings.Get(), settings.Resolution{}))
}

// UpdateSettings validates and stores a settings form.
//
//	@Summary		Update settings
//	@Description	Validate a flat JSON object or form body and store the result
//	@Tags			Admin - Settings
//	@Accept			json
//	@Accept			x-www-form-urlencoded
//	@Produce		json
//	@Success		200	{object}	SettingsResponse
//	@Failure		400	{object}	ErrorResponse
//	@Failure		500	{object}	ErrorResponse
//	@Security		BasicAuth
//	@Router			/admin/settings [put]
func (h *Handler) UpdateSettings(w http.ResponseWriter, r *http.Request) {
	raw, err := parseSettings(w, r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid_request", err.Error())
		return
	}

	opts, res, err := h.settings.Update(r.Context(), raw)
	if err != nil {
		h.logger.Error().Err(err).Msg("update settings failed")
		writeError(w, http.StatusInternalServerError, "store_error", "Failed to save settings")
		return
	}

	writeJSON(w, http.StatusOK, newSettingsResponse(opts, res))
}

// ResetSettings deletes the stored settings and returns the defaults.
//
//	@Summary		Reset settings
//	@Description	Delete the stored settings so the defaults apply again
//	@Tags			Admin - Settings
//	@Produce		json
//	@Success		200	{object}	SettingsResponse
//	@Failure		500	{object}	ErrorResponse
//	@Security		BasicAuth
//	@Router			/admin/settings [delete]
func (h *Handler) ResetSettings(w http.ResponseWriter, r *http.Request) {
	opts, err := h.settings.Reset(r.Context())
	if err != nil {
		h.logger.Error().Err(err).Msg("reset settings failed")
		writeError(w, http.StatusInternalServerError, "store_error", "Failed to reset settings")
		return
	}

	writeJSON(w, http.StatusOK, newSettingsResponse(opts, settings.Resolution{}))
}

// ValidateSettings validates a settings form without storing it.
//
//	@Summary		Validate settings
//	@Description	Dry-run validation; nothing is stored
//	@Tags			Admin - Settings
//	@Accept			json
//	@Accept			x-www-form-urlencoded
//	@Produce		json
//	@Success		200	{object}	SettingsResponse
//	@Security		BasicAuth
//	@Router			/admin/settings/validate [post]
func (h *Handler) ValidateSettings(w http.ResponseWriter, r *http.Request) {
	raw, err := parseSettings(w, r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid_request", err.Error())
		return
	}

	opts, res := h.settings.Validate(raw)
	writeJSON(w, http.StatusOK, newSettingsResponse(opts, res))
}

// parseSettings reads a flat JSON object or a form body into a settings map.
// Keys absent from the body are absent from the map.
func parseSettings(w http.ResponseWriter, r *http.Request) (settings.Settings, error) {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)

	ct, _, _ := mime.ParseMediaType(r.Header.Get("Content-Type"))
	if ct == "application/json" {
		return decodeSettingsJSON(r)
	}

	if err := r.ParseForm(); err != nil {
		return nil, errors.New("invalid form body")
	}
	raw := make(settings.Settings, len(r.PostForm))
	for k, v := range r.PostForm {
		if len(v) > 0 {
			raw[k] = v[0]
		}
	}
	return raw, nil
}

// decodeSettingsJSON accepts string, number and boolean values. Booleans
// follow form semantics: true is "1" and false is "".
func decodeSettingsJSON(r *http.Request) (settings.Settings, error) {
	var body map[string]interface{}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		return nil, errors.New("invalid JSON body")
	}

	raw := make(settings.Settings, len(body))
	for k, v := range body {
		switch v := v.(type) {
		case string:
			raw[k] = v
		case float64:
			raw[k] = strconv.FormatFloat(v, 'f', -1, 64)
		case bool:
			if v {
				raw[k] = "1"
			} else {
				raw[k] = ""
			}
		case nil:
		default:
			return nil, errors.New("setting " + k + " must be a string, number or boolean")
		}
	}
	return raw, nil
}
