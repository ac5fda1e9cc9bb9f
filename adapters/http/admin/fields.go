package admin

import (
	"errors"
	"net/http"

	"github.com/artpar/themedesigner/app"
	"github.com/artpar/themedesigner/domain/field"
	"github.com/go-chi/chi/v5"
)

// ManagersResponse lists the configured field managers.
type ManagersResponse struct {
	Namespace string            `json:"namespace"`
	Managers  []ManagerResponse `json:"managers"`
}

// ManagerResponse describes one manager.
type ManagerResponse struct {
	Name   string          `json:"name"`
	Fields []FieldResponse `json:"fields"`
}

// FieldResponse describes one field and the inputs it reads.
type FieldResponse struct {
	Name        string   `json:"name"`
	Type        string   `json:"type"`
	Label       string   `json:"label"`
	Description string   `json:"description,omitempty"`
	Default     string   `json:"default,omitempty"`
	Inputs      []string `json:"inputs"`
	HookID      string   `json:"hook_id"`
}

// ValuesResponse holds the stored values of a record.
type ValuesResponse struct {
	RecordID string            `json:"record_id"`
	Manager  string            `json:"manager"`
	Values   map[string]string `json:"values"`
}

// SaveResponse reports what a save wrote.
type SaveResponse struct {
	RecordID string         `json:"record_id"`
	Manager  string         `json:"manager"`
	Results  []field.Result `json:"results"`
}

// ListManagers lists field managers.
//
//	@Summary		List field managers
//	@Tags			Admin - Fields
//	@Produce		json
//	@Success		200	{object}	ManagersResponse
//	@Security		BasicAuth
//	@Router			/admin/managers [get]
func (h *Handler) ListManagers(w http.ResponseWriter, r *http.Request) {
	managers := h.fields.Managers()

	resp := ManagersResponse{
		Namespace: h.namespace,
		Managers:  make([]ManagerResponse, 0, len(managers)),
	}
	for _, m := range managers {
		mr := ManagerResponse{Name: m.Name(), Fields: []FieldResponse{}}
		for _, st := range m.Settings() {
			mr.Fields = append(mr.Fields, FieldResponse{
				Name:        st.Name(),
				Type:        string(st.Kind()),
				Label:       st.Label(),
				Description: st.Description(),
				Default:     st.Default(),
				Inputs:      st.Inputs(),
				HookID:      st.HookID(),
			})
		}
		resp.Managers = append(resp.Managers, mr)
	}

	writeJSON(w, http.StatusOK, resp)
}

// GetFields returns the stored field values of a record.
//
//	@Summary		Get record fields
//	@Tags			Admin - Fields
//	@Produce		json
//	@Param			recordID	path		string	true	"Record ID"
//	@Param			manager		path		string	true	"Manager name"
//	@Success		200			{object}	ValuesResponse
//	@Failure		404			{object}	ErrorResponse
//	@Security		BasicAuth
//	@Router			/admin/records/{recordID}/fields/{manager} [get]
func (h *Handler) GetFields(w http.ResponseWriter, r *http.Request) {
	recordID := chi.URLParam(r, "recordID")
	manager := chi.URLParam(r, "manager")

	values, err := h.fields.Values(r.Context(), manager, recordID)
	if err != nil {
		h.fieldError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, ValuesResponse{
		RecordID: recordID,
		Manager:  manager,
		Values:   values,
	})
}

// SaveFields saves posted input for an existing record.
//
//	@Summary		Save record fields
//	@Tags			Admin - Fields
//	@Accept			x-www-form-urlencoded
//	@Produce		json
//	@Param			recordID	path		string	true	"Record ID"
//	@Param			manager		path		string	true	"Manager name"
//	@Success		200			{object}	SaveResponse
//	@Failure		404			{object}	ErrorResponse
//	@Security		BasicAuth
//	@Router			/admin/records/{recordID}/fields/{manager} [post]
func (h *Handler) SaveFields(w http.ResponseWriter, r *http.Request) {
	recordID := chi.URLParam(r, "recordID")
	manager := chi.URLParam(r, "manager")

	posted, ok := parsePosted(w, r)
	if !ok {
		return
	}

	results, err := h.fields.Save(r.Context(), manager, recordID, posted)
	if err != nil {
		h.fieldError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, SaveResponse{
		RecordID: recordID,
		Manager:  manager,
		Results:  results,
	})
}

// CreateFields saves posted input under a new record ID.
//
//	@Summary		Create record fields
//	@Tags			Admin - Fields
//	@Accept			x-www-form-urlencoded
//	@Produce		json
//	@Param			manager	path		string	true	"Manager name"
//	@Success		201		{object}	SaveResponse
//	@Failure		404		{object}	ErrorResponse
//	@Security		BasicAuth
//	@Router			/admin/records/fields/{manager} [post]
func (h *Handler) CreateFields(w http.ResponseWriter, r *http.Request) {
	manager := chi.URLParam(r, "manager")

	posted, ok := parsePosted(w, r)
	if !ok {
		return
	}

	recordID, results, err := h.fields.SaveNew(r.Context(), manager, posted)
	if err != nil {
		h.fieldError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, SaveResponse{
		RecordID: recordID,
		Manager:  manager,
		Results:  results,
	})
}

func parsePosted(w http.ResponseWriter, r *http.Request) (field.Posted, bool) {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	if err := r.ParseForm(); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_request", "invalid form body")
		return nil, false
	}
	return field.FromValues(r.PostForm), true
}

func (h *Handler) fieldError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, field.ErrUnknownManager):
		writeError(w, http.StatusNotFound, "unknown_manager", err.Error())
	case errors.Is(err, app.ErrNoRecordID):
		writeError(w, http.StatusBadRequest, "invalid_request", err.Error())
	default:
		h.logger.Error().Err(err).Msg("field request failed")
		writeError(w, http.StatusInternalServerError, "store_error", "Failed to access field values")
	}
}
