package themes

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"

	"go.uber.org/zap"

	"github.com/funaging/themestudio/internal/validate"
	"github.com/funaging/themestudio/pkg/theme"
)

const maxBodyBytes = 1 << 20

// ProblemDetail represents an RFC 7807 error response for theme endpoints.
// @Description RFC 7807 Problem Details error response.
type ProblemDetail struct {
	Type   string `json:"type" example:"https://funaging.org/problems/theme-error"`
	Title  string `json:"title" example:"Not Found"`
	Status int    `json:"status" example:"404"`
	Detail string `json:"detail" example:"theme not found"`
}

// Handler provides HTTP handlers for the Theme API.
type Handler struct {
	svc    *Service
	logger *zap.Logger
}

// NewHandler creates a theme Handler.
func NewHandler(svc *Service, logger *zap.Logger) *Handler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Handler{svc: svc, logger: logger}
}

// RegisterRoutes registers theme routes on the mux.
func (h *Handler) RegisterRoutes(mux *http.ServeMux) {
	// Literal paths before wildcard
	mux.HandleFunc("GET /api/v1/themes", h.handleList)
	mux.HandleFunc("POST /api/v1/themes", h.handleCreate)
	mux.HandleFunc("GET /api/v1/themes/presets", h.handleListPresets)
	mux.HandleFunc("GET /api/v1/themes/active", h.handleActive)
	mux.HandleFunc("GET /api/v1/themes/active.css", h.handleActiveCSS)
	mux.HandleFunc("POST /api/v1/themes/import", h.handleImport)
	mux.HandleFunc("GET /api/v1/themes/{id}", h.handleGet)
	mux.HandleFunc("PUT /api/v1/themes/{id}", h.handleUpdate)
	mux.HandleFunc("DELETE /api/v1/themes/{id}", h.handleDelete)
	mux.HandleFunc("POST /api/v1/themes/{id}/apply", h.handleApply)
	mux.HandleFunc("POST /api/v1/themes/{id}/preview", h.handlePreview)
	mux.HandleFunc("GET /api/v1/themes/{id}/export", h.handleExport)
}

// handleList returns every theme.
//
//	@Summary		List themes
//	@Description	List all themes, presets first.
//	@Tags			themes
//	@Produce		json
//	@Success		200	{array}		theme.Theme
//	@Failure		500	{object}	ProblemDetail
//	@Router			/themes [get]
func (h *Handler) handleList(w http.ResponseWriter, r *http.Request) {
	list, err := h.svc.List(r.Context())
	if err != nil {
		h.writeServiceError(w, "list themes", err)
		return
	}
	writeJSON(w, http.StatusOK, list)
}

// handleListPresets returns the built-in presets.
//
//	@Summary		List preset themes
//	@Tags			themes
//	@Produce		json
//	@Success		200	{array}		theme.Theme
//	@Failure		500	{object}	ProblemDetail
//	@Router			/themes/presets [get]
func (h *Handler) handleListPresets(w http.ResponseWriter, r *http.Request) {
	list, err := h.svc.ListPresets(r.Context())
	if err != nil {
		h.writeServiceError(w, "list presets", err)
		return
	}
	writeJSON(w, http.StatusOK, list)
}

// handleActive returns the active theme.
//
//	@Summary		Get active theme
//	@Tags			themes
//	@Produce		json
//	@Success		200	{object}	theme.Theme
//	@Failure		404	{object}	ProblemDetail	"No active theme"
//	@Failure		500	{object}	ProblemDetail
//	@Router			/themes/active [get]
func (h *Handler) handleActive(w http.ResponseWriter, r *http.Request) {
	t, err := h.svc.Active(r.Context())
	if err != nil {
		h.writeServiceError(w, "get active theme", err)
		return
	}
	writeJSON(w, http.StatusOK, t)
}

// handleActiveCSS renders the active theme as CSS custom properties.
//
//	@Summary		Active theme stylesheet
//	@Description	Render the active theme as a :root block of CSS custom properties.
//	@Tags			themes
//	@Produce		text/css
//	@Success		200	{string}	string
//	@Failure		500	{object}	ProblemDetail
//	@Router			/themes/active.css [get]
func (h *Handler) handleActiveCSS(w http.ResponseWriter, r *http.Request) {
	css, err := h.svc.ActiveCSS(r.Context())
	if err != nil {
		h.writeServiceError(w, "render active css", err)
		return
	}
	w.Header().Set("Content-Type", "text/css; charset=utf-8")
	w.Header().Set("Cache-Control", "no-cache")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte(css))
}

// handleGet returns one theme.
//
//	@Summary		Get theme
//	@Tags			themes
//	@Produce		json
//	@Param			id	path		string	true	"Theme ID"
//	@Success		200	{object}	theme.Theme
//	@Failure		404	{object}	ProblemDetail
//	@Router			/themes/{id} [get]
func (h *Handler) handleGet(w http.ResponseWriter, r *http.Request) {
	t, err := h.svc.Get(r.Context(), r.PathValue("id"))
	if err != nil {
		h.writeServiceError(w, "get theme", err)
		return
	}
	writeJSON(w, http.StatusOK, t)
}

// handleCreate stores a new theme.
//
//	@Summary		Create theme
//	@Description	Create a custom theme. Missing settings are filled from the default document.
//	@Tags			themes
//	@Accept			json
//	@Produce		json
//	@Param			request	body		CreateRequest	true	"New theme"
//	@Success		201		{object}	theme.Theme
//	@Failure		400		{object}	ProblemDetail
//	@Failure		500		{object}	ProblemDetail
//	@Router			/themes [post]
func (h *Handler) handleCreate(w http.ResponseWriter, r *http.Request) {
	var req CreateRequest
	if !decode(w, r, &req) {
		return
	}
	if err := validate.Struct(req); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	t, err := h.svc.Create(r.Context(), req)
	if err != nil {
		h.writeServiceError(w, "create theme", err)
		return
	}
	writeJSON(w, http.StatusCreated, t)
}

// handleUpdate changes a custom theme.
//
//	@Summary		Update theme
//	@Description	Update a custom theme. Settings, when given, replace the stored document. Presets cannot be modified.
//	@Tags			themes
//	@Accept			json
//	@Produce		json
//	@Param			id		path		string			true	"Theme ID"
//	@Param			request	body		UpdateRequest	true	"Changes"
//	@Success		200		{object}	theme.Theme
//	@Failure		400		{object}	ProblemDetail
//	@Failure		403		{object}	ProblemDetail	"Preset theme"
//	@Failure		404		{object}	ProblemDetail
//	@Router			/themes/{id} [put]
func (h *Handler) handleUpdate(w http.ResponseWriter, r *http.Request) {
	var req UpdateRequest
	if !decode(w, r, &req) {
		return
	}
	if err := validate.Struct(req); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	t, err := h.svc.Update(r.Context(), r.PathValue("id"), req)
	if err != nil {
		h.writeServiceError(w, "update theme", err)
		return
	}
	writeJSON(w, http.StatusOK, t)
}

// handleDelete removes a custom theme.
//
//	@Summary		Delete theme
//	@Description	Delete a custom theme. Deleting the active theme activates the default preset.
//	@Tags			themes
//	@Param			id	path	string	true	"Theme ID"
//	@Success		204	"Theme deleted"
//	@Failure		403	{object}	ProblemDetail	"Preset theme"
//	@Failure		404	{object}	ProblemDetail
//	@Router			/themes/{id} [delete]
func (h *Handler) handleDelete(w http.ResponseWriter, r *http.Request) {
	if err := h.svc.Delete(r.Context(), r.PathValue("id")); err != nil {
		h.writeServiceError(w, "delete theme", err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// ApplyRequest is the optional body of POST /themes/{id}/apply.
type ApplyRequest struct {
	Preview bool `json:"preview" example:"false"`
}

// handleApply activates a theme.
//
//	@Summary		Apply theme
//	@Description	Make a theme active. With preview set the theme is returned without being activated.
//	@Tags			themes
//	@Accept			json
//	@Produce		json
//	@Param			id		path		string			true	"Theme ID"
//	@Param			request	body		ApplyRequest	false	"Apply options"
//	@Param			preview	query		bool			false	"Return without activating"
//	@Success		200		{object}	theme.Theme
//	@Failure		400		{object}	ProblemDetail
//	@Failure		404		{object}	ProblemDetail
//	@Router			/themes/{id}/apply [post]
func (h *Handler) handleApply(w http.ResponseWriter, r *http.Request) {
	var req ApplyRequest
	err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes)).Decode(&req)
	if err != nil && !errors.Is(err, io.EOF) {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if v := r.URL.Query().Get("preview"); v != "" {
		b, err := strconv.ParseBool(v)
		if err != nil {
			writeError(w, http.StatusBadRequest, fmt.Sprintf("invalid preview flag %q", v))
			return
		}
		req.Preview = b
	}
	h.apply(w, r, req.Preview)
}

// handlePreview returns a theme for previewing without activating it.
//
//	@Summary		Preview theme
//	@Tags			themes
//	@Produce		json
//	@Param			id	path		string	true	"Theme ID"
//	@Success		200	{object}	theme.Theme
//	@Failure		404	{object}	ProblemDetail
//	@Router			/themes/{id}/preview [post]
func (h *Handler) handlePreview(w http.ResponseWriter, r *http.Request) {
	h.apply(w, r, true)
}

func (h *Handler) apply(w http.ResponseWriter, r *http.Request, preview bool) {
	t, err := h.svc.Apply(r.Context(), r.PathValue("id"), preview)
	if err != nil {
		h.writeServiceError(w, "apply theme", err)
		return
	}
	writeJSON(w, http.StatusOK, t)
}

// handleExport returns a theme's export document.
//
//	@Summary		Export theme
//	@Tags			themes
//	@Produce		json
//	@Param			id	path		string	true	"Theme ID"
//	@Success		200	{object}	theme.Document
//	@Failure		404	{object}	ProblemDetail
//	@Router			/themes/{id}/export [get]
func (h *Handler) handleExport(w http.ResponseWriter, r *http.Request) {
	doc, err := h.svc.Export(r.Context(), r.PathValue("id"))
	if err != nil {
		h.writeServiceError(w, "export theme", err)
		return
	}
	writeJSON(w, http.StatusOK, doc)
}

// handleImport stores an exported document as a new theme.
//
//	@Summary		Import theme
//	@Description	Store an exported theme document as a new custom theme.
//	@Tags			themes
//	@Accept			json
//	@Produce		json
//	@Param			request	body		theme.Document	true	"Exported theme"
//	@Success		201		{object}	theme.Theme
//	@Failure		400		{object}	ProblemDetail
//	@Router			/themes/import [post]
func (h *Handler) handleImport(w http.ResponseWriter, r *http.Request) {
	var doc theme.RawDocument
	if !decode(w, r, &doc) {
		return
	}
	t, err := h.svc.Import(r.Context(), doc)
	if err != nil {
		h.writeServiceError(w, "import theme", err)
		return
	}
	writeJSON(w, http.StatusCreated, t)
}

func (h *Handler) writeServiceError(w http.ResponseWriter, op string, err error) {
	switch {
	case errors.Is(err, ErrNotFound), errors.Is(err, ErrNoActive):
		writeError(w, http.StatusNotFound, err.Error())
	case errors.Is(err, ErrPreset):
		writeError(w, http.StatusForbidden, err.Error())
	case errors.Is(err, ErrInvalid):
		writeError(w, http.StatusBadRequest, err.Error())
	default:
		h.logger.Error("theme request failed", zap.String("op", op), zap.Error(err))
		writeError(w, http.StatusInternalServerError, "failed to "+op)
	}
}

func decode(w http.ResponseWriter, r *http.Request, v any) bool {
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes)).Decode(v); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return false
	}
	return true
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// writeError writes an RFC 7807 problem response.
func writeError(w http.ResponseWriter, status int, detail string) {
	w.Header().Set("Content-Type", "application/problem+json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(ProblemDetail{
		Type:   "https://funaging.org/problems/theme-error",
		Title:  http.StatusText(status),
		Status: status,
		Detail: detail,
	})
}
