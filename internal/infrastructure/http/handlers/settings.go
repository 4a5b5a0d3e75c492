package handlers

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/meadcraft/meadery/internal/ports/inbound"
	"go.uber.org/zap"
)

// SettingsHandlers serves the settings endpoints
type SettingsHandlers struct {
	settings  inbound.SettingsService
	validator Validator
	logger    *zap.Logger
}

// NewSettingsHandlers creates the settings handlers
func NewSettingsHandlers(settings inbound.SettingsService, validator Validator, logger *zap.Logger) *SettingsHandlers {
	return &SettingsHandlers{
		settings:  settings,
		validator: validator,
		logger:    logger.Named("settings-handlers"),
	}
}

// Routes mounts the settings endpoints
func (h *SettingsHandlers) Routes(r chi.Router) {
	r.Get("/", h.Get)
	r.Put("/", h.Update)
}

// Get handles GET /api/v1/settings
func (h *SettingsHandlers) Get(w http.ResponseWriter, r *http.Request) {
	current, err := h.settings.GetSettings(r.Context())
	if err != nil {
		writeError(w, r, h.logger, err)
		return
	}

	writeSuccess(w, h.logger, http.StatusOK, current, "")
}

// Update handles PUT /api/v1/settings
func (h *SettingsHandlers) Update(w http.ResponseWriter, r *http.Request) {
	var cmd inbound.UpdateSettingsCommand
	if err := decodeJSON(r, h.validator, &cmd); err != nil {
		writeError(w, r, h.logger, err)
		return
	}

	updated, err := h.settings.UpdateSettings(r.Context(), cmd)
	if err != nil {
		writeError(w, r, h.logger, err)
		return
	}

	writeSuccess(w, h.logger, http.StatusOK, updated, "Settings updated")
}
