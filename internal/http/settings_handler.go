package http

import (
	"fmt"
	"net/http"

	"github.com/phatnt99/shelfwise/internal/apperr"
	"github.com/phatnt99/shelfwise/internal/model"
	"github.com/phatnt99/shelfwise/internal/service"
	"github.com/phatnt99/shelfwise/pkg/validator"
)

type settingsHandler struct {
	responder   *responder
	validator   validator.Validator
	settingsSvc service.SettingsService
}

func newSettingsHandler(responder *responder, validator validator.Validator, settingsSvc service.SettingsService) *settingsHandler {
	return &settingsHandler{
		responder:   responder,
		validator:   validator,
		settingsSvc: settingsSvc,
	}
}

// There is no authentication layer: the caller supplies its own user key
// (email), exactly as the storefront does. Verifying identity is a known gap.
type saveSettingsRequest struct {
	Username string      `json:"username" validate:"required"`
	Email    string      `json:"email" validate:"required,email"`
	Theme    model.Theme `json:"theme" validate:"required,enum"`
}

func (h *settingsHandler) getSettings(w http.ResponseWriter, r *http.Request) {
	userKey := r.URL.Query().Get("email")
	if userKey == "" {
		h.responder.respondError(w, r, apperr.ValidationErr.WrapParent(
			fmt.Errorf("email query parameter is required")))
		return
	}

	settings, err := h.settingsSvc.GetSettings(r.Context(), userKey)
	if err != nil {
		h.responder.respondError(w, r, fmt.Errorf("settings service get settings: %w", err))
		return
	}

	h.responder.respond(w, r, http.StatusOK, settings)
}

func (h *settingsHandler) saveSettings(w http.ResponseWriter, r *http.Request) {
	var req saveSettingsRequest
	if err := decodeJSON(r, &req); err != nil {
		h.responder.respondError(w, r, err)
		return
	}

	if err := h.validator.Validate(req); err != nil {
		h.responder.respondError(w, r, err)
		return
	}

	settings, err := h.settingsSvc.SaveSettings(r.Context(), service.SaveSettingsParams{
		UserKey:  req.Email,
		Username: req.Username,
		Theme:    req.Theme,
	})
	if err != nil {
		h.responder.respondError(w, r, fmt.Errorf("settings service save settings: %w", err))
		return
	}

	h.responder.respond(w, r, http.StatusOK, settings)
}
