package handler

import (
	"log/slog"
	"net/http"
	"strconv"

	"github.com/sakif/dailystretch/internal/apperror"
	"github.com/sakif/dailystretch/internal/auth"
	"github.com/sakif/dailystretch/internal/service"
)

// SettingsHandler serves the timer settings page and the dashboard summary.
type SettingsHandler struct {
	settings *service.SettingsService
	logger   *slog.Logger
}

func NewSettingsHandler(settings *service.SettingsService, logger *slog.Logger) *SettingsHandler {
	return &SettingsHandler{settings: settings, logger: logger}
}

type settingsView struct {
	OK            bool   `json:"ok"`
	StudyDuration int    `json:"study_duration"`
	BreakDuration int    `json:"break_duration"`
	Theme         string `json:"theme"`
}

// HandleGet returns the caller's settings, creating defaults if the row is
// missing.
func (h *SettingsHandler) HandleGet(w http.ResponseWriter, r *http.Request) {
	userID, _ := auth.UserIDFromContext(r.Context())

	settings, err := h.settings.Get(r.Context(), userID)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, settingsView{
		OK:            true,
		StudyDuration: settings.StudyDuration,
		BreakDuration: settings.BreakDuration,
		Theme:         settings.Theme,
	})
}

// HandleUpdate applies a partial settings edit; only submitted fields change.
func (h *SettingsHandler) HandleUpdate(w http.ResponseWriter, r *http.Request) {
	userID, _ := auth.UserIDFromContext(r.Context())

	if err := r.ParseForm(); err != nil {
		writeError(w, apperror.ValidationFailed("", "Invalid form data"))
		return
	}

	var upd service.SettingsUpdate
	if r.Form.Has("study_duration") {
		n, err := strconv.Atoi(r.FormValue("study_duration"))
		if err != nil {
			writeError(w, apperror.ValidationFailed("study_duration", "Study duration must be a number"))
			return
		}
		upd.StudyDuration = &n
	}
	if r.Form.Has("break_duration") {
		n, err := strconv.Atoi(r.FormValue("break_duration"))
		if err != nil {
			writeError(w, apperror.ValidationFailed("break_duration", "Break duration must be a number"))
			return
		}
		upd.BreakDuration = &n
	}
	if r.Form.Has("theme") {
		v := r.FormValue("theme")
		upd.Theme = &v
	}

	settings, err := h.settings.Update(r.Context(), userID, upd)
	if err != nil {
		writeError(w, err)
		return
	}

	if isXHR(r) {
		writeJSON(w, http.StatusOK, settingsView{
			OK:            true,
			StudyDuration: settings.StudyDuration,
			BreakDuration: settings.BreakDuration,
			Theme:         settings.Theme,
		})
		return
	}
	// The settings form lives on the main page; land back there.
	redirect(w, r, "/main?settings_saved=1")
}

// HandleDashboard returns the main-page summary: timer durations plus the
// caller's favorite count.
func (h *SettingsHandler) HandleDashboard(w http.ResponseWriter, r *http.Request) {
	userID, _ := auth.UserIDFromContext(r.Context())

	dash, err := h.settings.GetDashboard(r.Context(), userID)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, dash)
}
