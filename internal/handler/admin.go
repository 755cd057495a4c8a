package handler

import (
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/sakif/dailystretch/internal/auth"
	"github.com/sakif/dailystretch/internal/service"
)

// AdminHandler serves the superuser-only endpoints: routine catalog writes
// and admin-flag toggling. RequireSuperuser runs before any of these, so the
// handlers themselves don't re-check the role.
//
// All responses use the {"ok": ...} shape the admin page scripts expect.
type AdminHandler struct {
	routines *service.RoutineService
	admin    *service.AdminService
	logger   *slog.Logger
}

func NewAdminHandler(routines *service.RoutineService, admin *service.AdminService, logger *slog.Logger) *AdminHandler {
	return &AdminHandler{routines: routines, admin: admin, logger: logger}
}

// routineInputFromForm reads the admin routine form. A non-numeric duration
// parses to 0, which the service rejects as missing.
func routineInputFromForm(r *http.Request) service.RoutineInput {
	minutes, _ := strconv.Atoi(r.PostFormValue("duration_minutes"))
	return service.RoutineInput{
		Title:           r.PostFormValue("title"),
		Description:     r.PostFormValue("description"),
		Category:        r.PostFormValue("category"),
		Difficulty:      r.PostFormValue("difficulty"),
		DurationMinutes: minutes,
		Instructions:    r.PostFormValue("instructions"),
	}
}

// HandleAddRoutine creates a catalog entry.
func (h *AdminHandler) HandleAddRoutine(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]any{"ok": false, "error": "Invalid form data"})
		return
	}

	routine, err := h.routines.Create(r.Context(), routineInputFromForm(r))
	if err != nil {
		writeOKError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, map[string]any{"ok": true, "id": routine.ID})
}

// HandleUpdateRoutine rewrites the catalog entry named in the URL.
func (h *AdminHandler) HandleUpdateRoutine(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]any{"ok": false, "error": "Invalid form data"})
		return
	}

	id := chi.URLParam(r, "id")
	if _, err := h.routines.Update(r.Context(), id, routineInputFromForm(r)); err != nil {
		writeOKError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"ok": true})
}

// HandleDeleteRoutine removes the catalog entry named in the URL. Favorites
// pointing at it go with it.
func (h *AdminHandler) HandleDeleteRoutine(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if err := h.routines.Delete(r.Context(), id); err != nil {
		writeOKError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"ok": true})
}

// HandleToggleAdmin flips another user's staff/superuser flags. The service
// refuses self-demotion so an admin can't lock themselves out mid-session.
func (h *AdminHandler) HandleToggleAdmin(w http.ResponseWriter, r *http.Request) {
	actorID, _ := auth.UserIDFromContext(r.Context())

	if err := r.ParseForm(); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]any{"ok": false, "error": "Invalid form data"})
		return
	}

	target, err := h.admin.ToggleAdminStatus(r.Context(), actorID, r.PostFormValue("user_id"))
	if err != nil {
		writeOKError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"ok":           true,
		"username":     target.Username,
		"is_superuser": target.IsSuperuser,
	})
}
