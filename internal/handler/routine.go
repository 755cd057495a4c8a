package handler

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/sakif/dailystretch/internal/apperror"
	"github.com/sakif/dailystretch/internal/auth"
	"github.com/sakif/dailystretch/internal/service"
)

// RoutineHandler serves the routine catalog and favorite toggling. Catalog
// writes are admin-only and live on AdminHandler.
type RoutineHandler struct {
	routines *service.RoutineService
	logger   *slog.Logger
}

func NewRoutineHandler(routines *service.RoutineService, logger *slog.Logger) *RoutineHandler {
	return &RoutineHandler{routines: routines, logger: logger}
}

// HandleList returns the full routine catalog. The catalog is shared across
// users; per-user favorite state comes from HandleFavoriteList.
func (h *RoutineHandler) HandleList(w http.ResponseWriter, r *http.Request) {
	routines, err := h.routines.List(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, routines)
}

// HandleFavoriteToggle flips the caller's favorite state for a routine and
// reports the new state as {"ok": true, "favorited": bool}.
func (h *RoutineHandler) HandleFavoriteToggle(w http.ResponseWriter, r *http.Request) {
	userID, _ := auth.UserIDFromContext(r.Context())

	if err := r.ParseForm(); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]any{"ok": false, "error": "Missing ID"})
		return
	}
	routineID := r.PostFormValue("routine_id")
	if routineID == "" {
		writeJSON(w, http.StatusBadRequest, map[string]any{"ok": false, "error": "Missing ID"})
		return
	}

	favorited, err := h.routines.ToggleFavorite(r.Context(), userID, routineID)
	if err != nil {
		if errors.Is(err, apperror.ErrNotFound) {
			// The contract for an unknown routine is "Invalid ID", not the
			// generic not-found text.
			writeJSON(w, http.StatusNotFound, map[string]any{"ok": false, "error": "Invalid ID"})
			return
		}
		writeOKError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{"ok": true, "favorited": favorited})
}

// HandleFavoriteList returns the ids of the caller's favorited routines as a
// bare JSON array. The catalog page maps over the response directly to paint
// the star icons, so there is no envelope here.
func (h *RoutineHandler) HandleFavoriteList(w http.ResponseWriter, r *http.Request) {
	userID, _ := auth.UserIDFromContext(r.Context())

	ids, err := h.routines.ListFavoriteIDs(r.Context(), userID)
	if err != nil {
		writeOKError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, ids)
}
