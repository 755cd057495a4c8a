package handler

// RESPONSE HELPERS
//
// Two JSON error shapes coexist in this API, both inherited by the frontend:
//
//   - ErrorResponse {"error": "...", "message": "..."} — used by the profile
//     and upload endpoints, where "error" is a machine-readable code
//     (no_file, invalid_type, file_too_large, username_taken, save_failed)
//     the upload widget switches on.
//
//   - OKResponse {"ok": false, "error": "..."} — used by the favorite and
//     admin endpoints, whose scripts check data.ok and show data.error.
//
// writeError handles the first shape; writeOKError the second. Everything
// else goes through writeJSON.

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/sakif/dailystretch/internal/apperror"
)

// ErrorResponse is the code+message error shape.
type ErrorResponse struct {
	Error   string `json:"error"`   // machine-readable code
	Message string `json:"message"` // human-readable description
}

// writeJSON sends a JSON response with the given status code. Headers and
// status must be written before the body — the first Write flushes them.
func writeJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if data != nil {
		if err := json.NewEncoder(w).Encode(data); err != nil {
			// Headers are gone already; all we can do is log.
			slog.Error("failed to encode JSON response", slog.String("error", err.Error()))
		}
	}
}

// statusAndCode classifies a domain error into an HTTP status and a
// machine-readable code. An explicit AppError.Code (username_taken,
// file_too_large, ...) wins over the generic per-sentinel code.
func statusAndCode(err error) (int, string, string) {
	var appErr *apperror.AppError
	if !errors.As(err, &appErr) {
		// Unknown error → generic 500, no internal details leaked.
		return http.StatusInternalServerError, "internal_error", "An internal error occurred"
	}

	status := http.StatusInternalServerError
	code := "internal_error"

	switch {
	case errors.Is(err, apperror.ErrValidation):
		status = http.StatusBadRequest
		code = "validation_error"
	case errors.Is(err, apperror.ErrNotFound):
		status = http.StatusNotFound
		code = "not_found"
	case errors.Is(err, apperror.ErrForbidden):
		status = http.StatusForbidden
		code = "forbidden"
	case errors.Is(err, apperror.ErrUnauthorized):
		status = http.StatusUnauthorized
		code = "unauthorized"
	case errors.Is(err, apperror.ErrConflict):
		status = http.StatusConflict
		code = "conflict"
	}

	if appErr.Code != "" {
		code = appErr.Code
	}

	return status, code, appErr.Message
}

// writeError maps a domain error to the code+message shape. The service
// layer returns apperror sentinels; this is the only place they meet HTTP
// status codes.
func writeError(w http.ResponseWriter, err error) {
	status, code, message := statusAndCode(err)
	writeJSON(w, status, ErrorResponse{Error: code, Message: message})
}

// writeOKError maps a domain error to the {"ok": false, "error": ...} shape
// used by the favorite and admin endpoints.
func writeOKError(w http.ResponseWriter, err error) {
	status, _, message := statusAndCode(err)
	writeJSON(w, status, map[string]any{"ok": false, "error": message})
}

// isXHR reports whether the request came from the frontend's fetch calls
// (which set X-Requested-With) rather than a plain form submission. XHR
// callers get JSON; form submissions get a redirect they can follow.
func isXHR(r *http.Request) bool {
	return r.Header.Get("X-Requested-With") == "XMLHttpRequest"
}

// redirect sends a 303 See Other. POST handlers answering form submissions
// use it so a refresh doesn't resubmit; outcome hints ride in query
// parameters ("/login?registered=1") for the next page to display.
func redirect(w http.ResponseWriter, r *http.Request, location string) {
	http.Redirect(w, r, location, http.StatusSeeOther)
}
