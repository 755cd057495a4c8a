package handler

import (
	"log/slog"
	"net/http"

	"github.com/sakif/dailystretch/internal/auth"
	"github.com/sakif/dailystretch/internal/service"
)

// AccountHandler serves registration, login, logout and the current-user
// endpoint. Registration and login accept both form submissions and XHR;
// see isXHR.
type AccountHandler struct {
	accounts *service.AccountService
	logger   *slog.Logger
}

func NewAccountHandler(accounts *service.AccountService, logger *slog.Logger) *AccountHandler {
	return &AccountHandler{accounts: accounts, logger: logger}
}

// HandleRegister creates an account. Validation failures come back as
// {"ok": false, "errors": {...}} with the submitted username and email
// echoed so the form can be refilled. The password is never echoed.
func (h *AccountHandler) HandleRegister(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		writeError(w, err)
		return
	}

	input := service.RegisterInput{
		Username:        r.PostFormValue("username"),
		Email:           r.PostFormValue("email"),
		Password:        r.PostFormValue("password"),
		ConfirmPassword: r.PostFormValue("confirm_password"),
		AdminCode:       r.PostFormValue("admin_code"),
	}

	user, fieldErrs, err := h.accounts.Register(r.Context(), input)
	if err != nil {
		writeError(w, err)
		return
	}
	if len(fieldErrs) > 0 {
		// 200, not 400: the form script always reads the body and decides
		// on data.ok, and a non-2xx status would short-circuit it.
		writeJSON(w, http.StatusOK, map[string]any{
			"ok":       false,
			"errors":   fieldErrs,
			"username": input.Username,
			"email":    input.Email,
		})
		return
	}

	if isXHR(r) {
		writeJSON(w, http.StatusCreated, map[string]any{
			"ok":       true,
			"redirect": "/login",
			"username": user.Username,
		})
		return
	}
	redirect(w, r, "/login?registered=1")
}

// HandleLogin verifies credentials and establishes a session cookie.
func (h *AccountHandler) HandleLogin(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		writeError(w, err)
		return
	}

	result, err := h.accounts.Login(r.Context(), r.PostFormValue("username"), r.PostFormValue("password"))
	if err != nil {
		if isXHR(r) {
			writeError(w, err)
			return
		}
		redirect(w, r, "/login?error=invalid_credentials")
		return
	}

	http.SetCookie(w, &http.Cookie{
		Name:     auth.SessionCookie,
		Value:    result.Token,
		Path:     "/",
		MaxAge:   int(auth.SessionDuration.Seconds()),
		HttpOnly: true, // not readable from JS
		SameSite: http.SameSiteLaxMode,
	})

	if isXHR(r) {
		writeJSON(w, http.StatusOK, map[string]any{
			"ok":       true,
			"redirect": "/main",
			"username": result.User.Username,
		})
		return
	}
	redirect(w, r, "/main")
}

// HandleLogout clears the session cookie. There is no server-side session
// state to tear down; the token simply stops being sent.
func (h *AccountHandler) HandleLogout(w http.ResponseWriter, r *http.Request) {
	http.SetCookie(w, &http.Cookie{
		Name:     auth.SessionCookie,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})

	if isXHR(r) {
		writeJSON(w, http.StatusOK, map[string]any{"ok": true})
		return
	}
	redirect(w, r, "/login")
}

// HandleMe returns the authenticated user. The frontend calls this on page
// load to decide which nav items to show.
func (h *AccountHandler) HandleMe(w http.ResponseWriter, r *http.Request) {
	userID, ok := auth.UserIDFromContext(r.Context())
	if !ok {
		writeJSON(w, http.StatusUnauthorized, map[string]any{"ok": false, "error": "Unauthorized"})
		return
	}

	user, err := h.accounts.GetUserByID(r.Context(), userID)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, user)
}
