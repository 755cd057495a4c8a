package auth

import (
	"context"
	"net/http"

	"github.com/sakif/dailystretch/internal/model"
)

// SessionCookie is the name of the HttpOnly cookie carrying the session token.
const SessionCookie = "session"

// contextKey is an unexported type for context keys in this package, so no
// other package can read or shadow the values we store in the request
// context.
type contextKey string

const userIDKey contextKey = "userID"

// UserGetter is the slice of the user repository the superuser middleware
// needs. Declared here (at the consumer) so the middleware can be tested
// with a two-line fake.
type UserGetter interface {
	GetByID(ctx context.Context, id string) (*model.User, error)
}

// RequireAuth enforces a valid session on protected routes.
//
// It reads the token from the session cookie, validates it, and stores the
// userID in the request context. Missing or invalid token → 401 and the
// chain stops.
//
// The cookie is HttpOnly, so page scripts can't steal the token; the browser
// attaches it automatically, which is why the frontend never handles tokens.
func RequireAuth(tokens *TokenService) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			userID, err := extractUserID(r, tokens)
			if err != nil {
				http.Error(w, `{"ok":false,"error":"Unauthorized"}`, http.StatusUnauthorized)
				return
			}

			ctx := context.WithValue(r.Context(), userIDKey, userID)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// RequireSuperuser gates the admin endpoints. It must run after RequireAuth
// (it reads the userID from the context) and looks the account up so role
// changes take effect immediately — a demoted admin is locked out on their
// very next request, not when their token happens to expire.
//
// Authorization failures are never downgraded: a non-superuser gets 403
// regardless of how valid the rest of the request is.
func RequireSuperuser(users UserGetter) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			userID, ok := UserIDFromContext(r.Context())
			if !ok {
				http.Error(w, `{"ok":false,"error":"Unauthorized"}`, http.StatusUnauthorized)
				return
			}

			user, err := users.GetByID(r.Context(), userID)
			if err != nil || !user.IsSuperuser {
				w.Header().Set("Content-Type", "application/json")
				w.WriteHeader(http.StatusForbidden)
				w.Write([]byte(`{"ok":false,"error":"Unauthorized"}`))
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

// UserIDFromContext retrieves the authenticated user's ID from the request
// context. Returns ("", false) on routes where no valid session was present.
func UserIDFromContext(ctx context.Context) (string, bool) {
	id, ok := ctx.Value(userIDKey).(string)
	return id, ok && id != ""
}

// ContextWithUserID returns a context carrying the given userID. Exported
// for handler tests, which need to simulate what RequireAuth does.
func ContextWithUserID(ctx context.Context, userID string) context.Context {
	return context.WithValue(ctx, userIDKey, userID)
}

// extractUserID reads the session cookie and validates its token.
func extractUserID(r *http.Request, tokens *TokenService) (string, error) {
	cookie, err := r.Cookie(SessionCookie)
	if err != nil {
		return "", err
	}

	return tokens.Validate(cookie.Value)
}
