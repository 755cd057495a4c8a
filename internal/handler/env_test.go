package handler_test

// Handler tests run against the real service and repository stack on an
// in-memory database, so they cover the whole request path below the router.
// Only the mirror is swapped out (left unconfigured, or pointed at a local
// httptest server).

import (
	"context"
	"log/slog"
	"net/http"
	"net/url"
	"os"
	"strings"
	"testing"

	"github.com/sakif/dailystretch/internal/auth"
	"github.com/sakif/dailystretch/internal/handler"
	"github.com/sakif/dailystretch/internal/media"
	"github.com/sakif/dailystretch/internal/mirror"
	"github.com/sakif/dailystretch/internal/model"
	"github.com/sakif/dailystretch/internal/repository/sqlite"
	"github.com/sakif/dailystretch/internal/service"
)

const testAdminCode = "hunter2-admin-code"

type testEnv struct {
	db       *sqlite.DB
	accounts *service.AccountService
	profiles *service.ProfileService
	settings *service.SettingsService
	routines *service.RoutineService
	admin    *service.AdminService

	Account  *handler.AccountHandler
	Profile  *handler.ProfileHandler
	Settings *handler.SettingsHandler
	Routine  *handler.RoutineHandler
	Admin    *handler.AdminHandler
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelError}))

	db, err := sqlite.New(":memory:")
	if err != nil {
		t.Fatalf("opening database: %v", err)
	}
	t.Cleanup(func() { db.Close() })

	store, err := media.NewStore(t.TempDir())
	if err != nil {
		t.Fatalf("creating media store: %v", err)
	}

	tokens, err := auth.NewTokenService("test-secret-0123456789")
	if err != nil {
		t.Fatalf("creating token service: %v", err)
	}
	passwords := auth.NewPasswordServiceForTest(4)

	// Unconfigured mirror: SyncProfile is a silent no-op.
	mirrorClient := mirror.NewClient("", "")

	provisioner := service.NewProvisioner(db.Profiles(), db.Settings(), store, "", logger)
	accounts := service.NewAccountService(db.Users(), provisioner, tokens, passwords, testAdminCode, logger)
	profiles := service.NewProfileService(db.Users(), db.Profiles(), store, mirrorClient, logger)
	settings := service.NewSettingsService(db.Settings(), db.Favorites(), logger)
	routines := service.NewRoutineService(db.Routines(), db.Favorites(), logger)
	admin := service.NewAdminService(db.Users(), logger)

	return &testEnv{
		db:       db,
		accounts: accounts,
		profiles: profiles,
		settings: settings,
		routines: routines,
		admin:    admin,

		Account:  handler.NewAccountHandler(accounts, logger),
		Profile:  handler.NewProfileHandler(profiles, accounts, logger),
		Settings: handler.NewSettingsHandler(settings, logger),
		Routine:  handler.NewRoutineHandler(routines, logger),
		Admin:    handler.NewAdminHandler(routines, admin, logger),
	}
}

// registerUser creates an account through the service layer and returns it.
func (env *testEnv) registerUser(t *testing.T, username string) *model.User {
	t.Helper()
	user, fieldErrs, err := env.accounts.Register(context.Background(), service.RegisterInput{
		Username:        username,
		Email:           username + "@example.com",
		Password:        "password1",
		ConfirmPassword: "password1",
	})
	if err != nil || len(fieldErrs) > 0 {
		t.Fatalf("registering %s: err=%v fieldErrs=%v", username, err, fieldErrs)
	}
	return user
}

// formRequest builds a urlencoded POST with the ambient user already in the
// request context, the way RequireAuth leaves it.
func formRequest(t *testing.T, target, userID string, form url.Values) *http.Request {
	t.Helper()
	req, err := http.NewRequest(http.MethodPost, target, strings.NewReader(form.Encode()))
	if err != nil {
		t.Fatalf("building request: %v", err)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req.Header.Set("X-Requested-With", "XMLHttpRequest")
	if userID != "" {
		req = req.WithContext(auth.ContextWithUserID(req.Context(), userID))
	}
	return req
}
