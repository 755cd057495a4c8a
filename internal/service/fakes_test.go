package service

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"testing"
	"time"

	"github.com/sakif/dailystretch/internal/media"
	"github.com/sakif/dailystretch/internal/model"
)

// =========================================================================
// FAKES AND HELPERS
// =========================================================================
//
// In-memory implementations of the repository interfaces, shared by the
// service tests in this package. Hand-written fakes (not a mock framework)
// keep the tests dependency-free and readable — what each fake does is
// right here.

type fakeUserRepo struct {
	users  map[string]*model.User // keyed by internal ID
	nextID int
	// set to simulate database failures
	createErr error
	updateErr error
}

func newFakeUserRepo() *fakeUserRepo {
	return &fakeUserRepo{users: make(map[string]*model.User)}
}

func (f *fakeUserRepo) Create(_ context.Context, user *model.User) error {
	if f.createErr != nil {
		return f.createErr
	}
	f.nextID++
	user.ID = fmt.Sprintf("user-%d", f.nextID)
	user.CreatedAt = time.Now()
	user.UpdatedAt = user.CreatedAt
	stored := *user
	f.users[user.ID] = &stored
	return nil
}

func (f *fakeUserRepo) GetByID(_ context.Context, id string) (*model.User, error) {
	u, ok := f.users[id]
	if !ok {
		return nil, fmt.Errorf("user not found with id %s", id)
	}
	copied := *u
	return &copied, nil
}

func (f *fakeUserRepo) GetByUsername(_ context.Context, username string) (*model.User, error) {
	for _, u := range f.users {
		if u.Username == username {
			copied := *u
			return &copied, nil
		}
	}
	return nil, fmt.Errorf("user not found with username %s", username)
}

func (f *fakeUserRepo) Update(_ context.Context, user *model.User) error {
	if f.updateErr != nil {
		return f.updateErr
	}
	user.UpdatedAt = time.Now()
	stored := *user
	f.users[user.ID] = &stored
	return nil
}

func (f *fakeUserRepo) UsernameTaken(_ context.Context, username, excludeID string) (bool, error) {
	for _, u := range f.users {
		if u.Username == username && u.ID != excludeID {
			return true, nil
		}
	}
	return false, nil
}

func (f *fakeUserRepo) EmailTaken(_ context.Context, email, excludeID string) (bool, error) {
	for _, u := range f.users {
		if u.Email == email && u.ID != excludeID {
			return true, nil
		}
	}
	return false, nil
}

type fakeProfileRepo struct {
	profiles map[string]*model.Profile // keyed by userID
	nextID   int
	getErr   error
}

func newFakeProfileRepo() *fakeProfileRepo {
	return &fakeProfileRepo{profiles: make(map[string]*model.Profile)}
}

func (f *fakeProfileRepo) GetOrCreate(_ context.Context, userID string) (*model.Profile, bool, error) {
	if f.getErr != nil {
		return nil, false, f.getErr
	}
	if p, ok := f.profiles[userID]; ok {
		copied := *p
		return &copied, false, nil
	}
	f.nextID++
	p := &model.Profile{
		ID:        fmt.Sprintf("profile-%d", f.nextID),
		UserID:    userID,
		CreatedAt: time.Now(),
		UpdatedAt: time.Now(),
	}
	f.profiles[userID] = p
	copied := *p
	return &copied, true, nil
}

func (f *fakeProfileRepo) Update(_ context.Context, profile *model.Profile) error {
	stored := *profile
	f.profiles[profile.UserID] = &stored
	return nil
}

type fakeSettingsRepo struct {
	settings map[string]*model.Settings // keyed by userID
	nextID   int
	getErr   error
}

func newFakeSettingsRepo() *fakeSettingsRepo {
	return &fakeSettingsRepo{settings: make(map[string]*model.Settings)}
}

func (f *fakeSettingsRepo) GetOrCreate(_ context.Context, userID string) (*model.Settings, bool, error) {
	if f.getErr != nil {
		return nil, false, f.getErr
	}
	if s, ok := f.settings[userID]; ok {
		copied := *s
		return &copied, false, nil
	}
	f.nextID++
	s := model.NewDefaultSettings(userID)
	s.ID = fmt.Sprintf("settings-%d", f.nextID)
	s.CreatedAt = time.Now()
	s.UpdatedAt = time.Now()
	f.settings[userID] = s
	copied := *s
	return &copied, true, nil
}

func (f *fakeSettingsRepo) Update(_ context.Context, settings *model.Settings) error {
	stored := *settings
	f.settings[settings.UserID] = &stored
	return nil
}

type fakeRoutineRepo struct {
	routines map[string]*model.Routine
	order    []string
	nextID   int
}

func newFakeRoutineRepo() *fakeRoutineRepo {
	return &fakeRoutineRepo{routines: make(map[string]*model.Routine)}
}

func (f *fakeRoutineRepo) Create(_ context.Context, routine *model.Routine) error {
	f.nextID++
	routine.ID = fmt.Sprintf("routine-%d", f.nextID)
	routine.CreatedAt = time.Now()
	stored := *routine
	f.routines[routine.ID] = &stored
	f.order = append(f.order, routine.ID)
	return nil
}

func (f *fakeRoutineRepo) GetByID(_ context.Context, id string) (*model.Routine, error) {
	r, ok := f.routines[id]
	if !ok {
		return nil, fmt.Errorf("routine not found with id %s", id)
	}
	copied := *r
	return &copied, nil
}

func (f *fakeRoutineRepo) List(_ context.Context) ([]model.Routine, error) {
	out := []model.Routine{}
	for _, id := range f.order {
		out = append(out, *f.routines[id])
	}
	return out, nil
}

func (f *fakeRoutineRepo) Update(_ context.Context, routine *model.Routine) error {
	if _, ok := f.routines[routine.ID]; !ok {
		return fmt.Errorf("routine not found with id %s", routine.ID)
	}
	stored := *routine
	f.routines[routine.ID] = &stored
	return nil
}

func (f *fakeRoutineRepo) Delete(_ context.Context, id string) error {
	if _, ok := f.routines[id]; !ok {
		return fmt.Errorf("routine not found with id %s", id)
	}
	delete(f.routines, id)
	for i, oid := range f.order {
		if oid == id {
			f.order = append(f.order[:i], f.order[i+1:]...)
			break
		}
	}
	return nil
}

type favKey struct{ userID, routineID string }

type fakeFavoriteRepo struct {
	favs   map[favKey]bool
	nextID int
}

func newFakeFavoriteRepo() *fakeFavoriteRepo {
	return &fakeFavoriteRepo{favs: make(map[favKey]bool)}
}

func (f *fakeFavoriteRepo) Exists(_ context.Context, userID, routineID string) (bool, error) {
	return f.favs[favKey{userID, routineID}], nil
}

func (f *fakeFavoriteRepo) Create(_ context.Context, fav *model.Favorite) error {
	f.nextID++
	fav.ID = fmt.Sprintf("fav-%d", f.nextID)
	fav.CreatedAt = time.Now()
	f.favs[favKey{fav.UserID, fav.RoutineID}] = true
	return nil
}

func (f *fakeFavoriteRepo) Delete(_ context.Context, userID, routineID string) error {
	delete(f.favs, favKey{userID, routineID})
	return nil
}

func (f *fakeFavoriteRepo) ListRoutineIDs(_ context.Context, userID string) ([]string, error) {
	ids := []string{}
	for k := range f.favs {
		if k.userID == userID {
			ids = append(ids, k.routineID)
		}
	}
	return ids, nil
}

func (f *fakeFavoriteRepo) CountByUser(_ context.Context, userID string) (int, error) {
	ids, _ := f.ListRoutineIDs(context.Background(), userID)
	return len(ids), nil
}

// testLogger discards everything below Error so test output stays readable.
func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelError}))
}

// newTestMediaStore gives each test its own throwaway media root.
func newTestMediaStore(t *testing.T) *media.Store {
	t.Helper()
	store, err := media.NewStore(t.TempDir())
	if err != nil {
		t.Fatalf("media.NewStore: %v", err)
	}
	return store
}
