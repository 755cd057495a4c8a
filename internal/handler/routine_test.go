package handler_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sakif/dailystretch/internal/auth"
	"github.com/sakif/dailystretch/internal/model"
	"github.com/sakif/dailystretch/internal/service"
)

// seedRoutine inserts a routine through the service layer.
func seedRoutine(t *testing.T, env *testEnv, title string) *model.Routine {
	t.Helper()
	routine, err := env.routines.Create(context.Background(), service.RoutineInput{
		Title:           title,
		Category:        "neck",
		Difficulty:      "easy",
		DurationMinutes: 10,
	})
	require.NoError(t, err)
	return routine
}

func TestRoutineHandler_HandleList(t *testing.T) {
	env := newTestEnv(t)
	seedRoutine(t, env, "Neck Rolls")
	seedRoutine(t, env, "Shoulder Shrugs")

	req, err := http.NewRequest(http.MethodGet, "/api/routines", nil)
	require.NoError(t, err)
	rr := httptest.NewRecorder()

	env.Routine.HandleList(rr, req)

	assert.Equal(t, http.StatusOK, rr.Code)

	var routines []model.Routine
	require.NoError(t, json.NewDecoder(rr.Body).Decode(&routines))
	require.Len(t, routines, 2)
	assert.Equal(t, "Neck Rolls", routines[0].Title)
	assert.Equal(t, "10 min", routines[0].DurationText)
}

func TestRoutineHandler_HandleList_Empty(t *testing.T) {
	env := newTestEnv(t)

	req, err := http.NewRequest(http.MethodGet, "/api/routines", nil)
	require.NoError(t, err)
	rr := httptest.NewRecorder()

	env.Routine.HandleList(rr, req)

	assert.Equal(t, http.StatusOK, rr.Code)
	// Empty catalog is [] — a null would break the frontend's .map().
	assert.JSONEq(t, "[]", rr.Body.String())
}

func TestRoutineHandler_HandleFavoriteToggle(t *testing.T) {
	t.Run("toggle on then off", func(t *testing.T) {
		env := newTestEnv(t)
		user := env.registerUser(t, "alice")
		routine := seedRoutine(t, env, "Neck Rolls")

		form := url.Values{"routine_id": {routine.ID}}

		rr := httptest.NewRecorder()
		env.Routine.HandleFavoriteToggle(rr, formRequest(t, "/favorite-toggle", user.ID, form))

		assert.Equal(t, http.StatusOK, rr.Code)
		var res struct {
			OK        bool `json:"ok"`
			Favorited bool `json:"favorited"`
		}
		require.NoError(t, json.NewDecoder(rr.Body).Decode(&res))
		assert.True(t, res.OK)
		assert.True(t, res.Favorited)

		// Second toggle removes it.
		rr = httptest.NewRecorder()
		env.Routine.HandleFavoriteToggle(rr, formRequest(t, "/favorite-toggle", user.ID, form))

		assert.Equal(t, http.StatusOK, rr.Code)
		require.NoError(t, json.NewDecoder(rr.Body).Decode(&res))
		assert.True(t, res.OK)
		assert.False(t, res.Favorited)
	})

	t.Run("missing routine id", func(t *testing.T) {
		env := newTestEnv(t)
		user := env.registerUser(t, "alice")

		rr := httptest.NewRecorder()
		env.Routine.HandleFavoriteToggle(rr, formRequest(t, "/favorite-toggle", user.ID, url.Values{}))

		assert.Equal(t, http.StatusBadRequest, rr.Code)
		assert.JSONEq(t, `{"ok": false, "error": "Missing ID"}`, rr.Body.String())
	})

	t.Run("unknown routine id", func(t *testing.T) {
		env := newTestEnv(t)
		user := env.registerUser(t, "alice")

		form := url.Values{"routine_id": {"does-not-exist"}}
		rr := httptest.NewRecorder()
		env.Routine.HandleFavoriteToggle(rr, formRequest(t, "/favorite-toggle", user.ID, form))

		assert.Equal(t, http.StatusNotFound, rr.Code)
		assert.JSONEq(t, `{"ok": false, "error": "Invalid ID"}`, rr.Body.String())
	})
}

func TestRoutineHandler_HandleFavoriteList(t *testing.T) {
	env := newTestEnv(t)
	alice := env.registerUser(t, "alice")
	bob := env.registerUser(t, "bob")
	r1 := seedRoutine(t, env, "Neck Rolls")
	seedRoutine(t, env, "Shoulder Shrugs")

	// Alice favorites one routine; Bob none.
	rr := httptest.NewRecorder()
	env.Routine.HandleFavoriteToggle(rr, formRequest(t, "/favorite-toggle", alice.ID, url.Values{
		"routine_id": {r1.ID},
	}))
	require.Equal(t, http.StatusOK, rr.Code)

	listFor := func(userID string) []string {
		req, err := http.NewRequest(http.MethodGet, "/favorite-list", nil)
		require.NoError(t, err)
		req = req.WithContext(auth.ContextWithUserID(req.Context(), userID))
		rr := httptest.NewRecorder()
		env.Routine.HandleFavoriteList(rr, req)
		require.Equal(t, http.StatusOK, rr.Code)

		// The response is a bare array. The catalog script calls .map()
		// on it directly, so an envelope or a null would break it.
		var ids []string
		require.NoError(t, json.NewDecoder(rr.Body).Decode(&ids))
		require.NotNil(t, ids)
		return ids
	}

	assert.Equal(t, []string{r1.ID}, listFor(alice.ID))
	assert.Empty(t, listFor(bob.ID))
}

func TestRoutineHandler_HandleFavoriteList_Empty(t *testing.T) {
	env := newTestEnv(t)
	user := env.registerUser(t, "alice")

	req, err := http.NewRequest(http.MethodGet, "/favorite-list", nil)
	require.NoError(t, err)
	req = req.WithContext(auth.ContextWithUserID(req.Context(), user.ID))
	rr := httptest.NewRecorder()
	env.Routine.HandleFavoriteList(rr, req)

	assert.Equal(t, http.StatusOK, rr.Code)
	assert.JSONEq(t, "[]", rr.Body.String())
}
