package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"lineup/internal/db"
	"lineup/internal/events"
	"lineup/internal/model"
	"lineup/internal/schedule"
	"lineup/internal/session"
)

type testEnv struct {
	router   chi.Router
	database *db.DB
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	logger := zerolog.New(io.Discard)

	database, err := db.NewDB(filepath.Join(t.TempDir(), "lineup.db"), &logger)
	require.NoError(t, err)
	t.Cleanup(func() { _ = database.Close() })

	ctx := context.Background()
	for _, p := range []model.Performer{
		{ID: "p1", Name: "The Midnight Echo", Image: "echo.jpg"},
		{ID: "p2", Name: "Violet Static"},
	} {
		require.NoError(t, database.UpsertPerformer(ctx, &p))
	}

	sessions := session.NewManager(time.Hour, nil, events.NewBus(), &logger)
	handler := NewHandler(sessions, database, &logger, 1000, 1000)
	return &testEnv{router: handler.Routes(), database: database}
}

func (e *testEnv) do(t *testing.T, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(data)
	}
	req := httptest.NewRequest(method, path, reader)
	rec := httptest.NewRecorder()
	e.router.ServeHTTP(rec, req)
	return rec
}

func decode[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &v))
	return v
}

func (e *testEnv) createSession(t *testing.T) sessionResponse {
	t.Helper()
	rec := e.do(t, http.MethodPost, "/sessions", createSessionRequest{
		EventID:  "evt-1",
		StartsAt: time.Date(2025, 6, 20, 21, 0, 0, 0, time.Local),
		EndsAt:   time.Date(2025, 6, 21, 3, 0, 0, 0, time.Local),
	})
	require.Equal(t, http.StatusCreated, rec.Code)
	return decode[sessionResponse](t, rec)
}

func TestCreateSession(t *testing.T) {
	env := newTestEnv(t)

	resp := env.createSession(t)
	assert.NotEmpty(t, resp.SessionID)
	assert.Equal(t, "evt-1", resp.EventID)
	assert.Len(t, resp.Window.Days, 2)
	assert.Len(t, resp.Roster, 2)
	require.Len(t, resp.Snapshot.Stages, 1)
	assert.Equal(t, schedule.DefaultStageName, resp.Snapshot.Stages[0].Name)
}

func TestCreateSession_MissingFields(t *testing.T) {
	env := newTestEnv(t)

	rec := env.do(t, http.MethodPost, "/sessions", createSessionRequest{EventID: "evt-1"})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestPlaceAndDrop(t *testing.T) {
	env := newTestEnv(t)
	sess := env.createSession(t)
	stageID := sess.Snapshot.Stages[0].ID
	base := "/sessions/" + sess.SessionID

	// Explicit placement.
	rec := env.do(t, http.MethodPost, base+"/slots", placeRequest{
		PerformerID: "p1", Day: "2025-06-20", Hour: "21:00", StageID: stageID,
	})
	require.Equal(t, http.StatusCreated, rec.Code)
	slot := decode[schedule.Slot](t, rec)
	assert.Equal(t, "21:00", slot.Start)
	assert.Equal(t, "22:00", slot.End)
	assert.Equal(t, "The Midnight Echo", slot.PerformerName)

	// Drag and drop onto a free cell.
	rec = env.do(t, http.MethodPost, base+"/drag", dragRequest{PerformerID: "p2"})
	require.Equal(t, http.StatusNoContent, rec.Code)
	rec = env.do(t, http.MethodPost, base+"/drop", dropRequest{
		Day: "2025-06-20", Hour: "22:00", StageID: stageID,
	})
	require.Equal(t, http.StatusCreated, rec.Code)

	// Colliding drop: 409 with an empty body, nothing changes.
	rec = env.do(t, http.MethodPost, base+"/drag", dragRequest{PerformerID: "p2"})
	require.Equal(t, http.StatusNoContent, rec.Code)
	rec = env.do(t, http.MethodPost, base+"/drop", dropRequest{
		Day: "2025-06-20", Hour: "21:00", StageID: stageID,
	})
	assert.Equal(t, http.StatusConflict, rec.Code)
	assert.Empty(t, rec.Body.Bytes())

	rec = env.do(t, http.MethodGet, base+"/", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Len(t, decode[sessionResponse](t, rec).Snapshot.Slots, 2)
}

func TestEditSlot_SurfacesMessages(t *testing.T) {
	env := newTestEnv(t)
	sess := env.createSession(t)
	stageID := sess.Snapshot.Stages[0].ID
	base := "/sessions/" + sess.SessionID

	rec := env.do(t, http.MethodPost, base+"/slots", placeRequest{
		PerformerID: "p1", Day: "2025-06-20", Hour: "21:00", StageID: stageID,
	})
	require.Equal(t, http.StatusCreated, rec.Code)

	rec = env.do(t, http.MethodPost, base+"/slots", placeRequest{
		PerformerID: "p2", Day: "2025-06-20", Hour: "22:00", StageID: stageID,
	})
	require.Equal(t, http.StatusCreated, rec.Code)
	y := decode[schedule.Slot](t, rec)

	// Invalid range carries a message, unlike drop rejections.
	rec = env.do(t, http.MethodPatch, base+"/slots/"+y.ID, editSlotRequest{
		Start: "22:00", End: "22:00", StageID: stageID,
	})
	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	assert.Contains(t, decode[errorResponse](t, rec).Error, "end time")

	// Collision with the 21:00 slot.
	rec = env.do(t, http.MethodPatch, base+"/slots/"+y.ID, editSlotRequest{
		Start: "21:30", End: "22:30", StageID: stageID,
	})
	assert.Equal(t, http.StatusConflict, rec.Code)
	assert.Contains(t, decode[errorResponse](t, rec).Error, "overlaps")

	// A quarter-hour start within free range succeeds.
	rec = env.do(t, http.MethodPatch, base+"/slots/"+y.ID, editSlotRequest{
		Start: "22:15", End: "23:00", StageID: stageID,
	})
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "22:15", decode[schedule.Slot](t, rec).Start)
}

func TestBulkHourDeletion_TwoPhase(t *testing.T) {
	env := newTestEnv(t)
	sess := env.createSession(t)
	stageID := sess.Snapshot.Stages[0].ID
	base := "/sessions/" + sess.SessionID

	for _, day := range []string{"2025-06-20"} {
		rec := env.do(t, http.MethodPost, base+"/slots", placeRequest{
			PerformerID: "p1", Day: day, Hour: "21:00", StageID: stageID,
		})
		require.Equal(t, http.StatusCreated, rec.Code)
	}

	query := fmt.Sprintf("?hour=%s&stage_id=%s", "21:00", stageID)

	// Count is surfaced before anything is deleted.
	rec := env.do(t, http.MethodGet, base+"/slots/hour-count"+query, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, 1, decode[hourCountResponse](t, rec).Count)

	// Unconfirmed deletion is refused and reports the count.
	rec = env.do(t, http.MethodDelete, base+"/slots"+query, nil)
	assert.Equal(t, http.StatusConflict, rec.Code)
	assert.Equal(t, 1, decode[hourCountResponse](t, rec).Count)

	rec = env.do(t, http.MethodDelete, base+"/slots"+query+"&confirm=true", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, 1, decode[bulkDeleteResponse](t, rec).Removed)

	// Nothing left at that hour: no confirmation round-trip.
	rec = env.do(t, http.MethodDelete, base+"/slots"+query, nil)
	assert.Equal(t, http.StatusNoContent, rec.Code)
}

func TestStageLifecycle(t *testing.T) {
	env := newTestEnv(t)
	sess := env.createSession(t)
	mainID := sess.Snapshot.Stages[0].ID
	base := "/sessions/" + sess.SessionID

	// The last stage cannot be removed.
	rec := env.do(t, http.MethodDelete, base+"/stages/"+mainID, nil)
	assert.Equal(t, http.StatusConflict, rec.Code)

	rec = env.do(t, http.MethodPost, base+"/stages", addStageRequest{Name: "Riverside Tent"})
	require.Equal(t, http.StatusCreated, rec.Code)
	second := decode[schedule.Stage](t, rec)

	// Slots on the removed stage are cascaded away.
	rec = env.do(t, http.MethodPost, base+"/slots", placeRequest{
		PerformerID: "p1", Day: "2025-06-20", Hour: "21:00", StageID: second.ID,
	})
	require.Equal(t, http.StatusCreated, rec.Code)

	rec = env.do(t, http.MethodDelete, base+"/stages/"+second.ID, nil)
	require.Equal(t, http.StatusNoContent, rec.Code)

	rec = env.do(t, http.MethodGet, base+"/", nil)
	snap := decode[sessionResponse](t, rec).Snapshot
	assert.Len(t, snap.Stages, 1)
	assert.Empty(t, snap.Slots)
}

func TestBlackoutToggle(t *testing.T) {
	env := newTestEnv(t)
	sess := env.createSession(t)
	stageID := sess.Snapshot.Stages[0].ID
	base := "/sessions/" + sess.SessionID

	rec := env.do(t, http.MethodPost, base+"/blackouts", toggleBlackoutRequest{
		Day: "2025-06-20", Hour: "21:00",
	})
	require.Equal(t, http.StatusOK, rec.Code)
	assert.True(t, decode[toggleBlackoutResponse](t, rec).Blocked)

	// Placement onto the blocked cell is silently rejected.
	rec = env.do(t, http.MethodPost, base+"/slots", placeRequest{
		PerformerID: "p1", Day: "2025-06-20", Hour: "21:00", StageID: stageID,
	})
	assert.Equal(t, http.StatusConflict, rec.Code)
	assert.Empty(t, rec.Body.Bytes())

	rec = env.do(t, http.MethodPost, base+"/blackouts", toggleBlackoutRequest{
		Day: "2025-06-20", Hour: "21:00",
	})
	require.Equal(t, http.StatusOK, rec.Code)
	assert.False(t, decode[toggleBlackoutResponse](t, rec).Blocked)
}

func TestFinalizeAndFetchLineup(t *testing.T) {
	env := newTestEnv(t)
	sess := env.createSession(t)
	stageID := sess.Snapshot.Stages[0].ID
	base := "/sessions/" + sess.SessionID

	rec := env.do(t, http.MethodPost, base+"/slots", placeRequest{
		PerformerID: "p1", Day: "2025-06-20", Hour: "21:00", StageID: stageID,
	})
	require.Equal(t, http.StatusCreated, rec.Code)

	rec = env.do(t, http.MethodPost, base+"/finalize", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	rec = env.do(t, http.MethodGet, "/lineups/evt-1", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	lineup := decode[model.Lineup](t, rec)
	assert.Equal(t, "evt-1", lineup.EventID)

	var snap schedule.Snapshot
	require.NoError(t, json.Unmarshal(lineup.Payload, &snap))
	require.Len(t, snap.Slots, 1)
	assert.Equal(t, "p1", snap.Slots[0].PerformerID)
}

func TestSessionNotFound(t *testing.T) {
	env := newTestEnv(t)

	rec := env.do(t, http.MethodGet, "/sessions/unknown/", nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestListPerformers(t *testing.T) {
	env := newTestEnv(t)

	rec := env.do(t, http.MethodGet, "/performers", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Len(t, decode[[]model.Performer](t, rec), 2)
}
