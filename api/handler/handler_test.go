package handler

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/valyala/fasthttp"

	"github.com/fastygo/hunter/api/transport"
	"github.com/fastygo/hunter/domain"
	"github.com/fastygo/hunter/pkg/httpcontext"
	engine "github.com/fastygo/hunter/progression"
	"github.com/fastygo/hunter/repository"
	"github.com/fastygo/hunter/repository/memory"
	"github.com/fastygo/hunter/usecase"
	leaderboardUC "github.com/fastygo/hunter/usecase/leaderboard"
	profileUC "github.com/fastygo/hunter/usecase/profile"
	progressionUC "github.com/fastygo/hunter/usecase/progression"
	taskUC "github.com/fastygo/hunter/usecase/task"
	workoutUC "github.com/fastygo/hunter/usecase/workout"
)

var now = time.Date(2026, 3, 2, 9, 0, 0, 0, time.UTC)

type handlers struct {
	db          *memory.DB
	task        *TaskHandler
	workout     *WorkoutHandler
	profile     *ProfileHandler
	leaderboard *LeaderboardHandler
}

func newHandlers() handlers {
	db := memory.New()
	clock := usecase.FixedClock(now)
	adapter := httpcontext.NewAdapter(time.Second)

	progression := progressionUC.New(progressionUC.Stores{
		Profiles: db.Profiles(),
		Tasks:    db.Tasks(),
		Progress: db,
	}, nil, clock, nil)
	profiles := profileUC.New(profileUC.Stores{
		Profiles: db.Profiles(),
		Tasks:    db.Tasks(),
		Workouts: db.Workouts(),
		Events:   db.Events(),
	}, nil, clock, nil)

	return handlers{
		db:          db,
		task:        NewTaskHandler(taskUC.New(db.Tasks(), db.Profiles(), nil, clock, nil), progression, adapter, nil),
		workout:     NewWorkoutHandler(workoutUC.New(db.Workouts(), nil), progression, adapter, nil),
		profile:     NewProfileHandler(profiles, adapter, nil),
		leaderboard: NewLeaderboardHandler(leaderboardUC.New(db.Profiles(), nil, 10, nil), adapter, nil),
	}
}

func request(method, uri, userID string, body string) *fasthttp.RequestCtx {
	ctx := &fasthttp.RequestCtx{}
	ctx.Request.Header.SetMethod(method)
	ctx.Request.SetRequestURI(uri)
	if body != "" {
		ctx.Request.SetBodyString(body)
	}
	if userID != "" {
		ctx.SetUserValue(httpcontext.UserIDValue, userID)
	}
	return ctx
}

type envelope struct {
	Status string          `json:"status"`
	Code   string          `json:"code"`
	Data   json.RawMessage `json:"data"`
	Error  string          `json:"error"`
}

func decode(t *testing.T, ctx *fasthttp.RequestCtx, out interface{}) envelope {
	t.Helper()
	var env envelope
	require.NoError(t, json.Unmarshal(ctx.Response.Body(), &env))
	if out != nil {
		require.NoError(t, json.Unmarshal(env.Data, out))
	}
	return env
}

func TestMissingUserIsUnauthorized(t *testing.T) {
	h := newHandlers()
	ctx := request(http.MethodGet, "/api/v1/tasks", "", "")

	h.task.GetTasks(ctx)

	assert.Equal(t, http.StatusUnauthorized, ctx.Response.StatusCode())
	env := decode(t, ctx, nil)
	assert.Equal(t, string(domain.ErrCodeUnauthorized), env.Code)
}

func TestCreateToggleAndListTasks(t *testing.T) {
	h := newHandlers()

	ctx := request(http.MethodPost, "/api/v1/tasks", "u1", `{"name":"Run 5k","type":"daily","difficulty":"medium"}`)
	h.task.CreateTask(ctx)
	require.Equal(t, http.StatusCreated, ctx.Response.StatusCode())
	var created domain.Task
	decode(t, ctx, &created)
	assert.Equal(t, 20, created.XPReward)
	assert.Equal(t, "u1", created.UserID)

	ctx = request(http.MethodPost, "/api/v1/tasks/"+created.ID+"/toggle", "u1", "")
	ctx.SetUserValue("id", created.ID)
	h.task.ToggleTask(ctx)
	require.Equal(t, http.StatusOK, ctx.Response.StatusCode())
	var toggled engine.ToggleResult
	decode(t, ctx, &toggled)
	assert.True(t, toggled.Task.Completed)
	assert.Equal(t, 20, toggled.Profile.TotalXP)
	assert.Equal(t, 20, toggled.Change.XPDelta)

	ctx = request(http.MethodGet, "/api/v1/tasks?limit=5", "u1", "")
	h.task.GetTasks(ctx)
	require.Equal(t, http.StatusOK, ctx.Response.StatusCode())
	var tasks []domain.Task
	decode(t, ctx, &tasks)
	require.Len(t, tasks, 1)
	assert.True(t, tasks[0].Completed)
}

func TestCreateTaskErrors(t *testing.T) {
	cases := []struct {
		name string
		body string
	}{
		{name: "malformed json", body: `{`},
		{name: "unknown table", body: `{"name":"x","difficulty":"easy","table":"nope"}`},
		{name: "unknown board difficulty", body: `{"name":"x","difficulty":"extreme","table":"quest_board"}`},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			h := newHandlers()
			ctx := request(http.MethodPost, "/api/v1/tasks", "u1", tc.body)

			h.task.CreateTask(ctx)

			assert.Equal(t, http.StatusBadRequest, ctx.Response.StatusCode())
			env := decode(t, ctx, nil)
			assert.Equal(t, string(domain.ErrCodeInvalid), env.Code)
		})
	}
}

func TestToggleForeignTaskIsNotFound(t *testing.T) {
	h := newHandlers()
	ctx := request(http.MethodPost, "/api/v1/tasks", "owner", `{"name":"Read","difficulty":"easy"}`)
	h.task.CreateTask(ctx)
	var created domain.Task
	decode(t, ctx, &created)

	ctx = request(http.MethodPost, "/api/v1/tasks/"+created.ID+"/toggle", "intruder", "")
	ctx.SetUserValue("id", created.ID)
	h.task.ToggleTask(ctx)

	assert.Equal(t, http.StatusNotFound, ctx.Response.StatusCode())

	ctx = request(http.MethodDelete, "/api/v1/tasks/"+created.ID, "intruder", "")
	ctx.SetUserValue("id", created.ID)
	h.task.DeleteTask(ctx)
	assert.Equal(t, http.StatusNotFound, ctx.Response.StatusCode())

	ctx = request(http.MethodDelete, "/api/v1/tasks/"+created.ID, "owner", "")
	ctx.SetUserValue("id", created.ID)
	h.task.DeleteTask(ctx)
	assert.Equal(t, http.StatusNoContent, ctx.Response.StatusCode())
}

func TestLogWorkoutAndProfile(t *testing.T) {
	h := newHandlers()

	ctx := request(http.MethodPost, "/api/v1/workouts", "u1", `{"name":"Intervals","type":"cardio","duration":30}`)
	h.workout.LogWorkout(ctx)
	require.Equal(t, http.StatusCreated, ctx.Response.StatusCode())
	var result engine.WorkoutResult
	decode(t, ctx, &result)
	assert.Equal(t, 45, result.Workout.XPEarned)
	assert.Equal(t, 45, result.Profile.TotalXP)

	ctx = request(http.MethodGet, "/api/v1/workouts", "u1", "")
	h.workout.GetWorkouts(ctx)
	var workouts []domain.Workout
	decode(t, ctx, &workouts)
	assert.Len(t, workouts, 1)

	ctx = request(http.MethodGet, "/api/v1/profile/history", "u1", "")
	h.profile.History(ctx)
	require.Equal(t, http.StatusOK, ctx.Response.StatusCode())
	var events []domain.ProgressEvent
	decode(t, ctx, &events)
	require.Len(t, events, 1)
	assert.Equal(t, domain.EventWorkoutLogged, events[0].Kind)

	ctx = request(http.MethodPut, "/api/v1/profile", "u1", `{"name":"Sung"}`)
	h.profile.UpdateProfile(ctx)
	require.Equal(t, http.StatusOK, ctx.Response.StatusCode())
	var profile domain.Profile
	decode(t, ctx, &profile)
	assert.Equal(t, "Sung", profile.Name)
	assert.Equal(t, 45, profile.TotalXP)
}

func TestInvalidWorkoutIsRejected(t *testing.T) {
	h := newHandlers()
	ctx := request(http.MethodPost, "/api/v1/workouts", "u1", `{"name":"Nap","type":"cardio","duration":0}`)

	h.workout.LogWorkout(ctx)

	assert.Equal(t, http.StatusBadRequest, ctx.Response.StatusCode())
}

func TestLeaderboard(t *testing.T) {
	h := newHandlers()
	for _, tc := range []struct{ user, body string }{
		{"low", `{"name":"Walk","type":"flexibility","duration":10}`},
		{"high", `{"name":"Ultra","type":"endurance","duration":60}`},
	} {
		ctx := request(http.MethodPost, "/api/v1/workouts", tc.user, tc.body)
		h.workout.LogWorkout(ctx)
		require.Equal(t, http.StatusCreated, ctx.Response.StatusCode())
	}

	ctx := request(http.MethodGet, "/api/v1/leaderboard?limit=5", "", "")
	h.leaderboard.Top(ctx)
	var entries []domain.LeaderboardEntry
	decode(t, ctx, &entries)
	require.Len(t, entries, 2)
	assert.Equal(t, "high", entries[0].ID)
	assert.Equal(t, 1, entries[0].Rank)

	ctx = request(http.MethodGet, "/api/v1/leaderboard/me", "low", "")
	h.leaderboard.Me(ctx)
	var me domain.LeaderboardEntry
	decode(t, ctx, &me)
	assert.Equal(t, 2, me.Rank)
	assert.Equal(t, 10, me.TotalXP)
}

func TestMapError(t *testing.T) {
	cases := []struct {
		err    error
		status int
	}{
		{domain.ErrTaskNotFound, http.StatusNotFound},
		{domain.ErrProfileExists, http.StatusConflict},
		{domain.ErrInvalidPayload, http.StatusBadRequest},
		{domain.NewError(domain.ErrCodeUnavailable, "down"), http.StatusServiceUnavailable},
		{domain.ErrUnauthorized, http.StatusUnauthorized},
		{assert.AnError, http.StatusInternalServerError},
	}
	for _, tc := range cases {
		status, _ := mapError(tc.err)
		assert.Equal(t, tc.status, status, tc.err.Error())
	}
}

type downStore struct{}

func (downStore) Commit(context.Context, repository.ProgressCommit) error {
	return errors.New("connection refused")
}

func TestToggleReturnsComputedStateWhenCommitFails(t *testing.T) {
	h := newHandlers()
	ctx := request(http.MethodPost, "/api/v1/tasks", "u1", `{"name":"Meditate","difficulty":"hard"}`)
	h.task.CreateTask(ctx)
	var created domain.Task
	decode(t, ctx, &created)

	progression := progressionUC.New(progressionUC.Stores{
		Profiles: h.db.Profiles(),
		Tasks:    h.db.Tasks(),
		Progress: downStore{},
	}, nil, usecase.FixedClock(now), nil)
	handler := NewTaskHandler(nil, progression, nil, nil)

	ctx = request(http.MethodPost, "/api/v1/tasks/"+created.ID+"/toggle", "u1", "")
	ctx.SetUserValue("id", created.ID)
	handler.ToggleTask(ctx)

	assert.Equal(t, http.StatusServiceUnavailable, ctx.Response.StatusCode())
	var result engine.ToggleResult
	env := decode(t, ctx, &result)
	assert.Equal(t, string(domain.ErrCodeUnavailable), env.Code)
	assert.True(t, result.Task.Completed)
	assert.Equal(t, 35, result.Profile.TotalXP)

	stored, err := h.db.Tasks().GetByID(context.Background(), created.ID)
	require.NoError(t, err)
	assert.False(t, stored.Completed)
}

func TestListMeta(t *testing.T) {
	h := newHandlers()
	for _, name := range []string{"a", "b", "c"} {
		ctx := request(http.MethodPost, "/api/v1/tasks", "u1", `{"name":"`+name+`"}`)
		h.task.CreateTask(ctx)
		require.Equal(t, http.StatusCreated, ctx.Response.StatusCode())
	}

	ctx := request(http.MethodGet, "/api/v1/tasks?limit=2&offset=1", "u1", "")
	h.task.GetTasks(ctx)

	var body struct {
		Data []domain.Task      `json:"data"`
		Meta transport.PageMeta `json:"meta"`
	}
	require.NoError(t, json.Unmarshal(ctx.Response.Body(), &body))
	assert.Len(t, body.Data, 2)
	assert.Equal(t, transport.PageMeta{Limit: 2, Offset: 1, Count: 2}, body.Meta)
}
