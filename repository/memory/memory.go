// Package memory keeps every store in process memory. It serves the
// "memory" store driver and the use case tests.
package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/fastygo/hunter/domain"
	"github.com/fastygo/hunter/repository"
)

// DB holds all entities behind one lock so a progress commit is atomic.
type DB struct {
	mu sync.RWMutex

	profiles     map[string]domain.Profile
	profileOrder []string
	tasks        map[string]domain.Task
	taskOrder    []string
	workouts     []domain.Workout
	workoutIDs   map[string]bool
	events       []domain.ProgressEvent
	eventIDs     map[string]bool
}

func New() *DB {
	return &DB{
		profiles:   map[string]domain.Profile{},
		tasks:      map[string]domain.Task{},
		workoutIDs: map[string]bool{},
		eventIDs:   map[string]bool{},
	}
}

func (db *DB) Profiles() repository.ProfileRepository { return profileRepo{db} }
func (db *DB) Tasks() repository.TaskRepository       { return taskRepo{db} }
func (db *DB) Workouts() repository.WorkoutRepository { return workoutRepo{db} }
func (db *DB) Events() repository.EventRepository     { return eventRepo{db} }

// Commit implements repository.ProgressStore.
func (db *DB) Commit(_ context.Context, c repository.ProgressCommit) error {
	db.mu.Lock()
	defer db.mu.Unlock()

	current, ok := db.profiles[c.Profile.ID]
	if !ok {
		return domain.ErrProfileNotFound
	}
	if c.Task != nil {
		if _, ok := db.tasks[c.Task.ID]; !ok {
			return domain.ErrTaskNotFound
		}
	}

	now := time.Now()
	if c.Task != nil {
		task := *c.Task
		task.UpdatedAt = now
		db.tasks[task.ID] = task
	}
	if c.Workout != nil && !db.workoutIDs[c.Workout.ID] {
		db.workouts = append(db.workouts, *c.Workout)
		db.workoutIDs[c.Workout.ID] = true
	}

	domain.ProgressPatch(&c.Profile).Apply(&current)
	current.UpdatedAt = now
	db.profiles[current.ID] = current

	if c.Event.ID != "" && !db.eventIDs[c.Event.ID] {
		db.events = append(db.events, c.Event)
		db.eventIDs[c.Event.ID] = true
	}
	return nil
}

var _ repository.ProgressStore = (*DB)(nil)

type profileRepo struct{ db *DB }

func (r profileRepo) GetByID(_ context.Context, id string) (*domain.Profile, error) {
	r.db.mu.RLock()
	defer r.db.mu.RUnlock()
	p, ok := r.db.profiles[id]
	if !ok {
		return nil, domain.ErrProfileNotFound
	}
	return &p, nil
}

func (r profileRepo) Create(_ context.Context, profile *domain.Profile) error {
	if profile == nil || profile.ID == "" {
		return domain.ErrInvalidPayload
	}
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	if _, ok := r.db.profiles[profile.ID]; ok {
		return domain.ErrProfileExists
	}
	profile.Touch()
	r.db.profiles[profile.ID] = *profile
	r.db.profileOrder = append(r.db.profileOrder, profile.ID)
	return nil
}

func (r profileRepo) Update(_ context.Context, id string, patch domain.ProfilePatch) (*domain.Profile, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	p, ok := r.db.profiles[id]
	if !ok {
		return nil, domain.ErrProfileNotFound
	}
	patch.Apply(&p)
	p.UpdatedAt = time.Now()
	r.db.profiles[id] = p
	return &p, nil
}

func (r profileRepo) Ranked(_ context.Context, limit, offset int) ([]domain.Profile, error) {
	r.db.mu.RLock()
	ranked := make([]domain.Profile, 0, len(r.db.profileOrder))
	for _, id := range r.db.profileOrder {
		ranked = append(ranked, r.db.profiles[id])
	}
	r.db.mu.RUnlock()

	sort.SliceStable(ranked, func(i, j int) bool {
		return ranked[i].TotalXP > ranked[j].TotalXP
	})
	return page(ranked, repository.ClampLimit(limit), offset), nil
}

type taskRepo struct{ db *DB }

func (r taskRepo) GetByID(_ context.Context, id string) (*domain.Task, error) {
	r.db.mu.RLock()
	defer r.db.mu.RUnlock()
	t, ok := r.db.tasks[id]
	if !ok {
		return nil, domain.ErrTaskNotFound
	}
	return &t, nil
}

func (r taskRepo) List(_ context.Context, filter repository.TaskFilter) ([]domain.Task, error) {
	r.db.mu.RLock()
	var tasks []domain.Task
	for i := len(r.db.taskOrder) - 1; i >= 0; i-- {
		t := r.db.tasks[r.db.taskOrder[i]]
		if filter.UserID == "" || t.UserID == filter.UserID {
			tasks = append(tasks, t)
		}
	}
	r.db.mu.RUnlock()

	sort.SliceStable(tasks, func(i, j int) bool {
		return tasks[i].CreatedAt.After(tasks[j].CreatedAt)
	})
	if filter.Limit <= 0 {
		return page(tasks, len(tasks), filter.Offset), nil
	}
	return page(tasks, repository.ClampLimit(filter.Limit), filter.Offset), nil
}

func (r taskRepo) Create(_ context.Context, task *domain.Task) (*domain.Task, error) {
	if task == nil {
		return nil, domain.ErrInvalidPayload
	}
	if task.ID == "" {
		task.ID = uuid.NewString()
	}
	now := time.Now()
	if task.CreatedAt.IsZero() {
		task.CreatedAt = now
	}
	task.UpdatedAt = now

	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	if existing, ok := r.db.tasks[task.ID]; ok {
		return &existing, nil
	}
	r.db.taskOrder = append(r.db.taskOrder, task.ID)
	r.db.tasks[task.ID] = *task
	return task, nil
}

func (r taskRepo) Update(_ context.Context, task *domain.Task) error {
	if task == nil {
		return domain.ErrInvalidPayload
	}
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	if _, ok := r.db.tasks[task.ID]; !ok {
		return domain.ErrTaskNotFound
	}
	task.UpdatedAt = time.Now()
	r.db.tasks[task.ID] = *task
	return nil
}

func (r taskRepo) Delete(_ context.Context, id string) error {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	if _, ok := r.db.tasks[id]; !ok {
		return domain.ErrTaskNotFound
	}
	delete(r.db.tasks, id)
	for i, tid := range r.db.taskOrder {
		if tid == id {
			r.db.taskOrder = append(r.db.taskOrder[:i], r.db.taskOrder[i+1:]...)
			break
		}
	}
	return nil
}

type workoutRepo struct{ db *DB }

func (r workoutRepo) List(_ context.Context, filter repository.WorkoutFilter) ([]domain.Workout, error) {
	r.db.mu.RLock()
	var workouts []domain.Workout
	for i := len(r.db.workouts) - 1; i >= 0; i-- {
		w := r.db.workouts[i]
		if filter.UserID == "" || w.UserID == filter.UserID {
			workouts = append(workouts, w)
		}
	}
	r.db.mu.RUnlock()

	sort.SliceStable(workouts, func(i, j int) bool {
		return workouts[i].CompletedAt.After(workouts[j].CompletedAt)
	})
	if filter.Limit <= 0 {
		return page(workouts, len(workouts), filter.Offset), nil
	}
	return page(workouts, repository.ClampLimit(filter.Limit), filter.Offset), nil
}

func (r workoutRepo) Create(_ context.Context, workout *domain.Workout) (*domain.Workout, error) {
	if workout == nil {
		return nil, domain.ErrInvalidPayload
	}
	if workout.ID == "" {
		workout.ID = uuid.NewString()
	}
	if workout.CreatedAt.IsZero() {
		workout.CreatedAt = time.Now()
	}
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	if !r.db.workoutIDs[workout.ID] {
		r.db.workouts = append(r.db.workouts, *workout)
		r.db.workoutIDs[workout.ID] = true
	}
	return workout, nil
}

type eventRepo struct{ db *DB }

func (r eventRepo) ListByUser(_ context.Context, userID string, limit int) ([]domain.ProgressEvent, error) {
	limit = repository.ClampLimit(limit)
	r.db.mu.RLock()
	defer r.db.mu.RUnlock()
	var events []domain.ProgressEvent
	for i := len(r.db.events) - 1; i >= 0 && len(events) < limit; i-- {
		if r.db.events[i].UserID == userID {
			events = append(events, r.db.events[i])
		}
	}
	return events, nil
}

func page[T any](items []T, limit, offset int) []T {
	if offset < 0 {
		offset = 0
	}
	if offset >= len(items) {
		return []T{}
	}
	end := offset + limit
	if end > len(items) {
		end = len(items)
	}
	return items[offset:end]
}
