package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/fastygo/hunter/domain"
	"github.com/fastygo/hunter/repository"
)

const taskColumns = `id, user_id, name, description, type, difficulty, xp_reward, completed, completed_at, streak, created_at, updated_at`

type taskRepository struct {
	db *sql.DB
}

func NewTaskRepository(db *sql.DB) repository.TaskRepository {
	return &taskRepository{db: db}
}

func (r *taskRepository) GetByID(ctx context.Context, id string) (*domain.Task, error) {
	row := r.db.QueryRowContext(ctx, `SELECT `+taskColumns+` FROM tasks WHERE id = ?`, id)
	return scanTask(row)
}

func (r *taskRepository) List(ctx context.Context, filter repository.TaskFilter) ([]domain.Task, error) {
	limit := -1
	if filter.Limit > 0 {
		limit = repository.ClampLimit(filter.Limit)
	}
	rows, err := r.db.QueryContext(ctx, `
		SELECT `+taskColumns+`
		FROM tasks
		WHERE (? = '' OR user_id = ?)
		ORDER BY created_at DESC, rowid DESC
		LIMIT ? OFFSET ?
	`, filter.UserID, filter.UserID, limit, max(filter.Offset, 0))
	if err != nil {
		return nil, fmt.Errorf("task list: %w", err)
	}
	defer rows.Close()

	var tasks []domain.Task
	for rows.Next() {
		task, err := scanTask(rows)
		if err != nil {
			return nil, err
		}
		tasks = append(tasks, *task)
	}
	return tasks, rows.Err()
}

// Create inserts task. Inserting an id that already exists returns the stored
// task unchanged.
func (r *taskRepository) Create(ctx context.Context, task *domain.Task) (*domain.Task, error) {
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

	res, err := r.db.ExecContext(ctx, `
		INSERT INTO tasks (`+taskColumns+`)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT (id) DO NOTHING
	`,
		task.ID,
		task.UserID,
		task.Name,
		task.Description,
		task.Type,
		task.Difficulty,
		task.XPReward,
		boolInt(task.Completed),
		nullNanos(task.CompletedAt),
		task.Streak,
		toNanos(task.CreatedAt),
		toNanos(task.UpdatedAt),
	)
	if err != nil {
		return nil, fmt.Errorf("task insert: %w", err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return r.GetByID(ctx, task.ID)
	}
	return task, nil
}

func (r *taskRepository) Update(ctx context.Context, task *domain.Task) error {
	if task == nil {
		return domain.ErrInvalidPayload
	}
	return updateTask(ctx, r.db, task)
}

func (r *taskRepository) Delete(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM tasks WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("task delete: %w", err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return domain.ErrTaskNotFound
	}
	return nil
}

func updateTask(ctx context.Context, q querier, task *domain.Task) error {
	task.UpdatedAt = time.Now()
	res, err := q.ExecContext(ctx, `
		UPDATE tasks
		SET name = ?,
			description = ?,
			type = ?,
			difficulty = ?,
			completed = ?,
			completed_at = ?,
			streak = ?,
			updated_at = ?
		WHERE id = ?
	`,
		task.Name,
		task.Description,
		task.Type,
		task.Difficulty,
		boolInt(task.Completed),
		nullNanos(task.CompletedAt),
		task.Streak,
		toNanos(task.UpdatedAt),
		task.ID,
	)
	if err != nil {
		return fmt.Errorf("task update: %w", err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return domain.ErrTaskNotFound
	}
	return nil
}

func scanTask(row scanner) (*domain.Task, error) {
	var (
		task             domain.Task
		completed        int
		completedAt      sql.NullInt64
		created, updated int64
	)
	if err := row.Scan(
		&task.ID,
		&task.UserID,
		&task.Name,
		&task.Description,
		&task.Type,
		&task.Difficulty,
		&task.XPReward,
		&completed,
		&completedAt,
		&task.Streak,
		&created,
		&updated,
	); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrTaskNotFound
		}
		return nil, fmt.Errorf("task scan: %w", err)
	}
	task.Completed = completed != 0
	if completedAt.Valid {
		t := fromNanos(completedAt.Int64)
		task.CompletedAt = &t
	}
	task.CreatedAt = fromNanos(created)
	task.UpdatedAt = fromNanos(updated)
	return &task, nil
}
