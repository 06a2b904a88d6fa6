package repository

import (
	"context"

	"github.com/fastygo/hunter/domain"
)

// TaskFilter narrows a task listing. A zero Limit lists every task of the user.
type TaskFilter struct {
	UserID string
	Limit  int
	Offset int
}

type TaskRepository interface {
	GetByID(ctx context.Context, id string) (*domain.Task, error)
	// List returns tasks newest first.
	List(ctx context.Context, filter TaskFilter) ([]domain.Task, error)
	Create(ctx context.Context, task *domain.Task) (*domain.Task, error)
	Update(ctx context.Context, task *domain.Task) error
	Delete(ctx context.Context, id string) error
}
