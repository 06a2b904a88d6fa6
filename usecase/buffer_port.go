package usecase

import (
	"context"

	"github.com/fastygo/hunter/domain"
	"github.com/fastygo/hunter/repository"
)

// Buffered operation names.
const (
	OperationCreate = "create"
	OperationUpdate = "update"
	OperationDelete = "delete"
)

// OperationBuffer abstracts the write-behind buffer so use cases stay storage-agnostic.
type OperationBuffer interface {
	BufferProfile(ctx context.Context, userID string, patch domain.ProfilePatch) error
	BufferTask(ctx context.Context, operation string, task *domain.Task) error
	BufferCommit(ctx context.Context, commit repository.ProgressCommit) error
}
