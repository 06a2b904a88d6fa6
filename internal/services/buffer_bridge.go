package services

import (
	"context"

	"github.com/fastygo/hunter/domain"
	"github.com/fastygo/hunter/internal/infrastructure/buffer"
	"github.com/fastygo/hunter/repository"
	"github.com/fastygo/hunter/usecase"
)

// BufferBridge turns use case writes into buffer items.
type BufferBridge struct {
	processor *BufferProcessor
}

func NewBufferBridge(processor *BufferProcessor) *BufferBridge {
	return &BufferBridge{processor: processor}
}

// ProfileUpdate is the buffered form of a profile patch.
type ProfileUpdate struct {
	UserID string              `json:"user_id"`
	Patch  domain.ProfilePatch `json:"patch"`
}

func (b *BufferBridge) BufferProfile(ctx context.Context, userID string, patch domain.ProfilePatch) error {
	if b.processor == nil || userID == "" {
		return domain.ErrInvalidPayload
	}
	item, err := buffer.NewItem(userID, buffer.EntityProfile, buffer.OperationUpdate, buffer.PriorityProfile,
		ProfileUpdate{UserID: userID, Patch: patch})
	if err != nil {
		return err
	}
	return b.processor.BufferOperation(ctx, item)
}

func (b *BufferBridge) BufferTask(ctx context.Context, operation string, task *domain.Task) error {
	if b.processor == nil || task == nil {
		return domain.ErrInvalidPayload
	}
	item, err := buffer.NewItem(task.UserID, buffer.EntityTask, operation, buffer.PriorityTask, task)
	if err != nil {
		return err
	}
	return b.processor.BufferOperation(ctx, item)
}

// BufferCommit stores a progression commit. The item takes the event ID, so
// buffering the same commit twice keeps a single entry per arrival.
func (b *BufferBridge) BufferCommit(ctx context.Context, commit repository.ProgressCommit) error {
	if b.processor == nil || commit.Profile.ID == "" {
		return domain.ErrInvalidPayload
	}
	item, err := buffer.NewItem(commit.Profile.ID, buffer.EntityProgress, buffer.OperationCommit, buffer.PriorityProgress, commit)
	if err != nil {
		return err
	}
	item.ID = commit.Event.ID
	return b.processor.BufferOperation(ctx, item)
}

var _ usecase.OperationBuffer = (*BufferBridge)(nil)
