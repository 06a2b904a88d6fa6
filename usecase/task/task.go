package task

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/fastygo/hunter/domain"
	engine "github.com/fastygo/hunter/progression"
	"github.com/fastygo/hunter/repository"
	"github.com/fastygo/hunter/usecase"
)

type UseCase struct {
	tasks    repository.TaskRepository
	profiles repository.ProfileRepository
	buffer   usecase.OperationBuffer
	clock    usecase.Clock
	logger   *zap.Logger
}

func New(tasks repository.TaskRepository, profiles repository.ProfileRepository, buffer usecase.OperationBuffer, clock usecase.Clock, logger *zap.Logger) *UseCase {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &UseCase{
		tasks:    tasks,
		profiles: profiles,
		buffer:   buffer,
		clock:    clock,
		logger:   logger,
	}
}

// ListTasks returns the user's tasks, newest first, and brings the stored
// profile streak in line with them. The profile is only written when the
// streak changed.
func (uc *UseCase) ListTasks(ctx context.Context, userID string, limit, offset int) ([]domain.Task, error) {
	tasks, err := uc.tasks.List(ctx, repository.TaskFilter{UserID: userID})
	if err != nil {
		return nil, usecase.Unavailable("list tasks", err)
	}
	uc.syncStreak(ctx, userID, tasks)
	return page(tasks, limit, offset), nil
}

func (uc *UseCase) syncStreak(ctx context.Context, userID string, tasks []domain.Task) {
	profile, err := usecase.EnsureProfile(ctx, uc.profiles, userID)
	if err != nil {
		uc.logger.Warn("streak sync skipped", zap.String("user_id", userID), zap.Error(err))
		return
	}
	streak := engine.ComputeStreak(tasks, uc.clock.Now())
	if streak == profile.Streak {
		return
	}
	if _, err := uc.profiles.Update(ctx, userID, domain.ProfilePatch{Streak: &streak}); err != nil {
		uc.logger.Warn("streak sync failed", zap.String("user_id", userID), zap.Int("streak", streak), zap.Error(err))
		return
	}
	uc.logger.Debug("streak synced", zap.String("user_id", userID), zap.Int("from", profile.Streak), zap.Int("to", streak))
}

// CreateTask prices spec with the named reward table ("" selects the quest
// modal table) and stores the new task.
func (uc *UseCase) CreateTask(ctx context.Context, userID string, spec domain.TaskSpec, table string) (*domain.Task, error) {
	rewards, err := rewardTable(table)
	if err != nil {
		return nil, err
	}
	if _, err := usecase.EnsureProfile(ctx, uc.profiles, userID); err != nil {
		return nil, err
	}
	task, err := engine.NewTask(userID, spec, rewards, uc.clock.Now())
	if err != nil {
		return nil, err
	}
	task.ID = uuid.NewString()

	created, err := uc.tasks.Create(ctx, &task)
	if err != nil {
		if domain.IsStoreError(err) && uc.shouldBuffer(ctx, usecase.OperationCreate, &task) {
			return &task, nil
		}
		return nil, usecase.Unavailable("create task", err)
	}
	return created, nil
}

// DeleteTask removes one of the user's tasks. XP already earned with it stays.
func (uc *UseCase) DeleteTask(ctx context.Context, userID, taskID string) error {
	task, err := uc.tasks.GetByID(ctx, taskID)
	if err != nil {
		return usecase.Unavailable("load task", err)
	}
	if task.UserID != userID {
		return domain.ErrTaskNotFound
	}
	if err := uc.tasks.Delete(ctx, taskID); err != nil {
		if errors.Is(err, domain.ErrTaskNotFound) {
			return err
		}
		if uc.shouldBuffer(ctx, usecase.OperationDelete, task) {
			return nil
		}
		return usecase.Unavailable("delete task", err)
	}
	return nil
}

func (uc *UseCase) shouldBuffer(ctx context.Context, operation string, task *domain.Task) bool {
	if uc.buffer == nil {
		return false
	}
	if err := uc.buffer.BufferTask(ctx, operation, task); err != nil {
		uc.logger.Error("failed to buffer task operation", zap.String("operation", operation), zap.Error(err))
		return false
	}
	uc.logger.Warn("task operation buffered", zap.String("operation", operation), zap.String("task_id", task.ID))
	return true
}

func rewardTable(name string) (engine.RewardTable, error) {
	if name == "" {
		return engine.QuestModalRewards, nil
	}
	table, ok := engine.RewardTables[name]
	if !ok {
		return engine.RewardTable{}, domain.Invalid("unknown reward table %q", name)
	}
	return table, nil
}

func page(tasks []domain.Task, limit, offset int) []domain.Task {
	if offset < 0 {
		offset = 0
	}
	if offset >= len(tasks) {
		return []domain.Task{}
	}
	tasks = tasks[offset:]
	if limit > 0 && limit < len(tasks) {
		tasks = tasks[:limit]
	}
	return tasks
}
