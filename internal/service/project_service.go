package service

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"

	"stackstep/internal/model"
	"stackstep/internal/mq"
	"stackstep/pkg/metrics"
)

// ProjectService serves reads and task-status updates on persisted
// projects. Every operation checks ownership before touching data.
type ProjectService struct {
	store  ProjectStore
	events EventPublisher
	logger *zap.Logger
	now    func() time.Time
}

func NewProjectService(store ProjectStore, events EventPublisher, logger *zap.Logger) *ProjectService {
	return &ProjectService{
		store:  store,
		events: events,
		logger: logger,
		now:    time.Now,
	}
}

// UpdateTaskStatus validates the requested status, proves ownership,
// then applies the transition atomically. Lookup failures are terminal.
func (s *ProjectService) UpdateTaskStatus(ctx context.Context, projectID, taskID int, status string, callerID int) (*model.Task, error) {
	parsed, ok := model.ParseTaskStatus(status)
	if !ok {
		metrics.RecordTaskStatusUpdate(status, "invalid_status")
		return nil, ErrInvalidStatus
	}

	ownerID, err := s.store.OwnerOf(ctx, projectID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			metrics.RecordTaskStatusUpdate(status, "not_found")
			return nil, ErrTaskNotFound
		}
		return nil, err
	}
	if ownerID != callerID {
		metrics.RecordTaskStatusUpdate(status, "access_denied")
		s.logger.Warn("Task status update denied",
			zap.Int("project_id", projectID),
			zap.Int("task_id", taskID),
			zap.Int("caller_id", callerID),
		)
		return nil, ErrAccessDenied
	}

	task, err := s.store.UpdateTaskStatus(ctx, projectID, taskID, parsed, s.now())
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			metrics.RecordTaskStatusUpdate(status, "not_found")
			return nil, ErrTaskNotFound
		}
		return nil, err
	}

	metrics.RecordTaskStatusUpdate(status, "success")

	if s.events != nil {
		payload := mq.TaskStatusChangedPayload{
			ProjectID: projectID,
			TaskID:    taskID,
			UserID:    callerID,
			Status:    string(task.Status),
			ChangedAt: s.now(),
		}
		if err := s.events.Publish(mq.RoutingKeyTaskStatusChanged, payload); err != nil {
			s.logger.Warn("Failed to publish task.status_changed event",
				zap.Int("task_id", taskID),
				zap.Error(err),
			)
		}
	}

	return task, nil
}

// GetProject loads the full project tree for its owner.
func (s *ProjectService) GetProject(ctx context.Context, projectID, callerID int) (*model.Project, error) {
	project, err := s.store.GetByID(ctx, projectID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrProjectNotFound
		}
		return nil, err
	}
	if project.UserID != callerID {
		return nil, ErrAccessDenied
	}
	return project, nil
}

// ListProjects returns the caller's projects, newest first.
func (s *ProjectService) ListProjects(ctx context.Context, callerID, limit, page int) ([]model.Project, error) {
	if limit <= 0 {
		limit = 20
	}
	if page <= 0 {
		page = 1
	}
	return s.store.ListByUser(ctx, callerID, limit, (page-1)*limit)
}

// DeleteProject removes a project after proving ownership.
func (s *ProjectService) DeleteProject(ctx context.Context, projectID, callerID int) error {
	ownerID, err := s.store.OwnerOf(ctx, projectID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return ErrProjectNotFound
		}
		return err
	}
	if ownerID != callerID {
		return ErrAccessDenied
	}

	if err := s.store.Delete(ctx, projectID); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return ErrProjectNotFound
		}
		return err
	}
	return nil
}
