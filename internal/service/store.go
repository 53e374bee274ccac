package service

import (
	"context"
	"time"

	"stackstep/internal/model"
)

// ProjectStore is the persistence surface the services depend on,
// implemented by repository.ProjectRepository.
type ProjectStore interface {
	Create(ctx context.Context, p *model.Project) error
	OwnerOf(ctx context.Context, projectID int) (int, error)
	GetByID(ctx context.Context, projectID int) (*model.Project, error)
	ListByUser(ctx context.Context, userID, limit, offset int) ([]model.Project, error)
	Delete(ctx context.Context, projectID int) error
	UpdateTaskStatus(ctx context.Context, projectID, taskID int, status model.TaskStatus, now time.Time) (*model.Task, error)
}

// CompletionClient issues a single chat-completion call.
type CompletionClient interface {
	Complete(ctx context.Context, systemPrompt, userPrompt string) (string, error)
}

// EventPublisher publishes domain events after successful writes.
type EventPublisher interface {
	Publish(routingKey string, payload any) error
}
