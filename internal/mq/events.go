package mq

import "time"

const (
	RoutingKeyProjectCreated    = "project.created"
	RoutingKeyTaskStatusChanged = "task.status_changed"
)

type ProjectCreatedPayload struct {
	ProjectID int       `json:"project_id"`
	UserID    int       `json:"user_id"`
	TechStack string    `json:"tech_stack"`
	Title     string    `json:"title"`
	Phases    int       `json:"phases"`
	CreatedAt time.Time `json:"created_at"`
}

type TaskStatusChangedPayload struct {
	ProjectID int       `json:"project_id"`
	TaskID    int       `json:"task_id"`
	UserID    int       `json:"user_id"`
	Status    string    `json:"status"`
	ChangedAt time.Time `json:"changed_at"`
}
