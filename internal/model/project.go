package model

import "time"

// Project is the persisted entity produced from a validated plan.
// It is created once after generation and mutated only through
// task status updates.
type Project struct {
	ID          int       `json:"id"`
	UserID      int       `json:"user_id"`
	TechStack   string    `json:"tech_stack"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	Phases      []Phase   `json:"phases,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
}

type Phase struct {
	ID               int      `json:"id"`
	ProjectID        int      `json:"project_id"`
	Order            int      `json:"order"`
	Title            string   `json:"title"`
	Purpose          string   `json:"purpose"`
	Tasks            []Task   `json:"tasks"`
	DefinitionOfDone []string `json:"definition_of_done"`
}

type Task struct {
	ID              int        `json:"id"`
	PhaseID         int        `json:"phase_id"`
	Order           int        `json:"order"`
	Title           string     `json:"title"`
	Description     string     `json:"description"`
	ExpectedOutcome string     `json:"expected_outcome"`
	Status          TaskStatus `json:"status"`
	StartedAt       *time.Time `json:"started_at,omitempty"`
	CompletedAt     *time.Time `json:"completed_at,omitempty"`
}
