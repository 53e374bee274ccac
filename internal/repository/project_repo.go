package repository

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"

	"stackstep/internal/model"
)

type ProjectRepository struct {
	db     *pgxpool.Pool
	logger *zap.Logger
}

func NewProjectRepository(db *pgxpool.Pool, logger *zap.Logger) *ProjectRepository {
	return &ProjectRepository{db: db, logger: logger}
}

// Create persists a project with all its phases and tasks in a single
// transaction. Either the whole tree is stored or nothing is. Generated
// identifiers are written back into p.
func (r *ProjectRepository) Create(ctx context.Context, p *model.Project) error {
	r.logger.Debug("Inserting project",
		zap.Int("user_id", p.UserID),
		zap.String("title", p.Title),
		zap.Int("phase_count", len(p.Phases)),
	)

	tx, err := r.db.Begin(ctx)
	if err != nil {
		r.logger.Error("Failed to begin transaction", zap.Error(err))
		return err
	}
	defer tx.Rollback(ctx)

	err = tx.QueryRow(ctx, `
        INSERT INTO projects (user_id, tech_stack, title, description)
        VALUES ($1, $2, $3, $4)
        RETURNING id, created_at
    `, p.UserID, p.TechStack, p.Title, p.Description).Scan(&p.ID, &p.CreatedAt)
	if err != nil {
		r.logger.Error("Failed to insert project", zap.Error(err))
		return err
	}

	for pi := range p.Phases {
		phase := &p.Phases[pi]
		phase.ProjectID = p.ID

		err = tx.QueryRow(ctx, `
            INSERT INTO phases (project_id, phase_order, title, purpose, definition_of_done)
            VALUES ($1, $2, $3, $4, $5)
            RETURNING id
        `, p.ID, phase.Order, phase.Title, phase.Purpose, phase.DefinitionOfDone).Scan(&phase.ID)
		if err != nil {
			r.logger.Error("Failed to insert phase",
				zap.Error(err),
				zap.Int("project_id", p.ID),
				zap.Int("phase_order", phase.Order),
			)
			return err
		}

		for ti := range phase.Tasks {
			task := &phase.Tasks[ti]
			task.PhaseID = phase.ID

			err = tx.QueryRow(ctx, `
                INSERT INTO tasks (phase_id, task_order, title, description, expected_outcome, status)
                VALUES ($1, $2, $3, $4, $5, $6)
                RETURNING id
            `, phase.ID, task.Order, task.Title, task.Description, task.ExpectedOutcome, task.Status).Scan(&task.ID)
			if err != nil {
				r.logger.Error("Failed to insert task",
					zap.Error(err),
					zap.Int("phase_id", phase.ID),
					zap.Int("task_order", task.Order),
				)
				return err
			}
		}
	}

	if err := tx.Commit(ctx); err != nil {
		r.logger.Error("Failed to commit project", zap.Error(err))
		return err
	}

	r.logger.Info("Project inserted successfully",
		zap.Int("id", p.ID),
		zap.Int("user_id", p.UserID),
		zap.Int("phase_count", len(p.Phases)),
	)
	return nil
}

// OwnerOf returns the owning user of a project.
func (r *ProjectRepository) OwnerOf(ctx context.Context, projectID int) (int, error) {
	var userID int
	err := r.db.QueryRow(ctx,
		`SELECT user_id FROM projects WHERE id = $1`, projectID,
	).Scan(&userID)
	if err != nil {
		return 0, err
	}
	return userID, nil
}

// GetByID loads a project with its full phase and task tree, ordered by
// the stored dense orders.
func (r *ProjectRepository) GetByID(ctx context.Context, projectID int) (*model.Project, error) {
	var p model.Project
	err := r.db.QueryRow(ctx, `
        SELECT id, user_id, tech_stack, title, description, created_at
        FROM projects
        WHERE id = $1
    `, projectID).Scan(&p.ID, &p.UserID, &p.TechStack, &p.Title, &p.Description, &p.CreatedAt)
	if err != nil {
		return nil, err
	}

	phaseRows, err := r.db.Query(ctx, `
        SELECT id, project_id, phase_order, title, purpose, definition_of_done
        FROM phases
        WHERE project_id = $1
        ORDER BY phase_order
    `, projectID)
	if err != nil {
		return nil, err
	}
	defer phaseRows.Close()

	phaseIndex := map[int]int{}
	for phaseRows.Next() {
		var phase model.Phase
		if err := phaseRows.Scan(
			&phase.ID, &phase.ProjectID, &phase.Order,
			&phase.Title, &phase.Purpose, &phase.DefinitionOfDone,
		); err != nil {
			return nil, err
		}
		phase.Tasks = []model.Task{}
		phaseIndex[phase.ID] = len(p.Phases)
		p.Phases = append(p.Phases, phase)
	}
	if err := phaseRows.Err(); err != nil {
		return nil, err
	}

	taskRows, err := r.db.Query(ctx, `
        SELECT t.id, t.phase_id, t.task_order, t.title, t.description,
               t.expected_outcome, t.status, t.started_at, t.completed_at
        FROM tasks t
        JOIN phases p ON t.phase_id = p.id
        WHERE p.project_id = $1
        ORDER BY p.phase_order, t.task_order
    `, projectID)
	if err != nil {
		return nil, err
	}
	defer taskRows.Close()

	for taskRows.Next() {
		var task model.Task
		if err := taskRows.Scan(
			&task.ID, &task.PhaseID, &task.Order, &task.Title, &task.Description,
			&task.ExpectedOutcome, &task.Status, &task.StartedAt, &task.CompletedAt,
		); err != nil {
			return nil, err
		}
		if idx, ok := phaseIndex[task.PhaseID]; ok {
			p.Phases[idx].Tasks = append(p.Phases[idx].Tasks, task)
		}
	}
	if err := taskRows.Err(); err != nil {
		return nil, err
	}

	return &p, nil
}

// ListByUser returns project summaries (no phase tree) for the
// dashboard, newest first.
func (r *ProjectRepository) ListByUser(ctx context.Context, userID, limit, offset int) ([]model.Project, error) {
	r.logger.Debug("Listing projects for user",
		zap.Int("user_id", userID),
		zap.Int("limit", limit),
		zap.Int("offset", offset),
	)

	rows, err := r.db.Query(ctx, `
        SELECT id, user_id, tech_stack, title, description, created_at
        FROM projects
        WHERE user_id = $1
        ORDER BY created_at DESC
        LIMIT $2 OFFSET $3
    `, userID, limit, offset)
	if err != nil {
		r.logger.Error("Failed to query projects", zap.Error(err), zap.Int("user_id", userID))
		return nil, err
	}
	defer rows.Close()

	projects := []model.Project{}
	for rows.Next() {
		var p model.Project
		if err := rows.Scan(&p.ID, &p.UserID, &p.TechStack, &p.Title, &p.Description, &p.CreatedAt); err != nil {
			return nil, err
		}
		projects = append(projects, p)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	return projects, nil
}

// Delete removes a project and, via cascading foreign keys, its phases
// and tasks. Returns pgx.ErrNoRows when the project does not exist.
func (r *ProjectRepository) Delete(ctx context.Context, projectID int) error {
	result, err := r.db.Exec(ctx, `DELETE FROM projects WHERE id = $1`, projectID)
	if err != nil {
		r.logger.Error("Failed to delete project", zap.Error(err), zap.Int("project_id", projectID))
		return err
	}
	if result.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}

	r.logger.Info("Project deleted", zap.Int("project_id", projectID))
	return nil
}

// UpdateTaskStatus applies a status transition to one task under a row
// lock, so concurrent updates to different tasks of the same project
// stay independent and none are lost. Returns pgx.ErrNoRows when the
// task does not belong to the project.
func (r *ProjectRepository) UpdateTaskStatus(
	ctx context.Context,
	projectID, taskID int,
	status model.TaskStatus,
	now time.Time,
) (*model.Task, error) {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback(ctx)

	var task model.Task
	err = tx.QueryRow(ctx, `
        SELECT t.id, t.phase_id, t.task_order, t.title, t.description,
               t.expected_outcome, t.status, t.started_at, t.completed_at
        FROM tasks t
        JOIN phases p ON t.phase_id = p.id
        WHERE t.id = $1 AND p.project_id = $2
        FOR UPDATE OF t
    `, taskID, projectID).Scan(
		&task.ID, &task.PhaseID, &task.Order, &task.Title, &task.Description,
		&task.ExpectedOutcome, &task.Status, &task.StartedAt, &task.CompletedAt,
	)
	if err != nil {
		return nil, err
	}

	task.ApplyStatus(status, now)

	_, err = tx.Exec(ctx, `
        UPDATE tasks
        SET status = $1, started_at = $2, completed_at = $3
        WHERE id = $4
    `, task.Status, task.StartedAt, task.CompletedAt, task.ID)
	if err != nil {
		r.logger.Error("Failed to update task status",
			zap.Error(err),
			zap.Int("task_id", taskID),
		)
		return nil, err
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, err
	}

	r.logger.Info("Task status updated",
		zap.Int("task_id", taskID),
		zap.Int("project_id", projectID),
		zap.String("status", string(task.Status)),
	)
	return &task, nil
}
