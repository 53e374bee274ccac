package service

import (
	"context"
	"time"

	"go.uber.org/zap"

	"stackstep/internal/llm"
	"stackstep/internal/model"
	"stackstep/internal/mq"
	"stackstep/internal/plan"
	"stackstep/pkg/metrics"
)

// Generator runs the plan-generation pipeline: prompt construction, the
// bounded LLM retry loop (call, parse, validate), and persistence of
// the normalized plan. Parse and validation failures consume retry
// attempts the same way transport failures do.
type Generator struct {
	prompts *llm.PromptBuilder
	client  CompletionClient
	store   ProjectStore
	events  EventPublisher
	retry   llm.RetryPolicy
	logger  *zap.Logger
}

func NewGenerator(
	prompts *llm.PromptBuilder,
	client CompletionClient,
	store ProjectStore,
	events EventPublisher,
	retry llm.RetryPolicy,
	logger *zap.Logger,
) *Generator {
	return &Generator{
		prompts: prompts,
		client:  client,
		store:   store,
		events:  events,
		retry:   retry,
		logger:  logger,
	}
}

// GeneratePlan produces and persists a project plan for the given
// inputs. Persistence failures are not retried; the caller may surface
// them and let the user resubmit.
func (g *Generator) GeneratePlan(ctx context.Context, techStack, experienceLevel string, ownerID int) (*model.Project, error) {
	systemPrompt, userPrompt, err := g.prompts.Build(techStack, experienceLevel)
	if err != nil {
		return nil, err
	}

	start := time.Now()
	validated, attempts, err := g.generateValidated(ctx, systemPrompt, userPrompt)
	if err != nil {
		metrics.RecordPlanGeneration("generation_failed")
		g.logger.Warn("Plan generation exhausted retry budget",
			zap.Int("attempts", attempts),
			zap.Duration("elapsed", time.Since(start)),
			zap.Error(err),
		)
		return nil, err
	}

	g.logger.Info("Plan generated",
		zap.Int("attempts", attempts),
		zap.Duration("elapsed", time.Since(start)),
		zap.Int("phase_count", len(validated.Phases)),
	)
	metrics.PlanGenerationAttempts.Observe(float64(attempts))

	project := buildProject(techStack, validated, ownerID)
	if err := g.store.Create(ctx, project); err != nil {
		metrics.RecordPlanGeneration("save_failed")
		g.logger.Error("Failed to persist generated project",
			zap.Int("user_id", ownerID),
			zap.Error(err),
		)
		return nil, &SaveError{Err: err}
	}

	metrics.RecordPlanGeneration("success")

	if g.events != nil {
		payload := mq.ProjectCreatedPayload{
			ProjectID: project.ID,
			UserID:    project.UserID,
			TechStack: project.TechStack,
			Title:     project.Title,
			Phases:    len(project.Phases),
			CreatedAt: project.CreatedAt,
		}
		if err := g.events.Publish(mq.RoutingKeyProjectCreated, payload); err != nil {
			g.logger.Warn("Failed to publish project.created event",
				zap.Int("project_id", project.ID),
				zap.Error(err),
			)
		}
	}

	return project, nil
}

// generateValidated runs the retry loop and returns a normalized plan
// together with the number of attempts consumed.
func (g *Generator) generateValidated(ctx context.Context, systemPrompt, userPrompt string) (*plan.Plan, int, error) {
	var lastErr error

	for attempt := 1; attempt <= g.retry.MaxAttempts; attempt++ {
		if attempt > 1 {
			if err := g.retry.Wait(ctx); err != nil {
				return nil, attempt - 1, &GenerationError{Attempts: attempt - 1, Last: err}
			}
		}

		content, err := g.client.Complete(ctx, systemPrompt, userPrompt)
		if err != nil {
			lastErr = err
			g.logger.Warn("Completion attempt failed",
				zap.Int("attempt", attempt),
				zap.Error(err),
			)
			continue
		}

		candidate, err := llm.ParsePlanResponse(content)
		if err != nil {
			lastErr = err
			g.logger.Warn("Completion attempt returned unparseable content",
				zap.Int("attempt", attempt),
				zap.Error(err),
			)
			continue
		}

		validated, err := plan.Validate(candidate)
		if err != nil {
			lastErr = err
			g.logger.Warn("Completion attempt failed validation",
				zap.Int("attempt", attempt),
				zap.Error(err),
			)
			continue
		}

		return validated, attempt, nil
	}

	return nil, g.retry.MaxAttempts, &GenerationError{Attempts: g.retry.MaxAttempts, Last: lastErr}
}

// buildProject maps a normalized plan onto the persisted entity. The
// mapping is 1:1 since validation already normalized every field.
func buildProject(techStack string, p *plan.Plan, ownerID int) *model.Project {
	project := &model.Project{
		UserID:      ownerID,
		TechStack:   techStack,
		Title:       p.Title,
		Description: p.Description,
		Phases:      make([]model.Phase, 0, len(p.Phases)),
	}

	for _, phase := range p.Phases {
		mp := model.Phase{
			Order:            phase.Order,
			Title:            phase.Title,
			Purpose:          phase.Purpose,
			Tasks:            make([]model.Task, 0, len(phase.Tasks)),
			DefinitionOfDone: phase.DefinitionOfDone,
		}
		for _, task := range phase.Tasks {
			mp.Tasks = append(mp.Tasks, model.Task{
				Order:           task.Order,
				Title:           task.Title,
				Description:     task.Description,
				ExpectedOutcome: task.ExpectedOutcome,
				Status:          model.StatusPending,
			})
		}
		project.Phases = append(project.Phases, mp)
	}

	return project
}
