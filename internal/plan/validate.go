package plan

import (
	"encoding/json"
	"fmt"
	"strings"
)

// InvalidPlanError reports the first structural violation found in a
// candidate plan. It is retryable from the generation loop's point of
// view: a later model attempt may produce a valid plan.
type InvalidPlanError struct {
	Reason string
}

func (e *InvalidPlanError) Error() string {
	return "invalid plan: " + e.Reason
}

func invalid(format string, args ...any) error {
	return &InvalidPlanError{Reason: fmt.Sprintf(format, args...)}
}

// Validate checks a candidate against the plan schema and returns its
// normalized form. Validation is fail-fast: the first violation wins.
// Normalization overwrites phase and task orders with their positional
// index, so the output always carries dense, zero-based ordering
// regardless of what the model produced. The function is pure; the same
// candidate always yields the same plan or the same rejection.
func Validate(c *Candidate) (*Plan, error) {
	title := firstNonEmpty(c.ProjectTitle, c.Title)
	if title == "" {
		return nil, invalid("missing title")
	}

	description := firstNonEmpty(c.ProjectDescription, c.Description)
	if description == "" {
		return nil, invalid("missing description")
	}

	var phases []PhaseCandidate
	if len(c.Phases) == 0 || json.Unmarshal(c.Phases, &phases) != nil || len(phases) == 0 {
		return nil, invalid("missing phases")
	}

	out := &Plan{
		Title:       title,
		Description: description,
		Phases:      make([]Phase, 0, len(phases)),
	}

	for i, pc := range phases {
		purpose := firstNonEmpty(pc.Purpose, pc.Description)
		if strings.TrimSpace(pc.Title) == "" || strings.TrimSpace(purpose) == "" {
			return nil, invalid("phase %d missing title/purpose", i)
		}

		var tasks []TaskCandidate
		if len(pc.Tasks) == 0 || json.Unmarshal(pc.Tasks, &tasks) != nil {
			return nil, invalid("phase %d missing tasks", i)
		}

		phase := Phase{
			Order:            i,
			Title:            pc.Title,
			Purpose:          purpose,
			Tasks:            make([]Task, 0, len(tasks)),
			DefinitionOfDone: definitionOfDone(pc.DefinitionOfDone),
		}

		for j, tc := range tasks {
			if strings.TrimSpace(tc.Description) == "" {
				return nil, invalid("phase %d task %d missing description", i, j)
			}

			taskTitle := tc.Title
			if taskTitle == "" {
				taskTitle = fmt.Sprintf("Task %d", j+1)
			}

			phase.Tasks = append(phase.Tasks, Task{
				Order:           j,
				Title:           taskTitle,
				Description:     tc.Description,
				ExpectedOutcome: firstNonEmpty(tc.ExpectedOutcome, tc.Outcome, tc.Description),
			})
		}

		out.Phases = append(out.Phases, phase)
	}

	return out, nil
}

// definitionOfDone defaults to an empty list when the field is absent or
// not a string array; that is never an error.
func definitionOfDone(raw json.RawMessage) []string {
	var dod []string
	if len(raw) == 0 || json.Unmarshal(raw, &dod) != nil || dod == nil {
		return []string{}
	}
	return dod
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if strings.TrimSpace(v) != "" {
			return v
		}
	}
	return ""
}
