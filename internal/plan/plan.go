// Package plan holds the transient, LLM-derived project plan and the
// validation/normalization step that turns untrusted model output into
// a structure safe to persist.
package plan

// Plan is a validated, normalized project plan. Phase orders are dense
// and zero-based; task orders are dense within each phase.
type Plan struct {
	Title       string  `json:"projectTitle"`
	Description string  `json:"projectDescription"`
	Phases      []Phase `json:"phases"`
}

type Phase struct {
	Order            int      `json:"order"`
	Title            string   `json:"title"`
	Purpose          string   `json:"purpose"`
	Tasks            []Task   `json:"tasks"`
	DefinitionOfDone []string `json:"definitionOfDone"`
}

type Task struct {
	Order           int    `json:"order"`
	Title           string `json:"title"`
	Description     string `json:"description"`
	ExpectedOutcome string `json:"expectedOutcome"`
}
