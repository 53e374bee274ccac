package plan

import "encoding/json"

// Candidate is the loosely-typed shape of a parsed LLM response, before
// validation. Field aliases seen across model outputs (title/projectTitle,
// purpose/description, expectedOutcome/outcome) are accepted here and
// nowhere else; the validator collapses them to the canonical field set.
type Candidate struct {
	ProjectTitle       string          `json:"projectTitle"`
	Title              string          `json:"title"`
	ProjectDescription string          `json:"projectDescription"`
	Description        string          `json:"description"`
	Phases             json.RawMessage `json:"phases"`
}

type PhaseCandidate struct {
	Order            *int            `json:"order"`
	Title            string          `json:"title"`
	Purpose          string          `json:"purpose"`
	Description      string          `json:"description"`
	Tasks            json.RawMessage `json:"tasks"`
	DefinitionOfDone json.RawMessage `json:"definitionOfDone"`
}

type TaskCandidate struct {
	Order           *int   `json:"order"`
	Title           string `json:"title"`
	Description     string `json:"description"`
	ExpectedOutcome string `json:"expectedOutcome"`
	Outcome         string `json:"outcome"`
}
