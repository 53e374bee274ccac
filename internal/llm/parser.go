package llm

import (
	"encoding/json"
	"errors"
	"strings"

	"stackstep/internal/plan"
)

// ErrMalformedOutput signals that the model's message content could not
// be turned into a candidate plan. The generation loop treats it as
// retryable; it consumes a retry attempt like any other failure.
var ErrMalformedOutput = errors.New("malformed LLM output")

// ParsePlanResponse turns the raw text of a model message into a
// loosely-typed plan candidate. Models wrap JSON in markdown fences or
// surrounding prose often enough that both are stripped before the
// strict parse.
func ParsePlanResponse(content string) (*plan.Candidate, error) {
	raw, err := extractJSON(content)
	if err != nil {
		return nil, err
	}

	var candidate plan.Candidate
	if err := json.Unmarshal(raw, &candidate); err != nil {
		return nil, ErrMalformedOutput
	}
	return &candidate, nil
}

// extractJSON pulls a JSON object out of potentially noisy model output.
func extractJSON(content string) ([]byte, error) {
	str := stripMarkdownCodeBlocks(content)

	if json.Valid([]byte(str)) {
		return []byte(str), nil
	}

	// Fall back to the outermost object boundaries.
	start := strings.Index(str, "{")
	end := strings.LastIndex(str, "}")
	if start == -1 || end == -1 || start >= end {
		return nil, ErrMalformedOutput
	}

	extracted := str[start : end+1]
	if !json.Valid([]byte(extracted)) {
		return nil, ErrMalformedOutput
	}
	return []byte(extracted), nil
}

// stripMarkdownCodeBlocks removes ```json ... ``` or bare ``` ... ```
// wrapping if present.
func stripMarkdownCodeBlocks(s string) string {
	s = strings.TrimSpace(s)
	if cut, found := strings.CutPrefix(s, "```json"); found {
		s = cut
	} else if cut, found := strings.CutPrefix(s, "```"); found {
		s = cut
	}
	if cut, found := strings.CutSuffix(s, "```"); found {
		s = cut
	}
	return strings.TrimSpace(s)
}
