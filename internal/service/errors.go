package service

import (
	"errors"
	"fmt"
)

// Caller-facing error codes. Every internal stage failure is converted
// to one of these before crossing the service boundary.
const (
	CodeLLMGenerationFailed = "LLM_GENERATION_FAILED"
	CodeProjectSaveFailed   = "PROJECT_SAVE_FAILED"
	CodeInvalidStatus       = "INVALID_STATUS"
	CodeAccessDenied        = "ACCESS_DENIED"
	CodeTaskNotFound        = "TASK_NOT_FOUND"
)

var (
	ErrInvalidStatus   = errors.New("invalid task status")
	ErrAccessDenied    = errors.New("access denied")
	ErrTaskNotFound    = errors.New("task not found")
	ErrProjectNotFound = errors.New("project not found")
)

// GenerationError is returned once the retry budget is exhausted. It
// carries the attempt count and the last underlying failure.
type GenerationError struct {
	Attempts int
	Last     error
}

func (e *GenerationError) Error() string {
	return fmt.Sprintf("plan generation failed after %d attempts: %v", e.Attempts, e.Last)
}

func (e *GenerationError) Unwrap() error {
	return e.Last
}

// SaveError marks a storage failure that happened after a valid plan
// was produced, so callers can distinguish it from generation failure.
type SaveError struct {
	Err error
}

func (e *SaveError) Error() string {
	return fmt.Sprintf("project save failed: %v", e.Err)
}

func (e *SaveError) Unwrap() error {
	return e.Err
}

// ErrorCode maps a service error to its caller-facing code; ok is false
// for errors outside the contract.
func ErrorCode(err error) (string, bool) {
	var genErr *GenerationError
	if errors.As(err, &genErr) {
		return CodeLLMGenerationFailed, true
	}
	var saveErr *SaveError
	if errors.As(err, &saveErr) {
		return CodeProjectSaveFailed, true
	}
	switch {
	case errors.Is(err, ErrInvalidStatus):
		return CodeInvalidStatus, true
	case errors.Is(err, ErrAccessDenied):
		return CodeAccessDenied, true
	case errors.Is(err, ErrTaskNotFound):
		return CodeTaskNotFound, true
	}
	return "", false
}
