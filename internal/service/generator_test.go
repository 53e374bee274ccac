package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"stackstep/internal/llm"
	"stackstep/internal/model"
)

const validPlanJSON = `{
	"projectTitle": "Todo App",
	"projectDescription": "A simple todo application",
	"phases": [
		{"order": 5, "title": "Setup", "purpose": "Init repo",
		 "tasks": [{"order": 9, "description": "git init"}]}
	]
}`

type stubClient struct {
	responses []func() (string, error)
	calls     int
}

func (c *stubClient) Complete(ctx context.Context, systemPrompt, userPrompt string) (string, error) {
	i := c.calls
	c.calls++
	if i >= len(c.responses) {
		i = len(c.responses) - 1
	}
	return c.responses[i]()
}

func succeed(content string) func() (string, error) {
	return func() (string, error) { return content, nil }
}

func fail(err error) func() (string, error) {
	return func() (string, error) { return "", err }
}

type fakeStore struct {
	ProjectStore
	created   []*model.Project
	createErr error
}

func (s *fakeStore) Create(ctx context.Context, p *model.Project) error {
	if s.createErr != nil {
		return s.createErr
	}
	p.ID = len(s.created) + 1
	p.CreatedAt = time.Now()
	s.created = append(s.created, p)
	return nil
}

func newTestGenerator(client CompletionClient, store ProjectStore) *Generator {
	return NewGenerator(
		llm.NewPromptBuilder(""),
		client,
		store,
		nil,
		llm.RetryPolicy{MaxAttempts: 3, Delay: time.Millisecond},
		zap.NewNop(),
	)
}

func TestGeneratePlanSucceedsAfterRetries(t *testing.T) {
	client := &stubClient{responses: []func() (string, error){
		fail(errors.New("connection refused")),
		fail(llm.ErrEmptyCompletion),
		succeed(validPlanJSON),
	}}
	store := &fakeStore{}

	project, err := newTestGenerator(client, store).GeneratePlan(context.Background(), "MERN", "Beginner", 7)
	require.NoError(t, err)

	assert.Equal(t, 3, client.calls)
	require.Len(t, store.created, 1)

	assert.Equal(t, 7, project.UserID)
	assert.Equal(t, "MERN", project.TechStack)
	require.Len(t, project.Phases, 1)
	assert.Equal(t, 0, project.Phases[0].Order)
	require.Len(t, project.Phases[0].Tasks, 1)
	assert.Equal(t, 0, project.Phases[0].Tasks[0].Order)
	assert.Equal(t, model.StatusPending, project.Phases[0].Tasks[0].Status)
}

func TestGeneratePlanExhaustsRetryBudget(t *testing.T) {
	client := &stubClient{responses: []func() (string, error){
		fail(errors.New("upstream down")),
	}}
	store := &fakeStore{}

	_, err := newTestGenerator(client, store).GeneratePlan(context.Background(), "MERN", "Beginner", 7)
	require.Error(t, err)

	var genErr *GenerationError
	require.ErrorAs(t, err, &genErr)
	assert.Equal(t, 3, genErr.Attempts)
	assert.Equal(t, 3, client.calls)
	assert.Empty(t, store.created)

	code, ok := ErrorCode(err)
	require.True(t, ok)
	assert.Equal(t, CodeLLMGenerationFailed, code)
}

func TestGeneratePlanMalformedOutputConsumesAttempts(t *testing.T) {
	client := &stubClient{responses: []func() (string, error){
		succeed("sorry, no JSON today"),
		succeed(validPlanJSON),
	}}
	store := &fakeStore{}

	_, err := newTestGenerator(client, store).GeneratePlan(context.Background(), "MERN", "Beginner", 7)
	require.NoError(t, err)
	assert.Equal(t, 2, client.calls)
}

func TestGeneratePlanInvalidPlanConsumesAttempts(t *testing.T) {
	client := &stubClient{responses: []func() (string, error){
		succeed(`{"projectDescription": "no title", "phases": []}`),
	}}
	store := &fakeStore{}

	_, err := newTestGenerator(client, store).GeneratePlan(context.Background(), "MERN", "Beginner", 7)
	require.Error(t, err)

	var genErr *GenerationError
	require.ErrorAs(t, err, &genErr)
	assert.Equal(t, 3, genErr.Attempts)
	assert.Empty(t, store.created, "invalid plans must never reach persistence")
}

func TestGeneratePlanDoesNotRetrySaveFailures(t *testing.T) {
	client := &stubClient{responses: []func() (string, error){
		succeed(validPlanJSON),
	}}
	store := &fakeStore{createErr: errors.New("connection reset")}

	_, err := newTestGenerator(client, store).GeneratePlan(context.Background(), "MERN", "Beginner", 7)
	require.Error(t, err)

	assert.Equal(t, 1, client.calls, "storage failures must not re-enter the LLM loop")
	code, ok := ErrorCode(err)
	require.True(t, ok)
	assert.Equal(t, CodeProjectSaveFailed, code)
}

func TestGeneratePlanRejectsEmptyTechStack(t *testing.T) {
	client := &stubClient{responses: []func() (string, error){succeed(validPlanJSON)}}
	store := &fakeStore{}

	_, err := newTestGenerator(client, store).GeneratePlan(context.Background(), "", "Beginner", 7)
	assert.ErrorIs(t, err, llm.ErrEmptyTechStack)
	assert.Zero(t, client.calls)
}

func TestGeneratePlanObservesCancellationBetweenAttempts(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	client := &stubClient{responses: []func() (string, error){
		func() (string, error) {
			cancel()
			return "", errors.New("upstream down")
		},
	}}
	store := &fakeStore{}

	gen := NewGenerator(
		llm.NewPromptBuilder(""),
		client,
		store,
		nil,
		llm.RetryPolicy{MaxAttempts: 3, Delay: time.Hour},
		zap.NewNop(),
	)

	start := time.Now()
	_, err := gen.GeneratePlan(ctx, "MERN", "Beginner", 7)
	require.Error(t, err)

	assert.Equal(t, 1, client.calls, "cancelled context must stop further attempts")
	assert.Less(t, time.Since(start), time.Second)
}
