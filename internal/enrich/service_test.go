package enrich

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/alexanderramin/sentencemine/internal/cloze"
	"github.com/alexanderramin/sentencemine/internal/llm"
)

// mockLLMClient returns a fixed response and records the last request.
type mockLLMClient struct {
	response string
	err      error
	last     llm.GenerateRequest
	calls    int
}

func (m *mockLLMClient) Generate(_ context.Context, req llm.GenerateRequest) (*llm.GenerateResponse, error) {
	m.calls++
	m.last = req
	if m.err != nil {
		return nil, m.err
	}
	return &llm.GenerateResponse{Text: m.response, Model: "test-model"}, nil
}

func (m *mockLLMClient) Available(_ context.Context) bool { return m.err == nil }

var _ cloze.Fallback = (*Service)(nil)

func TestDefine_WithContext(t *testing.T) {
	client := &mockLLMClient{response: "  to move quickly on foot \n"}
	svc := NewService(client)

	def, err := svc.Define(context.Background(), "run", "I run every morning.")

	require.NoError(t, err)
	assert.Equal(t, "to move quickly on foot", def)
	assert.Equal(t, llm.TaskDefine, client.last.Task)
	assert.Equal(t, defineSystemPrompt, client.last.SystemPrompt)
	assert.Contains(t, client.last.UserPrompt, `"run"`)
	assert.Contains(t, client.last.UserPrompt, "I run every morning.")
	assert.Contains(t, client.last.UserPrompt, "Based on this context")
}

func TestDefine_WithoutContext(t *testing.T) {
	client := &mockLLMClient{response: "a definition"}
	svc := NewService(client)

	_, err := svc.Define(context.Background(), "serendipity", "  ")

	require.NoError(t, err)
	assert.NotContains(t, client.last.UserPrompt, "---")
	assert.Contains(t, client.last.UserPrompt, `What is the most likely meaning of "serendipity"?`)
}

func TestDefine_BackendError(t *testing.T) {
	svc := NewService(&mockLLMClient{err: llm.ErrUnavailable})

	_, err := svc.Define(context.Background(), "run", "")

	assert.ErrorIs(t, err, llm.ErrUnavailable)
}

func TestDefine_EmptyResponse(t *testing.T) {
	svc := NewService(&mockLLMClient{response: "   "})

	_, err := svc.Define(context.Background(), "run", "")

	assert.ErrorIs(t, err, llm.ErrEmptyResponse)
}

func TestSentence_Prompt(t *testing.T) {
	client := &mockLLMClient{response: "She runs a small bakery."}
	svc := NewService(client)

	sentence, err := svc.Sentence(context.Background(), "run", "to manage", "He runs the shop.")

	require.NoError(t, err)
	assert.Equal(t, "She runs a small bakery.", sentence)
	assert.Equal(t, llm.TaskSentence, client.last.Task)
	assert.Contains(t, client.last.UserPrompt, `Its definition is: "to manage".`)
	assert.Contains(t, client.last.UserPrompt, `original context: "He runs the shop."`)

	_, err = svc.Sentence(context.Background(), "run", "to manage", "")
	require.NoError(t, err)
	assert.NotContains(t, client.last.UserPrompt, "original context")
}

func TestCreateCloze_Prompt(t *testing.T) {
	client := &mockLLMClient{response: "He {{c1::ran}} a marathon."}
	svc := NewService(client)

	out, err := svc.CreateCloze(context.Background(), "run", "He ran a marathon.")

	require.NoError(t, err)
	assert.Equal(t, "He {{c1::ran}} a marathon.", out)
	assert.Equal(t, llm.TaskCloze, client.last.Task)
	assert.Contains(t, client.last.SystemPrompt, "{{c1::word}}")
	assert.Contains(t, client.last.UserPrompt, "The word to be clozed is 'run'.")
}

func TestCreateCloze_FeedsSynthesizer(t *testing.T) {
	client := &mockLLMClient{response: "He {{c1::ran}} a marathon."}
	synth := cloze.NewSynthesizer(NewService(client), nil)

	res, err := synth.MakeCloze(context.Background(), "run", "He ran a marathon.", 2)

	require.NoError(t, err)
	assert.True(t, res.OK)
	assert.Equal(t, "He {{c2::ran}} a marathon.", res.Text)
	assert.Equal(t, 1, client.calls)
}

func TestDistractors(t *testing.T) {
	client := &mockLLMClient{response: "```json\n{\"distractors\": [\"Walk\", \"run\", \"jog\", \"walk\", \" \", \"sprint\"]}\n```"}
	svc := NewService(client)

	got, err := svc.Distractors(context.Background(), "Run", "to move fast", 2)

	require.NoError(t, err)
	assert.Equal(t, []string{"Walk", "jog"}, got)
	assert.Equal(t, llm.TaskDistractors, client.last.Task)
	assert.Contains(t, client.last.UserPrompt, "Give 2 distractors.")
}

func TestDistractors_InvalidOutput(t *testing.T) {
	svc := NewService(&mockLLMClient{response: "no idea"})

	_, err := svc.Distractors(context.Background(), "run", "", 2)
	assert.ErrorIs(t, err, llm.ErrInvalidOutput)

	svc = NewService(&mockLLMClient{response: `{"distractors": []}`})
	_, err = svc.Distractors(context.Background(), "run", "", 2)
	assert.ErrorIs(t, err, llm.ErrInvalidOutput)
}

func TestDistractors_ZeroRequested(t *testing.T) {
	client := &mockLLMClient{response: `{"distractors":["a"]}`}

	got, err := NewService(client).Distractors(context.Background(), "run", "", 0)

	require.NoError(t, err)
	assert.Empty(t, got)
	assert.Zero(t, client.calls)
}
