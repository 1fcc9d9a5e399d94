package suggest

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/postloom/postloom-api/internal/llm"
	"github.com/postloom/postloom-api/internal/models"
)

type fakeProvider struct {
	output  string
	err     error
	lastReq *llm.GenerationRequest
}

func (p *fakeProvider) Generate(_ context.Context, req *llm.GenerationRequest) (*llm.GenerationResponse, error) {
	p.lastReq = req
	if p.err != nil {
		return nil, p.err
	}
	return &llm.GenerationResponse{RawOutput: p.output}, nil
}

func (p *fakeProvider) Name() string { return "fake" }

func TestSuggest(t *testing.T) {
	provider := &fakeProvider{output: `{
		"suggestions": [
			{
				"title": "Monday motivation",
				"intent": "Share a client success story",
				"platform": "linkedin",
				"category": "evergreen",
				"urgency": "anytime",
				"reasoning": "Consistent performer"
			}
		]
	}`}

	agent := NewSuggestAgent(provider, "gemini-2.5-flash")
	agent.now = func() time.Time { return time.Date(2026, 8, 30, 12, 0, 0, 0, time.UTC) }

	suggestions, err := agent.Suggest(context.Background(), &SuggestionRequest{
		BrandName:           "Acme Fitness",
		BrandVoice:          models.BrandVoice{Tone: "upbeat"},
		ContentThemes:       []string{"fitness", "nutrition"},
		ExistingPostIntents: []string{"protein shake launch"},
	})
	require.NoError(t, err)
	require.Len(t, suggestions, 1)
	assert.Equal(t, "Monday motivation", suggestions[0].Title)
	assert.Equal(t, models.PlatformLinkedIn, suggestions[0].Platform)

	require.NotNil(t, provider.lastReq)
	assert.Contains(t, provider.lastReq.SystemPrompt, "Today is 2026-08-30")

	prompt := provider.lastReq.InputArray[0]["content"].(string)
	assert.Contains(t, prompt, `"Acme Fitness"`)
	assert.Contains(t, prompt, `"tone":"upbeat"`)
	assert.Contains(t, prompt, "protein shake launch")
}

func TestSuggest_NoExistingIntents(t *testing.T) {
	prompt := buildSuggestionPrompt(&SuggestionRequest{BrandName: "Acme"})
	assert.NotContains(t, prompt, "Already planned posts")
}

func TestSuggest_ProviderError(t *testing.T) {
	provider := &fakeProvider{err: errors.New("down")}
	agent := NewSuggestAgent(provider, "gemini-2.5-flash")

	_, err := agent.Suggest(context.Background(), &SuggestionRequest{BrandName: "Acme"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "content suggestions failed")
}

func TestSuggest_BadJSON(t *testing.T) {
	provider := &fakeProvider{output: "{"}
	agent := NewSuggestAgent(provider, "gemini-2.5-flash")

	_, err := agent.Suggest(context.Background(), &SuggestionRequest{BrandName: "Acme"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to parse suggestions")
}
