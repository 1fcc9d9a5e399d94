package suggest

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/getsentry/sentry-go"

	"github.com/postloom/postloom-api/internal/llm"
	"github.com/postloom/postloom-api/internal/logger"
	"github.com/postloom/postloom-api/internal/models"
	"github.com/postloom/postloom-api/internal/observability"
)

// SuggestionRequest holds the brand context for idea generation
type SuggestionRequest struct {
	BrandName           string            `json:"brandName"`
	BrandVoice          models.BrandVoice `json:"brandVoice,omitempty"`
	ContentThemes       []string          `json:"contentThemes,omitempty"`
	ExistingPostIntents []string          `json:"existingPostIntents,omitempty"`
}

// suggestionsEnvelope matches the suggestion output schema
type suggestionsEnvelope struct {
	Suggestions []models.ContentSuggestion `json:"suggestions"`
}

// SuggestAgent proposes timely post ideas for a brand
type SuggestAgent struct {
	provider llm.Provider
	model    string
	// now is injected so tests can pin the date in the system prompt
	now func() time.Time
}

// NewSuggestAgent creates a content suggestion agent
func NewSuggestAgent(provider llm.Provider, model string) *SuggestAgent {
	return &SuggestAgent{
		provider: provider,
		model:    model,
		now:      time.Now,
	}
}

// Suggest runs one structured call and returns the proposed ideas
func (a *SuggestAgent) Suggest(ctx context.Context, req *SuggestionRequest) ([]models.ContentSuggestion, error) {
	startTime := time.Now()
	log.Printf("💡 CONTENT SUGGESTIONS STARTED: brand=%s", req.BrandName)

	transaction := sentry.StartTransaction(ctx, "suggest.generate")
	defer transaction.Finish()
	transaction.SetTag("model", a.model)

	trace := observability.GetClient().StartTrace(ctx, "content-suggestions", map[string]interface{}{
		"brand": req.BrandName,
		"model": a.model,
	})
	defer trace.Finish()

	inputMessages := []map[string]any{
		{"role": "user", "content": buildSuggestionPrompt(req)},
	}

	gen := trace.Generation("suggest", nil)
	resp, err := a.provider.Generate(ctx, &llm.GenerationRequest{
		Model:        a.model,
		SystemPrompt: a.buildSystemPrompt(),
		InputArray:   inputMessages,
		OutputSchema: llm.GetContentSuggestionsSchema(),
	})
	if err != nil {
		gen.SetLevel("ERROR")
		gen.Finish()
		transaction.SetTag("success", "false")
		sentry.CaptureException(err)
		return nil, fmt.Errorf("content suggestions failed: %w", err)
	}

	gen.LogLLMCall(a.model, inputMessages, resp.RawOutput, resp.Usage, nil)
	gen.Finish()

	var envelope suggestionsEnvelope
	if err := json.Unmarshal([]byte(resp.RawOutput), &envelope); err != nil {
		logger.Error("Failed to parse suggestions", err, logger.Fields{"model": a.model})
		transaction.SetTag("success", "false")
		return nil, fmt.Errorf("failed to parse suggestions: %w", err)
	}

	log.Printf("✅ CONTENT SUGGESTIONS COMPLETED: %d ideas in %v", len(envelope.Suggestions), time.Since(startTime))
	transaction.SetTag("success", "true")
	return envelope.Suggestions, nil
}

// buildSystemPrompt includes today's date so the model can anchor timely
// and seasonal ideas.
func (a *SuggestAgent) buildSystemPrompt() string {
	today := a.now().Format("2006-01-02")
	return fmt.Sprintf("You are a social media strategist. Suggest creative, timely post ideas for brands. Today is %s. Consider current events, trending topics, and seasonal opportunities. Be specific and actionable.", today)
}

func buildSuggestionPrompt(req *SuggestionRequest) string {
	brandVoiceJSON, _ := json.Marshal(req.BrandVoice)
	themesJSON, _ := json.Marshal(req.ContentThemes)

	var b strings.Builder
	fmt.Fprintf(&b, `Suggest 5-8 social media post ideas for "%s".

Brand voice: %s
Content themes: %s
`, req.BrandName, string(brandVoiceJSON), string(themesJSON))

	if len(req.ExistingPostIntents) > 0 {
		fmt.Fprintf(&b, "Already planned posts (avoid duplicates):\n%s\n", strings.Join(req.ExistingPostIntents, "\n"))
	}

	b.WriteString(`
Include a mix of:
- Trending/timely content (current events, sports events like Super Bowl, Olympics, major tech events)
- Evergreen brand content
- Engagement-focused content (polls, questions, behind-the-scenes)
- Product/service promotion`)

	return b.String()
}
