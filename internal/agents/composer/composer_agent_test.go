package composer

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/postloom/postloom-api/internal/llm"
	"github.com/postloom/postloom-api/internal/models"
)

// scriptedProvider replays canned responses, one per call, and records the
// requests it received.
type scriptedProvider struct {
	responses []scriptedResponse
	requests  []*llm.GenerationRequest
	calls     int
}

type scriptedResponse struct {
	output string
	err    error
}

func (p *scriptedProvider) Generate(_ context.Context, req *llm.GenerationRequest) (*llm.GenerationResponse, error) {
	p.requests = append(p.requests, req)
	if p.calls >= len(p.responses) {
		return nil, fmt.Errorf("unexpected call %d", p.calls)
	}
	r := p.responses[p.calls]
	p.calls++
	if r.err != nil {
		return nil, r.err
	}
	return &llm.GenerationResponse{
		RawOutput: r.output,
		Usage:     llm.Usage{InputTokens: 100, OutputTokens: 50, TotalTokens: 150},
	}, nil
}

func (p *scriptedProvider) Name() string { return "scripted" }

func draftJSON(captions ...string) string {
	var variations []models.Variation
	for _, c := range captions {
		variations = append(variations, models.Variation{
			Platform:    models.PlatformLinkedIn,
			Format:      models.FormatSingle,
			Caption:     c,
			TextOverlay: "original overlay",
			ImagePrompt: "an image",
			CTAText:     "Learn more",
		})
	}
	out, _ := json.Marshal(variationsEnvelope{Variations: variations})
	return string(out)
}

func reviewsJSON(reviews ...models.ReviewRecord) string {
	out, _ := json.Marshal(reviewsEnvelope{Reviews: reviews})
	return string(out)
}

func newTestAgent(provider llm.Provider) *ComposerAgent {
	return NewComposerAgent(provider, "gemini-2.5-flash", nil, nil)
}

func baseRequest() *models.GenerationRequest {
	return &models.GenerationRequest{
		Intent:   "Announce our new product",
		Platform: models.PlatformLinkedIn,
	}
}

func TestGenerate_HighScoresLeaveDraftsUntouched(t *testing.T) {
	provider := &scriptedProvider{responses: []scriptedResponse{
		{output: draftJSON("caption one", "caption two")},
		{output: reviewsJSON(
			models.ReviewRecord{Index: 0, Score: 9, Feedback: "great", ImprovedCaption: "ignored", ImprovedTextOverlay: "ignored"},
			models.ReviewRecord{Index: 1, Score: 8, Feedback: "solid", ImprovedCaption: "ignored", ImprovedTextOverlay: "ignored"},
		)},
	}}

	result, err := newTestAgent(provider).Generate(context.Background(), baseRequest())
	require.NoError(t, err)
	require.Len(t, result.Variations, 2)

	// Scores at or above 8 keep the drafted text even when the reviewer
	// offered improvements
	assert.Equal(t, "caption one", result.Variations[0].Caption)
	assert.Equal(t, "caption two", result.Variations[1].Caption)
	assert.Len(t, result.Feedback, 2)
	assert.Equal(t, 2, provider.calls, "no round 2 when all scores >= 7")
}

func TestGenerate_LowScoreGetsRewritten(t *testing.T) {
	provider := &scriptedProvider{responses: []scriptedResponse{
		{output: draftJSON("weak caption", "fine caption")},
		{output: reviewsJSON(
			models.ReviewRecord{Index: 0, Score: 7.5, Feedback: "meh", ImprovedCaption: "better caption", ImprovedTextOverlay: "better overlay"},
			models.ReviewRecord{Index: 1, Score: 9, Feedback: "good"},
		)},
	}}

	result, err := newTestAgent(provider).Generate(context.Background(), baseRequest())
	require.NoError(t, err)

	assert.Equal(t, "better caption", result.Variations[0].Caption)
	assert.Equal(t, "better overlay", result.Variations[0].TextOverlay)
	assert.Equal(t, "fine caption", result.Variations[1].Caption)
	assert.Equal(t, 2, provider.calls, "7.5 triggers rewrite but not round 2")
}

func TestGenerate_EmptyImprovedValuesKeepOriginals(t *testing.T) {
	provider := &scriptedProvider{responses: []scriptedResponse{
		{output: draftJSON("original caption")},
		{output: reviewsJSON(
			models.ReviewRecord{Index: 0, Score: 7.5, Feedback: "overlay is fine", ImprovedCaption: "new caption", ImprovedTextOverlay: ""},
		)},
	}}

	result, err := newTestAgent(provider).Generate(context.Background(), baseRequest())
	require.NoError(t, err)

	assert.Equal(t, "new caption", result.Variations[0].Caption)
	assert.Equal(t, "original overlay", result.Variations[0].TextOverlay)
}

func TestGenerate_Round2TriggeredByScoreBelow7(t *testing.T) {
	provider := &scriptedProvider{responses: []scriptedResponse{
		{output: draftJSON("bad caption", "good caption")},
		{output: reviewsJSON(
			models.ReviewRecord{Index: 0, Score: 5, Feedback: "off brand", ImprovedCaption: "round1 caption", ImprovedTextOverlay: "round1 overlay"},
			models.ReviewRecord{Index: 1, Score: 9, Feedback: "strong"},
		)},
		{output: reviewsJSON(
			models.ReviewRecord{Index: 0, Score: 8, Feedback: "much better", ImprovedCaption: "final caption", ImprovedTextOverlay: ""},
		)},
	}}

	result, err := newTestAgent(provider).Generate(context.Background(), baseRequest())
	require.NoError(t, err)
	assert.Equal(t, 3, provider.calls)

	// Round 2 replaces the caption whenever improvedCaption is non-empty,
	// with no score gate, and keeps the current overlay when the improved
	// overlay is empty
	assert.Equal(t, "final caption", result.Variations[0].Caption)
	assert.Equal(t, "round1 overlay", result.Variations[0].TextOverlay)
	assert.Equal(t, "good caption", result.Variations[1].Caption)

	// Merged feedback carries the round-2 score and both feedback strings
	require.Len(t, result.Feedback, 2)
	assert.Equal(t, float64(8), result.Feedback[0].Score)
	assert.Equal(t, "off brand → Final: much better", result.Feedback[0].Feedback)

	// Records without a round-2 match pass through untouched
	assert.Equal(t, float64(9), result.Feedback[1].Score)
	assert.Equal(t, "strong", result.Feedback[1].Feedback)
}

func TestGenerate_DraftFailureIsFatal(t *testing.T) {
	provider := &scriptedProvider{responses: []scriptedResponse{
		{err: errors.New("boom")},
	}}

	_, err := newTestAgent(provider).Generate(context.Background(), baseRequest())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "draft stage failed")
}

func TestGenerate_DraftRateLimitPropagates(t *testing.T) {
	provider := &scriptedProvider{responses: []scriptedResponse{
		{err: fmt.Errorf("call failed: %w", llm.ErrRateLimited)},
	}}

	_, err := newTestAgent(provider).Generate(context.Background(), baseRequest())
	require.Error(t, err)
	assert.ErrorIs(t, err, llm.ErrRateLimited)
}

func TestGenerate_UnparseableDraftIsFatal(t *testing.T) {
	provider := &scriptedProvider{responses: []scriptedResponse{
		{output: "not json at all"},
	}}

	_, err := newTestAgent(provider).Generate(context.Background(), baseRequest())
	require.Error(t, err)
}

func TestGenerate_ReviewFailureReturnsDraftsWithEmptyFeedback(t *testing.T) {
	provider := &scriptedProvider{responses: []scriptedResponse{
		{output: draftJSON("caption one")},
		{err: fmt.Errorf("call failed: %w", llm.ErrRateLimited)},
	}}

	result, err := newTestAgent(provider).Generate(context.Background(), baseRequest())
	require.NoError(t, err, "review failures never fail the pipeline")
	require.Len(t, result.Variations, 1)
	assert.Equal(t, "caption one", result.Variations[0].Caption)
	assert.NotNil(t, result.Feedback)
	assert.Empty(t, result.Feedback)
}

func TestGenerate_Round2FailureKeepsRound1Results(t *testing.T) {
	provider := &scriptedProvider{responses: []scriptedResponse{
		{output: draftJSON("bad caption")},
		{output: reviewsJSON(
			models.ReviewRecord{Index: 0, Score: 4, Feedback: "weak", ImprovedCaption: "round1 caption"},
		)},
		{err: errors.New("round 2 down")},
	}}

	result, err := newTestAgent(provider).Generate(context.Background(), baseRequest())
	require.NoError(t, err)
	assert.Equal(t, "round1 caption", result.Variations[0].Caption)
	require.Len(t, result.Feedback, 1)
	assert.Equal(t, float64(4), result.Feedback[0].Score)
	assert.Equal(t, "weak", result.Feedback[0].Feedback)
}

func TestGenerate_IterationModePrompt(t *testing.T) {
	provider := &scriptedProvider{responses: []scriptedResponse{
		{output: draftJSON("revised caption")},
		{output: reviewsJSON(models.ReviewRecord{Index: 0, Score: 9, Feedback: "good"})},
	}}

	req := baseRequest()
	req.ExistingCaption = "the old caption"
	req.UserFeedback = "make it shorter"

	_, err := newTestAgent(provider).Generate(context.Background(), req)
	require.NoError(t, err)

	require.NotEmpty(t, provider.requests)
	draftPrompt := provider.requests[0].InputArray[0]["content"].(string)
	assert.Contains(t, draftPrompt, "the old caption")
	assert.Contains(t, draftPrompt, "make it shorter")
	assert.NotContains(t, draftPrompt, "Intent:", "iteration prompt must not restart from intent")
}

func TestGenerate_OrderingPreserved(t *testing.T) {
	provider := &scriptedProvider{responses: []scriptedResponse{
		{output: draftJSON("a", "b", "c")},
		{output: reviewsJSON(
			// Reviews arrive out of order; index keys them back
			models.ReviewRecord{Index: 2, Score: 5, Feedback: "c weak", ImprovedCaption: "c2"},
			models.ReviewRecord{Index: 0, Score: 9, Feedback: "a fine"},
			models.ReviewRecord{Index: 1, Score: 9, Feedback: "b fine"},
		)},
		{output: reviewsJSON(
			models.ReviewRecord{Index: 2, Score: 8, Feedback: "c fixed", ImprovedCaption: "c3"},
		)},
	}}

	result, err := newTestAgent(provider).Generate(context.Background(), baseRequest())
	require.NoError(t, err)
	require.Len(t, result.Variations, 3)
	assert.Equal(t, "a", result.Variations[0].Caption)
	assert.Equal(t, "b", result.Variations[1].Caption)
	assert.Equal(t, "c3", result.Variations[2].Caption)
}

func TestNeedsRewrite(t *testing.T) {
	assert.True(t, needsRewrite(7.9))
	assert.False(t, needsRewrite(8))
	assert.False(t, needsRewrite(9.5))
}

func TestNeedsFinalPass(t *testing.T) {
	assert.False(t, needsFinalPass(nil))
	assert.False(t, needsFinalPass([]models.ReviewRecord{{Score: 7}, {Score: 9}}))
	assert.True(t, needsFinalPass([]models.ReviewRecord{{Score: 9}, {Score: 6.9}}))
}

func TestMergeFeedback(t *testing.T) {
	round1 := []models.ReviewRecord{
		{Index: 0, Score: 5, Feedback: "first"},
		{Index: 1, Score: 6, Feedback: "second"},
	}
	round2 := []models.ReviewRecord{
		{Index: 1, Score: 8.5, Feedback: "polished"},
	}

	merged := mergeFeedback(round1, round2)
	require.Len(t, merged, 2)
	assert.Equal(t, float64(5), merged[0].Score)
	assert.Equal(t, "first", merged[0].Feedback)
	assert.Equal(t, 8.5, merged[1].Score)
	assert.Equal(t, "second → Final: polished", merged[1].Feedback)
}
