package composer

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"time"

	"github.com/getsentry/sentry-go"

	"github.com/postloom/postloom-api/internal/llm"
	"github.com/postloom/postloom-api/internal/logger"
	"github.com/postloom/postloom-api/internal/metrics"
	"github.com/postloom/postloom-api/internal/models"
	"github.com/postloom/postloom-api/internal/observability"
)

const (
	defaultVariationCount = 3

	// Review round 1 rewrites any variation scoring below this
	rewriteThreshold = 8.0
	// Review round 2 runs only when any round-1 score is below this
	finalPassThreshold = 7.0

	stageDraft     = "draft"
	stageReview    = "review_round_1"
	stageFinalPass = "review_round_2"
)

// variationsEnvelope matches the draft stage output schema
type variationsEnvelope struct {
	Variations []models.Variation `json:"variations"`
}

// reviewsEnvelope matches the review stage output schema
type reviewsEnvelope struct {
	Reviews []models.ReviewRecord `json:"reviews"`
}

// ComposerAgent runs the post generation pipeline: draft, self-review,
// and a conditional final polish pass.
type ComposerAgent struct {
	provider      llm.Provider
	model         string
	sentryMetrics *metrics.SentryMetrics
	cloudwatch    *metrics.Client
}

// NewComposerAgent creates a composer agent bound to one provider and model
func NewComposerAgent(provider llm.Provider, model string, sentryMetrics *metrics.SentryMetrics, cloudwatch *metrics.Client) *ComposerAgent {
	return &ComposerAgent{
		provider:      provider,
		model:         model,
		sentryMetrics: sentryMetrics,
		cloudwatch:    cloudwatch,
	}
}

// Generate runs the full pipeline. The draft stage is the only hard
// dependency: review failures degrade to returning the drafts with an empty
// feedback trail rather than failing the request.
func (a *ComposerAgent) Generate(ctx context.Context, req *models.GenerationRequest) (*models.GenerationResult, error) {
	startTime := time.Now()
	log.Printf("✍️  POST GENERATION STARTED: platform=%s, iteration=%t", req.Platform, req.IsIteration())

	transaction := sentry.StartTransaction(ctx, "composer.generate")
	defer transaction.Finish()

	transaction.SetTag("platform", string(req.Platform))
	transaction.SetTag("model", a.model)
	transaction.SetTag("iteration", fmt.Sprintf("%t", req.IsIteration()))

	trace := observability.GetClient().StartTrace(ctx, "post-generation", map[string]interface{}{
		"platform":  string(req.Platform),
		"iteration": req.IsIteration(),
		"model":     a.model,
	})
	defer trace.Finish()

	// Stage 1: draft
	variations, err := a.draft(ctx, req, trace)
	if err != nil {
		transaction.SetTag("success", "false")
		sentry.CaptureException(err)
		if a.sentryMetrics != nil {
			a.sentryMetrics.RecordPipelineDuration(ctx, time.Since(startTime), false)
		}
		if a.cloudwatch != nil {
			a.cloudwatch.RecordPipelineDuration(time.Since(startTime), false)
		}
		return nil, err
	}

	// Stage 2: self-review. Any failure here returns drafts untouched.
	variations, feedback := a.review(ctx, req, variations, trace)

	duration := time.Since(startTime)
	log.Printf("✅ POST GENERATION COMPLETED: %d variations, %d feedback records in %v",
		len(variations), len(feedback), duration)

	transaction.SetTag("success", "true")
	if a.sentryMetrics != nil {
		a.sentryMetrics.RecordPipelineDuration(ctx, duration, true)
	}
	if a.cloudwatch != nil {
		a.cloudwatch.RecordPipelineDuration(duration, true)
	}

	return &models.GenerationResult{
		Variations: variations,
		Feedback:   feedback,
	}, nil
}

// draft runs the first LLM call and parses the variations. Errors here are
// fatal for the whole pipeline.
func (a *ComposerAgent) draft(ctx context.Context, req *models.GenerationRequest, trace *observability.Trace) ([]models.Variation, error) {
	systemPrompt := buildSystemPrompt(req)
	userPrompt := buildUserPrompt(req)

	resp, err := a.callModel(ctx, trace, stageDraft, systemPrompt, userPrompt, llm.GetPostVariationsSchema())
	if err != nil {
		return nil, fmt.Errorf("draft stage failed: %w", err)
	}

	var envelope variationsEnvelope
	if err := json.Unmarshal([]byte(resp.RawOutput), &envelope); err != nil {
		logger.Error("Failed to parse draft output", err, logger.Fields{
			"stage": stageDraft,
			"model": a.model,
		})
		return nil, fmt.Errorf("failed to parse draft output: %w", err)
	}

	if len(envelope.Variations) == 0 {
		return nil, fmt.Errorf("draft stage produced no variations")
	}

	log.Printf("📝 DRAFT COMPLETE: %d variations", len(envelope.Variations))
	return envelope.Variations, nil
}

// review runs round 1 and, when warranted, round 2. It never fails the
// pipeline: on any error the current variations are returned with whatever
// feedback has been accumulated so far.
func (a *ComposerAgent) review(
	ctx context.Context,
	req *models.GenerationRequest,
	variations []models.Variation,
	trace *observability.Trace,
) ([]models.Variation, []models.ReviewRecord) {
	log.Printf("🔍 Running self-feedback loop...")

	resp, err := a.callModel(ctx, trace, stageReview, reviewSystemPrompt, buildReviewPrompt(variations), llm.GetPostReviewSchema())
	if err != nil {
		logger.Warn("Review round 1 failed, returning drafts unreviewed", logger.Fields{
			"stage": stageReview,
			"error": err.Error(),
		})
		return variations, []models.ReviewRecord{}
	}

	var envelope reviewsEnvelope
	if err := json.Unmarshal([]byte(resp.RawOutput), &envelope); err != nil {
		logger.Warn("Review round 1 output unparseable, returning drafts unreviewed", logger.Fields{
			"stage": stageReview,
			"error": err.Error(),
		})
		return variations, []models.ReviewRecord{}
	}

	feedback := envelope.Reviews
	if feedback == nil {
		feedback = []models.ReviewRecord{}
	}

	variations, rewritten := applyRound1(variations, feedback)
	log.Printf("🔍 Round 1 self-feedback applied: %d/%d rewritten", rewritten, len(variations))
	if a.sentryMetrics != nil {
		a.sentryMetrics.RecordReviewOutcome(ctx, "round_1", len(feedback), rewritten)
	}
	if a.cloudwatch != nil {
		a.cloudwatch.RecordReviewOutcome("round_1", rewritten)
	}

	if !needsFinalPass(feedback) {
		return variations, feedback
	}

	log.Printf("🔍 Running round 2 self-feedback (some scores < %v)...", finalPassThreshold)
	return a.finalPass(ctx, req, variations, feedback, trace)
}

// finalPass runs the round-2 polish. Failures leave the round-1 results
// intact.
func (a *ComposerAgent) finalPass(
	ctx context.Context,
	req *models.GenerationRequest,
	variations []models.Variation,
	feedback []models.ReviewRecord,
	trace *observability.Trace,
) ([]models.Variation, []models.ReviewRecord) {
	prompt := buildFinalPassPrompt(variations, req.BrandVoice)

	resp, err := a.callModel(ctx, trace, stageFinalPass, finalPassSystemPrompt, prompt, llm.GetPostReviewSchema())
	if err != nil {
		logger.Warn("Review round 2 failed, keeping round 1 results", logger.Fields{
			"stage": stageFinalPass,
			"error": err.Error(),
		})
		return variations, feedback
	}

	var envelope reviewsEnvelope
	if err := json.Unmarshal([]byte(resp.RawOutput), &envelope); err != nil {
		logger.Warn("Review round 2 output unparseable, keeping round 1 results", logger.Fields{
			"stage": stageFinalPass,
			"error": err.Error(),
		})
		return variations, feedback
	}

	variations, rewritten := applyFinalPass(variations, envelope.Reviews)
	feedback = mergeFeedback(feedback, envelope.Reviews)

	log.Printf("🔍 Round 2 self-feedback applied: %d/%d rewritten", rewritten, len(variations))
	if a.sentryMetrics != nil {
		a.sentryMetrics.RecordReviewOutcome(ctx, "round_2", len(envelope.Reviews), rewritten)
	}
	if a.cloudwatch != nil {
		a.cloudwatch.RecordReviewOutcome("round_2", rewritten)
	}

	return variations, feedback
}

// callModel issues one structured LLM call and records it in Langfuse and
// the metrics sinks.
func (a *ComposerAgent) callModel(
	ctx context.Context,
	trace *observability.Trace,
	stage, systemPrompt, userPrompt string,
	schema *llm.OutputSchema,
) (*llm.GenerationResponse, error) {
	inputMessages := []map[string]any{
		{"role": "user", "content": userPrompt},
	}

	gen := trace.Generation(stage, map[string]interface{}{"stage": stage})
	callStart := time.Now()

	resp, err := a.provider.Generate(ctx, &llm.GenerationRequest{
		Model:        a.model,
		SystemPrompt: systemPrompt,
		InputArray:   inputMessages,
		OutputSchema: schema,
	})

	callDuration := time.Since(callStart)

	if err != nil {
		gen.SetLevel("ERROR")
		gen.Output(err.Error())
		gen.Finish()
		return nil, err
	}

	gen.LogLLMCall(a.model, inputMessages, resp.RawOutput, resp.Usage, map[string]interface{}{"stage": stage})
	gen.Finish()

	logger.LogLLMCall(ctx, a.model, stage, callDuration, resp.Usage, nil)
	if a.sentryMetrics != nil {
		a.sentryMetrics.RecordTokenUsage(ctx, a.model, resp.Usage.TotalTokens, resp.Usage.InputTokens, resp.Usage.OutputTokens)
	}
	if a.cloudwatch != nil {
		a.cloudwatch.RecordTokenUsage(a.model, resp.Usage.TotalTokens, resp.Usage.InputTokens, resp.Usage.OutputTokens)
	}

	return resp, nil
}

// needsRewrite reports whether a round-1 review warrants replacing the
// variation's text.
func needsRewrite(score float64) bool {
	return score < rewriteThreshold
}

// needsFinalPass reports whether any round-1 score warrants a second pass
func needsFinalPass(feedback []models.ReviewRecord) bool {
	for _, r := range feedback {
		if r.Score < finalPassThreshold {
			return true
		}
	}
	return false
}

// applyRound1 replaces caption and overlay on variations whose review scored
// below the rewrite threshold. Empty improved values keep the original text.
// Returns the count of rewritten variations.
func applyRound1(variations []models.Variation, feedback []models.ReviewRecord) ([]models.Variation, int) {
	rewritten := 0
	for i := range variations {
		review := findReview(feedback, i)
		if review == nil || !needsRewrite(review.Score) {
			continue
		}
		if review.ImprovedCaption != "" {
			variations[i].Caption = review.ImprovedCaption
		}
		if review.ImprovedTextOverlay != "" {
			variations[i].TextOverlay = review.ImprovedTextOverlay
		}
		rewritten++
	}
	return variations, rewritten
}

// applyFinalPass applies round-2 rewrites. Unlike round 1 there is no score
// gate: any record with a non-empty improved caption replaces the text.
// Returns the count of rewritten variations.
func applyFinalPass(variations []models.Variation, reviews []models.ReviewRecord) ([]models.Variation, int) {
	rewritten := 0
	for i := range variations {
		review := findReview(reviews, i)
		if review == nil || review.ImprovedCaption == "" {
			continue
		}
		variations[i].Caption = review.ImprovedCaption
		if review.ImprovedTextOverlay != "" {
			variations[i].TextOverlay = review.ImprovedTextOverlay
		}
		rewritten++
	}
	return variations, rewritten
}

// mergeFeedback folds round-2 records into the round-1 trail. Matched records
// take the round-2 score and concatenate both feedback strings; unmatched
// round-1 records pass through untouched.
func mergeFeedback(round1, round2 []models.ReviewRecord) []models.ReviewRecord {
	merged := make([]models.ReviewRecord, len(round1))
	for i, fb := range round1 {
		merged[i] = fb
		if r2 := findReview(round2, fb.Index); r2 != nil {
			merged[i].Score = r2.Score
			merged[i].Feedback = fmt.Sprintf("%s → Final: %s", fb.Feedback, r2.Feedback)
		}
	}
	return merged
}

func findReview(reviews []models.ReviewRecord, index int) *models.ReviewRecord {
	for i := range reviews {
		if reviews[i].Index == index {
			return &reviews[i]
		}
	}
	return nil
}
