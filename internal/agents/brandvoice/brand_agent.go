package brandvoice

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

const systemPrompt = "You are a brand analyst. Extract brand voice and visual identity from provided materials."

// AnalysisRequest holds the source material for brand analysis. All fields
// are optional but at least one should be set for a useful result.
type AnalysisRequest struct {
	WebsiteURL  string   `json:"websiteUrl,omitempty"`
	SamplePosts []string `json:"samplePosts,omitempty"`
	Guidelines  string   `json:"guidelines,omitempty"`
}

// BrandAgent extracts a brand profile from sample material
type BrandAgent struct {
	provider llm.Provider
	model    string
}

// NewBrandAgent creates a brand analysis agent
func NewBrandAgent(provider llm.Provider, model string) *BrandAgent {
	return &BrandAgent{
		provider: provider,
		model:    model,
	}
}

// Analyze runs one structured call and returns the extracted profile
func (a *BrandAgent) Analyze(ctx context.Context, req *AnalysisRequest) (*models.BrandProfile, error) {
	startTime := time.Now()
	log.Printf("🔎 BRAND ANALYSIS STARTED: posts=%d", len(req.SamplePosts))

	transaction := sentry.StartTransaction(ctx, "brandvoice.analyze")
	defer transaction.Finish()
	transaction.SetTag("model", a.model)

	trace := observability.GetClient().StartTrace(ctx, "brand-analysis", map[string]interface{}{
		"sample_posts": len(req.SamplePosts),
		"model":        a.model,
	})
	defer trace.Finish()

	prompt := buildAnalysisPrompt(req)
	inputMessages := []map[string]any{
		{"role": "user", "content": prompt},
	}

	gen := trace.Generation("analyze", nil)
	resp, err := a.provider.Generate(ctx, &llm.GenerationRequest{
		Model:        a.model,
		SystemPrompt: systemPrompt,
		InputArray:   inputMessages,
		OutputSchema: llm.GetBrandProfileSchema(),
	})
	if err != nil {
		gen.SetLevel("ERROR")
		gen.Finish()
		transaction.SetTag("success", "false")
		sentry.CaptureException(err)
		return nil, fmt.Errorf("brand analysis failed: %w", err)
	}

	gen.LogLLMCall(a.model, inputMessages, resp.RawOutput, resp.Usage, nil)
	gen.Finish()

	var profile models.BrandProfile
	if err := json.Unmarshal([]byte(resp.RawOutput), &profile); err != nil {
		logger.Error("Failed to parse brand profile", err, logger.Fields{"model": a.model})
		transaction.SetTag("success", "false")
		return nil, fmt.Errorf("failed to parse brand profile: %w", err)
	}

	log.Printf("✅ BRAND ANALYSIS COMPLETED in %v", time.Since(startTime))
	transaction.SetTag("success", "true")
	return &profile, nil
}

// buildAnalysisPrompt mirrors the layout of the source material: website
// first, then samples separated by dividers, then guidelines.
func buildAnalysisPrompt(req *AnalysisRequest) string {
	var b strings.Builder
	b.WriteString("Analyze the following brand information and extract the brand voice and visual identity:\n\n")

	if req.WebsiteURL != "" {
		fmt.Fprintf(&b, "Website: %s\n", req.WebsiteURL)
	}
	if len(req.SamplePosts) > 0 {
		fmt.Fprintf(&b, "Sample Posts:\n%s\n", strings.Join(req.SamplePosts, "\n---\n"))
	}
	if req.Guidelines != "" {
		fmt.Fprintf(&b, "Brand Guidelines:\n%s\n", req.Guidelines)
	}

	b.WriteString("\nBased on this information, infer the brand's characteristics.")
	return b.String()
}
