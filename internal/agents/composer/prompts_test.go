package composer

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/postloom/postloom-api/internal/models"
)

func TestBuildSystemPrompt(t *testing.T) {
	req := &models.GenerationRequest{
		Platform: models.PlatformLinkedIn,
		BrandVoice: models.BrandVoice{
			Tone:      "confident",
			Formality: "professional",
		},
		Formats: []models.Format{models.FormatSingle, models.FormatCarousel},
	}

	prompt := buildSystemPrompt(req)
	assert.Contains(t, prompt, "optimized for linkedin")
	assert.Contains(t, prompt, `"tone":"confident"`)
	assert.Contains(t, prompt, "Requested formats: single, carousel")
}

func TestBuildSystemPrompt_BothPlatforms(t *testing.T) {
	req := &models.GenerationRequest{Platform: models.PlatformBoth}

	prompt := buildSystemPrompt(req)
	assert.Contains(t, prompt, "optimized for LinkedIn and Instagram")
	assert.Contains(t, prompt, "Requested formats: single", "formats default to single")
}

func TestBuildUserPrompt_Fresh(t *testing.T) {
	req := &models.GenerationRequest{
		Intent:         "Launch announcement",
		Platform:       models.PlatformInstagram,
		Tone:           "excited",
		CTA:            "Sign up today",
		ExtraContext:   "launching Tuesday",
		VariationCount: 5,
	}

	prompt := buildUserPrompt(req)
	assert.Contains(t, prompt, "Create 5 post variations")
	assert.Contains(t, prompt, "Intent: Launch announcement")
	assert.Contains(t, prompt, "Tone: excited")
	assert.Contains(t, prompt, "CTA: Sign up today")
	assert.Contains(t, prompt, "Additional Context: launching Tuesday")
}

func TestBuildUserPrompt_OptionalFieldsOmitted(t *testing.T) {
	req := &models.GenerationRequest{
		Intent:   "Launch announcement",
		Platform: models.PlatformLinkedIn,
	}

	prompt := buildUserPrompt(req)
	assert.Contains(t, prompt, "Create 3 post variations", "variation count defaults to 3")
	assert.NotContains(t, prompt, "Tone:")
	assert.NotContains(t, prompt, "CTA:")
	assert.NotContains(t, prompt, "Additional Context:")
}

func TestBuildUserPrompt_Iteration(t *testing.T) {
	req := &models.GenerationRequest{
		Intent:          "ignored in iteration mode",
		ExistingCaption: "old caption text",
		UserFeedback:    "too formal",
		VariationCount:  2,
	}

	prompt := buildUserPrompt(req)
	assert.Contains(t, prompt, "EXISTING CAPTION:\nold caption text")
	assert.Contains(t, prompt, "USER FEEDBACK:\ntoo formal")
	assert.Contains(t, prompt, "Generate 2 improved variations")
	assert.Contains(t, prompt, "Do NOT start from scratch")
	assert.NotContains(t, prompt, "ignored in iteration mode")
}

func TestBuildReviewPrompt(t *testing.T) {
	variations := []models.Variation{
		{Platform: models.PlatformLinkedIn, Caption: "hello world"},
	}

	prompt := buildReviewPrompt(variations)
	assert.Contains(t, prompt, "score each one")
	assert.Contains(t, prompt, "below 8/10")
	assert.Contains(t, prompt, "hello world")
}

func TestBuildFinalPassPrompt(t *testing.T) {
	variations := []models.Variation{{Caption: "already improved"}}
	brandVoice := models.BrandVoice{Tone: "warm"}

	prompt := buildFinalPassPrompt(variations, brandVoice)
	assert.Contains(t, prompt, "final polish pass")
	assert.Contains(t, prompt, "already improved")
	assert.Contains(t, prompt, `"tone":"warm"`)
}
