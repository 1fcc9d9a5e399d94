package composer

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/postloom/postloom-api/internal/models"
)

// buildSystemPrompt assembles the copywriter system prompt. The brand voice
// and visual identity are embedded as JSON so the model sees exactly what the
// caller sent, including absent fields.
func buildSystemPrompt(req *models.GenerationRequest) string {
	brandVoiceJSON, _ := json.Marshal(req.BrandVoice)
	visualIdentityJSON, _ := json.Marshal(req.VisualIdentity)

	platformLabel := string(req.Platform)
	if req.Platform == models.PlatformBoth {
		platformLabel = "LinkedIn and Instagram"
	}

	formats := req.Formats
	if len(formats) == 0 {
		formats = []models.Format{models.FormatSingle}
	}
	formatNames := make([]string, len(formats))
	for i, f := range formats {
		formatNames[i] = string(f)
	}

	return fmt.Sprintf(`You are an expert social media copywriter and strategist. You create high-quality, on-brand social media posts.

Brand Voice: %s
Visual Identity: %s

Rules:
- Write posts optimized for %s
- Keep LinkedIn posts professional but engaging, 150-300 words, use line breaks for readability
- Keep Instagram posts punchy, use emojis strategically, include relevant hashtags (5-10)
- Always include a clear CTA
- Maintain brand voice consistency
- Text overlays should be SHORT (5-8 words max), impactful, and readable on mobile

Requested formats: %s
- "single": Standard single-image post
- "carousel": Multi-slide carousel (3-5 slides). Provide a "carouselSlides" array with textOverlay per slide
- "story": Instagram/LinkedIn story format (vertical 9:16). Keep text very short and punchy`,
		string(brandVoiceJSON), string(visualIdentityJSON), platformLabel, strings.Join(formatNames, ", "))
}

// buildUserPrompt branches on iteration mode. An iteration revises the
// existing caption per the user's feedback and must not restart from intent.
func buildUserPrompt(req *models.GenerationRequest) string {
	variationCount := req.VariationCount
	if variationCount <= 0 {
		variationCount = defaultVariationCount
	}

	if req.IsIteration() {
		return fmt.Sprintf(`The user wants to improve this existing post:

EXISTING CAPTION:
%s

USER FEEDBACK:
%s

Generate %d improved variations based on the feedback. Do NOT start from scratch - iterate on the existing post.`,
			req.ExistingCaption, req.UserFeedback, variationCount)
	}

	var b strings.Builder
	fmt.Fprintf(&b, `Create %d post variations for the following:

Intent: %s
Platform: %s`, variationCount, req.Intent, req.Platform)

	if req.Tone != "" {
		fmt.Fprintf(&b, "\nTone: %s", req.Tone)
	}
	if req.CTA != "" {
		fmt.Fprintf(&b, "\nCTA: %s", req.CTA)
	}
	if req.ExtraContext != "" {
		fmt.Fprintf(&b, "\nAdditional Context: %s", req.ExtraContext)
	}

	return b.String()
}

const reviewSystemPrompt = "You are a social media quality reviewer. Be critical but constructive."

// buildReviewPrompt builds the round-1 review prompt over the drafted
// variations.
func buildReviewPrompt(variations []models.Variation) string {
	variationsJSON, _ := json.MarshalIndent(variations, "", "  ")

	return fmt.Sprintf(`Review these social media post variations and score each one. For any scoring below 8/10, provide specific improvements.

Evaluation criteria:
1. Brand consistency (voice, tone, messaging)
2. Message clarity and impact
3. CTA effectiveness
4. Text overlay readability (must be ≤8 words)
5. Platform optimization (LinkedIn vs Instagram norms)
6. Mobile readability

Posts to review:
%s`, string(variationsJSON))
}

const finalPassSystemPrompt = "You are a senior social media editor doing a final quality pass. Be concise."

// buildFinalPassPrompt builds the round-2 prompt over the already-improved
// variations.
func buildFinalPassPrompt(variations []models.Variation, brandVoice models.BrandVoice) string {
	variationsJSON, _ := json.MarshalIndent(variations, "", "  ")
	brandVoiceJSON, _ := json.Marshal(brandVoice)

	return fmt.Sprintf(`These posts were already improved once but some still score below 7. Do a final polish pass focusing on brand voice consistency, mobile readability, and CTA clarity.

Posts:
%s

Original brand voice: %s`, string(variationsJSON), string(brandVoiceJSON))
}
