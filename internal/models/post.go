package models

// Platform identifies the social network a post targets
type Platform string

const (
	PlatformLinkedIn  Platform = "linkedin"
	PlatformInstagram Platform = "instagram"
	PlatformBoth      Platform = "both" // request-only: draft for both networks
)

// Format identifies the post shape
type Format string

const (
	FormatSingle   Format = "single"
	FormatCarousel Format = "carousel"
	FormatStory    Format = "story"
)

// GenerationRequest is the input to the post-generation pipeline.
// All state is transient - nothing here survives the request.
type GenerationRequest struct {
	Intent         string         `json:"intent"`
	Platform       Platform       `json:"platform"`
	Tone           string         `json:"tone,omitempty"`
	CTA            string         `json:"cta,omitempty"`
	ExtraContext   string         `json:"extraContext,omitempty"`
	BrandVoice     BrandVoice     `json:"brandVoice,omitempty"`
	VisualIdentity VisualIdentity `json:"visualIdentity,omitempty"`
	VariationCount int            `json:"variationCount,omitempty"`
	Formats        []Format       `json:"formats,omitempty"`

	// Both set together switch the pipeline into iteration mode: revise an
	// existing post per user feedback instead of drafting fresh from intent.
	ExistingCaption string `json:"existingCaption,omitempty"`
	UserFeedback    string `json:"userFeedback,omitempty"`

	// Optional model override, validated by the handler
	Model string `json:"model,omitempty"`
}

// IsIteration reports whether the request asks for a rewrite of an existing
// caption rather than a fresh draft.
func (r *GenerationRequest) IsIteration() bool {
	return r.ExistingCaption != "" && r.UserFeedback != ""
}

// CarouselSlide is one slide of a carousel post
type CarouselSlide struct {
	TextOverlay string `json:"textOverlay"`
}

// Variation is one candidate post. It is created by the draft stage and its
// caption/textOverlay may be replaced wholesale by either review round.
// The array index is its only identity across the pipeline.
type Variation struct {
	Platform       Platform        `json:"platform"`
	Format         Format          `json:"format"`
	Caption        string          `json:"caption"`
	TextOverlay    string          `json:"textOverlay"` // prompt asks for <=8 words; not enforced in code
	ImagePrompt    string          `json:"imagePrompt"`
	CTAText        string          `json:"ctaText"`
	CarouselSlides []CarouselSlide `json:"carouselSlides,omitempty"` // carousel format only
}

// ReviewRecord is one scored review of a variation, keyed by variation index.
// Scores are expected in 0-10 but are taken from the model as-is.
type ReviewRecord struct {
	Index               int     `json:"index"`
	Score               float64 `json:"score"`
	Feedback            string  `json:"feedback"`
	ImprovedCaption     string  `json:"improvedCaption"`
	ImprovedTextOverlay string  `json:"improvedTextOverlay"`
}

// GenerationResult is the pipeline output: final variations plus the feedback
// trail (round-1 records, each possibly merged with a round-2 record).
type GenerationResult struct {
	Variations []Variation    `json:"variations"`
	Feedback   []ReviewRecord `json:"feedback"`
}
