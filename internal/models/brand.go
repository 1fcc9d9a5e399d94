package models

// BrandVoice captures how a brand writes. Every field is optional; a zero
// value marshals to an empty object so prompts always get valid JSON.
type BrandVoice struct {
	Tone          string   `json:"tone,omitempty"`          // e.g. professional, playful, authoritative
	Formality     string   `json:"formality,omitempty"`     // very_formal, formal, neutral, casual, very_casual
	EmojiUsage    string   `json:"emojiUsage,omitempty"`    // none, minimal, moderate, heavy
	CTAStyle      string   `json:"ctaStyle,omitempty"`      // how CTAs are typically phrased
	KeyPhrases    []string `json:"keyPhrases,omitempty"`    // recurring phrases or patterns
	ContentThemes []string `json:"contentThemes,omitempty"` // main topics and themes
}

// VisualIdentity captures how a brand looks. All fields optional.
type VisualIdentity struct {
	PrimaryColors    []string `json:"primaryColors,omitempty"` // main brand colors as hex codes
	Style            string   `json:"style,omitempty"`         // e.g. modern, minimalist, bold
	ImageStyle       string   `json:"imageStyle,omitempty"`    // preferred image style for social media
	LayoutPreference string   `json:"layoutPreference,omitempty"`
}

// BrandProfile is the result of analyzing brand materials
type BrandProfile struct {
	BrandVoice     BrandVoice     `json:"brandVoice"`
	VisualIdentity VisualIdentity `json:"visualIdentity"`
	Summary        string         `json:"summary"`
}
