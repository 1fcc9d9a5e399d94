package llm

// GetPostVariationsSchema returns the structured output schema for the draft
// stage. The model returns an envelope with a "variations" array so providers
// that require a top-level object (all of them) can enforce it.
func GetPostVariationsSchema() *OutputSchema {
	return &OutputSchema{
		Name:        "create_post_variations",
		Description: "Create social media post variations for the requested platforms and formats",
		Schema: map[string]any{
			"type": "object",
			"properties": map[string]any{
				"variations": map[string]any{
					"type":        "array",
					"description": "The generated post variations, one object per variation",
					"items": map[string]any{
						"type": "object",
						"properties": map[string]any{
							"platform": map[string]any{
								"type": "string",
								"enum": []string{"linkedin", "instagram"},
							},
							"format": map[string]any{
								"type": "string",
								"enum": []string{"single", "carousel", "story"},
							},
							"caption": map[string]any{
								"type":        "string",
								"description": "The full post caption text",
							},
							"textOverlay": map[string]any{
								"type":        "string",
								"description": "Short text to overlay on the image, 8 words max",
							},
							"imagePrompt": map[string]any{
								"type":        "string",
								"description": "A detailed image generation prompt matching the brand's visual identity",
							},
							"ctaText": map[string]any{
								"type":        "string",
								"description": "Call-to-action text",
							},
							"carouselSlides": map[string]any{
								"type":        "array",
								"description": "For carousel format only: 3-5 slides",
								"items": map[string]any{
									"type": "object",
									"properties": map[string]any{
										"textOverlay": map[string]any{
											"type": "string",
										},
									},
									"required":             []string{"textOverlay"},
									"additionalProperties": false,
								},
							},
						},
						"required":             []string{"platform", "format", "caption", "textOverlay", "imagePrompt", "ctaText", "carouselSlides"},
						"additionalProperties": false,
					},
				},
			},
			"required":             []string{"variations"},
			"additionalProperties": false,
		},
	}
}

// GetPostReviewSchema returns the structured output schema shared by both
// review rounds. Each record is keyed to a variation by index.
func GetPostReviewSchema() *OutputSchema {
	return &OutputSchema{
		Name:        "review_posts",
		Description: "Score each post variation and suggest improvements",
		Schema: map[string]any{
			"type": "object",
			"properties": map[string]any{
				"reviews": map[string]any{
					"type":        "array",
					"description": "One review per variation, in the same order",
					"items": map[string]any{
						"type": "object",
						"properties": map[string]any{
							"index": map[string]any{
								"type":        "integer",
								"description": "Zero-based index of the variation being reviewed",
							},
							"score": map[string]any{
								"type":        "number",
								"description": "Quality score from 0 to 10",
							},
							"feedback": map[string]any{
								"type":        "string",
								"description": "Specific critique of the variation",
							},
							"improvedCaption": map[string]any{
								"type":        "string",
								"description": "A rewritten caption addressing the critique. Empty string if no rewrite is needed.",
							},
							"improvedTextOverlay": map[string]any{
								"type":        "string",
								"description": "A rewritten text overlay. Empty string if no rewrite is needed.",
							},
						},
						"required":             []string{"index", "score", "feedback", "improvedCaption", "improvedTextOverlay"},
						"additionalProperties": false,
					},
				},
			},
			"required":             []string{"reviews"},
			"additionalProperties": false,
		},
	}
}

// GetBrandProfileSchema returns the structured output schema for brand
// analysis.
func GetBrandProfileSchema() *OutputSchema {
	return &OutputSchema{
		Name:        "extract_brand_profile",
		Description: "Extract brand voice and visual identity characteristics",
		Schema: map[string]any{
			"type": "object",
			"properties": map[string]any{
				"brandVoice": map[string]any{
					"type": "object",
					"properties": map[string]any{
						"tone": map[string]any{
							"type":        "string",
							"description": "e.g. professional, playful, authoritative",
						},
						"formality": map[string]any{
							"type": "string",
							"enum": []string{"very_formal", "formal", "neutral", "casual", "very_casual"},
						},
						"emojiUsage": map[string]any{
							"type": "string",
							"enum": []string{"none", "minimal", "moderate", "heavy"},
						},
						"ctaStyle": map[string]any{
							"type":        "string",
							"description": "How the brand phrases calls to action",
						},
						"keyPhrases": map[string]any{
							"type":  "array",
							"items": map[string]any{"type": "string"},
						},
						"contentThemes": map[string]any{
							"type":  "array",
							"items": map[string]any{"type": "string"},
						},
					},
					"required":             []string{"tone", "formality", "emojiUsage", "ctaStyle", "keyPhrases", "contentThemes"},
					"additionalProperties": false,
				},
				"visualIdentity": map[string]any{
					"type": "object",
					"properties": map[string]any{
						"primaryColors": map[string]any{
							"type":        "array",
							"description": "Hex color codes",
							"items":       map[string]any{"type": "string"},
						},
						"style": map[string]any{
							"type":        "string",
							"description": "Overall visual style description",
						},
						"imageStyle": map[string]any{
							"type":        "string",
							"description": "Photography/illustration style for generated images",
						},
						"layoutPreference": map[string]any{
							"type": "string",
						},
					},
					"required":             []string{"primaryColors", "style", "imageStyle", "layoutPreference"},
					"additionalProperties": false,
				},
				"summary": map[string]any{
					"type":        "string",
					"description": "One-paragraph summary of the brand",
				},
			},
			"required":             []string{"brandVoice", "visualIdentity", "summary"},
			"additionalProperties": false,
		},
	}
}

// GetContentSuggestionsSchema returns the structured output schema for
// content suggestions.
func GetContentSuggestionsSchema() *OutputSchema {
	return &OutputSchema{
		Name:        "suggest_content",
		Description: "Suggest post ideas tailored to the brand",
		Schema: map[string]any{
			"type": "object",
			"properties": map[string]any{
				"suggestions": map[string]any{
					"type": "array",
					"items": map[string]any{
						"type": "object",
						"properties": map[string]any{
							"title": map[string]any{
								"type":        "string",
								"description": "Short headline for the idea",
							},
							"intent": map[string]any{
								"type":        "string",
								"description": "Ready-to-use intent text for the generation pipeline",
							},
							"platform": map[string]any{
								"type": "string",
								"enum": []string{"linkedin", "instagram", "both"},
							},
							"category": map[string]any{
								"type": "string",
								"enum": []string{"trending", "evergreen", "engagement", "promotion"},
							},
							"urgency": map[string]any{
								"type": "string",
								"enum": []string{"now", "this_week", "this_month", "anytime"},
							},
							"reasoning": map[string]any{
								"type":        "string",
								"description": "Why this idea fits the brand right now",
							},
						},
						"required":             []string{"title", "intent", "platform", "category", "urgency", "reasoning"},
						"additionalProperties": false,
					},
				},
			},
			"required":             []string{"suggestions"},
			"additionalProperties": false,
		},
	}
}
