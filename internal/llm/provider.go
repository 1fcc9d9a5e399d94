package llm

import (
	"context"
)

// Provider defines the interface for LLM providers
// All providers MUST support structured output (JSON Schema) for reliable
// response parsing - the generation pipeline never parses free text.
type Provider interface {
	// Generate runs one completion with forced structured output.
	// The provider MUST enforce the OutputSchema so RawOutput is valid JSON
	// matching the schema, or return an error.
	Generate(ctx context.Context, request *GenerationRequest) (*GenerationResponse, error)

	// Name returns the provider name (e.g., "openai", "gemini")
	Name() string
}

// GenerationRequest contains all parameters needed for one structured call
type GenerationRequest struct {
	Model        string
	SystemPrompt string
	InputArray   []map[string]any
	// Structured output schema - REQUIRED for reliable JSON parsing
	OutputSchema *OutputSchema
}

// OutputSchema defines the expected JSON output structure
type OutputSchema struct {
	Name        string
	Description string
	Schema      map[string]any // JSON Schema object
}

// Usage holds token counts for one call, normalized across providers
type Usage struct {
	InputTokens  int `json:"input_tokens"`
	OutputTokens int `json:"output_tokens"`
	TotalTokens  int `json:"total_tokens"`
}

// GenerationResponse contains the result from the LLM
type GenerationResponse struct {
	RawOutput string `json:"-"` // JSON text satisfying the request schema
	Usage     Usage  `json:"usage"`
}
