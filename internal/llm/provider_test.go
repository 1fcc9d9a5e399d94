package llm

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestProviderFactory_GetProviderByModel(t *testing.T) {
	ctx := context.Background()
	factory := NewProviderFactory("openai-key", "gemini-key")

	tests := []struct {
		name         string
		model        string
		wantProvider string
	}{
		{name: "gemini flash", model: "gemini-2.5-flash", wantProvider: "gemini"},
		{name: "gemini pro", model: "gemini-2.5-pro", wantProvider: "gemini"},
		{name: "gpt mini", model: "gpt-5-mini", wantProvider: "openai"},
		{name: "gpt nano", model: "gpt-5-nano", wantProvider: "openai"},
		{name: "unknown model defaults to openai", model: "some-model", wantProvider: "openai"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			provider, err := factory.GetProvider(ctx, tt.model, "")
			require.NoError(t, err)
			assert.Equal(t, tt.wantProvider, provider.Name())
		})
	}
}

func TestProviderFactory_GetProviderByName(t *testing.T) {
	ctx := context.Background()
	factory := NewProviderFactory("openai-key", "gemini-key")

	provider, err := factory.GetProvider(ctx, "gemini-2.5-flash", "openai")
	require.NoError(t, err)
	assert.Equal(t, "openai", provider.Name())

	provider, err = factory.GetProvider(ctx, "gpt-5-mini", "gemini")
	require.NoError(t, err)
	assert.Equal(t, "gemini", provider.Name())

	_, err = factory.GetProvider(ctx, "gpt-5-mini", "anthropic")
	assert.Error(t, err)
}

func TestProviderFactory_MissingKeys(t *testing.T) {
	ctx := context.Background()

	factory := NewProviderFactory("", "gemini-key")
	_, err := factory.GetProvider(ctx, "gpt-5-mini", "")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "openai API key not configured")

	factory = NewProviderFactory("openai-key", "")
	_, err = factory.GetProvider(ctx, "gemini-2.5-flash", "")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "gemini API key not configured")
}

func TestClassifyError(t *testing.T) {
	assert.NoError(t, classifyError(nil))

	// Unrecognized errors pass through untouched
	plain := errors.New("connection reset")
	assert.Equal(t, plain, classifyError(plain))

	// insufficient_quota in the message maps to quota exceeded even
	// without a typed SDK error
	quota := fmt.Errorf("request failed: insufficient_quota, check billing")
	assert.ErrorIs(t, classifyError(quota), ErrQuotaExceeded)
}

func TestClassifyStatus(t *testing.T) {
	base := errors.New("provider rejected request")

	assert.ErrorIs(t, classifyStatus(429, base), ErrRateLimited)
	assert.ErrorIs(t, classifyStatus(402, base), ErrQuotaExceeded)
	assert.Equal(t, base, classifyStatus(500, base))

	// A 429 carrying insufficient_quota is billing, not throttling
	quota429 := errors.New("429: insufficient_quota")
	assert.ErrorIs(t, classifyStatus(429, quota429), ErrQuotaExceeded)
}
