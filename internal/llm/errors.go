package llm

import (
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/openai/openai-go"
	"google.golang.org/genai"
)

// Sentinel errors for provider failures that must reach the caller
// unaltered. Neither is retried anywhere in this service - retry policy
// belongs to the client.
var (
	// ErrRateLimited is a provider HTTP 429
	ErrRateLimited = errors.New("rate limited")
	// ErrQuotaExceeded is a provider quota/billing rejection (HTTP 402 or
	// an insufficient_quota 429)
	ErrQuotaExceeded = errors.New("usage limit reached")
)

// classifyError wraps provider SDK errors with the matching sentinel so
// handlers can map them to 429/402 via errors.Is. Anything unrecognized is
// returned as-is and surfaces as a 500.
func classifyError(err error) error {
	if err == nil {
		return nil
	}

	var openaiErr *openai.Error
	if errors.As(err, &openaiErr) {
		return classifyStatus(openaiErr.StatusCode, err)
	}

	var geminiErr genai.APIError
	if errors.As(err, &geminiErr) {
		return classifyStatus(geminiErr.Code, err)
	}

	// Some gateways report quota exhaustion inside a 429 body
	if strings.Contains(err.Error(), "insufficient_quota") {
		return fmt.Errorf("%w: %v", ErrQuotaExceeded, err)
	}

	return err
}

func classifyStatus(status int, err error) error {
	switch status {
	case http.StatusTooManyRequests:
		if strings.Contains(err.Error(), "insufficient_quota") {
			return fmt.Errorf("%w: %v", ErrQuotaExceeded, err)
		}
		return fmt.Errorf("%w: %v", ErrRateLimited, err)
	case http.StatusPaymentRequired:
		return fmt.Errorf("%w: %v", ErrQuotaExceeded, err)
	default:
		return err
	}
}
