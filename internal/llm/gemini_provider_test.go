package llm

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/genai"
)

func TestGeminiProvider_BuildGeminiContents(t *testing.T) {
	p := &GeminiProvider{}

	contents := p.buildGeminiContents([]map[string]any{
		{"role": "developer", "content": "context block"},
		{"role": "user", "content": "the request"},
		{"role": "user"}, // missing content, skipped
	})

	require.Len(t, contents, 2)
	assert.Equal(t, "user", contents[0].Role)
	assert.Equal(t, "context block", contents[0].Parts[0].Text)
	assert.Equal(t, "user", contents[1].Role)
	assert.Equal(t, "the request", contents[1].Parts[0].Text)
}

func TestConvertSchemaToGemini(t *testing.T) {
	schema := GetPostReviewSchema()

	converted := convertSchemaToGemini(schema.Schema)
	require.NotNil(t, converted)
	assert.Equal(t, genai.TypeObject, converted.Type)
	assert.Equal(t, []string{"reviews"}, converted.Required)

	reviews, ok := converted.Properties["reviews"]
	require.True(t, ok)
	assert.Equal(t, genai.TypeArray, reviews.Type)

	item := reviews.Items
	require.NotNil(t, item)
	assert.Equal(t, genai.TypeObject, item.Type)
	assert.Equal(t, genai.TypeInteger, item.Properties["index"].Type)
	assert.Equal(t, genai.TypeNumber, item.Properties["score"].Type)
	assert.Equal(t, genai.TypeString, item.Properties["feedback"].Type)
	assert.Contains(t, item.Required, "improvedCaption")
}

func TestConvertSchemaToGemini_Enums(t *testing.T) {
	schema := map[string]any{
		"type": "object",
		"properties": map[string]any{
			"platform": map[string]any{
				"type": "string",
				"enum": []string{"linkedin", "instagram"},
			},
		},
		"required": []string{"platform"},
	}

	converted := convertSchemaToGemini(schema)
	require.NotNil(t, converted.Properties["platform"])
	assert.Equal(t, []string{"linkedin", "instagram"}, converted.Properties["platform"].Enum)
}

func TestConvertSchemaToGemini_DefaultsToString(t *testing.T) {
	converted := convertSchemaToGemini(map[string]any{})
	assert.Equal(t, genai.TypeString, converted.Type)
}
