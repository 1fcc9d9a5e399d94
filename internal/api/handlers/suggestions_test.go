package handlers

import (
	"bytes"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
)

func setupSuggestionsTestRouter() *gin.Engine {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.Use(gin.Recovery())

	handler := NewSuggestionsHandler(testConfig())
	router.POST("/api/v1/content/suggestions", handler.Suggest)

	return router
}

func TestSuggestionsHandler_RequiresBrandName(t *testing.T) {
	router := setupSuggestionsTestRouter()

	w := postJSON(router, "/api/v1/content/suggestions", map[string]any{
		"contentThemes": []string{"fitness"},
	})

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "brandName is required")
}

func TestSuggestionsHandler_RejectsInvalidJSON(t *testing.T) {
	router := setupSuggestionsTestRouter()

	req := httptest.NewRequest(http.MethodPost, "/api/v1/content/suggestions", bytes.NewReader([]byte("[]")))
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}
