package insight

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"inventory-service/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testItems() []models.InventoryItem {
	return []models.InventoryItem{
		{ID: "1", SKU: "G-1", Name: "Gula", Quantity: 3, ReorderLevel: 5, Price: 15000},
		{ID: "2", SKU: "K-1", Name: "Kopi", Quantity: 20, ReorderLevel: 5, Price: 40000},
	}
}

func TestBuildPrompt(t *testing.T) {
	prompt := BuildPrompt(testItems())

	assert.Contains(t, prompt, "Total item: 2")
	assert.Contains(t, prompt, "Gula")
	assert.NotContains(t, prompt, "Kopi", "healthy items are not listed as low stock")
	assert.Contains(t, prompt, "wawasan strategis")
}

func TestGenerateSuccess(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "test-key", r.Header.Get("x-goog-api-key"))
		require.Contains(t, r.URL.Path, "models/test-model:generateContent")

		var req generateRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		require.NotEmpty(t, req.Contents)
		assert.Equal(t, 0.7, req.GenerationConfig.Temperature)

		w.Write([]byte(`{"candidates":[{"content":{"parts":[{"text":"Restok Gula segera."}]}}]}`))
	}))
	defer srv.Close()

	c := NewClient("test-key", "test-model").WithEndpoint(srv.URL)
	got := c.Generate(context.Background(), testItems())

	assert.Equal(t, "Restok Gula segera.", got)
}

func TestGenerateFallbackOnError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
	}))
	defer srv.Close()

	c := NewClient("test-key", "test-model").WithEndpoint(srv.URL)
	assert.Equal(t, Fallback, c.Generate(context.Background(), testItems()))
}

func TestGenerateFallbackWithoutKey(t *testing.T) {
	c := NewClient("", "test-model")
	assert.Equal(t, Fallback, c.Generate(context.Background(), testItems()))
}

func TestGenerateFallbackOnEmptyCandidates(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"candidates":[]}`))
	}))
	defer srv.Close()

	c := NewClient("test-key", "test-model").WithEndpoint(srv.URL)
	assert.Equal(t, Fallback, c.Generate(context.Background(), testItems()))
}
