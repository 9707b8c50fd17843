package linkstore

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lueurxax/mention-bot/internal/plugin"
)

func sampleData() *plugin.StorableData {
	return &plugin.StorableData{
		Title:    "Will the Fed cut rates?",
		Subtitle: "Economics · Resolves 2026-12-31",
		PrimaryItem: &plugin.PrimaryItem{
			Name:   "YES",
			Price:  "65%",
			Rating: 0.65,
		},
		SecondaryItem: &plugin.SecondaryItem{
			Title: "$2,400 volume",
			Price: "34 traders",
		},
		ActionURL: "https://example.com/r/mkt-abc12345",
	}
}

func TestPublish_Success(t *testing.T) {
	var got map[string]any

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/recommendations", r.URL.Path)
		assert.Equal(t, http.MethodPost, r.Method)

		require.NoError(t, json.NewDecoder(r.Body).Decode(&got))

		_, _ = w.Write([]byte(`{"url":"https://example.com/rec/short1"}`))
	}))
	defer srv.Close()

	logger := zerolog.Nop()
	client := NewClient(srv.URL, &logger)

	url := client.Publish(context.Background(), sampleData())
	assert.Equal(t, "https://example.com/rec/short1", url)

	assert.Equal(t, "Will the Fed cut rates?", got["destination"])
	assert.Equal(t, "https://example.com/r/mkt-abc12345", got["searchUrl"])

	hotel := got["hotel"].(map[string]any)
	assert.Equal(t, "YES", hotel["name"])
	assert.Equal(t, "65%", hotel["price"])
	assert.InDelta(t, 0.65, hotel["rating"], 0.001)

	activity := got["activity"].(map[string]any)
	assert.Equal(t, "$2,400 volume", activity["title"])
	assert.Equal(t, "34 traders", activity["price"])
}

func TestPublish_ServerErrorFallsBack(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srv.Close()

	logger := zerolog.Nop()
	client := NewClient(srv.URL, &logger)

	url := client.Publish(context.Background(), sampleData())
	assert.Equal(t, "https://example.com/r/mkt-abc12345", url)
}

func TestPublish_MissingURLFallsBack(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`{}`))
	}))
	defer srv.Close()

	logger := zerolog.Nop()
	client := NewClient(srv.URL, &logger)

	url := client.Publish(context.Background(), sampleData())
	assert.Equal(t, "https://example.com/r/mkt-abc12345", url)
}

func TestPublish_NoWebsiteConfigured(t *testing.T) {
	logger := zerolog.Nop()
	client := NewClient("", &logger)

	url := client.Publish(context.Background(), sampleData())
	assert.Equal(t, "https://example.com/r/mkt-abc12345", url)
}

func TestPublish_NilData(t *testing.T) {
	logger := zerolog.Nop()
	client := NewClient("https://example.com", &logger)

	assert.Empty(t, client.Publish(context.Background(), nil))
}
