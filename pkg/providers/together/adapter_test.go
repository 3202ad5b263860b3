package together

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/primis-labs/primis-backend/pkg/models"
)

func TestUnconfiguredServesStaticCatalog(t *testing.T) {
	a := New(Config{})

	offerings, err := a.GetModels(context.Background())
	require.NoError(t, err)
	require.NotEmpty(t, offerings)
	for _, m := range offerings {
		assert.False(t, m.Available)
		assert.Equal(t, Name, m.Provider)
	}
}

func TestGetModelsMapsLiveList(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/models", r.URL.Path)
		_ = json.NewEncoder(w).Encode([]modelResp{
			{ID: "meta-llama/Meta-Llama-3.1-8B-Instruct-Turbo", DisplayName: "Llama 3.1 8B Instruct Turbo",
				Type: "chat", ContextLength: 131072},
			{ID: "some/rerank-model", Type: "rerank"},
		})
	}))
	defer server.Close()

	a := New(Config{APIKey: "test-key", BaseURL: server.URL})
	offerings, err := a.GetModels(context.Background())
	require.NoError(t, err)
	require.Len(t, offerings, 1) // unmapped model types are skipped

	m := offerings[0]
	assert.Equal(t, "together-llama-3-1-8b-instruct-turbo", m.ID)
	assert.Equal(t, models.CategoryText, m.Category)
	assert.True(t, m.Available)
	assert.True(t, m.Streaming)
}

func TestGenerateTextAgainstVendor(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/models":
			_ = json.NewEncoder(w).Encode([]modelResp{
				{ID: "meta-llama/Meta-Llama-3.1-8B-Instruct-Turbo", DisplayName: "Llama 3.1 8B Instruct Turbo", Type: "chat"},
			})
		case "/chat/completions":
			var body chatReq
			require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
			assert.Equal(t, "meta-llama/Meta-Llama-3.1-8B-Instruct-Turbo", body.Model)
			_ = json.NewEncoder(w).Encode(chatResp{
				Choices: []struct {
					Message      chatMessage `json:"message"`
					FinishReason string      `json:"finish_reason"`
				}{{Message: chatMessage{Role: "assistant", Content: "hello"}, FinishReason: "stop"}},
			})
		default:
			w.WriteHeader(http.StatusNotFound)
		}
	}))
	defer server.Close()

	a := New(Config{APIKey: "test-key", BaseURL: server.URL})
	result, err := a.GenerateText(context.Background(), "llama-3-1-8b-instruct-turbo", models.TextRequest{Prompt: "hi"})
	require.NoError(t, err)
	assert.Equal(t, "hello", result.Text)
	assert.Equal(t, "stop", result.FinishReason)
}

func TestCategoryMismatchIsUnsupported(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_ = json.NewEncoder(w).Encode([]modelResp{
			{ID: "black-forest-labs/FLUX.1-schnell", DisplayName: "FLUX.1 schnell", Type: "image"},
		})
	}))
	defer server.Close()

	a := New(Config{APIKey: "test-key", BaseURL: server.URL})
	_, err := a.GenerateText(context.Background(), "flux-1-schnell", models.TextRequest{Prompt: "hi"})

	var unsupported *models.UnsupportedOperationError
	assert.ErrorAs(t, err, &unsupported)
}

func TestTranscriptionUnsupported(t *testing.T) {
	a := New(Config{APIKey: "test-key"})
	_, err := a.TranscribeAudio(context.Background(), "whisper-large-v3", models.AudioRequest{})

	var unsupported *models.UnsupportedOperationError
	assert.ErrorAs(t, err, &unsupported)
}

func TestUnconfiguredRejectsGeneration(t *testing.T) {
	a := New(Config{})
	_, err := a.GenerateText(context.Background(), "llama-3-1-8b-instruct-turbo", models.TextRequest{})

	var confErr *models.ConfigurationError
	assert.ErrorAs(t, err, &confErr)
}
