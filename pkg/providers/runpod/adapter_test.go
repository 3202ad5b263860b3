package runpod

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
	require.False(t, a.IsConfigured())

	offerings, err := a.GetGPUOfferings(context.Background())
	require.NoError(t, err)
	require.NotEmpty(t, offerings)
	for _, o := range offerings {
		assert.False(t, o.Available)
		assert.Equal(t, Name, o.Provider)
		assert.NotEmpty(t, o.ID)
	}

	modelOfferings, err := a.GetModels(context.Background())
	require.NoError(t, err)
	for _, m := range modelOfferings {
		assert.False(t, m.Available)
	}
}

func TestUnconfiguredRejectsTargetedOperations(t *testing.T) {
	a := New(Config{})

	var confErr *models.ConfigurationError
	_, err := a.LaunchInstance(context.Background(), models.LaunchConfig{GPUType: "NVIDIA RTX 4090"})
	require.ErrorAs(t, err, &confErr)

	err = a.StopInstance(context.Background(), "pod-1")
	require.ErrorAs(t, err, &confErr)
}

func TestGetGPUOfferingsMapsVendorResponse(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/gputypes", r.URL.Path)
		assert.Equal(t, "Bearer test-key", r.Header.Get("Authorization"))
		_ = json.NewEncoder(w).Encode([]gpuTypeResp{
			{ID: "NVIDIA GeForce RTX 4090", DisplayName: "NVIDIA RTX 4090", MemoryInGb: 24,
				SecurePrice: 0.54, CommunityPrice: 0.44, StockStatus: "High"},
			{ID: "zero-priced", DisplayName: "Free GPU", MemoryInGb: 8},
		})
	}))
	defer server.Close()

	a := New(Config{APIKey: "test-key", BaseURL: server.URL})
	offerings, err := a.GetGPUOfferings(context.Background())
	require.NoError(t, err)
	require.Len(t, offerings, 1) // zero-priced entries are dropped

	o := offerings[0]
	assert.Equal(t, "runpod-rtx-4090", o.ID)
	assert.Equal(t, 0.44, o.PricePerHour) // community price wins when cheaper
	assert.True(t, o.Available)
	assert.Equal(t, 36, o.SavingsPct) // vs the curated 0.69 market price
}

func TestGetGPUOfferingsPropagatesUpstreamError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer server.Close()

	a := New(Config{APIKey: "test-key", BaseURL: server.URL})
	_, err := a.GetGPUOfferings(context.Background())

	var upstream *models.UpstreamError
	require.ErrorAs(t, err, &upstream)
	assert.Equal(t, http.StatusBadGateway, upstream.StatusCode)
}

func TestMapPodStatus(t *testing.T) {
	assert.Equal(t, models.StatusRunning, mapPodStatus("RUNNING"))
	assert.Equal(t, models.StatusStopped, mapPodStatus("EXITED"))
	assert.Equal(t, models.StatusTerminated, mapPodStatus("DEAD"))
	assert.Equal(t, models.StatusPending, mapPodStatus("CREATED"))
	assert.Equal(t, models.StatusError, mapPodStatus("FAILED"))
	assert.Equal(t, models.StatusDegraded, mapPodStatus("something-new"))
}

func TestEmbeddingUnsupported(t *testing.T) {
	a := New(Config{APIKey: "test-key"})
	_, err := a.GenerateEmbedding(context.Background(), "llama-3-1-8b-instruct", models.EmbeddingRequest{})

	var unsupported *models.UnsupportedOperationError
	assert.ErrorAs(t, err, &unsupported)
}
