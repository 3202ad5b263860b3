package registry

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/primis-labs/primis-backend/pkg/models"
	"github.com/primis-labs/primis-backend/pkg/provider"
)

type fakeInstanceProvider struct {
	name       string
	configured bool
	offerings  []models.GPUOffering
	err        error

	launched   *models.LaunchConfig
	stopErr    error
	terminated []string
}

func (f *fakeInstanceProvider) Name() string       { return f.name }
func (f *fakeInstanceProvider) IsConfigured() bool { return f.configured }

func (f *fakeInstanceProvider) GetHealth(_ context.Context) models.ProviderHealth {
	return models.ProviderHealth{Provider: f.name, Status: models.HealthHealthy, CheckedAt: time.Now()}
}

func (f *fakeInstanceProvider) GetGPUOfferings(_ context.Context) ([]models.GPUOffering, error) {
	return f.offerings, f.err
}

func (f *fakeInstanceProvider) LaunchInstance(_ context.Context, config models.LaunchConfig) (*models.Instance, error) {
	f.launched = &config
	return &models.Instance{ID: "i-1", Provider: f.name, Status: models.StatusPending}, nil
}

func (f *fakeInstanceProvider) GetInstance(_ context.Context, id string) (*models.Instance, error) {
	return &models.Instance{ID: id, Provider: f.name, Status: models.StatusRunning}, nil
}

func (f *fakeInstanceProvider) ListInstances(_ context.Context) ([]models.Instance, error) {
	return nil, nil
}

func (f *fakeInstanceProvider) StopInstance(_ context.Context, _ string) error { return f.stopErr }

func (f *fakeInstanceProvider) StartInstance(_ context.Context, _ string) error { return nil }

func (f *fakeInstanceProvider) TerminateInstance(_ context.Context, id string) error {
	f.terminated = append(f.terminated, id)
	return nil
}

type fakeServerlessProvider struct {
	name       string
	configured bool
	models     []models.ModelOffering
	err        error
	lastModel  string
}

func (f *fakeServerlessProvider) Name() string       { return f.name }
func (f *fakeServerlessProvider) IsConfigured() bool { return f.configured }

func (f *fakeServerlessProvider) GetHealth(_ context.Context) models.ProviderHealth {
	return models.ProviderHealth{Provider: f.name, Status: models.HealthHealthy, CheckedAt: time.Now()}
}

func (f *fakeServerlessProvider) GetModels(_ context.Context) ([]models.ModelOffering, error) {
	return f.models, f.err
}

func (f *fakeServerlessProvider) GenerateText(_ context.Context, model string, _ models.TextRequest) (*models.TextResult, error) {
	f.lastModel = model
	return &models.TextResult{Text: "ok"}, nil
}

func (f *fakeServerlessProvider) GenerateImage(_ context.Context, _ string, _ models.ImageRequest) (*models.ImageResult, error) {
	return &models.ImageResult{}, nil
}

func (f *fakeServerlessProvider) TranscribeAudio(_ context.Context, _ string, _ models.AudioRequest) (*models.AudioResult, error) {
	return &models.AudioResult{}, nil
}

func (f *fakeServerlessProvider) GenerateEmbedding(_ context.Context, _ string, _ models.EmbeddingRequest) (*models.EmbeddingResult, error) {
	return nil, &models.UnsupportedOperationError{Provider: f.name, Operation: "embeddings"}
}

func gpuOffering(p, gpu string, price float64) models.GPUOffering {
	return models.GPUOffering{
		ID:           provider.CanonicalID(p, gpu),
		Provider:     p,
		GPUType:      gpu,
		PricePerHour: price,
		Available:    true,
	}
}

func TestGetAllGPUOfferingsMergesAndSorts(t *testing.T) {
	r := New()
	r.RegisterInstanceProvider(&fakeInstanceProvider{name: "alpha", configured: true, offerings: []models.GPUOffering{
		gpuOffering("alpha", "RTX 4090", 0.44),
		gpuOffering("alpha", "A100 80GB", 1.89),
	}})
	r.RegisterInstanceProvider(&fakeInstanceProvider{name: "beta", configured: true, offerings: []models.GPUOffering{
		gpuOffering("beta", "RTX 4090", 0.31),
	}})

	got, err := r.GetAllGPUOfferings(context.Background())
	require.NoError(t, err)
	require.Len(t, got, 3)
	assert.Equal(t, 0.31, got[0].PricePerHour)
	assert.Equal(t, 0.44, got[1].PricePerHour)
	assert.Equal(t, 1.89, got[2].PricePerHour)
}

func TestGetAllGPUOfferingsSwallowsAdapterFailure(t *testing.T) {
	r := New()
	r.RegisterInstanceProvider(&fakeInstanceProvider{name: "alpha", configured: true, offerings: []models.GPUOffering{
		gpuOffering("alpha", "RTX 4090", 0.44),
		gpuOffering("alpha", "L40S", 0.79),
	}})
	r.RegisterInstanceProvider(&fakeInstanceProvider{name: "broken", configured: true, err: errors.New("upstream down")})
	r.RegisterInstanceProvider(&fakeInstanceProvider{name: "gamma", configured: true, offerings: []models.GPUOffering{
		gpuOffering("gamma", "H100", 2.49),
	}})

	got, err := r.GetAllGPUOfferings(context.Background())
	require.NoError(t, err)
	assert.Len(t, got, 3)
}

func TestUnconfiguredAdaptersStillAggregated(t *testing.T) {
	r := New()
	coming := gpuOffering("alpha", "RTX 4090", 0.44)
	coming.Available = false
	r.RegisterInstanceProvider(&fakeInstanceProvider{name: "alpha", configured: false, offerings: []models.GPUOffering{coming}})

	got, err := r.GetAllGPUOfferings(context.Background())
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.False(t, got[0].Available)
	assert.Empty(t, r.GetConfiguredInstanceProviders())
}

func TestGetAllProviderHealthDedupes(t *testing.T) {
	r := New()
	r.RegisterInstanceProvider(&fakeInstanceProvider{name: "alpha", configured: true})
	r.RegisterServerlessProvider(&fakeServerlessProvider{name: "alpha", configured: true})
	r.RegisterServerlessProvider(&fakeServerlessProvider{name: "beta", configured: true})

	got, err := r.GetAllProviderHealth(context.Background())
	require.NoError(t, err)
	assert.Len(t, got, 2)
}

func TestResolveLaunchTarget(t *testing.T) {
	alpha := &fakeInstanceProvider{name: "alpha", configured: true}
	beta := &fakeInstanceProvider{name: "beta", configured: true}
	r := New()
	r.RegisterInstanceProvider(alpha)
	r.RegisterInstanceProvider(beta)

	// explicit offering id wins
	_, err := r.LaunchInstance(context.Background(), models.LaunchConfig{OfferingID: "beta-rtx-4090"}, models.LaunchOptions{PreferredProvider: "alpha"})
	require.NoError(t, err)
	assert.NotNil(t, beta.launched)
	assert.Nil(t, alpha.launched)

	// preferred provider next
	beta.launched = nil
	_, err = r.LaunchInstance(context.Background(), models.LaunchConfig{GPUType: "RTX 4090"}, models.LaunchOptions{PreferredProvider: "beta"})
	require.NoError(t, err)
	assert.NotNil(t, beta.launched)

	// falls back to the first configured provider
	beta.launched = nil
	_, err = r.LaunchInstance(context.Background(), models.LaunchConfig{GPUType: "RTX 4090"}, models.LaunchOptions{})
	require.NoError(t, err)
	assert.NotNil(t, alpha.launched)
}

func TestLaunchFailsWithoutConfiguredProvider(t *testing.T) {
	r := New()
	r.RegisterInstanceProvider(&fakeInstanceProvider{name: "alpha", configured: false})

	_, err := r.LaunchInstance(context.Background(), models.LaunchConfig{GPUType: "RTX 4090"}, models.LaunchOptions{})
	assert.Error(t, err)
}

func TestServerlessDispatchByModelID(t *testing.T) {
	sp := &fakeServerlessProvider{name: "together", configured: true}
	r := New()
	r.RegisterServerlessProvider(sp)

	res, err := r.GenerateText(context.Background(), "together-llama-3-1-70b-instruct", models.TextRequest{Prompt: "hi"})
	require.NoError(t, err)
	assert.Equal(t, "ok", res.Text)
	assert.Equal(t, "llama-3-1-70b-instruct", sp.lastModel)

	_, err = r.GenerateText(context.Background(), "nowhere-model", models.TextRequest{})
	var unknown *models.UnknownProviderError
	assert.ErrorAs(t, err, &unknown)

	_, err = r.GenerateEmbedding(context.Background(), "together-llama-3-1-70b-instruct", models.EmbeddingRequest{})
	var unsupported *models.UnsupportedOperationError
	assert.ErrorAs(t, err, &unsupported)
}

func TestUnconfiguredServerlessRejectsTargetedCalls(t *testing.T) {
	r := New()
	r.RegisterServerlessProvider(&fakeServerlessProvider{name: "together", configured: false})

	_, err := r.GenerateText(context.Background(), "together-llama-3-1-70b-instruct", models.TextRequest{})
	var confErr *models.ConfigurationError
	assert.ErrorAs(t, err, &confErr)
}
