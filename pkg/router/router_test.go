package router

import (
	"context"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/primis-labs/primis-backend/pkg/models"
	"github.com/primis-labs/primis-backend/pkg/provider"
)

type fakeSource struct {
	gpus         []models.GPUOffering
	modelList    []models.ModelOffering
	health       []models.ProviderHealth
	gpuFetches   atomic.Int32
	modelFetches atomic.Int32
}

func (f *fakeSource) GetAllGPUOfferings(_ context.Context) ([]models.GPUOffering, error) {
	f.gpuFetches.Add(1)
	return f.gpus, nil
}

func (f *fakeSource) GetAllModelOfferings(_ context.Context) ([]models.ModelOffering, error) {
	f.modelFetches.Add(1)
	return f.modelList, nil
}

func (f *fakeSource) GetAllProviderHealth(_ context.Context) ([]models.ProviderHealth, error) {
	return f.health, nil
}

func gpu(p, gpuType string, vram int, price, market float64) models.GPUOffering {
	return models.GPUOffering{
		ID:           provider.CanonicalID(p, gpuType),
		Provider:     p,
		GPUType:      gpuType,
		VRAMGb:       vram,
		GPUCount:     1,
		PricePerHour: price,
		MarketPrice:  market,
		Available:    true,
		Reliability:  0.9,
		SavingsPct:   provider.CalculateSavings(price, market),
	}
}

func fixtureSource() *fakeSource {
	return &fakeSource{
		gpus: []models.GPUOffering{
			gpu("alpha", "RTX 3060", 12, 0.12, 0.20),
			gpu("alpha", "RTX 4090", 24, 0.44, 0.70),
			gpu("alpha", "A100 80GB", 80, 1.89, 2.40),
			gpu("beta", "RTX 3080", 10, 0.18, 0.30),
			gpu("beta", "RTX 4090", 24, 0.31, 0.70),
			gpu("beta", "L40S", 48, 0.79, 1.10),
			gpu("gamma", "RTX A4000", 16, 0.17, 0.25),
			gpu("gamma", "H100 SXM", 80, 2.49, 3.20),
		},
		health: []models.ProviderHealth{
			{Provider: "alpha", Status: models.HealthHealthy},
			{Provider: "beta", Status: models.HealthHealthy},
			{Provider: "gamma", Status: models.HealthDegraded},
		},
	}
}

func TestCheapestScenarioFixture(t *testing.T) {
	r := New(fixtureSource())
	result, err := r.GetGPURecommendations(context.Background(), GPURequirements{
		MinVRAMGb: 24,
		Strategy:  "cheapest",
		Limit:     5,
	})
	require.NoError(t, err)

	// 8 GPUs in the fixture, 3 below 24GB
	require.Len(t, result.Recommendations, 5)
	for _, rec := range result.Recommendations {
		assert.GreaterOrEqual(t, rec.VRAMGb, 24)
	}
	for i := 1; i < len(result.Recommendations); i++ {
		assert.GreaterOrEqual(t, result.Recommendations[i-1].Score, result.Recommendations[i].Score)
	}
	// cheapest strategy puts the $0.31 4090 first
	assert.Equal(t, "beta-rtx-4090", result.Recommendations[0].ID)
}

func TestExactlyOneRecommendedFlag(t *testing.T) {
	r := New(fixtureSource())
	result, err := r.GetGPURecommendations(context.Background(), GPURequirements{Strategy: "balanced", Limit: 8})
	require.NoError(t, err)
	require.NotEmpty(t, result.Recommendations)

	flagged := 0
	for i, rec := range result.Recommendations {
		if rec.IsRecommended {
			flagged++
			assert.Equal(t, 0, i)
		}
	}
	assert.Equal(t, 1, flagged)
}

func TestUnavailableScoresZeroAvailability(t *testing.T) {
	health := map[string]models.HealthStatus{"alpha": models.HealthHealthy}
	// unavailable beats provider health, which otherwise would score 1.0
	assert.Zero(t, scoreAvailability(false, health, "alpha"))
	assert.Equal(t, 1.0, scoreAvailability(true, health, "alpha"))
	assert.Equal(t, 0.5, scoreAvailability(true, health, "never-probed"))

	// availability-heavy strategy ranks an unavailable twin last
	src := &fakeSource{
		gpus: []models.GPUOffering{
			gpu("alpha", "RTX 4090", 24, 0.40, 0.70),
			gpu("beta", "RTX 4090", 24, 0.40, 0.70),
		},
		health: []models.ProviderHealth{
			{Provider: "alpha", Status: models.HealthHealthy},
			{Provider: "beta", Status: models.HealthHealthy},
		},
	}
	src.gpus[0].Available = false
	r := New(src)
	result, err := r.GetGPURecommendations(context.Background(), GPURequirements{Strategy: "fastest"})
	require.NoError(t, err)
	require.Len(t, result.Recommendations, 2)
	assert.Equal(t, "beta", result.Recommendations[0].Provider)
}

func TestPreferredProviderBoost(t *testing.T) {
	// two identical offerings from different providers
	src := &fakeSource{
		gpus: []models.GPUOffering{
			gpu("alpha", "RTX 4090", 24, 0.40, 0.70),
			gpu("beta", "RTX 4090", 24, 0.40, 0.70),
		},
		health: []models.ProviderHealth{
			{Provider: "alpha", Status: models.HealthHealthy},
			{Provider: "beta", Status: models.HealthHealthy},
		},
	}
	r := New(src)
	result, err := r.GetGPURecommendations(context.Background(), GPURequirements{
		Strategy:           "balanced",
		PreferredProviders: []string{"beta"},
	})
	require.NoError(t, err)
	require.Len(t, result.Recommendations, 2)

	assert.Equal(t, "beta", result.Recommendations[0].Provider)
	assert.InDelta(t, result.Recommendations[1].Score*1.15, result.Recommendations[0].Score, 1e-9)
}

func TestUnknownStrategyDefaultsToBalanced(t *testing.T) {
	strategy, weights := resolveStrategy("definitely-not-a-strategy")
	assert.Equal(t, StrategyBalanced, strategy)
	assert.Equal(t, strategyTable[StrategyBalanced], weights)
}

func TestCacheHitWithinTTL(t *testing.T) {
	now := time.Now()
	clock := func() time.Time { return now }
	src := fixtureSource()
	r := New(src, WithClock(clock))

	req := GPURequirements{MinVRAMGb: 24, Strategy: "cheapest"}
	first, err := r.GetGPURecommendations(context.Background(), req)
	require.NoError(t, err)
	assert.False(t, first.Stats.Cached)

	second, err := r.GetGPURecommendations(context.Background(), req)
	require.NoError(t, err)
	assert.True(t, second.Stats.Cached)
	assert.EqualValues(t, 1, src.gpuFetches.Load())

	// TTL expiry forces a refetch
	now = now.Add(DefaultTTL + time.Second)
	third, err := r.GetGPURecommendations(context.Background(), req)
	require.NoError(t, err)
	assert.False(t, third.Stats.Cached)
	assert.EqualValues(t, 2, src.gpuFetches.Load())
}

func TestInvalidateCacheForcesRefetch(t *testing.T) {
	src := fixtureSource()
	r := New(src)

	_, err := r.GetGPURecommendations(context.Background(), GPURequirements{})
	require.NoError(t, err)
	assert.EqualValues(t, 1, src.gpuFetches.Load())

	r.InvalidateCache()

	_, err = r.GetGPURecommendations(context.Background(), GPURequirements{})
	require.NoError(t, err)
	assert.EqualValues(t, 2, src.gpuFetches.Load())
}

func TestDistinctRoutersDoNotShareCache(t *testing.T) {
	src := fixtureSource()
	r1 := New(src)
	r2 := New(src)

	_, err := r1.GetGPURecommendations(context.Background(), GPURequirements{})
	require.NoError(t, err)
	_, err = r2.GetGPURecommendations(context.Background(), GPURequirements{})
	require.NoError(t, err)
	assert.EqualValues(t, 2, src.gpuFetches.Load())
}

func TestComparePrices(t *testing.T) {
	src := &fakeSource{
		gpus: []models.GPUOffering{
			gpu("a", "RTX 4090", 24, 0.30, 0.70),
			gpu("b", "RTX 4090", 24, 0.40, 0.70),
			gpu("a", "NVIDIA RTX 4090", 24, 0.35, 0.70), // dearer duplicate, must not win
		},
	}
	r := New(src)
	cmp, err := r.ComparePrices(context.Background(), "RTX 4090")
	require.NoError(t, err)

	assert.True(t, cmp.Found)
	assert.Equal(t, "a", cmp.Cheapest)
	assert.Equal(t, 25, cmp.SavingsVsMax)
	require.Len(t, cmp.Providers, 2)
	assert.Equal(t, 0.30, cmp.Providers[0].PricePerHour)
	assert.Equal(t, 0.40, cmp.Providers[1].PricePerHour)
}

func TestComparePricesNoMatch(t *testing.T) {
	r := New(fixtureSource())
	cmp, err := r.ComparePrices(context.Background(), "TPU v5")
	require.NoError(t, err)
	assert.False(t, cmp.Found)
	assert.NotEmpty(t, cmp.Message)
	assert.Empty(t, cmp.Providers)
}

func TestQuickRecommendationUnknownUseCase(t *testing.T) {
	r := New(fixtureSource())
	_, err := r.GetQuickRecommendation(context.Background(), "not-a-real-use-case")
	require.Error(t, err)

	var unknown *models.UnknownUseCaseError
	require.ErrorAs(t, err, &unknown)
	assert.ElementsMatch(t, ValidUseCases(), unknown.Valid)
	assert.Contains(t, err.Error(), "training-large")
}

func TestQuickRecommendationGPU(t *testing.T) {
	r := New(fixtureSource())
	quick, err := r.GetQuickRecommendation(context.Background(), "training-large")
	require.NoError(t, err)

	assert.Equal(t, string(kindGPU), quick.Kind)
	require.NotNil(t, quick.TopGPU)
	assert.GreaterOrEqual(t, quick.TopGPU.VRAMGb, 80)
	assert.LessOrEqual(t, len(quick.AltGPUs), 2)
	assert.Nil(t, quick.TopModel)
}

func TestGPUTypeSubstringFilter(t *testing.T) {
	r := New(fixtureSource())
	result, err := r.GetGPURecommendations(context.Background(), GPURequirements{
		GPUTypes: []string{"4090"},
		Limit:    10,
	})
	require.NoError(t, err)
	require.Len(t, result.Recommendations, 2)
	for _, rec := range result.Recommendations {
		assert.Contains(t, rec.GPUType, "4090")
	}
}

func TestExcludedProviderFilter(t *testing.T) {
	r := New(fixtureSource())
	result, err := r.GetGPURecommendations(context.Background(), GPURequirements{
		ExcludedProviders: []string{"Gamma"},
		Limit:             10,
	})
	require.NoError(t, err)
	for _, rec := range result.Recommendations {
		assert.NotEqual(t, "gamma", rec.Provider)
	}
	assert.Len(t, result.Recommendations, 6)
}

func TestStatsSummarizeFilteredSet(t *testing.T) {
	r := New(fixtureSource())
	result, err := r.GetGPURecommendations(context.Background(), GPURequirements{
		MinVRAMGb: 24,
		Limit:     1,
	})
	require.NoError(t, err)
	// stats cover the 5 survivors even though only 1 is returned
	assert.Equal(t, 5, result.Stats.AvailableCount)
	assert.Equal(t, 0.31, result.Stats.PriceMin)
	assert.Equal(t, 2.49, result.Stats.PriceMax)
	assert.Equal(t, []string{"alpha", "beta", "gamma"}, result.Stats.Providers)
}
