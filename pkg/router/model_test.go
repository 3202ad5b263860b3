package router

import (
	"context"
	"testing"

	"github.com/samber/lo"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/primis-labs/primis-backend/pkg/models"
	"github.com/primis-labs/primis-backend/pkg/provider"
)

func model(p, name string, category models.ModelCategory, inputPrice float64, context int, streaming bool) models.ModelOffering {
	return models.ModelOffering{
		ID:            provider.CanonicalID(p, name),
		Provider:      p,
		Name:          name,
		Category:      category,
		InputPrice:    inputPrice,
		PriceUnit:     "per-1m-tokens",
		ContextLength: context,
		Available:     true,
		Streaming:     streaming,
	}
}

func modelSource() *fakeSource {
	return &fakeSource{
		modelList: []models.ModelOffering{
			model("together", "Llama 3.1 70B Instruct", models.CategoryText, 0.88, 131072, true),
			model("together", "Llama 3.1 8B Instruct", models.CategoryText, 0.18, 131072, true),
			model("runpod", "Mistral 7B", models.CategoryText, 0.15, 8192, false),
			model("together", "FLUX.1 schnell", models.CategoryImage, 0.003, 0, false),
			model("together", "M2-BERT Retrieval", models.CategoryEmbedding, 0.008, 0, false),
			model("runpod", "Whisper Large v3", models.CategoryAudio, 0.0006, 0, false),
		},
		health: []models.ProviderHealth{
			{Provider: "together", Status: models.HealthHealthy},
			{Provider: "runpod", Status: models.HealthHealthy},
		},
	}
}

func TestModelRecommendationsFilterByCategory(t *testing.T) {
	r := New(modelSource())
	result, err := r.GetModelRecommendations(context.Background(), ModelRequirements{
		Category: "text",
		Strategy: "cheapest",
		Limit:    10,
	})
	require.NoError(t, err)
	require.Len(t, result.Recommendations, 3)
	for _, rec := range result.Recommendations {
		assert.Equal(t, models.CategoryText, rec.Category)
	}
	assert.True(t, result.Recommendations[0].IsRecommended)
}

func TestModelRecommendationsStreamingAndContextFilters(t *testing.T) {
	r := New(modelSource())

	result, err := r.GetModelRecommendations(context.Background(), ModelRequirements{
		Category:  "text",
		Streaming: lo.ToPtr(true),
		Limit:     10,
	})
	require.NoError(t, err)
	assert.Len(t, result.Recommendations, 2)

	result, err = r.GetModelRecommendations(context.Background(), ModelRequirements{
		Category:         "text",
		MinContextLength: 32000,
		Limit:            10,
	})
	require.NoError(t, err)
	assert.Len(t, result.Recommendations, 2)
}

func TestModelRecommendationsUnknownCategory(t *testing.T) {
	r := New(modelSource())
	_, err := r.GetModelRecommendations(context.Background(), ModelRequirements{Category: "video"})
	require.Error(t, err)

	var unknown *models.UnknownCategoryError
	assert.ErrorAs(t, err, &unknown)
}

func TestModelReliabilityBonusesAreClamped(t *testing.T) {
	base := model("together", "plain", models.CategoryText, 0.1, 8192, false)
	assert.InDelta(t, 0.9, scoreModelReliability(base), 1e-9)

	streaming := model("together", "streaming", models.CategoryText, 0.1, 8192, true)
	assert.InDelta(t, 0.95, scoreModelReliability(streaming), 1e-9)

	// both bonuses would give 1.0; clamp keeps it in range
	maxed := model("together", "maxed", models.CategoryText, 0.1, 131072, true)
	assert.LessOrEqual(t, scoreModelReliability(maxed), 1.0)
	assert.InDelta(t, 1.0, scoreModelReliability(maxed), 1e-9)
}

func TestFindBestModel(t *testing.T) {
	r := New(modelSource())
	best, err := r.FindBestModel(context.Background(), ModelRequirements{Category: "embedding"})
	require.NoError(t, err)
	require.NotNil(t, best)
	assert.Equal(t, models.CategoryEmbedding, best.Category)

	none, err := r.FindBestModel(context.Background(), ModelRequirements{
		Category:          "audio",
		ExcludedProviders: []string{"runpod"},
	})
	require.NoError(t, err)
	assert.Nil(t, none)
}

func TestQuickRecommendationModel(t *testing.T) {
	r := New(modelSource())
	quick, err := r.GetQuickRecommendation(context.Background(), "chat-fast")
	require.NoError(t, err)

	assert.Equal(t, string(kindModel), quick.Kind)
	require.NotNil(t, quick.TopModel)
	assert.True(t, quick.TopModel.Streaming)
	assert.Nil(t, quick.TopGPU)
}
