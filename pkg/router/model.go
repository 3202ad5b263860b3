package router

import (
	"context"
	"sort"

	"github.com/samber/lo"

	"github.com/primis-labs/primis-backend/pkg/models"
)

// ModelRequirements is the caller's intent for a serverless model
// recommendation. Category is mandatory; an unknown category is a hard
// error, unlike an unknown strategy.
type ModelRequirements struct {
	Category           string   `json:"category"`
	Streaming          *bool    `json:"streaming,omitempty"`
	MinContextLength   int      `json:"minContextLength,omitempty"`
	MaxInputPrice      float64  `json:"maxInputPrice,omitempty"`
	ExcludedProviders  []string `json:"excludedProviders,omitempty"`
	PreferredProviders []string `json:"preferredProviders,omitempty"`
	Strategy           string   `json:"strategy,omitempty"`
	Limit              int      `json:"limit,omitempty"`
}

// ModelRecommendation is one scored model offering.
type ModelRecommendation struct {
	models.ModelOffering
	Score         float64 `json:"score"`
	IsRecommended bool    `json:"isRecommended"`
}

// ModelRecommendationResult is the full response of one model ranking.
type ModelRecommendationResult struct {
	Strategy        Strategy              `json:"strategy"`
	Recommendations []ModelRecommendation `json:"recommendations"`
	Stats           Stats                 `json:"stats"`
}

func (req *ModelRequirements) matches(m models.ModelOffering, category models.ModelCategory) bool {
	if m.Category != category {
		return false
	}
	if req.Streaming != nil && m.Streaming != *req.Streaming {
		return false
	}
	if req.MinContextLength > 0 && m.ContextLength < req.MinContextLength {
		return false
	}
	if req.MaxInputPrice > 0 && m.InputPrice > req.MaxInputPrice {
		return false
	}
	return !containsFold(req.ExcludedProviders, m.Provider)
}

// GetModelRecommendations mirrors the GPU pipeline over model offerings.
// Models carry no market price, so the savings factor drops out and the
// remaining weights are renormalized.
func (r *SmartRouter) GetModelRecommendations(ctx context.Context, req ModelRequirements) (*ModelRecommendationResult, error) {
	category, err := models.ParseModelCategory(req.Category)
	if err != nil {
		return nil, err
	}

	offerings, cached, err := r.cachedModelOfferings(ctx)
	if err != nil {
		return nil, err
	}
	health := r.cachedHealthMap(ctx)
	strategy, weights := resolveStrategy(req.Strategy)

	candidates := lo.Filter(offerings, func(m models.ModelOffering, _ int) bool {
		return req.matches(m, category)
	})

	maxPrice := 0.0
	for _, m := range candidates {
		if m.InputPrice > maxPrice {
			maxPrice = m.InputPrice
		}
	}

	recs := make([]ModelRecommendation, 0, len(candidates))
	for _, m := range candidates {
		f := factorScores{
			price:        scorePrice(m.InputPrice, maxPrice),
			reliability:  scoreModelReliability(m),
			availability: scoreAvailability(m.Available, health, m.Provider),
		}
		score := overallScore(weights, f)
		if containsFold(req.PreferredProviders, m.Provider) {
			score *= preferredBoost
		}
		recs = append(recs, ModelRecommendation{ModelOffering: m, Score: score})
	}

	sort.SliceStable(recs, func(i, j int) bool { return recs[i].Score > recs[j].Score })
	if len(recs) > 0 {
		recs[0].IsRecommended = true
	}

	limit := req.Limit
	if limit <= 0 {
		limit = DefaultLimit
	}
	if len(recs) > limit {
		recs = recs[:limit]
	}

	return &ModelRecommendationResult{
		Strategy:        strategy,
		Recommendations: recs,
		Stats:           modelStats(candidates, cached),
	}, nil
}

// FindBestModel returns the top model recommendation, nil when none match.
func (r *SmartRouter) FindBestModel(ctx context.Context, req ModelRequirements) (*ModelRecommendation, error) {
	req.Limit = 1
	result, err := r.GetModelRecommendations(ctx, req)
	if err != nil {
		return nil, err
	}
	if len(result.Recommendations) == 0 {
		return nil, nil
	}
	return &result.Recommendations[0], nil
}

func modelStats(candidates []models.ModelOffering, cached bool) Stats {
	stats := Stats{Cached: cached}
	var sum float64
	for i, m := range candidates {
		if m.Available {
			stats.AvailableCount++
		}
		if i == 0 || m.InputPrice < stats.PriceMin {
			stats.PriceMin = m.InputPrice
		}
		if m.InputPrice > stats.PriceMax {
			stats.PriceMax = m.InputPrice
		}
		sum += m.InputPrice
	}
	if len(candidates) > 0 {
		stats.PriceAvg = sum / float64(len(candidates))
	}
	stats.Providers = lo.Uniq(lo.Map(candidates, func(m models.ModelOffering, _ int) string {
		return m.Provider
	}))
	sort.Strings(stats.Providers)
	return stats
}
