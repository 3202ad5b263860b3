// Package router ranks the aggregated catalog against caller intent. It owns
// three TTL-cached snapshots (GPU offerings, model offerings, provider
// health) and a set of named weighting strategies.
package router

import (
	"context"
	"sort"
	"strings"
	"time"

	"github.com/samber/lo"

	"github.com/primis-labs/primis-backend/pkg/models"
	"github.com/primis-labs/primis-backend/pkg/provider"
)

// CatalogSource is what the router needs from the registry.
type CatalogSource interface {
	GetAllGPUOfferings(ctx context.Context) ([]models.GPUOffering, error)
	GetAllModelOfferings(ctx context.Context) ([]models.ModelOffering, error)
	GetAllProviderHealth(ctx context.Context) ([]models.ProviderHealth, error)
}

// DefaultLimit caps a recommendation list when the caller does not.
const DefaultLimit = 5

// SmartRouter serves ranked recommendations and price comparisons over the
// cached aggregate catalog. Each instance owns its cache; two routers never
// share cache state.
type SmartRouter struct {
	source CatalogSource
	cache  *ttlCache
}

// Option tunes a SmartRouter at construction.
type Option func(*options)

type options struct {
	ttl   time.Duration
	clock Clock
}

// WithTTL overrides the snapshot TTL.
func WithTTL(ttl time.Duration) Option {
	return func(o *options) { o.ttl = ttl }
}

// WithClock injects a clock, for tests.
func WithClock(clock Clock) Option {
	return func(o *options) { o.clock = clock }
}

func New(source CatalogSource, opts ...Option) *SmartRouter {
	o := options{ttl: DefaultTTL}
	for _, opt := range opts {
		opt(&o)
	}
	return &SmartRouter{
		source: source,
		cache:  newTTLCache(o.ttl, o.clock),
	}
}

// InvalidateCache drops all three snapshots. Exposed so a manual price
// refresh can take effect without waiting out the TTL.
func (r *SmartRouter) InvalidateCache() {
	r.cache.invalidate()
}

// Warm refetches all three snapshots so the first request after a cold start
// or an invalidation does not pay the fan-out latency. Errors from the
// catalog fetches are returned; the health probe degrades silently as usual.
func (r *SmartRouter) Warm(ctx context.Context) error {
	r.cache.invalidate()
	if _, _, err := r.cachedGPUOfferings(ctx); err != nil {
		return err
	}
	if _, _, err := r.cachedModelOfferings(ctx); err != nil {
		return err
	}
	r.cachedHealthMap(ctx)
	return nil
}

// cachedGPUOfferings returns the snapshot and whether it came from cache.
func (r *SmartRouter) cachedGPUOfferings(ctx context.Context) ([]models.GPUOffering, bool, error) {
	if data, ok := r.cache.get(slotGPUOfferings); ok {
		return data.([]models.GPUOffering), true, nil
	}
	offerings, err := r.source.GetAllGPUOfferings(ctx)
	if err != nil {
		return nil, false, err
	}
	r.cache.set(slotGPUOfferings, offerings)
	return offerings, false, nil
}

func (r *SmartRouter) cachedModelOfferings(ctx context.Context) ([]models.ModelOffering, bool, error) {
	if data, ok := r.cache.get(slotModelOfferings); ok {
		return data.([]models.ModelOffering), true, nil
	}
	offerings, err := r.source.GetAllModelOfferings(ctx)
	if err != nil {
		return nil, false, err
	}
	r.cache.set(slotModelOfferings, offerings)
	return offerings, false, nil
}

// cachedHealthMap degrades to an empty map when the probe fan-out fails:
// scoring then falls back to the neutral unknown score instead of failing a
// recommendation request.
func (r *SmartRouter) cachedHealthMap(ctx context.Context) map[string]models.HealthStatus {
	if data, ok := r.cache.get(slotProviderHealth); ok {
		return data.(map[string]models.HealthStatus)
	}
	probes, err := r.source.GetAllProviderHealth(ctx)
	if err != nil {
		return map[string]models.HealthStatus{}
	}
	health := make(map[string]models.HealthStatus, len(probes))
	for _, p := range probes {
		health[p.Provider] = p.Status
	}
	r.cache.set(slotProviderHealth, health)
	return health
}

// GPURequirements is the caller's intent for a GPU recommendation.
type GPURequirements struct {
	MinVRAMGb          int      `json:"minVramGb,omitempty"`
	MaxVRAMGb          int      `json:"maxVramGb,omitempty"`
	MaxPricePerHour    float64  `json:"maxPricePerHour,omitempty"`
	GPUTypes           []string `json:"gpuTypes,omitempty"`
	ExcludedProviders  []string `json:"excludedProviders,omitempty"`
	PreferredProviders []string `json:"preferredProviders,omitempty"`
	Strategy           string   `json:"strategy,omitempty"`
	Limit              int      `json:"limit,omitempty"`
}

// GPURecommendation is one scored catalog entry.
type GPURecommendation struct {
	models.GPUOffering
	Score         float64 `json:"score"`
	IsRecommended bool    `json:"isRecommended"`
}

// Stats summarizes the filtered candidate set, not just the returned page.
type Stats struct {
	AvailableCount int      `json:"availableCount"`
	PriceMin       float64  `json:"priceMin"`
	PriceMax       float64  `json:"priceMax"`
	PriceAvg       float64  `json:"priceAvg"`
	Providers      []string `json:"providers"`
	Cached         bool     `json:"cached"`
}

// GPURecommendationResult is the full response of one ranking request.
type GPURecommendationResult struct {
	Strategy        Strategy            `json:"strategy"`
	Recommendations []GPURecommendation `json:"recommendations"`
	Stats           Stats               `json:"stats"`
}

func containsFold(haystack []string, needle string) bool {
	return lo.ContainsBy(haystack, func(s string) bool {
		return strings.EqualFold(s, needle)
	})
}

func matchesGPUType(offering models.GPUOffering, wanted []string) bool {
	if len(wanted) == 0 {
		return true
	}
	normalized := strings.ToUpper(provider.NormalizedGPUType(offering.GPUType))
	return lo.ContainsBy(wanted, func(w string) bool {
		return strings.Contains(normalized, strings.ToUpper(strings.TrimSpace(w)))
	})
}

func (req *GPURequirements) matches(o models.GPUOffering) bool {
	if o.VRAMGb < req.MinVRAMGb {
		return false
	}
	if req.MaxVRAMGb > 0 && o.VRAMGb > req.MaxVRAMGb {
		return false
	}
	if req.MaxPricePerHour > 0 && o.PricePerHour > req.MaxPricePerHour {
		return false
	}
	if containsFold(req.ExcludedProviders, o.Provider) {
		return false
	}
	return matchesGPUType(o, req.GPUTypes)
}

// GetGPURecommendations runs the full pipeline: cached fetch, hard filter,
// per-strategy scoring, preferred boost, descending sort, truncation.
func (r *SmartRouter) GetGPURecommendations(ctx context.Context, req GPURequirements) (*GPURecommendationResult, error) {
	offerings, cached, err := r.cachedGPUOfferings(ctx)
	if err != nil {
		return nil, err
	}
	health := r.cachedHealthMap(ctx)
	strategy, weights := resolveStrategy(req.Strategy)

	candidates := lo.Filter(offerings, func(o models.GPUOffering, _ int) bool {
		return req.matches(o)
	})

	maxPrice := 0.0
	for _, o := range candidates {
		if o.PricePerHour > maxPrice {
			maxPrice = o.PricePerHour
		}
	}

	recs := make([]GPURecommendation, 0, len(candidates))
	for _, o := range candidates {
		f := factorScores{
			price:        scorePrice(o.PricePerHour, maxPrice),
			savings:      scoreSavings(o.SavingsPct),
			savingsOK:    true,
			reliability:  scoreGPUReliability(o.Reliability),
			availability: scoreAvailability(o.Available, health, o.Provider),
		}
		score := overallScore(weights, f)
		if containsFold(req.PreferredProviders, o.Provider) {
			score *= preferredBoost
		}
		recs = append(recs, GPURecommendation{GPUOffering: o, Score: score})
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

	return &GPURecommendationResult{
		Strategy:        strategy,
		Recommendations: recs,
		Stats:           gpuStats(candidates, cached),
	}, nil
}

// FindBestGPU returns the top recommendation, nil when nothing matches.
func (r *SmartRouter) FindBestGPU(ctx context.Context, req GPURequirements) (*GPURecommendation, error) {
	req.Limit = 1
	result, err := r.GetGPURecommendations(ctx, req)
	if err != nil {
		return nil, err
	}
	if len(result.Recommendations) == 0 {
		return nil, nil
	}
	return &result.Recommendations[0], nil
}

func gpuStats(candidates []models.GPUOffering, cached bool) Stats {
	stats := Stats{Cached: cached}
	var sum float64
	for i, o := range candidates {
		if o.Available {
			stats.AvailableCount++
		}
		if i == 0 || o.PricePerHour < stats.PriceMin {
			stats.PriceMin = o.PricePerHour
		}
		if o.PricePerHour > stats.PriceMax {
			stats.PriceMax = o.PricePerHour
		}
		sum += o.PricePerHour
	}
	if len(candidates) > 0 {
		stats.PriceAvg = sum / float64(len(candidates))
	}
	stats.Providers = lo.Uniq(lo.Map(candidates, func(o models.GPUOffering, _ int) string {
		return o.Provider
	}))
	sort.Strings(stats.Providers)
	return stats
}
