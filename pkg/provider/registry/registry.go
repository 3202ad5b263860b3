// Package registry holds the registered vendor adapters, fans aggregation
// calls out to all of them and routes single-target operations to the right
// one.
package registry

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/samber/lo"
	"k8s.io/klog/v2"

	"github.com/primis-labs/primis-backend/pkg/metrics"
	"github.com/primis-labs/primis-backend/pkg/models"
	"github.com/primis-labs/primis-backend/pkg/provider"
)

// adapterTimeout bounds one adapter call during a fan-out. Expiry is treated
// like any other adapter error: that adapter degrades to an empty result.
const adapterTimeout = 30 * time.Second

// Registry keeps two independent facet maps. The same vendor name may appear
// in both when it offers instances and serverless inference.
type Registry struct {
	mu         sync.RWMutex
	instance   map[string]provider.InstanceProvider
	serverless map[string]provider.ServerlessProvider
}

func New() *Registry {
	return &Registry{
		instance:   make(map[string]provider.InstanceProvider),
		serverless: make(map[string]provider.ServerlessProvider),
	}
}

func (r *Registry) RegisterInstanceProvider(p provider.InstanceProvider) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.instance[p.Name()] = p
	klog.Infof("registered instance provider: %s (configured=%v)", p.Name(), p.IsConfigured())
}

func (r *Registry) RegisterServerlessProvider(p provider.ServerlessProvider) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.serverless[p.Name()] = p
	klog.Infof("registered serverless provider: %s (configured=%v)", p.Name(), p.IsConfigured())
}

func (r *Registry) instanceProviders() []provider.InstanceProvider {
	r.mu.RLock()
	defer r.mu.RUnlock()
	ps := lo.Values(r.instance)
	sort.Slice(ps, func(i, j int) bool { return ps[i].Name() < ps[j].Name() })
	return ps
}

func (r *Registry) serverlessProviders() []provider.ServerlessProvider {
	r.mu.RLock()
	defer r.mu.RUnlock()
	ps := lo.Values(r.serverless)
	sort.Slice(ps, func(i, j int) bool { return ps[i].Name() < ps[j].Name() })
	return ps
}

// GetConfiguredInstanceProviders returns only adapters with credentials.
func (r *Registry) GetConfiguredInstanceProviders() []provider.InstanceProvider {
	return lo.Filter(r.instanceProviders(), func(p provider.InstanceProvider, _ int) bool {
		return p.IsConfigured()
	})
}

// GetConfiguredServerlessProviders returns only adapters with credentials.
func (r *Registry) GetConfiguredServerlessProviders() []provider.ServerlessProvider {
	return lo.Filter(r.serverlessProviders(), func(p provider.ServerlessProvider, _ int) bool {
		return p.IsConfigured()
	})
}

// InstanceProvider resolves a registered instance adapter by name.
func (r *Registry) InstanceProvider(name string) (provider.InstanceProvider, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	p, ok := r.instance[name]
	if !ok {
		return nil, &models.UnknownProviderError{Provider: name}
	}
	return p, nil
}

// ServerlessProvider resolves a registered serverless adapter by name.
func (r *Registry) ServerlessProvider(name string) (provider.ServerlessProvider, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	p, ok := r.serverless[name]
	if !ok {
		return nil, &models.UnknownProviderError{Provider: name}
	}
	return p, nil
}

// GetAllGPUOfferings fans out to every registered instance adapter,
// configured or not, and merges the results sorted ascending by price. One
// adapter failing never fails the aggregate: its slice is logged, counted
// and replaced with an empty one.
func (r *Registry) GetAllGPUOfferings(ctx context.Context) ([]models.GPUOffering, error) {
	providers := r.instanceProviders()
	timer := prometheusTimer("gpu_offerings")
	defer timer()

	results := make([][]models.GPUOffering, len(providers))
	var wg sync.WaitGroup
	for i, p := range providers {
		wg.Add(1)
		go func(i int, p provider.InstanceProvider) {
			defer wg.Done()
			callCtx, cancel := context.WithTimeout(ctx, adapterTimeout)
			defer cancel()
			offerings, err := p.GetGPUOfferings(callCtx)
			if err != nil {
				klog.Errorf("aggregation: %s GPU offerings failed: %v", p.Name(), err)
				metrics.AdapterErrors.WithLabelValues(p.Name(), "gpu_offerings").Inc()
				return
			}
			results[i] = offerings
		}(i, p)
	}
	wg.Wait()

	merged := lo.Flatten(results)
	sort.SliceStable(merged, func(i, j int) bool {
		return merged[i].PricePerHour < merged[j].PricePerHour
	})
	return merged, nil
}

// GetAllModelOfferings fans out to every registered serverless adapter with
// the same degradation rules as GetAllGPUOfferings.
func (r *Registry) GetAllModelOfferings(ctx context.Context) ([]models.ModelOffering, error) {
	providers := r.serverlessProviders()
	timer := prometheusTimer("model_offerings")
	defer timer()

	results := make([][]models.ModelOffering, len(providers))
	var wg sync.WaitGroup
	for i, p := range providers {
		wg.Add(1)
		go func(i int, p provider.ServerlessProvider) {
			defer wg.Done()
			callCtx, cancel := context.WithTimeout(ctx, adapterTimeout)
			defer cancel()
			offerings, err := p.GetModels(callCtx)
			if err != nil {
				klog.Errorf("aggregation: %s models failed: %v", p.Name(), err)
				metrics.AdapterErrors.WithLabelValues(p.Name(), "model_offerings").Inc()
				return
			}
			results[i] = offerings
		}(i, p)
	}
	wg.Wait()

	return lo.Flatten(results), nil
}

// GetAllProviderHealth probes each distinct adapter once. A vendor registered
// under both facets is deduplicated by name before probing.
func (r *Registry) GetAllProviderHealth(ctx context.Context) ([]models.ProviderHealth, error) {
	seen := make(map[string]provider.Provider)
	for _, p := range r.instanceProviders() {
		seen[p.Name()] = p
	}
	for _, p := range r.serverlessProviders() {
		if _, ok := seen[p.Name()]; !ok {
			seen[p.Name()] = p
		}
	}
	names := lo.Keys(seen)
	sort.Strings(names)

	timer := prometheusTimer("provider_health")
	defer timer()

	results := make([]models.ProviderHealth, len(names))
	var wg sync.WaitGroup
	for i, name := range names {
		wg.Add(1)
		go func(i int, p provider.Provider) {
			defer wg.Done()
			callCtx, cancel := context.WithTimeout(ctx, adapterTimeout)
			defer cancel()
			results[i] = p.GetHealth(callCtx)
		}(i, seen[name])
	}
	wg.Wait()

	return results, nil
}

func prometheusTimer(kind string) func() {
	start := time.Now()
	return func() {
		metrics.AggregationDuration.WithLabelValues(kind).Observe(time.Since(start).Seconds())
	}
}
