package router

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/primis-labs/primis-backend/pkg/models"
	"github.com/primis-labs/primis-backend/pkg/provider"
)

// ProviderPrice is one provider's cheapest matching offering.
type ProviderPrice struct {
	Provider     string  `json:"provider"`
	OfferingID   string  `json:"offeringId"`
	GPUType      string  `json:"gpuType"`
	PricePerHour float64 `json:"pricePerHour"`
	Available    bool    `json:"available"`
}

// PriceComparison reports cross-provider pricing for one GPU type. Canonical
// ids deliberately differ per provider for the same physical GPU; this is
// the mechanism for cross-provider equivalence.
type PriceComparison struct {
	Found        bool            `json:"found"`
	Message      string          `json:"message,omitempty"`
	Query        string          `json:"query"`
	Providers    []ProviderPrice `json:"providers,omitempty"`
	Cheapest     string          `json:"cheapest,omitempty"`
	SavingsVsMax int             `json:"savingsVsMax"`
	Cached       bool            `json:"cached"`
}

// ComparePrices keeps the cheapest matching entry per provider, sorted
// ascending by price, and reports the saving of the cheapest against the
// most expensive provider.
func (r *SmartRouter) ComparePrices(ctx context.Context, gpuType string) (*PriceComparison, error) {
	offerings, cached, err := r.cachedGPUOfferings(ctx)
	if err != nil {
		return nil, err
	}

	query := strings.ToUpper(strings.TrimSpace(gpuType))
	cheapestPerProvider := make(map[string]models.GPUOffering)
	for _, o := range offerings {
		if !strings.Contains(strings.ToUpper(provider.NormalizedGPUType(o.GPUType)), query) {
			continue
		}
		best, ok := cheapestPerProvider[o.Provider]
		if !ok || o.PricePerHour < best.PricePerHour {
			cheapestPerProvider[o.Provider] = o
		}
	}

	if len(cheapestPerProvider) == 0 {
		return &PriceComparison{
			Found:   false,
			Query:   gpuType,
			Message: fmt.Sprintf("no offerings matching %q found across providers", gpuType),
			Cached:  cached,
		}, nil
	}

	prices := make([]ProviderPrice, 0, len(cheapestPerProvider))
	for _, o := range cheapestPerProvider {
		prices = append(prices, ProviderPrice{
			Provider:     o.Provider,
			OfferingID:   o.ID,
			GPUType:      o.GPUType,
			PricePerHour: o.PricePerHour,
			Available:    o.Available,
		})
	}
	sort.Slice(prices, func(i, j int) bool {
		if prices[i].PricePerHour != prices[j].PricePerHour {
			return prices[i].PricePerHour < prices[j].PricePerHour
		}
		return prices[i].Provider < prices[j].Provider
	})

	cheapest := prices[0]
	mostExpensive := prices[len(prices)-1]
	return &PriceComparison{
		Found:        true,
		Query:        gpuType,
		Providers:    prices,
		Cheapest:     cheapest.Provider,
		SavingsVsMax: provider.CalculateSavings(cheapest.PricePerHour, mostExpensive.PricePerHour),
		Cached:       cached,
	}, nil
}
