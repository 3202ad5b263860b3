package router

import (
	"strings"

	"k8s.io/klog/v2"

	"github.com/primis-labs/primis-backend/pkg/models"
)

// Strategy is a named weighting profile ranking offerings for an intent.
type Strategy string

const (
	StrategyCheapest Strategy = "cheapest"
	StrategyFastest  Strategy = "fastest"
	StrategyReliable Strategy = "reliable"
	StrategyBalanced Strategy = "balanced"
	StrategyValue    Strategy = "value"
)

// preferredBoost multiplies the final score of offerings from a provider the
// caller prefers.
const preferredBoost = 1.15

// strategyWeights holds one row of the weight table. A zero weight means the
// factor does not participate for that strategy.
type strategyWeights struct {
	price        float64
	savings      float64
	reliability  float64
	availability float64
}

var strategyTable = map[Strategy]strategyWeights{
	StrategyCheapest: {price: 0.70, savings: 0.20, reliability: 0.10},
	StrategyFastest:  {price: 0.20, reliability: 0.30, availability: 0.50},
	StrategyReliable: {price: 0.20, reliability: 0.60, availability: 0.20},
	StrategyBalanced: {price: 0.35, savings: 0.15, reliability: 0.35, availability: 0.15},
	StrategyValue:    {price: 0.30, savings: 0.50, reliability: 0.20},
}

// resolveStrategy maps a caller-supplied name to a weight row. An
// unrecognized name silently falls back to balanced. This is the one
// deliberate leniency in the system; unknown use cases, categories and
// providers stay hard errors.
func resolveStrategy(name string) (Strategy, strategyWeights) {
	s := Strategy(strings.ToLower(strings.TrimSpace(name)))
	if w, ok := strategyTable[s]; ok {
		return s, w
	}
	if name != "" {
		klog.V(2).Infof("unknown strategy %q, defaulting to balanced", name)
	}
	return StrategyBalanced, strategyTable[StrategyBalanced]
}

// factorScores carries the per-factor scores of one offering, each clamped
// to [0,1]. present distinguishes a factor that scored zero from one that
// does not apply at all (model offerings have no savings factor).
type factorScores struct {
	price        float64
	savings      float64
	savingsOK    bool
	reliability  float64
	availability float64
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}

// scorePrice rewards cheap offerings relative to the most expensive survivor
// of the filter. The observed max is floored at 1 to avoid dividing by zero.
func scorePrice(price, maxObserved float64) float64 {
	if maxObserved < 1 {
		maxObserved = 1
	}
	return clamp01(1 - price/maxObserved)
}

func scoreSavings(savingsPct int) float64 {
	return clamp01(float64(savingsPct) / 50)
}

const defaultGPUReliability = 0.7

func scoreGPUReliability(reliability float64) float64 {
	if reliability <= 0 {
		return defaultGPUReliability
	}
	return clamp01(reliability)
}

// scoreModelReliability starts from a 0.9 baseline with bonuses for
// streaming support and long context. The bonuses can push past 1.0, so the
// result is clamped.
func scoreModelReliability(m models.ModelOffering) float64 {
	score := 0.9
	if m.Streaming {
		score += 0.05
	}
	if m.ContextLength > 32000 {
		score += 0.05
	}
	return clamp01(score)
}

// scoreAvailability is zero for unavailable offerings regardless of provider
// health; otherwise it follows the provider's probe status, with a neutral
// 0.5 when the provider was never probed.
func scoreAvailability(available bool, health map[string]models.HealthStatus, providerName string) float64 {
	if !available {
		return 0
	}
	status, ok := health[providerName]
	if !ok {
		return 0.5
	}
	switch status {
	case models.HealthHealthy:
		return 1.0
	case models.HealthDegraded:
		return 0.6
	case models.HealthUnavailable:
		return 0.2
	}
	return 0.5
}

// overallScore is the weighted average of the applicable factors,
// renormalized by the sum of the weights actually applied.
func overallScore(w strategyWeights, f factorScores) float64 {
	var sum, weightSum float64
	apply := func(weight, score float64) {
		if weight == 0 {
			return
		}
		sum += weight * score
		weightSum += weight
	}
	apply(w.price, f.price)
	if f.savingsOK {
		apply(w.savings, f.savings)
	}
	apply(w.reliability, f.reliability)
	apply(w.availability, f.availability)
	if weightSum == 0 {
		return 0
	}
	return sum / weightSum
}
