package router

import (
	"context"
	"sort"

	"github.com/samber/lo"

	"github.com/primis-labs/primis-backend/pkg/models"
)

// useCaseKind separates GPU intents from serverless model intents.
type useCaseKind string

const (
	kindGPU   useCaseKind = "gpu"
	kindModel useCaseKind = "model"
)

type useCaseSpec struct {
	kind     useCaseKind
	gpuReq   GPURequirements
	modelReq ModelRequirements
}

// useCaseTable maps named intents to canned requirements plus a strategy.
// Keys are part of the public API; UnknownUseCaseError enumerates them.
var useCaseTable = map[string]useCaseSpec{
	"inference-small": {
		kind:   kindGPU,
		gpuReq: GPURequirements{MinVRAMGb: 8, MaxPricePerHour: 0.5, Strategy: string(StrategyCheapest)},
	},
	"inference-large": {
		kind:   kindGPU,
		gpuReq: GPURequirements{MinVRAMGb: 40, Strategy: string(StrategyBalanced)},
	},
	"training-small": {
		kind:   kindGPU,
		gpuReq: GPURequirements{MinVRAMGb: 16, Strategy: string(StrategyValue)},
	},
	"training-large": {
		kind:   kindGPU,
		gpuReq: GPURequirements{MinVRAMGb: 80, Strategy: string(StrategyReliable)},
	},
	"fine-tuning": {
		kind:   kindGPU,
		gpuReq: GPURequirements{MinVRAMGb: 24, Strategy: string(StrategyValue)},
	},
	"chat-fast": {
		kind:     kindModel,
		modelReq: ModelRequirements{Category: string(models.CategoryText), Streaming: lo.ToPtr(true), Strategy: string(StrategyFastest)},
	},
	"coding": {
		kind:     kindModel,
		modelReq: ModelRequirements{Category: string(models.CategoryText), MinContextLength: 32000, Strategy: string(StrategyBalanced)},
	},
	"embedding": {
		kind:     kindModel,
		modelReq: ModelRequirements{Category: string(models.CategoryEmbedding), Strategy: string(StrategyCheapest)},
	},
	"image-gen": {
		kind:     kindModel,
		modelReq: ModelRequirements{Category: string(models.CategoryImage), Strategy: string(StrategyBalanced)},
	},
	"transcription": {
		kind:     kindModel,
		modelReq: ModelRequirements{Category: string(models.CategoryAudio), Strategy: string(StrategyCheapest)},
	},
}

// ValidUseCases lists the accepted quick-recommendation keys, sorted.
func ValidUseCases() []string {
	keys := lo.Keys(useCaseTable)
	sort.Strings(keys)
	return keys
}

// maxAlternates bounds the runner-up list of a quick recommendation.
const maxAlternates = 2

// QuickRecommendation is a top pick plus up to two alternates for a named
// intent. Exactly one of the GPU or Model fields is populated, per Kind.
type QuickRecommendation struct {
	UseCase   string                `json:"useCase"`
	Kind      string                `json:"kind"`
	Strategy  Strategy              `json:"strategy"`
	TopGPU    *GPURecommendation    `json:"topGpu,omitempty"`
	AltGPUs   []GPURecommendation   `json:"altGpus,omitempty"`
	TopModel  *ModelRecommendation  `json:"topModel,omitempty"`
	AltModels []ModelRecommendation `json:"altModels,omitempty"`
}

// GetQuickRecommendation resolves a named use case against the canned
// requirements table. An unknown use case is a hard error listing the valid
// keys — only unknown strategies get the silent-default treatment.
func (r *SmartRouter) GetQuickRecommendation(ctx context.Context, useCase string) (*QuickRecommendation, error) {
	spec, ok := useCaseTable[useCase]
	if !ok {
		return nil, &models.UnknownUseCaseError{UseCase: useCase, Valid: ValidUseCases()}
	}

	quick := &QuickRecommendation{UseCase: useCase, Kind: string(spec.kind)}

	if spec.kind == kindGPU {
		req := spec.gpuReq
		req.Limit = maxAlternates + 1
		result, err := r.GetGPURecommendations(ctx, req)
		if err != nil {
			return nil, err
		}
		quick.Strategy = result.Strategy
		if len(result.Recommendations) > 0 {
			quick.TopGPU = &result.Recommendations[0]
			quick.AltGPUs = result.Recommendations[1:]
		}
		return quick, nil
	}

	req := spec.modelReq
	req.Limit = maxAlternates + 1
	result, err := r.GetModelRecommendations(ctx, req)
	if err != nil {
		return nil, err
	}
	quick.Strategy = result.Strategy
	if len(result.Recommendations) > 0 {
		quick.TopModel = &result.Recommendations[0]
		quick.AltModels = result.Recommendations[1:]
	}
	return quick, nil
}
