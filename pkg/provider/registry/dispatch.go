package registry

import (
	"context"
	"fmt"

	"k8s.io/klog/v2"

	"github.com/primis-labs/primis-backend/pkg/metrics"
	"github.com/primis-labs/primis-backend/pkg/models"
	"github.com/primis-labs/primis-backend/pkg/provider"
)

// resolveLaunchTarget picks the adapter a launch goes to, in order: the
// provider token of an explicit offering id in the config, then the
// preferred provider if configured, then the first configured adapter.
func (r *Registry) resolveLaunchTarget(config models.LaunchConfig, opts models.LaunchOptions) (provider.InstanceProvider, error) {
	if config.OfferingID != "" {
		id, err := provider.ParseOfferingID(config.OfferingID)
		if err != nil {
			return nil, err
		}
		p, err := r.InstanceProvider(id.Provider)
		if err != nil {
			return nil, err
		}
		return p, nil
	}

	if opts.PreferredProvider != "" {
		p, err := r.InstanceProvider(opts.PreferredProvider)
		if err == nil && p.IsConfigured() {
			return p, nil
		}
		if err == nil {
			klog.Warningf("preferred provider %s is not configured, falling back", opts.PreferredProvider)
		}
	}

	configured := r.GetConfiguredInstanceProviders()
	if len(configured) == 0 {
		return nil, fmt.Errorf("no configured instance provider available")
	}
	return configured[0], nil
}

// LaunchInstance dispatches a launch to the resolved provider. Errors from
// the adapter propagate unchanged.
func (r *Registry) LaunchInstance(ctx context.Context, config models.LaunchConfig, opts models.LaunchOptions) (*models.Instance, error) {
	p, err := r.resolveLaunchTarget(config, opts)
	if err != nil {
		return nil, err
	}
	if !p.IsConfigured() {
		return nil, &models.ConfigurationError{Provider: p.Name(), Missing: "api key"}
	}
	inst, err := p.LaunchInstance(ctx, config)
	if err != nil {
		metrics.LaunchAttempts.WithLabelValues(p.Name(), "error").Inc()
		return nil, err
	}
	metrics.LaunchAttempts.WithLabelValues(p.Name(), "ok").Inc()
	return inst, nil
}

// GetInstance routes a lookup to the named provider.
func (r *Registry) GetInstance(ctx context.Context, id, providerName string) (*models.Instance, error) {
	p, err := r.InstanceProvider(providerName)
	if err != nil {
		return nil, err
	}
	return p.GetInstance(ctx, id)
}

// ListInstances lists instances across all configured instance providers.
// Unlike catalog aggregation this is a targeted account query, so a failing
// provider fails the call.
func (r *Registry) ListInstances(ctx context.Context) ([]models.Instance, error) {
	var all []models.Instance
	for _, p := range r.GetConfiguredInstanceProviders() {
		instances, err := p.ListInstances(ctx)
		if err != nil {
			return nil, err
		}
		all = append(all, instances...)
	}
	return all, nil
}

// StopInstance routes a stop to the named provider.
func (r *Registry) StopInstance(ctx context.Context, id, providerName string) error {
	p, err := r.InstanceProvider(providerName)
	if err != nil {
		return err
	}
	return p.StopInstance(ctx, id)
}

// StartInstance routes a resume to the named provider.
func (r *Registry) StartInstance(ctx context.Context, id, providerName string) error {
	p, err := r.InstanceProvider(providerName)
	if err != nil {
		return err
	}
	return p.StartInstance(ctx, id)
}

// TerminateInstance routes a terminate to the named provider.
func (r *Registry) TerminateInstance(ctx context.Context, id, providerName string) error {
	p, err := r.InstanceProvider(providerName)
	if err != nil {
		return err
	}
	return p.TerminateInstance(ctx, id)
}

// serverlessForModel resolves the adapter behind a canonical model id.
func (r *Registry) serverlessForModel(modelID string) (provider.ServerlessProvider, string, error) {
	id, err := provider.ParseOfferingID(modelID)
	if err != nil {
		return nil, "", err
	}
	p, err := r.ServerlessProvider(id.Provider)
	if err != nil {
		return nil, "", err
	}
	if !p.IsConfigured() {
		return nil, "", &models.ConfigurationError{Provider: p.Name(), Missing: "api key"}
	}
	return p, id.Slug, nil
}

// GenerateText routes a text generation call by canonical model id.
func (r *Registry) GenerateText(ctx context.Context, modelID string, req models.TextRequest) (*models.TextResult, error) {
	p, slug, err := r.serverlessForModel(modelID)
	if err != nil {
		return nil, err
	}
	return p.GenerateText(ctx, slug, req)
}

// GenerateImage routes an image generation call by canonical model id.
func (r *Registry) GenerateImage(ctx context.Context, modelID string, req models.ImageRequest) (*models.ImageResult, error) {
	p, slug, err := r.serverlessForModel(modelID)
	if err != nil {
		return nil, err
	}
	return p.GenerateImage(ctx, slug, req)
}

// TranscribeAudio routes a transcription call by canonical model id.
func (r *Registry) TranscribeAudio(ctx context.Context, modelID string, req models.AudioRequest) (*models.AudioResult, error) {
	p, slug, err := r.serverlessForModel(modelID)
	if err != nil {
		return nil, err
	}
	return p.TranscribeAudio(ctx, slug, req)
}

// GenerateEmbedding routes an embedding call by canonical model id.
func (r *Registry) GenerateEmbedding(ctx context.Context, modelID string, req models.EmbeddingRequest) (*models.EmbeddingResult, error) {
	p, slug, err := r.serverlessForModel(modelID)
	if err != nil {
		return nil, err
	}
	return p.GenerateEmbedding(ctx, slug, req)
}
