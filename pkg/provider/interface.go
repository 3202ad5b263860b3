// Package provider defines the capability contract every vendor adapter
// satisfies, and the canonical id scheme the registry and router dispatch on.
package provider

import (
	"context"

	"github.com/primis-labs/primis-backend/pkg/models"
)

// Provider is the base contract shared by both facets.
//
// IsConfigured must be a cheap, non-network check (credential presence).
// An unconfigured adapter still serves its static catalog with every entry
// marked unavailable, so the aggregate can show "coming soon" entries.
type Provider interface {
	Name() string
	IsConfigured() bool
	GetHealth(ctx context.Context) models.ProviderHealth
}

// InstanceProvider is the facet for GPU instance rental marketplaces.
//
// Vendors whose model cannot perform a transition (e.g. no stop/resume on a
// rent-until-terminate marketplace) must return
// *models.UnsupportedOperationError, never silently no-op.
type InstanceProvider interface {
	Provider

	GetGPUOfferings(ctx context.Context) ([]models.GPUOffering, error)
	LaunchInstance(ctx context.Context, config models.LaunchConfig) (*models.Instance, error)
	GetInstance(ctx context.Context, id string) (*models.Instance, error)
	ListInstances(ctx context.Context) ([]models.Instance, error)
	StopInstance(ctx context.Context, id string) error
	StartInstance(ctx context.Context, id string) error
	TerminateInstance(ctx context.Context, id string) error
}

// ServerlessProvider is the facet for hosted inference endpoints.
// GenerateEmbedding is optional; adapters without embedding models return
// *models.UnsupportedOperationError.
type ServerlessProvider interface {
	Provider

	GetModels(ctx context.Context) ([]models.ModelOffering, error)
	GenerateText(ctx context.Context, model string, req models.TextRequest) (*models.TextResult, error)
	GenerateImage(ctx context.Context, model string, req models.ImageRequest) (*models.ImageResult, error)
	TranscribeAudio(ctx context.Context, model string, req models.AudioRequest) (*models.AudioResult, error)
	GenerateEmbedding(ctx context.Context, model string, req models.EmbeddingRequest) (*models.EmbeddingResult, error)
}
