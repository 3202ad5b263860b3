package models

import (
	"fmt"
	"strings"
)

// ConfigurationError means a provider is missing credentials. It is surfaced
// only by targeted operations; aggregation paths degrade instead.
type ConfigurationError struct {
	Provider string
	Missing  string
}

func (e *ConfigurationError) Error() string {
	return fmt.Sprintf("provider %s is not configured (missing %s)", e.Provider, e.Missing)
}

// UnsupportedOperationError means the vendor's model structurally cannot
// perform the requested transition (e.g. stop on a rent-until-terminate
// marketplace). Adapters must return this rather than no-op.
type UnsupportedOperationError struct {
	Provider  string
	Operation string
}

func (e *UnsupportedOperationError) Error() string {
	return fmt.Sprintf("provider %s does not support %s", e.Provider, e.Operation)
}

// NotFoundError means an id did not resolve to anything on the vendor side.
type NotFoundError struct {
	Kind string
	ID   string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s %q not found", e.Kind, e.ID)
}

// UpstreamError wraps a failed vendor call with adapter context.
type UpstreamError struct {
	Provider   string
	Operation  string
	StatusCode int
	Err        error
}

func (e *UpstreamError) Error() string {
	if e.StatusCode > 0 {
		return fmt.Sprintf("%s %s failed with status %d: %v", e.Provider, e.Operation, e.StatusCode, e.Err)
	}
	return fmt.Sprintf("%s %s failed: %v", e.Provider, e.Operation, e.Err)
}

func (e *UpstreamError) Unwrap() error { return e.Err }

// UnknownProviderError means a caller named a provider nobody registered.
type UnknownProviderError struct {
	Provider string
}

func (e *UnknownProviderError) Error() string {
	return fmt.Sprintf("unknown provider %q", e.Provider)
}

// UnknownUseCaseError lists the valid keys; callers are expected to show
// them to the user.
type UnknownUseCaseError struct {
	UseCase string
	Valid   []string
}

func (e *UnknownUseCaseError) Error() string {
	return fmt.Sprintf("unknown use case %q, valid use cases: %s", e.UseCase, strings.Join(e.Valid, ", "))
}

// UnknownCategoryError means a model category outside text/image/audio/embedding.
type UnknownCategoryError struct {
	Category string
}

func (e *UnknownCategoryError) Error() string {
	return fmt.Sprintf("unknown model category %q", e.Category)
}
