package models

import "time"

// HealthStatus is the coarse availability of a provider's API.
type HealthStatus string

const (
	HealthHealthy     HealthStatus = "healthy"
	HealthDegraded    HealthStatus = "degraded"
	HealthUnavailable HealthStatus = "unavailable"
)

// ProviderHealth is one probe result. Recomputed per request, never stored.
type ProviderHealth struct {
	Provider  string       `json:"provider"`
	Status    HealthStatus `json:"status"`
	LatencyMs int64        `json:"latencyMs"`
	CheckedAt time.Time    `json:"checkedAt"`
	Message   string       `json:"message,omitempty"`
}
