package models

import "time"

// InstanceStatus is the lifecycle state of a rented GPU instance.
type InstanceStatus string

const (
	StatusPending    InstanceStatus = "pending"
	StatusRunning    InstanceStatus = "running"
	StatusStopped    InstanceStatus = "stopped"
	StatusTerminated InstanceStatus = "terminated"
	StatusError      InstanceStatus = "error"
	StatusDegraded   InstanceStatus = "degraded"
)

// CanTransitionTo reports whether the state machine allows moving from s to
// target. Terminated is absorbing; whether a vendor actually supports a legal
// transition (e.g. stop/resume) is the adapter's concern.
func (s InstanceStatus) CanTransitionTo(target InstanceStatus) bool {
	if s == StatusTerminated {
		return false
	}
	switch target {
	case StatusTerminated:
		return true
	case StatusRunning:
		return s == StatusPending || s == StatusStopped
	case StatusStopped:
		return s == StatusRunning
	case StatusError, StatusDegraded:
		return s == StatusRunning || s == StatusPending
	}
	return false
}

// ConnectionInfo carries whatever the vendor hands back for reaching a
// running instance.
type ConnectionInfo struct {
	SSHHost string `json:"sshHost,omitempty"`
	SSHPort int    `json:"sshPort,omitempty"`
	SSHUser string `json:"sshUser,omitempty"`
	URL     string `json:"url,omitempty"`
}

// InstanceMetrics is a best-effort utilization snapshot; vendors that do not
// report metrics leave it nil.
type InstanceMetrics struct {
	GPUUtilization float64 `json:"gpuUtilization"`
	MemoryUsedGb   float64 `json:"memoryUsedGb"`
}

// Instance is a provisioned GPU instance. The ID is vendor-assigned, not
// canonical; the Provider field routes targeted operations.
type Instance struct {
	ID            string            `json:"id"`
	Provider      string            `json:"provider"`
	Name          string            `json:"name"`
	Status        InstanceStatus    `json:"status"`
	GPUType       string            `json:"gpuType"`
	GPUCount      int               `json:"gpuCount"`
	PricePerHour  float64           `json:"pricePerHour"`
	Connection    *ConnectionInfo   `json:"connection,omitempty"`
	UptimeSeconds int64             `json:"uptimeSeconds"`
	CreatedAt     time.Time         `json:"createdAt"`
	Metrics       *InstanceMetrics  `json:"metrics,omitempty"`
	Metadata      map[string]string `json:"metadata,omitempty"`
}

// LaunchConfig describes the instance a caller wants.
type LaunchConfig struct {
	OfferingID string            `json:"offeringId,omitempty"`
	Name       string            `json:"name,omitempty"`
	GPUType    string            `json:"gpuType"`
	GPUCount   int               `json:"gpuCount"`
	Image      string            `json:"image,omitempty"`
	DiskGb     int               `json:"diskGb,omitempty"`
	Region     string            `json:"region,omitempty"`
	Env        map[string]string `json:"env,omitempty"`
}

// LaunchOptions tune provider selection, not the instance itself.
type LaunchOptions struct {
	PreferredProvider string `json:"preferredProvider,omitempty"`
}
