package runpod

import (
	"context"
	"strings"
	"time"

	"github.com/imroc/req/v3"

	"github.com/primis-labs/primis-backend/pkg/models"
	"github.com/primis-labs/primis-backend/pkg/provider"
)

// Name is the provider token used in canonical ids.
const Name = "runpod"

// Config is injected at construction; credentials are never read from the
// environment at call time.
type Config struct {
	APIKey        string
	BaseURL       string
	ServerlessURL string
}

// Adapter implements both the instance and the serverless facets.
type Adapter struct {
	cfg    Config
	client *client
	sls    *req.Client
}

var (
	_ provider.InstanceProvider   = (*Adapter)(nil)
	_ provider.ServerlessProvider = (*Adapter)(nil)
)

func New(cfg Config) *Adapter {
	return &Adapter{
		cfg:    cfg,
		client: newClient(cfg.APIKey, cfg.BaseURL),
		sls:    newServerlessClient(cfg),
	}
}

func (a *Adapter) Name() string { return Name }

func (a *Adapter) IsConfigured() bool { return a.cfg.APIKey != "" }

// degradedLatencyMs marks a responsive but slow API.
const degradedLatencyMs = 2000

func (a *Adapter) GetHealth(ctx context.Context) models.ProviderHealth {
	health := models.ProviderHealth{Provider: Name, CheckedAt: time.Now()}
	if !a.IsConfigured() {
		health.Status = models.HealthUnavailable
		health.Message = "api key not configured"
		return health
	}
	start := time.Now()
	err := a.client.ping(ctx)
	health.LatencyMs = time.Since(start).Milliseconds()
	switch {
	case err != nil:
		health.Status = models.HealthUnavailable
		health.Message = err.Error()
	case health.LatencyMs > degradedLatencyMs:
		health.Status = models.HealthDegraded
		health.Message = "high API latency"
	default:
		health.Status = models.HealthHealthy
	}
	return health
}

// staticOfferings is the coming-soon catalog served while unconfigured.
func (a *Adapter) staticOfferings() []models.GPUOffering {
	offerings := make([]models.GPUOffering, 0, len(gpuCatalog))
	for _, spec := range gpuCatalog {
		offerings = append(offerings, models.GPUOffering{
			ID:           provider.CanonicalID(Name, spec.name),
			Provider:     Name,
			GPUType:      spec.name,
			VRAMGb:       spec.vramGb,
			GPUCount:     1,
			PricePerHour: spec.listPrice,
			MarketPrice:  spec.marketPrice,
			Available:    false,
			Reliability:  spec.reliability,
			SavingsPct:   provider.CalculateSavings(spec.listPrice, spec.marketPrice),
		})
	}
	return offerings
}

func (a *Adapter) GetGPUOfferings(ctx context.Context) ([]models.GPUOffering, error) {
	if !a.IsConfigured() {
		return a.staticOfferings(), nil
	}
	gpuTypes, err := a.client.listGPUTypes(ctx)
	if err != nil {
		return nil, err
	}
	offerings := make([]models.GPUOffering, 0, len(gpuTypes))
	for _, gt := range gpuTypes {
		price := gt.SecurePrice
		if gt.CommunityPrice > 0 && gt.CommunityPrice < price {
			price = gt.CommunityPrice
		}
		if price <= 0 {
			continue
		}
		spec, curated := gpuSpecByName(gt.DisplayName)
		market := spec.marketPrice
		reliability := spec.reliability
		if !curated {
			reliability = 0.85
		}
		offerings = append(offerings, models.GPUOffering{
			ID:           provider.CanonicalID(Name, gt.DisplayName),
			Provider:     Name,
			GPUType:      gt.DisplayName,
			VRAMGb:       gt.MemoryInGb,
			GPUCount:     1,
			PricePerHour: price,
			MarketPrice:  market,
			Available:    !strings.EqualFold(gt.StockStatus, "unavailable"),
			Reliability:  reliability,
			SavingsPct:   provider.CalculateSavings(price, market),
			Metadata:     map[string]string{"gpuTypeId": gt.ID},
		})
	}
	return offerings, nil
}

func (a *Adapter) LaunchInstance(ctx context.Context, config models.LaunchConfig) (*models.Instance, error) {
	if !a.IsConfigured() {
		return nil, &models.ConfigurationError{Provider: Name, Missing: "api key"}
	}
	gpuCount := config.GPUCount
	if gpuCount <= 0 {
		gpuCount = 1
	}
	pod, err := a.client.createPod(ctx, createPodReq{
		Name:      config.Name,
		GPUTypeID: config.GPUType,
		GPUCount:  gpuCount,
		ImageName: config.Image,
		VolumeGb:  config.DiskGb,
		Env:       config.Env,
	})
	if err != nil {
		return nil, err
	}
	return podToInstance(pod), nil
}

func (a *Adapter) GetInstance(ctx context.Context, id string) (*models.Instance, error) {
	if !a.IsConfigured() {
		return nil, &models.ConfigurationError{Provider: Name, Missing: "api key"}
	}
	pod, err := a.client.getPod(ctx, id)
	if err != nil {
		return nil, err
	}
	return podToInstance(pod), nil
}

func (a *Adapter) ListInstances(ctx context.Context) ([]models.Instance, error) {
	if !a.IsConfigured() {
		return nil, &models.ConfigurationError{Provider: Name, Missing: "api key"}
	}
	pods, err := a.client.listPods(ctx)
	if err != nil {
		return nil, err
	}
	instances := make([]models.Instance, 0, len(pods))
	for i := range pods {
		instances = append(instances, *podToInstance(&pods[i]))
	}
	return instances, nil
}

func (a *Adapter) StopInstance(ctx context.Context, id string) error {
	if !a.IsConfigured() {
		return &models.ConfigurationError{Provider: Name, Missing: "api key"}
	}
	return a.client.stopPod(ctx, id)
}

func (a *Adapter) StartInstance(ctx context.Context, id string) error {
	if !a.IsConfigured() {
		return &models.ConfigurationError{Provider: Name, Missing: "api key"}
	}
	return a.client.startPod(ctx, id)
}

func (a *Adapter) TerminateInstance(ctx context.Context, id string) error {
	if !a.IsConfigured() {
		return &models.ConfigurationError{Provider: Name, Missing: "api key"}
	}
	return a.client.deletePod(ctx, id)
}

// podToInstance maps RunPod's pod shape onto the canonical instance.
func podToInstance(pod *podResp) *models.Instance {
	inst := &models.Instance{
		ID:            pod.ID,
		Provider:      Name,
		Name:          pod.Name,
		Status:        mapPodStatus(pod.DesiredStatus),
		GPUType:       pod.GPUTypeID,
		GPUCount:      pod.GPUCount,
		PricePerHour:  pod.CostPerHr,
		UptimeSeconds: pod.UptimeSeconds,
		CreatedAt:     pod.CreatedAt,
	}
	if pod.PublicIP != "" {
		inst.Connection = &models.ConnectionInfo{
			SSHHost: pod.PublicIP,
			SSHPort: pod.SSHPort,
			SSHUser: "root",
		}
	}
	return inst
}

func mapPodStatus(status string) models.InstanceStatus {
	switch strings.ToUpper(status) {
	case "RUNNING":
		return models.StatusRunning
	case "EXITED", "STOPPED":
		return models.StatusStopped
	case "TERMINATED", "DEAD":
		return models.StatusTerminated
	case "CREATED", "PENDING", "PROVISIONING":
		return models.StatusPending
	case "FAILED":
		return models.StatusError
	}
	return models.StatusDegraded
}
