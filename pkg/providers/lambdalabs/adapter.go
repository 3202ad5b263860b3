package lambdalabs

import (
	"context"
	"strings"
	"time"

	"github.com/primis-labs/primis-backend/pkg/models"
	"github.com/primis-labs/primis-backend/pkg/provider"
)

// Name is the provider token used in canonical ids.
const Name = "lambdalabs"

type Config struct {
	APIKey  string
	BaseURL string
	// SSHKeyNames are required by the vendor on every launch.
	SSHKeyNames []string
	// DefaultRegion is used when the launch config names none.
	DefaultRegion string
}

type Adapter struct {
	cfg    Config
	client *client
}

var _ provider.InstanceProvider = (*Adapter)(nil)

func New(cfg Config) *Adapter {
	return &Adapter{
		cfg:    cfg,
		client: newClient(cfg.APIKey, cfg.BaseURL),
	}
}

func (a *Adapter) Name() string { return Name }

func (a *Adapter) IsConfigured() bool { return a.cfg.APIKey != "" }

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
	case health.LatencyMs > 2000:
		health.Status = models.HealthDegraded
		health.Message = "high API latency"
	default:
		health.Status = models.HealthHealthy
	}
	return health
}

// gpuCatalog mirrors the vendor's fixed instance-type sheet so the catalog
// survives unconfigured mode. Market prices track big-cloud on-demand rates.
var gpuCatalog = []struct {
	typeName    string
	gpuName     string
	vramGb      int
	gpuCount    int
	listPrice   float64
	marketPrice float64
}{
	{"gpu_1x_a10", "NVIDIA A10", 24, 1, 0.75, 1.01},
	{"gpu_1x_a100_sxm4", "NVIDIA A100 SXM4", 40, 1, 1.29, 2.21},
	{"gpu_8x_a100_80gb_sxm4", "NVIDIA A100 80GB SXM4", 80, 8, 1.79, 2.75},
	{"gpu_1x_h100_pcie", "NVIDIA H100 PCIe", 80, 1, 2.49, 3.89},
	{"gpu_8x_h100_sxm5", "NVIDIA H100 SXM5", 80, 8, 2.99, 4.25},
}

const reliability = 0.97

func (a *Adapter) staticOfferings() []models.GPUOffering {
	offerings := make([]models.GPUOffering, 0, len(gpuCatalog))
	for _, spec := range gpuCatalog {
		offerings = append(offerings, models.GPUOffering{
			ID:           provider.CanonicalID(Name, spec.gpuName),
			Provider:     Name,
			GPUType:      spec.gpuName,
			VRAMGb:       spec.vramGb,
			GPUCount:     spec.gpuCount,
			PricePerHour: spec.listPrice,
			MarketPrice:  spec.marketPrice,
			Available:    false,
			Reliability:  reliability,
			SavingsPct:   provider.CalculateSavings(spec.listPrice, spec.marketPrice),
			Metadata:     map[string]string{"instanceType": spec.typeName},
		})
	}
	return offerings
}

func (a *Adapter) GetGPUOfferings(ctx context.Context) ([]models.GPUOffering, error) {
	if !a.IsConfigured() {
		return a.staticOfferings(), nil
	}
	types, err := a.client.listInstanceTypes(ctx)
	if err != nil {
		return nil, err
	}
	offerings := make([]models.GPUOffering, 0, len(types))
	for _, t := range types {
		it := t.InstanceType
		name := gpuNameFromDescription(it.Description, it.Name)
		price := float64(it.PriceCentsPerHour) / 100
		market := marketPriceFor(it.Name)
		offerings = append(offerings, models.GPUOffering{
			ID:           provider.CanonicalID(Name, name),
			Provider:     Name,
			GPUType:      name,
			VRAMGb:       vramFor(it.Name),
			GPUCount:     it.Specs.GPUs,
			PricePerHour: price,
			MarketPrice:  market,
			Available:    len(t.RegionsWithCapacity) > 0,
			Reliability:  reliability,
			SavingsPct:   provider.CalculateSavings(price, market),
			Metadata:     map[string]string{"instanceType": it.Name},
		})
	}
	return offerings, nil
}

func marketPriceFor(typeName string) float64 {
	for _, spec := range gpuCatalog {
		if spec.typeName == typeName {
			return spec.marketPrice
		}
	}
	return 0
}

func vramFor(typeName string) int {
	for _, spec := range gpuCatalog {
		if spec.typeName == typeName {
			return spec.vramGb
		}
	}
	return 0
}

// gpuNameFromDescription extracts the GPU model out of descriptions like
// "1x NVIDIA A100 (40 GB SXM4)"; falls back to the raw type name.
func gpuNameFromDescription(description, fallback string) string {
	s := description
	if i := strings.Index(s, "x "); i >= 0 && i < 3 {
		s = s[i+2:]
	}
	if i := strings.Index(s, " ("); i >= 0 {
		s = s[:i]
	}
	s = strings.TrimSpace(s)
	if s == "" {
		return fallback
	}
	return s
}

func (a *Adapter) LaunchInstance(ctx context.Context, config models.LaunchConfig) (*models.Instance, error) {
	if !a.IsConfigured() {
		return nil, &models.ConfigurationError{Provider: Name, Missing: "api key"}
	}
	region := config.Region
	if region == "" {
		region = a.cfg.DefaultRegion
	}
	id, err := a.client.launch(ctx, launchReq{
		RegionName:       region,
		InstanceTypeName: instanceTypeFor(config.GPUType),
		SSHKeyNames:      a.cfg.SSHKeyNames,
		Name:             config.Name,
	})
	if err != nil {
		return nil, err
	}
	return &models.Instance{
		ID:        id,
		Provider:  Name,
		Name:      config.Name,
		Status:    models.StatusPending,
		GPUType:   config.GPUType,
		GPUCount:  config.GPUCount,
		CreatedAt: time.Now(),
	}, nil
}

// instanceTypeFor maps a caller GPU type back to the vendor's type name,
// accepting either form.
func instanceTypeFor(gpuType string) string {
	normalized := strings.ToUpper(provider.NormalizedGPUType(gpuType))
	for _, spec := range gpuCatalog {
		if spec.typeName == gpuType ||
			strings.Contains(strings.ToUpper(provider.NormalizedGPUType(spec.gpuName)), normalized) {
			return spec.typeName
		}
	}
	return gpuType
}

func (a *Adapter) GetInstance(ctx context.Context, id string) (*models.Instance, error) {
	if !a.IsConfigured() {
		return nil, &models.ConfigurationError{Provider: Name, Missing: "api key"}
	}
	inst, err := a.client.getInstance(ctx, id)
	if err != nil {
		return nil, err
	}
	return mapInstance(inst), nil
}

func (a *Adapter) ListInstances(ctx context.Context) ([]models.Instance, error) {
	if !a.IsConfigured() {
		return nil, &models.ConfigurationError{Provider: Name, Missing: "api key"}
	}
	raw, err := a.client.listInstances(ctx)
	if err != nil {
		return nil, err
	}
	instances := make([]models.Instance, 0, len(raw))
	for i := range raw {
		instances = append(instances, *mapInstance(&raw[i]))
	}
	return instances, nil
}

// StopInstance always fails: the vendor bills until terminate and exposes no
// stopped state. Coercing to terminate here would destroy data behind the
// caller's back.
func (a *Adapter) StopInstance(_ context.Context, _ string) error {
	return &models.UnsupportedOperationError{Provider: Name, Operation: "stop (rent-until-terminate)"}
}

// StartInstance always fails, same reason as StopInstance.
func (a *Adapter) StartInstance(_ context.Context, _ string) error {
	return &models.UnsupportedOperationError{Provider: Name, Operation: "start (rent-until-terminate)"}
}

func (a *Adapter) TerminateInstance(ctx context.Context, id string) error {
	if !a.IsConfigured() {
		return &models.ConfigurationError{Provider: Name, Missing: "api key"}
	}
	return a.client.terminate(ctx, id)
}

func mapInstance(raw *instanceResp) *models.Instance {
	inst := &models.Instance{
		ID:           raw.ID,
		Provider:     Name,
		Name:         raw.Name,
		Status:       mapStatus(raw.Status),
		GPUType:      gpuNameFromDescription(raw.InstanceType.Description, raw.InstanceType.Name),
		GPUCount:     raw.InstanceType.Specs.GPUs,
		PricePerHour: float64(raw.InstanceType.PriceCentsPerHour) / 100,
		Metadata:     map[string]string{"region": raw.Region.Name},
	}
	if raw.IP != "" {
		inst.Connection = &models.ConnectionInfo{SSHHost: raw.IP, SSHPort: 22, SSHUser: "ubuntu"}
	}
	return inst
}

func mapStatus(status string) models.InstanceStatus {
	switch strings.ToLower(status) {
	case "active", "running":
		return models.StatusRunning
	case "booting":
		return models.StatusPending
	case "terminating", "terminated":
		return models.StatusTerminated
	case "unhealthy":
		return models.StatusDegraded
	}
	return models.StatusError
}
