package cronjob

import (
	"context"

	"k8s.io/klog/v2"

	"github.com/primis-labs/primis-backend/pkg/models"
)

// warmupFunc refreshes the router caches so interactive requests keep hitting
// warm snapshots instead of paying the vendor fan-out.
func (cm *CronJobManager) warmupFunc() {
	ctx, cancel := context.WithTimeout(context.Background(), jobTimeout)
	defer cancel()

	if err := cm.Router.Warm(ctx); err != nil {
		klog.Errorf("catalog warmup failed: %v", err)
		return
	}
	klog.V(2).Info("catalog warmup completed")
}

// healthSweepFunc probes every provider and alerts on status transitions.
// Only configured providers alert: an adapter without credentials is
// permanently unavailable and not an outage.
func (cm *CronJobManager) healthSweepFunc() {
	ctx, cancel := context.WithTimeout(context.Background(), jobTimeout)
	defer cancel()

	probes, err := cm.Registry.GetAllProviderHealth(ctx)
	if err != nil {
		klog.Errorf("health sweep failed: %v", err)
		return
	}

	configured := make(map[string]bool)
	for _, p := range cm.Registry.GetConfiguredInstanceProviders() {
		configured[p.Name()] = true
	}
	for _, p := range cm.Registry.GetConfiguredServerlessProviders() {
		configured[p.Name()] = true
	}

	for _, probe := range probes {
		if !configured[probe.Provider] {
			continue
		}
		cm.handleTransition(ctx, probe)
	}
}

func (cm *CronJobManager) handleTransition(ctx context.Context, probe models.ProviderHealth) {
	cm.cronMutex.Lock()
	prev, seen := cm.lastStatus[probe.Provider]
	cm.lastStatus[probe.Provider] = probe.Status
	cm.cronMutex.Unlock()

	switch {
	case probe.Status == models.HealthUnavailable && (!seen || prev != models.HealthUnavailable):
		klog.Warningf("provider %s turned unavailable: %s", probe.Provider, probe.Message)
		if err := cm.Alerter.ProviderOutageAlert(ctx, probe); err != nil {
			klog.Errorf("outage alert for %s failed: %v", probe.Provider, err)
		}
	case probe.Status != models.HealthUnavailable && seen && prev == models.HealthUnavailable:
		klog.Infof("provider %s recovered (%s)", probe.Provider, probe.Status)
		if err := cm.Alerter.ProviderRecoveredAlert(ctx, probe); err != nil {
			klog.Errorf("recovery alert for %s failed: %v", probe.Provider, err)
		}
	}
}
