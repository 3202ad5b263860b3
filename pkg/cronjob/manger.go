// Package cronjob schedules the background jobs that keep the marketplace
// fresh: the catalog warmup and the provider health sweep.
package cronjob

import (
	"fmt"
	"sync"
	"time"

	"github.com/robfig/cron/v3"
	"k8s.io/klog/v2"

	"github.com/primis-labs/primis-backend/pkg/alert"
	"github.com/primis-labs/primis-backend/pkg/models"
	"github.com/primis-labs/primis-backend/pkg/provider/registry"
	"github.com/primis-labs/primis-backend/pkg/router"
)

const (
	JobCatalogWarmup = "catalog-warmup"
	JobHealthSweep   = "health-sweep"

	jobTimeout = 2 * time.Minute
)

type CronJobManager struct {
	Registry *registry.Registry
	Router   *router.SmartRouter
	Alerter  alert.AlertInterface

	cron      *cron.Cron
	cronMutex sync.RWMutex

	// lastStatus remembers the previous sweep so only transitions alert.
	lastStatus map[string]models.HealthStatus
}

func NewCronJobManager(reg *registry.Registry, rt *router.SmartRouter, alerter alert.AlertInterface) *CronJobManager {
	return &CronJobManager{
		Registry:   reg,
		Router:     rt,
		Alerter:    alerter,
		cron:       cron.New(cron.WithLocation(time.Local)),
		lastStatus: make(map[string]models.HealthStatus),
	}
}

// AddCronJob adds a named job to the scheduler.
func (cm *CronJobManager) AddCronJob(jobName, jobSpec string) (cron.EntryID, error) {
	f, err := cm.newCronJobFunc(jobName)
	if err != nil {
		klog.Error(err)
		return -1, err
	}

	cm.cronMutex.Lock()
	defer cm.cronMutex.Unlock()
	entryID, err := cm.cron.AddFunc(jobSpec, f)
	if err != nil {
		klog.Error(err)
		return -1, err
	}
	return entryID, nil
}

// newCronJobFunc creates the appropriate cron job function based on job name
func (cm *CronJobManager) newCronJobFunc(jobName string) (cron.FuncJob, error) {
	switch jobName {
	case JobCatalogWarmup:
		return cm.warmupFunc, nil
	case JobHealthSweep:
		return cm.healthSweepFunc, nil
	default:
		return nil, fmt.Errorf("unsupported cron job: %s", jobName)
	}
}

// Start begins executing scheduled jobs.
func (cm *CronJobManager) Start() {
	cm.cronMutex.Lock()
	defer cm.cronMutex.Unlock()
	cm.cron.Start()
	klog.Info("CronJobManager: cron scheduler started")
}

// StopCron stops the cron scheduler
func (cm *CronJobManager) StopCron() {
	cm.cronMutex.Lock()
	defer cm.cronMutex.Unlock()
	cm.cron.Stop()
}
