package cronjob

import (
	"context"
	"testing"
	"time"

	. "github.com/bytedance/mockey"
	. "github.com/smartystreets/goconvey/convey"

	"github.com/primis-labs/primis-backend/pkg/models"
	"github.com/primis-labs/primis-backend/pkg/provider/registry"
)

type recordingAlerter struct {
	outages    []string
	recoveries []string
}

func (r *recordingAlerter) ProviderOutageAlert(_ context.Context, h models.ProviderHealth) error {
	r.outages = append(r.outages, h.Provider)
	return nil
}

func (r *recordingAlerter) ProviderRecoveredAlert(_ context.Context, h models.ProviderHealth) error {
	r.recoveries = append(r.recoveries, h.Provider)
	return nil
}

func TestCronJob(t *testing.T) {
	t.Run("newCronJobFunc", func(t *testing.T) {
		manager := NewCronJobManager(registry.New(), nil, nil)
		PatchConvey("newCronJobFunc", t, func() {
			jobFunc, err := manager.newCronJobFunc(JobCatalogWarmup)
			So(err, ShouldBeNil)
			So(jobFunc, ShouldNotBeNil)

			jobFunc, err = manager.newCronJobFunc(JobHealthSweep)
			So(err, ShouldBeNil)
			So(jobFunc, ShouldNotBeNil)

			jobFunc, err = manager.newCronJobFunc("unknown")
			So(err, ShouldNotBeNil)
			So(jobFunc, ShouldBeNil)
		})
	})

	t.Run("handleTransition", func(t *testing.T) {
		PatchConvey("handleTransition", t, func() {
			alerter := &recordingAlerter{}
			manager := NewCronJobManager(registry.New(), nil, alerter)
			ctx := context.Background()

			unavailable := models.ProviderHealth{
				Provider: "runpod", Status: models.HealthUnavailable,
				Message: "connection refused", CheckedAt: time.Now(),
			}
			healthy := models.ProviderHealth{
				Provider: "runpod", Status: models.HealthHealthy, CheckedAt: time.Now(),
			}

			// first unavailable probe alerts once
			manager.handleTransition(ctx, unavailable)
			So(alerter.outages, ShouldResemble, []string{"runpod"})

			// repeated unavailable probes stay quiet
			manager.handleTransition(ctx, unavailable)
			So(alerter.outages, ShouldResemble, []string{"runpod"})

			// recovery alerts once
			manager.handleTransition(ctx, healthy)
			So(alerter.recoveries, ShouldResemble, []string{"runpod"})

			// steady healthy probes stay quiet
			manager.handleTransition(ctx, healthy)
			So(alerter.recoveries, ShouldResemble, []string{"runpod"})
		})
	})

	t.Run("AddCronJob", func(t *testing.T) {
		PatchConvey("AddCronJob", t, func() {
			manager := NewCronJobManager(registry.New(), nil, &recordingAlerter{})

			entryID, err := manager.AddCronJob(JobHealthSweep, "@every 1m")
			So(err, ShouldBeNil)
			So(entryID, ShouldBeGreaterThan, 0)

			_, err = manager.AddCronJob("unknown", "@every 1m")
			So(err, ShouldNotBeNil)

			_, err = manager.AddCronJob(JobHealthSweep, "not a cron spec")
			So(err, ShouldNotBeNil)
		})
	})
}
