package main

import (
	"os"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"k8s.io/klog/v2"

	"github.com/primis-labs/primis-backend/internal"
	"github.com/primis-labs/primis-backend/internal/handler"
	"github.com/primis-labs/primis-backend/pkg/alert"
	"github.com/primis-labs/primis-backend/pkg/config"
	"github.com/primis-labs/primis-backend/pkg/cronjob"
	"github.com/primis-labs/primis-backend/pkg/db"
	"github.com/primis-labs/primis-backend/pkg/db/launchrecord"
	"github.com/primis-labs/primis-backend/pkg/provider/registry"
	"github.com/primis-labs/primis-backend/pkg/providers/lambdalabs"
	"github.com/primis-labs/primis-backend/pkg/providers/runpod"
	"github.com/primis-labs/primis-backend/pkg/providers/together"
	"github.com/primis-labs/primis-backend/pkg/router"
)

const (
	defaultServerAddr = ":8088"
	defaultWarmupSpec = "@every 5m"
	defaultHealthSpec = "@every 1m"
)

func main() {
	// set global timezone
	time.Local = time.UTC

	// load backend config from file
	backendConfig := config.GetConfig()

	// variable changes in local development
	if gin.Mode() == gin.DebugMode {
		err := godotenv.Load(".debug.env")
		if err != nil {
			panic(err.Error())
		}
		be := os.Getenv("PRIMIS_BE_PORT")
		if be == "" {
			panic("PRIMIS_BE_PORT is not set")
		}
		backendConfig.ServerAddr = ":" + be
	}

	// 1. database and the launch audit trail
	launchStore := launchrecord.NewDBService(db.GetDB())

	// 2. provider adapters; credentials come from config only
	reg := registry.New()

	rp := runpod.New(runpod.Config{
		APIKey:        backendConfig.Providers.RunPod.APIKey,
		BaseURL:       backendConfig.Providers.RunPod.BaseURL,
		ServerlessURL: backendConfig.Providers.RunPod.ServerlessURL,
	})
	reg.RegisterInstanceProvider(rp)
	reg.RegisterServerlessProvider(rp)

	reg.RegisterInstanceProvider(lambdalabs.New(lambdalabs.Config{
		APIKey:        backendConfig.Providers.LambdaLabs.APIKey,
		BaseURL:       backendConfig.Providers.LambdaLabs.BaseURL,
		SSHKeyNames:   backendConfig.Providers.LambdaLabs.SSHKeyNames,
		DefaultRegion: backendConfig.Providers.LambdaLabs.DefaultRegion,
	}))

	reg.RegisterServerlessProvider(together.New(together.Config{
		APIKey:  backendConfig.Providers.Together.APIKey,
		BaseURL: backendConfig.Providers.Together.BaseURL,
	}))

	// 3. smart router on top of the registry
	var routerOpts []router.Option
	if ttl := backendConfig.Router.CacheTTLSeconds; ttl > 0 {
		routerOpts = append(routerOpts, router.WithTTL(time.Duration(ttl)*time.Second))
	}
	smartRouter := router.New(reg, routerOpts...)

	// 4. background jobs: catalog warmup and provider health sweep
	cronMgr := cronjob.NewCronJobManager(reg, smartRouter, alert.GetAlertMgr())
	warmupSpec := backendConfig.Router.WarmupSpec
	if warmupSpec == "" {
		warmupSpec = defaultWarmupSpec
	}
	healthSpec := backendConfig.Router.HealthSweepSpec
	if healthSpec == "" {
		healthSpec = defaultHealthSpec
	}
	if _, err := cronMgr.AddCronJob(cronjob.JobCatalogWarmup, warmupSpec); err != nil {
		klog.Fatal(err)
	}
	if _, err := cronMgr.AddCronJob(cronjob.JobHealthSweep, healthSpec); err != nil {
		klog.Fatal(err)
	}
	cronMgr.Start()
	defer cronMgr.StopCron()

	// 5. HTTP surface
	backend := internal.Register(&handler.RegisterConfig{
		Registry:    reg,
		Router:      smartRouter,
		LaunchStore: launchStore,
	})

	addr := backendConfig.ServerAddr
	if addr == "" {
		addr = defaultServerAddr
	}
	klog.Infof("primis backend listening on %s", addr)
	if err := backend.R.Run(addr); err != nil {
		klog.Fatal(err)
	}
}
