package config

import (
	"os"
	"sync"

	"github.com/gin-gonic/gin"
	"k8s.io/klog/v2"
	"sigs.k8s.io/yaml"
)

type Config struct {
	// Port Settings
	Host        string `json:"host"`        // The domain name of the server.
	ServerAddr  string `json:"serverAddr"`  // The address the server endpoint binds to.
	MetricsAddr string `json:"metricsAddr"` // The address the metric endpoint binds to.
	ProbeAddr   string `json:"probeAddr"`   // The address the probe endpoint binds to.

	Auth struct {
		AccessTokenSecret  string `json:"accessTokenSecret"`
		RefreshTokenSecret string `json:"refreshTokenSecret"`
		// AdminKey grants the admin role on login; OperatorKey the user role.
		AdminKey    string `json:"adminKey"`
		OperatorKey string `json:"operatorKey"`
	} `json:"auth"`

	Postgres struct {
		Host     string `json:"host"`
		Port     string `json:"port"`
		DBName   string `json:"dbname"`
		User     string `json:"user"`
		Password string `json:"password"`
		SSLMode  string `json:"sslmode"`
		TimeZone string `json:"TimeZone"`
	} `json:"postgres"`

	SMTP struct {
		Host     string `json:"host"`
		Port     int    `json:"port"`
		User     string `json:"user"`
		Password string `json:"password"`
		Notify   string `json:"notify"` // Receiver of provider outage alerts.
	} `json:"smtp"`

	// Vendor credentials are injected at adapter construction, never read
	// from the environment at call time.
	Providers struct {
		RunPod struct {
			APIKey        string `json:"apiKey"`
			BaseURL       string `json:"baseURL"`
			ServerlessURL string `json:"serverlessURL"`
		} `json:"runpod"`
		LambdaLabs struct {
			APIKey        string   `json:"apiKey"`
			BaseURL       string   `json:"baseURL"`
			SSHKeyNames   []string `json:"sshKeyNames"`
			DefaultRegion string   `json:"defaultRegion"`
		} `json:"lambdalabs"`
		Together struct {
			APIKey  string `json:"apiKey"`
			BaseURL string `json:"baseURL"`
		} `json:"together"`
	} `json:"providers"`

	Router struct {
		CacheTTLSeconds int    `json:"cacheTTLSeconds"` // 0 means the 60s default.
		WarmupSpec      string `json:"warmupSpec"`      // Cron spec for the catalog warmup job.
		HealthSweepSpec string `json:"healthSweepSpec"` // Cron spec for the provider health sweep.
	} `json:"router"`
}

var (
	once   sync.Once
	config *Config
)

func GetConfig() *Config {
	once.Do(func() {
		config = initConfig()
	})
	return config
}

func IsDebugMode() bool {
	return gin.Mode() == gin.DebugMode
}

// initConfig reads the configuration file. In debug mode it reads
// ./etc/debug-config.yaml (or PRIMIS_DEBUG_CONFIG_PATH); otherwise it reads
// the config.yaml mounted from ConfigMap.
func initConfig() *Config {
	config := &Config{}
	var configPath string
	if IsDebugMode() {
		if os.Getenv("PRIMIS_DEBUG_CONFIG_PATH") != "" {
			configPath = os.Getenv("PRIMIS_DEBUG_CONFIG_PATH")
		} else {
			configPath = "./etc/debug-config.yaml"
		}
	} else {
		configPath = "/etc/config/config.yaml"
	}
	klog.Info("config path: ", configPath)

	err := readConfig(configPath, config)
	if err != nil {
		klog.Error("init config", err)
		panic(err)
	}
	return config
}

func readConfig(filePath string, config *Config) error {
	data, err := os.ReadFile(filePath)
	if err != nil {
		return err
	}
	err = yaml.Unmarshal(data, config)
	if err != nil {
		return err
	}
	return nil
}
