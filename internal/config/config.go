package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

const (
	envPrefix      = "JOBPORTAL"
	configFileName = "jobportal"
)

type Config interface {
	EnvConfig
	APIConfig
	StoreConfig
	TelemetryConfig
}

type EnvConfig interface {
	GetEnv() string
	GetAppName() string
	GetLogLevel() string
}

type mainConfig struct {
	EnvVars
	API
	Store
	Telemetry
}

// New returns a Config resolved from environment variables only.
func New() Config {
	return newMainConfig(newViper())
}

// Load resolves configuration from an optional .env file, an optional jobportal.yaml
// (current directory, then $HOME/.jobportal) and JOBPORTAL_* environment variables.
// An explicit configPath must exist.
func Load(configPath string) (Config, error) {
	// .env is optional; a missing file is not an error
	_ = godotenv.Load()

	v := newViper()
	if configPath != "" {
		v.SetConfigFile(configPath)
	} else {
		v.SetConfigName(configFileName)
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		if home, err := os.UserHomeDir(); err == nil {
			v.AddConfigPath(filepath.Join(home, ".jobportal"))
		}
	}

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok || configPath != "" {
			return nil, fmt.Errorf("[config Load] read config: %w", err)
		}
	}

	return newMainConfig(v), nil
}

func newMainConfig(v *viper.Viper) mainConfig {
	return mainConfig{
		EnvVars:   EnvVars{v: v},
		API:       API{v: v},
		Store:     Store{v: v},
		Telemetry: Telemetry{v: v},
	}
}

func newViper() *viper.Viper {
	v := viper.New()
	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
	v.AutomaticEnv()
	setDefaults(v)
	return v
}

func setDefaults(v *viper.Viper) {
	v.SetDefault(envKey, "DEV")
	v.SetDefault(appNameKey, "JobPortal")
	v.SetDefault(logLevelKey, "info")

	v.SetDefault(baseURLKey, "http://localhost:15000/api")
	v.SetDefault(requestTimeoutKey, 15*time.Second)
	v.SetDefault(refreshTimeoutKey, 10*time.Second)
	v.SetDefault(userAgentKey, "go-jobportal-client")

	v.SetDefault(storeBackendKey, StoreBackendFile)
	v.SetDefault(storePathKey, defaultStorePath())
	v.SetDefault(redisAddrKey, "127.0.0.1:6379")
	v.SetDefault(redisDBKey, 0)
	v.SetDefault(redisPrefixKey, "jobportal:session:")

	v.SetDefault(tracingEnabledKey, false)
	v.SetDefault(otlpEndpointKey, "")
	v.SetDefault(otlpInsecureKey, false)
}

func defaultStorePath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return filepath.Join(".", ".jobportal", "session.json")
	}
	return filepath.Join(home, ".jobportal", "session.json")
}
