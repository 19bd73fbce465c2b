package config

import "github.com/spf13/viper"

const (
	envKey      = "env"
	appNameKey  = "app_name"
	logLevelKey = "log_level"
)

type EnvVars struct {
	v *viper.Viper
}

var _ EnvConfig = EnvVars{}

func (e EnvVars) GetEnv() string {
	return e.v.GetString(envKey)
}

func (e EnvVars) GetAppName() string {
	return e.v.GetString(appNameKey)
}

func (e EnvVars) GetLogLevel() string {
	return e.v.GetString(logLevelKey)
}
