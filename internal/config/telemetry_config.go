package config

import "github.com/spf13/viper"

const (
	tracingEnabledKey = "tracing_enabled"
	otlpEndpointKey   = "otlp_endpoint"
	otlpInsecureKey   = "otlp_insecure"
)

type TelemetryConfig interface {
	GetTracingEnabled() bool
	GetOTLPEndpoint() string
	GetOTLPInsecure() bool
}

type Telemetry struct {
	v *viper.Viper
}

var _ TelemetryConfig = Telemetry{}

func (t Telemetry) GetTracingEnabled() bool {
	return t.v.GetBool(tracingEnabledKey)
}

// GetOTLPEndpoint returns the collector host:port spans are exported to; empty disables export
func (t Telemetry) GetOTLPEndpoint() string {
	return t.v.GetString(otlpEndpointKey)
}

func (t Telemetry) GetOTLPInsecure() bool {
	return t.v.GetBool(otlpInsecureKey)
}
