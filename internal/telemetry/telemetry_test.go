package telemetry_test

import (
	"context"
	"testing"

	"github.com/jrsteele09/go-jobportal-client/internal/telemetry"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"
)

func TestSetup_NoEndpoint(t *testing.T) {
	shutdown, err := telemetry.Setup(context.Background(), "jobportal", "", false, zerolog.Nop())
	require.NoError(t, err)
	require.NoError(t, shutdown(context.Background()))
}

func TestSetup_Endpoint(t *testing.T) {
	// the gRPC exporter connects lazily, so no collector is needed to build the provider
	shutdown, err := telemetry.Setup(context.Background(), "jobportal", "127.0.0.1:4317", true, zerolog.Nop())
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_ = shutdown(ctx)
}
