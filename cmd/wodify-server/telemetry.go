package main

import (
	"context"
	"wodassist-backend/internal/components/serviceutil"
	"wodassist-backend/internal/components/telemetry"
)

// initTelemetry sets up logging and otel exporters, the returned function
// flushes the exporters.
func initTelemetry(ctx context.Context, verbose bool, cfg telemetry.OtlpConfig) func() {
	telemetry.InitSlog(verbose)

	t, err := telemetry.Setup(ctx, "wodify-server", telemetry.Config{Otlp: cfg})
	if err != nil {
		serviceutil.Fatal("setup telemetry", err)
	}
	telemetry.InstrumentPerfStats(ctx)

	return func() {
		t.Shutdown(context.Background())
	}
}
