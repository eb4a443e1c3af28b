package telemetry_test

import (
	"context"
	"testing"

	"github.com/san-kum/fractalvis/internal/telemetry"
)

func TestSetup_NoopWhenEndpointEmpty(t *testing.T) {
	t.Setenv(telemetry.EndpointEnv, "")
	t.Setenv(telemetry.EnabledEnv, "")

	shutdown, err := telemetry.Setup(context.Background(), "fractalvis-test")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := shutdown(context.Background()); err != nil {
		t.Fatalf("shutdown error: %v", err)
	}
}

func TestSetup_NoopWhenExplicitlyDisabled(t *testing.T) {
	t.Setenv(telemetry.EndpointEnv, "http://localhost:4318")
	t.Setenv(telemetry.EnabledEnv, "false")

	shutdown, err := telemetry.Setup(context.Background(), "fractalvis-test")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := shutdown(context.Background()); err != nil {
		t.Fatalf("shutdown error: %v", err)
	}
}

func TestSetup_ProviderShutsDownCleanly(t *testing.T) {
	// Non-routable, so nothing is exported.
	t.Setenv(telemetry.EndpointEnv, "http://192.0.2.1:4318")
	t.Setenv(telemetry.EnabledEnv, "")

	shutdown, err := telemetry.Setup(context.Background(), "fractalvis-test")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := shutdown(context.Background()); err != nil {
		t.Fatalf("shutdown error: %v", err)
	}
}

func TestTracerWithoutSetupIsUsable(t *testing.T) {
	ctx, span := telemetry.Tracer().Start(context.Background(), "render.frame")
	defer span.End()
	if ctx == nil {
		t.Fatal("nil context")
	}
}
