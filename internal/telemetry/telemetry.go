// Package telemetry wires optional OpenTelemetry tracing through the
// Honeycomb distribution. When disabled every helper is a no-op passthrough.
package telemetry

import (
	"net/http"
	"time"

	"github.com/honeycombio/honeycomb-opentelemetry-go"
	"github.com/honeycombio/otel-config-go/otelconfig"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
)

// Setup configures the global tracer provider. Exporter endpoints and keys
// come from the standard OTEL_* and HONEYCOMB_* environment variables.
// The returned func flushes and shuts the provider down.
func Setup(enabled bool) (func(), error) {
	if !enabled {
		return func() {}, nil
	}

	bsp := honeycomb.NewBaggageSpanProcessor()
	return otelconfig.ConfigureOpenTelemetry(
		otelconfig.WithSpanProcessor(bsp),
	)
}

// HTTPClient returns the client used for Monzo calls, tracing each round
// trip when enabled.
func HTTPClient(enabled bool, timeout time.Duration) *http.Client {
	client := &http.Client{Timeout: timeout}
	if enabled {
		client.Transport = otelhttp.NewTransport(http.DefaultTransport)
	}
	return client
}

// Handler wraps h in a server span named operation when enabled.
func Handler(enabled bool, h http.Handler, operation string) http.Handler {
	if !enabled {
		return h
	}
	return otelhttp.NewHandler(h, operation)
}
