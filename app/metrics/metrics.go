package metrics

import (
	"fmt"
	"net/http"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/exporters/prometheus"
	"go.opentelemetry.io/otel/metric"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
)

// AppMetrics holds the application's metric instruments.
type AppMetrics struct {
	SignupRequestsTotal metric.Int64Counter
	LoginRequestsTotal  metric.Int64Counter
	AuthFailuresTotal   metric.Int64Counter
}

// New creates the instruments from the global meter provider. Before Setup
// runs (and always in tests) the provider is the otel no-op, so the
// instruments exist but record nothing.
func New() (*AppMetrics, error) {
	meter := otel.GetMeterProvider().Meter("account-api")
	m := &AppMetrics{}
	var err error

	m.SignupRequestsTotal, err = meter.Int64Counter(
		"signup_requests_total",
		metric.WithDescription("Total number of signup requests received"),
		metric.WithUnit("{request}"),
	)
	if err != nil {
		return nil, fmt.Errorf("create signup_requests_total: %w", err)
	}

	m.LoginRequestsTotal, err = meter.Int64Counter(
		"login_requests_total",
		metric.WithDescription("Total number of login requests received"),
		metric.WithUnit("{request}"),
	)
	if err != nil {
		return nil, fmt.Errorf("create login_requests_total: %w", err)
	}

	m.AuthFailuresTotal, err = meter.Int64Counter(
		"auth_failures_total",
		metric.WithDescription("Total number of rejected credential checks"),
		metric.WithUnit("{failure}"),
	)
	if err != nil {
		return nil, fmt.Errorf("create auth_failures_total: %w", err)
	}

	return m, nil
}

// Setup installs a meter provider backed by the Prometheus exporter and
// returns the scrape handler to mount on the metrics port.
func Setup() (http.Handler, error) {
	exporter, err := prometheus.New()
	if err != nil {
		return nil, fmt.Errorf("create prometheus exporter: %w", err)
	}
	mp := sdkmetric.NewMeterProvider(sdkmetric.WithReader(exporter))
	otel.SetMeterProvider(mp)

	return promhttp.Handler(), nil
}
