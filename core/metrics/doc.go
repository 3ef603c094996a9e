// Package metrics exposes Prometheus counters for the web server.
//
//	collector := metrics.New(metrics.Config{}, nil)
//	srv := server.New(opts, handler, server.WithMetrics(collector))
//
// Metrics:
//   - <ns>_http_requests_total{method,code}
//   - <ns>_http_request_duration_seconds{method}
//   - <ns>_tls_certificate_loads_total{result}
//   - <ns>_tls_certificates_cached
//
// Handler serves the registry; mount it wherever the application routes
// "/metrics".
package metrics
