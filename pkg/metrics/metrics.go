package metrics

import (
	"fmt"
	"net"
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	QuoteRequestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{Name: "quote_requests_total", Help: "Quote API requests by endpoint and outcome"},
		[]string{"endpoint", "outcome"},
	)
	QuoteRetriesTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{Name: "quote_retries_total", Help: "Quote API request retries"},
		[]string{"endpoint"},
	)
	QuoteStateTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{Name: "quote_state_total", Help: "Quote results published by trade state"},
		[]string{"state"},
	)
	QuoteLatency = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{Name: "quote_request_seconds", Help: "Quote API request latency", Buckets: prometheus.DefBuckets},
		[]string{"endpoint"},
	)
)

func init() {
	prometheus.MustRegister(QuoteRequestsTotal, QuoteRetriesTotal, QuoteStateTotal, QuoteLatency)
}

// Serve binds addr and exposes /metrics on it in the background.
// The returned server's Addr is the bound address.
func Serve(addr string) (*http.Server, error) {
	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return nil, fmt.Errorf("metrics listen on %s: %w", addr, err)
	}

	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.Handler())
	srv := &http.Server{Addr: ln.Addr().String(), Handler: mux}
	go func() { _ = srv.Serve(ln) }()
	return srv, nil
}
