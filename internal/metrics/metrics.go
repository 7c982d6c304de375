// Package metrics exposes the service's Prometheus counters.
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Recorder is what services and middleware report to.
type Recorder interface {
	RecordLogin(outcome string)
	RecordRegistration(role string)
	RecordAuthDenial(kind string)
	RecordHTTPRequest(method string, status int, elapsed time.Duration)
}

// Login outcomes.
const (
	LoginSuccess = "success"
	LoginFailure = "failure"
)

type Collector struct {
	logins        *prometheus.CounterVec
	registrations *prometheus.CounterVec
	denials       *prometheus.CounterVec
	requests      *prometheus.CounterVec
	duration      prometheus.Histogram
}

var _ Recorder = (*Collector)(nil)

// NewCollector creates the collectors and registers them on reg.
func NewCollector(reg prometheus.Registerer) *Collector {
	c := &Collector{
		logins: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "carematch_logins_total",
			Help: "Login attempts by outcome.",
		}, []string{"outcome"}),
		registrations: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "carematch_registrations_total",
			Help: "Completed registrations by role.",
		}, []string{"role"}),
		denials: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "carematch_auth_denials_total",
			Help: "Requests rejected by authentication or authorization, by error kind.",
		}, []string{"kind"}),
		requests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "carematch_http_requests_total",
			Help: "HTTP requests by method and status code.",
		}, []string{"method", "status"}),
		duration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "carematch_http_request_duration_seconds",
			Help:    "HTTP request latency in seconds.",
			Buckets: prometheus.DefBuckets,
		}),
	}

	reg.MustRegister(c.logins, c.registrations, c.denials, c.requests, c.duration)
	return c
}

func (c *Collector) RecordLogin(outcome string) {
	c.logins.WithLabelValues(outcome).Inc()
}

func (c *Collector) RecordRegistration(role string) {
	c.registrations.WithLabelValues(role).Inc()
}

func (c *Collector) RecordAuthDenial(kind string) {
	c.denials.WithLabelValues(kind).Inc()
}

func (c *Collector) RecordHTTPRequest(method string, status int, elapsed time.Duration) {
	c.requests.WithLabelValues(method, strconv.Itoa(status)).Inc()
	c.duration.Observe(elapsed.Seconds())
}

// Nop discards everything.
type Nop struct{}

func (Nop) RecordLogin(string) {}
func (Nop) RecordRegistration(string) {}
func (Nop) RecordAuthDenial(string) {}
func (Nop) RecordHTTPRequest(string, int, time.Duration) {}

// Handler serves the registry in the Prometheus text format.
func Handler(gatherer prometheus.Gatherer) http.Handler {
	return promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{})
}
