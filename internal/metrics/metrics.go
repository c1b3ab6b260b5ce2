// Package metrics owns the prometheus collectors exposed on /metrics.
package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

type Registry struct {
	reg        *prometheus.Registry
	goodTotal  prometheus.Counter
	badTotal   prometheus.Counter
	adviceTime prometheus.Histogram
}

func New() *Registry {
	r := &Registry{
		reg: prometheus.NewRegistry(),
		goodTotal: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "mizan_actions_good_total",
			Help: "Good actions checked.",
		}),
		badTotal: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "mizan_actions_bad_total",
			Help: "Bad actions checked.",
		}),
		adviceTime: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "mizan_ai_response_seconds",
			Help:    "Latency of advice generation, fallbacks included.",
			Buckets: []float64{0.1, 0.25, 0.5, 1, 2, 5, 10, 20},
		}),
	}
	r.reg.MustRegister(
		r.goodTotal,
		r.badTotal,
		r.adviceTime,
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	return r
}

func (r *Registry) IncrementGood() { r.goodTotal.Inc() }

func (r *Registry) IncrementBad() { r.badTotal.Inc() }

func (r *Registry) ObserveAdvice(d time.Duration) { r.adviceTime.Observe(d.Seconds()) }

func (r *Registry) Handler() http.Handler {
	return promhttp.HandlerFor(r.reg, promhttp.HandlerOpts{Registry: r.reg})
}
