package controller

import (
	"errors"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/dmitrymomot/mvc/core/response"
)

// Metrics holds the Prometheus collectors of the action pipeline.
type Metrics struct {
	ActionsTotal   *prometheus.CounterVec
	ActionDuration *prometheus.HistogramVec
	CacheLookups   *prometheus.CounterVec
}

// NewMetrics creates and registers the pipeline metrics with reg.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	return &Metrics{
		ActionsTotal: promauto.With(reg).NewCounterVec(
			prometheus.CounterOpts{
				Namespace: "mvc",
				Name:      "actions_total",
				Help:      "Total number of controller action calls",
			},
			[]string{"controller", "action", "kind", "outcome"}, // outcome=ok/abort/error
		),
		ActionDuration: promauto.With(reg).NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: "mvc",
				Name:      "action_duration_seconds",
				Help:      "Controller action duration in seconds",
				Buckets:   prometheus.DefBuckets,
			},
			[]string{"controller", "action", "kind"},
		),
		CacheLookups: promauto.With(reg).NewCounterVec(
			prometheus.CounterOpts{
				Namespace: "mvc",
				Name:      "action_cache_lookups_total",
				Help:      "Cached action lookups",
			},
			[]string{"controller", "action", "result"}, // result=hit/miss/bypass
		),
	}
}

func (m *Metrics) observe(controller, action string, kind Kind, elapsed time.Duration, err error) {
	if m == nil {
		return
	}

	outcome := "ok"
	if err != nil {
		outcome = "error"
		var httpErr response.HTTPError
		if errors.As(err, &httpErr) {
			outcome = "abort"
		}
	}

	m.ActionsTotal.WithLabelValues(controller, action, kind.String(), outcome).Inc()
	m.ActionDuration.WithLabelValues(controller, action, kind.String()).Observe(elapsed.Seconds())
}

func (m *Metrics) cacheLookup(controller, action, result string) {
	if m == nil {
		return
	}
	m.CacheLookups.WithLabelValues(controller, action, result).Inc()
}
