package clist

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Stats exports engine counters. A nil *Stats records nothing.
type Stats struct {
	ops     *prometheus.CounterVec
	retries prometheus.Counter
	latency *prometheus.HistogramVec
}

// NewStats builds the collectors and registers them on reg when reg is not
// nil.
func NewStats(reg prometheus.Registerer) (*Stats, error) {
	s := &Stats{
		ops: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "clist",
			Name:      "ops_total",
			Help:      "List ops executed, by type and final status.",
		}, []string{"type", "status"}),
		retries: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "clist",
			Name:      "op_retries_total",
			Help:      "Op attempts repeated after a retryable failure.",
		}),
		latency: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "clist",
			Name:      "op_duration_seconds",
			Help:      "Op latency including retries.",
			Buckets:   prometheus.ExponentialBuckets(1e-6, 4, 10),
		}, []string{"type"}),
	}
	if reg != nil {
		for _, c := range []prometheus.Collector{s.ops, s.retries, s.latency} {
			if err := reg.Register(c); err != nil {
				return nil, err
			}
		}
	}
	return s, nil
}

func (s *Stats) observeOp(op *Op, d time.Duration) {
	if s == nil {
		return
	}
	status := "succeeded"
	if !op.GetStatus().Succeeded() {
		status = "failed"
	}
	typ := op.typ.String()
	s.ops.WithLabelValues(typ, status).Inc()
	s.latency.WithLabelValues(typ).Observe(d.Seconds())
}

func (s *Stats) incRetry() {
	if s == nil {
		return
	}
	s.retries.Inc()
}
