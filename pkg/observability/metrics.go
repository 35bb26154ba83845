package observability

import (
	"context"
	"errors"

	"github.com/aretw0/rewind/pkg/domain"
	"github.com/prometheus/client_golang/prometheus"
)

// Metrics holds the Prometheus collectors fed by store hooks.
type Metrics struct {
	Actions   *prometheus.CounterVec
	Rejected  *prometheus.CounterVec
	Travel    *prometheus.HistogramVec
	Head      *prometheus.GaugeVec
	LogLength *prometheus.GaugeVec
}

// NewMetrics creates the collectors and registers them on reg.
// A nil registerer leaves them unregistered (useful in tests).
func NewMetrics(reg prometheus.Registerer) (*Metrics, error) {
	m := &Metrics{
		Actions: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "rewind_actions_total",
				Help: "Total number of actions applied, by kind",
			},
			[]string{"store_id", "kind"},
		),
		Rejected: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "rewind_actions_rejected_total",
				Help: "Total number of actions rejected, by kind and reason",
			},
			[]string{"store_id", "kind", "reason"},
		),
		Travel: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "rewind_travel_distance",
				Help:    "Number of log entries the head moved per undo, redo or goto",
				Buckets: []float64{0, 1, 2, 5, 10, 25, 50, 100},
			},
			[]string{"store_id", "kind"},
		),
		Head: prometheus.NewGaugeVec(
			prometheus.GaugeOpts{
				Name: "rewind_history_head",
				Help: "Current head position (0 is the newest entry)",
			},
			[]string{"store_id"},
		),
		LogLength: prometheus.NewGaugeVec(
			prometheus.GaugeOpts{
				Name: "rewind_history_entries",
				Help: "Number of entries in the history log",
			},
			[]string{"store_id"},
		),
	}

	if reg != nil {
		for _, c := range []prometheus.Collector{m.Actions, m.Rejected, m.Travel, m.Head, m.LogLength} {
			if err := reg.Register(c); err != nil {
				return nil, err
			}
		}
	}
	return m, nil
}

// Hooks returns lifecycle hooks recording into the collectors.
func (m *Metrics) Hooks() domain.LifecycleHooks {
	return domain.LifecycleHooks{
		OnDispatch: func(_ context.Context, e *domain.DispatchEvent) {
			m.Actions.WithLabelValues(e.StoreID, domain.Kind(e.Action.Type)).Inc()
			m.Head.WithLabelValues(e.StoreID).Set(float64(e.Head))
			m.LogLength.WithLabelValues(e.StoreID).Set(float64(e.Len))
		},
		OnTravel: func(_ context.Context, e *domain.TravelEvent) {
			distance := e.ToHead - e.FromHead
			if distance < 0 {
				distance = -distance
			}
			m.Travel.WithLabelValues(e.StoreID, domain.Kind(e.Action.Type)).Observe(float64(distance))
		},
		OnReject: func(_ context.Context, e *domain.RejectEvent) {
			m.Rejected.WithLabelValues(e.StoreID, domain.Kind(e.Action.Type), Reason(e.Err)).Inc()
		},
	}
}

// Reason maps a rejection error to a low-cardinality label value.
func Reason(err error) string {
	switch {
	case errors.Is(err, domain.ErrOutOfRange):
		return "out_of_range"
	case errors.Is(err, domain.ErrInvalidPayload):
		return "invalid_payload"
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		return "canceled"
	}
	return "other"
}
