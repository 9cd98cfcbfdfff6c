package observability

import (
	"context"
	"errors"

	"github.com/aretw0/kiosk/pkg/domain"
	"github.com/prometheus/client_golang/prometheus"
)

// Metrics holds the Prometheus collectors fed by the engine hooks.
type Metrics struct {
	Operations *prometheus.CounterVec
	Rejected   *prometheus.CounterVec
	Faults     prometheus.Counter
	BoardItems *prometheus.GaugeVec
}

// NewMetrics creates the collectors and registers them with reg.
// A nil reg skips registration.
func NewMetrics(reg prometheus.Registerer) (*Metrics, error) {
	m := &Metrics{
		Operations: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "kiosk_operations_total",
				Help: "Total number of board operations applied",
			},
			[]string{"kind"},
		),
		Rejected: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "kiosk_rejected_operations_total",
				Help: "Total number of drops rejected without touching the board",
			},
			[]string{"kind", "reason"},
		),
		Faults: prometheus.NewCounter(
			prometheus.CounterOpts{
				Name: "kiosk_integrity_faults_total",
				Help: "Integrity faults that halted board mutations",
			},
		),
		BoardItems: prometheus.NewGaugeVec(
			prometheus.GaugeOpts{
				Name: "kiosk_board_items",
				Help: "Number of items currently on each board",
			},
			[]string{"board"},
		),
	}

	if reg != nil {
		for _, c := range []prometheus.Collector{m.Operations, m.Rejected, m.Faults, m.BoardItems} {
			if err := reg.Register(c); err != nil {
				return nil, err
			}
		}
	}
	return m, nil
}

// Hooks returns lifecycle hooks that record into m.
func (m *Metrics) Hooks() domain.LifecycleHooks {
	return domain.LifecycleHooks{
		OnOperation: func(ctx context.Context, ev *domain.OperationEvent) {
			m.Operations.WithLabelValues(string(ev.Operation)).Inc()
			m.BoardItems.WithLabelValues(ev.BoardID).Set(float64(ev.ItemCount))
		},
		OnRejected: func(ctx context.Context, ev *domain.OperationEvent, err error) {
			m.Rejected.WithLabelValues(string(ev.Operation), Reason(err)).Inc()
		},
		OnFault: func(ctx context.Context, ev *domain.OperationEvent, err error) {
			m.Faults.Inc()
		},
		OnReset: func(ctx context.Context, boardID string) {
			m.BoardItems.DeleteLabelValues(boardID)
		},
	}
}

// Reason maps an engine error to a short, bounded label value.
func Reason(err error) string {
	switch {
	case errors.Is(err, domain.ErrIndexOutOfRange):
		return "index_out_of_range"
	case errors.Is(err, domain.ErrListNotFound):
		return "list_not_found"
	case errors.Is(err, domain.ErrCatalogDrop):
		return "catalog_drop"
	case errors.Is(err, domain.ErrSameList):
		return "same_list"
	case errors.Is(err, domain.ErrDuplicateID):
		return "duplicate_id"
	default:
		return "other"
	}
}
