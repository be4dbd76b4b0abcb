package metrics

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
)

var (
	once sync.Once

	slotPlaced = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "lineup",
			Name:      "slot_placed_total",
			Help:      "Count of slot placement attempts by result.",
		},
		[]string{"result"},
	)

	slotEdited = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "lineup",
			Name:      "slot_edited_total",
			Help:      "Count of slot edit attempts by result.",
		},
		[]string{"result"},
	)

	slotDeleted = prometheus.NewCounter(
		prometheus.CounterOpts{
			Namespace: "lineup",
			Name:      "slot_deleted_total",
			Help:      "Count of individual slot deletions.",
		},
	)

	slotBulkDeleted = prometheus.NewCounter(
		prometheus.CounterOpts{
			Namespace: "lineup",
			Name:      "slot_bulk_deleted_total",
			Help:      "Count of slots removed through bulk hour deletion.",
		},
	)

	stageOps = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "lineup",
			Name:      "stage_ops_total",
			Help:      "Count of stage registry operations by op.",
		},
		[]string{"op"},
	)

	blackoutToggled = prometheus.NewCounter(
		prometheus.CounterOpts{
			Namespace: "lineup",
			Name:      "blackout_toggled_total",
			Help:      "Count of blackout cell toggles.",
		},
	)

	sessionsActive = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Namespace: "lineup",
			Name:      "sessions_active",
			Help:      "Number of live editing sessions.",
		},
	)
)

// Register registers metrics (idempotent).
func Register() {
	once.Do(func() {
		prometheus.MustRegister(
			slotPlaced, slotEdited, slotDeleted, slotBulkDeleted,
			stageOps, blackoutToggled, sessionsActive,
		)
	})
}

func IncSlotPlaced(result string) {
	slotPlaced.WithLabelValues(result).Inc()
}

func IncSlotEdited(result string) {
	slotEdited.WithLabelValues(result).Inc()
}

func IncSlotDeleted() {
	slotDeleted.Inc()
}

func AddSlotsBulkDeleted(n int) {
	slotBulkDeleted.Add(float64(n))
}

func IncStageOp(op string) {
	stageOps.WithLabelValues(op).Inc()
}

func IncBlackoutToggled() {
	blackoutToggled.Inc()
}

func SetSessionsActive(n int) {
	sessionsActive.Set(float64(n))
}
