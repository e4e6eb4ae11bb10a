package telemetry

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Метрики Prometheus. Экспортируются daemon'ом на /metrics.
var (
	// VisitsTotal — количество успешных визитов.
	VisitsTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "raider_visits_total",
		Help: "Total number of successful visits.",
	})

	// SkippedTotal — количество пропущенных попыток
	// (not found, nothing seen, неожиданные ошибки).
	SkippedTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "raider_skipped_total",
		Help: "Total number of skipped visit attempts.",
	})

	// HashBurnTotal — количество повторов после transient block.
	HashBurnTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "raider_hash_burn_total",
		Help: "Total number of blocked-visit retries.",
	})

	// QueueLength — текущая длина очереди jobs.
	QueueLength = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "raider_queue_length",
		Help: "Current number of pending jobs in the queue.",
	})

	// BusyWorkers — число workers с удерживаемым busy guard.
	BusyWorkers = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "raider_workers_busy",
		Help: "Number of workers currently performing a visit.",
	})
)
