package worker

import (
	"context"
	"log/slog"
	"math"
	"time"

	"github.com/shaiso/Raider/internal/domain"
	"github.com/shaiso/Raider/internal/geo"
)

// Default configuration values.
const (
	defaultSearchSleep = time.Second
	defaultSpeedLimit  = 19.5 // м/с (~70 км/ч)

	// tolerableTimeDiff — окно допустимой задержки для расчёта
	// advisory speed limit.
	tolerableTimeDiff = 300 * time.Second
)

// Selector выбирает ближайшего свободного worker'а для точки.
//
// Жадный выбор минимальной оценки стоимости приближает минимизацию
// суммарных накладных расходов на перемещение без глобально
// оптимального сопоставления (NP-трудная задача). Ожидание ограничено
// дедлайном, чтобы один протухший job не останавливал dispatch loop,
// когда все workers заняты.
type Selector struct {
	registry *Registry
	logger   *slog.Logger

	searchSleep time.Duration
	speedLimit  float64
}

// SelectorConfig — конфигурация Selector.
type SelectorConfig struct {
	Registry *Registry
	Logger   *slog.Logger

	// SearchSleep — пауза между сканированиями registry (default: 1s).
	SearchSleep time.Duration

	// SpeedLimit — номинальный предел скорости (м/с) для advisory
	// расчёта (default: 19.5).
	SpeedLimit float64
}

// NewSelector создаёт Selector.
func NewSelector(cfg SelectorConfig) *Selector {
	searchSleep := cfg.SearchSleep
	if searchSleep <= 0 {
		searchSleep = defaultSearchSleep
	}

	speedLimit := cfg.SpeedLimit
	if speedLimit <= 0 {
		speedLimit = defaultSpeedLimit
	}

	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}

	return &Selector{
		registry:    cfg.Registry,
		logger:      logger,
		searchSleep: searchSleep,
		speedLimit:  speedLimit,
	}
}

// BestWorker возвращает свободного worker'а с минимальной оценкой
// стоимости перемещения к точке, с уже захваченным busy guard
// (освобождение — обязанность вызывающего).
//
// Если свободных нет, опрашивает registry каждые SearchSleep, пока не
// истечёт deadline или ctx. Возвращает nil, если worker не нашёлся —
// это sentinel "нет доступного worker'а", не ошибка.
//
// Advisory speed limit: для диагностики вычисляется предел скорости,
// масштабированный по протуханию job'а, и логируется вместе с оценкой
// выбранного worker'а. Выбор он НЕ ограничивает: берётся любой
// свободный worker, даже "слишком быстрый". Это осознанно сохранённое
// текущее поведение.
func (s *Selector) BestWorker(ctx context.Context, point geo.Point, job *domain.Job, updated int64, deadline time.Time) *Worker {
	for ctx.Err() == nil {
		var best *Worker
		lowest := math.Inf(1)

		for _, w := range s.registry.All() {
			if !w.Idle() {
				continue
			}
			speed := w.TravelSpeed(point)
			if speed < lowest {
				lowest = speed
				best = w
			}
		}

		timeDiff := time.Now().Unix() - updated
		minTimeDiff := max(min(timeDiff, int64(tolerableTimeDiff.Seconds())*5), 0)
		speedLimit := s.speedLimit * (1.0 + float64(minTimeDiff)/tolerableTimeDiff.Seconds())
		s.logger.Debug("worker selection",
			"external_id", job.ExternalID,
			"time_diff", timeDiff,
			"speed_limit", speedLimit,
			"best_speed", lowest,
		)

		if best != nil {
			if !best.TryAcquire() {
				// Проиграли гонку за guard — сканируем заново.
				continue
			}
			best.SetSpeed(lowest)
			return best
		}

		if !deadline.IsZero() && time.Now().After(deadline) {
			return nil
		}

		select {
		case <-ctx.Done():
			return nil
		case <-time.After(s.searchSleep):
		}
	}
	return nil
}
