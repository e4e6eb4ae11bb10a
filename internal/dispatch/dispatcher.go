package dispatch

import (
	"context"
	"errors"
	"log/slog"
	"runtime/debug"
	"sync"
	"sync/atomic"
	"time"

	"golang.org/x/sync/semaphore"

	"github.com/shaiso/Raider/internal/domain"
	"github.com/shaiso/Raider/internal/mq"
	"github.com/shaiso/Raider/internal/queue"
	"github.com/shaiso/Raider/internal/telemetry"
	"github.com/shaiso/Raider/internal/worker"
)

// Default configuration values.
const (
	defaultIdleSleep   = time.Second
	defaultSearchSleep = time.Second
)

// Dispatcher — управляющий цикл: вычерпывает очередь jobs и запускает
// независимые попытки визита под глобальным лимитом конкурентности.
//
// Лимитер — counting semaphore размером в число workers: каждый worker
// может быть целью не более чем одной попытки, но слот берётся до того,
// как конкретный worker выбран. Цикл никогда не ждёт завершения
// отдельной попытки и завершается только по отмене ctx.
type Dispatcher struct {
	queue    *queue.JobQueue
	registry *worker.Registry
	selector *worker.Selector

	sem      *semaphore.Weighted
	slots    int64
	wg       sync.WaitGroup
	inFlight atomic.Int64

	publisher *mq.Publisher
	logger    *slog.Logger

	idleSleep   time.Duration
	searchSleep time.Duration

	// Счётчики за время жизни процесса (диагностика).
	visits   atomic.Uint64
	skipped  atomic.Uint64
	hashBurn atomic.Uint64
}

// Config — конфигурация Dispatcher.
type Config struct {
	Queue    *queue.JobQueue
	Registry *worker.Registry
	Selector *worker.Selector

	// Publisher — опционально; nil отключает публикацию событий.
	Publisher *mq.Publisher

	Logger *slog.Logger

	// IdleSleep — пауза после вычерпывания очереди (default: 1s).
	IdleSleep time.Duration

	// SearchSleep — базовый интервал ожидания; дедлайн выбора worker'а
	// для попытки равен now + 2×SearchSleep (default: 1s).
	SearchSleep time.Duration
}

// New создаёт Dispatcher. Размер лимитера равен числу workers в registry.
func New(cfg Config) *Dispatcher {
	idleSleep := cfg.IdleSleep
	if idleSleep <= 0 {
		idleSleep = defaultIdleSleep
	}

	searchSleep := cfg.SearchSleep
	if searchSleep <= 0 {
		searchSleep = defaultSearchSleep
	}

	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}

	slots := int64(cfg.Registry.Len())
	if slots <= 0 {
		slots = 1
	}

	return &Dispatcher{
		queue:       cfg.Queue,
		registry:    cfg.Registry,
		selector:    cfg.Selector,
		sem:         semaphore.NewWeighted(slots),
		slots:       slots,
		publisher:   cfg.Publisher,
		logger:      logger,
		idleSleep:   idleSleep,
		searchSleep: searchSleep,
	}
}

// AddJob ставит job в очередь. Используется при preload и при получении
// события fort.discovered.
func (d *Dispatcher) AddJob(job *domain.Job) {
	d.queue.Push(job)
	telemetry.QueueLength.Set(float64(d.queue.Len()))
}

// Run запускает dispatch loop и блокируется до отмены ctx.
//
// Каждая итерация вычерпывает очередь: pop job, захват слота лимитера
// (ожидание слота приостанавливает итерацию, но не попытки в полёте),
// запуск независимой попытки. После опустошения очереди — короткая
// пауза. Любой неожиданный сбой внутри тела цикла логируется, и цикл
// продолжается. По отмене in-flight попытки дорабатывают свой
// requeue/release; Run дожидается их завершения.
func (d *Dispatcher) Run(ctx context.Context) {
	d.logger.Info("dispatch loop started",
		"slots", d.slots,
		"queued", d.queue.Len(),
	)

	for ctx.Err() == nil {
		d.drain(ctx)

		telemetry.QueueLength.Set(float64(d.queue.Len()))
		telemetry.BusyWorkers.Set(float64(d.registry.BusyCount()))

		select {
		case <-ctx.Done():
		case <-time.After(d.idleSleep):
		}
	}

	d.logger.Info("dispatch loop cancelled, waiting for in-flight attempts",
		"in_flight", d.inFlight.Load(),
	)
	d.wg.Wait()
	d.logger.Info("dispatch loop stopped",
		"visits", d.visits.Load(),
		"skipped", d.skipped.Load(),
	)
}

// drain вычерпывает очередь, запуская попытку на каждый job.
// Паника внутри тела не валит цикл.
func (d *Dispatcher) drain(ctx context.Context) {
	defer func() {
		if r := recover(); r != nil {
			d.logger.Error("panic in dispatch loop",
				"panic", r,
				"stack", string(debug.Stack()),
			)
		}
	}()

	for {
		job, err := d.queue.Pop()
		if err != nil {
			if !errors.Is(err, queue.ErrEmpty) {
				d.logger.Error("queue pop failed", "error", err)
			}
			return
		}

		if err := d.sem.Acquire(ctx, 1); err != nil {
			// Отмена во время ожидания слота: job не должен потеряться.
			d.queue.Push(job)
			return
		}

		d.inFlight.Add(1)
		d.wg.Add(1)
		go d.attempt(ctx, job)
	}
}

// Stats — снимок счётчиков и состояния dispatcher'а.
type Stats struct {
	Visits   uint64 `json:"visits"`
	Skipped  uint64 `json:"skipped"`
	HashBurn uint64 `json:"hash_burn"`
	QueueLen int    `json:"queue_len"`
	InFlight int64  `json:"in_flight"`
	Slots    int64  `json:"slots"`
}

// Stats возвращает снимок счётчиков.
func (d *Dispatcher) Stats() Stats {
	return Stats{
		Visits:   d.visits.Load(),
		Skipped:  d.skipped.Load(),
		HashBurn: d.hashBurn.Load(),
		QueueLen: d.queue.Len(),
		InFlight: d.inFlight.Load(),
		Slots:    d.slots,
	}
}
