package preload

import (
	"context"
	"fmt"
	"log/slog"
	"sync"

	"github.com/shaiso/Raider/internal/domain"
	"github.com/shaiso/Raider/internal/geo"
)

// Source — источник точек интереса (репозиторий fort'ов).
type Source interface {
	ListWithinBounds(ctx context.Context, b geo.Bounds) ([]domain.Job, error)
}

// Sink — приёмник новых jobs (dispatcher).
type Sink interface {
	AddJob(job *domain.Job)
}

// Preloader загружает точки интереса в очередь jobs.
//
// Preload выполняется один раз при старте; дальше набор пополняется
// только новыми fort'ами — через периодический resync (см. resync.go) и
// события fort.discovered. Повторная вставка уже известного fort'а
// подавляется: job циркулирует в системе вечно, второй экземпляр
// нарушил бы инвариант "ровно одна копия".
type Preloader struct {
	source Source
	sink   Sink
	bounds geo.Bounds
	logger *slog.Logger

	mu    sync.Mutex
	known map[int64]bool
}

// Config — конфигурация Preloader.
type Config struct {
	Source Source
	Sink   Sink
	Bounds geo.Bounds
	Logger *slog.Logger
}

// New создаёт Preloader.
func New(cfg Config) *Preloader {
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}

	return &Preloader{
		source: cfg.Source,
		sink:   cfg.Sink,
		bounds: cfg.Bounds,
		logger: logger,
		known:  make(map[int64]bool),
	}
}

// Preload загружает все forts внутри границы и ставит их в очередь.
// Возвращает число добавленных jobs.
func (p *Preloader) Preload(ctx context.Context) (int, error) {
	p.logger.Info("preloading forts")

	jobs, err := p.source.ListWithinBounds(ctx, p.bounds)
	if err != nil {
		return 0, fmt.Errorf("list forts: %w", err)
	}

	added := 0
	for i := range jobs {
		if p.Add(jobs[i]) {
			added++
		}
	}

	p.logger.Info("forts loaded", "count", added)
	return added, nil
}

// Add ставит fort в очередь, если он внутри границы и ещё не известен.
// Возвращает true, если job был добавлен.
func (p *Preloader) Add(job domain.Job) bool {
	if !p.bounds.Contains(job.Point()) {
		return false
	}

	p.mu.Lock()
	if p.known[job.ID] {
		p.mu.Unlock()
		return false
	}
	p.known[job.ID] = true
	p.mu.Unlock()

	j := job
	p.sink.AddJob(&j)
	return true
}

// Known возвращает число известных fort'ов.
func (p *Preloader) Known() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return len(p.known)
}
