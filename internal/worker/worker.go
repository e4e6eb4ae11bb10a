package worker

import (
	"context"
	"sync"
	"sync/atomic"
	"time"

	"github.com/shaiso/Raider/internal/domain"
	"github.com/shaiso/Raider/internal/geo"
)

// Visitor — внешняя способность выполнить один визит по координатам.
//
// Реализация (протокольный клиент: логин, построение запроса, разбор
// ответа) живёт за пределами этого модуля. Visit может блокироваться
// на сетевом I/O; отмена — через ctx.
type Visitor interface {
	Visit(ctx context.Context, point geo.Point, job *domain.Job) (domain.VisitResult, error)
}

// VisitorFunc — адаптер функции к интерфейсу Visitor.
type VisitorFunc func(ctx context.Context, point geo.Point, job *domain.Job) (domain.VisitResult, error)

// Visit вызывает f.
func (f VisitorFunc) Visit(ctx context.Context, point geo.Point, job *domain.Job) (domain.VisitResult, error) {
	return f(ctx, point, job)
}

// EstimateFunc — оценка стоимости перемещения worker'а к точке.
// Меньше — лучше; значение используется только для сравнения.
type EstimateFunc func(from geo.Point, sinceMove time.Duration, to geo.Point) float64

// RequiredSpeed — оценщик по умолчанию: скорость (м/с), с которой
// worker должен был бы двигаться от текущей позиции, чтобы оказаться
// в точке прямо сейчас. Это прокси стоимости, не реальное время пути.
func RequiredSpeed(from geo.Point, sinceMove time.Duration, to geo.Point) float64 {
	secs := sinceMove.Seconds()
	if secs < 1 {
		secs = 1
	}
	return geo.Distance(from, to) / secs
}

// Worker — один слот конкурентного выполнения визитов, привязанный к
// симулируемому актору с физической позицией.
//
// Busy guard: в каждый момент времени worker удерживается не более чем
// одной попыткой визита. Захват — только через TryAcquire (селектор),
// освобождение — Release в конце попытки.
type Worker struct {
	id       int
	visitor  Visitor
	estimate EstimateFunc

	// busy — guard эксклюзивного владения: 0 = idle, 1 = занят.
	busy atomic.Int32

	mu          sync.Mutex
	pos         geo.Point
	movedAt     time.Time
	speed       float64
	scanDelayed int64
	visits      uint64
}

// New создаёт worker со стартовой позицией.
// Если estimate == nil, используется RequiredSpeed.
func New(id int, start geo.Point, visitor Visitor, estimate EstimateFunc) *Worker {
	if estimate == nil {
		estimate = RequiredSpeed
	}
	return &Worker{
		id:       id,
		visitor:  visitor,
		estimate: estimate,
		pos:      start,
		movedAt:  time.Now(),
	}
}

// ID возвращает идентификатор worker'а.
func (w *Worker) ID() int { return w.id }

// TryAcquire пытается захватить busy guard. Возвращает false, если
// worker уже занят другой попыткой.
func (w *Worker) TryAcquire() bool {
	return w.busy.CompareAndSwap(0, 1)
}

// Release освобождает busy guard.
func (w *Worker) Release() {
	w.busy.Store(0)
}

// Idle возвращает true, если busy guard сейчас не удерживается.
func (w *Worker) Idle() bool {
	return w.busy.Load() == 0
}

// TravelSpeed возвращает оценку стоимости перемещения к точке
// от текущей позиции.
func (w *Worker) TravelSpeed(p geo.Point) float64 {
	w.mu.Lock()
	pos := w.pos
	movedAt := w.movedAt
	w.mu.Unlock()

	return w.estimate(pos, time.Since(movedAt), p)
}

// Visit выполняет визит через внешний Visitor и перемещает worker'а
// в целевую точку. Вызывается только при удерживаемом busy guard.
func (w *Worker) Visit(ctx context.Context, point geo.Point, job *domain.Job) (domain.VisitResult, error) {
	result, err := w.visitor.Visit(ctx, point, job)

	// Worker теперь физически находится у цели, независимо от исхода.
	w.mu.Lock()
	w.pos = point
	w.movedAt = time.Now()
	if err == nil && result.Seen() {
		w.visits++
	}
	w.mu.Unlock()

	return result, err
}

// SetSpeed записывает последнюю вычисленную селектором скорость
// (диагностика).
func (w *Worker) SetSpeed(v float64) {
	w.mu.Lock()
	w.speed = v
	w.mu.Unlock()
}

// RecordScanDelayed записывает задержку сканирования последнего
// успешного визита: секунды между прежним Updated job'а и настоящим.
func (w *Worker) RecordScanDelayed(seconds int64) {
	w.mu.Lock()
	w.scanDelayed = seconds
	w.mu.Unlock()
}

// ScanDelayed возвращает последнюю записанную задержку сканирования.
func (w *Worker) ScanDelayed() int64 {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.scanDelayed
}

// State — снимок состояния worker'а для status API.
type State struct {
	ID          int       `json:"id"`
	Busy        bool      `json:"busy"`
	Position    geo.Point `json:"position"`
	Speed       float64   `json:"speed"`
	ScanDelayed int64     `json:"scan_delayed"`
	Visits      uint64    `json:"visits"`
}

// Snapshot возвращает снимок состояния worker'а.
func (w *Worker) Snapshot() State {
	busy := !w.Idle()
	w.mu.Lock()
	defer w.mu.Unlock()
	return State{
		ID:          w.id,
		Busy:        busy,
		Position:    w.pos,
		Speed:       w.speed,
		ScanDelayed: w.scanDelayed,
		Visits:      w.visits,
	}
}
