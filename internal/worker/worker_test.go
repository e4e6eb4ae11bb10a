package worker

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/shaiso/Raider/internal/domain"
	"github.com/shaiso/Raider/internal/geo"
)

func staticEstimate(v float64) EstimateFunc {
	return func(geo.Point, time.Duration, geo.Point) float64 { return v }
}

func TestTryAcquire_Exclusive(t *testing.T) {
	w := New(1, geo.Point{}, nil, nil)

	if !w.TryAcquire() {
		t.Fatal("first TryAcquire должен успеть")
	}
	if w.TryAcquire() {
		t.Fatal("second TryAcquire на занятом worker'е должен вернуть false")
	}
	if w.Idle() {
		t.Error("worker должен быть busy")
	}

	w.Release()
	if !w.Idle() {
		t.Error("worker должен быть idle после Release")
	}
	if !w.TryAcquire() {
		t.Error("TryAcquire после Release должен успеть")
	}
}

func TestTryAcquire_Concurrent(t *testing.T) {
	w := New(1, geo.Point{}, nil, nil)

	const goroutines = 32
	var acquired int32
	var mu sync.Mutex
	var wg sync.WaitGroup

	wg.Add(goroutines)
	for i := 0; i < goroutines; i++ {
		go func() {
			defer wg.Done()
			if w.TryAcquire() {
				mu.Lock()
				acquired++
				mu.Unlock()
			}
		}()
	}
	wg.Wait()

	if acquired != 1 {
		t.Errorf("guard захвачен %d раз, ожидался ровно 1", acquired)
	}
}

func TestRequiredSpeed(t *testing.T) {
	from := geo.Point{Lat: 0, Lon: 0}
	to := geo.Point{Lat: 1, Lon: 0} // ~111 км

	// 100 секунд с последнего перемещения: ~1112 м/с
	fast := RequiredSpeed(from, 100*time.Second, to)
	if fast < 1000 || fast > 1300 {
		t.Errorf("RequiredSpeed(100s) = %f, ожидалось ~1112", fast)
	}

	// Давно не двигался — требуемая скорость падает
	slow := RequiredSpeed(from, 10000*time.Second, to)
	if slow >= fast {
		t.Errorf("больший простой должен давать меньшую скорость: %f >= %f", slow, fast)
	}

	// Защита от деления на крошечный интервал
	zero := RequiredSpeed(from, 0, to)
	capped := RequiredSpeed(from, time.Second, to)
	if zero != capped {
		t.Errorf("sinceMove<1s должен считаться как 1s: %f != %f", zero, capped)
	}
}

func TestVisit_MovesWorker(t *testing.T) {
	target := geo.Point{Lat: 55.75, Lon: 37.61}
	visitor := VisitorFunc(func(_ context.Context, _ geo.Point, _ *domain.Job) (domain.VisitResult, error) {
		return domain.VisitResult(2), nil
	})

	w := New(1, geo.Point{}, visitor, nil)
	res, err := w.Visit(context.Background(), target, &domain.Job{ID: 1})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !res.Seen() {
		t.Errorf("expected seen result, got %d", res)
	}

	state := w.Snapshot()
	if state.Position != target {
		t.Errorf("worker должен переместиться в %v, позиция %v", target, state.Position)
	}
	if state.Visits != 1 {
		t.Errorf("visits = %d, ожидался 1", state.Visits)
	}
}

func TestVisit_MovesWorkerOnError(t *testing.T) {
	target := geo.Point{Lat: 55.75, Lon: 37.61}
	visitor := VisitorFunc(func(_ context.Context, _ geo.Point, _ *domain.Job) (domain.VisitResult, error) {
		return 0, errors.New("network down")
	})

	w := New(1, geo.Point{}, visitor, nil)
	if _, err := w.Visit(context.Background(), target, &domain.Job{ID: 1}); err == nil {
		t.Fatal("expected error")
	}

	// Позиция меняется независимо от исхода, счётчик визитов — нет.
	state := w.Snapshot()
	if state.Position != target {
		t.Errorf("worker должен переместиться даже при ошибке, позиция %v", state.Position)
	}
	if state.Visits != 0 {
		t.Errorf("visits = %d, ожидался 0", state.Visits)
	}
}

func TestSnapshot(t *testing.T) {
	w := New(7, geo.Point{Lat: 1, Lon: 2}, nil, nil)
	w.SetSpeed(3.5)
	w.RecordScanDelayed(42)
	w.TryAcquire()

	state := w.Snapshot()
	if state.ID != 7 || !state.Busy || state.Speed != 3.5 || state.ScanDelayed != 42 {
		t.Errorf("unexpected snapshot: %+v", state)
	}
}
