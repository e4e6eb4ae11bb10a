package worker

import (
	"context"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/shaiso/Raider/internal/domain"
	"github.com/shaiso/Raider/internal/geo"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func newTestSelector(workers ...*Worker) *Selector {
	return NewSelector(SelectorConfig{
		Registry:    NewRegistry(workers),
		Logger:      discardLogger(),
		SearchSleep: 5 * time.Millisecond,
	})
}

func TestBestWorker_PicksLowestCost(t *testing.T) {
	far := New(1, geo.Point{}, nil, staticEstimate(5.0))
	near := New(2, geo.Point{}, nil, staticEstimate(2.0))

	s := newTestSelector(far, near)
	got := s.BestWorker(context.Background(), geo.Point{}, &domain.Job{ID: 1}, 0, time.Now().Add(time.Second))

	if got == nil {
		t.Fatal("expected a worker, got nil")
	}
	if got.ID() != 2 {
		t.Errorf("expected worker 2 (cost 2.0), got %d", got.ID())
	}
	if got.Idle() {
		t.Error("возвращённый worker должен удерживать busy guard")
	}
	if far.Idle() != true {
		t.Error("невыбранный worker должен остаться idle")
	}
}

func TestBestWorker_SkipsBusy(t *testing.T) {
	busy := New(1, geo.Point{}, nil, staticEstimate(1.0))
	idle := New(2, geo.Point{}, nil, staticEstimate(9.0))
	busy.TryAcquire()

	s := newTestSelector(busy, idle)
	got := s.BestWorker(context.Background(), geo.Point{}, &domain.Job{ID: 1}, 0, time.Now().Add(time.Second))

	if got == nil {
		t.Fatal("expected a worker, got nil")
	}
	if got.ID() != 2 {
		t.Errorf("занятый worker не должен выбираться даже с лучшей оценкой, выбран %d", got.ID())
	}
}

func TestBestWorker_DeadlineExpired(t *testing.T) {
	busy := New(1, geo.Point{}, nil, staticEstimate(1.0))
	busy.TryAcquire()

	s := newTestSelector(busy)

	start := time.Now()
	got := s.BestWorker(context.Background(), geo.Point{}, &domain.Job{ID: 1}, 0, time.Now().Add(20*time.Millisecond))
	if got != nil {
		t.Fatalf("expected nil after deadline, got worker %d", got.ID())
	}
	if elapsed := time.Since(start); elapsed > time.Second {
		t.Errorf("ожидание после дедлайна слишком долгое: %v", elapsed)
	}
}

func TestBestWorker_ContextCancelled(t *testing.T) {
	busy := New(1, geo.Point{}, nil, staticEstimate(1.0))
	busy.TryAcquire()

	ctx, cancel := context.WithCancel(context.Background())
	s := newTestSelector(busy)

	done := make(chan *Worker, 1)
	go func() {
		// Далёкий дедлайн: выход только через ctx
		done <- s.BestWorker(ctx, geo.Point{}, &domain.Job{ID: 1}, 0, time.Now().Add(time.Hour))
	}()

	cancel()
	select {
	case got := <-done:
		if got != nil {
			t.Errorf("expected nil on cancel, got worker %d", got.ID())
		}
	case <-time.After(time.Second):
		t.Fatal("BestWorker не вернулся после отмены ctx")
	}
}

func TestBestWorker_WaitsForRelease(t *testing.T) {
	w := New(1, geo.Point{}, nil, staticEstimate(1.0))
	w.TryAcquire()

	s := newTestSelector(w)

	done := make(chan *Worker, 1)
	go func() {
		done <- s.BestWorker(context.Background(), geo.Point{}, &domain.Job{ID: 1}, 0, time.Now().Add(2*time.Second))
	}()

	time.Sleep(20 * time.Millisecond)
	w.Release()

	select {
	case got := <-done:
		if got == nil {
			t.Fatal("expected worker after release, got nil")
		}
		if got.ID() != 1 {
			t.Errorf("expected worker 1, got %d", got.ID())
		}
	case <-time.After(time.Second):
		t.Fatal("BestWorker не подхватил освободившегося worker'а")
	}
}
