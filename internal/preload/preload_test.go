package preload

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"

	"github.com/shaiso/Raider/internal/domain"
	"github.com/shaiso/Raider/internal/geo"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

type fakeSource struct {
	jobs []domain.Job
	err  error
}

func (s *fakeSource) ListWithinBounds(context.Context, geo.Bounds) ([]domain.Job, error) {
	return s.jobs, s.err
}

type fakeSink struct {
	added []*domain.Job
}

func (s *fakeSink) AddJob(job *domain.Job) {
	s.added = append(s.added, job)
}

var testBounds = geo.Bounds{North: 56, South: 55, East: 38, West: 37}

func TestPreload(t *testing.T) {
	source := &fakeSource{jobs: []domain.Job{
		{ID: 1, Lat: 55.5, Lon: 37.5},
		{ID: 2, Lat: 55.9, Lon: 37.9},
		{ID: 3, Lat: 10.0, Lon: 37.5}, // вне границы
	}}
	sink := &fakeSink{}

	p := New(Config{Source: source, Sink: sink, Bounds: testBounds, Logger: discardLogger()})

	added, err := p.Preload(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if added != 2 {
		t.Errorf("added = %d, ожидалось 2", added)
	}
	if len(sink.added) != 2 {
		t.Errorf("в sink попало %d jobs, ожидалось 2", len(sink.added))
	}
	if p.Known() != 2 {
		t.Errorf("known = %d, ожидалось 2", p.Known())
	}
}

func TestPreload_SourceError(t *testing.T) {
	source := &fakeSource{err: errors.New("db down")}
	p := New(Config{Source: source, Sink: &fakeSink{}, Bounds: testBounds, Logger: discardLogger()})

	if _, err := p.Preload(context.Background()); err == nil {
		t.Fatal("ожидалась ошибка")
	}
}

func TestAdd_Dedupe(t *testing.T) {
	sink := &fakeSink{}
	p := New(Config{Source: &fakeSource{}, Sink: sink, Bounds: testBounds, Logger: discardLogger()})

	job := domain.Job{ID: 7, Lat: 55.5, Lon: 37.5}
	if !p.Add(job) {
		t.Fatal("первый Add должен добавить job")
	}
	if p.Add(job) {
		t.Fatal("повторный Add того же fort'а должен подавляться")
	}
	if len(sink.added) != 1 {
		t.Errorf("в sink попало %d jobs, ожидался 1", len(sink.added))
	}
}

func TestAdd_OutOfBounds(t *testing.T) {
	sink := &fakeSink{}
	p := New(Config{Source: &fakeSource{}, Sink: sink, Bounds: testBounds, Logger: discardLogger()})

	if p.Add(domain.Job{ID: 1, Lat: 0, Lon: 0}) {
		t.Error("fort вне границы не должен добавляться")
	}
	if len(sink.added) != 0 {
		t.Errorf("в sink попало %d jobs, ожидался 0", len(sink.added))
	}
}

func TestAdd_CopiesJob(t *testing.T) {
	sink := &fakeSink{}
	p := New(Config{Source: &fakeSource{}, Sink: sink, Bounds: testBounds, Logger: discardLogger()})

	job := domain.Job{ID: 1, Lat: 55.5, Lon: 37.5, Name: "original"}
	p.Add(job)

	job.Name = "mutated"
	if sink.added[0].Name != "original" {
		t.Error("Add должен передавать sink'у независимую копию")
	}
}

func TestResync_AddsOnlyNew(t *testing.T) {
	source := &fakeSource{jobs: []domain.Job{{ID: 1, Lat: 55.5, Lon: 37.5}}}
	sink := &fakeSink{}
	p := New(Config{Source: source, Sink: sink, Bounds: testBounds, Logger: discardLogger()})

	if _, err := p.Preload(context.Background()); err != nil {
		t.Fatalf("preload: %v", err)
	}

	// Появился новый fort
	source.jobs = append(source.jobs, domain.Job{ID: 2, Lat: 55.6, Lon: 37.6})
	if err := p.resync(context.Background()); err != nil {
		t.Fatalf("resync: %v", err)
	}

	if len(sink.added) != 2 {
		t.Errorf("в sink попало %d jobs, ожидалось 2", len(sink.added))
	}
	if sink.added[1].ID != 2 {
		t.Errorf("resync добавил job %d, ожидался 2", sink.added[1].ID)
	}
}

func TestValidateCronExpr(t *testing.T) {
	tests := []struct {
		expr    string
		wantErr bool
	}{
		{"*/30 * * * *", false},
		{"0 3 * * 1", false},
		{"not a cron", true},
		{"* * * *", true},
	}

	for _, tt := range tests {
		t.Run(tt.expr, func(t *testing.T) {
			err := ValidateCronExpr(tt.expr)
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidateCronExpr(%q) error = %v, wantErr %v", tt.expr, err, tt.wantErr)
			}
		})
	}
}
