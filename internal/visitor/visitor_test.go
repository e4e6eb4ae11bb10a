package visitor

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/shaiso/Raider/internal/domain"
	"github.com/shaiso/Raider/internal/geo"
)

func TestVisit(t *testing.T) {
	tests := []struct {
		name    string
		status  int
		result  int
		want    domain.VisitResult
		wantErr bool
	}{
		{"seen", http.StatusOK, 2, domain.VisitResult(2), false},
		{"empty", http.StatusOK, 0, domain.VisitNothing, false},
		{"blocked result", http.StatusOK, -1, domain.VisitBlocked, false},
		{"rate limited", http.StatusTooManyRequests, 0, domain.VisitBlocked, false},
		{"server error", http.StatusInternalServerError, 0, domain.VisitNothing, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				if r.Method != http.MethodPost || r.URL.Path != "/visit" {
					t.Errorf("unexpected request: %s %s", r.Method, r.URL.Path)
				}
				w.WriteHeader(tt.status)
				if tt.status == http.StatusOK {
					fmt.Fprintf(w, `{"result": %d}`, tt.result)
				}
			}))
			defer srv.Close()

			v := NewHTTP(srv.URL)
			got, err := v.Visit(context.Background(), geo.Point{Lat: 55.75, Lon: 37.61}, &domain.Job{ID: 1, ExternalID: "abc"})
			if (err != nil) != tt.wantErr {
				t.Fatalf("Visit() error = %v, wantErr %v", err, tt.wantErr)
			}
			if got != tt.want {
				t.Errorf("Visit() = %d, expected %d", got, tt.want)
			}
		})
	}
}

func TestVisit_RequestBody(t *testing.T) {
	var got visitRequest
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if err := json.NewDecoder(r.Body).Decode(&got); err != nil {
			t.Errorf("decode request: %v", err)
		}
		fmt.Fprint(w, `{"result": 1}`)
	}))
	defer srv.Close()

	v := NewHTTP(srv.URL)
	point := geo.Point{Lat: 55.7558, Lon: 37.6173}
	job := &domain.Job{ID: 42, ExternalID: "fort-42"}

	if _, err := v.Visit(context.Background(), point, job); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if got.Lat != point.Lat || got.Lon != point.Lon {
		t.Errorf("запрос ушёл с координатами (%f, %f), ожидались (%f, %f)", got.Lat, got.Lon, point.Lat, point.Lon)
	}
	if got.JobID != 42 || got.ExternalID != "fort-42" {
		t.Errorf("unexpected job fields: %+v", got)
	}
}

func TestVisit_ContextCancelled(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		<-r.Context().Done()
	}))
	defer srv.Close()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	v := NewHTTP(srv.URL)
	if _, err := v.Visit(ctx, geo.Point{}, &domain.Job{ID: 1}); err == nil {
		t.Fatal("ожидалась ошибка после отмены ctx")
	}
}
