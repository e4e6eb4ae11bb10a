package api

import (
	"time"

	"github.com/shaiso/Raider/internal/dispatch"
	"github.com/shaiso/Raider/internal/domain"
	"github.com/shaiso/Raider/internal/worker"
)

// StatusResponse — сводный статус daemon'а.
type StatusResponse struct {
	Visits      uint64 `json:"visits"`
	Skipped     uint64 `json:"skipped"`
	HashBurn    uint64 `json:"hash_burn"`
	QueueLen    int    `json:"queue_len"`
	InFlight    int64  `json:"in_flight"`
	Slots       int64  `json:"slots"`
	Workers     int    `json:"workers"`
	BusyWorkers int    `json:"busy_workers"`
}

// WorkerResponse — состояние одного worker'а.
type WorkerResponse struct {
	ID          int     `json:"id"`
	Busy        bool    `json:"busy"`
	Lat         float64 `json:"lat"`
	Lon         float64 `json:"lon"`
	Speed       float64 `json:"speed"`
	ScanDelayed int64   `json:"scan_delayed"`
	Visits      uint64  `json:"visits"`
}

// JobResponse — job из очереди.
type JobResponse struct {
	ID           int64   `json:"id"`
	ExternalID   string  `json:"external_id"`
	Name         string  `json:"name,omitempty"`
	Lat          float64 `json:"lat"`
	Lon          float64 `json:"lon"`
	LastModified int64   `json:"last_modified"`
	Updated      int64   `json:"updated"`

	// Staleness — секунды с последнего успешного визита
	// (или с last_modified, если визитов не было).
	Staleness int64 `json:"staleness"`
}

func toStatusResponse(stats dispatch.Stats, workers []worker.State) StatusResponse {
	busy := 0
	for _, w := range workers {
		if w.Busy {
			busy++
		}
	}

	return StatusResponse{
		Visits:      stats.Visits,
		Skipped:     stats.Skipped,
		HashBurn:    stats.HashBurn,
		QueueLen:    stats.QueueLen,
		InFlight:    stats.InFlight,
		Slots:       stats.Slots,
		Workers:     len(workers),
		BusyWorkers: busy,
	}
}

func toWorkerResponse(s worker.State) WorkerResponse {
	return WorkerResponse{
		ID:          s.ID,
		Busy:        s.Busy,
		Lat:         s.Position.Lat,
		Lon:         s.Position.Lon,
		Speed:       s.Speed,
		ScanDelayed: s.ScanDelayed,
		Visits:      s.Visits,
	}
}

func toJobResponse(j domain.Job, now time.Time) JobResponse {
	return JobResponse{
		ID:           j.ID,
		ExternalID:   j.ExternalID,
		Name:         j.Name,
		Lat:          j.Lat,
		Lon:          j.Lon,
		LastModified: j.LastModified,
		Updated:      j.Updated,
		Staleness:    now.Unix() - j.Priority(),
	}
}
