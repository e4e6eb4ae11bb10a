package api

import (
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/shaiso/Raider/internal/dispatch"
	"github.com/shaiso/Raider/internal/queue"
	"github.com/shaiso/Raider/internal/worker"
)

// defaultJobsLimit — лимит выдачи jobs по умолчанию.
const defaultJobsLimit = 50

// Handler — обработчики status API.
//
// API только для чтения: очередь и workers мутируются исключительно
// dispatch loop'ом.
type Handler struct {
	dispatcher *dispatch.Dispatcher
	registry   *worker.Registry
	queue      *queue.JobQueue
	logger     *slog.Logger
}

// NewHandler создаёт Handler.
func NewHandler(dispatcher *dispatch.Dispatcher, registry *worker.Registry, q *queue.JobQueue, logger *slog.Logger) *Handler {
	return &Handler{
		dispatcher: dispatcher,
		registry:   registry,
		queue:      q,
		logger:     logger,
	}
}

// GetStatus обрабатывает GET /api/v1/status.
func (h *Handler) GetStatus(w http.ResponseWriter, r *http.Request) {
	Success(w, toStatusResponse(h.dispatcher.Stats(), h.registry.Snapshot()))
}

// ListWorkers обрабатывает GET /api/v1/workers.
func (h *Handler) ListWorkers(w http.ResponseWriter, r *http.Request) {
	states := h.registry.Snapshot()

	resp := make([]WorkerResponse, len(states))
	for i, s := range states {
		resp[i] = toWorkerResponse(s)
	}

	List(w, resp, len(resp))
}

// ListJobs обрабатывает GET /api/v1/jobs?limit=N.
// Возвращает снимок самых протухших pending jobs в порядке извлечения.
func (h *Handler) ListJobs(w http.ResponseWriter, r *http.Request) {
	limit := defaultJobsLimit
	if v := r.URL.Query().Get("limit"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n <= 0 {
			BadRequest(w, "limit must be a positive integer")
			return
		}
		limit = n
	}

	total := h.queue.Len()
	jobs := h.queue.Snapshot(limit)

	now := time.Now()
	resp := make([]JobResponse, len(jobs))
	for i, j := range jobs {
		resp[i] = toJobResponse(j, now)
	}

	List(w, resp, total)
}
