package queue

import (
	"container/heap"
	"errors"
	"sort"
	"sync"

	"github.com/shaiso/Raider/internal/domain"
)

// ErrEmpty — очередь пуста. Это не сбой, а нормальное переходное
// состояние: dispatch loop реагирует на него короткой паузой.
var ErrEmpty = errors.New("job queue is empty")

// JobQueue — приоритетная очередь pending jobs.
//
// Порядок извлечения: минимальный (priority, seq), где priority —
// Job.Priority() на момент Push, а seq — монотонный счётчик вставок.
// То есть первым выходит самый давно не обновлявшийся job; при равном
// приоритете — вставленный раньше.
//
// Push вызывается конкурентно из множества попыток визита, Pop — из
// dispatch loop; все операции под одним мьютексом.
type JobQueue struct {
	mu  sync.Mutex
	h   entryHeap
	seq uint64
}

type entry struct {
	priority int64
	seq      uint64
	job      *domain.Job
}

// New создаёт пустую JobQueue.
func New() *JobQueue {
	return &JobQueue{}
}

// Push вставляет job с приоритетом Job.Priority() на момент вызова.
func (q *JobQueue) Push(job *domain.Job) {
	q.mu.Lock()
	defer q.mu.Unlock()

	q.seq++
	heap.Push(&q.h, entry{priority: job.Priority(), seq: q.seq, job: job})
}

// Pop извлекает job с минимальным (priority, seq).
// Возвращает ErrEmpty, если очередь пуста.
func (q *JobQueue) Pop() (*domain.Job, error) {
	q.mu.Lock()
	defer q.mu.Unlock()

	if q.h.Len() == 0 {
		return nil, ErrEmpty
	}
	e := heap.Pop(&q.h).(entry)
	return e.job, nil
}

// Len возвращает число pending jobs.
func (q *JobQueue) Len() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return q.h.Len()
}

// Snapshot возвращает копии до limit самых "протухших" jobs в порядке
// извлечения. limit <= 0 означает все. Используется status API;
// очередь не мутируется.
func (q *JobQueue) Snapshot(limit int) []domain.Job {
	q.mu.Lock()
	entries := make([]entry, len(q.h))
	copy(entries, q.h)
	q.mu.Unlock()

	sort.Slice(entries, func(i, j int) bool {
		if entries[i].priority != entries[j].priority {
			return entries[i].priority < entries[j].priority
		}
		return entries[i].seq < entries[j].seq
	})

	if limit > 0 && limit < len(entries) {
		entries = entries[:limit]
	}

	jobs := make([]domain.Job, len(entries))
	for i, e := range entries {
		jobs[i] = *e.job
	}
	return jobs
}

// --- container/heap ---

type entryHeap []entry

func (h entryHeap) Len() int { return len(h) }

func (h entryHeap) Less(i, j int) bool {
	if h[i].priority != h[j].priority {
		return h[i].priority < h[j].priority
	}
	return h[i].seq < h[j].seq
}

func (h entryHeap) Swap(i, j int) { h[i], h[j] = h[j], h[i] }

func (h *entryHeap) Push(x any) { *h = append(*h, x.(entry)) }

func (h *entryHeap) Pop() any {
	old := *h
	n := len(old)
	e := old[n-1]
	*h = old[:n-1]
	return e
}
