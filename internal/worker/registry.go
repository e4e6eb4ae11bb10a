package worker

// Registry — фиксированный набор workers, создаваемый один раз при
// старте. Registry эксклюзивно владеет записями Worker; попытка визита
// получает лишь временную аренду busy guard одного worker'а.
type Registry struct {
	workers []*Worker
}

// NewRegistry создаёт registry из готовых workers.
func NewRegistry(workers []*Worker) *Registry {
	return &Registry{workers: workers}
}

// All возвращает всех workers (слайс принадлежит registry, не мутировать).
func (r *Registry) All() []*Worker {
	return r.workers
}

// Len возвращает число workers.
func (r *Registry) Len() int {
	return len(r.workers)
}

// BusyCount возвращает число workers с удерживаемым busy guard.
func (r *Registry) BusyCount() int {
	n := 0
	for _, w := range r.workers {
		if !w.Idle() {
			n++
		}
	}
	return n
}

// Snapshot возвращает снимки состояния всех workers.
func (r *Registry) Snapshot() []State {
	states := make([]State, len(r.workers))
	for i, w := range r.workers {
		states[i] = w.Snapshot()
	}
	return states
}
