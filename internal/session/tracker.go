package session

import "sort"

// TaskID names one entry in a dependency-graph task tracker: one task
// entered at pass start, exited at pass end. Borrows internal/build's
// opaque-ID, deterministic-ordering habit without its full incremental
// build-artifact cache machinery, which this pass has no use for.
type TaskID string

// Tracker records task enter/exit pairs. It performs no scheduling or
// caching of its own — the lifetime pass enters exactly one task around
// the whole of Resolve and exits it when Resolve returns.
type Tracker struct {
	open  []TaskID
	done  []TaskID
	order map[TaskID]int
}

// NewTracker returns an empty Tracker.
func NewTracker() *Tracker {
	return &Tracker{order: map[TaskID]int{}}
}

// Enter records that a task started and returns a closure that records its
// exit; the caller is expected to `defer` the returned function.
func (t *Tracker) Enter(id TaskID) func() {
	if _, ok := t.order[id]; !ok {
		t.order[id] = len(t.order)
	}

	t.open = append(t.open, id)

	return func() {
		for i := len(t.open) - 1; i >= 0; i-- {
			if t.open[i] == id {
				t.open = append(t.open[:i], t.open[i+1:]...)
				break
			}
		}

		t.done = append(t.done, id)
	}
}

// Open reports tasks currently entered but not yet exited, in entry order.
func (t *Tracker) Open() []TaskID {
	out := append([]TaskID(nil), t.open...)
	sort.Slice(out, func(i, j int) bool { return t.order[out[i]] < t.order[out[j]] })

	return out
}

// Completed reports every task that has exited, in exit order.
func (t *Tracker) Completed() []TaskID {
	return append([]TaskID(nil), t.done...)
}
