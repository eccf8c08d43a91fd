package todo

import "sync"

// IDGenerator hands out monotonically increasing todo ids. It belongs to
// whoever builds AddTodo actions; reducers never see it.
type IDGenerator struct {
	mu   sync.Mutex
	next int
}

// NewIDGenerator returns a generator whose first id is start.
func NewIDGenerator(start int) *IDGenerator {
	return &IDGenerator{next: start}
}

// Next returns a fresh id.
func (g *IDGenerator) Next() int {
	g.mu.Lock()
	defer g.mu.Unlock()
	id := g.next
	g.next++
	return id
}

// Peek returns the id Next would return, without consuming it.
func (g *IDGenerator) Peek() int {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.next
}

// Observe makes sure id is never handed out, e.g. after replaying
// actions that used it.
func (g *IDGenerator) Observe(id int) {
	g.mu.Lock()
	defer g.mu.Unlock()
	if id >= g.next {
		g.next = id + 1
	}
}
