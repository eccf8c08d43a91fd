package store

import "sync"

// Reducer computes the next state from the previous state and an action.
// state is nil when the store is being initialized; reducers must then
// return their default value. Reducers must not mutate *state.
type Reducer[S, A any] func(state *S, action A) S

// DispatchFunc delivers one action.
type DispatchFunc[A any] func(action A)

// Middleware wraps the dispatch function of a store. getState reads the
// current state; next continues the chain. The innermost next runs the
// reducer and notifies subscribers.
type Middleware[S, A any] func(getState func() S, next DispatchFunc[A]) DispatchFunc[A]

// Option configures a Store.
type Option[S, A any] func(*Store[S, A])

// WithMiddleware installs middleware. The first middleware is outermost:
// it sees every action before the others do.
func WithMiddleware[S, A any](mw ...Middleware[S, A]) Option[S, A] {
	return func(s *Store[S, A]) {
		s.middleware = append(s.middleware, mw...)
	}
}

// WithPreloadedState starts the store from state instead of the reducers'
// defaults. The init action is still reduced against it.
func WithPreloadedState[S, A any](state S) Option[S, A] {
	return func(s *Store[S, A]) {
		s.preloaded = &state
	}
}

type listener struct {
	id uint64
	fn func()
}

// Store holds the current state and the subscriber list.
type Store[S, A any] struct {
	mu         sync.Mutex
	reducer    Reducer[S, A]
	state      S
	listeners  []listener
	nextID     uint64
	middleware []Middleware[S, A]
	dispatch   DispatchFunc[A]
	preloaded  *S
}

// New creates a store. The initial state is reducer(nil, init), so every
// sub-reducer contributes its default; init should be an action no reducer
// recognizes. With WithPreloadedState it is reducer(&preloaded, init).
func New[S, A any](reducer Reducer[S, A], init A, opts ...Option[S, A]) *Store[S, A] {
	s := &Store[S, A]{reducer: reducer}
	for _, opt := range opts {
		opt(s)
	}

	s.state = reducer(s.preloaded, init)
	s.preloaded = nil

	s.dispatch = s.reduce
	for i := len(s.middleware) - 1; i >= 0; i-- {
		s.dispatch = s.middleware[i](s.GetState, s.dispatch)
	}
	return s
}

// GetState returns the current state.
func (s *Store[S, A]) GetState() S {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// Dispatch applies action and notifies subscribers. All subscribers have
// run by the time Dispatch returns.
func (s *Store[S, A]) Dispatch(action A) {
	s.dispatch(action)
}

// reduce is the end of the middleware chain.
func (s *Store[S, A]) reduce(action A) {
	s.mu.Lock()
	prev := s.state
	s.state = s.reducer(&prev, action)
	// Listeners registered or removed while notifying take effect on the
	// next dispatch.
	current := make([]listener, len(s.listeners))
	copy(current, s.listeners)
	s.mu.Unlock()

	for _, l := range current {
		l.fn()
	}
}

// Subscribe registers fn to run after every future dispatch and returns a
// function that removes exactly this registration. Subscribing the same
// function twice yields two independent registrations. Calling the
// returned function more than once is a no-op.
func (s *Store[S, A]) Subscribe(fn func()) (unsubscribe func()) {
	if fn == nil {
		return func() {}
	}

	s.mu.Lock()
	s.nextID++
	id := s.nextID
	s.listeners = append(s.listeners, listener{id: id, fn: fn})
	s.mu.Unlock()

	var once sync.Once
	return func() {
		once.Do(func() {
			s.mu.Lock()
			defer s.mu.Unlock()
			for i, l := range s.listeners {
				if l.id == id {
					s.listeners = append(s.listeners[:i:i], s.listeners[i+1:]...)
					return
				}
			}
		})
	}
}

// Len returns the number of active subscriptions.
func (s *Store[S, A]) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.listeners)
}
