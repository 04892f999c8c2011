package ui

import (
	"encoding/json"
	"errors"
	"maps"
	"sync"
)

var ErrNoReducer = errors.New("ui: store has no reducer")

type State map[string]any

type Action struct {
	Type    string
	Payload any
}

type Reducer func(state State, action Action) State

// Store holds the state shared by every component under a Provider.
type Store struct {
	mu        sync.RWMutex
	state     State
	reducer   Reducer
	listeners map[int]func()
	nextID    int
}

func NewStore(reducer Reducer, initial State) *Store {
	state := State{}
	maps.Copy(state, initial)

	return &Store{
		state:     state,
		reducer:   reducer,
		listeners: make(map[int]func()),
	}
}

// GetState returns a shallow copy of the current state.
func (s *Store) GetState() State {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.snapshotLocked()
}

func (s *Store) Dispatch(action Action) error {
	if s.reducer == nil {
		return ErrNoReducer
	}

	s.mu.Lock()
	next := s.reducer(s.snapshotLocked(), action)
	if next == nil {
		next = State{}
	}
	s.state = next
	listeners := make([]func(), 0, len(s.listeners))
	for _, fn := range s.listeners {
		listeners = append(listeners, fn)
	}
	s.mu.Unlock()

	for _, fn := range listeners {
		fn()
	}
	return nil
}

// snapshotLocked copies the state; the caller holds s.mu.
func (s *Store) snapshotLocked() State {
	out := make(State, len(s.state))
	maps.Copy(out, s.state)
	return out
}

// Subscribe registers fn to run after every dispatch and returns a function
// that removes it.
func (s *Store) Subscribe(fn func()) func() {
	s.mu.Lock()
	id := s.nextID
	s.nextID++
	s.listeners[id] = fn
	s.mu.Unlock()

	return func() {
		s.mu.Lock()
		delete(s.listeners, id)
		s.mu.Unlock()
	}
}

func (s *Store) MarshalJSON() ([]byte, error) {
	return json.Marshal(s.GetState())
}
