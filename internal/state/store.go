// Package state holds the client's observable in-memory copy of the remote
// collections. The store only changes through the transitions on Handle and
// never runs remote calls itself.
package state

import (
	"sync"

	"github.com/erazemk/imenik/internal/model"
)

// Entity is implemented by values kept in a Slice.
type Entity[T any] interface {
	EntityID() string
	Clone() T
}

// Slice is the state of one entity type. Error is empty unless the most
// recent fetch failed.
type Slice[T any] struct {
	Items   []T    `json:"items"`
	Loading bool   `json:"loading"`
	Error   string `json:"error,omitempty"`
}

func (s Slice[T]) clone(cloneItem func(T) T) Slice[T] {
	items := make([]T, len(s.Items))
	for i, item := range s.Items {
		items[i] = cloneItem(item)
	}
	s.Items = items
	return s
}

// State is a point-in-time copy of the whole store.
type State struct {
	People    Slice[model.Person]  `json:"people"`
	Companies Slice[model.Company] `json:"companies"`
}

// Observer receives the state after every transition.
type Observer func(State)

type subscription struct {
	id int
	fn Observer
}

// Store is safe for concurrent use. Observers run after the state lock is
// released, one notification at a time and in transition order. An observer
// must not mutate the store.
type Store struct {
	mu        sync.Mutex
	people    Slice[model.Person]
	companies Slice[model.Company]
	subs      []subscription
	nextSub   int
	issued    uint64 // tickets handed out under mu

	// Notifications are delivered in ticket order.
	notifyMu sync.Mutex
	notified sync.Cond
	serving  uint64
}

// New returns an empty store.
func New() *Store {
	s := &Store{}
	s.notified.L = &s.notifyMu
	return s
}

// People returns the handle for the people slice.
func (s *Store) People() *Handle[model.Person] {
	return &Handle[model.Person]{store: s, slice: func(s *Store) *Slice[model.Person] { return &s.people }}
}

// Companies returns the handle for the companies slice.
func (s *Store) Companies() *Handle[model.Company] {
	return &Handle[model.Company]{store: s, slice: func(s *Store) *Slice[model.Company] { return &s.companies }}
}

// Snapshot returns a deep copy of the current state.
func (s *Store) Snapshot() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.snapshotLocked()
}

func (s *Store) snapshotLocked() State {
	return State{
		People:    s.people.clone(model.Person.Clone),
		Companies: s.companies.clone(model.Company.Clone),
	}
}

// Subscribe registers fn and returns a function that removes it.
func (s *Store) Subscribe(fn Observer) (unsubscribe func()) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.nextSub++
	id := s.nextSub
	s.subs = append(s.subs, subscription{id: id, fn: fn})

	var once sync.Once
	return func() {
		once.Do(func() {
			s.mu.Lock()
			defer s.mu.Unlock()
			for i, sub := range s.subs {
				if sub.id == id {
					s.subs = append(s.subs[:i:i], s.subs[i+1:]...)
					return
				}
			}
		})
	}
}

// transition applies mutate under the lock and then notifies observers once
// every earlier transition has finished notifying.
func (s *Store) transition(mutate func()) {
	s.mu.Lock()
	mutate()
	snap := s.snapshotLocked()
	subs := append([]subscription(nil), s.subs...)
	ticket := s.issued
	s.issued++
	s.mu.Unlock()

	s.notifyMu.Lock()
	for s.serving != ticket {
		s.notified.Wait()
	}
	s.notifyMu.Unlock()

	defer func() {
		s.notifyMu.Lock()
		s.serving++
		s.notified.Broadcast()
		s.notifyMu.Unlock()
	}()
	for _, sub := range subs {
		sub.fn(snap)
	}
}
