package form

import (
	"fmt"
	"reflect"
	"sort"
	"sync"

	"go.uber.org/zap"

	"github.com/goliatone/go-dynform/pkg/fields"
)

// Store owns the field states of one form. Every write validates, commits a
// new immutable snapshot and then notifies subscribers in commit order.
// Subscribers may write back to the store; those commits are queued and
// delivered after the current notification round.
type Store struct {
	mu          sync.RWMutex
	descriptors map[string]fields.Descriptor
	current     Fields

	queueMu    sync.Mutex
	pending    []Fields
	publishing bool

	subsMu   sync.Mutex
	subs     map[int]func(Fields)
	nextSub  int

	logger *zap.Logger
}

// NewStore seeds a store from descriptors.
func NewStore(descriptors []fields.Descriptor, logger *zap.Logger) *Store {
	if logger == nil {
		logger = zap.NewNop()
	}
	byName := make(map[string]fields.Descriptor, len(descriptors))
	for _, d := range descriptors {
		byName[d.Name] = d
	}
	return &Store{
		descriptors: byName,
		current:     NewFields(descriptors),
		subs:        make(map[int]func(Fields)),
		logger:      logger,
	}
}

// Update validates value for the named field and stores
// {value, errors, touched: true}.
func (s *Store) Update(name string, value any) (FieldState, error) {
	d, ok := s.descriptors[name]
	if !ok {
		return FieldState{}, fmt.Errorf("%w: %q", ErrUnknownField, name)
	}

	s.mu.Lock()
	snapshot := s.commit(s.current.Apply(d, value))
	s.mu.Unlock()

	state, _ := snapshot.Get(name)
	s.logger.Debug("field updated",
		zap.String("field", name),
		zap.Bool("hasErrors", state.HasErrors()),
	)
	s.drain()
	return state, nil
}

// Get returns the current state of a field.
func (s *Store) Get(name string) (FieldState, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.current.Get(name)
}

// Descriptor returns the descriptor backing a field.
func (s *Store) Descriptor(name string) (fields.Descriptor, bool) {
	d, ok := s.descriptors[name]
	return d, ok
}

// Snapshot returns the current immutable field snapshot.
func (s *Store) Snapshot() Fields {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.current
}

// AllValid reports whether every field is free of errors.
func (s *Store) AllValid() bool {
	return s.Snapshot().Valid()
}

// Touched reports whether any field was edited since the last clean.
func (s *Store) Touched() bool {
	return s.Snapshot().Touched()
}

// Validate recomputes errors for the named fields, or for every field when
// no names are given, without changing touched flags.
func (s *Store) Validate(names ...string) Fields {
	s.mu.Lock()
	if len(names) == 0 {
		names = s.current.Names()
	}
	next := s.current
	for _, name := range names {
		if d, ok := s.descriptors[name]; ok {
			next = next.Revalidate(d)
		}
	}
	s.commit(next)
	s.mu.Unlock()

	s.drain()
	return next
}

// MarkClean clears every touched flag.
func (s *Store) MarkClean() {
	s.mu.Lock()
	s.commit(s.current.Clean())
	s.mu.Unlock()

	s.drain()
}

// MarkSaved clears the touched flag of fields whose value still equals the
// value in saved. Fields edited after saved was taken stay touched.
func (s *Store) MarkSaved(saved Fields) {
	s.mu.Lock()
	next := s.current.clone()
	for name, state := range next.states {
		before, ok := saved.Get(name)
		if ok && reflect.DeepEqual(before.Value, state.Value) {
			state.Touched = false
			next.states[name] = state
		}
	}
	s.commit(next)
	s.mu.Unlock()

	s.drain()
}

// Subscribe registers fn to run after every commit. The returned function
// removes the subscription.
func (s *Store) Subscribe(fn func(Fields)) func() {
	if fn == nil {
		return func() {}
	}
	s.subsMu.Lock()
	id := s.nextSub
	s.nextSub++
	s.subs[id] = fn
	s.subsMu.Unlock()

	return func() {
		s.subsMu.Lock()
		delete(s.subs, id)
		s.subsMu.Unlock()
	}
}

// commit must be called with mu held. Queueing under mu keeps delivery in
// commit order.
func (s *Store) commit(next Fields) Fields {
	s.current = next
	s.queueMu.Lock()
	s.pending = append(s.pending, next)
	s.queueMu.Unlock()
	return next
}

// drain delivers queued snapshots. Only one caller drains at a time; others,
// including subscribers writing back, leave their snapshot to it.
func (s *Store) drain() {
	s.queueMu.Lock()
	if s.publishing {
		s.queueMu.Unlock()
		return
	}
	s.publishing = true
	for len(s.pending) > 0 {
		snapshot := s.pending[0]
		s.pending = s.pending[1:]
		s.queueMu.Unlock()

		s.publish(snapshot)

		s.queueMu.Lock()
	}
	s.publishing = false
	s.queueMu.Unlock()
}

func (s *Store) publish(snapshot Fields) {
	s.subsMu.Lock()
	ids := make([]int, 0, len(s.subs))
	for id := range s.subs {
		ids = append(ids, id)
	}
	subs := make([]func(Fields), 0, len(ids))
	sort.Ints(ids)
	for _, id := range ids {
		subs = append(subs, s.subs[id])
	}
	s.subsMu.Unlock()

	for _, fn := range subs {
		fn(snapshot)
	}
}
