package form

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"go.uber.org/zap"
	"golang.org/x/sync/semaphore"
)

// ActionFunc is the asynchronous work behind a named action. Failure handling
// belongs to the function; the dispatcher only tracks whether it is running.
type ActionFunc func(ctx context.Context)

// Action is a named operation that can run against the edited target.
type Action struct {
	Name  string
	Class string
	Run   ActionFunc
}

// Gate vetoes a trigger when it returns false.
type Gate func(action string) bool

// Dispatcher runs named actions with at most one call in flight per name.
type Dispatcher struct {
	mu       sync.Mutex
	actions  map[string]Action
	order    []string
	inFlight map[string]bool
	slots    map[string]*semaphore.Weighted
	gates    []Gate
	logger   *zap.Logger
}

// NewDispatcher registers actions. Names must be unique and non-empty and
// every action needs a Run function.
func NewDispatcher(actions []Action, logger *zap.Logger, gates ...Gate) (*Dispatcher, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	d := &Dispatcher{
		actions:  make(map[string]Action, len(actions)),
		order:    make([]string, 0, len(actions)),
		inFlight: make(map[string]bool, len(actions)),
		slots:    make(map[string]*semaphore.Weighted, len(actions)),
		logger:   logger,
	}
	for _, action := range actions {
		name := strings.TrimSpace(action.Name)
		if name == "" {
			return nil, fmt.Errorf("form: action name is required")
		}
		if action.Run == nil {
			return nil, fmt.Errorf("form: action %q has no run function", name)
		}
		if _, exists := d.actions[name]; exists {
			return nil, fmt.Errorf("form: action %q already registered", name)
		}
		action.Name = name
		d.actions[name] = action
		d.order = append(d.order, name)
		d.inFlight[name] = false
		d.slots[name] = semaphore.NewWeighted(1)
	}
	for _, gate := range gates {
		if gate != nil {
			d.gates = append(d.gates, gate)
		}
	}
	return d, nil
}

// Trigger starts the named action unless it is unknown, already in flight or
// vetoed by a gate; in those cases it returns (nil, false) and does nothing.
// The returned channel is closed exactly once, after the in-flight flag has
// been cleared.
func (d *Dispatcher) Trigger(ctx context.Context, name string) (<-chan struct{}, bool) {
	if !d.Enabled(name) {
		d.logger.Debug("action trigger ignored", zap.String("action", name))
		return nil, false
	}

	action := d.actions[name]
	slot := d.slots[name]
	// the slot holds one unit: a concurrent trigger that also passed Enabled
	// loses here
	if !slot.TryAcquire(1) {
		d.logger.Debug("action already in flight", zap.String("action", name))
		return nil, false
	}
	d.mu.Lock()
	d.inFlight[name] = true
	d.mu.Unlock()

	d.logger.Debug("action started", zap.String("action", name))
	done := make(chan struct{})
	go func() {
		defer close(done)
		defer slot.Release(1)

		action.Run(ctx)

		d.mu.Lock()
		d.inFlight[name] = false
		d.mu.Unlock()
		d.logger.Debug("action finished", zap.String("action", name))
	}()
	return done, true
}

// Enabled reports whether Trigger would start the action right now.
func (d *Dispatcher) Enabled(name string) bool {
	d.mu.Lock()
	_, known := d.actions[name]
	busy := d.inFlight[name]
	d.mu.Unlock()
	if !known || busy {
		return false
	}
	for _, gate := range d.gates {
		if !gate(name) {
			return false
		}
	}
	return true
}

// InFlight reports whether the named action is running.
func (d *Dispatcher) InFlight(name string) bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.inFlight[name]
}

// InProgress returns a copy of the in-flight flags of every action.
func (d *Dispatcher) InProgress() map[string]bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	out := make(map[string]bool, len(d.inFlight))
	for name, busy := range d.inFlight {
		out[name] = busy
	}
	return out
}

// Actions returns the registered actions in registration order.
func (d *Dispatcher) Actions() []Action {
	out := make([]Action, 0, len(d.order))
	for _, name := range d.order {
		out = append(out, d.actions[name])
	}
	return out
}
