// store.go implements the parameter store: declared ranges, current values,
// change notification.

package params

import (
	"context"
	"fmt"
	"sort"

	"github.com/xaionaro-go/imagepipeline/logger"
	"github.com/xaionaro-go/xsync"
)

type Key = string

// Listener is notified with the key of every committed point update.
// It is invoked outside of the Store's lock, from the goroutine that
// called Set.
type Listener func(ctx context.Context, key Key)

// Store is a key-value mapping with a declared Range per key.
//
// All methods are concurrency-safe. A value observed through Get is
// always within the declared bounds: Set rejects everything else.
type Store struct {
	locker    xsync.Mutex
	ranges    map[Key]Range
	values    map[Key]any
	listeners []Listener
}

func NewStore() *Store {
	return &Store{
		ranges: map[Key]Range{},
		values: map[Key]any{},
	}
}

// Declare registers a parameter and sets it to its declared default.
func (s *Store) Declare(ctx context.Context, key Key, r Range) error {
	return xsync.DoR1(ctx, &s.locker, func() error {
		if _, ok := s.ranges[key]; ok {
			return fmt.Errorf("parameter '%s' is already declared", key)
		}
		s.ranges[key] = r
		s.values[key] = r.Default()
		return nil
	})
}

// Set commits a point update of one parameter and notifies the listeners.
func (s *Store) Set(ctx context.Context, key Key, value any) (_err error) {
	logger.Tracef(ctx, "Set(%s, %v)", key, value)
	defer func() { logger.Tracef(ctx, "/Set(%s, %v): %v", key, value, _err) }()

	listeners, err := xsync.DoR2(ctx, &s.locker, func() ([]Listener, error) {
		r, ok := s.ranges[key]
		if !ok {
			return nil, fmt.Errorf("parameter '%s' is not declared", key)
		}
		if err := r.Validate(value); err != nil {
			return nil, fmt.Errorf("invalid value for parameter '%s': %w", key, err)
		}
		s.values[key] = value
		listeners := make([]Listener, len(s.listeners))
		copy(listeners, s.listeners)
		return listeners, nil
	})
	if err != nil {
		return err
	}

	// notifying outside of the lock: a listener is allowed to read the
	// Store back (the node's change handler does).
	for _, l := range listeners {
		l(ctx, key)
	}
	return nil
}

// AddListener subscribes to committed point updates.
func (s *Store) AddListener(l Listener) {
	s.locker.Do(context.TODO(), func() {
		s.listeners = append(s.listeners, l)
	})
}

// GetRange returns the declared Range of a key.
func (s *Store) GetRange(ctx context.Context, key Key) (Range, bool) {
	return xsync.DoR2(ctx, &s.locker, func() (Range, bool) {
		r, ok := s.ranges[key]
		return r, ok
	})
}

// Keys returns the declared parameter names, sorted.
func (s *Store) Keys(ctx context.Context) []Key {
	return xsync.DoR1(ctx, &s.locker, func() []Key {
		keys := make([]Key, 0, len(s.ranges))
		for key := range s.ranges {
			keys = append(keys, key)
		}
		sort.Strings(keys)
		return keys
	})
}

// Get reads the current value of a declared parameter.
//
// Reading an undeclared key, or reading with the wrong type parameter,
// is a programming error and panics: declarations are static, so this
// cannot be triggered by runtime data.
func Get[T any](ctx context.Context, s *Store, key Key) T {
	return xsync.DoR1(ctx, &s.locker, func() T {
		value, ok := s.values[key]
		if !ok {
			logger.Panicf(ctx, "parameter '%s' is not declared", key)
		}
		typed, ok := value.(T)
		if !ok {
			logger.Panicf(ctx, "parameter '%s' holds a %T, but was read as a %T", key, value, typed)
		}
		return typed
	})
}
