// Package future provides a single-assignment value for passing outputs
// between resource-graph branches.
//
// A cluster provisioner resolves its kubeconfig future once the cloud API
// reports the cluster ready; downstream installers block on Get until then.
package future

import (
	"context"
	"fmt"
	"sync"
)

// Value is a single-assignment container. Set may be called exactly once;
// Get blocks until the value is set or the context is done.
type Value[T any] struct {
	mu   sync.Mutex
	done chan struct{}
	val  T
	set  bool
}

// New creates an unresolved Value.
func New[T any]() *Value[T] {
	return &Value[T]{done: make(chan struct{})}
}

// Resolved creates a Value that is already set. Useful in tests and for
// inputs known up front.
func Resolved[T any](val T) *Value[T] {
	v := New[T]()
	v.MustSet(val)
	return v
}

// Set resolves the value. Setting twice is a programming error.
func (v *Value[T]) Set(val T) error {
	v.mu.Lock()
	defer v.mu.Unlock()

	if v.set {
		return fmt.Errorf("future already resolved")
	}

	v.val = val
	v.set = true
	close(v.done)

	return nil
}

// MustSet resolves the value and panics if it was already resolved.
func (v *Value[T]) MustSet(val T) {
	if err := v.Set(val); err != nil {
		panic(err)
	}
}

// Get blocks until the value is resolved or ctx is done.
func (v *Value[T]) Get(ctx context.Context) (T, error) {
	select {
	case <-v.done:
		return v.val, nil
	case <-ctx.Done():
		var zero T
		return zero, fmt.Errorf("waiting for future: %w", ctx.Err())
	}
}

// TryGet returns the value without blocking. The second return reports
// whether the value was resolved.
func (v *Value[T]) TryGet() (T, bool) {
	select {
	case <-v.done:
		return v.val, true
	default:
		var zero T
		return zero, false
	}
}
