package execution

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"thinline/internal/domain"
)

// ErrNoRunner is returned when no runner can evaluate a function
var ErrNoRunner = errors.New("no runner for function")

// Runner calls a function with named arguments and returns its result
type Runner interface {
	Run(ctx context.Context, fn domain.Function, args map[string]domain.Literal) (domain.Literal, error)
}

// Dispatcher picks a runner per function. Native bindings win over
// language runners
type Dispatcher struct {
	native *NativeRunner

	mu         sync.RWMutex
	byLanguage map[domain.Language]Runner
}

// NewDispatcher creates a Dispatcher. native may be nil
func NewDispatcher(native *NativeRunner) *Dispatcher {
	return &Dispatcher{native: native, byLanguage: make(map[domain.Language]Runner)}
}

// Register sets the runner used for functions of lang
func (d *Dispatcher) Register(lang domain.Language, r Runner) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.byLanguage[lang] = r
}

// Run implements Runner
func (d *Dispatcher) Run(ctx context.Context, fn domain.Function, args map[string]domain.Literal) (domain.Literal, error) {
	if d.native != nil && d.native.Has(fn) {
		return d.native.Run(ctx, fn, args)
	}

	d.mu.RLock()
	r, ok := d.byLanguage[fn.Language]
	d.mu.RUnlock()
	if !ok {
		return domain.Literal{}, fmt.Errorf("%w %s (%s)", ErrNoRunner, fn.ScopedName(), fn.Language)
	}
	return r.Run(ctx, fn, args)
}
