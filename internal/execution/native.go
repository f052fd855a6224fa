package execution

import (
	"context"
	"fmt"
	"sync"

	"thinline/internal/domain"
)

// Func is a Go implementation of an annotated function. Arguments arrive in
// the order of the function's parameters
type Func func(args []domain.Literal) (domain.Literal, error)

// NativeRunner evaluates functions through Go bindings, keyed by scoped
// function name
type NativeRunner struct {
	mu    sync.RWMutex
	funcs map[string]Func
}

// NewNativeRunner creates an empty NativeRunner
func NewNativeRunner() *NativeRunner {
	return &NativeRunner{funcs: make(map[string]Func)}
}

// Bind registers f for the function with the given scoped name
func (n *NativeRunner) Bind(scopedName string, f Func) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.funcs[scopedName] = f
}

// Has reports whether fn has a binding
func (n *NativeRunner) Has(fn domain.Function) bool {
	n.mu.RLock()
	defer n.mu.RUnlock()
	_, ok := n.funcs[fn.ScopedName()]
	return ok
}

// Run implements Runner
func (n *NativeRunner) Run(ctx context.Context, fn domain.Function, args map[string]domain.Literal) (domain.Literal, error) {
	n.mu.RLock()
	f, ok := n.funcs[fn.ScopedName()]
	n.mu.RUnlock()
	if !ok {
		return domain.Literal{}, fmt.Errorf("%w %s", ErrNoRunner, fn.ScopedName())
	}
	if err := ctx.Err(); err != nil {
		return domain.Literal{}, err
	}

	ordered := make([]domain.Literal, 0, len(fn.Parameters))
	for _, p := range fn.Parameters {
		v, ok := args[p]
		if !ok {
			return domain.Literal{}, fmt.Errorf("missing argument %s", p)
		}
		ordered = append(ordered, v)
	}
	return f(ordered)
}

// Add sums numbers or concatenates text. Integers stay integers unless a
// float is involved
func Add(args []domain.Literal) (domain.Literal, error) {
	if len(args) == 0 {
		return domain.Literal{}, fmt.Errorf("add needs at least one argument")
	}

	if args[0].Kind == domain.KindText {
		s := ""
		for _, a := range args {
			if a.Kind != domain.KindText {
				return domain.Literal{}, fmt.Errorf("cannot add %s to text", a.Kind)
			}
			s += a.Text
		}
		return domain.Text(s), nil
	}

	var (
		isFloat bool
		i       int64
		f       float64
	)
	for _, a := range args {
		switch a.Kind {
		case domain.KindInteger:
			i += a.Int
		case domain.KindFloat:
			isFloat = true
			f += a.Float
		default:
			return domain.Literal{}, fmt.Errorf("cannot add %s to a number", a.Kind)
		}
	}
	if isFloat {
		return domain.Float(f + float64(i)), nil
	}
	return domain.Int(i), nil
}

// Constant returns a Func ignoring its arguments
func Constant(v domain.Literal) Func {
	return func([]domain.Literal) (domain.Literal, error) { return v, nil }
}
