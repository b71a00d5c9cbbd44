package forward

import (
	"context"
	"sort"
)

// Func is an invocable member of a MapTarget.
type Func func(ctx context.Context, args []any) (any, error)

// MapTarget is an in-memory Target backed by maps. It is used by tests
// and by structural binding over plain Go data.
type MapTarget struct {
	kind   string
	values map[string]any
	funcs  map[string]Func
}

// NewMapTarget creates an empty MapTarget with the given kind.
func NewMapTarget(kind string) *MapTarget {
	return &MapTarget{
		kind:   kind,
		values: make(map[string]any),
		funcs:  make(map[string]Func),
	}
}

// NewValueTarget creates a MapTarget pre-populated with values.
func NewValueTarget(kind string, values map[string]any) *MapTarget {
	t := NewMapTarget(kind)
	for k, v := range values {
		t.values[k] = v
	}
	return t
}

// SetFunc registers an invocable member.
func (t *MapTarget) SetFunc(name string, fn Func) *MapTarget {
	t.funcs[name] = fn
	return t
}

// Kind returns the target's kind.
func (t *MapTarget) Kind() string { return t.kind }

// Members returns value and function names, sorted.
func (t *MapTarget) Members() []string {
	names := make([]string, 0, len(t.values)+len(t.funcs))
	for name := range t.values {
		names = append(names, name)
	}
	for name := range t.funcs {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Get returns the named value.
func (t *MapTarget) Get(_ context.Context, name string) (any, error) {
	v, ok := t.values[name]
	if !ok {
		return nil, &MemberNotFoundError{TargetKind: t.kind, Member: name, Available: t.Members()}
	}
	return v, nil
}

// Set stores the named value.
func (t *MapTarget) Set(_ context.Context, name string, value any) error {
	t.values[name] = value
	return nil
}

// Call invokes the named function member.
func (t *MapTarget) Call(ctx context.Context, name string, args []any) (any, error) {
	fn, ok := t.funcs[name]
	if !ok {
		return nil, &MemberNotFoundError{TargetKind: t.kind, Member: name, Available: t.Members()}
	}
	return fn(ctx, args)
}
