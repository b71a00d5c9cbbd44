package starbind

import (
	"context"
	"fmt"
	"log/slog"
	"sort"

	"go.starlark.net/starlark"

	"github.com/leapstack-labs/dynabind/pkg/forward"
)

// objectTarget forwards member access to a single Starlark value.
// Attribute-bearing values (structs, modules) resolve members through
// AttrNames/Attr; dict-shaped values resolve through string keys.
type objectTarget struct {
	name   string
	value  starlark.Value
	logger *slog.Logger
}

func newObjectTarget(name string, value starlark.Value, logger *slog.Logger) *objectTarget {
	return &objectTarget{name: name, value: value, logger: logger}
}

func (o *objectTarget) Kind() string { return "script object" }

// Value returns the underlying Starlark value.
func (o *objectTarget) Value() starlark.Value { return o.value }

func (o *objectTarget) Members() []string {
	switch v := o.value.(type) {
	case *starlark.Dict:
		keys := make([]string, 0, v.Len())
		for _, k := range v.Keys() {
			if s, ok := k.(starlark.String); ok {
				keys = append(keys, string(s))
			}
		}
		sort.Strings(keys)
		return keys
	case starlark.HasAttrs:
		names := v.AttrNames()
		out := make([]string, len(names))
		copy(out, names)
		sort.Strings(out)
		return out
	default:
		return nil
	}
}

func (o *objectTarget) Get(_ context.Context, name string) (any, error) {
	attr, err := o.attr(name)
	if err != nil {
		return nil, err
	}
	return o.wrapResult(name, attr), nil
}

func (o *objectTarget) Set(_ context.Context, name string, value any) error {
	sv, err := ToStarlark(value)
	if err != nil {
		return &forward.TypeConversionError{Member: name, Value: value, Want: "starlark value", Cause: err}
	}

	switch v := o.value.(type) {
	case *starlark.Dict:
		if err := v.SetKey(starlark.String(name), sv); err != nil {
			return &forward.InvalidTargetError{TargetKind: o.Kind(), Member: name, Op: "write"}
		}
		return nil
	case starlark.HasSetField:
		if err := v.SetField(name, sv); err != nil {
			if _, ok := err.(starlark.NoSuchAttrError); ok {
				return &forward.MemberNotFoundError{TargetKind: o.Kind(), Member: name, Available: o.Members()}
			}
			return &forward.InvalidTargetError{TargetKind: o.Kind(), Member: name, Op: "write"}
		}
		return nil
	default:
		return &forward.InvalidTargetError{TargetKind: o.Kind(), Member: name, Op: "write"}
	}
}

func (o *objectTarget) Call(_ context.Context, name string, args []any) (any, error) {
	attr, err := o.attr(name)
	if err != nil {
		return nil, err
	}

	fn, ok := attr.(starlark.Callable)
	if !ok {
		return nil, &forward.InvalidTargetError{TargetKind: o.Kind(), Member: name, Op: "invoke"}
	}

	callArgs := make(starlark.Tuple, len(args))
	for i, a := range args {
		sv, err := ToStarlark(a)
		if err != nil {
			return nil, &forward.TypeConversionError{Member: name, Value: a, Want: "starlark value", Cause: err}
		}
		callArgs[i] = sv
	}

	result, err := starlark.Call(newThread(o.name, o.logger), fn, callArgs, nil)
	if err != nil {
		return nil, fmt.Errorf("call %s.%s: %w", o.name, name, err)
	}
	return o.wrapResult(name, result), nil
}

// attr resolves a named member on the underlying value.
func (o *objectTarget) attr(name string) (starlark.Value, error) {
	switch v := o.value.(type) {
	case *starlark.Dict:
		val, found, err := v.Get(starlark.String(name))
		if err != nil || !found {
			return nil, &forward.MemberNotFoundError{TargetKind: o.Kind(), Member: name, Available: o.Members()}
		}
		return val, nil
	case starlark.HasAttrs:
		attr, err := v.Attr(name)
		if err != nil || attr == nil {
			return nil, &forward.MemberNotFoundError{TargetKind: o.Kind(), Member: name, Available: o.Members()}
		}
		return attr, nil
	default:
		return nil, &forward.InvalidTargetError{TargetKind: o.Kind(), Member: name, Op: "member access"}
	}
}

// wrapResult converts a Starlark value at the boundary. Object-shaped
// results stay wrapped as targets so handle-shaped call sites can
// forward into them; everything else converts to a plain Go value.
func (o *objectTarget) wrapResult(name string, v starlark.Value) any {
	if isObjectShaped(v) {
		return newObjectTarget(o.name+"."+name, v, o.logger)
	}
	gv, err := FromStarlark(v)
	if err != nil {
		// Unconvertible values stay addressable as nested targets.
		return newObjectTarget(o.name+"."+name, v, o.logger)
	}
	return gv
}

// String renders the underlying Starlark value.
func (o *objectTarget) String() string { return o.value.String() }

// isObjectShaped reports whether a value should remain a handle rather
// than convert to a plain Go value. Dicts stay handles so that nested
// member access keeps forwarding; lists and scalars convert.
func isObjectShaped(v starlark.Value) bool {
	switch v.(type) {
	case starlark.String, starlark.Int, starlark.Float, starlark.Bool, starlark.NoneType,
		*starlark.List, starlark.Tuple:
		return false
	case *starlark.Dict:
		return true
	}
	if _, ok := v.(starlark.Callable); ok {
		return true
	}
	_, ok := v.(starlark.HasAttrs)
	return ok
}

// Elements iterates a collection-shaped script object into Go values.
// Fails with InvalidTargetError when the handle does not wrap a script
// object or the object is not iterable.
func Elements(f *forward.Forwarder) ([]any, error) {
	obj, ok := f.Target().(*objectTarget)
	if !ok {
		return nil, &forward.InvalidTargetError{TargetKind: f.Kind(), Op: "iterate"}
	}

	iterable, ok := obj.value.(starlark.Iterable)
	if !ok {
		return nil, &forward.InvalidTargetError{TargetKind: obj.Kind(), Op: "iterate"}
	}

	iter := iterable.Iterate()
	defer iter.Done()

	var out []any
	var v starlark.Value
	for iter.Next(&v) {
		gv, err := FromStarlark(v)
		if err != nil {
			return nil, err
		}
		out = append(out, gv)
	}
	return out, nil
}
