package forward

import (
	"context"
	"errors"
	"log/slog"

	"github.com/google/uuid"
)

// Forwarder wraps exactly one Target and forwards named-member access to
// it. It owns nothing beyond the reference: the underlying handle is
// opened and closed by the caller. A Forwarder keeps no member-resolution
// state between calls; each access dispatches through the Target afresh.
type Forwarder struct {
	id     string
	target Target
	logger *slog.Logger
}

// Option configures a Forwarder.
type Option func(*Forwarder)

// WithLogger sets the logger used for member-access debug logging.
// A nil logger is replaced with a discard logger.
func WithLogger(logger *slog.Logger) Option {
	return func(f *Forwarder) {
		if logger != nil {
			f.logger = logger
		}
	}
}

// Wrap creates a Forwarder around the given target.
func Wrap(target Target, opts ...Option) *Forwarder {
	f := &Forwarder{
		id:     uuid.NewString(),
		target: target,
		logger: slog.New(slog.DiscardHandler),
	}
	for _, opt := range opts {
		opt(f)
	}
	return f
}

// ID returns the forwarder's correlation id. Nested handles returned by
// InvokeHandle get their own id.
func (f *Forwarder) ID() string { return f.id }

// Target returns the wrapped handle.
func (f *Forwarder) Target() Target { return f.target }

// Kind returns the wrapped handle's kind.
func (f *Forwarder) Kind() string { return f.target.Kind() }

// Members returns the names currently addressable on the wrapped handle.
func (f *Forwarder) Members() []string { return f.target.Members() }

// Read looks up name against the handle's addressable members and
// returns the raw value. Fails with MemberNotFoundError when absent.
func (f *Forwarder) Read(ctx context.Context, name string) (any, error) {
	f.logger.Debug("member read", "handle", f.id, "kind", f.target.Kind(), "member", name)
	return f.target.Get(ctx, name)
}

// Write sets name = value on the handle. Fails with InvalidTargetError
// when the handle kind does not accept writes.
func (f *Forwarder) Write(ctx context.Context, name string, value any) error {
	f.logger.Debug("member write", "handle", f.id, "kind", f.target.Kind(), "member", name)
	s, ok := f.target.(Settable)
	if !ok {
		return &InvalidTargetError{TargetKind: f.target.Kind(), Member: name, Op: "write"}
	}
	return s.Set(ctx, name, value)
}

// InvokeValue locates name as an invocable member, applies args, and
// returns the raw result. The call site declares a value-shaped result;
// use InvokeHandle when the result is itself a handle.
func (f *Forwarder) InvokeValue(ctx context.Context, name string, args ...any) (any, error) {
	return f.invoke(ctx, name, args)
}

// InvokeHandle invokes name and wraps the handle-shaped result in a new
// Forwarder. The wrapping decision is the call site's declared shape: a
// result that is not a Target fails with TypeConversionError rather
// than being inspected further.
func (f *Forwarder) InvokeHandle(ctx context.Context, name string, args ...any) (*Forwarder, error) {
	result, err := f.invoke(ctx, name, args)
	if err != nil {
		return nil, err
	}
	target, ok := result.(Target)
	if !ok {
		return nil, &TypeConversionError{Member: name, Value: result, Want: "handle"}
	}
	return Wrap(target, WithLogger(f.logger)), nil
}

func (f *Forwarder) invoke(ctx context.Context, name string, args []any) (any, error) {
	f.logger.Debug("member invoke", "handle", f.id, "kind", f.target.Kind(), "member", name, "args", len(args))
	inv, ok := f.target.(Invocable)
	if !ok {
		return nil, &InvalidTargetError{TargetKind: f.target.Kind(), Member: name, Op: "invoke"}
	}
	return inv.Call(ctx, name, args)
}

// ReadAs reads the named member and converts it to the type expected at
// the call site. Conversion failures surface as TypeConversionError;
// there are no silent defaults.
func ReadAs[T any](ctx context.Context, f *Forwarder, name string) (T, error) {
	var zero T
	raw, err := f.Read(ctx, name)
	if err != nil {
		return zero, err
	}
	v, err := Convert[T](raw)
	if err != nil {
		var convErr *TypeConversionError
		if errors.As(err, &convErr) {
			convErr.Member = name
		}
		return zero, err
	}
	return v, nil
}
