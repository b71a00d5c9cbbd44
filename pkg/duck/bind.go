package duck

import (
	"context"
	"fmt"
	"slices"

	"github.com/leapstack-labs/dynabind/pkg/forward"
)

// Bound is a structurally validated adapter over a dynamic target.
// Only members declared by the contract are reachable through it.
type Bound struct {
	contract Contract
	fwd      *forward.Forwarder
}

// Bind validates the contract against the target once, at construction.
// Every violation is collected into a single BindError; per-call
// validation is deliberately absent afterwards.
func Bind(f *forward.Forwarder, contract Contract) (*Bound, error) {
	available := f.Members()
	_, settable := f.Target().(forward.Settable)
	_, invocable := f.Target().(forward.Invocable)

	var violations []string
	for _, m := range contract.Members {
		if !slices.Contains(available, m.Name) {
			violations = append(violations, fmt.Sprintf("missing member %q", m.Name))
			continue
		}
		if m.Kind == KindMethod && !invocable {
			violations = append(violations, fmt.Sprintf("member %q: target has no invocable members", m.Name))
		}
		if m.Writable && !settable {
			violations = append(violations, fmt.Sprintf("member %q: target is read-only", m.Name))
		}
	}

	if len(violations) > 0 {
		return nil, &BindError{
			Contract:   contract.Name,
			TargetKind: f.Kind(),
			Violations: violations,
		}
	}
	return &Bound{contract: contract, fwd: f}, nil
}

// Contract returns the bound contract.
func (b *Bound) Contract() Contract { return b.contract }

// Forwarder returns the underlying forwarder.
func (b *Bound) Forwarder() *forward.Forwarder { return b.fwd }

// Read reads a declared value member.
func (b *Bound) Read(ctx context.Context, name string) (any, error) {
	if err := b.require(name, KindValue, false); err != nil {
		return nil, err
	}
	return b.fwd.Read(ctx, name)
}

// Write writes a declared writable member.
func (b *Bound) Write(ctx context.Context, name string, value any) error {
	if err := b.require(name, KindValue, true); err != nil {
		return err
	}
	return b.fwd.Write(ctx, name, value)
}

// Invoke calls a declared method member, returning a raw value.
func (b *Bound) Invoke(ctx context.Context, name string, args ...any) (any, error) {
	if err := b.require(name, KindMethod, false); err != nil {
		return nil, err
	}
	return b.fwd.InvokeValue(ctx, name, args...)
}

// require checks the access against the contract declaration.
func (b *Bound) require(name string, kind MemberKind, write bool) error {
	m, ok := b.contract.Member(name)
	if !ok {
		return &forward.MemberNotFoundError{
			TargetKind: "contract " + b.contract.Name, Member: name, Available: b.contract.MemberNames(),
		}
	}
	if m.Kind != kind {
		return &forward.InvalidTargetError{TargetKind: "contract " + b.contract.Name, Member: name, Op: string(kind) + " access"}
	}
	if write && !m.Writable {
		return &forward.InvalidTargetError{TargetKind: "contract " + b.contract.Name, Member: name, Op: "write"}
	}
	return nil
}

// ReadAs reads a declared value member converted to the call-site type.
func ReadAs[T any](ctx context.Context, b *Bound, name string) (T, error) {
	var zero T
	raw, err := b.Read(ctx, name)
	if err != nil {
		return zero, err
	}
	return forward.Convert[T](raw)
}
