// Package forward implements dynamic named-member forwarding onto wrapped
// handles. A Forwarder wraps exactly one Target (a database connection,
// command, row cursor, or embedded-script object) and translates generic
// "access member X" requests into the concrete operation the handle exposes.
package forward

import "context"

// Target is the minimal capability a wrapped handle must expose.
// Every member access is independently named and independently dispatched;
// implementations must not assume the forwarder caches resolutions.
type Target interface {
	// Kind returns a short description of the handle kind
	// (e.g. "connection", "command", "cursor", "script object").
	// Used in error messages and logs.
	Kind() string

	// Members returns the names currently addressable on the handle.
	// For cursors this is the column set; for script objects the
	// attribute names. The result is advisory (used for error
	// reporting and completion), Get remains the source of truth.
	Members() []string

	// Get reads the named member. Returns a MemberNotFoundError when
	// the name does not resolve on the handle.
	Get(ctx context.Context, name string) (any, error)
}

// Settable is implemented by targets that accept writes
// (e.g. a command registering named parameters, a script object
// with assignable attributes). Read-only handles such as cursors
// deliberately do not implement it.
type Settable interface {
	Set(ctx context.Context, name string, value any) error
}

// Invocable is implemented by targets with callable members
// (e.g. creating a command from a connection, advancing a cursor,
// calling a script function).
type Invocable interface {
	Call(ctx context.Context, name string, args []any) (any, error)
}
