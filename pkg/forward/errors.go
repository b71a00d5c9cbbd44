package forward

import (
	"errors"
	"fmt"
	"strings"
)

// MemberNotFoundError is returned when a named member does not exist
// on the wrapped handle.
type MemberNotFoundError struct {
	TargetKind string
	Member     string
	Available  []string
}

func (e *MemberNotFoundError) Error() string {
	if len(e.Available) == 0 {
		return fmt.Sprintf("member %q not found on %s", e.Member, e.TargetKind)
	}
	return fmt.Sprintf("member %q not found on %s (available: %s)",
		e.Member, e.TargetKind, strings.Join(e.Available, ", "))
}

// InvalidTargetError is returned when the handle kind does not support
// the requested operation, e.g. a write against a read-only cursor.
type InvalidTargetError struct {
	TargetKind string
	Member     string
	Op         string
}

func (e *InvalidTargetError) Error() string {
	return fmt.Sprintf("%s does not support %s (member %q)", e.TargetKind, e.Op, e.Member)
}

// TypeConversionError is returned when a raw member value cannot be
// converted to the statically expected type at the call site.
type TypeConversionError struct {
	Member string
	Value  any
	Want   string
	Cause  error
}

func (e *TypeConversionError) Error() string {
	return fmt.Sprintf("member %q: cannot convert %T value to %s", e.Member, e.Value, e.Want)
}

func (e *TypeConversionError) Unwrap() error { return e.Cause }

// IsMemberNotFound reports whether err is a MemberNotFoundError.
func IsMemberNotFound(err error) bool {
	var target *MemberNotFoundError
	return errors.As(err, &target)
}

// IsInvalidTarget reports whether err is an InvalidTargetError.
func IsInvalidTarget(err error) bool {
	var target *InvalidTargetError
	return errors.As(err, &target)
}

// IsTypeConversion reports whether err is a TypeConversionError.
func IsTypeConversion(err error) bool {
	var target *TypeConversionError
	return errors.As(err, &target)
}
