// Package duck implements construction-time structural binding: a
// statically declared contract is validated against a dynamic target
// once, when the adapter is built, instead of at every call site.
// After a successful Bind, member access forwards through the contract.
package duck

import (
	"fmt"
	"strings"
)

// MemberKind classifies a contract member.
type MemberKind string

const (
	// KindValue is a readable (and optionally writable) data member.
	KindValue MemberKind = "value"

	// KindMethod is an invocable member.
	KindMethod MemberKind = "method"
)

// MemberSpec declares one required member of a contract.
type MemberSpec struct {
	Name     string
	Kind     MemberKind
	Writable bool
}

// Contract is the set of named members a target must expose to satisfy
// a statically declared interface.
type Contract struct {
	Name    string
	Members []MemberSpec
}

// Member returns the spec for a named member.
func (c Contract) Member(name string) (MemberSpec, bool) {
	for _, m := range c.Members {
		if m.Name == name {
			return m, true
		}
	}
	return MemberSpec{}, false
}

// MemberNames returns the declared member names in declaration order.
func (c Contract) MemberNames() []string {
	names := make([]string, len(c.Members))
	for i, m := range c.Members {
		names[i] = m.Name
	}
	return names
}

// BindError reports every contract violation found during Bind.
type BindError struct {
	Contract   string
	TargetKind string
	Violations []string
}

func (e *BindError) Error() string {
	return fmt.Sprintf("target %s does not satisfy contract %s: %s",
		e.TargetKind, e.Contract, strings.Join(e.Violations, "; "))
}
