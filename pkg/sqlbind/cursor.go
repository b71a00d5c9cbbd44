package sqlbind

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/leapstack-labs/dynabind/pkg/forward"
)

// cursorTarget is a forward-only row cursor. Member reads resolve
// against the current row's columns; the cursor is read-only, so it
// implements no Set and member writes fail with InvalidTarget.
type cursorTarget struct {
	rows    *sql.Rows
	columns []string
	current map[string]any
	hasRow  bool
}

func newCursorTarget(rows *sql.Rows) (*cursorTarget, error) {
	cols, err := rows.Columns()
	if err != nil {
		_ = rows.Close()
		return nil, fmt.Errorf("failed to read result columns: %w", err)
	}
	return &cursorTarget{rows: rows, columns: cols}, nil
}

func (c *cursorTarget) Kind() string { return "cursor" }

func (c *cursorTarget) Members() []string {
	out := make([]string, len(c.columns))
	copy(out, c.columns)
	return out
}

// Get returns the named column of the current row.
func (c *cursorTarget) Get(_ context.Context, name string) (any, error) {
	if !c.hasRow {
		return nil, &forward.InvalidTargetError{TargetKind: c.Kind(), Member: name, Op: "read without a current row"}
	}
	v, ok := c.current[name]
	if !ok {
		return nil, &forward.MemberNotFoundError{TargetKind: c.Kind(), Member: name, Available: c.columns}
	}
	return v, nil
}

func (c *cursorTarget) Call(_ context.Context, name string, _ []any) (any, error) {
	switch name {
	case "next":
		return c.next()
	case "close":
		return nil, c.rows.Close()
	default:
		return nil, &forward.MemberNotFoundError{
			TargetKind: c.Kind(), Member: name, Available: []string{"close", "next"},
		}
	}
}

// next advances the cursor and scans the new current row.
// Returns false once the result set is exhausted.
func (c *cursorTarget) next() (bool, error) {
	if !c.rows.Next() {
		c.hasRow = false
		if err := c.rows.Err(); err != nil {
			return false, fmt.Errorf("error iterating rows: %w", err)
		}
		return false, nil
	}

	values := make([]any, len(c.columns))
	ptrs := make([]any, len(c.columns))
	for i := range values {
		ptrs[i] = &values[i]
	}
	if err := c.rows.Scan(ptrs...); err != nil {
		return false, fmt.Errorf("failed to scan row: %w", err)
	}

	c.current = make(map[string]any, len(c.columns))
	for i, col := range c.columns {
		c.current[col] = values[i]
	}
	c.hasRow = true
	return true, nil
}
