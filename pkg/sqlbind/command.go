package sqlbind

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"sort"

	"github.com/leapstack-labs/dynabind/pkg/forward"
)

// commandTarget is a parameterized statement handle. Member writes
// register named parameters; "query" and "exec" bind them with
// sql.Named and run the statement.
type commandTarget struct {
	db     *sql.DB
	text   string
	params map[string]any
	order  []string
	logger *slog.Logger
}

func newCommandTarget(db *sql.DB, text string, logger *slog.Logger) *commandTarget {
	return &commandTarget{
		db:     db,
		text:   text,
		params: make(map[string]any),
		logger: logger,
	}
}

func (c *commandTarget) Kind() string { return "command" }

func (c *commandTarget) Members() []string {
	names := make([]string, 0, len(c.params)+3)
	for name := range c.params {
		names = append(names, name)
	}
	sort.Strings(names)
	return append(names, "clear", "exec", "query")
}

// Get returns a previously registered parameter value, so that a write
// followed by a read of the same name round-trips unchanged.
func (c *commandTarget) Get(_ context.Context, name string) (any, error) {
	v, ok := c.params[name]
	if !ok {
		return nil, &forward.MemberNotFoundError{TargetKind: c.Kind(), Member: name, Available: c.paramNames()}
	}
	return v, nil
}

// Set registers name = value as a named parameter for the next execution.
func (c *commandTarget) Set(_ context.Context, name string, value any) error {
	if _, exists := c.params[name]; !exists {
		c.order = append(c.order, name)
	}
	c.params[name] = value
	return nil
}

func (c *commandTarget) Call(ctx context.Context, name string, args []any) (any, error) {
	switch name {
	case "query":
		c.logger.Debug("executing query", "params", len(c.params))
		//nolint:rowserrcheck // rows ownership moves to the cursor target
		rows, err := c.db.QueryContext(ctx, c.text, c.namedArgs()...)
		if err != nil {
			return nil, fmt.Errorf("failed to execute query: %w", err)
		}
		return newCursorTarget(rows)

	case "exec":
		c.logger.Debug("executing statement", "params", len(c.params))
		res, err := c.db.ExecContext(ctx, c.text, c.namedArgs()...)
		if err != nil {
			return nil, fmt.Errorf("failed to execute statement: %w", err)
		}
		affected, err := res.RowsAffected()
		if err != nil {
			return int64(0), nil
		}
		return affected, nil

	case "clear":
		c.params = make(map[string]any)
		c.order = nil
		return nil, nil

	default:
		return nil, &forward.MemberNotFoundError{
			TargetKind: c.Kind(), Member: name, Available: []string{"clear", "exec", "query"},
		}
	}
}

// namedArgs binds registered parameters in registration order.
func (c *commandTarget) namedArgs() []any {
	out := make([]any, 0, len(c.order))
	for _, name := range c.order {
		out = append(out, sql.Named(name, c.params[name]))
	}
	return out
}

func (c *commandTarget) paramNames() []string {
	names := make([]string, 0, len(c.params))
	for name := range c.params {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
