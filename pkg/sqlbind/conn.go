package sqlbind

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"

	"github.com/leapstack-labs/dynabind/pkg/forward"
)

// Open connects to the configured database and returns a connection
// handle. The caller owns the handle and must invoke its "close" member
// (or close the underlying DB) on all exit paths.
func Open(ctx context.Context, cfg Config, logger *slog.Logger) (*forward.Forwarder, error) {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}

	d, ok := Get(cfg.Driver)
	if !ok {
		return nil, &UnknownDriverError{Name: cfg.Driver, Available: List()}
	}

	db, err := sql.Open(d.SQLDriver, d.DSN(cfg))
	if err != nil {
		return nil, fmt.Errorf("failed to open %s connection: %w", d.Name, err)
	}
	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to ping %s: %w", d.Name, err)
	}

	logger.Debug("connection opened", "driver", d.Name, "database", cfg.Database)
	return WrapDB(db, d.Name, cfg, logger), nil
}

// WrapDB wraps an already-open *sql.DB as a connection handle.
// Lifecycle stays with the caller.
func WrapDB(db *sql.DB, driverName string, cfg Config, logger *slog.Logger) *forward.Forwarder {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return forward.Wrap(&connTarget{
		db:     db,
		driver: driverName,
		cfg:    cfg,
		logger: logger,
	}, forward.WithLogger(logger))
}

// connTarget exposes a *sql.DB as a forward.Target. It accepts no
// member writes; commands are created through the "command" invocable.
type connTarget struct {
	db     *sql.DB
	driver string
	cfg    Config
	logger *slog.Logger
}

func (c *connTarget) Kind() string { return "connection" }

func (c *connTarget) Members() []string {
	return []string{"close", "command", "database", "driver", "exec", "open", "ping"}
}

func (c *connTarget) Get(_ context.Context, name string) (any, error) {
	switch name {
	case "driver":
		return c.driver, nil
	case "database":
		if c.cfg.Database != "" {
			return c.cfg.Database, nil
		}
		return c.cfg.Path, nil
	case "open":
		return c.db != nil, nil
	default:
		return nil, &forward.MemberNotFoundError{
			TargetKind: c.Kind(), Member: name, Available: []string{"database", "driver", "open"},
		}
	}
}

func (c *connTarget) Call(ctx context.Context, name string, args []any) (any, error) {
	switch name {
	case "command":
		text, err := argAs[string](name, args, 0)
		if err != nil {
			return nil, err
		}
		return newCommandTarget(c.db, text, c.logger), nil

	case "exec":
		text, err := argAs[string](name, args, 0)
		if err != nil {
			return nil, err
		}
		res, err := c.db.ExecContext(ctx, text)
		if err != nil {
			return nil, fmt.Errorf("failed to execute SQL: %w", err)
		}
		affected, err := res.RowsAffected()
		if err != nil {
			// Some drivers do not report affected rows.
			return int64(0), nil
		}
		return affected, nil

	case "ping":
		if err := c.db.PingContext(ctx); err != nil {
			return nil, fmt.Errorf("ping failed: %w", err)
		}
		return true, nil

	case "close":
		c.logger.Debug("closing connection", "driver", c.driver)
		return nil, c.db.Close()

	default:
		return nil, &forward.MemberNotFoundError{
			TargetKind: c.Kind(), Member: name, Available: []string{"close", "command", "exec", "ping"},
		}
	}
}

// argAs extracts the i-th positional argument converted to the expected
// type. Missing or incompatible arguments surface as conversion errors
// against the invoked member.
func argAs[T any](member string, args []any, i int) (T, error) {
	var zero T
	if i >= len(args) {
		return zero, &forward.TypeConversionError{
			Member: member, Value: nil, Want: fmt.Sprintf("%T (argument %d)", zero, i),
		}
	}
	v, err := forward.Convert[T](args[i])
	if err != nil {
		return zero, &forward.TypeConversionError{Member: member, Value: args[i], Want: fmt.Sprintf("%T", zero), Cause: err}
	}
	return v, nil
}
