// Package commands implements the dynabind CLI commands.
package commands

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/leapstack-labs/dynabind/internal/cli/config"
	"github.com/leapstack-labs/dynabind/pkg/forward"
	"github.com/leapstack-labs/dynabind/pkg/sqlbind"
	"github.com/leapstack-labs/dynabind/pkg/starbind"
)

// handle is an opened named target: either a database connection or a
// loaded script context. close must be called on all exit paths.
type handle struct {
	name   string
	conn   *forward.Forwarder
	script *starbind.Script
	close  func() error
}

func (h *handle) isScript() bool { return h.script != nil }

// openTarget opens the named target from configuration.
func openTarget(cmd *cobra.Command, name string) (*handle, error) {
	ctx := cmd.Context()
	cfg := config.GetConfig(ctx)
	logger := config.GetLogger(ctx)

	target, err := cfg.Target(name)
	if err != nil {
		return nil, err
	}

	if target.IsScript() {
		script, err := starbind.Load(target.Path, starbind.WithLogger(logger))
		if err != nil {
			return nil, err
		}
		return &handle{name: name, script: script, close: func() error { return nil }}, nil
	}

	conn, err := sqlbind.Open(ctx, target.SQLConfig(), logger)
	if err != nil {
		return nil, err
	}
	return &handle{
		name: name,
		conn: conn,
		close: func() error {
			_, err := conn.InvokeValue(context.Background(), "close")
			return err
		},
	}, nil
}

// resolveMember resolves a possibly dotted member path against the
// handle, returning the forwarder owning the final member and the
// member name itself. For script targets the first path component is
// the object name; intermediate components must be handle-shaped.
func (h *handle) resolveMember(ctx context.Context, path string) (*forward.Forwarder, string, error) {
	if h.isScript() {
		parts := strings.Split(path, ".")
		if len(parts) < 2 {
			return nil, "", fmt.Errorf("script members are addressed as object.member, got %q", path)
		}
		obj, err := h.script.Resolve(parts[0])
		if err != nil {
			return nil, "", err
		}
		return walk(ctx, obj, parts[1:])
	}
	return h.conn, path, nil
}

// resolveObject resolves a dotted object path to a forwarder.
// Database targets expose only the connection handle, so a non-empty
// path is rejected rather than ignored.
func (h *handle) resolveObject(ctx context.Context, path string) (*forward.Forwarder, error) {
	if !h.isScript() {
		if path != "" {
			return nil, fmt.Errorf("object paths apply to script targets; %q is a database target", h.name)
		}
		return h.conn, nil
	}
	parts := strings.Split(path, ".")
	obj, err := h.script.Resolve(parts[0])
	if err != nil {
		return nil, err
	}
	if len(parts) == 1 {
		return obj, nil
	}
	owner, last, err := walk(ctx, obj, parts[1:])
	if err != nil {
		return nil, err
	}
	raw, err := owner.Read(ctx, last)
	if err != nil {
		return nil, err
	}
	target, ok := raw.(forward.Target)
	if !ok {
		return nil, &forward.TypeConversionError{Member: last, Value: raw, Want: "handle"}
	}
	return forward.Wrap(target), nil
}

// walk descends through intermediate members, which must themselves be
// handle-shaped, and returns the owner of the final member.
func walk(ctx context.Context, f *forward.Forwarder, parts []string) (*forward.Forwarder, string, error) {
	for _, part := range parts[:len(parts)-1] {
		raw, err := f.Read(ctx, part)
		if err != nil {
			return nil, "", err
		}
		target, ok := raw.(forward.Target)
		if !ok {
			return nil, "", &forward.TypeConversionError{Member: part, Value: raw, Want: "handle"}
		}
		f = forward.Wrap(target)
	}
	return f, parts[len(parts)-1], nil
}

// parseLiteral interprets a CLI value: bool, int, and float literals
// convert to their Go types, everything else stays a string.
func parseLiteral(s string) any {
	if b, err := strconv.ParseBool(s); err == nil && (s == "true" || s == "false") {
		return b
	}
	if i, err := strconv.ParseInt(s, 10, 64); err == nil {
		return i
	}
	if f, err := strconv.ParseFloat(s, 64); err == nil {
		return f
	}
	return s
}

// parseParams parses repeated --param name=value pairs.
func parseParams(pairs []string) (map[string]any, error) {
	params := make(map[string]any, len(pairs))
	for _, pair := range pairs {
		name, value, ok := strings.Cut(pair, "=")
		if !ok || name == "" {
			return nil, fmt.Errorf("invalid parameter %q (expected name=value)", pair)
		}
		params[name] = parseLiteral(value)
	}
	return params, nil
}

// outputFormat returns the effective output format for a command.
func outputFormat(cmd *cobra.Command, override string) string {
	if override != "" {
		return override
	}
	return config.GetConfig(cmd.Context()).Format
}
