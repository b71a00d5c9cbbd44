package commands

import (
	"context"
	"sort"

	"github.com/spf13/cobra"

	"github.com/leapstack-labs/dynabind/pkg/forward"
)

// NewCallCommand creates the call command.
func NewCallCommand() *cobra.Command {
	var (
		format     string
		paramPairs []string
		execOnly   bool
	)

	cmd := &cobra.Command{
		Use:   "call <target> <name> [args...]",
		Short: "Invoke a member and render the result",
		Long: `Invoke a member on a target handle.

For database targets, name is a parameterized statement: a command
handle is created from the connection, each --param value is registered
as a named parameter, and the statement executes into a row cursor
whose rows are rendered. With --exec the statement runs without a
result set and the affected row count is printed.

For script targets, name addresses a callable member (object.member)
and positional args are passed to the call. Handle-shaped results are
rendered by their members; values are rendered directly.`,
		Example: `  # Parameterized procedure call with a bound parameter
  dynabind call photos "SELECT PhotoID, Title FROM photos WHERE AlbumID = :AlbumID" --param AlbumID=7

  # Statement without a result set
  dynabind call photos "DELETE FROM photos WHERE AlbumID = :AlbumID" --param AlbumID=7 --exec

  # Script function call
  dynabind call gallery api.describe sunset 5`,
		Args: cobra.MinimumNArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			h, err := openTarget(cmd, args[0])
			if err != nil {
				return err
			}
			defer func() { _ = h.close() }()

			fmtOut := outputFormat(cmd, format)
			if h.isScript() {
				return callScript(cmd, h, args[1], args[2:], fmtOut)
			}
			return callStatement(cmd, h, args[1], paramPairs, execOnly, fmtOut)
		},
	}

	cmd.Flags().StringVar(&format, "format", "", "output format: table, json, csv, md")
	cmd.Flags().StringArrayVar(&paramPairs, "param", nil, "named parameter as name=value (repeatable)")
	cmd.Flags().BoolVar(&execOnly, "exec", false, "execute without a result set")
	return cmd
}

// callStatement creates a command handle, binds parameters, and runs it.
func callStatement(cmd *cobra.Command, h *handle, text string, paramPairs []string, execOnly bool, format string) error {
	ctx := cmd.Context()

	command, err := h.conn.InvokeHandle(ctx, "command", text)
	if err != nil {
		return err
	}

	params, err := parseParams(paramPairs)
	if err != nil {
		return err
	}
	names := make([]string, 0, len(params))
	for name := range params {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		if err := command.Write(ctx, name, params[name]); err != nil {
			return err
		}
	}

	if execOnly {
		affected, err := command.InvokeValue(ctx, "exec")
		if err != nil {
			return err
		}
		return renderValue(cmd.OutOrStdout(), affected, format)
	}

	cursor, err := command.InvokeHandle(ctx, "query")
	if err != nil {
		return err
	}
	defer func() { _, _ = cursor.InvokeValue(context.Background(), "close") }()

	cols, rows, err := collectRows(ctx, cursor)
	if err != nil {
		return err
	}
	return renderRows(cmd.OutOrStdout(), cols, rows, format)
}

// callScript invokes a callable script member with positional args.
func callScript(cmd *cobra.Command, h *handle, path string, rawArgs []string, format string) error {
	ctx := cmd.Context()

	owner, member, err := h.resolveMember(ctx, path)
	if err != nil {
		return err
	}

	callArgs := make([]any, len(rawArgs))
	for i, a := range rawArgs {
		callArgs[i] = parseLiteral(a)
	}

	result, err := owner.InvokeValue(ctx, member, callArgs...)
	if err != nil {
		return err
	}

	// Object-shaped results render by membership, values directly.
	if target, ok := result.(forward.Target); ok {
		nested := forward.Wrap(target)
		return renderMembers(cmd.OutOrStdout(), nested.Kind(), nested.Members(), format)
	}
	return renderValue(cmd.OutOrStdout(), result, format)
}
