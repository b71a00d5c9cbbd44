package commands

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/leapstack-labs/dynabind/pkg/forward"
)

// NewGetCommand creates the get command.
func NewGetCommand() *cobra.Command {
	var (
		format string
		asType string
	)

	cmd := &cobra.Command{
		Use:   "get <target> <member>",
		Short: "Read a named member through the forwarder",
		Long: `Read a named member of a target handle.

Database targets expose connection members (driver, database, open).
Script targets address members as object.member, descending through
nested objects.`,
		Example: `  # Connection state
  dynabind get photos driver

  # Script object member, converted at the call site
  dynabind get gallery photo.PhotoID --as int`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			h, err := openTarget(cmd, args[0])
			if err != nil {
				return err
			}
			defer func() { _ = h.close() }()

			owner, member, err := h.resolveMember(cmd.Context(), args[1])
			if err != nil {
				return err
			}

			v, err := readAsType(cmd.Context(), owner, member, asType)
			if err != nil {
				return err
			}
			return renderValue(cmd.OutOrStdout(), v, outputFormat(cmd, format))
		},
	}

	cmd.Flags().StringVar(&format, "format", "", "output format: text, json")
	cmd.Flags().StringVar(&asType, "as", "", "expected type: string, int, float, bool")
	return cmd
}

// readAsType reads a member with the declared call-site type.
func readAsType(ctx context.Context, f *forward.Forwarder, member, asType string) (any, error) {
	switch asType {
	case "":
		return f.Read(ctx, member)
	case "string":
		return forward.ReadAs[string](ctx, f, member)
	case "int":
		return forward.ReadAs[int64](ctx, f, member)
	case "float":
		return forward.ReadAs[float64](ctx, f, member)
	case "bool":
		return forward.ReadAs[bool](ctx, f, member)
	default:
		return nil, fmt.Errorf("unknown type %q (expected string, int, float, or bool)", asType)
	}
}
