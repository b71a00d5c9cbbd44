package commands

import (
	"github.com/spf13/cobra"
)

// NewSetCommand creates the set command.
func NewSetCommand() *cobra.Command {
	var format string

	cmd := &cobra.Command{
		Use:   "set <target> <member> <value>",
		Short: "Write a named member through the forwarder",
		Long: `Write a named member on a target handle and read it back.

Values parse as bool, int, or float literals where possible; anything
else is written as a string. Writes against handles that do not accept
them (connections, cursors) fail immediately.`,
		Example: `  # Set a script object member and echo the round-tripped value
  dynabind set gallery photo.Rating 4.5`,
		Args: cobra.ExactArgs(3),
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

			if err := owner.Write(cmd.Context(), member, parseLiteral(args[2])); err != nil {
				return err
			}

			// Echo the written value back through a fresh read.
			v, err := owner.Read(cmd.Context(), member)
			if err != nil {
				return err
			}
			return renderValue(cmd.OutOrStdout(), v, outputFormat(cmd, format))
		},
	}

	cmd.Flags().StringVar(&format, "format", "", "output format: text, json")
	return cmd
}
