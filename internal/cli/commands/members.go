package commands

import (
	"github.com/spf13/cobra"
)

// NewMembersCommand creates the members command.
func NewMembersCommand() *cobra.Command {
	var format string

	cmd := &cobra.Command{
		Use:   "members <target> [object]",
		Short: "List the addressable members of a handle",
		Long: `List the members addressable on a target handle.

For database targets this lists the connection handle's members. For
script targets without an object argument it lists the script's
globals; with an object argument it lists that object's members.`,
		Example: `  # Connection members
  dynabind members photos

  # Script globals
  dynabind members gallery

  # Members of one script object
  dynabind members gallery photo`,
		Args: cobra.RangeArgs(1, 2),
		RunE: func(cmd *cobra.Command, args []string) error {
			h, err := openTarget(cmd, args[0])
			if err != nil {
				return err
			}
			defer func() { _ = h.close() }()

			out := cmd.OutOrStdout()
			fmtOut := outputFormat(cmd, format)

			if h.isScript() && len(args) == 1 {
				return renderMembers(out, "script", h.script.Globals(), fmtOut)
			}

			var objPath string
			if len(args) == 2 {
				objPath = args[1]
			}

			f, err := h.resolveObject(cmd.Context(), objPath)
			if err != nil {
				return err
			}
			return renderMembers(out, f.Kind(), f.Members(), fmtOut)
		},
	}

	cmd.Flags().StringVar(&format, "format", "", "output format: table, json")
	return cmd
}
