package commands

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/chzyer/readline"
	"github.com/spf13/cobra"

	"github.com/leapstack-labs/dynabind/pkg/forward"
)

// NewREPLCommand creates the repl command.
func NewREPLCommand() *cobra.Command {
	var (
		format string
		watch  bool
	)

	cmd := &cobra.Command{
		Use:   "repl <target>",
		Short: "Interactive session against a target",
		Long: `Start an interactive session against a named target.

Each line is a member operation:

  get <member>            read a member
  set <member> <value>    write a member
  call <member> [args...] invoke a member

Script members are addressed as object.member. Dot-commands control
the session itself (.members, .help, .quit). With --watch, a script
target reloads whenever its source file changes.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			h, err := openTarget(cmd, args[0])
			if err != nil {
				return err
			}
			defer func() { _ = h.close() }()

			if watch {
				if !h.isScript() {
					return fmt.Errorf("--watch applies to script targets")
				}
				w, err := h.script.Watch(func(err error) {
					if err != nil {
						_, _ = fmt.Fprintf(cmd.ErrOrStderr(), "reload failed: %v\n", err)
						return
					}
					_, _ = fmt.Fprintln(cmd.ErrOrStderr(), "script reloaded")
				})
				if err != nil {
					return err
				}
				defer func() { _ = w.Close() }()
			}

			return runREPL(cmd, h, outputFormat(cmd, format))
		},
	}

	cmd.Flags().StringVar(&format, "format", "", "output format: table, json, csv, md")
	cmd.Flags().BoolVar(&watch, "watch", false, "reload a script target when its source changes")
	return cmd
}

func runREPL(cmd *cobra.Command, h *handle, format string) error {
	ctx := cmd.Context()

	historyFile := filepath.Join(os.TempDir(), "dynabind_history")

	rl, err := readline.NewEx(&readline.Config{
		Prompt:          h.name + "> ",
		HistoryFile:     historyFile,
		AutoComplete:    newMemberCompleter(h),
		InterruptPrompt: "^C",
		EOFPrompt:       ".quit",
	})
	if err != nil {
		return fmt.Errorf("failed to initialize REPL: %w", err)
	}
	defer func() { _ = rl.Close() }()

	_, _ = fmt.Fprintf(cmd.OutOrStdout(), "dynabind REPL (target: %s)\n", h.name)
	_, _ = fmt.Fprintln(cmd.OutOrStdout(), "Type .help for commands, .quit to exit")
	_, _ = fmt.Fprintln(cmd.OutOrStdout())

	for {
		line, err := rl.Readline()
		if errors.Is(err, readline.ErrInterrupt) {
			continue
		}
		if errors.Is(err, io.EOF) {
			break
		}

		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}

		if strings.HasPrefix(line, ".") {
			if handleREPLDotCommand(ctx, cmd, h, line, format) {
				if isExitCommand(line) {
					break
				}
				continue
			}
		}

		if err := evalREPLLine(ctx, cmd, h, line, format); err != nil {
			_, _ = fmt.Fprintf(cmd.ErrOrStderr(), "Error: %v\n", err)
		}
		_, _ = fmt.Fprintln(cmd.OutOrStdout())
	}

	return nil
}

// evalREPLLine dispatches a get/set/call line against the target.
func evalREPLLine(ctx context.Context, cmd *cobra.Command, h *handle, line, format string) error {
	parts := strings.Fields(line)
	op := strings.ToLower(parts[0])
	out := cmd.OutOrStdout()

	switch op {
	case "get":
		if len(parts) != 2 {
			return fmt.Errorf("usage: get <member>")
		}
		owner, member, err := h.resolveMember(ctx, parts[1])
		if err != nil {
			return err
		}
		value, err := owner.Read(ctx, member)
		if err != nil {
			return err
		}
		return renderValue(out, value, format)

	case "set":
		if len(parts) < 3 {
			return fmt.Errorf("usage: set <member> <value>")
		}
		owner, member, err := h.resolveMember(ctx, parts[1])
		if err != nil {
			return err
		}
		value := parseLiteral(strings.Join(parts[2:], " "))
		if err := owner.Write(ctx, member, value); err != nil {
			return err
		}
		echo, err := owner.Read(ctx, member)
		if err != nil {
			return err
		}
		return renderValue(out, echo, format)

	case "call":
		if len(parts) < 2 {
			return fmt.Errorf("usage: call <member> [args...]")
		}
		owner, member, err := h.resolveMember(ctx, parts[1])
		if err != nil {
			return err
		}
		callArgs := make([]any, len(parts)-2)
		for i, a := range parts[2:] {
			callArgs[i] = parseLiteral(a)
		}
		result, err := owner.InvokeValue(ctx, member, callArgs...)
		if err != nil {
			return err
		}
		if target, ok := result.(forward.Target); ok {
			nested := forward.Wrap(target)
			return renderMembers(out, nested.Kind(), nested.Members(), format)
		}
		return renderValue(out, result, format)

	default:
		return fmt.Errorf("unknown operation %q (expected get, set, or call)", op)
	}
}

// isExitCommand matches the exit dot-commands the same way the
// dispatcher does, so ".QUIT" leaves the loop rather than spinning.
func isExitCommand(line string) bool {
	parts := strings.Fields(line)
	if len(parts) == 0 {
		return false
	}
	switch strings.ToLower(parts[0]) {
	case ".quit", ".exit":
		return true
	}
	return false
}

func handleREPLDotCommand(ctx context.Context, cmd *cobra.Command, h *handle, line, format string) bool {
	parts := strings.Fields(line)
	command := strings.ToLower(parts[0])

	switch command {
	case ".quit", ".exit":
		return true

	case ".help":
		printREPLHelp(cmd.OutOrStdout())
		return true

	case ".members":
		path := ""
		if len(parts) > 1 {
			path = parts[1]
		}
		if err := printREPLMembers(ctx, cmd, h, path, format); err != nil {
			_, _ = fmt.Fprintf(cmd.ErrOrStderr(), "Error: %v\n", err)
		}
		return true

	case ".clear":
		fmt.Print("\033[H\033[2J")
		return true

	default:
		_, _ = fmt.Fprintf(cmd.ErrOrStderr(), "Unknown command: %s (type .help for commands)\n", command)
		return true
	}
}

func printREPLMembers(ctx context.Context, cmd *cobra.Command, h *handle, path, format string) error {
	if h.isScript() && path == "" {
		return renderMembers(cmd.OutOrStdout(), "script", h.script.Globals(), format)
	}
	obj, err := h.resolveObject(ctx, path)
	if err != nil {
		return err
	}
	return renderMembers(cmd.OutOrStdout(), obj.Kind(), obj.Members(), format)
}

func printREPLHelp(w io.Writer) {
	help := `
Operations:
  get <member>            Read a member
  set <member> <value>    Write a member
  call <member> [args...] Invoke a member

Commands:
  .help             Show this help message
  .members [path]   List members of the target or a nested object
  .clear            Clear the screen
  .quit / .exit     Exit the REPL

Tips:
  - Script members are addressed as object.member
  - Use arrow keys to navigate history
  - Tab completion works for member names
`
	_, _ = fmt.Fprintln(w, help)
}

// newMemberCompleter creates a readline completer for member names.
func newMemberCompleter(h *handle) *readline.PrefixCompleter {
	var names []string
	if h.isScript() {
		names = h.script.Globals()
	} else {
		names = h.conn.Members()
	}

	members := make([]readline.PrefixCompleterInterface, len(names))
	for i, name := range names {
		members[i] = readline.PcItem(name)
	}

	items := []readline.PrefixCompleterInterface{
		readline.PcItem("get", members...),
		readline.PcItem("set", members...),
		readline.PcItem("call", members...),
		readline.PcItem(".help"),
		readline.PcItem(".members", members...),
		readline.PcItem(".clear"),
		readline.PcItem(".quit"),
		readline.PcItem(".exit"),
	}

	return readline.NewPrefixCompleter(items...)
}
