package commands

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/jedib0t/go-pretty/v6/table"

	"github.com/leapstack-labs/dynabind/pkg/forward"
)

// collectRows drains a cursor handle into column names and row maps.
func collectRows(ctx context.Context, cursor *forward.Forwarder) ([]string, []map[string]any, error) {
	cols := cursor.Members()

	var results []map[string]any
	for {
		more, err := cursor.InvokeValue(ctx, "next")
		if err != nil {
			return nil, nil, err
		}
		hasNext, err := forward.Convert[bool](more)
		if err != nil {
			return nil, nil, err
		}
		if !hasNext {
			break
		}

		row := make(map[string]any, len(cols))
		for _, col := range cols {
			v, err := cursor.Read(ctx, col)
			if err != nil {
				return nil, nil, err
			}
			if b, ok := v.([]byte); ok {
				v = string(b)
			}
			row[col] = v
		}
		results = append(results, row)
	}
	return cols, results, nil
}

func renderRows(w io.Writer, cols []string, results []map[string]any, format string) error {
	switch format {
	case "json":
		return renderJSON(w, results)
	case "csv":
		return renderCSV(w, cols, results)
	case "md", "markdown":
		return renderMarkdown(w, cols, results)
	default:
		return renderTable(w, cols, results)
	}
}

func renderTable(w io.Writer, cols []string, results []map[string]any) error {
	if len(results) == 0 {
		_, _ = fmt.Fprintln(w, "(0 rows)")
		return nil
	}

	t := table.NewWriter()
	t.SetOutputMirror(w)
	t.SetStyle(table.StyleLight)

	headerRow := make(table.Row, len(cols))
	for i, col := range cols {
		headerRow[i] = col
	}
	t.AppendHeader(headerRow)

	for _, result := range results {
		row := make(table.Row, len(cols))
		for i, col := range cols {
			row[i] = formatValue(result[col])
		}
		t.AppendRow(row)
	}

	t.Render()
	_, _ = fmt.Fprintf(w, "(%d rows)\n", len(results))
	return nil
}

func renderJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func renderCSV(w io.Writer, cols []string, results []map[string]any) error {
	_, _ = fmt.Fprintln(w, strings.Join(cols, ","))
	for _, result := range results {
		values := make([]string, len(cols))
		for i, col := range cols {
			values[i] = escapeCSV(formatValue(result[col]))
		}
		_, _ = fmt.Fprintln(w, strings.Join(values, ","))
	}
	return nil
}

func renderMarkdown(w io.Writer, cols []string, results []map[string]any) error {
	if len(results) == 0 {
		_, _ = fmt.Fprintln(w, "(0 rows)")
		return nil
	}

	_, _ = fmt.Fprintf(w, "| %s |\n", strings.Join(cols, " | "))
	seps := make([]string, len(cols))
	for i := range seps {
		seps[i] = "---"
	}
	_, _ = fmt.Fprintf(w, "| %s |\n", strings.Join(seps, " | "))

	for _, result := range results {
		values := make([]string, len(cols))
		for i, col := range cols {
			values[i] = formatValue(result[col])
		}
		_, _ = fmt.Fprintf(w, "| %s |\n", strings.Join(values, " | "))
	}
	return nil
}

// renderMembers renders a member-name listing.
func renderMembers(w io.Writer, kind string, names []string, format string) error {
	if format == "json" {
		return renderJSON(w, map[string]any{"kind": kind, "members": names})
	}

	t := table.NewWriter()
	t.SetOutputMirror(w)
	t.SetStyle(table.StyleLight)
	t.AppendHeader(table.Row{"Member"})
	for _, name := range names {
		t.AppendRow(table.Row{name})
	}
	t.Render()
	_, _ = fmt.Fprintf(w, "(%d members on %s)\n", len(names), kind)
	return nil
}

// renderValue renders a single member value.
func renderValue(w io.Writer, v any, format string) error {
	if format == "json" {
		return renderJSON(w, v)
	}
	_, _ = fmt.Fprintln(w, formatValue(v))
	return nil
}

func formatValue(v any) string {
	if v == nil {
		return "NULL"
	}
	return fmt.Sprintf("%v", v)
}

func escapeCSV(s string) string {
	if strings.ContainsAny(s, ",\"\n") {
		return `"` + strings.ReplaceAll(s, `"`, `""`) + `"`
	}
	return s
}
