package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"time"

	"github.com/jedib0t/go-pretty/v6/table"

	fluentdao "github.com/biyonik/go-fluent-dao"
)

const (
	formatTable = "table"
	formatJSON  = "json"
)

func renderRows(w io.Writer, format string, columns []string, rows []*fluentdao.Row) error {
	if format == formatJSON {
		if rows == nil {
			rows = []*fluentdao.Row{}
		}
		return renderJSON(w, rows)
	}
	if len(rows) == 0 {
		_, _ = fmt.Fprintln(w, "(0 rows)")
		return nil
	}

	t := newTable(w)
	t.AppendHeader(header(columns...))
	for _, r := range rows {
		row := make(table.Row, 0, r.Len())
		for _, v := range r.Values() {
			row = append(row, formatValue(v))
		}
		t.AppendRow(row)
	}
	t.Render()
	_, _ = fmt.Fprintf(w, "(%d rows)\n", len(rows))
	return nil
}

func renderJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func newTable(w io.Writer) table.Writer {
	t := table.NewWriter()
	t.SetOutputMirror(w)
	t.SetStyle(table.StyleLight)
	return t
}

func header(names ...string) table.Row {
	row := make(table.Row, len(names))
	for i, n := range names {
		row[i] = n
	}
	return row
}

func formatValue(v any) string {
	switch x := v.(type) {
	case nil:
		return "NULL"
	case time.Time:
		return x.Format(time.DateTime)
	default:
		return fmt.Sprintf("%v", v)
	}
}
