package cli

import (
	"strconv"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"
)

func newTablesCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "tables",
		Short: "List the reflected tables",
		Example: `  # Every table of the schema
  fluentdao tables -d shop -u app -p secret

  # Only some tables, as JSON
  fluentdao tables --tables user,province -o json`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			acc, rt, cleanup, err := openAccessor(cmd)
			if err != nil {
				return err
			}
			defer cleanup()

			type tableInfo struct {
				Name       string `json:"name"`
				Columns    int    `json:"columns"`
				PrimaryKey string `json:"primary_key,omitempty"`
			}
			catalog := acc.Catalog()
			infos := make([]tableInfo, 0, len(catalog.Tables()))
			for _, name := range catalog.Tables() {
				ts, err := catalog.Table(name)
				if err != nil {
					return err
				}
				info := tableInfo{Name: name, Columns: len(ts.Columns)}
				if pk, err := ts.PrimaryKey(); err == nil {
					info.PrimaryKey = pk.Name
				}
				infos = append(infos, info)
			}

			w := cmd.OutOrStdout()
			if rt.format == formatJSON {
				return renderJSON(w, infos)
			}
			t := newTable(w)
			t.AppendHeader(header("table", "columns", "primary key"))
			for _, info := range infos {
				t.AppendRow(table.Row{info.Name, info.Columns, info.PrimaryKey})
			}
			t.Render()
			return nil
		},
	}
}

func newDescribeCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "describe <table>",
		Short: "Show the columns of a table",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			acc, rt, cleanup, err := openAccessor(cmd)
			if err != nil {
				return err
			}
			defer cleanup()

			tbl, err := acc.Bind(args[0])
			if err != nil {
				return err
			}

			w := cmd.OutOrStdout()
			if rt.format == formatJSON {
				return renderJSON(w, tbl.Schema())
			}
			t := newTable(w)
			t.SetTitle(tbl.Name())
			t.AppendHeader(header("#", "column", "type", "nullable", "key", "comment"))
			for _, c := range tbl.Schema().Columns {
				key := ""
				if c.IsPrimaryKey {
					key = "PRI"
				}
				t.AppendRow(table.Row{strconv.Itoa(c.OrdinalPosition), c.Name, c.SQLType, yesNo(c.Nullable), key, c.Comment})
			}
			t.Render()
			return nil
		},
	}
}

func yesNo(b bool) string {
	if b {
		return "YES"
	}
	return "NO"
}
