package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	fluentdao "github.com/biyonik/go-fluent-dao"
	"github.com/biyonik/go-fluent-dao/dialect"
	"github.com/biyonik/go-fluent-dao/filter"
)

var renderKinds = []string{"select", "count", "insert", "update", "update-selective", "delete"}

func newRenderCommand() *cobra.Command {
	var number, size int

	cmd := &cobra.Command{
		Use:   "render <kind> <table> [key=value...]",
		Short: "Print the SQL a call would run, without running it",
		Long: `Kinds: select, count, insert, update, update-selective, delete.

For select and count the key=value arguments are filters; for the others they
are the record. delete reads the primary key from the record.`,
		Example: `  fluentdao render update user id=2 name=null
  fluentdao render delete user id=5
  fluentdao render select province _llike_province=省 --page 1 --size 20`,
		Args: cobra.MinimumNArgs(2),
		ValidArgsFunction: func(_ *cobra.Command, args []string, _ string) ([]string, cobra.ShellCompDirective) {
			if len(args) == 0 {
				return renderKinds, cobra.ShellCompDirectiveNoFileComp
			}
			return nil, cobra.ShellCompDirectiveNoFileComp
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			acc, rt, cleanup, err := openAccessor(cmd)
			if err != nil {
				return err
			}
			defer cleanup()

			tbl, err := acc.Bind(args[1])
			if err != nil {
				return err
			}
			m, err := parseAssignments(args[2:])
			if err != nil {
				return err
			}

			var stmt dialect.Statement
			switch args[0] {
			case "select":
				if cmd.Flags().Changed("page") || cmd.Flags().Changed("size") {
					stmt, err = tbl.RenderSelectPage(filter.NewPage(number, size), filter.Filters(m))
				} else {
					stmt, err = tbl.RenderSelectAll(filter.Filters(m))
				}
			case "count":
				stmt, err = tbl.RenderCount(filter.Filters(m))
			case "insert":
				stmt, err = tbl.RenderSave(fluentdao.Record(m))
			case "update":
				stmt, err = tbl.RenderUpdate(fluentdao.Record(m))
			case "update-selective":
				stmt, err = tbl.RenderUpdateSelective(fluentdao.Record(m))
			case "delete":
				stmt, err = tbl.RenderRemove(fluentdao.Record(m))
			default:
				return fmt.Errorf("unknown kind %q (%s)", args[0], strings.Join(renderKinds, "|"))
			}
			if err != nil {
				return err
			}

			w := cmd.OutOrStdout()
			if rt.format == formatJSON {
				return renderJSON(w, stmt)
			}
			if _, err := fmt.Fprintln(w, stmt.SQL); err != nil {
				return err
			}
			if len(stmt.Args) > 0 {
				_, err = fmt.Fprintf(w, "-- args: %v\n", stmt.Args)
			}
			return err
		},
	}

	cmd.Flags().IntVar(&number, "page", 1, "page number for select")
	cmd.Flags().IntVar(&size, "size", filter.DefaultPageSize, "page size for select")
	return cmd
}
