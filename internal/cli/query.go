package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	fluentdao "github.com/biyonik/go-fluent-dao"
	"github.com/biyonik/go-fluent-dao/filter"
)

func newSelectCommand() *cobra.Command {
	var one bool

	cmd := &cobra.Command{
		Use:   "select <table> [key=value...]",
		Short: "Select the rows matching a filter",
		Example: `  # Provinces ending with 省, newest code first
  fluentdao select province _llike_province=省 orderby=province_id ordertype=desc

  # First user named Ada
  fluentdao select user name=Ada --one`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			acc, rt, cleanup, err := openAccessor(cmd)
			if err != nil {
				return err
			}
			defer cleanup()

			tbl, f, err := bindWithFilters(acc, args)
			if err != nil {
				return err
			}

			var rows []*fluentdao.Row
			if one {
				row, err := tbl.SelectOne(cmd.Context(), f)
				if err != nil {
					return err
				}
				if row != nil {
					rows = append(rows, row)
				}
			} else {
				if rows, err = tbl.SelectAll(cmd.Context(), f); err != nil {
					return err
				}
			}
			return renderRows(cmd.OutOrStdout(), rt.format, tbl.Columns(), rows)
		},
	}

	cmd.Flags().BoolVar(&one, "one", false, "return only the first matching row")
	return cmd
}

func newGetCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "get <table> <primary key>",
		Short: "Select one row by primary key",
		Args:  cobra.ExactArgs(2),
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
			row, err := tbl.SelectByPrimaryKey(cmd.Context(), parseValue(args[1]))
			if err != nil {
				return err
			}
			if row == nil {
				return fmt.Errorf("no %s row with primary key %s", tbl.Name(), args[1])
			}
			return renderRows(cmd.OutOrStdout(), rt.format, tbl.Columns(), []*fluentdao.Row{row})
		},
	}
}

func newCountCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "count <table> [key=value...]",
		Short: "Count the rows (or groups) matching a filter",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			acc, rt, cleanup, err := openAccessor(cmd)
			if err != nil {
				return err
			}
			defer cleanup()

			tbl, f, err := bindWithFilters(acc, args)
			if err != nil {
				return err
			}
			n, err := tbl.Count(cmd.Context(), f)
			if err != nil {
				return err
			}
			if rt.format == formatJSON {
				return renderJSON(cmd.OutOrStdout(), map[string]int64{"count": n})
			}
			_, err = fmt.Fprintln(cmd.OutOrStdout(), n)
			return err
		},
	}
}

func newPageCommand() *cobra.Command {
	var number, size int

	cmd := &cobra.Command{
		Use:   "page <table> [key=value...]",
		Short: "Select one page of the rows matching a filter",
		Long: `Counts the matching rows first and clamps the requested page into range,
so asking for a page past the end returns the last page.`,
		Example: `  fluentdao page province _llike_province=省 --page 1 --size 20`,
		Args:    cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			acc, rt, cleanup, err := openAccessor(cmd)
			if err != nil {
				return err
			}
			defer cleanup()

			tbl, f, err := bindWithFilters(acc, args)
			if err != nil {
				return err
			}
			res, err := tbl.SelectPage(cmd.Context(), filter.NewPage(number, size), f)
			if err != nil {
				return err
			}

			w := cmd.OutOrStdout()
			if rt.format == formatJSON {
				return renderJSON(w, res)
			}
			if err := renderRows(w, rt.format, tbl.Columns(), res.Rows); err != nil {
				return err
			}
			_, err = fmt.Fprintf(w, "page %d/%d, %d rows total\n", res.Page.Number, res.Page.TotalPages, res.Page.TotalCount)
			return err
		},
	}

	cmd.Flags().IntVar(&number, "page", 1, "page number, starting at 1")
	cmd.Flags().IntVar(&size, "size", filter.DefaultPageSize, "rows per page")
	return cmd
}

// bindWithFilters binds args[0] and parses the remaining key=value arguments.
func bindWithFilters(acc *fluentdao.Accessor, args []string) (*fluentdao.Table, filter.Filters, error) {
	tbl, err := acc.Bind(args[0])
	if err != nil {
		return nil, nil, err
	}
	m, err := parseAssignments(args[1:])
	if err != nil {
		return nil, nil, err
	}
	return tbl, filter.Filters(m), nil
}
