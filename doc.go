// Package fluentdao provides schema-driven access to MySQL tables.
//
// At startup the package reflects table metadata from information_schema. Every
// table is then reachable through the same small set of operations, driven by
// a key-value filter mapping instead of hand-written SQL.
//
// # Quick Start
//
//	cfg := fluentdao.DefaultConfig()
//	cfg.User, cfg.Password, cfg.Database = "app", "secret", "shop"
//
//	acc, err := fluentdao.Open(ctx, cfg)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer acc.Close()
//
//	provinces := acc.MustBind("province")
//
// # Filters
//
// Filter keys select the operator through a prefix; a key without prefix is
// an equality test:
//
//	rows, err := provinces.SelectAll(ctx, filter.Filters{
//	    "_llike_province": "省",          // `province` LIKE '%省'
//	    "_in_id":          []int{1, 2},  // `id` IN (1,2)
//	    "orderby":         "id",
//	    "ordertype":       "desc",
//	})
//
// Prefixes: _in_, _nein_, _like_, _llike_, _rlike_, _ne_, _lt_, _le_, _gt_, _ge_.
// Directive keys: groupby, orderby, ordertype, page.
//
// # Paging
//
//	res, err := provinces.SelectPage(ctx, filter.NewPage(1, 20), nil)
//	fmt.Println(res.Page.TotalCount, res.Page.TotalPages, len(res.Rows))
//
// # Insert, Update, Delete
//
//	users := acc.MustBind("user")
//	_, err = users.Save(ctx, fluentdao.Record{"name": "Ada"})                    // id is generated
//	_, err = users.Update(ctx, fluentdao.Record{"id": 2, "name": nil})           // `name`=NULL
//	_, err = users.UpdateSelective(ctx, fluentdao.Record{"id": 2, "name": nil})  // nothing to set
//	_, err = users.RemoveByPrimaryKey(ctx, 5)
//
// Each mutation runs in its own transaction.
//
// # Rendering Modes
//
// By default values are written into the SQL text as escaped literals. With
// WithRenderMode(dialect.Bound) the same statements use ? placeholders and
// carry their arguments separately.
//
// # Error Handling
//
// Errors can be inspected with errors.Is and errors.As:
//
//	if errors.Is(err, fluentdao.ErrSchema) { ... }      // unknown table or column
//	if errors.Is(err, fluentdao.ErrValidation) { ... }  // bad filter, missing key
//	var ee *fluentdao.ExecutionError
//	if errors.As(err, &ee) { log.Println(ee.Statement, ee.Code) }
package fluentdao
