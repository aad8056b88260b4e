package fluentdao

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/biyonik/go-fluent-dao/dialect"
	"github.com/biyonik/go-fluent-dao/filter"
)

func userBuilder(t *testing.T) *Builder {
	t.Helper()
	tbl, err := testCatalog().Table("user")
	require.NoError(t, err)
	return NewBuilder(dialect.MySQL(), tbl)
}

func TestBuilder_Select(t *testing.T) {
	stmt, err := userBuilder(t).
		Filters(filter.Filters{"_ge_id": 10, "orderby": "name", "page": filter.NewPage(2, 10)}).
		ToSelectSQL()
	require.NoError(t, err)
	assert.Equal(t, "SELECT `id`, `name`, `email` FROM `user` WHERE 1=1 AND `id` >= '10' ORDER BY `name` ASC LIMIT 10,10", stmt.SQL)
}

func TestBuilder_UnknownColumn(t *testing.T) {
	tests := []struct {
		name    string
		filters filter.Filters
	}{
		{"predicate", filter.Filters{"age": 3}},
		{"prefixed predicate", filter.Filters{"_like_nick": "a"}},
		{"group", filter.Filters{"groupby": "city"}},
		{"order", filter.Filters{"orderby": "created"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := userBuilder(t).Filters(tt.filters).ToSelectSQL()
			assert.ErrorIs(t, err, ErrSchema)
			assert.ErrorIs(t, err, ErrColumnNotFound)
		})
	}
}

func TestBuilder_InvalidFilter(t *testing.T) {
	_, err := userBuilder(t).Filters(filter.Filters{"ordertype": "up", "orderby": "id"}).ToSelectSQL()
	assert.ErrorIs(t, err, ErrValidation)
	assert.ErrorIs(t, err, ErrInvalidFilter)

	_, err = userBuilder(t).Filters(filter.Filters{"na me": 1}).ToSelectSQL()
	assert.ErrorIs(t, err, ErrValidation)
}

func TestBuilder_Count(t *testing.T) {
	stmt, err := userBuilder(t).
		Filters(filter.Filters{"name": "a", "orderby": "id", "page": filter.NewPage(3, 5)}).
		ToCountSQL()
	require.NoError(t, err)
	assert.Equal(t, "SELECT count(*) FROM `user` WHERE 1=1 AND `name` = 'a'", stmt.SQL)

	grouped, err := userBuilder(t).Filters(filter.Filters{"groupby": "email"}).ToCountSQL()
	require.NoError(t, err)
	assert.Equal(t, "SELECT count(*) FROM (SELECT 1 FROM `user` WHERE 1=1 GROUP BY `email`) AS `grouped`", grouped.SQL)
}

func TestBuilder_CountKeepsDirectives(t *testing.T) {
	b := userBuilder(t).Filters(filter.Filters{"name": "a", "orderby": "id", "page": filter.NewPage(2, 5)})

	count, err := b.ToCountSQL()
	require.NoError(t, err)
	assert.Equal(t, "SELECT count(*) FROM `user` WHERE 1=1 AND `name` = 'a'", count.SQL)

	sel, err := b.ToSelectSQL()
	require.NoError(t, err)
	assert.Equal(t, "SELECT `id`, `name`, `email` FROM `user` WHERE 1=1 AND `name` = 'a' ORDER BY `id` ASC LIMIT 5,5", sel.SQL)
	assert.True(t, b.HasWindow())
}

func TestBuilder_Insert(t *testing.T) {
	tests := []struct {
		name string
		rec  Record
		want string
	}{
		{"absent key becomes NULL", Record{"email": "a@x", "name": "Ada"}, "INSERT INTO `user` (`id`, `name`, `email`) VALUES (NULL, 'Ada', 'a@x')"},
		{"typed key", Record{"id": 7, "email": "a@x"}, "INSERT INTO `user` (`id`, `email`) VALUES (7, 'a@x')"},
		{"nil value", Record{"name": nil, "email": "e"}, "INSERT INTO `user` (`id`, `name`, `email`) VALUES (NULL, NULL, 'e')"},
		{"numbers are quoted", Record{"name": 42, "email": "e"}, "INSERT INTO `user` (`id`, `name`, `email`) VALUES (NULL, '42', 'e')"},
		{"escaping", Record{"name": "O'Brien", "email": `a\b`}, "INSERT INTO `user` (`id`, `name`, `email`) VALUES (NULL, 'O\\'Brien', 'a\\\\b')"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			stmt, err := userBuilder(t).ToInsertSQL(tt.rec)
			require.NoError(t, err)
			assert.Equal(t, tt.want, stmt.SQL)
		})
	}

	_, err := userBuilder(t).ToInsertSQL(Record{"nick": "x"})
	assert.ErrorIs(t, err, ErrColumnNotFound)
}

func TestBuilder_UpdateScenario(t *testing.T) {
	stmt, err := userBuilder(t).ToUpdateSQL(Record{"id": 2, "name": nil}, false)
	require.NoError(t, err)
	assert.Equal(t, "UPDATE `user` SET `name`=NULL WHERE `id`='2'", stmt.SQL)
}

func TestBuilder_UpdateNullSemantics(t *testing.T) {
	rec := Record{"id": 3, "name": nil, "email": nil}

	full, err := userBuilder(t).ToUpdateSQL(rec, false)
	require.NoError(t, err)
	assert.Equal(t, "UPDATE `user` SET `name`=NULL, `email`='' WHERE `id`='3'", full.SQL)

	selective, err := userBuilder(t).ToUpdateSQL(Record{"id": 3, "name": nil, "email": "e@x"}, true)
	require.NoError(t, err)
	assert.Equal(t, "UPDATE `user` SET `email`='e@x' WHERE `id`='3'", selective.SQL)

	_, err = userBuilder(t).ToUpdateSQL(rec, true)
	assert.ErrorIs(t, err, ErrValidation)
	assert.ErrorIs(t, err, ErrNoColumns)
}

func TestBuilder_UpdateRequiresKey(t *testing.T) {
	for _, rec := range []Record{{"name": "a"}, {"id": nil, "name": "a"}} {
		_, err := userBuilder(t).ToUpdateSQL(rec, false)
		assert.ErrorIs(t, err, ErrValidation)
		assert.ErrorIs(t, err, ErrMissingPrimaryKey)
	}
}

func TestBuilder_DeleteScenario(t *testing.T) {
	stmt, err := userBuilder(t).ToDeleteSQL(5)
	require.NoError(t, err)
	assert.Equal(t, "DELETE FROM `user` WHERE `id`=5", stmt.SQL)

	_, err = userBuilder(t).ToDeleteSQL(nil)
	assert.ErrorIs(t, err, ErrMissingPrimaryKey)
}

func TestBuilder_NoPrimaryKey(t *testing.T) {
	tbl, err := testCatalog().Table("audit_log")
	require.NoError(t, err)

	_, err = NewBuilder(nil, tbl).ToDeleteSQL(1)
	assert.ErrorIs(t, err, ErrNoPrimaryKey)
	_, err = NewBuilder(nil, tbl).ToUpdateSQL(Record{"message": "x"}, false)
	assert.ErrorIs(t, err, ErrSchema)

	stmt, err := NewBuilder(nil, tbl).ToSelectSQL()
	require.NoError(t, err)
	assert.Equal(t, "SELECT `at`, `message` FROM `audit_log` WHERE 1=1", stmt.SQL)
}

func TestBuilder_NilTable(t *testing.T) {
	_, err := NewBuilder(nil, nil).ToSelectSQL()
	assert.ErrorIs(t, err, ErrUnboundTable)
}

func TestBuilder_BoundMode(t *testing.T) {
	tbl, err := testCatalog().Table("user")
	require.NoError(t, err)
	b := NewBuilder(dialect.NewMySQLGrammar(dialect.Bound), tbl)

	stmt, err := b.Clone().Filters(filter.Filters{"name": "a", "page": filter.NewPage(1, 20)}).ToSelectSQL()
	require.NoError(t, err)
	assert.Equal(t, "SELECT `id`, `name`, `email` FROM `user` WHERE 1=1 AND `name` = ? LIMIT 0,20", stmt.SQL)
	assert.Equal(t, []any{"a"}, stmt.Args)

	upd, err := b.Clone().ToUpdateSQL(Record{"id": 2, "name": nil, "email": "x"}, false)
	require.NoError(t, err)
	assert.Equal(t, "UPDATE `user` SET `name`=NULL, `email`=? WHERE `id`=?", upd.SQL)
	assert.Equal(t, []any{"x", 2}, upd.Args)
}

func TestBuilder_CloneIsIndependent(t *testing.T) {
	base := userBuilder(t).Filters(filter.Filters{"name": "a"})
	withWindow := base.Clone().Window(filter.PageWindow{Offset: 0, Limit: 1})

	assert.False(t, base.HasWindow())
	assert.True(t, withWindow.HasWindow())
}
