package fluentdao

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMapRow(t *testing.T) {
	t.Run("nil values means no row", func(t *testing.T) {
		assert.Nil(t, MapRow(userColumns, nil))
	})

	t.Run("pairs by position", func(t *testing.T) {
		r := MapRow(userColumns, []any{int64(1), "Ada", "a@x"})
		require.NotNil(t, r)
		assert.Equal(t, userColumns, r.Columns())
		assert.Equal(t, 3, r.Len())
		v, ok := r.Get("name")
		assert.True(t, ok)
		assert.Equal(t, "Ada", v)
	})

	t.Run("short values are padded with nil", func(t *testing.T) {
		r := MapRow(userColumns, []any{int64(1)})
		assert.Equal(t, []any{int64(1), nil, nil}, r.Values())
		v, ok := r.Get("email")
		assert.True(t, ok)
		assert.Nil(t, v)
	})

	t.Run("extra values are dropped", func(t *testing.T) {
		r := MapRow([]string{"id"}, []any{int64(1), "extra"})
		assert.Equal(t, []any{int64(1)}, r.Values())
		_, ok := r.Get("name")
		assert.False(t, ok)
	})
}

func TestMapRows(t *testing.T) {
	assert.Nil(t, MapRows(userColumns, nil))

	rows := MapRows(userColumns, [][]any{{int64(1), "a", "x"}, {int64(2), nil, "y"}})
	require.Len(t, rows, 2)
	assert.Equal(t, int64(2), rows[1].Values()[0])
	assert.Equal(t, Record{"id": int64(2), "name": nil, "email": "y"}, rows[1].Record())
}

func TestRow_MarshalJSON(t *testing.T) {
	r := MapRow([]string{"id", "zeta", "alpha"}, []any{int64(7), nil, "a"})
	b, err := json.Marshal(r)
	require.NoError(t, err)
	assert.Equal(t, `{"id":7,"zeta":null,"alpha":"a"}`, string(b))

	var nilRow *Row
	b, err = json.Marshal(nilRow)
	require.NoError(t, err)
	assert.Equal(t, "null", string(b))
}

type user struct {
	ID      int64     `db:"id"`
	Name    *string   `db:"name"`
	Email   string    `db:"email"`
	Created time.Time `db:"created"`
}

func TestRow_Decode(t *testing.T) {
	r := MapRow([]string{"id", "name", "email", "created"}, []any{"12", "Ada", "a@x", "2024-03-01 10:20:30"})

	var u user
	require.NoError(t, r.Decode(&u))
	assert.Equal(t, int64(12), u.ID)
	require.NotNil(t, u.Name)
	assert.Equal(t, "Ada", *u.Name)
	assert.Equal(t, "a@x", u.Email)
	assert.Equal(t, time.Date(2024, 3, 1, 10, 20, 30, 0, time.UTC), u.Created)

	var nilRow *Row
	assert.ErrorIs(t, nilRow.Decode(&u), ErrValidation)
}

func TestDecodeRows(t *testing.T) {
	rows := MapRows(userColumns, [][]any{{int64(1), "a", "x"}, {int64(2), nil, "y"}})

	var users []user
	require.NoError(t, DecodeRows(rows, &users))
	require.Len(t, users, 2)
	assert.Equal(t, int64(2), users[1].ID)
	assert.Nil(t, users[1].Name)
	assert.Equal(t, "y", users[1].Email)
}
