package cli

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseAssignments(t *testing.T) {
	got, err := parseAssignments([]string{
		"name=Ada",
		"id=42",
		"_in_id=1,2,3",
		"email=null",
		"code='0042'",
		`note="a=b"`,
		"empty=",
	})
	require.NoError(t, err)
	assert.Equal(t, map[string]any{
		"name":   "Ada",
		"id":     int64(42),
		"_in_id": "1,2,3",
		"email":  nil,
		"code":   "0042",
		"note":   "a=b",
		"empty":  "",
	}, got)
}

func TestParseAssignments_Errors(t *testing.T) {
	tests := []struct {
		name string
		args []string
	}{
		{"no separator", []string{"name"}},
		{"empty key", []string{"=x"}},
		{"duplicate", []string{"a=1", "a=2"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := parseAssignments(tt.args)
			assert.Error(t, err)
		})
	}
}
