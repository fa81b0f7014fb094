package platform

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuildSelect(t *testing.T) {
	query, args, err := buildSelect(
		"events",
		[]string{"id", "slug"},
		[]Filter{
			{Column: "starts_at", Op: "gte", Value: "2026-01-01"},
			{Column: "location", Op: "eq", Value: "Kyoto"},
		},
		&Order{Column: "starts_at"},
		10,
	)
	require.NoError(t, err)
	assert.Equal(t,
		"SELECT id, slug FROM events WHERE starts_at >= $1 AND location = $2 ORDER BY starts_at ASC LIMIT $3",
		query)
	assert.Equal(t, []any{"2026-01-01", "Kyoto", 10}, args)
}

func TestBuildSelectDescNoLimit(t *testing.T) {
	query, args, err := buildSelect("events", []string{"id"}, nil, &Order{Column: "starts_at", Desc: true}, 0)
	require.NoError(t, err)
	assert.Equal(t, "SELECT id FROM events ORDER BY starts_at DESC", query)
	assert.Empty(t, args)
}

func TestBuildSelectRejectsBadIdentifiers(t *testing.T) {
	tests := []struct {
		name    string
		table   string
		columns []string
		filters []Filter
		order   *Order
	}{
		{name: "table injection", table: "events; DROP TABLE events--", columns: []string{"id"}},
		{name: "uppercase table", table: "Events", columns: []string{"id"}},
		{name: "column injection", table: "events", columns: []string{"id, password"}},
		{name: "no columns", table: "events", columns: nil},
		{
			name: "filter column", table: "events", columns: []string{"id"},
			filters: []Filter{{Column: "1=1 OR slug", Op: "eq", Value: "x"}},
		},
		{
			name: "unsupported op", table: "events", columns: []string{"id"},
			filters: []Filter{{Column: "slug", Op: "like", Value: "x"}},
		},
		{
			name: "order column", table: "events", columns: []string{"id"},
			order: &Order{Column: "starts_at; --"},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, _, err := buildSelect(tt.table, tt.columns, tt.filters, tt.order, 0)
			assert.Error(t, err)
		})
	}
}

func TestBuildCall(t *testing.T) {
	query, values, err := buildCall("register_for_event", NamedArgs{
		{Name: "p_event_id", Value: int64(42)},
		{Name: "p_name", Value: "Taro"},
	})
	require.NoError(t, err)
	assert.Equal(t, "SELECT register_for_event(p_event_id => $1, p_name => $2)", query)
	assert.Equal(t, []any{int64(42), "Taro"}, values)
}

func TestBuildCallNoArgs(t *testing.T) {
	query, values, err := buildCall("refresh_counts", nil)
	require.NoError(t, err)
	assert.Equal(t, "SELECT refresh_counts()", query)
	assert.Empty(t, values)
}

func TestBuildCallRejectsBadIdentifiers(t *testing.T) {
	_, _, err := buildCall("do_thing; DROP", nil)
	assert.Error(t, err)

	_, _, err = buildCall("register_for_event", NamedArgs{{Name: "p_name => null); --", Value: "x"}})
	assert.Error(t, err)
}
