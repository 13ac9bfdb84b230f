package models

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestResourceField_UnwrapsItemWrapper(t *testing.T) {
	r := Resource{
		"item": map[string]any{
			"vendor": "cisco",
		},
	}
	v, ok := r.Field("vendor")
	assert.True(t, ok)
	assert.Equal(t, "cisco", v)
}

func TestResourceField_NonStringIgnored(t *testing.T) {
	r := Resource{"count": 3}
	_, ok := r.Field("count")
	assert.False(t, ok)
}

func TestStr_TypeMismatch(t *testing.T) {
	r := Resource{"attributes": map[string]any{"deviceName": 42}}
	_, err := r.str("attributes.deviceName")

	var serr *SchemaError
	require.ErrorAs(t, err, &serr)
	assert.Equal(t, "attributes.deviceName", serr.Path)
}

func TestStr_NullIsEmpty(t *testing.T) {
	r := Resource{"attributes": map[string]any{"description": nil}}
	s, err := r.str("attributes.description")
	require.NoError(t, err)
	assert.Empty(t, s)
}

func TestStrSlice_ElementMismatch(t *testing.T) {
	r := Resource{"attributes": map[string]any{"ipAddresses": []any{"10.0.0.1", 5}}}
	_, err := r.strSlice("attributes.ipAddresses")

	var serr *SchemaError
	require.ErrorAs(t, err, &serr)
	assert.Equal(t, "attributes.ipAddresses[1]", serr.Path)
}

func TestHas(t *testing.T) {
	r := Resource{"attributes": map[string]any{"tenantType": "client"}}
	assert.True(t, r.has("attributes.tenantType"))
	assert.False(t, r.has("attributes.missing"))
	assert.False(t, r.has("relationships.tenant.data"))
}

func TestParseTimestamp(t *testing.T) {
	tests := []struct {
		in   string
		want time.Time
	}{
		{"", time.Time{}},
		{"2026-08-30T11:22:33.000Z", time.Date(2026, 8, 30, 11, 22, 33, 0, time.UTC)},
		{"2026-08-30T11:22:33Z", time.Date(2026, 8, 30, 11, 22, 33, 0, time.UTC)},
		{"2026-08-30 11:22:33", time.Date(2026, 8, 30, 11, 22, 33, 0, time.UTC)},
		{"2026-08-30", time.Date(2026, 8, 30, 0, 0, 0, 0, time.UTC)},
	}
	for _, tt := range tests {
		got, err := ParseTimestamp(tt.in)
		require.NoError(t, err, "input %q", tt.in)
		assert.True(t, got.Equal(tt.want), "input %q: got %v, want %v", tt.in, got, tt.want)
	}
}

func TestParseTimestamp_Malformed(t *testing.T) {
	_, err := ParseTimestamp("not a time")
	assert.Error(t, err)
}
