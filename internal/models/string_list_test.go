package models

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStringList_Value(t *testing.T) {
	tests := []struct {
		name     string
		list     StringList
		expected string
	}{
		{
			name:     "nil list stores empty array",
			list:     nil,
			expected: "[]",
		},
		{
			name:     "empty list",
			list:     StringList{},
			expected: "[]",
		},
		{
			name:     "populated list",
			list:     StringList{"christmas", "eid"},
			expected: `["christmas","eid"]`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			value, err := tt.list.Value()
			require.NoError(t, err)
			assert.Equal(t, tt.expected, value)
		})
	}
}

func TestStringList_Scan(t *testing.T) {
	tests := []struct {
		name     string
		input    interface{}
		expected StringList
		wantErr  bool
	}{
		{
			name:     "nil scans to empty list",
			input:    nil,
			expected: StringList{},
		},
		{
			name:     "empty bytes scan to empty list",
			input:    []byte{},
			expected: StringList{},
		},
		{
			name:     "valid JSON string",
			input:    `["christmas","diwali"]`,
			expected: StringList{"christmas", "diwali"},
		},
		{
			name:     "valid JSON bytes",
			input:    []byte(`["eid"]`),
			expected: StringList{"eid"},
		},
		{
			name:     "malformed payload degrades to empty list",
			input:    "{not json",
			expected: StringList{},
		},
		{
			name:    "unsupported type",
			input:   42,
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var list StringList
			err := list.Scan(tt.input)
			if tt.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.expected, list)
		})
	}
}

func TestStringList_Contains(t *testing.T) {
	list := StringList{"christmas", "eid"}

	assert.True(t, list.Contains("christmas"))
	assert.False(t, list.Contains("diwali"))
	assert.False(t, StringList{}.Contains("christmas"))
}

func TestStringList_IntersectsWith(t *testing.T) {
	list := StringList{"christmas", "national"}

	assert.True(t, list.IntersectsWith(StringList{"national"}))
	assert.True(t, list.IntersectsWith(StringList{"diwali", "christmas"}))
	assert.False(t, list.IntersectsWith(StringList{"eid"}))
	assert.False(t, list.IntersectsWith(StringList{}))
}

func TestStringList_MarshalJSON(t *testing.T) {
	var nilList StringList
	bytes, err := nilList.MarshalJSON()
	require.NoError(t, err)
	assert.Equal(t, "[]", string(bytes))

	bytes, err = StringList{"christmas"}.MarshalJSON()
	require.NoError(t, err)
	assert.Equal(t, `["christmas"]`, string(bytes))
}

func TestCategoryDeltaList_Scan(t *testing.T) {
	tests := []struct {
		name     string
		input    interface{}
		expected int
	}{
		{
			name:     "nil scans to empty list",
			input:    nil,
			expected: 0,
		},
		{
			name:     "valid payload",
			input:    `[{"category":"Gifts","delta":"45.50"}]`,
			expected: 1,
		},
		{
			name:     "malformed payload degrades to empty list",
			input:    "<garbage>",
			expected: 0,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var list CategoryDeltaList
			require.NoError(t, list.Scan(tt.input))
			assert.Len(t, list, tt.expected)
		})
	}
}

func TestCategoryDeltaList_RoundTrip(t *testing.T) {
	list := CategoryDeltaList{
		{Category: "Gifts", Delta: decimal.RequireFromString("45.50")},
		{Category: "Dining", Delta: decimal.RequireFromString("12.00")},
	}

	value, err := list.Value()
	require.NoError(t, err)

	var decoded CategoryDeltaList
	require.NoError(t, decoded.Scan(value))

	require.Len(t, decoded, 2)
	assert.Equal(t, "Gifts", decoded[0].Category)
	assert.True(t, decoded[0].Delta.Equal(decimal.RequireFromString("45.50")))
}
