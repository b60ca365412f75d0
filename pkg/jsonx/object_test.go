package jsonx

import (
	"testing"

	"github.com/goccy/go-json"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestObject(t *testing.T) {
	tests := []struct {
		name    string
		input   any
		want    map[string]any
		wantErr bool
	}{
		{
			name: "struct",
			input: struct {
				Model  string `json:"model"`
				Tokens int    `json:"tokens"`
			}{
				Model:  "gpt-4o-mini",
				Tokens: 30,
			},
			want: map[string]any{
				"model":  "gpt-4o-mini",
				"tokens": json.Number("30"),
			},
		},
		{
			name:  "map passes through",
			input: map[string]any{"k": 1},
			want:  map[string]any{"k": 1},
		},
		{
			name:  "nil",
			input: nil,
			want:  nil,
		},
		{
			name:    "not an object",
			input:   []string{"a"},
			wantErr: true,
		},
		{
			name:    "unencodable",
			input:   make(chan int),
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Object(tt.input)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestObject_LargeIntegers(t *testing.T) {
	got, err := Object(map[string]uint64{"id": 1 << 60})
	require.NoError(t, err)
	assert.Equal(t, json.Number("1152921504606846976"), got["id"])
}

func TestMerge(t *testing.T) {
	assert.Nil(t, Merge(nil, nil))
	assert.Equal(t, map[string]any{"a": 1}, Merge(nil, map[string]any{"a": 1}))

	dst := map[string]any{"a": 1, "b": 2}
	got := Merge(dst, map[string]any{"b": 3, "c": 4})
	assert.Equal(t, map[string]any{"a": 1, "b": 3, "c": 4}, got)
}
