package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMediaURLs_Value(t *testing.T) {
	t.Parallel()

	t.Run("nil list stores empty JSON array", func(t *testing.T) {
		var m MediaURLs
		v, err := m.Value()
		require.NoError(t, err)
		assert.Equal(t, "[]", v)
	})

	t.Run("list serializes to JSON", func(t *testing.T) {
		m := MediaURLs{"/uploads/a.png", "/uploads/b.mp4"}
		v, err := m.Value()
		require.NoError(t, err)
		assert.JSONEq(t, `["/uploads/a.png","/uploads/b.mp4"]`, v.(string))
	})
}

func TestMediaURLs_Scan(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		src      any
		expected MediaURLs
		wantErr  bool
	}{
		{name: "nil column", src: nil, expected: nil},
		{name: "empty bytes", src: []byte(""), expected: nil},
		{name: "string column", src: `["x.png"]`, expected: MediaURLs{"x.png"}},
		{name: "byte column", src: []byte(`["a","b"]`), expected: MediaURLs{"a", "b"}},
		{name: "unsupported type", src: 42, wantErr: true},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			var m MediaURLs
			err := m.Scan(tt.src)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.expected, m)
		})
	}
}
