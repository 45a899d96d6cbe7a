package diff

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUnified(t *testing.T) {
	tests := []struct {
		name      string
		want, got string
		wantEmpty bool
		contains  string
	}{
		{name: "identical", want: "a\nb\n", got: "a\nb\n", wantEmpty: true},
		{name: "differs", want: "a\nb\n", got: "a\nc\n", contains: "-b"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out, err := Unified("want", "got", tt.want, tt.got)
			require.NoError(t, err)
			if tt.wantEmpty {
				assert.Empty(t, out)
				return
			}
			assert.Contains(t, out, tt.contains)
		})
	}
}

func TestLines(t *testing.T) {
	assert.Equal(t, []string{"a", "b"}, Lines("a\nb\n"))
	assert.Nil(t, Lines(""))
}
