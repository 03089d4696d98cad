package views

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestTokenize(t *testing.T) {
	tests := []struct {
		name   string
		search string
		want   []string
	}{
		{
			name:   "lowercases and splits",
			search: "Great Escape",
			want:   []string{"great", "escape"},
		},
		{
			name:   "drops stop words",
			search: "the great escape",
			want:   []string{"great", "escape"},
		},
		{
			name:   "collapses whitespace",
			search: "  great   escape  ",
			want:   []string{"great", "escape"},
		},
		{
			name:   "all stop words yields empty",
			search: "the and of",
			want:   []string{},
		},
		{
			name:   "empty input yields empty",
			search: "",
			want:   []string{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Tokenize(tt.search))
		})
	}
}
