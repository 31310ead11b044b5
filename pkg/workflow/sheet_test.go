package workflow

import (
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/stretchr/testify/assert"
)

func TestSheetName(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"short", "S11", "S11"},
		{"forbidden characters", "dB[S11]:a/b", "dB_S11__a_b"},
		{"ascii over limit", strings.Repeat("x", 40), strings.Repeat("x", 31)},
		{"multi-byte runes are kept whole", "ab" + strings.Repeat("远场辐射", 8), "ab" + string([]rune(strings.Repeat("远场辐射", 8))[:29])},
		{"cjk under limit", "远场辐射方向图", "远场辐射方向图"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := sheetName(tt.in)
			assert.Equal(t, tt.want, got)
			assert.True(t, utf8.ValidString(got))
			assert.LessOrEqual(t, utf8.RuneCountInString(got), 31)
		})
	}
}
