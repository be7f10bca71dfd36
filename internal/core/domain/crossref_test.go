package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNormalizeSectionLabel(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{"already normalized", "CAT.GEN.MPA.210", "CAT.GEN.MPA.210"},
		{"lowercase", "cat.gen.mpa.210", "CAT.GEN.MPA.210"},
		{"surrounding whitespace", "  CAT.GEN.MPA.210\t", "CAT.GEN.MPA.210"},
		{"inner whitespace collapsed", "SUBPART   A", "SUBPART A"},
		{"empty", "", ""},
		{"whitespace only", "   ", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, NormalizeSectionLabel(tt.input))
		})
	}
}

func TestExtractSectionRefs(t *testing.T) {
	tests := []struct {
		name string
		text string
		want []string
	}{
		{
			name: "single reference",
			text: "Operators shall comply with CAT.GEN.MPA.210 at all times.",
			want: []string{"CAT.GEN.MPA.210"},
		},
		{
			name: "multiple references deduplicated",
			text: "See CAT.GEN.MPA.200 and ORO.FC.105. CAT.GEN.MPA.200 applies.",
			want: []string{"CAT.GEN.MPA.200", "ORO.FC.105"},
		},
		{
			name: "no references",
			text: "General provisions apply to all operators.",
			want: nil,
		},
		{
			name: "ignores short dotted tokens",
			text: "As amended in v1.2 of the plan.",
			want: nil,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ExtractSectionRefs(tt.text))
		})
	}
}
