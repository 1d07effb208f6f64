package usecase_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"prereq-orchestrator/internal/usecase"
)

func TestParseNumberedList(t *testing.T) {
	tests := []struct {
		name string
		text string
		want []string
	}{
		{
			name: "numbered lines",
			text: "1. Algebra\n2. Geometry\n3. Calculus",
			want: []string{"Algebra", "Geometry", "Calculus"},
		},
		{
			name: "bare line without marker",
			text: "Calculus",
			want: []string{"Calculus"},
		},
		{
			name: "whitespace around markers",
			text: "  1 .  Linear algebra  \n2.Statistics",
			want: []string{"Linear algebra", "Statistics"},
		},
		{
			name: "trailing blank lines kept as empty entries",
			text: "1. Algebra\n\n",
			want: []string{"Algebra", "", ""},
		},
		{
			name: "double digit markers",
			text: "9. Topology\n10. Set theory",
			want: []string{"Topology", "Set theory"},
		},
		{
			name: "entry containing a period",
			text: "1. C. elegans",
			want: []string{"C. elegans"},
		},
		{
			name: "empty text",
			text: "",
			want: []string{""},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, usecase.ParseNumberedList(tt.text))
		})
	}
}
