package chunker

import (
	"reflect"
	"testing"
)

func TestSplitSentences(t *testing.T) {
	tests := []struct {
		name       string
		line       string
		want       []string
		terminated []bool
	}{
		{
			name:       "single letters are sentences",
			line:       "A. B. C.",
			want:       []string{"A.", "B.", "C."},
			terminated: []bool{true, true, true},
		},
		{
			name:       "abbreviations do not end sentences",
			line:       "Worked with Dr. Smith on e.g. compilers. Then left.",
			want:       []string{"Worked with Dr. Smith on e.g. compilers.", "Then left."},
			terminated: []bool{true, true},
		},
		{
			name:       "decimals do not end sentences",
			line:       "Improved latency by 3.5x. Next.",
			want:       []string{"Improved latency by 3.5x.", "Next."},
			terminated: []bool{true, true},
		},
		{
			name:       "closing quote belongs to the sentence",
			line:       `He said "done." Then.`,
			want:       []string{`He said "done."`, "Then."},
			terminated: []bool{true, true},
		},
		{
			name:       "terminator runs",
			line:       "Really?! Yes.",
			want:       []string{"Really?!", "Yes."},
			terminated: []bool{true, true},
		},
		{
			name:       "trailing fragment",
			line:       "Built APIs. Go, Rust",
			want:       []string{"Built APIs.", "Go, Rust"},
			terminated: []bool{true, false},
		},
		{
			name:       "no terminator",
			line:       "Senior Engineer, Acme Corp",
			want:       []string{"Senior Engineer, Acme Corp"},
			terminated: []bool{false},
		},
		{
			name:       "url dots",
			line:       "See example.com for details.",
			want:       []string{"See example.com for details."},
			terminated: []bool{true},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, terminated := splitSentences(tt.line)
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("expected %q, got %q", tt.want, got)
			}
			if !reflect.DeepEqual(terminated, tt.terminated) {
				t.Errorf("expected terminated %v, got %v", tt.terminated, terminated)
			}
		})
	}
}
