package match

import (
	"math"
	"strings"
	"testing"
)

func TestSimilarity(t *testing.T) {
	tests := []struct {
		name string
		a, b string
		want float64
	}{
		{"identical", "jane", "jane", 1.0},
		{"case insensitive", "Jane", "JANE", 1.0},
		{"trimmed", "  jane ", "jane", 1.0},
		{"empty a", "", "x", 0},
		{"empty b", "x", "", 0},
		{"whitespace only", "   ", "x", 0},
		{"kitten sitting", "kitten", "sitting", 1 - 3.0/7.0},
		{"counts code points not bytes", "caf\u00e9", "cafe", 0.75},
		{"composed and decomposed accents", "caf\u00e9", "cafe\u0301", 1.0},
		{"completely different", "abc", "xyz", 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Similarity(tt.a, tt.b)
			if math.Abs(got-tt.want) > 1e-9 {
				t.Errorf("Similarity(%q, %q) = %v, want %v", tt.a, tt.b, got, tt.want)
			}
		})
	}
}

func TestSimilarity_Symmetric(t *testing.T) {
	pairs := [][2]string{
		{"Robert", "Bob"},
		{"San Francisco", "SF"},
		{"senior engineer at acme", "acme"},
	}
	for _, p := range pairs {
		if ab, ba := Similarity(p[0], p[1]), Similarity(p[1], p[0]); ab != ba {
			t.Errorf("Similarity(%q, %q) = %v but reversed = %v", p[0], p[1], ab, ba)
		}
	}
}

func TestSimilarity_LongInput(t *testing.T) {
	a := strings.Repeat("software engineer ", 300)
	b := strings.Repeat("software engineers ", 300)

	got := Similarity(a, b)
	if got <= 0 || got > 1 {
		t.Errorf("Similarity of long inputs = %v, want in (0, 1]", got)
	}
}

func TestSimilarity_UnicodeNormalization(t *testing.T) {
	composed, decomposed := "Jos\u00e9", "Jose\u0301"
	if got := Similarity(composed, decomposed); got != 1.0 {
		t.Errorf("Similarity(%q, %q) = %v, want 1 (canonically equivalent)", composed, decomposed, got)
	}
	if got := MatchName(composed+" Garc\u00eda", decomposed+" Garci\u0301a"); got != 1.0 {
		t.Errorf("MatchName with mixed normalization forms = %v, want 1", got)
	}
}
