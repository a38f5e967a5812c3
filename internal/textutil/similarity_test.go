package textutil

import "testing"

func TestNormalize(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"Hello, World!", "hello, world!"},
		{"  spaced   out  ", "spaced out"},
		{"line\\Nbreak", "line break"},
		{"{\\an8}positioned", "positioned"},
		{"<i>italic</i> text", "italic text"},
		{"", ""},
	}
	for _, tt := range tests {
		if got := Normalize(tt.in); got != tt.want {
			t.Errorf("Normalize(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestSimilarity(t *testing.T) {
	if got := Similarity("hello world", "hello world"); got != 1.0 {
		t.Errorf("identical strings: expected 1.0, got %f", got)
	}
	if got := Similarity("abc", "xyz"); got != 0.0 {
		t.Errorf("disjoint strings: expected 0.0, got %f", got)
	}
	if got := Similarity("", ""); got != 0.0 && got != 1.0 {
		t.Errorf("empty strings: unexpected %f", got)
	}

	partial := Similarity("the quick brown fox", "the quick red fox")
	if partial <= 0.5 || partial >= 1.0 {
		t.Errorf("partial overlap: expected (0.5, 1.0), got %f", partial)
	}
}
