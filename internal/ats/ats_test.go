package ats

import (
	"strings"
	"testing"
)

func TestResumeScore(t *testing.T) {
	tests := []struct {
		name     string
		keywords int
		exps     int
		want     int
	}{
		{name: "empty", want: 60},
		{name: "few keywords", keywords: 3, exps: 1, want: 69},
		{name: "keyword cap", keywords: 40, exps: 0, want: 90},
		{name: "experience cap", keywords: 0, exps: 10, want: 70},
		{name: "overall cap", keywords: 20, exps: 5, want: 95},
		{name: "negative clamps", keywords: -5, exps: -1, want: 60},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ResumeScore(tt.keywords, tt.exps); got != tt.want {
				t.Fatalf("ResumeScore(%d, %d) = %d, want %d", tt.keywords, tt.exps, got, tt.want)
			}
		})
	}
}

func TestResumeScoreMonotonicInKeywords(t *testing.T) {
	for exps := 0; exps <= 6; exps++ {
		prev := -1
		for k := 0; k <= 50; k++ {
			got := ResumeScore(k, exps)
			if got < prev {
				t.Fatalf("score decreased at k=%d exps=%d: %d < %d", k, exps, got, prev)
			}
			if got > 95 {
				t.Fatalf("score %d exceeds 95", got)
			}
			prev = got
		}
	}
}

func words(n int) string {
	return strings.TrimSpace(strings.Repeat("word ", n))
}

func TestCoverLetterLengthBands(t *testing.T) {
	peak := CoverLetterScore(words(300), "", nil)
	if peak != 75 {
		t.Fatalf("expected 75 at 300 words, got %d", peak)
	}
	for _, n := range []int{250, 400} {
		if got := CoverLetterScore(words(n), "", nil); got != peak {
			t.Fatalf("expected peak at %d words, got %d", n, got)
		}
	}
	for _, n := range []int{200, 249, 401, 500} {
		if got := CoverLetterScore(words(n), "", nil); got != 70 {
			t.Fatalf("expected partial band at %d words, got %d", n, got)
		}
	}
	for _, n := range []int{0, 199, 501, 900} {
		got := CoverLetterScore(words(n), "", nil)
		if got >= peak || got != 65 {
			t.Fatalf("expected no band at %d words, got %d", n, got)
		}
	}
}

func TestCoverLetterBonusesAndCap(t *testing.T) {
	text := "At ACME I shipped Go and Kubernetes services. " + words(290)
	got := CoverLetterScore(text, "Acme", []string{"go", "kubernetes", "missing"})
	// 65 + 10 band + 5 company + 4 keywords
	if got != 84 {
		t.Fatalf("expected 84, got %d", got)
	}

	keywords := []string{"a", "b", "c", "d", "e", "f", "g", "h", "i"}
	text = "a b c d e f g h i Acme " + words(280)
	if got := CoverLetterScore(text, "Acme", keywords); got != 90 {
		t.Fatalf("expected keyword bonus capped to 10 (90), got %d", got)
	}
	if got := CoverLetterScore(text, "Acme", keywords); got > 92 {
		t.Fatalf("score %d exceeds cap", got)
	}
}
