// Package ats computes display-only applicant tracking scores. The scores
// are heuristics and never gate or rank anything.
package ats

import "strings"

const (
	resumeBase = 60
	resumeMax  = 95

	coverLetterBase = 65
	coverLetterMax  = 92

	maxKeywordsChecked = 8
)

// ResumeScore rewards matched keywords and tailored experience entries.
func ResumeScore(keywordCount, experienceCount int) int {
	score := resumeBase + min(2*max(keywordCount, 0), 30) + min(3*max(experienceCount, 0), 10)
	return min(score, resumeMax)
}

// CoverLetterScore rewards a 250-400 word letter that names the company and
// uses the matched keywords.
func CoverLetterScore(text, company string, keywords []string) int {
	score := coverLetterBase + lengthBand(WordCount(text))

	lower := strings.ToLower(text)
	if c := strings.ToLower(strings.TrimSpace(company)); c != "" && strings.Contains(lower, c) {
		score += 5
	}

	kw := 0
	for i, k := range keywords {
		if i >= maxKeywordsChecked {
			break
		}
		if k = strings.ToLower(strings.TrimSpace(k)); k != "" && strings.Contains(lower, k) {
			kw += 2
		}
	}
	score += min(kw, 10)

	return min(score, coverLetterMax)
}

func lengthBand(words int) int {
	switch {
	case words >= 250 && words <= 400:
		return 10
	case words >= 200 && words <= 500:
		return 5
	default:
		return 0
	}
}

// WordCount counts whitespace-separated words.
func WordCount(text string) int {
	return len(strings.Fields(text))
}
