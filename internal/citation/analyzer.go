// Package citation rates how well a text is supported by inline citations.
package citation

import (
	"fmt"
	"math"
	"regexp"
	"strings"
)

var (
	numericCitation  = regexp.MustCompile(`\[\s*\d+\s*\]`)
	authDateCitation = regexp.MustCompile(`\([A-Za-z\s]+,\s*\d{4}\)`)
)

const (
	minWords       = 50
	wordsPerCiting = 200
)

type Result struct {
	Score   float64 `json:"score"`
	Count   int     `json:"count"`
	Details string  `json:"details"`
}

// Analyze expects one citation per 200 words; texts under 50 words score 1.
func Analyze(text string) Result {
	numeric := len(numericCitation.FindAllStringIndex(text, -1))
	authDate := len(authDateCitation.FindAllStringIndex(text, -1))
	total := numeric + authDate
	words := len(strings.Fields(text))

	var score float64
	switch expected := float64(words) / wordsPerCiting; {
	case words < minWords:
		score = 1.0
	case float64(total) >= expected:
		score = 1.0
	case total > 0:
		score = 0.5 + 0.5*(float64(total)/expected)
	default:
		score = 0.2
	}

	return Result{
		Score:   math.Round(score*100) / 100,
		Count:   total,
		Details: fmt.Sprintf("Found %d citations (Numeric: %d, Auth-Date: %d)", total, numeric, authDate),
	}
}
