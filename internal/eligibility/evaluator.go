// Package eligibility applies scholarship integrity rules to pipeline scores.
package eligibility

import (
	"fmt"
	"math"
	"strings"

	"scholarcheck/internal/citation"
)

const (
	MaxAIScore         = 0.25
	MaxPlagiarismScore = 0.15
	MinCitationScore   = 0.5
	ScanChars          = 5000
)

// Phrases that suggest fabricated or placeholder content, in reporting order.
var Blacklist = []string{
	"synthetic data",
	"generated dataset",
	"simulated values",
	"randomly generated",
	"as an ai language model",
	"sample text",
	"lorem ipsum",
}

type Result struct {
	IsEligible     bool     `json:"is_eligible"`
	IntegrityScore float64  `json:"integrity_score"`
	Reasons        []string `json:"reasons"`
}

// Evaluate runs every check; deductions stack and the final integrity is floored at 0.
func Evaluate(aiScore, plagiarismScore float64, cit citation.Result, body string) Result {
	res := Result{IsEligible: true, Reasons: []string{}}
	integrity := 1.0

	if aiScore > MaxAIScore {
		res.IsEligible = false
		res.Reasons = append(res.Reasons, fmt.Sprintf("AI Content detected (%d%%). Scholarship requires >75%% human authorship.", int(aiScore*100)))
		integrity -= 0.4
	}
	if plagiarismScore > MaxPlagiarismScore {
		res.IsEligible = false
		res.Reasons = append(res.Reasons, fmt.Sprintf("Plagiarism detected (%d%%). Academic integrity check failed.", int(plagiarismScore*100)))
		integrity -= 0.3
	}
	if cit.Score < MinCitationScore {
		res.IsEligible = false
		res.Reasons = append(res.Reasons, "Insufficient citation credibility. Research quality does not meet scholarship standards.")
		integrity -= 0.2
	}
	if phrase, ok := firstBlacklisted(body); ok {
		res.IsEligible = false
		res.Reasons = append(res.Reasons, fmt.Sprintf("Potential unoriginal/synthetic data detected: '%s'.", phrase))
		integrity -= 0.5
	}

	res.IntegrityScore = math.Max(0, math.Round(integrity*100)/100)
	return res
}

func firstBlacklisted(body string) (string, bool) {
	head := strings.ToLower(body)
	if r := []rune(head); len(r) > ScanChars {
		head = string(r[:ScanChars])
	}
	for _, p := range Blacklist {
		if strings.Contains(head, p) {
			return p, true
		}
	}
	return "", false
}
