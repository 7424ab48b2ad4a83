// Package scoring folds detector scores into a final probability and decision.
package scoring

import "math"

type Decision string

const (
	Accept       Decision = "Accept"
	ReviewNeeded Decision = "Review Needed"
	Reject       Decision = "Reject"
)

const (
	RejectAbove = 0.7
	ReviewAbove = 0.3
)

// Weights of each signal. Citation contributes as a penalty (1 - score).
type Weights struct {
	AI         float64 `json:"ai"`
	Plagiarism float64 `json:"plagiarism"`
	Citation   float64 `json:"citation"`
}

var (
	DefaultWeights  = Weights{AI: 0.6, Plagiarism: 0.4}
	CitationWeights = Weights{AI: 0.5, Plagiarism: 0.3, Citation: 0.2}
)

type FinalDecision struct {
	FinalProbability float64  `json:"final_probability"`
	Decision         Decision `json:"decision"`
}

type Aggregator struct {
	weights Weights
}

// NewAggregator picks the three-signal weights when citationWeighting is set.
func NewAggregator(citationWeighting bool) Aggregator {
	if citationWeighting {
		return Aggregator{weights: CitationWeights}
	}
	return Aggregator{weights: DefaultWeights}
}

func (a Aggregator) Weights() Weights { return a.weights }

// Aggregate decides on the unrounded probability; only the stored value is rounded.
func (a Aggregator) Aggregate(aiScore, plagiarismScore, citationScore float64) FinalDecision {
	// explicit conversions keep each product rounded (no fused multiply-add)
	p := float64(aiScore*a.weights.AI) + float64(plagiarismScore*a.weights.Plagiarism)
	if a.weights.Citation > 0 {
		p += float64((1 - citationScore) * a.weights.Citation)
	}
	p = math.Max(0, math.Min(1, p))
	return FinalDecision{
		FinalProbability: math.Round(p*1000) / 1000,
		Decision:         Decide(p),
	}
}

func Decide(p float64) Decision {
	switch {
	case p > RejectAbove:
		return Reject
	case p > ReviewAbove:
		return ReviewNeeded
	default:
		return Accept
	}
}
