// Package features scores a text against six stylometric signals associated
// with machine-generated writing and folds them into one composite score.
package features

import (
	"fmt"
	"math"
	"regexp"
	"sort"
	"strings"
)

var sentenceEnd = regexp.MustCompile(`[.!?]+`)

// FeatureScore is one signal's score in [0,1] plus descriptive details.
type FeatureScore struct {
	Name    string         `json:"name"`
	Score   float64        `json:"score"`
	Details map[string]any `json:"details"`
}

// Result is the full feature vector for one text.
type Result struct {
	CompositeScore float64                 `json:"composite_score"`
	Features       map[string]FeatureScore `json:"features"`
	Interpretation []string                `json:"interpretation"`
}

// Score returns the stored score of a named signal, 0 when absent.
func (r Result) Score(name string) float64 {
	return r.Features[name].Score
}

type scorer func(sig signal, text string) (float64, map[string]any)

var scorers = map[string]scorer{
	"phrase":     scorePhrases,
	"burstiness": scoreBurstiness,
	"citation":   scoreCitations,
	"perplexity": scorePerplexity,
}

// Extract runs every signal in the table over text.
func Extract(text string) Result {
	if strings.TrimSpace(text) == "" {
		return empty()
	}

	raw := make([]float64, len(signals))
	out := Result{Features: make(map[string]FeatureScore, len(signals))}
	composite := 0.0
	for i, sig := range signals {
		score, details := scorers[sig.kind](sig, text)
		score = clamp01(score)
		raw[i] = score
		composite += score * sig.weight
		out.Features[sig.name] = FeatureScore{Name: sig.name, Score: round(score, 3), Details: details}
	}
	out.CompositeScore = round(clamp01(composite), 3)
	out.Interpretation = interpret(raw)
	return out
}

func empty() Result {
	out := Result{
		Features:       make(map[string]FeatureScore, len(signals)),
		Interpretation: []string{"No text provided for analysis"},
	}
	for _, sig := range signals {
		out.Features[sig.name] = FeatureScore{Name: sig.name, Details: map[string]any{}}
	}
	return out
}

func interpret(raw []float64) []string {
	idx := make([]int, len(raw))
	for i := range idx {
		idx[i] = i
	}
	sort.SliceStable(idx, func(a, b int) bool { return raw[idx[a]] > raw[idx[b]] })

	var lines []string
	for _, i := range idx {
		switch s := raw[i]; {
		case s > 0.6:
			lines = append(lines, fmt.Sprintf("High %s detected (score: %.2f)", signals[i].label, s))
		case s > 0.3:
			lines = append(lines, fmt.Sprintf("Moderate %s detected (score: %.2f)", signals[i].label, s))
		}
	}
	if len(lines) == 0 {
		lines = []string{"No significant AI patterns detected"}
	}
	return lines
}

// phrase signals: regex hits per 1000 words, saturating at sig.saturation.
func scorePhrases(sig signal, text string) (float64, map[string]any) {
	lower := strings.ToLower(text)
	words := len(strings.Fields(text))

	total := 0
	examples := make([]string, 0, 5)
	for _, re := range sig.patterns {
		found := re.FindAllString(lower, -1)
		total += len(found)
		for i := 0; i < len(found) && i < 3 && len(examples) < 5; i++ {
			examples = append(examples, found[i])
		}
	}

	freq := float64(total) / float64(max(words, 1)) * 1000
	return math.Min(1, freq/sig.saturation), map[string]any{
		"matches_found":      total,
		"examples":           examples,
		"frequency_per_1000": round(freq, 2),
		"description":        sig.description,
	}
}

func scoreBurstiness(sig signal, text string) (float64, map[string]any) {
	sentences := splitSentences(text)
	if len(sentences) < 3 {
		return 0, map[string]any{"variance": 0, "mean_length": 0, "description": "Insufficient sentences"}
	}

	lengths := make([]float64, len(sentences))
	for i, s := range sentences {
		lengths[i] = float64(len(strings.Fields(s)))
	}
	mean, variance := meanVariance(lengths)
	sd := math.Sqrt(variance)
	cv := sd / math.Max(mean, 1)

	return math.Max(0, 1-cv/0.6), map[string]any{
		"variance":                 round(variance, 2),
		"std_deviation":            round(sd, 2),
		"coefficient_of_variation": round(cv, 3),
		"mean_sentence_length":     round(mean, 1),
		"sentence_count":           len(sentences),
		"description":              sig.description,
	}
}

func scoreCitations(sig signal, text string) (float64, map[string]any) {
	var suspicious []string
	for _, re := range sig.patterns {
		suspicious = append(suspicious, re.FindAllString(text, -1)...)
	}
	total := 0
	for _, re := range sig.references {
		total += len(re.FindAllStringIndex(text, -1))
	}

	if total == 0 {
		return 0.5, map[string]any{
			"suspicious_count": 0,
			"total_citations":  0,
			"examples":         []string{},
			"description":      "No citations found - unusual for scholarly paper",
		}
	}

	count := len(suspicious)
	ratio := float64(count) / float64(total)
	if count > 5 {
		suspicious = suspicious[:5]
	}
	return math.Min(1, ratio*2), map[string]any{
		"suspicious_count": count,
		"total_citations":  total,
		"suspicious_ratio": round(ratio, 3),
		"examples":         suspicious,
		"description":      sig.description,
	}
}

// Perplexity proxy: unigram entropy and bigram diversity; low values read as predictable text.
func scorePerplexity(sig signal, text string) (float64, map[string]any) {
	words := strings.Fields(strings.ToLower(text))
	if len(words) < 10 {
		return 0, map[string]any{"estimated_perplexity": 0, "description": "Insufficient text"}
	}

	counts := make(map[string]int, len(words))
	for _, w := range words {
		counts[w]++
	}
	n := float64(len(words))
	entropy := 0.0
	for _, c := range counts {
		p := float64(c) / n
		entropy -= p * math.Log2(p)
	}
	normEntropy := entropy / 12

	bigrams := make(map[[2]string]struct{}, len(words))
	for i := 0; i+1 < len(words); i++ {
		bigrams[[2]string{words[i], words[i+1]}] = struct{}{}
	}
	bigramRatio := float64(len(bigrams)) / float64(max(len(words)-1, 1))

	score := math.Max(0, 1-(normEntropy+bigramRatio)/2)
	return score, map[string]any{
		"entropy":              round(entropy, 3),
		"normalized_entropy":   round(normEntropy, 3),
		"bigram_diversity":     round(bigramRatio, 3),
		"vocabulary_size":      len(counts),
		"total_words":          len(words),
		"estimated_perplexity": round((1-score)*100, 1),
		"description":          sig.description,
	}
}

func splitSentences(text string) []string {
	parts := sentenceEnd.Split(text, -1)
	out := parts[:0]
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}

func meanVariance(xs []float64) (mean, variance float64) {
	for _, x := range xs {
		mean += x
	}
	mean /= float64(len(xs))
	for _, x := range xs {
		d := x - mean
		variance += d * d
	}
	return mean, variance / float64(len(xs))
}

func clamp01(v float64) float64 {
	if math.IsNaN(v) || v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}

func round(v float64, places int) float64 {
	p := math.Pow(10, float64(places))
	return math.Round(v*p) / p
}
