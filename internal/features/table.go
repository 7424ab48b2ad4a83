package features

import (
	_ "embed"
	"fmt"
	"math"
	"regexp"

	"go.yaml.in/yaml/v3"
)

//go:embed patterns.yaml
var patternsYAML []byte

// Signal names, in table order.
const (
	GPTRepetition         = "gpt_repetition"
	GeminiOverflow        = "gemini_overflow"
	ClaudeHedging         = "claude_hedging"
	Burstiness            = "burstiness"
	CitationHallucination = "citation_hallucination"
	Perplexity            = "perplexity"
)

type signalSpec struct {
	Name        string   `yaml:"name"`
	Kind        string   `yaml:"kind"`
	Label       string   `yaml:"label"`
	Weight      float64  `yaml:"weight"`
	Saturation  float64  `yaml:"saturation"`
	Description string   `yaml:"description"`
	Patterns    []string `yaml:"patterns"`
	References  []string `yaml:"reference_patterns"`
}

type signal struct {
	name        string
	kind        string
	label       string
	weight      float64
	saturation  float64
	description string
	patterns    []*regexp.Regexp
	references  []*regexp.Regexp
}

var signals = mustLoadTable(patternsYAML)

// Names returns the signal names in table order.
func Names() []string {
	out := make([]string, 0, len(signals))
	for _, s := range signals {
		out = append(out, s.name)
	}
	return out
}

// Label returns the human label of a signal, or the name itself when unknown.
func Label(name string) string {
	for _, s := range signals {
		if s.name == name {
			return s.label
		}
	}
	return name
}

func mustLoadTable(raw []byte) []signal {
	out, err := loadTable(raw)
	if err != nil {
		panic(fmt.Sprintf("features: %v", err))
	}
	return out
}

func loadTable(raw []byte) ([]signal, error) {
	var doc struct {
		Signals []signalSpec `yaml:"signals"`
	}
	if err := yaml.Unmarshal(raw, &doc); err != nil {
		return nil, fmt.Errorf("decode pattern table: %w", err)
	}
	if len(doc.Signals) == 0 {
		return nil, fmt.Errorf("pattern table has no signals")
	}

	total := 0.0
	seen := map[string]struct{}{}
	out := make([]signal, 0, len(doc.Signals))
	for _, spec := range doc.Signals {
		if _, ok := scorers[spec.Kind]; !ok {
			return nil, fmt.Errorf("signal %s: unknown kind %q", spec.Name, spec.Kind)
		}
		if _, dup := seen[spec.Name]; dup {
			return nil, fmt.Errorf("signal %s declared twice", spec.Name)
		}
		seen[spec.Name] = struct{}{}
		if spec.Kind == "phrase" && spec.Saturation <= 0 {
			return nil, fmt.Errorf("signal %s: phrase signals need a positive saturation", spec.Name)
		}

		s := signal{
			name:        spec.Name,
			kind:        spec.Kind,
			label:       spec.Label,
			weight:      spec.Weight,
			saturation:  spec.Saturation,
			description: spec.Description,
		}
		for _, p := range spec.Patterns {
			re, err := regexp.Compile(`(?i)` + p)
			if err != nil {
				return nil, fmt.Errorf("signal %s: pattern %q: %w", spec.Name, p, err)
			}
			s.patterns = append(s.patterns, re)
		}
		for _, p := range spec.References {
			re, err := regexp.Compile(p)
			if err != nil {
				return nil, fmt.Errorf("signal %s: reference pattern %q: %w", spec.Name, p, err)
			}
			s.references = append(s.references, re)
		}
		total += s.weight
		out = append(out, s)
	}
	if math.Abs(total-1.0) > 1e-9 {
		return nil, fmt.Errorf("signal weights sum to %.4f, want 1.0", total)
	}
	return out, nil
}
