package explainer

import (
	_ "embed"
	"fmt"
	"strings"

	"go.yaml.in/yaml/v3"

	"scholarcheck/internal/features"
	"scholarcheck/internal/scoring"
)

//go:embed knowledge.yaml
var knowledgeYAML []byte

type featureInfo struct {
	Key         string   `yaml:"key"`
	Name        string   `yaml:"name"`
	Menu        string   `yaml:"menu"`
	Summary     string   `yaml:"summary"`
	Keywords    []string `yaml:"keywords"`
	Description string   `yaml:"description"`
	High        string   `yaml:"high"`
	Low         string   `yaml:"low"`
}

type knowledge struct {
	Features  []featureInfo     `yaml:"features"`
	Decisions map[string]string `yaml:"decisions"`
}

var kb = mustLoadKnowledge(knowledgeYAML)

func mustLoadKnowledge(raw []byte) knowledge {
	var k knowledge
	if err := yaml.Unmarshal(raw, &k); err != nil {
		panic(fmt.Sprintf("explainer: decode knowledge: %v", err))
	}
	known := map[string]bool{}
	for _, name := range features.Names() {
		known[name] = true
	}
	for _, f := range k.Features {
		if !known[f.Key] {
			panic(fmt.Sprintf("explainer: knowledge entry for unknown feature %q", f.Key))
		}
	}
	for _, d := range []scoring.Decision{scoring.Accept, scoring.ReviewNeeded, scoring.Reject} {
		if _, ok := k.Decisions[string(d)]; !ok {
			panic(fmt.Sprintf("explainer: no explanation for decision %q", d))
		}
	}
	return k
}

// matchFeature returns the first feature whose keyword appears in message.
func (k knowledge) matchFeature(message string) (featureInfo, bool) {
	lower := strings.ToLower(message)
	for _, f := range k.Features {
		for _, kw := range f.Keywords {
			if strings.Contains(lower, kw) {
				return f, true
			}
		}
	}
	return featureInfo{}, false
}

func (k knowledge) decision(d scoring.Decision) string {
	if text, ok := k.Decisions[string(d)]; ok {
		return text
	}
	return "No explanation available."
}
