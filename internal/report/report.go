// Package report holds the aggregate analysis result handed to presentation
// layers and the explainer.
package report

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"scholarcheck/internal/aidetect"
	"scholarcheck/internal/citation"
	"scholarcheck/internal/eligibility"
	"scholarcheck/internal/features"
	"scholarcheck/internal/ingest"
	"scholarcheck/internal/scoring"
)

type Scores struct {
	AIScore         aidetect.Result       `json:"ai_score"`
	PlagiarismScore float64               `json:"plagiarism_score"`
	CitationScore   *citation.Result      `json:"citation_score,omitempty"`
	Final           scoring.FinalDecision `json:"final"`
	GenAIFeatures   *features.Result      `json:"genai_features,omitempty"`
}

// AnalysisReport is assembled once by the pipeline and only read afterwards.
type AnalysisReport struct {
	ID                 string              `json:"id"`
	CreatedAt          time.Time           `json:"created_at"`
	File               string              `json:"file"`
	Metadata           ingest.Metadata     `json:"metadata"`
	Sections           ingest.Sections     `json:"sections"`
	Scores             Scores              `json:"scores"`
	Matches            []string            `json:"matches"`
	Eligibility        *eligibility.Result `json:"eligibility,omitempty"`
	ChatbotExplanation string              `json:"chatbot_explanation,omitempty"`
	Summary            string              `json:"summary"`
}

func (r *AnalysisReport) Decision() scoring.Decision {
	return r.Scores.Final.Decision
}

// Summary renders the one-line report summary.
func Summary(s Scores) string {
	cit := 0.0
	if s.CitationScore != nil {
		cit = s.CitationScore.Score
	}
	return fmt.Sprintf("AI score %v, Plagiarism %v, Citations %v, Decision: %s",
		s.AIScore.Score, s.PlagiarismScore, cit, s.Final.Decision)
}

func Save(path string, r *AnalysisReport) error {
	raw, err := json.MarshalIndent(r, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal report: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("create report dir: %w", err)
	}
	if err := os.WriteFile(path, raw, 0o644); err != nil {
		return fmt.Errorf("write report: %w", err)
	}
	return nil
}

func Load(path string) (*AnalysisReport, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read report: %w", err)
	}
	return Decode(raw)
}

func Decode(raw []byte) (*AnalysisReport, error) {
	var r AnalysisReport
	if err := json.Unmarshal(raw, &r); err != nil {
		return nil, fmt.Errorf("decode report: %w", err)
	}
	return &r, nil
}
