package pipeline

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/rs/zerolog"

	"scholarcheck/internal/aidetect"
	"scholarcheck/internal/scoring"
)

type memCorpus []string

func (c memCorpus) Documents(context.Context) ([]string, error) { return c, nil }

type fixedClassifier float64

func (fixedClassifier) Available() bool { return true }

func (f fixedClassifier) PredictAI(context.Context, string) (float64, error) { return float64(f), nil }

const paper = "Abstract: We study soil moisture in dry regions. Introduction " +
	"Soil moisture varies strongly across seasons and sites. We measured twelve plots over two years (Smith, 2019). " +
	"Short runs failed. The longer campaign gave stable readings that matched earlier field reports from the valley. " +
	"References Smith, J. (2019). Soil notes. Journal of Dry Land."

func TestAnalyzeTextBuildsReport(t *testing.T) {
	a := NewAnalyzer(nil, memCorpus{}, DefaultOptions(), zerolog.Nop())
	r := a.AnalyzeText(context.Background(), "paper.txt", paper, nil)

	if r.ID == "" {
		t.Fatal("expected a report id")
	}
	if r.Sections.Abstract != "We study soil moisture in dry regions." {
		t.Fatalf("unexpected abstract %q", r.Sections.Abstract)
	}
	if !strings.HasPrefix(r.Sections.References, "Smith, J.") {
		t.Fatalf("unexpected references %q", r.Sections.References)
	}
	if r.Scores.AIScore.Metrics.Method != aidetect.MethodHeuristic {
		t.Fatalf("expected heuristic method, got %s", r.Scores.AIScore.Metrics.Method)
	}
	if r.Scores.PlagiarismScore != 0 || len(r.Matches) != 0 || r.Matches == nil {
		t.Fatalf("expected no plagiarism, got %v %v", r.Scores.PlagiarismScore, r.Matches)
	}
	if r.Scores.GenAIFeatures == nil || r.Eligibility == nil || r.ChatbotExplanation == "" {
		t.Fatal("expected optional sections to be filled")
	}
	if r.Scores.CitationScore == nil || r.Scores.CitationScore.Count != 1 {
		t.Fatalf("expected one citation, got %+v", r.Scores.CitationScore)
	}
	want := scoring.NewAggregator(false).Aggregate(r.Scores.AIScore.Score, 0, r.Scores.CitationScore.Score)
	if r.Scores.Final != want {
		t.Fatalf("expected %+v, got %+v", want, r.Scores.Final)
	}
	if !strings.HasSuffix(r.Summary, "Decision: "+string(want.Decision)) {
		t.Fatalf("unexpected summary %q", r.Summary)
	}
}

func TestAnalyzeTextOptionalSectionsOff(t *testing.T) {
	a := NewAnalyzer(nil, memCorpus{}, Options{Workers: 1}, zerolog.Nop())
	r := a.AnalyzeText(context.Background(), "paper.txt", paper, nil)
	if r.Scores.GenAIFeatures != nil || r.Eligibility != nil || r.ChatbotExplanation != "" {
		t.Fatalf("expected optional sections to be omitted, got %+v", r)
	}
	if r.Metadata == nil {
		t.Fatal("expected empty metadata map")
	}
}

func TestAnalyzeTextUsesClassifierAndCorpus(t *testing.T) {
	det := aidetect.New(aidetect.DefaultConfig(), fixedClassifier(0.95), nil)
	body := "Soil moisture varies strongly across seasons and sites in the valley floor"
	a := NewAnalyzer(det, memCorpus{"notes\n" + body + " and beyond."}, DefaultOptions(), zerolog.Nop())

	r := a.AnalyzeText(context.Background(), "copy.txt", body+".", nil)
	if r.Scores.AIScore.Metrics.Method != aidetect.MethodModel || r.Scores.AIScore.Score != 0.95 {
		t.Fatalf("expected model score, got %+v", r.Scores.AIScore)
	}
	if r.Scores.PlagiarismScore != 1 || len(r.Matches) != 1 {
		t.Fatalf("expected full plagiarism, got %v %v", r.Scores.PlagiarismScore, r.Matches)
	}
	if r.Decision() != scoring.Reject {
		t.Fatalf("expected reject, got %s", r.Decision())
	}
	if r.Eligibility.IsEligible {
		t.Fatal("expected ineligible paper")
	}
}

func TestAnalyzeFileExtractionFailure(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "scan.png")
	if err := os.WriteFile(path, []byte{0x89, 'P', 'N', 'G'}, 0o644); err != nil {
		t.Fatal(err)
	}
	a := NewAnalyzer(nil, memCorpus{}, DefaultOptions(), zerolog.Nop())
	r, err := a.AnalyzeFile(context.Background(), path)
	if r != nil || !errors.Is(err, ErrExtractionFailed) {
		t.Fatalf("expected extraction failure, got %v %v", r, err)
	}
	var ee *ExtractionError
	if !errors.As(err, &ee) || !strings.HasPrefix(ee.Detail, "Error: ") || ee.Cause == nil {
		t.Fatalf("expected error-marked detail, got %v", err)
	}
}

func TestAnalyzeFileTextStartingWithError(t *testing.T) {
	path := filepath.Join(t.TempDir(), "codes.txt")
	text := "Error-correcting codes are central to reliable storage. They add redundancy so that flipped bits can be repaired."
	if err := os.WriteFile(path, []byte(text), 0o644); err != nil {
		t.Fatal(err)
	}
	a := NewAnalyzer(nil, memCorpus{}, DefaultOptions(), zerolog.Nop())
	r, err := a.AnalyzeFile(context.Background(), path)
	if err != nil {
		t.Fatalf("expected a report for a paper starting with Error, got %v", err)
	}
	if !strings.HasPrefix(r.Sections.Body, "Error-correcting codes") {
		t.Fatalf("unexpected body %q", r.Sections.Body)
	}
}

func TestAnalyzeFileText(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "paper.txt")
	if err := os.WriteFile(path, []byte(paper), 0o644); err != nil {
		t.Fatal(err)
	}
	a := NewAnalyzer(nil, memCorpus{}, DefaultOptions(), zerolog.Nop())
	r, err := a.AnalyzeFile(context.Background(), path)
	if err != nil {
		t.Fatal(err)
	}
	if r.File != path || r.Metadata["format"] != "text" {
		t.Fatalf("unexpected report file/metadata %q %v", r.File, r.Metadata)
	}
}
