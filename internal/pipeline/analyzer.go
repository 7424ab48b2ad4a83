package pipeline

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"scholarcheck/internal/aidetect"
	"scholarcheck/internal/citation"
	"scholarcheck/internal/eligibility"
	"scholarcheck/internal/explainer"
	"scholarcheck/internal/features"
	"scholarcheck/internal/ingest"
	"scholarcheck/internal/plagiarism"
	"scholarcheck/internal/report"
	"scholarcheck/internal/scoring"
)

var ErrExtractionFailed = errors.New("text extraction failed")

// ExtractionError carries the extractor's error-marked text and cause.
type ExtractionError struct {
	Path   string
	Detail string
	Cause  error
}

func (e *ExtractionError) Error() string { return e.Detail }

func (e *ExtractionError) Unwrap() error { return ErrExtractionFailed }

type Options struct {
	GenAIFeatures     bool
	Eligibility       bool
	Explanation       bool
	CitationWeighting bool
	Workers           int
}

func DefaultOptions() Options {
	return Options{GenAIFeatures: true, Eligibility: true, Explanation: true}
}

// Analyzer runs the detectors over one document and assembles the report.
type Analyzer struct {
	detector   *aidetect.Detector
	corpus     plagiarism.Corpus
	aggregator scoring.Aggregator
	opts       Options
	log        zerolog.Logger
	now        func() time.Time
}

func NewAnalyzer(detector *aidetect.Detector, corpus plagiarism.Corpus, opts Options, log zerolog.Logger) *Analyzer {
	if detector == nil {
		detector = aidetect.New(aidetect.DefaultConfig(), aidetect.Unavailable, nil)
	}
	return &Analyzer{
		detector:   detector,
		corpus:     corpus,
		aggregator: scoring.NewAggregator(opts.CitationWeighting),
		opts:       opts,
		log:        log.With().Str("component", "pipeline").Logger(),
		now:        time.Now,
	}
}

// AnalyzeFile extracts path and analyses it. The only error is an *ExtractionError.
func (a *Analyzer) AnalyzeFile(ctx context.Context, path string) (*report.AnalysisReport, error) {
	x := ingest.Extract(path)
	if x.Failed() {
		a.log.Warn().Str("file", path).Err(x.Err).Msg("extraction failed")
		return nil, &ExtractionError{Path: path, Detail: x.Text, Cause: x.Err}
	}
	return a.AnalyzeText(ctx, path, x.Text, x.Metadata), nil
}

// AnalyzeText preprocesses text and runs the detectors concurrently over the body.
func (a *Analyzer) AnalyzeText(ctx context.Context, file, text string, meta ingest.Metadata) *report.AnalysisReport {
	sections := ingest.Preprocess(text)
	body := sections.Body

	var (
		ai    aidetect.Result
		genai features.Result
		plag  plagiarism.Result
		cit   citation.Result
	)
	stages := []Stage{
		{Name: "ai_detection", Run: func(ctx context.Context) error {
			ai = a.detector.Detect(ctx, body)
			return nil
		}},
		{Name: "plagiarism", Run: func(ctx context.Context) error {
			plag = plagiarism.Check(ctx, body, a.corpus, a.log)
			return nil
		}},
		{Name: "citation", Run: func(context.Context) error {
			cit = citation.Analyze(body)
			return nil
		}},
	}
	if a.opts.GenAIFeatures {
		stages = append(stages, Stage{Name: "genai_features", Run: func(context.Context) error {
			genai = features.Extract(body)
			return nil
		}})
	}

	errs, timings := RunStages(ctx, stages, a.opts.Workers)
	for _, err := range errs {
		a.log.Error().Err(err).Msg("analysis stage failed, using neutral result")
	}
	if plag.Matches == nil {
		plag.Matches = []string{}
	}
	if ai.Metrics.Method == "" {
		ai.Metrics.Method = aidetect.MethodHeuristic
	}

	scores := report.Scores{
		AIScore:         ai,
		PlagiarismScore: plag.Score,
		CitationScore:   &cit,
		Final:           a.aggregator.Aggregate(ai.Score, plag.Score, cit.Score),
	}
	if a.opts.GenAIFeatures {
		scores.GenAIFeatures = &genai
	}
	if meta == nil {
		meta = ingest.Metadata{}
	}

	r := &report.AnalysisReport{
		ID:        uuid.NewString(),
		CreatedAt: a.now().UTC(),
		File:      file,
		Metadata:  meta,
		Sections:  sections,
		Scores:    scores,
		Matches:   plag.Matches,
		Summary:   report.Summary(scores),
	}
	if a.opts.Eligibility {
		res := eligibility.Evaluate(ai.Score, plag.Score, cit, body)
		r.Eligibility = &res
	}
	if a.opts.Explanation {
		r.ChatbotExplanation = explainer.Explain(r)
	}

	evt := a.log.Info().Str("id", r.ID).Str("file", file).
		Float64("ai", ai.Score).Float64("plagiarism", plag.Score).Float64("citation", cit.Score).
		Float64("final", r.Scores.Final.FinalProbability).Str("decision", string(r.Decision()))
	for _, t := range timings {
		evt = evt.Dur(t.Stage, t.Duration)
	}
	evt.Msg("analysis complete")
	return r
}
