package aidetect

import (
	"context"
	"errors"
	"fmt"
	"math"
	"regexp"
	"strings"
	"time"
)

const (
	MethodModel     = "model"
	MethodHeuristic = "heuristic"
)

// ErrClassifierUnavailable is returned by the Unavailable classifier.
var ErrClassifierUnavailable = errors.New("classifier unavailable")

type Metrics struct {
	Perplexity     int     `json:"perplexity"`
	Burstiness     int     `json:"burstiness"`
	AvgSentenceLen float64 `json:"avg_sentence_len"`
	Method         string  `json:"method"`
}

type Result struct {
	Score   float64 `json:"score"`
	Metrics Metrics `json:"metrics"`
}

type Config struct {
	ClassifierTimeout time.Duration
}

// Classifier is an optional trained model returning P(ai) for a text.
type Classifier interface {
	Available() bool
	PredictAI(ctx context.Context, text string) (float64, error)
}

type Logger interface {
	Log(level, stage, message, detail string)
}

type unavailable struct{}

func (unavailable) Available() bool { return false }

func (unavailable) PredictAI(context.Context, string) (float64, error) {
	return 0, ErrClassifierUnavailable
}

// Unavailable is the absent classifier; detection runs on heuristics only.
var Unavailable Classifier = unavailable{}

func DefaultConfig() Config {
	return Config{ClassifierTimeout: 5 * time.Second}
}

type Detector struct {
	cfg        Config
	classifier Classifier
	logger     Logger
}

func New(cfg Config, classifier Classifier, logger Logger) *Detector {
	if classifier == nil {
		classifier = Unavailable
	}
	if cfg.ClassifierTimeout <= 0 {
		cfg.ClassifierTimeout = DefaultConfig().ClassifierTimeout
	}
	return &Detector{cfg: cfg, classifier: classifier, logger: logger}
}

var sentenceSplit = regexp.MustCompile(`[.!?]+`)

// Detect scores text with the classifier when one is available and the
// sentence-length/vocabulary heuristic otherwise. Classifier errors never
// escape; the heuristic score is used instead.
func (d *Detector) Detect(ctx context.Context, text string) Result {
	zero := Result{Metrics: Metrics{Method: MethodHeuristic}}
	if strings.TrimSpace(text) == "" {
		return zero
	}

	sentences := splitSentences(text)
	words := strings.Fields(text)
	if len(sentences) == 0 || len(words) == 0 {
		return zero
	}

	lengths := make([]float64, len(sentences))
	for i, s := range sentences {
		lengths[i] = float64(len(strings.Fields(s)))
	}
	avgLen, _ := meanStd(lengths)
	ratio := uniqueRatio(words)
	heuristic := clamp01((avgLen / 30.0) * (1.0 - ratio))

	score, method := heuristic, MethodHeuristic
	if d.classifier.Available() {
		if p, err := d.predict(ctx, text); err != nil {
			d.log("WARN", "classifier failed, using heuristic score", fmt.Sprintf("type=%s err=%v", classifyToolErr(err), err))
		} else {
			score, method = p, MethodModel
		}
	}

	d.log("ANALYSIS", "AI detection finished", fmt.Sprintf("method=%s score=%.3f sentences=%d words=%d", method, score, len(sentences), len(words)))
	return Result{
		Score: round(score, 3),
		Metrics: Metrics{
			Perplexity:     int((1.0-score)*100) + 10,
			Burstiness:     int(ratio * 100),
			AvgSentenceLen: round(avgLen, 1),
			Method:         method,
		},
	}
}

func (d *Detector) predict(ctx context.Context, text string) (float64, error) {
	ctx, cancel := context.WithTimeout(ctx, d.cfg.ClassifierTimeout)
	defer cancel()
	p, err := d.classifier.PredictAI(ctx, text)
	if err != nil {
		return 0, err
	}
	if math.IsNaN(p) || math.IsInf(p, 0) {
		return 0, fmt.Errorf("classifier returned non-finite probability %v", p)
	}
	return clamp01(p), nil
}

func (d *Detector) log(level, message, detail string) {
	if d.logger != nil {
		d.logger.Log(level, "AI", message, detail)
	}
}

func splitSentences(text string) []string {
	parts := sentenceSplit.Split(text, -1)
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}

func uniqueRatio(words []string) float64 {
	seen := make(map[string]struct{}, len(words))
	for _, w := range words {
		seen[w] = struct{}{}
	}
	return float64(len(seen)) / float64(max(1, len(words)))
}

func meanStd(values []float64) (mean, sd float64) {
	if len(values) == 0 {
		return 0, 0
	}
	for _, v := range values {
		mean += v
	}
	mean /= float64(len(values))
	if len(values) == 1 {
		return mean, 0
	}
	variance := 0.0
	for _, v := range values {
		d := v - mean
		variance += d * d
	}
	variance /= float64(len(values))
	return mean, math.Sqrt(variance)
}

func classifyToolErr(err error) string {
	if err == nil {
		return "exception"
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return "timeout"
	}
	msg := strings.ToLower(err.Error())
	switch {
	case strings.Contains(msg, "timeout"), strings.Contains(msg, "deadline exceeded"):
		return "timeout"
	case strings.Contains(msg, "connection refused"), strings.Contains(msg, "unavailable"):
		return "tool_unavailable"
	default:
		return "exception"
	}
}

func clamp01(v float64) float64 {
	if v < 0 {
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
