// Package plagiarism finds body sentences that appear verbatim in a
// reference corpus.
package plagiarism

import (
	"context"
	"fmt"
	"math"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/rs/zerolog"
)

// MinMatchWords is the exclusive lower bound on sentence length for a match.
const MinMatchWords = 8

var sentenceEnd = regexp.MustCompile(`[.!?]+`)

type Result struct {
	Score   float64  `json:"score"`
	Matches []string `json:"matches"`
}

// Corpus supplies the reference documents.
type Corpus interface {
	Documents(ctx context.Context) ([]string, error)
}

// DirCorpus reads every *.txt file directly under Dir.
type DirCorpus struct {
	Dir string
}

func (c DirCorpus) Documents(ctx context.Context) ([]string, error) {
	entries, err := os.ReadDir(c.Dir)
	if err != nil {
		return nil, fmt.Errorf("read corpus dir %s: %w", c.Dir, err)
	}
	docs := make([]string, 0, len(entries))
	for _, e := range entries {
		if err := ctx.Err(); err != nil {
			return docs, err
		}
		if e.IsDir() || !strings.EqualFold(filepath.Ext(e.Name()), ".txt") {
			continue
		}
		raw, err := os.ReadFile(filepath.Join(c.Dir, e.Name()))
		if err != nil {
			continue
		}
		docs = append(docs, string(raw))
	}
	return docs, nil
}

// Check scores text by the share of its long sentences found verbatim in the corpus.
// Corpus failures degrade to an empty corpus.
func Check(ctx context.Context, text string, corpus Corpus, log zerolog.Logger) Result {
	out := Result{Matches: []string{}}
	if strings.TrimSpace(text) == "" {
		return out
	}
	sentences := splitSentences(text)
	if len(sentences) == 0 {
		return out
	}

	var docs []string
	if corpus != nil {
		var err error
		docs, err = corpus.Documents(ctx)
		if err != nil {
			log.Warn().Err(err).Int("documents", len(docs)).Msg("corpus unavailable, scoring against what was read")
		}
	}
	if len(docs) == 0 {
		return out
	}

	var buf strings.Builder
	for _, d := range docs {
		buf.WriteString(d)
		buf.WriteByte('\n')
	}
	haystack := buf.String()

	for _, s := range sentences {
		if len(strings.Fields(s)) > MinMatchWords && strings.Contains(haystack, s) {
			out.Matches = append(out.Matches, s)
		}
	}
	score := math.Min(1, float64(len(out.Matches))/float64(max(1, len(sentences))))
	out.Score = math.Round(score*1000) / 1000
	log.Debug().Int("sentences", len(sentences)).Int("matches", len(out.Matches)).Int("documents", len(docs)).Msg("plagiarism check finished")
	return out
}

func splitSentences(text string) []string {
	parts := sentenceEnd.Split(text, -1)
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
