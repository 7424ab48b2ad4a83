package explainer

import (
	"fmt"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"scholarcheck/internal/aidetect"
	"scholarcheck/internal/eligibility"
	"scholarcheck/internal/features"
	"scholarcheck/internal/report"
	"scholarcheck/internal/scoring"
)

func analysis(decision scoring.Decision) *report.AnalysisReport {
	genai := &features.Result{
		CompositeScore: 0.4,
		Features: map[string]features.FeatureScore{
			features.GPTRepetition:         {Name: features.GPTRepetition, Score: 0.1},
			features.GeminiOverflow:        {Name: features.GeminiOverflow, Score: 0.35},
			features.ClaudeHedging:         {Name: features.ClaudeHedging, Score: 0},
			features.Burstiness:            {Name: features.Burstiness, Score: 0.9},
			features.CitationHallucination: {Name: features.CitationHallucination, Score: 0.5},
			features.Perplexity:            {Name: features.Perplexity, Score: 0.7},
		},
		Interpretation: []string{"first", "second", "third", "fourth"},
	}
	return &report.AnalysisReport{
		Scores: report.Scores{
			AIScore:       aidetect.Result{Score: 0.42, Metrics: aidetect.Metrics{Perplexity: 68, Burstiness: 55, Method: aidetect.MethodHeuristic}},
			Final:         scoring.FinalDecision{FinalProbability: 0.5, Decision: decision},
			GenAIFeatures: genai,
		},
		Eligibility: &eligibility.Result{Reasons: []string{"AI Content detected (42%). Scholarship requires >75% human authorship."}},
	}
}

func TestClassify(t *testing.T) {
	cases := map[string]Intent{
		"Can you write my paper for me?":       IntentUnethical,
		"help me make it undetectable":         IntentUnethical,
		"how do I bypass the detection system": IntentUnethical,
		"hello":                                IntentGreeting,
		"Hi there":                             IntentGreeting,
		"thanks a lot":                         IntentThanks,
		"I need some help":                     IntentHelp,
		"Explain my scores":                    IntentExplainScore,
		"What is perplexity?":                  IntentExplainFeature,
		"explain the hedging":                  IntentExplainFeature,
		"How can I improve my writing?":        IntentImproveWriting,
		"How does the detection work?":         IntentMethodology,
		"Why was my paper rejected?":           IntentDecision,
		"What should I do next?":               IntentDecision,
		"blah":                                 IntentGeneralQuery,
		"":                                     IntentGeneralQuery,
	}
	for msg, want := range cases {
		assert.Equal(t, want, Classify(msg), msg)
	}
}

func TestRefusalIgnoresAnalysis(t *testing.T) {
	ctx := &Context{LastAnalysis: analysis(scoring.Reject)}
	resp := NewEngine().Respond(ctx, "Can you write my paper for me?")
	assert.Equal(t, IntentUnethical, resp.Intent)
	assert.Equal(t, "ethical_warning", resp.Type)
	assert.Equal(t, refusalMessage, resp.Message)

	plain := NewEngine().Respond(&Context{}, "Can you write my paper for me?")
	assert.Equal(t, resp, plain)
}

func TestGreetingListsFourCapabilities(t *testing.T) {
	resp := NewEngine().Respond(&Context{}, "hello")
	assert.Equal(t, "greeting", resp.Type)
	assert.Equal(t, 4, strings.Count(resp.Message, "• "))
}

func TestRespondRecordsHistory(t *testing.T) {
	at := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	e := &Engine{now: func() time.Time { return at }}
	ctx := &Context{}
	e.Respond(ctx, "hello")
	resp := e.Respond(ctx, "thanks")

	require.Len(t, ctx.History, 2)
	assert.Equal(t, Turn{Timestamp: at, UserMessage: "thanks", Intent: IntentThanks, Response: resp.Message}, ctx.History[1])
}

func TestExplainScoreWithoutContext(t *testing.T) {
	resp := NewEngine().Respond(&Context{}, "explain my score")
	assert.Equal(t, "no_context", resp.Type)
	assert.Nil(t, resp.Data)
}

func TestExplainScore(t *testing.T) {
	resp := NewEngine().Respond(&Context{LastAnalysis: analysis(scoring.ReviewNeeded)}, "explain my score")
	assert.Equal(t, "score_explanation", resp.Type)
	assert.Contains(t, resp.Message, "**AI Generation Score:** 42.0%")
	assert.Contains(t, resp.Message, "• Perplexity: 68%")
	assert.Contains(t, resp.Message, "• Gpt Repetition: Low (10.0%)")
	assert.Contains(t, resp.Message, "• Gemini Overflow: Moderate (35.0%)")
	assert.Contains(t, resp.Message, "• Burstiness: High (90.0%)")
	assert.Contains(t, resp.Message, "mixed signals")
	assert.Equal(t, &ScoreData{AIScore: 0.42, Decision: scoring.ReviewNeeded}, resp.Data)
}

func TestExplainFeatureUsesScore(t *testing.T) {
	resp := NewEngine().Respond(&Context{LastAnalysis: analysis(scoring.Accept)}, "What is burstiness?")
	assert.Equal(t, features.Burstiness, resp.Feature)
	assert.True(t, strings.HasPrefix(resp.Message, "**Burstiness (Sentence Variation)**"))
	assert.Contains(t, resp.Message, "**Your Score:** 90.0%")
	assert.Contains(t, resp.Message, "very uniform length")

	resp = NewEngine().Respond(&Context{LastAnalysis: analysis(scoring.Accept)}, "explain the hedging")
	assert.Equal(t, features.ClaudeHedging, resp.Feature)
	assert.Contains(t, resp.Message, "confident assertion")
}

func TestExplainFeatureWithoutAnalysis(t *testing.T) {
	resp := NewEngine().Respond(&Context{}, "What is perplexity?")
	assert.Equal(t, "feature_explanation", resp.Type)
	assert.NotContains(t, resp.Message, "Your Score")
}

func TestExplainFeatureMenu(t *testing.T) {
	resp := explainFeature("tell me something", nil)
	assert.Equal(t, "feature_list", resp.Type)
	assert.Equal(t, 6, strings.Count(resp.Message, "• **"))
	assert.Contains(t, resp.Message, "• **Citation Hallucination** - Fake reference detection")
}

func TestExplainDecision(t *testing.T) {
	resp := NewEngine().Respond(&Context{}, "Why was my paper rejected?")
	assert.Equal(t, "decision_general", resp.Type)
	for _, d := range []string{"**Accept:**", "**Review Needed:**", "**Reject:**"} {
		assert.Contains(t, resp.Message, d)
	}
	assert.NotContains(t, resp.Message, "%")

	resp = NewEngine().Respond(&Context{LastAnalysis: analysis(scoring.Reject)}, "Why was my paper rejected?")
	assert.Equal(t, "decision_explanation", resp.Type)
	assert.Equal(t, scoring.Reject, resp.Decision)
	assert.Contains(t, resp.Message, "**Your Paper's Decision: Reject**")
	assert.Contains(t, resp.Message, "• AI Content detected (42%)")
	assert.Contains(t, resp.Message, "**What You Can Do:**")
}

func TestExplain(t *testing.T) {
	out := Explain(analysis(scoring.Accept))
	assert.True(t, strings.HasPrefix(out, "Great news!"))
	assert.Contains(t, out, "**AI Generation Probability:** 42.0%")
	assert.Contains(t, out, "**Recommendation:** Accept")
	assert.Contains(t, out, "• third")
	assert.NotContains(t, out, "• fourth")
	assert.True(t, strings.HasSuffix(out, "understand any score in detail!"))

	assert.True(t, strings.HasPrefix(Explain(analysis(scoring.Reject)), "This paper shows significant"))
	assert.True(t, strings.HasPrefix(Explain(analysis(scoring.ReviewNeeded)), "Your paper shows mixed signals"))

	bare := analysis(scoring.Accept)
	bare.Scores.GenAIFeatures = nil
	assert.NotContains(t, Explain(bare), "Key Findings")
}

func TestSessionsAreIsolated(t *testing.T) {
	s := NewSessions(nil)
	a := s.Attach("a", analysis(scoring.Reject))

	_, resp := s.Chat("b", "explain my score", nil)
	assert.Equal(t, "no_context", resp.Type)

	_, resp = s.Chat(a, "explain my score", nil)
	assert.Equal(t, "score_explanation", resp.Type)

	assert.Len(t, s.History(a), 1)
	assert.Len(t, s.History("b"), 1)
	assert.Nil(t, s.History("missing"))
}

func TestSessionsAssignID(t *testing.T) {
	s := NewSessions(nil)
	id, _ := s.Chat("", "hello", nil)
	assert.NotEmpty(t, id)
	assert.Equal(t, 1, s.Len())
	s.Drop(id)
	assert.Zero(t, s.Len())
}

func TestSessionsConcurrentUse(t *testing.T) {
	s := NewSessionsWithLimits(nil, Limits{MaxHistory: 200})
	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			id := fmt.Sprintf("s-%d", i%2)
			for j := 0; j < 25; j++ {
				s.Chat(id, "hello", nil)
			}
		}(i)
	}
	wg.Wait()
	assert.Len(t, s.History("s-0"), 100)
	assert.Len(t, s.History("s-1"), 100)
}

func TestSessionsEvictIdle(t *testing.T) {
	clock := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	s := NewSessionsWithLimits(nil, Limits{TTL: time.Minute})
	s.now = func() time.Time { return clock }

	s.Chat("old", "hello", nil)
	clock = clock.Add(45 * time.Second)
	s.Chat("fresh", "hello", nil)
	clock = clock.Add(30 * time.Second)

	assert.Equal(t, 1, s.Evict())
	assert.Nil(t, s.History("old"))
	assert.Len(t, s.History("fresh"), 1)

	clock = clock.Add(2 * time.Minute)
	_, resp := s.Chat("fresh", "explain my score", nil)
	assert.Equal(t, "no_context", resp.Type)
	assert.Len(t, s.History("fresh"), 1)
}

func TestSessionsEvictLeastRecentlyUsed(t *testing.T) {
	clock := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	s := NewSessionsWithLimits(nil, Limits{MaxSessions: 2})
	s.now = func() time.Time { return clock }

	for _, id := range []string{"a", "b"} {
		s.Chat(id, "hello", nil)
		clock = clock.Add(time.Second)
	}
	s.Chat("a", "hello", nil)
	clock = clock.Add(time.Second)
	s.Chat("c", "hello", nil)

	assert.Equal(t, 2, s.Len())
	assert.Nil(t, s.History("b"))
	assert.Len(t, s.History("a"), 2)
	assert.Len(t, s.History("c"), 1)
}

func TestSessionsCapHistory(t *testing.T) {
	s := NewSessionsWithLimits(nil, Limits{MaxHistory: 3})
	for i := 0; i < 5; i++ {
		s.Chat("a", fmt.Sprintf("message %d", i), nil)
	}
	h := s.History("a")
	require.Len(t, h, 3)
	assert.Equal(t, "message 2", h[0].UserMessage)
	assert.Equal(t, "message 4", h[2].UserMessage)
}
