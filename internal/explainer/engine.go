// Package explainer is the rule-based assistant that narrates analysis
// reports. It explains results only and refuses to produce or disguise content.
package explainer

import (
	"fmt"
	"strings"
	"time"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"scholarcheck/internal/features"
	"scholarcheck/internal/report"
	"scholarcheck/internal/scoring"
)

type Response struct {
	Message  string           `json:"message"`
	Type     string           `json:"type"`
	Intent   Intent           `json:"intent"`
	Feature  string           `json:"feature,omitempty"`
	Decision scoring.Decision `json:"decision,omitempty"`
	Data     *ScoreData       `json:"data,omitempty"`
}

type ScoreData struct {
	AIScore  float64          `json:"ai_score"`
	Decision scoring.Decision `json:"decision"`
}

type Turn struct {
	Timestamp   time.Time `json:"timestamp"`
	UserMessage string    `json:"user_message"`
	Intent      Intent    `json:"intent"`
	Response    string    `json:"response"`
}

// Context is one conversation's state. It has a single writer; Sessions
// serialises access when contexts are shared across requests.
type Context struct {
	LastAnalysis *report.AnalysisReport
	History      []Turn
}

type Engine struct {
	now func() time.Time
}

func NewEngine() *Engine {
	return &Engine{now: time.Now}
}

// Respond classifies message, answers it from c.LastAnalysis where needed and
// appends the turn to c.History.
func (e *Engine) Respond(c *Context, message string) Response {
	if c == nil {
		c = &Context{}
	}
	intent := Classify(message)
	resp := e.generate(intent, message, c.LastAnalysis)
	c.History = append(c.History, Turn{
		Timestamp:   e.now(),
		UserMessage: message,
		Intent:      intent,
		Response:    resp.Message,
	})
	return resp
}

func (e *Engine) generate(intent Intent, message string, analysis *report.AnalysisReport) Response {
	switch intent {
	case IntentUnethical:
		return Response{Message: refusalMessage, Type: "ethical_warning", Intent: intent}
	case IntentGreeting:
		return Response{Message: greetingMessage, Type: "greeting", Intent: intent}
	case IntentThanks:
		return Response{Message: thanksMessage, Type: "acknowledgment", Intent: intent}
	case IntentHelp:
		return Response{Message: helpMessage, Type: "help", Intent: intent}
	case IntentExplainScore:
		return explainScore(analysis)
	case IntentExplainFeature:
		return explainFeature(message, analysis)
	case IntentImproveWriting:
		return Response{Message: writingTipsMessage, Type: "writing_tips", Intent: intent}
	case IntentMethodology:
		return Response{Message: methodologyMessage, Type: "methodology", Intent: intent}
	case IntentDecision:
		return explainDecision(analysis)
	default:
		return Response{Message: clarificationMessage, Type: "clarification", Intent: IntentGeneralQuery}
	}
}

func explainScore(analysis *report.AnalysisReport) Response {
	if analysis == nil {
		return Response{Message: noContextMessage, Type: "no_context", Intent: IntentExplainScore}
	}
	ai := analysis.Scores.AIScore
	decision := analysis.Decision()

	var b strings.Builder
	b.WriteString("📊 **Analysis Summary**\n\n")
	fmt.Fprintf(&b, "**AI Generation Score:** %s\n", percent(ai.Score))
	fmt.Fprintf(&b, "**Decision:** %s\n\n", decision)

	b.WriteString("**Key Metrics:**\n")
	fmt.Fprintf(&b, "• Perplexity: %d%%\n", ai.Metrics.Perplexity)
	fmt.Fprintf(&b, "• Burstiness: %d%%\n", ai.Metrics.Burstiness)
	fmt.Fprintf(&b, "• Method: %s\n\n", ai.Metrics.Method)

	if genai := analysis.Scores.GenAIFeatures; genai != nil && len(genai.Features) > 0 {
		b.WriteString("**GenAI Pattern Analysis:**\n")
		title := cases.Title(language.English)
		for _, name := range features.Names() {
			fs, ok := genai.Features[name]
			if !ok {
				continue
			}
			fmt.Fprintf(&b, "• %s: %s (%s)\n", title.String(strings.ReplaceAll(name, "_", " ")), level(fs.Score), percent(fs.Score))
		}
	}

	fmt.Fprintf(&b, "\n**What this means:**\n%s", kb.decision(decision))
	return Response{
		Message: b.String(),
		Type:    "score_explanation",
		Intent:  IntentExplainScore,
		Data:    &ScoreData{AIScore: ai.Score, Decision: decision},
	}
}

func explainFeature(message string, analysis *report.AnalysisReport) Response {
	info, ok := kb.matchFeature(message)
	if !ok {
		var b strings.Builder
		b.WriteString("I can explain these detection features:\n\n")
		for _, f := range kb.Features {
			fmt.Fprintf(&b, "• **%s** - %s\n", f.Menu, f.Summary)
		}
		b.WriteString("\nWhich one would you like to know more about?")
		return Response{Message: b.String(), Type: "feature_list", Intent: IntentExplainFeature}
	}

	msg := fmt.Sprintf("**%s**\n\n%s", info.Name, info.Description)
	if analysis != nil && analysis.Scores.GenAIFeatures != nil {
		if fs, found := analysis.Scores.GenAIFeatures.Features[info.Key]; found {
			meaning := info.Low
			if fs.Score > 0.5 {
				meaning = info.High
			}
			msg += fmt.Sprintf("\n\n**Your Score:** %s\n%s", percent(fs.Score), meaning)
		}
	}
	return Response{Message: msg, Type: "feature_explanation", Intent: IntentExplainFeature, Feature: info.Key}
}

func explainDecision(analysis *report.AnalysisReport) Response {
	if analysis == nil {
		msg := "To explain a decision, I need an analysis result. Please upload a " +
			"paper for analysis first.\n\n" +
			"In general, our decisions mean:\n\n" +
			fmt.Sprintf("**Accept:** %s\n\n", kb.decision(scoring.Accept)) +
			fmt.Sprintf("**Review Needed:** %s\n\n", kb.decision(scoring.ReviewNeeded)) +
			fmt.Sprintf("**Reject:** %s", kb.decision(scoring.Reject))
		return Response{Message: msg, Type: "decision_general", Intent: IntentDecision}
	}

	decision := analysis.Decision()
	var b strings.Builder
	fmt.Fprintf(&b, "**Your Paper's Decision: %s**\n\n%s", decision, kb.decision(decision))
	if analysis.Eligibility != nil && len(analysis.Eligibility.Reasons) > 0 {
		b.WriteString("\n\n**Specific Concerns:**\n")
		for _, r := range analysis.Eligibility.Reasons {
			fmt.Fprintf(&b, "• %s\n", r)
		}
	}
	b.WriteString(nextStepsMessage)
	return Response{Message: b.String(), Type: "decision_explanation", Intent: IntentDecision, Decision: decision}
}

func level(score float64) string {
	switch {
	case score > 0.6:
		return "High"
	case score > 0.3:
		return "Moderate"
	default:
		return "Low"
	}
}

func percent(v float64) string {
	return fmt.Sprintf("%.1f%%", v*100)
}
