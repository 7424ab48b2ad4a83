package explainer

import (
	"fmt"
	"strings"

	"scholarcheck/internal/report"
	"scholarcheck/internal/scoring"
)

const maxFindings = 3

// Explain renders the proactive summary shown when an analysis completes.
func Explain(r *report.AnalysisReport) string {
	if r == nil {
		return noContextMessage
	}
	decision := r.Decision()

	var b strings.Builder
	switch decision {
	case scoring.Accept:
		b.WriteString("Great news! Your paper appears to be predominantly human-written. 📗")
	case scoring.Reject:
		b.WriteString("This paper shows significant AI-generated characteristics. 📕")
	default:
		b.WriteString("Your paper shows mixed signals and needs human review. 📙")
	}
	b.WriteString("\n\n")
	fmt.Fprintf(&b, "**AI Generation Probability:** %s\n", percent(r.Scores.AIScore.Score))
	fmt.Fprintf(&b, "**Recommendation:** %s\n\n", decision)

	if genai := r.Scores.GenAIFeatures; genai != nil && len(genai.Interpretation) > 0 {
		b.WriteString("**Key Findings:**\n")
		for i, line := range genai.Interpretation {
			if i == maxFindings {
				break
			}
			fmt.Fprintf(&b, "• %s\n", line)
		}
	}

	b.WriteString("\n💬 Ask me if you'd like to understand any score in detail!")
	return b.String()
}

// Greeting is the assistant's opening message.
func Greeting() string { return greetingMessage }
