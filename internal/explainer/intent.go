package explainer

import (
	"regexp"
	"strings"
)

type Intent string

const (
	IntentUnethical      Intent = "unethical_request"
	IntentGreeting       Intent = "greeting"
	IntentThanks         Intent = "thanks"
	IntentHelp           Intent = "help"
	IntentExplainScore   Intent = "explain_score"
	IntentExplainFeature Intent = "explain_feature"
	IntentImproveWriting Intent = "improve_writing"
	IntentMethodology    Intent = "methodology"
	IntentDecision       Intent = "decision"
	IntentGeneralQuery   Intent = "general_query"
)

type rule struct {
	intent   Intent
	patterns []*regexp.Regexp
}

func compile(intent Intent, patterns ...string) rule {
	r := rule{intent: intent}
	for _, p := range patterns {
		r.patterns = append(r.patterns, regexp.MustCompile(p))
	}
	return r
}

// Evaluated top to bottom against the lower-cased message; first match wins.
// The refusal rule must stay first.
var rules = []rule{
	compile(IntentUnethical,
		`(generate|write|create).*(paper|essay|content|text)`,
		`(bypass|avoid|trick|fool).*(detection|system)`,
		`(make|help).*(undetectable|pass)`,
	),
	compile(IntentGreeting,
		`^(hi|hello|hey|greetings)`,
		`(how are you|what's up)`,
	),
	compile(IntentThanks,
		`(thank|thanks|appreciate)`,
	),
	compile(IntentHelp,
		`(help|assist|support)`,
		`(what can you|can you help)`,
	),
	compile(IntentExplainScore,
		`(what|explain|tell me about).*(score|result|analysis)`,
		`(why|how).*(score|detected|flagged)`,
		`(mean|meaning|interpret).*(score|result|number)`,
	),
	compile(IntentExplainFeature,
		`(what is|explain|tell me about).*(perplexity|burstiness)`,
		`(what is|explain).*(gpt|gemini|claude).*(pattern|detection)`,
		`(what|explain).*(citation|hallucination)`,
		`(what|explain).*(repetition|hedging|overflow)`,
	),
	compile(IntentImproveWriting,
		`(how|can i|should i).*(improve|fix|change|rewrite)`,
		`(make|write).*(more human|less ai|better)`,
		`(tips|advice|suggestions).*(writing|improve)`,
	),
	compile(IntentMethodology,
		`(how|what).*(detect|work|algorithm|method)`,
		`(explain|tell me about).*(system|detection|process)`,
		`(what|which).*(features|patterns|indicators)`,
	),
	compile(IntentDecision,
		`(why|explain).*(accept|reject|review)`,
		`(what|mean).*(decision|recommendation|verdict)`,
		`(should i|what should).*(do|next|action)`,
	),
}

// Classify maps a user message to an intent.
func Classify(message string) Intent {
	msg := strings.ToLower(strings.TrimSpace(message))
	for _, r := range rules {
		for _, p := range r.patterns {
			if p.MatchString(msg) {
				return r.intent
			}
		}
	}
	return IntentGeneralQuery
}
