package ingest

import (
	"regexp"
	"strings"

	"golang.org/x/text/unicode/norm"
)

var (
	abstractPattern   = regexp.MustCompile(`(?i)Abstract[:\s]*(.*?)(?:Introduction|I\.|1\.|Background|Methods)`)
	referencesPattern = regexp.MustCompile(`(?i)References[:\s]*(.*)$`)
)

// Sections is the preprocessed document: best-effort abstract, body without
// the reference list, and the reference list itself.
type Sections struct {
	Abstract   string `json:"abstract"`
	Body       string `json:"body"`
	References string `json:"references"`
}

// Preprocess collapses whitespace and splits out the abstract and references.
func Preprocess(text string) Sections {
	clean := strings.Join(strings.Fields(norm.NFC.String(text)), " ")
	if clean == "" {
		return Sections{}
	}

	s := Sections{Body: clean}
	if m := abstractPattern.FindStringSubmatch(clean); m != nil {
		s.Abstract = strings.TrimSpace(m[1])
	}
	if loc := referencesPattern.FindStringSubmatchIndex(clean); loc != nil {
		s.References = strings.TrimSpace(clean[loc[2]:loc[3]])
		s.Body = strings.TrimSpace(clean[:loc[0]])
	}
	return s
}
