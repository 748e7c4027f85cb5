// Package acceptance turns GIVEN/WHEN/THEN feature specs into Go test
// stubs for the generated acceptance suite.
package acceptance

import (
	"fmt"
	"strings"
)

// Step is one GIVEN/WHEN/THEN line of a scenario.
type Step struct {
	Keyword string
	Text    string
	Line    int
}

// Scenario is a titled sequence of steps.
type Scenario struct {
	Description string
	Steps       []Step
	Line        int
}

// Feature holds the parsed scenarios of one spec file.
type Feature struct {
	SourceFile string
	Scenarios  []Scenario
}

// stepKeywords are the recognized step openers.
var stepKeywords = []string{"GIVEN", "WHEN", "THEN", "AND"}

// ParseFeature reads scenarios from spec file content. A line starting
// with "SCENARIO:" opens a scenario; step lines open with one of GIVEN,
// WHEN, THEN, or AND. Every other line is commentary and is ignored.
func ParseFeature(sourceFile, content string) (*Feature, error) {
	feature := &Feature{SourceFile: sourceFile}

	for i, raw := range strings.Split(content, "\n") {
		line := strings.TrimSpace(raw)
		lineNo := i + 1

		if rest, ok := strings.CutPrefix(line, "SCENARIO:"); ok {
			feature.Scenarios = append(feature.Scenarios, Scenario{
				Description: strings.TrimSpace(rest),
				Line:        lineNo,
			})
			continue
		}

		keyword, text, ok := splitStep(line)
		if !ok {
			continue
		}
		if len(feature.Scenarios) == 0 {
			return nil, fmt.Errorf("%s:%d: step before first scenario", sourceFile, lineNo)
		}
		current := &feature.Scenarios[len(feature.Scenarios)-1]
		current.Steps = append(current.Steps, Step{Keyword: keyword, Text: text, Line: lineNo})
	}

	return feature, nil
}

// splitStep returns the keyword and remaining text when line opens with
// a step keyword.
func splitStep(line string) (string, string, bool) {
	for _, kw := range stepKeywords {
		if rest, ok := strings.CutPrefix(line, kw+" "); ok {
			return kw, strings.TrimSpace(rest), true
		}
	}
	return "", "", false
}
