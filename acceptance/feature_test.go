package acceptance

import (
	"strings"
	"testing"
)

const sampleSpec = `FEATURE: dropping anchors
SCENARIO: User can drop an anchor.

GIVEN a three-line Python file.

WHEN the user drops an anchor at line 2.

THEN the file gains a marker line.
`

func TestParseFeature_SingleScenario(t *testing.T) {
	feature, err := ParseFeature("specs/US1-drop-anchor.txt", sampleSpec)
	if err != nil {
		t.Fatalf("ParseFeature() error = %v", err)
	}

	if feature.SourceFile != "specs/US1-drop-anchor.txt" {
		t.Errorf("SourceFile = %q, want %q", feature.SourceFile, "specs/US1-drop-anchor.txt")
	}
	if len(feature.Scenarios) != 1 {
		t.Fatalf("scenario count = %d, want 1", len(feature.Scenarios))
	}

	scenario := feature.Scenarios[0]
	if scenario.Description != "User can drop an anchor." {
		t.Errorf("Description = %q, want %q", scenario.Description, "User can drop an anchor.")
	}
	if scenario.Line != 2 {
		t.Errorf("scenario Line = %d, want 2", scenario.Line)
	}

	wantSteps := []Step{
		{Keyword: "GIVEN", Text: "a three-line Python file.", Line: 4},
		{Keyword: "WHEN", Text: "the user drops an anchor at line 2.", Line: 6},
		{Keyword: "THEN", Text: "the file gains a marker line.", Line: 8},
	}
	if len(scenario.Steps) != len(wantSteps) {
		t.Fatalf("step count = %d, want %d", len(scenario.Steps), len(wantSteps))
	}
	for i, want := range wantSteps {
		if scenario.Steps[i] != want {
			t.Errorf("step %d = %+v, want %+v", i, scenario.Steps[i], want)
		}
	}
}

func TestParseFeature_MultipleScenarios(t *testing.T) {
	content := `SCENARIO: First scenario.
GIVEN one thing.
SCENARIO: Second scenario.
GIVEN another thing.
THEN something holds.
`
	feature, err := ParseFeature("specs/US4-ledger-lifecycle.txt", content)
	if err != nil {
		t.Fatalf("ParseFeature() error = %v", err)
	}

	if len(feature.Scenarios) != 2 {
		t.Fatalf("scenario count = %d, want 2", len(feature.Scenarios))
	}
	if got := len(feature.Scenarios[0].Steps); got != 1 {
		t.Errorf("first scenario step count = %d, want 1", got)
	}
	if got := len(feature.Scenarios[1].Steps); got != 2 {
		t.Errorf("second scenario step count = %d, want 2", got)
	}
}

func TestParseFeature_AndStepContinuesScenario(t *testing.T) {
	content := `SCENARIO: Chained preconditions.
GIVEN a ledger with one entry.
AND a target file on disk.
`
	feature, err := ParseFeature("specs/US1-drop-anchor.txt", content)
	if err != nil {
		t.Fatalf("ParseFeature() error = %v", err)
	}

	steps := feature.Scenarios[0].Steps
	if len(steps) != 2 {
		t.Fatalf("step count = %d, want 2", len(steps))
	}
	if steps[1].Keyword != "AND" {
		t.Errorf("second step keyword = %q, want %q", steps[1].Keyword, "AND")
	}
	if steps[1].Text != "a target file on disk." {
		t.Errorf("second step text = %q, want %q", steps[1].Text, "a target file on disk.")
	}
}

func TestParseFeature_IgnoresCommentaryLines(t *testing.T) {
	content := `FEATURE: something
This prose describes the feature and is not a step.

SCENARIO: Only scenario.
Notes between steps are skipped too.
GIVEN a precondition.
`
	feature, err := ParseFeature("specs/US2-comment-styles.txt", content)
	if err != nil {
		t.Fatalf("ParseFeature() error = %v", err)
	}

	if len(feature.Scenarios) != 1 {
		t.Fatalf("scenario count = %d, want 1", len(feature.Scenarios))
	}
	if got := len(feature.Scenarios[0].Steps); got != 1 {
		t.Errorf("step count = %d, want 1", got)
	}
}

func TestParseFeature_StepBeforeScenarioFails(t *testing.T) {
	content := `GIVEN a step with no scenario.
`
	_, err := ParseFeature("specs/broken.txt", content)
	if err == nil {
		t.Fatal("ParseFeature() error = nil, want error")
	}
	if !strings.Contains(err.Error(), "specs/broken.txt:1") {
		t.Errorf("error %q missing source location", err.Error())
	}
}

func TestParseFeature_EmptyContent(t *testing.T) {
	feature, err := ParseFeature("specs/empty.txt", "")
	if err != nil {
		t.Fatalf("ParseFeature() error = %v", err)
	}
	if len(feature.Scenarios) != 0 {
		t.Errorf("scenario count = %d, want 0", len(feature.Scenarios))
	}
}

func TestParsedFeatureGeneratesStubs(t *testing.T) {
	feature, err := ParseFeature("specs/US1-drop-anchor.txt", sampleSpec)
	if err != nil {
		t.Fatalf("ParseFeature() error = %v", err)
	}

	output, err := GenerateTests(feature)
	if err != nil {
		t.Fatalf("GenerateTests() error = %v", err)
	}

	if !strings.Contains(output, "func TestUserCanDropAnAnchor(") {
		t.Error("output missing test function for parsed scenario")
	}
	if !strings.Contains(output, "// GIVEN a three-line Python file.") {
		t.Error("output missing step comment from parsed scenario")
	}
}
