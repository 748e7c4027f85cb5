package acceptance

import (
	"errors"
	"fmt"
	"strings"
	"unicode"
)

// GenerateTests renders a feature as a Go test file: one stub function
// per scenario, carrying the steps as comments and failing until a
// developer fills in the body.
func GenerateTests(feature *Feature) (string, error) {
	if feature == nil {
		return "", errors.New("nil feature")
	}

	var b strings.Builder
	fmt.Fprintf(&b, "// Code generated from %s; DO NOT EDIT.\n", feature.SourceFile)
	b.WriteString("\npackage acceptance_test\n")
	if len(feature.Scenarios) == 0 {
		return b.String(), nil
	}
	b.WriteString("\nimport \"testing\"\n")

	seen := make(map[string]int)
	for _, scenario := range feature.Scenarios {
		b.WriteString("\n")
		fmt.Fprintf(&b, "// %s\n", scenario.Description)
		fmt.Fprintf(&b, "func %s(t *testing.T) {\n", testName(scenario.Description, seen))
		for _, step := range scenario.Steps {
			fmt.Fprintf(&b, "\t// %s %s\n", step.Keyword, step.Text)
		}
		fmt.Fprintf(&b, "\tt.Fatal(%q)\n", "scenario not implemented: "+scenario.Description)
		b.WriteString("}\n")
	}

	return b.String(), nil
}

// testName converts a scenario description into a unique Go test
// function name, keeping letters and digits and capitalizing the start
// of each word.
func testName(description string, seen map[string]int) string {
	var b strings.Builder
	b.WriteString("Test")
	upper := true
	for _, r := range description {
		if !unicode.IsLetter(r) && !unicode.IsDigit(r) {
			upper = true
			continue
		}
		if upper {
			r = unicode.ToUpper(r)
			upper = false
		}
		b.WriteRune(r)
	}

	name := b.String()
	seen[name]++
	if n := seen[name]; n > 1 {
		name = fmt.Sprintf("%s%d", name, n)
	}
	return name
}
