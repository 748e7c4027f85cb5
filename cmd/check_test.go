package cmd

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"strings"
	"testing"
)

// mockCheckRunner returns canned findings.
type mockCheckRunner struct {
	result *CheckResult
	err    error
	called bool
}

func (m *mockCheckRunner) Check(_ context.Context) (*CheckResult, error) {
	m.called = true
	if m.err != nil {
		return nil, m.err
	}
	return m.result, nil
}

func execCheck(t *testing.T, runner CheckRunner, args ...string) (*bytes.Buffer, *bytes.Buffer, error) {
	t.Helper()
	root := NewRootCmd()
	root.AddCommand(NewCheckCmd(runner))
	stdout := new(bytes.Buffer)
	stderr := new(bytes.Buffer)
	root.SetOut(stdout)
	root.SetErr(stderr)
	root.SetArgs(args)
	err := root.Execute()
	return stdout, stderr, err
}

func sampleFindings() []CheckFinding {
	return []CheckFinding{
		{
			Type:     FindingMissingFile,
			Severity: SeverityError,
			Key:      "a1b2c3d4",
			Path:     "gone.py",
			Line:     2,
			Message:  "file gone.py not found",
		},
		{
			Type:     FindingLineDrift,
			Severity: SeverityWarning,
			Key:      "deadbeef",
			Path:     "src/app.py",
			Line:     5,
			Message:  "anchor deadbeef recorded at src/app.py:5 but found at line 9",
		},
	}
}

func TestCheckCmd_CleanLedger(t *testing.T) {
	runner := &mockCheckRunner{result: &CheckResult{Checked: 3}}

	stdout, _, err := execCheck(t, runner, "check")

	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if stdout.Len() > 0 {
		t.Errorf("stdout = %q, want empty for a clean check", stdout.String())
	}
}

func TestCheckCmd_FindingsReturnError(t *testing.T) {
	runner := &mockCheckRunner{result: &CheckResult{Findings: sampleFindings(), Checked: 2}}

	_, _, err := execCheck(t, runner, "check")

	if err == nil {
		t.Fatal("expected FindingsDetectedError")
	}
	var findings *FindingsDetectedError
	if !errors.As(err, &findings) {
		t.Fatalf("error = %T, want *FindingsDetectedError", err)
	}
	if findings.Errors != 1 || findings.Warnings != 1 {
		t.Errorf("counts = %d errors, %d warnings, want 1 and 1", findings.Errors, findings.Warnings)
	}
	if ExitCodeFromError(err) != 2 {
		t.Errorf("exit code = %d, want 2", ExitCodeFromError(err))
	}
}

func TestCheckCmd_HumanOutput(t *testing.T) {
	runner := &mockCheckRunner{result: &CheckResult{Findings: sampleFindings(), Checked: 2}}

	stdout, _, _ := execCheck(t, runner, "check")

	want := "gone.py [error] missing_file: file gone.py not found\n" +
		"src/app.py [warning] line_drift: anchor deadbeef recorded at src/app.py:5 but found at line 9\n" +
		"\n1 error(s), 1 warning(s)\n"
	if stdout.String() != want {
		t.Errorf("stdout = %q, want %q", stdout.String(), want)
	}
}

func TestCheckCmd_JSONOutput(t *testing.T) {
	runner := &mockCheckRunner{result: &CheckResult{Findings: sampleFindings(), Checked: 2}}

	stdout, _, _ := execCheck(t, runner, "check", "--json")

	var output checkJSONResponse
	if jsonErr := json.Unmarshal(stdout.Bytes(), &output); jsonErr != nil {
		t.Fatalf("invalid JSON: %v\nraw: %s", jsonErr, stdout.String())
	}
	if len(output.Findings) != 2 {
		t.Fatalf("findings = %d, want 2", len(output.Findings))
	}
	if output.Findings[0].Type != FindingMissingFile {
		t.Errorf("first type = %q, want %q", output.Findings[0].Type, FindingMissingFile)
	}
	if output.Findings[0].Key != "a1b2c3d4" {
		t.Errorf("first key = %q, want %q", output.Findings[0].Key, "a1b2c3d4")
	}
	if output.Summary.Errors != 1 || output.Summary.Warnings != 1 {
		t.Errorf("summary = %+v, want 1 error and 1 warning", output.Summary)
	}
	if output.Checked != 2 {
		t.Errorf("checked = %d, want 2", output.Checked)
	}
}

func TestCheckCmd_JSONOutputEmptyFindingsIsArray(t *testing.T) {
	runner := &mockCheckRunner{result: &CheckResult{Checked: 1}}

	stdout, _, err := execCheck(t, runner, "check", "--json")

	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	var output map[string]interface{}
	if jsonErr := json.Unmarshal(stdout.Bytes(), &output); jsonErr != nil {
		t.Fatalf("invalid JSON: %v\nraw: %s", jsonErr, stdout.String())
	}
	if _, ok := output["findings"].([]interface{}); !ok {
		t.Fatalf("findings = %v, want a JSON array, not null", output["findings"])
	}
}

func TestCheckCmd_ReinitializedWarningOnStderr(t *testing.T) {
	runner := &mockCheckRunner{result: &CheckResult{LedgerReinitialized: true}}

	stdout, stderr, err := execCheck(t, runner, "check")

	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if stderr.String() != "Invalid anchors.json; reinitializing.\n" {
		t.Errorf("stderr = %q, want the reinitialization warning", stderr.String())
	}
	if stdout.Len() > 0 {
		t.Errorf("stdout = %q, want empty", stdout.String())
	}
}

func TestCheckCmd_JSONCarriesReinitializedFlag(t *testing.T) {
	runner := &mockCheckRunner{result: &CheckResult{LedgerReinitialized: true}}

	stdout, stderr, err := execCheck(t, runner, "check", "--json")

	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if stderr.Len() > 0 {
		t.Errorf("stderr = %q, want empty in JSON mode", stderr.String())
	}

	var output checkJSONResponse
	if jsonErr := json.Unmarshal(stdout.Bytes(), &output); jsonErr != nil {
		t.Fatalf("invalid JSON: %v\nraw: %s", jsonErr, stdout.String())
	}
	if !output.LedgerReinitialized {
		t.Error("ledger_reinitialized should be true")
	}
}

func TestCheckCmd_ErrorPropagates(t *testing.T) {
	runner := &mockCheckRunner{err: errors.New("failed to read file src/app.py")}

	_, _, err := execCheck(t, runner, "check")

	if err == nil {
		t.Fatal("expected error to propagate")
	}
	if !strings.Contains(err.Error(), "failed to read file") {
		t.Errorf("error = %q, want the underlying failure", err.Error())
	}
}

func TestFindingsDetectedError_Message(t *testing.T) {
	err := &FindingsDetectedError{Errors: 2, Warnings: 1}
	want := "check found 2 errors, 1 warnings"
	if err.Error() != want {
		t.Errorf("Error() = %q, want %q", err.Error(), want)
	}
}

func TestCountBySeverity(t *testing.T) {
	errCount, warnCount := countBySeverity(sampleFindings())
	if errCount != 1 || warnCount != 1 {
		t.Errorf("counts = %d, %d, want 1, 1", errCount, warnCount)
	}

	errCount, warnCount = countBySeverity(nil)
	if errCount != 0 || warnCount != 0 {
		t.Errorf("counts for nil = %d, %d, want 0, 0", errCount, warnCount)
	}
}
