package acceptance_test

import (
	"bytes"
	"encoding/json"
	"io/fs"
	"os"
	"os/exec"
	"path/filepath"
	"regexp"
	"strings"
	"testing"
)

// ledgerRelPath is where the default configuration keeps the ledger,
// relative to the working directory.
const ledgerRelPath = ".claude/memory_anchors/anchors.json"

// threeLinePy is the canonical small drop target.
const threeLinePy = "line one\nline two\nline three\n"

// generatedKeyPattern matches the 8 hex characters of a generated key.
var generatedKeyPattern = regexp.MustCompile(`^[0-9a-f]{8}$`)

// runAmk executes the amk binary and returns stdout, stderr, and exit code.
func runAmk(t *testing.T, dir string, args ...string) (string, string, int) {
	t.Helper()
	cmd := exec.Command(amkBinary, args...)
	cmd.Dir = dir
	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr
	err := cmd.Run()
	exitCode := 0
	if err != nil {
		if exitErr, ok := err.(*exec.ExitError); ok {
			exitCode = exitErr.ExitCode()
		} else {
			t.Fatalf("failed to run amk: %v", err)
		}
	}
	return stdout.String(), stderr.String(), exitCode
}

// runAmkSuccess runs amk expecting exit code 0 and returns stdout.
func runAmkSuccess(t *testing.T, dir string, args ...string) string {
	t.Helper()
	stdout, stderr, exitCode := runAmk(t, dir, args...)
	if exitCode != 0 {
		t.Fatalf("expected exit 0, got %d\nargs: %v\nstdout: %s\nstderr: %s", exitCode, args, stdout, stderr)
	}
	return stdout
}

// dropAnchor runs amk drop against file and returns the anchor key
// parsed from the confirmation line.
func dropAnchor(t *testing.T, dir, file, line, description string, extraArgs ...string) string {
	t.Helper()
	args := append([]string{"drop", file, line, description}, extraArgs...)
	return anchorKey(t, runAmkSuccess(t, dir, args...))
}

// anchorKey extracts the key from an "Anchor <key> dropped at ..."
// confirmation, skipping any warning lines before it.
func anchorKey(t *testing.T, stdout string) string {
	t.Helper()
	for _, line := range strings.Split(stdout, "\n") {
		fields := strings.Fields(line)
		if len(fields) >= 2 && fields[0] == "Anchor" {
			return fields[1]
		}
	}
	t.Fatalf("no anchor confirmation in output: %q", stdout)
	return ""
}

// requireGeneratedKey fails unless key has the generated 8-hex-char shape.
func requireGeneratedKey(t *testing.T, key string) {
	t.Helper()
	if !generatedKeyPattern.MatchString(key) {
		t.Fatalf("key %q does not look generated", key)
	}
}

// parseJSON decodes one JSON object from command output.
func parseJSON(t *testing.T, stdout string) map[string]interface{} {
	t.Helper()
	var result map[string]interface{}
	if err := json.Unmarshal([]byte(stdout), &result); err != nil {
		t.Fatalf("failed to parse JSON: %v\noutput: %s", err, stdout)
	}
	return result
}

// readLedger parses the ledger file under dir.
func readLedger(t *testing.T, dir string) map[string]interface{} {
	t.Helper()
	return parseJSON(t, readFile(t, dir, ledgerRelPath))
}

// ledgerAnchors extracts the anchors array from a parsed ledger.
func ledgerAnchors(t *testing.T, ledger map[string]interface{}) []map[string]interface{} {
	t.Helper()
	raw, ok := ledger["anchors"].([]interface{})
	if !ok {
		t.Fatal("missing anchors in ledger")
	}
	entries := make([]map[string]interface{}, len(raw))
	for i, entry := range raw {
		entries[i], ok = entry.(map[string]interface{})
		if !ok {
			t.Fatalf("anchor %d is not an object", i)
		}
	}
	return entries
}

// corruptLedger plants unparseable content at the ledger path.
func corruptLedger(t *testing.T, dir string) {
	t.Helper()
	writeFile(t, dir, ledgerRelPath, "{not json")
}

// writeConfig creates an .amk.yaml in dir.
func writeConfig(t *testing.T, dir, content string) {
	t.Helper()
	writeFile(t, dir, ".amk.yaml", content)
}

// writeFile creates a file with the given content.
func writeFile(t *testing.T, dir, name, content string) {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatalf("failed to create parent dir: %v", err)
	}
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("failed to write file: %v", err)
	}
}

// readFile reads a file's content.
func readFile(t *testing.T, dir, name string) string {
	t.Helper()
	content, err := os.ReadFile(filepath.Join(dir, name))
	if err != nil {
		t.Fatalf("failed to read file: %v", err)
	}
	return string(content)
}

// removeFile deletes a file.
func removeFile(t *testing.T, dir, name string) {
	t.Helper()
	if err := os.Remove(filepath.Join(dir, name)); err != nil {
		t.Fatalf("failed to remove file: %v", err)
	}
}

// fileExists checks if a file exists.
func fileExists(dir, name string) bool {
	_, err := os.Stat(filepath.Join(dir, name))
	return err == nil
}

// tempFileResidue walks dir and returns any leftover atomic-write temp files.
func tempFileResidue(t *testing.T, dir string) []string {
	t.Helper()
	var residue []string
	err := filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.IsDir() && strings.HasPrefix(d.Name(), ".amk-tmp-") {
			residue = append(residue, path)
		}
		return nil
	})
	if err != nil {
		t.Fatalf("failed to walk dir: %v", err)
	}
	return residue
}
