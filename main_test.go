/*
Copyright © 2026 Benny Powers <web@bennypowers.com>

This program is free software: you can redistribute it and/or modify
it under the terms of the GNU General Public License as published by
the Free Software Foundation, either version 3 of the License, or
(at your option) any later version.

This program is distributed in the hope that it will be useful,
but WITHOUT ANY WARRANTY; without even the implied warranty of
MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
GNU General Public License for more details.

You should have received a copy of the GNU General Public License
along with this program. If not, see <http://www.gnu.org/licenses/>.
*/
package main

import (
	"bytes"
	"encoding/json"
	"os"
	"os/exec"
	"path/filepath"
	"slices"
	"strings"
	"testing"
)

const testBinary = "cargo-new-deps_test"

func TestMain(m *testing.M) {
	// Build the binary before running tests
	wd := mustGetwd()
	cmd := exec.Command("go", "build", "-o", testBinary, ".")
	cmd.Dir = wd
	if out, err := cmd.CombinedOutput(); err != nil {
		panic("failed to build test binary: " + err.Error() + "\n" + string(out))
	}
	code := m.Run()
	_ = os.Remove(filepath.Join(wd, testBinary))
	os.Exit(code)
}

func mustGetwd() string {
	wd, err := os.Getwd()
	if err != nil {
		panic(err)
	}
	return wd
}

// cliRun describes one invocation of the test binary.
type cliRun struct {
	dir  string
	env  []string
	args []string
}

func (r cliRun) run(t *testing.T) (stdout, stderr string, exitCode int) {
	t.Helper()
	binary := filepath.Join(mustGetwd(), testBinary)
	cmd := exec.Command(binary, r.args...)
	cmd.Dir = r.dir
	cmd.Env = append(os.Environ(), "NO_COLOR=1")
	cmd.Env = append(cmd.Env, r.env...)

	var stdoutBuf, stderrBuf bytes.Buffer
	cmd.Stdout = &stdoutBuf
	cmd.Stderr = &stderrBuf

	err := cmd.Run()
	stdout = stdoutBuf.String()
	stderr = stderrBuf.String()

	if err != nil {
		if exitErr, ok := err.(*exec.ExitError); ok {
			exitCode = exitErr.ExitCode()
		} else {
			t.Fatalf("Failed to run CLI: %v", err)
		}
	}

	return stdout, stderr, exitCode
}

func runCLI(t *testing.T, args ...string) (stdout, stderr string, exitCode int) {
	t.Helper()
	return cliRun{args: args}.run(t)
}

func fixture(t *testing.T, name string) string {
	t.Helper()
	path, err := filepath.Abs(filepath.Join("testdata", "metadata", name))
	if err != nil {
		t.Fatalf("Failed to resolve fixture %s: %v", name, err)
	}
	return path
}

func snapshotArgs(t *testing.T) []string {
	return []string{"--from-json", fixture(t, "main.json"), "--to-json", fixture(t, "router-3.json")}
}

func TestDiffText(t *testing.T) {
	stdout, stderr, code := runCLI(t, snapshotArgs(t)...)
	if code != 0 {
		t.Fatalf("Expected exit code 0, got %d\nstderr: %s", code, stderr)
	}

	want, err := os.ReadFile(filepath.Join("testdata", "golden", "router-3.txt"))
	if err != nil {
		t.Fatalf("Failed to read golden file: %v", err)
	}
	if stdout != string(want) {
		t.Errorf("stdout = %q, want %q", stdout, want)
	}
}

func TestCargoSubcommandInvocation(t *testing.T) {
	args := append([]string{"new-deps"}, snapshotArgs(t)...)
	stdout, stderr, code := runCLI(t, args...)
	if code != 0 {
		t.Fatalf("Expected exit code 0, got %d\nstderr: %s", code, stderr)
	}
	if !strings.HasPrefix(stdout, "logger +json pulled by: router") {
		t.Errorf("Unexpected output: %q", stdout)
	}
}

func TestDiffColor(t *testing.T) {
	args := append(snapshotArgs(t), "--color", "always")
	stdout, stderr, code := runCLI(t, args...)
	if code != 0 {
		t.Fatalf("Expected exit code 0, got %d\nstderr: %s", code, stderr)
	}
	if !strings.Contains(stdout, "\x1b[") {
		t.Errorf("Expected ANSI colors, got %q", stdout)
	}
}

func TestDiffJSON(t *testing.T) {
	args := append(snapshotArgs(t), "--format", "json")
	stdout, stderr, code := runCLI(t, args...)
	if code != 0 {
		t.Fatalf("Expected exit code 0, got %d\nstderr: %s", code, stderr)
	}

	var entries []struct {
		Name     string   `json:"name"`
		Features []string `json:"features"`
		PulledBy []struct {
			Name string `json:"name"`
		} `json:"pulledBy"`
	}
	if err := json.Unmarshal([]byte(stdout), &entries); err != nil {
		t.Fatalf("Failed to parse JSON output: %v\nstdout: %s", err, stdout)
	}
	if len(entries) != 1 {
		t.Fatalf("Expected 1 entry, got %d", len(entries))
	}
	if entries[0].Name != "logger" || !slices.Equal(entries[0].Features, []string{"json"}) {
		t.Errorf("Unexpected entry: %+v", entries[0])
	}
	if len(entries[0].PulledBy) != 1 || entries[0].PulledBy[0].Name != "router" {
		t.Errorf("Unexpected parents: %+v", entries[0].PulledBy)
	}
}

func TestDiffOutputFile(t *testing.T) {
	tmpFile := filepath.Join(t.TempDir(), "report.txt")

	args := append(snapshotArgs(t), "--output", tmpFile, "--color", "always")
	stdout, stderr, code := runCLI(t, args...)
	if code != 0 {
		t.Fatalf("Expected exit code 0, got %d\nstderr: %s", code, stderr)
	}
	if stdout != "" {
		t.Errorf("Expected no stdout when writing to file, got: %s", stdout)
	}

	content, err := os.ReadFile(tmpFile)
	if err != nil {
		t.Fatalf("Failed to read output file: %v", err)
	}
	if string(content) != "logger +json pulled by: router\n" {
		t.Errorf("Unexpected file content: %q", content)
	}
}

func TestDiffEnvironment(t *testing.T) {
	stdout, stderr, code := cliRun{
		env:  []string{"NEW_DEPS_FORMAT=json", "NEW_DEPS_EXCLUDE=logger"},
		args: snapshotArgs(t),
	}.run(t)
	if code != 0 {
		t.Fatalf("Expected exit code 0, got %d\nstderr: %s", code, stderr)
	}
	if stdout != "[]\n" {
		t.Errorf("stdout = %q, want an empty JSON array", stdout)
	}
}

func TestDiffConfigFile(t *testing.T) {
	dir := t.TempDir()
	if err := os.Mkdir(filepath.Join(dir, ".cargo"), 0755); err != nil {
		t.Fatal(err)
	}
	config := "format = \"json\"\nexclude = [\"log*\"]\n"
	if err := os.WriteFile(filepath.Join(dir, ".cargo", "new-deps.toml"), []byte(config), 0644); err != nil {
		t.Fatal(err)
	}

	stdout, stderr, code := cliRun{dir: dir, args: snapshotArgs(t)}.run(t)
	if code != 0 {
		t.Fatalf("Expected exit code 0, got %d\nstderr: %s", code, stderr)
	}
	if stdout != "[]\n" {
		t.Errorf("stdout = %q, want an empty JSON array", stdout)
	}

	// Flags win over the config file.
	args := append(snapshotArgs(t), "--format", "text", "--exclude", "nothing")
	stdout, stderr, code = cliRun{dir: dir, args: args}.run(t)
	if code != 0 {
		t.Fatalf("Expected exit code 0, got %d\nstderr: %s", code, stderr)
	}
	if stdout != "logger +json pulled by: router\n" {
		t.Errorf("stdout = %q, want the text report", stdout)
	}
}

func TestDiffMissingSnapshot(t *testing.T) {
	stdout, stderr, code := runCLI(t,
		"--from-json", filepath.Join(t.TempDir(), "missing.json"),
		"--to-json", fixture(t, "router-3.json"),
	)
	if code != 1 {
		t.Errorf("Expected exit code 1, got %d", code)
	}
	if stdout != "" {
		t.Errorf("Expected no stdout on failure, got: %s", stdout)
	}
	if !strings.Contains(stderr, "from snapshot (json)") {
		t.Errorf("Expected the failing side in stderr, got: %s", stderr)
	}
}

func TestDiffInvalidExclude(t *testing.T) {
	args := append(snapshotArgs(t), "--exclude", "[unclosed")
	_, stderr, code := runCLI(t, args...)
	if code != 1 {
		t.Errorf("Expected exit code 1, got %d", code)
	}
	if !strings.Contains(stderr, "invalid exclude pattern") {
		t.Errorf("Expected pattern error, got: %s", stderr)
	}
}

func TestUnknownCommand(t *testing.T) {
	_, stderr, code := runCLI(t, "frobnicate")
	if code != 1 {
		t.Errorf("Expected exit code 1, got %d", code)
	}
	if !strings.Contains(stderr, "unknown command") {
		t.Errorf("Expected unknown command error, got: %s", stderr)
	}
}

func TestHelp(t *testing.T) {
	stdout, stderr, code := runCLI(t, "--help")
	if code != 0 {
		t.Fatalf("Expected exit code 0, got %d\nstderr: %s", code, stderr)
	}
	for _, flag := range []string{"--from-json", "--to-json", "--from", "--to", "--exclude", "--format"} {
		if !strings.Contains(stdout, flag) {
			t.Errorf("Expected %s in help output", flag)
		}
	}
}

func TestVersion(t *testing.T) {
	stdout, stderr, code := runCLI(t, "version")
	if code != 0 {
		t.Fatalf("Expected exit code 0, got %d\nstderr: %s", code, stderr)
	}
	if !strings.HasPrefix(stdout, "cargo-new-deps ") {
		t.Errorf("Unexpected version output: %q", stdout)
	}

	stdout, stderr, code = runCLI(t, "new-deps", "version", "--format", "json")
	if code != 0 {
		t.Fatalf("Expected exit code 0, got %d\nstderr: %s", code, stderr)
	}
	var info map[string]any
	if err := json.Unmarshal([]byte(stdout), &info); err != nil {
		t.Fatalf("Failed to parse version JSON: %v\nstdout: %s", err, stdout)
	}
	if _, ok := info["version"]; !ok {
		t.Error("Expected version key")
	}
}

func TestCLIArgs(t *testing.T) {
	tests := []struct {
		name string
		args []string
		want []string
	}{
		{"direct", []string{"--from", "main"}, []string{"--from", "main"}},
		{"as cargo subcommand", []string{"new-deps", "--from", "main"}, []string{"--from", "main"}},
		{"only subcommand", []string{"new-deps"}, []string{}},
		{"empty", nil, nil},
		{"not first", []string{"--to", "new-deps"}, []string{"--to", "new-deps"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := cliArgs(tt.args); !slices.Equal(got, tt.want) {
				t.Errorf("cliArgs(%v) = %v, want %v", tt.args, got, tt.want)
			}
		})
	}
}
