package main

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func writeTestConfig(t *testing.T) string {
	t.Helper()
	base := t.TempDir()
	configPath := filepath.Join(base, "config.toml")
	body := fmt.Sprintf(`
[scan]
method = "camera"
sample_rate = 30.0
duration_seconds = 10.0

[recordings]
dir = %q
max_keep = 5

[logging]
level = "error"
`, filepath.Join(base, "recordings"))
	if err := os.WriteFile(configPath, []byte(body), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	return configPath
}

func runCLI(t *testing.T, configPath string, args ...string) (string, string, error) {
	t.Helper()
	cmd := newRootCommand()
	var stdout, stderr bytes.Buffer
	cmd.SetOut(&stdout)
	cmd.SetErr(&stderr)
	flags := []string{}
	if configPath != "" {
		flags = append(flags, "--config", configPath)
	}
	cmd.SetArgs(append(flags, args...))
	err := cmd.Execute()
	return stdout.String(), stderr.String(), err
}

func requireContains(t *testing.T, output, want string) {
	t.Helper()
	if !strings.Contains(output, want) {
		t.Fatalf("output %q missing %q", output, want)
	}
}

func TestConfigInitAndValidate(t *testing.T) {
	target := filepath.Join(t.TempDir(), "config.toml")

	out, _, err := runCLI(t, "", "config", "init", "--path", target)
	if err != nil {
		t.Fatalf("config init: %v", err)
	}
	requireContains(t, out, "Wrote sample configuration")
	if _, err := os.Stat(target); err != nil {
		t.Fatalf("expected config file at %s: %v", target, err)
	}

	out, _, err = runCLI(t, "", "config", "validate", "--config", target)
	if err != nil {
		t.Fatalf("config validate: %v", err)
	}
	requireContains(t, out, "Configuration valid")

	if _, _, err := runCLI(t, "", "config", "init", "--path", target); err == nil {
		t.Fatal("second config init without --overwrite should fail")
	}
}

func TestConfigShow(t *testing.T) {
	configPath := writeTestConfig(t)

	out, _, err := runCLI(t, configPath, "config", "show")
	if err != nil {
		t.Fatalf("config show: %v", err)
	}
	requireContains(t, out, "scan.method")
	requireContains(t, out, "camera")
	requireContains(t, out, "engine.bpm_range")
}

func TestScanCommandProducesReading(t *testing.T) {
	configPath := writeTestConfig(t)

	out, _, err := runCLI(t, configPath, "scan", "--bpm", "72")
	if err != nil {
		t.Fatalf("scan: %v", err)
	}
	requireContains(t, out, "BPM")
	requireContains(t, out, "Risk band:")
	requireContains(t, out, "NORMAL")
}

func TestScanSaveListReplayDelete(t *testing.T) {
	configPath := writeTestConfig(t)

	out, _, err := runCLI(t, configPath, "scan", "--bpm", "72", "--save", "resting")
	if err != nil {
		t.Fatalf("scan --save: %v", err)
	}
	requireContains(t, out, "Saved trace ")

	var id string
	for _, line := range strings.Split(out, "\n") {
		if strings.HasPrefix(line, "Saved trace ") {
			id = strings.TrimSpace(strings.TrimPrefix(line, "Saved trace "))
		}
	}
	if id == "" {
		t.Fatalf("no trace id in output %q", out)
	}

	out, _, err = runCLI(t, configPath, "recordings", "list")
	if err != nil {
		t.Fatalf("recordings list: %v", err)
	}
	requireContains(t, out, "resting")
	requireContains(t, out, id)

	out, _, err = runCLI(t, configPath, "replay", id)
	if err != nil {
		t.Fatalf("replay: %v", err)
	}
	requireContains(t, out, "Risk band:")

	out, _, err = runCLI(t, configPath, "recordings", "delete", id)
	if err != nil {
		t.Fatalf("recordings delete: %v", err)
	}
	requireContains(t, out, "Deleted")

	out, _, err = runCLI(t, configPath, "recordings", "list")
	if err != nil {
		t.Fatalf("recordings list after delete: %v", err)
	}
	requireContains(t, out, "No recordings stored")
}

func TestRecordingsShowExportAndScanInput(t *testing.T) {
	configPath := writeTestConfig(t)

	out, _, err := runCLI(t, configPath, "scan", "--bpm", "72", "--save", "baseline")
	if err != nil {
		t.Fatalf("scan --save: %v", err)
	}
	var id string
	for _, line := range strings.Split(out, "\n") {
		if strings.HasPrefix(line, "Saved trace ") {
			id = strings.TrimSpace(strings.TrimPrefix(line, "Saved trace "))
		}
	}
	if id == "" {
		t.Fatalf("no trace id in output %q", out)
	}

	out, _, err = runCLI(t, configPath, "recordings", "show", id)
	if err != nil {
		t.Fatalf("recordings show: %v", err)
	}
	requireContains(t, out, id)
	requireContains(t, out, "camera")
	requireContains(t, out, "Mean value")

	csvPath := filepath.Join(t.TempDir(), "trace.csv")
	out, _, err = runCLI(t, configPath, "recordings", "export", id, "--output", csvPath)
	if err != nil {
		t.Fatalf("recordings export: %v", err)
	}
	requireContains(t, out, "Exported")
	if _, err := os.Stat(csvPath); err != nil {
		t.Fatalf("expected exported csv at %s: %v", csvPath, err)
	}

	out, _, err = runCLI(t, configPath, "scan", "--input", csvPath)
	if err != nil {
		t.Fatalf("scan --input: %v", err)
	}
	requireContains(t, out, "Risk band:")
	requireContains(t, out, "NORMAL")
}

func TestReadTraceCSVRejectsBadInput(t *testing.T) {
	dir := t.TempDir()
	cases := []struct {
		name string
		body string
	}{
		{"no samples", "offset_ms,value\n"},
		{"bad value", "offset_ms,value\n33,not-a-number\n"},
		{"offset regression", "offset_ms,value\n33,0.1\n33,0.2\n"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			path := filepath.Join(dir, strings.ReplaceAll(tc.name, " ", "_")+".csv")
			if err := os.WriteFile(path, []byte(tc.body), 0o644); err != nil {
				t.Fatalf("write csv: %v", err)
			}
			if _, err := readTraceCSV(path); err == nil {
				t.Fatal("expected parse error")
			}
		})
	}
}

func TestScanUnknownMethodFails(t *testing.T) {
	configPath := writeTestConfig(t)

	if _, _, err := runCLI(t, configPath, "scan", "--method", "thermometer"); err == nil {
		t.Fatal("scan with unknown method should fail")
	}
}

func TestScanRejectsBadFlagValues(t *testing.T) {
	configPath := writeTestConfig(t)

	cases := []struct {
		name string
		args []string
	}{
		{"zero bpm", []string{"scan", "--bpm", "0"}},
		{"negative bpm", []string{"scan", "--bpm", "-10"}},
		{"rate above bound", []string{"scan", "--rate", "2000"}},
		{"negative rate", []string{"scan", "--rate", "-30"}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if _, _, err := runCLI(t, configPath, tc.args...); err == nil {
				t.Fatal("expected flag validation error")
			}
		})
	}
}

func TestRunExitCodes(t *testing.T) {
	var stdout, stderr bytes.Buffer
	if code := run(&stdout, &stderr, []string{"no-such-command"}); code != 1 {
		t.Fatalf("run(unknown command) = %d, want 1", code)
	}
	requireContains(t, stderr.String(), "vitalscan:")

	stdout.Reset()
	stderr.Reset()
	if code := run(&stdout, &stderr, []string{"--help"}); code != 0 {
		t.Fatalf("run(--help) = %d, want 0", code)
	}
	requireContains(t, stdout.String(), "vitalscan")
}
