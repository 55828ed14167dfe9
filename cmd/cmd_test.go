package cmd

import (
	"bytes"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"testing"
)

// run executes the root command with args against a fresh store in dir.
func run(t *testing.T, dir string, args ...string) string {
	t.Helper()
	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&out)
	rootCmd.SetArgs(append([]string{"--store", dir, "--backend", "file"}, args...))
	if err := rootCmd.Execute(); err != nil {
		t.Fatalf("weekcal %v failed: %v\n%s", args, err, out.String())
	}
	return out.String()
}

func setupCLI(t *testing.T) string {
	t.Helper()
	rc := filepath.Join(t.TempDir(), "weekcalrc")
	if err := os.WriteFile(rc, []byte("set time_format 15:04\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	t.Setenv("WEEKCAL_CONFIG", rc)
	return t.TempDir()
}

func TestAddListExportRemove(t *testing.T) {
	dir := setupCLI(t)

	out := run(t, dir, "add", "2024-03-13 2pm-3pm dentist")
	m := regexp.MustCompile(`\[([0-9a-f-]+)\]`).FindStringSubmatch(out)
	if m == nil {
		t.Fatalf("add printed no id: %q", out)
	}
	id := m[1]

	out = run(t, dir, "list", "--date", "2024-03-13", "--ids")
	for _, want := range []string{"14:00 - 15:00", "dentist", id} {
		if !strings.Contains(out, want) {
			t.Errorf("list output missing %q:\n%s", want, out)
		}
	}

	out = run(t, dir, "export", "--format", "ics")
	for _, want := range []string{"BEGIN:VCALENDAR", "SUMMARY:dentist", "DTSTART:20240313T140000", "UID:" + id} {
		if !strings.Contains(out, want) {
			t.Errorf("export missing %q:\n%s", want, out)
		}
	}

	out = run(t, dir, "rm", id)
	if !strings.Contains(out, "Deleted") {
		t.Errorf("rm output = %q", out)
	}

	out = run(t, dir, "list", "--date", "2024-03-13")
	if !strings.Contains(out, "No events found.") {
		t.Errorf("event still listed after rm:\n%s", out)
	}
}

func TestAddRejectsInvalidRange(t *testing.T) {
	dir := setupCLI(t)

	rootCmd.SetArgs([]string{"--store", dir, "add", "2024-03-13 4pm-3pm backwards"})
	rootCmd.SetOut(&bytes.Buffer{})
	rootCmd.SetErr(&bytes.Buffer{})
	if err := rootCmd.Execute(); err == nil {
		t.Error("backwards range was accepted")
	}
}

func TestThemeCommand(t *testing.T) {
	dir := setupCLI(t)

	out := run(t, dir, "theme", "light")
	if !strings.HasPrefix(out, "light (light)") {
		t.Errorf("theme light printed %q", out)
	}
	data, err := os.ReadFile(filepath.Join(dir, "calendar_theme"))
	if err != nil || string(data) != "light" {
		t.Errorf("stored theme = %q, %v", data, err)
	}
}

func TestExportToFile(t *testing.T) {
	dir := setupCLI(t)
	t.Cleanup(func() { exportOutput = "" })

	run(t, dir, "add", "2024-03-13 9am-10am standup")
	path := filepath.Join(t.TempDir(), "week.json")
	out := run(t, dir, "export", "--format", "json", "-o", path)
	if out != "" {
		t.Errorf("export -o also wrote to stdout: %q", out)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("export file not written: %v", err)
	}
	for _, want := range []string{`"title": "standup"`, `"date": "2024-03-13"`} {
		if !strings.Contains(string(data), want) {
			t.Errorf("export file missing %s:\n%s", want, data)
		}
	}
}

func TestExportToMissingDirFails(t *testing.T) {
	dir := setupCLI(t)
	t.Cleanup(func() { exportOutput = "" })

	rootCmd.SetArgs([]string{"--store", dir, "--backend", "file", "export", "-o", filepath.Join(t.TempDir(), "no", "such", "out.json")})
	rootCmd.SetOut(&bytes.Buffer{})
	rootCmd.SetErr(&bytes.Buffer{})
	if err := rootCmd.Execute(); err == nil {
		t.Error("export to an unwritable path succeeded")
	}
}
