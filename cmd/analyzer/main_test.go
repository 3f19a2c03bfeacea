package main

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sampleResume = `Jane Doe
Contact: jane@x.com, 555-123-4567
Skills: Python, SQL, Pandas, NumPy, Docker, AWS
Education: Bachelor of Science in Computer Science
5 years experience in data analysis; 3 years experience with machine learning`

func runCLI(t *testing.T, args ...string) (int, string, string) {
	t.Helper()
	var stdout, stderr bytes.Buffer
	code := run(context.Background(), args, &stdout, &stderr)
	return code, stdout.String(), stderr.String()
}

func TestRunTextInput(t *testing.T) {
	dir := t.TempDir()
	input := filepath.Join(dir, "resume.txt")
	require.NoError(t, os.WriteFile(input, []byte(sampleResume), 0o644))
	out := filepath.Join(dir, "out")

	code, stdout, stderr := runCLI(t, "--text", "--out", out, input)
	require.Equal(t, 0, code, stderr)
	assert.Contains(t, stdout, "Resume Analysis Report")
	assert.Contains(t, stdout, "74")

	saved, err := os.ReadFile(filepath.Join(out, reportFile))
	require.NoError(t, err)
	assert.Equal(t, stdout, string(saved))

	chart, err := os.ReadFile(filepath.Join(out, chartFile))
	require.NoError(t, err)
	assert.Equal(t, "\x89PNG", string(chart[:4]))
}

func TestRunTextInputIsCleaned(t *testing.T) {
	dir := t.TempDir()
	clean := filepath.Join(dir, "clean.txt")
	dirty := filepath.Join(dir, "dirty.txt")
	require.NoError(t, os.WriteFile(clean, []byte(sampleResume), 0o644))
	raw := "\ufeff" + strings.Replace(sampleResume, "Pandas", "Pan\xffdas", 1)
	require.NoError(t, os.WriteFile(dirty, []byte(raw), 0o644))

	code, want, stderr := runCLI(t, "--text", "--out", filepath.Join(dir, "a"), clean)
	require.Equal(t, 0, code, stderr)
	code, got, stderr := runCLI(t, "--text", "--out", filepath.Join(dir, "b"), dirty)
	require.Equal(t, 0, code, stderr)
	assert.Equal(t, want, got)
}

func TestRunMissingFile(t *testing.T) {
	out := t.TempDir()
	code, stdout, stderr := runCLI(t, "--text", "--out", out, filepath.Join(out, "nope.txt"))
	assert.Equal(t, 1, code)
	assert.Empty(t, stdout)
	assert.Contains(t, stderr, "no text extracted")

	_, err := os.Stat(filepath.Join(out, reportFile))
	assert.True(t, os.IsNotExist(err))
}

func TestRunUsageErrors(t *testing.T) {
	code, _, _ := runCLI(t)
	assert.Equal(t, 2, code)

	code, _, _ = runCLI(t, "--bogus")
	assert.Equal(t, 2, code)

	code, _, stderr := runCLI(t, "--text", "--role", "astronaut", "x.txt")
	assert.Equal(t, 2, code)
	assert.Contains(t, stderr, "unknown job role")
}

func TestRunListRoles(t *testing.T) {
	code, stdout, _ := runCLI(t, "--list-roles")
	assert.Equal(t, 0, code)
	assert.Contains(t, stdout, "Data Scientist\n")
	assert.Contains(t, stdout, "Software Engineer\n")
}
