package main

import (
	"bytes"
	"log"
	"math"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"msgstats/internal/iox"
	"msgstats/internal/stats"
)

func clearEnv(t *testing.T) {
	t.Helper()
	for _, k := range []string{"MSGSTATS_FORMAT", "MSGSTATS_SORT", "MSGSTATS_OUT", "MSGSTATS_STREAM", "MSGSTATS_VERBOSE"} {
		t.Setenv(k, "")
		os.Unsetenv(k)
	}
}

func writeInput(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func runCLI(t *testing.T, args ...string) (int, string, string) {
	t.Helper()
	var stdout, stderr bytes.Buffer
	code := run(append([]string{"-env", ""}, args...), &stdout, &stderr)
	return code, stdout.String(), stderr.String()
}

func TestRun_Success(t *testing.T) {
	clearEnv(t)
	in := writeInput(t, "in.jsonl", "{\"type\":\"a\"}\n{\"type\":\"b\"}\n{\"type\":\"a\"}\n")

	for _, streamFlag := range []string{"-stream=true", "-stream=false"} {
		code, out, errOut := runCLI(t, streamFlag, in)
		if code != exitOK {
			t.Fatalf("%s: exit = %d, stderr = %s", streamFlag, code, errOut)
		}
		want := "a: 2 times, 24 bytes\nb: 1 times, 12 bytes\n"
		if out != want {
			t.Errorf("%s: stdout = %q, want %q", streamFlag, out, want)
		}
	}
}

func TestRun_EmptyFile(t *testing.T) {
	clearEnv(t)
	code, out, _ := runCLI(t, writeInput(t, "empty.jsonl", ""))
	if code != exitOK || out != "" {
		t.Errorf("exit = %d, stdout = %q; want 0 and no output", code, out)
	}
}

func TestRun_ParseFailure(t *testing.T) {
	clearEnv(t)
	in := writeInput(t, "bad.jsonl", "{\"type\":\"x\"}\nnot valid json\n")
	code, out, errOut := runCLI(t, in)
	if code != exitFailure {
		t.Errorf("exit = %d, want %d", code, exitFailure)
	}
	if out != "" {
		t.Errorf("stdout = %q, want no aggregate output", out)
	}
	for _, part := range []string{"Oops! An error occurred", "not valid json", "line 2"} {
		if !strings.Contains(errOut, part) {
			t.Errorf("stderr = %q, missing %q", errOut, part)
		}
	}
}

func TestRun_InvalidUTF8IsReadFailure(t *testing.T) {
	clearEnv(t)
	// prva linija je neispravan JSON, ali ceo fajl nije UTF-8
	in := writeInput(t, "mixed.jsonl", "garbage\n{\"type\":\"\xff\"}\n")
	code, out, errOut := runCLI(t, in)
	if code != exitFailure || out != "" {
		t.Errorf("exit = %d, stdout = %q; want %d and no output", code, out, exitFailure)
	}
	if !strings.Contains(errOut, "could not read the specified input file") || !strings.Contains(errOut, "UTF-8") {
		t.Errorf("stderr = %q, want read failure", errOut)
	}
	if strings.Contains(errOut, "Oops!") {
		t.Errorf("stderr = %q, parse failure must not hide the read failure", errOut)
	}
}

func TestRun_MissingFile(t *testing.T) {
	clearEnv(t)
	code, out, errOut := runCLI(t, filepath.Join(t.TempDir(), "nope.jsonl"))
	if code != exitFailure || out != "" {
		t.Errorf("exit = %d, stdout = %q; want %d and no output", code, out, exitFailure)
	}
	if !strings.Contains(errOut, "could not read the specified input file") {
		t.Errorf("stderr = %q", errOut)
	}
}

func TestRun_Usage(t *testing.T) {
	clearEnv(t)
	tests := [][]string{
		{},
		{"a.jsonl", "b.jsonl"},
		{"-format", "xml", "a.jsonl"},
		{"-sort", "random", "a.jsonl"},
		{"-no-such-flag", "a.jsonl"},
	}
	for _, args := range tests {
		if code, _, _ := runCLI(t, args...); code != exitUsage {
			t.Errorf("run(%v) exit = %d, want %d", args, code, exitUsage)
		}
	}
}

func TestRun_FormatAndOutFile(t *testing.T) {
	clearEnv(t)
	in := writeInput(t, "in.jsonl", "{\"type\":\"a\"}\n")
	outPath := filepath.Join(t.TempDir(), "report.csv.gz")

	code, out, errOut := runCLI(t, "-format", "csv", "-out", outPath, in)
	if code != exitOK {
		t.Fatalf("exit = %d, stderr = %s", code, errOut)
	}
	if out != "" {
		t.Errorf("stdout = %q, want empty when -out is set", out)
	}
	got, err := iox.ReadText(outPath)
	if err != nil {
		t.Fatal(err)
	}
	if want := "type,occurrences,total_byte_size\na,1,12\n"; got != want {
		t.Errorf("report = %q, want %q", got, want)
	}
}

func TestRun_EnvConfig(t *testing.T) {
	clearEnv(t)
	t.Setenv("MSGSTATS_SORT", "count")
	in := writeInput(t, "in.jsonl", "{\"type\":\"a\"}\n{\"type\":\"b\"}\n{\"type\":\"b\"}\n")
	code, out, _ := runCLI(t, in)
	if code != exitOK {
		t.Fatalf("exit = %d", code)
	}
	if !strings.HasPrefix(out, "b: 2 times") {
		t.Errorf("stdout = %q, want b first", out)
	}
}

func TestRun_Plan(t *testing.T) {
	clearEnv(t)
	code, out, _ := runCLI(t, "-plan", "-format", "json", "whatever.jsonl")
	if code != exitOK {
		t.Fatalf("exit = %d", code)
	}
	if !strings.Contains(out, "Execution Plan") || !strings.Contains(out, "json") {
		t.Errorf("plan = %q", out)
	}
}

func TestRun_VerboseLogsSummary(t *testing.T) {
	clearEnv(t)
	in := writeInput(t, "in.jsonl", "{\"type\":\"a\"}\n")
	code, _, errOut := runCLI(t, "-v", in)
	if code != exitOK {
		t.Fatalf("exit = %d", code)
	}
	if !strings.Contains(errOut, "types=1 messages=1 bytes=12") {
		t.Errorf("stderr = %q", errOut)
	}
}

func TestLogSummary_TotalOverflow(t *testing.T) {
	var buf bytes.Buffer
	groups := stats.Groups{
		"a": {Occurrences: math.MaxInt64, TotalByteSize: 1},
		"b": {Occurrences: 1, TotalByteSize: 1},
	}
	logSummary(log.New(&buf, "", 0), groups)
	got := buf.String()
	if !strings.Contains(got, "[WARN] summary unavailable") || strings.Contains(got, "types=") {
		t.Errorf("log = %q, want overflow warning instead of totals", got)
	}
}
