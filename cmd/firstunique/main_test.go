// Copyright 2020 Cosmos Nicolaou. All rights reserved.
// Use of this source code is governed by the Apache-2.0
// license that can be found in the LICENSE file.
package main_test

import (
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"testing"
)

func findCmd(args ...string) (string, string, error) {
	cmd := exec.Command("go", append([]string{"run", "."}, args...)...)
	var stdout, stderr strings.Builder
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr
	err := cmd.Run()
	return stdout.String(), stderr.String(), err
}

func writeInput(t *testing.T, dir, content string) string {
	t.Helper()
	path := filepath.Join(dir, "input.txt")
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestFindCommand(t *testing.T) {
	tmpdir := t.TempDir()
	path := writeInput(t, tmpdir, "a\nb\nc\nb\nc\n")

	out, errOut, err := findCmd("find", "--progress=false", path)
	if err != nil {
		t.Fatalf("find: %v: %s", err, errOut)
	}
	if got, want := strings.TrimSpace(out), "a"; got != want {
		t.Errorf("find: got %q, want %q", got, want)
	}
}

func TestFindCommandNoUniqueToken(t *testing.T) {
	tmpdir := t.TempDir()
	path := writeInput(t, tmpdir, "a\na\nb\nb\n")

	out, errOut, err := findCmd("find", "--progress=false", path)
	if err != nil {
		t.Fatalf("find: %v: %s", err, errOut)
	}
	if strings.TrimSpace(out) != "" {
		t.Errorf("find: got stdout %q, want empty", out)
	}
	if !strings.Contains(errOut, "no unique token found") {
		t.Errorf("find: stderr %q missing \"no unique token found\"", errOut)
	}
}

func TestFindCommandMissingFile(t *testing.T) {
	tmpdir := t.TempDir()
	_, errOut, err := findCmd("find", filepath.Join(tmpdir, "does-not-exist"))
	if err == nil {
		t.Fatalf("expected an error, got stderr: %s", errOut)
	}
}

func TestGenCommand(t *testing.T) {
	tmpdir := t.TempDir()
	out := filepath.Join(tmpdir, "generated.txt")

	_, errOut, err := findCmd("gen", "--lines=200", "--duplicates=10", "--output="+out)
	if err != nil {
		t.Fatalf("gen: %v: %s", err, errOut)
	}
	data, err := os.ReadFile(out)
	if err != nil {
		t.Fatal(err)
	}
	lines := strings.Split(strings.TrimRight(string(data), "\n"), "\n")
	if len(lines) != 200 {
		t.Errorf("generated %d lines, want 200", len(lines))
	}

	findOut, findErr, err := findCmd("find", "--progress=false", out)
	if err != nil {
		t.Fatalf("find(generated): %v: %s", err, findErr)
	}
	if strings.TrimSpace(findOut) == "" {
		t.Error("find(generated) produced no unique token, but gen defaults to one on line 0")
	}
}
