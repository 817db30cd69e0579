package main

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func writeGo(t *testing.T, dir, name, body string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(body), 0o600); err != nil {
		t.Fatalf("write %s: %v", name, err)
	}
	return path
}

func TestLintFindsMissingAndDuplicateMarkers(t *testing.T) {
	dir := t.TempDir()
	writeGo(t, dir, "a.go", "package q\n\nconst QOne = `--sql 11111111-2222-4333-8444-555555555555\nselect 1;\n`\n\nconst QBare = `select 2;`\n")
	writeGo(t, dir, "b.go", "package q\n\nconst QCopy = `--sql 11111111-2222-4333-8444-555555555555\nselect 3;\n`\n\nconst Label = \"not a query\"\n")

	vs, err := lint([]string{dir})
	if err != nil {
		t.Fatalf("lint: %v", err)
	}
	if len(vs) != 2 {
		t.Fatalf("got %d violations, want 2: %+v", len(vs), vs)
	}
	if vs[0].name != "QBare" || !strings.Contains(vs[0].message, "missing") {
		t.Fatalf("unexpected first violation %+v", vs[0])
	}
	if vs[1].name != "QCopy" || !strings.Contains(vs[1].message, "QOne") {
		t.Fatalf("unexpected duplicate violation %+v", vs[1])
	}
}

func TestLintSqlinlineIsClean(t *testing.T) {
	vs, err := lint([]string{filepath.Join("..", "..", "sqlinline")})
	if err != nil {
		t.Fatalf("lint: %v", err)
	}
	for _, v := range vs {
		t.Errorf("%s:%d %s (%s)", v.file, v.line, v.message, v.name)
	}
}
