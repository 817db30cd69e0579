// Command sqllint checks that every SQL string constant starts with a unique
// "--sql <uuid>" marker so log lines can be traced back to their query.
package main

import (
	"flag"
	"fmt"
	"go/ast"
	"go/parser"
	"go/token"
	"os"
	"path/filepath"
	"regexp"
	"sort"
	"strconv"
	"strings"
)

var (
	sqlKeywordPattern = regexp.MustCompile(`(?i)\b(select|insert|update|delete|with|create)\b`)
	uuidMarkerPattern = regexp.MustCompile(`^--sql [0-9a-f]{8}-[0-9a-f]{4}-[0-9a-f]{4}-[0-9a-f]{4}-[0-9a-f]{12}$`)
)

const defaultTarget = "internal/sqlinline"

type violation struct {
	file    string
	name    string
	line    int
	message string
}

// marked is a SQL constant with a well-formed marker.
type marked struct {
	marker string
	file   string
	name   string
	line   int
}

func main() {
	flag.Parse()
	targets := flag.Args()
	if len(targets) == 0 {
		targets = []string{defaultTarget}
	}

	violations, err := lint(targets)
	if err != nil {
		fmt.Fprintf(os.Stderr, "sqllint: %v\n", err)
		os.Exit(1)
	}
	if len(violations) > 0 {
		fmt.Fprintln(os.Stderr, "sqllint: SQL audit marker violations")
		for _, v := range violations {
			fmt.Fprintf(os.Stderr, "  %s:%d %s (%s)\n", v.file, v.line, v.message, v.name)
		}
		os.Exit(1)
	}
}

// lint walks targets, which may be directories or .go files, and returns
// missing, malformed and duplicated markers.
func lint(targets []string) ([]violation, error) {
	var (
		violations []violation
		seen       []marked
	)
	visit := func(path string) error {
		vs, ms, err := lintFile(path)
		if err != nil {
			return err
		}
		violations = append(violations, vs...)
		seen = append(seen, ms...)
		return nil
	}

	for _, target := range targets {
		info, err := os.Stat(target)
		if err != nil {
			return nil, err
		}
		if !info.IsDir() {
			if filepath.Ext(target) == ".go" {
				if err := visit(target); err != nil {
					return nil, err
				}
			}
			continue
		}
		err = filepath.WalkDir(target, func(path string, d os.DirEntry, err error) error {
			if err != nil {
				return err
			}
			if d.IsDir() {
				if path != target && (strings.HasPrefix(d.Name(), ".") || strings.HasPrefix(d.Name(), "_") || d.Name() == "vendor") {
					return filepath.SkipDir
				}
				return nil
			}
			if filepath.Ext(path) != ".go" || strings.HasSuffix(path, "_test.go") {
				return nil
			}
			return visit(path)
		})
		if err != nil {
			return nil, err
		}
	}

	return append(violations, duplicates(seen)...), nil
}

func lintFile(path string) ([]violation, []marked, error) {
	fset := token.NewFileSet()
	file, err := parser.ParseFile(fset, path, nil, parser.ParseComments)
	if err != nil {
		return nil, nil, err
	}
	var (
		violations []violation
		ms         []marked
	)
	ast.Inspect(file, func(n ast.Node) bool {
		vs, ok := n.(*ast.ValueSpec)
		if !ok {
			return true
		}
		for _, value := range vs.Values {
			bl, ok := value.(*ast.BasicLit)
			if !ok || bl.Kind != token.STRING {
				continue
			}
			raw, err := unquote(bl.Value)
			if err != nil || !sqlKeywordPattern.MatchString(raw) {
				continue
			}
			pos := fset.Position(bl.Pos())
			name := joinNames(vs.Names)
			marker := firstLine(raw)
			if !uuidMarkerPattern.MatchString(marker) {
				violations = append(violations, violation{
					file:    path,
					line:    pos.Line,
					name:    name,
					message: "missing or invalid --sql <uuid> marker",
				})
				continue
			}
			ms = append(ms, marked{marker: marker, file: path, name: name, line: pos.Line})
		}
		return true
	})
	return violations, ms, nil
}

// duplicates reports every constant after the first that reuses a marker.
func duplicates(ms []marked) []violation {
	sort.SliceStable(ms, func(i, j int) bool {
		if ms[i].file != ms[j].file {
			return ms[i].file < ms[j].file
		}
		return ms[i].line < ms[j].line
	})
	first := make(map[string]marked, len(ms))
	var out []violation
	for _, m := range ms {
		if prev, ok := first[m.marker]; ok {
			out = append(out, violation{
				file:    m.file,
				line:    m.line,
				name:    m.name,
				message: fmt.Sprintf("marker already used by %s (%s:%d)", prev.name, prev.file, prev.line),
			})
			continue
		}
		first[m.marker] = m
	}
	return out
}

func firstLine(s string) string {
	s = strings.TrimLeft(s, "\n\r \t")
	if idx := strings.IndexAny(s, "\n\r"); idx >= 0 {
		return strings.TrimSpace(s[:idx])
	}
	return strings.TrimSpace(s)
}

func unquote(v string) (string, error) {
	if len(v) == 0 {
		return v, nil
	}
	if v[0] == '`' {
		return v[1 : len(v)-1], nil
	}
	return strconv.Unquote(v)
}

func joinNames(idents []*ast.Ident) string {
	parts := make([]string, 0, len(idents))
	for _, ident := range idents {
		if ident == nil {
			continue
		}
		parts = append(parts, ident.Name)
	}
	return strings.Join(parts, ",")
}
