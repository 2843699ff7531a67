package main

import (
	"fmt"
	"go/parser"
	"go/token"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
)

const modulePath = "creatorhub"

type violation struct {
	File   string
	Line   int
	Import string
	Rule   string
}

// layerRule lists what one layer of a service may import beyond the
// standard library. Prefixes starting with "/" are relative to the service.
type layerRule struct {
	allowed        []string
	forbidAdapters bool
	forbidPlatform bool
}

var layerRules = map[string]layerRule{
	"domain": {
		allowed:        []string{"/domain"},
		forbidAdapters: true,
		forbidPlatform: true,
	},
	"application": {
		allowed:        []string{"/application", "/domain", "/ports", modulePath + "/contracts"},
		forbidAdapters: true,
		forbidPlatform: true,
	},
	"ports": {
		allowed:        []string{"/domain", "/ports", modulePath + "/contracts"},
		forbidAdapters: true,
		forbidPlatform: true,
	},
}

func main() {
	root := "contexts"
	if len(os.Args) > 1 {
		root = os.Args[1]
	}
	violations, err := collectViolations(root)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(2)
	}
	if len(violations) == 0 {
		fmt.Println("boundary checks passed")
		return
	}
	fmt.Println("boundary violations found:")
	for _, v := range violations {
		fmt.Printf("- %s:%d imports %q (%s)\n", v.File, v.Line, v.Import, v.Rule)
	}
	os.Exit(1)
}

// collectViolations walks root, a contexts/ tree laid out as
// <context>/<service>/<layer>/..., and checks every non-test Go file.
func collectViolations(root string) ([]violation, error) {
	var violations []violation
	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() || !strings.HasSuffix(path, ".go") || strings.HasSuffix(path, "_test.go") {
			return nil
		}
		rel, err := filepath.Rel(root, path)
		if err != nil {
			return err
		}
		parts := strings.Split(filepath.ToSlash(rel), "/")
		if len(parts) < 3 {
			return nil
		}
		service := fmt.Sprintf("%s/contexts/%s/%s", modulePath, parts[0], parts[1])
		layer := ""
		if len(parts) > 3 {
			layer = parts[2]
		}
		found, err := validateFile(path, "contexts/"+filepath.ToSlash(rel), layer, service)
		if err != nil {
			return err
		}
		violations = append(violations, found...)
		return nil
	})
	if err != nil {
		return nil, err
	}
	sort.Slice(violations, func(i, j int) bool {
		a, b := violations[i], violations[j]
		if a.File != b.File {
			return a.File < b.File
		}
		if a.Line != b.Line {
			return a.Line < b.Line
		}
		return a.Import < b.Import
	})
	return violations, nil
}

func validateFile(path, display, layer, service string) ([]violation, error) {
	fset := token.NewFileSet()
	file, err := parser.ParseFile(fset, path, nil, parser.ImportsOnly)
	if err != nil {
		return nil, fmt.Errorf("parse %s: %w", display, err)
	}

	var out []violation
	for _, imp := range file.Imports {
		importPath := strings.Trim(imp.Path.Value, `"`)
		line := fset.Position(imp.Pos()).Line
		add := func(rule string) {
			out = append(out, violation{File: display, Line: line, Import: importPath, Rule: rule})
		}

		if strings.HasPrefix(importPath, modulePath+"/contexts/") && !hasPrefix(importPath, service) {
			add("cross-context imports are forbidden")
		}

		rule, ok := layerRules[layer]
		if !ok {
			continue
		}
		if rule.forbidAdapters && strings.Contains(importPath, "/adapters/") {
			add(layer + " must not import adapters")
		}
		if rule.forbidPlatform && hasPrefix(importPath, modulePath+"/internal") {
			add(layer + " must not import runtime infrastructure")
		}
		if isStdlib(importPath) {
			continue
		}
		if !isAllowed(importPath, service, rule.allowed) {
			add(layer + " import is outside explicit allowlist")
		}
	}
	return out, nil
}

func hasPrefix(path, prefix string) bool {
	return path == prefix || strings.HasPrefix(path, prefix+"/")
}

func isAllowed(importPath, service string, allowed []string) bool {
	for _, p := range allowed {
		if strings.HasPrefix(p, "/") {
			p = service + p
		}
		if hasPrefix(importPath, p) {
			return true
		}
	}
	return false
}

func isStdlib(importPath string) bool {
	if hasPrefix(importPath, modulePath) {
		return false
	}
	first, _, _ := strings.Cut(importPath, "/")
	return !strings.Contains(first, ".")
}
