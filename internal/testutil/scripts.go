// Package testutil provides shared helpers for Lox tests.
package testutil

import (
	"os"
	"path/filepath"
	"strings"
)

// Script is one conformance case: a .lox source file plus golden files for
// the expected stdout (.out) and, when the script is meant to fail, the
// expected stderr substring (.err).
type Script struct {
	Name    string
	Source  string
	WantOut string
	// WantErr is a substring the reported error must contain. Empty means
	// the script must run cleanly.
	WantErr string
	// WantExit is the expected process exit status: 0, 65, or 70.
	WantExit int
}

// LoadScripts reads every *.lox file under dir and pairs it with its
// golden files. A missing .out golden means no output is expected.
func LoadScripts(dir string) ([]Script, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, err
	}

	var scripts []Script
	for _, e := range entries {
		if e.IsDir() || !strings.HasSuffix(e.Name(), ".lox") {
			continue
		}
		name := strings.TrimSuffix(e.Name(), ".lox")
		source, err := os.ReadFile(filepath.Join(dir, e.Name()))
		if err != nil {
			return nil, err
		}

		s := Script{
			Name:   name,
			Source: string(source),
		}
		if out, err := os.ReadFile(filepath.Join(dir, name+".out")); err == nil {
			s.WantOut = string(out)
		}
		if errGold, err := os.ReadFile(filepath.Join(dir, name+".err")); err == nil {
			s.WantErr = strings.TrimSpace(string(errGold))
			s.WantExit = exitFromName(name)
		}
		scripts = append(scripts, s)
	}
	return scripts, nil
}

// exitFromName maps the golden naming convention to an exit status:
// scripts named err-parse-* fail at parse time (65), everything else with
// an .err golden fails at runtime (70).
func exitFromName(name string) int {
	if strings.HasPrefix(name, "err-parse-") {
		return 65
	}
	return 70
}
