package watcher

import (
	"fmt"
	"strings"

	"github.com/gobwas/glob"
)

type compiledPattern struct {
	pattern string
	glob    glob.Glob
}

// Filter decides which paths under the watched root are of interest. Paths
// are relative and slash-separated.
type Filter struct {
	include []compiledPattern
	exclude []compiledPattern
}

// NewFilter compiles include and exclude globs. With no include patterns every
// path not excluded matches.
func NewFilter(include, exclude []string) (*Filter, error) {
	f := &Filter{}
	var err error
	if f.include, err = compile(include); err != nil {
		return nil, err
	}
	if f.exclude, err = compile(exclude); err != nil {
		return nil, err
	}
	return f, nil
}

func compile(patterns []string) ([]compiledPattern, error) {
	out := make([]compiledPattern, 0, len(patterns))
	for _, p := range patterns {
		g, err := glob.Compile(p, '/')
		if err != nil {
			return nil, fmt.Errorf("compile pattern %q: %w", p, err)
		}
		out = append(out, compiledPattern{pattern: p, glob: g})
	}
	return out, nil
}

// Match reports whether rel passes the filter.
func (f *Filter) Match(rel string) bool {
	if f.Excluded(rel) {
		return false
	}
	if len(f.include) == 0 {
		return true
	}
	return matchesAny(rel, f.include)
}

// Excluded reports whether rel, or a directory it would sit under, matches an
// exclude pattern. "node_modules" is excluded by "node_modules/**".
func (f *Filter) Excluded(rel string) bool {
	return matchesAny(rel, f.exclude) || matchesAny(rel+"/**", f.exclude)
}

// matchesAny treats a leading "**/" as optional, so "**/*.md" also matches
// "README.md" at the root.
func matchesAny(path string, patterns []compiledPattern) bool {
	for _, cp := range patterns {
		if cp.glob.Match(path) {
			return true
		}
		if rest, ok := strings.CutPrefix(cp.pattern, "**/"); ok && !strings.Contains(path, "/") {
			if g, err := glob.Compile(rest, '/'); err == nil && g.Match(path) {
				return true
			}
		}
	}
	return false
}
