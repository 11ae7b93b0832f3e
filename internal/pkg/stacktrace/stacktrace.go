package stacktrace

import (
	"bytes"
	"strings"
)

// InternalPaths returns the "internal/<pkg>/<file>.go:<line>" locations of a
// runtime/debug.Stack dump, innermost frame first. Frames outside the
// repository's internal tree are dropped.
func InternalPaths(stack []byte) []string {
	var paths []string
	for line := range bytes.Lines(stack) {
		loc := strings.TrimSpace(string(line))
		if !strings.Contains(loc, ".go:") {
			continue
		}

		loc, _, _ = strings.Cut(loc, " +0x")
		_, rel, found := strings.Cut(loc, "/internal/")
		if !found {
			continue
		}
		paths = append(paths, "internal/"+rel)
	}
	return paths
}
