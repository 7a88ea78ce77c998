package names

import "strings"

// ScanQualPath resolves the relative-import syntax of a qualified path and
// returns the cumulative prefix list the backend imports in order.  For an
// absolute path the result is simply its prefixes:
//
//	ScanQualPath("a.b.c", "") = ["a", "a.b", "a.b.c"]
//
// Leading dots step out of `currentQual`:
//
//	ScanQualPath("..X", "p.q.r") = ["p", "p.X"]
//
// When `currentQual` is empty the leading dots are preserved verbatim as a
// literal prefix.  Both the frontend (for import lowering) and the backend
// (for resolution) call this, so it stays a pure function.
func ScanQualPath(qual, currentQual string) []string {
	dots := 0
	for dots < len(qual) && qual[dots] == '.' {
		dots++
	}

	var segments []string
	if tail := qual[dots:]; tail != "" {
		segments = strings.Split(tail, ".")
	}

	var paths []string
	prefix := ""

	if dots > 0 {
		if currentQual == "" {
			prefix = strings.Repeat(".", dots)
			if len(segments) == 0 {
				return []string{prefix}
			}
		} else {
			current := strings.Split(currentQual, ".")
			keep := len(current) - dots
			if keep < 1 {
				keep = 1
			}

			for i := 1; i <= keep; i++ {
				paths = append(paths, strings.Join(current[:i], "."))
			}
			prefix = paths[len(paths)-1] + "."
		}
	}

	for i := range segments {
		paths = append(paths, prefix+strings.Join(segments[:i+1], "."))
	}

	return paths
}
