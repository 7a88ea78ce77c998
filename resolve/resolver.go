package resolve

import (
	"thea/collect"
	"thea/names"
	"thea/thir"
)

// Resolver answers the backend's symbolic-import queries against the two
// module maps a session produced.  Project modules always shadow library
// modules of the same qualified path.
type Resolver struct {
	project *collect.ModuleMap
	lib     *collect.ModuleMap
}

// NewResolver creates a resolver over a project map and a library map
func NewResolver(project, lib *collect.ModuleMap) *Resolver {
	return &Resolver{project: project, lib: lib}
}

// Resolution is a successful module lookup.  IsInit reports that the match
// came from the `q.__init__` form, which the backend uses to attach package
// `__path__` semantics.
type Resolution struct {
	Stmt    thir.ThStmt
	Qual    string
	IsInit  bool
	FromLib bool
}

// Resolve looks up a qualified path.  The search order is fixed: project
// `q`, project `q.__init__`, library `q`, library `q.__init__`.  A miss is a
// distinct result, not an error: the backend models unresolved imports
// symbolically.
func (r *Resolver) Resolve(qual string) (*Resolution, bool) {
	maps := []struct {
		mmap    *collect.ModuleMap
		fromLib bool
	}{
		{r.project, false},
		{r.lib, true},
	}

	for _, m := range maps {
		if m.mmap == nil {
			continue
		}

		if stmt, ok := m.mmap.Get(qual); ok {
			return &Resolution{Stmt: stmt, Qual: qual, FromLib: m.fromLib}, true
		}
		if stmt, ok := m.mmap.Get(qual + ".__init__"); ok {
			return &Resolution{Stmt: stmt, Qual: qual, IsInit: true, FromLib: m.fromLib}, true
		}
	}

	return nil, false
}

// CandidatePaths expands a possibly-relative import into the cumulative
// qualified paths the backend imports in order.  This is a thin re-export of
// the shared qualified-path scan so backend code needs no second
// implementation.
func (r *Resolver) CandidatePaths(qual, currentQual string) []string {
	return names.ScanQualPath(qual, currentQual)
}
