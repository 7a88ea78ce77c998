package collect

import "thea/thir"

// ModuleMap maps qualified module paths onto lowered module statements.
// Insertion order is preserved so map iteration (reports, IR dumps) stays
// deterministic across runs.
type ModuleMap struct {
	stmts map[string]thir.ThStmt
	paths []string
}

func NewModuleMap() *ModuleMap {
	return &ModuleMap{stmts: make(map[string]thir.ThStmt)}
}

// Set records a lowered module.  Re-registering a path overwrites the
// statement but keeps the original position in the ordering.
func (m *ModuleMap) Set(qualPath string, stmt thir.ThStmt) {
	if _, ok := m.stmts[qualPath]; !ok {
		m.paths = append(m.paths, qualPath)
	}
	m.stmts[qualPath] = stmt
}

// Get looks up a lowered module by qualified path
func (m *ModuleMap) Get(qualPath string) (thir.ThStmt, bool) {
	stmt, ok := m.stmts[qualPath]
	return stmt, ok
}

// Paths returns the qualified paths in insertion order
func (m *ModuleMap) Paths() []string {
	return m.paths
}

// Len returns the number of lowered modules
func (m *ModuleMap) Len() int {
	return len(m.paths)
}
