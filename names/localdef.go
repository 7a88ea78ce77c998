package names

import (
	"strings"

	"thea/pyast"
)

// ExtractLocalDef scans a statement list and returns the set of identifiers
// the block will bind: targets of plain and augmented assignment, for-loop
// and with-statement targets, function and class declarations, and names
// bound by imports.  `global`/`nonlocal` declarations remove names from the
// local set.  Nested function and class bodies are not descended; control
// flow suites are.  Names in `excluded` (typically the enclosing function's
// parameters) are dropped from the result.
func ExtractLocalDef(stmts []pyast.Stmt, excluded []string) StringSet {
	locals := make(StringSet)
	nonLocals := make(StringSet)
	scanLocalDef(stmts, locals, nonLocals)

	for name := range nonLocals {
		locals.Remove(name)
	}
	for _, name := range excluded {
		locals.Remove(name)
	}

	return locals
}

func scanLocalDef(stmts []pyast.Stmt, locals, nonLocals StringSet) {
	for _, stmt := range stmts {
		switch v := stmt.(type) {
		case *pyast.Assignment:
			addTargetNames(v.Target, locals)
		case *pyast.AugmentedAssignment:
			addTargetNames(v.Target, locals)
		case *pyast.For:
			addTargetNames(v.Target, locals)
			scanLocalDef(v.Body, locals, nonLocals)
			scanLocalDef(v.Else, locals, nonLocals)
		case *pyast.While:
			scanLocalDef(v.Body, locals, nonLocals)
			scanLocalDef(v.Else, locals, nonLocals)
		case *pyast.If:
			scanLocalDef(v.Then, locals, nonLocals)
			scanLocalDef(v.Else, locals, nonLocals)
		case *pyast.With:
			for _, item := range v.Items {
				if item.Target != nil {
					addTargetNames(item.Target, locals)
				}
			}
			scanLocalDef(v.Body, locals, nonLocals)
		case *pyast.Function:
			locals.Add(v.Name)
		case *pyast.Class:
			locals.Add(v.Name)
		case *pyast.Import:
			// `import a.b.c` binds the first segment
			locals.Add(strings.SplitN(v.Qual, ".", 2)[0])
		case *pyast.ImportAs:
			locals.Add(v.Alias)
		case *pyast.ImportFrom:
			for _, name := range v.Names {
				locals.Add(name.BoundName())
			}
		case *pyast.Global:
			for _, name := range v.Names {
				nonLocals.Add(name)
			}
		case *pyast.Nonlocal:
			for _, name := range v.Names {
				nonLocals.Add(name)
			}
		}
	}
}

// addTargetNames collects the names bound by an assignment target, recursing
// through tuple and list destructuring.  Attribute and subscript targets bind
// no local name.
func addTargetNames(target pyast.Expr, locals StringSet) {
	switch v := target.(type) {
	case *pyast.Name:
		locals.Add(v.ID)
	case *pyast.Tuple:
		for _, elt := range v.Elts {
			addTargetNames(elt, locals)
		}
	case *pyast.List:
		for _, elt := range v.Elts {
			addTargetNames(elt, locals)
		}
	}
}

// ExtractSingleImport returns the set of names this scope binds through
// single-name imports: `import x`, `import a as x`, and `from m import x`.
// The module export pass subtracts these so that imported names are not
// re-exported as globals.
func ExtractSingleImport(stmts []pyast.Stmt) StringSet {
	imported := make(StringSet)
	scanSingleImport(stmts, imported)
	return imported
}

func scanSingleImport(stmts []pyast.Stmt, imported StringSet) {
	for _, stmt := range stmts {
		switch v := stmt.(type) {
		case *pyast.Import:
			if !strings.Contains(v.Qual, ".") {
				imported.Add(v.Qual)
			}
		case *pyast.ImportAs:
			imported.Add(v.Alias)
		case *pyast.ImportFrom:
			for _, name := range v.Names {
				imported.Add(name.BoundName())
			}
		case *pyast.For:
			scanSingleImport(v.Body, imported)
			scanSingleImport(v.Else, imported)
		case *pyast.While:
			scanSingleImport(v.Body, imported)
			scanSingleImport(v.Else, imported)
		case *pyast.If:
			scanSingleImport(v.Then, imported)
			scanSingleImport(v.Else, imported)
		case *pyast.With:
			scanSingleImport(v.Body, imported)
		}
	}
}
