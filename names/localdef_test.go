package names

import (
	"fmt"
	"reflect"
	"testing"

	"thea/pyast"
)

func testLocalDef(t *testing.T, stmts []pyast.Stmt, excluded []string, expected []string) {
	result := ExtractLocalDef(stmts, excluded).Sorted()
	if len(result) == 0 {
		result = nil
	}
	var want []string = expected
	if !reflect.DeepEqual(result, want) {
		fmt.Printf("Error, expected:\n   %#v\nbut got:\n   %#v\n", want, result)
		t.Fail()
	}
}

func TestExtractLocalDefBasics(t *testing.T) {
	stmts := []pyast.Stmt{
		&pyast.Assignment{Target: &pyast.Name{ID: "x"}, Value: &pyast.Number{IntVal: 1}},
		&pyast.AugmentedAssignment{Target: &pyast.Name{ID: "y"}, Op: pyast.OpAdd, Value: &pyast.Number{IntVal: 1}},
		&pyast.Function{Name: "f"},
		&pyast.Class{Name: "C"},
	}
	testLocalDef(t, stmts, nil, []string{"C", "f", "x", "y"})
	testLocalDef(t, stmts, []string{"x", "y"}, []string{"C", "f"})
}

func TestExtractLocalDefDestructureAndLoops(t *testing.T) {
	stmts := []pyast.Stmt{
		&pyast.Assignment{
			Target: &pyast.Tuple{Elts: []pyast.Expr{&pyast.Name{ID: "a"}, &pyast.Name{ID: "b"}}},
			Value:  &pyast.Name{ID: "t"},
		},
		&pyast.For{
			Target: &pyast.Name{ID: "i"},
			Iter:   &pyast.Name{ID: "xs"},
			Body: []pyast.Stmt{
				&pyast.Assignment{Target: &pyast.Name{ID: "acc"}, Value: &pyast.Name{ID: "i"}},
			},
		},
		&pyast.With{
			Items: []pyast.WithItem{{Context: &pyast.Name{ID: "open"}, Target: &pyast.Name{ID: "fh"}}},
		},
	}
	testLocalDef(t, stmts, nil, []string{"a", "acc", "b", "fh", "i"})
}

func TestExtractLocalDefGlobalRemoves(t *testing.T) {
	stmts := []pyast.Stmt{
		&pyast.Global{Names: []string{"counter"}},
		&pyast.Assignment{Target: &pyast.Name{ID: "counter"}, Value: &pyast.Number{IntVal: 1}},
		&pyast.Assignment{Target: &pyast.Name{ID: "local"}, Value: &pyast.Number{IntVal: 2}},
	}
	testLocalDef(t, stmts, nil, []string{"local"})
}

func TestExtractLocalDefSkipsNestedBodies(t *testing.T) {
	stmts := []pyast.Stmt{
		&pyast.Function{Name: "outer", Body: []pyast.Stmt{
			&pyast.Assignment{Target: &pyast.Name{ID: "inner"}, Value: &pyast.Number{IntVal: 1}},
		}},
		&pyast.If{Cond: &pyast.Constant{Value: pyast.ConstTrue}, Then: []pyast.Stmt{
			&pyast.Assignment{Target: &pyast.Name{ID: "branchy"}, Value: &pyast.Number{IntVal: 1}},
		}},
	}
	testLocalDef(t, stmts, nil, []string{"branchy", "outer"})
}

func TestExtractLocalDefImports(t *testing.T) {
	stmts := []pyast.Stmt{
		&pyast.Import{Qual: "torch.nn"},
		&pyast.ImportAs{Qual: "numpy", Alias: "np"},
		&pyast.ImportFrom{Qual: "os", Names: []pyast.ImportName{{Name: "path"}, {Name: "sep", Alias: "s"}}},
	}
	testLocalDef(t, stmts, nil, []string{"np", "path", "s", "torch"})
}

func TestExtractSingleImport(t *testing.T) {
	stmts := []pyast.Stmt{
		&pyast.Import{Qual: "os"},
		&pyast.Import{Qual: "torch.nn"},
		&pyast.ImportAs{Qual: "numpy", Alias: "np"},
		&pyast.ImportFrom{Qual: "os", Names: []pyast.ImportName{{Name: "path"}}},
	}

	result := ExtractSingleImport(stmts).Sorted()
	// `import torch.nn` is not a single-name binding
	expected := []string{"np", "os", "path"}
	if !reflect.DeepEqual(result, expected) {
		fmt.Printf("Error, expected:\n   %#v\nbut got:\n   %#v\n", expected, result)
		t.Fail()
	}
}

func TestFlattenAttrPath(t *testing.T) {
	path, ok := FlattenAttrPath(&pyast.MemberAccess{
		Base: &pyast.MemberAccess{Base: &pyast.Name{ID: "LibCall"}, Attr: "torch"},
		Attr: "matmul",
	})
	if !ok || !reflect.DeepEqual(path, []string{"LibCall", "torch", "matmul"}) {
		fmt.Printf("Error, got: %#v (%v)\n", path, ok)
		t.Fail()
	}

	if _, ok := FlattenAttrPath(&pyast.Call{Func: &pyast.Name{ID: "f"}}); ok {
		t.Error("expected non-chain expression to fail flattening")
	}
}
