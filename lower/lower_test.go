package lower

import (
	"fmt"
	"testing"

	"github.com/davecgh/go-spew/spew"

	"thea/pyast"
	"thea/thir"
)

func newTestTranslator() *Translator {
	return NewTranslator("test.py", "a.b.c", Options{IgnoreAssert: true})
}

func assertStmtEqual(t *testing.T, expected, result thir.ThStmt) {
	t.Helper()
	if !thir.StmtEqual(expected, result) {
		fmt.Printf("Error, expected:\n%s\nbut got:\n%s\n", thir.DumpStmt(expected), thir.DumpStmt(result))
		fmt.Printf("Expected tree: %s\n", spew.Sdump(expected))
		t.Fail()
	}
}

// TestLowerFunctionDefaults covers `def f(a, b=1, *args, c, **kw): return a`:
// the inner definition takes every parameter positionally and the
// continuation routes the value through setDefault with the default, the
// vararg/kwarg names, and the keyword-only count.
func TestLowerFunctionDefaults(t *testing.T) {
	fn := &pyast.Function{
		Name: "f",
		Params: []pyast.Param{
			{Name: "a", Category: pyast.ParamSimple},
			{Name: "b", Category: pyast.ParamSimple, Default: &pyast.Number{IntVal: 1}},
			{Name: "args", Category: pyast.ParamVarArgList},
			{Name: "c", Category: pyast.ParamSimple},
			{Name: "kw", Category: pyast.ParamVarArgDictionary},
		},
		Body: []pyast.Stmt{&pyast.Return{Value: &pyast.Name{ID: "a"}}},
	}

	result, err := newTestTranslator().lowerSuite([]pyast.Stmt{fn})
	if err != nil {
		t.Fatal(err)
	}

	expected := thir.NewFunDef("f$TMP$", []string{"a", "b", "args", "c", "kw"},
		thir.NewSeq(
			thir.NewReturn(thir.NewName("a", nil), nil),
			thir.NewReturn(thir.NewNone(nil), nil),
			nil,
		),
		thir.NewSeq(
			thir.NewAssign(
				thir.NewName("f", nil),
				thir.NewLibCall(thir.LCSetDefault, []thir.LibCallParam{
					{Key: "$func", Value: thir.NewName("f$TMP$", nil)},
					{Key: "b", Value: thir.NewInt(1, nil)},
					{Key: "$varargsName", Value: thir.NewString("args", nil)},
					{Key: "$kwargsName", Value: thir.NewString("kw", nil)},
					{Key: "$keyOnlyNum", Value: thir.NewInt(1, nil)},
				}, nil),
				nil,
			),
			thir.NewPass(nil),
			nil,
		),
		nil,
	)

	assertStmtEqual(t, expected, result)
}

// TestLowerFunctionSimpleAlias checks that a function with no defaults,
// varargs, or kwargs is aliased directly instead of going through setDefault
func TestLowerFunctionSimpleAlias(t *testing.T) {
	fn := &pyast.Function{
		Name:   "f",
		Params: []pyast.Param{{Name: "a", Category: pyast.ParamSimple}},
		Body:   []pyast.Stmt{&pyast.Return{Value: &pyast.Name{ID: "a"}}},
	}

	result, err := newTestTranslator().lowerSuite([]pyast.Stmt{fn})
	if err != nil {
		t.Fatal(err)
	}

	fd, ok := result.(*thir.TSFunDef)
	if !ok {
		t.Fatalf("expected FunDef, got %s", spew.Sdump(result))
	}

	alias := thir.NewAssign(thir.NewName("f", nil), thir.NewName("f$TMP$", nil), nil)
	if !thir.StmtEqual(fd.Rest, thir.NewSeq(alias, thir.NewPass(nil), nil)) {
		t.Errorf("expected plain alias continuation, got:\n%s", thir.DumpStmt(fd.Rest))
	}
}

// TestLowerWhile covers `while x < 10: x = x + 1`: the loop becomes a
// bounded range iteration whose body re-tests the condition and breaks
func TestLowerWhile(t *testing.T) {
	loop := &pyast.While{
		Cond: &pyast.BinaryOperation{Op: pyast.OpLt, Left: &pyast.Name{ID: "x"}, Right: &pyast.Number{IntVal: 10}},
		Body: []pyast.Stmt{
			&pyast.Assignment{
				Target: &pyast.Name{ID: "x"},
				Value:  &pyast.BinaryOperation{Op: pyast.OpAdd, Left: &pyast.Name{ID: "x"}, Right: &pyast.Number{IntVal: 1}},
			},
		},
	}

	result, err := newTestTranslator().lowerStmt(loop)
	if err != nil {
		t.Fatal(err)
	}

	expected := thir.NewForIn("$Imm1",
		thir.NewCall(thir.NewName("range", nil), []thir.ThExpr{thir.NewInt(300, nil)}, nil),
		thir.NewIf(
			thir.NewBinOp(thir.OpLt, thir.NewName("x", nil), thir.NewInt(10, nil), nil),
			thir.NewAssign(
				thir.NewName("x", nil),
				thir.NewBinOp(thir.OpAdd, thir.NewName("x", nil), thir.NewInt(1, nil), nil),
				nil,
			),
			thir.NewBreak(nil),
			nil,
		),
		nil,
	)

	assertStmtEqual(t, expected, result)
}

// TestLowerDestructure covers `a, b = t`
func TestLowerDestructure(t *testing.T) {
	assign := &pyast.Assignment{
		Target: &pyast.Tuple{Elts: []pyast.Expr{&pyast.Name{ID: "a"}, &pyast.Name{ID: "b"}}},
		Value:  &pyast.Name{ID: "t"},
	}

	result, err := newTestTranslator().lowerStmt(assign)
	if err != nil {
		t.Fatal(err)
	}

	expected := thir.NewLet("$Imm1",
		thir.NewSeq(
			thir.NewAssign(
				thir.NewName("a", nil),
				thir.NewSubscr(thir.NewName("$Imm1", nil), thir.NewInt(0, nil), nil),
				nil,
			),
			thir.NewAssign(
				thir.NewName("b", nil),
				thir.NewSubscr(thir.NewName("$Imm1", nil), thir.NewInt(1, nil), nil),
				nil,
			),
			nil,
		),
		thir.NewName("t", nil),
		nil,
	)

	assertStmtEqual(t, expected, result)
}

// TestLowerNestedDestructure checks recursive destructuring against nested
// fresh temporaries
func TestLowerNestedDestructure(t *testing.T) {
	assign := &pyast.Assignment{
		Target: &pyast.Tuple{Elts: []pyast.Expr{
			&pyast.Name{ID: "a"},
			&pyast.Tuple{Elts: []pyast.Expr{&pyast.Name{ID: "b"}, &pyast.Name{ID: "c"}}},
		}},
		Value: &pyast.Name{ID: "t"},
	}

	result, err := newTestTranslator().lowerStmt(assign)
	if err != nil {
		t.Fatal(err)
	}

	let, ok := result.(*thir.TSLet)
	if !ok || let.Name != "$Imm1" {
		t.Fatalf("expected outer Let $Imm1, got:\n%s", thir.DumpStmt(result))
	}

	seq := let.Body.(*thir.TSSeq)
	inner, ok := seq.Second.(*thir.TSLet)
	if !ok || inner.Name != "$Imm2" {
		t.Fatalf("expected nested Let $Imm2, got:\n%s", thir.DumpStmt(seq.Second))
	}
}

// TestLowerRelativeImport covers `from ..pkg import mod as m` inside module
// a.b.c
func TestLowerRelativeImport(t *testing.T) {
	imp := &pyast.ImportFrom{
		Qual:  "..pkg",
		Names: []pyast.ImportName{{Name: "mod", Alias: "m"}},
	}

	result, err := newTestTranslator().lowerStmt(imp)
	if err != nil {
		t.Fatal(err)
	}

	expected := thir.NewExprStmt(thir.NewLibCall(thir.LCImport, []thir.LibCallParam{
		{Key: "qualPath", Value: thir.NewString("a.pkg.mod", nil)},
		{Key: "assignTo", Value: thir.NewString("m", nil)},
	}, nil), nil)

	assertStmtEqual(t, expected, result)
}

func TestLowerImportForms(t *testing.T) {
	tr := newTestTranslator()

	result, err := tr.lowerStmt(&pyast.Import{Qual: "os.path"})
	if err != nil {
		t.Fatal(err)
	}
	assertStmtEqual(t, thir.NewExprStmt(thir.NewLibCall(thir.LCImportQualified, []thir.LibCallParam{
		{Key: "qualPath", Value: thir.NewString("os.path", nil)},
	}, nil), nil), result)

	result, err = tr.lowerStmt(&pyast.ImportAs{Qual: "numpy", Alias: "np"})
	if err != nil {
		t.Fatal(err)
	}
	assertStmtEqual(t, thir.NewExprStmt(thir.NewLibCall(thir.LCImport, []thir.LibCallParam{
		{Key: "qualPath", Value: thir.NewString("numpy", nil)},
		{Key: "assignTo", Value: thir.NewString("np", nil)},
	}, nil), nil), result)

	result, err = tr.lowerStmt(&pyast.ImportFrom{Qual: "torch", Star: true})
	if err != nil {
		t.Fatal(err)
	}
	assertStmtEqual(t, thir.NewExprStmt(thir.NewLibCall(thir.LCImport, []thir.LibCallParam{
		{Key: "qualPath", Value: thir.NewString("torch.*", nil)},
	}, nil), nil), result)

	// the LibCall pseudo-module is a syntactic marker, never a real import
	result, err = tr.lowerStmt(&pyast.Import{Qual: "LibCall"})
	if err != nil {
		t.Fatal(err)
	}
	assertStmtEqual(t, thir.NewPass(nil), result)

	result, err = tr.lowerStmt(&pyast.ImportFrom{Qual: ".", Names: []pyast.ImportName{{Name: "LibCall"}}})
	if err != nil {
		t.Fatal(err)
	}
	assertStmtEqual(t, thir.NewPass(nil), result)
}

// TestLowerAssert covers `assert x > 0, "pos"` with assertions enabled; the
// comparison is normalized to `<` with swapped operands
func TestLowerAssert(t *testing.T) {
	tr := NewTranslator("test.py", "", Options{IgnoreAssert: false})

	result, err := tr.lowerStmt(&pyast.Assert{
		Test: &pyast.BinaryOperation{Op: pyast.OpGt, Left: &pyast.Name{ID: "x"}, Right: &pyast.Number{IntVal: 0}},
		Msg:  &pyast.String{Value: "pos"},
	})
	if err != nil {
		t.Fatal(err)
	}

	expected := thir.NewIf(
		thir.NewBinOp(thir.OpLt, thir.NewInt(0, nil), thir.NewName("x", nil), nil),
		thir.NewPass(nil),
		thir.NewExprStmt(thir.NewLibCall(thir.LCRaise, []thir.LibCallParam{
			{Key: "value", Value: thir.NewCall(
				thir.NewName("AssertionError", nil),
				[]thir.ThExpr{thir.NewString("pos", nil)},
				nil,
			)},
		}, nil), nil),
		nil,
	)

	assertStmtEqual(t, expected, result)
}

func TestLowerAssertIgnored(t *testing.T) {
	result, err := newTestTranslator().lowerStmt(&pyast.Assert{
		Test: &pyast.Name{ID: "x"},
	})
	if err != nil {
		t.Fatal(err)
	}
	assertStmtEqual(t, thir.NewPass(nil), result)
}

func TestLowerRaise(t *testing.T) {
	tr := newTestTranslator()

	result, err := tr.lowerStmt(&pyast.Raise{Exc: &pyast.Call{Func: &pyast.Name{ID: "ValueError"}}})
	if err != nil {
		t.Fatal(err)
	}
	assertStmtEqual(t, thir.NewExprStmt(thir.NewLibCall(thir.LCRaise, []thir.LibCallParam{
		{Key: "value", Value: thir.NewCall(thir.NewName("ValueError", nil), nil, nil)},
	}, nil), nil), result)

	// a bare re-raise becomes a fresh RuntimeError
	result, err = tr.lowerStmt(&pyast.Raise{})
	if err != nil {
		t.Fatal(err)
	}
	assertStmtEqual(t, thir.NewExprStmt(thir.NewLibCall(thir.LCRaise, []thir.LibCallParam{
		{Key: "value", Value: thir.NewCall(thir.NewName("RuntimeError", nil), nil, nil)},
	}, nil), nil), result)
}
