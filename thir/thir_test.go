package thir

import (
	"strings"
	"testing"
)

func TestStmtEqualIgnoresSourceRefs(t *testing.T) {
	ref := &SourceRef{FileID: "a.py", Start: 4, Length: 9}
	otherRef := &SourceRef{FileID: "b.py", Start: 100, Length: 3}

	a := NewSeq(
		NewAssign(NewName("x", ref), NewInt(1, ref), ref),
		NewReturn(NewName("x", nil), ref),
		ref,
	)
	b := NewSeq(
		NewAssign(NewName("x", otherRef), NewInt(1, nil), nil),
		NewReturn(NewName("x", otherRef), nil),
		otherRef,
	)

	if !StmtEqual(a, b) {
		t.Error("structurally identical statements compared unequal")
	}
}

func TestStmtEqualDistinguishesStructure(t *testing.T) {
	a := NewAssign(NewName("x", nil), NewInt(1, nil), nil)

	cases := []ThStmt{
		NewAssign(NewName("y", nil), NewInt(1, nil), nil),
		NewAssign(NewName("x", nil), NewInt(2, nil), nil),
		NewAssign(NewName("x", nil), NewFloat(1, nil), nil),
		NewExprStmt(NewInt(1, nil), nil),
	}
	for i, c := range cases {
		if StmtEqual(a, c) {
			t.Errorf("case %d: distinct statements compared equal", i)
		}
	}
}

func TestExprEqualLibCall(t *testing.T) {
	mk := func(key string) ThExpr {
		return NewLibCall(LCImport, []LibCallParam{{Key: key, Value: NewString("os", nil)}}, nil)
	}

	if !ExprEqual(mk("qualPath"), mk("qualPath")) {
		t.Error("identical libcalls compared unequal")
	}
	if ExprEqual(mk("qualPath"), mk("assignTo")) {
		t.Error("libcalls with different keys compared equal")
	}
	if ExprEqual(
		NewLibCall(LCImport, nil, nil),
		NewLibCall(LCImportQualified, nil, nil),
	) {
		t.Error("libcalls with different kinds compared equal")
	}
}

func TestParseLibCallKindClosedSet(t *testing.T) {
	known := []string{
		"import", "importQualified", "super", "setDefault", "callKV", "getAttr",
		"exportGlobal", "genList", "genDict", "raise", "explicit", "objectClass", "DEBUG",
	}
	for _, name := range known {
		kind, ok := ParseLibCallKind(name)
		if !ok {
			t.Errorf("kind %s rejected", name)
		} else if kind.String() != name {
			t.Errorf("kind %s round-trips as %s", name, kind)
		}
	}

	for _, bad := range []string{"Import", "setdefault", "frobnicate", ""} {
		if _, ok := ParseLibCallKind(bad); ok {
			t.Errorf("unknown kind %q accepted", bad)
		}
	}
}

func TestIsLeftExpr(t *testing.T) {
	left := []ThExpr{
		NewName("x", nil),
		NewAttr(NewName("o", nil), "f", nil),
		NewSubscr(NewName("xs", nil), NewInt(0, nil), nil),
	}
	for i, e := range left {
		if !IsLeftExpr(e) {
			t.Errorf("case %d: left-expression rejected", i)
		}
	}

	right := []ThExpr{
		NewInt(1, nil),
		NewCall(NewName("f", nil), nil, nil),
		NewTuple(nil, nil),
	}
	for i, e := range right {
		if IsLeftExpr(e) {
			t.Errorf("case %d: non-left expression accepted", i)
		}
	}
}

func TestDumpStmtSmoke(t *testing.T) {
	stmt := NewLet("$module",
		NewSeq(
			NewAssign(NewName("x", nil), NewBinOp(OpAdd, NewInt(1, nil), NewInt(2, nil), nil), nil),
			NewExprStmt(NewLibCall(LCExportGlobal, []LibCallParam{
				{Key: "$module", Value: NewName("$module", nil)},
				{Key: "x", Value: NewName("x", nil)},
			}, nil), nil),
			nil,
		),
		NewObject(nil),
		nil,
	)

	out := DumpStmt(stmt)
	for _, frag := range []string{"(let $module = (object)", "(assign x (+ 1 2))", "(libcall exportGlobal"} {
		if !strings.Contains(out, frag) {
			t.Errorf("dump missing %q:\n%s", frag, out)
		}
	}
}
