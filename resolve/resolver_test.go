package resolve

import (
	"reflect"
	"testing"

	"thea/collect"
	"thea/thir"
)

func mapOf(entries map[string]thir.ThStmt) *collect.ModuleMap {
	m := collect.NewModuleMap()
	for qual, stmt := range entries {
		m.Set(qual, stmt)
	}
	return m
}

// TestResolveProjectShadowsLibrary: a project module always wins over a
// library module with the same qualified path
func TestResolveProjectShadowsLibrary(t *testing.T) {
	projStmt := thir.NewPass(nil)
	libStmt := thir.NewExprStmt(thir.NewNone(nil), nil)

	r := NewResolver(
		mapOf(map[string]thir.ThStmt{"x": projStmt}),
		mapOf(map[string]thir.ThStmt{"x": libStmt}),
	)

	res, ok := r.Resolve("x")
	if !ok {
		t.Fatal("expected resolution for x")
	}
	if res.FromLib {
		t.Error("project entry shadowed by library entry")
	}
	if !thir.StmtEqual(res.Stmt, projStmt) {
		t.Error("resolved the wrong statement")
	}
}

func TestResolveInitForm(t *testing.T) {
	r := NewResolver(
		collect.NewModuleMap(),
		mapOf(map[string]thir.ThStmt{"pkg.__init__": thir.NewPass(nil)}),
	)

	res, ok := r.Resolve("pkg")
	if !ok {
		t.Fatal("expected resolution through the __init__ form")
	}
	if !res.IsInit {
		t.Error("IsInit not reported for an __init__ match")
	}
	if !res.FromLib {
		t.Error("FromLib not reported for a library match")
	}
}

func TestResolveSearchOrder(t *testing.T) {
	r := NewResolver(
		mapOf(map[string]thir.ThStmt{"pkg.__init__": thir.NewPass(nil)}),
		mapOf(map[string]thir.ThStmt{"pkg": thir.NewPass(nil)}),
	)

	// project pkg.__init__ outranks library pkg
	res, ok := r.Resolve("pkg")
	if !ok {
		t.Fatal("expected resolution")
	}
	if res.FromLib || !res.IsInit {
		t.Errorf("wrong search order: FromLib=%v IsInit=%v", res.FromLib, res.IsInit)
	}
}

// TestResolveMiss: a miss is a distinct result, not an error
func TestResolveMiss(t *testing.T) {
	r := NewResolver(collect.NewModuleMap(), collect.NewModuleMap())
	if res, ok := r.Resolve("nowhere"); ok {
		t.Errorf("unexpected resolution: %#v", res)
	}
}

func TestCandidatePaths(t *testing.T) {
	r := NewResolver(nil, nil)
	result := r.CandidatePaths("..pkg.mod", "a.b.c")
	expected := []string{"a", "a.pkg", "a.pkg.mod"}
	if !reflect.DeepEqual(result, expected) {
		t.Errorf("expected %v, got %v", expected, result)
	}
}
