package lower

import (
	"thea/pyast"
	"thea/thir"
)

// classPart is one emitted piece of a lowered class block: either a plain
// statement or a function definition awaiting its continuation
type classPart struct {
	stmt thir.ThStmt
	fn   funDefPart
}

// lowerClass lowers a class statement.  The class object is a plain record:
// the block allocates it, hangs class attributes and methods off it, then
// installs the synthetic `__new__` and `__call__` machinery, the linearized
// `__mro__` tuple, and `__name__`.  `rest` is the statement list following
// the class; it becomes the continuation in which the class name is bound.
func (t *Translator) lowerClass(v *pyast.Class, rest []pyast.Stmt) (thir.ThStmt, error) {
	parts := []classPart{{
		stmt: thir.NewAssign(thir.NewName(v.Name, nil), thir.NewObject(nil), t.ref(v)),
	}}

	// split the body: class-attribute assignments keep their order, methods
	// are collected so __init__ can be emitted first
	var initFn *pyast.Function
	var methods []*pyast.Function
	hadCall := false

	for _, stmt := range v.Body {
		switch b := stmt.(type) {
		case *pyast.Assignment:
			if name, ok := b.Target.(*pyast.Name); ok {
				value, err := t.lowerExpr(b.Value)
				if err != nil {
					return nil, err
				}
				parts = append(parts, classPart{
					stmt: thir.NewAssign(thir.NewAttr(thir.NewName(v.Name, nil), name.ID, nil), value, t.ref(b)),
				})
			} else {
				// class-level destructuring and attribute targets are not
				// modeled
				parts = append(parts, classPart{stmt: thir.NewPass(t.ref(b))})
			}
		case *pyast.Function:
			switch b.Name {
			case "__new__":
				// user-defined __new__ is ignored; the synthetic one below
				// establishes the backend's address convention
			case "__init__":
				initFn = b
			case "__call__":
				hadCall = true
				methods = append(methods, b)
			default:
				methods = append(methods, b)
			}
		case *pyast.Pass:
		case *pyast.ExprStmt:
			// docstrings and other effect-free class-body expressions
		default:
			parts = append(parts, classPart{stmt: thir.NewPass(t.ref(stmt))})
		}
	}

	// __init__ first, user-defined or synthetic
	if initFn != nil {
		part, err := t.lowerFunctionPart(
			initFn,
			v.Name+"$__init__",
			thir.NewAttr(thir.NewName(v.Name, nil), "__init__", nil),
			v.Name,
		)
		if err != nil {
			return nil, err
		}
		parts = append(parts, classPart{fn: part})
	} else {
		parts = append(parts, classPart{fn: t.syntheticInit(v.Name)})
	}

	// remaining methods in textual order; __call__ is stored under the
	// trampoline name so instances dispatch through the bound forwarder
	// installed by __new__
	for _, m := range methods {
		stored := m.Name
		if stored == "__call__" {
			stored = "self$call"
		}

		part, err := t.lowerFunctionPart(
			m,
			v.Name+"$"+stored,
			thir.NewAttr(thir.NewName(v.Name, nil), stored, nil),
			v.Name,
		)
		if err != nil {
			return nil, err
		}
		parts = append(parts, classPart{fn: part})
	}

	parts = append(parts, classPart{fn: t.syntheticNew(v.Name, hadCall)})

	ctorPart, err := t.syntheticCtor(v, initFn)
	if err != nil {
		return nil, err
	}
	parts = append(parts, classPart{fn: ctorPart})

	mro, err := t.classMRO(v)
	if err != nil {
		return nil, err
	}
	parts = append(parts,
		classPart{stmt: thir.NewAssign(thir.NewAttr(thir.NewName(v.Name, nil), "__mro__", nil), mro, nil)},
		classPart{stmt: thir.NewAssign(thir.NewAttr(thir.NewName(v.Name, nil), "__name__", nil), thir.NewString(v.Name, nil), nil)},
	)

	cont, err := t.lowerSuite(rest)
	if err != nil {
		return nil, err
	}

	// assemble right-to-left so every FunDef's continuation covers the rest
	// of the block
	result := cont
	for i := len(parts) - 1; i >= 0; i-- {
		if parts[i].fn != nil {
			result = parts[i].fn(result)
		} else {
			result = thir.NewSeq(parts[i].stmt, result, nil)
		}
	}

	return result, nil
}

// classMRO builds the linearized method-resolution tuple `(C, B₁, …, object)`.
// No C3 resolution is performed; the backend scans the tuple in order.
func (t *Translator) classMRO(v *pyast.Class) (thir.ThExpr, error) {
	values := []thir.ThExpr{thir.NewName(v.Name, nil)}

	endsWithObject := false
	for _, base := range v.Bases {
		expr, err := t.lowerExpr(base)
		if err != nil {
			return nil, err
		}
		values = append(values, expr)

		name, ok := base.(*pyast.Name)
		endsWithObject = ok && name.ID == "object"
	}

	if !endsWithObject {
		values = append(values, thir.NewName("object", nil))
	}

	return thir.NewTuple(values, nil), nil
}

// syntheticInit builds the default `__init__(self, *args, **kwargs)` that
// delegates to `super().__init__(*args, **kwargs)`
func (t *Translator) syntheticInit(className string) funDefPart {
	superInit := thir.NewAttr(thir.NewLibCall(thir.LCSuper, []thir.LibCallParam{
		{Key: "baseClass", Value: thir.NewName("__class__", nil)},
		{Key: "self", Value: thir.NewName("__self__", nil)},
	}, nil), "__init__", nil)

	delegate := thir.NewExprStmt(thir.NewLibCall(thir.LCCallKV, []thir.LibCallParam{
		{Key: "$func", Value: superInit},
		{Key: "$varargs", Value: thir.NewName("args", nil)},
		{Key: "$kwargs", Value: thir.NewName("kwargs", nil)},
	}, nil), nil)

	body := t.wrapMethodBody(
		thir.NewSeq(delegate, thir.NewReturn(thir.NewNone(nil), nil), nil),
		[]string{"self"},
		className,
	)

	bound := thir.NewLibCall(thir.LCSetDefault, []thir.LibCallParam{
		{Key: "$func", Value: thir.NewName(className+"$__init__", nil)},
		{Key: "$varargsName", Value: thir.NewString("args", nil)},
		{Key: "$kwargsName", Value: thir.NewString("kwargs", nil)},
	}, nil)

	return func(cont thir.ThStmt) thir.ThStmt {
		rest := thir.NewSeq(thir.NewAssign(
			thir.NewAttr(thir.NewName(className, nil), "__init__", nil), bound, nil), cont, nil)
		return thir.NewFunDef(className+"$__init__", []string{"self", "args", "kwargs"}, body, rest, nil)
	}
}

// syntheticNew builds `C$__new__(cls)`: allocate through `super().__new__`,
// record the backend's self-address convention, and, for callable classes,
// install the bound `__call__` forwarder on the fresh instance.
func (t *Translator) syntheticNew(className string, hadCall bool) funDefPart {
	alloc := thir.NewCall(
		thir.NewAttr(thir.NewLibCall(thir.LCSuper, []thir.LibCallParam{
			{Key: "baseClass", Value: thir.NewName(className, nil)},
			{Key: "self", Value: thir.NewName("cls", nil)},
		}, nil), "__new__", nil),
		[]thir.ThExpr{thir.NewName(className, nil)},
		nil,
	)

	tail := thir.ThStmt(thir.NewReturn(thir.NewName("self", nil), nil))

	if hadCall {
		forward := thir.NewReturn(thir.NewLibCall(thir.LCCallKV, []thir.LibCallParam{
			{Key: "$func", Value: thir.NewAttr(thir.NewName("self", nil), "self$call", nil)},
			{Key: "$varargs", Value: thir.NewName("args", nil)},
			{Key: "$kwargs", Value: thir.NewName("kwargs", nil)},
		}, nil), nil)

		install := thir.NewAssign(
			thir.NewAttr(thir.NewName("self", nil), "__call__", nil),
			thir.NewLibCall(thir.LCSetDefault, []thir.LibCallParam{
				{Key: "$func", Value: thir.NewName("__call__", nil)},
				{Key: "$varargsName", Value: thir.NewString("args", nil)},
				{Key: "$kwargsName", Value: thir.NewString("kwargs", nil)},
			}, nil),
			nil,
		)

		tail = thir.NewFunDef("__call__", []string{"args", "kwargs"}, forward,
			thir.NewSeq(install, tail, nil), nil)
	}

	body := thir.NewLet("self",
		thir.NewSeq(
			thir.NewAssign(
				thir.NewAttr(thir.NewName("self", nil), "$addr", nil),
				thir.NewName("self", nil),
				nil,
			),
			tail,
			nil,
		),
		alloc,
		nil,
	)

	return func(cont thir.ThStmt) thir.ThStmt {
		rest := thir.NewSeq(thir.NewAssign(
			thir.NewAttr(thir.NewName(className, nil), "__new__", nil),
			thir.NewName(className+"$__new__", nil), nil), cont, nil)
		return thir.NewFunDef(className+"$__new__", []string{"cls"}, body, rest, nil)
	}
}

// simplePositionalInit reports whether a user __init__ takes only simple
// positional parameters with no defaults; such classes get a constructor
// with the same parameter names so plain calls stay plain
func simplePositionalInit(initFn *pyast.Function) bool {
	if initFn == nil {
		return false
	}
	for _, param := range initFn.Params {
		if param.Category != pyast.ParamSimple || param.Default != nil {
			return false
		}
	}
	return true
}

// syntheticCtor builds `C$__call__`, the function invoked when the class
// itself is called: allocate with `C.__new__`, copy the class MRO onto the
// instance, run `C.__init__`, and return the instance
func (t *Translator) syntheticCtor(v *pyast.Class, initFn *pyast.Function) (funDefPart, error) {
	className := v.Name

	copyMRO := thir.NewAssign(
		thir.NewAttr(thir.NewName("self", nil), "__mro__", nil),
		thir.NewAttr(thir.NewName(className, nil), "__mro__", nil),
		nil,
	)

	alloc := thir.NewCall(
		thir.NewAttr(thir.NewName(className, nil), "__new__", nil),
		[]thir.ThExpr{thir.NewName(className, nil)},
		nil,
	)

	if simplePositionalInit(initFn) {
		params := make([]string, 0, len(initFn.Params)-1)
		initArgs := []thir.ThExpr{thir.NewName("self", nil)}
		for i, param := range initFn.Params {
			if i == 0 {
				continue
			}
			params = append(params, param.Name)
			initArgs = append(initArgs, thir.NewName(param.Name, nil))
		}

		body := thir.NewLet("self",
			thir.NewSeq(copyMRO,
				thir.NewSeq(
					thir.NewExprStmt(thir.NewCall(
						thir.NewAttr(thir.NewName(className, nil), "__init__", nil), initArgs, nil), nil),
					thir.NewReturn(thir.NewName("self", nil), nil),
					nil,
				),
				nil,
			),
			alloc,
			nil,
		)

		return func(cont thir.ThStmt) thir.ThStmt {
			rest := thir.NewSeq(thir.NewAssign(
				thir.NewAttr(thir.NewName(className, nil), "__call__", nil),
				thir.NewName(className+"$__call__", nil), nil), cont, nil)
			return thir.NewFunDef(className+"$__call__", params, body, rest, nil)
		}, nil
	}

	// general constructor: accept anything and dispatch through callKV
	initCall := thir.NewExprStmt(thir.NewLibCall(thir.LCCallKV, []thir.LibCallParam{
		{Key: "$func", Value: thir.NewAttr(thir.NewName(className, nil), "__init__", nil)},
		{Key: "param$0", Value: thir.NewName("self", nil)},
		{Key: "$varargs", Value: thir.NewName("args", nil)},
		{Key: "$kwargs", Value: thir.NewName("kwargs", nil)},
	}, nil), nil)

	body := thir.NewLet("self",
		thir.NewSeq(copyMRO,
			thir.NewSeq(initCall, thir.NewReturn(thir.NewName("self", nil), nil), nil),
			nil,
		),
		alloc,
		nil,
	)

	bound := thir.NewLibCall(thir.LCSetDefault, []thir.LibCallParam{
		{Key: "$func", Value: thir.NewName(className+"$__call__", nil)},
		{Key: "$varargsName", Value: thir.NewString("args", nil)},
		{Key: "$kwargsName", Value: thir.NewString("kwargs", nil)},
	}, nil)

	return func(cont thir.ThStmt) thir.ThStmt {
		rest := thir.NewSeq(thir.NewAssign(
			thir.NewAttr(thir.NewName(className, nil), "__call__", nil), bound, nil), cont, nil)
		return thir.NewFunDef(className+"$__call__", []string{"args", "kwargs"}, body, rest, nil)
	}, nil
}
