package lower

import (
	"strconv"
	"strings"

	"thea/names"
	"thea/pyast"
	"thea/thir"
)

// lowerExpr lowers an expression node.  Only nodes outside this dispatch
// table produce a hard error; recognized-but-unmodeled forms surface as an
// unsupported marker that statement lowering absorbs into a Pass.
func (t *Translator) lowerExpr(e pyast.Expr) (thir.ThExpr, error) {
	switch v := e.(type) {
	case *pyast.Name:
		return thir.NewName(v.ID, t.ref(v)), nil
	case *pyast.Number:
		if v.IsFloat {
			return thir.NewFloat(v.FloatVal, t.ref(v)), nil
		}
		return thir.NewInt(v.IntVal, t.ref(v)), nil
	case *pyast.String:
		return thir.NewString(v.Value, t.ref(v)), nil
	case *pyast.StringList:
		return thir.NewString(strings.Join(v.Parts, ""), t.ref(v)), nil
	case *pyast.Constant:
		switch v.Value {
		case pyast.ConstTrue:
			return thir.NewBool(true, t.ref(v)), nil
		case pyast.ConstFalse:
			return thir.NewBool(false, t.ref(v)), nil
		default:
			return thir.NewNone(t.ref(v)), nil
		}
	case *pyast.Ellipsis:
		return thir.NewNone(t.ref(v)), nil
	case *pyast.Tuple:
		values := make([]thir.ThExpr, 0, len(v.Elts))
		for _, elt := range v.Elts {
			value, err := t.lowerExpr(elt)
			if err != nil {
				return nil, err
			}
			values = append(values, value)
		}
		return thir.NewTuple(values, t.ref(v)), nil
	case *pyast.List:
		return t.lowerList(v)
	case *pyast.Dictionary:
		return t.lowerDict(v)
	case *pyast.BinaryOperation:
		return t.lowerBinOp(v)
	case *pyast.UnaryOperation:
		op, ok := names.ParseUnaryOp(v.Op)
		if !ok {
			return nil, t.errorf(v, "unrecognized unary operator")
		}
		operand, err := t.lowerExpr(v.Operand)
		if err != nil {
			return nil, err
		}
		return thir.NewUnaryOp(op, operand, t.ref(v)), nil
	case *pyast.MemberAccess:
		base, err := t.lowerExpr(v.Base)
		if err != nil {
			return nil, err
		}
		return thir.NewAttr(base, v.Attr, t.ref(v)), nil
	case *pyast.Index:
		return t.lowerIndex(v)
	case *pyast.Call:
		return t.lowerCall(v)
	case *pyast.Ternary:
		// the IR conditional is a statement; ternaries are handled where the
		// enclosing statement can be pushed into both arms, and anywhere else
		// they are an unmodeled form
		return nil, t.unsupported(v)
	case *pyast.Unsupported:
		return nil, t.unsupported(v)
	}

	return nil, t.errorf(e, "expression cannot be lowered")
}

// lowerList lowers a list display onto the backend's list allocator
func (t *Translator) lowerList(v *pyast.List) (thir.ThExpr, error) {
	params := make([]thir.LibCallParam, 0, len(v.Elts))
	for i, elt := range v.Elts {
		value, err := t.lowerExpr(elt)
		if err != nil {
			return nil, err
		}
		params = append(params, thir.LibCallParam{Key: "param$" + strconv.Itoa(i), Value: value})
	}
	return thir.NewLibCall(thir.LCGenList, params, t.ref(v)), nil
}

// lowerDict lowers a dict display onto the backend's dict allocator.  Each
// entry becomes one positional key/value pair; `**expansion` entries are
// dropped.
func (t *Translator) lowerDict(v *pyast.Dictionary) (thir.ThExpr, error) {
	var params []thir.LibCallParam
	i := 0
	for _, entry := range v.Entries {
		if entry.Key == nil {
			continue
		}

		key, err := t.lowerExpr(entry.Key)
		if err != nil {
			return nil, err
		}
		value, err := t.lowerExpr(entry.Value)
		if err != nil {
			return nil, err
		}

		params = append(params, thir.LibCallParam{
			Key:   "param$" + strconv.Itoa(i),
			Value: thir.NewTuple([]thir.ThExpr{key, value}, nil),
		})
		i++
	}
	return thir.NewLibCall(thir.LCGenDict, params, t.ref(v)), nil
}

// lowerBinOp lowers a binary operation, normalizing the comparison forms the
// IR has no kind for: `>`/`>=` flip to `<`/`<=` with swapped operands, and
// the negated membership/identity tests wrap their positive form in `not`.
func (t *Translator) lowerBinOp(v *pyast.BinaryOperation) (thir.ThExpr, error) {
	left, err := t.lowerExpr(v.Left)
	if err != nil {
		return nil, err
	}
	right, err := t.lowerExpr(v.Right)
	if err != nil {
		return nil, err
	}

	switch v.Op {
	case pyast.OpGt:
		return thir.NewBinOp(thir.OpLt, right, left, t.ref(v)), nil
	case pyast.OpGte:
		return thir.NewBinOp(thir.OpLte, right, left, t.ref(v)), nil
	case pyast.OpNotIn:
		return thir.NewUnaryOp(thir.OpNot, thir.NewBinOp(thir.OpIn, left, right, nil), t.ref(v)), nil
	case pyast.OpIsNot:
		return thir.NewUnaryOp(thir.OpNot, thir.NewBinOp(thir.OpIs, left, right, nil), t.ref(v)), nil
	}

	op, ok := names.ParseBinOp(v.Op)
	if !ok {
		return nil, t.errorf(v, "unrecognized binary operator")
	}
	return thir.NewBinOp(op, left, right, t.ref(v)), nil
}

// lowerIndex lowers a subscription.  Slice forms become a call to the stub
// library's `slice` builtin with `None` for absent bounds.
func (t *Translator) lowerIndex(v *pyast.Index) (thir.ThExpr, error) {
	base, err := t.lowerExpr(v.Base)
	if err != nil {
		return nil, err
	}

	var index thir.ThExpr
	if slice, ok := v.Sub.(*pyast.Slice); ok {
		index, err = t.lowerSlice(slice)
	} else {
		index, err = t.lowerExpr(v.Sub)
	}
	if err != nil {
		return nil, err
	}

	return thir.NewSubscr(base, index, t.ref(v)), nil
}

func (t *Translator) lowerSlice(v *pyast.Slice) (thir.ThExpr, error) {
	args := make([]thir.ThExpr, 3)
	for i, bound := range []pyast.Expr{v.Lo, v.Hi, v.Step} {
		if bound == nil {
			args[i] = thir.NewNone(nil)
			continue
		}

		arg, err := t.lowerExpr(bound)
		if err != nil {
			return nil, err
		}
		args[i] = arg
	}

	return thir.NewCall(thir.NewName("slice", nil), args, t.ref(v)), nil
}

// -----------------------------------------------------------------------------

// lowerCall lowers a call expression.  Three special shapes are recognized
// before general dispatch: `super(...)`, calls through the LibCall
// pseudo-module, and calls carrying keyword or unpacked arguments (which
// route through the backend's keyword-call dispatcher).
func (t *Translator) lowerCall(v *pyast.Call) (thir.ThExpr, error) {
	if name, ok := v.Func.(*pyast.Name); ok && name.ID == "super" && allPositional(v.Args) && len(v.Args) <= 2 {
		return t.lowerSuper(v)
	}

	if path, ok := names.FlattenAttrPath(v.Func); ok && path[0] == "LibCall" {
		return t.lowerLibCall(v, path[1:])
	}

	if allPositional(v.Args) {
		callee, err := t.lowerExpr(v.Func)
		if err != nil {
			return nil, err
		}

		args := make([]thir.ThExpr, 0, len(v.Args))
		for _, arg := range v.Args {
			value, err := t.lowerExpr(arg.Value)
			if err != nil {
				return nil, err
			}
			args = append(args, value)
		}
		return thir.NewCall(callee, args, t.ref(v)), nil
	}

	return t.lowerCallKV(v)
}

func allPositional(args []pyast.CallArg) bool {
	for _, arg := range args {
		if arg.Kind != pyast.ArgPositional {
			return false
		}
	}
	return true
}

// lowerSuper lowers the `super` builtin.  Missing arguments default to the
// `__class__`/`__self__` bindings the class lowering wraps around every
// method body.
func (t *Translator) lowerSuper(v *pyast.Call) (thir.ThExpr, error) {
	baseClass := thir.ThExpr(thir.NewName("__class__", nil))
	self := thir.ThExpr(thir.NewName("__self__", nil))

	var err error
	if len(v.Args) >= 1 {
		baseClass, err = t.lowerExpr(v.Args[0].Value)
		if err != nil {
			return nil, err
		}
	}
	if len(v.Args) == 2 {
		self, err = t.lowerExpr(v.Args[1].Value)
		if err != nil {
			return nil, err
		}
	}

	return thir.NewLibCall(thir.LCSuper, []thir.LibCallParam{
		{Key: "baseClass", Value: baseClass},
		{Key: "self", Value: self},
	}, t.ref(v)), nil
}

// lowerLibCall lowers an explicit `LibCall.x(...)` call site.  A handful of
// attribute paths map to dedicated kinds; everything else becomes an
// `explicit` call naming the remaining path.
func (t *Translator) lowerLibCall(v *pyast.Call, path []string) (thir.ThExpr, error) {
	if len(path) == 0 {
		return nil, t.errorf(v, "the LibCall pseudo-module is not callable")
	}

	var kind thir.LibCallKind
	var params []thir.LibCallParam

	switch {
	case len(path) == 1 && path[0] == "getAttr":
		kind = thir.LCGetAttr
	case len(path) == 1 && path[0] == "DEBUG":
		kind = thir.LCDebug
	case len(path) == 1 && path[0] == "objectClass":
		kind = thir.LCObjectClass
	default:
		kind = thir.LCExplicit
		params = append(params, thir.LibCallParam{
			Key:   "$func",
			Value: thir.NewString(strings.Join(path, "."), nil),
		})
	}

	argParams, err := t.lowerLibCallArgs(v.Args)
	if err != nil {
		return nil, err
	}

	return thir.NewLibCall(kind, append(params, argParams...), t.ref(v)), nil
}

// lowerLibCallArgs keys a call's arguments for a LibCall node: positionals
// as `param$i`, keywords by name, unpackings as `$varargs`/`$kwargs`
func (t *Translator) lowerLibCallArgs(args []pyast.CallArg) ([]thir.LibCallParam, error) {
	var params []thir.LibCallParam
	pos := 0

	for _, arg := range args {
		value, err := t.lowerExpr(arg.Value)
		if err != nil {
			return nil, err
		}

		switch arg.Kind {
		case pyast.ArgPositional:
			params = append(params, thir.LibCallParam{Key: "param$" + strconv.Itoa(pos), Value: value})
			pos++
		case pyast.ArgKeyword:
			params = append(params, thir.LibCallParam{Key: arg.Name, Value: value})
		case pyast.ArgStar:
			params = append(params, thir.LibCallParam{Key: "$varargs", Value: value})
		case pyast.ArgDoubleStar:
			params = append(params, thir.LibCallParam{Key: "$kwargs", Value: value})
		}
	}

	return params, nil
}

// lowerCallKV lowers a call with keyword or unpacked arguments through the
// backend's keyword-call dispatcher
func (t *Translator) lowerCallKV(v *pyast.Call) (thir.ThExpr, error) {
	callee, err := t.lowerExpr(v.Func)
	if err != nil {
		return nil, err
	}

	params := []thir.LibCallParam{{Key: "$func", Value: callee}}
	argParams, err := t.lowerLibCallArgs(v.Args)
	if err != nil {
		return nil, err
	}

	return thir.NewLibCall(thir.LCCallKV, append(params, argParams...), t.ref(v)), nil
}
