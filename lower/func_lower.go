package lower

import (
	"thea/names"
	"thea/pyast"
	"thea/thir"
)

// funDefPart is a fully lowered function awaiting its continuation.  Class
// and suite lowering assemble parts right-to-left so that each defined name
// is bound in everything that follows it, while the lowering itself ran in
// textual order.
type funDefPart func(cont thir.ThStmt) thir.ThStmt

// lowerFunctionPart lowers `def` into a FunDef named `innerName` whose
// continuation assigns the finished function value to `target`.  When
// `className` is non-empty the body is wrapped with the `__class__` and
// `__self__` bindings `super()` reads.
//
// A function with defaults, varargs, or kwargs does not become the bound
// value directly: the continuation routes it through the backend's
// setDefault primitive, which records default values, the vararg/kwarg
// names, and the number of keyword-only parameters.
func (t *Translator) lowerFunctionPart(v *pyast.Function, innerName string, target thir.ThExpr, className string) (funDefPart, error) {
	paramNames := make([]string, len(v.Params))
	for i, param := range v.Params {
		paramNames[i] = param.Name
	}

	// defaults are evaluated at definition time, before the body
	var defaults []thir.LibCallParam
	for _, param := range v.Params {
		if param.Category != pyast.ParamSimple || param.Default == nil {
			continue
		}

		value, err := t.lowerExpr(param.Default)
		if err != nil {
			return nil, err
		}
		defaults = append(defaults, thir.LibCallParam{Key: param.Name, Value: value})
	}

	varargsName, kwargsName := "", ""
	keyOnlyNum := 0
	sawVarargs := false
	for _, param := range v.Params {
		switch param.Category {
		case pyast.ParamVarArgList:
			varargsName = param.Name
			sawVarargs = true
		case pyast.ParamVarArgDictionary:
			kwargsName = param.Name
		case pyast.ParamSimple:
			if sawVarargs {
				keyOnlyNum++
			}
		}
	}

	suite, err := t.lowerSuite(v.Body)
	if err != nil {
		return nil, err
	}

	body := thir.ThStmt(thir.NewSeq(suite, thir.NewReturn(thir.NewNone(nil), nil), nil))
	body = t.wrapLocalLets(names.ExtractLocalDef(v.Body, paramNames), body)

	if className != "" {
		body = t.wrapMethodBody(body, paramNames, className)
	}

	var bound thir.ThExpr
	if len(defaults) == 0 && varargsName == "" && kwargsName == "" {
		bound = thir.NewName(innerName, nil)
	} else {
		params := []thir.LibCallParam{{Key: "$func", Value: thir.NewName(innerName, nil)}}
		params = append(params, defaults...)
		if varargsName != "" {
			params = append(params, thir.LibCallParam{Key: "$varargsName", Value: thir.NewString(varargsName, nil)})
		}
		if kwargsName != "" {
			params = append(params, thir.LibCallParam{Key: "$kwargsName", Value: thir.NewString(kwargsName, nil)})
		}
		if keyOnlyNum > 0 {
			params = append(params, thir.LibCallParam{Key: "$keyOnlyNum", Value: thir.NewInt(int64(keyOnlyNum), nil)})
		}
		bound = thir.NewLibCall(thir.LCSetDefault, params, nil)
	}

	ref := t.ref(v)
	return func(cont thir.ThStmt) thir.ThStmt {
		rest := thir.NewSeq(thir.NewAssign(target, bound, nil), cont, nil)
		return thir.NewFunDef(innerName, paramNames, body, rest, ref)
	}, nil
}

// wrapMethodBody binds `__class__` and `__self__` around a method body so
// that argument-less `super()` can recover both
func (t *Translator) wrapMethodBody(body thir.ThStmt, paramNames []string, className string) thir.ThStmt {
	var selfInit thir.ThExpr
	if len(paramNames) > 0 {
		selfInit = thir.NewName(paramNames[0], nil)
	}

	return thir.NewLet("__class__",
		thir.NewLet("__self__", body, selfInit, nil),
		thir.NewName(className, nil),
		nil,
	)
}
