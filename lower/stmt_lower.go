package lower

import (
	"strings"

	"thea/names"
	"thea/pyast"
	"thea/thir"
)

// whileLoopBound is the fixed unroll budget for `while` loops.  The symbolic
// backend cannot fix-point arbitrary loops, so every `while` becomes a
// bounded iteration over `range(whileLoopBound)`.
const whileLoopBound = 300

// lowerSuite folds a statement list into a right-associated Seq.  Function
// and class definitions depart from textual order: the remaining statements
// become the continuation of the emitted FunDef or class block, so the
// defined name is bound in everything that follows it exactly once.
func (t *Translator) lowerSuite(stmts []pyast.Stmt) (thir.ThStmt, error) {
	if len(stmts) == 0 {
		return thir.NewPass(nil), nil
	}

	head, rest := stmts[0], stmts[1:]
	switch v := head.(type) {
	case *pyast.Function:
		part, err := t.lowerFunctionPart(v, v.Name+"$TMP$", thir.NewName(v.Name, t.ref(v)), "")
		if err != nil {
			if ue, ok := err.(*unsupportedError); ok {
				// an unmodeled construct in the header (e.g. a comprehension
				// default) drops the whole definition, not the whole file
				cont, err := t.lowerSuite(rest)
				if err != nil {
					return nil, err
				}
				return thir.NewSeq(thir.NewPass(ue.ref), cont, nil), nil
			}
			return nil, err
		}

		cont, err := t.lowerSuite(rest)
		if err != nil {
			return nil, err
		}
		return part(cont), nil
	case *pyast.Class:
		stmt, err := t.lowerClass(v, rest)
		if ue, ok := err.(*unsupportedError); ok {
			cont, err := t.lowerSuite(rest)
			if err != nil {
				return nil, err
			}
			return thir.NewSeq(thir.NewPass(ue.ref), cont, nil), nil
		}
		return stmt, err
	}

	first, err := passIfUnsupported(t.lowerStmt(head))
	if err != nil {
		return nil, err
	}

	if len(rest) == 0 {
		return first, nil
	}

	second, err := t.lowerSuite(rest)
	if err != nil {
		return nil, err
	}
	return thir.NewSeq(first, second, nil), nil
}

// lowerStmt lowers a single non-definition statement
func (t *Translator) lowerStmt(stmt pyast.Stmt) (thir.ThStmt, error) {
	switch v := stmt.(type) {
	case *pyast.Pass:
		return thir.NewPass(t.ref(v)), nil
	case *pyast.ExprStmt:
		return t.lowerExprStmt(v)
	case *pyast.Assignment:
		return t.lowerAssignment(v)
	case *pyast.AugmentedAssignment:
		return t.lowerAugAssignment(v)
	case *pyast.If:
		return t.lowerIf(v)
	case *pyast.For:
		return t.lowerFor(v)
	case *pyast.While:
		return t.lowerWhile(v)
	case *pyast.With:
		return t.lowerWith(v)
	case *pyast.Break:
		return thir.NewBreak(t.ref(v)), nil
	case *pyast.Continue:
		return thir.NewContinue(t.ref(v)), nil
	case *pyast.Return:
		return t.lowerReturn(v)
	case *pyast.Raise:
		return t.lowerRaise(v)
	case *pyast.Assert:
		return t.lowerAssert(v)
	case *pyast.Import:
		return t.lowerImport(v)
	case *pyast.ImportAs:
		return t.lowerImportAs(v)
	case *pyast.ImportFrom:
		return t.lowerImportFrom(v)
	case *pyast.Del, *pyast.Global, *pyast.Nonlocal:
		// name-scope effects of global/nonlocal are consumed by the local-def
		// scan; deletion is not modeled
		return thir.NewPass(t.ref(stmt)), nil
	case *pyast.Function:
		part, err := t.lowerFunctionPart(v, v.Name+"$TMP$", thir.NewName(v.Name, t.ref(v)), "")
		if err != nil {
			return nil, err
		}
		return part(thir.NewPass(nil)), nil
	case *pyast.Class:
		return t.lowerClass(v, nil)
	case *pyast.UnsupportedStmt:
		return nil, t.unsupported(v)
	}

	return nil, t.errorf(stmt, "statement cannot be lowered")
}

// lowerExprStmt lowers an expression statement.  Ternaries are statement-ified
// here since the IR conditional is a statement.
func (t *Translator) lowerExprStmt(v *pyast.ExprStmt) (thir.ThStmt, error) {
	if ter, ok := v.Value.(*pyast.Ternary); ok {
		return t.lowerTernaryStmt(ter, func(e thir.ThExpr) thir.ThStmt {
			return thir.NewExprStmt(e, t.ref(v))
		})
	}

	value, err := t.lowerExpr(v.Value)
	if err != nil {
		return nil, err
	}
	return thir.NewExprStmt(value, t.ref(v)), nil
}

// lowerTernaryStmt lowers `a if c else b` at a statement position by pushing
// the surrounding statement into both arms
func (t *Translator) lowerTernaryStmt(ter *pyast.Ternary, wrap func(thir.ThExpr) thir.ThStmt) (thir.ThStmt, error) {
	cond, err := t.lowerExpr(ter.Cond)
	if err != nil {
		return nil, err
	}
	thenE, err := t.lowerExpr(ter.Then)
	if err != nil {
		return nil, err
	}
	elseE, err := t.lowerExpr(ter.Else)
	if err != nil {
		return nil, err
	}

	return thir.NewIf(cond, wrap(thenE), wrap(elseE), t.ref(ter)), nil
}

// -----------------------------------------------------------------------------

// lowerAssignment lowers a single-target assignment, destructuring tuple and
// list targets
func (t *Translator) lowerAssignment(v *pyast.Assignment) (thir.ThStmt, error) {
	if ter, ok := v.Value.(*pyast.Ternary); ok {
		cond, err := t.lowerExpr(ter.Cond)
		if err != nil {
			return nil, err
		}
		thenE, err := t.lowerExpr(ter.Then)
		if err != nil {
			return nil, err
		}
		thenS, err := t.lowerAssignTo(v.Target, thenE)
		if err != nil {
			return nil, err
		}
		elseE, err := t.lowerExpr(ter.Else)
		if err != nil {
			return nil, err
		}
		elseS, err := t.lowerAssignTo(v.Target, elseE)
		if err != nil {
			return nil, err
		}
		return thir.NewIf(cond, thenS, elseS, t.ref(v)), nil
	}

	value, err := t.lowerExpr(v.Value)
	if err != nil {
		return nil, err
	}
	return t.lowerAssignTo(v.Target, value)
}

// lowerAssignTo stores `value` into an assignment target.  Tuple and list
// targets destructure through a fresh temporary: each element is recursively
// assigned from an indexed subscription of the temporary.
func (t *Translator) lowerAssignTo(target pyast.Expr, value thir.ThExpr) (thir.ThStmt, error) {
	switch v := target.(type) {
	case *pyast.Name:
		return thir.NewAssign(thir.NewName(v.ID, t.ref(v)), value, t.ref(v)), nil
	case *pyast.MemberAccess, *pyast.Index:
		lhs, err := t.lowerExpr(target)
		if err != nil {
			return nil, err
		}
		return thir.NewAssign(lhs, value, t.ref(target)), nil
	case *pyast.Tuple:
		return t.lowerDestructure(v.Elts, value, t.ref(v))
	case *pyast.List:
		return t.lowerDestructure(v.Elts, value, t.ref(v))
	case *pyast.Unsupported:
		// starred targets and other unmodeled forms
		return nil, t.unsupported(v)
	}

	return nil, t.errorf(target, "expression is not a valid assignment target")
}

func (t *Translator) lowerDestructure(elts []pyast.Expr, value thir.ThExpr, ref *thir.SourceRef) (thir.ThStmt, error) {
	temp := t.freshName()

	var body thir.ThStmt
	for i := len(elts) - 1; i >= 0; i-- {
		elem, err := t.lowerAssignTo(elts[i], thir.NewSubscr(
			thir.NewName(temp, nil),
			thir.NewInt(int64(i), nil),
			nil,
		))
		if err != nil {
			return nil, err
		}

		if body == nil {
			body = elem
		} else {
			body = thir.NewSeq(elem, body, nil)
		}
	}

	if body == nil {
		body = thir.NewPass(nil)
	}

	return thir.NewLet(temp, body, value, ref), nil
}

// lowerAugAssignment rewrites `x op= y` into `x = x op y`.  The target must
// already be a left-expression; anything else is a malformed tree.
func (t *Translator) lowerAugAssignment(v *pyast.AugmentedAssignment) (thir.ThStmt, error) {
	switch v.Target.(type) {
	case *pyast.Name, *pyast.MemberAccess, *pyast.Index:
	default:
		return nil, t.errorf(v, "augmented assignment target must be a name, attribute, or subscript")
	}

	op, ok := names.ParseBinOp(v.Op)
	if !ok {
		return nil, t.errorf(v, "operator cannot be used in augmented assignment")
	}

	// the target is lowered twice so the store and the load own their nodes
	// exclusively
	lhs, err := t.lowerExpr(v.Target)
	if err != nil {
		return nil, err
	}
	load, err := t.lowerExpr(v.Target)
	if err != nil {
		return nil, err
	}
	value, err := t.lowerExpr(v.Value)
	if err != nil {
		return nil, err
	}

	return thir.NewAssign(lhs, thir.NewBinOp(op, load, value, t.ref(v)), t.ref(v)), nil
}

// -----------------------------------------------------------------------------

func (t *Translator) lowerIf(v *pyast.If) (thir.ThStmt, error) {
	cond, err := t.lowerExpr(v.Cond)
	if err != nil {
		return nil, err
	}
	then, err := t.lowerSuite(v.Then)
	if err != nil {
		return nil, err
	}
	els, err := t.lowerSuite(v.Else)
	if err != nil {
		return nil, err
	}
	return thir.NewIf(cond, then, els, t.ref(v)), nil
}

// lowerFor lowers a for-loop.  Non-name targets destructure against a fresh
// temporary bound by the loop; the `else` suite is dropped.
func (t *Translator) lowerFor(v *pyast.For) (thir.ThStmt, error) {
	iter, err := t.lowerExpr(v.Iter)
	if err != nil {
		return nil, err
	}

	if name, ok := v.Target.(*pyast.Name); ok {
		body, err := t.lowerSuite(v.Body)
		if err != nil {
			return nil, err
		}
		return thir.NewForIn(name.ID, iter, body, t.ref(v)), nil
	}

	temp := t.freshName()
	bind, err := t.lowerAssignTo(v.Target, thir.NewName(temp, nil))
	if err != nil {
		return nil, err
	}

	body, err := t.lowerSuite(v.Body)
	if err != nil {
		return nil, err
	}

	return thir.NewForIn(temp, iter, thir.NewSeq(bind, body, nil), t.ref(v)), nil
}

// lowerWhile lowers a while-loop into a bounded iteration: the body runs at
// most whileLoopBound times, re-testing the condition on every round.
func (t *Translator) lowerWhile(v *pyast.While) (thir.ThStmt, error) {
	temp := t.freshName()

	cond, err := t.lowerExpr(v.Cond)
	if err != nil {
		return nil, err
	}
	body, err := t.lowerSuite(v.Body)
	if err != nil {
		return nil, err
	}

	iter := thir.NewCall(
		thir.NewName("range", nil),
		[]thir.ThExpr{thir.NewInt(whileLoopBound, nil)},
		nil,
	)

	return thir.NewForIn(temp, iter, thir.NewIf(cond, body, thir.NewBreak(nil), nil), t.ref(v)), nil
}

// lowerWith lowers `with e as t` into a plain assignment followed by the
// body; `__enter__`/`__exit__` are not invoked.
func (t *Translator) lowerWith(v *pyast.With) (thir.ThStmt, error) {
	body, err := t.lowerSuite(v.Body)
	if err != nil {
		return nil, err
	}

	for i := len(v.Items) - 1; i >= 0; i-- {
		item := v.Items[i]

		ctx, err := t.lowerExpr(item.Context)
		if err != nil {
			return nil, err
		}

		var bind thir.ThStmt
		if item.Target == nil {
			bind = thir.NewExprStmt(ctx, nil)
		} else {
			bind, err = t.lowerAssignTo(item.Target, ctx)
			if err != nil {
				return nil, err
			}
		}

		body = thir.NewSeq(bind, body, t.ref(v))
	}

	return body, nil
}

// -----------------------------------------------------------------------------

func (t *Translator) lowerReturn(v *pyast.Return) (thir.ThStmt, error) {
	if v.Value == nil {
		return thir.NewReturn(thir.NewNone(nil), t.ref(v)), nil
	}

	if ter, ok := v.Value.(*pyast.Ternary); ok {
		return t.lowerTernaryStmt(ter, func(e thir.ThExpr) thir.ThStmt {
			return thir.NewReturn(e, t.ref(v))
		})
	}

	value, err := t.lowerExpr(v.Value)
	if err != nil {
		return nil, err
	}
	return thir.NewReturn(value, t.ref(v)), nil
}

// lowerRaise lowers a raise to the backend's raise primitive; a bare
// `raise` re-raise becomes a fresh RuntimeError
func (t *Translator) lowerRaise(v *pyast.Raise) (thir.ThStmt, error) {
	var value thir.ThExpr
	if v.Exc == nil {
		value = thir.NewCall(thir.NewName("RuntimeError", nil), nil, nil)
	} else {
		var err error
		value, err = t.lowerExpr(v.Exc)
		if err != nil {
			return nil, err
		}
	}

	call := thir.NewLibCall(thir.LCRaise, []thir.LibCallParam{
		{Key: "value", Value: value},
	}, t.ref(v))

	return thir.NewExprStmt(call, t.ref(v)), nil
}

// lowerAssert lowers an assertion unless the configuration ignores them
func (t *Translator) lowerAssert(v *pyast.Assert) (thir.ThStmt, error) {
	if t.opt.IgnoreAssert {
		return thir.NewPass(t.ref(v)), nil
	}

	cond, err := t.lowerExpr(v.Test)
	if err != nil {
		return nil, err
	}

	var args []thir.ThExpr
	if v.Msg != nil {
		msg, err := t.lowerExpr(v.Msg)
		if err != nil {
			return nil, err
		}
		args = append(args, msg)
	}

	raise := thir.NewLibCall(thir.LCRaise, []thir.LibCallParam{
		{Key: "value", Value: thir.NewCall(thir.NewName("AssertionError", nil), args, nil)},
	}, t.ref(v))

	return thir.NewIf(cond, thir.NewPass(nil), thir.NewExprStmt(raise, nil), t.ref(v)), nil
}

// -----------------------------------------------------------------------------

// resolveQual resolves possibly-relative import syntax against the module
// being lowered and returns the full qualified path
func (t *Translator) resolveQual(qual string) string {
	paths := names.ScanQualPath(qual, t.qualPath)
	if len(paths) == 0 {
		return qual
	}
	return paths[len(paths)-1]
}

func lastSegment(qual string) string {
	if idx := strings.LastIndexByte(qual, '.'); idx >= 0 {
		return qual[idx+1:]
	}
	return qual
}

// lowerImport lowers `import a.b.c` (no alias).  Importing the LibCall
// pseudo-module is a syntactic marker only.
func (t *Translator) lowerImport(v *pyast.Import) (thir.ThStmt, error) {
	if lastSegment(v.Qual) == "LibCall" {
		return thir.NewPass(t.ref(v)), nil
	}

	call := thir.NewLibCall(thir.LCImportQualified, []thir.LibCallParam{
		{Key: "qualPath", Value: thir.NewString(t.resolveQual(v.Qual), nil)},
	}, t.ref(v))

	return thir.NewExprStmt(call, t.ref(v)), nil
}

// lowerImportAs lowers `import a.b as x`
func (t *Translator) lowerImportAs(v *pyast.ImportAs) (thir.ThStmt, error) {
	if lastSegment(v.Qual) == "LibCall" {
		return thir.NewPass(t.ref(v)), nil
	}

	call := thir.NewLibCall(thir.LCImport, []thir.LibCallParam{
		{Key: "qualPath", Value: thir.NewString(t.resolveQual(v.Qual), nil)},
		{Key: "assignTo", Value: thir.NewString(v.Alias, nil)},
	}, t.ref(v))

	return thir.NewExprStmt(call, t.ref(v)), nil
}

// lowerImportFrom lowers `from m import ...`, one import per name
func (t *Translator) lowerImportFrom(v *pyast.ImportFrom) (thir.ThStmt, error) {
	if lastSegment(v.Qual) == "LibCall" {
		return thir.NewPass(t.ref(v)), nil
	}

	base := t.resolveQual(v.Qual)

	if v.Star {
		call := thir.NewLibCall(thir.LCImport, []thir.LibCallParam{
			{Key: "qualPath", Value: thir.NewString(base+".*", nil)},
		}, t.ref(v))
		return thir.NewExprStmt(call, t.ref(v)), nil
	}

	var result thir.ThStmt
	for i := len(v.Names) - 1; i >= 0; i-- {
		name := v.Names[i]

		var stmt thir.ThStmt
		if name.Name == "LibCall" {
			stmt = thir.NewPass(t.ref(v))
		} else {
			stmt = thir.NewExprStmt(thir.NewLibCall(thir.LCImport, []thir.LibCallParam{
				{Key: "qualPath", Value: thir.NewString(base+"."+name.Name, nil)},
				{Key: "assignTo", Value: thir.NewString(name.BoundName(), nil)},
			}, t.ref(v)), t.ref(v))
		}

		if result == nil {
			result = stmt
		} else {
			result = thir.NewSeq(stmt, result, nil)
		}
	}

	if result == nil {
		result = thir.NewPass(t.ref(v))
	}
	return result, nil
}
