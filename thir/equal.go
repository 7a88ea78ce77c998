package thir

// StmtEqual tests two statements for structural equality.  Source references
// are ignored: two lowerings of the same tree from different buffers compare
// equal.
func StmtEqual(a, b ThStmt) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}

	switch av := a.(type) {
	case *TSPass:
		_, ok := b.(*TSPass)
		return ok
	case *TSExpr:
		bv, ok := b.(*TSExpr)
		return ok && ExprEqual(av.Value, bv.Value)
	case *TSSeq:
		bv, ok := b.(*TSSeq)
		return ok && StmtEqual(av.First, bv.First) && StmtEqual(av.Second, bv.Second)
	case *TSAssign:
		bv, ok := b.(*TSAssign)
		return ok && ExprEqual(av.Target, bv.Target) && ExprEqual(av.Value, bv.Value)
	case *TSIf:
		bv, ok := b.(*TSIf)
		return ok && ExprEqual(av.Cond, bv.Cond) && StmtEqual(av.Then, bv.Then) && StmtEqual(av.Else, bv.Else)
	case *TSForIn:
		bv, ok := b.(*TSForIn)
		return ok && av.Ident == bv.Ident && ExprEqual(av.Iter, bv.Iter) && StmtEqual(av.Body, bv.Body)
	case *TSBreak:
		_, ok := b.(*TSBreak)
		return ok
	case *TSContinue:
		_, ok := b.(*TSContinue)
		return ok
	case *TSReturn:
		bv, ok := b.(*TSReturn)
		return ok && ExprEqual(av.Value, bv.Value)
	case *TSLet:
		bv, ok := b.(*TSLet)
		return ok && av.Name == bv.Name && StmtEqual(av.Body, bv.Body) && ExprEqual(av.Init, bv.Init)
	case *TSFunDef:
		bv, ok := b.(*TSFunDef)
		if !ok || av.Name != bv.Name || len(av.Params) != len(bv.Params) {
			return false
		}
		for i, p := range av.Params {
			if p != bv.Params[i] {
				return false
			}
		}
		return StmtEqual(av.Body, bv.Body) && StmtEqual(av.Rest, bv.Rest)
	}

	return false
}

// ExprEqual tests two expressions for structural equality, ignoring source
// references
func ExprEqual(a, b ThExpr) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}

	switch av := a.(type) {
	case *TEConst:
		bv, ok := b.(*TEConst)
		return ok && av.Kind == bv.Kind && av.Value == bv.Value
	case *TEObject:
		_, ok := b.(*TEObject)
		return ok
	case *TETuple:
		bv, ok := b.(*TETuple)
		if !ok || len(av.Values) != len(bv.Values) {
			return false
		}
		for i, v := range av.Values {
			if !ExprEqual(v, bv.Values[i]) {
				return false
			}
		}
		return true
	case *TEName:
		bv, ok := b.(*TEName)
		return ok && av.Ident == bv.Ident
	case *TEAttr:
		bv, ok := b.(*TEAttr)
		return ok && av.Name == bv.Name && ExprEqual(av.Base, bv.Base)
	case *TESubscr:
		bv, ok := b.(*TESubscr)
		return ok && ExprEqual(av.Base, bv.Base) && ExprEqual(av.Index, bv.Index)
	case *TECall:
		bv, ok := b.(*TECall)
		if !ok || !ExprEqual(av.Func, bv.Func) || len(av.Args) != len(bv.Args) {
			return false
		}
		for i, arg := range av.Args {
			if !ExprEqual(arg, bv.Args[i]) {
				return false
			}
		}
		return true
	case *TELibCall:
		bv, ok := b.(*TELibCall)
		if !ok || av.Kind != bv.Kind || len(av.Params) != len(bv.Params) {
			return false
		}
		for i, p := range av.Params {
			if p.Key != bv.Params[i].Key || !ExprEqual(p.Value, bv.Params[i].Value) {
				return false
			}
		}
		return true
	case *TEBinOp:
		bv, ok := b.(*TEBinOp)
		return ok && av.Op == bv.Op && ExprEqual(av.Left, bv.Left) && ExprEqual(av.Right, bv.Right)
	case *TEUnaryOp:
		bv, ok := b.(*TEUnaryOp)
		return ok && av.Op == bv.Op && ExprEqual(av.Operand, bv.Operand)
	}

	return false
}
