package names

import (
	"thea/pyast"
	"thea/thir"
)

// binOps maps parser operator tokens onto IR binary operators.  The
// comparison operators the IR has no kind for (`>`, `>=`, `not in`,
// `is not`) are deliberately absent: the lowering engine normalizes those
// before mapping.
var binOps = map[pyast.OpKind]thir.BinOpKind{
	pyast.OpAdd:      thir.OpAdd,
	pyast.OpSub:      thir.OpSub,
	pyast.OpMul:      thir.OpMul,
	pyast.OpDiv:      thir.OpDiv,
	pyast.OpFloorDiv: thir.OpFloorDiv,
	pyast.OpMod:      thir.OpMod,
	pyast.OpPow:      thir.OpPow,
	pyast.OpAnd:      thir.OpAnd,
	pyast.OpOr:       thir.OpOr,
	pyast.OpIs:       thir.OpIs,
	pyast.OpIn:       thir.OpIn,
	pyast.OpLt:       thir.OpLt,
	pyast.OpLte:      thir.OpLte,
	pyast.OpEq:       thir.OpEq,
	pyast.OpNeq:      thir.OpNeq,
	pyast.OpBitAnd:   thir.OpBitAnd,
	pyast.OpBitOr:    thir.OpBitOr,
	pyast.OpBitXor:   thir.OpBitXor,
	pyast.OpLShift:   thir.OpLShift,
	pyast.OpRShift:   thir.OpRShift,
}

var unaryOps = map[pyast.OpKind]thir.UnaryOpKind{
	pyast.OpNeg:    thir.OpNeg,
	pyast.OpNot:    thir.OpNot,
	pyast.OpInvert: thir.OpInvert,
	pyast.OpPos:    thir.OpPos,
}

// ParseBinOp maps a parser binary operator token to its IR kind
func ParseBinOp(op pyast.OpKind) (thir.BinOpKind, bool) {
	irOp, ok := binOps[op]
	return irOp, ok
}

// ParseUnaryOp maps a parser unary operator token to its IR kind
func ParseUnaryOp(op pyast.OpKind) (thir.UnaryOpKind, bool) {
	irOp, ok := unaryOps[op]
	return irOp, ok
}

// FlattenAttrPath flattens a chain of member accesses rooted at a plain name
// into its dotted components.  The boolean is false when the expression is
// not a pure `name.attr.attr` chain.
func FlattenAttrPath(e pyast.Expr) ([]string, bool) {
	switch v := e.(type) {
	case *pyast.Name:
		return []string{v.ID}, true
	case *pyast.MemberAccess:
		base, ok := FlattenAttrPath(v.Base)
		if !ok {
			return nil, false
		}
		return append(base, v.Attr), true
	default:
		return nil, false
	}
}
