package pyparse

import (
	"encoding/json"
	"fmt"

	"thea/pyast"
)

// rawNode is the wire shape of one AST node as emitted by the helper script.
// A single fat struct keeps the decoder a plain switch instead of a family of
// per-kind payload types.
type rawNode struct {
	Kind string `json:"kind"`
	Pos  [2]int `json:"pos"`

	Body   []*rawNode `json:"body"`
	Orelse []*rawNode `json:"orelse"`

	Name   string     `json:"name"`
	Params []rawParam `json:"params"`
	Bases  []*rawNode `json:"bases"`

	Target  *rawNode   `json:"target"`
	Targets []*rawNode `json:"targets"`
	Value   *rawNode   `json:"value"`
	Iter    *rawNode   `json:"iter"`
	Cond    *rawNode   `json:"cond"`
	Msg     *rawNode   `json:"msg"`
	Exc     *rawNode   `json:"exc"`

	Op      string   `json:"op"`
	Left    *rawNode `json:"left"`
	Right   *rawNode `json:"right"`
	Operand *rawNode `json:"operand"`
	Then    *rawNode `json:"then"`
	Else    *rawNode `json:"else"`

	Qual   string          `json:"qual"`
	Alias  string          `json:"alias"`
	Names  []rawImportName `json:"names"`
	Star   bool            `json:"star"`
	Idents []string        `json:"idents"`

	Items   []rawWithItem  `json:"items"`
	Elts    []*rawNode     `json:"elts"`
	Entries []rawDictEntry `json:"entries"`

	Func *rawNode     `json:"func"`
	Args []rawCallArg `json:"args"`

	Base *rawNode `json:"base"`
	Attr string   `json:"attr"`
	Sub  *rawNode `json:"sub"`
	Lo   *rawNode `json:"lo"`
	Hi   *rawNode `json:"hi"`
	Step *rawNode `json:"step"`

	IsFloat  bool     `json:"isFloat"`
	Int      int64    `json:"int"`
	Float    float64  `json:"float"`
	Str      string   `json:"str"`
	Parts    []string `json:"parts"`
	ConstTag string   `json:"const"`

	Reason string `json:"reason"`
}

type rawParam struct {
	Name     string   `json:"name"`
	Category string   `json:"category"`
	Default  *rawNode `json:"default"`
}

type rawImportName struct {
	Name  string `json:"name"`
	Alias string `json:"alias"`
}

type rawWithItem struct {
	Context *rawNode `json:"context"`
	Target  *rawNode `json:"target"`
}

type rawDictEntry struct {
	Key   *rawNode `json:"key"`
	Value *rawNode `json:"value"`
}

type rawCallArg struct {
	Mode  string   `json:"mode"`
	Name  string   `json:"name"`
	Value *rawNode `json:"value"`
}

// DecodeModule decodes the helper script's JSON output into a module tree
func DecodeModule(data []byte) (*pyast.Module, error) {
	root := &rawNode{}
	if err := json.Unmarshal(data, root); err != nil {
		return nil, fmt.Errorf("malformed AST dump: %s", err.Error())
	}
	if root.Kind != "Module" {
		return nil, fmt.Errorf("AST dump root is %s, not Module", root.Kind)
	}

	body, err := decodeSuite(root.Body)
	if err != nil {
		return nil, err
	}

	mod := &pyast.Module{Body: body}
	mod.SetPos(pyast.NewPos(root.Pos[0], root.Pos[1]))
	return mod, nil
}

func decodeSuite(raws []*rawNode) ([]pyast.Stmt, error) {
	stmts := make([]pyast.Stmt, 0, len(raws))
	for _, raw := range raws {
		stmt, err := decodeStmt(raw)
		if err != nil {
			return nil, err
		}
		stmts = append(stmts, stmt)
	}
	return stmts, nil
}

var binOpNames = map[string]pyast.OpKind{
	"+": pyast.OpAdd, "-": pyast.OpSub, "*": pyast.OpMul, "/": pyast.OpDiv,
	"//": pyast.OpFloorDiv, "%": pyast.OpMod, "**": pyast.OpPow,
	"and": pyast.OpAnd, "or": pyast.OpOr,
	"is": pyast.OpIs, "is not": pyast.OpIsNot, "in": pyast.OpIn, "not in": pyast.OpNotIn,
	"<": pyast.OpLt, "<=": pyast.OpLte, ">": pyast.OpGt, ">=": pyast.OpGte,
	"==": pyast.OpEq, "!=": pyast.OpNeq,
	"&": pyast.OpBitAnd, "|": pyast.OpBitOr, "^": pyast.OpBitXor,
	"<<": pyast.OpLShift, ">>": pyast.OpRShift,
}

var unaryOpNames = map[string]pyast.OpKind{
	"-": pyast.OpNeg, "+": pyast.OpPos, "not": pyast.OpNot, "~": pyast.OpInvert,
}

func decodeStmt(raw *rawNode) (pyast.Stmt, error) {
	var stmt pyast.Stmt
	var err error

	switch raw.Kind {
	case "Function":
		params := make([]pyast.Param, len(raw.Params))
		for i, rp := range raw.Params {
			param := pyast.Param{Name: rp.Name}
			switch rp.Category {
			case "varargs":
				param.Category = pyast.ParamVarArgList
			case "kwargs":
				param.Category = pyast.ParamVarArgDictionary
			default:
				param.Category = pyast.ParamSimple
			}
			if rp.Default != nil {
				if param.Default, err = decodeExpr(rp.Default); err != nil {
					return nil, err
				}
			}
			params[i] = param
		}

		body, err := decodeSuite(raw.Body)
		if err != nil {
			return nil, err
		}
		stmt = &pyast.Function{Name: raw.Name, Params: params, Body: body}
	case "Class":
		bases, err := decodeExprs(raw.Bases)
		if err != nil {
			return nil, err
		}
		body, err := decodeSuite(raw.Body)
		if err != nil {
			return nil, err
		}
		stmt = &pyast.Class{Name: raw.Name, Bases: bases, Body: body}
	case "Assignment":
		node := &pyast.Assignment{}
		if node.Target, err = decodeExpr(raw.Target); err != nil {
			return nil, err
		}
		if node.Value, err = decodeExpr(raw.Value); err != nil {
			return nil, err
		}
		stmt = node
	case "AugmentedAssignment":
		node := &pyast.AugmentedAssignment{Op: binOpNames[raw.Op]}
		if node.Target, err = decodeExpr(raw.Target); err != nil {
			return nil, err
		}
		if node.Value, err = decodeExpr(raw.Value); err != nil {
			return nil, err
		}
		stmt = node
	case "ExprStmt":
		node := &pyast.ExprStmt{}
		if node.Value, err = decodeExpr(raw.Value); err != nil {
			return nil, err
		}
		stmt = node
	case "If":
		node := &pyast.If{}
		if node.Cond, err = decodeExpr(raw.Cond); err != nil {
			return nil, err
		}
		if node.Then, err = decodeSuite(raw.Body); err != nil {
			return nil, err
		}
		if node.Else, err = decodeSuite(raw.Orelse); err != nil {
			return nil, err
		}
		stmt = node
	case "While":
		node := &pyast.While{}
		if node.Cond, err = decodeExpr(raw.Cond); err != nil {
			return nil, err
		}
		if node.Body, err = decodeSuite(raw.Body); err != nil {
			return nil, err
		}
		if node.Else, err = decodeSuite(raw.Orelse); err != nil {
			return nil, err
		}
		stmt = node
	case "For":
		node := &pyast.For{}
		if node.Target, err = decodeExpr(raw.Target); err != nil {
			return nil, err
		}
		if node.Iter, err = decodeExpr(raw.Iter); err != nil {
			return nil, err
		}
		if node.Body, err = decodeSuite(raw.Body); err != nil {
			return nil, err
		}
		if node.Else, err = decodeSuite(raw.Orelse); err != nil {
			return nil, err
		}
		stmt = node
	case "With":
		node := &pyast.With{Items: make([]pyast.WithItem, len(raw.Items))}
		for i, ri := range raw.Items {
			item := pyast.WithItem{}
			if item.Context, err = decodeExpr(ri.Context); err != nil {
				return nil, err
			}
			if ri.Target != nil {
				if item.Target, err = decodeExpr(ri.Target); err != nil {
					return nil, err
				}
			}
			node.Items[i] = item
		}
		if node.Body, err = decodeSuite(raw.Body); err != nil {
			return nil, err
		}
		stmt = node
	case "Import":
		stmt = &pyast.Import{Qual: raw.Qual}
	case "ImportAs":
		stmt = &pyast.ImportAs{Qual: raw.Qual, Alias: raw.Alias}
	case "ImportFrom":
		node := &pyast.ImportFrom{Qual: raw.Qual, Star: raw.Star}
		for _, rn := range raw.Names {
			node.Names = append(node.Names, pyast.ImportName{Name: rn.Name, Alias: rn.Alias})
		}
		stmt = node
	case "Return":
		node := &pyast.Return{}
		if raw.Value != nil {
			if node.Value, err = decodeExpr(raw.Value); err != nil {
				return nil, err
			}
		}
		stmt = node
	case "Raise":
		node := &pyast.Raise{}
		if raw.Exc != nil {
			if node.Exc, err = decodeExpr(raw.Exc); err != nil {
				return nil, err
			}
		}
		stmt = node
	case "Assert":
		node := &pyast.Assert{}
		if node.Test, err = decodeExpr(raw.Cond); err != nil {
			return nil, err
		}
		if raw.Msg != nil {
			if node.Msg, err = decodeExpr(raw.Msg); err != nil {
				return nil, err
			}
		}
		stmt = node
	case "Del":
		node := &pyast.Del{}
		if node.Targets, err = decodeExprs(raw.Targets); err != nil {
			return nil, err
		}
		stmt = node
	case "Global":
		stmt = &pyast.Global{Names: raw.Idents}
	case "Nonlocal":
		stmt = &pyast.Nonlocal{Names: raw.Idents}
	case "Pass":
		stmt = &pyast.Pass{}
	case "Break":
		stmt = &pyast.Break{}
	case "Continue":
		stmt = &pyast.Continue{}
	case "UnsupportedStmt":
		stmt = &pyast.UnsupportedStmt{Reason: raw.Reason}
	default:
		return nil, fmt.Errorf("unrecognized statement kind `%s` in AST dump", raw.Kind)
	}

	setPos(stmt, raw)
	return stmt, nil
}

func decodeExprs(raws []*rawNode) ([]pyast.Expr, error) {
	exprs := make([]pyast.Expr, 0, len(raws))
	for _, raw := range raws {
		expr, err := decodeExpr(raw)
		if err != nil {
			return nil, err
		}
		exprs = append(exprs, expr)
	}
	return exprs, nil
}

func decodeExpr(raw *rawNode) (pyast.Expr, error) {
	var expr pyast.Expr
	var err error

	switch raw.Kind {
	case "Name":
		expr = &pyast.Name{ID: raw.Name}
	case "Number":
		expr = &pyast.Number{IsFloat: raw.IsFloat, IntVal: raw.Int, FloatVal: raw.Float}
	case "String":
		expr = &pyast.String{Value: raw.Str}
	case "StringList":
		expr = &pyast.StringList{Parts: raw.Parts}
	case "Constant":
		node := &pyast.Constant{}
		switch raw.ConstTag {
		case "True":
			node.Value = pyast.ConstTrue
		case "False":
			node.Value = pyast.ConstFalse
		default:
			node.Value = pyast.ConstNone
		}
		expr = node
	case "Ellipsis":
		expr = &pyast.Ellipsis{}
	case "Tuple":
		node := &pyast.Tuple{}
		if node.Elts, err = decodeExprs(raw.Elts); err != nil {
			return nil, err
		}
		expr = node
	case "List":
		node := &pyast.List{}
		if node.Elts, err = decodeExprs(raw.Elts); err != nil {
			return nil, err
		}
		expr = node
	case "Dictionary":
		node := &pyast.Dictionary{Entries: make([]pyast.DictEntry, len(raw.Entries))}
		for i, re := range raw.Entries {
			entry := pyast.DictEntry{}
			if re.Key != nil {
				if entry.Key, err = decodeExpr(re.Key); err != nil {
					return nil, err
				}
			}
			if entry.Value, err = decodeExpr(re.Value); err != nil {
				return nil, err
			}
			node.Entries[i] = entry
		}
		expr = node
	case "BinaryOperation":
		op, ok := binOpNames[raw.Op]
		if !ok {
			return nil, fmt.Errorf("unrecognized binary operator `%s` in AST dump", raw.Op)
		}
		node := &pyast.BinaryOperation{Op: op}
		if node.Left, err = decodeExpr(raw.Left); err != nil {
			return nil, err
		}
		if node.Right, err = decodeExpr(raw.Right); err != nil {
			return nil, err
		}
		expr = node
	case "UnaryOperation":
		op, ok := unaryOpNames[raw.Op]
		if !ok {
			return nil, fmt.Errorf("unrecognized unary operator `%s` in AST dump", raw.Op)
		}
		node := &pyast.UnaryOperation{Op: op}
		if node.Operand, err = decodeExpr(raw.Operand); err != nil {
			return nil, err
		}
		expr = node
	case "Ternary":
		node := &pyast.Ternary{}
		if node.Cond, err = decodeExpr(raw.Cond); err != nil {
			return nil, err
		}
		if node.Then, err = decodeExpr(raw.Then); err != nil {
			return nil, err
		}
		if node.Else, err = decodeExpr(raw.Else); err != nil {
			return nil, err
		}
		expr = node
	case "MemberAccess":
		node := &pyast.MemberAccess{Attr: raw.Attr}
		if node.Base, err = decodeExpr(raw.Base); err != nil {
			return nil, err
		}
		expr = node
	case "Index":
		node := &pyast.Index{}
		if node.Base, err = decodeExpr(raw.Base); err != nil {
			return nil, err
		}
		if node.Sub, err = decodeExpr(raw.Sub); err != nil {
			return nil, err
		}
		expr = node
	case "Slice":
		node := &pyast.Slice{}
		if raw.Lo != nil {
			if node.Lo, err = decodeExpr(raw.Lo); err != nil {
				return nil, err
			}
		}
		if raw.Hi != nil {
			if node.Hi, err = decodeExpr(raw.Hi); err != nil {
				return nil, err
			}
		}
		if raw.Step != nil {
			if node.Step, err = decodeExpr(raw.Step); err != nil {
				return nil, err
			}
		}
		expr = node
	case "Call":
		node := &pyast.Call{Args: make([]pyast.CallArg, len(raw.Args))}
		if node.Func, err = decodeExpr(raw.Func); err != nil {
			return nil, err
		}
		for i, ra := range raw.Args {
			arg := pyast.CallArg{Name: ra.Name}
			switch ra.Mode {
			case "kw":
				arg.Kind = pyast.ArgKeyword
			case "star":
				arg.Kind = pyast.ArgStar
			case "dstar":
				arg.Kind = pyast.ArgDoubleStar
			default:
				arg.Kind = pyast.ArgPositional
			}
			if arg.Value, err = decodeExpr(ra.Value); err != nil {
				return nil, err
			}
			node.Args[i] = arg
		}
		expr = node
	case "Unsupported":
		expr = &pyast.Unsupported{Reason: raw.Reason}
	default:
		return nil, fmt.Errorf("unrecognized expression kind `%s` in AST dump", raw.Kind)
	}

	setPos(expr, raw)
	return expr, nil
}

func setPos(node pyast.Node, raw *rawNode) {
	if p, ok := node.(interface{ SetPos(pyast.Position) }); ok {
		p.SetPos(pyast.NewPos(raw.Pos[0], raw.Pos[1]))
	}
}
