package thir

import (
	"fmt"
	"strings"
)

// DumpStmt renders a statement as an indented s-expression for debugging.
// This is the only human-readable surface of the IR; the symbolic backend
// consumes the tree directly.
func DumpStmt(s ThStmt) string {
	var sb strings.Builder
	writeStmt(&sb, s, 0)
	return sb.String()
}

// DumpExpr renders an expression as a single-line s-expression
func DumpExpr(e ThExpr) string {
	var sb strings.Builder
	writeExpr(&sb, e)
	return sb.String()
}

func writeStmt(sb *strings.Builder, s ThStmt, depth int) {
	indent := strings.Repeat("  ", depth)
	sb.WriteString(indent)

	switch v := s.(type) {
	case *TSPass:
		sb.WriteString("(pass)")
	case *TSExpr:
		sb.WriteString("(expr ")
		writeExpr(sb, v.Value)
		sb.WriteString(")")
	case *TSSeq:
		sb.WriteString("(seq\n")
		writeStmt(sb, v.First, depth+1)
		sb.WriteString("\n")
		writeStmt(sb, v.Second, depth+1)
		sb.WriteString(")")
	case *TSAssign:
		sb.WriteString("(assign ")
		writeExpr(sb, v.Target)
		sb.WriteString(" ")
		writeExpr(sb, v.Value)
		sb.WriteString(")")
	case *TSIf:
		sb.WriteString("(if ")
		writeExpr(sb, v.Cond)
		sb.WriteString("\n")
		writeStmt(sb, v.Then, depth+1)
		sb.WriteString("\n")
		writeStmt(sb, v.Else, depth+1)
		sb.WriteString(")")
	case *TSForIn:
		fmt.Fprintf(sb, "(for %s ", v.Ident)
		writeExpr(sb, v.Iter)
		sb.WriteString("\n")
		writeStmt(sb, v.Body, depth+1)
		sb.WriteString(")")
	case *TSBreak:
		sb.WriteString("(break)")
	case *TSContinue:
		sb.WriteString("(continue)")
	case *TSReturn:
		sb.WriteString("(return ")
		writeExpr(sb, v.Value)
		sb.WriteString(")")
	case *TSLet:
		fmt.Fprintf(sb, "(let %s", v.Name)
		if v.Init != nil {
			sb.WriteString(" = ")
			writeExpr(sb, v.Init)
		}
		sb.WriteString("\n")
		writeStmt(sb, v.Body, depth+1)
		sb.WriteString(")")
	case *TSFunDef:
		fmt.Fprintf(sb, "(fundef %s (%s)\n", v.Name, strings.Join(v.Params, " "))
		writeStmt(sb, v.Body, depth+1)
		sb.WriteString("\n")
		writeStmt(sb, v.Rest, depth+1)
		sb.WriteString(")")
	}
}

func writeExpr(sb *strings.Builder, e ThExpr) {
	if e == nil {
		sb.WriteString("<nil>")
		return
	}

	switch v := e.(type) {
	case *TEConst:
		switch v.Kind {
		case ConstString:
			fmt.Fprintf(sb, "%q", v.Value)
		case ConstNone:
			sb.WriteString("None")
		default:
			fmt.Fprintf(sb, "%v", v.Value)
		}
	case *TEObject:
		sb.WriteString("(object)")
	case *TETuple:
		sb.WriteString("(tuple")
		for _, val := range v.Values {
			sb.WriteString(" ")
			writeExpr(sb, val)
		}
		sb.WriteString(")")
	case *TEName:
		sb.WriteString(v.Ident)
	case *TEAttr:
		sb.WriteString("(attr ")
		writeExpr(sb, v.Base)
		fmt.Fprintf(sb, " %s)", v.Name)
	case *TESubscr:
		sb.WriteString("(subscr ")
		writeExpr(sb, v.Base)
		sb.WriteString(" ")
		writeExpr(sb, v.Index)
		sb.WriteString(")")
	case *TECall:
		sb.WriteString("(call ")
		writeExpr(sb, v.Func)
		for _, arg := range v.Args {
			sb.WriteString(" ")
			writeExpr(sb, arg)
		}
		sb.WriteString(")")
	case *TELibCall:
		fmt.Fprintf(sb, "(libcall %s", v.Kind)
		for _, p := range v.Params {
			fmt.Fprintf(sb, " %s=", p.Key)
			writeExpr(sb, p.Value)
		}
		sb.WriteString(")")
	case *TEBinOp:
		fmt.Fprintf(sb, "(%s ", v.Op)
		writeExpr(sb, v.Left)
		sb.WriteString(" ")
		writeExpr(sb, v.Right)
		sb.WriteString(")")
	case *TEUnaryOp:
		fmt.Fprintf(sb, "(%s ", v.Op)
		writeExpr(sb, v.Operand)
		sb.WriteString(")")
	}
}
