package pyparse

// convertScript is the helper handed to the host CPython interpreter.  It
// parses one file (or stdin when the argument is `-`) with the `ast` module
// and prints the tree as JSON in the shape pyparse decodes.  Positions are
// converted to byte offsets here, where the source bytes are at hand.
const convertScript = `
import ast, json, sys

BIN_OPS = {
    ast.Add: "+", ast.Sub: "-", ast.Mult: "*", ast.Div: "/",
    ast.FloorDiv: "//", ast.Mod: "%", ast.Pow: "**",
    ast.BitAnd: "&", ast.BitOr: "|", ast.BitXor: "^",
    ast.LShift: "<<", ast.RShift: ">>",
}
CMP_OPS = {
    ast.Lt: "<", ast.LtE: "<=", ast.Gt: ">", ast.GtE: ">=",
    ast.Eq: "==", ast.NotEq: "!=", ast.Is: "is", ast.IsNot: "is not",
    ast.In: "in", ast.NotIn: "not in",
}
UNARY_OPS = {ast.USub: "-", ast.UAdd: "+", ast.Not: "not", ast.Invert: "~"}


def main():
    path = sys.argv[1]
    if path == "-":
        data = sys.stdin.buffer.read()
    else:
        with open(path, "rb") as f:
            data = f.read()
    src = data.decode("utf-8")

    starts = [0]
    for line in src.split("\n")[:-1]:
        starts.append(starts[-1] + len(line.encode("utf-8")) + 1)

    def pos(node):
        if getattr(node, "lineno", None) is None:
            return [0, 0]
        a = starts[node.lineno - 1] + node.col_offset
        b = starts[node.end_lineno - 1] + node.end_col_offset
        return [a, b - a]

    def unsupported(node, reason, is_expr=True):
        kind = "Unsupported" if is_expr else "UnsupportedStmt"
        return {"kind": kind, "pos": pos(node), "reason": reason}

    def params(args):
        out = []
        posargs = list(getattr(args, "posonlyargs", [])) + list(args.args)
        defaults = [None] * (len(posargs) - len(args.defaults)) + list(args.defaults)
        for a, d in zip(posargs, defaults):
            out.append({"name": a.arg, "category": "simple",
                        "default": expr(d) if d is not None else None})
        if args.vararg is not None:
            out.append({"name": args.vararg.arg, "category": "varargs", "default": None})
        for a, d in zip(args.kwonlyargs, args.kw_defaults):
            out.append({"name": a.arg, "category": "simple",
                        "default": expr(d) if d is not None else None})
        if args.kwarg is not None:
            out.append({"name": args.kwarg.arg, "category": "kwargs", "default": None})
        return out

    def suite(stmts):
        out = []
        for s in stmts:
            r = stmt(s)
            if isinstance(r, list):
                out.extend(r)
            else:
                out.append(r)
        return out

    def stmt(node):
        p = pos(node)
        if isinstance(node, ast.FunctionDef):
            return {"kind": "Function", "pos": p, "name": node.name,
                    "params": params(node.args), "body": suite(node.body)}
        if isinstance(node, ast.ClassDef):
            return {"kind": "Class", "pos": p, "name": node.name,
                    "bases": [expr(b) for b in node.bases], "body": suite(node.body)}
        if isinstance(node, ast.Assign):
            return [{"kind": "Assignment", "pos": p, "target": expr(t),
                     "value": expr(node.value)} for t in node.targets]
        if isinstance(node, ast.AnnAssign):
            if node.value is None:
                return {"kind": "Pass", "pos": p}
            return {"kind": "Assignment", "pos": p, "target": expr(node.target),
                    "value": expr(node.value)}
        if isinstance(node, ast.AugAssign):
            return {"kind": "AugmentedAssignment", "pos": p, "target": expr(node.target),
                    "op": BIN_OPS[type(node.op)], "value": expr(node.value)}
        if isinstance(node, ast.Expr):
            return {"kind": "ExprStmt", "pos": p, "value": expr(node.value)}
        if isinstance(node, ast.If):
            return {"kind": "If", "pos": p, "cond": expr(node.test),
                    "body": suite(node.body), "orelse": suite(node.orelse)}
        if isinstance(node, ast.While):
            return {"kind": "While", "pos": p, "cond": expr(node.test),
                    "body": suite(node.body), "orelse": suite(node.orelse)}
        if isinstance(node, ast.For):
            return {"kind": "For", "pos": p, "target": expr(node.target),
                    "iter": expr(node.iter), "body": suite(node.body),
                    "orelse": suite(node.orelse)}
        if isinstance(node, ast.With):
            items = [{"context": expr(i.context_expr),
                      "target": expr(i.optional_vars) if i.optional_vars else None}
                     for i in node.items]
            return {"kind": "With", "pos": p, "items": items, "body": suite(node.body)}
        if isinstance(node, ast.Try):
            # handlers are not modeled; keep the body and finalizer statements
            return suite(node.body) + suite(node.finalbody)
        if isinstance(node, ast.Import):
            out = []
            for a in node.names:
                if a.asname:
                    out.append({"kind": "ImportAs", "pos": p, "qual": a.name,
                                "alias": a.asname})
                else:
                    out.append({"kind": "Import", "pos": p, "qual": a.name})
            return out
        if isinstance(node, ast.ImportFrom):
            qual = "." * node.level + (node.module or "")
            star = len(node.names) == 1 and node.names[0].name == "*"
            clauses = [] if star else [{"name": a.name, "alias": a.asname or ""}
                                       for a in node.names]
            return {"kind": "ImportFrom", "pos": p, "qual": qual,
                    "names": clauses, "star": star}
        if isinstance(node, ast.Return):
            return {"kind": "Return", "pos": p,
                    "value": expr(node.value) if node.value else None}
        if isinstance(node, ast.Raise):
            return {"kind": "Raise", "pos": p,
                    "exc": expr(node.exc) if node.exc else None}
        if isinstance(node, ast.Assert):
            return {"kind": "Assert", "pos": p, "cond": expr(node.test),
                    "msg": expr(node.msg) if node.msg else None}
        if isinstance(node, ast.Delete):
            return {"kind": "Del", "pos": p, "targets": [expr(t) for t in node.targets]}
        if isinstance(node, ast.Global):
            return {"kind": "Global", "pos": p, "idents": list(node.names)}
        if isinstance(node, ast.Nonlocal):
            return {"kind": "Nonlocal", "pos": p, "idents": list(node.names)}
        if isinstance(node, ast.Pass):
            return {"kind": "Pass", "pos": p}
        if isinstance(node, ast.Break):
            return {"kind": "Break", "pos": p}
        if isinstance(node, ast.Continue):
            return {"kind": "Continue", "pos": p}
        return unsupported(node, type(node).__name__, is_expr=False)

    def call_args(node):
        out = []
        for a in node.args:
            if isinstance(a, ast.Starred):
                out.append({"mode": "star", "value": expr(a.value)})
            else:
                out.append({"mode": "pos", "value": expr(a)})
        for k in node.keywords:
            if k.arg is None:
                out.append({"mode": "dstar", "value": expr(k.value)})
            else:
                out.append({"mode": "kw", "name": k.arg, "value": expr(k.value)})
        return out

    def expr(node):
        p = pos(node)
        if isinstance(node, ast.Name):
            return {"kind": "Name", "pos": p, "name": node.id}
        if isinstance(node, ast.Constant):
            v = node.value
            if v is True:
                return {"kind": "Constant", "pos": p, "const": "True"}
            if v is False:
                return {"kind": "Constant", "pos": p, "const": "False"}
            if v is None:
                return {"kind": "Constant", "pos": p, "const": "None"}
            if v is Ellipsis:
                return {"kind": "Ellipsis", "pos": p}
            if isinstance(v, int):
                return {"kind": "Number", "pos": p, "int": v}
            if isinstance(v, float):
                return {"kind": "Number", "pos": p, "float": v, "isFloat": True}
            if isinstance(v, str):
                return {"kind": "String", "pos": p, "str": v}
            if isinstance(v, bytes):
                return {"kind": "String", "pos": p, "str": v.decode("utf-8", "replace")}
            return unsupported(node, "constant " + type(v).__name__)
        if isinstance(node, ast.JoinedStr):
            parts = [v.value for v in node.values
                     if isinstance(v, ast.Constant) and isinstance(v.value, str)]
            return {"kind": "StringList", "pos": p, "parts": parts}
        if isinstance(node, ast.Tuple):
            return {"kind": "Tuple", "pos": p, "elts": [expr(e) for e in node.elts]}
        if isinstance(node, ast.List):
            return {"kind": "List", "pos": p, "elts": [expr(e) for e in node.elts]}
        if isinstance(node, ast.Dict):
            entries = [{"key": expr(k) if k is not None else None, "value": expr(v)}
                       for k, v in zip(node.keys, node.values)]
            return {"kind": "Dictionary", "pos": p, "entries": entries}
        if isinstance(node, ast.BinOp):
            return {"kind": "BinaryOperation", "pos": p, "op": BIN_OPS[type(node.op)],
                    "left": expr(node.left), "right": expr(node.right)}
        if isinstance(node, ast.BoolOp):
            op = "and" if isinstance(node.op, ast.And) else "or"
            out = expr(node.values[0])
            for v in node.values[1:]:
                out = {"kind": "BinaryOperation", "pos": p, "op": op,
                       "left": out, "right": expr(v)}
            return out
        if isinstance(node, ast.Compare):
            left = node.left
            out = None
            for op, right in zip(node.ops, node.comparators):
                pair = {"kind": "BinaryOperation", "pos": p, "op": CMP_OPS[type(op)],
                        "left": expr(left), "right": expr(right)}
                out = pair if out is None else {"kind": "BinaryOperation", "pos": p,
                                                "op": "and", "left": out, "right": pair}
                left = right
            return out
        if isinstance(node, ast.UnaryOp):
            return {"kind": "UnaryOperation", "pos": p, "op": UNARY_OPS[type(node.op)],
                    "operand": expr(node.operand)}
        if isinstance(node, ast.IfExp):
            return {"kind": "Ternary", "pos": p, "cond": expr(node.test),
                    "then": expr(node.body), "else": expr(node.orelse)}
        if isinstance(node, ast.Attribute):
            return {"kind": "MemberAccess", "pos": p, "base": expr(node.value),
                    "attr": node.attr}
        if isinstance(node, ast.Subscript):
            sl = node.slice
            if isinstance(sl, ast.Slice):
                sub = {"kind": "Slice", "pos": pos(sl),
                       "lo": expr(sl.lower) if sl.lower else None,
                       "hi": expr(sl.upper) if sl.upper else None,
                       "step": expr(sl.step) if sl.step else None}
            elif sl.__class__.__name__ == "Index":
                sub = expr(sl.value)
            else:
                sub = expr(sl)
            return {"kind": "Index", "pos": p, "base": expr(node.value), "sub": sub}
        if isinstance(node, ast.Call):
            return {"kind": "Call", "pos": p, "func": expr(node.func),
                    "args": call_args(node)}
        return unsupported(node, type(node).__name__)

    tree = ast.parse(src)
    mod = {"kind": "Module", "pos": [0, len(data)], "body": suite(tree.body)}
    json.dump(mod, sys.stdout)


main()
`
