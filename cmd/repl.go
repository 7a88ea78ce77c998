package cmd

import (
	"fmt"
	"strings"

	"thea/common"
	"thea/lower"
	"thea/pyparse"
	"thea/thir"

	"github.com/ComedicChimera/olive"
	"github.com/peterh/liner"
)

// execReplCommand runs an interactive loop that parses Python snippets and
// prints their lowered IR.  This is a development tool for inspecting what
// the backend will see for a given construct.
func execReplCommand(result *olive.ArgParseResult) int {
	parser := pyparse.NewPythonParser(stringArg(result, "python"))

	ln := liner.NewLiner()
	defer ln.Close()
	ln.SetCtrlCAborts(true)

	fmt.Println("thea IR shell -- enter Python, :quit to exit")

	for {
		code, ok := readSnippet(ln)
		if !ok {
			fmt.Println()
			return common.ExitOK
		}

		trimmed := strings.TrimSpace(code)
		if trimmed == "" {
			continue
		}
		if trimmed == ":quit" || trimmed == ":q" {
			return common.ExitOK
		}

		ln.AppendHistory(code)

		mod, err := parser.ParseSource(code)
		if err != nil {
			fmt.Println("error:", err.Error())
			continue
		}

		t := lower.NewTranslator("<repl>", "", lower.Options{IgnoreAssert: true})
		stmt, err := t.LowerModule(mod)
		if err != nil {
			fmt.Println("error:", err.Error())
			continue
		}

		fmt.Println(thir.DumpStmt(stmt))
	}
}

// readSnippet accumulates input lines; a suite opener (trailing colon) keeps
// reading until a blank line, mirroring the interactive interpreter
func readSnippet(ln *liner.State) (string, bool) {
	first, err := ln.Prompt(">>> ")
	if err != nil {
		return "", false
	}

	if !strings.HasSuffix(strings.TrimSpace(first), ":") {
		return first, true
	}

	lines := []string{first}
	for {
		next, err := ln.Prompt("... ")
		if err != nil || strings.TrimSpace(next) == "" {
			break
		}
		lines = append(lines, next)
	}

	return strings.Join(lines, "\n"), true
}
