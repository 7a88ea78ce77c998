package cmd

import (
	"fmt"
	"path/filepath"
	"strings"

	"thea/common"
	"thea/logging"
	"thea/lower"
	"thea/pyparse"
	"thea/thir"

	"github.com/ComedicChimera/olive"
)

// execIRCommand lowers a single file and dumps its IR to stdout
func execIRCommand(result *olive.ArgParseResult, loglevel string) int {
	path, _ := result.PrimaryArg()
	abs, err := filepath.Abs(path)
	if err != nil {
		logging.PrintErrorMessage("Path Error", err)
		return common.ExitConfig
	}

	logging.Initialize(filepath.Dir(abs), loglevel)

	parser := pyparse.NewPythonParser(stringArg(result, "python"))
	mod, err := parser.ParseFile(abs)
	if err != nil {
		logging.PrintErrorMessage("Syntax Error", err)
		return common.ExitErrors
	}

	qual := strings.TrimSuffix(filepath.Base(abs), common.SrcFileExtension)
	t := lower.NewTranslator(abs, qual, lower.Options{
		IgnoreAssert: !result.HasFlag("check-assert"),
	})

	stmt, err := t.LowerModule(mod)
	if err != nil {
		if le, ok := err.(*lower.Error); ok {
			logging.LogLowerError(abs, le.Message, logging.LMKLower, le.Ref)
		} else {
			logging.PrintErrorMessage("Lowering Error", err)
		}
		return common.ExitErrors
	}

	fmt.Println(thir.DumpStmt(stmt))
	return common.ExitOK
}
