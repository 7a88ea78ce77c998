package cmd

import (
	"fmt"
	"os"
	"path/filepath"

	"thea/collect"
	"thea/common"
	"thea/config"
	"thea/logging"
	"thea/pyparse"
	"thea/resolve"
	"thea/thir"

	"github.com/ComedicChimera/olive"
)

// Execute runs the main `thea` application and returns the process exit code
func Execute() int {
	// set up the argument parser and all its extended commands and arguments
	cli := olive.NewCLI("thea", "thea is a tensor-shape analyzer for PyTorch projects", true)
	logLvlArg := cli.AddSelectorArg("loglevel", "ll", "the analyzer log level", false,
		[]string{"none", "result-only", "reduced", "full"})
	logLvlArg.SetDefaultValue("reduced")

	analyzeCmd := cli.AddSubcommand("analyze", "lower a project and its library stubs", true)
	analyzeCmd.AddPrimaryArg("entry-path", "the path to the project entry script", false)
	analyzeCmd.AddStringArg("config", "c", "the path to an analyzer config file", false)
	analyzeCmd.AddStringArg("libpath", "l", "the path to the Python library stubs", false)
	analyzeCmd.AddStringArg("python", "py", "the Python interpreter used for parsing", false)
	analyzeCmd.AddFlag("check-assert", "ca", "lower assert statements instead of dropping them")
	analyzeCmd.AddFlag("extract-ir", "ir", "dump the lowered entry module after collection")

	irCmd := cli.AddSubcommand("ir", "dump the lowered IR of a single file", true)
	irCmd.AddPrimaryArg("file-path", "the path to the Python file to lower", true)
	irCmd.AddStringArg("python", "py", "the Python interpreter used for parsing", false)
	irCmd.AddFlag("check-assert", "ca", "lower assert statements instead of dropping them")

	replCmd := cli.AddSubcommand("repl", "interactively lower Python snippets", false)
	replCmd.AddStringArg("python", "py", "the Python interpreter used for parsing", false)

	cli.AddSubcommand("version", "print the thea version", false)

	// run the argument parser
	result, err := olive.ParseArgs(cli, os.Args)
	if err != nil {
		logging.PrintErrorMessage("CLI Usage Error", err)
		return common.ExitConfig
	}

	// process the inputed command line
	subcmdName, subResult, _ := result.Subcommand()
	switch subcmdName {
	case "analyze":
		return execAnalyzeCommand(subResult, result.Arguments["loglevel"].(string))
	case "ir":
		return execIRCommand(subResult, result.Arguments["loglevel"].(string))
	case "repl":
		return execReplCommand(subResult)
	case "version":
		logging.PrintInfoMessage("Thea Version", common.TheaVersion)
	}

	return common.ExitOK
}

// execAnalyzeCommand executes the analyze subcommand and handles all errors
func execAnalyzeCommand(result *olive.ArgParseResult, loglevel string) int {
	cfg, err := buildConfig(result)
	if err != nil {
		logging.PrintErrorMessage("Config Error", err)
		return common.ExitConfig
	}

	if cfg.LogLevel != "" {
		loglevel = cfg.LogLevel
	}
	logging.Initialize(filepath.Dir(cfg.EntryPath), loglevel)

	if err := cfg.Validate(); err != nil {
		logging.PrintErrorMessage("Config Error", err)
		return common.ExitConfig
	}

	parser := pyparse.NewPythonParser(stringArg(result, "python"))
	session := collect.NewSession(cfg, parser)
	if !session.Run() {
		return common.ExitFatal
	}

	// the resolver is handed to the symbolic backend; resolving the entry
	// here confirms the maps are queryable before reporting success
	r := resolve.NewResolver(session.ProjectMap, session.LibMap)
	if _, ok := r.Resolve(session.EntryQual); !ok {
		logging.LogFatal("entry module missing from project map")
		return common.ExitFatal
	}

	if cfg.ExtractIR {
		if stmt, ok := session.EntryStmt(); ok {
			fmt.Println(thir.DumpStmt(stmt))
		}
	}

	logging.DisplayAnalysisFinished(logging.ErrorCount(), session.ModuleCount())
	if !logging.ShouldProceed() {
		return common.ExitErrors
	}
	return common.ExitOK
}

// buildConfig assembles the analyzer configuration from an optional config
// file and the command line, with the command line taking precedence
func buildConfig(result *olive.ArgParseResult) (*config.AnalyzerConfig, error) {
	cfg := &config.AnalyzerConfig{}

	if path := stringArg(result, "config"); path != "" {
		loaded, err := config.Load(path)
		if err != nil {
			return nil, err
		}
		cfg = loaded
	}

	if entry, ok := result.PrimaryArg(); ok {
		abs, err := filepath.Abs(entry)
		if err != nil {
			return nil, err
		}
		cfg.EntryPath = abs
	}
	if libPath := stringArg(result, "libpath"); libPath != "" {
		abs, err := filepath.Abs(libPath)
		if err != nil {
			return nil, err
		}
		cfg.LibPath = abs
	}
	if result.HasFlag("check-assert") {
		ignore := false
		cfg.IgnoreAssert = &ignore
	}
	if result.HasFlag("extract-ir") {
		cfg.ExtractIR = true
	}

	return cfg, nil
}

func stringArg(result *olive.ArgParseResult, name string) string {
	if val, ok := result.Arguments[name]; ok {
		return val.(string)
	}
	return ""
}
