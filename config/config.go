package config

import (
	"encoding/json"
	"fmt"
	"io/ioutil"
	"os"
	"path/filepath"
	"strings"

	"github.com/pelletier/go-toml"
)

// AnalyzerConfig holds every option the frontend recognizes.  Most values are
// advisory: the lowering engine itself only consults IgnoreAssert, which is
// resolved once per run and passed into each translator rather than read from
// any process-global.
type AnalyzerConfig struct {
	// EntryPath is the path of the project script analysis starts from
	EntryPath string `json:"entryPath" toml:"entry-path"`

	// LibPath is the directory of the bundled stdlib/PyTorch stub library
	LibPath string `json:"pyteaLibPath" toml:"lib-path"`

	// ConfigPath records where this configuration was loaded from, if
	// anywhere
	ConfigPath string `json:"configPath,omitempty" toml:"config-path,omitempty"`

	// VenvPath is an optional virtual-environment directory excluded from
	// collection
	VenvPath string `json:"venvPath,omitempty" toml:"venv-path,omitempty"`

	// LogLevel is one of none, result-only, reduced, full
	LogLevel string `json:"logLevel,omitempty" toml:"log-level,omitempty"`

	// ExtractIR requests a dump of the lowered entry module after collection
	ExtractIR bool `json:"extractIR,omitempty" toml:"extract-ir,omitempty"`

	// IgnoreAssert lowers assert statements to no-ops.  Defaults to true.
	IgnoreAssert *bool `json:"ignoreAssert,omitempty" toml:"ignore-assert,omitempty"`

	// ImmediateConstraintCheck is consumed by the symbolic backend
	ImmediateConstraintCheck bool `json:"immediateConstraintCheck,omitempty" toml:"immediate-constraint-check,omitempty"`

	// PythonCmdArgs is an opaque mapping forwarded to the analyzed project's
	// argument parser
	PythonCmdArgs map[string]interface{} `json:"pythonCmdArgs,omitempty" toml:"python-cmd-args,omitempty"`

	// PythonSubcommand selects a subcommand of the analyzed project
	PythonSubcommand string `json:"pythonSubcommand,omitempty" toml:"python-subcommand,omitempty"`
}

// ShouldIgnoreAssert resolves the IgnoreAssert option with its default
func (cfg *AnalyzerConfig) ShouldIgnoreAssert() bool {
	if cfg.IgnoreAssert == nil {
		return true
	}
	return *cfg.IgnoreAssert
}

// Load reads a configuration file.  Files ending in `.toml` use the TOML
// codec; everything else is parsed as JSON.  The returned error is a plain
// string for the CLI: configuration failures happen before any lowering and
// never carry source references.
func Load(path string) (*AnalyzerConfig, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("unable to open config file: %s", err.Error())
	}
	defer f.Close()

	buff, err := ioutil.ReadAll(f)
	if err != nil {
		return nil, fmt.Errorf("unable to read config file: %s", err.Error())
	}

	cfg := &AnalyzerConfig{}
	if strings.ToLower(filepath.Ext(path)) == ".toml" {
		err = toml.Unmarshal(buff, cfg)
	} else {
		err = json.Unmarshal(buff, cfg)
	}
	if err != nil {
		return nil, fmt.Errorf("malformed config file %s: %s", path, err.Error())
	}

	cfg.ConfigPath = path

	// relative paths in a config file are anchored at the file's directory
	base := filepath.Dir(path)
	cfg.EntryPath = anchorPath(base, cfg.EntryPath)
	cfg.LibPath = anchorPath(base, cfg.LibPath)
	cfg.VenvPath = anchorPath(base, cfg.VenvPath)

	return cfg, nil
}

func anchorPath(base, path string) string {
	if path == "" || filepath.IsAbs(path) {
		return path
	}
	return filepath.Join(base, path)
}

// Validate checks that the configuration names an analyzable project
func (cfg *AnalyzerConfig) Validate() error {
	if cfg.EntryPath == "" {
		return fmt.Errorf("missing required option `entryPath`")
	}

	finfo, err := os.Stat(cfg.EntryPath)
	if err != nil {
		return fmt.Errorf("unable to open entry file %s: %s", cfg.EntryPath, err.Error())
	}
	if finfo.IsDir() {
		return fmt.Errorf("entry path %s must be a file, not a directory", cfg.EntryPath)
	}

	if cfg.LibPath == "" {
		return fmt.Errorf("missing required option `pyteaLibPath`")
	}

	finfo, err = os.Stat(cfg.LibPath)
	if err != nil {
		return fmt.Errorf("unable to open library path %s: %s", cfg.LibPath, err.Error())
	}
	if !finfo.IsDir() {
		return fmt.Errorf("library path %s must be a directory", cfg.LibPath)
	}

	switch cfg.LogLevel {
	case "", "none", "result-only", "reduced", "full":
	default:
		return fmt.Errorf("unrecognized log level `%s`", cfg.LogLevel)
	}

	return nil
}
