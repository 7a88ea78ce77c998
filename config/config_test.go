package config

import (
	"io/ioutil"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func writeConfig(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := ioutil.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestLoadJSON(t *testing.T) {
	dir := t.TempDir()
	path := writeConfig(t, dir, "pyteaconfig.json", `{
		"entryPath": "main.py",
		"pyteaLibPath": "pylib",
		"logLevel": "full",
		"ignoreAssert": false,
		"pythonSubcommand": "train"
	}`)

	cfg, err := Load(path)
	if err != nil {
		t.Fatal(err)
	}

	if cfg.EntryPath != filepath.Join(dir, "main.py") {
		t.Errorf("entry path not anchored at the config dir: %s", cfg.EntryPath)
	}
	if cfg.LibPath != filepath.Join(dir, "pylib") {
		t.Errorf("lib path not anchored at the config dir: %s", cfg.LibPath)
	}
	if cfg.LogLevel != "full" {
		t.Errorf("unexpected log level %s", cfg.LogLevel)
	}
	if cfg.ShouldIgnoreAssert() {
		t.Error("explicit ignoreAssert=false was not honored")
	}
	if cfg.PythonSubcommand != "train" {
		t.Errorf("unexpected python subcommand %s", cfg.PythonSubcommand)
	}
	if cfg.ConfigPath != path {
		t.Errorf("config path not recorded: %s", cfg.ConfigPath)
	}
}

func TestLoadTOML(t *testing.T) {
	dir := t.TempDir()
	path := writeConfig(t, dir, "thea.toml", `
entry-path = "main.py"
lib-path = "pylib"
extract-ir = true
`)

	cfg, err := Load(path)
	if err != nil {
		t.Fatal(err)
	}

	if cfg.EntryPath != filepath.Join(dir, "main.py") {
		t.Errorf("entry path not anchored: %s", cfg.EntryPath)
	}
	if !cfg.ExtractIR {
		t.Error("extract-ir not decoded")
	}
}

func TestIgnoreAssertDefaultsTrue(t *testing.T) {
	dir := t.TempDir()
	path := writeConfig(t, dir, "c.json", `{"entryPath": "m.py", "pyteaLibPath": "lib"}`)

	cfg, err := Load(path)
	if err != nil {
		t.Fatal(err)
	}
	if !cfg.ShouldIgnoreAssert() {
		t.Error("ignoreAssert must default to true")
	}
}

func TestLoadMalformed(t *testing.T) {
	dir := t.TempDir()
	path := writeConfig(t, dir, "bad.json", `{"entryPath": `)

	if _, err := Load(path); err == nil || !strings.Contains(err.Error(), "malformed") {
		t.Errorf("expected a malformed-config error, got %v", err)
	}
}

func TestValidate(t *testing.T) {
	dir := t.TempDir()
	entry := writeConfig(t, dir, "main.py", "")
	lib := filepath.Join(dir, "pylib")
	if err := os.Mkdir(lib, 0o755); err != nil {
		t.Fatal(err)
	}

	good := &AnalyzerConfig{EntryPath: entry, LibPath: lib}
	if err := good.Validate(); err != nil {
		t.Errorf("valid config rejected: %s", err.Error())
	}

	cases := []*AnalyzerConfig{
		{LibPath: lib},
		{EntryPath: entry},
		{EntryPath: filepath.Join(dir, "missing.py"), LibPath: lib},
		{EntryPath: entry, LibPath: filepath.Join(dir, "missing")},
		{EntryPath: entry, LibPath: lib, LogLevel: "chatty"},
	}
	for i, bad := range cases {
		if err := bad.Validate(); err == nil {
			t.Errorf("case %d: invalid config accepted", i)
		}
	}
}
