package collect

import (
	"fmt"
	"io/ioutil"
	"os"
	"path/filepath"
	"strings"

	"thea/common"
	"thea/logging"
	"thea/lower"
	"thea/pyast"
	"thea/thir"
)

// Parser abstracts the host Python parser.  The collector drives it once per
// file; how the AST is produced (CPython subprocess, test fixtures) is not
// the frontend's concern.
type Parser interface {
	ParseFile(path string) (*pyast.Module, error)
}

// Collector walks directory trees of Python sources and lowers every file
// into a module map.  Collection never aborts: files that fail to parse or
// lower are logged and omitted.
type Collector struct {
	parser Parser

	// venvPath is an optional virtual-environment directory excluded from
	// every walk, in addition to any directory carrying a pyvenv.cfg
	venvPath string

	opt lower.Options
}

// NewCollector creates a collector over the given host parser
func NewCollector(parser Parser, venvPath string, opt lower.Options) *Collector {
	return &Collector{
		parser:   parser,
		venvPath: venvPath,
		opt:      opt,
	}
}

// CollectDir walks `root` and lowers every Python file beneath it.  Qualified
// paths are relative to `root`: `foo/bar.py` becomes `foo.bar` and
// `foo/__init__.py` collapses to `foo`.
func (c *Collector) CollectDir(root string) *ModuleMap {
	mmap := NewModuleMap()
	c.collectInto(mmap, root, "")
	return mmap
}

func (c *Collector) collectInto(mmap *ModuleMap, dir, qualPrefix string) {
	if c.isVenvDir(dir) {
		return
	}

	finfos, err := ioutil.ReadDir(dir)
	if err != nil {
		logging.LogLowerError(dir, fmt.Sprintf("error walking directory: %s", err.Error()), logging.LMKIO, nil)
		return
	}

	for _, finfo := range finfos {
		path := filepath.Join(dir, finfo.Name())

		if finfo.IsDir() {
			c.collectInto(mmap, path, qualJoin(qualPrefix, finfo.Name()))
			continue
		}

		// LibCall.py exists only to give names to library primitives; it must
		// never reach the module map
		if filepath.Ext(finfo.Name()) != common.SrcFileExtension || finfo.Name() == common.LibCallFileName {
			continue
		}

		qualPath := qualPrefix
		if stem := strings.TrimSuffix(finfo.Name(), common.SrcFileExtension); stem != "__init__" {
			qualPath = qualJoin(qualPrefix, stem)
		}
		if qualPath == "" {
			// a root-level __init__.py has no qualified name of its own
			continue
		}

		if stmt, ok := c.LowerFile(path, qualPath); ok {
			mmap.Set(qualPath, stmt)
		}
	}
}

// LowerFile parses and lowers a single file.  Failures are logged against
// the file and reported through the boolean; the caller keeps going.
func (c *Collector) LowerFile(path, qualPath string) (thir.ThStmt, bool) {
	mod, err := c.parser.ParseFile(path)
	if err != nil {
		logging.LogLowerError(path, err.Error(), logging.LMKSyntax, nil)
		return nil, false
	}

	t := lower.NewTranslator(path, qualPath, c.opt)
	stmt, err := t.LowerModule(mod)
	if err != nil {
		if le, ok := err.(*lower.Error); ok {
			logging.LogLowerError(path, le.Message, logging.LMKLower, le.Ref)
		} else {
			logging.LogLowerError(path, err.Error(), logging.LMKLower, nil)
		}
		return nil, false
	}

	logging.LogProgress(qualPath)
	return stmt, true
}

// isVenvDir reports whether a directory must be excluded from collection
func (c *Collector) isVenvDir(dir string) bool {
	if c.venvPath != "" && samePath(dir, c.venvPath) {
		return true
	}

	if _, err := os.Stat(filepath.Join(dir, common.VenvConfigName)); err == nil {
		return true
	}
	return false
}

func samePath(a, b string) bool {
	absA, errA := filepath.Abs(a)
	absB, errB := filepath.Abs(b)
	if errA != nil || errB != nil {
		return a == b
	}
	return absA == absB
}

func qualJoin(prefix, name string) string {
	if prefix == "" {
		return name
	}
	return prefix + "." + name
}
