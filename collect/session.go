package collect

import (
	"path/filepath"
	"strings"

	"thea/common"
	"thea/config"
	"thea/logging"
	"thea/lower"
	"thea/thir"
)

// Session ties the configuration, the host parser, and the collector
// together for one analysis run.  Its product is the frontend's entire
// output: the library map, the project map, and the entry module's qualified
// name.
type Session struct {
	cfg    *config.AnalyzerConfig
	parser Parser

	// LibMap holds the lowered stdlib/PyTorch stub library
	LibMap *ModuleMap

	// ProjectMap holds the lowered project sources
	ProjectMap *ModuleMap

	// EntryQual is the qualified name of the entry module inside ProjectMap
	EntryQual string
}

// NewSession creates a session for a validated configuration
func NewSession(cfg *config.AnalyzerConfig, parser Parser) *Session {
	return &Session{cfg: cfg, parser: parser}
}

// Run collects the library and project trees and lowers the entry script.
// It returns false when nothing runnable was produced: a missing entry
// module is fatal, while per-file failures are logged and skipped.
func (s *Session) Run() bool {
	opt := lower.Options{IgnoreAssert: s.cfg.ShouldIgnoreAssert()}
	c := NewCollector(s.parser, s.cfg.VenvPath, opt)

	s.LibMap = c.CollectDir(s.cfg.LibPath)

	projectRoot := filepath.Dir(s.cfg.EntryPath)
	s.ProjectMap = c.CollectDir(projectRoot)

	// the entry script is collected with its siblings; its qualified name is
	// just the file stem
	s.EntryQual = strings.TrimSuffix(filepath.Base(s.cfg.EntryPath), common.SrcFileExtension)
	if _, ok := s.ProjectMap.Get(s.EntryQual); !ok {
		// the walk may have skipped it on a parse failure; retry so the error
		// is attributed to the entry file
		stmt, ok := c.LowerFile(s.cfg.EntryPath, s.EntryQual)
		if !ok {
			logging.LogConfigError("Entry", "entry file could not be lowered")
			return false
		}
		s.ProjectMap.Set(s.EntryQual, stmt)
	}

	return true
}

// EntryStmt returns the lowered entry module
func (s *Session) EntryStmt() (thir.ThStmt, bool) {
	if s.ProjectMap == nil {
		return nil, false
	}
	return s.ProjectMap.Get(s.EntryQual)
}

// ModuleCount returns the total number of lowered modules across both maps
func (s *Session) ModuleCount() int {
	count := 0
	if s.LibMap != nil {
		count += s.LibMap.Len()
	}
	if s.ProjectMap != nil {
		count += s.ProjectMap.Len()
	}
	return count
}
