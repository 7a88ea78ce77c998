package logging

import (
	"sync"

	"thea/thir"
)

// Logger is the sink for all output of the analyzer frontend.  Collection
// runs file by file and never aborts, so errors are counted and displayed as
// they arrive rather than accumulated.
type Logger struct {
	errorCount int
	LogLevel   int

	// warnings are held until the end of the run
	warnings []LogMessage

	// rootPath is used to shorten display paths in messages
	rootPath string

	// m synchronizes message printing
	m *sync.Mutex
}

// Enumeration of the different log levels
const (
	LogLevelNone       = iota // no messages and no summary; fatal errors still print
	LogLevelResultOnly        // only the analysis result and fatal errors
	LogLevelReduced           // errors, warnings, and the closing summary (DEFAULT)
	LogLevelFull              // everything, including per-file lowering progress
)

// newLogger creates a new logger struct
func newLogger(rootPath string, loglevel int) Logger {
	return Logger{
		rootPath: rootPath,
		LogLevel: loglevel,
		m:        &sync.Mutex{},
	}
}

// handleMsg prompts the logger to process a message.  Printing is serialized
// behind a mutex so that a parallel collector cannot interleave output.
func (l *Logger) handleMsg(lm LogMessage) {
	l.m.Lock()

	if lm.isError() {
		l.errorCount++

		if l.LogLevel > LogLevelResultOnly {
			lm.display()
		}
	} else {
		l.warnings = append(l.warnings, lm)
	}

	l.m.Unlock()
}

// LogMessage is implemented by everything the logger can sink
type LogMessage interface {
	display()
	isError() bool
}

// Enumeration of lowering message kinds
const (
	LMKSyntax = iota // host parser failure
	LMKLower         // malformed AST encountered during lowering
	LMKImport        // import that cannot be resolved to a module
	LMKIO            // file could not be read
	LMKUsage         // construct recognized but not modeled
)

// LowerMessage is a diagnostic attached to a position in a Python source file
type LowerMessage struct {
	Message  string
	Kind     int
	FilePath string
	Ref      *thir.SourceRef
	IsError  bool
}

func (lm *LowerMessage) isError() bool { return lm.IsError }

// ConfigError is an error in the analyzer configuration, reported before any
// lowering begins
type ConfigError struct {
	Kind    string
	Message string
}

func (ce *ConfigError) isError() bool { return true }
