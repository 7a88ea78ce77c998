package logging

import "thea/thir"

// logger is a global reference to a shared Logger (created/initialized with
// the analysis session, but separated for general usage)
var logger Logger

// Initialize initializes the global logger with the provided log level
func Initialize(rootPath, loglevelname string) {
	var loglevel int
	switch loglevelname {
	case "none":
		loglevel = LogLevelNone
	case "result-only":
		loglevel = LogLevelResultOnly
	case "full":
		loglevel = LogLevelFull
	// everything else (including invalid log levels) should default to reduced
	default:
		loglevel = LogLevelReduced
	}

	logger = newLogger(rootPath, loglevel)
}

// ShouldProceed indicates whether or not the log module has encountered any
// errors.  The collector skips failed files and keeps going, so this is the
// accumulator the CLI consults for its exit code.
func ShouldProceed() bool {
	return logger.errorCount == 0
}

// ErrorCount returns the number of errors reported so far
func ErrorCount() int {
	return logger.errorCount
}

// LogLowerError logs an error produced while lowering a single file
func LogLowerError(filePath, message string, kind int, ref *thir.SourceRef) {
	logger.handleMsg(&LowerMessage{
		Message:  message,
		Kind:     kind,
		FilePath: filePath,
		Ref:      ref,
		IsError:  true,
	})
}

// LogLowerWarning logs a warning produced while lowering a single file
func LogLowerWarning(filePath, message string, kind int, ref *thir.SourceRef) {
	logger.handleMsg(&LowerMessage{
		Message:  message,
		Kind:     kind,
		FilePath: filePath,
		Ref:      ref,
		IsError:  false,
	})
}

// LogConfigError logs an error related to the analyzer configuration
func LogConfigError(kind, message string) {
	logger.handleMsg(&ConfigError{Kind: kind, Message: message})
}

// LogProgress reports a per-file progress line; shown only at the full log
// level
func LogProgress(message string) {
	if logger.LogLevel >= LogLevelFull {
		PrintInfoMessage("Lower", message)
	}
}

// LogFatal reports an internal frontend bug and is expected to be followed by
// process termination
func LogFatal(message string) {
	displayFatalError(message)
}
