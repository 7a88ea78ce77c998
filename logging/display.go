package logging

import (
	"errors"
	"fmt"
	"io/ioutil"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/pterm/pterm"
)

var (
	SuccessColorFG = pterm.FgLightGreen
	SuccessStyleBG = pterm.NewStyle(pterm.BgLightGreen, pterm.FgBlack)
	WarnColorFG    = pterm.FgYellow
	WarnStyleBG    = pterm.NewStyle(pterm.BgYellow, pterm.FgBlack)
	ErrorColorFG   = pterm.FgRed
	ErrorStyleBG   = pterm.NewStyle(pterm.BgRed, pterm.FgWhite)
	InfoColorFG    = SuccessColorFG
	InfoStyleBG    = SuccessStyleBG
)

// PrintErrorMessage prints a standard Go error to the console
func PrintErrorMessage(tag string, err error) {
	ErrorStyleBG.Print(tag)
	ErrorColorFG.Println(" " + err.Error())
}

// PrintWarningMessage prints a warning message to the console
func PrintWarningMessage(tag, msg string) {
	WarnStyleBG.Print(tag)
	WarnColorFG.Println(" " + msg)
}

// PrintInfoMessage prints an informational message to the user
func PrintInfoMessage(tag, msg string) {
	InfoStyleBG.Print(tag)
	InfoColorFG.Println(" " + msg)
}

// -----------------------------------------------------------------------------
// This section contains all the display functions for the different kinds of
// messages that can be logged.

func (ce *ConfigError) display() {
	PrintErrorMessage(ce.Kind+" Error", errors.New(ce.Message))
}

var lowerMsgStrings = map[int]string{
	LMKSyntax: "Syntax",
	LMKLower:  "Lowering",
	LMKImport: "Import",
	LMKIO:     "IO",
	LMKUsage:  "Usage",
}

func (lm *LowerMessage) display() {
	lm.displayBanner()
	fmt.Println(lm.Message)

	if lm.Ref != nil {
		lm.displayCodeSelection()
	}
}

// displayBanner displays the banner on top of all lowering messages
func (lm *LowerMessage) displayBanner() {
	fmt.Print("\n\n-- ")
	kindStr := lowerMsgStrings[lm.Kind]
	kindLen := len(kindStr)
	if lm.isError() {
		ErrorStyleBG.Print(kindStr + " Error")
		kindLen += 7
	} else {
		WarnStyleBG.Print(kindStr + " Warning")
		kindLen += 9
	}

	fmt.Print(" ")

	fileName := filepath.Base(lm.FilePath)
	bannerLen := pterm.GetTerminalWidth() / 2
	if bannerLen > 50 {
		bannerLen = 50
	}
	dashCount := bannerLen - len(fileName) - kindLen - 1
	if dashCount < 1 {
		dashCount = 1
	}

	fmt.Print(strings.Repeat("-", dashCount) + " ")
	InfoColorFG.Println(fileName)
}

// displayCodeSelection displays the selected source range (with line numbers)
// and underlines it.  The source reference carries byte offsets, so the line
// span is recovered from the file contents.
func (lm *LowerMessage) displayCodeSelection() {
	fmt.Println()

	// this read should always succeed: the collector just lowered the file
	buff, err := ioutil.ReadFile(lm.FilePath)
	if err != nil {
		LogFatal("failed to reopen file to display error message")
		return
	}

	start := lm.Ref.Start
	end := start + lm.Ref.Length
	if start > len(buff) {
		start = len(buff)
	}
	if end > len(buff) {
		end = len(buff)
	}

	// locate the full lines covering [start, end)
	lineStart := strings.LastIndexByte(string(buff[:start]), '\n') + 1
	lineNumber := strings.Count(string(buff[:lineStart]), "\n") + 1

	selection := string(buff[lineStart:])
	if relEnd := strings.IndexByte(string(buff[end:]), '\n'); relEnd >= 0 {
		selection = string(buff[lineStart : end+relEnd])
	}
	lines := strings.Split(selection, "\n")

	maxLineNumberWidth := len(strconv.Itoa(lineNumber+len(lines)-1)) + 1
	lineNumberFmtStr := "%-" + strconv.Itoa(maxLineNumberWidth) + "v"

	for i, line := range lines {
		InfoColorFG.Print(fmt.Sprintf(lineNumberFmtStr, lineNumber+i))
		fmt.Print("|  ")
		fmt.Println(strings.ReplaceAll(line, "\t", "    "))

		// underline only the selected span of each printed line
		fmt.Print(strings.Repeat(" ", maxLineNumberWidth), "|  ")
		from := 0
		if i == 0 {
			from = start - lineStart
		}
		to := len(line)
		if i == len(lines)-1 {
			to = end - (lineStart + len(selection) - len(line))
		}
		if to < from {
			to = from
		}

		ErrorColorFG.Println(strings.Repeat(" ", from) + strings.Repeat("^", to-from))
	}

	fmt.Println()
}

const fatalErrorPostlude = `
This is likely a bug in the frontend, not in the analyzed program.`

func displayFatalError(msg string) {
	fmt.Print("\n\n")
	ErrorStyleBG.Print("Fatal Error ")
	ErrorColorFG.Println(msg)
	InfoColorFG.Println(fatalErrorPostlude)
}

// -----------------------------------------------------------------------------

// DisplayAnalysisFinished displays the closing summary of a run
func DisplayAnalysisFinished(errorCount, moduleCount int) {
	if logger.LogLevel < LogLevelResultOnly {
		return
	}

	if logger.LogLevel >= LogLevelReduced {
		for _, w := range logger.warnings {
			w.display()
		}
	}

	fmt.Print("\n")

	if errorCount == 0 {
		SuccessColorFG.Print("All done! ")
	} else {
		ErrorColorFG.Print("Oh no! ")
	}

	fmt.Print("(")
	switch errorCount {
	case 0:
		SuccessColorFG.Print(0)
		fmt.Print(" errors, ")
	case 1:
		ErrorColorFG.Print(1)
		fmt.Print(" error, ")
	default:
		ErrorColorFG.Print(errorCount)
		fmt.Print(" errors, ")
	}

	InfoColorFG.Print(moduleCount)
	fmt.Println(" modules lowered)")
}
