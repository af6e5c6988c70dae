// Package log is the leveled logger the nmpolicyctl CLI writes
// through (the pkg/nmpolicy packages do not log), in the style of
// graft's log package:
// package-level DebugOn/TraceOn switches, DEBUG/TRACE helpers that are
// no-ops unless enabled, and a PrintfStdErr escape hatch for output
// that must always reach the terminal regardless of level.
package log

import (
	"fmt"
	"os"

	"github.com/starkandwayne/goutils/ansi"
)

// DebugOn enables DEBUG(). Set from -D/--debug or the DEBUG env var.
var DebugOn = false

// TraceOn enables TRACE(). Set from -T/--trace or the TRACE env var;
// also implies DebugOn, the way graft's CLI turns both on together.
var TraceOn = false

// DEBUG logs a formatted message when DebugOn is set.
func DEBUG(format string, args ...interface{}) {
	if !DebugOn {
		return
	}
	printfStdErr(ansi.Sprintf("@G{DEBUG} > %s\n", fmt.Sprintf(format, args...)))
}

// TRACE logs a formatted message when TraceOn is set.
func TRACE(format string, args ...interface{}) {
	if !TraceOn {
		return
	}
	printfStdErr(ansi.Sprintf("@C{TRACE} > %s\n", fmt.Sprintf(format, args...)))
}

// PrintfStdErr writes directly to stderr, unconditionally, for
// user-facing errors and CLI diagnostics that must not be gated by a
// log level.
func PrintfStdErr(format string, args ...interface{}) {
	printfStdErr(fmt.Sprintf(format, args...))
}

func printfStdErr(s string) {
	fmt.Fprint(os.Stderr, s)
}
