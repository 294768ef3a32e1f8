// Package dbg provides a package-level debug logger that compiles to a
// no-op unless the repository is built with the "debug" build tag.
package dbg

// Logger is implemented by either the debug or release build of this
// package, selected at compile time by the "debug" build tag.
type Logger interface {
	Printf(format string, a ...interface{})
	Println(a ...interface{})
}

// log is initialized by debug_on.go or debug_off.go's init function,
// depending on which build tag is active.
var log Logger

// Printf logs a formatted diagnostic line. No-op unless built with -tags debug.
func Printf(format string, a ...interface{}) {
	log.Printf(format, a...)
}

// Println logs a diagnostic line. No-op unless built with -tags debug.
func Println(a ...interface{}) {
	log.Println(a...)
}
