//go:build debug

package dbg

import (
	"fmt"
	stdlog "log"
	"os"
)

type stderrLogger struct {
	logger *stdlog.Logger
}

func init() {
	log = &stderrLogger{
		logger: stdlog.New(os.Stderr, "dmgcore: ", stdlog.Lshortfile),
	}
}

func (l *stderrLogger) Printf(format string, a ...interface{}) {
	l.logger.Output(3, fmt.Sprintf(format, a...))
}

func (l *stderrLogger) Println(a ...interface{}) {
	l.logger.Output(3, fmt.Sprintln(a...))
}
