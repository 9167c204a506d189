package migrate

import (
	"fmt"
	"io"
	"os"

	"github.com/golang-migrate/migrate/v4"
)

var _ migrate.Logger = (*consoleLogger)(nil)

// consoleLogger prints migration progress prefixed with the module name.
type consoleLogger struct {
	out     io.Writer
	prefix  string
	verbose bool
}

func newConsoleLogger(module string) *consoleLogger {
	return &consoleLogger{out: os.Stdout, prefix: fmt.Sprintf("[%s] ", module)}
}

func (l *consoleLogger) Printf(format string, v ...interface{}) {
	fmt.Fprintf(l.out, l.prefix+format, v...)
}

func (l *consoleLogger) Verbose() bool {
	return l.verbose
}
