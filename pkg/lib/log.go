package lib

import (
	"fmt"
	"os"
	"strings"

	"github.com/kataras/golog"
)

// LogLevels lists the accepted values for SetLogLevel.
var LogLevels = []string{"debug", "info", "warn", "error", "disable"}

var logger = golog.New().
	SetOutput(os.Stderr).
	SetTimeFormat("2006/01/02 15:04:05").
	SetLevel("warn")

// Logger returns the logger shared by the library and the CLI.
func Logger() *golog.Logger {
	return logger
}

// SetLogLevel changes the level of the shared logger.
func SetLogLevel(level string) error {
	level = strings.ToLower(strings.TrimSpace(level))
	for _, l := range LogLevels {
		if l == level {
			logger.SetLevel(level)
			return nil
		}
	}
	return fmt.Errorf("invalid log level %q (valid: %s)", level, strings.Join(LogLevels, ", "))
}
