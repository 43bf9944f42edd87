package console

import (
	"io"
	"os"

	"github.com/charmbracelet/log"
)

// Logger writes human-readable lines through charmbracelet/log.
type Logger struct {
	logger *log.Logger
}

type Params struct {
	Debug bool
	// Output defaults to stderr.
	Output io.Writer
}

func New(params Params) *Logger {
	level := log.InfoLevel
	if params.Debug {
		level = log.DebugLevel
	}
	out := params.Output
	if out == nil {
		out = os.Stderr
	}
	return &Logger{
		logger: log.NewWithOptions(out, log.Options{
			ReportTimestamp: true,
			Level:           level,
		}),
	}
}

func (l *Logger) Debug(msg string, keyvals ...any) { l.logger.Debug(msg, keyvals...) }
func (l *Logger) Info(msg string, keyvals ...any)  { l.logger.Info(msg, keyvals...) }
func (l *Logger) Warn(msg string, keyvals ...any)  { l.logger.Warn(msg, keyvals...) }
func (l *Logger) Error(msg string, keyvals ...any) { l.logger.Error(msg, keyvals...) }
func (l *Logger) Fatal(msg string, keyvals ...any) { l.logger.Fatal(msg, keyvals...) }
