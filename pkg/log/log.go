package log

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/sirupsen/logrus"
)

var (
	_         StdLogger = &Logger{}
	_         StdLogger = &logrus.Entry{}
	stdLogger           = NewLogger(os.Stderr)
)

// StdLogger is the logging surface services depend on. Both *Logger and
// the *logrus.Entry stored by NewContext satisfy it.
type StdLogger interface {
	Debug(args ...interface{})
	Info(args ...interface{})
	Warn(args ...interface{})
	Error(args ...interface{})

	Infof(format string, args ...interface{})

	WithFields(f Fields) *logrus.Entry
	WithError(err error) *logrus.Entry
}

type Fields = logrus.Fields

// Level is a log verbosity, ordered from least to most verbose.
type Level int32

const (
	FatalLevel Level = iota
	ErrorLevel
	WarnLevel
	InfoLevel
	DebugLevel
)

var logrusLevels = map[Level]logrus.Level{
	FatalLevel: logrus.FatalLevel,
	ErrorLevel: logrus.ErrorLevel,
	WarnLevel:  logrus.WarnLevel,
	InfoLevel:  logrus.InfoLevel,
	DebugLevel: logrus.DebugLevel,
}

func (l Level) ToLogrusLevel() (logrus.Level, error) {
	lvl, ok := logrusLevels[l]
	if !ok {
		return 0, fmt.Errorf("not a valid log Level: %d", l)
	}
	return lvl, nil
}

// ParseLevel accepts fatal, error, warn(ing), info and debug in any case.
func ParseLevel(lvl string) (Level, error) {
	switch strings.ToLower(lvl) {
	case "fatal":
		return FatalLevel, nil
	case "error":
		return ErrorLevel, nil
	case "warn", "warning":
		return WarnLevel, nil
	case "info":
		return InfoLevel, nil
	case "debug":
		return DebugLevel, nil
	}

	return 0, fmt.Errorf("not a valid Level: %q", lvl)
}

const timestampFormat = "2006-01-02 15:04:05"

func jsonFormatter() logrus.Formatter {
	return &logrus.JSONFormatter{TimestampFormat: timestampFormat}
}

// Logger writes entries to a single io.Writer. It starts at InfoLevel with
// json lines; the CLI switches it to text for terminals.
type Logger struct {
	logger *logrus.Logger
	entry  *logrus.Entry
}

func NewLogger(out io.Writer) *Logger {
	l := &logrus.Logger{
		Out:       out,
		Formatter: jsonFormatter(),
		Hooks:     make(logrus.LevelHooks),
		Level:     logrus.InfoLevel,
	}

	return &Logger{logger: l, entry: logrus.NewEntry(l)}
}

func (l *Logger) Debug(args ...interface{}) { l.entry.Debug(args...) }
func (l *Logger) Info(args ...interface{})  { l.entry.Info(args...) }
func (l *Logger) Warn(args ...interface{})  { l.entry.Warn(args...) }
func (l *Logger) Error(args ...interface{}) { l.entry.Error(args...) }

func (l *Logger) Infof(format string, args ...interface{}) {
	l.entry.Infof(format, args...)
}

func (l *Logger) WithFields(f Fields) *logrus.Entry {
	return l.entry.WithFields(f)
}

func (l *Logger) WithError(err error) *logrus.Entry {
	return l.entry.WithError(err)
}

// SetLevel panics on a Level outside FatalLevel..DebugLevel.
func (l *Logger) SetLevel(v Level) {
	lvl, err := v.ToLogrusLevel()
	if err != nil {
		panic(err)
	}

	l.logger.SetLevel(lvl)
}

// SetFormat switches between "json" lines and human readable "text".
func (l *Logger) SetFormat(format string) error {
	switch strings.ToLower(format) {
	case "json":
		l.logger.SetFormatter(jsonFormatter())
	case "text":
		l.logger.SetFormatter(&logrus.TextFormatter{
			TimestampFormat: timestampFormat,
			FullTimestamp:   true,
		})
	default:
		return fmt.Errorf("not a valid log format: %q", format)
	}
	return nil
}

type contextKey struct{}

// NewContext stores lo, tagged with fields, in ctx.
func NewContext(ctx context.Context, lo StdLogger, fields Fields) context.Context {
	return context.WithValue(ctx, contextKey{}, lo.WithFields(fields))
}

// FromContext returns the entry stored by NewContext, or the stderr logger.
func FromContext(ctx context.Context) StdLogger {
	if e, ok := ctx.Value(contextKey{}).(*logrus.Entry); ok {
		return e
	}

	return stdLogger.entry
}

func Fatal(args ...interface{}) {
	stdLogger.entry.Fatal(args...)
}

func Error(args ...interface{}) {
	stdLogger.entry.Error(args...)
}
