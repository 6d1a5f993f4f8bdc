package logger

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/mattn/go-isatty"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"rgscraper/pkg/config"
)

// Logger is what every package in rgscraper logs through. Fields attached
// with WithField(s) ride along on every later line of the child logger.
type Logger interface {
	levelLogger
	fieldLogger

	DebugWithFields(msg string, fields map[string]interface{})
	InfoWithFields(msg string, fields map[string]interface{})
	WarnWithFields(msg string, fields map[string]interface{})
	ErrorWithFields(msg string, fields map[string]interface{})
	FatalWithFields(msg string, fields map[string]interface{})

	// GetZerolog returns nil for loggers that are not backed by zerolog
	GetZerolog() *zerolog.Logger
}

type levelLogger interface {
	Debug(msg string)
	Info(msg string)
	Warn(msg string)
	Error(msg string)
	Fatal(msg string)
}

type fieldLogger interface {
	WithField(key string, value interface{}) Logger
	WithFields(fields map[string]interface{}) Logger
	WithError(err error) Logger
	WithContext(ctx context.Context) Logger
}

type zerologLogger struct {
	logger *zerolog.Logger
	fields map[string]interface{}
}

// New creates a Logger writing to stderr and, if configured, a log file
func New(cfg *config.LoggingConfig) (Logger, error) {
	return NewWithWriter(cfg, os.Stderr)
}

// NewWithWriter creates a Logger whose console output goes to w.
// Progress lines own stdout, so console logging defaults to stderr.
func NewWithWriter(cfg *config.LoggingConfig, w io.Writer) (Logger, error) {
	level, err := parseLogLevel(cfg.Level)
	if err != nil {
		return nil, fmt.Errorf("invalid log level: %w", err)
	}

	zerolog.TimeFieldFormat = time.RFC3339

	output := w
	if !strings.EqualFold(cfg.Format, "json") {
		output = consoleWriter(w)
	}

	if cfg.File != "" {
		file, err := openLogFile(cfg.File)
		if err != nil {
			return nil, err
		}
		// the file always gets JSON lines, whatever the console format
		output = zerolog.MultiLevelWriter(output, file)
	}

	zlog := zerolog.New(output).Level(level).With().
		Timestamp().
		Str("app", "rgscraper").
		Logger()

	return &zerologLogger{logger: &zlog}, nil
}

// levelTags are the four-letter console level labels and their ANSI colour
var levelTags = map[string][2]string{
	"debug": {"DEBG", "37"},
	"info":  {"INFO", "32"},
	"warn":  {"WARN", "33"},
	"error": {"ERRO", "31"},
	"fatal": {"FATL", "35"},
}

// consoleWriter renders human-readable lines. Colour is used only when w
// is a terminal.
func consoleWriter(w io.Writer) zerolog.ConsoleWriter {
	color := false
	if f, ok := w.(*os.File); ok {
		color = isatty.IsTerminal(f.Fd())
	}
	paint := func(code, s string) string {
		if !color {
			return s
		}
		return "\033[" + code + "m" + s + "\033[0m"
	}

	return zerolog.ConsoleWriter{
		Out:        w,
		NoColor:    !color,
		TimeFormat: "15:04:05",
		FormatLevel: func(i interface{}) string {
			name, _ := i.(string)
			tag, ok := levelTags[name]
			if !ok {
				return strings.ToUpper(name)
			}
			return paint(tag[1], tag[0])
		},
		FormatMessage: func(i interface{}) string {
			if i == nil {
				return ""
			}
			return fmt.Sprintf("| %s", i)
		},
		FormatFieldName: func(i interface{}) string {
			return paint("36", fmt.Sprint(i)) + ":"
		},
		FormatFieldValue: func(i interface{}) string {
			return fmt.Sprint(i)
		},
	}
}

// openLogFile appends to path, creating it and its directory on first use
func openLogFile(path string) (*os.File, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return nil, fmt.Errorf("failed to create log directory: %w", err)
	}
	file, err := os.OpenFile(path, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0644)
	if err != nil {
		return nil, fmt.Errorf("failed to open log file %s: %w", path, err)
	}
	return file, nil
}

// parseLogLevel maps a config level name to zerolog. Empty means info.
func parseLogLevel(level string) (zerolog.Level, error) {
	switch strings.ToLower(level) {
	case "", "info":
		return zerolog.InfoLevel, nil
	case "warning":
		return zerolog.WarnLevel, nil
	case "disabled":
		return zerolog.Disabled, nil
	case "debug", "warn", "error", "fatal":
		return zerolog.ParseLevel(strings.ToLower(level))
	}
	return zerolog.InfoLevel, fmt.Errorf("unknown log level: %s", level)
}

func (l *zerologLogger) Debug(msg string) { l.emit(l.logger.Debug(), nil, msg) }
func (l *zerologLogger) Info(msg string)  { l.emit(l.logger.Info(), nil, msg) }
func (l *zerologLogger) Warn(msg string)  { l.emit(l.logger.Warn(), nil, msg) }
func (l *zerologLogger) Error(msg string) { l.emit(l.logger.Error(), nil, msg) }

// Fatal logs and then exits the process
func (l *zerologLogger) Fatal(msg string) { l.emit(l.logger.Fatal(), nil, msg) }

func (l *zerologLogger) DebugWithFields(msg string, fields map[string]interface{}) {
	l.emit(l.logger.Debug(), fields, msg)
}

func (l *zerologLogger) InfoWithFields(msg string, fields map[string]interface{}) {
	l.emit(l.logger.Info(), fields, msg)
}

func (l *zerologLogger) WarnWithFields(msg string, fields map[string]interface{}) {
	l.emit(l.logger.Warn(), fields, msg)
}

func (l *zerologLogger) ErrorWithFields(msg string, fields map[string]interface{}) {
	l.emit(l.logger.Error(), fields, msg)
}

func (l *zerologLogger) FatalWithFields(msg string, fields map[string]interface{}) {
	l.emit(l.logger.Fatal(), fields, msg)
}

// emit writes the logger's own fields, then the call's fields, then msg.
// A disabled level yields a nil event, which zerolog treats as a no-op.
func (l *zerologLogger) emit(event *zerolog.Event, fields map[string]interface{}, msg string) {
	if len(l.fields) > 0 {
		event = event.Fields(l.fields)
	}
	if len(fields) > 0 {
		event = event.Fields(fields)
	}
	event.Msg(msg)
}

func (l *zerologLogger) WithField(key string, value interface{}) Logger {
	return l.WithFields(map[string]interface{}{key: value})
}

// WithFields returns a child; the parent's fields are copied, never shared
func (l *zerologLogger) WithFields(fields map[string]interface{}) Logger {
	merged := make(map[string]interface{}, len(l.fields)+len(fields))
	for k, v := range l.fields {
		merged[k] = v
	}
	for k, v := range fields {
		merged[k] = v
	}
	return &zerologLogger{logger: l.logger, fields: merged}
}

func (l *zerologLogger) WithError(err error) Logger {
	if err == nil {
		return l
	}
	return l.WithField(zerolog.ErrorFieldName, err.Error())
}

func (l *zerologLogger) WithContext(ctx context.Context) Logger {
	child := l.logger.With().Ctx(ctx).Logger()
	return &zerologLogger{logger: &child, fields: l.fields}
}

func (l *zerologLogger) GetZerolog() *zerolog.Logger {
	return l.logger
}

var globalLogger Logger

// Initialize builds the global logger from configuration
func Initialize(cfg *config.LoggingConfig) error {
	l, err := New(cfg)
	if err != nil {
		return err
	}
	SetLogger(l)
	return nil
}

// SetLogger replaces the global logger; tests use it to capture output
func SetLogger(l Logger) {
	globalLogger = l
	if zl := l.GetZerolog(); zl != nil {
		log.Logger = *zl
	}
}

// GetLogger returns the global logger, creating an info-level one on first use
func GetLogger() Logger {
	if globalLogger == nil {
		globalLogger, _ = New(&config.LoggingConfig{Level: "info"})
	}
	return globalLogger
}

func Debug(msg string) { GetLogger().Debug(msg) }
func Info(msg string)  { GetLogger().Info(msg) }
func Warn(msg string)  { GetLogger().Warn(msg) }
func Error(msg string) { GetLogger().Error(msg) }

func WithField(key string, value interface{}) Logger {
	return GetLogger().WithField(key, value)
}

func WithFields(fields map[string]interface{}) Logger {
	return GetLogger().WithFields(fields)
}

func WithError(err error) Logger {
	return GetLogger().WithError(err)
}
