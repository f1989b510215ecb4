// Package log provides the process-wide structured logger. It wraps zerolog
// and also redirects the gnark logger, so circuit compilation and proving
// progress ends up in the same output.
package log

import (
	"bytes"
	"cmp"
	"fmt"
	"io"
	"os"
	"strings"
	"time"
	"unicode/utf8"

	gnarklogger "github.com/consensys/gnark/logger"
	"github.com/rs/zerolog"
)

const (
	LogLevelDebug = "debug"
	LogLevelInfo  = "info"
	LogLevelWarn  = "warn"
	LogLevelError = "error"
)

var (
	log      zerolog.Logger
	logLevel = LogLevelError

	// logTestWriter is used as output when Init is called with
	// logTestWriterName, so benchmarks and tests can capture or discard logs.
	logTestWriter     io.Writer = os.Stderr
	logTestWriterName           = "log_test_writer"

	panicOnInvalidChars = os.Getenv("LOG_PANIC_ON_INVALIDCHARS") == "true"
)

func init() {
	Init(cmp.Or(os.Getenv("LOG_LEVEL"), LogLevelError), "stderr", nil)
}

// invalidCharChecker inspects every encoded log line and panics if it carries
// the unicode replacement char and panicOnInvalidChars is enabled.
type invalidCharChecker struct{}

func (*invalidCharChecker) Write(p []byte) (int, error) {
	if !panicOnInvalidChars {
		return len(p), nil
	}
	// zerolog escapes invalid UTF-8 as a literal \ufffd sequence
	if bytes.Contains(p, []byte(`\ufffd`)) || bytes.ContainsRune(p, utf8.RuneError) {
		panic(fmt.Sprintf("log line contains invalid chars: %q", p))
	}
	return len(p), nil
}

// errorLevelWriter forwards only warn and above to the wrapped writer.
type errorLevelWriter struct {
	io.Writer
}

func (w *errorLevelWriter) WriteLevel(level zerolog.Level, p []byte) (int, error) {
	if level < zerolog.WarnLevel {
		return len(p), nil
	}
	return w.Write(p)
}

// Init initializes the logger. Output can be "stdout", "stderr", or a file
// path (logs are appended). If errorOutput is not nil, warnings and errors
// are also written to it.
func Init(level, output string, errorOutput io.Writer) {
	var out io.Writer
	switch output {
	case "stdout":
		out = zerolog.ConsoleWriter{Out: os.Stdout, TimeFormat: time.RFC3339Nano}
	case "stderr":
		out = zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339Nano}
	case logTestWriterName:
		out = logTestWriter
	default:
		f, err := os.OpenFile(output, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
		if err != nil {
			panic(fmt.Sprintf("cannot create log output: %v", err))
		}
		out = f
	}
	writers := []io.Writer{out, &invalidCharChecker{}}
	if errorOutput != nil {
		writers = append(writers, &errorLevelWriter{errorOutput})
	}
	log = zerolog.New(zerolog.MultiLevelWriter(writers...)).With().Timestamp().Logger()

	switch strings.ToLower(level) {
	case LogLevelDebug:
		log = log.Level(zerolog.DebugLevel).With().Caller().Logger()
	case LogLevelInfo:
		log = log.Level(zerolog.InfoLevel)
	case LogLevelWarn:
		log = log.Level(zerolog.WarnLevel)
	case LogLevelError:
		log = log.Level(zerolog.ErrorLevel)
	default:
		panic(fmt.Sprintf("invalid log level: %q", level))
	}
	logLevel = strings.ToLower(level)

	// gnark is very verbose, keep it quiet unless we are debugging
	if logLevel == LogLevelDebug {
		gnarklogger.Set(log.With().Str("module", "gnark").Logger())
	} else {
		gnarklogger.Disable()
	}
}

// Logger returns the underlying zerolog logger.
func Logger() *zerolog.Logger {
	return &log
}

// Level returns the current log level.
func Level() string {
	return logLevel
}

func Debug(args ...any) {
	log.Debug().CallerSkipFrame(1).Msg(fmt.Sprint(args...))
}

func Debugf(template string, args ...any) {
	log.Debug().CallerSkipFrame(1).Msgf(template, args...)
}

// Debugw logs a message with key/value pairs.
func Debugw(msg string, keyvalues ...any) {
	log.Debug().CallerSkipFrame(1).Fields(keyvalues).Msg(msg)
}

func Info(args ...any) {
	log.Info().Msg(fmt.Sprint(args...))
}

func Infof(template string, args ...any) {
	log.Info().Msgf(template, args...)
}

func Infow(msg string, keyvalues ...any) {
	log.Info().Fields(keyvalues).Msg(msg)
}

func Warn(args ...any) {
	log.Warn().Msg(fmt.Sprint(args...))
}

func Warnf(template string, args ...any) {
	log.Warn().Msgf(template, args...)
}

func Warnw(msg string, keyvalues ...any) {
	log.Warn().Fields(keyvalues).Msg(msg)
}

func Error(args ...any) {
	log.Error().Msg(fmt.Sprint(args...))
}

func Errorf(template string, args ...any) {
	log.Error().Msgf(template, args...)
}

// Errorw logs the error along with a message.
func Errorw(err error, msg string) {
	log.Error().Err(err).Msg(msg)
}

func Fatal(args ...any) {
	log.Fatal().Msg(fmt.Sprint(args...))
}

func Fatalf(template string, args ...any) {
	log.Fatal().Msgf(template, args...)
}
