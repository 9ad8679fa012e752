package utils

import (
	"io"
	"os"
	"strings"

	chlog "github.com/charmbracelet/log"
)

// Logger is the application-wide structured logger.
var Logger *chlog.Logger

const (
	debugLevel = "debug"
	infoLevel  = "info"
	warnLevel  = "warn"
	errorLevel = "error"
)

// InitLogger initializes the global logger with level from OFFSET_SCOUT_LOG_LEVEL.
// Valid levels: debug, info, warn, error.
func InitLogger() {
	initLogger(os.Stderr)
}

// InitLoggerTo is InitLogger writing to w. CLI commands log to stderr so stdout stays JSON.
func InitLoggerTo(w io.Writer) {
	initLogger(w)
}

func initLogger(w io.Writer) {
	if Logger != nil {
		return
	}
	l := chlog.New(w)
	l.SetTimeFormat("2006-01-02 15:04:05.000")
	l.SetReportTimestamp(true)
	l.SetLevel(parseLevel(os.Getenv("OFFSET_SCOUT_LOG_LEVEL")))
	Logger = l
}

// SetLogLevel allows changing level at runtime. Unknown levels are ignored.
func SetLogLevel(level string) {
	if Logger == nil {
		InitLogger()
	}
	switch strings.ToLower(strings.TrimSpace(level)) {
	case debugLevel, infoLevel, warnLevel, errorLevel:
		Logger.SetLevel(parseLevel(level))
	}
}

func parseLevel(s string) chlog.Level {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case debugLevel:
		return chlog.DebugLevel
	case warnLevel:
		return chlog.WarnLevel
	case errorLevel:
		return chlog.ErrorLevel
	default:
		return chlog.InfoLevel
	}
}
