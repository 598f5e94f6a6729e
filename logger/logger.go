package logger

import (
	"io"
	"os"
	"path/filepath"

	"github.com/sirupsen/logrus"
	"gopkg.in/natefinch/lumberjack.v2"
)

var (
	InfoLogger  = logrus.New()
	WarnLogger  = logrus.New()
	ErrorLogger = logrus.New()
)

// InitLoggers points the three loggers at rotated files under LOG_DIR
// (default "logs") and mirrors everything to stdout.
func InitLoggers() {
	dir := os.Getenv("LOG_DIR")
	if dir == "" {
		dir = "logs"
	}

	if err := os.MkdirAll(dir, 0o755); err != nil {
		// Fall back to stdout only; a read-only filesystem must not stop the server.
		InfoLogger.Warnf("Log directory %s unavailable, logging to stdout only: %v", dir, err)
		configure(InfoLogger, os.Stdout, logrus.InfoLevel)
		configure(WarnLogger, os.Stdout, logrus.WarnLevel)
		configure(ErrorLogger, os.Stderr, logrus.ErrorLevel)
		return
	}

	configure(InfoLogger, io.MultiWriter(os.Stdout, rotated(dir, "info.log")), logrus.InfoLevel)
	configure(WarnLogger, io.MultiWriter(os.Stdout, rotated(dir, "warn.log")), logrus.WarnLevel)
	configure(ErrorLogger, io.MultiWriter(os.Stderr, rotated(dir, "error.log")), logrus.ErrorLevel)
}

func rotated(dir, name string) io.Writer {
	return &lumberjack.Logger{
		Filename:   filepath.Join(dir, name),
		MaxSize:    10, // megabytes
		MaxBackups: 5,
		MaxAge:     28, // days
		Compress:   true,
	}
}

func configure(l *logrus.Logger, out io.Writer, level logrus.Level) {
	l.SetOutput(out)
	l.SetLevel(level)
	l.SetFormatter(&logrus.JSONFormatter{TimestampFormat: "2006-01-02T15:04:05.000Z07:00"})
}
