package logger

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/sirupsen/logrus"
)

const logDir = "logs"

// Closer flushes buffered log output. Call it once during shutdown.
type Closer func()

// NewLogger builds the service logger. Entries are JSON encoded and written
// asynchronously both to logs/<service>.log and to stdout.
func NewLogger(service string) (*logrus.Logger, Closer, error) {
	logger := logrus.New()

	logger.SetFormatter(&logrus.JSONFormatter{
		TimestampFormat: time.RFC3339,
		FieldMap: logrus.FieldMap{
			logrus.FieldKeyTime: "time",
			logrus.FieldKeyMsg:  "msg",
		},
	})
	logger.SetLevel(levelFromEnv(os.Getenv("LOG_LEVEL")))

	logFile := filepath.Clean(filepath.Join(logDir, service+".log"))
	if !strings.HasPrefix(logFile, logDir+string(filepath.Separator)) {
		return nil, nil, fmt.Errorf("invalid log file path %q: must be in %s directory", logFile, logDir)
	}
	if err := os.MkdirAll(logDir, 0750); err != nil {
		return nil, nil, fmt.Errorf("failed to create logs directory: %w", err)
	}

	fileWriter, err := NewAsyncFileWriter(logFile, 32*1024)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to initialize async log writer: %w", err)
	}
	logger.SetOutput(fileWriter)

	consoleHook := NewAsyncConsoleHook(os.Stdout, 4096)
	logger.AddHook(consoleHook)

	closer := func() {
		consoleHook.Close()
		fileWriter.Close()
	}
	return logger, closer, nil
}

// NewNopLogger returns a logger that discards everything; handy in tests.
func NewNopLogger() *logrus.Logger {
	logger := logrus.New()
	logger.SetOutput(io.Discard)
	logger.SetLevel(logrus.PanicLevel)
	return logger
}

func levelFromEnv(level string) logrus.Level {
	switch strings.ToLower(level) {
	case "debug":
		return logrus.DebugLevel
	case "warn":
		return logrus.WarnLevel
	case "error":
		return logrus.ErrorLevel
	default:
		return logrus.InfoLevel
	}
}
