package config

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	log "github.com/sirupsen/logrus"
)

type nopCloser struct{}

func (nopCloser) Close() error { return nil }

func CheckDebug() bool {
	debug := os.Getenv("CHATWIRE_DEBUG")
	return debug == "true" || debug == "1"
}

// InitLogging configures the logrus standard logger for the gateway.
func InitLogging(level string, out io.Writer) error {
	lvl, err := log.ParseLevel(level)
	if err != nil {
		return fmt.Errorf("invalid log level %q: %w", level, err)
	}
	if CheckDebug() && lvl < log.DebugLevel {
		lvl = log.DebugLevel
	}

	log.SetOutput(out)
	log.SetLevel(lvl)
	log.SetFormatter(&log.TextFormatter{
		FullTimestamp:   true,
		TimestampFormat: "2006-01-02T15:04:05.000Z07:00",
	})
	return nil
}

// InitDebugLog routes logging for the chat window, which owns the terminal.
// With CHATWIRE_DEBUG set, logs go to <dataDir>/debug.log; otherwise they are
// discarded. The returned closer is never nil.
func InitDebugLog(dataDir string) io.Closer {
	log.SetFormatter(&log.TextFormatter{
		FullTimestamp:   true,
		TimestampFormat: "2006-01-02T15:04:05.000Z07:00",
		DisableColors:   true,
	})

	if !CheckDebug() {
		log.SetOutput(io.Discard)
		return nopCloser{}
	}

	if err := EnsureDir(dataDir); err != nil {
		fmt.Fprintf(os.Stderr, "Warning: Could not create data directory %s: %v\n", dataDir, err)
		log.SetOutput(io.Discard)
		return nopCloser{}
	}

	logPath := filepath.Join(dataDir, "debug.log")

	// Create debug log with secure permissions (0600 - may contain conversation text)
	f, err := os.OpenFile(logPath, os.O_RDWR|os.O_CREATE|os.O_APPEND, 0600)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Warning: Could not open debug log at %s: %v\n", logPath, err)
		log.SetOutput(io.Discard)
		return nopCloser{}
	}

	log.SetOutput(f)
	log.SetLevel(log.DebugLevel)
	log.Debugf("=== Debug logging started (CHATWIRE_DEBUG=%s) ===", os.Getenv("CHATWIRE_DEBUG"))
	log.Debugf("Log path: %s", logPath)
	return f
}
