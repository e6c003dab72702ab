// Package logging routes diagnostics to a log file under the config dir.
//
// The TUI owns the terminal, so nothing here writes to stdout. Until Init is
// called every message is discarded, which keeps tests and one-shot CLI
// commands quiet.
package logging

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/op/go-logging"
)

const (
	module      = "userhub"
	logFileName = "userhub.log"
	timeFormat  = "2006/01/02 15:04:05"
)

var (
	mu      sync.Mutex
	logger  = logging.MustGetLogger(module)
	logFile *os.File
)

func init() {
	setBackend(io.Discard, logging.INFO)
}

// ParseLevel maps a config string (debug|info|warning|error) to a level.
// Unknown values fall back to INFO.
func ParseLevel(s string) logging.Level {
	lvl, err := logging.LogLevel(strings.ToUpper(strings.TrimSpace(s)))
	if err != nil {
		return logging.INFO
	}
	return lvl
}

// Init opens (appending) <dir>/userhub.log and routes all messages at or above
// level to it.
func Init(dir string, level logging.Level) error {
	if err := os.MkdirAll(dir, 0o750); err != nil {
		return fmt.Errorf("create log dir: %w", err)
	}
	path := filepath.Join(dir, logFileName)
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o640)
	if err != nil {
		return fmt.Errorf("open log file: %w", err)
	}

	mu.Lock()
	defer mu.Unlock()
	if logFile != nil {
		_ = logFile.Close()
	}
	logFile = f
	setBackend(f, level)
	return nil
}

// InitWriter routes messages to w. Used by the mock server, which logs to stderr.
func InitWriter(w io.Writer, level logging.Level) {
	mu.Lock()
	defer mu.Unlock()
	setBackend(w, level)
}

// Close releases the log file, if any.
func Close() {
	mu.Lock()
	defer mu.Unlock()
	if logFile != nil {
		_ = logFile.Close()
		logFile = nil
	}
	setBackend(io.Discard, logging.INFO)
}

func setBackend(w io.Writer, level logging.Level) {
	backend := logging.NewLogBackend(w, "", 0)
	formatted := logging.NewBackendFormatter(backend, logging.MustStringFormatter(
		`%{time:`+timeFormat+`} %{level:.4s} %{shortfile} - %{message}`,
	))
	leveled := logging.AddModuleLevel(formatted)
	leveled.SetLevel(level, module)
	logger.SetBackend(leveled)
	logger.ExtraCalldepth = 1
}

func Debugf(format string, args ...any)   { logger.Debugf(format, args...) }
func Infof(format string, args ...any)    { logger.Infof(format, args...) }
func Warningf(format string, args ...any) { logger.Warningf(format, args...) }
func Errorf(format string, args ...any)   { logger.Errorf(format, args...) }
