package grib

import (
	"os"
	"sync"

	"github.com/rs/zerolog"
)

// Cleanup failures surface through this logger instead of an error return;
// iterators and shared sources release handles from places with no caller
// to report to.
var (
	loggerMu sync.RWMutex
	logger   = zerolog.New(os.Stderr).With().Timestamp().Str("component", "gribcodes").Logger()
)

// SetLogger replaces the package logger. Pass a disabled logger to silence
// cleanup diagnostics entirely.
func SetLogger(l zerolog.Logger) {
	loggerMu.Lock()
	defer loggerMu.Unlock()
	logger = l
}

func log() *zerolog.Logger {
	loggerMu.RLock()
	defer loggerMu.RUnlock()
	l := logger

	return &l
}
