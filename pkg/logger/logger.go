package logger

import (
	"os"
	"sync"

	"go.uber.org/zap"
)

var (
	mu      sync.RWMutex
	sugared *zap.SugaredLogger
)

func init() {
	development := os.Getenv("ENVIRONMENT") != "production"
	if err := Init(development); err != nil {
		sugared = zap.NewNop().Sugar()
	}
}

// Init replaces the package logger. Development mode logs at debug level with
// console encoding; production uses JSON at info level.
func Init(development bool) error {
	var (
		l   *zap.Logger
		err error
	)
	if development {
		l, err = zap.NewDevelopment(zap.AddCallerSkip(1))
	} else {
		l, err = zap.NewProduction(zap.AddCallerSkip(1))
	}
	if err != nil {
		return err
	}

	mu.Lock()
	sugared = l.Sugar()
	mu.Unlock()
	return nil
}

// L returns the sugared logger for callers that want structured fields.
func L() *zap.SugaredLogger {
	mu.RLock()
	defer mu.RUnlock()
	return sugared
}

func Info(format string, v ...interface{}) {
	L().Infof(format, v...)
}

func Error(format string, v ...interface{}) {
	L().Errorf(format, v...)
}

func Debug(format string, v ...interface{}) {
	L().Debugf(format, v...)
}

func Warn(format string, v ...interface{}) {
	L().Warnf(format, v...)
}

// Sync flushes buffered entries; call it before the process exits.
func Sync() {
	_ = L().Sync()
}

// Fatal logs and exits the process.
func Fatal(format string, v ...interface{}) {
	L().Fatalf(format, v...)
}
