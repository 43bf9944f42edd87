// Package logger fans structured log calls out to the configured backends.
// Calls made before Init are dropped.
package logger

import "sync"

// Instance is a logging backend.
type Instance interface {
	Debug(msg string, keyvals ...any)
	Info(msg string, keyvals ...any)
	Warn(msg string, keyvals ...any)
	Error(msg string, keyvals ...any)
	Fatal(msg string, keyvals ...any)
}

var (
	mu        sync.RWMutex
	instances []Instance
)

// Init replaces the active backends.
func Init(backends ...Instance) {
	mu.Lock()
	defer mu.Unlock()
	instances = backends
}

func each(fn func(Instance)) {
	mu.RLock()
	defer mu.RUnlock()
	for _, in := range instances {
		fn(in)
	}
}

func Debug(msg string, keyvals ...any) { each(func(in Instance) { in.Debug(msg, keyvals...) }) }
func Info(msg string, keyvals ...any)  { each(func(in Instance) { in.Info(msg, keyvals...) }) }
func Warn(msg string, keyvals ...any)  { each(func(in Instance) { in.Warn(msg, keyvals...) }) }
func Error(msg string, keyvals ...any) { each(func(in Instance) { in.Error(msg, keyvals...) }) }

// Fatal logs and exits through the backends; it is a no-op before Init.
func Fatal(msg string, keyvals ...any) { each(func(in Instance) { in.Fatal(msg, keyvals...) }) }
