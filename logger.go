package odoosentry

import (
	"context"
	"io"
	"strings"
	"sync"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
)

// LoggerMaker is the surface hosts depend on to mint named loggers.
type LoggerMaker interface {
	NewLogger(name string) *Logger
}

// Logger extends a logrus logger with a dotted path name and a propagate
// flag. Records from a non-propagating logger are dropped by the before-send
// filter even when something else captures them.
type Logger struct {
	*logrus.Entry

	manager *Manager
	name    []string

	mu        sync.RWMutex
	propagate bool
}

// Extend returns a registered Logger with an extended name path.
func (l *Logger) Extend(name string) *Logger {
	if l.manager == nil || !l.manager.enabled {
		return l
	}
	log := logrus.New()
	log.AddHook(l.manager) // inherit manager

	newName := append(append([]string{}, l.name...), name)
	newNameStr := strings.Join(newName, ".")
	logger := &Logger{
		Entry:     log.WithField(keyLoggerName, newNameStr),
		manager:   l.manager,
		name:      newName,
		propagate: true,
	}
	l.manager.register(newNameStr, logger)
	return logger
}

// SetPropagate toggles whether records from this logger reach Sentry.
func (l *Logger) SetPropagate(propagate bool) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.propagate = propagate
}

// Propagates reports the propagate flag.
func (l *Logger) Propagates() bool {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.propagate
}

// WithUser includes the given user id in the logger context.
func (l *Logger) WithUser(userID string) *Logger {
	l.Entry.Context = context.WithValue(contextOrBackground(l.Entry.Context), keyUserID, userID)
	return l
}

// WithGin includes the given gin request context in the logger context.
func (l *Logger) WithGin(c *gin.Context) *Logger {
	l.Entry.Context = context.WithValue(contextOrBackground(l.Entry.Context), keyGinContext, c)
	return l
}

func contextOrBackground(ctx context.Context) context.Context {
	if ctx == nil {
		return context.Background()
	}
	return ctx
}

// discardLogger backs loggers handed out by a disabled manager.
func discardLogger(name string) *Logger {
	log := logrus.New()
	log.Out = io.Discard
	return &Logger{
		Entry:     log.WithField(keyLoggerName, name),
		name:      []string{name},
		propagate: true,
	}
}
