package odoosentry

import (
	"net/http"
	"sync"

	"github.com/getsentry/sentry-go"
	sentryhttp "github.com/getsentry/sentry-go/http"
	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
)

const (
	keySentryHub  = "sentry_hub"
	keyLoggerName = "logger"

	fingerprintBase = "odoo"
)

// Manager is the handle returned by Setup. It owns the named-logger
// registry, acts as the logrus hook that turns log records into Sentry
// events, and hands out the HTTP middleware the host composes into its
// handler chain.
type Manager struct {
	enabled bool

	captureLevels   []logrus.Level
	breadcrumbLimit int

	// ContextProvider derives the context merged into events tagged with
	// include_context. Hosts replace it to attach their own user, session
	// or database details.
	ContextProvider func(r *sentry.Request) *RequestContext

	mu      sync.RWMutex
	muted   map[string]struct{}
	loggers map[string]*Logger
	ignored map[string]struct{}

	httpHandler *sentryhttp.Handler
}

func newManager(s *settings) *Manager {
	return &Manager{
		enabled:         true,
		captureLevels:   levelsAtOrAbove(s.captureLevel),
		breadcrumbLimit: s.breadcrumbLimit,
		ContextProvider: defaultRequestContext,
		muted:           make(map[string]struct{}),
		loggers:         make(map[string]*Logger),
		ignored:         newStringSet(s.ignoredExceptions),
		httpHandler:     sentryhttp.New(sentryhttp.Options{Repanic: true}),
	}
}

func newStringSet(items []string) map[string]struct{} {
	set := make(map[string]struct{}, len(items))
	for _, item := range items {
		set[item] = struct{}{}
	}
	return set
}

// IgnoreLogger silences a logger name entirely: records logged under it are
// never captured, matching sentry_sdk's ignore_logger.
func (m *Manager) IgnoreLogger(name string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.muted[name] = struct{}{}
}

func (m *Manager) isMuted(name string) bool {
	m.mu.RLock()
	defer m.mu.RUnlock()
	_, ok := m.muted[name]
	return ok
}

func (m *Manager) isIgnoredException(qualifiedName string) bool {
	m.mu.RLock()
	defer m.mu.RUnlock()
	_, ok := m.ignored[qualifiedName]
	return ok
}

// propagates reports whether the named logger forwards its records. Only an
// explicit SetPropagate(false) on a registered logger turns this off.
func (m *Manager) propagates(name string) bool {
	if name == "" {
		return true
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	logger, ok := m.loggers[name]
	if !ok {
		return true
	}
	return logger.Propagates()
}

func (m *Manager) register(name string, logger *Logger) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.loggers[name] = logger
}

// Levels implements the logrus.Hook interface.
func (m *Manager) Levels() []logrus.Level {
	return m.captureLevels
}

// Fire implements the logrus.Hook interface. The record becomes a Sentry
// event captured with a log-record hint, so the before-send filter can
// classify it the same way the SDK classifies real exceptions.
func (m *Manager) Fire(lEntry *logrus.Entry) error {
	if !m.enabled {
		return nil
	}

	entry := &logEntry{lEntry}
	loggerName := entry.LoggerName()
	if m.isMuted(loggerName) {
		return nil
	}

	// Prefer the hub set during HTTP middleware so the event carries the
	// request scope.
	var hub *sentry.Hub
	if entry.Context != nil {
		if ctxHub, ok := entry.Context.Value(keySentryHub).(*sentry.Hub); ok && ctxHub != nil {
			hub = ctxHub
		} else if ctxHub := sentry.GetHubFromContext(entry.Context); ctxHub != nil {
			hub = ctxHub
		}
	}
	if hub == nil {
		if ginCtx := entry.GinContext(); ginCtx != nil {
			if ctxHub, ok := ginCtx.Value(keySentryHub).(*sentry.Hub); ok && ctxHub != nil {
				hub = ctxHub
			}
		}
	}
	if hub == nil {
		hub = sentry.CurrentHub().Clone()
	}

	go func(hub *sentry.Hub) {
		defer m.recoverFromCapture(hub)

		// hub is cloned per request or just above, so the scope is ours
		// to mutate within this goroutine.
		event := sentry.NewEvent()
		event.Level = sentry.Level(entry.Level.String())
		event.Message = entry.Message
		event.Extra = entry.Extras()
		event.Timestamp = entry.Time

		if loggerName != "" {
			event.Logger = loggerName
		}

		if ginCtx := entry.GinContext(); ginCtx != nil {
			event.Fingerprint = []string{fingerprintBase, ginCtx.Request.Method, ginCtx.FullPath(), entry.Message}
		} else if loggerName != "" {
			event.Fingerprint = []string{fingerprintBase, loggerName, entry.Message}
		}

		if err := entry.Err(); err != nil {
			hub.Scope().AddBreadcrumb(&sentry.Breadcrumb{
				Type:      "error",
				Category:  loggerName,
				Message:   err.Error(),
				Level:     "error",
				Timestamp: entry.Time,
			}, m.breadcrumbLimit)
		}

		if userID := entry.UserID(); userID != "" {
			event.User = sentry.User{ID: userID}
		}

		client := hub.Client()
		if client == nil {
			return
		}
		hint := &sentry.EventHint{Data: entry.Entry}
		client.CaptureEvent(event, hint, hub.Scope())
	}(hub)

	return nil
}

// recoverFromCapture keeps a panic inside the capture goroutine from taking
// the host down with it.
func (m *Manager) recoverFromCapture(hub *sentry.Hub) {
	err := recover()
	if err == nil {
		return
	}

	event := sentry.NewEvent()
	event.Level = sentry.LevelError
	event.Message = "recovered panic while capturing a log record"
	event.Fingerprint = []string{fingerprintBase, "capture_panic"}

	var msg string
	switch v := err.(type) {
	case error:
		msg = v.Error()
	case string:
		msg = v
	}
	if msg != "" {
		hub.Scope().AddBreadcrumb(&sentry.Breadcrumb{
			Type:     "error",
			Category: "sentry.panic",
			Message:  msg,
			Level:    "fatal",
		}, m.breadcrumbLimit)
	}

	hub.CaptureEvent(event)
}

// Middleware wraps next so panics escaping it are reported with request
// scope attached. The host composes this explicitly around its handler; when
// the manager is disabled next is returned untouched.
func (m *Manager) Middleware(next http.Handler) http.Handler {
	if !m.enabled {
		return next
	}
	return m.httpHandler.Handle(next)
}

// WithRequestContext issues a request-scoped hub and stores it on the gin
// context, so records logged during the request land on the right scope.
// To be used in gin.Use as middleware.
func (m *Manager) WithRequestContext(ctx *gin.Context) {
	if !m.enabled {
		return
	}
	hub := sentry.CurrentHub().Clone()
	hub.Scope().SetRequest(ctx.Request)
	ctx.Set(keySentryHub, hub)
}

// NewLogger returns a registered named Logger linked to this Manager.
func (m *Manager) NewLogger(name string) *Logger {
	if !m.enabled {
		return discardLogger(name)
	}
	log := logrus.New()
	log.AddHook(m)
	logger := &Logger{
		Entry:     log.WithField(keyLoggerName, name),
		manager:   m,
		name:      []string{name},
		propagate: true,
	}
	m.register(name, logger)
	return logger
}
