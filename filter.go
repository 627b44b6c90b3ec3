package odoosentry

import (
	"reflect"

	"github.com/getsentry/sentry-go"
	"github.com/sirupsen/logrus"
)

// qualifiedNameNotFound stands in when an error value has no nameable type.
const qualifiedNameNotFound = "not found"

// qualifiedNamer lets error types declare their own qualified name instead
// of the reflected package path.
type qualifiedNamer interface {
	QualifiedName() string
}

// beforeSend is installed as the client's BeforeSend hook. It drops events
// for ignored exception types and muted loggers, merges request context into
// tagged events and sanitizes cookies. Returning nil drops the event.
func (m *Manager) beforeSend(event *sentry.Event, hint *sentry.EventHint) *sentry.Event {
	if event == nil {
		return nil
	}

	// A log record without a real exception: classify it by the qualified
	// name of its error value, since hosts tend to log raw error objects
	// instead of messages.
	if len(event.Exception) == 0 && hint != nil && hint.OriginalException == nil && hint.RecoveredException == nil {
		if lEntry, ok := hint.Data.(*logrus.Entry); ok {
			entry := &logEntry{lEntry}

			if m.isIgnoredException(qualifiedName(entry.Err())) {
				return nil
			}

			// Check if the logger is muted
			if !m.propagates(entry.LoggerName()) {
				return nil
			}
		}
	}

	if isTrue(event.Tags["include_context"]) {
		mergeRequestContext(event, m.ContextProvider(event.Request))
	}

	sanitizeCookies(event)

	return event
}

// qualifiedName derives the package-qualified type name of an error value.
// Types may implement qualifiedNamer to override the reflected name; values
// without a nameable type yield the "not found" sentinel.
func qualifiedName(err error) string {
	if err == nil {
		return qualifiedNameNotFound
	}
	if namer, ok := err.(qualifiedNamer); ok {
		return namer.QualifiedName()
	}

	t := reflect.TypeOf(err)
	for t.Kind() == reflect.Ptr {
		t = t.Elem()
	}
	if t.PkgPath() == "" || t.Name() == "" {
		return qualifiedNameNotFound
	}
	return t.PkgPath() + "." + t.Name()
}
