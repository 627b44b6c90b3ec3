package odoosentry

import (
	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
)

const (
	keyUserID     = "user_id"
	keyGinContext = "gin_context"
)

// Wrapper on a logrus.Entry to provide convenience functions
type logEntry struct {
	*logrus.Entry
}

// LoggerName returns the set logger name, or the empty string if not set
func (entry *logEntry) LoggerName() string {
	if entry.Data != nil {
		if name, ok := entry.Data[keyLoggerName].(string); ok {
			return name
		}
	}

	return ""
}

// UserID returns the set user id, or the empty string if not set
func (entry *logEntry) UserID() string {
	if entry.Context != nil {
		if userID, ok := entry.Context.Value(keyUserID).(string); ok {
			return userID
		}
	}

	return ""
}

// GinContext returns the set gin request context, or nil if not set
func (entry *logEntry) GinContext() *gin.Context {
	if entry.Context != nil {
		if c, ok := entry.Context.Value(keyGinContext).(*gin.Context); ok {
			return c
		}
	}

	return nil
}

// Err returns the set error, or nil if not set
func (entry *logEntry) Err() error {
	if err, ok := entry.Data[logrus.ErrorKey].(error); ok {
		return err
	}
	return nil
}

// Extras copies the entry fields destined for the event's extra section,
// leaving out the bookkeeping keys.
func (entry *logEntry) Extras() map[string]interface{} {
	extras := make(map[string]interface{}, len(entry.Data))
	for k, v := range entry.Data {
		if k == keyLoggerName || k == logrus.ErrorKey {
			continue
		}
		extras[k] = v
	}
	return extras
}
