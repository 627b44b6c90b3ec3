package odoosentry

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/getsentry/sentry-go"
	"github.com/sirupsen/logrus"
)

const (
	defaultLoggingLevel    = "warn"
	defaultBreadcrumbLimit = 5

	listSeparator = ","
)

// DefaultExcludeLoggers are logger names whose records are never captured.
// The host's access logger is the usual offender.
var DefaultExcludeLoggers = []string{"gin"}

// DefaultIgnoredExceptions are qualified type names of errors that show up
// constantly in any web host (client hangups, aborted requests) and carry no
// signal worth reporting.
var DefaultIgnoredExceptions = []string{
	"net.OpError",
	"net/url.Error",
	"syscall.Errno",
}

// settings accumulates everything the option table resolves: the sentry-go
// client options plus the knobs that live on the Manager side.
type settings struct {
	clientOptions sentry.ClientOptions

	captureLevel      logrus.Level
	breadcrumbLimit   int
	ignoredExceptions []string
	includeContext    bool
}

// option is one recognized configuration entry: the config key (without the
// sentry_ prefix), its default, and the converter applying the raw string
// onto the settings.
type option struct {
	key   string
	def   string
	apply func(s *settings, value string) error
}

// sentryOptions is the fixed table of recognized options.
func sentryOptions() []option {
	return []option{
		{key: "dsn", def: "", apply: func(s *settings, v string) error {
			s.clientOptions.Dsn = strings.TrimSpace(v)
			return nil
		}},
		{key: "environment", def: "", apply: func(s *settings, v string) error {
			s.clientOptions.Environment = v
			return nil
		}},
		{key: "release", def: "", apply: func(s *settings, v string) error {
			s.clientOptions.Release = strings.TrimSpace(v)
			return nil
		}},
		{key: "server_name", def: "", apply: func(s *settings, v string) error {
			s.clientOptions.ServerName = v
			return nil
		}},
		{key: "debug", def: "false", apply: func(s *settings, v string) error {
			b, err := parseBool(v)
			if err != nil {
				return err
			}
			s.clientOptions.Debug = b
			return nil
		}},
		{key: "attach_stacktrace", def: "true", apply: func(s *settings, v string) error {
			b, err := parseBool(v)
			if err != nil {
				return err
			}
			s.clientOptions.AttachStacktrace = b
			return nil
		}},
		{key: "sample_rate", def: "1.0", apply: func(s *settings, v string) error {
			f, err := parseFloat(v)
			if err != nil {
				return err
			}
			s.clientOptions.SampleRate = f
			return nil
		}},
		{key: "traces_sample_rate", def: "0", apply: func(s *settings, v string) error {
			f, err := parseFloat(v)
			if err != nil {
				return err
			}
			s.clientOptions.TracesSampleRate = f
			return nil
		}},
		{key: "max_breadcrumbs", def: strconv.Itoa(defaultBreadcrumbLimit), apply: func(s *settings, v string) error {
			n, err := strconv.Atoi(strings.TrimSpace(v))
			if err != nil {
				return fmt.Errorf("not an integer: %q", v)
			}
			s.breadcrumbLimit = n
			return nil
		}},
		{key: "logging_level", def: defaultLoggingLevel, apply: func(s *settings, v string) error {
			level, err := logrus.ParseLevel(strings.TrimSpace(v))
			if err != nil {
				return err
			}
			s.captureLevel = level
			return nil
		}},
		{key: "ignore_exceptions", def: strings.Join(DefaultIgnoredExceptions, listSeparator), apply: func(s *settings, v string) error {
			s.ignoredExceptions = splitMultiple(v)
			return nil
		}},
	}
}

func parseBool(v string) (bool, error) {
	b, err := strconv.ParseBool(strings.TrimSpace(v))
	if err != nil {
		return false, fmt.Errorf("not a boolean: %q", v)
	}
	return b, nil
}

func parseFloat(v string) (float64, error) {
	f, err := strconv.ParseFloat(strings.TrimSpace(v), 64)
	if err != nil {
		return 0, fmt.Errorf("not a number: %q", v)
	}
	return f, nil
}

// isTrue is the lenient boolean used for flags read straight from config or
// event tags: anything unparseable counts as false.
func isTrue(v string) bool {
	b, err := strconv.ParseBool(strings.TrimSpace(v))
	return err == nil && b
}

// splitMultiple splits a comma-separated config value, trimming whitespace
// and dropping empty items.
func splitMultiple(v string) []string {
	var out []string
	for _, item := range strings.Split(v, listSeparator) {
		item = strings.TrimSpace(item)
		if item != "" {
			out = append(out, item)
		}
	}
	return out
}

// levelsAtOrAbove returns the logrus levels at least as severe as min.
// logrus orders levels with the most severe first.
func levelsAtOrAbove(min logrus.Level) []logrus.Level {
	var levels []logrus.Level
	for _, l := range logrus.AllLevels {
		if l <= min {
			levels = append(levels, l)
		}
	}
	return levels
}
