package odoosentry

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/getsentry/sentry-go"
	"github.com/sirupsen/logrus"
)

// Setup configures the process-wide sentry client from the host's config and
// returns the Manager handle the host composes into its logging and HTTP
// stack. When sentry_enabled is unset or false it returns (nil, nil) and
// touches nothing.
func Setup(source Source) (*Manager, error) {
	resolver := NewResolver(source)

	if !isTrue(resolver.Get("enabled", "false")) {
		return nil, nil
	}
	logrus.Info("initializing sentry")

	if resolver.Get("odoo_dir", "") != "" && resolver.Get("release", "") != "" {
		logrus.Debug("both sentry_odoo_dir and sentry_release defined, choosing sentry_release")
	}
	if resolver.Has("transport") {
		logrus.Warn("sentry_transport is deprecated and ignored; the default HTTP transport is always used")
	}

	s := &settings{}
	for _, opt := range sentryOptions() {
		if err := opt.apply(s, resolver.Get(opt.key, opt.def)); err != nil {
			return nil, fmt.Errorf("option %s: %w", opt.key, err)
		}
	}

	excludeLoggers := splitMultiple(resolver.Get("exclude_loggers", strings.Join(DefaultExcludeLoggers, listSeparator)))

	if s.clientOptions.Release == "" {
		release := resolver.Get("release", "")
		if release == "" {
			release = GitCommit(resolver.Get("odoo_dir", ""))
		}
		s.clientOptions.Release = release
	}

	// sentry-go spells the option IgnoreErrors; the config key keeps the
	// historical ignore_exceptions name.
	s.clientOptions.IgnoreErrors = append([]string{}, s.ignoredExceptions...)

	s.includeContext = isTrue(resolver.Get("include_context", "true"))

	manager := newManager(s)
	s.clientOptions.BeforeSend = manager.beforeSend

	if err := sentry.Init(s.clientOptions); err != nil {
		return nil, fmt.Errorf("sentry init: %w", err)
	}

	// The logging integration: records logged through the standard logger
	// at or above the capture level become events. Context propagation
	// across goroutines is covered by the per-request hub clones, so no
	// separate threading integration exists here.
	logrus.AddHook(manager)

	sentry.ConfigureScope(func(scope *sentry.Scope) {
		scope.SetTag("include_context", strconv.FormatBool(s.includeContext))
	})

	for _, name := range excludeLoggers {
		manager.IgnoreLogger(name)
	}

	sentry.WithScope(func(scope *sentry.Scope) {
		scope.SetExtra("debug", false)
		// startup message stays disabled, it floods hosted deployments
	})

	return manager, nil
}

// PostLoad is the host's module-load hook: Setup with every failure degraded
// to a disabled manager, so error reporting can break without the host ever
// noticing.
func PostLoad(source Source) *Manager {
	manager, err := Setup(source)
	if err != nil {
		logrus.WithError(err).Error("sentry setup failed, error reporting disabled")
		return Nop()
	}
	if manager == nil {
		return Nop()
	}
	return manager
}
