package odoosentry

// Nop returns a disabled Manager: its middleware passes handlers through
// untouched, its loggers discard their output and nothing is ever captured.
// PostLoad hands this out when sentry is off so hosts can compose the
// manager unconditionally.
func Nop() *Manager {
	return &Manager{
		enabled:         false,
		breadcrumbLimit: defaultBreadcrumbLimit,
		ContextProvider: defaultRequestContext,
		muted:           make(map[string]struct{}),
		loggers:         make(map[string]*Logger),
		ignored:         make(map[string]struct{}),
	}
}
