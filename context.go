package odoosentry

import (
	"github.com/getsentry/sentry-go"
)

// RequestContext carries the request-derived sections merged into an event
// when it is tagged with include_context.
type RequestContext struct {
	Tags    map[string]string
	User    sentry.User
	Extra   map[string]interface{}
	Request *sentry.Request
}

// defaultRequestContext derives a context from the request the middleware
// attached to the event scope. Hosts with richer session state (login,
// database, company) install their own provider on the Manager.
func defaultRequestContext(r *sentry.Request) *RequestContext {
	if r == nil {
		return nil
	}

	ctx := &RequestContext{
		Tags: map[string]string{
			"url":    r.URL,
			"method": r.Method,
		},
		Extra:   map[string]interface{}{},
		Request: r,
	}
	if r.QueryString != "" {
		ctx.Extra["query_string"] = r.QueryString
	}
	if ua, ok := r.Headers["User-Agent"]; ok {
		ctx.Extra["user_agent"] = ua
	}
	if addr, ok := r.Env["REMOTE_ADDR"]; ok {
		ctx.User.IPAddress = addr
	}
	return ctx
}

// mergeRequestContext folds ctx into the event's tags, user, extra and
// request sections. Merging is additive: colliding keys take the context
// value, everything already on the event survives.
func mergeRequestContext(event *sentry.Event, ctx *RequestContext) {
	if ctx == nil {
		return
	}

	if event.Tags == nil {
		event.Tags = make(map[string]string, len(ctx.Tags))
	}
	for k, v := range ctx.Tags {
		event.Tags[k] = v
	}

	if event.Extra == nil {
		event.Extra = make(map[string]interface{}, len(ctx.Extra))
	}
	for k, v := range ctx.Extra {
		event.Extra[k] = v
	}

	if ctx.User.ID != "" {
		event.User.ID = ctx.User.ID
	}
	if ctx.User.Username != "" {
		event.User.Username = ctx.User.Username
	}
	if ctx.User.Email != "" {
		event.User.Email = ctx.User.Email
	}
	if ctx.User.IPAddress != "" {
		event.User.IPAddress = ctx.User.IPAddress
	}

	if event.Request == nil {
		event.Request = ctx.Request
	}
}
