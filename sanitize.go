package odoosentry

import (
	"regexp"

	"github.com/getsentry/sentry-go"
)

const cookieMask = "********"

// Session cookies the host issues; their values identify a live session and
// must never leave the process.
var sensitiveCookies = []string{
	"session_id",
	"session_token",
	"fileToken",
}

var sensitiveCookieRe = func() *regexp.Regexp {
	pattern := "(?i)\\b("
	for i, name := range sensitiveCookies {
		if i > 0 {
			pattern += "|"
		}
		pattern += regexp.QuoteMeta(name)
	}
	pattern += ")=[^;]*"
	return regexp.MustCompile(pattern)
}()

// sanitizeCookies masks session cookie values on the event's request
// section, both in the parsed cookie string and the raw Cookie header.
func sanitizeCookies(event *sentry.Event) {
	if event == nil || event.Request == nil {
		return
	}

	req := event.Request
	req.Cookies = maskCookies(req.Cookies)
	if raw, ok := req.Headers["Cookie"]; ok {
		req.Headers["Cookie"] = maskCookies(raw)
	}
	if raw, ok := req.Env["HTTP_COOKIE"]; ok {
		req.Env["HTTP_COOKIE"] = maskCookies(raw)
	}
}

func maskCookies(cookies string) string {
	if cookies == "" {
		return cookies
	}
	return sensitiveCookieRe.ReplaceAllString(cookies, "$1="+cookieMask)
}
