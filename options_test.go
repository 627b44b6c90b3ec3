package odoosentry

import (
	"reflect"
	"testing"

	"github.com/sirupsen/logrus"
)

func applyDefaults(t *testing.T) *settings {
	t.Helper()
	s := &settings{}
	for _, opt := range sentryOptions() {
		if err := opt.apply(s, opt.def); err != nil {
			t.Fatalf("option %s rejected its own default %q: %v", opt.key, opt.def, err)
		}
	}
	return s
}

func TestSentryOptionsDefaults(t *testing.T) {
	s := applyDefaults(t)

	if s.clientOptions.Dsn != "" {
		t.Errorf("default dsn = %q, want empty", s.clientOptions.Dsn)
	}
	if s.clientOptions.SampleRate != 1.0 {
		t.Errorf("default sample_rate = %v, want 1.0", s.clientOptions.SampleRate)
	}
	if s.clientOptions.TracesSampleRate != 0 {
		t.Errorf("default traces_sample_rate = %v, want 0", s.clientOptions.TracesSampleRate)
	}
	if !s.clientOptions.AttachStacktrace {
		t.Error("default attach_stacktrace = false, want true")
	}
	if s.clientOptions.Debug {
		t.Error("default debug = true, want false")
	}
	if s.captureLevel != logrus.WarnLevel {
		t.Errorf("default logging_level = %v, want warn", s.captureLevel)
	}
	if s.breadcrumbLimit != defaultBreadcrumbLimit {
		t.Errorf("default max_breadcrumbs = %d, want %d", s.breadcrumbLimit, defaultBreadcrumbLimit)
	}
	if !reflect.DeepEqual(s.ignoredExceptions, DefaultIgnoredExceptions) {
		t.Errorf("default ignore_exceptions = %v, want %v", s.ignoredExceptions, DefaultIgnoredExceptions)
	}
}

func TestSentryOptionsConverters(t *testing.T) {
	tests := []struct {
		key     string
		value   string
		wantErr bool
		check   func(s *settings) bool
	}{
		{key: "dsn", value: "  https://key@sentry.example/1  ", check: func(s *settings) bool {
			return s.clientOptions.Dsn == "https://key@sentry.example/1"
		}},
		{key: "debug", value: "true", check: func(s *settings) bool { return s.clientOptions.Debug }},
		{key: "debug", value: "maybe", wantErr: true},
		{key: "attach_stacktrace", value: "nope", wantErr: true},
		{key: "sample_rate", value: "0.25", check: func(s *settings) bool { return s.clientOptions.SampleRate == 0.25 }},
		{key: "sample_rate", value: "abc", wantErr: true},
		{key: "traces_sample_rate", value: "0.5", check: func(s *settings) bool { return s.clientOptions.TracesSampleRate == 0.5 }},
		{key: "max_breadcrumbs", value: "12", check: func(s *settings) bool { return s.breadcrumbLimit == 12 }},
		{key: "max_breadcrumbs", value: "many", wantErr: true},
		{key: "logging_level", value: "error", check: func(s *settings) bool { return s.captureLevel == logrus.ErrorLevel }},
		{key: "logging_level", value: "loud", wantErr: true},
		{key: "ignore_exceptions", value: "a.B, c.D ,", check: func(s *settings) bool {
			return reflect.DeepEqual(s.ignoredExceptions, []string{"a.B", "c.D"})
		}},
	}

	for _, tt := range tests {
		t.Run(tt.key+"="+tt.value, func(t *testing.T) {
			var opt option
			for _, o := range sentryOptions() {
				if o.key == tt.key {
					opt = o
				}
			}
			if opt.key == "" {
				t.Fatalf("option %s not in table", tt.key)
			}

			s := &settings{}
			err := opt.apply(s, tt.value)
			if (err != nil) != tt.wantErr {
				t.Fatalf("apply(%q) error = %v, wantErr %v", tt.value, err, tt.wantErr)
			}
			if !tt.wantErr && !tt.check(s) {
				t.Errorf("apply(%q) left unexpected settings %+v", tt.value, s)
			}
		})
	}
}

func TestSplitMultiple(t *testing.T) {
	tests := []struct {
		in   string
		want []string
	}{
		{in: "", want: nil},
		{in: " , ,", want: nil},
		{in: "werkzeug", want: []string{"werkzeug"}},
		{in: "a, b ,c", want: []string{"a", "b", "c"}},
	}

	for _, tt := range tests {
		if got := splitMultiple(tt.in); !reflect.DeepEqual(got, tt.want) {
			t.Errorf("splitMultiple(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}
}

func TestLevelsAtOrAbove(t *testing.T) {
	got := levelsAtOrAbove(logrus.WarnLevel)
	want := []logrus.Level{logrus.PanicLevel, logrus.FatalLevel, logrus.ErrorLevel, logrus.WarnLevel}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("levelsAtOrAbove(warn) = %v, want %v", got, want)
	}
}
