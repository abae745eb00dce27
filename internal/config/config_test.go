package config

import (
	"reflect"
	"strings"
	"testing"
	"time"
)

// --- MustLoad ---

func TestMustLoad_PanicsOnInvalidConfig(t *testing.T) {
	t.Setenv("SLACK_TOKEN", "") // required -> Load() error
	defer func() {
		if r := recover(); r == nil {
			t.Fatalf("MustLoad should panic on invalid config")
		}
	}()
	_ = MustLoad()
}

// --- Load success + normalization + parsing ---

func TestLoad_Success_DefaultsAndOverrides(t *testing.T) {
	// Server timeouts / sizes (valid)
	t.Setenv("PORT", "8088")
	t.Setenv("READ_TIMEOUT", "2s")
	t.Setenv("READ_HEADER_TIMEOUT", "1s")
	t.Setenv("WRITE_TIMEOUT", "3s")
	t.Setenv("IDLE_TIMEOUT", "4s")
	t.Setenv("MAX_HEADER_BYTES", "8192")
	t.Setenv("GIN_MODE", "weird") // will normalize to "release"

	// Logging
	t.Setenv("LOG_LEVEL", "warning") // will normalize to "warn"
	t.Setenv("LOG_PRETTY", "yes")
	t.Setenv("API_BASE_PATH", "api/v1/") // no leading slash + trailing slash -> "/api/v1"

	// App
	t.Setenv("DB_PATH", "db.sqlite")
	t.Setenv("SLACK_TOKEN", "xoxb-123")
	t.Setenv("SLACK_API_BASE", "http://localhost:9999/api")
	t.Setenv("SLACK_RATE_RPS", "2.5")
	t.Setenv("SLACK_RATE_BURST", "5")
	t.Setenv("INSERT_LOCK_WAIT", "7s")
	t.Setenv("POLL_CRON", "30 2 * * *")
	t.Setenv("DRAIN_CRON", "*/5 * * * *")

	// Rate limiting (use invalids for parse to fall back to defaults)
	t.Setenv("RATE_RPS", "x")      // -> default 25.0
	t.Setenv("RATE_BURST", "nope") // -> default 50

	// Web protection
	t.Setenv("CORS_ALLOWED_ORIGINS", " https://a.com , , http://b ")
	t.Setenv("ENABLE_HSTS", "TRUE")
	t.Setenv("HSTS_MAX_AGE", "24h")

	// OTEL
	t.Setenv("OTEL_ENABLED", "1")
	t.Setenv("OTEL_EXPORTER_OTLP_ENDPOINT", "otel:4317")
	t.Setenv("OTEL_EXPORTER_OTLP_INSECURE", "0")
	t.Setenv("OTEL_SERVICE_NAME", "svc")
	t.Setenv("OTEL_TRACES_SAMPLER_ARG", "0.75")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}

	// Server
	if cfg.Port != "8088" ||
		cfg.ReadTimeout != 2*time.Second ||
		cfg.ReadHeaderTimeout != 1*time.Second ||
		cfg.WriteTimeout != 3*time.Second ||
		cfg.IdleTimeout != 4*time.Second ||
		cfg.MaxHeaderBytes != 8192 ||
		cfg.GinMode != "release" {
		t.Fatalf("server fields unexpected: %+v", cfg)
	}

	// Logging
	if cfg.LogLevel != "warn" || !cfg.LogPretty || cfg.APIBasePath != "/api/v1" {
		t.Fatalf("logging fields unexpected: %+v", cfg)
	}

	// App
	if cfg.DBPath != "db.sqlite" {
		t.Fatalf("DBPath unexpected: %q", cfg.DBPath)
	}
	wantSlack := SlackConfig{
		Token:    "xoxb-123",
		APIBase:  "http://localhost:9999/api",
		RateRPS:  2.5,
		Burst:    5,
		LockWait: 7 * time.Second,
	}
	if cfg.Slack != wantSlack {
		t.Fatalf("Slack config = %+v; want %+v", cfg.Slack, wantSlack)
	}
	if cfg.Jobs.PollCron != "30 2 * * *" || cfg.Jobs.DrainCron != "*/5 * * * *" {
		t.Fatalf("Jobs config unexpected: %+v", cfg.Jobs)
	}

	// Rate limiting fell back to defaults on parse failure
	if cfg.RateRPS != 25.0 || cfg.RateBurst != 50 {
		t.Fatalf("rate limit fields unexpected: %+v", cfg)
	}

	// Web protection
	wantOrigins := []string{"https://a.com", "http://b"}
	if !reflect.DeepEqual(cfg.CORS.AllowedOrigins, wantOrigins) {
		t.Fatalf("CORS origins = %v; want %v", cfg.CORS.AllowedOrigins, wantOrigins)
	}
	if !cfg.Security.EnableHSTS || cfg.Security.HSTSMaxAge != 24*time.Hour {
		t.Fatalf("security fields unexpected: %+v", cfg.Security)
	}

	// OTEL
	if !cfg.OTEL.Enabled || cfg.OTEL.Endpoint != "otel:4317" ||
		cfg.OTEL.Insecure || cfg.OTEL.ServiceName != "svc" ||
		cfg.OTEL.SampleRatio != 0.75 {
		t.Fatalf("OTEL fields unexpected: %+v", cfg.OTEL)
	}
}

// --- validation failures ---

func TestLoad_DefaultSchedules(t *testing.T) {
	t.Setenv("SLACK_TOKEN", "xoxb-123")
	t.Setenv("POLL_CRON", "")
	t.Setenv("DRAIN_CRON", "")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}
	if cfg.Jobs.PollCron != "*/10 * * * *" {
		t.Fatalf("default poll schedule = %q; want every 10 minutes", cfg.Jobs.PollCron)
	}
	if cfg.Jobs.DrainCron != "* * * * *" {
		t.Fatalf("default drain schedule = %q; want every minute", cfg.Jobs.DrainCron)
	}
}

func TestLoad_ValidationErrors(t *testing.T) {
	cases := []struct {
		name    string
		env     map[string]string
		wantSub string
	}{
		{"missing token", map[string]string{"SLACK_TOKEN": ""}, "SLACK_TOKEN"},
		{"bad log level", map[string]string{"LOG_LEVEL": "verbose"}, "LOG_LEVEL"},
		{"bad poll cron", map[string]string{"POLL_CRON": "not a cron"}, "POLL_CRON"},
		{"bad drain cron", map[string]string{"DRAIN_CRON": "99 99 * *"}, "DRAIN_CRON"},
		{"zero burst", map[string]string{"SLACK_RATE_BURST": "0"}, "SLACK_RATE_BURST"},
		{"bad sampler", map[string]string{"OTEL_TRACES_SAMPLER_ARG": "2"}, "OTEL_TRACES_SAMPLER_ARG"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			t.Setenv("SLACK_TOKEN", "xoxb-valid")
			for k, v := range tc.env {
				t.Setenv(k, v)
			}
			_, err := Load()
			if err == nil {
				t.Fatalf("expected error for %s", tc.name)
			}
			if !strings.Contains(err.Error(), tc.wantSub) {
				t.Fatalf("error %q does not mention %q", err, tc.wantSub)
			}
		})
	}
}

// --- helpers ---

func TestHelpers_ParsersAndFallbacks(t *testing.T) {
	t.Setenv("S", "v")
	if getenv("S", "d") != "v" || getenv("MISSING_KEY_X", "d") != "d" {
		t.Fatalf("getenv failed")
	}

	t.Setenv("F", "1.5")
	if getfloat("F", 0) != 1.5 || getfloat("MISSING_KEY_X", 2.5) != 2.5 {
		t.Fatalf("getfloat failed")
	}

	t.Setenv("I", "7")
	if getint("I", 0) != 7 || getint("MISSING_KEY_X", 3) != 3 {
		t.Fatalf("getint failed")
	}

	t.Setenv("B1", "on")
	t.Setenv("B0", "off")
	t.Setenv("BX", "maybe")
	if !getbool("B1", false) || getbool("B0", true) || !getbool("BX", true) {
		t.Fatalf("getbool failed")
	}

	t.Setenv("D", "90s")
	if getdur("D", 0) != 90*time.Second || getdur("MISSING_KEY_X", time.Minute) != time.Minute {
		t.Fatalf("getdur failed")
	}
}

func TestNormalizeBasePath(t *testing.T) {
	cases := map[string]string{
		"":        "/",
		"/":       "/",
		"api":     "/api",
		"/api/":   "/api",
		"/api/v1": "/api/v1",
		" /x/ ":   "/x",
	}
	for in, want := range cases {
		if got := normalizeBasePath(in); got != want {
			t.Fatalf("normalizeBasePath(%q) = %q; want %q", in, got, want)
		}
	}
}

func TestSplitCSV(t *testing.T) {
	if splitCSV("") != nil {
		t.Fatalf("empty input should return nil")
	}
	got := splitCSV("a, b ,, c")
	want := []string{"a", "b", "c"}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("splitCSV = %v; want %v", got, want)
	}
}
