package middleware

import (
	"crypto/tls"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
)

func secured(opt SecurityOptions, pre gin.HandlerFunc) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	if pre != nil {
		r.Use(pre)
	}
	r.Use(SecurityHeaders(opt))
	r.GET("/", func(c *gin.Context) { c.Status(http.StatusOK) })
	return r
}

func TestSecurityHeaders_Baseline(t *testing.T) {
	r := secured(SecurityOptions{}, nil)

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/", nil))

	h := w.Header()
	for hdr, want := range map[string]string{
		"X-Content-Type-Options": "nosniff",
		"X-Frame-Options":        "DENY",
		"Referrer-Policy":        "no-referrer",
	} {
		if got := h.Get(hdr); got != want {
			t.Errorf("%s = %q; want %q", hdr, got, want)
		}
	}
	// Optional headers stay off by default.
	for _, hdr := range []string{
		"Permissions-Policy", "Cache-Control", "Strict-Transport-Security",
	} {
		if got := h.Get(hdr); got != "" {
			t.Errorf("%s unexpectedly set to %q", hdr, got)
		}
	}
}

func TestSecurityHeaders_AllOptionsOverTLS(t *testing.T) {
	r := secured(SecurityOptions{
		EnableHSTS:   true,
		HSTSMaxAge:   24 * time.Hour,
		NoStore:      true,
		EnablePolicy: true,
	}, nil)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.TLS = &tls.ConnectionState{}
	r.ServeHTTP(w, req)

	h := w.Header()
	if h.Get("Permissions-Policy") == "" || h.Get("X-Permitted-Cross-Domain-Policies") != "none" {
		t.Fatalf("policy headers missing: %#v", h)
	}
	if h.Get("Cache-Control") != "no-store" || h.Get("Pragma") != "no-cache" {
		t.Fatalf("cache headers missing: %#v", h)
	}
	if got := h.Get("Strict-Transport-Security"); got != "max-age=86400; includeSubDomains; preload" {
		t.Fatalf("HSTS = %q", got)
	}
}

func TestSecurityHeaders_HSTSOnlyOverHTTPS(t *testing.T) {
	r := secured(SecurityOptions{EnableHSTS: true, HSTSMaxAge: time.Hour}, nil)

	// Plain HTTP: no HSTS even when enabled.
	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/", nil))
	if got := w.Header().Get("Strict-Transport-Security"); got != "" {
		t.Fatalf("HSTS over plain HTTP: %q", got)
	}

	// Behind a proxy that terminated TLS.
	w = httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("X-Forwarded-Proto", "https")
	r.ServeHTTP(w, req)
	if got := w.Header().Get("Strict-Transport-Security"); got != "max-age=3600; includeSubDomains; preload" {
		t.Fatalf("HSTS via X-Forwarded-Proto = %q", got)
	}
}

func TestSecurityHeaders_ExposeRequestID(t *testing.T) {
	cases := []struct {
		name     string
		existing string
		want     string
	}{
		{"added when absent", "", "X-Request-ID"},
		{"appended to others", "Foo", "Foo, X-Request-ID"},
		{"not duplicated", "X-Request-ID, Foo", "X-Request-ID, Foo"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			r := secured(SecurityOptions{}, func(c *gin.Context) {
				c.Header("X-Request-ID", "rid-1")
				if tc.existing != "" {
					c.Header("Access-Control-Expose-Headers", tc.existing)
				}
				c.Next()
			})

			w := httptest.NewRecorder()
			r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/", nil))
			if got := w.Header().Get("Access-Control-Expose-Headers"); got != tc.want {
				t.Fatalf("expose header = %q; want %q", got, tc.want)
			}
		})
	}
}

func TestIsHTTPS(t *testing.T) {
	plain := httptest.NewRequest(http.MethodGet, "/", nil)
	if isHTTPS(plain) {
		t.Fatal("plain request reported as HTTPS")
	}

	direct := httptest.NewRequest(http.MethodGet, "/", nil)
	direct.TLS = &tls.ConnectionState{}
	if !isHTTPS(direct) {
		t.Fatal("TLS request not reported as HTTPS")
	}

	proxied := httptest.NewRequest(http.MethodGet, "/", nil)
	proxied.Header.Set("X-Forwarded-Proto", "HTTPS")
	if !isHTTPS(proxied) {
		t.Fatal("forwarded HTTPS not reported as HTTPS")
	}
}
