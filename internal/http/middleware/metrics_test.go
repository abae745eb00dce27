package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/testutil"
)

func TestMetrics(t *testing.T) {
	gin.SetMode(gin.TestMode)

	r := gin.New()
	r.Use(Metrics())
	r.GET("/records", func(c *gin.Context) { c.String(http.StatusOK, "payload") })
	r.GET("/empty", func(c *gin.Context) { c.Status(http.StatusNoContent) }) // size -1, skipped in size histogram

	// Baselines keep the test stable when other package tests touched the
	// shared collectors first.
	baseOK := testutil.ToFloat64(httpReqs.WithLabelValues("GET", "/records", "200"))
	baseMiss := testutil.ToFloat64(httpReqs.WithLabelValues("GET", "/gone", "404"))

	for _, path := range []string{"/records", "/gone", "/empty"} {
		w := httptest.NewRecorder()
		r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, path, nil))
	}

	if got := testutil.ToFloat64(httpReqs.WithLabelValues("GET", "/records", "200")); got != baseOK+1 {
		t.Fatalf("requests counter /records = %v; want %v", got, baseOK+1)
	}
	// Unmatched routes are labeled with the raw URL path.
	if got := testutil.ToFloat64(httpReqs.WithLabelValues("GET", "/gone", "404")); got != baseMiss+1 {
		t.Fatalf("requests counter 404 fallback = %v; want %v", got, baseMiss+1)
	}
	if got := testutil.ToFloat64(httpInflight); got != 0 {
		t.Fatalf("inflight gauge = %v after requests finished; want 0", got)
	}
}
