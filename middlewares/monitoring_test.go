package middlewares

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"order-entry/logger"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/testutil"
)

func TestPrometheusMiddleware(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(PrometheusMiddleware(), RequestLogger(logger.NewNop()))
	r.GET("/api/sessions/:id", func(c *gin.Context) { c.Status(http.StatusNoContent) })

	before := testutil.ToFloat64(httpRequestsTotal.WithLabelValues("GET", "/api/sessions/:id", "204"))
	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/sessions/abc", nil))
	if w.Code != http.StatusNoContent {
		t.Fatalf("status = %d", w.Code)
	}
	after := testutil.ToFloat64(httpRequestsTotal.WithLabelValues("GET", "/api/sessions/:id", "204"))
	if after-before != 1 {
		t.Fatalf("request counter delta = %v", after-before)
	}
}

func TestRecordCounters(t *testing.T) {
	before := testutil.ToFloat64(submissions.WithLabelValues("recovering"))
	RecordSubmission("recovering")
	if got := testutil.ToFloat64(submissions.WithLabelValues("recovering")); got-before != 1 {
		t.Fatalf("submissions delta = %v", got-before)
	}

	before = testutil.ToFloat64(orderOperations.WithLabelValues("add_item", "error"))
	RecordOrderOperation("add_item", false)
	if got := testutil.ToFloat64(orderOperations.WithLabelValues("add_item", "error")); got-before != 1 {
		t.Fatalf("operations delta = %v", got-before)
	}
}
