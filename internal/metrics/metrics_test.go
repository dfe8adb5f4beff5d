package metrics

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRecordOrderPlaced(t *testing.T) {
	before := testutil.ToFloat64(ordersPlaced)
	RecordOrderPlaced(447)
	assert.Equal(t, before+1, testutil.ToFloat64(ordersPlaced))
}

func TestRecordTransition(t *testing.T) {
	before := testutil.ToFloat64(orderTransitions.WithLabelValues("pending", "preparing"))
	RecordTransition("pending", "preparing")
	assert.Equal(t, before+1, testutil.ToFloat64(orderTransitions.WithLabelValues("pending", "preparing")))
}

func TestMiddlewareAndHandler(t *testing.T) {
	gin.SetMode(gin.TestMode)
	Init()
	Init()

	r := gin.New()
	r.Use(Middleware())
	r.GET("/ping", func(c *gin.Context) { c.String(http.StatusOK, "pong") })
	r.GET("/metrics", Handler())

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/ping", nil))
	require.Equal(t, http.StatusOK, w.Code)

	w = httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `fooddash_http_requests_total{method="GET",route="/ping",status="200"}`)
}
