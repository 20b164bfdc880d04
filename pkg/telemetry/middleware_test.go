package telemetry

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/time/rate"
)

func okHandler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTeapot)
	})
}

func TestParseLogLevel(t *testing.T) {
	assert.Equal(t, zerolog.DebugLevel, parseLogLevel("debug"))
	assert.Equal(t, zerolog.ErrorLevel, parseLogLevel("error"))
	assert.Equal(t, zerolog.InfoLevel, parseLogLevel("nonsense"))
}

func TestLoggerContextRoundtrip(t *testing.T) {
	logger := NewLogger("info", "json").Component("test")
	ctx := logger.WithContext(t.Context())
	assert.Same(t, logger, FromContext(ctx))
}

func TestRequestLoggerPassesThrough(t *testing.T) {
	handler := RequestLogger(NewLogger("error", "json"))(okHandler())

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/books", nil))
	assert.Equal(t, http.StatusTeapot, rec.Code)
}

func TestRateLimitRejectsAboveBurst(t *testing.T) {
	handler := RateLimit(rate.NewLimiter(rate.Limit(0), 1))(okHandler())

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/books", nil))
	require.Equal(t, http.StatusTeapot, rec.Code)

	rec = httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/books", nil))
	assert.Equal(t, http.StatusTooManyRequests, rec.Code)
}

func TestMetricsMiddlewareCounts(t *testing.T) {
	m := NewMetrics("test")
	handler := m.Middleware(okHandler())

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/books", nil))
	require.Equal(t, http.StatusTeapot, rec.Code)

	assert.Equal(t, 1, testutil.CollectAndCount(m.requestsTotal))
	assert.Equal(t, float64(1), testutil.ToFloat64(
		m.requestsTotal.WithLabelValues(http.MethodGet, "/books", "418"),
	))
}
