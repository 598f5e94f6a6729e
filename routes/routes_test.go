package routes

import (
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/joy095/taxibooking/config"
	"github.com/joy095/taxibooking/metrics"
	"github.com/joy095/taxibooking/ratelimit"
	"github.com/joy095/taxibooking/services"
	"github.com/joy095/taxibooking/validators"
	"github.com/joy095/taxibooking/views"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/ulule/limiter/v3"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func newRouter(t *testing.T, cfg config.Config) *gin.Engine {
	t.Helper()
	v, err := views.New()
	require.NoError(t, err)
	m := metrics.NewMetrics()
	window := ratelimit.NewWindow(limiter.Rate{Limit: 5, Period: time.Minute})

	r, err := SetupRouter(Deps{
		Config:   cfg,
		Views:    v,
		Bookings: services.NewBookingService(window, validators.NewBookingValidator(), nil, m),
		Metrics:  m,
	})
	require.NoError(t, err)
	return r
}

func serve(r http.Handler, method, target string, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, target, strings.NewReader(body))
	if body != "" {
		req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestSetupRouter_Health(t *testing.T) {
	r := newRouter(t, config.Config{})

	w := serve(r, http.MethodGet, "/health", "")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"status":"ok"}`, w.Body.String())

	assert.Equal(t, http.StatusOK, serve(r, http.MethodHead, "/health", "").Code)
}

func TestSetupRouter_IndexHasSecurityHeadersAndRequestID(t *testing.T) {
	r := newRouter(t, config.Config{})

	w := serve(r, http.MethodGet, "/", "")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.NotEmpty(t, w.Header().Get("Content-Security-Policy"))
	assert.NotEmpty(t, w.Header().Get("X-Request-ID"))
	assert.NotContains(t, w.Body.String(), "canva.js")
}

func TestSetupRouter_Assets(t *testing.T) {
	r := newRouter(t, config.Config{})

	w := serve(r, http.MethodGet, "/assets/styles.css", "")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Header().Get("Content-Type"), "text/css")
}

func TestSetupRouter_Metrics(t *testing.T) {
	r := newRouter(t, config.Config{})

	form := url.Values{"fullName": {""}}
	serve(r, http.MethodPost, "/book", form.Encode())

	w := serve(r, http.MethodGet, "/metrics", "")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `taxi_booking_outcomes_total{outcome="rejected"} 1`)
}

func TestSetupRouter_NotFound(t *testing.T) {
	r := newRouter(t, config.Config{})

	w := serve(r, http.MethodGet, "/missing", "")
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Contains(t, w.Body.String(), "The page you are looking for was not found.")
}

func TestSetupRouter_DesignDisabled(t *testing.T) {
	r := newRouter(t, config.Config{})

	assert.Equal(t, http.StatusServiceUnavailable, serve(r, http.MethodGet, "/auth/canva", "").Code)
	assert.Equal(t, http.StatusServiceUnavailable, serve(r, http.MethodGet, "/api/canva/designs", "").Code)
}

func TestSetupRouter_GlobalThrottleGuardsBookingOnly(t *testing.T) {
	r := newRouter(t, config.Config{RateLimit: config.RateLimitConfig{GlobalRPS: 0.001, GlobalBurst: 1}})

	form := url.Values{"fullName": {""}}.Encode()
	assert.Equal(t, http.StatusOK, serve(r, http.MethodPost, "/book", form).Code)

	w := serve(r, http.MethodPost, "/book", form)
	assert.Equal(t, http.StatusTooManyRequests, w.Code)
	assert.Contains(t, w.Body.String(), "Too many booking attempts")

	for _, path := range []string{"/", "/health", "/metrics", "/assets/styles.css"} {
		assert.Equal(t, http.StatusOK, serve(r, http.MethodGet, path, "").Code, path)
	}
	assert.Equal(t, http.StatusServiceUnavailable, serve(r, http.MethodGet, "/auth/canva", "").Code)
}

func TestSetupRouter_BadTrustedProxies(t *testing.T) {
	v, err := views.New()
	require.NoError(t, err)

	_, err = SetupRouter(Deps{Config: config.Config{TrustedProxies: []string{"not-an-ip"}}, Views: v})
	assert.Error(t, err)
}
