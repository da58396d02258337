package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iliyamo/hotel-booking/internal/config"
	"github.com/iliyamo/hotel-booking/internal/utils"
)

func serve(e *echo.Echo, req *http.Request) *httptest.ResponseRecorder {
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	return rec
}

func adminEcho(secret string) *echo.Echo {
	e := echo.New()
	g := e.Group("/admin", RequireAdmin(secret))
	g.GET("/dashboard", func(c echo.Context) error {
		return c.String(http.StatusOK, "hello "+AdminUser(c))
	})
	return e
}

func TestRequireAdminRedirectsWithoutSession(t *testing.T) {
	e := adminEcho("s3cret")
	rec := serve(e, httptest.NewRequest(http.MethodGet, "/admin/dashboard", nil))
	assert.Equal(t, http.StatusSeeOther, rec.Code)
	assert.Equal(t, LoginPath, rec.Header().Get(echo.HeaderLocation))
}

func TestRequireAdminRejectsForeignToken(t *testing.T) {
	e := adminEcho("s3cret")
	tok, err := utils.NewSessionToken("other", "admin", time.Hour)
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodGet, "/admin/dashboard", nil)
	req.AddCookie(&http.Cookie{Name: SessionCookie, Value: tok.Token})
	rec := serve(e, req)
	assert.Equal(t, http.StatusSeeOther, rec.Code)
	assert.Contains(t, rec.Header().Get(echo.HeaderSetCookie), SessionCookie+"=;")
}

func TestRequireAdminAdmitsSession(t *testing.T) {
	e := adminEcho("s3cret")
	tok, err := utils.NewSessionToken("s3cret", "admin", time.Hour)
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodGet, "/admin/dashboard", nil)
	req.AddCookie(&http.Cookie{Name: SessionCookie, Value: tok.Token})
	rec := serve(e, req)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "hello admin", rec.Body.String())
}

func TestSetSessionCookie(t *testing.T) {
	e := echo.New()
	rec := httptest.NewRecorder()
	c := e.NewContext(httptest.NewRequest(http.MethodPost, "/admin", nil), rec)
	SetSession(c, utils.SessionToken{Token: "abc", Exp: time.Now().Add(time.Hour)}, true)

	cookie := rec.Result().Cookies()[0]
	assert.Equal(t, SessionCookie, cookie.Name)
	assert.Equal(t, "abc", cookie.Value)
	assert.True(t, cookie.HttpOnly)
	assert.True(t, cookie.Secure)
}

func TestDisabledMiddlewaresPassThrough(t *testing.T) {
	e := echo.New()
	e.GET("/", func(c echo.Context) error { return c.String(http.StatusOK, "home") },
		NewRedisCache(config.PageCacheConfig{Enabled: false}, nil),
		NewTokenBucket(config.RateLimitConfig{Enabled: true}, nil))

	rec := serve(e, httptest.NewRequest(http.MethodGet, "/", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "home", rec.Body.String())
	assert.Empty(t, rec.Header().Get("X-Cache"))
}

func TestCacheKey(t *testing.T) {
	e := echo.New()
	cfg := config.PageCacheConfig{Prefix: "hotel:page", KeyStrategy: "route_query"}
	key := func(target string) string {
		c := e.NewContext(httptest.NewRequest(http.MethodGet, target, nil), httptest.NewRecorder())
		c.SetPath("/about")
		return cacheKeyFrom(cfg, c)
	}
	assert.Equal(t, key("/about?x=1"), key("/about?x=1"))
	assert.NotEqual(t, key("/about?x=1"), key("/about?x=2"))
	assert.Regexp(t, `^hotel:page:[0-9a-f]{40}$`, key("/about"))

	cfg.KeyStrategy = "route"
	assert.Equal(t, key("/about?x=1"), key("/about?x=2"))
}

func TestPayloadCodec(t *testing.T) {
	hdr := http.Header{"Content-Type": {"text/html; charset=UTF-8"}}
	bs, err := encodePayload(http.StatusOK, hdr, []byte("<h1>hi</h1>"))
	require.NoError(t, err)

	status, got, body, ok := decodePayload(bs)
	require.True(t, ok)
	assert.Equal(t, http.StatusOK, status)
	assert.Equal(t, hdr, got)
	assert.Equal(t, "<h1>hi</h1>", string(body))

	_, _, _, ok = decodePayload([]byte{0, 0})
	assert.False(t, ok)
}

func TestCaptureWriterMarksTruncation(t *testing.T) {
	rec := httptest.NewRecorder()
	cw := &captureWriter{ResponseWriter: rec, status: http.StatusOK, limit: 4}
	_, _ = cw.Write([]byte("abc"))
	assert.False(t, cw.truncated)
	_, _ = cw.Write([]byte("def"))
	assert.True(t, cw.truncated)
	assert.Equal(t, "abcdef", rec.Body.String())
}

func TestRateKey(t *testing.T) {
	e := echo.New()
	req := httptest.NewRequest(http.MethodPost, "/booking", nil)
	req.Header.Set(echo.HeaderXRealIP, "10.0.0.7")
	c := e.NewContext(req, httptest.NewRecorder())
	c.SetPath("/booking")

	cfg := config.RateLimitConfig{Prefix: "rl", KeyStrategy: "ip_route"}
	assert.Equal(t, "rl:ip:10.0.0.7:route:POST /booking", buildRateKey(cfg, c))

	cfg.KeyStrategy = "ip_user"
	assert.Equal(t, "rl:ip:10.0.0.7:user:guest", buildRateKey(cfg, c))
}
