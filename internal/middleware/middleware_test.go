package middleware

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iliyamo/hairfit-server/internal/config"
	"github.com/iliyamo/hairfit-server/internal/logging"
	"github.com/iliyamo/hairfit-server/internal/model"
	"github.com/iliyamo/hairfit-server/internal/service"
)

type fakeResolver struct {
	user *model.User
	err  error
	got  string
}

func (f *fakeResolver) ResolveFromAccessToken(_ context.Context, token string) (*model.User, error) {
	f.got = token
	return f.user, f.err
}

func serve(t *testing.T, mw echo.MiddlewareFunc, req *http.Request) (*httptest.ResponseRecorder, *model.User) {
	t.Helper()
	e := echo.New()
	var seen *model.User
	e.GET("/p", func(c echo.Context) error {
		seen = CurrentUser(c)
		return c.String(http.StatusOK, "ok")
	}, mw)
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	return rec, seen
}

func TestJWTAuth_MissingHeader(t *testing.T) {
	rec, seen := serve(t, JWTAuth(&fakeResolver{}, logging.Discard()), httptest.NewRequest(http.MethodGet, "/p", nil))

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Equal(t, "Bearer", rec.Header().Get("WWW-Authenticate"))
	assert.Nil(t, seen)
}

func TestJWTAuth_InvalidToken(t *testing.T) {
	r := &fakeResolver{err: &service.Error{Kind: service.ErrUnauthenticated, Msg: "Could not validate credentials"}}
	req := httptest.NewRequest(http.MethodGet, "/p", nil)
	req.Header.Set("Authorization", "Bearer nope")

	rec, _ := serve(t, JWTAuth(r, logging.Discard()), req)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.JSONEq(t, `{"error":"Could not validate credentials"}`, rec.Body.String())
	assert.Equal(t, "nope", r.got)
}

func TestJWTAuth_SetsUser(t *testing.T) {
	r := &fakeResolver{user: &model.User{ID: 7, Email: "a@x.com"}}
	req := httptest.NewRequest(http.MethodGet, "/p", nil)
	req.Header.Set("Authorization", "bearer tok")

	rec, seen := serve(t, JWTAuth(r, logging.Discard()), req)

	assert.Equal(t, http.StatusOK, rec.Code)
	require.NotNil(t, seen)
	assert.Equal(t, uint64(7), seen.ID)
}

func TestRateLimit_DisabledPassesThrough(t *testing.T) {
	cfg := config.RateLimitConfig{Enabled: false}
	rec, _ := serve(t, RateLimit(cfg, nil, logging.Discard()), httptest.NewRequest(http.MethodGet, "/p", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestRateLimit_FailsOpenWithoutRedis(t *testing.T) {
	rdb := redis.NewClient(&redis.Options{Addr: "127.0.0.1:1", DialTimeout: 50 * time.Millisecond, MaxRetries: -1})
	defer rdb.Close()
	cfg := config.RateLimitConfig{Enabled: true, Prefix: "rl"}.Policy("login", 1, time.Minute)

	for i := 0; i < 3; i++ {
		rec, _ := serve(t, RateLimit(cfg, rdb, logging.Discard()), httptest.NewRequest(http.MethodGet, "/p", nil))
		assert.Equal(t, http.StatusOK, rec.Code)
	}
}

func TestRateKey_Strategies(t *testing.T) {
	e := echo.New()
	req := httptest.NewRequest(http.MethodPost, "/login", nil)
	req.RemoteAddr = "10.0.0.1:5555"
	c := e.NewContext(req, httptest.NewRecorder())
	c.SetPath("/login")

	cfg := config.RateLimitConfig{Prefix: "rl:login", KeyStrategy: "ip_route"}
	assert.Equal(t, "rl:login:ip:10.0.0.1:route:POST /login", rateKey(cfg, c))

	cfg.KeyStrategy = "user"
	assert.Equal(t, "rl:login:user:anon", rateKey(cfg, c))
	c.Set(userKey, &model.User{ID: 3})
	assert.Equal(t, "rl:login:user:3", rateKey(cfg, c))
}

func TestResponseCache_NilClientIsNoop(t *testing.T) {
	rc := NewResponseCache(config.CacheConfig{Enabled: true, Prefix: "cache"}, "styles", nil, logging.Discard())

	rec, _ := serve(t, rc.Middleware(), httptest.NewRequest(http.MethodGet, "/p", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Empty(t, rec.Header().Get("X-Cache"))
	assert.NoError(t, rc.Invalidate(context.Background()))
}

func TestCaptureWriter_DropsOversizedBodies(t *testing.T) {
	cw := &captureWriter{ResponseWriter: httptest.NewRecorder(), status: http.StatusOK, limit: 4}
	_, _ = cw.Write([]byte("abc"))
	assert.False(t, cw.overflow)
	_, _ = cw.Write([]byte("de"))
	assert.True(t, cw.overflow)
	assert.Zero(t, cw.buf.Len())
}

func TestPayloadCorruptIsRejected(t *testing.T) {
	payload, err := encodePayload(http.StatusOK, http.Header{"Content-Type": {"application/json"}}, []byte(`{"styles":[]}`))
	require.NoError(t, err)
	status, hdr, body, ok := decodePayload(payload)
	require.True(t, ok)
	assert.Equal(t, http.StatusOK, status)
	assert.Equal(t, "application/json", hdr.Get("Content-Type"))
	assert.Equal(t, `{"styles":[]}`, string(body))

	_, _, _, ok = decodePayload(payload[:9])
	assert.False(t, ok)
}
