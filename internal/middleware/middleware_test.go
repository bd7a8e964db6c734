package middleware

import (
    "context"
    "net/http"
    "net/http/httptest"
    "strings"
    "testing"
    "time"

    "github.com/labstack/echo/v4"
    "github.com/stretchr/testify/assert"
    "github.com/stretchr/testify/require"

    "github.com/iliyamo/office-seat-reservation/internal/config"
    "github.com/iliyamo/office-seat-reservation/internal/model"
    "github.com/iliyamo/office-seat-reservation/internal/service"
)

func newCtx(method, target string) (echo.Context, *httptest.ResponseRecorder) {
    e := echo.New()
    req := httptest.NewRequest(method, target, nil)
    rec := httptest.NewRecorder()
    return e.NewContext(req, rec), rec
}

func TestPayloadRoundTrip(t *testing.T) {
    hdr := http.Header{"Content-Type": []string{"application/json"}}
    bs, err := encodePayload(http.StatusOK, hdr, []byte(`{"a":1}`))
    require.NoError(t, err)

    status, got, body, ok := decodePayload(bs)

    require.True(t, ok)
    assert.Equal(t, http.StatusOK, status)
    assert.Equal(t, "application/json", got.Get("Content-Type"))
    assert.Equal(t, `{"a":1}`, string(body))

    _, _, _, ok = decodePayload([]byte{0, 0})
    assert.False(t, ok)
}

func TestCacheKeyStrategies(t *testing.T) {
    c, _ := newCtx(http.MethodGet, "/admin/reports?x=1")
    c.SetPath("/admin/reports")

    byQuery := cacheKeyFrom(config.CacheConfig{Prefix: "cache", KeyStrategy: "route_query"}, c)
    byRoute := cacheKeyFrom(config.CacheConfig{Prefix: "cache", KeyStrategy: "route"}, c)

    assert.True(t, strings.HasPrefix(byQuery, "cache:"))
    assert.NotEqual(t, byQuery, byRoute)
}

func TestRateKeyUsesPrincipal(t *testing.T) {
    c, _ := newCtx(http.MethodPost, "/login")
    c.SetPath("/login")
    cfg := config.RateLimitConfig{Prefix: "rl", KeyStrategy: "user_route"}

    assert.Equal(t, "rl:user:guest:route:POST /login", buildRateKey(cfg, c))

    SetPrincipal(c, &model.Principal{UserID: 7})
    assert.Equal(t, "rl:user:7:route:POST /login", buildRateKey(cfg, c))
}

func TestParseBucketResult(t *testing.T) {
    allowed, remaining, retry, ok := parseBucketResult([]interface{}{int64(0), int64(0), int64(1500)})
    require.True(t, ok)
    assert.False(t, allowed)
    assert.Equal(t, int64(0), remaining)
    assert.Equal(t, int64(1500), retry)

    _, _, _, ok = parseBucketResult("nope")
    assert.False(t, ok)
}

func TestFlashSurvivesRedirect(t *testing.T) {
    c, rec := newCtx(http.MethodPost, "/reserve/1")
    AddFlash(c, LevelSuccess, "Seat reserved")
    AddFlash(c, LevelInfo, "See you")

    cookies := rec.Result().Cookies()
    require.NotEmpty(t, cookies)
    last := cookies[len(cookies)-1]
    assert.Equal(t, FlashCookie, last.Name)

    next, rec2 := newCtx(http.MethodGet, "/my_reservations")
    next.Request().AddCookie(&http.Cookie{Name: FlashCookie, Value: last.Value})
    assert.True(t, HasFlash(next))

    notices := DrainFlash(next)

    require.Len(t, notices, 2)
    assert.Equal(t, Notice{Level: LevelSuccess, Message: "Seat reserved"}, notices[0])
    cleared := rec2.Result().Cookies()
    require.Len(t, cleared, 1)
    assert.Equal(t, -1, cleared[0].MaxAge)
    assert.Empty(t, DrainFlash(next), "drained once")
}

func TestRequireRedirects(t *testing.T) {
    ok := func(c echo.Context) error { return c.NoContent(http.StatusNoContent) }

    c, rec := newCtx(http.MethodGet, "/my_reservations?x=1")
    require.NoError(t, Require(service.CapAuthenticated)(ok)(c))
    assert.Equal(t, http.StatusSeeOther, rec.Code)
    assert.Equal(t, "/login?next=%2Fmy_reservations%3Fx%3D1", rec.Header().Get(echo.HeaderLocation))

    c, rec = newCtx(http.MethodGet, "/admin")
    SetPrincipal(c, &model.Principal{UserID: 1, Role: model.RoleMember})
    require.NoError(t, Require(service.CapAdmin)(ok)(c))
    assert.Equal(t, http.StatusSeeOther, rec.Code)
    assert.Equal(t, "/", rec.Header().Get(echo.HeaderLocation))

    c, rec = newCtx(http.MethodGet, "/admin")
    SetPrincipal(c, &model.Principal{UserID: 2, Role: model.RoleAdmin})
    require.NoError(t, Require(service.CapAdmin)(ok)(c))
    assert.Equal(t, http.StatusNoContent, rec.Code)
}

type stubResolver struct{ p *model.Principal }

func (s stubResolver) Resolve(_ context.Context, raw string) (*model.Principal, error) {
    if raw == "good" {
        return s.p, nil
    }
    return nil, nil
}

func TestSessionMiddleware(t *testing.T) {
    want := &model.Principal{UserID: 5, Name: "Ann"}
    mw := Session(stubResolver{p: want}, nil)
    var got *model.Principal
    h := mw(func(c echo.Context) error { got = Principal(c); return nil })

    c, _ := newCtx(http.MethodGet, "/")
    c.Request().AddCookie(&http.Cookie{Name: SessionCookie, Value: "good"})
    require.NoError(t, h(c))
    assert.Equal(t, want, got)

    c, _ = newCtx(http.MethodGet, "/")
    require.NoError(t, h(c))
    assert.Nil(t, got)
}

func TestSessionCookieFlags(t *testing.T) {
    c, rec := newCtx(http.MethodPost, "/login")
    SetSessionCookie(c, "tok", time.Now().Add(time.Hour), true)

    ck := rec.Result().Cookies()[0]
    assert.Equal(t, SessionCookie, ck.Name)
    assert.True(t, ck.HttpOnly)
    assert.True(t, ck.Secure)
}
