package router

import (
    "context"
    "encoding/json"
    "net/http"
    "net/http/httptest"
    "net/url"
    "strings"
    "testing"
    "time"

    "github.com/labstack/echo/v4"
    "github.com/stretchr/testify/assert"
    "github.com/stretchr/testify/require"
    "golang.org/x/crypto/bcrypt"

    "github.com/iliyamo/office-seat-reservation/internal/handler"
    "github.com/iliyamo/office-seat-reservation/internal/service"
    "github.com/iliyamo/office-seat-reservation/internal/storetest"
)

func newTestServer(t *testing.T) *echo.Echo {
    t.Helper()
    clock := service.Clock{Now: time.Now, Location: time.UTC}
    store := storetest.New()

    authSvc := service.NewAuthService(store.Users(), bcrypt.MinCost, nil)
    sessions := service.NewSessionService(store.Sessions(), "router-secret", time.Hour, clock, nil)
    res := service.NewReservationService(store.Reservations(), store.Users(), store.Seats(), nil, service.WithClock(clock))
    inv := service.NewInventoryService(store.Seats(), nil)
    rep := service.NewReportService(store.Reports(), store.Reservations(), clock)

    _, err := authSvc.Register(context.Background(), service.RegisterInput{
        Name: "Ann", Email: "ann@example.com", Password: "secret1",
    })
    require.NoError(t, err)

    e := echo.New()
    e.Validator = handler.Validator{}
    Register(e, Deps{
        Sessions: sessions,
        Auth:     handler.NewAuthHandler(authSvc, sessions, nil, false),
        Booking:  handler.NewBookingHandler(res, inv, nil),
        Admin:    handler.NewAdminHandler(res, inv, rep, authSvc, nil),
    })
    return e
}

func serve(e *echo.Echo, req *http.Request, cookies ...*http.Cookie) *httptest.ResponseRecorder {
    for _, ck := range cookies {
        req.AddCookie(ck)
    }
    rec := httptest.NewRecorder()
    e.ServeHTTP(rec, req)
    return rec
}

func cookie(rec *httptest.ResponseRecorder, name string) *http.Cookie {
    var found *http.Cookie
    for _, ck := range rec.Result().Cookies() {
        if ck.Name == name {
            found = ck
        }
    }
    return found
}

func TestHealthz(t *testing.T) {
    e := newTestServer(t)
    rec := serve(e, httptest.NewRequest(http.MethodGet, "/healthz", nil))
    assert.Equal(t, http.StatusOK, rec.Code)
    assert.Equal(t, "ok", rec.Body.String())
}

func TestMemberPagesRedirectAnonymousToLogin(t *testing.T) {
    e := newTestServer(t)
    rec := serve(e, httptest.NewRequest(http.MethodGet, "/my_reservations", nil))
    assert.Equal(t, http.StatusSeeOther, rec.Code)
    assert.Equal(t, "/login?next=%2Fmy_reservations", rec.Header().Get(echo.HeaderLocation))
}

func TestLoginRequiresCSRFToken(t *testing.T) {
    e := newTestServer(t)
    form := url.Values{"email": {"ann@example.com"}, "password": {"secret1"}}
    req := httptest.NewRequest(http.MethodPost, "/login", strings.NewReader(form.Encode()))
    req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationForm)
    rec := serve(e, req)
    assert.GreaterOrEqual(t, rec.Code, 400)
    assert.Nil(t, cookie(rec, "session"))
}

func TestLoginFlow(t *testing.T) {
    e := newTestServer(t)

    rec := serve(e, httptest.NewRequest(http.MethodGet, "/login?next=/my_reservations", nil))
    require.Equal(t, http.StatusOK, rec.Code)
    var page struct {
        CSRF string `json:"csrf"`
        Next string `json:"next"`
    }
    require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &page))
    require.NotEmpty(t, page.CSRF)
    assert.Equal(t, "/my_reservations", page.Next)
    csrf := cookie(rec, "_csrf")
    require.NotNil(t, csrf)

    form := url.Values{"email": {"ann@example.com"}, "password": {"secret1"}, "next": {page.Next}, "csrf": {page.CSRF}}
    req := httptest.NewRequest(http.MethodPost, "/login", strings.NewReader(form.Encode()))
    req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationForm)
    rec = serve(e, req, csrf)
    require.Equal(t, http.StatusSeeOther, rec.Code)
    assert.Equal(t, "/my_reservations", rec.Header().Get(echo.HeaderLocation))
    session := cookie(rec, "session")
    require.NotNil(t, session)

    rec = serve(e, httptest.NewRequest(http.MethodGet, "/my_reservations", nil), session)
    require.Equal(t, http.StatusOK, rec.Code)
    var mine struct {
        User struct {
            Name string `json:"name"`
        } `json:"user"`
    }
    require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &mine))
    assert.Equal(t, "Ann", mine.User.Name)

    rec = serve(e, httptest.NewRequest(http.MethodGet, "/admin", nil), session)
    assert.Equal(t, http.StatusSeeOther, rec.Code)
    assert.Equal(t, "/", rec.Header().Get(echo.HeaderLocation))

    rec = serve(e, httptest.NewRequest(http.MethodGet, "/logout", nil), session)
    assert.Equal(t, http.StatusSeeOther, rec.Code)
    rec = serve(e, httptest.NewRequest(http.MethodGet, "/seats", nil), session)
    assert.Equal(t, http.StatusSeeOther, rec.Code)
    assert.True(t, strings.HasPrefix(rec.Header().Get(echo.HeaderLocation), "/login"))
}

func TestHomeIsPublic(t *testing.T) {
    e := newTestServer(t)
    rec := serve(e, httptest.NewRequest(http.MethodGet, "/", nil))
    assert.Equal(t, http.StatusOK, rec.Code)
}
