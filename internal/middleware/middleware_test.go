package middleware

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/portfolio-backend/internal/config"
	"github.com/iliyamo/portfolio-backend/internal/model"
	"github.com/iliyamo/portfolio-backend/internal/repository/repotest"
	"github.com/iliyamo/portfolio-backend/internal/utils"
)

func sessionFixture(t *testing.T) (*utils.TokenService, *repotest.Users, *model.User) {
	t.Helper()
	tokens, err := utils.NewTokenService("secret", "test", time.Hour)
	if err != nil {
		t.Fatal(err)
	}
	users := repotest.NewUsers()
	u := &model.User{FirstName: "Ada", Email: "ada@example.com"}
	if err := users.Create(t.Context(), u); err != nil {
		t.Fatal(err)
	}
	return tokens, users, u
}

func runSession(t *testing.T, mw echo.MiddlewareFunc, req *http.Request) (*httptest.ResponseRecorder, *model.User) {
	t.Helper()
	e := echo.New()
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	var seen *model.User
	err := mw(func(c echo.Context) error {
		seen = CurrentUser(c)
		return c.NoContent(http.StatusOK)
	})(c)
	if err != nil {
		t.Fatal(err)
	}
	return rec, seen
}

func TestSessionStates(t *testing.T) {
	tokens, users, u := sessionFixture(t)
	mw := Session("token", tokens, users)
	good, _ := tokens.IssueSession(u.ID.Hex())
	ghost, _ := tokens.IssueSession("64b7f0c2a1b2c3d4e5f60718")

	cases := []struct {
		name   string
		setup  func(r *http.Request)
		status int
	}{
		{"no token", func(*http.Request) {}, http.StatusUnauthorized},
		{"garbage cookie", func(r *http.Request) { r.AddCookie(&http.Cookie{Name: "token", Value: "x.y.z"}) }, http.StatusUnauthorized},
		{"deleted user", func(r *http.Request) { r.AddCookie(&http.Cookie{Name: "token", Value: ghost.Token}) }, http.StatusUnauthorized},
		{"cookie", func(r *http.Request) { r.AddCookie(&http.Cookie{Name: "token", Value: good.Token}) }, http.StatusOK},
		{"bearer", func(r *http.Request) { r.Header.Set("Authorization", "Bearer "+good.Token) }, http.StatusOK},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/profileView", nil)
			tc.setup(req)
			rec, seen := runSession(t, mw, req)
			if rec.Code != tc.status {
				t.Fatalf("status = %d, want %d", rec.Code, tc.status)
			}
			if tc.status == http.StatusOK && (seen == nil || seen.ID != u.ID) {
				t.Fatalf("user not attached: %+v", seen)
			}
			if tc.status == http.StatusUnauthorized && !strings.Contains(rec.Body.String(), "please log in") {
				t.Fatalf("body = %s", rec.Body.String())
			}
		})
	}
}

func TestResponseCacheHitAndInvalidate(t *testing.T) {
	cfg := config.CacheConfig{Enabled: true, Methods: []string{"GET"}, TTL: time.Minute, Prefix: "cache", KeyStrategy: "route_query"}
	rc := NewResponseCache(cfg, NewMemoryStore(time.Minute))

	e := echo.New()
	calls := 0
	e.GET("/getAllProjects", func(c echo.Context) error {
		calls++
		return c.JSON(http.StatusOK, echo.Map{"calls": calls})
	}, rc.Middleware())

	get := func() *httptest.ResponseRecorder {
		rec := httptest.NewRecorder()
		e.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/getAllProjects", nil))
		return rec
	}

	first := get()
	second := get()
	if calls != 1 {
		t.Fatalf("handler ran %d times, want 1", calls)
	}
	if first.Header().Get("X-Cache") != "MISS" || second.Header().Get("X-Cache") != "HIT" {
		t.Fatalf("X-Cache = %q then %q", first.Header().Get("X-Cache"), second.Header().Get("X-Cache"))
	}
	if first.Body.String() != second.Body.String() {
		t.Fatalf("cached body differs: %q vs %q", first.Body.String(), second.Body.String())
	}

	rc.Invalidate(t.Context())
	get()
	if calls != 2 {
		t.Fatalf("after invalidate handler ran %d times, want 2", calls)
	}
}

func TestResponseCacheSkipsErrors(t *testing.T) {
	cfg := config.CacheConfig{Enabled: true, Methods: []string{"GET"}, TTL: time.Minute, Prefix: "cache"}
	rc := NewResponseCache(cfg, NewMemoryStore(time.Minute))
	e := echo.New()
	calls := 0
	e.GET("/getProject/:id", func(c echo.Context) error {
		calls++
		return c.JSON(http.StatusNotFound, echo.Map{"error": "not found"})
	}, rc.Middleware())

	for i := 0; i < 2; i++ {
		e.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/getProject/abc", nil))
	}
	if calls != 2 {
		t.Fatalf("404 was cached: calls = %d", calls)
	}
}

func TestRateLimitDisabledWithoutRedis(t *testing.T) {
	mw := RateLimit(config.RateLimitConfig{Enabled: true, Capacity: 1}, nil)
	e := echo.New()
	for i := 0; i < 3; i++ {
		rec := httptest.NewRecorder()
		c := e.NewContext(httptest.NewRequest(http.MethodPost, "/login", nil), rec)
		if err := mw(func(c echo.Context) error { return c.NoContent(http.StatusOK) })(c); err != nil {
			t.Fatal(err)
		}
		if rec.Code != http.StatusOK {
			t.Fatalf("request %d blocked", i)
		}
	}
}
