package server

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
)

func TestShouldSkipJWT(t *testing.T) {
	t.Parallel()

	cases := []struct {
		path string
		want bool
	}{
		{path: "/webhook", want: true},
		{path: "/health", want: true},
		{path: "/ping", want: true},
		{path: "/metrics", want: true},
		{path: "/api/swagger.json", want: true},
		{path: "/api/docs/index.html", want: true},
		{path: "/health/checks", want: false},
		{path: "/tenants", want: false},
		{path: "/tenants/abc/messages", want: false},
		{path: "/webhook/extra", want: false},
	}

	for _, tc := range cases {
		got := shouldSkipJWT(tc.path)
		if got != tc.want {
			t.Fatalf("path=%q want=%v got=%v", tc.path, tc.want, got)
		}
	}
}

type pingRoutes struct{}

func (pingRoutes) Register(e *echo.Echo) {
	e.GET("/ping", func(c echo.Context) error { return c.String(http.StatusOK, "pong") })
}

func TestNewServerRegistersHandlers(t *testing.T) {
	srv := NewServer(nil, "", "test-secret", nil, pingRoutes{}, nil)

	rec := httptest.NewRecorder()
	srv.echo.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/ping", nil))
	if rec.Code != http.StatusOK || rec.Body.String() != "pong" {
		t.Fatalf("expected pong, got %d %q", rec.Code, rec.Body.String())
	}

	rec = httptest.NewRecorder()
	srv.echo.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/tenants", nil))
	if rec.Code == http.StatusOK {
		t.Fatalf("expected guarded route to reject without a token, got %d", rec.Code)
	}
}
