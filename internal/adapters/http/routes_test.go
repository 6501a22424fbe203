package web

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"memberdesk/internal/adapters/http/middleware"
	"memberdesk/internal/adapters/http/perf"
	"memberdesk/internal/application/orchestrators"
)

// newTestServer builds the full handler chain over a fresh database.
func newTestServer(t *testing.T) http.Handler {
	t.Helper()
	s := setupTest(t)
	err := orchestrators.ExecuteSeedAdmin(context.Background(), orchestrators.CreateAccountDeps{
		AccountStore: s.AccountStore,
		Clock:        clock(),
	}, "admin@gym.test", "correct-horse-battery")
	if err != nil {
		t.Fatalf("seed admin: %v", err)
	}

	stop := make(chan struct{})
	t.Cleanup(func() { close(stop) })
	return NewMux(t.TempDir(), s, perf.NewCollector(perf.DefaultRingSize), Options{
		Location:        testZone,
		CSRFKey:         []byte(strings.Repeat("k", 32)),
		SummaryCacheTTL: 10 * time.Second,
	}, stop)
}

func serve(h http.Handler, req *http.Request) *httptest.ResponseRecorder {
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func TestRoutes_DeskGuard(t *testing.T) {
	h := newTestServer(t)
	memberToken, err := sessions.Create("m1", "", "Ana Reyes", middleware.RoleMember)
	if err != nil {
		t.Fatal(err)
	}

	tests := []struct {
		name     string
		path     string
		accept   string
		token    string
		code     int
		location string
	}{
		{"page without session", "/admin/members", "text/html", "", http.StatusSeeOther, middleware.DeskLoginPath},
		{"json without session", "/admin/members-json", "application/json", "", http.StatusUnauthorized, ""},
		{"member session on desk page", "/admin/dashboard", "text/html", memberToken, http.StatusForbidden, ""},
		{"member page without session", "/user/membership", "text/html", "", http.StatusSeeOther, middleware.MemberLoginPath},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, tt.path, nil)
			req.Header.Set("Accept", tt.accept)
			if tt.token != "" {
				req.AddCookie(&http.Cookie{Name: middleware.SessionCookieName, Value: tt.token})
			}
			rec := serve(h, req)
			if rec.Code != tt.code {
				t.Fatalf("expected %d, got %d", tt.code, rec.Code)
			}
			if tt.location != "" && rec.Header().Get("Location") != tt.location {
				t.Errorf("location = %q, want %q", rec.Header().Get("Location"), tt.location)
			}
		})
	}
}

func TestRoutes_JSONLoginThenAPI(t *testing.T) {
	h := newTestServer(t)

	req := httptest.NewRequest(http.MethodPost, "/login", strings.NewReader(`{"email":"admin@gym.test","password":"correct-horse-battery"}`))
	req.Header.Set("Content-Type", "application/json")
	rec := serve(h, req)
	if rec.Code != http.StatusOK {
		t.Fatalf("login: expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
	var session *http.Cookie
	for _, c := range rec.Result().Cookies() {
		if c.Name == middleware.SessionCookieName {
			session = c
		}
	}
	if session == nil {
		t.Fatal("login should set the session cookie")
	}

	req = httptest.NewRequest(http.MethodGet, "/admin/members-json", nil)
	req.Header.Set("Accept", "application/json")
	req.AddCookie(session)
	rec = serve(h, req)
	if rec.Code != http.StatusOK || !strings.Contains(rec.Body.String(), `"members"`) {
		t.Errorf("members-json: %d %s", rec.Code, rec.Body.String())
	}

	req = httptest.NewRequest(http.MethodGet, "/admin/perf-summary", nil)
	req.Header.Set("Accept", "application/json")
	req.AddCookie(session)
	rec = serve(h, req)
	if rec.Code != http.StatusOK || !strings.Contains(rec.Body.String(), `"requests"`) {
		t.Errorf("perf-summary: %d %s", rec.Code, rec.Body.String())
	}
}

func TestRoutes_JSONLoginRejected(t *testing.T) {
	h := newTestServer(t)
	req := httptest.NewRequest(http.MethodPost, "/login", strings.NewReader(`{"email":"admin@gym.test","password":"wrong"}`))
	req.Header.Set("Content-Type", "application/json")
	rec := serve(h, req)
	if rec.Code != http.StatusUnauthorized {
		t.Errorf("expected 401, got %d", rec.Code)
	}
}

func TestRoutes_FormPostNeedsCSRFToken(t *testing.T) {
	h := newTestServer(t)
	req := httptest.NewRequest(http.MethodPost, "/user/register", strings.NewReader(registrationForm().Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	rec := serve(h, req)
	if rec.Code != http.StatusForbidden {
		t.Errorf("expected 403 without a CSRF token, got %d", rec.Code)
	}
}

func TestRoutes_LoginPageCarriesCSRFField(t *testing.T) {
	h := newTestServer(t)
	rec := serve(h, httptest.NewRequest(http.MethodGet, "/user/login", nil))
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	body := rec.Body.String()
	if !strings.Contains(body, `name="gorilla.csrf.Token"`) {
		t.Error("form should carry the CSRF field")
	}
	if rec.Header().Get("Content-Security-Policy") == "" {
		t.Error("security headers missing")
	}
}

func TestRoutes_IndexRedirects(t *testing.T) {
	h := newTestServer(t)
	deskToken, _ := sessions.Create("a1", "admin@gym.test", "admin@gym.test", "admin")

	tests := []struct {
		name  string
		token string
		want  string
	}{
		{"anonymous", "", middleware.MemberLoginPath},
		{"desk", deskToken, "/admin/dashboard"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/", nil)
			if tt.token != "" {
				req.AddCookie(&http.Cookie{Name: middleware.SessionCookieName, Value: tt.token})
			}
			rec := serve(h, req)
			if loc := rec.Header().Get("Location"); loc != tt.want {
				t.Errorf("location = %q, want %q", loc, tt.want)
			}
		})
	}
}

func TestRoutes_UserLogoutClearsSession(t *testing.T) {
	h := newTestServer(t)
	token, _ := sessions.Create("m1", "", "Ana Reyes", middleware.RoleMember)

	req := httptest.NewRequest(http.MethodGet, "/user/logout", nil)
	req.AddCookie(&http.Cookie{Name: middleware.SessionCookieName, Value: token})
	rec := serve(h, req)
	if rec.Code != http.StatusSeeOther {
		t.Fatalf("expected 303, got %d", rec.Code)
	}
	if _, ok := sessions.Get(token); ok {
		t.Error("session should be deleted")
	}
	flashes := flashesOf(t, rec)
	if len(flashes) != 1 || flashes[0].Message != "You have been logged out successfully." {
		t.Errorf("unexpected flashes %+v", flashes)
	}
}
