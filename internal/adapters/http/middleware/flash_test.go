package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
)

// carry copies the cookies set on rec into a new request, as a browser would.
func carry(rec *httptest.ResponseRecorder) *http.Request {
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	for _, c := range rec.Result().Cookies() {
		req.AddCookie(c)
	}
	return req
}

func TestFlash_RoundTrip(t *testing.T) {
	SetFlashKey([]byte("0123456789abcdef0123456789abcdef"))

	rec := httptest.NewRecorder()
	AddFlashes(rec, httptest.NewRequest(http.MethodPost, "/", nil),
		Flash{Kind: FlashWarning, Message: "Your membership has expired. Please renew to continue."},
		Flash{Kind: FlashSuccess, Message: "Welcome back, Ana!"},
	)

	next := carry(rec)
	AddFlash(httptest.NewRecorder(), next, FlashInfo, "ignored")

	takeRec := httptest.NewRecorder()
	got := TakeFlashes(takeRec, next)
	if len(got) != 2 || got[0].Kind != FlashWarning || got[1].Message != "Welcome back, Ana!" {
		t.Fatalf("unexpected flashes %+v", got)
	}

	cleared := false
	for _, c := range takeRec.Result().Cookies() {
		if c.Name == FlashCookieName && c.MaxAge < 0 {
			cleared = true
		}
	}
	if !cleared {
		t.Error("TakeFlashes should expire the cookie")
	}
}

func TestFlash_AppendsToQueued(t *testing.T) {
	SetFlashKey([]byte("0123456789abcdef0123456789abcdef"))

	first := httptest.NewRecorder()
	AddFlash(first, httptest.NewRequest(http.MethodGet, "/", nil), FlashError, "one")
	second := httptest.NewRecorder()
	AddFlash(second, carry(first), FlashError, "two")

	got := TakeFlashes(httptest.NewRecorder(), carry(second))
	if len(got) != 2 || got[0].Message != "one" || got[1].Message != "two" {
		t.Errorf("unexpected flashes %+v", got)
	}
}

func TestFlash_TamperedCookieIgnored(t *testing.T) {
	SetFlashKey([]byte("0123456789abcdef0123456789abcdef"))
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.AddCookie(&http.Cookie{Name: FlashCookieName, Value: "forged"})
	if got := TakeFlashes(httptest.NewRecorder(), req); got != nil {
		t.Errorf("expected nil, got %+v", got)
	}
}

func TestRateLimiter(t *testing.T) {
	stop := make(chan struct{})
	defer close(stop)
	rl := NewRateLimiter(2, 1<<62, stop)

	if !rl.Allow("10.0.0.1") || !rl.Allow("10.0.0.1") {
		t.Fatal("first two requests should pass")
	}
	if rl.Allow("10.0.0.1") {
		t.Error("third request inside the interval should be refused")
	}
	if !rl.Allow("10.0.0.2") {
		t.Error("other IPs have their own bucket")
	}
}
