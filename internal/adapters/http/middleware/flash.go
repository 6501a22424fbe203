package middleware

import (
	"crypto/rand"
	"log/slog"
	"net/http"
	"sync"

	"github.com/gorilla/securecookie"
)

// Flash kinds, used as CSS classes by the layout.
const (
	FlashSuccess = "success"
	FlashError   = "error"
	FlashWarning = "warning"
	FlashInfo    = "info"
)

// Flash is a one-shot message shown on the next rendered page.
type Flash struct {
	Kind    string `json:"k"`
	Message string `json:"m"`
}

// FlashCookieName is the cookie carrying pending flashes.
const FlashCookieName = "memberdesk_flash"

var (
	flashMu    sync.RWMutex
	flashCodec = newFlashCodec(nil)
)

func newFlashCodec(hashKey []byte) *securecookie.SecureCookie {
	if len(hashKey) == 0 {
		hashKey = make([]byte, 32)
		if _, err := rand.Read(hashKey); err != nil {
			panic(err)
		}
	}
	sc := securecookie.New(hashKey, nil)
	sc.SetSerializer(securecookie.JSONEncoder{})
	sc.MaxAge(300)
	return sc
}

// SetFlashKey sets the key that signs flash cookies.
func SetFlashKey(hashKey []byte) {
	flashMu.Lock()
	flashCodec = newFlashCodec(hashKey)
	flashMu.Unlock()
}

func codec() *securecookie.SecureCookie {
	flashMu.RLock()
	defer flashMu.RUnlock()
	return flashCodec
}

// readFlashes decodes the request's flash cookie. A missing or tampered cookie yields nil.
func readFlashes(r *http.Request) []Flash {
	cookie, err := r.Cookie(FlashCookieName)
	if err != nil || cookie.Value == "" {
		return nil
	}
	var flashes []Flash
	if err := codec().Decode(FlashCookieName, cookie.Value, &flashes); err != nil {
		slog.Debug("flash_event", "event", "flash_decode_failed", "error", err)
		return nil
	}
	return flashes
}

// AddFlash queues messages of one kind for the next page, keeping those already queued.
func AddFlash(w http.ResponseWriter, r *http.Request, kind string, messages ...string) {
	add := make([]Flash, 0, len(messages))
	for _, m := range messages {
		add = append(add, Flash{Kind: kind, Message: m})
	}
	AddFlashes(w, r, add...)
}

// AddFlashes queues flashes of mixed kinds. Only one flash cookie is written
// per response, so a handler queues everything in one call.
func AddFlashes(w http.ResponseWriter, r *http.Request, add ...Flash) {
	flashes := append(readFlashes(r), add...)
	encoded, err := codec().Encode(FlashCookieName, flashes)
	if err != nil {
		slog.Error("flash_event", "event", "flash_encode_failed", "error", err)
		return
	}
	http.SetCookie(w, &http.Cookie{
		Name:     FlashCookieName,
		Value:    encoded,
		Path:     "/",
		HttpOnly: true,
		Secure:   SecureCookies,
		SameSite: http.SameSiteLaxMode,
	})
}

// TakeFlashes returns the queued flashes and clears them.
func TakeFlashes(w http.ResponseWriter, r *http.Request) []Flash {
	flashes := readFlashes(r)
	if flashes != nil {
		http.SetCookie(w, &http.Cookie{Name: FlashCookieName, Value: "", Path: "/", MaxAge: -1})
	}
	return flashes
}
