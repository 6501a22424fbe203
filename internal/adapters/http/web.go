package web

import (
	"crypto/rand"
	"embed"
	"log/slog"
	"net/http"
	"time"

	"memberdesk/internal/adapters/http/middleware"
	"memberdesk/internal/adapters/http/perf"
	accountStore "memberdesk/internal/adapters/storage/account"
	attendanceStore "memberdesk/internal/adapters/storage/attendance"
	memberStore "memberdesk/internal/adapters/storage/member"
	memberLogStore "memberdesk/internal/adapters/storage/memberlog"
	pricingStore "memberdesk/internal/adapters/storage/pricing"
	renewalStore "memberdesk/internal/adapters/storage/renewal"
	"memberdesk/internal/application/charts"
	"memberdesk/internal/application/orchestrators"
	"memberdesk/internal/application/projections"
)

//go:embed templates/*.html
var templateFS embed.FS

// Stores holds all storage dependencies.
type Stores struct {
	AccountStore    accountStore.Store
	MemberStore     memberStore.Store
	AttendanceStore attendanceStore.Store
	RenewalStore    renewalStore.Store
	LogStore        memberLogStore.Store
	PricingStore    pricingStore.Store
	Writes          orchestrators.UnitOfWork // member, renewal and log writes in one transaction
}

// Options carries the server settings the handlers need.
type Options struct {
	Location        *time.Location // gym time zone; nil means UTC
	CSRFKey         []byte         // 32 bytes; a random key is generated when empty
	Production      bool
	TrustedOrigins  []string
	SummaryCacheTTL time.Duration
	SlowRequest     time.Duration
	Welcome         *orchestrators.WelcomeEmail // nil skips welcome emails
}

// Global stores instance (set by NewMux)
var stores *Stores

// Global session store instance
var sessions *middleware.SessionStore

// RateLimitPerSecond controls the per-IP rate limit. Tests can increase this.
var RateLimitPerSecond = 20

// Global perf collector (set by NewMux)
var perfCollector *perf.Collector

var (
	summaryCache *projections.SummaryCache
	chartManager = charts.NewManager(nil)
	gymLocation  = time.UTC
	welcomeEmail *orchestrators.WelcomeEmail
)

// timeNow is a variable for testability.
var timeNow = time.Now

// clock returns the orchestrators' view of the current time.
func clock() orchestrators.Clock {
	return orchestrators.Clock{Now: timeNow, Location: gymLocation}
}

// moment returns the projections' view of the current time.
func moment() projections.Moment {
	return projections.Moment{Now: timeNow(), Location: gymLocation}
}

// csrfKey returns the configured key, or a random one for development.
func csrfKey(opts Options) []byte {
	if len(opts.CSRFKey) == 32 {
		return opts.CSRFKey
	}
	key := make([]byte, 32)
	if _, err := rand.Read(key); err != nil {
		panic(err)
	}
	slog.Warn("csrf_event", "event", "random_csrf_key", "detail", "sessions and forms won't survive restart; set MEMBERDESK_CSRF_KEY")
	return key
}

// NewMux wires HTTP handlers for the app. stop ends background helpers.
func NewMux(staticDir string, s *Stores, collector *perf.Collector, opts Options, stop <-chan struct{}) http.Handler {
	stores = s
	perfCollector = collector
	sessions = middleware.NewSessionStore()
	summaryCache = projections.NewSummaryCache(opts.SummaryCacheTTL, timeNow)
	chartManager = charts.NewManager(nil)
	welcomeEmail = opts.Welcome
	if opts.Location != nil {
		gymLocation = opts.Location
	}
	middleware.SecureCookies = opts.Production

	key := csrfKey(opts)
	middleware.SetFlashKey(key)

	mux := http.NewServeMux()
	mux.Handle("GET /static/", http.StripPrefix("/static/", http.FileServer(http.Dir(staticDir))))
	registerRoutes(mux)

	limiter := middleware.NewRateLimiter(RateLimitPerSecond, time.Second, stop)

	// Request flow: Timing -> RateLimit -> Auth -> CSRF -> SecurityHeaders -> Mux
	return middleware.Chain(mux,
		middleware.SecurityHeaders,
		middleware.CSRF(key, opts.Production, opts.TrustedOrigins),
		middleware.Auth(sessions),
		middleware.RateLimit(limiter),
		middleware.Timing(collector, opts.SlowRequest),
	)
}
