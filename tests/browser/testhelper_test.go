package browser_test

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/playwright-community/playwright-go"

	_ "modernc.org/sqlite"

	web "memberdesk/internal/adapters/http"
	"memberdesk/internal/adapters/http/perf"
	"memberdesk/internal/adapters/storage"
	accountStore "memberdesk/internal/adapters/storage/account"
	attendanceStore "memberdesk/internal/adapters/storage/attendance"
	memberStore "memberdesk/internal/adapters/storage/member"
	memberLogStore "memberdesk/internal/adapters/storage/memberlog"
	pricingStore "memberdesk/internal/adapters/storage/pricing"
	renewalStore "memberdesk/internal/adapters/storage/renewal"
	"memberdesk/internal/adapters/storage/txn"
	"memberdesk/internal/application/orchestrators"
	domainMember "memberdesk/internal/domain/member"
	"memberdesk/internal/domain/pricing"
)

const (
	adminEmail    = "admin@gym.test"
	adminPassword = "correct-horse-battery"
)

// testApp holds the running test server and Playwright handles.
type testApp struct {
	BaseURL string
	DB      *sql.DB
	Server  *http.Server
	PW      *playwright.Playwright
	Browser playwright.Browser
	Stores  *web.Stores
}

// newTestApp creates a fully wired app with a temp SQLite DB and starts an HTTP server.
func newTestApp(t *testing.T) *testApp {
	t.Helper()
	if testing.Short() {
		t.Skip("skipping browser test in short mode")
	}

	dbPath := filepath.Join(t.TempDir(), "test.db")
	db, err := sql.Open("sqlite", dbPath+"?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)&_pragma=foreign_keys(ON)")
	if err != nil {
		t.Fatalf("failed to open test DB: %v", err)
	}
	if err := storage.MigrateDB(db); err != nil {
		t.Fatalf("failed to migrate test DB: %v", err)
	}

	stores := &web.Stores{
		AccountStore:    accountStore.NewSQLiteStore(db),
		MemberStore:     memberStore.NewSQLiteStore(db),
		AttendanceStore: attendanceStore.NewSQLiteStore(db),
		RenewalStore:    renewalStore.NewSQLiteStore(db),
		LogStore:        memberLogStore.NewSQLiteStore(db),
		PricingStore:    pricingStore.NewSQLiteStore(db),
		Writes:          txn.New(db),
	}

	ctx := context.Background()
	clock := orchestrators.Clock{Now: time.Now, Location: time.UTC}
	if err := orchestrators.ExecuteSeedAdmin(ctx, orchestrators.CreateAccountDeps{AccountStore: stores.AccountStore, Clock: clock}, adminEmail, adminPassword); err != nil {
		t.Fatalf("failed to seed admin: %v", err)
	}
	prices, err := pricing.Defaults()
	if err != nil {
		t.Fatalf("default prices: %v", err)
	}
	if err := orchestrators.ExecuteSeedPricing(ctx, prices, false, orchestrators.SeedPricingDeps{PricingStore: stores.PricingStore}); err != nil {
		t.Fatalf("failed to seed pricing: %v", err)
	}

	listener, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatalf("failed to find free port: %v", err)
	}
	port := listener.Addr().(*net.TCPAddr).Port
	listener.Close()

	// Static assets are served relative to the project root.
	origDir, _ := os.Getwd()
	if err := os.Chdir(findProjectRoot(t)); err != nil {
		t.Fatalf("failed to chdir to project root: %v", err)
	}
	t.Cleanup(func() { os.Chdir(origDir) })

	web.RateLimitPerSecond = 1000
	stop := make(chan struct{})
	handler := web.NewMux("static", stores, perf.NewCollector(0), web.Options{
		Location:       time.UTC,
		TrustedOrigins: []string{fmt.Sprintf("127.0.0.1:%d", port)},
	}, stop)
	srv := &http.Server{Addr: fmt.Sprintf("127.0.0.1:%d", port), Handler: handler}
	go func() {
		if err := srv.ListenAndServe(); err != http.ErrServerClosed {
			slog.Error("test_server_failed", "error", err)
		}
	}()

	baseURL := fmt.Sprintf("http://127.0.0.1:%d", port)
	for range 50 {
		resp, err := http.Get(baseURL + "/login")
		if err == nil {
			resp.Body.Close()
			break
		}
		time.Sleep(100 * time.Millisecond)
	}

	pw, err := playwright.Run()
	if err != nil {
		t.Fatalf("failed to start Playwright: %v", err)
	}
	browser, err := pw.Chromium.Launch(playwright.BrowserTypeLaunchOptions{Headless: playwright.Bool(true)})
	if err != nil {
		t.Fatalf("failed to launch browser: %v", err)
	}

	t.Cleanup(func() {
		browser.Close()
		pw.Stop()
		srv.Close()
		close(stop)
		db.Close()
	})

	return &testApp{BaseURL: baseURL, DB: db, Server: srv, PW: pw, Browser: browser, Stores: stores}
}

// newPage creates a new browser page (tab).
func (a *testApp) newPage(t *testing.T) playwright.Page {
	t.Helper()
	page, err := a.Browser.NewPage()
	if err != nil {
		t.Fatalf("failed to create page: %v", err)
	}
	t.Cleanup(func() { page.Close() })
	return page
}

// login logs in at the desk login page and waits for the dashboard.
func (a *testApp) login(t *testing.T, page playwright.Page) {
	t.Helper()
	if _, err := page.Goto(a.BaseURL + "/login"); err != nil {
		t.Fatalf("failed to navigate to login: %v", err)
	}
	if err := page.Locator("#email").Fill(adminEmail); err != nil {
		t.Fatalf("failed to fill email: %v", err)
	}
	if err := page.Locator("#password").Fill(adminPassword); err != nil {
		t.Fatalf("failed to fill password: %v", err)
	}
	if err := page.Locator("button[type=submit]").Click(); err != nil {
		t.Fatalf("failed to click login: %v", err)
	}
	if err := page.WaitForURL(a.BaseURL+"/admin/dashboard", playwright.PageWaitForURLOptions{
		Timeout: playwright.Float(10000),
	}); err != nil {
		t.Fatalf("login did not redirect to dashboard: %v", err)
	}
}

// seedMember saves an active member whose plan runs from today for 30 days.
func (a *testApp) seedMember(t *testing.T, i int, memberType, password string) domainMember.Member {
	t.Helper()
	today := time.Now().UTC()
	m := domainMember.Member{
		ID:            fmt.Sprintf("m%03d", i),
		UniqueCode:    fmt.Sprintf("GYM-%06d", i),
		FirstName:     fmt.Sprintf("Member%03d", i),
		LastName:      "Test",
		MemberType:    memberType,
		GymPlan:       domainMember.PlanMonthly,
		Email:         fmt.Sprintf("member%03d@gym.test", i),
		StartDate:     today.Format(domainMember.DateLayout),
		EndDate:       today.AddDate(0, 0, 30).Format(domainMember.DateLayout),
		Status:        domainMember.StatusActive,
		PaymentStatus: domainMember.PaymentPaid,
		PricePaid:     500,
		RegisteredAt:  today,
	}
	if memberType == domainMember.TypeStudent {
		m.StudentNumber = fmt.Sprintf("2026-%04d", i)
	}
	if password != "" {
		m.SelfRegistered = true
		if err := m.SetPassword(password); err != nil {
			t.Fatalf("set password: %v", err)
		}
	}
	if err := a.Stores.MemberStore.Save(context.Background(), m); err != nil {
		t.Fatalf("seed member %d: %v", i, err)
	}
	return m
}

// findProjectRoot walks up from the working directory to the directory holding go.mod.
func findProjectRoot(t *testing.T) string {
	t.Helper()
	dir, err := os.Getwd()
	if err != nil {
		t.Fatalf("failed to get working directory: %v", err)
	}
	for {
		if _, err := os.Stat(filepath.Join(dir, "go.mod")); err == nil {
			return dir
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			t.Fatalf("could not find project root (go.mod) from working directory")
		}
		dir = parent
	}
}
