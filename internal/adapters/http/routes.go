package web

import (
	"net/http"

	"memberdesk/internal/adapters/http/middleware"
)

func registerRoutes(mux *http.ServeMux) {
	desk := func(pattern string, h http.HandlerFunc) {
		mux.Handle(pattern, middleware.RequireDesk(h))
	}
	member := func(pattern string, h http.HandlerFunc) {
		mux.Handle(pattern, middleware.RequireMember(h))
	}

	mux.HandleFunc("GET /{$}", handleIndex)

	// Desk login
	mux.HandleFunc("GET /login", handleLoginPage)
	mux.HandleFunc("POST /login", handleLogin)
	mux.HandleFunc("POST /logout", handleLogout)

	// Admin pages
	desk("GET /admin/members", handleMembersPage)
	desk("GET /admin/dashboard", handleDashboardPage)

	// Admin JSON
	desk("POST /admin/add-member", handleAddMember)
	desk("GET /admin/member/{id}", handleViewMember)
	desk("POST /admin/member/{id}/edit", handleEditMember)
	desk("DELETE /admin/member/{id}/delete", handleDeleteMember)
	desk("GET /admin/members-json", handleMembersJSON)
	desk("GET /admin/renewals-json", handleRenewalsJSON)
	desk("POST /admin/renewal/{id}", handleRenewalDecision)
	desk("DELETE /admin/renewal/delete/{id}", handleDeleteRenewal)
	desk("GET /admin/dashboard-summary", handleDashboardSummary)
	desk("GET /admin/statistics-summary", handleStatisticsSummary)
	desk("GET /admin/members-statistics", handleMembersStatistics)
	desk("GET /admin/membership-logs", handleMembershipLogs)
	desk("GET /admin/charts", handleCharts)
	desk("GET /admin/perf-summary", handlePerfSummary)

	// Member pages
	mux.HandleFunc("GET /user/register", handleRegisterPage)
	mux.HandleFunc("POST /user/register", handleRegister)
	mux.HandleFunc("GET /user/login", handleUserLoginPage)
	mux.HandleFunc("POST /user/login", handleUserLogin)
	mux.HandleFunc("GET /user/activate", handleActivatePage)
	mux.HandleFunc("GET /user/admin-login", handleActivatePage)
	mux.HandleFunc("POST /user/admin-login", handleCodeLogin)
	mux.HandleFunc("GET /user/logout", handleUserLogout)
	member("GET /user/membership", handleMembershipPage)
	mux.HandleFunc("POST /user/request-renewal", handleRequestRenewal)

	// Member attendance JSON
	member("GET /user/attendance/status", handleAttendanceStatus)
	member("POST /user/attendance/time_in", handleTimeIn)
	member("POST /user/attendance/time_out", handleTimeOut)
}
