package web

import (
	"context"
	"net/http"
	"strconv"
	"time"

	"memberdesk/internal/application/projections"
	"memberdesk/internal/application/status"
)

// perfWindow is how far back /admin/perf-summary looks by default.
const perfWindow = 15 * time.Minute

// perfTopN is how many slow paths and queries the perf summary lists.
const perfTopN = 10

func loadDashboardSummary(ctx context.Context) (projections.DashboardSummary, error) {
	return summaryCache.Get(ctx, func(ctx context.Context) (projections.DashboardSummary, error) {
		return projections.QueryDashboardSummary(ctx, moment(), projections.DashboardSummaryDeps{MemberStore: stores.MemberStore})
	})
}

func statisticsDeps() projections.StatisticsDeps {
	return projections.StatisticsDeps{MemberStore: stores.MemberStore}
}

func logsDeps() projections.MembershipLogsDeps {
	return projections.MembershipLogsDeps{LogStore: stores.LogStore}
}

// handleDashboardPage handles GET /admin/dashboard. Each region is loaded on
// its own and reports to the page's status board, so one failing region
// still leaves the others visible.
func handleDashboardPage(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	runExpiry(ctx)
	board := status.NewBoard(gymLocation)

	summary, err := loadDashboardSummary(ctx)
	board.Report(status.Summary, summary.Summary.Total, err, timeNow())

	stats, err := projections.QueryMembersStatistics(ctx, moment(), statisticsDeps())
	board.Report(status.Stats, len(stats.Members), err, timeNow())

	logs, err := projections.QueryMembershipLogs(ctx, moment(), logsDeps())
	board.Report(status.Logs, len(logs), err, timeNow())

	renderTemplate(w, r, "admin_dashboard.html", map[string]any{
		"Summary":       summary,
		"Stats":         stats,
		"Logs":          logs,
		"SummaryStatus": board.Get(status.Summary),
		"StatsStatus":   board.Get(status.Stats),
		"LogsStatus":    board.Get(status.Logs),
	})
}

// handleDashboardSummary handles GET /admin/dashboard-summary
func handleDashboardSummary(w http.ResponseWriter, r *http.Request) {
	runExpiry(r.Context())
	summary, err := loadDashboardSummary(r.Context())
	if err != nil {
		jsonInternal(w, err)
		return
	}
	writeJSON(w, http.StatusOK, summary)
}

// handleStatisticsSummary handles GET /admin/statistics-summary
func handleStatisticsSummary(w http.ResponseWriter, r *http.Request) {
	summary, err := projections.QueryStatisticsSummary(r.Context(), moment(), statisticsDeps())
	if err != nil {
		jsonInternal(w, err)
		return
	}
	writeJSON(w, http.StatusOK, summary)
}

// handleMembersStatistics handles GET /admin/members-statistics
func handleMembersStatistics(w http.ResponseWriter, r *http.Request) {
	stats, err := projections.QueryMembersStatistics(r.Context(), moment(), statisticsDeps())
	if err != nil {
		jsonInternal(w, err)
		return
	}
	writeJSON(w, http.StatusOK, stats)
}

// handleMembershipLogs handles GET /admin/membership-logs
func handleMembershipLogs(w http.ResponseWriter, r *http.Request) {
	logs, err := projections.QueryMembershipLogs(r.Context(), moment(), logsDeps())
	if err != nil {
		jsonInternal(w, err)
		return
	}
	if logs == nil {
		logs = []projections.LogRow{}
	}
	writeJSON(w, http.StatusOK, logs)
}

// handleCharts handles GET /admin/charts: the Chart.js configs for every
// canvas, rebuilt from fresh summaries.
func handleCharts(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	summary, err := loadDashboardSummary(ctx)
	if err != nil {
		jsonInternal(w, err)
		return
	}
	stats, err := projections.QueryStatisticsSummary(ctx, moment(), statisticsDeps())
	if err != nil {
		jsonInternal(w, err)
		return
	}
	chartManager.RenderDashboard(summary)
	chartManager.RenderStatistics(stats)
	writeJSON(w, http.StatusOK, chartManager.Configs())
}

// handlePerfSummary handles GET /admin/perf-summary?minutes=N
func handlePerfSummary(w http.ResponseWriter, r *http.Request) {
	if perfCollector == nil {
		jsonFailure(w, http.StatusServiceUnavailable, "performance collection is disabled")
		return
	}
	window := perfWindow
	if m, err := strconv.Atoi(r.URL.Query().Get("minutes")); err == nil && m > 0 {
		window = time.Duration(m) * time.Minute
	}
	writeJSON(w, http.StatusOK, perfCollector.Snapshot(timeNow().Add(-window), perfTopN))
}
