// Package console renders desk data for the terminal with lipgloss.
package console

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"

	"memberdesk/internal/application/format"
	"memberdesk/internal/application/projections"
	"memberdesk/internal/application/status"
	"memberdesk/internal/application/tableview"
)

var (
	colorAccent = lipgloss.AdaptiveColor{Light: "#1d4ed8", Dark: "#7aa2f7"}
	colorMuted  = lipgloss.AdaptiveColor{Light: "#6b7280", Dark: "#565f89"}
	colorOK     = lipgloss.AdaptiveColor{Light: "#15803d", Dark: "#9ece6a"}
	colorWarn   = lipgloss.AdaptiveColor{Light: "#b45309", Dark: "#e0af68"}
	colorError  = lipgloss.AdaptiveColor{Light: "#b91c1c", Dark: "#f7768e"}

	headerStyle = lipgloss.NewStyle().Bold(true).Foreground(colorAccent).Padding(0, 1)
	cellStyle   = lipgloss.NewStyle().Padding(0, 1)
	mutedStyle  = lipgloss.NewStyle().Foreground(colorMuted)
	activePage  = lipgloss.NewStyle().Bold(true).Reverse(true)
	cardStyle   = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(colorAccent).
			Padding(0, 2).
			Width(24)
	cardLabel = lipgloss.NewStyle().Foreground(colorMuted)
	cardValue = lipgloss.NewStyle().Bold(true)
)

// statusColor maps member, payment and request statuses to a color.
func statusColor(s string) lipgloss.TerminalColor {
	switch s {
	case "Active", "Paid", "Approved":
		return colorOK
	case "Pending", "Unpaid":
		return colorWarn
	case "Expired", "Overdue", "Denied":
		return colorError
	default:
		return colorMuted
	}
}

// Table renders rows under headers. Columns listed in statusCols are colored by value.
func Table(headers []string, rows [][]string, statusCols ...int) string {
	colored := make(map[int]bool, len(statusCols))
	for _, c := range statusCols {
		colored[c] = true
	}
	t := table.New().
		Border(lipgloss.NormalBorder()).
		BorderStyle(mutedStyle).
		Headers(headers...).
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == table.HeaderRow {
				return headerStyle
			}
			if colored[col] && row >= 0 && row < len(rows) {
				return cellStyle.Foreground(statusColor(rows[row][col]))
			}
			return cellStyle
		})
	return t.String()
}

// MembersTable renders one page of the members table.
func MembersTable(v tableview.View[projections.MemberRow]) string {
	if len(v.Rows) == 0 {
		return mutedStyle.Render(status.Members.EmptyMsg)
	}
	rows := make([][]string, 0, len(v.Rows))
	for _, m := range v.Rows {
		rows = append(rows, []string{m.UniqueCode, m.FirstName + " " + m.LastName, m.MemberType, m.GymPlan, m.EndDate, m.Status, m.PaymentStatus})
	}
	return Table([]string{"Member ID", "Name", "Type", "Plan", "Ends", "Status", "Payment"}, rows, 5, 6)
}

// RenewalsTable renders one page of the renewal requests table.
func RenewalsTable(v tableview.View[projections.RenewalRow]) string {
	if len(v.Rows) == 0 {
		return mutedStyle.Render("No renewal requests found.")
	}
	rows := make([][]string, 0, len(v.Rows))
	for _, r := range v.Rows {
		rows = append(rows, []string{r.ID, r.UniqueCode, strings.TrimSpace(r.FirstName + " " + r.LastName), r.CurrentPlan, r.RequestedPlan, r.RequestedAt, r.Status})
	}
	return Table([]string{"Request", "Member ID", "Name", "Current", "Requested", "Requested At", "Status"}, rows, 6)
}

// PageLine renders the page controls as one line: "‹ Prev  1 [2] 3  Next ›   11-20 of 25".
func PageLine(info tableview.PageInfo, c tableview.Controls) string {
	var b strings.Builder
	b.WriteString(control("‹ Prev", c.PrevDisabled))
	b.WriteString(" ")
	for _, btn := range c.Buttons {
		label := fmt.Sprintf(" %d ", btn.Number)
		if btn.Active {
			label = activePage.Render(label)
		}
		b.WriteString(label)
	}
	b.WriteString(" ")
	b.WriteString(control("Next ›", c.NextDisabled))
	fmt.Fprintf(&b, "   %d-%d of %d", info.StartRow(), info.EndRow(), info.Total)
	return b.String()
}

func control(label string, disabled bool) string {
	if disabled {
		return mutedStyle.Render(label)
	}
	return label
}

// Card renders one summary card.
func Card(label, value string) string {
	return cardStyle.Render(cardLabel.Render(label) + "\n" + cardValue.Render(value))
}

// Cards joins cards side by side.
func Cards(cards ...string) string {
	return lipgloss.JoinHorizontal(lipgloss.Top, cards...)
}

// SummaryCards renders the dashboard summary cards.
func SummaryCards(s projections.SummaryCards) string {
	return Cards(
		Card("Total Members", format.Count(s.Total)),
		Card("Active Members", format.Count(s.Active)),
		Card("Most Active Type", s.MostActive),
	)
}

// RevenueCards renders the revenue cards.
func RevenueCards(s projections.RevenueStats) string {
	return Cards(
		Card("Total Revenue", format.Peso(s.TotalRevenue)),
		Card("This Month", format.Peso(s.MonthlyRevenue)),
		Card("Today", format.Peso(s.DailyRevenue)),
	)
}

// WeeklyRevenue renders the weekly revenue series as a table.
func WeeklyRevenue(r projections.RevenueSeries) string {
	rows := make([][]string, 0, len(r.Labels))
	for i, l := range r.Labels {
		v := 0.0
		if i < len(r.Values) {
			v = r.Values[i]
		}
		rows = append(rows, []string{l, format.Peso(v)})
	}
	return Table([]string{"Day", "Revenue"}, rows)
}

// LogList renders the recent membership log entries.
func LogList(logs []projections.LogRow) string {
	var b strings.Builder
	for _, l := range logs {
		fmt.Fprintf(&b, "%s  %s  %s", mutedStyle.Render(l.ActionDate), cardValue.Render(l.ActionType), l.MemberName)
		if l.Remarks != "" {
			b.WriteString(mutedStyle.Render(" · " + l.Remarks))
		}
		b.WriteString("\n")
	}
	return strings.TrimSuffix(b.String(), "\n")
}

// StatusLine renders a region's status message colored by its state.
func StatusLine(e status.Entry) string {
	style := mutedStyle
	switch e.State {
	case status.Failed.String():
		style = lipgloss.NewStyle().Foreground(colorError)
	case status.Ready.String():
		style = lipgloss.NewStyle().Foreground(colorOK)
	}
	return style.Render(e.Message)
}
