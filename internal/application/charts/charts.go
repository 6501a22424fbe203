// Package charts keeps the dashboard's chart instances and builds their
// Chart.js configurations from the statistics projections.
package charts

import (
	"sort"
	"sync"

	"memberdesk/internal/application/projections"
)

// Canvas IDs of the dashboard charts.
const (
	CanvasOverview      = "overviewChart"
	CanvasMemberTypes   = "statusChart"
	CanvasStatus        = "statusOverviewChart"
	CanvasPaymentStatus = "paymentStatusChart"
	CanvasWeeklyRevenue = "weeklyRevenueChart"
)

// Palette used across charts, one colour per member type or status.
var palette = []string{"#4e73df", "#1cc88a", "#f6c23e", "#e74a3b"}

// Dataset is one Chart.js dataset.
type Dataset struct {
	Label           string    `json:"label"`
	Data            []float64 `json:"data"`
	BackgroundColor any       `json:"backgroundColor,omitempty"`
	BorderColor     string    `json:"borderColor,omitempty"`
	Fill            bool      `json:"fill"`
}

// Data is the labels and datasets of a chart.
type Data struct {
	Labels   []string  `json:"labels"`
	Datasets []Dataset `json:"datasets"`
}

// Config is a Chart.js configuration.
type Config struct {
	Type    string         `json:"type"`
	Data    Data           `json:"data"`
	Options map[string]any `json:"options,omitempty"`
}

// Instance is a rendered chart that holds resources until destroyed.
type Instance interface {
	Config() Config
	Destroy()
}

// Factory creates the instance drawn on canvasID.
type Factory func(canvasID string, cfg Config) Instance

// Chart is the default instance. It only remembers its configuration.
type Chart struct {
	cfg       Config
	destroyed bool
}

// NewChart is the default Factory.
func NewChart(_ string, cfg Config) Instance {
	return &Chart{cfg: cfg}
}

// Config returns the chart's configuration.
func (c *Chart) Config() Config { return c.cfg }

// Destroy releases the chart.
func (c *Chart) Destroy() { c.destroyed = true }

// Destroyed reports whether Destroy has been called.
func (c *Chart) Destroyed() bool { return c.destroyed }

// Manager owns at most one instance per canvas.
// It is safe for concurrent use.
type Manager struct {
	mu        sync.Mutex
	factory   Factory
	instances map[string]Instance
}

// NewManager creates a Manager. A nil factory uses NewChart.
func NewManager(factory Factory) *Manager {
	if factory == nil {
		factory = NewChart
	}
	return &Manager{factory: factory, instances: make(map[string]Instance)}
}

// Render draws cfg on canvasID.
// POST: the previous instance on canvasID, if any, is destroyed before the new one is registered
// INVARIANT: at most one live instance per canvas ID
func (m *Manager) Render(canvasID string, cfg Config) Instance {
	m.mu.Lock()
	defer m.mu.Unlock()

	if old, ok := m.instances[canvasID]; ok {
		old.Destroy()
		delete(m.instances, canvasID)
	}
	inst := m.factory(canvasID, cfg)
	m.instances[canvasID] = inst
	return inst
}

// Destroy removes the instance on canvasID. It reports false when none exists.
func (m *Manager) Destroy(canvasID string) bool {
	m.mu.Lock()
	defer m.mu.Unlock()

	inst, ok := m.instances[canvasID]
	if !ok {
		return false
	}
	inst.Destroy()
	delete(m.instances, canvasID)
	return true
}

// Len returns the number of live instances.
func (m *Manager) Len() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.instances)
}

// Configs returns the configuration of every live instance keyed by canvas ID.
func (m *Manager) Configs() map[string]Config {
	m.mu.Lock()
	defer m.mu.Unlock()

	out := make(map[string]Config, len(m.instances))
	for id, inst := range m.instances {
		out[id] = inst.Config()
	}
	return out
}

// Canvases returns the canvas IDs with a live instance, sorted.
func (m *Manager) Canvases() []string {
	m.mu.Lock()
	defer m.mu.Unlock()

	ids := make([]string, 0, len(m.instances))
	for id := range m.instances {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

// RenderDashboard redraws every chart of the admin dashboard from s.
func (m *Manager) RenderDashboard(s projections.DashboardSummary) {
	m.Render(CanvasOverview, typeSeriesConfig("bar", s.OverviewChart))
	m.Render(CanvasMemberTypes, doughnut(s.StatusChart))
	m.Render(CanvasStatus, doughnut(s.StatusOverview))
}

// RenderStatistics redraws the statistics charts from s.
func (m *Manager) RenderStatistics(s projections.StatisticsSummary) {
	m.Render(CanvasOverview, typeSeriesConfig("line", s.OverviewChart))
	m.Render(CanvasMemberTypes, doughnut(s.StatusChart))
	m.Render(CanvasStatus, doughnut(s.StatusOverview))
	m.Render(CanvasPaymentStatus, doughnut(s.PaymentStatusChart))
	m.Render(CanvasWeeklyRevenue, revenueConfig(s.WeeklyRevenue))
}

func typeSeriesConfig(kind string, s projections.TypeSeries) Config {
	series := []struct {
		label  string
		values []int
	}{
		{"Students", s.Students},
		{"Faculty", s.Faculty},
		{"Outsiders", s.Outsiders},
	}
	data := Data{Labels: s.Labels}
	for i, sr := range series {
		data.Datasets = append(data.Datasets, Dataset{
			Label:           sr.label,
			Data:            floats(sr.values),
			BackgroundColor: palette[i],
			BorderColor:     palette[i],
		})
	}
	return Config{
		Type:    kind,
		Data:    data,
		Options: map[string]any{"responsive": true, "scales": map[string]any{"y": map[string]any{"beginAtZero": true}}},
	}
}

func doughnut(c projections.LabeledCounts) Config {
	colors := make([]string, len(c.Labels))
	for i := range colors {
		colors[i] = palette[i%len(palette)]
	}
	return Config{
		Type: "doughnut",
		Data: Data{
			Labels:   c.Labels,
			Datasets: []Dataset{{Data: floats(c.Values), BackgroundColor: colors}},
		},
		Options: map[string]any{"responsive": true},
	}
}

func revenueConfig(r projections.RevenueSeries) Config {
	return Config{
		Type: "line",
		Data: Data{
			Labels: r.Labels,
			Datasets: []Dataset{{
				Label:           "Revenue (₱)",
				Data:            r.Values,
				BackgroundColor: "rgba(78, 115, 223, 0.1)",
				BorderColor:     palette[0],
				Fill:            true,
			}},
		},
		Options: map[string]any{"responsive": true},
	}
}

func floats(v []int) []float64 {
	out := make([]float64, len(v))
	for i, n := range v {
		out[i] = float64(n)
	}
	return out
}
