package commands

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"memberdesk/internal/application/projections"
)

// fakeServer serves canned desk replies; logs and statistics bodies are configurable.
type fakeServer struct {
	members   []projections.MemberRow
	logs      string
	statsCode int
	decided   []string
}

func (f *fakeServer) start(t *testing.T) string {
	t.Helper()
	mux := http.NewServeMux()
	mux.HandleFunc("POST /login", func(w http.ResponseWriter, r *http.Request) {
		http.SetCookie(w, &http.Cookie{Name: "memberdesk_session", Value: "tok", Path: "/"})
		w.Write([]byte(`{"success":true}`))
	})
	mux.HandleFunc("GET /admin/members-json", func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]any{"members": f.members})
	})
	mux.HandleFunc("GET /admin/renewals-json", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"renewals":[
			{"id":"r1","unique_code":"GYM-AAAAAA","first_name":"Ana","member_type":"Student","current_plan":"Daily","requested_plan":"Monthly","status":"Pending"},
			{"id":"r2","unique_code":"GYM-BBBBBB","first_name":"Ben","member_type":"Faculty","current_plan":"Monthly","requested_plan":"Daily","status":"Denied"}]}`))
	})
	mux.HandleFunc("POST /admin/renewal/{id}", func(w http.ResponseWriter, r *http.Request) {
		var body map[string]string
		json.NewDecoder(r.Body).Decode(&body)
		f.decided = append(f.decided, r.PathValue("id")+"="+body["status"])
		w.Write([]byte(`{"success":true,"message":"Renewal request approved successfully."}`))
	})
	mux.HandleFunc("GET /admin/membership-logs", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(f.logs))
	})
	mux.HandleFunc("GET /admin/dashboard-summary", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"summary":{"total":18,"active":15,"most_active":"Student"}}`))
	})
	mux.HandleFunc("GET /admin/members-statistics", func(w http.ResponseWriter, r *http.Request) {
		if f.statsCode != 0 {
			w.WriteHeader(f.statsCode)
			w.Write([]byte(`{"success":false,"error":"internal server error"}`))
			return
		}
		w.Write([]byte(`{"members":[{"id":"m1"}],"stats":{"total_revenue":9000},"weekly_revenue":{"labels":["Mon","Tue"],"values":[500,0]}}`))
	})
	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)
	return srv.URL
}

func runApp(t *testing.T, url string, args ...string) (string, error) {
	t.Helper()
	var buf bytes.Buffer
	app := NewApp(&Flags{}, "test")
	app.Writer = &buf
	full := append([]string{"memberctl", "--url", url, "--email", "admin@gym.test", "--password", "pw", "--tz", "UTC"}, args...)
	err := app.Run(context.Background(), full)
	return buf.String(), err
}

func seededMembers() []projections.MemberRow {
	var rows []projections.MemberRow
	for i := range 15 {
		rows = append(rows, projections.MemberRow{UniqueCode: fmt.Sprintf("GYM-S%05d", i), MemberType: "Student", GymPlan: "Monthly", Status: "Active"})
	}
	for i := range 3 {
		rows = append(rows, projections.MemberRow{UniqueCode: fmt.Sprintf("GYM-F%05d", i), MemberType: "Faculty", GymPlan: "Daily", Status: "Expired"})
	}
	return rows
}

func TestMembersCmd_FilterAndPage(t *testing.T) {
	url := (&fakeServer{members: seededMembers()}).start(t)

	tests := []struct {
		name    string
		args    []string
		want    []string
		notWant []string
	}{
		{"first page", []string{"members"}, []string{"GYM-S00000", "1-10 of 18"}, []string{"GYM-F00000"}},
		{"type filter second page", []string{"members", "--type", "Student", "--page", "2"}, []string{"GYM-S00014", "11-15 of 15"}, []string{"GYM-S00009", "GYM-F"}},
		{"page past the end clamps", []string{"members", "--type", "Faculty", "-p", "9"}, []string{"GYM-F00002", "1-3 of 3"}, nil},
		{"id substring", []string{"members", "--id", "gym-f0000"}, []string{"GYM-F00001", "1-3 of 3"}, []string{"GYM-S"}},
		{"no match", []string{"members", "--status", "Pending"}, []string{"No members found.", "0-0 of 0"}, nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out, err := runApp(t, url, tt.args...)
			if err != nil {
				t.Fatalf("run: %v", err)
			}
			for _, w := range tt.want {
				if !strings.Contains(out, w) {
					t.Errorf("output missing %q:\n%s", w, out)
				}
			}
			for _, w := range tt.notWant {
				if strings.Contains(out, w) {
					t.Errorf("output should not contain %q:\n%s", w, out)
				}
			}
		})
	}
}

func TestMembersCmd_JSON(t *testing.T) {
	url := (&fakeServer{members: seededMembers()}).start(t)
	out, err := runApp(t, url, "members", "--plan", "Daily", "--json")
	if err != nil {
		t.Fatal(err)
	}
	var view struct {
		Rows     []projections.MemberRow `json:"rows"`
		PageInfo struct {
			Total int `json:"total"`
		} `json:"page_info"`
	}
	if err := json.Unmarshal([]byte(out), &view); err != nil {
		t.Fatalf("decode: %v\n%s", err, out)
	}
	if len(view.Rows) != 3 || view.PageInfo.Total != 3 {
		t.Errorf("unexpected view %+v", view)
	}
}

func TestRenewalsCmd(t *testing.T) {
	f := &fakeServer{}
	url := f.start(t)

	out, err := runApp(t, url, "renewals", "--status", "Pending")
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(out, "GYM-AAAAAA") || strings.Contains(out, "GYM-BBBBBB") || !strings.Contains(out, "1 pending") {
		t.Errorf("unexpected output:\n%s", out)
	}

	out, err = runApp(t, url, "renewals", "--plan", "Monthly")
	if err != nil {
		t.Fatal(err)
	}
	if strings.Contains(out, "GYM-AAAAAA") || !strings.Contains(out, "GYM-BBBBBB") {
		t.Errorf("--plan should match the current plan:\n%s", out)
	}

	out, err = runApp(t, url, "renewals", "decide", "--status", "Approved", "r1")
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(out, "approved successfully") || len(f.decided) != 1 || f.decided[0] != "r1=Approved" {
		t.Errorf("decide: out=%q decided=%v", out, f.decided)
	}

	if _, err := runApp(t, url, "renewals", "decide", "--status", "Maybe", "r1"); err == nil {
		t.Error("expected an error for an invalid decision")
	}
}

func TestLogsCmd(t *testing.T) {
	tests := []struct {
		name string
		body string
		want string
	}{
		{"empty", `[]`, "No logs for the past 7 days."},
		{"entries", `[{"action_date":"2026-03-10 09:00:00","action_type":"Registered","member_name":"Ana Reyes"}]`, "Ana Reyes"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			url := (&fakeServer{logs: tt.body}).start(t)
			out, err := runApp(t, url, "logs")
			if err != nil {
				t.Fatal(err)
			}
			if !strings.Contains(out, tt.want) {
				t.Errorf("output missing %q:\n%s", tt.want, out)
			}
		})
	}
}

func TestStatsCmd_PartialFailure(t *testing.T) {
	url := (&fakeServer{statsCode: http.StatusInternalServerError}).start(t)
	out, err := runApp(t, url, "stats")
	if err == nil {
		t.Error("expected the statistics error to be returned")
	}
	if !strings.Contains(out, "Total Members") || !strings.Contains(out, "Failed to load statistics.") {
		t.Errorf("unexpected output:\n%s", out)
	}
}

func TestStatsCmd(t *testing.T) {
	url := (&fakeServer{}).start(t)
	out, err := runApp(t, url, "stats")
	if err != nil {
		t.Fatal(err)
	}
	for _, w := range []string{"₱9,000.00", "Mon", "Last updated:"} {
		if !strings.Contains(out, w) {
			t.Errorf("output missing %q:\n%s", w, out)
		}
	}
}

func TestClient_RequiresCredentials(t *testing.T) {
	f := &Flags{ServerURL: "http://localhost:1"}
	if _, err := f.Client(context.Background()); err == nil || !strings.Contains(err.Error(), "password") {
		t.Errorf("expected a credentials error, got %v", err)
	}
}
