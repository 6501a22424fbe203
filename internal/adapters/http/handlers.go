package web

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"html/template"
	"log/slog"
	"net/http"
	"strings"

	"github.com/gorilla/csrf"

	"memberdesk/internal/adapters/http/middleware"
	"memberdesk/internal/application/format"
	"memberdesk/internal/application/orchestrators"
	"memberdesk/internal/application/tableview"
)

// internalError logs the real error and returns a generic message to the client.
func internalError(w http.ResponseWriter, err error) {
	slog.Error("internal_error", "error", err.Error())
	http.Error(w, "internal server error", http.StatusInternalServerError)
}

// writeJSON writes v with the given status.
func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Error("internal_error", "event", "json_encode_failed", "error", err)
	}
}

// actionResult is the body of the admin action endpoints.
type actionResult struct {
	Success bool   `json:"success"`
	Message string `json:"message,omitempty"`
	Error   string `json:"error,omitempty"`
	Member  any    `json:"member,omitempty"`
}

// jsonFailure writes {"success": false, "error": msg}.
func jsonFailure(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, actionResult{Error: msg})
}

// jsonInternal logs err and writes a generic JSON failure.
func jsonInternal(w http.ResponseWriter, err error) {
	slog.Error("internal_error", "error", err.Error())
	jsonFailure(w, http.StatusInternalServerError, "internal server error")
}

// strictDecode decodes JSON from the request body, rejecting unknown fields.
func strictDecode(r *http.Request, v any) error {
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	return dec.Decode(v)
}

func isJSONRequest(r *http.Request) bool {
	return strings.HasPrefix(r.Header.Get("Content-Type"), "application/json")
}

// wantsJSON reports whether the caller is a script expecting a JSON reply.
func wantsJSON(r *http.Request) bool {
	return isJSONRequest(r) ||
		r.Header.Get("X-Requested-With") == "XMLHttpRequest" ||
		strings.Contains(r.Header.Get("Accept"), "application/json")
}

// firstMessage returns the first validation message of err, or "" when err is not a validation failure.
func firstMessage(err error) string {
	if msgs := orchestrators.ValidationMessages(err); len(msgs) > 0 {
		return msgs[0]
	}
	return ""
}

var templateFuncs = template.FuncMap{
	"peso":   format.Peso,
	"count":  format.Count,
	"isEnum": func(f tableview.FieldView) bool { return f.Kind == tableview.Enum.String() },
}

// renderTemplate renders page inside the layout with status 200.
func renderTemplate(w http.ResponseWriter, r *http.Request, page string, data map[string]any) {
	renderPage(w, r, http.StatusOK, page, data)
}

// renderPage renders page inside the layout. Flashes queued by earlier
// requests are consumed here.
func renderPage(w http.ResponseWriter, r *http.Request, status int, page string, data map[string]any) {
	sess, loggedIn := middleware.GetSessionFromContext(r.Context())
	if data == nil {
		data = map[string]any{}
	}
	data["Flashes"] = middleware.TakeFlashes(w, r)
	data["Session"] = sess
	data["LoggedIn"] = loggedIn
	data["CSRFField"] = csrf.TemplateField(r)
	data["CSRFToken"] = csrf.Token(r)

	tpl, err := template.New("layout.html").Funcs(templateFuncs).ParseFS(templateFS, "templates/layout.html", "templates/"+page)
	if err != nil {
		internalError(w, err)
		return
	}
	var buf bytes.Buffer
	if err := tpl.Execute(&buf, data); err != nil {
		internalError(w, fmt.Errorf("render %s: %w", page, err))
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	buf.WriteTo(w)
}

// runExpiry brings member statuses up to date and drops the cached summary when anything changed.
func runExpiry(ctx context.Context) {
	n, err := orchestrators.ExecuteExpireMembers(ctx, orchestrators.ExpireMembersDeps{
		MemberStore: stores.MemberStore,
		LogStore:    stores.LogStore,
		Tx:          stores.Writes,
		Clock:       clock(),
	})
	if err != nil {
		slog.Error("expiry_event", "event", "expiry_failed", "error", err)
		return
	}
	if n > 0 {
		summaryCache.Invalidate()
	}
}

// handleIndex sends visitors to the page that fits their session.
func handleIndex(w http.ResponseWriter, r *http.Request) {
	sess, ok := middleware.GetSessionFromContext(r.Context())
	switch {
	case ok && sess.IsDesk():
		http.Redirect(w, r, "/admin/dashboard", http.StatusSeeOther)
	case ok && sess.IsMember():
		http.Redirect(w, r, "/user/membership", http.StatusSeeOther)
	default:
		http.Redirect(w, r, middleware.MemberLoginPath, http.StatusSeeOther)
	}
}

// handleLoginPage handles GET /login
func handleLoginPage(w http.ResponseWriter, r *http.Request) {
	if sess, ok := middleware.GetSessionFromContext(r.Context()); ok && sess.IsDesk() {
		http.Redirect(w, r, "/admin/dashboard", http.StatusSeeOther)
		return
	}
	renderTemplate(w, r, "login.html", nil)
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// handleLogin handles POST /login for desk staff. Forms redirect; JSON callers get a JSON reply.
func handleLogin(w http.ResponseWriter, r *http.Request) {
	var input orchestrators.LoginInput
	if isJSONRequest(r) {
		var body loginRequest
		if err := strictDecode(r, &body); err != nil {
			jsonFailure(w, http.StatusBadRequest, "Invalid request")
			return
		}
		input = orchestrators.LoginInput{Email: body.Email, Password: body.Password}
	} else {
		if err := r.ParseForm(); err != nil {
			http.Error(w, "Invalid form submission", http.StatusBadRequest)
			return
		}
		input = orchestrators.LoginInput{Email: r.FormValue("email"), Password: r.FormValue("password")}
	}

	result, err := orchestrators.ExecuteLogin(r.Context(), input, orchestrators.LoginDeps{
		AccountStore: stores.AccountStore,
		Clock:        clock(),
	})
	if err != nil {
		if !errors.Is(err, orchestrators.ErrInvalidCredentials) && !errors.Is(err, orchestrators.ErrAccountLocked) {
			internalError(w, err)
			return
		}
		if isJSONRequest(r) {
			jsonFailure(w, http.StatusUnauthorized, err.Error())
			return
		}
		renderPage(w, r, http.StatusUnauthorized, "login.html", map[string]any{"Error": err.Error(), "Email": input.Email})
		return
	}

	token, err := sessions.Create(result.AccountID, result.Email, result.Email, result.Role)
	if err != nil {
		internalError(w, err)
		return
	}
	middleware.SetSessionCookie(w, token)
	if isJSONRequest(r) {
		writeJSON(w, http.StatusOK, actionResult{Success: true})
		return
	}
	http.Redirect(w, r, "/admin/dashboard", http.StatusSeeOther)
}

// handleLogout handles POST /logout
func handleLogout(w http.ResponseWriter, r *http.Request) {
	if cookie, err := r.Cookie(middleware.SessionCookieName); err == nil {
		sessions.Delete(cookie.Value)
	}
	middleware.ClearSessionCookie(w)
	http.Redirect(w, r, middleware.DeskLoginPath, http.StatusSeeOther)
}
