package orchestrators

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"memberdesk/internal/domain/member"
	"memberdesk/internal/domain/membershiplog"
)

// Member login errors.
var (
	ErrCredentialsRequired = errors.New("email and password are required")
	ErrCodeRequired        = errors.New("member ID is required")
	ErrInvalidCode         = errors.New("invalid member ID")
	ErrUseRegularLogin     = errors.New("self-registered members log in with email and password")
	ErrEmailMismatch       = errors.New("email does not match the member ID")
)

// MemberLoginInput carries the member login form.
type MemberLoginInput struct {
	Email    string
	Password string
}

// CodeLoginInput carries the login form for members created at the desk.
type CodeLoginInput struct {
	UniqueCode string
	Email      string // optional; checked against the stored email when both are set
}

// MemberLoginDeps holds dependencies for the member login orchestrators.
type MemberLoginDeps struct {
	MemberStore MemberStore
	LogStore    LogStore
	Clock       Clock
	Tx          UnitOfWork
}

// ExecuteMemberLogin checks a self-registered member's credentials.
// PRE: none
// POST: on success the member's status reflects today; expired members may still log in
func ExecuteMemberLogin(ctx context.Context, input MemberLoginInput, deps MemberLoginDeps) (member.Member, error) {
	email := strings.ToLower(strings.TrimSpace(input.Email))
	if email == "" || input.Password == "" {
		return member.Member{}, ErrCredentialsRequired
	}

	m, err := deps.MemberStore.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, member.ErrNotFound) {
			slog.Info("auth_event", "event", "member_login_failed", "reason", "not_found")
			return member.Member{}, member.ErrWrongPassword
		}
		return member.Member{}, err
	}
	if err := m.CheckPassword(input.Password); err != nil {
		slog.Info("auth_event", "event", "member_login_failed", "member_id", m.ID, "reason", err.Error())
		return member.Member{}, err
	}
	if err := refreshStatus(ctx, &m, deps); err != nil {
		return member.Member{}, err
	}

	slog.Info("auth_event", "event", "member_login_success", "member_id", m.ID, "status", m.Status)
	return m, nil
}

// ExecuteCodeLogin logs in a member created at the desk by their unique code.
// PRE: none
// POST: on success the member's status reflects today
// INVARIANT: self-registered members cannot use this path
func ExecuteCodeLogin(ctx context.Context, input CodeLoginInput, deps MemberLoginDeps) (member.Member, error) {
	code := strings.ToUpper(strings.TrimSpace(input.UniqueCode))
	email := strings.ToLower(strings.TrimSpace(input.Email))
	if code == "" {
		return member.Member{}, ErrCodeRequired
	}

	m, err := deps.MemberStore.GetByUniqueCode(ctx, code)
	if err != nil {
		if errors.Is(err, member.ErrNotFound) {
			return member.Member{}, ErrInvalidCode
		}
		return member.Member{}, err
	}
	if m.SelfRegistered {
		return member.Member{}, ErrUseRegularLogin
	}
	if email != "" && m.Email != "" && !strings.EqualFold(m.Email, email) {
		return member.Member{}, ErrEmailMismatch
	}
	if err := refreshStatus(ctx, &m, deps); err != nil {
		return member.Member{}, err
	}

	slog.Info("auth_event", "event", "member_code_login_success", "member_id", m.ID, "status", m.Status)
	return m, nil
}

// refreshStatus expires m if its end date has passed and records the change.
func refreshStatus(ctx context.Context, m *member.Member, deps MemberLoginDeps) error {
	if !m.CheckAndUpdateStatus(deps.Clock.Today()) {
		return nil
	}
	remarks := fmt.Sprintf("Automatically marked as expired (End date: %s).", m.EndDate)
	direct := WriteStores{Members: deps.MemberStore, Logs: deps.LogStore}
	return inTx(ctx, deps.Tx, direct, func(w WriteStores) error {
		if err := w.Members.Save(ctx, *m); err != nil {
			return fmt.Errorf("save member: %w", err)
		}
		return recordLog(ctx, w.Logs, *m, membershiplog.ActionStatusUpdate, remarks, deps.Clock.now())
	})
}
