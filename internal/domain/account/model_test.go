package account_test

import (
	"strings"
	"testing"
	"time"

	"memberdesk/internal/domain/account"
)

// TestAccount_Validate tests validation of Account.
func TestAccount_Validate(t *testing.T) {
	tests := []struct {
		name    string
		account account.Account
		wantErr error
	}{
		{"valid admin", account.Account{Email: "desk@gym.ph", Role: account.RoleAdmin}, nil},
		{"valid staff", account.Account{Email: "front@gym.ph", Role: account.RoleStaff}, nil},
		{"empty email", account.Account{Email: "  ", Role: account.RoleAdmin}, account.ErrEmptyEmail},
		{"no at sign", account.Account{Email: "desk.gym.ph", Role: account.RoleAdmin}, account.ErrInvalidEmail},
		{"member role rejected", account.Account{Email: "m@gym.ph", Role: "member"}, account.ErrInvalidRole},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if err := tt.account.Validate(); err != tt.wantErr {
				t.Errorf("Validate() = %v, want %v", err, tt.wantErr)
			}
		})
	}

	long := account.Account{Email: strings.Repeat("a", 250) + "@x.ph", Role: account.RoleAdmin}
	if long.Validate() == nil {
		t.Error("expected error for email over 254 characters")
	}
}

// TestAccount_Password tests hashing, checking and length rules.
func TestAccount_Password(t *testing.T) {
	var a account.Account
	if err := a.CheckPassword("anything"); err != account.ErrWrongPassword {
		t.Errorf("expected ErrWrongPassword without hash, got %v", err)
	}
	if err := a.SetPassword(""); err != account.ErrEmptyPassword {
		t.Errorf("expected ErrEmptyPassword, got %v", err)
	}
	if err := a.SetPassword("short"); err != account.ErrPasswordTooShort {
		t.Errorf("expected ErrPasswordTooShort, got %v", err)
	}
	if err := a.SetPassword("correct horse battery"); err != nil {
		t.Fatalf("SetPassword: %v", err)
	}
	if err := a.CheckPassword("correct horse battery"); err != nil {
		t.Errorf("expected match, got %v", err)
	}
	if err := a.CheckPassword("wrong horse battery"); err != account.ErrWrongPassword {
		t.Errorf("expected ErrWrongPassword, got %v", err)
	}
}

// TestAccount_Lockout tests lockout after repeated failures.
func TestAccount_Lockout(t *testing.T) {
	now := time.Date(2026, 1, 1, 8, 0, 0, 0, time.UTC)
	var a account.Account
	for i := 0; i < account.MaxFailedLogins-1; i++ {
		a.RecordFailedLogin(now)
	}
	if a.IsLocked(now) {
		t.Fatal("locked before reaching the limit")
	}
	a.RecordFailedLogin(now)
	if !a.IsLocked(now) {
		t.Fatal("expected lock after limit")
	}
	if a.IsLocked(now.Add(account.LockoutDuration + time.Second)) {
		t.Error("lock should expire")
	}
	a.ResetFailedLogins()
	if a.FailedLogins != 0 || a.IsLocked(now) {
		t.Error("expected reset")
	}
}
