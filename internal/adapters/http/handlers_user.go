package web

import (
	"errors"
	"fmt"
	"net/http"

	"memberdesk/internal/adapters/http/middleware"
	"memberdesk/internal/application/orchestrators"
	"memberdesk/internal/application/projections"
	domainAttendance "memberdesk/internal/domain/attendance"
	domainMember "memberdesk/internal/domain/member"
	domainRenewal "memberdesk/internal/domain/renewal"
)

// MembershipPath is the member's home page.
const MembershipPath = "/user/membership"

// Messages shown on the member pages.
const (
	msgWelcomeBack      = "Welcome back, %s!"
	msgExpired          = "Your membership has expired. Please renew to continue."
	msgNotActivated     = "This account has not been activated yet. Please activate your account first."
	msgBadCredentials   = "Invalid email or password."
	msgCredentials      = "Email and password are required."
	msgLoggedOut        = "You have been logged out successfully."
	msgRegistered       = "Registration successful! Your Member ID is %s. Please login."
	msgUseRegularLogin  = "Please login using your regular user login."
	msgCodeRequired     = "Member ID is required."
	msgInvalidCode      = "Invalid Member ID."
	msgEmailMismatch    = "Email does not match the Member ID."
	msgMemberNotFound   = "Member record not found."
	msgRenewalLogin     = "You must be logged in to request a renewal."
	msgRenewalPending   = "You already have a pending renewal request."
	msgInvalidPlan      = "Invalid plan selected."
	msgRenewalSubmitted = "Renewal request submitted for %s plan."
)

func memberLoginDeps() orchestrators.MemberLoginDeps {
	return orchestrators.MemberLoginDeps{
		MemberStore: stores.MemberStore,
		LogStore:    stores.LogStore,
		Tx:          stores.Writes,
		Clock:       clock(),
	}
}

func attendanceDeps() orchestrators.AttendanceDeps {
	return orchestrators.AttendanceDeps{AttendanceStore: stores.AttendanceStore, Clock: clock()}
}

// redirectLoggedInMember sends a member who already has a session to their page.
func redirectLoggedInMember(w http.ResponseWriter, r *http.Request) bool {
	if sess, ok := middleware.GetSessionFromContext(r.Context()); ok && sess.IsMember() {
		http.Redirect(w, r, MembershipPath, http.StatusSeeOther)
		return true
	}
	return false
}

// startMemberSession logs m in and greets them on the membership page.
func startMemberSession(w http.ResponseWriter, r *http.Request, m domainMember.Member) {
	token, err := sessions.Create(m.ID, m.Email, m.FullName(), middleware.RoleMember)
	if err != nil {
		internalError(w, err)
		return
	}
	middleware.SetSessionCookie(w, token)
	var flashes []middleware.Flash
	if m.IsExpired() {
		flashes = append(flashes, middleware.Flash{Kind: middleware.FlashWarning, Message: msgExpired})
	}
	flashes = append(flashes, middleware.Flash{Kind: middleware.FlashSuccess, Message: fmt.Sprintf(msgWelcomeBack, m.FirstName)})
	middleware.AddFlashes(w, r, flashes...)
	http.Redirect(w, r, MembershipPath, http.StatusSeeOther)
}

func registerFormData(r *http.Request, errs []string) map[string]any {
	return map[string]any{
		"Errors":  errs,
		"Form":    r.PostForm,
		"Types":   domainMember.Types,
		"Plans":   domainMember.Plans,
		"Genders": domainMember.Genders,
	}
}

// handleRegisterPage handles GET /user/register
func handleRegisterPage(w http.ResponseWriter, r *http.Request) {
	if redirectLoggedInMember(w, r) {
		return
	}
	renderTemplate(w, r, "user_register.html", registerFormData(r, nil))
}

// handleRegister handles POST /user/register
func handleRegister(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, "Invalid form submission", http.StatusBadRequest)
		return
	}
	m, err := orchestrators.ExecuteRegisterMember(r.Context(), orchestrators.RegisterMemberInput{
		FirstName:       r.PostFormValue("first_name"),
		LastName:        r.PostFormValue("last_name"),
		Email:           r.PostFormValue("email"),
		Password:        r.PostFormValue("password"),
		ConfirmPassword: r.PostFormValue("confirm_password"),
		Age:             r.PostFormValue("age"),
		Gender:          r.PostFormValue("gender"),
		MemberType:      r.PostFormValue("member_type"),
		StudentNumber:   r.PostFormValue("student_number"),
		GymPlan:         r.PostFormValue("gym_plan"),
		ContactNumber:   r.PostFormValue("contact_number"),
		Address:         r.PostFormValue("address"),
	}, orchestrators.RegisterMemberDeps{
		MemberStore: stores.MemberStore,
		LogStore:    stores.LogStore,
		Tx:          stores.Writes,
		Prices:      stores.PricingStore,
		Clock:       clock(),
		Welcome:     welcomeEmail,
	})
	if msgs := orchestrators.ValidationMessages(err); len(msgs) > 0 {
		renderPage(w, r, http.StatusUnprocessableEntity, "user_register.html", registerFormData(r, msgs))
		return
	}
	if err != nil {
		internalError(w, err)
		return
	}
	summaryCache.Invalidate()
	middleware.AddFlash(w, r, middleware.FlashSuccess, fmt.Sprintf(msgRegistered, m.UniqueCode))
	http.Redirect(w, r, middleware.MemberLoginPath, http.StatusSeeOther)
}

// handleUserLoginPage handles GET /user/login
func handleUserLoginPage(w http.ResponseWriter, r *http.Request) {
	if redirectLoggedInMember(w, r) {
		return
	}
	renderTemplate(w, r, "user_login.html", nil)
}

// handleUserLogin handles POST /user/login
func handleUserLogin(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, "Invalid form submission", http.StatusBadRequest)
		return
	}
	email := r.PostFormValue("email")
	m, err := orchestrators.ExecuteMemberLogin(r.Context(), orchestrators.MemberLoginInput{
		Email:    email,
		Password: r.PostFormValue("password"),
	}, memberLoginDeps())

	fail := func(msg string) {
		renderPage(w, r, http.StatusUnauthorized, "user_login.html", map[string]any{"Error": msg, "Email": email})
	}
	switch {
	case errors.Is(err, orchestrators.ErrCredentialsRequired):
		fail(msgCredentials)
	case errors.Is(err, domainMember.ErrNoPassword):
		middleware.AddFlash(w, r, middleware.FlashWarning, msgNotActivated)
		http.Redirect(w, r, "/user/activate", http.StatusSeeOther)
	case errors.Is(err, domainMember.ErrWrongPassword):
		fail(msgBadCredentials)
	case err != nil:
		internalError(w, err)
	default:
		startMemberSession(w, r, m)
	}
}

// handleActivatePage handles GET /user/activate and GET /user/admin-login
func handleActivatePage(w http.ResponseWriter, r *http.Request) {
	if redirectLoggedInMember(w, r) {
		return
	}
	renderTemplate(w, r, "user_activate.html", nil)
}

// handleCodeLogin handles POST /user/admin-login for members created at the desk.
func handleCodeLogin(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, "Invalid form submission", http.StatusBadRequest)
		return
	}
	input := orchestrators.CodeLoginInput{
		UniqueCode: r.PostFormValue("unique_code"),
		Email:      r.PostFormValue("email"),
	}
	m, err := orchestrators.ExecuteCodeLogin(r.Context(), input, memberLoginDeps())

	fail := func(status int, msg string) {
		renderPage(w, r, status, "user_activate.html", map[string]any{"Error": msg, "UniqueCode": input.UniqueCode, "Email": input.Email})
	}
	switch {
	case errors.Is(err, orchestrators.ErrCodeRequired):
		fail(http.StatusBadRequest, msgCodeRequired)
	case errors.Is(err, orchestrators.ErrInvalidCode):
		fail(http.StatusUnauthorized, msgInvalidCode)
	case errors.Is(err, orchestrators.ErrEmailMismatch):
		fail(http.StatusUnauthorized, msgEmailMismatch)
	case errors.Is(err, orchestrators.ErrUseRegularLogin):
		middleware.AddFlash(w, r, middleware.FlashWarning, msgUseRegularLogin)
		http.Redirect(w, r, middleware.MemberLoginPath, http.StatusSeeOther)
	case err != nil:
		internalError(w, err)
	default:
		startMemberSession(w, r, m)
	}
}

// handleUserLogout handles GET /user/logout
func handleUserLogout(w http.ResponseWriter, r *http.Request) {
	if cookie, err := r.Cookie(middleware.SessionCookieName); err == nil {
		sessions.Delete(cookie.Value)
	}
	middleware.ClearSessionCookie(w)
	middleware.AddFlash(w, r, middleware.FlashInfo, msgLoggedOut)
	http.Redirect(w, r, middleware.MemberLoginPath, http.StatusSeeOther)
}

// handleMembershipPage handles GET /user/membership
func handleMembershipPage(w http.ResponseWriter, r *http.Request) {
	sess, _ := middleware.GetSessionFromContext(r.Context())
	page, err := projections.QueryMembershipPage(r.Context(), sess.AccountID, moment(), projections.MembershipPageDeps{
		MemberStore:     stores.MemberStore,
		AttendanceStore: stores.AttendanceStore,
		RenewalStore:    stores.RenewalStore,
		Prices:          stores.PricingStore,
	})
	if errors.Is(err, domainMember.ErrNotFound) {
		// The member was deleted at the desk while logged in.
		sessions.DeleteForAccount(sess.AccountID)
		middleware.ClearSessionCookie(w)
		middleware.AddFlash(w, r, middleware.FlashError, msgMemberNotFound)
		http.Redirect(w, r, middleware.MemberLoginPath, http.StatusSeeOther)
		return
	}
	if err != nil {
		internalError(w, err)
		return
	}
	renderTemplate(w, r, "user_membership.html", map[string]any{"Page": page})
}

// handleRequestRenewal handles POST /user/request-renewal
func handleRequestRenewal(w http.ResponseWriter, r *http.Request) {
	sess, ok := middleware.GetSessionFromContext(r.Context())
	if !ok || !sess.IsMember() {
		middleware.AddFlash(w, r, middleware.FlashWarning, msgRenewalLogin)
		http.Redirect(w, r, middleware.MemberLoginPath, http.StatusSeeOther)
		return
	}
	if err := r.ParseForm(); err != nil {
		http.Error(w, "Invalid form submission", http.StatusBadRequest)
		return
	}
	plan := r.PostFormValue("plan")
	_, err := orchestrators.ExecuteRequestRenewal(r.Context(), orchestrators.RequestRenewalInput{
		MemberID:      sess.AccountID,
		RequestedPlan: plan,
	}, orchestrators.RequestRenewalDeps{
		MemberStore:  stores.MemberStore,
		RenewalStore: stores.RenewalStore,
		Clock:        clock(),
	})
	switch {
	case errors.Is(err, domainMember.ErrNotFound):
		middleware.AddFlash(w, r, middleware.FlashError, msgMemberNotFound)
	case errors.Is(err, domainRenewal.ErrAlreadyPending):
		middleware.AddFlash(w, r, middleware.FlashInfo, msgRenewalPending)
	case errors.Is(err, domainRenewal.ErrInvalidPlan):
		middleware.AddFlash(w, r, middleware.FlashError, msgInvalidPlan)
	case err != nil:
		internalError(w, err)
		return
	default:
		middleware.AddFlash(w, r, middleware.FlashSuccess, fmt.Sprintf(msgRenewalSubmitted, plan))
	}
	http.Redirect(w, r, MembershipPath, http.StatusSeeOther)
}

// attendanceReply is the body of the attendance endpoints.
type attendanceReply struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
	domainAttendance.Status
}

// handleAttendanceStatus handles GET /user/attendance/status
func handleAttendanceStatus(w http.ResponseWriter, r *http.Request) {
	sess, _ := middleware.GetSessionFromContext(r.Context())
	st, err := orchestrators.QueryAttendanceStatus(r.Context(), sess.AccountID, attendanceDeps())
	if err != nil {
		jsonInternal(w, err)
		return
	}
	writeJSON(w, http.StatusOK, st)
}

// handleTimeIn handles POST /user/attendance/time_in
func handleTimeIn(w http.ResponseWriter, r *http.Request) {
	sess, _ := middleware.GetSessionFromContext(r.Context())
	_, err := orchestrators.ExecuteTimeIn(r.Context(), sess.AccountID, attendanceDeps())
	writeAttendance(w, r, sess.AccountID, err)
}

// handleTimeOut handles POST /user/attendance/time_out
func handleTimeOut(w http.ResponseWriter, r *http.Request) {
	sess, _ := middleware.GetSessionFromContext(r.Context())
	_, err := orchestrators.ExecuteTimeOut(r.Context(), sess.AccountID, attendanceDeps())
	writeAttendance(w, r, sess.AccountID, err)
}

// writeAttendance answers a time-in or time-out with the day's resulting status.
func writeAttendance(w http.ResponseWriter, r *http.Request, memberID string, err error) {
	code := http.StatusOK
	switch {
	case errors.Is(err, domainAttendance.ErrAlreadyTimedIn),
		errors.Is(err, domainAttendance.ErrNotTimedIn),
		errors.Is(err, domainAttendance.ErrAlreadyTimedOut):
		code = http.StatusConflict
	case err != nil:
		jsonInternal(w, err)
		return
	}
	st, qerr := orchestrators.QueryAttendanceStatus(r.Context(), memberID, attendanceDeps())
	if qerr != nil {
		jsonInternal(w, qerr)
		return
	}
	reply := attendanceReply{Success: err == nil, Message: st.Buttons().Message, Status: st}
	if err != nil {
		reply.Message = err.Error()
	}
	writeJSON(w, code, reply)
}
