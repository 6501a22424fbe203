package web

import (
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"
	"strings"

	"memberdesk/internal/adapters/http/middleware"
	"memberdesk/internal/application/format"
	"memberdesk/internal/application/orchestrators"
	"memberdesk/internal/application/projections"
	domainMember "memberdesk/internal/domain/member"
	domainRenewal "memberdesk/internal/domain/renewal"
)

func memberRowsDeps() projections.MemberRowsDeps {
	return projections.MemberRowsDeps{MemberStore: stores.MemberStore, RenewalStore: stores.RenewalStore}
}

// handleMembersPage handles GET /admin/members: both tables, server-side filtered and paged.
func handleMembersPage(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	runExpiry(ctx)

	result, err := projections.QueryMembersPage(ctx, r.URL.Query(), memberRowsDeps())
	if err != nil {
		internalError(w, err)
		return
	}
	renderTemplate(w, r, "admin_members.html", map[string]any{
		"Members":         result.Members,
		"Renewals":        result.Renewals,
		"PendingRenewals": result.PendingRenewals,
		"Types":           domainMember.Types,
		"Plans":           domainMember.Plans,
		"Statuses":        domainMember.Statuses,
		"PaymentStatuses": domainMember.PaymentStatuses,
		"Genders":         domainMember.Genders,
		"Today":           clock().Today(),
	})
}

// addMemberRequest is the JSON form of the desk registration.
type addMemberRequest struct {
	FirstName     string `json:"first_name"`
	LastName      string `json:"last_name"`
	Age           int    `json:"age"`
	Gender        string `json:"gender"`
	MemberType    string `json:"member_type"`
	StudentNumber string `json:"student_number"`
	GymPlan       string `json:"gym_plan"`
	Email         string `json:"email"`
	ContactNumber string `json:"contact_number"`
	Address       string `json:"address"`
	StartDate     string `json:"start_date"`
	EndDate       string `json:"end_date"`
}

func (a addMemberRequest) input() orchestrators.AddMemberInput {
	return orchestrators.AddMemberInput{
		FirstName:     a.FirstName,
		LastName:      a.LastName,
		Age:           a.Age,
		Gender:        a.Gender,
		MemberType:    a.MemberType,
		StudentNumber: a.StudentNumber,
		GymPlan:       a.GymPlan,
		Email:         a.Email,
		ContactNumber: a.ContactNumber,
		Address:       a.Address,
		StartDate:     a.StartDate,
		EndDate:       a.EndDate,
	}
}

// formValue returns the first non-empty value among the given form keys.
func formValue(r *http.Request, keys ...string) string {
	for _, k := range keys {
		if v := strings.TrimSpace(r.FormValue(k)); v != "" {
			return v
		}
	}
	return ""
}

func addMemberFromForm(r *http.Request) orchestrators.AddMemberInput {
	age, _ := strconv.Atoi(r.FormValue("age"))
	return orchestrators.AddMemberInput{
		FirstName:     r.FormValue("first_name"),
		LastName:      r.FormValue("last_name"),
		Age:           age,
		Gender:        r.FormValue("gender"),
		MemberType:    r.FormValue("member_type"),
		StudentNumber: r.FormValue("student_number"),
		GymPlan:       r.FormValue("gym_plan"),
		Email:         r.FormValue("email"),
		ContactNumber: r.FormValue("contact_number"),
		Address:       r.FormValue("address"),
		StartDate:     formValue(r, "start_date", "Start_date"),
		EndDate:       formValue(r, "end_date", "End_date"),
	}
}

// addedMember is the member object echoed by the add endpoint.
type addedMember struct {
	ID            string  `json:"id"`
	FirstName     string  `json:"first_name"`
	LastName      string  `json:"last_name"`
	PricePaid     float64 `json:"price_paid"`
	Status        string  `json:"status"`
	PaymentStatus string  `json:"payment_status"`
}

// editedMember is the member object echoed by the edit endpoint.
type editedMember struct {
	ID            string `json:"id"`
	FirstName     string `json:"first_name"`
	LastName      string `json:"last_name"`
	Plan          string `json:"plan"`
	Status        string `json:"status"`
	PaymentStatus string `json:"payment_status"`
}

// handleAddMember handles POST /admin/add-member from the desk form or a script.
func handleAddMember(w http.ResponseWriter, r *http.Request) {
	var input orchestrators.AddMemberInput
	if isJSONRequest(r) {
		var body addMemberRequest
		if err := strictDecode(r, &body); err != nil {
			jsonFailure(w, http.StatusBadRequest, "Invalid request")
			return
		}
		input = body.input()
	} else {
		if err := r.ParseForm(); err != nil {
			http.Error(w, "Invalid form submission", http.StatusBadRequest)
			return
		}
		input = addMemberFromForm(r)
	}

	m, err := orchestrators.ExecuteAddMember(r.Context(), input, orchestrators.AddMemberDeps{
		MemberStore: stores.MemberStore,
		LogStore:    stores.LogStore,
		Tx:          stores.Writes,
		Prices:      stores.PricingStore,
		Clock:       clock(),
	})
	if msg := firstMessage(err); msg != "" {
		if wantsJSON(r) {
			jsonFailure(w, http.StatusBadRequest, msg)
			return
		}
		middleware.AddFlash(w, r, middleware.FlashError, msg)
		http.Redirect(w, r, projections.MembersPath, http.StatusSeeOther)
		return
	}
	if err != nil {
		jsonInternal(w, err)
		return
	}
	summaryCache.Invalidate()

	if wantsJSON(r) {
		writeJSON(w, http.StatusOK, actionResult{
			Success: true,
			Message: "New member registered successfully! Paid " + format.Peso(m.PricePaid),
			Member: addedMember{
				ID:            m.ID,
				FirstName:     m.FirstName,
				LastName:      m.LastName,
				PricePaid:     m.PricePaid,
				Status:        m.Status,
				PaymentStatus: m.PaymentStatus,
			},
		})
		return
	}
	middleware.AddFlash(w, r, middleware.FlashSuccess, fmt.Sprintf("New member %s added successfully!", m.FullName()))
	http.Redirect(w, r, projections.MembersPath, http.StatusSeeOther)
}

// handleViewMember handles GET /admin/member/{id}
func handleViewMember(w http.ResponseWriter, r *http.Request) {
	detail, err := projections.QueryMemberDetail(r.Context(), r.PathValue("id"), memberRowsDeps())
	if errors.Is(err, domainMember.ErrNotFound) {
		jsonFailure(w, http.StatusNotFound, "Member not found")
		return
	}
	if err != nil {
		jsonInternal(w, err)
		return
	}
	writeJSON(w, http.StatusOK, detail)
}

// editMemberRequest is a partial update; absent keys keep their value.
type editMemberRequest struct {
	FirstName     *string `json:"first_name"`
	LastName      *string `json:"last_name"`
	Age           *int    `json:"age"`
	Gender        *string `json:"gender"`
	MemberType    *string `json:"member_type"`
	StudentNumber *string `json:"student_number"`
	GymPlan       *string `json:"gym_plan"`
	Email         *string `json:"email"`
	ContactNumber *string `json:"contact_number"`
	Address       *string `json:"address"`
	StartDate     *string `json:"start_date"`
	EndDate       *string `json:"end_date"`
	Status        *string `json:"status"`
	PaymentStatus *string `json:"payment_status"`
}

// handleEditMember handles POST /admin/member/{id}/edit
func handleEditMember(w http.ResponseWriter, r *http.Request) {
	var body editMemberRequest
	if err := strictDecode(r, &body); err != nil {
		jsonFailure(w, http.StatusBadRequest, "Invalid request")
		return
	}

	m, err := orchestrators.ExecuteEditMember(r.Context(), orchestrators.EditMemberInput{
		MemberID:      r.PathValue("id"),
		FirstName:     body.FirstName,
		LastName:      body.LastName,
		Age:           body.Age,
		Gender:        body.Gender,
		MemberType:    body.MemberType,
		StudentNumber: body.StudentNumber,
		GymPlan:       body.GymPlan,
		Email:         body.Email,
		ContactNumber: body.ContactNumber,
		Address:       body.Address,
		StartDate:     body.StartDate,
		EndDate:       body.EndDate,
		Status:        body.Status,
		PaymentStatus: body.PaymentStatus,
	}, orchestrators.EditMemberDeps{
		MemberStore: stores.MemberStore,
		LogStore:    stores.LogStore,
		Tx:          stores.Writes,
		Clock:       clock(),
	})
	switch {
	case errors.Is(err, domainMember.ErrNotFound):
		jsonFailure(w, http.StatusNotFound, "Member not found")
		return
	case firstMessage(err) != "":
		jsonFailure(w, http.StatusBadRequest, firstMessage(err))
		return
	case err != nil:
		jsonInternal(w, err)
		return
	}
	summaryCache.Invalidate()

	writeJSON(w, http.StatusOK, actionResult{
		Success: true,
		Message: m.FullName() + " updated successfully!",
		Member: editedMember{
			ID:            m.ID,
			FirstName:     m.FirstName,
			LastName:      m.LastName,
			Plan:          m.GymPlan,
			Status:        m.Status,
			PaymentStatus: m.PaymentStatus,
		},
	})
}

// handleDeleteMember handles DELETE /admin/member/{id}/delete
func handleDeleteMember(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	err := orchestrators.ExecuteDeleteMember(r.Context(), id, orchestrators.DeleteMemberDeps{
		MemberStore: stores.MemberStore,
		LogStore:    stores.LogStore,
		Tx:          stores.Writes,
		Clock:       clock(),
	})
	if errors.Is(err, domainMember.ErrNotFound) {
		jsonFailure(w, http.StatusNotFound, "Member not found")
		return
	}
	if err != nil {
		jsonInternal(w, err)
		return
	}
	sessions.DeleteForAccount(id)
	summaryCache.Invalidate()
	writeJSON(w, http.StatusOK, actionResult{Success: true, Message: "Member deleted successfully!"})
}

// handleMembersJSON handles GET /admin/members-json
func handleMembersJSON(w http.ResponseWriter, r *http.Request) {
	rows, err := projections.QueryMemberRows(r.Context(), memberRowsDeps())
	if err != nil {
		jsonInternal(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"members": rows})
}

// handleRenewalsJSON handles GET /admin/renewals-json
func handleRenewalsJSON(w http.ResponseWriter, r *http.Request) {
	rows, err := projections.QueryRenewalRows(r.Context(), memberRowsDeps())
	if err != nil {
		jsonInternal(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"renewals": rows})
}

type renewalDecision struct {
	Status string `json:"status"`
}

// handleRenewalDecision handles POST /admin/renewal/{id}
func handleRenewalDecision(w http.ResponseWriter, r *http.Request) {
	var body renewalDecision
	if err := strictDecode(r, &body); err != nil {
		writeJSON(w, http.StatusBadRequest, actionResult{Message: "Invalid request"})
		return
	}

	_, err := orchestrators.ExecuteHandleRenewal(r.Context(), orchestrators.HandleRenewalInput{
		RequestID: r.PathValue("id"),
		Status:    body.Status,
	}, orchestrators.HandleRenewalDeps{
		RenewalStore: stores.RenewalStore,
		MemberStore:  stores.MemberStore,
		LogStore:     stores.LogStore,
		Tx:           stores.Writes,
		Prices:       stores.PricingStore,
		Clock:        clock(),
	})
	switch {
	case errors.Is(err, domainRenewal.ErrInvalidStatus):
		writeJSON(w, http.StatusBadRequest, actionResult{Message: "Invalid status"})
		return
	case errors.Is(err, orchestrators.ErrRenewalTargetNotFound):
		writeJSON(w, http.StatusNotFound, actionResult{Message: "Request or member not found"})
		return
	case errors.Is(err, domainRenewal.ErrNotPending):
		writeJSON(w, http.StatusConflict, actionResult{Message: "Request is no longer pending"})
		return
	case err != nil:
		slog.Error("internal_error", "error", err.Error())
		writeJSON(w, http.StatusInternalServerError, actionResult{Message: "internal server error"})
		return
	}
	summaryCache.Invalidate()
	writeJSON(w, http.StatusOK, actionResult{
		Success: true,
		Message: fmt.Sprintf("Renewal request %s successfully.", strings.ToLower(body.Status)),
	})
}

// handleDeleteRenewal handles DELETE /admin/renewal/delete/{id}
func handleDeleteRenewal(w http.ResponseWriter, r *http.Request) {
	err := orchestrators.ExecuteDeleteRenewal(r.Context(), r.PathValue("id"), orchestrators.DeleteRenewalDeps{
		RenewalStore: stores.RenewalStore,
	})
	if errors.Is(err, domainRenewal.ErrNotFound) {
		writeJSON(w, http.StatusNotFound, actionResult{Message: "Request not found"})
		return
	}
	if err != nil {
		slog.Error("internal_error", "error", err.Error())
		writeJSON(w, http.StatusInternalServerError, actionResult{Message: "internal server error"})
		return
	}
	writeJSON(w, http.StatusOK, actionResult{Success: true})
}
