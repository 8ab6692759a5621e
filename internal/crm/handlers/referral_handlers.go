package handlers

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/talentlane/crm/internal/crm/models"
)

func (a *API) handleListReferrals(w http.ResponseWriter, r *http.Request) {
	memberID, err := pathUUID(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid member ID")
		return
	}

	referrals, err := a.referrals.ListReferrals(r.Context(), memberID)
	if err != nil {
		a.writeDomainError(w, err)
		return
	}
	if referrals == nil {
		referrals = []models.Referral{}
	}
	writeJSON(w, http.StatusOK, referrals)
}

func (a *API) handleCreateReferral(w http.ResponseWriter, r *http.Request) {
	memberID, err := pathUUID(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid member ID")
		return
	}

	var payload referralPayload
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON")
		return
	}

	var (
		company string
		notes   string
		date    time.Time
	)
	if payload.CompanyName != nil {
		company = *payload.CompanyName
	}
	if payload.Notes != nil {
		notes = *payload.Notes
	}
	if payload.ReferralDate != nil {
		date = *payload.ReferralDate
	}

	referral, err := a.referrals.CreateReferral(r.Context(), memberID, company, date, notes)
	if err != nil {
		a.writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, referral)
}

func (a *API) handleUpdateReferral(w http.ResponseWriter, r *http.Request) {
	id, err := pathUUID(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid referral ID")
		return
	}

	var payload referralPayload
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON")
		return
	}

	referral, err := a.referrals.UpdateReferral(r.Context(), payload.toReferralUpdate(id))
	if err != nil {
		a.writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, referral)
}

func (a *API) handleDeleteReferral(w http.ResponseWriter, r *http.Request) {
	id, err := pathUUID(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid referral ID")
		return
	}

	if err := a.referrals.DeleteReferral(r.Context(), id); err != nil {
		a.writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]bool{"success": true})
}
