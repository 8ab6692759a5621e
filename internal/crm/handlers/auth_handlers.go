package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/talentlane/crm/internal/crm/auth"
)

func (a *API) handleLogin(w http.ResponseWriter, r *http.Request) {
	var payload struct {
		Email    string `json:"email"`
		Password string `json:"password"`
	}
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON")
		return
	}

	token, user, err := a.auth.SignIn(r.Context(), payload.Email, payload.Password)
	if err != nil {
		a.writeDomainError(w, err)
		return
	}

	auth.SetSessionCookie(w, token)
	writeJSON(w, http.StatusOK, user)
}

func (a *API) handleLogout(w http.ResponseWriter, r *http.Request) {
	auth.ClearSessionCookie(w)
	writeJSON(w, http.StatusOK, map[string]bool{"success": true})
}

func (a *API) handleMe(w http.ResponseWriter, r *http.Request) {
	user, err := a.auth.CurrentUser(r.Context())
	if err != nil {
		a.writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, user)
}
