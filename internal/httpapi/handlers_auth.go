package httpapi

import (
	"net/http"
	"strings"

	"StudyLeaderwebserver/internal/domain"
)

type authRequest struct {
	IDToken     string `json:"id_token"`
	Username    string `json:"username,omitempty"`
	DisplayName string `json:"display_name,omitempty"`
}

type authResponse struct {
	Token string       `json:"token"`
	User  userResponse `json:"user"`
}

func (a *api) handleAuthSignup(w http.ResponseWriter, r *http.Request) {
	var req authRequest
	if err := decodeJSON(w, r, &req); err != nil {
		WriteError(w, http.StatusBadRequest, "bad_json", "invalid json")
		return
	}

	u, token, err := a.authSvc.Signup(r.Context(), req.IDToken, req.Username, req.DisplayName)
	if err != nil {
		WriteDomainError(w, err)
		return
	}

	if a.collector != nil {
		a.collector.RecordSignup()
	}
	WriteJSON(w, http.StatusCreated, authResponse{Token: token, User: toUserResponse(u, true)})
}

func (a *api) handleAuthLogin(w http.ResponseWriter, r *http.Request) {
	var req authRequest
	if err := decodeJSON(w, r, &req); err != nil {
		WriteError(w, http.StatusBadRequest, "bad_json", "invalid json")
		return
	}

	u, token, err := a.authSvc.Login(r.Context(), req.IDToken)
	if err != nil {
		WriteDomainError(w, err)
		return
	}

	WriteJSON(w, http.StatusOK, authResponse{Token: token, User: toUserResponse(u, true)})
}

func (a *api) handleAuthCheckUsername(w http.ResponseWriter, r *http.Request) {
	username := strings.TrimSpace(r.URL.Query().Get("username"))
	if username == "" {
		WriteDomainError(w, domain.NewValidationError(map[string]string{"username": "required"}))
		return
	}

	available, err := a.authSvc.CheckUsername(r.Context(), username)
	if err != nil {
		WriteDomainError(w, err)
		return
	}

	WriteJSON(w, http.StatusOK, map[string]bool{"available": available})
}
