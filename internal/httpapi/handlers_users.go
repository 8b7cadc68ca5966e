package httpapi

import (
	"net/http"
	"strings"
	"time"

	"StudyLeaderwebserver/internal/domain"
	"StudyLeaderwebserver/internal/service"
)

type userResponse struct {
	ID           int64     `json:"id"`
	Email        string    `json:"email,omitempty"`
	EmailDomain  string    `json:"email_domain"`
	Username     string    `json:"username"`
	DisplayName  string    `json:"display_name"`
	Timezone     string    `json:"timezone,omitempty"`
	PrivacyOptIn bool      `json:"privacy_opt_in"`
	CreatedAt    time.Time `json:"created_at"`
}

// toUserResponse shapes a user for the wire. The email address itself is
// only returned to its owner; everyone else sees just the domain.
func toUserResponse(u domain.User, self bool) userResponse {
	resp := userResponse{
		ID:           u.ID,
		EmailDomain:  u.EmailDomain,
		Username:     u.Username,
		DisplayName:  u.DisplayName,
		PrivacyOptIn: u.PrivacyOptIn,
		CreatedAt:    u.CreatedAt,
	}
	if self {
		resp.Email = u.Email
		resp.Timezone = u.Timezone
	}
	return resp
}

func (a *api) handleUsersMe(w http.ResponseWriter, r *http.Request) {
	u, ok := CurrentUser(r.Context())
	if !ok {
		WriteDomainError(w, domain.ErrUnauthorized)
		return
	}
	WriteJSON(w, http.StatusOK, toUserResponse(u, true))
}

type updateMeRequest struct {
	DisplayName  *string `json:"display_name"`
	Timezone     *string `json:"timezone"`
	PrivacyOptIn *bool   `json:"privacy_opt_in"`
	Username     *string `json:"username"`
}

func (a *api) handleUsersMeUpdate(w http.ResponseWriter, r *http.Request) {
	u, ok := CurrentUser(r.Context())
	if !ok {
		WriteDomainError(w, domain.ErrUnauthorized)
		return
	}

	var req updateMeRequest
	if err := decodeJSON(w, r, &req); err != nil {
		WriteError(w, http.StatusBadRequest, "bad_json", "invalid json")
		return
	}

	updated, err := a.usersSvc.UpdateMe(r.Context(), u.ID, service.UpdateProfileParams{
		DisplayName:  req.DisplayName,
		Timezone:     req.Timezone,
		PrivacyOptIn: req.PrivacyOptIn,
		Username:     req.Username,
	})
	if err != nil {
		WriteDomainError(w, err)
		return
	}

	WriteJSON(w, http.StatusOK, toUserResponse(updated, true))
}

func (a *api) handleUsersGet(w http.ResponseWriter, r *http.Request) {
	username := strings.TrimSpace(r.PathValue("username"))
	if username == "" {
		WriteDomainError(w, domain.NewValidationError(map[string]string{"username": "required"}))
		return
	}

	u, err := a.usersSvc.GetByUsername(r.Context(), requesterID(r.Context()), username)
	if err != nil {
		WriteDomainError(w, err)
		return
	}

	self := requesterID(r.Context()) == u.ID
	WriteJSON(w, http.StatusOK, toUserResponse(u, self))
}

func (a *api) handleUsersSearch(w http.ResponseWriter, r *http.Request) {
	u, ok := CurrentUser(r.Context())
	if !ok {
		WriteDomainError(w, domain.ErrUnauthorized)
		return
	}

	results, err := a.usersSvc.Search(r.Context(), u.ID, r.URL.Query().Get("q"))
	if err != nil {
		WriteDomainError(w, err)
		return
	}

	WriteJSON(w, http.StatusOK, map[string]any{"users": results})
}

func (a *api) handleUsersCount(w http.ResponseWriter, r *http.Request) {
	n, err := a.usersSvc.Count(r.Context())
	if err != nil {
		WriteDomainError(w, err)
		return
	}
	WriteJSON(w, http.StatusOK, map[string]int64{"count": n})
}
