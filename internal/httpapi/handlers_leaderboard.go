package httpapi

import (
	"net/http"

	"StudyLeaderwebserver/internal/domain"
)

func (a *api) handleLeaderboard(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()

	scope := domain.LeaderboardScope(q.Get("scope"))
	if scope == "" {
		scope = domain.ScopeGlobal
	}
	days := queryInt(q.Get("days"), 7)

	entries, err := a.leaderboardSvc.Build(r.Context(), scope, requesterID(r.Context()), days)
	if err != nil {
		WriteDomainError(w, err)
		return
	}

	WriteJSON(w, http.StatusOK, map[string]any{"leaderboard": entries})
}
