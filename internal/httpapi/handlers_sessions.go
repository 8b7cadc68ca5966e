package httpapi

import (
	"net/http"
	"time"

	"StudyLeaderwebserver/internal/domain"
	"StudyLeaderwebserver/internal/service"
)

type createSessionRequest struct {
	SubjectID  *int64     `json:"subject_id"`
	DurationMs int64      `json:"duration_ms"`
	StartedAt  *time.Time `json:"started_at"`
	EndedAt    *time.Time `json:"ended_at"`
}

type sessionResponse struct {
	ID         int64     `json:"id"`
	SubjectID  *int64    `json:"subject_id"`
	StartedAt  time.Time `json:"started_at"`
	EndedAt    time.Time `json:"ended_at"`
	DurationMs int64     `json:"duration_ms"`
}

func toSessionResponse(fs domain.FocusSession) sessionResponse {
	return sessionResponse{
		ID:         fs.ID,
		SubjectID:  fs.SubjectID,
		StartedAt:  fs.StartedAt,
		EndedAt:    fs.EndedAt,
		DurationMs: fs.DurationMs,
	}
}

func (a *api) handleSessionsCreate(w http.ResponseWriter, r *http.Request) {
	u, ok := CurrentUser(r.Context())
	if !ok {
		WriteDomainError(w, domain.ErrUnauthorized)
		return
	}

	var req createSessionRequest
	if err := decodeJSONAllowUnknownFields(w, r, &req); err != nil {
		WriteError(w, http.StatusBadRequest, "bad_json", "invalid json")
		return
	}

	fs, err := a.sessionsSvc.Create(r.Context(), u.ID, service.CreateSessionParams{
		SubjectID:  req.SubjectID,
		DurationMs: req.DurationMs,
		StartedAt:  req.StartedAt,
		EndedAt:    req.EndedAt,
	})
	if err != nil {
		WriteDomainError(w, err)
		return
	}

	if a.collector != nil {
		a.collector.RecordSessionCreated()
	}
	WriteJSON(w, http.StatusCreated, toSessionResponse(fs))
}

func (a *api) handleSessionsList(w http.ResponseWriter, r *http.Request) {
	u, ok := CurrentUser(r.Context())
	if !ok {
		WriteDomainError(w, domain.ErrUnauthorized)
		return
	}

	q := r.URL.Query()
	sessions, err := a.sessionsSvc.List(r.Context(), u.ID, service.ListSessionsParams{
		StartDate: q.Get("start_date"),
		EndDate:   q.Get("end_date"),
		Limit:     queryInt(q.Get("limit"), 0),
	})
	if err != nil {
		WriteDomainError(w, err)
		return
	}

	out := make([]sessionResponse, 0, len(sessions))
	for _, fs := range sessions {
		out = append(out, toSessionResponse(fs))
	}
	WriteJSON(w, http.StatusOK, map[string]any{"sessions": out})
}
