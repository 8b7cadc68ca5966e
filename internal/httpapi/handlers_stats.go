package httpapi

import (
	"net/http"

	"StudyLeaderwebserver/internal/service"
)

// statsQuery pulls the shared target/window parameters off the request.
func statsQuery(r *http.Request) (service.StatsQuery, error) {
	q := r.URL.Query()

	userID, err := queryInt64Ptr(q.Get("user_id"), "user_id")
	if err != nil {
		return service.StatsQuery{}, err
	}
	subjectID, err := queryInt64Ptr(q.Get("subject_id"), "subject_id")
	if err != nil {
		return service.StatsQuery{}, err
	}

	out := service.StatsQuery{
		Username:  q.Get("username"),
		StartDate: q.Get("start_date"),
		EndDate:   q.Get("end_date"),
		SubjectID: subjectID,
	}
	if userID != nil {
		out.UserID = *userID
	}
	return out, nil
}

func (a *api) handleStatsSummary(w http.ResponseWriter, r *http.Request) {
	q, err := statsQuery(r)
	if err != nil {
		WriteDomainError(w, err)
		return
	}

	summary, err := a.statsSvc.Summary(r.Context(), requesterID(r.Context()), q)
	if err != nil {
		WriteDomainError(w, err)
		return
	}
	WriteJSON(w, http.StatusOK, summary)
}

func (a *api) handleStatsSubjects(w http.ResponseWriter, r *http.Request) {
	q, err := statsQuery(r)
	if err != nil {
		WriteDomainError(w, err)
		return
	}

	totals, err := a.statsSvc.BySubject(r.Context(), requesterID(r.Context()), q)
	if err != nil {
		WriteDomainError(w, err)
		return
	}
	WriteJSON(w, http.StatusOK, map[string]any{"subjects": totals})
}

func (a *api) handleStatsDaily(w http.ResponseWriter, r *http.Request) {
	q, err := statsQuery(r)
	if err != nil {
		WriteDomainError(w, err)
		return
	}

	days, err := a.statsSvc.Daily(r.Context(), requesterID(r.Context()), q)
	if err != nil {
		WriteDomainError(w, err)
		return
	}
	WriteJSON(w, http.StatusOK, map[string]any{"days": days})
}

func (a *api) handleStatsHeatmap(w http.ResponseWriter, r *http.Request) {
	q, err := statsQuery(r)
	if err != nil {
		WriteDomainError(w, err)
		return
	}

	days, err := a.statsSvc.Heatmap(r.Context(), requesterID(r.Context()), q)
	if err != nil {
		WriteDomainError(w, err)
		return
	}
	WriteJSON(w, http.StatusOK, map[string]any{"days": days})
}

func (a *api) handleStatsWeekly(w http.ResponseWriter, r *http.Request) {
	q, err := statsQuery(r)
	if err != nil {
		WriteDomainError(w, err)
		return
	}

	weekly, err := a.statsSvc.Weekly(r.Context(), requesterID(r.Context()), q)
	if err != nil {
		WriteDomainError(w, err)
		return
	}
	WriteJSON(w, http.StatusOK, weekly)
}
