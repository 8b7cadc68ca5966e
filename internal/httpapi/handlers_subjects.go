package httpapi

import (
	"net/http"

	"StudyLeaderwebserver/internal/domain"
)

type subjectResponse struct {
	ID    int64  `json:"id"`
	Name  string `json:"name"`
	Color string `json:"color"`
}

func toSubjectResponse(s domain.Subject) subjectResponse {
	return subjectResponse{ID: s.ID, Name: s.Name, Color: s.Color}
}

func (a *api) handleSubjectsList(w http.ResponseWriter, r *http.Request) {
	u, ok := CurrentUser(r.Context())
	if !ok {
		WriteDomainError(w, domain.ErrUnauthorized)
		return
	}

	subjects, err := a.subjectsSvc.List(r.Context(), u.ID, r.URL.Query().Get("username"))
	if err != nil {
		WriteDomainError(w, err)
		return
	}

	out := make([]subjectResponse, 0, len(subjects))
	for _, s := range subjects {
		out = append(out, toSubjectResponse(s))
	}
	WriteJSON(w, http.StatusOK, map[string]any{"subjects": out})
}

type subjectRequest struct {
	Name  *string `json:"name"`
	Color *string `json:"color"`
}

func (a *api) handleSubjectsCreate(w http.ResponseWriter, r *http.Request) {
	u, ok := CurrentUser(r.Context())
	if !ok {
		WriteDomainError(w, domain.ErrUnauthorized)
		return
	}

	var req subjectRequest
	if err := decodeJSON(w, r, &req); err != nil {
		WriteError(w, http.StatusBadRequest, "bad_json", "invalid json")
		return
	}

	name, color := "", ""
	if req.Name != nil {
		name = *req.Name
	}
	if req.Color != nil {
		color = *req.Color
	}

	sub, err := a.subjectsSvc.Create(r.Context(), u.ID, name, color)
	if err != nil {
		WriteDomainError(w, err)
		return
	}

	WriteJSON(w, http.StatusCreated, toSubjectResponse(sub))
}

func (a *api) handleSubjectsUpdate(w http.ResponseWriter, r *http.Request) {
	u, ok := CurrentUser(r.Context())
	if !ok {
		WriteDomainError(w, domain.ErrUnauthorized)
		return
	}

	id, err := pathID(r.PathValue("id"))
	if err != nil {
		WriteDomainError(w, err)
		return
	}

	var req subjectRequest
	if err := decodeJSON(w, r, &req); err != nil {
		WriteError(w, http.StatusBadRequest, "bad_json", "invalid json")
		return
	}

	sub, err := a.subjectsSvc.Update(r.Context(), u.ID, id, req.Name, req.Color)
	if err != nil {
		WriteDomainError(w, err)
		return
	}

	WriteJSON(w, http.StatusOK, toSubjectResponse(sub))
}

func (a *api) handleSubjectsDelete(w http.ResponseWriter, r *http.Request) {
	u, ok := CurrentUser(r.Context())
	if !ok {
		WriteDomainError(w, domain.ErrUnauthorized)
		return
	}

	id, err := pathID(r.PathValue("id"))
	if err != nil {
		WriteDomainError(w, err)
		return
	}

	if err := a.subjectsSvc.Delete(r.Context(), u.ID, id); err != nil {
		WriteDomainError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
