package http

import (
	"encoding/json"
	"net/http"

	"bilancio/internal/core"
	"bilancio/internal/log"
)

// recordResponse is the wire shape for records. Amounts go out as numbers;
// the string form is only an input convenience.
type recordResponse struct {
	ID              string  `json:"id"`
	Name            string  `json:"name"`
	Amount          float64 `json:"amount"`
	Kind            string  `json:"kind"`
	FrequencyMonths float64 `json:"frequency_months"`
	DayOfMonth      int     `json:"day_of_month"`
	IsShared        bool    `json:"is_shared"`
	OwnerMemberID   string  `json:"owner_member_id,omitempty"`
	IsRecurring     bool    `json:"is_recurring"`
	Category        string  `json:"category"`
}

func toRecordResponse(r core.MoneyRecord) recordResponse {
	return recordResponse{
		ID:              r.ID,
		Name:            r.Name,
		Amount:          r.Amount,
		Kind:            string(r.Kind),
		FrequencyMonths: r.FrequencyMonths,
		DayOfMonth:      r.DayOfMonth,
		IsShared:        r.IsShared,
		OwnerMemberID:   r.OwnerMemberID,
		IsRecurring:     r.IsRecurring,
		Category:        r.Category,
	}
}

type debtResponse struct {
	ID              string  `json:"id"`
	Name            string  `json:"name"`
	RemainingAmount float64 `json:"remaining_amount"`
	MonthlyPayment  float64 `json:"monthly_payment"`
	DayOfMonth      int     `json:"day_of_month"`
}

func toDebtResponse(d core.Debt) debtResponse {
	return debtResponse{
		ID:              d.ID,
		Name:            d.Name,
		RemainingAmount: d.RemainingAmount,
		MonthlyPayment:  d.MonthlyPayment,
		DayOfMonth:      d.DayOfMonth,
	}
}

type memberResponse struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	ColorTag string `json:"color_tag,omitempty"`
}

func toMemberResponse(m core.HouseholdMember) memberResponse {
	return memberResponse{ID: m.ID, Name: m.Name, ColorTag: m.ColorTag}
}

func (s *Server) handleCreateRecord(w http.ResponseWriter, r *http.Request) {
	var payload recordPayload
	if err := decodeBody(json.NewDecoder(r.Body), &payload); err != nil {
		writeError(w, http.StatusBadRequest, "malformed request body")
		return
	}
	rec, err := payload.toRecord()
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	created, err := s.store.CreateRecord(r.Context(), rec)
	if err != nil {
		log.FromContext(r.Context()).Error("create record failed", log.FieldError, err)
		writeStorageError(w, err)
		return
	}
	s.invalidateCaches()
	writeJSON(w, http.StatusCreated, toRecordResponse(created))
}

func (s *Server) handleListRecords(w http.ResponseWriter, r *http.Request) {
	records, err := s.store.ListRecords(r.Context())
	if err != nil {
		log.FromContext(r.Context()).Error("list records failed", log.FieldError, err)
		writeStorageError(w, err)
		return
	}
	out := make([]recordResponse, 0, len(records))
	for _, rec := range records {
		out = append(out, toRecordResponse(rec))
	}
	writeJSON(w, http.StatusOK, out)
}

func (s *Server) handleGetRecord(w http.ResponseWriter, r *http.Request) {
	rec, err := s.store.GetRecord(r.Context(), r.PathValue("id"))
	if err != nil {
		writeStorageError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toRecordResponse(rec))
}

func (s *Server) handleUpdateRecord(w http.ResponseWriter, r *http.Request) {
	var payload recordPayload
	if err := decodeBody(json.NewDecoder(r.Body), &payload); err != nil {
		writeError(w, http.StatusBadRequest, "malformed request body")
		return
	}
	rec, err := payload.toRecord()
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	rec.ID = r.PathValue("id")

	if err := s.store.UpdateRecord(r.Context(), rec); err != nil {
		writeStorageError(w, err)
		return
	}
	s.invalidateCaches()
	writeJSON(w, http.StatusOK, toRecordResponse(rec))
}

func (s *Server) handleDeleteRecord(w http.ResponseWriter, r *http.Request) {
	if err := s.store.SoftDeleteRecord(r.Context(), r.PathValue("id")); err != nil {
		writeStorageError(w, err)
		return
	}
	s.invalidateCaches()
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleCreateDebt(w http.ResponseWriter, r *http.Request) {
	var payload debtPayload
	if err := decodeBody(json.NewDecoder(r.Body), &payload); err != nil {
		writeError(w, http.StatusBadRequest, "malformed request body")
		return
	}
	debt, err := payload.toDebt()
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	created, err := s.store.CreateDebt(r.Context(), debt)
	if err != nil {
		log.FromContext(r.Context()).Error("create debt failed", log.FieldError, err)
		writeStorageError(w, err)
		return
	}
	s.invalidateCaches()
	writeJSON(w, http.StatusCreated, toDebtResponse(created))
}

func (s *Server) handleListDebts(w http.ResponseWriter, r *http.Request) {
	debts, err := s.store.ListDebts(r.Context())
	if err != nil {
		writeStorageError(w, err)
		return
	}
	out := make([]debtResponse, 0, len(debts))
	for _, d := range debts {
		out = append(out, toDebtResponse(d))
	}
	writeJSON(w, http.StatusOK, out)
}

func (s *Server) handleUpdateDebt(w http.ResponseWriter, r *http.Request) {
	var payload debtPayload
	if err := decodeBody(json.NewDecoder(r.Body), &payload); err != nil {
		writeError(w, http.StatusBadRequest, "malformed request body")
		return
	}
	debt, err := payload.toDebt()
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	debt.ID = r.PathValue("id")

	if err := s.store.UpdateDebt(r.Context(), debt); err != nil {
		writeStorageError(w, err)
		return
	}
	s.invalidateCaches()
	writeJSON(w, http.StatusOK, toDebtResponse(debt))
}

func (s *Server) handleDeleteDebt(w http.ResponseWriter, r *http.Request) {
	if err := s.store.DeleteDebt(r.Context(), r.PathValue("id")); err != nil {
		writeStorageError(w, err)
		return
	}
	s.invalidateCaches()
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleCreateMember(w http.ResponseWriter, r *http.Request) {
	var payload memberPayload
	if err := decodeBody(json.NewDecoder(r.Body), &payload); err != nil {
		writeError(w, http.StatusBadRequest, "malformed request body")
		return
	}
	member, err := payload.toMember()
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	created, err := s.store.CreateMember(r.Context(), member)
	if err != nil {
		writeStorageError(w, err)
		return
	}
	s.invalidateCaches()
	writeJSON(w, http.StatusCreated, toMemberResponse(created))
}

func (s *Server) handleListMembers(w http.ResponseWriter, r *http.Request) {
	members, err := s.store.ListMembers(r.Context())
	if err != nil {
		writeStorageError(w, err)
		return
	}
	out := make([]memberResponse, 0, len(members))
	for _, m := range members {
		out = append(out, toMemberResponse(m))
	}
	writeJSON(w, http.StatusOK, out)
}

func (s *Server) handleDeleteMember(w http.ResponseWriter, r *http.Request) {
	if err := s.store.DeleteMember(r.Context(), r.PathValue("id")); err != nil {
		writeStorageError(w, err)
		return
	}
	s.invalidateCaches()
	w.WriteHeader(http.StatusNoContent)
}
