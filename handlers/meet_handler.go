package handlers

import (
	"net/http"

	"github.com/trackops/startline/services"
)

type MeetHandler struct {
	meetService   services.MeetService
	importService services.ImportService
}

func NewMeetHandler(meetService services.MeetService, importService services.ImportService) *MeetHandler {
	return &MeetHandler{
		meetService:   meetService,
		importService: importService,
	}
}

func (h *MeetHandler) Create(w http.ResponseWriter, r *http.Request) {
	var input services.CreateMeetInput
	if err := readJSON(w, r, &input); err != nil {
		badRequestResponse(w, r, err)
		return
	}

	meet, err := h.meetService.Create(r.Context(), input)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	writeJSON(w, http.StatusCreated, meet, nil)
}

func (h *MeetHandler) GetByID(w http.ResponseWriter, r *http.Request) {
	id, err := urlIntParam(r, "meetID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	meet, err := h.meetService.GetByID(r.Context(), id)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, meet, nil)
}

func (h *MeetHandler) List(w http.ResponseWriter, r *http.Request) {
	meets, err := h.meetService.List(r.Context())
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, meets, nil)
}

func (h *MeetHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, err := urlIntParam(r, "meetID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	var input services.UpdateMeetInput
	if err := readJSON(w, r, &input); err != nil {
		badRequestResponse(w, r, err)
		return
	}

	meet, err := h.meetService.Update(r.Context(), id, input)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, meet, nil)
}

func (h *MeetHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := urlIntParam(r, "meetID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	if err := h.meetService.Delete(r.Context(), id); err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// Import loads the meet's start list from its configured folder. The
// response body describes the import outcome even when individual rows
// or the whole batch failed; only an unknown meet or a concurrent
// import for the same meet map to error statuses.
func (h *MeetHandler) Import(w http.ResponseWriter, r *http.Request) {
	id, err := urlIntParam(r, "meetID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	result, err := h.importService.ImportStartList(r.Context(), id)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, result, nil)
}
