package handlers

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/trackops/startline/middleware"
	"github.com/trackops/startline/models"
	"github.com/trackops/startline/services"
)

type EventHandler struct {
	entryService services.EntryService
}

func NewEventHandler(entryService services.EntryService) *EventHandler {
	return &EventHandler{entryService: entryService}
}

func (h *EventHandler) ListEvents(w http.ResponseWriter, r *http.Request) {
	meetID, err := urlIntParam(r, "meetID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	infos, err := h.entryService.ListEvents(r.Context(), meetID)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, infos, nil)
}

func (h *EventHandler) ListEntries(w http.ResponseWriter, r *http.Request) {
	meetID, err := urlIntParam(r, "meetID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}
	eventCode := chi.URLParam(r, "eventCode")

	entries, err := h.entryService.ListEntries(r.Context(), meetID, eventCode)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, entries, nil)
}

func (h *EventHandler) CheckIn(w http.ResponseWriter, r *http.Request) {
	meetID, entryID, err := h.entryParams(r)
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	var input struct {
		StartPos *models.CheckInStatus `json:"start_pos"`
	}
	if err := readJSON(w, r, &input); err != nil {
		badRequestResponse(w, r, err)
		return
	}

	if err := h.entryService.CheckIn(r.Context(), meetID, entryID, input.StartPos); err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}
	auditRaceState(r, "check_in", meetID, entryID)

	writeJSON(w, http.StatusOK, jsonResponse{"message": "check-in updated"}, nil)
}

func (h *EventHandler) RecordStartTime(w http.ResponseWriter, r *http.Request) {
	meetID, entryID, err := h.entryParams(r)
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	var input struct {
		StartTime *string `json:"start_time"`
	}
	if err := readJSON(w, r, &input); err != nil {
		badRequestResponse(w, r, err)
		return
	}

	if err := h.entryService.RecordStartTime(r.Context(), meetID, entryID, input.StartTime); err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}
	auditRaceState(r, "start_time", meetID, entryID)

	writeJSON(w, http.StatusOK, jsonResponse{"message": "start time recorded"}, nil)
}

func (h *EventHandler) RecordFinish(w http.ResponseWriter, r *http.Request) {
	meetID, entryID, err := h.entryParams(r)
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	var input struct {
		FinishRank *int    `json:"finish_rank"`
		FinishTime *string `json:"finish_time"`
	}
	if err := readJSON(w, r, &input); err != nil {
		badRequestResponse(w, r, err)
		return
	}

	if err := h.entryService.RecordFinish(r.Context(), meetID, entryID, input.FinishRank, input.FinishTime); err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}
	auditRaceState(r, "finish", meetID, entryID)

	writeJSON(w, http.StatusOK, jsonResponse{"message": "finish recorded"}, nil)
}

func (h *EventHandler) RecordPhotoFinish(w http.ResponseWriter, r *http.Request) {
	meetID, entryID, err := h.entryParams(r)
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	var input struct {
		PhotoRank *int    `json:"photo_rank"`
		PhotoTime *string `json:"photo_time"`
	}
	if err := readJSON(w, r, &input); err != nil {
		badRequestResponse(w, r, err)
		return
	}

	if err := h.entryService.RecordPhotoFinish(r.Context(), meetID, entryID, input.PhotoRank, input.PhotoTime); err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}
	auditRaceState(r, "photo_finish", meetID, entryID)

	writeJSON(w, http.StatusOK, jsonResponse{"message": "photo finish recorded"}, nil)
}

func (h *EventHandler) UpdateComment(w http.ResponseWriter, r *http.Request) {
	meetID, err := urlIntParam(r, "meetID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}
	eventCode := chi.URLParam(r, "eventCode")

	var input struct {
		Comments *string `json:"comments"`
	}
	if err := readJSON(w, r, &input); err != nil {
		badRequestResponse(w, r, err)
		return
	}

	if err := h.entryService.UpdateEventComment(r.Context(), meetID, eventCode, input.Comments); err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, jsonResponse{"message": "comments updated"}, nil)
}

// auditRaceState records who changed an entry. These endpoints sit
// behind Authenticate, so the claims are present on the context.
func auditRaceState(r *http.Request, action string, meetID, entryID int) {
	userID, err := middleware.GetUserIDFromContext(r.Context())
	if err != nil {
		return
	}
	slog.Info("race state recorded",
		slog.String("action", action),
		slog.Int("meet_id", meetID),
		slog.Int("entry_id", entryID),
		slog.Int("user_id", userID))
}

func (h *EventHandler) entryParams(r *http.Request) (meetID, entryID int, err error) {
	meetID, err = urlIntParam(r, "meetID")
	if err != nil {
		return 0, 0, err
	}
	entryID, err = urlIntParam(r, "entryID")
	if err != nil {
		return 0, 0, err
	}
	return meetID, entryID, nil
}
