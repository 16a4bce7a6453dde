package handlers

import (
	"fmt"
	"net/http"

	"github.com/trackops/startline/services"
)

type ResultHandler struct {
	resultService services.ResultService
}

func NewResultHandler(resultService services.ResultService) *ResultHandler {
	return &ResultHandler{resultService: resultService}
}

func (h *ResultHandler) MeetResults(w http.ResponseWriter, r *http.Request) {
	meetID, err := urlIntParam(r, "meetID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	results, err := h.resultService.MeetResults(r.Context(), meetID)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, results, nil)
}

// ExportCSV streams the meet's results as a CSV download.
func (h *ResultHandler) ExportCSV(w http.ResponseWriter, r *http.Request) {
	meetID, err := urlIntParam(r, "meetID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	data, err := h.resultService.ExportCSV(r.Context(), meetID)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	w.Header().Set("Content-Type", "text/csv")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=meet_%d_results.csv", meetID))
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(data)
}
