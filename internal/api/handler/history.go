package handler

import (
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"github.com/mcoot/openplay-go/internal/api/response"
	"github.com/mcoot/openplay-go/internal/model"
	"github.com/mcoot/openplay-go/internal/services/session"
)

// HistoryHandler handles match history endpoints
type HistoryHandler struct {
	controller *session.Controller
}

// NewHistoryHandler creates a new history handler
func NewHistoryHandler(controller *session.Controller) *HistoryHandler {
	return &HistoryHandler{controller: controller}
}

// List handles GET /api/v1/sessions/{code}/history?limit=n
func (h *HistoryHandler) List(w http.ResponseWriter, r *http.Request) {
	code := model.SessionCode(mux.Vars(r)["code"])

	limit := 0
	if raw := r.URL.Query().Get("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 0 {
			WriteError(w, NewInvalidRequestError("limit must be a non-negative integer"))
			return
		}
		limit = n
	}

	records, err := h.controller.History(r.Context(), code, limit)
	if err != nil {
		WriteError(w, err)
		return
	}

	response.JSON(w, http.StatusOK, response.HistoryResponse{Matches: response.MatchesFromModel(records)})
}
