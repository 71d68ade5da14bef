package handler

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/mcoot/openplay-go/internal/api/apierr"
	"github.com/mcoot/openplay-go/internal/api/request"
	"github.com/mcoot/openplay-go/internal/api/response"
	"github.com/mcoot/openplay-go/internal/model"
	"github.com/mcoot/openplay-go/internal/services/session"
)

// PlayerHandler handles player roster endpoints
type PlayerHandler struct {
	controller *session.Controller
}

// NewPlayerHandler creates a new player handler
func NewPlayerHandler(controller *session.Controller) *PlayerHandler {
	return &PlayerHandler{
		controller: controller,
	}
}

// Add handles POST /api/v1/sessions/{code}/players
func (h *PlayerHandler) Add(w http.ResponseWriter, r *http.Request) {
	code := model.SessionCode(mux.Vars(r)["code"])

	var req request.AddPlayersRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		WriteError(w, NewInvalidRequestError("invalid request body"))
		return
	}

	sess, added, err := h.controller.AddPlayers(r.Context(), code, req.Players)
	var warning *apierr.APIError
	switch {
	case errors.Is(err, model.ErrSessionFull) && len(added) > 0:
		// Partial add: report the cap but keep the players that fit
		_, apiErr := apierr.Describe(err)
		warning = &apiErr
	case err != nil:
		WriteError(w, err)
		return
	}

	addedIDs := make([]string, len(added))
	for i, p := range added {
		addedIDs[i] = string(p)
	}

	response.JSON(w, http.StatusOK, response.AddPlayersResponse{
		Added:   addedIDs,
		Warning: warning,
		Session: response.SessionFromModel(sess),
	})
}

// Remove handles DELETE /api/v1/sessions/{code}/players/{player_id}
func (h *PlayerHandler) Remove(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	code := model.SessionCode(vars["code"])
	playerID := model.PlayerID(vars["player_id"])

	sess, err := h.controller.RemovePlayer(r.Context(), code, playerID)
	if err != nil {
		WriteError(w, err)
		return
	}

	response.JSON(w, http.StatusOK, response.SessionFromModel(sess))
}
