package handler

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"github.com/mcoot/openplay-go/internal/api/request"
	"github.com/mcoot/openplay-go/internal/api/response"
	"github.com/mcoot/openplay-go/internal/model"
	"github.com/mcoot/openplay-go/internal/services/session"
)

// CourtHandler handles queue and court rotation endpoints
type CourtHandler struct {
	controller *session.Controller
}

// NewCourtHandler creates a new court handler
func NewCourtHandler(controller *session.Controller) *CourtHandler {
	return &CourtHandler{
		controller: controller,
	}
}

// InitQueue handles POST /api/v1/sessions/{code}/queue/init
func (h *CourtHandler) InitQueue(w http.ResponseWriter, r *http.Request) {
	code := model.SessionCode(mux.Vars(r)["code"])

	sess, err := h.controller.InitializeQueue(r.Context(), code)
	if err != nil {
		WriteError(w, err)
		return
	}

	response.JSON(w, http.StatusOK, response.SessionFromModel(sess))
}

// Queue handles GET /api/v1/sessions/{code}/queue
func (h *CourtHandler) Queue(w http.ResponseWriter, r *http.Request) {
	code := model.SessionCode(mux.Vars(r)["code"])

	sess, err := h.controller.GetSession(r.Context(), code)
	if err != nil {
		WriteError(w, err)
		return
	}

	response.JSON(w, http.StatusOK, response.QueueResponse{Queue: response.QueueFromModel(sess)})
}

// RefillAll handles POST /api/v1/sessions/{code}/courts/refill
func (h *CourtHandler) RefillAll(w http.ResponseWriter, r *http.Request) {
	code := model.SessionCode(mux.Vars(r)["code"])

	sess, err := h.controller.RefillAll(r.Context(), code)
	if err != nil {
		WriteError(w, err)
		return
	}

	response.JSON(w, http.StatusOK, response.SessionFromModel(sess))
}

// RefillCourt handles POST /api/v1/sessions/{code}/courts/{court}/refill
func (h *CourtHandler) RefillCourt(w http.ResponseWriter, r *http.Request) {
	code, courtIdx, ok := courtVars(w, r)
	if !ok {
		return
	}

	sess, err := h.controller.RefillCourt(r.Context(), code, courtIdx)
	if err != nil {
		WriteError(w, err)
		return
	}

	response.JSON(w, http.StatusOK, response.SessionFromModel(sess))
}

// Result handles POST /api/v1/sessions/{code}/courts/{court}/result
func (h *CourtHandler) Result(w http.ResponseWriter, r *http.Request) {
	code, courtIdx, ok := courtVars(w, r)
	if !ok {
		return
	}

	var req request.ResultRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		WriteError(w, NewInvalidRequestError("invalid request body"))
		return
	}

	team, err := model.ParseTeam(req.Winner)
	if err != nil {
		WriteError(w, err)
		return
	}

	sess, record, err := h.controller.ResolveResult(r.Context(), code, courtIdx, team)
	if err != nil {
		WriteError(w, err)
		return
	}

	response.JSON(w, http.StatusOK, response.ResultResponse{
		Match:   response.MatchFromModel(*record),
		Session: response.SessionFromModel(sess),
	})
}

// ResetCourt handles POST /api/v1/sessions/{code}/courts/{court}/reset
func (h *CourtHandler) ResetCourt(w http.ResponseWriter, r *http.Request) {
	code, courtIdx, ok := courtVars(w, r)
	if !ok {
		return
	}

	sess, err := h.controller.ResetCourt(r.Context(), code, courtIdx)
	if err != nil {
		WriteError(w, err)
		return
	}

	response.JSON(w, http.StatusOK, response.SessionFromModel(sess))
}

// UpdateAll handles POST /api/v1/sessions/{code}/results
func (h *CourtHandler) UpdateAll(w http.ResponseWriter, r *http.Request) {
	code := model.SessionCode(mux.Vars(r)["code"])

	var req request.UpdateAllRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		WriteError(w, NewInvalidRequestError("invalid request body"))
		return
	}

	pending := make(map[int]model.Team, len(req.Pending))
	for key, value := range req.Pending {
		courtIdx, err := strconv.Atoi(key)
		if err != nil {
			WriteError(w, NewInvalidRequestError("pending keys must be court indexes"))
			return
		}
		team, err := model.ParseTeam(value)
		if err != nil {
			WriteError(w, err)
			return
		}
		pending[courtIdx] = team
	}

	sess, outcomes, err := h.controller.UpdateAllCourts(r.Context(), code, pending)
	if err != nil {
		WriteError(w, err)
		return
	}

	response.JSON(w, http.StatusOK, response.UpdateAllResponse{
		Outcomes: response.OutcomesFromRotation(outcomes),
		Session:  response.SessionFromModel(sess),
	})
}

// courtVars reads the session code and court index route variables,
// writing an error response if the index is not a number
func courtVars(w http.ResponseWriter, r *http.Request) (model.SessionCode, int, bool) {
	vars := mux.Vars(r)
	courtIdx, err := strconv.Atoi(vars["court"])
	if err != nil {
		WriteError(w, model.ErrInvalidCourt)
		return "", 0, false
	}
	return model.SessionCode(vars["code"]), courtIdx, true
}
