package handler

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/mcoot/openplay-go/internal/api/apierr"
	"github.com/mcoot/openplay-go/internal/api/request"
	"github.com/mcoot/openplay-go/internal/api/response"
	"github.com/mcoot/openplay-go/internal/model"
	"github.com/mcoot/openplay-go/internal/services/auth"
	"github.com/mcoot/openplay-go/internal/services/session"
)

// SessionHandler handles session lifecycle endpoints
type SessionHandler struct {
	controller  *session.Controller
	authService *auth.Service
}

// NewSessionHandler creates a new session handler
func NewSessionHandler(controller *session.Controller, authService *auth.Service) *SessionHandler {
	return &SessionHandler{
		controller:  controller,
		authService: authService,
	}
}

// Create handles POST /api/v1/sessions
func (h *SessionHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req request.CreateSessionRequest
	if err := decodeOptional(r, &req); err != nil {
		WriteError(w, NewInvalidRequestError("invalid request body"))
		return
	}

	config := model.DefaultSessionConfig()
	if req.CourtCount != nil {
		config.CourtCount = *req.CourtCount
	}
	if req.MaxPlayers != nil {
		config.MaxPlayers = *req.MaxPlayers
	}
	config.AutoFill = req.AutoFill

	hash, err := h.authService.HashPassword(req.Password)
	if err != nil {
		WriteError(w, err)
		return
	}

	sess, err := h.controller.CreateSession(r.Context(), config, hash)
	if err != nil {
		WriteError(w, err)
		return
	}
	grant := h.authService.IssueToken(sess.Code)

	var warning *apierr.APIError
	if len(req.Players) > 0 {
		updated, _, err := h.controller.AddPlayers(r.Context(), sess.Code, req.Players)
		switch {
		case errors.Is(err, model.ErrSessionFull):
			_, apiErr := apierr.Describe(err)
			warning = &apiErr
		case err != nil:
			WriteError(w, err)
			return
		}
		sess = updated
	}

	response.JSON(w, http.StatusCreated, response.CreateSessionResponse{
		Session: response.SessionFromModel(sess),
		Token:   response.TokenFromGrant(grant),
		Warning: warning,
	})
}

// List handles GET /api/v1/sessions
func (h *SessionHandler) List(w http.ResponseWriter, r *http.Request) {
	codes, err := h.controller.ListSessions(r.Context())
	if err != nil {
		WriteError(w, err)
		return
	}

	result := response.SessionList{Sessions: make([]string, len(codes))}
	for i, code := range codes {
		result.Sessions[i] = string(code)
	}
	response.JSON(w, http.StatusOK, result)
}

// Get handles GET /api/v1/sessions/{code}
func (h *SessionHandler) Get(w http.ResponseWriter, r *http.Request) {
	code := model.SessionCode(mux.Vars(r)["code"])

	sess, err := h.controller.GetSession(r.Context(), code)
	if err != nil {
		WriteError(w, err)
		return
	}

	response.JSON(w, http.StatusOK, response.SessionFromModel(sess))
}

// Delete handles DELETE /api/v1/sessions/{code}
func (h *SessionHandler) Delete(w http.ResponseWriter, r *http.Request) {
	code := model.SessionCode(mux.Vars(r)["code"])

	if err := h.controller.DeleteSession(r.Context(), code); err != nil {
		WriteError(w, err)
		return
	}
	h.authService.RevokeSession(code)

	response.NoContent(w)
}

// Login handles POST /api/v1/sessions/{code}/login
func (h *SessionHandler) Login(w http.ResponseWriter, r *http.Request) {
	code := model.SessionCode(mux.Vars(r)["code"])

	var req request.LoginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		WriteError(w, NewInvalidRequestError("invalid request body"))
		return
	}

	grant, err := h.authService.Login(r.Context(), code, req.Password)
	if err != nil {
		WriteError(w, err)
		return
	}

	response.JSON(w, http.StatusOK, response.TokenFromGrant(grant))
}

// UpdateConfig handles PATCH /api/v1/sessions/{code}/config
func (h *SessionHandler) UpdateConfig(w http.ResponseWriter, r *http.Request) {
	code := model.SessionCode(mux.Vars(r)["code"])

	var req request.UpdateConfigRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		WriteError(w, NewInvalidRequestError("invalid request body"))
		return
	}

	sess, err := h.controller.UpdateConfig(r.Context(), code, session.ConfigUpdate{
		CourtCount: req.CourtCount,
		MaxPlayers: req.MaxPlayers,
		AutoFill:   req.AutoFill,
	})
	if err != nil {
		WriteError(w, err)
		return
	}

	response.JSON(w, http.StatusOK, response.SessionFromModel(sess))
}

// Reset handles POST /api/v1/sessions/{code}/reset
func (h *SessionHandler) Reset(w http.ResponseWriter, r *http.Request) {
	code := model.SessionCode(mux.Vars(r)["code"])

	sess, err := h.controller.ResetSession(r.Context(), code)
	if err != nil {
		WriteError(w, err)
		return
	}

	response.JSON(w, http.StatusOK, response.SessionFromModel(sess))
}

// decodeOptional decodes a JSON body, treating an empty body as a zero value
func decodeOptional(r *http.Request, v any) error {
	err := json.NewDecoder(r.Body).Decode(v)
	if errors.Is(err, io.EOF) {
		return nil
	}
	return err
}
