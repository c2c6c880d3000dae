package rest

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"github.com/KotFed0t/portfolio_tracker_api/internal/converter/restConverter"
	"github.com/KotFed0t/portfolio_tracker_api/internal/model"
	"github.com/KotFed0t/portfolio_tracker_api/internal/service"
	"github.com/KotFed0t/portfolio_tracker_api/internal/transport/rest/middleware"
	"github.com/KotFed0t/portfolio_tracker_api/utils"
)

type credentialsRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

func (ctrl *Controller) Register(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	rqID := utils.GetRequestIDFromCtx(ctx)

	var req credentialsRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	req.Username = strings.TrimSpace(req.Username)
	if req.Username == "" || req.Password == "" {
		writeError(w, http.StatusBadRequest, "Username and password are required")
		return
	}

	userID, err := ctrl.service.RegisterUser(ctx, req.Username, req.Password)
	if err != nil {
		if errors.Is(err, service.ErrUserAlreadyExists) {
			writeError(w, http.StatusConflict, "A user with that username already exists")
			return
		}
		slog.Error("got error from service.RegisterUser", slog.String("rqID", rqID), slog.String("err", err.Error()))
		writeError(w, http.StatusInternalServerError, internalErrMsg)
		return
	}

	user := model.User{ID: userID, Username: req.Username}

	// log the user in right after registration
	if err := ctrl.createSession(ctx, w, user); err != nil {
		slog.Error("got error from session.SetSession", slog.String("rqID", rqID), slog.String("err", err.Error()))
		writeError(w, http.StatusInternalServerError, internalErrMsg)
		return
	}

	writeJSON(w, http.StatusCreated, restConverter.ConvertUser(user))
}

func (ctrl *Controller) Login(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	rqID := utils.GetRequestIDFromCtx(ctx)

	var req credentialsRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	req.Username = strings.TrimSpace(req.Username)
	if req.Username == "" || req.Password == "" {
		writeError(w, http.StatusBadRequest, "Username and password are required")
		return
	}

	user, err := ctrl.service.AuthenticateUser(ctx, req.Username, req.Password)
	if err != nil {
		if errors.Is(err, service.ErrInvalidCredentials) {
			writeError(w, http.StatusUnauthorized, "Invalid username or password")
			return
		}
		slog.Error("got error from service.AuthenticateUser", slog.String("rqID", rqID), slog.String("err", err.Error()))
		writeError(w, http.StatusInternalServerError, internalErrMsg)
		return
	}

	if err := ctrl.createSession(ctx, w, user); err != nil {
		slog.Error("got error from session.SetSession", slog.String("rqID", rqID), slog.String("err", err.Error()))
		writeError(w, http.StatusInternalServerError, internalErrMsg)
		return
	}

	writeJSON(w, http.StatusOK, restConverter.ConvertUser(user))
}

func (ctrl *Controller) Logout(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	rqID := utils.GetRequestIDFromCtx(ctx)

	cookie, err := r.Cookie(middleware.SessionCookieName)
	if err == nil {
		if err := ctrl.session.DeleteSession(ctx, cookie.Value); err != nil {
			slog.Error("got error from session.DeleteSession", slog.String("rqID", rqID), slog.String("err", err.Error()))
		}
	}

	clearSessionCookie(w)
	w.WriteHeader(http.StatusNoContent)
}
