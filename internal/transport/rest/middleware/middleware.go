package middleware

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/KotFed0t/portfolio_tracker_api/data/session"
	"github.com/KotFed0t/portfolio_tracker_api/internal/model"
	"github.com/KotFed0t/portfolio_tracker_api/utils"
	"github.com/google/uuid"
)

const SessionCookieName = "session_token"

type Session interface {
	GetSession(ctx context.Context, token string) (model.Session, error)
	RefreshSession(ctx context.Context, token string) error
}

func Logger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		now := time.Now()

		rqID := uuid.NewString()
		ctx := utils.CtxWithRqID(r.Context(), rqID)

		slog.Info(
			"start request",
			slog.String("rqID", rqID),
			slog.String("method", r.Method),
			slog.String("path", r.URL.Path),
		)

		defer func() {
			slog.Info(
				"request finished",
				slog.String("rqID", rqID),
				slog.String("request duration", fmt.Sprintf("%.2fs", time.Since(now).Seconds())),
			)
		}()

		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// Auth resolves the session cookie into a user and puts the user id into the
// request context. Requests without a live session get 401.
func Auth(sessionStore Session) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx := r.Context()
			rqID := utils.GetRequestIDFromCtx(ctx)

			cookie, err := r.Cookie(SessionCookieName)
			if err != nil {
				writeUnauthorized(w)
				return
			}

			userSession, err := sessionStore.GetSession(ctx, cookie.Value)
			if err != nil {
				if !errors.Is(err, session.ErrNotFound) {
					slog.Error("got error from session.GetSession", slog.String("rqID", rqID), slog.String("err", err.Error()))
				}
				writeUnauthorized(w)
				return
			}

			// sliding expiration
			go sessionStore.RefreshSession(context.WithoutCancel(ctx), cookie.Value)

			next.ServeHTTP(w, r.WithContext(utils.CtxWithUserID(ctx, userSession.UserID)))
		})
	}
}

func writeUnauthorized(w http.ResponseWriter) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusUnauthorized)
	_, _ = w.Write([]byte(`{"error": "authentication required"}`))
}
