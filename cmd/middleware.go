package main

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/mdobak/go-xerrors"
	"github.com/siahsang/yatube/internal/auth"
	"github.com/siahsang/yatube/internal/core"
	"github.com/siahsang/yatube/internal/metrics"
)

const sessionCookieName = "session_token"

// authenticate attaches the user identified by the Authorization header ("Token <jwt>") or,
// failing that, the session cookie. A bad header is rejected; a stale cookie is ignored so
// the visitor stays anonymous and can log in again.
func (app *application) authenticate(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Add("Vary", "Authorization")
		w.Header().Add("Vary", "Cookie")

		authorization := r.Header.Get("Authorization")
		if authorization != "" {
			authorizationParts := strings.Split(authorization, " ")
			if len(authorizationParts) != 2 || authorizationParts[0] != "Token" {
				app.invalidAuthenticationTokenResponse(w, r, xerrors.New("Authentication header must be in the format 'Token <token>'"))
				return
			}

			user, err := app.userFromToken(r, authorizationParts[1])
			if err != nil {
				switch {
				case errors.Is(err, auth.ErrInvalidToken), errors.Is(err, core.NoRecordFound):
					app.invalidAuthenticationTokenResponse(w, r, err)
				default:
					app.internalErrorResponse(w, r, err)
				}
				return
			}
			r = app.auth.SetAuthenticatedUser(r, user)
		} else if cookie, err := r.Cookie(sessionCookieName); err == nil && cookie.Value != "" {
			user, err := app.userFromToken(r, cookie.Value)
			switch {
			case err == nil:
				r = app.auth.SetAuthenticatedUser(r, user)
			case errors.Is(err, auth.ErrInvalidToken), errors.Is(err, core.NoRecordFound):
				app.logger.Debug("Ignoring stale session cookie", "error", err.Error())
			default:
				app.internalErrorResponse(w, r, err)
				return
			}
		}

		next.ServeHTTP(w, r)
	})
}

func (app *application) userFromToken(r *http.Request, token string) (*auth.User, error) {
	claim, err := app.auth.Authenticate(token)
	if err != nil {
		return nil, err
	}

	user, err := app.core.GetUserByEmail(r.Context(), claim.Email)
	if err != nil {
		return nil, err
	}
	user.Token = token
	return user, nil
}

// requireAuthenticatedUser redirects anonymous visitors to the login page before next runs,
// so nothing is written on their behalf.
func (app *application) requireAuthenticatedUser(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if !app.auth.IsUserAuthenticated(r) {
			app.redirectToLogin(w, r)
			return
		}
		next(w, r)
	}
}

func (app *application) recoverPanic(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		defer func() {
			if err := recover(); err != nil {
				w.Header().Set("Connection", "close")
				app.internalErrorResponse(w, r, xerrors.New(fmt.Sprintf("%v", err)))
			}
		}()

		next.ServeHTTP(w, r)
	})
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (rec *statusRecorder) WriteHeader(status int) {
	rec.status = status
	rec.ResponseWriter.WriteHeader(status)
}

func (rec *statusRecorder) Unwrap() http.ResponseWriter {
	return rec.ResponseWriter
}

// logRequest tags each request with an id and records its outcome in the log and metrics.
func (app *application) logRequest(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()

		requestID := r.Header.Get("X-Request-ID")
		if requestID == "" {
			requestID = uuid.NewString()
		}
		w.Header().Set("X-Request-ID", requestID)

		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(rec, r)

		duration := time.Since(start)
		metrics.HTTPRequests.WithLabelValues(r.Method, strconv.Itoa(rec.status)).Inc()
		metrics.HTTPRequestDuration.WithLabelValues(r.Method).Observe(duration.Seconds())

		app.logger.Info("Request handled",
			"request_id", requestID,
			"method", r.Method,
			"path", r.URL.Path,
			"status", rec.status,
			"duration", duration.String())
	})
}
