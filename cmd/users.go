package main

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/siahsang/yatube/internal/auth"
	"github.com/siahsang/yatube/internal/core"
	"github.com/siahsang/yatube/internal/validator"
)

func (app *application) signup(w http.ResponseWriter, r *http.Request) {
	type registerUserPayload struct {
		Email    string `json:"email"`
		Username string `json:"username"`
		Password string `json:"password"`
	}

	type RegisterUserRequest struct {
		registerUserPayload `json:"user"`
	}

	var registerUserRequest RegisterUserRequest

	if err := app.readJSON(w, r, &registerUserRequest); err != nil {
		app.badRequestResponse(w, r, &AppError{
			ErrorMessage: err.Error(),
			ErrorStack:   err,
		})
		return
	}

	user := &auth.User{
		Email:    strings.TrimSpace(registerUserRequest.Email),
		Username: strings.TrimSpace(registerUserRequest.Username),
	}

	v := validator.New()
	checkEmail(v, user.Email)

	// check username
	v.CheckNotBlank(user.Username, "username", "must be provided")
	v.CheckMaxLength(user.Username, 150, "username", "must not be more than 150 characters long")
	v.CheckSlug(user.Username, "username", "may contain only letters, numbers, underscores or hyphens")

	// check password
	v.CheckNotBlank(registerUserRequest.Password, "password", "must be provided")
	v.Check(len(registerUserRequest.Password) >= 8, "password", "must be at least 8 characters long")
	v.Check(len(registerUserRequest.Password) <= 72, "password", "must not be more than 72 bytes long")

	if !v.IsValid() {
		app.failedValidationResponse(w, r, v.Errors)
		return
	}

	if err := user.SetPassword(registerUserRequest.Password); err != nil {
		app.internalErrorResponse(w, r, err)
		return
	}

	err := app.core.CreateNewUser(r.Context(), user)
	if err != nil {
		switch {
		case errors.Is(err, core.ErrDuplicateEmail):
			v.AddError("email", "Email address is already in use")
			app.failedValidationResponse(w, r, v.Errors)
		case errors.Is(err, core.ErrDuplicateUsername):
			v.AddError("username", "Username is already in use")
			app.failedValidationResponse(w, r, v.Errors)
		default:
			app.internalErrorResponse(w, r, err)
		}
		return
	}

	app.issueToken(w, r, user, http.StatusCreated)
}

// loginForm describes the login form and echoes the page to return to.
func (app *application) loginForm(w http.ResponseWriter, r *http.Request) {
	next, _ := safeNext(r.URL.Query().Get("next"))

	response := envelope{
		"form": envelope{
			"fields": []formField{
				{Name: "email", Type: "email", Required: true},
				{Name: "password", Type: "password", Required: true},
			},
		},
		"next": next,
	}
	if err := app.writeJSON(w, http.StatusOK, response, nil); err != nil {
		app.internalErrorResponse(w, r, err)
	}
}

// login issues a token and sets the session cookie. With a valid "next" query parameter the
// client is redirected there, otherwise the user is returned.
func (app *application) login(w http.ResponseWriter, r *http.Request) {
	type loginUserPayload struct {
		Email    string `json:"email"`
		Password string `json:"password"`
	}

	type LoginUserRequest struct {
		loginUserPayload `json:"user"`
	}

	var loginUserRequest LoginUserRequest

	if err := app.readJSON(w, r, &loginUserRequest); err != nil {
		app.badRequestResponse(w, r, &AppError{
			ErrorMessage: err.Error(),
			ErrorStack:   err,
		})
		return
	}

	v := validator.New()
	checkEmail(v, loginUserRequest.Email)
	v.CheckNotBlank(loginUserRequest.Password, "password", "must be provided")

	if !v.IsValid() {
		app.failedValidationResponse(w, r, v.Errors)
		return
	}

	user, err := app.core.GetUserByEmail(r.Context(), loginUserRequest.Email)
	if err != nil {
		switch {
		case errors.Is(err, core.NoRecordFound):
			app.invalidCredentialsResponse(w, r)
		default:
			app.internalErrorResponse(w, r, err)
		}
		return
	}

	match, err := user.IsPasswordMatch(loginUserRequest.Password)
	if err != nil {
		app.internalErrorResponse(w, r, err)
		return
	}
	if !match {
		app.invalidCredentialsResponse(w, r)
		return
	}

	if next, ok := safeNext(r.URL.Query().Get("next")); ok {
		if _, err := app.setSessionCookie(w, user); err != nil {
			app.internalErrorResponse(w, r, err)
			return
		}
		app.redirect(w, r, next)
		return
	}

	app.issueToken(w, r, user, http.StatusOK)
}

func (app *application) issueToken(w http.ResponseWriter, r *http.Request, user *auth.User, status int) {
	token, err := app.setSessionCookie(w, user)
	if err != nil {
		app.internalErrorResponse(w, r, err)
		return
	}

	user.Token = token
	if err := app.writeJSON(w, status, envelope{"user": user}, nil); err != nil {
		app.internalErrorResponse(w, r, err)
	}
}

func (app *application) setSessionCookie(w http.ResponseWriter, user *auth.User) (string, error) {
	token, err := app.auth.GenerateToken(user)
	if err != nil {
		return "", err
	}

	http.SetCookie(w, &http.Cookie{
		Name:     sessionCookieName,
		Value:    token,
		Path:     "/",
		Expires:  time.Now().Add(app.auth.TokenTTL()),
		HttpOnly: true,
		Secure:   app.config.IsProduction(),
		SameSite: http.SameSiteLaxMode,
	})
	return token, nil
}

func checkEmail(v *validator.Validator, email string) {
	v.CheckNotBlank(email, "email", "must be provided")
	v.CheckEmail(email, "must be a valid email address")
}
