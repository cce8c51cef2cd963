package main

import (
	"net/http"

	"github.com/julienschmidt/httprouter"
)

func (app *application) profileFollow(w http.ResponseWriter, r *http.Request) {
	username := httprouter.ParamsFromContext(r.Context()).ByName("username")

	if err := app.core.FollowUser(r.Context(), app.auth.Actor(r), username); err != nil {
		app.coreErrorResponse(w, r, err)
		return
	}

	app.redirect(w, r, profileURL(username))
}

func (app *application) profileUnfollow(w http.ResponseWriter, r *http.Request) {
	username := httprouter.ParamsFromContext(r.Context()).ByName("username")

	if err := app.core.UnfollowUser(r.Context(), app.auth.Actor(r), username); err != nil {
		app.coreErrorResponse(w, r, err)
		return
	}

	app.redirect(w, r, profileURL(username))
}
