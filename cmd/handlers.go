package main

import (
	"net/http"

	"github.com/julienschmidt/httprouter"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

func (app *application) routes() http.Handler {
	router := httprouter.New()

	router.NotFound = http.HandlerFunc(app.notFoundResponse)
	router.MethodNotAllowed = http.HandlerFunc(app.methodNotAllowedResponse)

	// Not require authentication for these routes
	router.HandlerFunc(http.MethodGet, "/", app.index)
	router.HandlerFunc(http.MethodGet, "/group/:slug/", app.groupPosts)
	router.HandlerFunc(http.MethodGet, "/profile/:username/", app.profile)
	router.HandlerFunc(http.MethodGet, "/posts/:post_id/", app.postDetail)
	router.HandlerFunc(http.MethodPost, "/auth/signup/", app.signup)
	router.HandlerFunc(http.MethodGet, "/auth/login/", app.loginForm)
	router.HandlerFunc(http.MethodPost, "/auth/login/", app.login)
	router.ServeFiles("/media/*filepath", http.Dir(app.config.MediaRoot))
	router.Handler(http.MethodGet, "/metrics", promhttp.Handler())

	// Require authentication for these routes
	router.HandlerFunc(http.MethodGet, "/create/", app.requireAuthenticatedUser(app.postCreateForm))
	router.HandlerFunc(http.MethodPost, "/create/", app.requireAuthenticatedUser(app.postCreate))
	router.HandlerFunc(http.MethodGet, "/posts/:post_id/edit/", app.requireAuthenticatedUser(app.postEditForm))
	router.HandlerFunc(http.MethodPost, "/posts/:post_id/edit/", app.requireAuthenticatedUser(app.postEdit))
	router.HandlerFunc(http.MethodPost, "/posts/:post_id/comment/", app.requireAuthenticatedUser(app.addComment))
	router.HandlerFunc(http.MethodGet, "/follow/", app.requireAuthenticatedUser(app.followIndex))
	router.HandlerFunc(http.MethodGet, "/profile/:username/follow/", app.requireAuthenticatedUser(app.profileFollow))
	router.HandlerFunc(http.MethodGet, "/profile/:username/unfollow/", app.requireAuthenticatedUser(app.profileUnfollow))

	return app.recoverPanic(app.logRequest(app.authenticate(router)))
}
