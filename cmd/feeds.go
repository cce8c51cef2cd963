package main

import (
	"net/http"

	"github.com/julienschmidt/httprouter"
	"github.com/siahsang/yatube/models"
)

// index serves the global feed from the page cache; the body may be up to PAGE_CACHE_TTL old.
func (app *application) index(w http.ResponseWriter, r *http.Request) {
	body, err := app.core.RenderGlobalFeed(r.Context(), app.readPage(r), func(page *models.PostPage) ([]byte, error) {
		return renderJSON(envelope{"page_obj": page})
	})
	if err != nil {
		app.coreErrorResponse(w, r, err)
		return
	}

	if err := app.writeBody(w, http.StatusOK, body, nil); err != nil {
		app.internalErrorResponse(w, r, err)
	}
}

func (app *application) groupPosts(w http.ResponseWriter, r *http.Request) {
	slug := httprouter.ParamsFromContext(r.Context()).ByName("slug")

	group, page, err := app.core.GroupFeed(r.Context(), slug, app.readPage(r))
	if err != nil {
		app.coreErrorResponse(w, r, err)
		return
	}

	if err := app.writeJSON(w, http.StatusOK, envelope{"group": group, "page_obj": page}, nil); err != nil {
		app.internalErrorResponse(w, r, err)
	}
}

func (app *application) profile(w http.ResponseWriter, r *http.Request) {
	username := httprouter.ParamsFromContext(r.Context()).ByName("username")

	author, page, err := app.core.ProfileFeed(r.Context(), app.auth.Actor(r), username, app.readPage(r))
	if err != nil {
		app.coreErrorResponse(w, r, err)
		return
	}

	if err := app.writeJSON(w, http.StatusOK, envelope{"author": author, "page_obj": page}, nil); err != nil {
		app.internalErrorResponse(w, r, err)
	}
}

func (app *application) followIndex(w http.ResponseWriter, r *http.Request) {
	page, err := app.core.FollowingFeed(r.Context(), app.auth.Actor(r), app.readPage(r))
	if err != nil {
		app.coreErrorResponse(w, r, err)
		return
	}

	if err := app.writeJSON(w, http.StatusOK, envelope{"page_obj": page}, nil); err != nil {
		app.internalErrorResponse(w, r, err)
	}
}
