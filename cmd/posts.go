package main

import (
	"net/http"

	"github.com/siahsang/yatube/internal/core"
	"github.com/siahsang/yatube/models"
)

type formField struct {
	Name     string `json:"name"`
	Type     string `json:"type"`
	Required bool   `json:"required"`
}

// postFormDescription lists the post form fields; the group choices come from the store.
func postFormDescription(groups []*models.Group) envelope {
	return envelope{
		"fields": []formField{
			{Name: "text", Type: "text", Required: true},
			{Name: "group", Type: "choice", Required: false},
			{Name: "image", Type: "image", Required: false},
		},
		"groups": groups,
	}
}

func (app *application) postDetail(w http.ResponseWriter, r *http.Request) {
	postID, ok := app.readIDParam(r, "post_id")
	if !ok {
		app.notFoundResponse(w, r)
		return
	}

	detail, err := app.core.GetPostDetail(r.Context(), postID)
	if err != nil {
		app.coreErrorResponse(w, r, err)
		return
	}

	response := envelope{
		"post":               detail.Post,
		"comments":           detail.Comments,
		"author_posts_count": detail.AuthorPostsCount,
	}
	if err := app.writeJSON(w, http.StatusOK, response, nil); err != nil {
		app.internalErrorResponse(w, r, err)
	}
}

func (app *application) postCreateForm(w http.ResponseWriter, r *http.Request) {
	groups, err := app.core.ListGroups(r.Context())
	if err != nil {
		app.coreErrorResponse(w, r, err)
		return
	}

	if err := app.writeJSON(w, http.StatusOK, envelope{"form": postFormDescription(groups), "is_edit": false}, nil); err != nil {
		app.internalErrorResponse(w, r, err)
	}
}

// postCreate publishes the post and sends the author to their profile.
func (app *application) postCreate(w http.ResponseWriter, r *http.Request) {
	var form core.PostForm
	if err := app.readJSON(w, r, &form); err != nil {
		app.badRequestResponse(w, r, &AppError{
			ErrorMessage: err.Error(),
			ErrorStack:   err,
		})
		return
	}

	actor := app.auth.Actor(r)
	if _, err := app.core.CreatePost(r.Context(), actor, &form); err != nil {
		app.coreErrorResponse(w, r, err)
		return
	}

	app.redirect(w, r, profileURL(actor.Username))
}

func (app *application) postEditForm(w http.ResponseWriter, r *http.Request) {
	postID, ok := app.readIDParam(r, "post_id")
	if !ok {
		app.notFoundResponse(w, r)
		return
	}

	post, err := app.core.GetPostByID(r.Context(), postID)
	if err != nil {
		app.coreErrorResponse(w, r, err)
		return
	}
	if post.AuthorID != app.auth.Actor(r).ID {
		app.forbiddenResponse(w, r, core.ErrForbidden)
		return
	}

	groups, err := app.core.ListGroups(r.Context())
	if err != nil {
		app.coreErrorResponse(w, r, err)
		return
	}

	response := envelope{"form": postFormDescription(groups), "post": post, "is_edit": true}
	if err := app.writeJSON(w, http.StatusOK, response, nil); err != nil {
		app.internalErrorResponse(w, r, err)
	}
}

func (app *application) postEdit(w http.ResponseWriter, r *http.Request) {
	postID, ok := app.readIDParam(r, "post_id")
	if !ok {
		app.notFoundResponse(w, r)
		return
	}

	var form core.PostForm
	if err := app.readJSON(w, r, &form); err != nil {
		app.badRequestResponse(w, r, &AppError{
			ErrorMessage: err.Error(),
			ErrorStack:   err,
		})
		return
	}

	post, err := app.core.EditPost(r.Context(), app.auth.Actor(r), postID, &form)
	if err != nil {
		app.coreErrorResponse(w, r, err)
		return
	}

	app.redirect(w, r, postURL(post.ID))
}
