package main

import (
	"net/http"

	"github.com/siahsang/yatube/internal/core"
)

// addComment appends to the post's thread and returns the visitor to the post.
func (app *application) addComment(w http.ResponseWriter, r *http.Request) {
	postID, ok := app.readIDParam(r, "post_id")
	if !ok {
		app.notFoundResponse(w, r)
		return
	}

	var form core.CommentForm
	if err := app.readJSON(w, r, &form); err != nil {
		app.badRequestResponse(w, r, &AppError{
			ErrorMessage: err.Error(),
			ErrorStack:   err,
		})
		return
	}

	if _, err := app.core.AddComment(r.Context(), app.auth.Actor(r), postID, form.Text); err != nil {
		app.coreErrorResponse(w, r, err)
		return
	}

	app.redirect(w, r, postURL(postID))
}
