package core

import (
	"context"
	"database/sql"

	"github.com/mdobak/go-xerrors"
	"github.com/siahsang/yatube/internal/auth"
	"github.com/siahsang/yatube/internal/utils/databaseutils"
	"github.com/siahsang/yatube/internal/validator"
	"github.com/siahsang/yatube/models"
)

const commentColumns = `c.id, c.post_id, c.author_id, u.username, c.text, c.created_at`

func scanComment(rows *sql.Rows) (*models.Comment, error) {
	var comment models.Comment
	if err := rows.Scan(&comment.ID, &comment.PostID, &comment.AuthorID, &comment.Author.Username,
		&comment.Text, &comment.CreatedAt); err != nil {
		return nil, xerrors.New(err)
	}
	comment.Author.ID = comment.AuthorID
	return &comment, nil
}

// AddComment appends a comment to the post's thread. Comments are not cached, so it is
// visible on the next read.
func (c *Core) AddComment(ctx context.Context, actor *auth.User, postID int64, text string) (*models.Comment, error) {
	if actor == nil {
		return nil, xerrors.New(ErrUnauthorized)
	}

	form := &CommentForm{Text: text}
	v := validator.New()
	form.Validate(v)
	if !v.IsValid() {
		return nil, xerrors.New(&ValidationError{Errors: v.Errors})
	}

	return databaseutils.DoTransactionally(ctx, c.session, func(txCtx context.Context) (*models.Comment, error) {
		existsSQL := `SELECT EXISTS (SELECT 1 FROM posts WHERE id = $1)`
		exists, err := databaseutils.ExecuteSingleQuery(txCtx, c.sqlTemplate, existsSQL, func(rows *sql.Rows) (bool, error) {
			var exists bool
			err := rows.Scan(&exists)
			return exists, err
		}, postID)
		if err != nil {
			return nil, xerrors.New(err)
		}
		if !exists {
			return nil, xerrors.New(NoRecordFound)
		}

		insertSQL := `
			INSERT INTO comments (post_id, author_id, text)
			VALUES ($1, $2, $3)
			RETURNING id, post_id, author_id, text, created_at
		`
		comment, err := databaseutils.ExecuteSingleQuery(txCtx, c.sqlTemplate, insertSQL, func(rows *sql.Rows) (*models.Comment, error) {
			var comment models.Comment
			if err := rows.Scan(&comment.ID, &comment.PostID, &comment.AuthorID, &comment.Text, &comment.CreatedAt); err != nil {
				return nil, xerrors.New(err)
			}
			return &comment, nil
		}, postID, actor.ID, form.Text)
		if err != nil {
			return nil, xerrors.New(err)
		}

		comment.Author = models.Author{ID: actor.ID, Username: actor.Username}
		c.log.Info("Comment added", "comment_id", comment.ID, "post_id", postID, "author_id", actor.ID)
		return comment, nil
	})
}

// GetCommentsByPostID returns the thread of a post, oldest first.
func (c *Core) GetCommentsByPostID(ctx context.Context, postID int64) ([]*models.Comment, error) {
	query := `
		SELECT ` + commentColumns + `
		FROM comments c JOIN users u ON u.id = c.author_id
		WHERE c.post_id = $1
		ORDER BY c.created_at, c.id
	`
	comments, err := databaseutils.ExecuteQuery(ctx, c.sqlTemplate, query, scanComment, postID)
	if err != nil {
		return nil, xerrors.New(err)
	}
	if comments == nil {
		comments = []*models.Comment{}
	}
	return comments, nil
}
