package core

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAddComment(t *testing.T) {
	c, mock, _ := setupCore(t)
	ctx := context.Background()

	mock.ExpectBegin()
	mock.ExpectQuery(q(`SELECT EXISTS (SELECT 1 FROM posts WHERE id = $1)`)).
		WithArgs(7).
		WillReturnRows(existsRows(true))
	mock.ExpectQuery(q(`INSERT INTO comments (post_id, author_id, text)`)).
		WithArgs(7, following.ID, "тестовый комментарий").
		WillReturnRows(sqlmock.NewRows([]string{"id", "post_id", "author_id", "text", "created_at"}).
			AddRow(1, 7, following.ID, "тестовый комментарий", time.Now()))
	mock.ExpectCommit()

	comment, err := c.AddComment(ctx, following, 7, "  тестовый комментарий \n")
	require.NoError(t, err)
	assert.Equal(t, "тестовый комментарий", comment.Text)
	assert.Equal(t, "following", comment.Author.Username)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestAddComment_AnonymousLeavesThreadUntouched(t *testing.T) {
	c, mock, _ := setupCore(t)

	_, err := c.AddComment(context.Background(), nil, 7, "комментарий от гостя")
	assert.ErrorIs(t, err, ErrUnauthorized)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestAddComment_BlankText(t *testing.T) {
	c, mock, _ := setupCore(t)

	_, err := c.AddComment(context.Background(), following, 7, "   ")
	var validationErr *ValidationError
	require.True(t, errors.As(err, &validationErr))
	assert.Contains(t, validationErr.Errors, "text")
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestAddComment_UnknownPostRollsBack(t *testing.T) {
	c, mock, _ := setupCore(t)

	mock.ExpectBegin()
	mock.ExpectQuery(q(`SELECT EXISTS (SELECT 1 FROM posts WHERE id = $1)`)).
		WithArgs(404).
		WillReturnRows(existsRows(false))
	mock.ExpectRollback()

	_, err := c.AddComment(context.Background(), following, 404, "text")
	assert.ErrorIs(t, err, NoRecordFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGetCommentsByPostID(t *testing.T) {
	c, mock, _ := setupCore(t)

	mock.ExpectQuery(q(`FROM comments c JOIN users u ON u.id = c.author_id`)).
		WithArgs(7).
		WillReturnRows(sqlmock.NewRows([]string{"id", "post_id", "author_id", "username", "text", "created_at"}).
			AddRow(1, 7, 2, "following", "первый", time.Now()).
			AddRow(2, 7, 1, "follower", "второй", time.Now()))

	comments, err := c.GetCommentsByPostID(context.Background(), 7)
	require.NoError(t, err)
	require.Len(t, comments, 2)
	assert.Equal(t, "первый", comments[0].Text)
	assert.EqualValues(t, 2, comments[0].Author.ID)
	assert.NoError(t, mock.ExpectationsWereMet())
}
