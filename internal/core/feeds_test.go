package core

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/siahsang/yatube/internal/auth"
	"github.com/siahsang/yatube/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var (
	user       = &auth.User{ID: 1, Username: "User"}
	secondUser = &auth.User{ID: 2, Username: "Second_User"}
)

func TestGlobalFeed_Pagination(t *testing.T) {
	c, mock, _ := setupCore(t)
	ctx := context.Background()

	// 13 posts in the first group plus 2 in the second.
	mock.ExpectQuery(q(`SELECT count(*) FROM posts p WHERE TRUE`)).WillReturnRows(countRows(15))
	mock.ExpectQuery(q(`ORDER BY p.created_at DESC, p.id DESC LIMIT $1 OFFSET $2`)).
		WithArgs(10, 0).
		WillReturnRows(postRows(10, 15, user, "test-slug"))

	mock.ExpectQuery(q(`SELECT count(*) FROM posts p WHERE TRUE`)).WillReturnRows(countRows(15))
	mock.ExpectQuery(q(`ORDER BY p.created_at DESC, p.id DESC LIMIT $1 OFFSET $2`)).
		WithArgs(10, 10).
		WillReturnRows(postRows(5, 5, user, "test-slug"))

	mock.ExpectQuery(q(`SELECT count(*) FROM posts p WHERE TRUE`)).WillReturnRows(countRows(15))

	first, err := c.GlobalFeed(ctx, 1)
	require.NoError(t, err)
	assert.Len(t, first.Posts, 10)
	assert.True(t, first.Metadata.HasNext)
	assert.Equal(t, "test-slug", first.Posts[0].Group.Slug)

	second, err := c.GlobalFeed(ctx, 2)
	require.NoError(t, err)
	assert.Len(t, second.Posts, 5)
	assert.False(t, second.Metadata.HasNext)

	beyond, err := c.GlobalFeed(ctx, 3)
	require.NoError(t, err)
	assert.Empty(t, beyond.Posts)
	assert.NotNil(t, beyond.Posts)

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGlobalFeed_EmptyStore(t *testing.T) {
	c, mock, _ := setupCore(t)
	mock.ExpectQuery(q(`SELECT count(*) FROM posts p WHERE TRUE`)).WillReturnRows(countRows(0))

	page, err := c.GlobalFeed(context.Background(), 1)
	require.NoError(t, err)
	assert.Empty(t, page.Posts)
	assert.EqualValues(t, 1, page.Metadata.CurrentPage)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func renderJSON(page *models.PostPage) ([]byte, error) {
	return json.Marshal(page)
}

func TestRenderGlobalFeed_ServesCachedBytesUntilCleared(t *testing.T) {
	c, mock, _ := setupCore(t)
	ctx := context.Background()

	mock.ExpectQuery(q(`SELECT count(*) FROM posts p WHERE TRUE`)).WillReturnRows(countRows(1))
	mock.ExpectQuery(q(`LIMIT $1 OFFSET $2`)).WithArgs(10, 0).WillReturnRows(postRows(1, 1, user, ""))

	first, err := c.RenderGlobalFeed(ctx, 1, renderJSON)
	require.NoError(t, err)

	// A post created now is not visible: no query reaches the store inside the window.
	again, err := c.RenderGlobalFeed(ctx, 1, renderJSON)
	require.NoError(t, err)
	assert.Equal(t, first, again)
	require.NoError(t, mock.ExpectationsWereMet())

	require.NoError(t, c.ClearPageCache(ctx))
	mock.ExpectQuery(q(`SELECT count(*) FROM posts p WHERE TRUE`)).WillReturnRows(countRows(2))
	mock.ExpectQuery(q(`LIMIT $1 OFFSET $2`)).WithArgs(10, 0).WillReturnRows(postRows(2, 2, user, ""))

	fresh, err := c.RenderGlobalFeed(ctx, 1, renderJSON)
	require.NoError(t, err)
	assert.NotEqual(t, first, fresh)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGroupFeed(t *testing.T) {
	c, mock, _ := setupCore(t)
	ctx := context.Background()

	mock.ExpectQuery(q(`FROM groups g WHERE g.slug = $1`)).
		WithArgs("test-slug-second").
		WillReturnRows(sqlmock.NewRows([]string{"id", "title", "slug", "description"}).
			AddRow(2, "Вторая группа", "test-slug-second", "Описание группы два"))
	mock.ExpectQuery(q(`SELECT count(*) FROM posts p WHERE p.group_id = $1`)).
		WithArgs(2).
		WillReturnRows(countRows(2))
	mock.ExpectQuery(q(`WHERE p.group_id = $1 ORDER BY p.created_at DESC, p.id DESC LIMIT $2 OFFSET $3`)).
		WithArgs(2, 10, 0).
		WillReturnRows(postRows(2, 15, secondUser, "test-slug-second"))

	group, page, err := c.GroupFeed(ctx, "test-slug-second", 1)
	require.NoError(t, err)
	assert.Equal(t, "Вторая группа", group.Title)
	assert.Len(t, page.Posts, 2)

	mock.ExpectQuery(q(`FROM groups g WHERE g.slug = $1`)).
		WithArgs("missing").
		WillReturnRows(sqlmock.NewRows([]string{"id", "title", "slug", "description"}))
	_, _, err = c.GroupFeed(ctx, "missing", 1)
	assert.ErrorIs(t, err, NoRecordFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestProfileFeed(t *testing.T) {
	c, mock, _ := setupCore(t)
	ctx := context.Background()

	expectUserLookup(mock, secondUser)
	mock.ExpectQuery(q(`SELECT count(*) FROM posts p WHERE p.author_id = $1`)).
		WithArgs(secondUser.ID).
		WillReturnRows(countRows(2))
	mock.ExpectQuery(q(`WHERE p.author_id = $1 ORDER BY`)).
		WithArgs(secondUser.ID, 10, 0).
		WillReturnRows(postRows(2, 15, secondUser, ""))
	mock.ExpectQuery(q(`SELECT count(*) FROM follows WHERE user_id = $1`)).
		WithArgs(secondUser.ID).
		WillReturnRows(sqlmock.NewRows([]string{"following", "followers"}).AddRow(3, 1))
	mock.ExpectQuery(q(`SELECT 1 FROM follows WHERE user_id = $1 AND author_id = $2`)).
		WithArgs(user.ID, secondUser.ID).
		WillReturnRows(existsRows(true))

	profile, page, err := c.ProfileFeed(ctx, user, secondUser.Username, 1)
	require.NoError(t, err)
	assert.Len(t, page.Posts, 2)
	assert.Equal(t, "Second_User", profile.Username)
	assert.EqualValues(t, 2, profile.PostsCount)
	assert.EqualValues(t, 3, profile.FollowingCount)
	assert.EqualValues(t, 1, profile.FollowersCount)
	assert.True(t, profile.Following)

	mock.ExpectQuery(q(`FROM users u WHERE u.username = $1`)).
		WithArgs("nobody").
		WillReturnRows(userRows())
	_, _, err = c.ProfileFeed(ctx, nil, "nobody", 1)
	assert.ErrorIs(t, err, NoRecordFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestFollowingFeed(t *testing.T) {
	c, mock, _ := setupCore(t)
	ctx := context.Background()

	t.Run("anonymous", func(t *testing.T) {
		_, err := c.FollowingFeed(ctx, nil, 1)
		assert.ErrorIs(t, err, ErrUnauthorized)
	})

	t.Run("following nobody", func(t *testing.T) {
		mock.ExpectQuery(q(`FROM follows f JOIN users u`)).
			WithArgs(user.ID).
			WillReturnRows(userRows())

		page, err := c.FollowingFeed(ctx, user, 1)
		require.NoError(t, err)
		assert.Empty(t, page.Posts)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("posts of followed authors only", func(t *testing.T) {
		third := &auth.User{ID: 3, Username: "third"}
		mock.ExpectQuery(q(`FROM follows f JOIN users u`)).
			WithArgs(user.ID).
			WillReturnRows(userRows(secondUser, third))
		mock.ExpectQuery(q(`SELECT count(*) FROM posts p WHERE p.author_id IN ($1, $2)`)).
			WithArgs(secondUser.ID, third.ID).
			WillReturnRows(countRows(2))
		mock.ExpectQuery(q(`WHERE p.author_id IN ($1, $2) ORDER BY p.created_at DESC, p.id DESC LIMIT $3 OFFSET $4`)).
			WithArgs(secondUser.ID, third.ID, 10, 0).
			WillReturnRows(postRows(2, 15, secondUser, ""))

		page, err := c.FollowingFeed(ctx, user, 1)
		require.NoError(t, err)
		require.Len(t, page.Posts, 2)
		for _, p := range page.Posts {
			assert.Equal(t, secondUser.ID, p.Author.ID)
		}
		assert.True(t, page.Posts[0].CreatedAt.After(page.Posts[1].CreatedAt))
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}
