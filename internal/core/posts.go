package core

import (
	"context"
	"database/sql"
	"errors"

	"github.com/mdobak/go-xerrors"
	"github.com/siahsang/yatube/internal/auth"
	"github.com/siahsang/yatube/internal/utils/databaseutils"
	"github.com/siahsang/yatube/internal/validator"
	"github.com/siahsang/yatube/models"
)

const (
	postColumns = `p.id, p.text, p.created_at, p.image, p.author_id, u.username, g.id, g.title, g.slug, g.description`
	postFrom    = `FROM posts p JOIN users u ON u.id = p.author_id LEFT JOIN groups g ON g.id = p.group_id`
)

func scanPost(rows *sql.Rows) (*models.Post, error) {
	var (
		post             models.Post
		groupID          sql.NullInt64
		title, slug, dsc sql.NullString
	)
	if err := rows.Scan(&post.ID, &post.Text, &post.CreatedAt, &post.Image, &post.AuthorID,
		&post.Author.Username, &groupID, &title, &slug, &dsc); err != nil {
		return nil, xerrors.New(err)
	}

	post.Author.ID = post.AuthorID
	if groupID.Valid {
		post.GroupID = &groupID.Int64
		post.Group = &models.Group{ID: groupID.Int64, Title: title.String, Slug: slug.String, Description: dsc.String}
	}
	return &post, nil
}

func (c *Core) GetPostByID(ctx context.Context, postID int64) (*models.Post, error) {
	query := `SELECT ` + postColumns + ` ` + postFrom + ` WHERE p.id = $1`

	post, err := databaseutils.ExecuteSingleQuery(ctx, c.sqlTemplate, query, scanPost, postID)
	if err != nil {
		switch {
		case errors.Is(err, sql.ErrNoRows):
			return nil, xerrors.New(NoRecordFound)
		default:
			return nil, xerrors.New(err)
		}
	}
	return post, nil
}

// GetPostDetail returns a post with its comment thread and the author's total post count.
func (c *Core) GetPostDetail(ctx context.Context, postID int64) (*models.PostDetail, error) {
	post, err := c.GetPostByID(ctx, postID)
	if err != nil {
		return nil, err
	}

	comments, err := c.GetCommentsByPostID(ctx, postID)
	if err != nil {
		return nil, err
	}

	postsCount, err := c.countPosts(ctx, `p.author_id = $1`, post.AuthorID)
	if err != nil {
		return nil, err
	}

	return &models.PostDetail{
		Post:             post,
		Comments:         comments,
		AuthorPostsCount: postsCount,
	}, nil
}

// CreatePost publishes a post on behalf of actor.
func (c *Core) CreatePost(ctx context.Context, actor *auth.User, form *PostForm) (*models.Post, error) {
	if actor == nil {
		return nil, xerrors.New(ErrUnauthorized)
	}

	group, err := c.cleanPostForm(ctx, form)
	if err != nil {
		return nil, err
	}

	image, err := c.saveImage(ctx, form.Image)
	if err != nil {
		return nil, err
	}

	post := &models.Post{
		Text:     form.Text,
		AuthorID: actor.ID,
		Image:    image,
		Author:   models.Author{ID: actor.ID, Username: actor.Username},
		Group:    group,
	}
	if group != nil {
		post.GroupID = &group.ID
	}

	insertSQL := `
		INSERT INTO posts (text, author_id, group_id, image)
		VALUES ($1, $2, $3, $4)
		RETURNING id, created_at
	`
	_, err = databaseutils.ExecuteSingleQuery(ctx, c.sqlTemplate, insertSQL, func(rows *sql.Rows) (*models.Post, error) {
		if err := rows.Scan(&post.ID, &post.CreatedAt); err != nil {
			return nil, xerrors.New(err)
		}
		return post, nil
	}, post.Text, post.AuthorID, post.GroupID, post.Image)
	if err != nil {
		return nil, xerrors.New(err)
	}

	c.log.Info("Post created", "post_id", post.ID, "author_id", actor.ID)
	return post, nil
}

// EditPost replaces text and group of a post owned by actor. The stored image is kept unless
// the form carries a new one.
func (c *Core) EditPost(ctx context.Context, actor *auth.User, postID int64, form *PostForm) (*models.Post, error) {
	if actor == nil {
		return nil, xerrors.New(ErrUnauthorized)
	}

	post, err := c.GetPostByID(ctx, postID)
	if err != nil {
		return nil, err
	}
	if post.AuthorID != actor.ID {
		return nil, xerrors.New(ErrForbidden)
	}

	group, err := c.cleanPostForm(ctx, form)
	if err != nil {
		return nil, err
	}

	if len(form.Image) > 0 {
		post.Image, err = c.saveImage(ctx, form.Image)
		if err != nil {
			return nil, err
		}
	}

	post.Text = form.Text
	post.Group = group
	post.GroupID = nil
	if group != nil {
		post.GroupID = &group.ID
	}

	updateSQL := `
		UPDATE posts
		SET text = $1, group_id = $2, image = $3
		WHERE id = $4 AND author_id = $5
	`
	affected, err := databaseutils.ExecuteUpdate(ctx, c.sqlTemplate, updateSQL, post.Text, post.GroupID, post.Image, post.ID, actor.ID)
	if err != nil {
		return nil, xerrors.New(err)
	}
	if affected == 0 {
		return nil, xerrors.New(NoRecordFound)
	}

	c.log.Info("Post updated", "post_id", post.ID, "author_id", actor.ID)
	return post, nil
}

// cleanPostForm validates the form and resolves its group slug.
func (c *Core) cleanPostForm(ctx context.Context, form *PostForm) (*models.Group, error) {
	v := validator.New()
	form.Validate(v)

	var group *models.Group
	if form.Group != "" {
		g, err := c.GetGroupBySlug(ctx, form.Group)
		switch {
		case errors.Is(err, NoRecordFound):
			v.AddError("group", "Select a valid choice. That choice is not one of the available choices.")
		case err != nil:
			return nil, err
		default:
			group = g
		}
	}

	if !v.IsValid() {
		return nil, xerrors.New(&ValidationError{Errors: v.Errors})
	}
	return group, nil
}

func (c *Core) saveImage(ctx context.Context, data []byte) (*string, error) {
	if len(data) == 0 {
		return nil, nil
	}
	name, err := c.images.Save(ctx, data)
	if err != nil {
		return nil, xerrors.New(err)
	}
	return &name, nil
}
