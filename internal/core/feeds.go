package core

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/mdobak/go-xerrors"
	"github.com/siahsang/yatube/internal/auth"
	"github.com/siahsang/yatube/internal/filter"
	"github.com/siahsang/yatube/internal/utils/collectionutils"
	"github.com/siahsang/yatube/internal/utils/databaseutils"
	"github.com/siahsang/yatube/internal/utils/stringutils"
	"github.com/siahsang/yatube/internal/validator"
	"github.com/siahsang/yatube/models"
)

const feedOrder = `ORDER BY p.created_at DESC, p.id DESC`

// GlobalFeed returns one page of all posts, newest first.
func (c *Core) GlobalFeed(ctx context.Context, page int64) (*models.PostPage, error) {
	return c.listPosts(ctx, filter.NewFilter(page), `TRUE`)
}

// RenderGlobalFeed returns the rendered global feed page, memoized in the page cache for the
// configured TTL. New posts show up only once the entry expires or the cache is cleared.
// Cache failures degrade to an uncached render.
func (c *Core) RenderGlobalFeed(ctx context.Context, page int64, render func(*models.PostPage) ([]byte, error)) ([]byte, error) {
	f := filter.NewFilter(page)
	key := fmt.Sprintf("feed:global:page:%d", f.Page)

	cached, ok, err := c.pageCache.Get(ctx, key)
	if err != nil {
		c.log.Warn("Page cache lookup failed", "key", key, "error", err.Error())
	}
	if ok {
		return cached, nil
	}

	feed, err := c.GlobalFeed(ctx, f.Page)
	if err != nil {
		return nil, err
	}

	body, err := render(feed)
	if err != nil {
		return nil, xerrors.New(err)
	}

	if err := c.pageCache.Set(ctx, key, body, c.pageCacheTTL); err != nil {
		c.log.Warn("Page cache store failed", "key", key, "error", err.Error())
	}
	return body, nil
}

// ClearPageCache drops every memoized page.
func (c *Core) ClearPageCache(ctx context.Context) error {
	if err := c.pageCache.Clear(ctx); err != nil {
		return xerrors.New(err)
	}
	return nil
}

// GroupFeed returns one page of the posts published in the group with the given slug.
func (c *Core) GroupFeed(ctx context.Context, slug string, page int64) (*models.Group, *models.PostPage, error) {
	group, err := c.GetGroupBySlug(ctx, slug)
	if err != nil {
		return nil, nil, err
	}

	posts, err := c.listPosts(ctx, filter.NewFilter(page), `p.group_id = $1`, group.ID)
	if err != nil {
		return nil, nil, err
	}
	return group, posts, nil
}

// ProfileFeed returns the author's posts together with the profile counters and whether
// visitor (nil for anonymous) follows the author.
func (c *Core) ProfileFeed(ctx context.Context, visitor *auth.User, username string, page int64) (*models.Profile, *models.PostPage, error) {
	author, err := c.GetUserByUsername(ctx, username)
	if err != nil {
		return nil, nil, err
	}

	posts, err := c.listPosts(ctx, filter.NewFilter(page), `p.author_id = $1`, author.ID)
	if err != nil {
		return nil, nil, err
	}

	followingCount, followersCount, err := c.FollowCounts(ctx, author.ID)
	if err != nil {
		return nil, nil, err
	}

	following, err := c.IsFollowing(ctx, visitor, author)
	if err != nil {
		return nil, nil, err
	}

	profile := &models.Profile{
		ID:             author.ID,
		Username:       author.Username,
		PostsCount:     posts.Metadata.TotalRecords,
		FollowingCount: followingCount,
		FollowersCount: followersCount,
		Following:      following,
	}
	return profile, posts, nil
}

// FollowingFeed returns posts of the authors actor follows. It is empty when actor follows
// nobody.
func (c *Core) FollowingFeed(ctx context.Context, actor *auth.User, page int64) (*models.PostPage, error) {
	if actor == nil {
		return nil, xerrors.New(ErrUnauthorized)
	}

	authors, err := c.FollowedAuthors(ctx, actor)
	if err != nil {
		return nil, err
	}

	f := filter.NewFilter(page)
	if len(authors) == 0 {
		return emptyPage(f, 0), nil
	}

	authorIDs := collectionutils.Map(authors, func(u *auth.User) int64 { return u.ID })
	placeholders, args := stringutils.INClause(authorIDs, 0)
	where := fmt.Sprintf(`p.author_id IN (%s)`, strings.Join(placeholders, ", "))

	return c.listPosts(ctx, f, where, args...)
}

func emptyPage(f filter.Filter, total int64) *models.PostPage {
	return &models.PostPage{
		Posts:    []*models.Post{},
		Metadata: filter.CalculateMetadata(f, total),
	}
}

func (c *Core) countPosts(ctx context.Context, where string, args ...any) (int64, error) {
	query := `SELECT count(*) FROM posts p WHERE ` + where

	total, err := databaseutils.ExecuteSingleQuery(ctx, c.sqlTemplate, query, func(rows *sql.Rows) (int64, error) {
		var total int64
		if err := rows.Scan(&total); err != nil {
			return 0, xerrors.New(err)
		}
		return total, nil
	}, args...)
	if err != nil {
		return 0, xerrors.New(err)
	}
	return total, nil
}

// listPosts selects the page f of posts matching where, whose placeholders are bound to args.
// A page past the end, or one too large to address, is returned empty without querying the rows.
func (c *Core) listPosts(ctx context.Context, f filter.Filter, where string, args ...any) (*models.PostPage, error) {
	total, err := c.countPosts(ctx, where, args...)
	if err != nil {
		return nil, err
	}
	v := validator.New()
	filter.ValidateFilter(v, f)
	if !v.IsValid() || f.Offset() >= total {
		return emptyPage(f, total), nil
	}

	query := fmt.Sprintf(`SELECT %s %s WHERE %s %s LIMIT $%d OFFSET $%d`,
		postColumns, postFrom, where, feedOrder, len(args)+1, len(args)+2)
	pageArgs := append(append([]any{}, args...), f.Limit(), f.Offset())

	posts, err := databaseutils.ExecuteQuery(ctx, c.sqlTemplate, query, scanPost, pageArgs...)
	if err != nil {
		return nil, xerrors.New(err)
	}
	if posts == nil {
		posts = []*models.Post{}
	}

	return &models.PostPage{
		Posts:    posts,
		Metadata: filter.CalculateMetadata(f, total),
	}, nil
}
