package core

import (
	"context"
	"database/sql"

	"github.com/mdobak/go-xerrors"
	"github.com/siahsang/yatube/internal/auth"
	"github.com/siahsang/yatube/internal/metrics"
	"github.com/siahsang/yatube/internal/utils/databaseutils"
)

// FollowUser makes actor follow the author named username. Following yourself and following
// an author twice are silent no-ops. The unique_follow constraint is the final guard against
// concurrent duplicates; the IsFollowing check only saves the insert.
func (c *Core) FollowUser(ctx context.Context, actor *auth.User, username string) error {
	if actor == nil {
		return xerrors.New(ErrUnauthorized)
	}

	author, err := c.GetUserByUsername(ctx, username)
	if err != nil {
		return xerrors.New(err)
	}

	if author.ID == actor.ID {
		c.log.Debug("Ignoring self follow", "user_id", actor.ID)
		return nil
	}

	following, err := c.IsFollowing(ctx, actor, author)
	if err != nil {
		return xerrors.New(err)
	}
	if following {
		return nil
	}

	insertSQL := `
		INSERT INTO follows (user_id, author_id)
		VALUES ($1, $2)
		ON CONFLICT (user_id, author_id) DO NOTHING
	`
	affected, err := databaseutils.ExecuteUpdate(ctx, c.sqlTemplate, insertSQL, actor.ID, author.ID)
	if err != nil {
		if databaseutils.IsUniqueViolation(err) {
			return nil
		}
		return xerrors.New(err)
	}

	if affected > 0 {
		metrics.FollowEdges.WithLabelValues("follow").Inc()
		c.log.Info("User followed author", "user_id", actor.ID, "author_id", author.ID)
	}
	return nil
}

// UnfollowUser removes the actor -> author edge if there is one.
func (c *Core) UnfollowUser(ctx context.Context, actor *auth.User, username string) error {
	if actor == nil {
		return xerrors.New(ErrUnauthorized)
	}

	author, err := c.GetUserByUsername(ctx, username)
	if err != nil {
		return xerrors.New(err)
	}

	deleteSQL := `
		DELETE FROM follows
		WHERE user_id = $1 AND author_id = $2
	`
	affected, err := databaseutils.ExecuteUpdate(ctx, c.sqlTemplate, deleteSQL, actor.ID, author.ID)
	if err != nil {
		return xerrors.New(err)
	}

	if affected > 0 {
		metrics.FollowEdges.WithLabelValues("unfollow").Inc()
		c.log.Info("User unfollowed author", "user_id", actor.ID, "author_id", author.ID)
	}
	return nil
}

func (c *Core) IsFollowing(ctx context.Context, actor *auth.User, author *auth.User) (bool, error) {
	if actor == nil || author == nil {
		return false, nil
	}

	selectSQL := `
		SELECT EXISTS (
			SELECT 1 FROM follows WHERE user_id = $1 AND author_id = $2
		)
	`
	following, err := databaseutils.ExecuteSingleQuery(ctx, c.sqlTemplate, selectSQL, func(rows *sql.Rows) (bool, error) {
		var exists bool
		if err := rows.Scan(&exists); err != nil {
			return false, xerrors.New(err)
		}
		return exists, nil
	}, actor.ID, author.ID)
	if err != nil {
		return false, xerrors.New(err)
	}

	return following, nil
}

// FollowedAuthors lists every author actor follows, by username.
func (c *Core) FollowedAuthors(ctx context.Context, actor *auth.User) ([]*auth.User, error) {
	if actor == nil {
		return nil, xerrors.New(ErrUnauthorized)
	}

	query := `
		SELECT ` + userColumns + `
		FROM follows f JOIN users u ON u.id = f.author_id
		WHERE f.user_id = $1
		ORDER BY u.username
	`
	authors, err := databaseutils.ExecuteQuery(ctx, c.sqlTemplate, query, scanUser, actor.ID)
	if err != nil {
		return nil, xerrors.New(err)
	}

	return authors, nil
}

// FollowCounts returns how many authors userID follows and how many users follow userID.
func (c *Core) FollowCounts(ctx context.Context, userID int64) (following int64, followers int64, err error) {
	query := `
		SELECT
			(SELECT count(*) FROM follows WHERE user_id = $1),
			(SELECT count(*) FROM follows WHERE author_id = $1)
	`
	counts, err := databaseutils.ExecuteSingleQuery(ctx, c.sqlTemplate, query, func(rows *sql.Rows) ([2]int64, error) {
		var counts [2]int64
		if err := rows.Scan(&counts[0], &counts[1]); err != nil {
			return counts, xerrors.New(err)
		}
		return counts, nil
	}, userID)
	if err != nil {
		return 0, 0, xerrors.New(err)
	}

	return counts[0], counts[1], nil
}
