package core

import (
	"context"
	"database/sql"
	"errors"

	"github.com/mdobak/go-xerrors"
	"github.com/siahsang/yatube/internal/auth"
	"github.com/siahsang/yatube/internal/utils/databaseutils"
)

var (
	ErrDuplicateEmail    = xerrors.Message("Duplicate email")
	ErrDuplicateUsername = xerrors.Message("Duplicate username")
)

const userColumns = `u.id, u.email, u.username, u.password, u.created_at`

func scanUser(rows *sql.Rows) (*auth.User, error) {
	var user = &auth.User{}
	if err := rows.Scan(&user.ID, &user.Email, &user.Username, &user.Password, &user.CreatedAt); err != nil {
		return nil, xerrors.New(err)
	}
	return user, nil
}

func (c *Core) CreateNewUser(ctx context.Context, user *auth.User) error {
	query := `
		INSERT INTO users (username, email, password)
		VALUES ($1, $2, $3)
		RETURNING id, created_at
	`
	_, err := databaseutils.ExecuteSingleQuery(ctx, c.sqlTemplate, query, func(rows *sql.Rows) (*auth.User, error) {
		if err := rows.Scan(&user.ID, &user.CreatedAt); err != nil {
			return nil, xerrors.New(err)
		}
		return user, nil
	}, user.Username, user.Email, user.Password)

	if err != nil {
		switch {
		case databaseutils.IsUniqueViolation(err) && databaseutils.ConstraintName(err) == "users_email_key":
			return xerrors.New(ErrDuplicateEmail)
		case databaseutils.IsUniqueViolation(err) && databaseutils.ConstraintName(err) == "users_username_key":
			return xerrors.New(ErrDuplicateUsername)
		default:
			return xerrors.New(err)
		}
	}

	c.log.Info("User registered", "user_id", user.ID, "username", user.Username)
	return nil
}

func (c *Core) GetUserByEmail(ctx context.Context, email string) (*auth.User, error) {
	query := `SELECT ` + userColumns + ` FROM users u WHERE u.email = $1`
	return c.getUser(ctx, query, email)
}

func (c *Core) GetUserByUsername(ctx context.Context, username string) (*auth.User, error) {
	query := `SELECT ` + userColumns + ` FROM users u WHERE u.username = $1`
	return c.getUser(ctx, query, username)
}

func (c *Core) getUser(ctx context.Context, query string, arg any) (*auth.User, error) {
	user, err := databaseutils.ExecuteSingleQuery(ctx, c.sqlTemplate, query, scanUser, arg)
	if err != nil {
		switch {
		case errors.Is(err, sql.ErrNoRows):
			return nil, xerrors.New(NoRecordFound)
		default:
			return nil, xerrors.New(err)
		}
	}
	return user, nil
}
