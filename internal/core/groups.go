package core

import (
	"context"
	"database/sql"
	"errors"
	"strings"

	"github.com/mdobak/go-xerrors"
	"github.com/siahsang/yatube/internal/utils/databaseutils"
	"github.com/siahsang/yatube/internal/validator"
	"github.com/siahsang/yatube/models"
)

var ErrDuplicatedSlug = xerrors.Message("Duplicate slug")

const groupColumns = `g.id, g.title, g.slug, g.description`

func scanGroup(rows *sql.Rows) (*models.Group, error) {
	var group models.Group
	if err := rows.Scan(&group.ID, &group.Title, &group.Slug, &group.Description); err != nil {
		return nil, xerrors.New(err)
	}
	return &group, nil
}

// CreateGroup registers a new group. Groups are managed out-of-band, by the CLI.
func (c *Core) CreateGroup(ctx context.Context, form *GroupForm) (*models.Group, error) {
	v := validator.New()
	form.Validate(v)
	if !v.IsValid() {
		return nil, xerrors.New(&ValidationError{Errors: v.Errors})
	}

	insertSQL := `
		INSERT INTO groups (title, slug, description)
		VALUES ($1, $2, $3)
		RETURNING id, title, slug, description
	`
	group, err := databaseutils.ExecuteSingleQuery(ctx, c.sqlTemplate, insertSQL, scanGroup, form.Title, form.Slug, form.Description)
	if err != nil {
		switch {
		case databaseutils.IsUniqueViolation(err):
			return nil, xerrors.New(ErrDuplicatedSlug)
		default:
			return nil, xerrors.New(err)
		}
	}

	c.log.Info("Group created", "group_id", group.ID, "slug", group.Slug)
	return group, nil
}

func (c *Core) GetGroupBySlug(ctx context.Context, slug string) (*models.Group, error) {
	query := `SELECT ` + groupColumns + ` FROM groups g WHERE g.slug = $1`

	group, err := databaseutils.ExecuteSingleQuery(ctx, c.sqlTemplate, query, scanGroup, slug)
	if err != nil {
		switch {
		case errors.Is(err, sql.ErrNoRows):
			return nil, xerrors.New(NoRecordFound)
		default:
			return nil, xerrors.New(err)
		}
	}
	return group, nil
}

// ListGroups returns every group ordered by title; these are the choices of the post form.
func (c *Core) ListGroups(ctx context.Context) ([]*models.Group, error) {
	query := `SELECT ` + groupColumns + ` FROM groups g ORDER BY g.title, g.id`

	groups, err := databaseutils.ExecuteQuery(ctx, c.sqlTemplate, query, scanGroup)
	if err != nil {
		return nil, xerrors.New(err)
	}
	if groups == nil {
		groups = []*models.Group{}
	}
	return groups, nil
}

// CreateSlug lowercases title and keeps only ASCII letters, digits, '-' and '_', turning
// whitespace into single hyphens.
func CreateSlug(title string) string {
	slug := strings.Map(func(r rune) rune {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9', r == '-', r == '_':
			return r
		case r == ' ', r == '\t':
			return '-'
		default:
			return -1
		}
	}, strings.ToLower(strings.TrimSpace(title)))

	for strings.Contains(slug, "--") {
		slug = strings.ReplaceAll(slug, "--", "-")
	}

	return strings.Trim(slug, "-")
}
