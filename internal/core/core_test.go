package core

import (
	"context"
	"database/sql/driver"
	"fmt"
	"io"
	"log/slog"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/siahsang/yatube/internal/auth"
	"github.com/siahsang/yatube/internal/cache"
	"github.com/siahsang/yatube/internal/utils/databaseutils"
	"github.com/stretchr/testify/require"
)

var postRowColumns = []string{"id", "text", "created_at", "image", "author_id", "username", "group_id", "title", "slug", "description"}

type fakeImages struct {
	saved [][]byte
}

func (f *fakeImages) Save(_ context.Context, data []byte) (string, error) {
	f.saved = append(f.saved, data)
	return fmt.Sprintf("posts/%d.gif", len(f.saved)), nil
}

func setupCore(t *testing.T) (*Core, sqlmock.Sqlmock, *cache.MemoryCache) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	pageCache := cache.NewMemoryCache()
	c := NewCore(logger, databaseutils.NewSQLTemplate(db, time.Second), databaseutils.NewSession(db, logger),
		pageCache, 20*time.Second, &fakeImages{})
	return c, mock, pageCache
}

func q(sql string) string {
	return regexp.QuoteMeta(sql)
}

func userRows(users ...*auth.User) *sqlmock.Rows {
	rows := sqlmock.NewRows([]string{"id", "email", "username", "password", "created_at"})
	for _, u := range users {
		rows.AddRow(u.ID, u.Email, u.Username, []byte("hash"), time.Unix(0, 0))
	}
	return rows
}

func expectUserLookup(mock sqlmock.Sqlmock, user *auth.User) {
	mock.ExpectQuery(q(`FROM users u WHERE u.username = $1`)).
		WithArgs(user.Username).
		WillReturnRows(userRows(user))
}

// postRows builds n posts by author, with ids counting down from firstID.
func postRows(n int, firstID int64, author *auth.User, groupSlug string) *sqlmock.Rows {
	rows := sqlmock.NewRows(postRowColumns)
	created := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	for i := 0; i < n; i++ {
		var groupID, title, slug, description driver.Value
		if groupSlug != "" {
			groupID, title, slug, description = int64(1), "Группа", groupSlug, ""
		}
		rows.AddRow(firstID-int64(i), "Записи первой группы", created.Add(-time.Duration(i)*time.Minute), nil,
			author.ID, author.Username, groupID, title, slug, description)
	}
	return rows
}

func countRows(n int64) *sqlmock.Rows {
	return sqlmock.NewRows([]string{"count"}).AddRow(n)
}

func existsRows(exists bool) *sqlmock.Rows {
	return sqlmock.NewRows([]string{"exists"}).AddRow(exists)
}
