package core

import (
	"context"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/lib/pq"
	"github.com/siahsang/yatube/internal/auth"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCreateNewUser(t *testing.T) {
	c, mock, _ := setupCore(t)
	ctx := context.Background()

	newUser := &auth.User{Username: "leo", Email: "leo@example.com", Password: []byte("hash")}
	mock.ExpectQuery(q(`INSERT INTO users (username, email, password)`)).
		WithArgs("leo", "leo@example.com", []byte("hash")).
		WillReturnRows(sqlmock.NewRows([]string{"id", "created_at"}).AddRow(3, time.Now()))

	require.NoError(t, c.CreateNewUser(ctx, newUser))
	assert.EqualValues(t, 3, newUser.ID)

	mock.ExpectQuery(q(`INSERT INTO users`)).
		WillReturnError(&pq.Error{Code: "23505", Constraint: "users_email_key"})
	assert.ErrorIs(t, c.CreateNewUser(ctx, &auth.User{Username: "leo2", Email: "leo@example.com"}), ErrDuplicateEmail)

	mock.ExpectQuery(q(`INSERT INTO users`)).
		WillReturnError(&pq.Error{Code: "23505", Constraint: "users_username_key"})
	assert.ErrorIs(t, c.CreateNewUser(ctx, &auth.User{Username: "leo", Email: "other@example.com"}), ErrDuplicateUsername)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGetUserByEmail_NotFound(t *testing.T) {
	c, mock, _ := setupCore(t)
	mock.ExpectQuery(q(`FROM users u WHERE u.email = $1`)).
		WithArgs("ghost@example.com").
		WillReturnRows(userRows())

	_, err := c.GetUserByEmail(context.Background(), "ghost@example.com")
	assert.ErrorIs(t, err, NoRecordFound)
}
