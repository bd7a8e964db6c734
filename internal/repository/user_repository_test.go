package repository

import (
	"context"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/go-sql-driver/mysql"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iliyamo/office-seat-reservation/internal/model"
)

func TestUserCreateNormalisesEmail(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()
	mock.ExpectExec(`INSERT INTO users`).
		WithArgs("Ann", "ann@example.com", "hash", "member").
		WillReturnResult(sqlmock.NewResult(11, 1))

	u := &model.User{Name: "Ann", Email: "  Ann@Example.COM ", PasswordHash: "hash", Role: model.RoleMember}
	require.NoError(t, NewUserRepo(db).Create(context.Background(), u))

	assert.Equal(t, uint64(11), u.ID)
	assert.Equal(t, "ann@example.com", u.Email)
}

func TestUserCreateDuplicate(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()
	mock.ExpectExec(`INSERT INTO users`).
		WillReturnError(&mysql.MySQLError{Number: 1062, Message: "Duplicate entry 'ann@example.com' for key 'users.uq_users_email'"})

	err = NewUserRepo(db).Create(context.Background(), &model.User{Name: "Ann", Email: "ann@example.com", Role: model.RoleMember})

	assert.ErrorIs(t, err, ErrEmailExists)
}

func TestUserGetByEmail(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()
	cols := []string{"id", "name", "email", "password_hash", "role", "created_at"}
	mock.ExpectQuery(`FROM users WHERE email=\?`).
		WithArgs("boss@example.com").
		WillReturnRows(sqlmock.NewRows(cols).AddRow(1, "Boss", "boss@example.com", "h", "admin", time.Now()))
	mock.ExpectQuery(`FROM users WHERE email=\?`).
		WithArgs("ghost@example.com").
		WillReturnRows(sqlmock.NewRows(cols))

	repo := NewUserRepo(db)
	u, err := repo.GetByEmail(context.Background(), "BOSS@example.com")
	require.NoError(t, err)
	assert.Equal(t, model.RoleAdmin, u.Role)

	_, err = repo.GetByEmail(context.Background(), "ghost@example.com")
	assert.ErrorIs(t, err, ErrNotFound)
}
