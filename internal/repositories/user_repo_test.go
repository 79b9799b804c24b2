package repositories

import (
	"context"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/go-sql-driver/mysql"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"tecawayBack/internal/models"
)

var userRowColumns = []string{
	"id", "email", "name", "password", "title", "description", "town", "country",
	"can_move", "photo", "latitude", "longitude", "roles", "created_at", "updated_at",
}

func TestGetTechniciansScansNullableColumns(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	created := time.Date(2025, 1, 15, 10, 0, 0, 0, time.UTC)
	rows := sqlmock.NewRows(userRowColumns).
		AddRow(1, "ana@tecaway.es", "Ana", "hash", "Frontend dev", nil, "Madrid", "ES",
			true, nil, "40.4168", "-3.7038", "technician,admin", created, created).
		AddRow(2, "bob@tecaway.es", "Bob", "hash", nil, nil, nil, nil,
			false, nil, nil, "not a number", "technician", nil, nil)
	mock.ExpectQuery(regexp.QuoteMeta("FROM users WHERE FIND_IN_SET(?, roles) > 0")).
		WithArgs(models.RoleTechnician).
		WillReturnRows(rows)

	repo := &UserRepository{DB: db}
	users, err := repo.GetTechnicians(context.Background())
	require.NoError(t, err)
	require.Len(t, users, 2)

	ana := users[0]
	assert.Equal(t, "Ana", ana.Name)
	require.NotNil(t, ana.Title)
	assert.Equal(t, "Frontend dev", *ana.Title)
	assert.Nil(t, ana.Description)
	require.NotNil(t, ana.Latitude)
	assert.InDelta(t, 40.4168, *ana.Latitude, 1e-9)
	assert.True(t, ana.CanMove)
	assert.Equal(t, []string{"technician", "admin"}, ana.Roles)
	require.NotNil(t, ana.CreatedAt)
	assert.True(t, created.Equal(*ana.CreatedAt))

	bob := users[1]
	assert.Nil(t, bob.Latitude)
	assert.Nil(t, bob.Longitude)
	assert.Nil(t, bob.CreatedAt)
	assert.Nil(t, bob.Town)

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGetUserByIDNotFound(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectQuery(regexp.QuoteMeta("FROM users WHERE id = ?")).
		WithArgs(42).
		WillReturnRows(sqlmock.NewRows(userRowColumns))

	_, err = (&UserRepository{DB: db}).GetUserByID(context.Background(), 42)
	assert.ErrorIs(t, err, ErrUserNotFound)
}

func TestCreateUserDuplicateEmail(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO users")).
		WillReturnError(&mysql.MySQLError{Number: 1062, Message: "Duplicate entry"})

	_, err = (&UserRepository{DB: db}).CreateUser(context.Background(), models.User{Email: "ana@tecaway.es"})
	assert.ErrorIs(t, err, models.ErrDuplicateEmail)
}

func TestCreateUserJoinsRoles(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO users")).
		WithArgs("ana@tecaway.es", "Ana", "hash", nil, nil, nil, nil, false, nil, nil,
			"technician,client", sqlmock.AnyArg(), sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(7, 1))

	u, err := (&UserRepository{DB: db}).CreateUser(context.Background(), models.User{
		Email: "ana@tecaway.es", Name: "Ana", Password: "hash",
		Roles: []string{models.RoleTechnician, models.RoleClient},
	})
	require.NoError(t, err)
	assert.Equal(t, 7, u.ID)
	assert.NotNil(t, u.CreatedAt)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGetSessionByTokenUsesFirstRole(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	exp := time.Now().Add(time.Hour)
	mock.ExpectQuery(regexp.QuoteMeta("FROM users WHERE refresh_token = ?")).
		WithArgs("tok").
		WillReturnRows(sqlmock.NewRows([]string{"id", "roles", "refresh_token", "expires_at"}).
			AddRow(3, "client,technician", "tok", exp))

	s, err := (&UserRepository{DB: db}).GetSessionByToken(context.Background(), "tok")
	require.NoError(t, err)
	assert.Equal(t, 3, s.UserID)
	assert.Equal(t, models.RoleClient, s.Role)
}

func TestReplaceForUserRollsBackOnUnknownKnowledge(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectBegin()
	mock.ExpectExec(regexp.QuoteMeta("DELETE FROM user_knowledges WHERE user_id = ?")).
		WithArgs(5).WillReturnResult(sqlmock.NewResult(0, 2))
	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO user_knowledges")).
		WithArgs(5, 10).WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO user_knowledges")).
		WithArgs(5, 999).WillReturnError(&mysql.MySQLError{Number: 1452, Message: "fk"})
	mock.ExpectRollback()

	err = (&UserKnowledgeRepository{DB: db}).ReplaceForUser(context.Background(), 5, []int{10, 999})
	assert.ErrorIs(t, err, ErrKnowledgeNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestReplaceForUserCommits(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectBegin()
	mock.ExpectExec(regexp.QuoteMeta("DELETE FROM user_knowledges WHERE user_id = ?")).
		WithArgs(5).WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO user_knowledges")).
		WithArgs(5, 10).WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectCommit()

	require.NoError(t, (&UserKnowledgeRepository{DB: db}).ReplaceForUser(context.Background(), 5, []int{10}))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGetConsentDefaultsWhenMissing(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectQuery(regexp.QuoteMeta("FROM consents WHERE user_id = ?")).
		WithArgs(9).
		WillReturnRows(sqlmock.NewRows([]string{"analytics", "marketing", "updated_at"}))

	c, err := (&ConsentRepository{DB: db}).GetConsent(context.Background(), 9)
	assert.ErrorIs(t, err, models.ErrNoRecord)
	assert.True(t, c.Necessary)
	assert.False(t, c.Analytics)
}
