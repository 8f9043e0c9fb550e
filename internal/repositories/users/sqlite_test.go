package users

import (
	"context"
	"database/sql"
	"errors"
	"path/filepath"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/dmitrijs2005/urbanmobility/internal/common"
	"github.com/dmitrijs2005/urbanmobility/internal/models"
	"github.com/dmitrijs2005/urbanmobility/internal/storage"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupDB(t *testing.T) *sql.DB {
	t.Helper()
	db, err := storage.Open(context.Background(), filepath.Join(t.TempDir(), "users.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	return db
}

func sampleUser(idx string) *models.User {
	return &models.User{
		UsernameIndex:    idx,
		Username:         "enc-user-" + idx,
		PasswordHash:     "enc-hash",
		Role:             "enc-role",
		FirstName:        "enc-first",
		LastName:         "enc-last",
		RegistrationDate: "2025-01-02T03:04:05.000006",
	}
}

func TestCreateAndGet(t *testing.T) {
	r := NewSQLiteRepository(setupDB(t))
	ctx := context.Background()

	in := sampleUser("idx-a")
	id, err := r.Create(ctx, in)
	require.NoError(t, err)
	require.NotZero(t, id)

	byID, err := r.GetByID(ctx, id)
	require.NoError(t, err)
	in.ID = id
	assert.Equal(t, in, byID)

	byIdx, err := r.GetByIndex(ctx, "idx-a")
	require.NoError(t, err)
	assert.Equal(t, in, byIdx)
}

func TestCreate_DuplicateIndex(t *testing.T) {
	r := NewSQLiteRepository(setupDB(t))
	ctx := context.Background()

	_, err := r.Create(ctx, sampleUser("same"))
	require.NoError(t, err)

	_, err = r.Create(ctx, sampleUser("same"))
	require.ErrorIs(t, err, common.ErrorAlreadyExists)
}

func TestGet_NotFound(t *testing.T) {
	r := NewSQLiteRepository(setupDB(t))
	ctx := context.Background()

	_, err := r.GetByID(ctx, 42)
	require.ErrorIs(t, err, common.ErrorNotFound)

	_, err = r.GetByIndex(ctx, "nope")
	require.ErrorIs(t, err, common.ErrorNotFound)
}

func TestListAllAndCount(t *testing.T) {
	r := NewSQLiteRepository(setupDB(t))
	ctx := context.Background()

	n, err := r.Count(ctx)
	require.NoError(t, err)
	assert.Zero(t, n)

	list, err := r.ListAll(ctx)
	require.NoError(t, err)
	assert.Empty(t, list)

	for _, idx := range []string{"a", "b", "c"} {
		_, err := r.Create(ctx, sampleUser(idx))
		require.NoError(t, err)
	}

	n, err = r.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, 3, n)

	list, err = r.ListAll(ctx)
	require.NoError(t, err)
	require.Len(t, list, 3)
	assert.Equal(t, "a", list[0].UsernameIndex)
	assert.Equal(t, "c", list[2].UsernameIndex)
}

func TestUpdate_KeepsRegistrationDate(t *testing.T) {
	r := NewSQLiteRepository(setupDB(t))
	ctx := context.Background()

	id, err := r.Create(ctx, sampleUser("old"))
	require.NoError(t, err)

	u, err := r.GetByID(ctx, id)
	require.NoError(t, err)
	u.UsernameIndex = "new"
	u.Username = "enc-renamed"
	u.FirstName = "enc-first-2"
	u.RegistrationDate = "2099-01-01T00:00:00.000000"
	require.NoError(t, r.Update(ctx, u))

	got, err := r.GetByID(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, "new", got.UsernameIndex)
	assert.Equal(t, "enc-renamed", got.Username)
	assert.Equal(t, "enc-first-2", got.FirstName)
	assert.Equal(t, "2025-01-02T03:04:05.000006", got.RegistrationDate)
}

func TestUpdate_IndexCollision(t *testing.T) {
	r := NewSQLiteRepository(setupDB(t))
	ctx := context.Background()

	_, err := r.Create(ctx, sampleUser("taken"))
	require.NoError(t, err)
	id, err := r.Create(ctx, sampleUser("mine"))
	require.NoError(t, err)

	u, err := r.GetByID(ctx, id)
	require.NoError(t, err)
	u.UsernameIndex = "taken"
	require.ErrorIs(t, r.Update(ctx, u), common.ErrorAlreadyExists)
}

func TestUpdatePasswordHashAndDelete(t *testing.T) {
	r := NewSQLiteRepository(setupDB(t))
	ctx := context.Background()

	id, err := r.Create(ctx, sampleUser("x"))
	require.NoError(t, err)

	require.NoError(t, r.UpdatePasswordHash(ctx, id, "enc-hash-2"))
	u, err := r.GetByID(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, "enc-hash-2", u.PasswordHash)

	require.NoError(t, r.Delete(ctx, id))
	_, err = r.GetByID(ctx, id)
	require.ErrorIs(t, err, common.ErrorNotFound)

	require.ErrorIs(t, r.Delete(ctx, id), common.ErrorNotFound)
	require.ErrorIs(t, r.UpdatePasswordHash(ctx, id, "h"), common.ErrorNotFound)
}

func TestListAll_QueryError(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	boom := errors.New("disk I/O error")
	mock.ExpectQuery("SELECT (.+) FROM users").WillReturnError(boom)

	_, err = NewSQLiteRepository(db).ListAll(context.Background())
	require.ErrorIs(t, err, boom)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestListAll_ScanError(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	rows := sqlmock.NewRows([]string{"id"}).AddRow(1)
	mock.ExpectQuery("SELECT (.+) FROM users").WillReturnRows(rows)

	_, err = NewSQLiteRepository(db).ListAll(context.Background())
	require.Error(t, err)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestCreate_ExecError(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	boom := errors.New("readonly database")
	mock.ExpectExec("INSERT INTO users").WillReturnError(boom)

	_, err = NewSQLiteRepository(db).Create(context.Background(), sampleUser("a"))
	require.ErrorIs(t, err, boom)
	require.NotErrorIs(t, err, common.ErrorAlreadyExists)
	require.NoError(t, mock.ExpectationsWereMet())
}
