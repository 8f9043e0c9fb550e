package travellers

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

func setupRepo(t *testing.T) *SQLiteRepository {
	t.Helper()
	db, err := storage.Open(context.Background(), filepath.Join(t.TempDir(), "travellers.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	return NewSQLiteRepository(db)
}

func TestCRUD(t *testing.T) {
	r := setupRepo(t)
	ctx := context.Background()

	in := &models.Traveller{
		FirstName:        "enc-anna",
		LastName:         "enc-smit",
		Birthday:         "1990-04-01",
		Gender:           "enc-f",
		Street:           "enc-street",
		HouseNumber:      "enc-12",
		ZipCode:          "enc-3011AB",
		City:             "enc-rotterdam",
		Email:            "enc-mail",
		Phone:            sql.NullString{String: "enc-phone", Valid: true},
		RegistrationDate: "2025-03-01T10:00:00.000000",
	}
	id, err := r.Create(ctx, in)
	require.NoError(t, err)
	in.ID = id

	got, err := r.GetByID(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, in, got)
	assert.False(t, got.DrivingLicense.Valid)

	got.City = "enc-delft"
	got.Phone = sql.NullString{}
	got.RegistrationDate = "changed"
	require.NoError(t, r.Update(ctx, got))

	got, err = r.GetByID(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, "enc-delft", got.City)
	assert.False(t, got.Phone.Valid)
	assert.Equal(t, "2025-03-01T10:00:00.000000", got.RegistrationDate)

	list, err := r.ListAll(ctx)
	require.NoError(t, err)
	assert.Len(t, list, 1)

	require.NoError(t, r.Delete(ctx, id))
	_, err = r.GetByID(ctx, id)
	require.ErrorIs(t, err, common.ErrorNotFound)
	require.ErrorIs(t, r.Update(ctx, got), common.ErrorNotFound)
}

func TestGetByID_QueryError(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	boom := errors.New("disk full")
	mock.ExpectQuery("SELECT (.+) FROM travellers WHERE id").WithArgs(int64(7)).WillReturnError(boom)

	_, err = NewSQLiteRepository(db).GetByID(context.Background(), 7)
	require.ErrorIs(t, err, boom)
	require.NoError(t, mock.ExpectationsWereMet())
}
