package services

import (
	"context"
	"database/sql"
	"testing"

	"github.com/dmitrijs2005/urbanmobility/internal/common"
	"github.com/dmitrijs2005/urbanmobility/internal/models"
	"github.com/dmitrijs2005/urbanmobility/internal/rbac"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleTraveller() models.Traveller {
	return models.Traveller{
		FirstName:   "Sanne",
		LastName:    "de Vries",
		Birthday:    "1992-11-03",
		Gender:      "female",
		Street:      "Coolsingel",
		HouseNumber: "40",
		ZipCode:     "3011AD",
		City:        "Rotterdam",
		Email:       "sanne@example.nl",
		Phone:       sql.NullString{String: "+31-6-12345678", Valid: true},
	}
}

func TestTravellerService_CRUD(t *testing.T) {
	e := newTestEnv(t)
	s := NewTravellerService(e.deps)
	admin := as("boss", rbac.SystemAdmin)

	added, err := s.Add(admin, sampleTraveller())
	require.NoError(t, err)
	assert.Equal(t, models.NewRegistrationDate(fixedNow), added.RegistrationDate)

	row, err := e.deps.Repos.Travellers(e.deps.DB).GetByID(context.Background(), added.ID)
	require.NoError(t, err)
	assert.NotEqual(t, "Rotterdam", row.City)
	assert.NotEqual(t, "+31-6-12345678", row.Phone.String)
	assert.False(t, row.DrivingLicense.Valid)

	got, err := s.Get(admin, added.ID)
	require.NoError(t, err)
	assert.Equal(t, added, got)

	got.City = "Delft"
	got.DrivingLicense = sql.NullString{String: "XY1234567", Valid: true}
	require.NoError(t, s.Update(admin, got))

	again, err := s.Get(admin, added.ID)
	require.NoError(t, err)
	assert.Equal(t, "Delft", again.City)
	assert.Equal(t, "XY1234567", again.DrivingLicense.String)

	found, err := s.Search(admin, "delft")
	require.NoError(t, err)
	assert.Len(t, found, 1)
	found, err = s.Search(admin, "amsterdam")
	require.NoError(t, err)
	assert.Empty(t, found)

	require.NoError(t, s.Delete(admin, added.ID))
	list, err := s.List(admin)
	require.NoError(t, err)
	assert.Empty(t, list)
	assert.Equal(t, "traveller deleted", e.lastEvent(t).Action)
}

func TestTravellerService_EngineerDenied(t *testing.T) {
	e := newTestEnv(t)
	s := NewTravellerService(e.deps)
	eng := as("eng", rbac.ServiceEngineer)

	_, err := s.Add(eng, sampleTraveller())
	require.ErrorIs(t, err, common.ErrForbidden)
	_, err = s.List(eng)
	require.ErrorIs(t, err, common.ErrForbidden)
	_, err = s.Search(eng, "x")
	require.ErrorIs(t, err, common.ErrForbidden)

	ev := e.events(t)
	require.Len(t, ev, 3)
	for _, x := range ev {
		assert.True(t, x.Suspicious)
		assert.Equal(t, "eng", x.Actor)
	}
}
