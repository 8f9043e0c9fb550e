package services

import (
	"context"
	"fmt"
	"strconv"

	"github.com/dmitrijs2005/urbanmobility/internal/models"
	"github.com/dmitrijs2005/urbanmobility/internal/rbac"
)

// TravellerService manages customer records. Every operation needs
// SystemAdmin.
type TravellerService struct {
	base
}

func NewTravellerService(d Deps) *TravellerService {
	return &TravellerService{base: newBase(d)}
}

func (s *TravellerService) seal(t models.Traveller) (models.Traveller, error) {
	sl := sealer{c: s.Cipher}
	out := t
	out.FirstName = sl.seal(t.FirstName)
	out.LastName = sl.seal(t.LastName)
	out.Gender = sl.seal(t.Gender)
	out.Street = sl.seal(t.Street)
	out.HouseNumber = sl.seal(t.HouseNumber)
	out.ZipCode = sl.seal(t.ZipCode)
	out.City = sl.seal(t.City)
	out.Email = sl.seal(t.Email)
	out.Phone = sl.sealNull(t.Phone)
	out.DrivingLicense = sl.sealNull(t.DrivingLicense)
	return out, sl.err
}

func (s *TravellerService) open(t *models.Traveller) models.Traveller {
	c := s.Cipher
	out := *t
	out.FirstName = c.Decrypt(t.FirstName)
	out.LastName = c.Decrypt(t.LastName)
	out.Gender = c.Decrypt(t.Gender)
	out.Street = c.Decrypt(t.Street)
	out.HouseNumber = c.Decrypt(t.HouseNumber)
	out.ZipCode = c.Decrypt(t.ZipCode)
	out.City = c.Decrypt(t.City)
	out.Email = c.Decrypt(t.Email)
	out.Phone = c.DecryptNull(t.Phone)
	out.DrivingLicense = c.DecryptNull(t.DrivingLicense)
	return out
}

// Add stores a new traveller; RegistrationDate is set to now.
func (s *TravellerService) Add(ctx context.Context, in models.Traveller) (models.Traveller, error) {
	p, err := s.authorize(ctx, rbac.SystemAdmin, "add traveller")
	if err != nil {
		return models.Traveller{}, err
	}
	in.RegistrationDate = models.NewRegistrationDate(s.Now())
	row, err := s.seal(in)
	if err != nil {
		return models.Traveller{}, err
	}
	id, err := s.Repos.Travellers(s.DB).Create(ctx, &row)
	if err != nil {
		return models.Traveller{}, err
	}
	in.ID = id
	s.record(ctx, p, "traveller added", fmt.Sprintf("id: %d", id), false)
	return in, nil
}

// Update rewrites the traveller with in.ID. RegistrationDate is kept.
func (s *TravellerService) Update(ctx context.Context, in models.Traveller) error {
	p, err := s.authorize(ctx, rbac.SystemAdmin, "update traveller")
	if err != nil {
		return err
	}
	row, err := s.seal(in)
	if err != nil {
		return err
	}
	if err := s.Repos.Travellers(s.DB).Update(ctx, &row); err != nil {
		return err
	}
	s.record(ctx, p, "traveller updated", fmt.Sprintf("id: %d", in.ID), false)
	return nil
}

func (s *TravellerService) Delete(ctx context.Context, id int64) error {
	p, err := s.authorize(ctx, rbac.SystemAdmin, "delete traveller")
	if err != nil {
		return err
	}
	if err := s.Repos.Travellers(s.DB).Delete(ctx, id); err != nil {
		return err
	}
	s.record(ctx, p, "traveller deleted", fmt.Sprintf("id: %d", id), false)
	return nil
}

func (s *TravellerService) Get(ctx context.Context, id int64) (models.Traveller, error) {
	if _, err := s.authorize(ctx, rbac.SystemAdmin, "view traveller"); err != nil {
		return models.Traveller{}, err
	}
	t, err := s.Repos.Travellers(s.DB).GetByID(ctx, id)
	if err != nil {
		return models.Traveller{}, err
	}
	return s.open(t), nil
}

func (s *TravellerService) List(ctx context.Context) ([]models.Traveller, error) {
	if _, err := s.authorize(ctx, rbac.SystemAdmin, "list travellers"); err != nil {
		return nil, err
	}
	return s.list(ctx)
}

func (s *TravellerService) list(ctx context.Context) ([]models.Traveller, error) {
	rows, err := s.Repos.Travellers(s.DB).ListAll(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]models.Traveller, 0, len(rows))
	for i := range rows {
		out = append(out, s.open(&rows[i]))
	}
	return out, nil
}

// Search matches term against the ID and the personal fields, ignoring case.
func (s *TravellerService) Search(ctx context.Context, term string) ([]models.Traveller, error) {
	if _, err := s.authorize(ctx, rbac.SystemAdmin, "search travellers"); err != nil {
		return nil, err
	}
	all, err := s.list(ctx)
	if err != nil {
		return nil, err
	}
	var out []models.Traveller
	for _, t := range all {
		if matches(term, strconv.FormatInt(t.ID, 10), t.FirstName, t.LastName, t.Street,
			t.ZipCode, t.City, t.Email, t.Phone.String, t.DrivingLicense.String) {
			out = append(out, t)
		}
	}
	return out, nil
}
