package services

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/dmitrijs2005/urbanmobility/internal/common"
	"github.com/dmitrijs2005/urbanmobility/internal/cryptox"
	"github.com/dmitrijs2005/urbanmobility/internal/models"
	"github.com/dmitrijs2005/urbanmobility/internal/rbac"
)

// InServiceDateLayout is the format of Scooter.InServiceDate.
const InServiceDateLayout = "2006-01-02"

// ScooterService manages the fleet. Service engineers may read scooters and
// update their telemetry; adding and removing scooters needs SystemAdmin.
type ScooterService struct {
	base
}

func NewScooterService(d Deps) *ScooterService {
	return &ScooterService{base: newBase(d)}
}

func (s *ScooterService) open(sc *models.Scooter) models.Scooter {
	out := *sc
	out.Brand = s.Cipher.Decrypt(sc.Brand)
	out.Model = s.Cipher.Decrypt(sc.Model)
	out.SerialNumber = s.Cipher.Decrypt(sc.SerialNumber)
	out.TargetRangeStateOfCharge = s.Cipher.Decrypt(sc.TargetRangeStateOfCharge)
	out.Location = s.Cipher.Decrypt(sc.Location)
	return out
}

// Add registers a scooter given in plaintext. Serial numbers are unique
// regardless of case. An empty InServiceDate is set to today.
func (s *ScooterService) Add(ctx context.Context, in models.Scooter) (models.Scooter, error) {
	p, err := s.authorize(ctx, rbac.SystemAdmin, "add scooter")
	if err != nil {
		return models.Scooter{}, err
	}
	in.SerialNumber = strings.TrimSpace(in.SerialNumber)
	if in.SerialNumber == "" {
		return models.Scooter{}, fmt.Errorf("%w: empty serial number", common.ErrInvalidInput)
	}
	if in.InServiceDate == "" {
		in.InServiceDate = s.Now().Format(InServiceDateLayout)
	}

	sl := sealer{c: s.Cipher}
	row := in
	row.SerialIndex = s.Index.Compute(cryptox.IndexSerialNumber, in.SerialNumber)
	row.Brand = sl.seal(in.Brand)
	row.Model = sl.seal(in.Model)
	row.SerialNumber = sl.seal(in.SerialNumber)
	row.TargetRangeStateOfCharge = sl.seal(in.TargetRangeStateOfCharge)
	row.Location = sl.seal(in.Location)
	if sl.err != nil {
		return models.Scooter{}, sl.err
	}

	id, err := s.Repos.Scooters(s.DB).Create(ctx, &row)
	if err != nil {
		if errors.Is(err, common.ErrorAlreadyExists) {
			s.record(ctx, p, "add scooter failed", "serial number already exists", true)
		}
		return models.Scooter{}, err
	}
	in.ID = id
	in.SerialIndex = row.SerialIndex
	s.record(ctx, p, "scooter added", fmt.Sprintf("id: %d", id), false)
	return in, nil
}

// UpdateTelemetry replaces the operational fields of a scooter.
func (s *ScooterService) UpdateTelemetry(ctx context.Context, id int64, t models.ScooterTelemetry) error {
	p, err := s.authorize(ctx, rbac.ServiceEngineer, "update scooter")
	if err != nil {
		return err
	}
	loc, err := s.Cipher.Encrypt(t.Location)
	if err != nil {
		return err
	}
	t.Location = loc
	if err := s.Repos.Scooters(s.DB).UpdateTelemetry(ctx, id, t); err != nil {
		return err
	}
	s.record(ctx, p, "scooter updated", fmt.Sprintf("id: %d", id), false)
	return nil
}

// Delete removes a scooter from the fleet.
func (s *ScooterService) Delete(ctx context.Context, id int64) error {
	p, err := s.authorize(ctx, rbac.SystemAdmin, "delete scooter")
	if err != nil {
		return err
	}
	if err := s.Repos.Scooters(s.DB).Delete(ctx, id); err != nil {
		return err
	}
	s.record(ctx, p, "scooter deleted", fmt.Sprintf("id: %d", id), false)
	return nil
}

func (s *ScooterService) Get(ctx context.Context, id int64) (models.Scooter, error) {
	if _, err := s.authorize(ctx, rbac.ServiceEngineer, "view scooter"); err != nil {
		return models.Scooter{}, err
	}
	sc, err := s.Repos.Scooters(s.DB).GetByID(ctx, id)
	if err != nil {
		return models.Scooter{}, err
	}
	return s.open(sc), nil
}

func (s *ScooterService) List(ctx context.Context) ([]models.Scooter, error) {
	if _, err := s.authorize(ctx, rbac.ServiceEngineer, "list scooters"); err != nil {
		return nil, err
	}
	return s.list(ctx)
}

func (s *ScooterService) list(ctx context.Context) ([]models.Scooter, error) {
	rows, err := s.Repos.Scooters(s.DB).ListAll(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]models.Scooter, 0, len(rows))
	for i := range rows {
		out = append(out, s.open(&rows[i]))
	}
	return out, nil
}

// Search returns scooters whose ID or any text field contains term,
// ignoring case. The text fields are encrypted, so every row is decrypted.
func (s *ScooterService) Search(ctx context.Context, term string) ([]models.Scooter, error) {
	if _, err := s.authorize(ctx, rbac.ServiceEngineer, "search scooters"); err != nil {
		return nil, err
	}
	all, err := s.list(ctx)
	if err != nil {
		return nil, err
	}
	var out []models.Scooter
	for _, sc := range all {
		if matches(term, strconv.FormatInt(sc.ID, 10), sc.Brand, sc.Model, sc.SerialNumber,
			sc.Location, sc.TargetRangeStateOfCharge) {
			out = append(out, sc)
		}
	}
	return out, nil
}

// matches reports whether any field contains term, ignoring case. An empty
// term matches everything.
func matches(term string, fields ...string) bool {
	term = strings.ToLower(strings.TrimSpace(term))
	for _, f := range fields {
		if strings.Contains(strings.ToLower(f), term) {
			return true
		}
	}
	return false
}
