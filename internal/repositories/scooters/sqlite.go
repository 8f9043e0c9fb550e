package scooters

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/dmitrijs2005/urbanmobility/internal/common"
	"github.com/dmitrijs2005/urbanmobility/internal/dbx"
	"github.com/dmitrijs2005/urbanmobility/internal/models"
)

const selectColumns = `id, serial_idx, brand, model, serial_number, top_speed, battery_capacity,
	state_of_charge, target_range_state_of_charge, location, out_of_service, mileage,
	last_maintenance, in_service_date`

type SQLiteRepository struct {
	db dbx.DBTX
}

func NewSQLiteRepository(db dbx.DBTX) *SQLiteRepository {
	return &SQLiteRepository{db: db}
}

type scanner interface {
	Scan(dest ...any) error
}

func scanScooter(s scanner) (*models.Scooter, error) {
	sc := &models.Scooter{}
	err := s.Scan(&sc.ID, &sc.SerialIndex, &sc.Brand, &sc.Model, &sc.SerialNumber,
		&sc.TopSpeed, &sc.BatteryCapacity, &sc.StateOfCharge, &sc.TargetRangeStateOfCharge,
		&sc.Location, &sc.OutOfService, &sc.Mileage, &sc.LastMaintenance, &sc.InServiceDate)
	if err != nil {
		return nil, err
	}
	return sc, nil
}

func (r *SQLiteRepository) Create(ctx context.Context, s *models.Scooter) (int64, error) {
	query := `INSERT INTO scooters (serial_idx, brand, model, serial_number, top_speed, battery_capacity,
		state_of_charge, target_range_state_of_charge, location, out_of_service, mileage,
		last_maintenance, in_service_date)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`
	res, err := r.db.ExecContext(ctx, query,
		s.SerialIndex, s.Brand, s.Model, s.SerialNumber, s.TopSpeed, s.BatteryCapacity,
		s.StateOfCharge, s.TargetRangeStateOfCharge, s.Location, s.OutOfService, s.Mileage,
		s.LastMaintenance, s.InServiceDate)
	if err != nil {
		if dbx.IsConstraintViolation(err) {
			return 0, common.ErrorAlreadyExists
		}
		return 0, fmt.Errorf("failed to insert scooter: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("failed to get scooter id: %w", err)
	}
	return id, nil
}

func (r *SQLiteRepository) ListAll(ctx context.Context) ([]models.Scooter, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT `+selectColumns+` FROM scooters ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("failed to select scooters: %w", err)
	}
	defer rows.Close()

	var result []models.Scooter
	for rows.Next() {
		s, err := scanScooter(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan scooter: %w", err)
		}
		result = append(result, *s)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate scooters: %w", err)
	}
	return result, nil
}

func (r *SQLiteRepository) getOne(ctx context.Context, where string, arg any) (*models.Scooter, error) {
	s, err := scanScooter(r.db.QueryRowContext(ctx, `SELECT `+selectColumns+` FROM scooters WHERE `+where, arg))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, common.ErrorNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to select scooter: %w", err)
	}
	return s, nil
}

func (r *SQLiteRepository) GetByID(ctx context.Context, id int64) (*models.Scooter, error) {
	return r.getOne(ctx, `id = ?`, id)
}

func (r *SQLiteRepository) GetBySerialIndex(ctx context.Context, serialIndex string) (*models.Scooter, error) {
	return r.getOne(ctx, `serial_idx = ?`, serialIndex)
}

func (r *SQLiteRepository) Update(ctx context.Context, s *models.Scooter) error {
	query := `UPDATE scooters SET serial_idx = ?, brand = ?, model = ?, serial_number = ?,
		top_speed = ?, battery_capacity = ?, state_of_charge = ?, target_range_state_of_charge = ?,
		location = ?, out_of_service = ?, mileage = ?, last_maintenance = ?
		WHERE id = ?`
	res, err := r.db.ExecContext(ctx, query,
		s.SerialIndex, s.Brand, s.Model, s.SerialNumber, s.TopSpeed, s.BatteryCapacity,
		s.StateOfCharge, s.TargetRangeStateOfCharge, s.Location, s.OutOfService, s.Mileage,
		s.LastMaintenance, s.ID)
	if err != nil {
		if dbx.IsConstraintViolation(err) {
			return common.ErrorAlreadyExists
		}
		return fmt.Errorf("failed to update scooter: %w", err)
	}
	return expectOne(res)
}

func (r *SQLiteRepository) UpdateTelemetry(ctx context.Context, id int64, t models.ScooterTelemetry) error {
	query := `UPDATE scooters SET state_of_charge = ?, location = ?, out_of_service = ?,
		mileage = ?, last_maintenance = ? WHERE id = ?`
	res, err := r.db.ExecContext(ctx, query,
		t.StateOfCharge, t.Location, t.OutOfService, t.Mileage, t.LastMaintenance, id)
	if err != nil {
		return fmt.Errorf("failed to update telemetry: %w", err)
	}
	return expectOne(res)
}

func (r *SQLiteRepository) Delete(ctx context.Context, id int64) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM scooters WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("failed to delete scooter: %w", err)
	}
	return expectOne(res)
}

func expectOne(res sql.Result) error {
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if n == 0 {
		return common.ErrorNotFound
	}
	return nil
}
