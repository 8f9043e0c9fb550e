package travellers

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/dmitrijs2005/urbanmobility/internal/common"
	"github.com/dmitrijs2005/urbanmobility/internal/dbx"
	"github.com/dmitrijs2005/urbanmobility/internal/models"
)

const selectColumns = `id, first_name, last_name, birthday, gender, street, house_number,
	zip_code, city, email, phone, driving_license, registration_date`

type SQLiteRepository struct {
	db dbx.DBTX
}

func NewSQLiteRepository(db dbx.DBTX) *SQLiteRepository {
	return &SQLiteRepository{db: db}
}

type scanner interface {
	Scan(dest ...any) error
}

func scanTraveller(s scanner) (*models.Traveller, error) {
	t := &models.Traveller{}
	err := s.Scan(&t.ID, &t.FirstName, &t.LastName, &t.Birthday, &t.Gender, &t.Street,
		&t.HouseNumber, &t.ZipCode, &t.City, &t.Email, &t.Phone, &t.DrivingLicense,
		&t.RegistrationDate)
	if err != nil {
		return nil, err
	}
	return t, nil
}

func (r *SQLiteRepository) Create(ctx context.Context, t *models.Traveller) (int64, error) {
	query := `INSERT INTO travellers (first_name, last_name, birthday, gender, street, house_number,
		zip_code, city, email, phone, driving_license, registration_date)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`
	res, err := r.db.ExecContext(ctx, query,
		t.FirstName, t.LastName, t.Birthday, t.Gender, t.Street, t.HouseNumber,
		t.ZipCode, t.City, t.Email, t.Phone, t.DrivingLicense, t.RegistrationDate)
	if err != nil {
		return 0, fmt.Errorf("failed to insert traveller: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("failed to get traveller id: %w", err)
	}
	return id, nil
}

func (r *SQLiteRepository) ListAll(ctx context.Context) ([]models.Traveller, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT `+selectColumns+` FROM travellers ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("failed to select travellers: %w", err)
	}
	defer rows.Close()

	var result []models.Traveller
	for rows.Next() {
		t, err := scanTraveller(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan traveller: %w", err)
		}
		result = append(result, *t)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate travellers: %w", err)
	}
	return result, nil
}

func (r *SQLiteRepository) GetByID(ctx context.Context, id int64) (*models.Traveller, error) {
	t, err := scanTraveller(r.db.QueryRowContext(ctx, `SELECT `+selectColumns+` FROM travellers WHERE id = ?`, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, common.ErrorNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to select traveller: %w", err)
	}
	return t, nil
}

func (r *SQLiteRepository) Update(ctx context.Context, t *models.Traveller) error {
	query := `UPDATE travellers SET first_name = ?, last_name = ?, birthday = ?, gender = ?,
		street = ?, house_number = ?, zip_code = ?, city = ?, email = ?, phone = ?,
		driving_license = ? WHERE id = ?`
	res, err := r.db.ExecContext(ctx, query,
		t.FirstName, t.LastName, t.Birthday, t.Gender, t.Street, t.HouseNumber,
		t.ZipCode, t.City, t.Email, t.Phone, t.DrivingLicense, t.ID)
	if err != nil {
		return fmt.Errorf("failed to update traveller: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if n == 0 {
		return common.ErrorNotFound
	}
	return nil
}

func (r *SQLiteRepository) Delete(ctx context.Context, id int64) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM travellers WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("failed to delete traveller: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if n == 0 {
		return common.ErrorNotFound
	}
	return nil
}
