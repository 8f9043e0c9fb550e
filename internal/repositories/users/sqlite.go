package users

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/dmitrijs2005/urbanmobility/internal/common"
	"github.com/dmitrijs2005/urbanmobility/internal/dbx"
	"github.com/dmitrijs2005/urbanmobility/internal/models"
)

const selectColumns = `id, username_idx, username, password_hash, role, first_name, last_name, registration_date`

// SQLiteRepository implements Repository over a dbx.DBTX.
type SQLiteRepository struct {
	db dbx.DBTX
}

func NewSQLiteRepository(db dbx.DBTX) *SQLiteRepository {
	return &SQLiteRepository{db: db}
}

type scanner interface {
	Scan(dest ...any) error
}

func scanUser(s scanner) (*models.User, error) {
	u := &models.User{}
	err := s.Scan(&u.ID, &u.UsernameIndex, &u.Username, &u.PasswordHash, &u.Role,
		&u.FirstName, &u.LastName, &u.RegistrationDate)
	if err != nil {
		return nil, err
	}
	return u, nil
}

func (r *SQLiteRepository) Create(ctx context.Context, u *models.User) (int64, error) {
	query := `INSERT INTO users (username_idx, username, password_hash, role, first_name, last_name, registration_date)
		VALUES (?, ?, ?, ?, ?, ?, ?)`
	res, err := r.db.ExecContext(ctx, query,
		u.UsernameIndex, u.Username, u.PasswordHash, u.Role, u.FirstName, u.LastName, u.RegistrationDate)
	if err != nil {
		if dbx.IsConstraintViolation(err) {
			return 0, common.ErrorAlreadyExists
		}
		return 0, fmt.Errorf("failed to insert user: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("failed to get user id: %w", err)
	}
	return id, nil
}

func (r *SQLiteRepository) ListAll(ctx context.Context) ([]models.User, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT `+selectColumns+` FROM users ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("failed to select users: %w", err)
	}
	defer rows.Close()

	var result []models.User
	for rows.Next() {
		u, err := scanUser(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan user: %w", err)
		}
		result = append(result, *u)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate users: %w", err)
	}
	return result, nil
}

func (r *SQLiteRepository) getOne(ctx context.Context, where string, arg any) (*models.User, error) {
	row := r.db.QueryRowContext(ctx, `SELECT `+selectColumns+` FROM users WHERE `+where, arg)
	u, err := scanUser(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, common.ErrorNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to select user: %w", err)
	}
	return u, nil
}

func (r *SQLiteRepository) GetByID(ctx context.Context, id int64) (*models.User, error) {
	return r.getOne(ctx, `id = ?`, id)
}

func (r *SQLiteRepository) GetByIndex(ctx context.Context, usernameIndex string) (*models.User, error) {
	return r.getOne(ctx, `username_idx = ?`, usernameIndex)
}

func (r *SQLiteRepository) Update(ctx context.Context, u *models.User) error {
	query := `UPDATE users SET username_idx = ?, username = ?, password_hash = ?, role = ?,
		first_name = ?, last_name = ? WHERE id = ?`
	res, err := r.db.ExecContext(ctx, query,
		u.UsernameIndex, u.Username, u.PasswordHash, u.Role, u.FirstName, u.LastName, u.ID)
	if err != nil {
		if dbx.IsConstraintViolation(err) {
			return common.ErrorAlreadyExists
		}
		return fmt.Errorf("failed to update user: %w", err)
	}
	return expectOne(res)
}

func (r *SQLiteRepository) UpdatePasswordHash(ctx context.Context, id int64, hash string) error {
	res, err := r.db.ExecContext(ctx, `UPDATE users SET password_hash = ? WHERE id = ?`, hash, id)
	if err != nil {
		return fmt.Errorf("failed to update password hash: %w", err)
	}
	return expectOne(res)
}

func (r *SQLiteRepository) Delete(ctx context.Context, id int64) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM users WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("failed to delete user: %w", err)
	}
	return expectOne(res)
}

func (r *SQLiteRepository) Count(ctx context.Context) (int, error) {
	var n int
	if err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM users`).Scan(&n); err != nil {
		return 0, fmt.Errorf("failed to count users: %w", err)
	}
	return n, nil
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
