package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/garnizeh/carematch/internal/apperr"
	"github.com/garnizeh/carematch/pkg/models"
)

const accountColumns = `id, email, given_name, surname, city, phone_number, profile_description, password_hash, updated`

func scanAccount(s scanner) (*models.Account, error) {
	var a models.Account
	var city, phone, desc sql.NullString
	if err := s.Scan(&a.ID, &a.Email, &a.GivenName, &a.Surname, &city, &phone, &desc, &a.PasswordHash, &a.Updated); err != nil {
		return nil, err
	}
	a.City = stringPtr(city)
	a.PhoneNumber = stringPtr(phone)
	a.ProfileDescription = stringPtr(desc)
	return &a, nil
}

func (r *SQLiteRepo) CreateAccount(ctx context.Context, a *models.Account) (int64, error) {
	if a == nil {
		return 0, fmt.Errorf("account is nil")
	}

	res, err := r.conn.Exec(ctx, `INSERT INTO accounts (email, given_name, surname, city, phone_number, profile_description, password_hash, updated) VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		a.Email, a.GivenName, a.Surname, nullString(a.City), nullString(a.PhoneNumber), nullString(a.ProfileDescription), a.PasswordHash, now())
	if err != nil {
		if isUniqueViolation(err) {
			return 0, apperr.ErrEmailTaken
		}
		return 0, err
	}

	return res.LastInsertId()
}

func (r *SQLiteRepo) GetAccountByID(ctx context.Context, id int64) (*models.Account, error) {
	a, err := scanAccount(r.conn.QueryRow(ctx, `SELECT `+accountColumns+` FROM accounts WHERE id = ?`, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	return a, err
}

// GetAccountByEmail matches the stored email exactly (case-sensitive).
func (r *SQLiteRepo) GetAccountByEmail(ctx context.Context, email string) (*models.Account, error) {
	a, err := scanAccount(r.conn.QueryRow(ctx, `SELECT `+accountColumns+` FROM accounts WHERE email = ?`, email))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	return a, err
}

func (r *SQLiteRepo) UpdateAccount(ctx context.Context, a *models.Account) error {
	if a == nil {
		return fmt.Errorf("account is nil")
	}

	_, err := r.conn.Exec(ctx, `UPDATE accounts SET given_name = ?, surname = ?, city = ?, phone_number = ?, profile_description = ?, password_hash = ?, updated = ? WHERE id = ?`,
		a.GivenName, a.Surname, nullString(a.City), nullString(a.PhoneNumber), nullString(a.ProfileDescription), a.PasswordHash, now(), a.ID)
	return err
}

// DeleteAccount removes the account; foreign keys cascade to everything it owns.
func (r *SQLiteRepo) DeleteAccount(ctx context.Context, id int64) error {
	_, err := r.conn.Exec(ctx, `DELETE FROM accounts WHERE id = ?`, id)
	return err
}
