package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/garnizeh/carematch/internal/apperr"
	"github.com/garnizeh/carematch/pkg/models"
)

func (r *SQLiteRepo) CreateAddress(ctx context.Context, a *models.Address) error {
	if a == nil {
		return fmt.Errorf("address is nil")
	}

	_, err := r.conn.Exec(ctx, `INSERT INTO addresses (member_id, house_number, street, town) VALUES (?, ?, ?, ?)`,
		a.MemberID, nullString(a.HouseNumber), nullString(a.Street), nullString(a.Town))
	if isUniqueViolation(err) {
		return fmt.Errorf("address: %w", apperr.ErrConflict)
	}
	return err
}

func (r *SQLiteRepo) GetAddress(ctx context.Context, memberID int64) (*models.Address, error) {
	row := r.conn.QueryRow(ctx, `SELECT member_id, house_number, street, town FROM addresses WHERE member_id = ?`, memberID)
	var a models.Address
	var number, street, town sql.NullString
	if err := row.Scan(&a.MemberID, &number, &street, &town); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}

	a.HouseNumber = stringPtr(number)
	a.Street = stringPtr(street)
	a.Town = stringPtr(town)
	return &a, nil
}

func (r *SQLiteRepo) UpdateAddress(ctx context.Context, a *models.Address) error {
	if a == nil {
		return fmt.Errorf("address is nil")
	}

	_, err := r.conn.Exec(ctx, `UPDATE addresses SET house_number = ?, street = ?, town = ? WHERE member_id = ?`,
		nullString(a.HouseNumber), nullString(a.Street), nullString(a.Town), a.MemberID)
	return err
}
