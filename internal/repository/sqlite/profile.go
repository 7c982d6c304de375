package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/garnizeh/carematch/pkg/models"
)

const joinedAccountColumns = `a.id, a.email, a.given_name, a.surname, a.city, a.phone_number, a.profile_description, a.password_hash, a.updated`

const caregiverSelect = `SELECT c.account_id, c.photo, c.gender, c.caregiving_type, c.hourly_rate, ` + joinedAccountColumns + `
FROM caregivers c JOIN accounts a ON a.id = c.account_id`

const memberSelect = `SELECT m.account_id, m.house_rules, m.dependent_description, ` + joinedAccountColumns + `
FROM members m JOIN accounts a ON a.id = m.account_id`

// accountDest returns scan destinations for joinedAccountColumns and a func that
// assembles the Account once the row has been scanned.
func accountDest() ([]any, func() *models.Account) {
	var a models.Account
	var city, phone, desc sql.NullString
	dest := []any{&a.ID, &a.Email, &a.GivenName, &a.Surname, &city, &phone, &desc, &a.PasswordHash, &a.Updated}
	return dest, func() *models.Account {
		a.City = stringPtr(city)
		a.PhoneNumber = stringPtr(phone)
		a.ProfileDescription = stringPtr(desc)
		return &a
	}
}

func scanCaregiver(s scanner) (*models.Caregiver, error) {
	var c models.Caregiver
	var photo, gender, ctype sql.NullString
	var rate sql.NullFloat64
	acctDest, account := accountDest()

	dest := append([]any{&c.AccountID, &photo, &gender, &ctype, &rate}, acctDest...)
	if err := s.Scan(dest...); err != nil {
		return nil, err
	}

	c.Photo = stringPtr(photo)
	c.Gender = stringPtr(gender)
	c.CaregivingType = stringPtr(ctype)
	c.HourlyRate = floatPtr(rate)
	c.Account = account()
	return &c, nil
}

func scanMember(s scanner) (*models.Member, error) {
	var m models.Member
	var rules, dependent sql.NullString
	acctDest, account := accountDest()

	dest := append([]any{&m.AccountID, &rules, &dependent}, acctDest...)
	if err := s.Scan(dest...); err != nil {
		return nil, err
	}

	m.HouseRules = stringPtr(rules)
	m.DependentDescription = stringPtr(dependent)
	m.Account = account()
	return &m, nil
}

func (r *SQLiteRepo) CreateCaregiver(ctx context.Context, c *models.Caregiver) error {
	if c == nil {
		return fmt.Errorf("caregiver is nil")
	}

	_, err := r.conn.Exec(ctx, `INSERT INTO caregivers (account_id, photo, gender, caregiving_type, hourly_rate) VALUES (?, ?, ?, ?, ?)`,
		c.AccountID, nullString(c.Photo), nullString(c.Gender), nullString(c.CaregivingType), nullFloat(c.HourlyRate))
	return err
}

func (r *SQLiteRepo) GetCaregiver(ctx context.Context, accountID int64) (*models.Caregiver, error) {
	c, err := scanCaregiver(r.conn.QueryRow(ctx, caregiverSelect+` WHERE c.account_id = ?`, accountID))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	return c, err
}

func (r *SQLiteRepo) ListCaregivers(ctx context.Context) ([]models.Caregiver, error) {
	rows, err := r.conn.QueryRows(ctx, caregiverSelect+` ORDER BY c.account_id`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []models.Caregiver
	for rows.Next() {
		c, err := scanCaregiver(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *c)
	}
	return out, rows.Err()
}

func (r *SQLiteRepo) UpdateCaregiver(ctx context.Context, c *models.Caregiver) error {
	if c == nil {
		return fmt.Errorf("caregiver is nil")
	}

	_, err := r.conn.Exec(ctx, `UPDATE caregivers SET photo = ?, gender = ?, caregiving_type = ?, hourly_rate = ? WHERE account_id = ?`,
		nullString(c.Photo), nullString(c.Gender), nullString(c.CaregivingType), nullFloat(c.HourlyRate), c.AccountID)
	return err
}

func (r *SQLiteRepo) CreateMember(ctx context.Context, m *models.Member) error {
	if m == nil {
		return fmt.Errorf("member is nil")
	}

	_, err := r.conn.Exec(ctx, `INSERT INTO members (account_id, house_rules, dependent_description) VALUES (?, ?, ?)`,
		m.AccountID, nullString(m.HouseRules), nullString(m.DependentDescription))
	return err
}

func (r *SQLiteRepo) GetMember(ctx context.Context, accountID int64) (*models.Member, error) {
	m, err := scanMember(r.conn.QueryRow(ctx, memberSelect+` WHERE m.account_id = ?`, accountID))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	return m, err
}

func (r *SQLiteRepo) ListMembers(ctx context.Context) ([]models.Member, error) {
	rows, err := r.conn.QueryRows(ctx, memberSelect+` ORDER BY m.account_id`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []models.Member
	for rows.Next() {
		m, err := scanMember(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *m)
	}
	return out, rows.Err()
}

func (r *SQLiteRepo) UpdateMember(ctx context.Context, m *models.Member) error {
	if m == nil {
		return fmt.Errorf("member is nil")
	}

	_, err := r.conn.Exec(ctx, `UPDATE members SET house_rules = ?, dependent_description = ? WHERE account_id = ?`,
		nullString(m.HouseRules), nullString(m.DependentDescription), m.AccountID)
	return err
}
