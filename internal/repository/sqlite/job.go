package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/garnizeh/carematch/pkg/models"
)

const jobColumns = `id, member_id, required_caregiving_type, other_requirements, date_posted`

func scanJob(s scanner) (*models.Job, error) {
	var j models.Job
	var ctype, reqs sql.NullString
	if err := s.Scan(&j.ID, &j.MemberID, &ctype, &reqs, &j.DatePosted); err != nil {
		return nil, err
	}
	j.RequiredCaregivingType = stringPtr(ctype)
	j.OtherRequirements = stringPtr(reqs)
	return &j, nil
}

// CreateJob stores j with a server-assigned posting date and fills in ID and DatePosted.
func (r *SQLiteRepo) CreateJob(ctx context.Context, j *models.Job) (int64, error) {
	if j == nil {
		return 0, fmt.Errorf("job is nil")
	}

	posted := today()
	res, err := r.conn.Exec(ctx, `INSERT INTO jobs (member_id, required_caregiving_type, other_requirements, date_posted) VALUES (?, ?, ?, ?)`,
		j.MemberID, nullString(j.RequiredCaregivingType), nullString(j.OtherRequirements), posted)
	if err != nil {
		return 0, err
	}

	id, err := res.LastInsertId()
	if err != nil {
		return 0, err
	}
	j.ID = id
	j.DatePosted = posted
	return id, nil
}

func (r *SQLiteRepo) GetJob(ctx context.Context, id int64) (*models.Job, error) {
	j, err := scanJob(r.conn.QueryRow(ctx, `SELECT `+jobColumns+` FROM jobs WHERE id = ?`, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	return j, err
}

func (r *SQLiteRepo) ListJobs(ctx context.Context) ([]models.Job, error) {
	return r.listJobs(ctx, `SELECT `+jobColumns+` FROM jobs ORDER BY id`)
}

func (r *SQLiteRepo) ListJobsByMember(ctx context.Context, memberID int64) ([]models.Job, error) {
	return r.listJobs(ctx, `SELECT `+jobColumns+` FROM jobs WHERE member_id = ? ORDER BY id`, memberID)
}

func (r *SQLiteRepo) listJobs(ctx context.Context, query string, args ...any) ([]models.Job, error) {
	rows, err := r.conn.QueryRows(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []models.Job
	for rows.Next() {
		j, err := scanJob(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *j)
	}
	return out, rows.Err()
}

// UpdateJob rewrites the editable fields; owner and posting date never change.
func (r *SQLiteRepo) UpdateJob(ctx context.Context, j *models.Job) error {
	if j == nil {
		return fmt.Errorf("job is nil")
	}

	_, err := r.conn.Exec(ctx, `UPDATE jobs SET required_caregiving_type = ?, other_requirements = ? WHERE id = ?`,
		nullString(j.RequiredCaregivingType), nullString(j.OtherRequirements), j.ID)
	return err
}

func (r *SQLiteRepo) DeleteJob(ctx context.Context, id int64) error {
	_, err := r.conn.Exec(ctx, `DELETE FROM jobs WHERE id = ?`, id)
	return err
}
