package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/garnizeh/carematch/internal/apperr"
	"github.com/garnizeh/carematch/pkg/models"
)

// CreateApplication records a caregiver's application with today's date.
// A second application to the same job is a conflict.
func (r *SQLiteRepo) CreateApplication(ctx context.Context, a *models.JobApplication) error {
	if a == nil {
		return fmt.Errorf("application is nil")
	}

	applied := today()
	_, err := r.conn.Exec(ctx, `INSERT INTO job_applications (caregiver_id, job_id, date_applied) VALUES (?, ?, ?)`,
		a.CaregiverID, a.JobID, applied)
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("application: %w", apperr.ErrConflict)
		}
		return err
	}

	a.DateApplied = applied
	return nil
}

func (r *SQLiteRepo) GetApplication(ctx context.Context, caregiverID, jobID int64) (*models.JobApplication, error) {
	row := r.conn.QueryRow(ctx, `SELECT caregiver_id, job_id, date_applied FROM job_applications WHERE caregiver_id = ? AND job_id = ?`, caregiverID, jobID)
	var a models.JobApplication
	if err := row.Scan(&a.CaregiverID, &a.JobID, &a.DateApplied); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return &a, nil
}

func (r *SQLiteRepo) ListApplicationsByCaregiver(ctx context.Context, caregiverID int64) ([]models.JobApplication, error) {
	rows, err := r.conn.QueryRows(ctx, `SELECT caregiver_id, job_id, date_applied FROM job_applications WHERE caregiver_id = ? ORDER BY job_id`, caregiverID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []models.JobApplication
	for rows.Next() {
		var a models.JobApplication
		if err := rows.Scan(&a.CaregiverID, &a.JobID, &a.DateApplied); err != nil {
			return nil, err
		}
		out = append(out, a)
	}
	return out, rows.Err()
}

const applicationsForMemberQuery = `SELECT j.id, j.member_id, j.required_caregiving_type, j.other_requirements, j.date_posted,
	ja.caregiver_id, ja.date_applied,
	a.email, a.given_name, a.surname, a.city, a.phone_number, a.profile_description,
	c.photo, c.gender, c.caregiving_type, c.hourly_rate
FROM job_applications ja
JOIN jobs j ON j.id = ja.job_id
JOIN caregivers c ON c.account_id = ja.caregiver_id
JOIN accounts a ON a.id = ja.caregiver_id
WHERE j.member_id = ?
ORDER BY j.id, ja.caregiver_id`

func (r *SQLiteRepo) ListApplicationsForMember(ctx context.Context, memberID int64) ([]models.ApplicationForJob, error) {
	rows, err := r.conn.QueryRows(ctx, applicationsForMemberQuery, memberID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []models.ApplicationForJob
	for rows.Next() {
		var v models.ApplicationForJob
		var jobType, jobReqs, city, phone, desc, photo, gender, ctype sql.NullString
		var rate sql.NullFloat64
		if err := rows.Scan(&v.Job.ID, &v.Job.MemberID, &jobType, &jobReqs, &v.Job.DatePosted,
			&v.CaregiverID, &v.DateApplied,
			&v.Email, &v.GivenName, &v.Surname, &city, &phone, &desc,
			&photo, &gender, &ctype, &rate); err != nil {
			return nil, err
		}
		v.Job.RequiredCaregivingType = stringPtr(jobType)
		v.Job.OtherRequirements = stringPtr(jobReqs)
		v.City = stringPtr(city)
		v.PhoneNumber = stringPtr(phone)
		v.ProfileDescription = stringPtr(desc)
		v.Photo = stringPtr(photo)
		v.Gender = stringPtr(gender)
		v.CaregivingType = stringPtr(ctype)
		v.HourlyRate = floatPtr(rate)
		out = append(out, v)
	}
	return out, rows.Err()
}

func (r *SQLiteRepo) DeleteApplication(ctx context.Context, caregiverID, jobID int64) error {
	_, err := r.conn.Exec(ctx, `DELETE FROM job_applications WHERE caregiver_id = ? AND job_id = ?`, caregiverID, jobID)
	return err
}
