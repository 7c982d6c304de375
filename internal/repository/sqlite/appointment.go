package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/garnizeh/carematch/pkg/models"
)

const appointmentColumns = `id, caregiver_id, member_id, appointment_date, appointment_time, work_hours, status`

func scanAppointment(s scanner, extra ...any) (*models.Appointment, error) {
	var a models.Appointment
	var date, tm sql.NullString
	var hours sql.NullInt64
	dest := append([]any{&a.ID, &a.CaregiverID, &a.MemberID, &date, &tm, &hours, &a.Status}, extra...)
	if err := s.Scan(dest...); err != nil {
		return nil, err
	}
	a.AppointmentDate = stringPtr(date)
	a.AppointmentTime = stringPtr(tm)
	a.WorkHours = intPtr(hours)
	return &a, nil
}

// CreateAppointment stores a and fills in ID. An empty status becomes the default.
func (r *SQLiteRepo) CreateAppointment(ctx context.Context, a *models.Appointment) (int64, error) {
	if a == nil {
		return 0, fmt.Errorf("appointment is nil")
	}
	if a.Status == "" {
		a.Status = models.DefaultAppointmentStatus
	}

	res, err := r.conn.Exec(ctx, `INSERT INTO appointments (caregiver_id, member_id, appointment_date, appointment_time, work_hours, status) VALUES (?, ?, ?, ?, ?, ?)`,
		a.CaregiverID, a.MemberID, nullString(a.AppointmentDate), nullString(a.AppointmentTime), nullInt(a.WorkHours), a.Status)
	if err != nil {
		return 0, err
	}

	id, err := res.LastInsertId()
	if err != nil {
		return 0, err
	}
	a.ID = id
	return id, nil
}

func (r *SQLiteRepo) GetAppointment(ctx context.Context, id int64) (*models.Appointment, error) {
	a, err := scanAppointment(r.conn.QueryRow(ctx, `SELECT `+appointmentColumns+` FROM appointments WHERE id = ?`, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	return a, err
}

func (r *SQLiteRepo) UpdateAppointmentStatus(ctx context.Context, id int64, status string) error {
	_, err := r.conn.Exec(ctx, `UPDATE appointments SET status = ? WHERE id = ?`, status, id)
	return err
}

const appointmentViewQuery = `SELECT ap.id, ap.caregiver_id, ap.member_id, ap.appointment_date, ap.appointment_time, ap.work_hours, ap.status,
	ca.given_name, ca.surname, COALESCE(ca.phone_number, ''), ca.email,
	ma.given_name, ma.surname, COALESCE(ma.phone_number, ''), ma.email,
	COALESCE(ad.house_number, ''), COALESCE(ad.street, ''), COALESCE(ad.town, '')
FROM appointments ap
JOIN accounts ca ON ca.id = ap.caregiver_id
JOIN accounts ma ON ma.id = ap.member_id
LEFT JOIN addresses ad ON ad.member_id = ap.member_id`

func (r *SQLiteRepo) ListAppointmentsByCaregiver(ctx context.Context, caregiverID int64) ([]models.AppointmentView, error) {
	return r.listAppointmentViews(ctx, appointmentViewQuery+` WHERE ap.caregiver_id = ? ORDER BY ap.id`, caregiverID)
}

func (r *SQLiteRepo) ListAppointmentsByMember(ctx context.Context, memberID int64) ([]models.AppointmentView, error) {
	return r.listAppointmentViews(ctx, appointmentViewQuery+` WHERE ap.member_id = ? ORDER BY ap.id`, memberID)
}

func (r *SQLiteRepo) listAppointmentViews(ctx context.Context, query string, args ...any) ([]models.AppointmentView, error) {
	rows, err := r.conn.QueryRows(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []models.AppointmentView
	for rows.Next() {
		var v models.AppointmentView
		a, err := scanAppointment(rows,
			&v.Caregiver.GivenName, &v.Caregiver.Surname, &v.Caregiver.PhoneNumber, &v.Caregiver.Email,
			&v.Member.GivenName, &v.Member.Surname, &v.Member.PhoneNumber, &v.Member.Email,
			&v.MemberAddress.HouseNumber, &v.MemberAddress.Street, &v.MemberAddress.Town)
		if err != nil {
			return nil, err
		}
		v.Appointment = *a
		out = append(out, v)
	}
	return out, rows.Err()
}
