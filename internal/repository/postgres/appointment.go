package postgres

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/medcita/clinic-api/internal/apperror"
	"github.com/medcita/clinic-api/internal/model"
)

func (r *appointmentRepository) Create(ctx context.Context, appointment *model.Appointment) error {
	query := `
		INSERT INTO appointments (patient_id, doctor_id, appointment_date, reason, status, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING id
	`
	appointment.CreatedAt = time.Now()
	appointment.UpdatedAt = appointment.CreatedAt

	err := r.db.QueryRowxContext(ctx, query,
		appointment.PatientID,
		appointment.DoctorID,
		appointment.AppointmentDate,
		appointment.Reason,
		appointment.Status,
		appointment.CreatedAt,
		appointment.UpdatedAt,
	).Scan(&appointment.ID)
	if err != nil {
		return apperror.Wrap(apperror.Internal, "failed to create appointment", err)
	}
	return nil
}

func (r *appointmentRepository) Get(ctx context.Context, id int64) (*model.Appointment, error) {
	query := `
		SELECT id, patient_id, doctor_id, appointment_date, reason, status, created_at, updated_at
		FROM appointments
		WHERE id = $1
	`
	var appointment model.Appointment
	if err := r.db.GetContext(ctx, &appointment, query, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, apperror.New(apperror.NotFound, "appointment not found")
		}
		return nil, apperror.Wrap(apperror.Internal, "failed to get appointment", err)
	}
	return &appointment, nil
}

func (r *appointmentRepository) GetDetail(ctx context.Context, id int64) (*model.AppointmentDetail, error) {
	query := `
		SELECT a.id, a.patient_id, a.doctor_id, a.appointment_date, a.reason, a.status,
			   a.created_at, a.updated_at,
			   p.full_name AS patient_name, d.full_name AS doctor_name, d.specialty
		FROM appointments a
		JOIN users p ON p.id = a.patient_id
		JOIN users d ON d.id = a.doctor_id
		WHERE a.id = $1
	`
	var detail model.AppointmentDetail
	if err := r.db.GetContext(ctx, &detail, query, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, apperror.New(apperror.NotFound, "appointment not found")
		}
		return nil, apperror.Wrap(apperror.Internal, "failed to get appointment detail", err)
	}
	return &detail, nil
}

// CancelIfScheduled writes the terminal status only when the row is
// still scheduled, so two racing cancel/complete requests cannot both
// win.
func (r *appointmentRepository) CancelIfScheduled(ctx context.Context, id int64) (bool, error) {
	query := `
		UPDATE appointments
		SET status = $1, updated_at = $2
		WHERE id = $3 AND status = $4
	`
	result, err := r.db.ExecContext(ctx, query,
		model.AppointmentStatusCancelled,
		time.Now(),
		id,
		model.AppointmentStatusScheduled,
	)
	if err != nil {
		return false, apperror.Wrap(apperror.Internal, "failed to cancel appointment", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return false, apperror.Wrap(apperror.Internal, "failed to get rows affected", err)
	}
	return rows == 1, nil
}

func (r *appointmentRepository) ListForPatient(ctx context.Context, patientID int64) ([]*model.PatientHistoryEntry, error) {
	query := `
		SELECT a.id, a.appointment_date, a.reason, a.status,
			   d.full_name AS doctor_name, d.email AS doctor_email, d.specialty
		FROM appointments a
		JOIN users d ON d.id = a.doctor_id
		WHERE a.patient_id = $1
		ORDER BY a.appointment_date DESC
	`
	var entries []*model.PatientHistoryEntry
	if err := r.db.SelectContext(ctx, &entries, query, patientID); err != nil {
		return nil, apperror.Wrap(apperror.Internal, "failed to list patient appointments", err)
	}
	return entries, nil
}

func (r *appointmentRepository) ListForDoctor(ctx context.Context, doctorID int64) ([]*model.DoctorHistoryEntry, error) {
	query := `
		SELECT a.id, a.appointment_date, a.reason, a.status,
			   p.full_name AS patient_name, p.email AS patient_email
		FROM appointments a
		JOIN users p ON p.id = a.patient_id
		WHERE a.doctor_id = $1
		ORDER BY a.appointment_date DESC
	`
	var entries []*model.DoctorHistoryEntry
	if err := r.db.SelectContext(ctx, &entries, query, doctorID); err != nil {
		return nil, apperror.Wrap(apperror.Internal, "failed to list doctor appointments", err)
	}
	return entries, nil
}
