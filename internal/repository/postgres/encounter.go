package postgres

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/medcita/clinic-api/internal/apperror"
	"github.com/medcita/clinic-api/internal/model"
	"github.com/medcita/clinic-api/internal/repository"
)

// WithTx runs fn inside a transaction, rolling back on error or panic so
// no partial completion is ever visible.
func (r *encounterRepository) WithTx(ctx context.Context, fn func(repository.EncounterTx) error) error {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return apperror.Wrap(apperror.Connection, "failed to begin transaction", err)
	}

	defer func() {
		if p := recover(); p != nil {
			tx.Rollback()
			panic(p)
		}
	}()

	if err := fn(&encounterTx{tx: tx}); err != nil {
		tx.Rollback()
		return err
	}

	if err := tx.Commit(); err != nil {
		return apperror.Wrap(apperror.Internal, "failed to commit transaction", err)
	}
	return nil
}

func (r *encounterRepository) ListPrescriptions(ctx context.Context, appointmentID int64) ([]*model.Prescription, error) {
	query := `
		SELECT id, appointment_id, medication_name, dose, route, frequency,
			   duration, quantity, instructions, created_at
		FROM prescriptions
		WHERE appointment_id = $1
		ORDER BY id ASC
	`
	var prescriptions []*model.Prescription
	if err := r.db.SelectContext(ctx, &prescriptions, query, appointmentID); err != nil {
		return nil, apperror.Wrap(apperror.Internal, "failed to list prescriptions", err)
	}
	return prescriptions, nil
}

func (r *encounterRepository) ListOrders(ctx context.Context, appointmentID int64) ([]*model.Order, error) {
	query := `
		SELECT id, appointment_id, type, name, priority, notes, scheduled_date, created_at
		FROM orders
		WHERE appointment_id = $1
		ORDER BY id ASC
	`
	var orders []*model.Order
	if err := r.db.SelectContext(ctx, &orders, query, appointmentID); err != nil {
		return nil, apperror.Wrap(apperror.Internal, "failed to list orders", err)
	}
	return orders, nil
}

func (r *encounterRepository) LatestNote(ctx context.Context, appointmentID int64) (*model.ConsultNote, error) {
	query := `
		SELECT id, appointment_id, note, created_at
		FROM consult_notes
		WHERE appointment_id = $1
		ORDER BY id DESC
		LIMIT 1
	`
	var note model.ConsultNote
	if err := r.db.GetContext(ctx, &note, query, appointmentID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, apperror.Wrap(apperror.Internal, "failed to get consult note", err)
	}
	return &note, nil
}

type encounterTx struct {
	tx *sqlx.Tx
}

// AppointmentForUpdate locks the appointment row for the rest of the
// transaction; the status read here stays valid until commit.
func (t *encounterTx) AppointmentForUpdate(ctx context.Context, id int64) (*model.Appointment, error) {
	query := `
		SELECT id, patient_id, doctor_id, appointment_date, reason, status, created_at, updated_at
		FROM appointments
		WHERE id = $1
		FOR UPDATE
	`
	var appointment model.Appointment
	if err := t.tx.GetContext(ctx, &appointment, query, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, apperror.New(apperror.NotFound, "appointment not found")
		}
		return nil, apperror.Wrap(apperror.Internal, "failed to lock appointment", err)
	}
	return &appointment, nil
}

func (t *encounterTx) InsertConsultNote(ctx context.Context, appointmentID int64, note string) error {
	query := `
		INSERT INTO consult_notes (appointment_id, note, created_at)
		VALUES ($1, $2, $3)
	`
	if _, err := t.tx.ExecContext(ctx, query, appointmentID, note, time.Now()); err != nil {
		return apperror.Wrap(apperror.Internal, "failed to insert consult note", err)
	}
	return nil
}

func (t *encounterTx) InsertPrescription(ctx context.Context, p *model.Prescription) error {
	query := `
		INSERT INTO prescriptions (appointment_id, medication_name, dose, route,
			frequency, duration, quantity, instructions, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
	`
	p.CreatedAt = time.Now()

	_, err := t.tx.ExecContext(ctx, query,
		p.AppointmentID,
		p.MedicationName,
		p.Dose,
		p.Route,
		p.Frequency,
		p.Duration,
		p.Quantity,
		p.Instructions,
		p.CreatedAt,
	)
	if err != nil {
		return apperror.Wrap(apperror.Internal, "failed to insert prescription", err)
	}
	return nil
}

func (t *encounterTx) InsertOrder(ctx context.Context, o *model.Order) error {
	query := `
		INSERT INTO orders (appointment_id, type, name, priority, notes, scheduled_date, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`
	o.CreatedAt = time.Now()

	_, err := t.tx.ExecContext(ctx, query,
		o.AppointmentID,
		o.Type,
		o.Name,
		o.Priority,
		o.Notes,
		o.ScheduledDate,
		o.CreatedAt,
	)
	if err != nil {
		return apperror.Wrap(apperror.Internal, "failed to insert order", err)
	}
	return nil
}

func (t *encounterTx) SetStatus(ctx context.Context, id int64, status model.AppointmentStatus) error {
	query := `
		UPDATE appointments
		SET status = $1, updated_at = $2
		WHERE id = $3
	`
	if _, err := t.tx.ExecContext(ctx, query, status, time.Now(), id); err != nil {
		return apperror.Wrap(apperror.Internal, "failed to update appointment status", err)
	}
	return nil
}
