package repository

import (
	"context"

	"github.com/medcita/clinic-api/internal/model"
)

// All repository interfaces in one file
type (
	UserRepository interface {
		Create(ctx context.Context, user *model.User) error
		Get(ctx context.Context, id int64) (*model.User, error)
		GetByEmail(ctx context.Context, email string) (*model.User, error)
		EmailExists(ctx context.Context, email string) (bool, error)
		ListDoctors(ctx context.Context) ([]*model.DoctorEntry, error)
	}

	AppointmentRepository interface {
		Create(ctx context.Context, appointment *model.Appointment) error
		Get(ctx context.Context, id int64) (*model.Appointment, error)
		GetDetail(ctx context.Context, id int64) (*model.AppointmentDetail, error)
		// CancelIfScheduled conditionally moves the appointment to
		// cancelled. It reports false without mutating anything when the
		// status was no longer scheduled at write time.
		CancelIfScheduled(ctx context.Context, id int64) (bool, error)
		ListForPatient(ctx context.Context, patientID int64) ([]*model.PatientHistoryEntry, error)
		ListForDoctor(ctx context.Context, doctorID int64) ([]*model.DoctorHistoryEntry, error)
	}

	// EncounterRepository owns the artifacts recorded at completion time
	// and the transaction they are recorded in.
	EncounterRepository interface {
		WithTx(ctx context.Context, fn func(EncounterTx) error) error
		ListPrescriptions(ctx context.Context, appointmentID int64) ([]*model.Prescription, error)
		ListOrders(ctx context.Context, appointmentID int64) ([]*model.Order, error)
		// LatestNote returns nil when the appointment has no notes.
		LatestNote(ctx context.Context, appointmentID int64) (*model.ConsultNote, error)
	}

	// EncounterTx is the slice of operations available inside a completion
	// transaction. AppointmentForUpdate locks the row for the duration of
	// the transaction so the read status stays valid for the later write.
	EncounterTx interface {
		AppointmentForUpdate(ctx context.Context, id int64) (*model.Appointment, error)
		InsertConsultNote(ctx context.Context, appointmentID int64, note string) error
		InsertPrescription(ctx context.Context, p *model.Prescription) error
		InsertOrder(ctx context.Context, o *model.Order) error
		SetStatus(ctx context.Context, id int64, status model.AppointmentStatus) error
	}
)
