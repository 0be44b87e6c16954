package model

import (
	"time"
)

type AppointmentStatus string

const (
	AppointmentStatusScheduled AppointmentStatus = "scheduled"
	AppointmentStatusCompleted AppointmentStatus = "completed"
	AppointmentStatusCancelled AppointmentStatus = "cancelled"
)

// Terminal reports whether no further transition is permitted.
func (s AppointmentStatus) Terminal() bool {
	return s == AppointmentStatusCompleted || s == AppointmentStatusCancelled
}

// CanTransitionTo encodes the legal lifecycle: scheduled may move to
// either terminal state, terminal states move nowhere.
func (s AppointmentStatus) CanTransitionTo(target AppointmentStatus) bool {
	if s != AppointmentStatusScheduled {
		return false
	}
	return target == AppointmentStatusCompleted || target == AppointmentStatusCancelled
}

type Appointment struct {
	ID              int64             `db:"id" json:"id"`
	PatientID       int64             `db:"patient_id" json:"patient_id"`
	DoctorID        int64             `db:"doctor_id" json:"doctor_id"`
	AppointmentDate time.Time         `db:"appointment_date" json:"appointment_date"`
	Reason          string            `db:"reason" json:"reason"`
	Status          AppointmentStatus `db:"status" json:"status"`
	CreatedAt       time.Time         `db:"created_at" json:"created_at"`
	UpdatedAt       time.Time         `db:"updated_at" json:"updated_at"`
}

// AppointmentDetail is an appointment joined with the display attributes
// of both participants, as loaded for the summary view.
type AppointmentDetail struct {
	Appointment
	PatientName string  `db:"patient_name"`
	DoctorName  string  `db:"doctor_name"`
	Specialty   *string `db:"specialty"`
}

type CreateAppointmentRequest struct {
	DoctorID        int64  `json:"doctor_id" binding:"required"`
	AppointmentDate string `json:"appointment_date" binding:"required,clinic_datetime"`
	Reason          string `json:"reason" binding:"required,max=1000"`
}

// PatientHistoryEntry is one row of a patient's appointment history.
type PatientHistoryEntry struct {
	ID              int64             `db:"id" json:"id"`
	AppointmentDate time.Time         `db:"appointment_date" json:"-"`
	Reason          string            `db:"reason" json:"reason"`
	Status          AppointmentStatus `db:"status" json:"status"`
	DoctorName      string            `db:"doctor_name" json:"doctor_name"`
	DoctorEmail     string            `db:"doctor_email" json:"doctor_email"`
	Specialty       *string           `db:"specialty" json:"specialty"`

	AppointmentDateText string `db:"-" json:"appointment_date"`
}

// DoctorHistoryEntry is one row of a doctor's appointment history.
type DoctorHistoryEntry struct {
	ID              int64             `db:"id" json:"id"`
	AppointmentDate time.Time         `db:"appointment_date" json:"-"`
	Reason          string            `db:"reason" json:"reason"`
	Status          AppointmentStatus `db:"status" json:"status"`
	PatientName     string            `db:"patient_name" json:"patient_name"`
	PatientEmail    string            `db:"patient_email" json:"patient_email"`

	AppointmentDateText string `db:"-" json:"appointment_date"`
}
