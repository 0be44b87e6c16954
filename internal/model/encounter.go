package model

import (
	"time"

	"github.com/medcita/clinic-api/internal/apperror"
)

type OrderType string

const (
	OrderTypeLab       OrderType = "lab"
	OrderTypeImaging   OrderType = "imaging"
	OrderTypeProcedure OrderType = "procedure"
	OrderTypeReferral  OrderType = "referral"
)

func ParseOrderType(s string) (OrderType, error) {
	switch OrderType(s) {
	case OrderTypeLab, OrderTypeImaging, OrderTypeProcedure, OrderTypeReferral:
		return OrderType(s), nil
	default:
		return "", apperror.Newf(apperror.Validation, "invalid order type: %q", s)
	}
}

type OrderPriority string

const (
	OrderPriorityNormal     OrderPriority = "normal"
	OrderPriorityPrioritary OrderPriority = "prioritary"
	OrderPriorityUrgent     OrderPriority = "urgent"
)

// ParseOrderPriority defaults an absent priority to normal.
func ParseOrderPriority(s string) (OrderPriority, error) {
	switch OrderPriority(s) {
	case "":
		return OrderPriorityNormal, nil
	case OrderPriorityNormal, OrderPriorityPrioritary, OrderPriorityUrgent:
		return OrderPriority(s), nil
	default:
		return "", apperror.Newf(apperror.Validation, "invalid order priority: %q", s)
	}
}

// ConsultNote is appended during completion and never updated.
type ConsultNote struct {
	ID            int64     `db:"id" json:"id"`
	AppointmentID int64     `db:"appointment_id" json:"appointment_id"`
	Note          string    `db:"note" json:"note"`
	CreatedAt     time.Time `db:"created_at" json:"created_at"`
}

type Prescription struct {
	ID             int64     `db:"id" json:"id"`
	AppointmentID  int64     `db:"appointment_id" json:"appointment_id"`
	MedicationName string    `db:"medication_name" json:"medication_name"`
	Dose           *string   `db:"dose" json:"dose"`
	Route          *string   `db:"route" json:"route"`
	Frequency      *string   `db:"frequency" json:"frequency"`
	Duration       *string   `db:"duration" json:"duration"`
	Quantity       *string   `db:"quantity" json:"quantity"`
	Instructions   *string   `db:"instructions" json:"instructions"`
	CreatedAt      time.Time `db:"created_at" json:"created_at"`
}

type Order struct {
	ID            int64         `db:"id" json:"id"`
	AppointmentID int64         `db:"appointment_id" json:"appointment_id"`
	Type          OrderType     `db:"type" json:"type"`
	Name          string        `db:"name" json:"name"`
	Priority      OrderPriority `db:"priority" json:"priority"`
	Notes         *string       `db:"notes" json:"notes"`
	ScheduledDate *time.Time    `db:"scheduled_date" json:"scheduled_date"`
	CreatedAt     time.Time     `db:"created_at" json:"created_at"`
}

type PrescriptionInput struct {
	MedicationName string  `json:"medication_name" binding:"required"`
	Dose           *string `json:"dose"`
	Route          *string `json:"route"`
	Frequency      *string `json:"frequency"`
	Duration       *string `json:"duration"`
	Quantity       *string `json:"quantity"`
	Instructions   *string `json:"instructions"`
}

type OrderInput struct {
	Type          string  `json:"type" binding:"required"`
	Name          string  `json:"name" binding:"required"`
	Priority      string  `json:"priority"`
	Notes         *string `json:"notes"`
	ScheduledDate string  `json:"scheduled_date" binding:"omitempty,clinic_datetime"`
}

type CompleteAppointmentRequest struct {
	Notes         string              `json:"notes"`
	Prescriptions []PrescriptionInput `json:"prescriptions"`
	Orders        []OrderInput        `json:"orders"`
}

// Summary views. All timestamps are pre-rendered text so every client
// sees the same fixed representation.

type SummaryHeader struct {
	ID              int64             `json:"id"`
	AppointmentDate string            `json:"appointment_date"`
	Reason          string            `json:"reason"`
	Status          AppointmentStatus `json:"status"`
	PatientName     string            `json:"patient_name"`
	DoctorName      string            `json:"doctor_name"`
	Specialty       *string           `json:"specialty"`
}

type NoteView struct {
	Note      string `json:"note"`
	CreatedAt string `json:"created_at"`
}

type PrescriptionView struct {
	ID             int64   `json:"id"`
	MedicationName string  `json:"medication_name"`
	Dose           *string `json:"dose"`
	Route          *string `json:"route"`
	Frequency      *string `json:"frequency"`
	Duration       *string `json:"duration"`
	Quantity       *string `json:"quantity"`
	Instructions   *string `json:"instructions"`
	CreatedAt      string  `json:"created_at"`
}

type OrderView struct {
	ID            int64         `json:"id"`
	Type          OrderType     `json:"type"`
	Name          string        `json:"name"`
	Priority      OrderPriority `json:"priority"`
	Notes         *string       `json:"notes"`
	ScheduledDate *string       `json:"scheduled_date"`
	CreatedAt     string        `json:"created_at"`
}

type AppointmentSummary struct {
	Appointment   SummaryHeader      `json:"appointment"`
	Note          *NoteView          `json:"note"`
	Prescriptions []PrescriptionView `json:"prescriptions"`
	Orders        []OrderView        `json:"orders"`
}
