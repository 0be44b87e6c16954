// Package encounter implements the completion workflow: the ownership
// guard, the atomic recording of clinical artifacts, and the summary
// read side.
package encounter

import (
	"context"
	"time"

	"github.com/patrickmn/go-cache"

	"github.com/medcita/clinic-api/internal/apperror"
	"github.com/medcita/clinic-api/internal/model"
	"github.com/medcita/clinic-api/internal/repository"
)

const (
	roleCacheTTL     = 15 * time.Minute
	roleCacheCleanup = 1 * time.Hour
)

type Service struct {
	repo         repository.EncounterRepository
	appointments repository.AppointmentRepository
	users        repository.UserRepository
	roleCache    *cache.Cache
}

func NewService(repo repository.EncounterRepository, appointments repository.AppointmentRepository, users repository.UserRepository) *Service {
	return &Service{
		repo:         repo,
		appointments: appointments,
		users:        users,
		roleCache:    cache.New(roleCacheTTL, roleCacheCleanup),
	}
}

// Complete records the consult note, prescriptions and orders for an
// appointment and marks it completed, all inside one transaction.
// Either every artifact lands and the status becomes completed, or
// nothing persists at all.
func (s *Service) Complete(ctx context.Context, appointmentID, callerID int64, req *model.CompleteAppointmentRequest) error {
	if _, err := s.authorizeCompletion(ctx, callerID, appointmentID); err != nil {
		return err
	}

	// Validate and parse everything before touching the transaction.
	prescriptions, err := buildPrescriptions(appointmentID, req.Prescriptions)
	if err != nil {
		return err
	}
	orders, err := buildOrders(appointmentID, req.Orders)
	if err != nil {
		return err
	}

	return s.repo.WithTx(ctx, func(tx repository.EncounterTx) error {
		// Re-read under a row lock so the status observed here cannot be
		// changed by a concurrent request before this transaction commits.
		apt, err := tx.AppointmentForUpdate(ctx, appointmentID)
		if err != nil {
			return err
		}

		if apt.Status == model.AppointmentStatusCancelled {
			return apperror.New(apperror.InvalidTransition, "appointment is cancelled")
		}

		if req.Notes != "" {
			if err := tx.InsertConsultNote(ctx, appointmentID, req.Notes); err != nil {
				return err
			}
		}
		for _, p := range prescriptions {
			if err := tx.InsertPrescription(ctx, p); err != nil {
				return err
			}
		}
		for _, o := range orders {
			if err := tx.InsertOrder(ctx, o); err != nil {
				return err
			}
		}

		// Already-completed appointments keep their status but still
		// accept the new artifacts.
		if apt.Status == model.AppointmentStatusScheduled {
			if err := tx.SetStatus(ctx, appointmentID, model.AppointmentStatusCompleted); err != nil {
				return err
			}
		}
		return nil
	})
}

// Summary joins the appointment with its recorded artifacts for a
// participant.
func (s *Service) Summary(ctx context.Context, appointmentID, callerID int64) (*model.AppointmentSummary, error) {
	detail, err := s.appointments.GetDetail(ctx, appointmentID)
	if err != nil {
		return nil, err
	}

	if err := s.authorizeView(callerID, detail); err != nil {
		return nil, err
	}

	prescriptions, err := s.repo.ListPrescriptions(ctx, appointmentID)
	if err != nil {
		return nil, err
	}
	orders, err := s.repo.ListOrders(ctx, appointmentID)
	if err != nil {
		return nil, err
	}
	note, err := s.repo.LatestNote(ctx, appointmentID)
	if err != nil {
		return nil, err
	}

	return assembleSummary(detail, note, prescriptions, orders), nil
}

func buildPrescriptions(appointmentID int64, inputs []model.PrescriptionInput) ([]*model.Prescription, error) {
	prescriptions := make([]*model.Prescription, 0, len(inputs))
	for _, in := range inputs {
		if in.MedicationName == "" {
			return nil, apperror.New(apperror.Validation, "medication_name is required")
		}
		prescriptions = append(prescriptions, &model.Prescription{
			AppointmentID:  appointmentID,
			MedicationName: in.MedicationName,
			Dose:           in.Dose,
			Route:          in.Route,
			Frequency:      in.Frequency,
			Duration:       in.Duration,
			Quantity:       in.Quantity,
			Instructions:   in.Instructions,
		})
	}
	return prescriptions, nil
}

func buildOrders(appointmentID int64, inputs []model.OrderInput) ([]*model.Order, error) {
	orders := make([]*model.Order, 0, len(inputs))
	for _, in := range inputs {
		orderType, err := model.ParseOrderType(in.Type)
		if err != nil {
			return nil, err
		}
		priority, err := model.ParseOrderPriority(in.Priority)
		if err != nil {
			return nil, err
		}
		if in.Name == "" {
			return nil, apperror.New(apperror.Validation, "order name is required")
		}

		var scheduled *time.Time
		if in.ScheduledDate != "" {
			t, err := model.ParseDateTimeInput(in.ScheduledDate)
			if err != nil {
				return nil, err
			}
			scheduled = &t
		}

		orders = append(orders, &model.Order{
			AppointmentID: appointmentID,
			Type:          orderType,
			Name:          in.Name,
			Priority:      priority,
			Notes:         in.Notes,
			ScheduledDate: scheduled,
		})
	}
	return orders, nil
}

func assembleSummary(detail *model.AppointmentDetail, note *model.ConsultNote, prescriptions []*model.Prescription, orders []*model.Order) *model.AppointmentSummary {
	summary := &model.AppointmentSummary{
		Appointment: model.SummaryHeader{
			ID:              detail.ID,
			AppointmentDate: model.FormatDisplayTime(detail.AppointmentDate),
			Reason:          detail.Reason,
			Status:          detail.Status,
			PatientName:     detail.PatientName,
			DoctorName:      detail.DoctorName,
			Specialty:       detail.Specialty,
		},
		Prescriptions: make([]model.PrescriptionView, 0, len(prescriptions)),
		Orders:        make([]model.OrderView, 0, len(orders)),
	}

	if note != nil {
		summary.Note = &model.NoteView{
			Note:      note.Note,
			CreatedAt: model.FormatDisplayTime(note.CreatedAt),
		}
	}

	for _, p := range prescriptions {
		summary.Prescriptions = append(summary.Prescriptions, model.PrescriptionView{
			ID:             p.ID,
			MedicationName: p.MedicationName,
			Dose:           p.Dose,
			Route:          p.Route,
			Frequency:      p.Frequency,
			Duration:       p.Duration,
			Quantity:       p.Quantity,
			Instructions:   p.Instructions,
			CreatedAt:      model.FormatDisplayTime(p.CreatedAt),
		})
	}

	for _, o := range orders {
		var scheduled *string
		if o.ScheduledDate != nil {
			text := model.FormatDisplayTime(*o.ScheduledDate)
			scheduled = &text
		}
		summary.Orders = append(summary.Orders, model.OrderView{
			ID:            o.ID,
			Type:          o.Type,
			Name:          o.Name,
			Priority:      o.Priority,
			Notes:         o.Notes,
			ScheduledDate: scheduled,
			CreatedAt:     model.FormatDisplayTime(o.CreatedAt),
		})
	}

	return summary
}
