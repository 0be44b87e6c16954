package appointment

import (
	"context"

	"github.com/medcita/clinic-api/internal/apperror"
	"github.com/medcita/clinic-api/internal/model"
	"github.com/medcita/clinic-api/internal/repository"
)

type Service struct {
	repo  repository.AppointmentRepository
	users repository.UserRepository
}

func NewService(repo repository.AppointmentRepository, users repository.UserRepository) *Service {
	return &Service{
		repo:  repo,
		users: users,
	}
}

// Book creates a scheduled appointment for the calling patient.
func (s *Service) Book(ctx context.Context, patientID int64, req *model.CreateAppointmentRequest) (*model.Appointment, error) {
	doctor, err := s.users.Get(ctx, req.DoctorID)
	if err != nil {
		if apperror.IsKind(err, apperror.NotFound) {
			return nil, apperror.New(apperror.Validation, "doctor not found")
		}
		return nil, err
	}
	if doctor.Role != model.RoleDoctor {
		return nil, apperror.New(apperror.Validation, "doctor not found")
	}

	date, err := model.ParseDateTimeInput(req.AppointmentDate)
	if err != nil {
		return nil, err
	}

	apt := &model.Appointment{
		PatientID:       patientID,
		DoctorID:        req.DoctorID,
		AppointmentDate: date,
		Reason:          req.Reason,
		Status:          model.AppointmentStatusScheduled,
	}
	if err := s.repo.Create(ctx, apt); err != nil {
		return nil, err
	}
	return apt, nil
}

// Cancel moves a scheduled appointment to cancelled. The caller must be
// a participant; the status write is conditional so a racing completion
// cannot be overwritten.
func (s *Service) Cancel(ctx context.Context, id, callerID int64) error {
	apt, err := s.repo.Get(ctx, id)
	if err != nil {
		return err
	}

	if callerID != apt.PatientID && callerID != apt.DoctorID {
		return apperror.New(apperror.Forbidden, "not a participant of this appointment")
	}

	if !apt.Status.CanTransitionTo(model.AppointmentStatusCancelled) {
		return apperror.Newf(apperror.InvalidTransition, "appointment cannot be cancelled from status %s", apt.Status)
	}

	cancelled, err := s.repo.CancelIfScheduled(ctx, id)
	if err != nil {
		return err
	}
	if !cancelled {
		// Lost the race: the status changed between the read and the
		// conditional write.
		return apperror.New(apperror.InvalidTransition, "appointment is no longer scheduled")
	}
	return nil
}

// PatientHistory lists a patient's appointments, newest first.
func (s *Service) PatientHistory(ctx context.Context, patientID int64) ([]*model.PatientHistoryEntry, error) {
	entries, err := s.repo.ListForPatient(ctx, patientID)
	if err != nil {
		return nil, err
	}
	for _, e := range entries {
		e.AppointmentDateText = model.FormatDisplayTime(e.AppointmentDate)
	}
	return entries, nil
}

// DoctorHistory lists a doctor's appointments, newest first.
func (s *Service) DoctorHistory(ctx context.Context, doctorID int64) ([]*model.DoctorHistoryEntry, error) {
	entries, err := s.repo.ListForDoctor(ctx, doctorID)
	if err != nil {
		return nil, err
	}
	for _, e := range entries {
		e.AppointmentDateText = model.FormatDisplayTime(e.AppointmentDate)
	}
	return entries, nil
}

// HistoryFor dispatches on the caller's role.
func (s *Service) HistoryFor(ctx context.Context, userID int64) (interface{}, error) {
	user, err := s.users.Get(ctx, userID)
	if err != nil {
		return nil, err
	}
	if user.Role == model.RoleDoctor {
		return s.DoctorHistory(ctx, userID)
	}
	return s.PatientHistory(ctx, userID)
}
