package encounter

import (
	"context"
	"strconv"

	"github.com/medcita/clinic-api/internal/apperror"
	"github.com/medcita/clinic-api/internal/model"
)

// authorizeCompletion verifies the caller is a doctor who owns the
// appointment and returns the appointment with its current status.
func (s *Service) authorizeCompletion(ctx context.Context, callerID, appointmentID int64) (*model.Appointment, error) {
	role, err := s.lookupRole(ctx, callerID)
	if err != nil {
		return nil, err
	}
	if role != model.RoleDoctor {
		return nil, apperror.New(apperror.Forbidden, "only doctors can complete appointments")
	}

	apt, err := s.appointments.Get(ctx, appointmentID)
	if err != nil {
		return nil, err
	}
	if apt.DoctorID != callerID {
		return nil, apperror.New(apperror.Forbidden, "not authorized to modify this appointment")
	}
	return apt, nil
}

// authorizeView succeeds only for the appointment's participants.
func (s *Service) authorizeView(callerID int64, detail *model.AppointmentDetail) error {
	if callerID != detail.PatientID && callerID != detail.DoctorID {
		return apperror.New(apperror.Forbidden, "not authorized to view this appointment")
	}
	return nil
}

// lookupRole resolves a user's role through a small cache; roles are
// immutable once the user is created.
func (s *Service) lookupRole(ctx context.Context, userID int64) (model.Role, error) {
	key := strconv.FormatInt(userID, 10)
	if cached, ok := s.roleCache.Get(key); ok {
		return cached.(model.Role), nil
	}

	user, err := s.users.Get(ctx, userID)
	if err != nil {
		return "", err
	}

	s.roleCache.SetDefault(key, user.Role)
	return user.Role, nil
}
