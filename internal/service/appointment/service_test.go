package appointment

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/medcita/clinic-api/internal/apperror"
	"github.com/medcita/clinic-api/internal/model"
)

type fakeUserRepo struct {
	users map[int64]*model.User
}

func (r *fakeUserRepo) Create(ctx context.Context, user *model.User) error {
	r.users[user.ID] = user
	return nil
}

func (r *fakeUserRepo) Get(ctx context.Context, id int64) (*model.User, error) {
	u, ok := r.users[id]
	if !ok {
		return nil, apperror.New(apperror.NotFound, "user not found")
	}
	return u, nil
}

func (r *fakeUserRepo) GetByEmail(ctx context.Context, email string) (*model.User, error) {
	for _, u := range r.users {
		if u.Email == email {
			return u, nil
		}
	}
	return nil, apperror.New(apperror.NotFound, "user not found")
}

func (r *fakeUserRepo) EmailExists(ctx context.Context, email string) (bool, error) {
	_, err := r.GetByEmail(ctx, email)
	return err == nil, nil
}

func (r *fakeUserRepo) ListDoctors(ctx context.Context) ([]*model.DoctorEntry, error) {
	return nil, nil
}

type fakeAppointmentRepo struct {
	appointments map[int64]*model.Appointment
	nextID       int64

	patientEntries []*model.PatientHistoryEntry
	doctorEntries  []*model.DoctorHistoryEntry

	// Flips the stored status between the Get and the conditional
	// cancel, simulating a concurrent completion.
	raceToCompleted bool
}

func (r *fakeAppointmentRepo) Create(ctx context.Context, apt *model.Appointment) error {
	r.nextID++
	apt.ID = r.nextID
	r.appointments[apt.ID] = apt
	return nil
}

func (r *fakeAppointmentRepo) Get(ctx context.Context, id int64) (*model.Appointment, error) {
	apt, ok := r.appointments[id]
	if !ok {
		return nil, apperror.New(apperror.NotFound, "appointment not found")
	}
	copied := *apt
	if r.raceToCompleted {
		apt.Status = model.AppointmentStatusCompleted
	}
	return &copied, nil
}

func (r *fakeAppointmentRepo) GetDetail(ctx context.Context, id int64) (*model.AppointmentDetail, error) {
	return nil, apperror.New(apperror.NotFound, "appointment not found")
}

func (r *fakeAppointmentRepo) CancelIfScheduled(ctx context.Context, id int64) (bool, error) {
	apt, ok := r.appointments[id]
	if !ok || apt.Status != model.AppointmentStatusScheduled {
		return false, nil
	}
	apt.Status = model.AppointmentStatusCancelled
	return true, nil
}

func (r *fakeAppointmentRepo) ListForPatient(ctx context.Context, patientID int64) ([]*model.PatientHistoryEntry, error) {
	return r.patientEntries, nil
}

func (r *fakeAppointmentRepo) ListForDoctor(ctx context.Context, doctorID int64) ([]*model.DoctorHistoryEntry, error) {
	return r.doctorEntries, nil
}

func newFixture() (*Service, *fakeAppointmentRepo) {
	specialty := "dermatology"
	users := &fakeUserRepo{users: map[int64]*model.User{
		2: {ID: 2, FullName: "Paula Patient", Email: "paula@example.com", Role: model.RolePatient},
		3: {ID: 3, FullName: "Dr. Diaz", Email: "diaz@example.com", Role: model.RoleDoctor, Specialty: &specialty},
	}}
	repo := &fakeAppointmentRepo{appointments: map[int64]*model.Appointment{}}
	return NewService(repo, users), repo
}

func seedAppointment(repo *fakeAppointmentRepo, status model.AppointmentStatus) *model.Appointment {
	apt := &model.Appointment{
		ID:              7,
		PatientID:       2,
		DoctorID:        3,
		AppointmentDate: time.Date(2024, 4, 30, 10, 0, 0, 0, time.UTC),
		Reason:          "checkup",
		Status:          status,
	}
	repo.appointments[apt.ID] = apt
	return apt
}

func TestBook(t *testing.T) {
	svc, repo := newFixture()

	apt, err := svc.Book(context.Background(), 2, &model.CreateAppointmentRequest{
		DoctorID:        3,
		AppointmentDate: "2024-04-30T10:00",
		Reason:          "checkup",
	})
	require.NoError(t, err)

	assert.NotZero(t, apt.ID)
	assert.Equal(t, int64(2), apt.PatientID)
	assert.Equal(t, int64(3), apt.DoctorID)
	assert.Equal(t, model.AppointmentStatusScheduled, apt.Status)
	assert.Equal(t, time.Date(2024, 4, 30, 10, 0, 0, 0, time.UTC), apt.AppointmentDate)
	assert.Len(t, repo.appointments, 1)
}

func TestBookUnknownDoctor(t *testing.T) {
	svc, repo := newFixture()

	_, err := svc.Book(context.Background(), 2, &model.CreateAppointmentRequest{
		DoctorID:        99,
		AppointmentDate: "2024-04-30T10:00",
		Reason:          "checkup",
	})
	require.Error(t, err)
	assert.True(t, apperror.IsKind(err, apperror.Validation))
	assert.Empty(t, repo.appointments)
}

func TestBookWithPatientAsDoctor(t *testing.T) {
	svc, _ := newFixture()

	_, err := svc.Book(context.Background(), 2, &model.CreateAppointmentRequest{
		DoctorID:        2,
		AppointmentDate: "2024-04-30T10:00",
		Reason:          "checkup",
	})
	require.Error(t, err)
	assert.True(t, apperror.IsKind(err, apperror.Validation))
}

func TestBookBadDate(t *testing.T) {
	svc, repo := newFixture()

	_, err := svc.Book(context.Background(), 2, &model.CreateAppointmentRequest{
		DoctorID:        3,
		AppointmentDate: "30/04/2024",
		Reason:          "checkup",
	})
	require.Error(t, err)
	assert.True(t, apperror.IsKind(err, apperror.Validation))
	assert.Empty(t, repo.appointments)
}

func TestCancelByPatient(t *testing.T) {
	svc, repo := newFixture()
	seedAppointment(repo, model.AppointmentStatusScheduled)

	require.NoError(t, svc.Cancel(context.Background(), 7, 2))
	assert.Equal(t, model.AppointmentStatusCancelled, repo.appointments[7].Status)
}

func TestCancelByDoctor(t *testing.T) {
	svc, repo := newFixture()
	seedAppointment(repo, model.AppointmentStatusScheduled)

	require.NoError(t, svc.Cancel(context.Background(), 7, 3))
	assert.Equal(t, model.AppointmentStatusCancelled, repo.appointments[7].Status)
}

func TestCancelByStrangerForbidden(t *testing.T) {
	svc, repo := newFixture()
	seedAppointment(repo, model.AppointmentStatusScheduled)

	err := svc.Cancel(context.Background(), 7, 42)
	require.Error(t, err)
	assert.True(t, apperror.IsKind(err, apperror.Forbidden))
	assert.Equal(t, model.AppointmentStatusScheduled, repo.appointments[7].Status)
}

func TestCancelTerminalStates(t *testing.T) {
	for _, status := range []model.AppointmentStatus{
		model.AppointmentStatusCompleted,
		model.AppointmentStatusCancelled,
	} {
		t.Run(string(status), func(t *testing.T) {
			svc, repo := newFixture()
			seedAppointment(repo, status)

			err := svc.Cancel(context.Background(), 7, 2)
			require.Error(t, err)
			assert.True(t, apperror.IsKind(err, apperror.InvalidTransition))
			assert.Equal(t, status, repo.appointments[7].Status)
		})
	}
}

func TestCancelMissingAppointment(t *testing.T) {
	svc, _ := newFixture()

	err := svc.Cancel(context.Background(), 99, 2)
	require.Error(t, err)
	assert.True(t, apperror.IsKind(err, apperror.NotFound))
}

func TestCancelLosesRaceToCompletion(t *testing.T) {
	svc, repo := newFixture()
	seedAppointment(repo, model.AppointmentStatusScheduled)
	repo.raceToCompleted = true

	err := svc.Cancel(context.Background(), 7, 2)
	require.Error(t, err)
	assert.True(t, apperror.IsKind(err, apperror.InvalidTransition))
	assert.Equal(t, model.AppointmentStatusCompleted, repo.appointments[7].Status)
}

func TestPatientHistoryRendersDates(t *testing.T) {
	svc, repo := newFixture()
	repo.patientEntries = []*model.PatientHistoryEntry{
		{ID: 7, AppointmentDate: time.Date(2024, 4, 30, 10, 0, 0, 0, time.UTC), Reason: "checkup", Status: model.AppointmentStatusScheduled, DoctorName: "Dr. Diaz"},
	}

	entries, err := svc.PatientHistory(context.Background(), 2)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, "2024-04-30 10:00:00", entries[0].AppointmentDateText)
}

func TestHistoryForDispatchesOnRole(t *testing.T) {
	svc, repo := newFixture()
	repo.patientEntries = []*model.PatientHistoryEntry{{ID: 1}}
	repo.doctorEntries = []*model.DoctorHistoryEntry{{ID: 2}, {ID: 3}}

	got, err := svc.HistoryFor(context.Background(), 2)
	require.NoError(t, err)
	patientRows, ok := got.([]*model.PatientHistoryEntry)
	require.True(t, ok)
	assert.Len(t, patientRows, 1)

	got, err = svc.HistoryFor(context.Background(), 3)
	require.NoError(t, err)
	doctorRows, ok := got.([]*model.DoctorHistoryEntry)
	require.True(t, ok)
	assert.Len(t, doctorRows, 2)
}

func TestHistoryForUnknownUser(t *testing.T) {
	svc, _ := newFixture()

	_, err := svc.HistoryFor(context.Background(), 123)
	require.Error(t, err)
	assert.True(t, apperror.IsKind(err, apperror.NotFound))
}
