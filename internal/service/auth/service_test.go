package auth

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/medcita/clinic-api/internal/apperror"
	"github.com/medcita/clinic-api/internal/model"
	pkgauth "github.com/medcita/clinic-api/pkg/auth"
)

type fakeUserRepo struct {
	users  map[int64]*model.User
	nextID int64
}

func (r *fakeUserRepo) Create(ctx context.Context, user *model.User) error {
	r.nextID++
	user.ID = r.nextID
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
	var out []*model.DoctorEntry
	for _, u := range r.users {
		if u.Role == model.RoleDoctor {
			out = append(out, &model.DoctorEntry{
				UserID:    u.ID,
				FullName:  u.FullName,
				Email:     u.Email,
				Specialty: u.Specialty,
			})
		}
	}
	return out, nil
}

func newService() (*Service, *fakeUserRepo) {
	repo := &fakeUserRepo{users: map[int64]*model.User{}}
	return NewService(repo, pkgauth.NewStaticTokenService()), repo
}

func strPtr(s string) *string { return &s }

func TestRegisterDoctorKeepsSpecialty(t *testing.T) {
	svc, _ := newService()

	user, err := svc.Register(context.Background(), &model.RegisterRequest{
		FullName:  "Dr. Diaz",
		Email:     "diaz@example.com",
		Password:  "secret123",
		Role:      "doctor",
		Specialty: strPtr("cardiology"),
	})
	require.NoError(t, err)

	assert.Equal(t, model.RoleDoctor, user.Role)
	require.NotNil(t, user.Specialty)
	assert.Equal(t, "cardiology", *user.Specialty)
	assert.NotEqual(t, "secret123", user.PasswordHash)
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte("secret123")))
}

func TestRegisterPatientDropsSpecialty(t *testing.T) {
	svc, _ := newService()

	user, err := svc.Register(context.Background(), &model.RegisterRequest{
		FullName:  "Paula Patient",
		Email:     "paula@example.com",
		Password:  "secret123",
		Role:      "patient",
		Specialty: strPtr("cardiology"),
	})
	require.NoError(t, err)
	assert.Nil(t, user.Specialty)
}

func TestRegisterInvalidRole(t *testing.T) {
	svc, repo := newService()

	_, err := svc.Register(context.Background(), &model.RegisterRequest{
		FullName: "Nurse Nancy",
		Email:    "nancy@example.com",
		Password: "secret123",
		Role:     "nurse",
	})
	require.Error(t, err)
	assert.True(t, apperror.IsKind(err, apperror.Validation))
	assert.Empty(t, repo.users)
}

func TestRegisterDuplicateEmail(t *testing.T) {
	svc, _ := newService()

	req := &model.RegisterRequest{
		FullName: "Paula Patient",
		Email:    "paula@example.com",
		Password: "secret123",
		Role:     "patient",
	}
	_, err := svc.Register(context.Background(), req)
	require.NoError(t, err)

	_, err = svc.Register(context.Background(), req)
	require.Error(t, err)
	assert.True(t, apperror.IsKind(err, apperror.Validation))
}

func TestLogin(t *testing.T) {
	svc, _ := newService()

	user, err := svc.Register(context.Background(), &model.RegisterRequest{
		FullName: "Paula Patient",
		Email:    "paula@example.com",
		Password: "secret123",
		Role:     "patient",
	})
	require.NoError(t, err)

	resp, err := svc.Login(context.Background(), &model.LoginRequest{
		Email:    "paula@example.com",
		Password: "secret123",
	})
	require.NoError(t, err)

	assert.Equal(t, user.ID, resp.UserID)
	assert.Equal(t, "Paula Patient", resp.FullName)
	assert.Equal(t, model.RolePatient, resp.Role)
	assert.NotEmpty(t, resp.Token)

	id, err := svc.ResolveToken(context.Background(), resp.Token)
	require.NoError(t, err)
	assert.Equal(t, user.ID, id)
}

func TestLoginFailuresAreIndistinct(t *testing.T) {
	svc, _ := newService()

	_, err := svc.Register(context.Background(), &model.RegisterRequest{
		FullName: "Paula Patient",
		Email:    "paula@example.com",
		Password: "secret123",
		Role:     "patient",
	})
	require.NoError(t, err)

	_, wrongPassword := svc.Login(context.Background(), &model.LoginRequest{
		Email:    "paula@example.com",
		Password: "wrong",
	})
	_, unknownEmail := svc.Login(context.Background(), &model.LoginRequest{
		Email:    "nobody@example.com",
		Password: "secret123",
	})

	require.Error(t, wrongPassword)
	require.Error(t, unknownEmail)
	assert.True(t, apperror.IsKind(wrongPassword, apperror.Unauthorized))
	assert.True(t, apperror.IsKind(unknownEmail, apperror.Unauthorized))
	assert.Equal(t, wrongPassword.Error(), unknownEmail.Error())
}

func TestListDoctors(t *testing.T) {
	svc, _ := newService()

	_, err := svc.Register(context.Background(), &model.RegisterRequest{
		FullName: "Paula Patient", Email: "paula@example.com", Password: "secret123", Role: "patient",
	})
	require.NoError(t, err)
	_, err = svc.Register(context.Background(), &model.RegisterRequest{
		FullName: "Dr. Diaz", Email: "diaz@example.com", Password: "secret123", Role: "doctor", Specialty: strPtr("cardiology"),
	})
	require.NoError(t, err)

	doctors, err := svc.ListDoctors(context.Background())
	require.NoError(t, err)
	require.Len(t, doctors, 1)
	assert.Equal(t, "Dr. Diaz", doctors[0].FullName)
}
