package auth

import (
	"context"

	"golang.org/x/crypto/bcrypt"

	"github.com/medcita/clinic-api/internal/apperror"
	"github.com/medcita/clinic-api/internal/model"
	"github.com/medcita/clinic-api/internal/repository"
	"github.com/medcita/clinic-api/pkg/auth"
)

const bcryptCost = 12

type Service struct {
	users  repository.UserRepository
	tokens auth.TokenService
}

func NewService(users repository.UserRepository, tokens auth.TokenService) *Service {
	return &Service{
		users:  users,
		tokens: tokens,
	}
}

// Register creates a credential record. Specialty only applies to
// doctors and is nulled for everyone else.
func (s *Service) Register(ctx context.Context, req *model.RegisterRequest) (*model.User, error) {
	role, err := model.ParseRole(req.Role)
	if err != nil {
		return nil, err
	}

	specialty := req.Specialty
	if role != model.RoleDoctor {
		specialty = nil
	}

	exists, err := s.users.EmailExists(ctx, req.Email)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, apperror.New(apperror.Validation, "email already registered")
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcryptCost)
	if err != nil {
		return nil, apperror.Wrap(apperror.Internal, "failed to hash password", err)
	}

	user := &model.User{
		FullName:     req.FullName,
		Email:        req.Email,
		PasswordHash: string(hash),
		Role:         role,
		Specialty:    specialty,
	}
	if err := s.users.Create(ctx, user); err != nil {
		return nil, err
	}
	return user, nil
}

// Login verifies credentials and issues a bearer token. Unknown email
// and wrong password are indistinguishable to the caller.
func (s *Service) Login(ctx context.Context, req *model.LoginRequest) (*model.TokenResponse, error) {
	user, err := s.users.GetByEmail(ctx, req.Email)
	if err != nil {
		if apperror.IsKind(err, apperror.NotFound) {
			return nil, apperror.New(apperror.Unauthorized, "invalid credentials")
		}
		return nil, err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.Password)); err != nil {
		return nil, apperror.New(apperror.Unauthorized, "invalid credentials")
	}

	token, err := s.tokens.Issue(user)
	if err != nil {
		return nil, err
	}

	return &model.TokenResponse{
		Token:     token,
		UserID:    user.ID,
		FullName:  user.FullName,
		Email:     user.Email,
		Role:      user.Role,
		Specialty: user.Specialty,
	}, nil
}

func (s *Service) ListDoctors(ctx context.Context) ([]*model.DoctorEntry, error) {
	return s.users.ListDoctors(ctx)
}

// ResolveToken maps a presented bearer token to the caller's user id.
func (s *Service) ResolveToken(ctx context.Context, token string) (int64, error) {
	return s.tokens.Resolve(token)
}
