package postgres

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/medcita/clinic-api/internal/apperror"
	"github.com/medcita/clinic-api/internal/model"
)

func (r *userRepository) Create(ctx context.Context, user *model.User) error {
	query := `
		INSERT INTO users (full_name, email, password_hash, role, specialty, created_at)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id
	`
	user.CreatedAt = time.Now()

	err := r.db.QueryRowxContext(ctx, query,
		user.FullName,
		user.Email,
		user.PasswordHash,
		user.Role,
		user.Specialty,
		user.CreatedAt,
	).Scan(&user.ID)
	if err != nil {
		return apperror.Wrap(apperror.Internal, "failed to create user", err)
	}
	return nil
}

func (r *userRepository) Get(ctx context.Context, id int64) (*model.User, error) {
	query := `
		SELECT id, full_name, email, password_hash, role, specialty, created_at
		FROM users
		WHERE id = $1
	`
	var user model.User
	if err := r.db.GetContext(ctx, &user, query, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, apperror.New(apperror.NotFound, "user not found")
		}
		return nil, apperror.Wrap(apperror.Internal, "failed to get user", err)
	}
	return &user, nil
}

func (r *userRepository) GetByEmail(ctx context.Context, email string) (*model.User, error) {
	query := `
		SELECT id, full_name, email, password_hash, role, specialty, created_at
		FROM users
		WHERE email = $1
	`
	var user model.User
	if err := r.db.GetContext(ctx, &user, query, email); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, apperror.New(apperror.NotFound, "user not found")
		}
		return nil, apperror.Wrap(apperror.Internal, "failed to get user by email", err)
	}
	return &user, nil
}

func (r *userRepository) EmailExists(ctx context.Context, email string) (bool, error) {
	query := `SELECT EXISTS (SELECT 1 FROM users WHERE email = $1)`

	var exists bool
	if err := r.db.GetContext(ctx, &exists, query, email); err != nil {
		return false, apperror.Wrap(apperror.Internal, "failed to check email", err)
	}
	return exists, nil
}

func (r *userRepository) ListDoctors(ctx context.Context) ([]*model.DoctorEntry, error) {
	query := `
		SELECT id, full_name, email, specialty
		FROM users
		WHERE role = 'doctor'
		ORDER BY full_name ASC
	`
	var doctors []*model.DoctorEntry
	if err := r.db.SelectContext(ctx, &doctors, query); err != nil {
		return nil, apperror.Wrap(apperror.Internal, "failed to list doctors", err)
	}
	return doctors, nil
}
