package user

import (
	"context"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	domain "user-service/internal/domain/user"
	apperrors "user-service/pkg/errors"
	"user-service/pkg/logger"
	"user-service/pkg/security"
)

// Service implements the business logic for user management operations.
// It provides a clean separation between the transport layer and data layer.
type Service struct {
	repo     Repository          // Repository for data access
	hasher   PasswordHasher      // One-way hashing of credentials
	log      *zap.Logger         // Logger for structured logging
	validate *validator.Validate // Validator for request preconditions
}

var _ Usecase = (*Service)(nil)

// New creates a new user Service with the provided repository, hasher, and logger.
func New(r Repository, h PasswordHasher, log *zap.Logger) *Service {
	return &Service{repo: r, hasher: h, log: log, validate: validator.New()}
}

// ListUsers returns one page of users, optionally narrowed to names containing in.Search
// (case-insensitive). Filtering and windowing run in the store.
func (s *Service) ListUsers(ctx context.Context, in ListUsersRequest) (*domain.PageResult[domain.User], error) {
	log := logger.WithContext(ctx, s.log)

	if err := s.validate.Struct(in); err != nil {
		log.Warn("list users validation failed", zap.Error(err))
		return nil, apperrors.FromValidation(apperrors.SourceQuery, err)
	}

	search, err := security.ValidateSearchQuery(in.Search)
	if err != nil {
		log.Warn("invalid search query", zap.String("search", in.Search), zap.Error(err))
		return nil, apperrors.New(apperrors.KindValidation, err.Error())
	}

	log.Info("listing users",
		zap.String("search", search),
		zap.Int64("page_number", in.PageNumber),
		zap.Int64("page_size", in.PageSize),
	)

	users, total, err := s.repo.List(ctx, domain.ListFilter{
		Search: search,
		Offset: domain.Offset(in.PageNumber, in.PageSize),
		Limit:  in.PageSize,
	})
	if err != nil {
		log.Error("failed to list users", zap.String("search", search), zap.Error(err))
		return nil, err
	}

	return domain.NewPageResult(users, total, in.PageNumber, in.PageSize), nil
}

// GetUser retrieves a user by ID. It returns nil when no such user exists.
func (s *Service) GetUser(ctx context.Context, id string) (*domain.User, error) {
	u, err := s.repo.FindByID(ctx, id)
	if err != nil {
		logger.WithContext(ctx, s.log).Error("failed to get user", zap.String("id", id), zap.Error(err))
		return nil, err
	}
	return u, nil
}

// CreateUser hashes the password and persists a new user.
// Password confirmation and email uniqueness are the caller's responsibility.
func (s *Service) CreateUser(ctx context.Context, in CreateUserRequest) (*domain.User, error) {
	log := logger.WithContext(ctx, s.log)
	log.Info("creating user", zap.String("name", in.Name), zap.String("email", in.Email))

	hashed, err := s.hasher.Hash(in.Password)
	if err != nil {
		log.Error("failed to hash password", zap.Error(err))
		return nil, apperrors.Wrap(apperrors.KindServer, "failed to hash password", err)
	}

	u, err := s.repo.Create(ctx, in.Name, in.Email, hashed)
	if err != nil {
		log.Error("failed to create user", zap.String("email", in.Email), zap.Error(err))
		return nil, err
	}

	return u, nil
}

// EmailIsRegistered reports whether some user already owns email.
func (s *Service) EmailIsRegistered(ctx context.Context, email string) (bool, error) {
	existing, err := s.repo.FindByEmail(ctx, email)
	if err != nil {
		logger.WithContext(ctx, s.log).Error("failed to check existing email", zap.String("email", email), zap.Error(err))
		return false, err
	}
	return existing != nil, nil
}

// UpdateUser replaces name and email of an existing user. It returns nil when no such user exists.
func (s *Service) UpdateUser(ctx context.Context, in UpdateUserRequest) (*domain.User, error) {
	log := logger.WithContext(ctx, s.log)
	log.Info("updating user", zap.String("id", in.ID), zap.String("name", in.Name), zap.String("email", in.Email))

	u, err := s.repo.Update(ctx, in.ID, in.Name, in.Email)
	if err != nil {
		log.Error("failed to update user", zap.String("id", in.ID), zap.Error(err))
		return nil, err
	}
	if u == nil {
		log.Warn("update of unknown user", zap.String("id", in.ID))
	}
	return u, nil
}

// DeleteUser permanently removes a user. It returns nil when no such user exists.
func (s *Service) DeleteUser(ctx context.Context, id string) (*domain.User, error) {
	log := logger.WithContext(ctx, s.log)
	log.Info("deleting user", zap.String("id", id))

	u, err := s.repo.Delete(ctx, id)
	if err != nil {
		log.Error("failed to delete user", zap.String("id", id), zap.Error(err))
		return nil, err
	}
	if u == nil {
		log.Warn("delete of unknown user", zap.String("id", id))
	}
	return u, nil
}

// ChangeUserPassword verifies the old password and replaces the stored hash with one of the new password.
// A non-nil error is only returned together with PasswordStorageFailure.
func (s *Service) ChangeUserPassword(ctx context.Context, in ChangePasswordRequest) (PasswordChangeResult, error) {
	log := logger.WithContext(ctx, s.log)

	u, err := s.repo.FindByID(ctx, in.ID)
	if err != nil {
		log.Error("failed to load user for password change", zap.String("id", in.ID), zap.Error(err))
		return PasswordStorageFailure, err
	}
	if u == nil {
		return PasswordUserNotFound, nil
	}

	matches := s.hasher.Verify(in.OldPassword, u.PasswordHash)

	// the new password is hashed whether or not the old one matched
	hashed, err := s.hasher.Hash(in.NewPassword)
	if err != nil {
		log.Error("failed to hash new password", zap.String("id", in.ID), zap.Error(err))
		return PasswordStorageFailure, apperrors.Wrap(apperrors.KindServer, "failed to hash password", err)
	}

	if !matches {
		log.Warn("old password verification failed", zap.String("id", in.ID))
		return PasswordVerificationFailed, nil
	}

	updated, err := s.repo.UpdatePassword(ctx, in.ID, hashed)
	if err != nil {
		log.Error("failed to update password", zap.String("id", in.ID), zap.Error(err))
		return PasswordStorageFailure, err
	}
	if updated == nil {
		// removed between lookup and update
		return PasswordUserNotFound, nil
	}

	log.Info("password changed", zap.String("id", in.ID))
	return PasswordChanged, nil
}
