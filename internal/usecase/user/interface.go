package user

import (
	"context"

	domain "user-service/internal/domain/user"
)

// Usecase defines the interface for user business logic operations.
type Usecase interface {
	ListUsers(ctx context.Context, in ListUsersRequest) (*domain.PageResult[domain.User], error)
	GetUser(ctx context.Context, id string) (*domain.User, error)
	CreateUser(ctx context.Context, in CreateUserRequest) (*domain.User, error)
	EmailIsRegistered(ctx context.Context, email string) (bool, error)
	UpdateUser(ctx context.Context, in UpdateUserRequest) (*domain.User, error)
	DeleteUser(ctx context.Context, id string) (*domain.User, error)
	ChangeUserPassword(ctx context.Context, in ChangePasswordRequest) (PasswordChangeResult, error)
}

// Repository defines the interface for user data access operations.
// Lookups return nil, nil when the identifier does not resolve; store failures
// are reported as STORAGE errors.
type Repository interface {
	ListAll(ctx context.Context) ([]domain.User, error)                                 // Every user, unpaged
	List(ctx context.Context, filter domain.ListFilter) ([]domain.User, int64, error)   // One filtered window plus total matches
	FindByID(ctx context.Context, id string) (*domain.User, error)                      // Retrieve user by ID
	FindByEmail(ctx context.Context, email string) (*domain.User, error)                // Retrieve user by email
	Create(ctx context.Context, name, email, passwordHash string) (*domain.User, error) // Insert a new user
	Update(ctx context.Context, id, name, email string) (*domain.User, error)           // Replace name and email
	Delete(ctx context.Context, id string) (*domain.User, error)                        // Remove permanently
	UpdatePassword(ctx context.Context, id, passwordHash string) (*domain.User, error)  // Replace the password hash
}

// PasswordHasher hashes and verifies credentials.
type PasswordHasher interface {
	Hash(plain string) (string, error)
	Verify(plain, hash string) bool
}
