package user

// MaxPageSize is the largest page a listing returns.
const MaxPageSize = 100

// ListUsersRequest represents the request payload for listing users.
// PageNumber is 1-based.
type ListUsersRequest struct {
	PageNumber int64  `validate:"min=1"`
	PageSize   int64  `validate:"min=1,max=100"`
	Search     string `validate:"max=100"`
}

// CreateUserRequest represents the request payload for creating a new user.
// Password is the plaintext credential; it is hashed before it reaches the repository.
type CreateUserRequest struct {
	Name     string
	Email    string
	Password string
}

// UpdateUserRequest represents the request payload for updating an existing user.
type UpdateUserRequest struct {
	ID    string
	Name  string
	Email string
}

// ChangePasswordRequest represents the request payload for rotating a user's password.
type ChangePasswordRequest struct {
	ID          string
	OldPassword string
	NewPassword string
}

// PasswordChangeResult tells apart the outcomes of a password change.
type PasswordChangeResult int

const (
	PasswordChanged            PasswordChangeResult = iota // new hash committed
	PasswordVerificationFailed                             // old password did not match
	PasswordUserNotFound                                   // no user with that id
	PasswordStorageFailure                                 // hashing or persistence failed
)

func (r PasswordChangeResult) String() string {
	switch r {
	case PasswordChanged:
		return "changed"
	case PasswordVerificationFailed:
		return "verification_failed"
	case PasswordUserNotFound:
		return "user_not_found"
	case PasswordStorageFailure:
		return "storage_failure"
	default:
		return "unknown"
	}
}
