package handler

import (
	"time"

	domain "user-service/internal/domain/user"
)

// listUsersQuery is the query string of GET /users.
// A page_size above user.MaxPageSize is clamped, not rejected.
type listUsersQuery struct {
	PageNumber int64  `form:"page_number,default=1" binding:"min=1"`
	PageSize   int64  `form:"page_size,default=10" binding:"min=1"`
	Search     string `form:"search" binding:"max=100"`
}

// CreateUserRequest represents the HTTP request body for creating a user
type CreateUserRequest struct {
	Name            string `json:"name" binding:"required,min=1,max=100"`
	Email           string `json:"email" binding:"required,email"`
	Password        string `json:"password" binding:"required,min=6,max=32"`
	PasswordConfirm string `json:"password_confirm" binding:"required,min=6,max=32"`
}

// UpdateUserRequest represents the HTTP request body for updating a user
type UpdateUserRequest struct {
	Name  string `json:"name" binding:"required,min=1,max=100"`
	Email string `json:"email" binding:"required,email"`
}

// ChangePasswordRequest represents the HTTP request body for a password change
type ChangePasswordRequest struct {
	OldPassword     string `json:"oldPassword" binding:"required,min=6"`
	NewPassword     string `json:"newPassword" binding:"required,min=6"`
	ConfirmPassword string `json:"confirmPassword" binding:"required"`
}

// UserSummary is a user as it appears in a list
type UserSummary struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
}

// UserResponse represents the HTTP response for a single user
type UserResponse struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// CreatedUserResponse is the body returned after registration
type CreatedUserResponse struct {
	Name  string `json:"name"`
	Email string `json:"email"`
}

// IDResponse is the body returned by update and delete
type IDResponse struct {
	ID string `json:"id"`
}

// MessageResponse carries a human-readable confirmation
type MessageResponse struct {
	Message string `json:"message"`
}

// ListUsersResponse represents the HTTP response for listing users
type ListUsersResponse struct {
	PageNumber      int64         `json:"page_number"`
	PageSize        int64         `json:"page_size"`
	Count           int64         `json:"count"`
	TotalPages      int64         `json:"total_pages"`
	HasPreviousPage bool          `json:"has_previous_page"`
	HasNextPage     bool          `json:"has_next_page"`
	Users           []UserSummary `json:"users"`
}

func newListUsersResponse(q listUsersQuery, page *domain.PageResult[domain.User]) ListUsersResponse {
	users := make([]UserSummary, 0, len(page.Items))
	for _, u := range page.Items {
		users = append(users, UserSummary{ID: u.ID, Name: u.Name, Email: u.Email})
	}
	return ListUsersResponse{
		PageNumber:      q.PageNumber,
		PageSize:        q.PageSize,
		Count:           page.Count,
		TotalPages:      page.TotalPages,
		HasPreviousPage: page.HasPreviousPage,
		HasNextPage:     page.HasNextPage,
		Users:           users,
	}
}

func newUserResponse(u *domain.User) UserResponse {
	return UserResponse{
		ID:        u.ID,
		Name:      u.Name,
		Email:     u.Email,
		CreatedAt: u.CreatedAt,
		UpdatedAt: u.UpdatedAt,
	}
}
