package handler

import (
	"net/http"
	"unicode/utf8"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"user-service/internal/usecase/user"
	apperrors "user-service/pkg/errors"
	"user-service/pkg/logger"
)

const (
	minPasswordLength = 6
	maxPasswordLength = 32
)

// UserHandler handles HTTP requests for user operations.
// Failures are attached with c.Error and rendered by middleware.ErrorHandler.
type UserHandler struct {
	uc  user.Usecase
	log *zap.Logger
}

// NewUserHandler creates a new UserHandler instance
func NewUserHandler(uc user.Usecase, log *zap.Logger) *UserHandler {
	return &UserHandler{
		uc:  uc,
		log: log,
	}
}

func bindError(c *gin.Context, source string, err error) {
	_ = c.Error(err).SetType(gin.ErrorTypeBind).SetMeta(source)
}

// ListUsers handles GET /users
func (h *UserHandler) ListUsers(c *gin.Context) {
	var q listUsersQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		bindError(c, apperrors.SourceQuery, err)
		return
	}
	q.PageSize = min(q.PageSize, user.MaxPageSize)

	page, err := h.uc.ListUsers(c.Request.Context(), user.ListUsersRequest{
		PageNumber: q.PageNumber,
		PageSize:   q.PageSize,
		Search:     q.Search,
	})
	if err != nil {
		_ = c.Error(err)
		return
	}

	c.JSON(http.StatusOK, newListUsersResponse(q, page))
}

// GetUser handles GET /users/:id
func (h *UserHandler) GetUser(c *gin.Context) {
	id := c.Param("id")

	u, err := h.uc.GetUser(c.Request.Context(), id)
	if err != nil {
		_ = c.Error(err)
		return
	}
	if u == nil {
		_ = c.Error(apperrors.New(apperrors.KindUnprocessableEntity, "Unknown user"))
		return
	}

	c.JSON(http.StatusOK, newUserResponse(u))
}

// CreateUser handles POST /users
func (h *UserHandler) CreateUser(c *gin.Context) {
	var req CreateUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, apperrors.SourceBody, err)
		return
	}

	if req.Password != req.PasswordConfirm {
		_ = c.Error(apperrors.New(apperrors.KindInvalidPassword, "Password confirmation mismatched"))
		return
	}

	ctx := c.Request.Context()
	taken, err := h.uc.EmailIsRegistered(ctx, req.Email)
	if err != nil {
		_ = c.Error(err)
		return
	}
	if taken {
		_ = c.Error(apperrors.New(apperrors.KindEmailAlreadyTaken, "Email is already registered"))
		return
	}

	u, err := h.uc.CreateUser(ctx, user.CreateUserRequest{
		Name:     req.Name,
		Email:    req.Email,
		Password: req.Password,
	})
	if err != nil {
		if apperrors.IsStorage(err) {
			err = apperrors.Wrap(apperrors.KindUnprocessableEntity, "Failed to create user", err)
		}
		_ = c.Error(err)
		return
	}

	logger.WithContext(ctx, h.log).Info("user registered", zap.String("id", u.ID))
	c.JSON(http.StatusOK, CreatedUserResponse{Name: u.Name, Email: u.Email})
}

// UpdateUser handles PUT /users/:id
func (h *UserHandler) UpdateUser(c *gin.Context) {
	id := c.Param("id")

	var req UpdateUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, apperrors.SourceBody, err)
		return
	}

	ctx := c.Request.Context()

	// checked even when the email is the user's own
	taken, err := h.uc.EmailIsRegistered(ctx, req.Email)
	if err != nil {
		_ = c.Error(err)
		return
	}
	if taken {
		_ = c.Error(apperrors.New(apperrors.KindEmailAlreadyTaken, "Email is already registered"))
		return
	}

	u, err := h.uc.UpdateUser(ctx, user.UpdateUserRequest{ID: id, Name: req.Name, Email: req.Email})
	if err != nil {
		if apperrors.IsStorage(err) {
			err = apperrors.Wrap(apperrors.KindUnprocessableEntity, "Failed to update user", err)
		}
		_ = c.Error(err)
		return
	}
	if u == nil {
		_ = c.Error(apperrors.New(apperrors.KindUnprocessableEntity, "Failed to update user"))
		return
	}

	c.JSON(http.StatusOK, IDResponse{ID: u.ID})
}

// DeleteUser handles DELETE /users/:id
func (h *UserHandler) DeleteUser(c *gin.Context) {
	u, err := h.uc.DeleteUser(c.Request.Context(), c.Param("id"))
	if err != nil {
		if apperrors.IsStorage(err) {
			err = apperrors.Wrap(apperrors.KindUnprocessableEntity, "Failed to delete user", err)
		}
		_ = c.Error(err)
		return
	}
	if u == nil {
		_ = c.Error(apperrors.New(apperrors.KindUnprocessableEntity, "Failed to delete user"))
		return
	}

	c.JSON(http.StatusOK, IDResponse{ID: u.ID})
}

// ChangePassword handles PATCH /users/:id/change-password
func (h *UserHandler) ChangePassword(c *gin.Context) {
	id := c.Param("id")

	var req ChangePasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, apperrors.SourceBody, err)
		return
	}

	if req.NewPassword != req.ConfirmPassword {
		_ = c.Error(apperrors.New(apperrors.KindPasswordMismatch, "New password and confirm password do not match"))
		return
	}
	if n := utf8.RuneCountInString(req.NewPassword); n < minPasswordLength || n > maxPasswordLength {
		_ = c.Error(apperrors.New(apperrors.KindInvalidPasswordLength, "New password must be between 6 and 32 characters"))
		return
	}

	ctx := c.Request.Context()
	existing, err := h.uc.GetUser(ctx, id)
	if err != nil {
		_ = c.Error(err)
		return
	}
	if existing == nil {
		_ = c.Error(apperrors.New(apperrors.KindUserNotFound, "User not found"))
		return
	}

	result, err := h.uc.ChangeUserPassword(ctx, user.ChangePasswordRequest{
		ID:          id,
		OldPassword: req.OldPassword,
		NewPassword: req.NewPassword,
	})
	if result != user.PasswordChanged {
		logger.WithContext(ctx, h.log).Warn("password change refused",
			zap.String("id", id),
			zap.Stringer("result", result),
			zap.Error(err),
		)
		_ = c.Error(apperrors.Wrap(apperrors.KindUnprocessableEntity, "Failed to update password", err))
		return
	}

	c.JSON(http.StatusOK, MessageResponse{Message: "Password updated successfully"})
}
