package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"user-service/internal/domain/user"
	apperrors "user-service/pkg/errors"
	"user-service/pkg/security"
)

// UserRepoPG implements the user Repository on top of GORM.
// It works against PostgreSQL in production and SQLite for the embedded driver and tests.
type UserRepoPG struct {
	db  *gorm.DB    // GORM database connection
	log *zap.Logger // Structured logger for database operations
}

// NewUserRepoPG creates a new instance of UserRepoPG.
func NewUserRepoPG(db *gorm.DB, log *zap.Logger) *UserRepoPG {
	return &UserRepoPG{db: db, log: log}
}

// UserSchema represents the database schema for the users table.
// Email is indexed but not unique; uniqueness is checked by the usecase layer.
// SearchName holds the case-folded name and is kept in step with Name on every write.
type UserSchema struct {
	ID           string    `gorm:"primaryKey;size:36"`
	Name         string    `gorm:"size:100;not null"`
	SearchName   string    `gorm:"size:400;not null;default:'';index"`
	Email        string    `gorm:"size:255;not null;index"`
	PasswordHash string    `gorm:"size:255;not null"`
	CreatedAt    time.Time `gorm:"autoCreateTime"`
	UpdatedAt    time.Time `gorm:"autoUpdateTime"`
}

// TableName specifies the table name for the UserSchema model.
func (UserSchema) TableName() string {
	return "users"
}

func (m *UserSchema) toDomain() *user.User {
	return &user.User{
		ID:           m.ID,
		Name:         m.Name,
		Email:        m.Email,
		PasswordHash: m.PasswordHash,
		CreatedAt:    m.CreatedAt,
		UpdatedAt:    m.UpdatedAt,
	}
}

func toDomainList(models []UserSchema) []user.User {
	users := make([]user.User, len(models))
	for i := range models {
		users[i] = *models[i].toDomain()
	}
	return users
}

// validID reports whether id can resolve to a stored user at all.
func validID(id string) bool {
	_, err := uuid.Parse(id)
	return err == nil
}

// ListAll retrieves every user ordered by creation time.
func (r *UserRepoPG) ListAll(ctx context.Context) ([]user.User, error) {
	var models []UserSchema
	if err := r.db.WithContext(ctx).Order("created_at ASC, id ASC").Find(&models).Error; err != nil {
		r.log.Error("failed to list all users from db", zap.Error(err))
		return nil, apperrors.NewStorageError("list all users", err)
	}

	return toDomainList(models), nil
}

// List retrieves one window of users matching filter, together with the total number of matches.
// The name filter is a Unicode case-insensitive substring match with LIKE wildcards escaped.
func (r *UserRepoPG) List(ctx context.Context, filter user.ListFilter) ([]user.User, int64, error) {
	query := r.db.WithContext(ctx).Model(&UserSchema{})
	if filter.Search != "" {
		query = query.Where(`search_name LIKE ? ESCAPE '\'`, security.ContainsPattern(filter.Search))
	}
	// shared by the count and the page query below
	query = query.Session(&gorm.Session{})

	var total int64
	if err := query.Count(&total).Error; err != nil {
		r.log.Error("failed to count users in db", zap.Error(err), zap.String("search", filter.Search))
		return nil, 0, apperrors.NewStorageError("count users", err)
	}

	if total == 0 || filter.Offset >= total {
		return []user.User{}, total, nil
	}

	var models []UserSchema
	if err := query.Order("created_at ASC, id ASC").
		Offset(int(filter.Offset)).
		Limit(int(filter.Limit)).
		Find(&models).Error; err != nil {
		r.log.Error("failed to list users from db",
			zap.Error(err),
			zap.String("search", filter.Search),
			zap.Int64("offset", filter.Offset),
			zap.Int64("limit", filter.Limit),
		)
		return nil, 0, apperrors.NewStorageError("list users", err)
	}

	return toDomainList(models), total, nil
}

// FindByID retrieves a user by id. It returns nil, nil when the id does not resolve.
func (r *UserRepoPG) FindByID(ctx context.Context, id string) (*user.User, error) {
	if !validID(id) {
		r.log.Debug("malformed user id", zap.String("id", id))
		return nil, nil
	}

	var model UserSchema
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&model).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			r.log.Debug("user not found", zap.String("id", id))
			return nil, nil
		}
		r.log.Error("failed to get user from db", zap.Error(err), zap.String("id", id))
		return nil, apperrors.NewStorageError("find user by id", err)
	}

	return model.toDomain(), nil
}

// FindByEmail retrieves a user by email address. It returns nil, nil when no user has it.
func (r *UserRepoPG) FindByEmail(ctx context.Context, email string) (*user.User, error) {
	var model UserSchema
	if err := r.db.WithContext(ctx).Where("email = ?", email).First(&model).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			r.log.Debug("user not found by email", zap.String("email", email))
			return nil, nil
		}
		r.log.Error("failed to get user by email from db", zap.Error(err), zap.String("email", email))
		return nil, apperrors.NewStorageError("find user by email", err)
	}

	return model.toDomain(), nil
}

// Create inserts a new user and returns the stored record.
func (r *UserRepoPG) Create(ctx context.Context, name, email, passwordHash string) (*user.User, error) {
	model := UserSchema{
		ID:           uuid.New().String(),
		Name:         name,
		SearchName:   security.FoldName(name),
		Email:        email,
		PasswordHash: passwordHash,
	}

	if err := r.db.WithContext(ctx).Create(&model).Error; err != nil {
		r.log.Error("failed to create user in db", zap.Error(err), zap.String("email", email))
		return nil, apperrors.NewStorageError("create user", err)
	}

	r.log.Info("user created in db", zap.String("id", model.ID))
	return model.toDomain(), nil
}

// Update replaces name and email of the user with the given id, leaving other columns untouched.
// It returns nil, nil when the id does not resolve.
func (r *UserRepoPG) Update(ctx context.Context, id, name, email string) (*user.User, error) {
	return r.updateColumns(ctx, "update user", id, map[string]any{
		"name":        name,
		"search_name": security.FoldName(name),
		"email":       email,
	})
}

// UpdatePassword replaces the stored password hash of the user with the given id.
// It returns nil, nil when the id does not resolve.
func (r *UserRepoPG) UpdatePassword(ctx context.Context, id, passwordHash string) (*user.User, error) {
	return r.updateColumns(ctx, "update password", id, map[string]any{
		"password_hash": passwordHash,
	})
}

func (r *UserRepoPG) updateColumns(ctx context.Context, op, id string, columns map[string]any) (*user.User, error) {
	if !validID(id) {
		return nil, nil
	}

	result := r.db.WithContext(ctx).Model(&UserSchema{}).Where("id = ?", id).Updates(columns)
	if result.Error != nil {
		r.log.Error("failed to update user in db", zap.Error(result.Error), zap.String("id", id), zap.String("op", op))
		return nil, apperrors.NewStorageError(op, result.Error)
	}
	if result.RowsAffected == 0 {
		r.log.Debug("no user updated", zap.String("id", id), zap.String("op", op))
		return nil, nil
	}

	r.log.Info("user updated in db", zap.String("id", id), zap.String("op", op))
	return r.FindByID(ctx, id)
}

// Delete permanently removes the user with the given id and returns the removed record.
// It returns nil, nil when the id does not resolve.
func (r *UserRepoPG) Delete(ctx context.Context, id string) (*user.User, error) {
	existing, err := r.FindByID(ctx, id)
	if err != nil || existing == nil {
		return nil, err
	}

	result := r.db.WithContext(ctx).Where("id = ?", id).Delete(&UserSchema{})
	if result.Error != nil {
		r.log.Error("failed to delete user in db", zap.Error(result.Error), zap.String("id", id))
		return nil, apperrors.NewStorageError("delete user", result.Error)
	}
	if result.RowsAffected == 0 {
		// removed concurrently between lookup and delete
		return nil, nil
	}

	r.log.Info("user deleted in db", zap.String("id", id))
	return existing, nil
}

// BackfillSearchNames fills search_name for rows written before the column existed.
func BackfillSearchNames(ctx context.Context, db *gorm.DB) (int, error) {
	var models []UserSchema
	if err := db.WithContext(ctx).Select("id", "name").Where("search_name = ?", "").Find(&models).Error; err != nil {
		return 0, fmt.Errorf("failed to load users without search name: %w", err)
	}

	filled := 0
	for _, m := range models {
		folded := security.FoldName(m.Name)
		if folded == "" {
			continue
		}
		if err := db.WithContext(ctx).Model(&UserSchema{}).Where("id = ?", m.ID).
			UpdateColumn("search_name", folded).Error; err != nil {
			return filled, fmt.Errorf("failed to backfill search name for %s: %w", m.ID, err)
		}
		filled++
	}
	return filled, nil
}
