package repository

import (
	"context"
	"errors"
	"net"
	"time"

	"gorm.io/gorm"

	apperrors "accounts/internal/errors"
	"accounts/internal/model"
)

// UserRepository defines persistence operations for user records.
type UserRepository interface {
	Create(ctx context.Context, user *model.User) error
	FindByID(ctx context.Context, id uint) (*model.User, error)
	FindByEmail(ctx context.Context, email string) (*model.User, error)
	List(ctx context.Context) ([]model.User, error)
	Update(ctx context.Context, id uint, name, email string, role *string) (*model.User, error)
	Delete(ctx context.Context, id uint) error
}

type userRepository struct {
	db           *gorm.DB
	queryTimeout time.Duration
}

// NewUserRepository builds a GORM-backed repository. Every operation runs under
// queryTimeout; zero disables the per-query deadline.
func NewUserRepository(db *gorm.DB, queryTimeout time.Duration) UserRepository {
	return &userRepository{db: db, queryTimeout: queryTimeout}
}

func (r *userRepository) withTimeout(ctx context.Context) (context.Context, context.CancelFunc) {
	if r.queryTimeout <= 0 {
		return ctx, func() {}
	}
	return context.WithTimeout(ctx, r.queryTimeout)
}

// translate maps GORM and driver errors onto the domain taxonomy. Raw driver
// errors never leave this package.
func translate(err error) error {
	if err == nil {
		return nil
	}
	var netErr net.Error
	switch {
	case errors.Is(err, gorm.ErrDuplicatedKey):
		return apperrors.ErrDuplicateEmail
	case errors.Is(err, gorm.ErrRecordNotFound):
		return apperrors.ErrNotFound
	case errors.Is(err, context.DeadlineExceeded):
		return apperrors.ErrStoreTimeout
	case errors.As(err, &netErr):
		if netErr.Timeout() {
			return apperrors.ErrStoreTimeout
		}
		return apperrors.ErrStoreUnavailable
	default:
		return err
	}
}

func (r *userRepository) Create(ctx context.Context, user *model.User) error {
	ctx, cancel := r.withTimeout(ctx)
	defer cancel()
	return translate(r.db.WithContext(ctx).Create(user).Error)
}

func (r *userRepository) FindByID(ctx context.Context, id uint) (*model.User, error) {
	ctx, cancel := r.withTimeout(ctx)
	defer cancel()
	var user model.User
	if err := r.db.WithContext(ctx).First(&user, id).Error; err != nil {
		return nil, translate(err)
	}
	return &user, nil
}

// FindByEmail returns the full record including the password hash. It exists
// for authentication; nothing built on it may serialize the hash.
func (r *userRepository) FindByEmail(ctx context.Context, email string) (*model.User, error) {
	ctx, cancel := r.withTimeout(ctx)
	defer cancel()
	var user model.User
	if err := r.db.WithContext(ctx).Where("email = ?", email).First(&user).Error; err != nil {
		return nil, translate(err)
	}
	return &user, nil
}

func (r *userRepository) List(ctx context.Context) ([]model.User, error) {
	ctx, cancel := r.withTimeout(ctx)
	defer cancel()
	var users []model.User
	if err := r.db.WithContext(ctx).Find(&users).Error; err != nil {
		return nil, translate(err)
	}
	return users, nil
}

// Update checks existence with a separate read before writing. A row deleted
// between the check and the write loses the race; callers tolerate this.
// The role column is only touched when a role is supplied.
func (r *userRepository) Update(ctx context.Context, id uint, name, email string, role *string) (*model.User, error) {
	ctx, cancel := r.withTimeout(ctx)
	defer cancel()

	var existing model.User
	if err := r.db.WithContext(ctx).First(&existing, id).Error; err != nil {
		return nil, translate(err)
	}

	updates := map[string]interface{}{
		"name":  name,
		"email": email,
	}
	if role != nil {
		updates["role"] = *role
	}

	if err := r.db.WithContext(ctx).Model(&model.User{}).Where("id = ?", id).Updates(updates).Error; err != nil {
		return nil, translate(err)
	}

	var updated model.User
	if err := r.db.WithContext(ctx).First(&updated, id).Error; err != nil {
		return nil, translate(err)
	}
	return &updated, nil
}

// Delete checks existence first (same non-atomic caveat as Update), then hard
// deletes the row.
func (r *userRepository) Delete(ctx context.Context, id uint) error {
	ctx, cancel := r.withTimeout(ctx)
	defer cancel()

	var existing model.User
	if err := r.db.WithContext(ctx).First(&existing, id).Error; err != nil {
		return translate(err)
	}

	return translate(r.db.WithContext(ctx).Delete(&model.User{}, id).Error)
}
