package store

import (
	"context"

	"github.com/google/uuid"

	"github.com/skillswap/skillswap/errs"
	"github.com/skillswap/skillswap/models"
)

func (s *Store) CreateUser(ctx context.Context, user *models.User) error {
	ctx, cancel := s.opCtx(ctx)
	defer cancel()

	err := s.db.WithContext(ctx).Create(user).Error
	if err != nil {
		if dup := s.db.WithContext(ctx).Where("email = ?", user.Email).First(&models.User{}).Error; dup == nil {
			return errs.E(errs.Conflict, "email already registered")
		}
		return wrap(err, "creating user")
	}
	s.bus.Publish(CollectionUsers)
	return nil
}

func (s *Store) GetUser(ctx context.Context, id uuid.UUID) (*models.User, error) {
	ctx, cancel := s.opCtx(ctx)
	defer cancel()

	var user models.User
	if err := s.db.WithContext(ctx).First(&user, "id = ?", id).Error; err != nil {
		return nil, wrap(err, "user")
	}
	return &user, nil
}

func (s *Store) GetUserByEmail(ctx context.Context, email string) (*models.User, error) {
	ctx, cancel := s.opCtx(ctx)
	defer cancel()

	var user models.User
	if err := s.db.WithContext(ctx).Where("email = ?", email).First(&user).Error; err != nil {
		return nil, wrap(err, "user")
	}
	return &user, nil
}

func (s *Store) GetUserByResetToken(ctx context.Context, token string) (*models.User, error) {
	ctx, cancel := s.opCtx(ctx)
	defer cancel()

	var user models.User
	if err := s.db.WithContext(ctx).Where("reset_password_token = ?", token).First(&user).Error; err != nil {
		return nil, wrap(err, "reset token")
	}
	return &user, nil
}

// SaveUser persists the whole document. Users are only ever mutated by
// their owner, so last-write-wins per field is acceptable here.
func (s *Store) SaveUser(ctx context.Context, user *models.User) error {
	ctx, cancel := s.opCtx(ctx)
	defer cancel()

	if err := s.db.WithContext(ctx).Save(user).Error; err != nil {
		return wrap(err, "saving user")
	}
	s.bus.Publish(CollectionUsers)
	return nil
}

// ListUsersExcept returns every user other than exclude. Match filtering is
// a client-side set-overlap pass over this result, mirroring the store's
// any-overlap query contract.
func (s *Store) ListUsersExcept(ctx context.Context, exclude uuid.UUID) ([]models.User, error) {
	ctx, cancel := s.opCtx(ctx)
	defer cancel()

	var users []models.User
	err := s.db.WithContext(ctx).
		Where("id <> ?", exclude).
		Order("id asc").
		Find(&users).Error
	if err != nil {
		return nil, wrap(err, "listing users")
	}
	return users, nil
}
