package service

import (
	"context"
	"errors"

	"meriter/internal/models"
	"meriter/internal/repository"

	"gorm.io/gorm"
)

// UserService covers account-level operations; register/login live in the
// auth handlers.
type UserService struct {
	userRepo repository.UserRepository
}

func NewUserService(userRepo repository.UserRepository) *UserService {
	return &UserService{userRepo: userRepo}
}

func (s *UserService) GetUserByID(ctx context.Context, id uint) (*models.User, error) {
	user, err := s.userRepo.GetByID(ctx, id)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, models.NewNotFoundError("User", id)
	}
	return user, err
}

// IsSuperadmin is the role check injected into the other services.
func (s *UserService) IsSuperadmin(ctx context.Context, userID uint) (bool, error) {
	user, err := s.userRepo.GetByID(ctx, userID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return user.IsSuperadmin, nil
}

// SetSuperadmin toggles the global flag. Callers must already be superadmins.
func (s *UserService) SetSuperadmin(ctx context.Context, targetID uint, isSuperadmin bool) (*models.User, error) {
	user, err := s.GetUserByID(ctx, targetID)
	if err != nil {
		return nil, err
	}

	user.IsSuperadmin = isSuperadmin
	if err := s.userRepo.Update(ctx, user); err != nil {
		return nil, err
	}
	return user, nil
}
