package repository

import (
	"context"
	"errors"

	"meriter/internal/models"

	"gorm.io/gorm"
)

// ErrWalletConcurrentUpdate is returned when an optimistic balance update
// loses the race against another writer.
var ErrWalletConcurrentUpdate = errors.New("wallet balance changed concurrently")

// WalletRepository defines the interface for wallet balance operations
type WalletRepository interface {
	Get(ctx context.Context, userID, communityID uint) (*models.Wallet, error)
	// GetOrCreate returns the wallet, creating a zero-balance row on first use.
	GetOrCreate(ctx context.Context, userID, communityID uint) (*models.Wallet, error)
	// Adjust applies a signed delta to the balance atomically.
	Adjust(ctx context.Context, userID, communityID uint, delta int64) error
	ListByUser(ctx context.Context, userID uint) ([]*models.Wallet, error)
}

type walletRepository struct {
	db *gorm.DB
}

// NewWalletRepository creates a new wallet repository
func NewWalletRepository(db *gorm.DB) WalletRepository {
	return &walletRepository{db: db}
}

func (r *walletRepository) Get(ctx context.Context, userID, communityID uint) (*models.Wallet, error) {
	var wallet models.Wallet
	err := r.db.WithContext(ctx).
		Where("user_id = ? AND community_id = ?", userID, communityID).
		First(&wallet).Error
	if err != nil {
		return nil, err
	}
	return &wallet, nil
}

func (r *walletRepository) GetOrCreate(ctx context.Context, userID, communityID uint) (*models.Wallet, error) {
	wallet, err := r.Get(ctx, userID, communityID)
	if err == nil {
		return wallet, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	fresh := &models.Wallet{UserID: userID, CommunityID: communityID}
	if createErr := r.db.WithContext(ctx).Create(fresh).Error; createErr != nil {
		// Lost a create race: re-read the winner's row.
		if existing, getErr := r.Get(ctx, userID, communityID); getErr == nil {
			return existing, nil
		}
		return nil, createErr
	}
	return fresh, nil
}

func (r *walletRepository) Adjust(ctx context.Context, userID, communityID uint, delta int64) error {
	if _, err := r.GetOrCreate(ctx, userID, communityID); err != nil {
		return err
	}
	result := r.db.WithContext(ctx).
		Model(&models.Wallet{}).
		Where("user_id = ? AND community_id = ?", userID, communityID).
		Update("balance", gorm.Expr("balance + ?", delta))
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrWalletConcurrentUpdate
	}
	return nil
}

func (r *walletRepository) ListByUser(ctx context.Context, userID uint) ([]*models.Wallet, error) {
	var wallets []*models.Wallet
	err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Find(&wallets).Error
	if err != nil {
		return nil, err
	}
	return wallets, nil
}
