package storage

import (
	"context"

	"github.com/alderworks/workshop/internal/types/wallet"
)

// WalletRepository persists the player's wallet.
type WalletRepository interface {
	LoadWallet(ctx context.Context) (wallet.Wallet, error)
	SaveWallet(ctx context.Context, w wallet.Wallet) error
}

// PurchaseRepository tracks one-time shop purchases.
type PurchaseRepository interface {
	MarkPurchased(ctx context.Context, shopItemID string) error
	IsPurchased(ctx context.Context, shopItemID string) (bool, error)
}

// Storage groups every repository.
type Storage interface {
	WalletRepository
	PurchaseRepository

	Ping(ctx context.Context) error
	Close() error
}
