package memory

import (
	"context"
	"sync"

	"github.com/alderworks/workshop/internal/types/wallet"
)

// MemoryStorage keeps the wallet and purchase flags in process memory.
// It is the default backend when no database is configured and the
// fixture backend in tests.
type MemoryStorage struct {
	mu        sync.Mutex
	wallet    wallet.Wallet
	purchases map[string]bool
}

func NewMemoryStorage() *MemoryStorage {
	return &MemoryStorage{
		wallet:    wallet.New(),
		purchases: make(map[string]bool),
	}
}

func (s *MemoryStorage) Ping(ctx context.Context) error {
	return nil
}

func (s *MemoryStorage) Close() error {
	return nil
}

func (s *MemoryStorage) LoadWallet(ctx context.Context) (wallet.Wallet, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.wallet, nil
}

func (s *MemoryStorage) SaveWallet(ctx context.Context, w wallet.Wallet) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.wallet = w
	return nil
}

func (s *MemoryStorage) MarkPurchased(ctx context.Context, shopItemID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.purchases[shopItemID] = true
	return nil
}

func (s *MemoryStorage) IsPurchased(ctx context.Context, shopItemID string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.purchases[shopItemID], nil
}
