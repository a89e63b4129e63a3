package ledger

import (
	"context"
	"errors"
	"sync"

	"github.com/shopspring/decimal"

	"github.com/alderworks/workshop/internal/storage"
	"github.com/alderworks/workshop/internal/types/wallet"
)

var ErrInsufficientFunds = errors.New("insufficient funds")

// Service is the player's currency/experience ledger. Money accepts
// signed deltas and may go negative through penalties; experience is
// floored at zero; purchases go through Debit, which refuses to
// overdraw.
type Service struct {
	mu   sync.Mutex
	repo storage.WalletRepository
}

func NewService(repo storage.WalletRepository) *Service {
	return &Service{repo: repo}
}

func (s *Service) Balance(ctx context.Context) (wallet.Wallet, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.repo.LoadWallet(ctx)
}

// Credit applies a signed money delta. Rewards credit positive amounts,
// penalties negative ones; no floor applies.
func (s *Service) Credit(ctx context.Context, amount decimal.Decimal) error {
	if amount.IsZero() {
		return nil
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	w, err := s.repo.LoadWallet(ctx)
	if err != nil {
		return err
	}
	w.Money = w.Money.Add(amount)
	return s.repo.SaveWallet(ctx, w)
}

// Debit withdraws money for a purchase and fails with
// ErrInsufficientFunds when the wallet cannot cover it.
func (s *Service) Debit(ctx context.Context, amount decimal.Decimal) error {
	if amount.Sign() <= 0 {
		return nil
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	w, err := s.repo.LoadWallet(ctx)
	if err != nil {
		return err
	}
	if w.Money.LessThan(amount) {
		return ErrInsufficientFunds
	}
	w.Money = w.Money.Sub(amount)
	return s.repo.SaveWallet(ctx, w)
}

// AddXP applies a signed experience delta. Experience never drops below
// zero.
func (s *Service) AddXP(ctx context.Context, delta int64) error {
	if delta == 0 {
		return nil
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	w, err := s.repo.LoadWallet(ctx)
	if err != nil {
		return err
	}
	w.XP += delta
	if w.XP < 0 {
		w.XP = 0
	}
	return s.repo.SaveWallet(ctx, w)
}
