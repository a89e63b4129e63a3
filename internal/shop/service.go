package shop

import (
	"context"
	"errors"

	"github.com/shopspring/decimal"

	"github.com/alderworks/workshop/internal/storage"
)

var (
	ErrUnknownItem      = errors.New("unknown shop item")
	ErrAlreadyPurchased = errors.New("item already purchased")
)

// Item is one purchasable listing. SinglePurchase items (machines,
// recipe unlocks) can be bought exactly once.
type Item struct {
	ID             string          `json:"id"`
	Name           string          `json:"name"`
	Price          decimal.Decimal `json:"price"`
	SinglePurchase bool            `json:"single_purchase"`
}

// DefaultItems is the built-in shop stock.
func DefaultItems() []Item {
	return []Item{
		{ID: "lumber_pack", Name: "Lumber Pack", Price: decimal.NewFromInt(120)},
		{ID: "square_cutter", Name: "Square Cutter", Price: decimal.NewFromInt(1500), SinglePurchase: true},
		{ID: "recipe_table", Name: "Table Recipe", Price: decimal.NewFromInt(800), SinglePurchase: true},
		{ID: "recipe_shelf", Name: "Shelf Recipe", Price: decimal.NewFromInt(950), SinglePurchase: true},
	}
}

// Ledger is the money account the shop debits.
type Ledger interface {
	Debit(ctx context.Context, amount decimal.Decimal) error
}

type Service struct {
	items     []Item
	ledger    Ledger
	purchases storage.PurchaseRepository
}

func NewService(items []Item, led Ledger, purchases storage.PurchaseRepository) *Service {
	return &Service{items: items, ledger: led, purchases: purchases}
}

func (s *Service) List() []Item {
	return append([]Item(nil), s.items...)
}

// Purchase debits the ledger for the item's price. Single-purchase
// items are recorded and refused on repeat attempts. The ledger's
// ErrInsufficientFunds propagates unchanged.
func (s *Service) Purchase(ctx context.Context, id string) error {
	var it *Item
	for i := range s.items {
		if s.items[i].ID == id {
			it = &s.items[i]
			break
		}
	}
	if it == nil {
		return ErrUnknownItem
	}

	if it.SinglePurchase {
		bought, err := s.purchases.IsPurchased(ctx, it.ID)
		if err != nil {
			return err
		}
		if bought {
			return ErrAlreadyPurchased
		}
	}

	if err := s.ledger.Debit(ctx, it.Price); err != nil {
		return err
	}

	if it.SinglePurchase {
		return s.purchases.MarkPurchased(ctx, it.ID)
	}
	return nil
}
