package storage

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/alderworks/workshop/internal/types/wallet"

	_ "github.com/jackc/pgx/v5/stdlib"
)

type PostgresStorage struct {
	db *sql.DB
}

func NewPostgresStorage(dsn string) (*PostgresStorage, error) {
	db, err := sql.Open("pgx", dsn)
	if err != nil {
		return nil, fmt.Errorf("open db: %w", err)
	}
	s := &PostgresStorage{db: db}

	if err := s.db.Ping(); err != nil {
		return nil, fmt.Errorf("ping db: %w", err)
	}
	if err := s.initSchema(); err != nil {
		db.Close()
		return nil, err
	}
	return s, nil
}

func (s *PostgresStorage) initSchema() error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS wallet (
            id INT PRIMARY KEY,
            money NUMERIC NOT NULL,
            xp BIGINT NOT NULL
        )`,
		`CREATE TABLE IF NOT EXISTS purchases (
            shop_item_id TEXT PRIMARY KEY,
            purchased_at TIMESTAMPTZ NOT NULL DEFAULT now()
        )`,
	}
	for _, q := range stmts {
		if _, err := s.db.Exec(q); err != nil {
			return fmt.Errorf("init schema: %w", err)
		}
	}
	return nil
}

func (s *PostgresStorage) Ping(ctx context.Context) error {
	return s.db.PingContext(ctx)
}

func (s *PostgresStorage) Close() error {
	return s.db.Close()
}

// LoadWallet returns the stored wallet, seeding the starting balances
// on first use.
func (s *PostgresStorage) LoadWallet(ctx context.Context) (wallet.Wallet, error) {
	var w wallet.Wallet
	const q = `SELECT money, xp FROM wallet WHERE id = 1`
	err := s.db.QueryRowContext(ctx, q).Scan(&w.Money, &w.XP)
	if err == sql.ErrNoRows {
		w = wallet.New()
		if err := s.SaveWallet(ctx, w); err != nil {
			return wallet.Wallet{}, err
		}
		return w, nil
	}
	if err != nil {
		return wallet.Wallet{}, err
	}
	return w, nil
}

func (s *PostgresStorage) SaveWallet(ctx context.Context, w wallet.Wallet) error {
	const q = `
        INSERT INTO wallet (id, money, xp) VALUES (1, $1, $2)
        ON CONFLICT (id) DO UPDATE SET money = $1, xp = $2`
	_, err := s.db.ExecContext(ctx, q, w.Money, w.XP)
	return err
}

func (s *PostgresStorage) MarkPurchased(ctx context.Context, shopItemID string) error {
	const q = `
        INSERT INTO purchases (shop_item_id) VALUES ($1)
        ON CONFLICT (shop_item_id) DO NOTHING`
	_, err := s.db.ExecContext(ctx, q, shopItemID)
	return err
}

func (s *PostgresStorage) IsPurchased(ctx context.Context, shopItemID string) (bool, error) {
	var exists bool
	const q = `SELECT EXISTS(SELECT 1 FROM purchases WHERE shop_item_id = $1)`
	if err := s.db.QueryRowContext(ctx, q, shopItemID).Scan(&exists); err != nil {
		return false, err
	}
	return exists, nil
}
