package store

import (
	"context"
	"database/sql"
	"fmt"
)

// SwapStorage persists classified swap records.
type SwapStorage struct {
	client *sql.DB
}

func NewSwapStorage(db *sql.DB) *SwapStorage {
	return &SwapStorage{client: db}
}

const insertSwap = `
		INSERT INTO swaps (signature, type, classification_source, swapper, protocol,
			buy_amount, sell_amount, buy_sol_amount, sell_sol_amount, token_in, token_out, ts)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`

// SaveSwap inserts a single record for a plain parsed swap.
func (s *SwapStorage) SaveSwap(ctx context.Context, rec PersistedSwapRecord) error {
	if _, err := s.client.ExecContext(ctx, insertSwap, recArgs(rec)...); err != nil {
		return fmt.Errorf("failed to insert swap %s/%s: %w", rec.Signature, rec.Type, err)
	}
	return nil
}

// SaveSplitPair inserts both legs of a split swap in one transaction.
// A partial pair on disk is data corruption, so any failure rolls the
// whole write back and nothing becomes visible to readers.
func (s *SwapStorage) SaveSplitPair(ctx context.Context, sell, buy PersistedSwapRecord) error {
	if sell.Signature != buy.Signature {
		return fmt.Errorf("split pair signatures differ: %s vs %s", sell.Signature, buy.Signature)
	}
	if sell.Type != TypeSell || buy.Type != TypeBuy {
		return fmt.Errorf("split pair types invalid: %s/%s", sell.Type, buy.Type)
	}

	tx, err := s.client.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin split write: %w", err)
	}

	for _, rec := range []PersistedSwapRecord{sell, buy} {
		if _, err := tx.ExecContext(ctx, insertSwap, recArgs(rec)...); err != nil {
			_ = tx.Rollback()
			return fmt.Errorf("failed to insert split leg %s/%s: %w", rec.Signature, rec.Type, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit split pair %s: %w", sell.Signature, err)
	}
	return nil
}

func recArgs(rec PersistedSwapRecord) []any {
	var buySol, sellSol any
	if rec.BuySolAmount != nil {
		buySol = rec.BuySolAmount.String()
	}
	if rec.SellSolAmount != nil {
		sellSol = rec.SellSolAmount.String()
	}

	var ts any
	if !rec.Timestamp.IsZero() {
		ts = rec.Timestamp
	}

	return []any{
		rec.Signature,
		rec.Type,
		rec.ClassificationSource,
		rec.Swapper,
		rec.Protocol,
		rec.BuyAmount.String(),
		rec.SellAmount.String(),
		buySol,
		sellSol,
		rec.TokenIn,
		rec.TokenOut,
		ts,
	}
}
