package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/Ruscigno/StockPulse/pkg/database"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// WatchlistItem is a tracked symbol.
type WatchlistItem struct {
	ID        uuid.UUID `db:"id" json:"id"`
	Symbol    string    `db:"symbol" json:"symbol"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
}

// WatchlistRepository defines watchlist data access.
type WatchlistRepository interface {
	Add(ctx context.Context, symbol string) (*WatchlistItem, error)
	Remove(ctx context.Context, symbol string) error
	List(ctx context.Context) ([]*WatchlistItem, error)
}

type watchlistRepository struct {
	db     *database.DB
	logger *zap.Logger
}

// NewWatchlistRepository creates a watchlist repository.
func NewWatchlistRepository(db *database.DB, logger *zap.Logger) WatchlistRepository {
	return &watchlistRepository{db: db, logger: logger}
}

// Add inserts a symbol; adding a symbol twice is a no-op that returns the
// existing row.
func (r *watchlistRepository) Add(ctx context.Context, symbol string) (*WatchlistItem, error) {
	query := `
		INSERT INTO watchlist_items (id, symbol)
		VALUES ($1, $2)
		ON CONFLICT (symbol) DO UPDATE SET symbol = EXCLUDED.symbol
		RETURNING id, symbol, created_at`

	var item WatchlistItem
	if err := r.db.GetContext(ctx, &item, query, uuid.New(), symbol); err != nil {
		return nil, fmt.Errorf("failed to add %s to watchlist: %w", symbol, err)
	}

	r.logger.Info("Added symbol to watchlist", zap.String("symbol", symbol))
	return &item, nil
}

func (r *watchlistRepository) Remove(ctx context.Context, symbol string) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM watchlist_items WHERE symbol = $1`, symbol)
	if err != nil {
		return fmt.Errorf("failed to remove %s from watchlist: %w", symbol, err)
	}
	rows, err := result.RowsAffected()
	if err == nil && rows == 0 {
		return fmt.Errorf("symbol %s is not on the watchlist", symbol)
	}

	r.logger.Info("Removed symbol from watchlist", zap.String("symbol", symbol))
	return nil
}

func (r *watchlistRepository) List(ctx context.Context) ([]*WatchlistItem, error) {
	items := []*WatchlistItem{}
	query := `SELECT id, symbol, created_at FROM watchlist_items ORDER BY created_at ASC`
	if err := r.db.SelectContext(ctx, &items, query); err != nil {
		return nil, fmt.Errorf("failed to list watchlist: %w", err)
	}
	return items, nil
}
