package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/Ruscigno/StockPulse/model"
	"github.com/Ruscigno/StockPulse/pkg/database"
	"github.com/jmoiron/sqlx"
	"go.uber.org/zap"
)

// Candle represents one daily candle row.
type Candle struct {
	Symbol    string    `db:"symbol" json:"symbol"`
	CloseTime time.Time `db:"close_time" json:"close_time"`
	Open      float64   `db:"open" json:"open"`
	High      float64   `db:"high" json:"high"`
	Low       float64   `db:"low" json:"low"`
	Close     float64   `db:"close" json:"close"`
	Volume    float64   `db:"volume" json:"volume"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
	UpdatedAt time.Time `db:"updated_at" json:"updated_at"`
}

// CandleRepository defines candle data access.
type CandleRepository interface {
	UpsertCandles(ctx context.Context, data *model.MarketData) error
	ListCandles(ctx context.Context, symbol string, since time.Time) ([]*Candle, error)
	LatestCloseTime(ctx context.Context, symbol string) (time.Time, error)
}

type candleRepository struct {
	db     *database.DB
	logger *zap.Logger
}

// NewCandleRepository creates a candle repository.
func NewCandleRepository(db *database.DB, logger *zap.Logger) CandleRepository {
	return &candleRepository{db: db, logger: logger}
}

// UpsertCandles stores a fetched series, replacing candles already present
// for the same (symbol, close_time).
func (r *candleRepository) UpsertCandles(ctx context.Context, data *model.MarketData) error {
	if data == nil || len(data.TimeSeries) == 0 {
		return nil
	}

	query := `
		INSERT INTO candles (symbol, close_time, open, high, low, close, volume)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		ON CONFLICT (symbol, close_time) DO UPDATE SET
			open = EXCLUDED.open,
			high = EXCLUDED.high,
			low = EXCLUDED.low,
			close = EXCLUDED.close,
			volume = EXCLUDED.volume,
			updated_at = now()`

	err := r.db.WithTransaction(ctx, func(tx *sqlx.Tx) error {
		for _, candle := range data.TimeSeries {
			if _, err := tx.ExecContext(ctx, query,
				candle.Symbol, candle.CloseTime,
				candle.Open, candle.High, candle.Low, candle.Close, candle.Volume,
			); err != nil {
				return fmt.Errorf("failed to upsert candle %s@%s: %w",
					candle.Symbol, candle.CloseTime.Format("2006-01-02"), err)
			}
		}
		return nil
	})
	if err != nil {
		return err
	}

	r.logger.Debug("Stored candles",
		zap.String("symbol", data.MetaData.Symbol),
		zap.Int("count", len(data.TimeSeries)))
	return nil
}

// ListCandles returns candles for a symbol since a point in time, oldest first.
func (r *candleRepository) ListCandles(ctx context.Context, symbol string, since time.Time) ([]*Candle, error) {
	query := `SELECT * FROM candles WHERE symbol = $1 AND close_time >= $2 ORDER BY close_time ASC`

	candles := []*Candle{}
	if err := r.db.SelectContext(ctx, &candles, query, symbol, since); err != nil {
		return nil, fmt.Errorf("failed to list candles for %s: %w", symbol, err)
	}
	return candles, nil
}

// LatestCloseTime returns the close time of the most recent stored candle.
// A zero time means no candles are stored yet.
func (r *candleRepository) LatestCloseTime(ctx context.Context, symbol string) (time.Time, error) {
	query := `SELECT close_time FROM candles WHERE symbol = $1 ORDER BY close_time DESC LIMIT 1`

	var latest time.Time
	err := r.db.GetContext(ctx, &latest, query, symbol)
	if err == sql.ErrNoRows {
		return time.Time{}, nil
	}
	if err != nil {
		return time.Time{}, fmt.Errorf("failed to get latest close time for %s: %w", symbol, err)
	}
	return latest, nil
}
