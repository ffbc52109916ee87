// Package store persists the trade ledger in SQLite through GORM. It is the
// single writer of the ledger: AppendIfAbsent relies on the unique index on
// the trade id plus an ON CONFLICT DO NOTHING insert, so "check then insert"
// is atomic at the database level.
package store

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
	"gorm.io/gorm/logger"

	journal "github.com/tti6o/trading-journal-cli"
)

// tradeRow is the GORM model backing journal.Trade.
type tradeRow struct {
	ID             uint            `gorm:"primaryKey;autoIncrement"`
	TradeID        string          `gorm:"uniqueIndex;size:16;not null"`
	UTCTime        time.Time       `gorm:"index;not null"`
	Symbol         string          `gorm:"index;size:32;not null"`
	Side           string          `gorm:"index;size:4;not null"`
	Price          decimal.Decimal `gorm:"type:decimal(30,10);not null"`
	Quantity       decimal.Decimal `gorm:"type:decimal(30,10);not null"`
	QuoteQuantity  decimal.Decimal `gorm:"type:decimal(30,10);not null"`
	Fee            decimal.Decimal `gorm:"type:decimal(30,10);not null"`
	FeeCurrency    string          `gorm:"size:16;not null"`
	DataSource     string          `gorm:"size:32;default:excel"`
	Pnl            *decimal.Decimal `gorm:"type:decimal(30,10)"`
	FeeAdjustedPnl *decimal.Decimal `gorm:"type:decimal(30,10)"`
	ShortPosition  bool
	UnconvertedFee bool
}

func (tradeRow) TableName() string { return "trades" }

// metadataRow keeps application-level state such as the last sync timestamp.
type metadataRow struct {
	Key       string `gorm:"primaryKey;size:64"`
	Value     string `gorm:"not null"`
	UpdatedAt time.Time
}

func (metadataRow) TableName() string { return "sync_metadata" }

// Store is a SQLite-backed journal.Store.
type Store struct {
	db *gorm.DB
}

// Open opens (or creates) the ledger database at path and migrates the
// schema. SQLite's WAL mode keeps reads cheap while writes stay serialized.
func Open(path string) (*Store, error) {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("create ledger directory %q: %w", dir, err)
		}
	}
	db, err := gorm.Open(sqlite.Open(path+"?_journal_mode=WAL&_synchronous=NORMAL"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		return nil, fmt.Errorf("open ledger database %q: %w", path, err)
	}
	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("get sql.DB: %w", err)
	}
	// SQLite allows one writer at a time.
	sqlDB.SetMaxOpenConns(1)
	sqlDB.SetMaxIdleConns(1)

	if err := db.AutoMigrate(&tradeRow{}, &metadataRow{}); err != nil {
		return nil, fmt.Errorf("migrate ledger schema: %w", err)
	}
	return &Store{db: db}, nil
}

// Close releases the underlying database handle.
func (s *Store) Close() error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

// AppendIfAbsent implements journal.Store. The insert is a no-op when the
// trade id already exists; the previously stored row stays authoritative.
func (s *Store) AppendIfAbsent(t journal.Trade) (bool, error) {
	row := tradeRow{
		TradeID:       t.ID,
		UTCTime:       t.Time.UTC(),
		Symbol:        t.Symbol,
		Side:          string(t.Side),
		Price:         t.Price,
		Quantity:      t.Quantity,
		QuoteQuantity: t.QuoteQuantity,
		Fee:           t.Fee,
		FeeCurrency:   t.FeeCurrency,
		DataSource:    t.Source,
	}
	res := s.db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "trade_id"}},
		DoNothing: true,
	}).Create(&row)
	if res.Error != nil {
		return false, fmt.Errorf("append trade %s: %w", t.ID, res.Error)
	}
	return res.RowsAffected == 1, nil
}

// FetchOrdered implements journal.Store: ascending (utc_time, trade_id),
// with optional symbol, side and time-range constraints. A positive Limit
// returns the most recent matching trades, still in ascending order.
func (s *Store) FetchOrdered(f journal.Filter) ([]journal.Trade, error) {
	q := s.db.Model(&tradeRow{})
	if f.Symbol != "" {
		q = q.Where("symbol = ?", f.Symbol)
	}
	if f.Side != "" {
		q = q.Where("side = ?", string(f.Side))
	}
	if !f.Since.IsZero() {
		q = q.Where("utc_time >= ?", f.Since.UTC())
	}
	if !f.Until.IsZero() {
		q = q.Where("utc_time <= ?", f.Until.UTC())
	}

	var rows []tradeRow
	if f.Limit > 0 {
		// Take the newest N, then flip back to ascending.
		sub := q.Order("utc_time DESC, trade_id DESC").Limit(f.Limit)
		if err := sub.Find(&rows).Error; err != nil {
			return nil, fmt.Errorf("fetch trades: %w", err)
		}
		for i, j := 0, len(rows)-1; i < j; i, j = i+1, j-1 {
			rows[i], rows[j] = rows[j], rows[i]
		}
	} else {
		if err := q.Order("utc_time ASC, trade_id ASC").Find(&rows).Error; err != nil {
			return nil, fmt.Errorf("fetch trades: %w", err)
		}
	}

	trades := make([]journal.Trade, 0, len(rows))
	for _, r := range rows {
		trades = append(trades, r.toTrade())
	}
	return trades, nil
}

func (r tradeRow) toTrade() journal.Trade {
	return journal.Trade{
		ID:             r.TradeID,
		Time:           r.UTCTime.UTC(),
		Symbol:         r.Symbol,
		Side:           journal.Side(r.Side),
		Price:          r.Price,
		Quantity:       r.Quantity,
		QuoteQuantity:  r.QuoteQuantity,
		Fee:            r.Fee,
		FeeCurrency:    r.FeeCurrency,
		Source:         r.DataSource,
		RealizedPnL:    r.Pnl,
		FeeAdjustedPnL: r.FeeAdjustedPnl,
		ShortPosition:  r.ShortPosition,
		UnconvertedFee: r.UnconvertedFee,
	}
}

// PersistPnL implements journal.Store.
func (s *Store) PersistPnL(id string, step journal.Step) error {
	res := s.db.Model(&tradeRow{}).Where("trade_id = ?", id).Updates(map[string]any{
		"pnl":              step.RealizedPnL,
		"fee_adjusted_pnl": step.FeeAdjustedPnL,
		"short_position":   step.ShortPosition,
		"unconverted_fee":  step.UnconvertedFee,
	})
	if res.Error != nil {
		return fmt.Errorf("persist pnl for %s: %w", id, res.Error)
	}
	if res.RowsAffected == 0 {
		return fmt.Errorf("persist pnl: trade %s not found", id)
	}
	return nil
}

// Count returns the total number of stored trades.
func (s *Store) Count() (int64, error) {
	var n int64
	if err := s.db.Model(&tradeRow{}).Count(&n).Error; err != nil {
		return 0, fmt.Errorf("count trades: %w", err)
	}
	return n, nil
}

// Symbols returns the distinct canonical symbols in the ledger.
func (s *Store) Symbols() ([]string, error) {
	var symbols []string
	if err := s.db.Model(&tradeRow{}).Distinct("symbol").Order("symbol").Pluck("symbol", &symbols).Error; err != nil {
		return nil, fmt.Errorf("list symbols: %w", err)
	}
	return symbols, nil
}

// SetMetadata implements journal.MetadataStore.
func (s *Store) SetMetadata(key, value string) error {
	row := metadataRow{Key: key, Value: value, UpdatedAt: time.Now().UTC()}
	err := s.db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "key"}},
		DoUpdates: clause.AssignmentColumns([]string{"value", "updated_at"}),
	}).Create(&row).Error
	if err != nil {
		return fmt.Errorf("set metadata %s: %w", key, err)
	}
	return nil
}

// Metadata implements journal.MetadataStore.
func (s *Store) Metadata(key string) (string, bool, error) {
	var row metadataRow
	err := s.db.First(&row, "key = ?", key).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("get metadata %s: %w", key, err)
	}
	return row.Value, true, nil
}
