// Package results keeps a local leaderboard of finished races in SQLite.
package results

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/glebarez/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/opd-ai/go-planes/pkg/event"
	"github.com/opd-ai/go-planes/pkg/logging"
)

// ErrClosed is returned by operations on a closed board.
var ErrClosed = errors.New("results board closed")

// Result is one finished race.
type Result struct {
	ID           uint      `gorm:"primaryKey" json:"id"`
	RunID        string    `gorm:"uniqueIndex;size:32" json:"run_id"`
	Distance     float64   `json:"distance"`
	Duration     float64   `gorm:"index" json:"duration"` // seconds
	TopSpeed     float64   `json:"top_speed"`
	AverageSpeed float64   `json:"average_speed"`
	Biome        string    `gorm:"size:16" json:"biome"`
	Weather      string    `gorm:"size:16" json:"weather"`
	CreatedAt    time.Time `json:"created_at"`
}

// Board stores results.
type Board struct {
	db     *gorm.DB
	logger *logging.Logger
}

// Open opens or creates the board at path. An empty path keeps the board
// in memory.
func Open(path string, log *logging.Logger) (*Board, error) {
	if log == nil {
		log = logging.Discard()
	}
	dsn := path
	if dsn == "" {
		dsn = "file::memory:"
	}

	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		SkipDefaultTransaction: true,
		Logger:                 logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to open results db: %w", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to access sql interface: %w", err)
	}
	sqlDB.SetMaxOpenConns(1)

	if err := db.AutoMigrate(&Result{}); err != nil {
		sqlDB.Close()
		return nil, fmt.Errorf("failed to migrate results db: %w", err)
	}

	return &Board{db: db, logger: log}, nil
}

// Record stores a result. A run that was already recorded is ignored.
func (b *Board) Record(ctx context.Context, r Result) error {
	if b.db == nil {
		return ErrClosed
	}
	if r.RunID == "" {
		return errors.New("result has no run id")
	}

	var count int64
	if err := b.db.WithContext(ctx).Model(&Result{}).Where("run_id = ?", r.RunID).Count(&count).Error; err != nil {
		return fmt.Errorf("failed to look up run %s: %w", r.RunID, err)
	}
	if count > 0 {
		return nil
	}

	r.ID = 0
	if err := b.db.WithContext(ctx).Create(&r).Error; err != nil {
		return fmt.Errorf("failed to record run %s: %w", r.RunID, err)
	}
	return nil
}

// Best returns up to n results, fastest first.
func (b *Board) Best(ctx context.Context, n int) ([]Result, error) {
	if b.db == nil {
		return nil, ErrClosed
	}
	if n <= 0 {
		return nil, nil
	}

	var out []Result
	err := b.db.WithContext(ctx).Order("duration asc").Order("id asc").Limit(n).Find(&out).Error
	if err != nil {
		return nil, fmt.Errorf("failed to read results: %w", err)
	}
	return out, nil
}

// Count returns the number of stored results.
func (b *Board) Count(ctx context.Context) (int64, error) {
	if b.db == nil {
		return 0, ErrClosed
	}
	var count int64
	err := b.db.WithContext(ctx).Model(&Result{}).Count(&count).Error
	return count, err
}

// Subscribe records every finished race published on bus. The returned
// subscription can be passed to bus.Unsubscribe.
func (b *Board) Subscribe(bus *event.Bus) *event.Subscription {
	return bus.Subscribe(event.RaceFinished, func(e event.Event) {
		race, ok := e.(*event.RaceEvent)
		if !ok {
			return
		}
		ctx := logging.WithRunID(context.Background(), race.RunID)
		err := b.Record(ctx, FromEvent(race))
		if err != nil {
			b.logger.Error(ctx, "failed to record race", err)
			return
		}
		b.logger.Info(ctx, "race recorded",
			"duration", race.Duration,
			"top_speed", race.TopSpeed)
	})
}

// FromEvent converts a race event into a result.
func FromEvent(e *event.RaceEvent) Result {
	return Result{
		RunID:        e.RunID,
		Distance:     e.Distance,
		Duration:     e.Duration,
		TopSpeed:     e.TopSpeed,
		AverageSpeed: e.AverageSpeed,
		Biome:        e.Biome,
		Weather:      e.Weather,
	}
}

// Close releases the database.
func (b *Board) Close() error {
	if b.db == nil {
		return nil
	}
	sqlDB, err := b.db.DB()
	b.db = nil
	if err != nil {
		return err
	}
	return sqlDB.Close()
}
