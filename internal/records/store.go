// Package records persists estimation outcomes so past appraisals can be
// listed and re-rendered. The estimation core never reads records back.
package records

import (
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	_ "modernc.org/sqlite"

	"github.com/davidromero/avaluo/internal/estimation"
)

// EstimateRecord is the durable shape of one completed estimation.
type EstimateRecord struct {
	EstimateID       string                        `json:"estimate_id"`
	CreatedAt        time.Time                     `json:"timestamp"`
	Property         estimation.PropertyAttributes `json:"property_data"`
	BasePrice        float64                       `json:"base_price"`
	AdjustmentFactor float64                       `json:"adjustment_factor"`
	FinalPrice       float64                       `json:"estimated_price"`
	Adjusted         bool                          `json:"adjusted"`
}

// NewRecord stamps an estimation outcome with an ID and a UTC timestamp.
func NewRecord(attrs estimation.PropertyAttributes, res estimation.EstimationResult, now time.Time) EstimateRecord {
	return EstimateRecord{
		EstimateID:       uuid.NewString(),
		CreatedAt:        now.UTC(),
		Property:         attrs,
		BasePrice:        res.BasePrice,
		AdjustmentFactor: res.AdjustmentFactor,
		FinalPrice:       res.FinalPrice,
		Adjusted:         res.Adjusted,
	}
}

// Fixed-width RFC3339 with nanoseconds, so the TEXT column sorts
// chronologically. RFC3339Nano trims trailing zeros and is not
// lexicographically monotonic across fractional-second lengths.
const storedTimeFormat = "2006-01-02T15:04:05.000000000Z07:00"

const sqliteSchema = `
CREATE TABLE IF NOT EXISTS estimates (
	estimate_id       TEXT PRIMARY KEY,
	created_at        TEXT NOT NULL,
	property          TEXT NOT NULL,
	base_price        REAL NOT NULL,
	adjustment_factor REAL NOT NULL DEFAULT 1.0,
	final_price       REAL NOT NULL,
	adjusted          INTEGER NOT NULL DEFAULT 0
);

CREATE INDEX IF NOT EXISTS idx_estimates_created_at ON estimates (created_at DESC);
`

// Store keeps estimate records in SQLite.
type Store struct {
	db *sqlx.DB
}

func Open(dbPath string) (*Store, error) {
	db, err := sqlx.Open("sqlite", dbPath+"?_pragma=journal_mode(wal)&_pragma=busy_timeout(5000)")
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}
	db.SetMaxOpenConns(1)

	if _, err := db.Exec(sqliteSchema); err != nil {
		db.Close()
		return nil, fmt.Errorf("apply schema: %w", err)
	}
	return &Store{db: db}, nil
}

func (s *Store) Close() error { return s.db.Close() }

type estimateRow struct {
	EstimateID       string  `db:"estimate_id"`
	CreatedAt        string  `db:"created_at"`
	Property         string  `db:"property"`
	BasePrice        float64 `db:"base_price"`
	AdjustmentFactor float64 `db:"adjustment_factor"`
	FinalPrice       float64 `db:"final_price"`
	Adjusted         int     `db:"adjusted"`
}

func (s *Store) Save(rec EstimateRecord) error {
	property, err := json.Marshal(rec.Property)
	if err != nil {
		return fmt.Errorf("marshal property: %w", err)
	}
	adjusted := 0
	if rec.Adjusted {
		adjusted = 1
	}
	_, err = s.db.Exec(`INSERT INTO estimates
		(estimate_id, created_at, property, base_price, adjustment_factor, final_price, adjusted)
		VALUES (?, ?, ?, ?, ?, ?, ?)`,
		rec.EstimateID, rec.CreatedAt.UTC().Format(storedTimeFormat), string(property),
		rec.BasePrice, rec.AdjustmentFactor, rec.FinalPrice, adjusted)
	if err != nil {
		return fmt.Errorf("insert estimate: %w", err)
	}
	return nil
}

func (s *Store) Get(estimateID string) (EstimateRecord, bool, error) {
	var row estimateRow
	err := s.db.Get(&row, `SELECT * FROM estimates WHERE estimate_id = ?`, estimateID)
	if errors.Is(err, sql.ErrNoRows) {
		return EstimateRecord{}, false, nil
	}
	if err != nil {
		return EstimateRecord{}, false, fmt.Errorf("get estimate: %w", err)
	}
	rec, err := rowToRecord(row)
	if err != nil {
		return EstimateRecord{}, false, err
	}
	return rec, true, nil
}

func (s *Store) ListRecent(limit int) ([]EstimateRecord, error) {
	if limit <= 0 {
		limit = 20
	}
	var rows []estimateRow
	if err := s.db.Select(&rows, `SELECT * FROM estimates ORDER BY created_at DESC, rowid DESC LIMIT ?`, limit); err != nil {
		return nil, fmt.Errorf("list estimates: %w", err)
	}
	out := make([]EstimateRecord, 0, len(rows))
	for _, row := range rows {
		rec, err := rowToRecord(row)
		if err != nil {
			return nil, err
		}
		out = append(out, rec)
	}
	return out, nil
}

func rowToRecord(row estimateRow) (EstimateRecord, error) {
	createdAt, err := time.Parse(time.RFC3339Nano, row.CreatedAt)
	if err != nil {
		return EstimateRecord{}, fmt.Errorf("parse created_at: %w", err)
	}
	var attrs estimation.PropertyAttributes
	if err := json.Unmarshal([]byte(row.Property), &attrs); err != nil {
		return EstimateRecord{}, fmt.Errorf("unmarshal property: %w", err)
	}
	return EstimateRecord{
		EstimateID:       row.EstimateID,
		CreatedAt:        createdAt,
		Property:         attrs,
		BasePrice:        row.BasePrice,
		AdjustmentFactor: row.AdjustmentFactor,
		FinalPrice:       row.FinalPrice,
		Adjusted:         row.Adjusted != 0,
	}, nil
}
