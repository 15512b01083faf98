// Package history keeps a SQLite journal of fired low battery alerts.
package history

import (
	"context"
	"database/sql"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	pkgerrors "github.com/pkg/errors"
	"github.com/sirupsen/logrus"
	_ "modernc.org/sqlite" // Pure-Go SQLite driver

	"github.com/charlie0129/batalert/pkg/events"
)

// Alert is one fired alert. Threshold is the alert level that was crossed,
// AlertAt the level re-armed afterwards.
type Alert struct {
	ID        string    `json:"id"`
	Source    string    `json:"source"`
	Battery   string    `json:"battery"`
	Capacity  int       `json:"capacity"`
	Threshold int       `json:"threshold"`
	AlertAt   int       `json:"alertAt"`
	Delivered bool      `json:"delivered"`
	FiredAt   time.Time `json:"firedAt"`
}

// DB wraps the alert history database.
type DB struct {
	db *sql.DB
}

// Open creates or opens the database at path.
func Open(path string) (*DB, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0700); err != nil {
		return nil, pkgerrors.Wrapf(err, "failed to create directory for %s", path)
	}

	dsn := path + "?_pragma=busy_timeout(5000)&_pragma=journal_mode(WAL)"
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, pkgerrors.Wrapf(err, "failed to open history database %s", path)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, pkgerrors.Wrapf(err, "failed to ping history database %s", path)
	}

	// SQLite is single-writer
	db.SetMaxOpenConns(1)

	d := &DB{db: db}
	if err := d.migrate(); err != nil {
		db.Close()
		return nil, pkgerrors.Wrap(err, "failed to migrate history database")
	}

	return d, nil
}

func (d *DB) Close() error {
	return d.db.Close()
}

func (d *DB) migrate() error {
	migrations := []string{
		`CREATE TABLE IF NOT EXISTS alerts (
			id        TEXT PRIMARY KEY,
			source    TEXT NOT NULL,
			battery   TEXT NOT NULL,
			capacity  INTEGER NOT NULL,
			threshold INTEGER NOT NULL,
			alert_at  INTEGER NOT NULL,
			delivered BOOLEAN NOT NULL DEFAULT 1,
			fired_at  INTEGER NOT NULL
		)`,
		`CREATE INDEX IF NOT EXISTS idx_alerts_fired ON alerts(fired_at)`,
	}

	for _, m := range migrations {
		if _, err := d.db.Exec(m); err != nil {
			return err
		}
	}

	return nil
}

// Record stores an alert. An empty ID is replaced by a new UUID.
func (d *DB) Record(ctx context.Context, a Alert) error {
	if a.ID == "" {
		a.ID = uuid.New().String()
	}
	if a.FiredAt.IsZero() {
		a.FiredAt = time.Now()
	}

	_, err := d.db.ExecContext(ctx,
		`INSERT INTO alerts (id, source, battery, capacity, threshold, alert_at, delivered, fired_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		a.ID, a.Source, a.Battery, a.Capacity, a.Threshold, a.AlertAt, a.Delivered, a.FiredAt.UnixMilli(),
	)
	if err != nil {
		return pkgerrors.Wrapf(err, "failed to record alert for %s", a.Battery)
	}

	return nil
}

// Recent returns up to limit alerts, newest first.
func (d *DB) Recent(ctx context.Context, limit int) ([]Alert, error) {
	rows, err := d.db.QueryContext(ctx,
		`SELECT id, source, battery, capacity, threshold, alert_at, delivered, fired_at
		FROM alerts ORDER BY fired_at DESC, rowid DESC LIMIT ?`, limit)
	if err != nil {
		return nil, pkgerrors.Wrap(err, "failed to query alerts")
	}
	defer rows.Close()

	var alerts []Alert
	for rows.Next() {
		var (
			a       Alert
			firedAt int64
		)
		if err := rows.Scan(&a.ID, &a.Source, &a.Battery, &a.Capacity, &a.Threshold, &a.AlertAt, &a.Delivered, &firedAt); err != nil {
			return nil, pkgerrors.Wrap(err, "failed to scan alert")
		}
		a.FiredAt = time.UnixMilli(firedAt)
		alerts = append(alerts, a)
	}

	return alerts, rows.Err()
}

// Consume records every alert.fired event from ch until ch is closed or ctx
// is done.
func (d *DB) Consume(ctx context.Context, ch <-chan events.Event) {
	for {
		select {
		case <-ctx.Done():
			return
		case ev, ok := <-ch:
			if !ok {
				return
			}
			if ev.Name != events.AlertFired {
				continue
			}
			p, err := events.DecodeAs[events.AlertFiredEvent](ev)
			if err != nil {
				logrus.WithError(err).Warn("failed to decode alert event")
				continue
			}
			err = d.Record(ctx, Alert{
				Source:    p.Source,
				Battery:   p.Battery,
				Capacity:  p.Capacity,
				Threshold: p.Threshold,
				AlertAt:   p.AlertAt,
				Delivered: p.Delivered,
				FiredAt:   p.Ts,
			})
			if err != nil {
				logrus.WithError(err).Warn("failed to write alert history")
			}
		}
	}
}
