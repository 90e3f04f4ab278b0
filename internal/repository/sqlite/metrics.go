package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/sakif/ringlog/internal/apperror"
	"github.com/sakif/ringlog/internal/model"
	"github.com/sakif/ringlog/internal/repository"
)

var _ repository.MetricsRepository = (*MetricsDB)(nil)

// MetricsDB stores body metrics in the body_metrics table.
type MetricsDB struct {
	conn *sql.DB
}

const metricsColumns = `id, user_id, date, weight, measurements, notes, is_seed, created_at`

func (d *MetricsDB) Create(ctx context.Context, m *model.BodyMetrics) error {
	return d.insert(ctx, d.conn, m)
}

// CreateMany inserts all entries in one transaction.
func (d *MetricsDB) CreateMany(ctx context.Context, ms []model.BodyMetrics) error {
	tx, err := d.conn.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("sqlite: beginning transaction: %w", err)
	}
	defer tx.Rollback()

	for i := range ms {
		if err := d.insert(ctx, tx, &ms[i]); err != nil {
			return err
		}
	}
	return tx.Commit()
}

type execer interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
}

func (d *MetricsDB) insert(ctx context.Context, ex execer, m *model.BodyMetrics) error {
	if m.ID == "" {
		m.ID = model.NewID()
	}
	updated := m.CreatedAt
	stamp(&m.CreatedAt, &updated)

	var measurements sql.NullString
	if m.Measurements != nil {
		raw, err := json.Marshal(m.Measurements)
		if err != nil {
			return fmt.Errorf("sqlite: encoding measurements: %w", err)
		}
		measurements = sql.NullString{String: string(raw), Valid: true}
	}
	var weight sql.NullFloat64
	if m.Weight != nil {
		weight = sql.NullFloat64{Float64: *m.Weight, Valid: true}
	}

	_, err := ex.ExecContext(ctx,
		`INSERT INTO body_metrics (`+metricsColumns+`) VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		m.ID, m.UserID, toMillis(m.Date), weight, measurements, m.Notes, boolInt(m.IsSeed), toMillis(m.CreatedAt),
	)
	if err != nil {
		return fmt.Errorf("sqlite: inserting body metrics: %w", err)
	}
	return nil
}

func (d *MetricsDB) List(ctx context.Context, userID string, limit int) ([]model.BodyMetrics, error) {
	query := `SELECT ` + metricsColumns + ` FROM body_metrics WHERE user_id = ? ORDER BY date DESC, created_at DESC`
	args := []any{userID}
	if limit > 0 {
		query += ` LIMIT ?`
		args = append(args, limit)
	}

	rows, err := d.conn.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("sqlite: listing body metrics: %w", err)
	}
	defer rows.Close()

	out := []model.BodyMetrics{}
	for rows.Next() {
		m, err := scanMetrics(rows)
		if err != nil {
			return nil, fmt.Errorf("sqlite: scanning body metrics: %w", err)
		}
		out = append(out, *m)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("sqlite: iterating body metrics: %w", err)
	}
	return out, nil
}

func (d *MetricsDB) Delete(ctx context.Context, userID, id string) error {
	res, err := d.conn.ExecContext(ctx, `DELETE FROM body_metrics WHERE id = ? AND user_id = ?`, id, userID)
	if err != nil {
		return fmt.Errorf("sqlite: deleting body metrics %s: %w", id, err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return apperror.NotFound("metric")
	}
	return nil
}

func (d *MetricsDB) DeleteAll(ctx context.Context, userID string) (int64, error) {
	return deleteWhere(ctx, d.conn, `DELETE FROM body_metrics WHERE user_id = ?`, userID)
}

func (d *MetricsDB) DeleteSeeded(ctx context.Context, userID string) (int64, error) {
	return deleteWhere(ctx, d.conn, `DELETE FROM body_metrics WHERE user_id = ? AND is_seed = 1`, userID)
}

func scanMetrics(row rowScanner) (*model.BodyMetrics, error) {
	var (
		m             model.BodyMetrics
		date, created int64
		weight        sql.NullFloat64
		measurements  sql.NullString
		isSeed        int
	)
	if err := row.Scan(&m.ID, &m.UserID, &date, &weight, &measurements, &m.Notes, &isSeed, &created); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, apperror.NotFound("metric")
		}
		return nil, err
	}
	if weight.Valid {
		v := weight.Float64
		m.Weight = &v
	}
	if measurements.Valid {
		m.Measurements = &model.Measurements{}
		if err := json.Unmarshal([]byte(measurements.String), m.Measurements); err != nil {
			return nil, fmt.Errorf("decoding measurements of %s: %w", m.ID, err)
		}
	}
	m.IsSeed = isSeed != 0
	m.Date = fromMillis(date)
	m.CreatedAt = fromMillis(created)
	return &m, nil
}
