package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/sakif/ringlog/internal/model"
	"github.com/sakif/ringlog/internal/repository"
)

var (
	_ repository.ExerciseProgressRepository = (*ProgressDB)(nil)
	_ repository.VariantRepository          = (*VariantDB)(nil)
)

// ProgressDB owns the exercise_progress table.
type ProgressDB struct {
	conn *sql.DB
}

func (d *ProgressDB) DeleteAll(ctx context.Context, userID string) (int64, error) {
	return deleteWhere(ctx, d.conn, `DELETE FROM exercise_progress WHERE user_id = ?`, userID)
}

// VariantDB keeps one row per (user, exercise, variant).
type VariantDB struct {
	conn *sql.DB
}

func (d *VariantDB) RecordUsage(ctx context.Context, userID, exercise, variant string, at time.Time) error {
	_, err := d.conn.ExecContext(ctx,
		`INSERT INTO user_variants (user_id, exercise_name, name, times_used, last_used)
		 VALUES (?, ?, ?, 1, ?)
		 ON CONFLICT (user_id, exercise_name, name)
		 DO UPDATE SET times_used = times_used + 1, last_used = excluded.last_used`,
		userID, exercise, variant, toMillis(at),
	)
	if err != nil {
		return fmt.Errorf("sqlite: recording variant %q of %q: %w", variant, exercise, err)
	}
	return nil
}

func (d *VariantDB) Get(ctx context.Context, userID, exercise string) (*model.UserVariants, error) {
	rows, err := d.conn.QueryContext(ctx,
		`SELECT name, times_used, last_used FROM user_variants
		 WHERE user_id = ? AND exercise_name = ?
		 ORDER BY times_used DESC, last_used DESC`,
		userID, exercise,
	)
	if err != nil {
		return nil, fmt.Errorf("sqlite: listing variants of %q: %w", exercise, err)
	}
	defer rows.Close()

	uv := &model.UserVariants{UserID: userID, ExerciseName: exercise, Variants: []model.VariantUsage{}}
	for rows.Next() {
		var (
			v        model.VariantUsage
			lastUsed int64
		)
		if err := rows.Scan(&v.Name, &v.TimesUsed, &lastUsed); err != nil {
			return nil, fmt.Errorf("sqlite: scanning variant: %w", err)
		}
		v.LastUsed = fromMillis(lastUsed)
		uv.Variants = append(uv.Variants, v)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("sqlite: iterating variants: %w", err)
	}
	return uv, nil
}

func (d *VariantDB) DeleteAll(ctx context.Context, userID string) (int64, error) {
	return deleteWhere(ctx, d.conn, `DELETE FROM user_variants WHERE user_id = ?`, userID)
}
