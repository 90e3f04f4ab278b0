package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/sakif/ringlog/internal/apperror"
	"github.com/sakif/ringlog/internal/model"
	"github.com/sakif/ringlog/internal/program"
	"github.com/sakif/ringlog/internal/repository"
)

var _ repository.WorkoutRepository = (*WorkoutDB)(nil)

// WorkoutDB stores workouts; exercise logs live in a JSON column.
type WorkoutDB struct {
	conn *sql.DB
}

const workoutColumns = `id, user_id, date, phase, week, session, is_deload, exercises, notes, duration, is_seed, created_at, updated_at`

// Create assigns an id when the workout has none and fills empty timestamps.
func (d *WorkoutDB) Create(ctx context.Context, w *model.Workout) error {
	if w.ID == "" {
		w.ID = model.NewID()
	}
	if w.Exercises == nil {
		w.Exercises = []model.ExerciseLog{}
	}
	stamp(&w.CreatedAt, &w.UpdatedAt)

	exercises, err := json.Marshal(w.Exercises)
	if err != nil {
		return fmt.Errorf("sqlite: encoding exercises: %w", err)
	}
	_, err = d.conn.ExecContext(ctx,
		`INSERT INTO workouts (`+workoutColumns+`) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		w.ID, w.UserID, toMillis(w.Date), w.Phase, w.Week, string(w.Session), boolInt(w.IsDeload),
		string(exercises), w.Notes, nullInt(w.Duration), boolInt(w.IsSeed),
		toMillis(w.CreatedAt), toMillis(w.UpdatedAt),
	)
	if err != nil {
		return fmt.Errorf("sqlite: inserting workout: %w", err)
	}
	return nil
}

// CreateMany inserts all workouts in one transaction.
func (d *WorkoutDB) CreateMany(ctx context.Context, ws []model.Workout) error {
	tx, err := d.conn.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("sqlite: beginning transaction: %w", err)
	}
	defer tx.Rollback()

	stmt, err := tx.PrepareContext(ctx,
		`INSERT INTO workouts (`+workoutColumns+`) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return fmt.Errorf("sqlite: preparing insert: %w", err)
	}
	defer stmt.Close()

	for i := range ws {
		w := &ws[i]
		if w.ID == "" {
			w.ID = model.NewID()
		}
		if w.Exercises == nil {
			w.Exercises = []model.ExerciseLog{}
		}
		stamp(&w.CreatedAt, &w.UpdatedAt)
		exercises, err := json.Marshal(w.Exercises)
		if err != nil {
			return fmt.Errorf("sqlite: encoding exercises: %w", err)
		}
		_, err = stmt.ExecContext(ctx,
			w.ID, w.UserID, toMillis(w.Date), w.Phase, w.Week, string(w.Session), boolInt(w.IsDeload),
			string(exercises), w.Notes, nullInt(w.Duration), boolInt(w.IsSeed),
			toMillis(w.CreatedAt), toMillis(w.UpdatedAt),
		)
		if err != nil {
			return fmt.Errorf("sqlite: inserting workout %d: %w", i, err)
		}
	}
	return tx.Commit()
}

func (d *WorkoutDB) GetByID(ctx context.Context, userID, id string) (*model.Workout, error) {
	row := d.conn.QueryRowContext(ctx,
		`SELECT `+workoutColumns+` FROM workouts WHERE id = ? AND user_id = ?`, id, userID)
	w, err := scanWorkout(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, apperror.NotFound("workout")
		}
		return nil, fmt.Errorf("sqlite: getting workout %s: %w", id, err)
	}
	return w, nil
}

func (d *WorkoutDB) List(ctx context.Context, userID string, f repository.WorkoutFilter) ([]model.Workout, error) {
	where := []string{"user_id = ?"}
	args := []any{userID}
	if f.From != nil {
		where = append(where, "date >= ?")
		args = append(args, toMillis(*f.From))
	}
	if f.To != nil {
		where = append(where, "date <= ?")
		args = append(args, toMillis(*f.To))
	}
	if f.Phase != 0 {
		where = append(where, "phase = ?")
		args = append(args, f.Phase)
	}
	if f.Week != 0 {
		where = append(where, "week = ?")
		args = append(args, f.Week)
	}
	if f.Session != "" {
		where = append(where, "session = ?")
		args = append(args, string(f.Session))
	}

	query := `SELECT ` + workoutColumns + ` FROM workouts WHERE ` + strings.Join(where, " AND ") +
		` ORDER BY date DESC, created_at DESC`
	if f.Limit > 0 {
		query += ` LIMIT ?`
		args = append(args, f.Limit)
	}

	rows, err := d.conn.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("sqlite: listing workouts: %w", err)
	}
	defer rows.Close()

	out := []model.Workout{}
	for rows.Next() {
		w, err := scanWorkout(rows)
		if err != nil {
			return nil, fmt.Errorf("sqlite: scanning workout: %w", err)
		}
		out = append(out, *w)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("sqlite: iterating workouts: %w", err)
	}
	return out, nil
}

// Update applies the patch to the user's workout and bumps updated_at.
func (d *WorkoutDB) Update(ctx context.Context, userID, id string, patch model.WorkoutPatch) (*model.Workout, error) {
	w, err := d.GetByID(ctx, userID, id)
	if err != nil {
		return nil, err
	}
	patch.Apply(w)
	w.UpdatedAt = now()

	exercises, err := json.Marshal(w.Exercises)
	if err != nil {
		return nil, fmt.Errorf("sqlite: encoding exercises: %w", err)
	}
	res, err := d.conn.ExecContext(ctx,
		`UPDATE workouts SET exercises = ?, notes = ?, duration = ?, updated_at = ?
		 WHERE id = ? AND user_id = ?`,
		string(exercises), w.Notes, nullInt(w.Duration), toMillis(w.UpdatedAt), id, userID,
	)
	if err != nil {
		return nil, fmt.Errorf("sqlite: updating workout %s: %w", id, err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return nil, apperror.NotFound("workout")
	}
	return w, nil
}

func (d *WorkoutDB) Delete(ctx context.Context, userID, id string) error {
	res, err := d.conn.ExecContext(ctx, `DELETE FROM workouts WHERE id = ? AND user_id = ?`, id, userID)
	if err != nil {
		return fmt.Errorf("sqlite: deleting workout %s: %w", id, err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return apperror.NotFound("workout")
	}
	return nil
}

func (d *WorkoutDB) DeleteAll(ctx context.Context, userID string) (int64, error) {
	return deleteWhere(ctx, d.conn, `DELETE FROM workouts WHERE user_id = ?`, userID)
}

func (d *WorkoutDB) DeleteSeeded(ctx context.Context, userID string) (int64, error) {
	return deleteWhere(ctx, d.conn, `DELETE FROM workouts WHERE user_id = ? AND is_seed = 1`, userID)
}

func scanWorkout(row rowScanner) (*model.Workout, error) {
	var (
		w                      model.Workout
		session, exercises     string
		date, created, updated int64
		isDeload, isSeed       int
		duration               sql.NullInt64
	)
	err := row.Scan(&w.ID, &w.UserID, &date, &w.Phase, &w.Week, &session, &isDeload,
		&exercises, &w.Notes, &duration, &isSeed, &created, &updated)
	if err != nil {
		return nil, err
	}
	if err := json.Unmarshal([]byte(exercises), &w.Exercises); err != nil {
		return nil, fmt.Errorf("decoding exercises of %s: %w", w.ID, err)
	}
	if w.Exercises == nil {
		w.Exercises = []model.ExerciseLog{}
	}
	w.Session = program.SessionType(session)
	w.IsDeload = isDeload != 0
	w.IsSeed = isSeed != 0
	if duration.Valid {
		v := int(duration.Int64)
		w.Duration = &v
	}
	w.Date = fromMillis(date)
	w.CreatedAt = fromMillis(created)
	w.UpdatedAt = fromMillis(updated)
	return &w, nil
}

func nullInt(p *int) sql.NullInt64 {
	if p == nil {
		return sql.NullInt64{}
	}
	return sql.NullInt64{Int64: int64(*p), Valid: true}
}

func deleteWhere(ctx context.Context, conn *sql.DB, query string, args ...any) (int64, error) {
	res, err := conn.ExecContext(ctx, query, args...)
	if err != nil {
		return 0, fmt.Errorf("sqlite: bulk delete: %w", err)
	}
	return res.RowsAffected()
}
