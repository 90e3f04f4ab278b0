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

var _ repository.UserRepository = (*UserDB)(nil)

// UserDB stores accounts in the users table. Settings are one JSON column.
type UserDB struct {
	conn *sql.DB
}

const userColumns = `id, email, name, image, google_id, github_id, settings, created_at, updated_at`

// UpsertByEmail keeps the existing id and settings for a known email and
// refreshes the profile fields; an unknown email gets a new row with
// default settings.
func (u *UserDB) UpsertByEmail(ctx context.Context, identity model.Identity) (*model.User, error) {
	existing, err := u.GetByEmail(ctx, identity.Email)
	if err != nil && !errors.Is(err, apperror.ErrNotFound) {
		return nil, err
	}

	ts := now()

	if existing != nil {
		googleID := existing.GoogleID
		if identity.GoogleID != "" {
			googleID = identity.GoogleID
		}
		githubID := existing.GitHubID
		if identity.GitHubID != 0 {
			githubID = identity.GitHubID
		}
		_, err = u.conn.ExecContext(ctx,
			`UPDATE users SET name = ?, image = ?, google_id = ?, github_id = ?, updated_at = ?
			 WHERE id = ?`,
			identity.Name, identity.Image, googleID, githubID, toMillis(ts), existing.ID,
		)
		if err != nil {
			return nil, fmt.Errorf("sqlite: updating user %s: %w", existing.ID, err)
		}
		return u.GetByID(ctx, existing.ID)
	}

	user := &model.User{
		ID:        model.NewID(),
		Email:     identity.Email,
		Name:      identity.Name,
		Image:     identity.Image,
		GoogleID:  identity.GoogleID,
		GitHubID:  identity.GitHubID,
		Settings:  model.DefaultSettings(),
		CreatedAt: ts,
		UpdatedAt: ts,
	}
	settings, err := json.Marshal(user.Settings)
	if err != nil {
		return nil, fmt.Errorf("sqlite: encoding settings: %w", err)
	}
	_, err = u.conn.ExecContext(ctx,
		`INSERT INTO users (`+userColumns+`) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		user.ID, user.Email, user.Name, user.Image, user.GoogleID, user.GitHubID,
		string(settings), toMillis(user.CreatedAt), toMillis(user.UpdatedAt),
	)
	if err != nil {
		if isUniqueViolation(err) {
			return nil, apperror.Conflict("user")
		}
		return nil, fmt.Errorf("sqlite: inserting user %s: %w", user.Email, err)
	}
	return user, nil
}

func (u *UserDB) GetByID(ctx context.Context, id string) (*model.User, error) {
	row := u.conn.QueryRowContext(ctx, `SELECT `+userColumns+` FROM users WHERE id = ?`, id)
	return scanUser(row, id)
}

func (u *UserDB) GetByEmail(ctx context.Context, email string) (*model.User, error) {
	row := u.conn.QueryRowContext(ctx, `SELECT `+userColumns+` FROM users WHERE email = ?`, email)
	return scanUser(row, email)
}

// UpdateSettings replaces the stored settings wholesale; merging is the
// service's job.
func (u *UserDB) UpdateSettings(ctx context.Context, id string, settings model.UserSettings) (*model.User, error) {
	raw, err := json.Marshal(settings)
	if err != nil {
		return nil, fmt.Errorf("sqlite: encoding settings: %w", err)
	}
	res, err := u.conn.ExecContext(ctx,
		`UPDATE users SET settings = ?, updated_at = ? WHERE id = ?`,
		string(raw), toMillis(now()), id,
	)
	if err != nil {
		return nil, fmt.Errorf("sqlite: updating settings of %s: %w", id, err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return nil, apperror.NotFound("user")
	}
	return u.GetByID(ctx, id)
}

func (u *UserDB) Delete(ctx context.Context, id string) error {
	res, err := u.conn.ExecContext(ctx, `DELETE FROM users WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("sqlite: deleting user %s: %w", id, err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return apperror.NotFound("user")
	}
	return nil
}

func scanUser(row rowScanner, key string) (*model.User, error) {
	var (
		u                model.User
		settings         string
		created, updated int64
	)
	err := row.Scan(&u.ID, &u.Email, &u.Name, &u.Image, &u.GoogleID, &u.GitHubID, &settings, &created, &updated)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, apperror.NotFound("user")
		}
		return nil, fmt.Errorf("sqlite: getting user %s: %w", key, err)
	}
	if err := json.Unmarshal([]byte(settings), &u.Settings); err != nil {
		return nil, fmt.Errorf("sqlite: decoding settings of %s: %w", u.ID, err)
	}
	u.CreatedAt = fromMillis(created)
	u.UpdatedAt = fromMillis(updated)
	return &u, nil
}
