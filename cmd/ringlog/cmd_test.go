package main

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/sakif/ringlog/internal/model"
	"github.com/sakif/ringlog/internal/repository"
	"github.com/sakif/ringlog/internal/repository/sqlite"
)

// execute runs the CLI with args and returns stdout.
func execute(t *testing.T, stdin string, args ...string) (string, error) {
	t.Helper()
	cmd := newRootCmd()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&bytes.Buffer{})
	cmd.SetIn(strings.NewReader(stdin))
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

// sqliteEnv points the CLI at a fresh SQLite file in a temp directory and
// returns its path.
func sqliteEnv(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	t.Chdir(dir)
	path := filepath.Join(dir, "data", "ringlog.db")
	t.Setenv("CONFIG_FILE", "")
	t.Setenv("DB_DRIVER", "sqlite")
	t.Setenv("DB_PATH", path)
	t.Setenv("SEED_USER_EMAIL", "")
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	return path
}

func withStore(t *testing.T, path string, fn func(db *sqlite.DB)) {
	t.Helper()
	db, err := sqlite.New(path)
	require.NoError(t, err)
	defer db.Close(context.Background())
	fn(db)
}

func TestHashPassword_FromArg(t *testing.T) {
	out, err := execute(t, "", "hash-password", "letmein")
	require.NoError(t, err)

	hash := strings.TrimSpace(out)
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(hash), []byte("letmein")))
}

func TestHashPassword_FromStdin(t *testing.T) {
	out, err := execute(t, "s3cret\n", "hash-password")
	require.NoError(t, err)

	hash := strings.TrimSpace(out)
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(hash), []byte("s3cret")))
}

func TestHashPassword_EmptyStdin(t *testing.T) {
	_, err := execute(t, "", "hash-password")
	assert.Error(t, err)
}

func TestSeed_AndDelete(t *testing.T) {
	path := sqliteEnv(t)

	var userID string
	withStore(t, path, func(db *sqlite.DB) {
		u, err := db.Users().UpsertByEmail(context.Background(), model.Identity{Email: "seed@example.com"})
		require.NoError(t, err)
		userID = u.ID
	})

	out, err := execute(t, "", "seed", "3", "--email", "seed@example.com", "--seed", "11")
	require.NoError(t, err)
	assert.Contains(t, out, "Seeded 3 weeks for seed@example.com")
	assert.Contains(t, out, "12 inserted, 0 replaced")

	withStore(t, path, func(db *sqlite.DB) {
		ws, err := db.Workouts().List(context.Background(), userID, repository.WorkoutFilter{})
		require.NoError(t, err)
		assert.Len(t, ws, 12)
	})

	out, err = execute(t, "", "seed", "delete", "--email", "seed@example.com")
	require.NoError(t, err)
	assert.Contains(t, out, "12 workouts, 6 metrics")
	assert.Contains(t, out, "phase 1, week 1")

	withStore(t, path, func(db *sqlite.DB) {
		ws, err := db.Workouts().List(context.Background(), userID, repository.WorkoutFilter{})
		require.NoError(t, err)
		assert.Empty(t, ws)
	})
}

func TestSeed_EmailFromEnvironment(t *testing.T) {
	path := sqliteEnv(t)
	withStore(t, path, func(db *sqlite.DB) {
		_, err := db.Users().UpsertByEmail(context.Background(), model.Identity{Email: "env@example.com"})
		require.NoError(t, err)
	})
	t.Setenv("SEED_USER_EMAIL", "env@example.com")

	out, err := execute(t, "", "seed", "1")
	require.NoError(t, err)
	assert.Contains(t, out, "Seeded 1 weeks for env@example.com")
}

func TestSeed_Errors(t *testing.T) {
	sqliteEnv(t)

	tests := []struct {
		name string
		args []string
		want string
	}{
		{"not a number", []string{"seed", "six", "--email", "a@example.com"}, "weeks must be a number"},
		{"out of range", []string{"seed", "19", "--email", "a@example.com"}, "weeks must be between 1 and 18"},
		{"no email", []string{"seed", "2"}, "email is required"},
		{"unknown user", []string{"seed", "2", "--email", "ghost@example.com"}, "sign in once"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := execute(t, "", tt.args...)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.want)
		})
	}
}

func TestSeed_BadDriver(t *testing.T) {
	sqliteEnv(t)
	t.Setenv("DB_DRIVER", "postgres")

	_, err := execute(t, "", "seed", "--email", "a@example.com")
	assert.ErrorContains(t, err, "unknown database driver")
}

func TestProgram_PrintsPhase(t *testing.T) {
	t.Setenv("DB_DRIVER", "postgres") // never opened

	out, err := execute(t, "", "program")
	require.NoError(t, err)
	assert.Contains(t, out, "Phase 1: Foundation")
	for _, s := range []string{"Push 1", "Pull 1", "Push 2", "Pull 2"} {
		assert.Contains(t, out, s)
	}
	assert.Contains(t, out, "Ring Dip (Elbows in)")
	assert.Contains(t, out, "rest 1:30")
	assert.Contains(t, out, "rest 2:00", "rest ranges print their lower bound")
	assert.NotContains(t, out, "deload week")

	out, err = execute(t, "", "program", "3", "--deload")
	require.NoError(t, err)
	assert.Contains(t, out, "Phase 3: Peak Performance")
	assert.Contains(t, out, "deload week")
}

func TestProgram_Errors(t *testing.T) {
	_, err := execute(t, "", "program", "four")
	assert.ErrorContains(t, err, "phase must be a number")

	_, err = execute(t, "", "program", "4")
	assert.ErrorContains(t, err, "phase must be between 1 and 3")
}

func TestProgramExercises(t *testing.T) {
	t.Setenv("DB_DRIVER", "postgres")

	out, err := execute(t, "", "program", "exercises")
	require.NoError(t, err)
	assert.Len(t, strings.Split(strings.TrimSpace(out), "\n"), 33)

	out, err = execute(t, "", "program", "exercises", "--category", "Pull")
	require.NoError(t, err)
	lines := strings.Split(strings.TrimSpace(out), "\n")
	assert.Len(t, lines, 18)
	assert.NotContains(t, out, "Ring Dip (Elbows in)")

	_, err = execute(t, "", "program", "exercises", "--category", "legs")
	assert.ErrorContains(t, err, "category must be push or pull")
}
