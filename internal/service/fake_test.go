package service

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"sort"
	"strings"
	"time"

	"github.com/sakif/ringlog/internal/apperror"
	"github.com/sakif/ringlog/internal/model"
	"github.com/sakif/ringlog/internal/repository"
)

// =========================================================================
// IN-MEMORY STORE
// =========================================================================
//
// fakeStore implements repository.Store over maps. Every repository scopes
// by user id the way the real backends do, so ownership rules can be
// tested at the service level.

type fakeStore struct {
	users    *fakeUsers
	workouts *fakeWorkouts
	metrics  *fakeMetrics
	progress *fakeProgress
	variants *fakeVariants
}

func newFakeStore() *fakeStore {
	return &fakeStore{
		users:    &fakeUsers{byID: map[string]*model.User{}},
		workouts: &fakeWorkouts{byID: map[string]model.Workout{}},
		metrics:  &fakeMetrics{byID: map[string]model.BodyMetrics{}},
		progress: &fakeProgress{counts: map[string]int64{}},
		variants: &fakeVariants{byKey: map[string][]model.VariantUsage{}},
	}
}

func (s *fakeStore) Users() repository.UserRepository                       { return s.users }
func (s *fakeStore) Workouts() repository.WorkoutRepository                 { return s.workouts }
func (s *fakeStore) Metrics() repository.MetricsRepository                  { return s.metrics }
func (s *fakeStore) ExerciseProgress() repository.ExerciseProgressRepository { return s.progress }
func (s *fakeStore) Variants() repository.VariantRepository                 { return s.variants }
func (s *fakeStore) Ping(context.Context) error                             { return nil }
func (s *fakeStore) Close(context.Context) error                            { return nil }

// addUser creates a user with default settings and returns its id.
func (s *fakeStore) addUser(email string) string {
	u, _ := s.users.UpsertByEmail(context.Background(), model.Identity{Email: email, Name: strings.Split(email, "@")[0]})
	return u.ID
}

var errBoom = errors.New("boom")

type fakeUsers struct {
	byID      map[string]*model.User
	upsertErr error
	// conflicts makes the next n upserts fail as if a concurrent insert
	// won the race.
	conflicts int
}

func (f *fakeUsers) UpsertByEmail(_ context.Context, id model.Identity) (*model.User, error) {
	if f.upsertErr != nil {
		return nil, f.upsertErr
	}
	if f.conflicts > 0 {
		f.conflicts--
		return nil, apperror.Conflict("user")
	}
	for _, u := range f.byID {
		if u.Email == id.Email {
			u.Name, u.Image = id.Name, id.Image
			if id.GoogleID != "" {
				u.GoogleID = id.GoogleID
			}
			if id.GitHubID != 0 {
				u.GitHubID = id.GitHubID
			}
			c := *u
			return &c, nil
		}
	}
	now := time.Now().UTC()
	u := &model.User{
		ID: model.NewID(), Email: id.Email, Name: id.Name, Image: id.Image,
		GoogleID: id.GoogleID, GitHubID: id.GitHubID,
		Settings: model.DefaultSettings(), CreatedAt: now, UpdatedAt: now,
	}
	f.byID[u.ID] = u
	c := *u
	return &c, nil
}

func (f *fakeUsers) GetByID(_ context.Context, id string) (*model.User, error) {
	u, ok := f.byID[id]
	if !ok {
		return nil, apperror.NotFound("user")
	}
	c := *u
	return &c, nil
}

func (f *fakeUsers) GetByEmail(_ context.Context, email string) (*model.User, error) {
	for _, u := range f.byID {
		if u.Email == email {
			c := *u
			return &c, nil
		}
	}
	return nil, apperror.NotFound("user")
}

func (f *fakeUsers) UpdateSettings(_ context.Context, id string, st model.UserSettings) (*model.User, error) {
	u, ok := f.byID[id]
	if !ok {
		return nil, apperror.NotFound("user")
	}
	u.Settings = st
	u.UpdatedAt = time.Now().UTC()
	c := *u
	return &c, nil
}

func (f *fakeUsers) Delete(_ context.Context, id string) error {
	if _, ok := f.byID[id]; !ok {
		return apperror.NotFound("user")
	}
	delete(f.byID, id)
	return nil
}

type fakeWorkouts struct {
	byID     map[string]model.Workout
	listErr  error
	lastList repository.WorkoutFilter
}

func (f *fakeWorkouts) Create(_ context.Context, w *model.Workout) error {
	if w.ID == "" {
		w.ID = model.NewID()
	}
	if w.CreatedAt.IsZero() {
		w.CreatedAt = time.Now().UTC()
		w.UpdatedAt = w.CreatedAt
	}
	f.byID[w.ID] = *w
	return nil
}

func (f *fakeWorkouts) CreateMany(ctx context.Context, ws []model.Workout) error {
	for i := range ws {
		if err := f.Create(ctx, &ws[i]); err != nil {
			return err
		}
	}
	return nil
}

func (f *fakeWorkouts) GetByID(_ context.Context, userID, id string) (*model.Workout, error) {
	w, ok := f.byID[id]
	if !ok || w.UserID != userID {
		return nil, apperror.NotFound("workout")
	}
	return &w, nil
}

func (f *fakeWorkouts) List(_ context.Context, userID string, flt repository.WorkoutFilter) ([]model.Workout, error) {
	f.lastList = flt
	if f.listErr != nil {
		return nil, f.listErr
	}
	out := []model.Workout{}
	for _, w := range f.byID {
		switch {
		case w.UserID != userID,
			flt.From != nil && w.Date.Before(*flt.From),
			flt.To != nil && w.Date.After(*flt.To),
			flt.Phase != 0 && w.Phase != flt.Phase,
			flt.Week != 0 && w.Week != flt.Week,
			flt.Session != "" && w.Session != flt.Session:
			continue
		}
		out = append(out, w)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Date.After(out[j].Date) })
	if flt.Limit > 0 && len(out) > flt.Limit {
		out = out[:flt.Limit]
	}
	return out, nil
}

func (f *fakeWorkouts) Update(_ context.Context, userID, id string, p model.WorkoutPatch) (*model.Workout, error) {
	w, ok := f.byID[id]
	if !ok || w.UserID != userID {
		return nil, apperror.NotFound("workout")
	}
	p.Apply(&w)
	w.UpdatedAt = time.Now().UTC()
	f.byID[id] = w
	return &w, nil
}

func (f *fakeWorkouts) Delete(_ context.Context, userID, id string) error {
	w, ok := f.byID[id]
	if !ok || w.UserID != userID {
		return apperror.NotFound("workout")
	}
	delete(f.byID, id)
	return nil
}

func (f *fakeWorkouts) DeleteAll(_ context.Context, userID string) (int64, error) {
	return f.deleteWhere(func(w model.Workout) bool { return w.UserID == userID }), nil
}

func (f *fakeWorkouts) DeleteSeeded(_ context.Context, userID string) (int64, error) {
	return f.deleteWhere(func(w model.Workout) bool { return w.UserID == userID && w.IsSeed }), nil
}

func (f *fakeWorkouts) deleteWhere(match func(model.Workout) bool) int64 {
	var n int64
	for id, w := range f.byID {
		if match(w) {
			delete(f.byID, id)
			n++
		}
	}
	return n
}

func (f *fakeWorkouts) count(userID string) int {
	n := 0
	for _, w := range f.byID {
		if w.UserID == userID {
			n++
		}
	}
	return n
}

type fakeMetrics struct {
	byID      map[string]model.BodyMetrics
	deleteErr error
}

func (f *fakeMetrics) Create(_ context.Context, m *model.BodyMetrics) error {
	if m.ID == "" {
		m.ID = model.NewID()
	}
	f.byID[m.ID] = *m
	return nil
}

func (f *fakeMetrics) CreateMany(ctx context.Context, ms []model.BodyMetrics) error {
	for i := range ms {
		_ = f.Create(ctx, &ms[i])
	}
	return nil
}

func (f *fakeMetrics) List(_ context.Context, userID string, limit int) ([]model.BodyMetrics, error) {
	out := []model.BodyMetrics{}
	for _, m := range f.byID {
		if m.UserID == userID {
			out = append(out, m)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Date.After(out[j].Date) })
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (f *fakeMetrics) Delete(_ context.Context, userID, id string) error {
	m, ok := f.byID[id]
	if !ok || m.UserID != userID {
		return apperror.NotFound("metric")
	}
	delete(f.byID, id)
	return nil
}

func (f *fakeMetrics) DeleteAll(_ context.Context, userID string) (int64, error) {
	if f.deleteErr != nil {
		return 0, f.deleteErr
	}
	return f.deleteWhere(func(m model.BodyMetrics) bool { return m.UserID == userID }), nil
}

func (f *fakeMetrics) DeleteSeeded(_ context.Context, userID string) (int64, error) {
	return f.deleteWhere(func(m model.BodyMetrics) bool { return m.UserID == userID && m.IsSeed }), nil
}

func (f *fakeMetrics) deleteWhere(match func(model.BodyMetrics) bool) int64 {
	var n int64
	for id, m := range f.byID {
		if match(m) {
			delete(f.byID, id)
			n++
		}
	}
	return n
}

type fakeProgress struct {
	counts map[string]int64
}

func (f *fakeProgress) DeleteAll(_ context.Context, userID string) (int64, error) {
	n := f.counts[userID]
	delete(f.counts, userID)
	return n, nil
}

type fakeVariants struct {
	byKey     map[string][]model.VariantUsage
	recordErr error
}

func variantKey(userID, exercise string) string { return userID + "|" + exercise }

func (f *fakeVariants) RecordUsage(_ context.Context, userID, exercise, variant string, at time.Time) error {
	if f.recordErr != nil {
		return f.recordErr
	}
	key := variantKey(userID, exercise)
	for i, v := range f.byKey[key] {
		if v.Name == variant {
			f.byKey[key][i].TimesUsed++
			f.byKey[key][i].LastUsed = at
			return nil
		}
	}
	f.byKey[key] = append(f.byKey[key], model.VariantUsage{Name: variant, TimesUsed: 1, LastUsed: at})
	return nil
}

func (f *fakeVariants) Get(_ context.Context, userID, exercise string) (*model.UserVariants, error) {
	vs := append([]model.VariantUsage{}, f.byKey[variantKey(userID, exercise)]...)
	sort.SliceStable(vs, func(i, j int) bool { return vs[i].TimesUsed > vs[j].TimesUsed })
	return &model.UserVariants{UserID: userID, ExerciseName: exercise, Variants: vs}, nil
}

func (f *fakeVariants) DeleteAll(_ context.Context, userID string) (int64, error) {
	var n int64
	for key := range f.byKey {
		if strings.HasPrefix(key, userID+"|") {
			delete(f.byKey, key)
			n++
		}
	}
	return n, nil
}

// =========================================================================
// HELPERS
// =========================================================================

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// fixedClock pins "now" to Wednesday 2024-03-06 15:00 UTC.
func fixedClock() time.Time {
	return time.Date(2024, 3, 6, 15, 0, 0, 0, time.UTC)
}

func completedSet(n, reps int) model.SetLog {
	return model.SetLog{SetNumber: n, Reps: reps, Completed: true}
}
