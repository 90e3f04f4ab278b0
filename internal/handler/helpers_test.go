package handler_test

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/sakif/ringlog/internal/auth"
	"github.com/sakif/ringlog/internal/handler"
	"github.com/sakif/ringlog/internal/metrics"
	"github.com/sakif/ringlog/internal/model"
	"github.com/sakif/ringlog/internal/repository/sqlite"
	"github.com/sakif/ringlog/internal/service"
)

const (
	testSecret      = "handler-test-secret-0123456789"
	testDevPassword = "letmein"
)

// testAPI is the full /api and /auth surface over an in-memory SQLite
// store, routed the same way the server routes it.
type testAPI struct {
	router   http.Handler
	store    *sqlite.DB
	tokens   *auth.TokenService
	provider *fakeProvider
}

// fakeProvider stands in for Google/GitHub: AuthURL is a fixed page and
// Exchange returns a canned identity for the code "good".
type fakeProvider struct {
	identity model.Identity
	err      error
}

func (p *fakeProvider) Name() string { return "fake" }

func (p *fakeProvider) AuthURL(state string) string {
	return "https://idp.example.com/authorize?state=" + state
}

func (p *fakeProvider) Exchange(_ context.Context, code string) (*model.Identity, error) {
	if p.err != nil {
		return nil, p.err
	}
	if code != "good" {
		return nil, io.ErrUnexpectedEOF
	}
	id := p.identity
	return &id, nil
}

func newTestAPI(t *testing.T) *testAPI {
	t.Helper()

	store, err := sqlite.New(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { store.Close(context.Background()) })

	tokens, err := auth.NewTokenService(testSecret, time.Hour)
	require.NoError(t, err)
	passwords := auth.NewPasswordServiceWithCost(bcrypt.MinCost)
	devHash, err := passwords.Hash(testDevPassword)
	require.NoError(t, err)

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	m := metrics.NewTestManager()
	provider := &fakeProvider{identity: model.Identity{Email: "oauth@example.com", Name: "OAuth User", GoogleID: "g-1"}}

	authSvc := service.NewAuthService(store.Users(), tokens, passwords, devHash, m, logger)
	authH := handler.NewAuthHandler([]auth.Provider{provider}, authSvc, tokens, false, "/", logger)
	userH := handler.NewUserHandler(service.NewUserService(store, m, logger), false, logger)
	workoutH := handler.NewWorkoutHandler(service.NewWorkoutService(store, time.UTC, nil, m, logger), logger)
	metricsH := handler.NewMetricsHandler(service.NewBodyMetricsService(store.Metrics(), nil, m, logger), logger)
	progressH := handler.NewProgressHandler(service.NewProgressService(store, time.UTC, nil), logger)

	r := chi.NewRouter()
	r.Get("/healthz", handler.HandleHealth(store, logger))
	r.Route("/auth", func(r chi.Router) {
		r.Post("/dev/login", authH.HandleDevLogin)
		r.Post("/logout", authH.HandleLogout)
		r.Get("/{provider}/login", authH.HandleLogin)
		r.Get("/{provider}/callback", authH.HandleCallback)
	})
	r.Route("/api", func(r chi.Router) {
		r.Get("/program", handler.HandleProgram)
		r.Group(func(r chi.Router) {
			r.Use(auth.RequireAuth(tokens))
			r.Get("/user", userH.HandleGet)
			r.Put("/user", userH.HandleUpdate)
			r.Delete("/user", userH.HandleDelete)
			r.Get("/workouts", workoutH.HandleList)
			r.Post("/workouts", workoutH.HandleCreate)
			r.Get("/workouts/draft/{slug}", workoutH.HandleDraft)
			r.Get("/workouts/{id}", workoutH.HandleGet)
			r.Put("/workouts/{id}", workoutH.HandleUpdate)
			r.Delete("/workouts/{id}", workoutH.HandleDelete)
			r.Get("/metrics", metricsH.HandleList)
			r.Post("/metrics", metricsH.HandleCreate)
			r.Delete("/metrics/{id}", metricsH.HandleDelete)
			r.Get("/progress", progressH.HandleSummary)
			r.Get("/progress/week", progressH.HandleWeek)
			r.Get("/progress/exercises/{slug}", progressH.HandleExercise)
			r.Get("/exercises/{slug}/variants", progressH.HandleVariants)
		})
	})

	return &testAPI{router: r, store: store, tokens: tokens, provider: provider}
}

// signUp creates a user and returns its id and a bearer token.
func (a *testAPI) signUp(t *testing.T, email string) (string, string) {
	t.Helper()
	u, err := a.store.Users().UpsertByEmail(context.Background(), model.Identity{Email: email, Name: email})
	require.NoError(t, err)
	token, err := a.tokens.Generate(u.ID)
	require.NoError(t, err)
	return u.ID, token
}

// do sends a request with an optional JSON body and bearer token.
func (a *testAPI) do(t *testing.T, method, path, token string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var rdr io.Reader
	switch b := body.(type) {
	case nil:
	case string:
		rdr = bytes.NewBufferString(b)
	default:
		raw, err := json.Marshal(b)
		require.NoError(t, err)
		rdr = bytes.NewReader(raw)
	}
	req := httptest.NewRequest(method, path, rdr)
	if rdr != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rr := httptest.NewRecorder()
	a.router.ServeHTTP(rr, req)
	return rr
}

type envelope struct {
	Success bool            `json:"success"`
	Data    json.RawMessage `json:"data"`
	Error   string          `json:"error"`
}

func decode(t *testing.T, rr *httptest.ResponseRecorder) envelope {
	t.Helper()
	var env envelope
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &env), "body: %s", rr.Body.String())
	return env
}

// decodeData unmarshals the envelope's data into dst and returns the envelope.
func decodeData(t *testing.T, rr *httptest.ResponseRecorder, dst any) envelope {
	t.Helper()
	env := decode(t, rr)
	require.True(t, env.Success, "error: %s", env.Error)
	require.NoError(t, json.Unmarshal(env.Data, dst))
	return env
}

func cookieNamed(rr *httptest.ResponseRecorder, name string) *http.Cookie {
	for _, c := range rr.Result().Cookies() {
		if c.Name == name {
			return c
		}
	}
	return nil
}
