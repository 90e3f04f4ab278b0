package handler

import (
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/rs/xid"

	"github.com/sakif/ringlog/internal/auth"
	"github.com/sakif/ringlog/internal/service"
)

const stateCookieName = "oauth_state"

// AuthHandler runs the OAuth login flow, the optional dev login and logout.
//
//   - HandleLogin    → redirect the browser to the provider
//   - HandleCallback → exchange the code, upsert the user, set the session cookie
//   - HandleDevLogin → email + shared password, for local development
//   - HandleLogout   → clear the session cookie
type AuthHandler struct {
	providers    map[string]auth.Provider
	svc          *service.AuthService
	sessionTTL   time.Duration
	cookieSecure bool
	redirectTo   string
	logger       *slog.Logger
}

// NewAuthHandler registers the given providers by name. redirectTo is where
// the browser lands after a successful callback.
func NewAuthHandler(
	providers []auth.Provider,
	svc *service.AuthService,
	tokens *auth.TokenService,
	cookieSecure bool,
	redirectTo string,
	logger *slog.Logger,
) *AuthHandler {
	byName := make(map[string]auth.Provider, len(providers))
	for _, p := range providers {
		byName[p.Name()] = p
	}
	if redirectTo == "" {
		redirectTo = "/"
	}
	return &AuthHandler{
		providers:    byName,
		svc:          svc,
		sessionTTL:   tokens.TTL(),
		cookieSecure: cookieSecure,
		redirectTo:   redirectTo,
		logger:       logger,
	}
}

func (h *AuthHandler) provider(w http.ResponseWriter, r *http.Request) (auth.Provider, bool) {
	p, ok := h.providers[chi.URLParam(r, "provider")]
	if !ok {
		writeFailure(w, http.StatusNotFound, "Unknown provider")
	}
	return p, ok
}

// HandleLogin redirects to the provider's consent page.
//
// HTTP: GET /auth/{provider}/login
//
// A random state is stored in a short-lived HttpOnly cookie and checked on
// callback, so only logins started here can complete.
func (h *AuthHandler) HandleLogin(w http.ResponseWriter, r *http.Request) {
	p, ok := h.provider(w, r)
	if !ok {
		return
	}
	state := xid.New().String()
	http.SetCookie(w, &http.Cookie{
		Name:     stateCookieName,
		Value:    state,
		Path:     "/",
		MaxAge:   600,
		HttpOnly: true,
		Secure:   h.cookieSecure,
		SameSite: http.SameSiteLaxMode,
	})
	http.Redirect(w, r, p.AuthURL(state), http.StatusTemporaryRedirect)
}

// HandleCallback completes the OAuth flow.
//
// HTTP: GET /auth/{provider}/callback?code=xxx&state=yyy
func (h *AuthHandler) HandleCallback(w http.ResponseWriter, r *http.Request) {
	p, ok := h.provider(w, r)
	if !ok {
		return
	}
	log := h.logger.With(slog.String("provider", p.Name()))

	stateCookie, err := r.Cookie(stateCookieName)
	if err != nil || stateCookie.Value == "" || r.URL.Query().Get("state") != stateCookie.Value {
		log.Warn("auth callback: state mismatch")
		writeFailure(w, http.StatusBadRequest, "Invalid OAuth state")
		return
	}
	// single use
	http.SetCookie(w, &http.Cookie{Name: stateCookieName, Value: "", Path: "/", MaxAge: -1})

	if errParam := r.URL.Query().Get("error"); errParam != "" {
		log.Info("auth callback: authorization denied", slog.String("error", errParam))
		http.Redirect(w, r, h.redirectTo+"?auth=denied", http.StatusSeeOther)
		return
	}

	code := r.URL.Query().Get("code")
	if code == "" {
		writeFailure(w, http.StatusBadRequest, "Missing OAuth code")
		return
	}

	identity, err := p.Exchange(r.Context(), code)
	if err != nil {
		if errors.Is(err, auth.ErrNoEmail) {
			log.Warn("auth callback: no verified email")
			http.Redirect(w, r, h.redirectTo+"?auth=no-email", http.StatusSeeOther)
			return
		}
		log.Error("auth callback: exchange failed", slog.String("error", err.Error()))
		writeFailure(w, http.StatusBadGateway, "Authentication failed")
		return
	}

	result, err := h.svc.SignIn(r.Context(), p.Name(), identity)
	if err != nil {
		writeError(w, log, err)
		return
	}

	auth.SetSessionCookie(w, result.Token, h.sessionTTL, h.cookieSecure)
	http.Redirect(w, r, h.redirectTo, http.StatusSeeOther)
}

type devLoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// HandleDevLogin signs in with the configured development password.
//
// HTTP: POST /auth/dev/login
// REQUEST BODY: {"email": "me@example.com", "password": "..."}
func (h *AuthHandler) HandleDevLogin(w http.ResponseWriter, r *http.Request) {
	var req devLoginRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	result, err := h.svc.DevLogin(r.Context(), req.Email, req.Password)
	if err != nil {
		writeError(w, h.logger, err)
		return
	}
	auth.SetSessionCookie(w, result.Token, h.sessionTTL, h.cookieSecure)
	writeData(w, result.User)
}

// HandleLogout clears the session cookie. Tokens are stateless, so a copied
// token stays valid until it expires.
//
// HTTP: POST /auth/logout
func (h *AuthHandler) HandleLogout(w http.ResponseWriter, r *http.Request) {
	auth.ClearSessionCookie(w, h.cookieSecure)
	writeOK(w)
}
