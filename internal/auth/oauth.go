package auth

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"golang.org/x/oauth2"
	"golang.org/x/oauth2/endpoints"
	"golang.org/x/oauth2/github"

	"github.com/sakif/ringlog/internal/model"
)

// Provider is one OAuth identity provider using the authorization code
// flow. Exchange trades the callback code for the signed-in person's
// identity; the handler then upserts the user by email.
type Provider interface {
	Name() string
	AuthURL(state string) string
	Exchange(ctx context.Context, code string) (*model.Identity, error)
}

// ErrNoEmail is returned when the provider will not disclose an email.
// Email is the account key, so such sign-ins are refused.
var ErrNoEmail = errors.New("auth: provider returned no verified email")

// GoogleProvider signs users in with Google.
type GoogleProvider struct {
	config      *oauth2.Config
	userInfoURL string
}

func NewGoogleProvider(clientID, clientSecret, callbackURL string) *GoogleProvider {
	return &GoogleProvider{
		config: &oauth2.Config{
			ClientID:     clientID,
			ClientSecret: clientSecret,
			RedirectURL:  callbackURL,
			Scopes:       []string{"openid", "email", "profile"},
			Endpoint:     endpoints.Google,
		},
		userInfoURL: "https://openidconnect.googleapis.com/v1/userinfo",
	}
}

func (p *GoogleProvider) Name() string { return "google" }

func (p *GoogleProvider) AuthURL(state string) string {
	return p.config.AuthCodeURL(state, oauth2.AccessTypeOnline)
}

type googleUser struct {
	Sub           string `json:"sub"`
	Email         string `json:"email"`
	EmailVerified bool   `json:"email_verified"`
	Name          string `json:"name"`
	Picture       string `json:"picture"`
}

func (p *GoogleProvider) Exchange(ctx context.Context, code string) (*model.Identity, error) {
	client, err := exchangeClient(ctx, p.config, code)
	if err != nil {
		return nil, err
	}

	var gu googleUser
	if err := getJSON(client, p.userInfoURL, &gu); err != nil {
		return nil, err
	}
	if gu.Sub == "" {
		return nil, errors.New("auth: Google returned a user without a subject")
	}
	if gu.Email == "" || !gu.EmailVerified {
		return nil, ErrNoEmail
	}

	return &model.Identity{
		Email:    strings.ToLower(gu.Email),
		Name:     gu.Name,
		Image:    gu.Picture,
		GoogleID: gu.Sub,
	}, nil
}

// GitHubProvider signs users in with GitHub. GitHub hides the email of
// users who keep it private, so the primary verified address is fetched
// from /user/emails when /user has none.
type GitHubProvider struct {
	config  *oauth2.Config
	apiBase string
}

// NewGitHubProvider requests "read:user" for the profile and "user:email"
// for private addresses.
func NewGitHubProvider(clientID, clientSecret, callbackURL string) *GitHubProvider {
	return &GitHubProvider{
		config: &oauth2.Config{
			ClientID:     clientID,
			ClientSecret: clientSecret,
			RedirectURL:  callbackURL,
			Scopes:       []string{"read:user", "user:email"},
			Endpoint:     github.Endpoint,
		},
		apiBase: "https://api.github.com",
	}
}

func (p *GitHubProvider) Name() string { return "github" }

func (p *GitHubProvider) AuthURL(state string) string {
	return p.config.AuthCodeURL(state, oauth2.AccessTypeOnline)
}

type gitHubUser struct {
	ID        int64  `json:"id"`
	Login     string `json:"login"`
	Name      string `json:"name"`
	Email     string `json:"email"`
	AvatarURL string `json:"avatar_url"`
}

type gitHubEmail struct {
	Email    string `json:"email"`
	Primary  bool   `json:"primary"`
	Verified bool   `json:"verified"`
}

func (p *GitHubProvider) Exchange(ctx context.Context, code string) (*model.Identity, error) {
	client, err := exchangeClient(ctx, p.config, code)
	if err != nil {
		return nil, err
	}

	var gh gitHubUser
	if err := getJSON(client, p.apiBase+"/user", &gh); err != nil {
		return nil, err
	}
	if gh.ID == 0 {
		return nil, errors.New("auth: GitHub returned an invalid user (ID = 0)")
	}

	email := gh.Email
	if email == "" {
		var emails []gitHubEmail
		if err := getJSON(client, p.apiBase+"/user/emails", &emails); err != nil {
			return nil, err
		}
		for _, e := range emails {
			if e.Primary && e.Verified {
				email = e.Email
				break
			}
		}
	}
	if email == "" {
		return nil, ErrNoEmail
	}

	name := gh.Name
	if name == "" {
		name = gh.Login
	}
	return &model.Identity{
		Email:    strings.ToLower(email),
		Name:     name,
		Image:    gh.AvatarURL,
		GitHubID: gh.ID,
	}, nil
}

// exchangeClient trades the code for a token and returns an HTTP client
// that sends it as a Bearer header.
func exchangeClient(ctx context.Context, cfg *oauth2.Config, code string) (*http.Client, error) {
	token, err := cfg.Exchange(ctx, code)
	if err != nil {
		return nil, fmt.Errorf("auth: exchanging OAuth code: %w", err)
	}
	return cfg.Client(ctx, token), nil
}

func getJSON(client *http.Client, url string, dst any) error {
	resp, err := client.Get(url)
	if err != nil {
		return fmt.Errorf("auth: calling %s: %w", url, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("auth: %s returned status %d", url, resp.StatusCode)
	}
	if err := json.NewDecoder(resp.Body).Decode(dst); err != nil {
		return fmt.Errorf("auth: decoding %s: %w", url, err)
	}
	return nil
}
