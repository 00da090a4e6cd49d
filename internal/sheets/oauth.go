package sheets

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"net/http"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"
	"google.golang.org/api/sheets/v4"

	"github.com/Mujtaba19938/FINDASH/internal/common"
)

// DefaultCallbackAddr is where the consent flow listens for the redirect.
const DefaultCallbackAddr = "localhost:8085"

const consentTimeout = 5 * time.Minute

// OAuth2Config identifies the OAuth2 client used for user consent.
type OAuth2Config struct {
	ClientID     string
	ClientSecret string
	TokenFile    string
	CallbackAddr string
}

func (c OAuth2Config) callbackAddr() string {
	if c.CallbackAddr == "" {
		return DefaultCallbackAddr
	}
	return c.CallbackAddr
}

func (c OAuth2Config) oauth() *oauth2.Config {
	return &oauth2.Config{
		ClientID:     c.ClientID,
		ClientSecret: c.ClientSecret,
		Endpoint:     google.Endpoint,
		RedirectURL:  "http://" + c.callbackAddr() + "/callback",
		Scopes:       []string{sheets.SpreadsheetsScope},
	}
}

// TokenFile persists an OAuth2 token as JSON.
type TokenFile string

// Load reads the token, returning common.ErrNotFound when none is cached.
func (f TokenFile) Load() (*oauth2.Token, error) {
	data, err := os.ReadFile(string(f))
	if errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("%w: no token at %s", common.ErrNotFound, f)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read token: %w", err)
	}

	var token oauth2.Token
	if err := json.Unmarshal(data, &token); err != nil {
		return nil, fmt.Errorf("failed to decode token: %w", err)
	}
	return &token, nil
}

// Save writes the token readable only by the owner.
func (f TokenFile) Save(token *oauth2.Token) error {
	if err := os.MkdirAll(filepath.Dir(string(f)), 0700); err != nil {
		return fmt.Errorf("failed to create token directory: %w", err)
	}
	data, err := json.Marshal(token)
	if err != nil {
		return fmt.Errorf("failed to encode token: %w", err)
	}
	if err := os.WriteFile(string(f), data, 0600); err != nil {
		return fmt.Errorf("failed to write token: %w", err)
	}
	return nil
}

// Authorizer obtains a user token, reusing the cached one when possible.
type Authorizer struct {
	oauth  *oauth2.Config
	logger *slog.Logger
	cache  TokenFile
	addr   string
}

// NewAuthorizer creates an Authorizer for config.
func NewAuthorizer(config OAuth2Config, logger *slog.Logger) *Authorizer {
	return &Authorizer{
		oauth:  config.oauth(),
		cache:  TokenFile(config.TokenFile),
		addr:   config.callbackAddr(),
		logger: common.ComponentLogger(logger, "sheets"),
	}
}

// Token returns the cached token, refreshing it when expired. Without a
// cached token it runs the browser consent flow.
func (a *Authorizer) Token(ctx context.Context) (*oauth2.Token, error) {
	if a.cache != "" {
		token, err := a.cache.Load()
		switch {
		case err == nil && token.Valid():
			return token, nil
		case err == nil:
			fresh, err := a.oauth.TokenSource(ctx, token).Token()
			if err != nil {
				return nil, fmt.Errorf("failed to refresh token: %w", err)
			}
			a.store(fresh)
			return fresh, nil
		case errors.Is(err, common.ErrNotFound):
			a.logger.Info("No cached token, starting consent flow")
		default:
			a.logger.Warn("Ignoring unreadable token cache", "file", a.cache, "error", err)
		}
	}

	token, err := a.consent(ctx)
	if err != nil {
		return nil, err
	}
	a.store(token)
	return token, nil
}

func (a *Authorizer) store(token *oauth2.Token) {
	if a.cache == "" {
		return
	}
	if err := a.cache.Save(token); err != nil {
		a.logger.Warn("Failed to cache token", "file", a.cache, "error", err)
	}
}

type callbackResult struct {
	err  error
	code string
}

// callback accepts the redirect carrying the authorization code for state.
func callback(state string, results chan<- callbackResult) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		query := r.URL.Query()
		if query.Get("state") != state {
			http.Error(w, "state mismatch", http.StatusBadRequest)
			return
		}

		result := callbackResult{code: query.Get("code")}
		if result.code == "" {
			result.err = fmt.Errorf("%w: no authorization code received", common.ErrUnauthorized)
			if reason := query.Get("error"); reason != "" {
				result.err = fmt.Errorf("%w: %s", common.ErrUnauthorized, reason)
			}
			http.Error(w, "Authentication failed. Please try again.", http.StatusBadRequest)
		} else {
			_, _ = fmt.Fprintln(w, "Authentication successful. You can close this window.")
		}

		select {
		case results <- result:
		default:
		}
	})
}

func (a *Authorizer) consent(ctx context.Context) (*oauth2.Token, error) {
	state := uuid.NewString()
	results := make(chan callbackResult, 1)

	mux := http.NewServeMux()
	mux.Handle("/callback", callback(state, results))
	server := &http.Server{
		Addr:              a.addr,
		Handler:           mux,
		ReadHeaderTimeout: 10 * time.Second,
	}
	go func() {
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			select {
			case results <- callbackResult{err: fmt.Errorf("failed to start callback server: %w", err)}:
			default:
			}
		}
	}()
	defer func() {
		if err := server.Shutdown(context.WithoutCancel(ctx)); err != nil {
			a.logger.Warn("Error shutting down callback server", "error", err)
		}
	}()

	url := a.oauth.AuthCodeURL(state, oauth2.AccessTypeOffline, oauth2.ApprovalForce)
	a.logger.Info("Visit this URL to grant spreadsheet access", "url", url)

	timer := time.NewTimer(consentTimeout)
	defer timer.Stop()

	var result callbackResult
	select {
	case result = <-results:
	case <-ctx.Done():
		return nil, ctx.Err()
	case <-timer.C:
		return nil, fmt.Errorf("%w: no consent received within %s", common.ErrUnauthorized, consentTimeout)
	}
	if result.err != nil {
		return nil, result.err
	}

	token, err := a.oauth.Exchange(ctx, result.code)
	if err != nil {
		return nil, fmt.Errorf("failed to exchange authorization code: %w", err)
	}
	return token, nil
}
