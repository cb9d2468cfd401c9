package drive

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"time"

	"drive-file-upload/domain/distribution"

	"github.com/google/uuid"
	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"
	"google.golang.org/api/drive/v3"
)

const (
	// DefaultRedirectPort is the loopback port the OAuth callback is served on
	DefaultRedirectPort = 8888

	// DefaultRefreshHorizon is how close to expiry a cached token gets refreshed.
	// 90000s is 25 hours, not one day.
	DefaultRefreshHorizon = 90000 * time.Second

	// DefaultUser is the key the token is cached under
	DefaultUser = "user"
)

// DefaultScopes limits access to files this program created or opened
var DefaultScopes = []string{drive.DriveFileScope}

// OAuthConfig holds the configuration for OAuth 2.0 authentication
type OAuthConfig struct {
	CredentialsFile string        // Path to OAuth client credentials JSON
	TokenDirectory  string        // Directory tokens are cached in
	User            string        // Key the token is cached under
	Scopes          []string      // Requested scopes
	RedirectPort    int           // Loopback port for the callback
	RefreshHorizon  time.Duration // Refresh tokens expiring within this window
}

func (c OAuthConfig) withDefaults() OAuthConfig {
	if c.User == "" {
		c.User = DefaultUser
	}
	if len(c.Scopes) == 0 {
		c.Scopes = DefaultScopes
	}
	if c.RedirectPort == 0 {
		c.RedirectPort = DefaultRedirectPort
	}
	if c.RefreshHorizon == 0 {
		c.RefreshHorizon = DefaultRefreshHorizon
	}
	return c
}

// LoadClientSecret reads the OAuth client credentials downloaded from the Cloud console
func LoadClientSecret(path string, scopes ...string) (*oauth2.Config, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, distribution.NewError(distribution.ResourceNotFound, path, err)
		}
		return nil, fmt.Errorf("unable to read OAuth credentials file: %w", err)
	}

	// Parse the OAuth client credentials
	config, err := google.ConfigFromJSON(b, scopes...)
	if err != nil {
		return nil, distribution.NewError(distribution.AuthFailure, "parse "+path, err)
	}
	return config, nil
}

// Authorizer produces a usable token, from the cache or from an interactive browser flow
type Authorizer struct {
	config      *oauth2.Config
	store       TokenStore
	user        string
	port        int
	horizon     time.Duration
	newReceiver ReceiverFactory
	openBrowser func(url string) error
	output      io.Writer
	now         func() time.Time
}

// AuthorizerOption is a functional option for configuring Authorizer
type AuthorizerOption func(*Authorizer)

// WithReceiverFactory sets how the callback listener is acquired (for testing)
func WithReceiverFactory(f ReceiverFactory) AuthorizerOption {
	return func(a *Authorizer) {
		a.newReceiver = f
	}
}

// WithBrowserOpener sets how the consent URL is opened (for testing)
func WithBrowserOpener(open func(url string) error) AuthorizerOption {
	return func(a *Authorizer) {
		a.openBrowser = open
	}
}

// WithOutput sets where prompts are written
func WithOutput(w io.Writer) AuthorizerOption {
	return func(a *Authorizer) {
		if w != nil {
			a.output = w
		}
	}
}

// WithClock sets the time source used for the refresh check (for testing)
func WithClock(now func() time.Time) AuthorizerOption {
	return func(a *Authorizer) {
		a.now = now
	}
}

// NewAuthorizer creates an Authorizer for the given client config
func NewAuthorizer(config *oauth2.Config, store TokenStore, cfg OAuthConfig, opts ...AuthorizerOption) *Authorizer {
	cfg = cfg.withDefaults()
	a := &Authorizer{
		config:      config,
		store:       store,
		user:        cfg.User,
		port:        cfg.RedirectPort,
		horizon:     cfg.RefreshHorizon,
		newReceiver: NewLocalServerReceiver,
		openBrowser: openBrowser,
		output:      os.Stdout,
		now:         time.Now,
	}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// Authorize returns a token for the configured user.
// A cached token is reused; one within the refresh horizon is refreshed once.
// Without a cached token the user is sent through the browser consent flow.
func (a *Authorizer) Authorize(ctx context.Context) (*oauth2.Token, error) {
	token, err := a.store.Load(a.user)
	if err != nil {
		if !errors.Is(err, ErrTokenNotFound) {
			fmt.Fprintf(a.output, "Warning: ignoring cached token: %v\n", err)
		}
		token, err = a.authorizeInteractive(ctx)
		if err != nil {
			return nil, err
		}
	}

	if !a.needsRefresh(token) {
		return token, nil
	}

	if token.RefreshToken == "" {
		if token.Valid() {
			return token, nil
		}
		// Expired and nothing to refresh with
		return a.authorizeInteractive(ctx)
	}

	return a.refresh(ctx, token)
}

// HTTPClient returns an HTTP client authorized with the user's token
func (a *Authorizer) HTTPClient(ctx context.Context) (*http.Client, error) {
	token, err := a.Authorize(ctx)
	if err != nil {
		return nil, err
	}
	return a.config.Client(ctx, token), nil
}

// needsRefresh reports whether token expires within the refresh horizon
func (a *Authorizer) needsRefresh(token *oauth2.Token) bool {
	if token.Expiry.IsZero() {
		return false
	}
	return token.Expiry.Sub(a.now()) <= a.horizon
}

// refresh performs a single refresh-token exchange and caches the result
func (a *Authorizer) refresh(ctx context.Context, token *oauth2.Token) (*oauth2.Token, error) {
	// Drop the access token so the source cannot hand back the cached one
	src := a.config.TokenSource(ctx, &oauth2.Token{RefreshToken: token.RefreshToken})
	refreshed, err := src.Token()
	if err != nil {
		return nil, authError("refresh token", err)
	}

	if err := a.store.Save(a.user, refreshed); err != nil {
		fmt.Fprintf(a.output, "Warning: couldn't save token: %v\n", err)
	}
	return refreshed, nil
}

// authorizeInteractive initiates the OAuth flow via browser
func (a *Authorizer) authorizeInteractive(ctx context.Context) (*oauth2.Token, error) {
	receiver, err := a.newReceiver(a.port)
	if err != nil {
		return nil, distribution.NewError(distribution.AuthFailure, "start callback listener", err)
	}
	defer receiver.Close()

	// Copy so the shared config keeps no per-flow redirect
	conf := *a.config
	conf.RedirectURL = receiver.RedirectURL()

	state := uuid.NewString()
	authURL := conf.AuthCodeURL(state, oauth2.AccessTypeOffline, oauth2.ApprovalForce)

	fmt.Fprintln(a.output)
	fmt.Fprintln(a.output, "Opening browser for Google authentication...")
	fmt.Fprintln(a.output, "If the browser doesn't open, please visit this URL:")
	fmt.Fprintln(a.output)
	fmt.Fprintln(a.output, authURL)
	fmt.Fprintln(a.output)

	if err := a.openBrowser(authURL); err != nil {
		fmt.Fprintf(a.output, "Warning: couldn't open browser: %v\n", err)
	}

	code, err := receiver.WaitForCode(ctx, state)
	if err != nil {
		return nil, distribution.NewError(distribution.AuthFailure, "wait for authorization", err)
	}

	// Exchange code for token
	token, err := conf.Exchange(ctx, code)
	if err != nil {
		return nil, authError("exchange auth code", err)
	}

	// Save token for future use
	if err := a.store.Save(a.user, token); err != nil {
		fmt.Fprintf(a.output, "Warning: couldn't save token: %v\n", err)
	}

	fmt.Fprintln(a.output, "Authentication successful!")
	return token, nil
}

// authError classifies a token endpoint failure
func authError(op string, err error) error {
	if isSecurityError(err) {
		return distribution.NewError(distribution.SecurityFailure, op, err)
	}
	return distribution.NewError(distribution.AuthFailure, op, err)
}

// NewClientWithOAuth creates a new Google Drive client using OAuth 2.0
func NewClientWithOAuth(ctx context.Context, cfg OAuthConfig, applicationName string, output io.Writer, opts ...ClientOption) (*Client, error) {
	c := &Client{}

	for _, opt := range opts {
		opt(c)
	}

	// If no custom drive service was provided, create one with OAuth
	if c.driveService == nil {
		cfg = cfg.withDefaults()
		config, err := LoadClientSecret(cfg.CredentialsFile, cfg.Scopes...)
		if err != nil {
			return nil, err
		}

		authorizer := NewAuthorizer(config, NewFileTokenStore(cfg.TokenDirectory), cfg, WithOutput(output))
		httpClient, err := authorizer.HTTPClient(ctx)
		if err != nil {
			return nil, err
		}

		svc, err := newGoogleDriveService(ctx, httpClient, applicationName, c.serviceOptions...)
		if err != nil {
			return nil, err
		}
		c.driveService = svc
	}

	return c, nil
}
