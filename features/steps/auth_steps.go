//go:build integration

package steps

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"sync"
	"time"

	"drive-file-upload/domain/distribution"
	"drive-file-upload/infrastructure/drive"

	"github.com/cucumber/godog"
	"golang.org/x/oauth2"
)

// stubReceiver completes the consent flow without a browser
type stubReceiver struct {
	deny bool
}

func (s *stubReceiver) RedirectURL() string { return "http://127.0.0.1:8888/Callback" }

func (s *stubReceiver) WaitForCode(ctx context.Context, state string) (string, error) {
	if s.deny {
		return "", fmt.Errorf("authorization denied: access_denied")
	}
	return "auth-code", nil
}

func (s *stubReceiver) Close() error { return nil }

// authContext holds test state for auth scenarios
type authContext struct {
	tokenDir string
	store    *drive.FileTokenStore
	server   *httptest.Server
	now      time.Time
	receiver *stubReceiver
	consents int

	mu     sync.Mutex
	grants []string

	err error
}

// SharedAuthContext is reset before each scenario via Before hook
var SharedAuthContext *authContext

func getAuthContext() *authContext {
	return SharedAuthContext
}

func InitializeAuthScenario(ctx *godog.ScenarioContext) {
	ctx.Before(func(c context.Context, sc *godog.Scenario) (context.Context, error) {
		dir, err := os.MkdirTemp("", "drive-upload-tokens-*")
		if err != nil {
			return c, err
		}
		a := &authContext{
			tokenDir: dir,
			store:    drive.NewFileTokenStore(dir),
			now:      time.Now(),
			receiver: &stubReceiver{},
		}
		a.server = httptest.NewServer(http.HandlerFunc(a.handleToken))
		SharedAuthContext = a
		return c, nil
	})

	ctx.After(func(c context.Context, sc *godog.Scenario, err error) (context.Context, error) {
		if SharedAuthContext != nil {
			SharedAuthContext.server.Close()
			os.RemoveAll(SharedAuthContext.tokenDir)
		}
		SharedAuthContext = nil
		return c, nil
	})

	ctx.Step(`^no cached token$`, noCachedToken)
	ctx.Step(`^a cached token expiring in (\d+) hours$`, aCachedTokenExpiringInHours)
	ctx.Step(`^the user denies consent$`, theUserDeniesConsent)
	ctx.Step(`^I authorize$`, iAuthorize)
	ctx.Step(`^the browser consent flow should run once$`, theBrowserConsentFlowShouldRunOnce)
	ctx.Step(`^the browser consent flow should not run$`, theBrowserConsentFlowShouldNotRun)
	ctx.Step(`^no token exchange should happen$`, noTokenExchangeShouldHappen)
	ctx.Step(`^exactly (\d+) refresh exchanges? should happen$`, exactlyNRefreshExchangesShouldHappen)
	ctx.Step(`^a token should be cached$`, aTokenShouldBeCached)
	ctx.Step(`^no token should be cached$`, noTokenShouldBeCached)
	ctx.Step(`^I should receive an authorization error$`, iShouldReceiveAnAuthorizationError)
}

func (a *authContext) handleToken(w http.ResponseWriter, r *http.Request) {
	r.ParseForm()
	grant := r.PostForm.Get("grant_type")

	a.mu.Lock()
	a.grants = append(a.grants, grant)
	a.mu.Unlock()

	resp := map[string]interface{}{
		"access_token": grant + "-access",
		"token_type":   "Bearer",
		"expires_in":   3600,
	}
	if grant == "authorization_code" {
		resp["refresh_token"] = "issued-refresh"
	}
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(resp)
}

func (a *authContext) countGrants(grant string) int {
	a.mu.Lock()
	defer a.mu.Unlock()
	n := 0
	for _, g := range a.grants {
		if grant == "" || g == grant {
			n++
		}
	}
	return n
}

func noCachedToken() error {
	return nil
}

func aCachedTokenExpiringInHours(hours int) error {
	a := getAuthContext()
	return a.store.Save(drive.DefaultUser, &oauth2.Token{
		AccessToken:  "cached-access",
		TokenType:    "Bearer",
		RefreshToken: "cached-refresh",
		Expiry:       a.now.Add(time.Duration(hours) * time.Hour),
	})
}

func theUserDeniesConsent() error {
	getAuthContext().receiver.deny = true
	return nil
}

func iAuthorize() error {
	a := getAuthContext()

	config := &oauth2.Config{
		ClientID:     "client-id",
		ClientSecret: "client-secret",
		Scopes:       drive.DefaultScopes,
		Endpoint: oauth2.Endpoint{
			AuthURL:   a.server.URL + "/auth",
			TokenURL:  a.server.URL + "/token",
			AuthStyle: oauth2.AuthStyleInParams,
		},
	}

	authorizer := drive.NewAuthorizer(config, a.store, drive.OAuthConfig{TokenDirectory: a.tokenDir},
		drive.WithReceiverFactory(func(port int) (drive.Receiver, error) {
			a.consents++
			return a.receiver, nil
		}),
		drive.WithBrowserOpener(func(string) error { return nil }),
		drive.WithOutput(io.Discard),
		drive.WithClock(func() time.Time { return a.now }),
	)

	_, a.err = authorizer.Authorize(context.Background())
	return nil
}

func theBrowserConsentFlowShouldRunOnce() error {
	a := getAuthContext()
	if a.err != nil {
		return fmt.Errorf("expected authorization to succeed, got: %v", a.err)
	}
	if a.consents != 1 {
		return fmt.Errorf("expected 1 consent flow, got %d", a.consents)
	}
	return nil
}

func theBrowserConsentFlowShouldNotRun() error {
	a := getAuthContext()
	if a.err != nil {
		return fmt.Errorf("expected authorization to succeed, got: %v", a.err)
	}
	if a.consents != 0 {
		return fmt.Errorf("expected no consent flow, got %d", a.consents)
	}
	return nil
}

func noTokenExchangeShouldHappen() error {
	if n := getAuthContext().countGrants(""); n != 0 {
		return fmt.Errorf("expected no token exchanges, got %d", n)
	}
	return nil
}

func exactlyNRefreshExchangesShouldHappen(n int) error {
	a := getAuthContext()
	if got := a.countGrants("refresh_token"); got != n {
		return fmt.Errorf("expected %d refresh exchanges, got %d", n, got)
	}
	if got := a.countGrants("authorization_code"); got != 0 {
		return fmt.Errorf("expected no code exchange, got %d", got)
	}
	return nil
}

func aTokenShouldBeCached() error {
	a := getAuthContext()
	token, err := a.store.Load(drive.DefaultUser)
	if err != nil {
		return fmt.Errorf("expected cached token: %v", err)
	}
	if token.RefreshToken != "issued-refresh" {
		return fmt.Errorf("expected refresh token to be kept, got %q", token.RefreshToken)
	}
	return nil
}

func noTokenShouldBeCached() error {
	a := getAuthContext()
	if _, err := a.store.Load(drive.DefaultUser); !errors.Is(err, drive.ErrTokenNotFound) {
		return fmt.Errorf("expected no cached token, got: %v", err)
	}
	return nil
}

func iShouldReceiveAnAuthorizationError() error {
	a := getAuthContext()
	if !errors.Is(a.err, distribution.ErrAuthFailure) {
		return fmt.Errorf("expected authorization error, got: %v", a.err)
	}
	return nil
}
