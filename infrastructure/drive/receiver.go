package drive

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"sync"
	"time"
)

// CallbackPath is the path the provider redirects back to
const CallbackPath = "/Callback"

// ErrStateMismatch is returned when the callback state does not match the request
var ErrStateMismatch = errors.New("state parameter mismatch")

// Receiver accepts the authorization code redirected back by the provider
type Receiver interface {
	// RedirectURL is the URL registered as redirect_uri for this flow
	RedirectURL() string
	// WaitForCode blocks until the callback arrives or ctx is done
	WaitForCode(ctx context.Context, state string) (string, error)
	// Close releases the listener; safe to call more than once
	Close() error
}

// ReceiverFactory acquires a Receiver listening on port
type ReceiverFactory func(port int) (Receiver, error)

type callbackResult struct {
	code  string
	state string
	err   error
}

// LocalServerReceiver serves the OAuth callback on a loopback port
type LocalServerReceiver struct {
	listener net.Listener
	server   *http.Server
	results  chan callbackResult
	serveErr chan error

	closeOnce sync.Once
	closeErr  error
}

// NewLocalServerReceiver starts listening on 127.0.0.1:port (0 picks a free port)
func NewLocalServerReceiver(port int) (Receiver, error) {
	ln, err := net.Listen("tcp", fmt.Sprintf("127.0.0.1:%d", port))
	if err != nil {
		return nil, fmt.Errorf("unable to listen for OAuth callback on port %d: %w", port, err)
	}

	r := &LocalServerReceiver{
		listener: ln,
		results:  make(chan callbackResult, 1),
		serveErr: make(chan error, 1),
	}

	mux := http.NewServeMux()
	mux.HandleFunc(CallbackPath, r.handleCallback)
	r.server = &http.Server{
		Handler:           mux,
		ReadHeaderTimeout: 10 * time.Second,
	}

	// Start server in background
	go func() {
		if err := r.server.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			r.serveErr <- err
		}
	}()

	return r, nil
}

// RedirectURL implements Receiver
func (r *LocalServerReceiver) RedirectURL() string {
	port := r.listener.Addr().(*net.TCPAddr).Port
	return fmt.Sprintf("http://127.0.0.1:%d%s", port, CallbackPath)
}

func (r *LocalServerReceiver) handleCallback(w http.ResponseWriter, req *http.Request) {
	q := req.URL.Query()

	var result callbackResult
	switch {
	case q.Get("error") != "":
		result.err = fmt.Errorf("authorization denied: %s", q.Get("error"))
	case q.Get("code") == "":
		result.err = fmt.Errorf("no code in callback")
	default:
		result.code = q.Get("code")
		result.state = q.Get("state")
	}

	// Only the first callback counts
	select {
	case r.results <- result:
	default:
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if result.err != nil {
		w.WriteHeader(http.StatusBadRequest)
		fmt.Fprintf(w, "<html><body><h1>Authorization failed</h1><p>%s</p></body></html>", result.err)
		return
	}
	fmt.Fprintf(w, "<html><body><h1>Authorization successful!</h1><p>You can close this window and return to the terminal.</p></body></html>")
}

// WaitForCode implements Receiver
func (r *LocalServerReceiver) WaitForCode(ctx context.Context, state string) (string, error) {
	select {
	case res := <-r.results:
		if res.err != nil {
			return "", res.err
		}
		if res.state != state {
			return "", ErrStateMismatch
		}
		return res.code, nil
	case err := <-r.serveErr:
		return "", err
	case <-ctx.Done():
		return "", ctx.Err()
	}
}

// Close implements Receiver
func (r *LocalServerReceiver) Close() error {
	r.closeOnce.Do(func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		r.closeErr = r.server.Shutdown(ctx)

		// Serve may not have picked up the listener yet; the port must be free on return
		if err := r.listener.Close(); err != nil && !errors.Is(err, net.ErrClosed) && r.closeErr == nil {
			r.closeErr = err
		}
	})
	return r.closeErr
}

// Ensure LocalServerReceiver implements Receiver
var _ Receiver = (*LocalServerReceiver)(nil)
