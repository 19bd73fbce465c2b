package refresh

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/jrsteele09/go-jobportal-client/internal/errors"
	"github.com/jrsteele09/go-jobportal-client/token"
	"github.com/rs/zerolog"
	"golang.org/x/oauth2"
	"golang.org/x/sync/singleflight"
)

const (
	flightKey      = "refresh"
	defaultTimeout = 10 * time.Second
)

// Outcome labels a finished refresh attempt
type Outcome string

const (
	OutcomeSuccess Outcome = "success"
	OutcomeFailure Outcome = "failure"
	OutcomeSkipped Outcome = "skipped" // nothing to refresh with, or session replaced mid-flight
)

// Refresher exchanges a refresh token for a new pair. A nil error with an empty
// RefreshToken means the backend did not rotate it.
type Refresher interface {
	Refresh(ctx context.Context, refreshToken string) (*oauth2.Token, error)
}

// RefresherFunc adapts a function to Refresher
type RefresherFunc func(ctx context.Context, refreshToken string) (*oauth2.Token, error)

func (f RefresherFunc) Refresh(ctx context.Context, refreshToken string) (*oauth2.Token, error) {
	return f(ctx, refreshToken)
}

// LogoutFunc is told why the session ended
type LogoutFunc func(cause error)

// Coordinator makes sure at most one refresh call is in flight. Callers that arrive
// while a refresh is running join it and all observe the same result.
type Coordinator struct {
	store     *token.Store
	refresher Refresher
	group     singleflight.Group
	timeout   time.Duration
	logger    zerolog.Logger
	observe   func(Outcome)

	listenersMu sync.Mutex
	listeners   map[int]LogoutFunc
	nextID      int

	refreshes atomic.Int64
	logouts   atomic.Int64
}

type Option func(*Coordinator)

// WithTimeout bounds the refresh network call
func WithTimeout(timeout time.Duration) Option {
	return func(c *Coordinator) {
		if timeout > 0 {
			c.timeout = timeout
		}
	}
}

func WithLogger(logger zerolog.Logger) Option {
	return func(c *Coordinator) {
		c.logger = logger
	}
}

// WithObserver is called once per finished refresh attempt, e.g. to count outcomes
func WithObserver(observe func(Outcome)) Option {
	return func(c *Coordinator) {
		if observe != nil {
			c.observe = observe
		}
	}
}

func NewCoordinator(store *token.Store, refresher Refresher, options ...Option) *Coordinator {
	c := &Coordinator{
		store:     store,
		refresher: refresher,
		timeout:   defaultTimeout,
		logger:    zerolog.Nop(),
		observe:   func(Outcome) {},
		listeners: make(map[int]LogoutFunc),
	}
	for _, opt := range options {
		opt(c)
	}
	return c
}

// Refresh returns a usable token after staleAccessToken was rejected.
//
// If the store already holds a different valid access token, a refresh finished while the
// caller's request was in flight and that token is returned without a network call.
// Otherwise the caller joins the in-flight refresh or starts one. The refresh runs detached
// from ctx so one caller giving up does not fail the others; ctx only bounds the wait.
func (c *Coordinator) Refresh(ctx context.Context, staleAccessToken string) (*oauth2.Token, error) {
	if current := c.store.Token(); current != nil && current.AccessToken != staleAccessToken && current.Valid() {
		return current, nil
	}

	ch := c.group.DoChan(flightKey, func() (any, error) {
		return c.refresh(context.WithoutCancel(ctx))
	})

	select {
	case res := <-ch:
		if res.Err != nil {
			return nil, res.Err
		}
		return res.Val.(*oauth2.Token), nil
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

func (c *Coordinator) refresh(ctx context.Context) (*oauth2.Token, error) {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	current := c.store.Load()
	if current.RefreshToken == "" {
		c.observe(OutcomeSkipped)
		return nil, errors.ErrNoRefreshToken
	}

	c.refreshes.Add(1)
	fresh, err := c.refresher.Refresh(ctx, current.RefreshToken)
	if err == nil && (fresh == nil || fresh.AccessToken == "") {
		err = errors.Wrapf(errors.ErrRefreshFailed, "empty access token in refresh response")
	}
	if err != nil {
		return nil, c.fail(current.RefreshToken, err)
	}

	nextRefresh := fresh.RefreshToken
	if nextRefresh == "" {
		nextRefresh = current.RefreshToken
	}

	if !c.store.ReplaceTokens(current.RefreshToken, fresh.AccessToken, nextRefresh) {
		// logged out or logged in again while the call was out
		c.observe(OutcomeSkipped)
		if tok := c.store.Token(); tok != nil {
			return tok, nil
		}
		return nil, errors.ErrSessionExpired
	}

	c.logger.Debug().Msg("access token refreshed")
	c.observe(OutcomeSuccess)

	return &oauth2.Token{
		AccessToken:  fresh.AccessToken,
		RefreshToken: nextRefresh,
		TokenType:    "Bearer",
		Expiry:       token.ExpiryOf(fresh.AccessToken),
	}, nil
}

// fail ends the session: clear storage, tell listeners, then let waiters resolve.
func (c *Coordinator) fail(usedRefreshToken string, cause error) error {
	c.observe(OutcomeFailure)
	c.logger.Warn().Err(cause).Msg("token refresh failed, ending session")

	if c.store.ClearIf(usedRefreshToken) {
		c.logouts.Add(1)
		c.broadcastLogout(cause)
	}
	return fmt.Errorf("%w: %w", errors.ErrSessionExpired, cause)
}

// OnLogout registers fn to run when a failed refresh ends the session. The returned
// function unregisters it.
func (c *Coordinator) OnLogout(fn LogoutFunc) func() {
	c.listenersMu.Lock()
	defer c.listenersMu.Unlock()

	id := c.nextID
	c.nextID++
	c.listeners[id] = fn

	return func() {
		c.listenersMu.Lock()
		defer c.listenersMu.Unlock()
		delete(c.listeners, id)
	}
}

func (c *Coordinator) broadcastLogout(cause error) {
	c.listenersMu.Lock()
	listeners := make([]LogoutFunc, 0, len(c.listeners))
	for _, fn := range c.listeners {
		listeners = append(listeners, fn)
	}
	c.listenersMu.Unlock()

	for _, fn := range listeners {
		fn(cause)
	}
}

// Refreshes returns how many refresh network calls were made
func (c *Coordinator) Refreshes() int64 {
	return c.refreshes.Load()
}

// Logouts returns how many sessions were ended by a failed refresh
func (c *Coordinator) Logouts() int64 {
	return c.logouts.Load()
}
