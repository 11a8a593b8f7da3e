package auth

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"golang.org/x/oauth2"
	"golang.org/x/sync/singleflight"

	"github.com/sevigo/snippet-engine/internal/metrics"
)

// DefaultSafetyMargin is how long before expiry a cached token is replaced.
const DefaultSafetyMargin = 30 * time.Second

// Clock supplies the current time.
type Clock interface {
	Now() time.Time
}

type systemClock struct{}

func (systemClock) Now() time.Time { return time.Now() }

// SystemClock is the wall clock.
var SystemClock Clock = systemClock{}

type cachedToken struct {
	token     *oauth2.Token
	refreshAt time.Time
}

// CredentialCache hands out a shared access token and refreshes it at most
// once per expiry, however many callers are waiting. It never returns a token
// past its refresh point.
type CredentialCache struct {
	issuer  Issuer
	clock   Clock
	margin  time.Duration
	metrics *metrics.Metrics
	logger  *slog.Logger

	mu      sync.RWMutex
	current *cachedToken
	group   singleflight.Group
}

// NewCredentialCache creates a cache over issuer. A zero margin uses
// DefaultSafetyMargin; a nil clock uses SystemClock.
func NewCredentialCache(issuer Issuer, clock Clock, margin time.Duration, m *metrics.Metrics, logger *slog.Logger) *CredentialCache {
	if clock == nil {
		clock = SystemClock
	}
	if margin <= 0 {
		margin = DefaultSafetyMargin
	}
	return &CredentialCache{
		issuer:  issuer,
		clock:   clock,
		margin:  margin,
		metrics: m,
		logger:  logger,
	}
}

// GetToken returns a valid access token, fetching a new one when needed.
func (c *CredentialCache) GetToken(ctx context.Context) (string, error) {
	tok, err := c.token(ctx)
	if err != nil {
		return "", err
	}
	return tok.AccessToken, nil
}

// Token implements oauth2.TokenSource.
func (c *CredentialCache) Token() (*oauth2.Token, error) {
	return c.token(context.Background())
}

func (c *CredentialCache) token(ctx context.Context) (*oauth2.Token, error) {
	if tok := c.valid(); tok != nil {
		return tok, nil
	}

	ch := c.group.DoChan("token", func() (any, error) {
		if tok := c.valid(); tok != nil {
			return tok, nil
		}
		return c.refresh(context.WithoutCancel(ctx))
	})

	select {
	case res := <-ch:
		if res.Err != nil {
			return nil, res.Err
		}
		return res.Val.(*oauth2.Token), nil
	case <-ctx.Done():
		return nil, fmt.Errorf("%w: %w", ErrCredential, ctx.Err())
	}
}

func (c *CredentialCache) valid() *oauth2.Token {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if c.current == nil || !c.clock.Now().Before(c.current.refreshAt) {
		return nil
	}
	return c.current.token
}

func (c *CredentialCache) refresh(ctx context.Context) (*oauth2.Token, error) {
	issuedAt := c.clock.Now()
	tok, err := c.issuer.IssueToken(ctx)
	if err == nil {
		err = checkToken(tok, issuedAt)
	}
	if err != nil {
		c.metrics.RecordTokenRefresh(false)
		c.mu.Lock()
		c.current = nil
		c.mu.Unlock()
		return nil, fmt.Errorf("%w: %w", ErrCredential, err)
	}

	// Short-lived tokens keep at least half their lifetime usable.
	margin := min(c.margin, tok.Expiry.Sub(issuedAt)/2)
	entry := &cachedToken{token: tok, refreshAt: tok.Expiry.Add(-margin)}

	c.mu.Lock()
	c.current = entry
	c.mu.Unlock()

	c.metrics.RecordTokenRefresh(true)
	if c.logger != nil {
		c.logger.Debug("access token refreshed", "expires_at", tok.Expiry, "refresh_at", entry.refreshAt)
	}
	return tok, nil
}

func checkToken(tok *oauth2.Token, now time.Time) error {
	switch {
	case tok == nil || tok.AccessToken == "":
		return fmt.Errorf("issuer returned an empty access token")
	case tok.Expiry.IsZero():
		return fmt.Errorf("issuer returned a token without expiry")
	case !tok.Expiry.After(now):
		return fmt.Errorf("issuer returned an expired token")
	default:
		return nil
	}
}
