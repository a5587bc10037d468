package verify

import (
	"context"
	"fmt"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/open-rails/verikit/core"
	"github.com/open-rails/verikit/keycache"
	"github.com/open-rails/verikit/keyprovider"
)

// TokenVerifier decodes bearer tokens against a cached key set and, on
// failure, refreshes the set from the provider and retries exactly once.
//
// Safe for concurrent use. Concurrent failing callers race to refresh;
// the rate limit lets one fetch through per window and the rest retry
// against whatever key set that fetch installed.
type TokenVerifier struct {
	cache    *keycache.Cache
	policy   *keycache.Policy
	provider keyprovider.Provider
	decoder  PayloadDecoder
	log      logrus.FieldLogger
	now      func() time.Time
}

// Option configures a TokenVerifier.
type Option func(*TokenVerifier)

// WithLogger overrides the default logrus standard logger.
func WithLogger(log logrus.FieldLogger) Option {
	return func(v *TokenVerifier) { v.log = log }
}

// WithDecoder swaps the payload decoder (default: JWXDecoder).
func WithDecoder(d PayloadDecoder) Option {
	return func(v *TokenVerifier) { v.decoder = d }
}

// WithClock injects the time source, so tests can run on a fixed clock.
func WithClock(now func() time.Time) Option {
	return func(v *TokenVerifier) { v.now = now }
}

// New builds a TokenVerifier and eagerly performs an initial key fetch.
// The initial fetch is best effort: a failure is logged and the first
// decode call retries it through the normal refresh path.
func New(cfg core.VerifyConfig, provider keyprovider.Provider, opts ...Option) *TokenVerifier {
	cache := keycache.New()
	v := &TokenVerifier{
		cache:    cache,
		policy:   keycache.NewPolicy(cache, cfg.KeyTTL, cfg.RefreshMinInterval),
		provider: provider,
		decoder:  NewJWXDecoder(cfg),
		log:      logrus.StandardLogger(),
		now:      time.Now,
	}
	for _, opt := range opts {
		opt(v)
	}
	v.Refresh(context.Background())
	return v
}

// Decode validates the token and returns its claims unmodified.
//
// The cached key set is consulted first. If it is past its TTL the call
// fails with core.ErrKeyExpired before touching the token. Otherwise a
// failed decode triggers at most one rate-limited refresh from the
// provider followed by a single retry; any further failure surfaces as
// core.ErrInvalidToken. At most one provider fetch happens per call.
func (v *TokenVerifier) Decode(ctx context.Context, token string) (core.Claims, error) {
	now := v.now().UnixMilli()

	if v.policy.IsExpired(now) {
		return nil, core.ErrKeyExpired
	}

	var decodeErr error
	if keys, ok := v.cache.Get(); ok {
		claims, err := v.decoder.DecodePayload(ctx, token, keys)
		if err == nil {
			return claims, nil
		}
		decodeErr = err
	} else {
		decodeErr = fmt.Errorf("%w: no verification key cached", core.ErrInvalidToken)
	}

	if !v.refresh(ctx, now) {
		return nil, decodeErr
	}

	keys, ok := v.cache.Get()
	if !ok {
		return nil, decodeErr
	}
	return v.decoder.DecodePayload(ctx, token, keys)
}

// Refresh attempts a rate-limited key fetch at the current time and
// reports whether a new key set was installed. Exposed for schedulers
// that refresh proactively off the request path.
func (v *TokenVerifier) Refresh(ctx context.Context) bool {
	return v.refresh(ctx, v.now().UnixMilli())
}

// refresh gates the fetch on the policy, then installs the fetched set.
// Provider errors are swallowed here: a remote outage degrades to "token
// rejected" for the caller, never a crash. The rate-limit window advances
// only on success, so a failed fetch neither resets nor bypasses it.
func (v *TokenVerifier) refresh(ctx context.Context, now int64) bool {
	if !v.policy.IsRefreshAllowed(now) {
		v.log.WithField("now_ms", now).Debug("verikit: key refresh rate limited")
		return false
	}

	keys, err := v.provider.FetchKeys(ctx)
	if err != nil {
		v.log.WithError(err).Warn("verikit: key fetch failed")
		return false
	}
	if keys == nil || keys.Len() == 0 {
		v.log.Warn("verikit: key fetch returned no keys")
		return false
	}

	v.cache.Set(keys, now)
	return true
}
