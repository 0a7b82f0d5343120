// Package kms resolves identity provider signing keys and loads service secrets from Vault.
package kms

import (
	"context"
	"crypto/rsa"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/go-jose/go-jose/v4"
	"github.com/patrickmn/go-cache"
	"golang.org/x/sync/singleflight"
	"golang.org/x/time/rate"

	"github.com/turtacn/transgate/internal/domain/models"
	"github.com/turtacn/transgate/internal/domain/repository"
	"github.com/turtacn/transgate/internal/domain/service"
	"github.com/turtacn/transgate/pkg/constants"
	"github.com/turtacn/transgate/pkg/logger"
	"github.com/turtacn/transgate/pkg/utils"
)

var (
	// ErrKeyNotFound means the key set was fetched but has no usable key for the kid.
	ErrKeyNotFound = errors.New("signing key not found")
	// ErrUpstreamUnavailable means the discovery endpoint failed or returned malformed data.
	ErrUpstreamUnavailable = errors.New("key discovery endpoint unavailable")
	// ErrRateLimitExceeded means the outbound fetch budget is spent.
	ErrRateLimitExceeded = errors.New("key discovery rate limit exceeded")
)

const maxKeySetBytes = 1 << 20

var _ service.SigningKeyResolver = (*KeyFetcher)(nil)

// KeyFetcherOptions configures a KeyFetcher. Zero values take the defaults
// from the constants package.
type KeyFetcherOptions struct {
	AuthorityURL      string
	CacheTTL          time.Duration
	RequestsPerMinute int
	Timeout           time.Duration
	HTTPClient        *http.Client
	// Shared is an optional cross-replica cache consulted before fetching.
	Shared  repository.KeyRepository
	Metrics service.Metrics
	// Now is the clock used for key age checks.
	Now func() time.Time
}

func (o *KeyFetcherOptions) setDefaults() {
	if o.AuthorityURL == "" {
		o.AuthorityURL = constants.DefaultAuthorityURL
	}
	o.AuthorityURL = utils.TrimEndpoint(o.AuthorityURL)
	if o.CacheTTL <= 0 {
		o.CacheTTL = constants.SigningKeyCacheTTL
	}
	if o.RequestsPerMinute <= 0 {
		o.RequestsPerMinute = constants.KeyDiscoveryRequestsPerMinute
	}
	if o.Timeout <= 0 {
		o.Timeout = constants.KeyDiscoveryTimeout
	}
	if o.HTTPClient == nil {
		o.HTTPClient = &http.Client{}
	}
	if o.Metrics == nil {
		o.Metrics = service.NoopMetrics{}
	}
	if o.Now == nil {
		o.Now = time.Now
	}
}

// KeyFetcher resolves signing keys for one tenant from the identity
// provider's JWKS discovery endpoint.
//
// Lookups go L1 (in-process) → L2 (Redis, optional) → discovery endpoint.
// Discovery fetches are capped by a token bucket and concurrent misses for
// the same kid share one fetch.
type KeyFetcher struct {
	tenantID     string
	discoveryURL string
	opts         KeyFetcherOptions
	l1Cache      *cache.Cache
	limiter      *rate.Limiter
	sf           singleflight.Group
	log          logger.Logger
}

// NewKeyFetcher creates a KeyFetcher for tenantID.
func NewKeyFetcher(tenantID string, opts KeyFetcherOptions, log logger.Logger) (*KeyFetcher, error) {
	if tenantID == "" || url.PathEscape(tenantID) != tenantID {
		return nil, fmt.Errorf("invalid tenant identifier %q", tenantID)
	}
	opts.setDefaults()

	discoveryURL := fmt.Sprintf("%s/%s/discovery/v2.0/keys", opts.AuthorityURL, tenantID)
	if _, err := url.ParseRequestURI(discoveryURL); err != nil {
		return nil, fmt.Errorf("invalid discovery url: %w", err)
	}

	perKey := time.Minute / time.Duration(opts.RequestsPerMinute)
	return &KeyFetcher{
		tenantID:     tenantID,
		discoveryURL: discoveryURL,
		opts:         opts,
		l1Cache:      cache.New(opts.CacheTTL, 10*time.Minute),
		limiter:      rate.NewLimiter(rate.Every(perKey), opts.RequestsPerMinute),
		log:          log.WithFields(logger.Fields{"component": "key_fetcher", "tenant_id": tenantID}),
	}, nil
}

// DiscoveryURL returns the JWKS endpoint this fetcher reads from.
func (f *KeyFetcher) DiscoveryURL() string {
	return f.discoveryURL
}

// Resolve returns the public key for kid.
func (f *KeyFetcher) Resolve(ctx context.Context, kid string) (*rsa.PublicKey, error) {
	// L1 Cache (in-memory)
	if key, ok := f.fromL1(kid); ok {
		f.opts.Metrics.RecordCacheAccess("l1", true)
		return key.PublicKey, nil
	}
	f.opts.Metrics.RecordCacheAccess("l1", false)

	// Single Flight to prevent thundering herd. The shared load is detached so
	// one caller giving up does not fail the others.
	loadCtx := context.WithoutCancel(ctx)
	ch := f.sf.DoChan(kid, func() (interface{}, error) {
		return f.load(loadCtx, kid)
	})
	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	case res := <-ch:
		if res.Err != nil {
			return nil, res.Err
		}
		return res.Val.(*models.SigningKey).PublicKey, nil
	}
}

func (f *KeyFetcher) fromL1(kid string) (*models.SigningKey, bool) {
	v, ok := f.l1Cache.Get(kid)
	if !ok {
		return nil, false
	}
	key := v.(*models.SigningKey)
	if key.Expired(f.opts.Now(), f.opts.CacheTTL) {
		f.l1Cache.Delete(kid)
		return nil, false
	}
	return key, true
}

func (f *KeyFetcher) storeL1(key *models.SigningKey) {
	remaining := f.opts.CacheTTL - f.opts.Now().Sub(key.FetchedAt)
	if remaining <= 0 {
		return
	}
	f.l1Cache.Set(key.KeyID, key, remaining)
}

func (f *KeyFetcher) load(ctx context.Context, kid string) (*models.SigningKey, error) {
	// Another flight may have filled L1 while this one was queued.
	if key, ok := f.fromL1(kid); ok {
		return key, nil
	}

	// L2 Cache (Redis)
	if f.opts.Shared != nil {
		if key, ok := f.fromL2(ctx, kid); ok {
			f.storeL1(key)
			return key, nil
		}
	}

	// Discovery endpoint (source of truth)
	if !f.limiter.Allow() {
		f.opts.Metrics.RecordKeyFetch("rate_limited")
		f.log.Warn(ctx, "Signing key fetch rejected by rate limit", logger.Fields{"kid": kid})
		return nil, ErrRateLimitExceeded
	}

	keys, err := f.fetchKeySet(ctx)
	if err != nil {
		f.opts.Metrics.RecordKeyFetch("error")
		f.log.Warn(ctx, "Signing key fetch failed", logger.Fields{"kid": kid, "error": err.Error()})
		return nil, err
	}

	var found *models.SigningKey
	for _, key := range keys {
		f.storeL1(key)
		if key.KeyID == kid {
			found = key
		}
	}
	if f.opts.Shared != nil {
		if err := f.opts.Shared.SaveKeys(ctx, f.tenantID, keys, f.opts.CacheTTL); err != nil {
			f.log.Warn(ctx, "Failed to write shared key cache", logger.Fields{"error": err.Error()})
		}
	}

	if found == nil {
		f.opts.Metrics.RecordKeyFetch("not_found")
		f.log.Warn(ctx, "Signing key not published", logger.Fields{"kid": kid, "published": len(keys)})
		return nil, ErrKeyNotFound
	}
	f.opts.Metrics.RecordKeyFetch("success")
	f.log.Info(ctx, "Signing keys refreshed", logger.Fields{"kid": kid, "published": len(keys)})
	return found, nil
}

func (f *KeyFetcher) fromL2(ctx context.Context, kid string) (*models.SigningKey, bool) {
	key, err := f.opts.Shared.GetKeyByKID(ctx, f.tenantID, kid)
	if err != nil {
		if !errors.Is(err, repository.ErrKeyNotCached) {
			f.log.Warn(ctx, "Shared key cache lookup failed", logger.Fields{"kid": kid, "error": err.Error()})
		}
		f.opts.Metrics.RecordCacheAccess("l2", false)
		return nil, false
	}
	if key.Expired(f.opts.Now(), f.opts.CacheTTL) {
		f.opts.Metrics.RecordCacheAccess("l2", false)
		return nil, false
	}
	f.opts.Metrics.RecordCacheAccess("l2", true)
	return key, true
}

// fetchKeySet downloads and parses the whole key set. Only RSA signing keys
// with a kid are returned.
func (f *KeyFetcher) fetchKeySet(ctx context.Context) ([]*models.SigningKey, error) {
	ctx, cancel := context.WithTimeout(ctx, f.opts.Timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, f.discoveryURL, nil)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUpstreamUnavailable, err)
	}
	req.Header.Set("Accept", "application/json")

	start := time.Now()
	resp, err := f.opts.HTTPClient.Do(req)
	f.opts.Metrics.RecordUpstreamCall("jwks", time.Since(start), err)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUpstreamUnavailable, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("%w: unexpected status %d", ErrUpstreamUnavailable, resp.StatusCode)
	}

	var set jose.JSONWebKeySet
	if err := json.NewDecoder(io.LimitReader(resp.Body, maxKeySetBytes)).Decode(&set); err != nil {
		return nil, fmt.Errorf("%w: malformed key set: %v", ErrUpstreamUnavailable, err)
	}

	fetchedAt := f.opts.Now()
	keys := make([]*models.SigningKey, 0, len(set.Keys))
	for _, jwk := range set.Keys {
		if jwk.KeyID == "" || (jwk.Use != "" && jwk.Use != "sig") {
			continue
		}
		pub, ok := jwk.Key.(*rsa.PublicKey)
		if !ok {
			continue
		}
		keys = append(keys, &models.SigningKey{KeyID: jwk.KeyID, PublicKey: pub, FetchedAt: fetchedAt})
	}
	return keys, nil
}

//Personal.AI order the ending
