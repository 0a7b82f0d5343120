package kms

import (
	"fmt"
	"sync"

	"github.com/turtacn/transgate/internal/domain/service"
	"github.com/turtacn/transgate/pkg/logger"
)

var _ service.SigningKeyResolverSource = (*ResolverProvider)(nil)

// ResolverProvider builds the process's KeyFetcher on first use.
// The process serves a single tenant; asking for another one later fails.
type ResolverProvider struct {
	opts KeyFetcherOptions
	log  logger.Logger

	mu       sync.Mutex
	tenantID string
	fetcher  *KeyFetcher
}

// NewResolverProvider creates a ResolverProvider.
func NewResolverProvider(opts KeyFetcherOptions, log logger.Logger) *ResolverProvider {
	return &ResolverProvider{opts: opts, log: log}
}

// ResolverFor returns the KeyFetcher for tenantID, creating it once.
func (p *ResolverProvider) ResolverFor(tenantID string) (service.SigningKeyResolver, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.fetcher != nil {
		if p.tenantID != tenantID {
			return nil, fmt.Errorf("resolver already initialized for tenant %q", p.tenantID)
		}
		return p.fetcher, nil
	}

	fetcher, err := NewKeyFetcher(tenantID, p.opts, p.log)
	if err != nil {
		return nil, err
	}
	p.tenantID = tenantID
	p.fetcher = fetcher
	return fetcher, nil
}

//Personal.AI order the ending
