package repository

import (
	"context"
	"errors"
	"time"

	"github.com/turtacn/transgate/internal/domain/models"
)

// ErrKeyNotCached is returned by a KeyRepository lookup that misses.
var ErrKeyNotCached = errors.New("signing key not cached")

// KeyRepository defines the interface for a shared signing key cache.
// Entries are keyed by tenant and kid and expire after the given ttl.
type KeyRepository interface {
	GetKeyByKID(ctx context.Context, tenantID, kid string) (*models.SigningKey, error)
	SaveKeys(ctx context.Context, tenantID string, keys []*models.SigningKey, ttl time.Duration) error
}

//Personal.AI order the ending
