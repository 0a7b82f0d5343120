package redis

import (
	"context"
	"crypto/x509"
	"encoding/json"
	"encoding/pem"
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/redis/go-redis/v9"

	"github.com/turtacn/transgate/internal/domain/models"
	"github.com/turtacn/transgate/internal/domain/repository"
	"github.com/turtacn/transgate/pkg/logger"
)

var _ repository.KeyRepository = (*KeyCache)(nil)

// KeyCache shares fetched signing keys between replicas so a fleet restart
// does not spend every replica's discovery budget.
type KeyCache struct {
	client redis.UniversalClient
	prefix string
	log    logger.Logger
}

type cachedKey struct {
	PEM       string    `json:"pem"`
	FetchedAt time.Time `json:"fetched_at"`
}

// NewKeyCache creates a KeyCache storing entries under prefix.
func NewKeyCache(client redis.UniversalClient, prefix string, log logger.Logger) *KeyCache {
	return &KeyCache{client: client, prefix: prefix, log: log}
}

func (c *KeyCache) cacheKey(tenantID, kid string) string {
	return fmt.Sprintf("%s%s:%s", c.prefix, tenantID, kid)
}

// GetKeyByKID returns repository.ErrKeyNotCached on a miss.
func (c *KeyCache) GetKeyByKID(ctx context.Context, tenantID, kid string) (*models.SigningKey, error) {
	val, err := c.client.Get(ctx, c.cacheKey(tenantID, kid)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, repository.ErrKeyNotCached
		}
		return nil, fmt.Errorf("redis get failed: %w", err)
	}

	var entry cachedKey
	if err := json.Unmarshal(val, &entry); err != nil {
		return nil, fmt.Errorf("corrupt cached key %s: %w", kid, err)
	}
	pub, err := jwt.ParseRSAPublicKeyFromPEM([]byte(entry.PEM))
	if err != nil {
		return nil, fmt.Errorf("corrupt cached key %s: %w", kid, err)
	}
	return &models.SigningKey{KeyID: kid, PublicKey: pub, FetchedAt: entry.FetchedAt}, nil
}

// SaveKeys stores every key for ttl.
func (c *KeyCache) SaveKeys(ctx context.Context, tenantID string, keys []*models.SigningKey, ttl time.Duration) error {
	if len(keys) == 0 || ttl <= 0 {
		return nil
	}
	pipe := c.client.Pipeline()
	for _, key := range keys {
		der, err := x509.MarshalPKIXPublicKey(key.PublicKey)
		if err != nil {
			return fmt.Errorf("encode key %s: %w", key.KeyID, err)
		}
		payload, err := json.Marshal(cachedKey{
			PEM:       string(pem.EncodeToMemory(&pem.Block{Type: "PUBLIC KEY", Bytes: der})),
			FetchedAt: key.FetchedAt,
		})
		if err != nil {
			return err
		}
		pipe.Set(ctx, c.cacheKey(tenantID, key.KeyID), payload, ttl)
	}
	if _, err := pipe.Exec(ctx); err != nil {
		c.log.Warn(ctx, "Failed to share signing keys", logger.Fields{"tenant_id": tenantID, "error": err.Error()})
		return fmt.Errorf("redis pipeline failed: %w", err)
	}
	return nil
}

//Personal.AI order the ending
