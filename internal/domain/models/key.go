package models

import (
	"crypto/rsa"
	"time"
)

// SigningKey is an identity provider public key cached by key ID.
// Keys are immutable once fetched; only their cache lifetime changes.
// SigningKey 是按密钥 ID 缓存的身份提供方公钥，获取后不可变。
type SigningKey struct {
	// KeyID is the "kid" the provider publishes the key under.
	// KeyID 是提供方发布该密钥时使用的 "kid"。
	KeyID string
	// PublicKey is the RSA verification key.
	// PublicKey 是用于验签的 RSA 公钥。
	PublicKey *rsa.PublicKey
	// FetchedAt is when the key set containing this key was retrieved.
	// FetchedAt 是包含该密钥的密钥集被获取的时间。
	FetchedAt time.Time
}

// Expired reports whether the key is older than ttl at now.
func (k *SigningKey) Expired(now time.Time, ttl time.Duration) bool {
	return now.Sub(k.FetchedAt) >= ttl
}

//Personal.AI order the ending
