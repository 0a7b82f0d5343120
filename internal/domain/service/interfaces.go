package service

import (
	"context"
	"crypto/rsa"

	"github.com/turtacn/transgate/internal/domain/models"
)

//go:generate mockery --name SigningKeyResolver --output mocks --outpkg mocks
// SigningKeyResolver maps a key identifier to the identity provider's public signing key,
// hiding network retrieval, caching and rate limiting.
// SigningKeyResolver 将密钥标识映射到身份提供方的公钥，屏蔽网络获取、缓存和限流细节。
type SigningKeyResolver interface {
	// Resolve returns the public key published under kid.
	// Resolve 返回以 kid 发布的公钥。
	Resolve(ctx context.Context, kid string) (*rsa.PublicKey, error)
}

//go:generate mockery --name ContentClassifier --output mocks --outpkg mocks
// ContentClassifier submits text to a content-safety service and returns raw per-category scores.
// ContentClassifier 将文本提交给内容安全服务并返回各类别的原始评分。
type ContentClassifier interface {
	// Analyze scores text against categories. A blocklist hit may short-circuit scoring.
	// Analyze 按类别对文本评分，命中黑名单时可提前终止评分。
	Analyze(ctx context.Context, text string, categories []models.HarmCategory) (*models.ClassifierResult, error)
}

//go:generate mockery --name Translator --output mocks --outpkg mocks
// Translator is the external translation operation.
// Translator 是外部翻译操作。
type Translator interface {
	// Translate translates text from sourceLang (empty for auto-detect) to targetLang.
	// Translate 将文本从 sourceLang（为空时自动检测）翻译为 targetLang。
	Translate(ctx context.Context, text, sourceLang, targetLang string) (string, error)
}

//go:generate mockery --name ModerationGate --output mocks --outpkg mocks
// ModerationGate classifies text and applies the configured reject thresholds.
// ModerationGate 对文本分类并应用配置的拒绝阈值。
type ModerationGate interface {
	// Screen returns the verdict for text. An error means moderation was unavailable, never "pass".
	// Screen 返回文本的审核结论；返回错误表示审核不可用，绝不视为通过。
	Screen(ctx context.Context, text string) (*models.ModerationVerdict, error)
}

//go:generate mockery --name TokenValidator --output mocks --outpkg mocks
// TokenValidator authenticates and authorizes a raw Authorization header value.
// TokenValidator 对原始 Authorization 头进行认证与授权。
type TokenValidator interface {
	// Validate runs the full header → principal pipeline.
	// Validate 执行从请求头到调用方身份的完整流程。
	Validate(ctx context.Context, authHeader string) (*models.Principal, error)
}

// SigningKeyResolverSource hands out the resolver for a tenant, building it on first use.
// SigningKeyResolverSource 按租户提供密钥解析器，首次使用时构建。
type SigningKeyResolverSource interface {
	ResolverFor(tenantID string) (SigningKeyResolver, error)
}

// IdentitySource supplies the tenant and client the validator checks tokens against.
type IdentitySource interface {
	TenantAndClient() (tenantID, clientID string)
}

//Personal.AI order the ending
