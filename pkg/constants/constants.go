// Package constants defines system-wide constants for the transgate service.
// This package provides type-safe constant definitions used across all modules.
package constants

import "time"

// ================================================================================
// Error Code Constants
// ================================================================================

// ErrorCode is a machine-readable error classification
type ErrorCode string

const (
	// ErrCodeAuthFormat covers a missing/malformed bearer header or an undecodable token
	ErrCodeAuthFormat ErrorCode = "auth_format"

	// ErrCodeAuthVerification covers signature, issuer, audience, algorithm or expiry mismatches
	ErrCodeAuthVerification ErrorCode = "auth_verification"

	// ErrCodeAuthScope covers a verified token lacking the required scope
	ErrCodeAuthScope ErrorCode = "auth_scope"

	// ErrCodeKeyInfrastructure covers signing key discovery failures
	ErrCodeKeyInfrastructure ErrorCode = "key_infrastructure"

	// ErrCodeServerConfiguration covers missing tenant/client identity
	ErrCodeServerConfiguration ErrorCode = "server_configuration"

	// ErrCodeAuthClientInit covers failures building the signing key resolver
	ErrCodeAuthClientInit ErrorCode = "auth_client_init"

	// ErrCodeModerationRejected is the expected negative outcome of the moderation gate
	ErrCodeModerationRejected ErrorCode = "moderation_rejected"

	// ErrCodeModerationUnavailable covers content-safety classifier failures
	ErrCodeModerationUnavailable ErrorCode = "moderation_unavailable"

	// ErrCodeTranslationUnavailable covers translator failures
	ErrCodeTranslationUnavailable ErrorCode = "translation_unavailable"

	// ErrCodeInvalidRequest covers malformed request bodies
	ErrCodeInvalidRequest ErrorCode = "invalid_request"

	// ErrCodeInternal covers everything else
	ErrCodeInternal ErrorCode = "internal_error"
)

// ================================================================================
// Public Error Messages
// ================================================================================

const (
	MsgUnauthorized            = "Unauthorized"
	MsgInvalidTokenFormat      = "Invalid token format"
	MsgInsufficientPermissions = "Insufficient permissions"
	MsgServerConfiguration     = "Server configuration error"
	MsgAuthClientInit          = "Failed to initialize authentication client"
	MsgFailedToValidateToken   = "Failed to validate token"
	MsgTranslationFailed       = "Translation failed"
	MsgInternalServerError     = "Internal server error"
	MsgContentSafetyWarning    = "Content Safety Warning"
	MsgInvalidRequest          = "Invalid request"
	MsgHealthy                 = "Server is healthy"
)

// ================================================================================
// Authentication Constants
// ================================================================================

const (
	// RequiredScope is the delegated scope every caller must hold
	RequiredScope = "access_as_user"

	// AudiencePrefix is prepended to the client ID to form the expected audience
	AudiencePrefix = "api://"

	// DefaultAuthorityURL is the identity provider host used for discovery and issuer pinning
	DefaultAuthorityURL = "https://login.microsoftonline.com"

	// LegacyIssuerURL is the issuer host of v1.0 access tokens
	LegacyIssuerURL = "https://sts.windows.net"

	// SigningKeyCacheTTL is how long a fetched signing key stays usable (24 hours)
	SigningKeyCacheTTL = 24 * time.Hour

	// KeyDiscoveryRequestsPerMinute caps outbound JWKS fetches
	KeyDiscoveryRequestsPerMinute = 10

	// KeyDiscoveryTimeout bounds a single JWKS fetch
	KeyDiscoveryTimeout = 10 * time.Second

	// HeaderAuthorization is the header carrying the bearer token
	HeaderAuthorization = "Authorization"

	// BearerScheme is the only accepted authorization scheme
	BearerScheme = "Bearer"
)

// ================================================================================
// Moderation Constants
// ================================================================================

const (
	// DefaultRejectThreshold applies to every category unless configured otherwise
	DefaultRejectThreshold = 2

	// ContentSafetyAPIVersion is the text:analyze API version
	ContentSafetyAPIVersion = "2024-09-01"

	// ContentSafetyOutputType requests the 0/2/4/6 severity scale
	ContentSafetyOutputType = "FourSeverityLevels"

	// TranslatorAPIVersion is the translator REST API version
	TranslatorAPIVersion = "3.0"

	// HeaderSubscriptionKey carries the Cognitive Services key
	HeaderSubscriptionKey = "Ocp-Apim-Subscription-Key"

	// HeaderSubscriptionRegion carries the Cognitive Services region
	HeaderSubscriptionRegion = "Ocp-Apim-Subscription-Region"

	// DefaultUpstreamTimeout bounds moderation and translation calls
	DefaultUpstreamTimeout = 15 * time.Second
)

// ModerationStage names which side of the translation a verdict belongs to
type ModerationStage string

const (
	StageSource     ModerationStage = "source"
	StageTranslated ModerationStage = "translated"
)

// ================================================================================
// Context Keys
// ================================================================================

// ContextKey is the type for request-scoped context keys
type ContextKey string

const (
	ContextKeyRequestID ContextKey = "request_id"
	ContextKeyTraceID   ContextKey = "trace_id"
	ContextKeyPrincipal ContextKey = "principal"
	ContextKeyLogger    ContextKey = "logger"
)

// ================================================================================
// Environment
// ================================================================================

const (
	EnvironmentDevelopment = "development"
	EnvironmentProduction  = "production"
)

//Personal.AI order the ending
