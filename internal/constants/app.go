package constants

// HTTP auth header parsing
const (
	AuthorizationHeader = "Authorization"
	BearerScheme        = "Bearer"
)

// Gin context keys set by the auth middleware
const (
	ContextUserIDKey  = "user_id"
	ContextTokenIDKey = "token_id"
)

// Token Settings
const (
	TokenByteLength = 32 // random bytes per issued bearer token
)
