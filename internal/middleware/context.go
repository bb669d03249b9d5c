package middleware

// Context keys used to store authentication metadata.
const (
	ContextKeySubject   = "subject"
	ContextKeyService   = "service"
	ContextKeyScopes    = "scopes"
	ContextKeyClaims    = "claims"
	ContextKeyRequestID = "request_id"
)
