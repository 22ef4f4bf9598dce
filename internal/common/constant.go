package common

const (
	// AuthorizationHeaderName carries the bearer access token on requests.
	AuthorizationHeaderName = "Authorization"

	// BearerScheme is the token type reported to clients and the scheme
	// announced in WWW-Authenticate challenges.
	BearerScheme = "Bearer"

	// TokenTypeBearer is the lower-case token_type label returned by login and refresh.
	TokenTypeBearer = "bearer"
)
