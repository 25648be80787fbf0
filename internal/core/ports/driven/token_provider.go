package driven

import "context"

// TokenProvider supplies the access token for an authenticated API.
type TokenProvider interface {
	// GetToken returns the access token. An empty token means anonymous access.
	GetToken(ctx context.Context) (string, error)
}
