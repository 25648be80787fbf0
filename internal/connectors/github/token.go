package github

import (
	"context"

	"github.com/custodia-labs/sdindex/internal/core/ports/driven"
)

// Ensure StaticTokenProvider implements the TokenProvider interface.
var _ driven.TokenProvider = StaticTokenProvider("")

// GetToken returns the token. PATs don't expire, so no refresh logic is needed.
func (p StaticTokenProvider) GetToken(_ context.Context) (string, error) {
	return string(p), nil
}
