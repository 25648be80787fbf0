package github

import (
	"fmt"
	"os"
	"strings"
)

const (
	// DefaultRepo is the repository indexed when none is configured.
	DefaultRepo = "signalfx/signalfx-agent"

	// DefaultBranch is the branch whose head is always indexed.
	DefaultBranch = "master"

	// TokenEnvVar names the environment variable holding a Personal Access Token.
	TokenEnvVar = "GITHUB_PERSONAL_ACCESS_TOKEN"
)

// Config holds the repository a Store reads from.
type Config struct {
	Owner  string
	Repo   string
	Branch string
}

// ParseConfig parses an owner/name repository and a branch. Empty values
// fall back to DefaultRepo and DefaultBranch.
func ParseConfig(repo, branch string) (*Config, error) {
	repo = strings.TrimSpace(repo)
	if repo == "" {
		repo = DefaultRepo
	}
	owner, name, ok := strings.Cut(repo, "/")
	if !ok || owner == "" || name == "" || strings.Contains(name, "/") {
		return nil, fmt.Errorf("%w: %q", ErrInvalidRepo, repo)
	}

	branch = strings.TrimSpace(branch)
	if branch == "" {
		branch = DefaultBranch
	}

	return &Config{Owner: owner, Repo: name, Branch: branch}, nil
}

// FullName returns owner/name.
func (c *Config) FullName() string {
	return c.Owner + "/" + c.Repo
}

// EnvTokenProvider returns a token provider for token, falling back to
// TokenEnvVar when token is empty.
func EnvTokenProvider(token string) StaticTokenProvider {
	if token == "" {
		token = os.Getenv(TokenEnvVar)
	}
	return StaticTokenProvider(token)
}

// StaticTokenProvider is a fixed Personal Access Token. The empty token
// means anonymous access.
type StaticTokenProvider string
