// Package github serves self-description documents from a GitHub repository.
//
// The store treats every interesting commit of the repository as a version:
// the head of the tracked branch plus the commit of every tag that names a
// published release. For each version it fetches selfdescribe.json from the
// repository root through the contents and git blob APIs.
//
// # Architecture
//
// The package implements [driven.SourceStore] with the following components:
//
//   - Store: enumerates versions and fetches documents
//   - Client: handles GitHub API communication with rate limiting
//   - Config: parses the repository, branch and token settings
//
// # Authentication
//
// A Personal Access Token is read from configuration or from the
// GITHUB_PERSONAL_ACCESS_TOKEN environment variable. Without a token the
// store runs anonymously, which GitHub limits to 60 requests per hour.
// Authenticated clients get 5,000 requests per hour.
//
// # Rate Limiting
//
// The client implements a dual-strategy rate limiting approach:
//
//  1. Proactive throttling: a token bucket algorithm limits requests to
//     approximately 1.2 requests per second.
//
//  2. Reactive handling: the client monitors X-RateLimit-Remaining and
//     X-RateLimit-Reset headers. When limits are exhausted, it waits until
//     the reset time before continuing.
//
// # Versions
//
// Commits that carry no tag get the release tag "_". When the branch head
// is itself a release commit it is reported once, with its tag.
//
// # Example Usage
//
//	cfg, _ := github.ParseConfig("signalfx/signalfx-agent", "master")
//	store := github.NewStore(cfg, github.NewClient(github.EnvTokenProvider(token)))
//
//	versions, err := store.Versions(ctx)
//	doc, err := store.Fetch(ctx, versions[0])
package github
