package github

import (
	"context"
	"fmt"
	"time"

	"github.com/custodia-labs/sdindex/internal/core/domain"
	"github.com/custodia-labs/sdindex/internal/core/ports/driven"
	"github.com/custodia-labs/sdindex/internal/logger"
)

// DocumentName is the self-description file at the repository root.
const DocumentName = "selfdescribe.json"

// Ensure Store implements the interface.
var _ driven.SourceStore = (*Store)(nil)

// Store reads self-description documents from a GitHub repository.
type Store struct {
	cfg    *Config
	client *Client
}

// NewStore creates a store for the configured repository.
func NewStore(cfg *Config, client *Client) *Store {
	return &Store{cfg: cfg, client: client}
}

// Config returns the repository configuration.
func (s *Store) Config() *Config {
	return s.cfg
}

// Versions returns the branch head followed by every release commit in
// tag listing order. Each commit appears once.
func (s *Store) Versions(ctx context.Context) ([]domain.Version, error) {
	owner, repo := s.cfg.Owner, s.cfg.Repo

	branch, err := s.client.GetBranch(ctx, owner, repo, s.cfg.Branch)
	if err != nil {
		return nil, err
	}
	headSHA := branch.GetCommit().GetSHA()

	releases, err := s.client.ListReleases(ctx, owner, repo)
	if err != nil {
		return nil, err
	}
	published := make(map[string]time.Time, len(releases))
	for _, r := range releases {
		if r.GetDraft() {
			continue
		}
		published[r.GetTagName()] = r.GetPublishedAt().Time
	}

	tags, err := s.client.ListTags(ctx, owner, repo)
	if err != nil {
		return nil, err
	}

	// Any tag names a commit; release tags win over plain tags.
	tagBySHA := make(map[string]string, len(tags))
	var releaseVersions []domain.Version
	for _, t := range tags {
		sha := t.GetCommit().GetSHA()
		name := t.GetName()
		at, isRelease := published[name]
		if _, seen := tagBySHA[sha]; !seen || isRelease {
			tagBySHA[sha] = name
		}
		if isRelease {
			releaseVersions = append(releaseVersions, domain.Version{
				Commit:      sha,
				ReleaseTag:  name,
				PublishedAt: at,
			})
		}
	}

	head := domain.Version{Commit: headSHA, ReleaseTag: domain.UntaggedRelease}
	if name, ok := tagBySHA[headSHA]; ok {
		head.ReleaseTag = name
		head.PublishedAt = published[name]
	}

	versions := []domain.Version{head}
	seen := map[string]bool{headSHA: true}
	for _, v := range releaseVersions {
		if seen[v.Commit] {
			continue
		}
		seen[v.Commit] = true
		versions = append(versions, v)
	}

	logger.Debug("%s: %d versions (%s head %s, %d releases)",
		s.cfg.FullName(), len(versions), s.cfg.Branch, headSHA, len(published))
	return versions, nil
}

// Fetch downloads selfdescribe.json at the version commit. A commit
// without the file, or an unknown commit, yields domain.ErrNotFound.
func (s *Store) Fetch(ctx context.Context, v domain.Version) (domain.SelfDescribe, error) {
	owner, repo := s.cfg.Owner, s.cfg.Repo

	entries, err := s.client.ListDirectory(ctx, owner, repo, "", v.Commit)
	if err != nil {
		if IsNotFound(err) {
			return nil, fmt.Errorf("%s at %s: %w", s.cfg.FullName(), v, domain.ErrNotFound)
		}
		return nil, err
	}

	var blobSHA string
	for _, e := range entries {
		if e.GetType() == "file" && e.GetName() == DocumentName {
			blobSHA = e.GetSHA()
			break
		}
	}
	if blobSHA == "" {
		return nil, fmt.Errorf("%s in %s: %w", DocumentName, v, domain.ErrNotFound)
	}

	data, err := s.client.BlobContent(ctx, owner, repo, blobSHA)
	if err != nil {
		return nil, fmt.Errorf("download %s for %s: %w", DocumentName, v, err)
	}

	doc, err := domain.DecodeSelfDescribe(data)
	if err != nil {
		return nil, fmt.Errorf("decode %s for %s: %w", DocumentName, v, err)
	}
	return doc, nil
}
