// Package localfs stores self-description documents on the local filesystem.
//
// Documents live in a directory tree keyed by version:
//
//	<dir>/<releaseTag>/<commit>/selfdescribe.json
//	<dir>/<releaseTag>/<commit>/version.yaml
//
// Commits that are not tagged use "_" as the release tag. The optional
// version.yaml records the version metadata, including the release
// publication time.
//
// Cache implements driven.RawCache on that tree, DirSource implements
// driven.SourceStore by globbing it, and Watch reports changes to it.
package localfs
