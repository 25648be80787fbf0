// Package driven defines the interfaces that core calls OUT to infrastructure.
//
// These are the "driven" or "secondary" ports in hexagonal architecture.
// Core services depend on these interfaces, and infrastructure adapters
// implement them.
//
// # Required Interfaces
//
//   - SourceStore: Enumerates versions and fetches raw self-descriptions
//   - IndexWriter: Recreates indices and loads flat documents
//   - ConfigStore: Application configuration
//
// # Optional Interfaces
//
// These can be nil - the application degrades gracefully:
//
//   - RawCache: Local copy of fetched documents. Without it every rebuild
//     downloads every version again.
//   - IndexReader: Read access for search. Without it search is disabled.
//   - TokenProvider: Credentials for the GitHub source. Without it requests
//     are anonymous.
//
// # Import Rules
//
//   - Can Import: domain package only
//   - Cannot Import: Any adapter or connector package
package driven
