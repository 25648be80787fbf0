// Package indexdoc holds the document handling shared by the index stores:
// JSON normalisation, field path accounting and query parsing.
package indexdoc
