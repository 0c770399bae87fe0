// Package core implements the OAuth2 storage engine: cached read-through
// lookups for clients, public keys and access tokens backed by a relational
// store, in-memory authorization codes, and a bearer token issuer.
//
// The token store owns the cache entries it creates. Every mutation path
// invalidates the corresponding cache key before the persistent write, so a
// concurrent reader can never observe a cache hit for a token whose
// expiration has already committed. Cache failures degrade to direct store
// reads; the cache is a performance layer, never a correctness dependency.
package core
