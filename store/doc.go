/*
Package store provides the handler registry: an insertion-ordered collection of entries with a lookup cache.

Lookups are made with a needle, either the "all" query ([Store.All]) or a pattern string ([Store.Match]).
The first lookup for a needle filters the entries, sorts them with [order.Sort], and caches the result.
Every mutation flushes the cache before it returns, so a lookup never observes a stale result.
Ordering failures are returned to the caller and never cached.
*/
package store
