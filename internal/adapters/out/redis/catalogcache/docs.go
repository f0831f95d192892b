// Package catalogcache keeps recently looked up catalog entries in redis.
//
// Entries are stored as JSON under "storefront:catalog:<product id>" with a
// fixed TTL. Unknown products are not cached, so a product added to the
// catalog becomes visible on the next lookup.
package catalogcache
