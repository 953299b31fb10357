// Package cache implements the namespaced cache and the tracking record store on
// Redis.
package cache
