// Package kernel contains value objects shared across aggregates.
//
// Location is the only one today: a validated latitude/longitude pair used for
// courier positions reported during delivery tracking.
package kernel
