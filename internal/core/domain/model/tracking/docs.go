// Package tracking holds the ephemeral record that aggregates the live state of an
// order while it is being cooked and delivered.
//
// A TrackingOrder is written once when the order is scheduled, with one NotStarted
// entry per restaurant, and is then mutated concurrently by per-restaurant tasks and
// by the delivery task. Stores apply a Mutation under optimistic concurrency so that
// writes to different entries of the same record never overwrite each other.
package tracking
