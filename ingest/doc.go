// Package ingest fans a normalized record set out to the structured,
// vector, and graph stores.
//
// Store writes run concurrently on a worker pool, one task per store,
// and are isolated from each other: an unavailable or failing store is
// recorded in the run's Report and never blocks or rolls back the
// others. There are no cross-store transactions; consistency between
// backends is best-effort.
package ingest
