// Package availability decides when masters work and what collides with
// what: weekday pattern resolution, the working-day and working-time
// predicates, schedule-against-schedule conflicts and order-against-order
// interval collisions.
//
// The checks themselves are pure functions over schedule and order values.
// Engine composes them with injected data sources, so the same logic runs
// against mongo repositories inside the write services and against HTTP
// clients inside the dispatch orchestrator.
package availability
