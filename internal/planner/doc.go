// Package planner turns free-text user instructions into a crawl strategy.
//
// Planning is best-effort: with no instructions the default strategy is
// returned without a service call, and a failed planning call falls back
// to a strategy that carries the raw instructions as the task. Build never
// fails, so a crawl always starts with a usable strategy.
package planner
