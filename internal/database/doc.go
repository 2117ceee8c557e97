// Package database stores crawl session history in SQLite.
//
// The database is bookkeeping, not a search index: each completed session
// is written once (session row, kept pages, synthesized documents) and read
// back for the history listing. One database file serves all sessions so
// history queries stay simple.
package database
