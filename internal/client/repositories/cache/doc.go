// Package cache keeps the last scene listing fetched for each owner in a
// local SQLite database, so scenectl can still show it while offline.
package cache
