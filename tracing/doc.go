// Package tracing persists the events and commands an smmu.SMMU instance
// processes to a SQLite database, for offline analysis of a long trace
// replay.
package tracing
