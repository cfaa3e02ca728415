// Package watcher drives incremental re-indexing from live file system
// notifications. Events are coalesced over a 300ms quiet window (by path),
// filtered through the same ignore rules the walker uses, and trigger
// exactly one indexer.IndexIncremental call per settled window against the
// root the watcher was started on. A change to an ignore file itself
// reloads the ignore chain before that pass runs, so edited ignore rules
// take effect without a restart.
package watcher
