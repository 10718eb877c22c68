// Package organizer runs one sorting pass over the configured source roots.
//
// A run takes the run lock, builds the alias table from the target root, and
// walks every source root in order. Each visited file is filtered, classified
// against the alias table, resolved to a destination directory, and moved. The
// outcome of every file becomes an audit record; after the walk the records
// are summarized, exported, and persisted to the run history.
//
// Fatal problems (invalid configuration, a held lock, an unusable target root)
// abort the run before any file is touched. Everything else is recorded per
// file and the run continues.
package organizer
