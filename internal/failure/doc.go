// Package failure defines the error markers shared by every orgsort component.
//
// Errors are tagged with one of the exported sentinels through Wrap so callers
// can classify them with errors.Is while the underlying cause stays reachable.
// Configuration and target-root access errors abort a run; move errors are
// captured per file.
package failure
