// Package audit holds the per-file execution records produced by a run.
package audit

import (
	"path/filepath"
	"strings"
	"sync"
	"time"
)

// Status is the terminal outcome of one visited file.
type Status string

const (
	StatusSuccess  Status = "success"
	StatusFailed   Status = "failed"
	StatusSkipped  Status = "skipped"
	StatusFiltered Status = "filtered"
)

// Remarks attached to records.
const (
	RemarkNoMatch          = "no organization folder matched"
	RemarkFiltered         = "extension not allowed"
	RemarkHidden           = "hidden file"
	remarkMovedPrefix      = "moved to "
	remarkPlannedPrefix    = "would move to "
	remarkMoveFailedPrefix = "move failed: "
	remarkUnreadablePrefix = "cannot read source: "
)

// MovedRemark describes a successful move into the named organization directory.
func MovedRemark(orgDirName string) string {
	return remarkMovedPrefix + orgDirName
}

// PlannedRemark describes a dry-run move into the named organization directory.
func PlannedRemark(orgDirName string) string {
	return remarkPlannedPrefix + orgDirName
}

// MoveFailedRemark describes a failed move.
func MoveFailedRemark(cause error) string {
	if cause == nil {
		return strings.TrimSpace(remarkMoveFailedPrefix)
	}
	return remarkMoveFailedPrefix + cause.Error()
}

// UnreadableRemark describes a source entry that could not be inspected.
func UnreadableRemark(cause error) string {
	if cause == nil {
		return strings.TrimSpace(remarkUnreadablePrefix)
	}
	return remarkUnreadablePrefix + cause.Error()
}

// Record is the audit entry for one file.
type Record struct {
	FileName string `json:"file_name"`
	// Extension is lowercase with its leading dot.
	Extension       string    `json:"extension"`
	SourcePath      string    `json:"source_path"`
	MatchedAlias    string    `json:"matched_alias,omitempty"`
	Status          Status    `json:"status"`
	DestinationPath string    `json:"destination_path,omitempty"`
	Remark          string    `json:"remark"`
	Timestamp       time.Time `json:"timestamp"`
}

// NewRecord starts a record for the file at sourcePath.
func NewRecord(sourcePath string, now time.Time) Record {
	name := filepath.Base(sourcePath)
	return Record{
		FileName:   name,
		Extension:  strings.ToLower(filepath.Ext(name)),
		SourcePath: sourcePath,
		Timestamp:  now,
	}
}

// FileType returns the upper-case extension without the dot.
func (r Record) FileType() string {
	return strings.ToUpper(strings.TrimPrefix(r.Extension, "."))
}

// Trail is an append-only, ordered sequence of records.
type Trail struct {
	mu      sync.Mutex
	records []Record
}

// Append adds a record to the end of the trail.
func (t *Trail) Append(rec Record) {
	t.mu.Lock()
	t.records = append(t.records, rec)
	t.mu.Unlock()
}

// Records returns a copy of the records in insertion order.
func (t *Trail) Records() []Record {
	t.mu.Lock()
	defer t.mu.Unlock()
	out := make([]Record, len(t.records))
	copy(out, t.records)
	return out
}

// Len returns the number of records.
func (t *Trail) Len() int {
	t.mu.Lock()
	defer t.mu.Unlock()
	return len(t.records)
}

// Summary counts records by status.
type Summary struct {
	Total     int `json:"total"`
	Succeeded int `json:"succeeded"`
	Skipped   int `json:"skipped"`
	Failed    int `json:"failed"`
	Filtered  int `json:"filtered"`
}

// NotSucceeded counts skipped and failed records. Filtered records are
// excluded.
func (s Summary) NotSucceeded() int {
	return s.Skipped + s.Failed
}

// Summarize tallies records.
func Summarize(records []Record) Summary {
	var s Summary
	for _, rec := range records {
		s.Total++
		switch rec.Status {
		case StatusSuccess:
			s.Succeeded++
		case StatusSkipped:
			s.Skipped++
		case StatusFailed:
			s.Failed++
		case StatusFiltered:
			s.Filtered++
		}
	}
	return s
}
