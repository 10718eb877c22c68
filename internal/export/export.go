// Package export writes a run's audit trail to XLSX, CSV, or plain text
// files in the log directory.
package export

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"orgsort/internal/audit"
	"orgsort/internal/config"
	"orgsort/internal/failure"
	"orgsort/internal/fileutil"
)

// TimeLayout formats record timestamps.
const TimeLayout = "2006-01-02 15:04:05"

const fileStampLayout = "20060102_150405"

// RunInfo identifies the run being exported.
type RunInfo struct {
	ID       string
	Started  time.Time
	Finished time.Time
	DryRun   bool
	Summary  audit.Summary
}

// Exporter writes records and returns the created file path.
type Exporter interface {
	Format() string
	Export(run RunInfo, records []audit.Record) (string, error)
}

// Options locate and label export files.
type Options struct {
	Dir    string
	Prefix string
	Locale string
}

// New returns the exporter for format.
func New(format string, opts Options) (Exporter, error) {
	if strings.TrimSpace(opts.Prefix) == "" {
		opts.Prefix = "orgsort"
	}
	switch strings.ToLower(strings.TrimSpace(format)) {
	case config.FormatXLSX:
		return &xlsxExporter{opts: opts}, nil
	case config.FormatCSV:
		return &csvExporter{opts: opts}, nil
	case config.FormatText:
		return &textExporter{opts: opts}, nil
	default:
		return nil, failure.Wrap(failure.ErrConfiguration, "export", "select exporter", fmt.Sprintf("unsupported format %q", format), nil)
	}
}

// FromConfig builds one exporter per configured format.
func FromConfig(cfg *config.Config) ([]Exporter, error) {
	opts := Options{Dir: cfg.Paths.LogDir, Prefix: cfg.Export.LogPrefix, Locale: cfg.Export.Locale}
	exporters := make([]Exporter, 0, len(cfg.Export.Formats))
	for _, format := range cfg.Export.Formats {
		exp, err := New(format, opts)
		if err != nil {
			return nil, err
		}
		exporters = append(exporters, exp)
	}
	return exporters, nil
}

// FileName returns "<prefix>_<YYYYmmdd_HHMMSS>.<ext>".
func FileName(prefix string, started time.Time, ext string) string {
	return fmt.Sprintf("%s_%s.%s", prefix, started.Format(fileStampLayout), ext)
}

// outputPath picks a free file name, adding a numeric suffix when a run in
// the same second already claimed the plain one.
func outputPath(opts Options, started time.Time, ext string) (string, error) {
	if err := os.MkdirAll(opts.Dir, 0o755); err != nil {
		return "", err
	}
	base := strings.TrimSuffix(FileName(opts.Prefix, started, ext), "."+ext)
	for i := 1; i < 100; i++ {
		name := base + "." + ext
		if i > 1 {
			name = fmt.Sprintf("%s_%d.%s", base, i, ext)
		}
		path := filepath.Join(opts.Dir, name)
		exists, err := fileutil.Exists(path)
		if err != nil {
			return "", err
		}
		if !exists {
			return path, nil
		}
	}
	return "", errors.New("no free export file name")
}

func wrapExport(format, path string, err error) error {
	return failure.Wrap(failure.ErrExport, "export", "write "+format, path, err)
}

// Row renders a record as the exported column values.
func Row(rec audit.Record, locale string) []string {
	l := labelsFor(locale)
	matched := rec.MatchedAlias
	if matched == "" {
		matched = l.none
	}
	dest := rec.DestinationPath
	if dest == "" {
		dest = "N/A"
	}
	return []string{
		rec.FileName,
		rec.FileType(),
		matched,
		l.status(rec.Status),
		dest,
		rec.Remark,
		rec.Timestamp.Format(TimeLayout),
	}
}

// Headers returns the column headers for locale.
func Headers(locale string) []string {
	return append([]string(nil), labelsFor(locale).headers...)
}

type labels struct {
	headers  []string
	none     string
	statuses map[audit.Status]string
	summary  string
}

func (l labels) status(s audit.Status) string {
	if label, ok := l.statuses[s]; ok {
		return label
	}
	return string(s)
}

var englishLabels = labels{
	headers: []string{"File Name", "File Type", "Matched Keyword", "Status", "Destination", "Remark", "Processed At"},
	none:    "none",
	statuses: map[audit.Status]string{
		audit.StatusSuccess:  "success",
		audit.StatusFailed:   "failed",
		audit.StatusSkipped:  "skipped",
		audit.StatusFiltered: "filtered",
	},
	summary: "total=%d succeeded=%d not_succeeded=%d filtered=%d",
}

var chineseLabels = labels{
	headers: []string{"文件名", "文件类型", "匹配关键词", "执行状态", "目标路径", "备注", "处理时间"},
	none:    "无",
	statuses: map[audit.Status]string{
		audit.StatusSuccess:  "成功",
		audit.StatusFailed:   "失败",
		audit.StatusSkipped:  "跳过",
		audit.StatusFiltered: "过滤",
	},
	summary: "共 %d 个文件，成功 %d 个，未成功 %d 个，过滤 %d 个",
}

func labelsFor(locale string) labels {
	if strings.EqualFold(strings.TrimSpace(locale), config.LocaleChinese) {
		return chineseLabels
	}
	return englishLabels
}

// SummaryLine renders the run totals in locale.
func SummaryLine(summary audit.Summary, locale string) string {
	return fmt.Sprintf(labelsFor(locale).summary, summary.Total, summary.Succeeded, summary.NotSucceeded(), summary.Filtered)
}
