package export

import (
	"bufio"
	"fmt"
	"os"
	"strings"

	"orgsort/internal/audit"
	"orgsort/internal/config"
)

type textExporter struct {
	opts Options
}

func (e *textExporter) Format() string { return config.FormatText }

func (e *textExporter) Export(run RunInfo, records []audit.Record) (string, error) {
	path, err := outputPath(e.opts, run.Started, "txt")
	if err != nil {
		return "", wrapExport(e.Format(), e.opts.Dir, err)
	}
	file, err := os.OpenFile(path, os.O_CREATE|os.O_EXCL|os.O_WRONLY, 0o644)
	if err != nil {
		return "", wrapExport(e.Format(), path, err)
	}
	defer file.Close()

	w := bufio.NewWriter(file)
	if run.ID != "" {
		fmt.Fprintf(w, "run %s started %s\n", run.ID, run.Started.Format(TimeLayout))
	}
	fmt.Fprintln(w, strings.Join(Headers(e.opts.Locale), " | "))
	for _, rec := range records {
		fmt.Fprintln(w, strings.Join(Row(rec, e.opts.Locale), " | "))
	}
	fmt.Fprintln(w, SummaryLine(audit.Summarize(records), e.opts.Locale))
	if err := w.Flush(); err != nil {
		return "", wrapExport(e.Format(), path, err)
	}
	if err := file.Close(); err != nil {
		return "", wrapExport(e.Format(), path, err)
	}
	return path, nil
}
