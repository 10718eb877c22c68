package export

import (
	"encoding/csv"
	"os"

	"orgsort/internal/audit"
	"orgsort/internal/config"
)

// utf8BOM lets spreadsheet applications detect the encoding.
const utf8BOM = "\ufeff"

type csvExporter struct {
	opts Options
}

func (e *csvExporter) Format() string { return config.FormatCSV }

func (e *csvExporter) Export(run RunInfo, records []audit.Record) (string, error) {
	path, err := outputPath(e.opts, run.Started, "csv")
	if err != nil {
		return "", wrapExport(e.Format(), e.opts.Dir, err)
	}
	file, err := os.OpenFile(path, os.O_CREATE|os.O_EXCL|os.O_WRONLY, 0o644)
	if err != nil {
		return "", wrapExport(e.Format(), path, err)
	}
	defer file.Close()

	if _, err := file.WriteString(utf8BOM); err != nil {
		return "", wrapExport(e.Format(), path, err)
	}
	w := csv.NewWriter(file)
	if err := w.Write(Headers(e.opts.Locale)); err != nil {
		return "", wrapExport(e.Format(), path, err)
	}
	for _, rec := range records {
		if err := w.Write(Row(rec, e.opts.Locale)); err != nil {
			return "", wrapExport(e.Format(), path, err)
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return "", wrapExport(e.Format(), path, err)
	}
	if err := file.Close(); err != nil {
		return "", wrapExport(e.Format(), path, err)
	}
	return path, nil
}
