package export

import (
	"github.com/xuri/excelize/v2"

	"orgsort/internal/audit"
	"orgsort/internal/config"
)

const sheetName = "Records"

var columnWidths = []float64{40, 10, 24, 12, 60, 40, 20}

type xlsxExporter struct {
	opts Options
}

func (e *xlsxExporter) Format() string { return config.FormatXLSX }

func (e *xlsxExporter) Export(run RunInfo, records []audit.Record) (string, error) {
	path, err := outputPath(e.opts, run.Started, "xlsx")
	if err != nil {
		return "", wrapExport(e.Format(), e.opts.Dir, err)
	}

	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", sheetName); err != nil {
		return "", wrapExport(e.Format(), path, err)
	}
	index, err := f.GetSheetIndex(sheetName)
	if err != nil {
		return "", wrapExport(e.Format(), path, err)
	}

	headerStyle, err := f.NewStyle(&excelize.Style{
		Font:      &excelize.Font{Bold: true, Size: 11},
		Fill:      excelize.Fill{Type: "pattern", Color: []string{"#D9E1F2"}, Pattern: 1},
		Alignment: &excelize.Alignment{Horizontal: "center", Vertical: "center"},
	})
	if err != nil {
		return "", wrapExport(e.Format(), path, err)
	}

	for i, header := range Headers(e.opts.Locale) {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		if err := f.SetCellValue(sheetName, cell, header); err != nil {
			return "", wrapExport(e.Format(), path, err)
		}
		if err := f.SetCellStyle(sheetName, cell, cell, headerStyle); err != nil {
			return "", wrapExport(e.Format(), path, err)
		}
	}

	for r, rec := range records {
		for c, value := range Row(rec, e.opts.Locale) {
			cell, _ := excelize.CoordinatesToCellName(c+1, r+2)
			if err := f.SetCellValue(sheetName, cell, value); err != nil {
				return "", wrapExport(e.Format(), path, err)
			}
		}
	}

	for i, width := range columnWidths {
		col, _ := excelize.ColumnNumberToName(i + 1)
		if err := f.SetColWidth(sheetName, col, col, width); err != nil {
			return "", wrapExport(e.Format(), path, err)
		}
	}
	if err := f.SetPanes(sheetName, &excelize.Panes{
		Freeze:      true,
		YSplit:      1,
		TopLeftCell: "A2",
		ActivePane:  "bottomLeft",
	}); err != nil {
		return "", wrapExport(e.Format(), path, err)
	}

	f.SetActiveSheet(index)
	if err := f.SaveAs(path); err != nil {
		return "", wrapExport(e.Format(), path, err)
	}
	return path, nil
}
