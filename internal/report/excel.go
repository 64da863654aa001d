package report

import (
	"strconv"

	"github.com/xuri/excelize/v2"
)

// Renderer produces a shareable document from a chart-ready series. The
// statistics engine's histogram and series outputs are the input shape.
type Renderer interface {
	Render(title string, labels []string, values []float64) ([]byte, error)
}

// ExcelRenderer writes the series as an xlsx workbook: a data sheet of
// label/value rows with an embedded column chart.
type ExcelRenderer struct{}

// NewExcelRenderer constructs the renderer.
func NewExcelRenderer() ExcelRenderer {
	return ExcelRenderer{}
}

const sheetName = "Report"

// Render builds the workbook in memory.
func (ExcelRenderer) Render(title string, labels []string, values []float64) ([]byte, error) {
	xl := excelize.NewFile()
	defer func() { _ = xl.Close() }()

	if err := xl.SetSheetName("Sheet1", sheetName); err != nil {
		return nil, err
	}
	if err := xl.SetSheetRow(sheetName, "A1", &[]any{title}); err != nil {
		return nil, err
	}
	if err := xl.SetSheetRow(sheetName, "A2", &[]any{"Label", "Value"}); err != nil {
		return nil, err
	}
	for i, label := range labels {
		var value float64
		if i < len(values) {
			value = values[i]
		}
		cell, err := excelize.CoordinatesToCellName(1, i+3)
		if err != nil {
			return nil, err
		}
		if err := xl.SetSheetRow(sheetName, cell, &[]any{label, value}); err != nil {
			return nil, err
		}
	}

	if len(labels) > 0 {
		last := strconv.Itoa(len(labels) + 2)
		chart := &excelize.Chart{
			Type: excelize.Col,
			Series: []excelize.ChartSeries{{
				Name:       sheetName + "!$A$1",
				Categories: sheetName + "!$A$3:$A$" + last,
				Values:     sheetName + "!$B$3:$B$" + last,
			}},
			Title: []excelize.RichTextRun{{Text: title}},
		}
		if err := xl.AddChart(sheetName, "D2", chart); err != nil {
			return nil, err
		}
	}

	buf, err := xl.WriteToBuffer()
	if err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
