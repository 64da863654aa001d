package report

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

func TestExcelRenderer_WritesDataRows(t *testing.T) {
	renderer := NewExcelRenderer()

	doc, err := renderer.Render("Repairs By Status", []string{"PENDING", "COMPLETED"}, []float64{3, 1})
	require.NoError(t, err)
	require.NotEmpty(t, doc)

	xl, err := excelize.OpenReader(bytes.NewReader(doc))
	require.NoError(t, err)
	defer xl.Close()

	title, err := xl.GetCellValue("Report", "A1")
	require.NoError(t, err)
	assert.Equal(t, "Repairs By Status", title)

	label, err := xl.GetCellValue("Report", "A3")
	require.NoError(t, err)
	assert.Equal(t, "PENDING", label)

	value, err := xl.GetCellValue("Report", "B4")
	require.NoError(t, err)
	assert.Equal(t, "1", value)
}

func TestExcelRenderer_EmptySeries(t *testing.T) {
	renderer := NewExcelRenderer()

	doc, err := renderer.Render("Most Common Bikes", nil, nil)
	require.NoError(t, err)
	assert.NotEmpty(t, doc)
}
