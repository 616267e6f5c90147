package export

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTableRendererGrid(t *testing.T) {
	renderer := NewTableRenderer()
	out := renderer.Render(Dataset{
		Headers: []string{"Name", "Salary"},
		Rows: [][]string{
			{"Jane Doe", "$75,000.00"},
			{"Bob", "$50,000.00"},
		},
	})

	lines := strings.Split(out, "\n")
	require.Equal(t, 7, len(lines))
	assert.Equal(t, "+----------+------------+", lines[0])
	assert.Equal(t, "| Name     | Salary     |", lines[1])
	assert.Equal(t, "+==========+============+", lines[2])
	assert.Equal(t, "| Jane Doe | $75,000.00 |", lines[3])
	assert.Equal(t, "+----------+------------+", lines[4])
	assert.Equal(t, "| Bob      | $50,000.00 |", lines[5])
}

func TestTableRendererShortRowPadded(t *testing.T) {
	renderer := NewTableRenderer()
	out := renderer.Render(Dataset{
		Headers: []string{"A", "B"},
		Rows:    [][]string{{"x"}},
	})
	assert.Contains(t, out, "| x | ")
}

func TestTableRendererEmptyHeaders(t *testing.T) {
	renderer := NewTableRenderer()
	assert.Equal(t, "", renderer.Render(Dataset{}))
}

func TestCSVExporterRender(t *testing.T) {
	exporter := NewCSVExporter()
	out, err := exporter.Render(Dataset{
		Headers: []string{"ID", "Name"},
		Rows:    [][]string{{"e1", "Jane, Doe"}},
	})
	require.NoError(t, err)
	assert.Equal(t, "ID,Name\ne1,\"Jane, Doe\"\n", string(out))
}

func TestCSVExporterRequiresHeaders(t *testing.T) {
	exporter := NewCSVExporter()
	_, err := exporter.Render(Dataset{})
	require.Error(t, err)
}

func TestPDFExporterRender(t *testing.T) {
	exporter := NewPDFExporter()
	out, err := exporter.Render(Dataset{
		Headers: []string{"ID", "Name"},
		Rows:    [][]string{{"e1", "Jane"}},
	}, "Employee Report")
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(string(out), "%PDF"))
}
