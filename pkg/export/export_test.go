package export

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func rosterDataset() Dataset {
	return Dataset{
		Title:    "Evening Study 1",
		Subtitle: "2024-05-01",
		Headers:  []string{"Seat", "Student ID", "Name"},
		Rows: [][]string{
			{"A1", "1-2-3", "Kim"},
			{"A2", "2-1-7", "Lee, J"},
		},
	}
}

func TestCSVExporterRender(t *testing.T) {
	out, err := NewCSVExporter().Render(rosterDataset())
	require.NoError(t, err)

	body := strings.TrimPrefix(string(out), utf8BOM)
	lines := strings.Split(strings.TrimSpace(body), "\n")
	require.Len(t, lines, 3)
	assert.Equal(t, "Seat,Student ID,Name", lines[0])
	assert.Equal(t, `A2,2-1-7,"Lee, J"`, lines[2])
}

func TestCSVExporterRejectsRaggedRows(t *testing.T) {
	data := rosterDataset()
	data.Rows = append(data.Rows, []string{"only-one"})
	_, err := NewCSVExporter().Render(data)
	require.Error(t, err)
}

func TestPDFExporterRender(t *testing.T) {
	out, err := NewPDFExporter().Render(rosterDataset())
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(out, []byte("%PDF")))
}

func TestExportersRequireHeaders(t *testing.T) {
	_, err := NewPDFExporter().Render(Dataset{})
	require.Error(t, err)
	_, err = NewCSVExporter().Render(Dataset{})
	require.Error(t, err)
}
