package export

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleDataset() Dataset {
	return Dataset{
		Headers: []string{"ID Card", "Full Name"},
		Rows: []map[string]string{
			{"ID Card": "A123456", "Full Name": `Aishath "Aisha" Ali`},
			{"ID Card": "A654321", "Full Name": "Mohamed Rasheed"},
		},
	}
}

func TestCSVRenderQuotesEveryField(t *testing.T) {
	out, err := NewCSVExporter().Render(sampleDataset())
	require.NoError(t, err)

	lines := strings.Split(strings.TrimRight(string(out), "\r\n"), "\r\n")
	require.Len(t, lines, 3)
	assert.Equal(t, `"ID Card","Full Name"`, lines[0])
	assert.Equal(t, `"A123456","Aishath ""Aisha"" Ali"`, lines[1])
}

func TestCSVRenderRequiresHeaders(t *testing.T) {
	_, err := NewCSVExporter().Render(Dataset{})
	assert.Error(t, err)
}

func TestPDFRenderProducesDocument(t *testing.T) {
	out, err := NewPDFExporter().Render(sampleDataset(), "Voter Roll")
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(string(out), "%PDF"))
}

func TestHTMLRenderAutoPrints(t *testing.T) {
	out, err := NewHTMLExporter().Render(sampleDataset(), "Voter Roll")
	require.NoError(t, err)

	doc := string(out)
	assert.Contains(t, doc, `onload="window.print()"`)
	assert.Contains(t, doc, "<th>ID Card</th>")
	assert.Contains(t, doc, "Mohamed Rasheed")
	// template escaping keeps embedded quotes safe
	assert.Contains(t, doc, "&#34;Aisha&#34;")
}
