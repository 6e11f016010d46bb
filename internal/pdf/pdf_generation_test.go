package pdf

import (
	"bytes"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"cipherhaven/internal/models"
)

func TestGenerateIncidentReport_FallsBackToCoreFont(t *testing.T) {
	g := NewDocumentGenerator(filepath.Join(t.TempDir(), "missing.ttf"))
	g.now = func() time.Time { return time.Date(2024, 3, 1, 10, 0, 0, 0, time.UTC) }

	out, err := g.GenerateIncidentReport(models.ReportExportRequest{
		Report: models.IncidentReport{
			Name:             "Sam",
			VisibleInjuries:  "No",
			PreferredContact: []string{"Email"},
			CurrentSituation: "Staying with a friend for now.",
			Culprit:          "A former partner.",
		},
		GeneratedText: "I have been dealing with this for six months. Café visits stopped.",
		Model:         "gemini",
	})
	require.NoError(t, err)

	assert.True(t, bytes.HasPrefix(out, []byte("%PDF-")))
	assert.Greater(t, len(out), 500)
}
