package report

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/oenolab/winebench/crossval"
)

func sampleResults() []*crossval.Result {
	return []*crossval.Result{
		{Model: "ols", MeanAccuracy: 0.531, MeanAUC: 0.724, MeanMAE: 0.512, Folds: 25},
		{Model: "forest", MeanAccuracy: 0.672, MeanAUC: 0.801, MeanMAE: 0.362, Folds: 25, SkippedAUCFolds: 1},
	}
}

func TestWriteTable(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteTable(&buf, "red", sampleResults()))

	out := buf.String()
	assert.Contains(t, out, "dataset: red")
	assert.Contains(t, out, "ols")
	assert.Contains(t, out, "forest")
	assert.Contains(t, out, "0.5310")
	assert.Contains(t, out, "0.8010")

	// Header plus one line per model plus the trailing separator.
	assert.Equal(t, 5, bytes.Count(buf.Bytes(), []byte("\n")))
}

func TestSaveChart(t *testing.T) {
	path := filepath.Join(t.TempDir(), "red.png")
	require.NoError(t, SaveChart(path, "wine quality: red", sampleResults()))

	info, err := os.Stat(path)
	require.NoError(t, err)
	assert.Greater(t, info.Size(), int64(0))
}

func TestSaveChart_NoResults(t *testing.T) {
	err := SaveChart(filepath.Join(t.TempDir(), "empty.png"), "empty", nil)
	assert.Error(t, err)
}
