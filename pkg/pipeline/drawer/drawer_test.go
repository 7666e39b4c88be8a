package drawer_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/adcdata/go-pipeline/pkg/pipeline/drawer"
)

func TestDraw(t *testing.T) {
	t.Parallel()

	fileName := filepath.Join(t.TempDir(), "pipeline.dot")
	d := drawer.New(fileName)

	require.NoError(t, d.AddStep("0: downcast", true))
	require.NoError(t, d.AddStep("1: drop_nan_rows", false))
	require.NoError(t, d.AddLink("0: downcast", "1: drop_nan_rows"))
	require.NoError(t, d.Draw())

	raw, err := os.ReadFile(fileName)
	require.NoError(t, err)
	content := string(raw)
	assert.Contains(t, content, "strict digraph")
	assert.Contains(t, content, `"0: downcast" -> "1: drop_nan_rows"`)
	assert.Contains(t, content, `style="filled"`)
	assert.Contains(t, content, "fillcolor")
}

func TestDrawIsDeterministic(t *testing.T) {
	t.Parallel()

	draw := func(fileName string) string {
		d := drawer.New(fileName)
		require.NoError(t, d.AddStep("0: downcast", true))
		require.NoError(t, d.AddStep("1: fill_nans", true))
		require.NoError(t, d.AddStep("2: drop_nan_rows", false))
		require.NoError(t, d.AddLink("0: downcast", "1: fill_nans"))
		require.NoError(t, d.AddLink("1: fill_nans", "2: drop_nan_rows"))
		require.NoError(t, d.Draw())
		raw, err := os.ReadFile(fileName)
		require.NoError(t, err)

		return string(raw)
	}

	dir := t.TempDir()
	first := draw(filepath.Join(dir, "first.dot"))
	second := draw(filepath.Join(dir, "second.dot"))
	assert.Equal(t, first, second)
}

func TestAddDuplicateStep(t *testing.T) {
	t.Parallel()

	d := drawer.New(filepath.Join(t.TempDir(), "pipeline.dot"))
	require.NoError(t, d.AddStep("0: downcast", false))
	assert.Error(t, d.AddStep("0: downcast", false))
}

func TestAddLinkUnknownStep(t *testing.T) {
	t.Parallel()

	d := drawer.New(filepath.Join(t.TempDir(), "pipeline.dot"))
	require.NoError(t, d.AddStep("0: downcast", false))
	assert.Error(t, d.AddLink("0: downcast", "missing"))
}
