package pipeline_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/adcdata/go-pipeline/pkg/pipeline"
)

func TestRunOrLoadWithoutCache(t *testing.T) {
	t.Parallel()

	p, err := pipeline.New(testData(t), testRegistry(nil), []pipeline.Setting{
		{"square_all_elements": nil},
	})
	require.NoError(t, err)

	assert.ErrorIs(t, p.RunOrLoad(), pipeline.ErrNoCacheConfigured)
	assert.ErrorIs(t, p.RunOrLoadFromStep(0), pipeline.ErrNoCacheConfigured)
}

func TestRunOrLoadCacheRoundTrip(t *testing.T) {
	t.Parallel()

	cacheDir := t.TempDir()
	settings := []pipeline.Setting{
		{"square_all_elements": nil},
		{"print_predefined_text": nil},
		{"square_all_elements": nil},
		{"print_predefined_text": nil},
	}

	counter := 0
	p, err := pipeline.New(testData(t), testRegistry(&counter), settings,
		pipeline.WithCache(cacheDir, "test_cache"))
	require.NoError(t, err)

	require.NoError(t, p.RunOrLoad())
	assert.Equal(t, 2, counter)
	assert.True(t, p.Frame().Equal(squaredTwice(t)))
	assert.FileExists(t, filepath.Join(cacheDir, "test_cache.snap"))

	// A fresh pipeline with the same cache must load without running
	// any step.
	fresh, err := pipeline.New(testData(t), testRegistry(&counter), settings,
		pipeline.WithCache(cacheDir, "test_cache"))
	require.NoError(t, err)

	require.NoError(t, fresh.RunOrLoad())
	assert.Equal(t, 2, counter)
	assert.True(t, fresh.Frame().Equal(squaredTwice(t)))
	assert.Equal(t, 0, fresh.Cursor())
}

func TestRunOrLoadInvalidatedBySettingsChange(t *testing.T) {
	t.Parallel()

	cacheDir := t.TempDir()
	settings := []pipeline.Setting{
		{"square_all_elements": nil},
	}

	counter := 0
	p, err := pipeline.New(testData(t), testRegistry(&counter), settings,
		pipeline.WithCache(cacheDir, "test_cache"))
	require.NoError(t, err)
	require.NoError(t, p.RunOrLoad())
	require.Equal(t, 1, counter)

	// A pipeline with different settings under the same cache name must
	// treat the snapshot as stale and re-run.
	edited, err := pipeline.New(testData(t), testRegistry(&counter), []pipeline.Setting{
		{"square_all_elements": nil},
		{"square_all_elements": nil},
	}, pipeline.WithCache(cacheDir, "test_cache"))
	require.NoError(t, err)

	require.NoError(t, edited.RunOrLoad())
	assert.Equal(t, 3, counter)
	assert.True(t, edited.Frame().Equal(squaredTwice(t)))
}

func TestRunOrLoadFromStep(t *testing.T) {
	t.Parallel()

	cacheDir := t.TempDir()
	settings := []pipeline.Setting{
		{"square_all_elements": nil},
		{"print_predefined_text": nil},
		{"square_all_elements": nil},
		{"print_predefined_text": nil},
	}

	counter := 0
	p, err := pipeline.New(testData(t), testRegistry(&counter), settings,
		pipeline.WithCache(cacheDir, "test_cache"))
	require.NoError(t, err)

	require.NoError(t, p.RunOrLoadFromStep(1))
	assert.Equal(t, 2, counter)
	assert.True(t, p.Frame().Equal(squaredTwice(t)))
	assert.FileExists(t, filepath.Join(cacheDir, "test_cache_step1.snap"))

	// The boundary snapshot skips the first square on the second call;
	// only the square after the boundary runs.
	fresh, err := pipeline.New(testData(t), testRegistry(&counter), settings,
		pipeline.WithCache(cacheDir, "test_cache"))
	require.NoError(t, err)

	require.NoError(t, fresh.RunOrLoadFromStep(1))
	assert.Equal(t, 3, counter)
	assert.True(t, fresh.Frame().Equal(squaredTwice(t)))
	assert.Equal(t, len(settings), fresh.Cursor())
}

func TestRunOrLoadFromStepOutOfRange(t *testing.T) {
	t.Parallel()

	p, err := pipeline.New(testData(t), testRegistry(nil), []pipeline.Setting{
		{"square_all_elements": nil},
	}, pipeline.WithCache(t.TempDir(), "test_cache"))
	require.NoError(t, err)

	assert.ErrorIs(t, p.RunOrLoadFromStep(5), pipeline.ErrIndexRange)
	assert.ErrorIs(t, p.RunOrLoadFromStep(-1), pipeline.ErrIndexRange)
}

func TestRunPersistsSnapshotOnCompletion(t *testing.T) {
	t.Parallel()

	cacheDir := t.TempDir()
	p, err := pipeline.New(testData(t), testRegistry(nil), []pipeline.Setting{
		{"square_all_elements": nil},
		{"square_all_elements": nil},
	}, pipeline.WithCache(cacheDir, "test_cache"))
	require.NoError(t, err)

	// A partial run does not persist, only reaching the end of the list
	// does.
	require.NoError(t, p.RunSteps(1))
	_, statErr := os.Stat(filepath.Join(cacheDir, "test_cache.snap"))
	assert.True(t, os.IsNotExist(statErr))

	require.NoError(t, p.RunSteps(1))
	assert.FileExists(t, filepath.Join(cacheDir, "test_cache.snap"))
}

func TestDraw(t *testing.T) {
	t.Parallel()

	dotFile := filepath.Join(t.TempDir(), "pipeline.dot")
	p, err := pipeline.New(testData(t), testRegistry(nil), []pipeline.Setting{
		{"square_all_elements": nil},
		{"drop_nan_rows": nil},
	}, pipeline.WithDrawer(dotFile))
	require.NoError(t, err)
	require.NoError(t, p.RunSteps(1))

	require.NoError(t, p.Draw())

	raw, err := os.ReadFile(dotFile)
	require.NoError(t, err)
	content := string(raw)
	assert.Contains(t, content, "0: square_all_elements")
	assert.Contains(t, content, `"0: square_all_elements" -> "1: drop_nan_rows"`)
}

func TestDrawWithoutDrawer(t *testing.T) {
	t.Parallel()

	p, err := pipeline.New(testData(t), testRegistry(nil), nil)
	require.NoError(t, err)
	assert.ErrorIs(t, p.Draw(), pipeline.ErrNoDrawerConfigured)
}
