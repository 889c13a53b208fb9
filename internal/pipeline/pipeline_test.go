package pipeline

import (
	"io"
	"log/slog"
	"math"
	"os"
	"path/filepath"
	"testing"

	"github.com/sbinet/npyio"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/mat"

	"github.com/cwbudde/algo-eeg/eeg/montage"
	"github.com/cwbudde/algo-eeg/eeg/prep"
	"github.com/cwbudde/algo-eeg/internal/testutil"
)

const testSamples = 256

// writeRecording writes a canonical-montage EDF under dir. mutate, when
// non-nil, can inject defects before writing.
func writeRecording(t *testing.T, dir, name string, baseHz float64, mutate func([][]float64)) {
	t.Helper()

	labels := montage.Channels()
	data := testutil.SineMatrix(len(labels), testSamples, baseHz, prep.SampleRate, 20)
	if mutate != nil {
		mutate(data)
	}

	require.NoError(t, os.MkdirAll(dir, 0o755))
	testutil.WriteEDF(t, filepath.Join(dir, name), labels, data, int(prep.SampleRate))
}

// fixtureDirs builds a minimal input tree: two train recordings and one
// test_trial recording with an unrepairable gap, plus matching splits.
func fixtureDirs(t *testing.T) (inputDir, splitDir string) {
	t.Helper()

	root := t.TempDir()
	inputDir = filepath.Join(root, "input")
	splitDir = filepath.Join(root, "splits")
	require.NoError(t, os.MkdirAll(splitDir, 0o755))

	writeRecording(t, filepath.Join(inputDir, "train"), "r1_eeg.edf", 5, nil)
	writeRecording(t, filepath.Join(inputDir, "train"), "r2_eeg.edf", 7, nil)
	writeRecording(t, filepath.Join(inputDir, "test_trial"), "r6_eeg.edf", 5,
		func(data [][]float64) {
			data[0][100] = 500
			data[0][101] = 500
		})

	emotion := `{
		"train": [
			{"id": "r1", "subject_id": "s1"},
			{"id": "r2", "subject_id": "s2"}
		],
		"val_trial": [],
		"val_subject": [],
		"test_subject": []
	}`
	subject := `{"test_trial": [{"id": "r6", "subject_id": "s1"}]}`

	require.NoError(t, os.WriteFile(filepath.Join(splitDir, emotionSplitFile), []byte(emotion), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(splitDir, subjectSplitFile), []byte(subject), 0o644))

	return inputDir, splitDir
}

func quietLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func readMatrix(t *testing.T, path string) *mat.Dense {
	t.Helper()

	f, err := os.Open(path)
	require.NoError(t, err)
	defer f.Close()

	var m mat.Dense
	require.NoError(t, npyio.Read(f, &m))

	return &m
}

func TestRun(t *testing.T) {
	inputDir, splitDir := fixtureDirs(t)
	outputDir := filepath.Join(t.TempDir(), "out")

	p, err := New(Config{
		InputDir:  inputDir,
		OutputDir: outputDir,
		SplitDir:  splitDir,
		Logger:    quietLogger(),
	})
	require.NoError(t, err)

	summary, err := p.Run()
	require.NoError(t, err)

	assert.Equal(t, 2, summary.Processed)
	assert.Equal(t, 1, summary.Skipped)
	assert.Equal(t, 0, summary.Failed)
	require.Len(t, summary.Skips, 1)
	assert.Contains(t, summary.Skips[0].Path, "r6_eeg.edf")

	// Outputs mirror the input layout with the extension swapped.
	m := readMatrix(t, filepath.Join(outputDir, "train", "r1_eeg.npy"))
	rows, cols := m.Dims()
	assert.Equal(t, montage.NumChannels, rows)
	assert.Equal(t, testSamples, cols)

	for i := 0; i < rows; i++ {
		for j := 0; j < cols; j++ {
			require.False(t, math.IsNaN(m.At(i, j)), "NaN at %d/%d", i, j)
		}
	}

	// The skipped recording produced no array.
	_, err = os.Stat(filepath.Join(outputDir, "test_trial", "r6_eeg.npy"))
	assert.True(t, os.IsNotExist(err))

	// Global statistics are a mean row and a std row per channel.
	stats := readMatrix(t, filepath.Join(outputDir, "stats_global.npy"))
	rows, cols = stats.Dims()
	assert.Equal(t, 2, rows)
	assert.Equal(t, montage.NumChannels, cols)
	for c := 0; c < cols; c++ {
		assert.Greater(t, stats.At(1, c), 0.0, "std channel %d", c)
	}

	// One statistics file per train subject.
	_, err = os.Stat(filepath.Join(outputDir, "stats_s1.npy"))
	assert.NoError(t, err)
	_, err = os.Stat(filepath.Join(outputDir, "stats_s2.npy"))
	assert.NoError(t, err)
}

func TestRun_SplitBands(t *testing.T) {
	inputDir, splitDir := fixtureDirs(t)
	outputDir := filepath.Join(t.TempDir(), "out")

	p, err := New(Config{
		InputDir:   inputDir,
		OutputDir:  outputDir,
		SplitDir:   splitDir,
		SplitBands: true,
		Logger:     quietLogger(),
	})
	require.NoError(t, err)

	summary, err := p.Run()
	require.NoError(t, err)
	assert.Equal(t, 2, summary.Processed)

	for _, band := range []string{"theta", "alpha", "beta", "gamma"} {
		path := filepath.Join(outputDir, "train", "r1_eeg_"+band+".npy")
		m := readMatrix(t, path)
		rows, cols := m.Dims()
		assert.Equal(t, montage.NumChannels, rows, band)
		assert.Equal(t, testSamples, cols, band)
	}

	// Band mode replaces the broadband array rather than adding to it.
	_, err = os.Stat(filepath.Join(outputDir, "train", "r1_eeg.npy"))
	assert.True(t, os.IsNotExist(err))
}

func TestRun_MissingSplits(t *testing.T) {
	inputDir, _ := fixtureDirs(t)

	p, err := New(Config{
		InputDir:  inputDir,
		OutputDir: t.TempDir(),
		SplitDir:  t.TempDir(),
		Logger:    quietLogger(),
	})
	require.NoError(t, err)

	_, err = p.Run()
	require.Error(t, err)
}

func TestNew_RequiresDirectories(t *testing.T) {
	_, err := New(Config{})
	require.Error(t, err)
}

func TestOutputPath(t *testing.T) {
	p := &Pipeline{cfg: Config{InputDir: "in", OutputDir: "out"}}

	got, err := p.outputPath(filepath.Join("in", "train", "r1_eeg.edf"))
	require.NoError(t, err)
	assert.Equal(t, filepath.Join("out", "train", "r1_eeg.npy"), got)
}
