package storage

import (
	"bytes"
	"context"
	"encoding/json"
	"math"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/san-kum/threebody/internal/config"
	"github.com/san-kum/threebody/internal/integrators"
	"github.com/san-kum/threebody/internal/metrics"
	"github.com/san-kum/threebody/internal/sim"
)

func runBatch(t *testing.T) (*config.Config, *sim.Result) {
	t.Helper()
	cfg := config.GetPreset("trisolaris")
	cfg.Batch.End = 50 * cfg.Batch.Dt

	initial, err := cfg.System()
	require.NoError(t, err)

	b := sim.New(integrators.NewSemiImplicitEuler(cfg.Law()), zap.NewNop())
	for _, m := range metrics.Defaults() {
		b.AddMetric(m)
	}
	result, err := b.Run(context.Background(), initial, cfg.BatchConfig())
	require.NoError(t, err)
	return cfg, result
}

func masses(cfg *config.Config) [3]float64 {
	var m [3]float64
	for i, b := range cfg.Bodies {
		m[i] = b.Mass
	}
	return m
}

func TestStoreSaveLoad(t *testing.T) {
	st := New(t.TempDir())
	require.NoError(t, st.Init())

	cfg, result := runBatch(t)
	runID, err := st.Save(cfg.Name, cfg.G, masses(cfg), cfg.Colors(), cfg.BatchConfig(), result)
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(runID, "trisolaris_"))

	meta, err := st.Load(runID)
	require.NoError(t, err)
	assert.Equal(t, runID, meta.ID)
	assert.Equal(t, 50, meta.Frames)
	assert.Equal(t, cfg.Batch.Dt, meta.Dt)
	assert.Equal(t, cfg.Colors(), meta.Colors)
	assert.Equal(t, result.Metrics["min_separation"], meta.Metrics["min_separation"])

	buf, err := st.LoadTrajectory(runID)
	require.NoError(t, err)
	assert.True(t, buf.Complete())
	assert.Equal(t, result.Trajectory.Frames(), buf.Frames())
}

func TestStoreSave_UniqueIDs(t *testing.T) {
	st := New(t.TempDir())
	require.NoError(t, st.Init())

	cfg, result := runBatch(t)
	a, err := st.Save(cfg.Name, cfg.G, masses(cfg), cfg.Colors(), cfg.BatchConfig(), result)
	require.NoError(t, err)
	b, err := st.Save(cfg.Name, cfg.G, masses(cfg), cfg.Colors(), cfg.BatchConfig(), result)
	require.NoError(t, err)
	assert.NotEqual(t, a, b)
}

func TestStoreList(t *testing.T) {
	dir := t.TempDir()
	st := New(dir)
	require.NoError(t, st.Init())

	runs, err := st.List()
	require.NoError(t, err)
	assert.Empty(t, runs)

	cfg, result := runBatch(t)
	for i := 0; i < 3; i++ {
		_, err := st.Save(cfg.Name, cfg.G, masses(cfg), cfg.Colors(), cfg.BatchConfig(), result)
		require.NoError(t, err)
	}
	require.NoError(t, os.MkdirAll(filepath.Join(dir, "not-a-run"), 0755))

	runs, err = st.List()
	require.NoError(t, err)
	require.Len(t, runs, 3)
	for i := 1; i < len(runs); i++ {
		assert.False(t, runs[i].Timestamp.Before(runs[i-1].Timestamp), "runs must be listed oldest first")
	}
}

func TestWriteJSON(t *testing.T) {
	path := filepath.Join(t.TempDir(), metadataFile)
	require.NoError(t, writeJSON(path, RunMetadata{ID: "run"}))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	var meta RunMetadata
	require.NoError(t, json.Unmarshal(data, &meta))
	assert.Equal(t, "run", meta.ID)

	assert.Error(t, writeJSON(path, map[string]float64{"bad": math.NaN()}))
	assert.Error(t, writeJSON(filepath.Join(t.TempDir(), "missing", metadataFile), meta))
}

func TestStoreList_MissingDir(t *testing.T) {
	runs, err := New(filepath.Join(t.TempDir(), "nope")).List()
	require.NoError(t, err)
	assert.Empty(t, runs)
}

func TestLoadTrajectory_Corrupt(t *testing.T) {
	dir := t.TempDir()
	st := New(dir)
	require.NoError(t, os.MkdirAll(filepath.Join(dir, "bad"), 0755))

	path := filepath.Join(dir, "bad", trajectoryFile)
	require.NoError(t, os.WriteFile(path, []byte(strings.Join(csvHeader, ",")+"\n"), 0644))
	_, err := st.LoadTrajectory("bad")
	assert.Error(t, err)

	require.NoError(t, os.WriteFile(path, []byte(strings.Join(csvHeader, ",")+"\n0,1,2,3,4,5,6,7,8,x\n"), 0644))
	_, err = st.LoadTrajectory("bad")
	assert.Error(t, err)
}

func TestWriteCSV(t *testing.T) {
	_, result := runBatch(t)

	var out bytes.Buffer
	require.NoError(t, WriteCSV(&out, result.Trajectory.Frames()[:2]))

	lines := strings.Split(strings.TrimSpace(out.String()), "\n")
	require.Len(t, lines, 3)
	assert.Equal(t, "time,b0x,b0y,b0z,b1x,b1y,b1z,b2x,b2y,b2z", lines[0])
	assert.True(t, strings.HasPrefix(lines[1], "0,1.5e+11,0,0,"))
}

func TestExportJSON(t *testing.T) {
	_, result := runBatch(t)

	var out bytes.Buffer
	meta := RunMetadata{ID: "run", Name: "trisolaris"}
	require.NoError(t, ExportJSON(&out, meta, result.Trajectory))

	var data ExportData
	require.NoError(t, json.Unmarshal(out.Bytes(), &data))
	assert.Equal(t, "run", data.Run.ID)
	assert.Len(t, data.Times, 50)
	assert.Len(t, data.Positions, 50)
	assert.Equal(t, 1.5e11, data.Positions[0][0])
}
