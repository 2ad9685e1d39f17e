package record

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/OpenTraceLab/OpenTraceDISCON/pkg/avrswap"
)

func sampleStep(n int) Step {
	st := avrswap.TurbineState{
		Time:                float64(n) * 0.1,
		TimeStep:            0.1,
		BladePitch:          0.01,
		GeneratorSpeed:      100,
		GeneratorTorque:     30000,
		GeneratorEfficiency: 0.94,
		RotorSpeed:          1.03,
		WindSpeed:           9.5,
	}
	out := avrswap.ControlOutput{Torque: 31000, Pitch: 0.02, NacelleYawRate: 0}
	return NewStep(n, st, out, 0, "")
}

func TestRecordAndReadBack(t *testing.T) {
	r, err := New(filepath.Join(t.TempDir(), "run"))
	require.NoError(t, err)
	defer r.Close()

	assert.True(t, strings.HasSuffix(r.Path(), ".sqlite3"))

	for i := 0; i < 3; i++ {
		require.NoError(t, r.Record(sampleStep(i)))
	}

	steps, err := r.Steps()
	require.NoError(t, err)
	require.Len(t, steps, 3)
	assert.Equal(t, sampleStep(2), steps[2])
}

func TestBatchFlush(t *testing.T) {
	r, err := New(filepath.Join(t.TempDir(), "batch.db"))
	require.NoError(t, err)
	defer r.Close()

	r.SetBatchSize(2)
	require.NoError(t, r.Record(sampleStep(0)))
	assert.Len(t, r.pending, 1)
	require.NoError(t, r.Record(sampleStep(1)))
	assert.Empty(t, r.pending)
}

func TestStatusAndMessageStored(t *testing.T) {
	r, err := New(filepath.Join(t.TempDir(), "fail"))
	require.NoError(t, err)
	defer r.Close()

	s := sampleStep(0)
	s.Status = -1
	s.Message = "ERROR"
	require.NoError(t, r.Record(s))

	steps, err := r.Steps()
	require.NoError(t, err)
	require.Len(t, steps, 1)
	assert.Equal(t, int32(-1), steps[0].Status)
	assert.Equal(t, "ERROR", steps[0].Message)
}

func TestRefusesExistingFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "exists.sqlite3")
	require.NoError(t, os.WriteFile(path, nil, 0o644))

	_, err := New(path)
	assert.Error(t, err)
}

func TestCloseFlushesAndRejectsRecord(t *testing.T) {
	path := filepath.Join(t.TempDir(), "close.sqlite3")
	r, err := New(path)
	require.NoError(t, err)

	require.NoError(t, r.Record(sampleStep(0)))
	require.NoError(t, r.Close())
	require.NoError(t, r.Close())
	assert.Error(t, r.Record(sampleStep(1)))

	info, err := os.Stat(path)
	require.NoError(t, err)
	assert.Greater(t, info.Size(), int64(0))
}

func TestDefaultNameIsUnique(t *testing.T) {
	a, b := DefaultName(), DefaultName()
	assert.True(t, strings.HasPrefix(a, "discon_run_"))
	assert.NotEqual(t, a, b)
}
