package rope

import (
	"bytes"
	"log/slog"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuildObserver(t *testing.T) {
	var events []BuildProgress
	observe := func(p BuildProgress) {
		events = append(events, p)
	}

	// 10 leaves of 6 symbols, joined in 4 levels: 10, 5, 3, 2, 1.
	r, err := FromString(strings.Repeat("x", 60), WithThresholds(8, 4), WithBuildObserver(observe))
	require.NoError(t, err)
	assert.Equal(t, 10, r.LeafCount())

	var leaves, levels []BuildProgress
	for _, e := range events {
		switch e.Phase {
		case BuildLeaves:
			leaves = append(leaves, e)
		case BuildLevels:
			levels = append(levels, e)
		}
	}
	require.Len(t, leaves, 10)
	require.Len(t, levels, 4)
	assert.Equal(t, BuildProgress{Phase: BuildLeaves, Done: 10, Total: 10}, leaves[9])
	assert.Equal(t, BuildProgress{Phase: BuildLevels, Done: 4, Total: 4}, levels[3])
}

func TestBuildObserverNotCalledForEdits(t *testing.T) {
	calls := 0
	r, err := FromString("abc", WithThresholds(8, 4), WithBuildObserver(func(BuildProgress) { calls++ }))
	require.NoError(t, err)
	built := calls

	require.NoError(t, r.Insert(Offset(1), "x"))
	assert.Equal(t, built, calls)
}

func TestBuildPhaseString(t *testing.T) {
	assert.Equal(t, "leaves", BuildLeaves.String())
	assert.Equal(t, "levels", BuildLevels.String())
	assert.Equal(t, "unknown", BuildPhase(9).String())
}

func TestLogProgress(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug}))

	_, err := FromString(strings.Repeat("y", 600), WithThresholds(8, 4), WithLogger(logger))
	require.NoError(t, err)

	out := buf.String()
	assert.Contains(t, out, "rope build progress")
	assert.Contains(t, out, "phase=leaves")
	assert.Contains(t, out, "phase=levels")
	assert.Contains(t, out, "done=100 total=100")

	// 100 leaves are reported once per tenth, not once per leaf.
	assert.Less(t, strings.Count(out, "phase=leaves"), 20)
}

func TestLogProgressQuietAboveDebug(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelInfo}))

	_, err := FromString(strings.Repeat("y", 600), WithThresholds(8, 4), WithLogger(logger))
	require.NoError(t, err)
	assert.Empty(t, buf.String())
}
