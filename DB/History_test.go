package DB

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func openTemp(t *testing.T) *History {
	t.Helper()
	h, err := OpenHistory(filepath.Join(t.TempDir(), "history.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = h.Close() })
	return h
}

func TestLatestOnEmptyHistory(t *testing.T) {
	h := openTemp(t)

	_, err := h.Latest()
	assert.ErrorIs(t, err, ErrNoRuns)
}

func TestAddRunAndLatest(t *testing.T) {
	h := openTemp(t)

	first := &RunRecord{ID: "1-100", Started: 100, Finished: 300, Users: 500, Steps: 4, Out: "out",
		Paths:  []string{"out/latency_results.csv"},
		Labels: map[string]LabelStats{"PoW": {Rows: 1, MeanLatency: 420}},
	}
	second := &RunRecord{ID: "2-200", Users: 10, Steps: 0, Out: "other"}

	require.NoError(t, h.AddRun(first))
	require.NoError(t, h.AddRun(second))

	latest, err := h.Latest()
	require.NoError(t, err)
	assert.Equal(t, "2-200", latest.ID)
	assert.Equal(t, "other", latest.Out)

	var ids []string
	require.NoError(t, h.Runs(func(rr *RunRecord) bool {
		ids = append(ids, rr.ID)
		if rr.ID == "1-100" {
			assert.Equal(t, 420.0, rr.Labels["PoW"].MeanLatency)
			assert.Equal(t, int64(200), rr.Duration().Nanoseconds())
		}
		return true
	}))
	assert.Equal(t, []string{"1-100", "2-200"}, ids)
}

func TestAddRunKeepsRunsSharingAnID(t *testing.T) {
	h := openTemp(t)

	require.NoError(t, h.AddRun(&RunRecord{ID: "9-1700000000", Steps: 3}))
	require.NoError(t, h.AddRun(&RunRecord{ID: "9-1700000000", Steps: 5}))

	var steps []int
	var seqs []uint64
	require.NoError(t, h.Runs(func(rr *RunRecord) bool {
		steps = append(steps, rr.Steps)
		seqs = append(seqs, rr.Seq)
		return true
	}))
	assert.Equal(t, []int{3, 5}, steps)
	assert.Equal(t, []uint64{1, 2}, seqs)

	latest, err := h.Latest()
	require.NoError(t, err)
	assert.Equal(t, 5, latest.Steps)
}

func TestRunsStopsEarly(t *testing.T) {
	h := openTemp(t)
	for _, id := range []string{"1-1", "2-2", "3-3"} {
		require.NoError(t, h.AddRun(&RunRecord{ID: id}))
	}

	seen := 0
	require.NoError(t, h.Runs(func(*RunRecord) bool {
		seen++
		return false
	}))
	assert.Equal(t, 1, seen)
}

func TestHistoryReopen(t *testing.T) {
	path := filepath.Join(t.TempDir(), "history.db")

	h, err := OpenHistory(path)
	require.NoError(t, err)
	require.NoError(t, h.AddRun(&RunRecord{ID: "5-50", Steps: 7}))
	require.NoError(t, h.Close())

	h, err = OpenHistory(path)
	require.NoError(t, err)
	defer h.Close()

	latest, err := h.Latest()
	require.NoError(t, err)
	assert.Equal(t, 7, latest.Steps)
}
