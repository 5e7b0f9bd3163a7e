package Metrics

import (
	"io"
	"math/rand"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeCSV(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "metrics.csv")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))
	return path
}

func TestRandomSourceRanges(t *testing.T) {
	src := NewRandomSource(rand.New(rand.NewSource(1)))
	defer src.Close()

	for i := 0; i < 500; i++ {
		m, err := src.Next()
		require.NoError(t, err)
		assert.GreaterOrEqual(t, m.ActiveUsers, 0)
		assert.Less(t, m.ActiveUsers, 12000)
		assert.GreaterOrEqual(t, m.LatencyMS, 80)
		assert.Less(t, m.LatencyMS, 1480)
		assert.GreaterOrEqual(t, m.EnergyNormalized, 0.0)
		assert.Less(t, m.EnergyNormalized, 1.0)
		switch {
		case m.ActiveUsers < 500:
			assert.True(t, m.ThroughputTPS >= 50 && m.ThroughputTPS < 170)
		case m.ActiveUsers < 5000:
			assert.True(t, m.ThroughputTPS >= 200 && m.ThroughputTPS < 600)
		default:
			assert.True(t, m.ThroughputTPS >= 500 && m.ThroughputTPS < 1400)
		}
	}
}

func TestCSVSourceNodeMetrics(t *testing.T) {
	path := writeCSV(t, "LatencyMS, Active Users,EnergyNormalized,throughputTPS\n640,1200,0.62,380.5\n90, 40 ,0.1,55\n")

	src, err := NewCSVSource(path)
	require.NoError(t, err)
	defer src.Close()

	m, err := src.Next()
	require.NoError(t, err)
	assert.Equal(t, NodeMetrics{ActiveUsers: 1200, ThroughputTPS: 380.5, LatencyMS: 640, EnergyNormalized: 0.62}, m)

	m, err = src.Next()
	require.NoError(t, err)
	assert.Equal(t, 40, m.ActiveUsers)

	_, err = src.Next()
	assert.ErrorIs(t, err, io.EOF)
}

func TestCSVSourceLatencyTable(t *testing.T) {
	path := writeCSV(t, "Test,Consensus,Users,Latency_ms\n1,PoW,512,433\n2,APoW,488,301\n")

	src, err := NewCSVSource(path)
	require.NoError(t, err)
	defer src.Close()

	m, err := src.Next()
	require.NoError(t, err)
	assert.Equal(t, NodeMetrics{Test: "1", ActiveUsers: 512, LatencyMS: 433}, m)

	m, err = src.Next()
	require.NoError(t, err)
	assert.Equal(t, "2", m.Test)
	assert.Equal(t, 301, m.LatencyMS)
}

func TestCSVSourceNodeMetricsWithTestColumn(t *testing.T) {
	path := writeCSV(t, "Test,ActiveUsers,ThroughputTPS,LatencyMS,EnergyNormalized\n7,1200,380.5,640,0.62\n")

	src, err := NewCSVSource(path)
	require.NoError(t, err)
	defer src.Close()

	m, err := src.Next()
	require.NoError(t, err)
	assert.Equal(t, NodeMetrics{Test: "7", ActiveUsers: 1200, ThroughputTPS: 380.5, LatencyMS: 640, EnergyNormalized: 0.62}, m)
}

func TestCSVSourcePartialLatencyTableRejected(t *testing.T) {
	// a Test column alone does not make a latency table
	path := writeCSV(t, "Test,Consensus,Users\n1,PoW,512\n")

	_, err := NewCSVSource(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "activeusers")
}

func TestCSVSourceMissingColumn(t *testing.T) {
	path := writeCSV(t, "ActiveUsers,ThroughputTPS,LatencyMS\n1,2,3\n")

	_, err := NewCSVSource(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "energynormalized")
}

func TestCSVSourceParseError(t *testing.T) {
	path := writeCSV(t, "Test,Consensus,Users,Latency_ms\n1,PoW,many,433\n")

	src, err := NewCSVSource(path)
	require.NoError(t, err)
	defer src.Close()

	_, err = src.Next()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "Users")
}

func TestCSVSourceMissingFile(t *testing.T) {
	_, err := NewCSVSource(filepath.Join(t.TempDir(), "absent.csv"))
	assert.Error(t, err)
}
