package Metrics

import (
	"encoding/csv"
	"fmt"
	"math/rand"
	"os"
	"strconv"
	"strings"
	"unicode"
)

// NodeMetrics is one load observation. Test is only set when the observation was
// read from a CSV with a Test column.
type NodeMetrics struct {
	Test             string
	ActiveUsers      int
	ThroughputTPS    float64
	LatencyMS        int
	EnergyNormalized float64
}

// MetricsSource yields observations until it returns io.EOF
type MetricsSource interface {
	Next() (NodeMetrics, error)
	Close() error
}

/* -------------------- randomSource -------------------- */

type randomSource struct {
	rng *rand.Rand
}

// NewRandomSource draws unrelated observations over the whole load range
func NewRandomSource(rng *rand.Rand) MetricsSource {
	return &randomSource{rng: rng}
}

func (r *randomSource) Next() (NodeMetrics, error) {

	active := r.rng.Intn(12000)
	var tps float64
	switch {
	case active < 500:
		tps = float64(50 + r.rng.Intn(120))
	case active < 5000:
		tps = float64(200 + r.rng.Intn(400))
	default:
		tps = float64(500 + r.rng.Intn(900))
	}

	return NodeMetrics{
		ActiveUsers:      active,
		ThroughputTPS:    tps,
		LatencyMS:        80 + r.rng.Intn(1400),
		EnergyNormalized: r.rng.Float64(),
	}, nil
}

func (r *randomSource) Close() error { return nil }

/* -------------------- csvSource -------------------- */

// column keys after normalize
const (
	colActiveUsers = "activeusers"
	colTPS         = "throughputtps"
	colLatency     = "latencyms"
	colEnergy      = "energynormalized"

	colTest         = "test"
	colUsers        = "users"
	colLatencyTable = "latency_ms"
)

var (
	nodeMetricsColumns  = []string{colActiveUsers, colTPS, colLatency, colEnergy}
	latencyTableColumns = []string{colTest, colUsers, colLatencyTable}
)

type csvSource struct {
	file   *os.File
	reader *csv.Reader
	colIx  map[string]int
	// latency tables only carry users and latency
	latencyTable bool
}

// NewCSVSource opens either a NodeMetrics CSV (ActiveUsers, ThroughputTPS, LatencyMS,
// EnergyNormalized in any order) or a generated latency table
// (Test, Consensus, Users, Latency_ms)
func NewCSVSource(path string) (MetricsSource, error) {

	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	r := csv.NewReader(f)
	r.ReuseRecord = true

	header, err := r.Read()
	if err != nil {
		f.Close()
		return nil, fmt.Errorf("csv read header: %w", err)
	}
	colIx := map[string]int{}
	for i, h := range header {
		colIx[normalize(h)] = i
	}

	required := nodeMetricsColumns
	latencyTable := isLatencyTable(colIx)
	if latencyTable {
		required = latencyTableColumns
	}
	for _, need := range required {
		if _, ok := colIx[need]; !ok {
			f.Close()
			return nil, fmt.Errorf("missing CSV column: %s", need)
		}
	}

	return &csvSource{file: f, reader: r, colIx: colIx, latencyTable: latencyTable}, nil
}

// isLatencyTable reports a generated latency table: Test, Users and Latency_ms
// without an ActiveUsers column
func isLatencyTable(colIx map[string]int) bool {

	if _, ok := colIx[colActiveUsers]; ok {
		return false
	}
	for _, col := range latencyTableColumns {
		if _, ok := colIx[col]; !ok {
			return false
		}
	}
	return true

}

func (c *csvSource) Next() (NodeMetrics, error) {

	rec, err := c.reader.Read()
	if err != nil {
		return NodeMetrics{}, err
	}
	get := func(key string) string { return strings.TrimSpace(rec[c.colIx[key]]) }

	if c.latencyTable {
		users, err := strconv.Atoi(get(colUsers))
		if err != nil {
			return NodeMetrics{}, fmt.Errorf("parse Users: %w", err)
		}
		lat, err := strconv.Atoi(get(colLatencyTable))
		if err != nil {
			return NodeMetrics{}, fmt.Errorf("parse Latency_ms: %w", err)
		}
		return NodeMetrics{Test: get(colTest), ActiveUsers: users, LatencyMS: lat}, nil
	}

	active, err := strconv.Atoi(get(colActiveUsers))
	if err != nil {
		return NodeMetrics{}, fmt.Errorf("parse ActiveUsers: %w", err)
	}
	tps, err := strconv.ParseFloat(get(colTPS), 64)
	if err != nil {
		return NodeMetrics{}, fmt.Errorf("parse ThroughputTPS: %w", err)
	}
	lat, err := strconv.Atoi(get(colLatency))
	if err != nil {
		return NodeMetrics{}, fmt.Errorf("parse LatencyMS: %w", err)
	}
	energy, err := strconv.ParseFloat(get(colEnergy), 64)
	if err != nil {
		return NodeMetrics{}, fmt.Errorf("parse EnergyNormalized: %w", err)
	}

	m := NodeMetrics{
		ActiveUsers:      active,
		ThroughputTPS:    tps,
		LatencyMS:        lat,
		EnergyNormalized: energy,
	}
	if _, ok := c.colIx[colTest]; ok {
		m.Test = get(colTest)
	}
	return m, nil
}

func (c *csvSource) Close() error {
	if c.file != nil {
		return c.file.Close()
	}
	return nil
}

func normalize(s string) string {
	return strings.Map(func(r rune) rune {
		if unicode.IsSpace(r) {
			return -1
		}
		return unicode.ToLower(r)
	}, s)
}
