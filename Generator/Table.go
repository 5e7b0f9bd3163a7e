package Generator

import (
	"VeraoNet/Consensus"
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	"go.uber.org/multierr"
)

const (
	LatencyFile = "latency_results.csv"
	GasFile     = "gas_usage.csv"
	EnergyFile  = "energy_comparison.csv"
)

var (
	LatencyHeader = []string{"Test", "Consensus", "Users", "Latency_ms"}
	GasHeader     = []string{"Test", "Consensus", "Users", "Gas_gwei"}
	EnergyHeader  = []string{"Test", "Consensus", "Users", "EnergyNormalized"}
)

// table is one output CSV, truncated on open
type table struct {
	path   string
	file   *os.File
	writer *csv.Writer
}

func openTable(path string, header []string) (*table, error) {

	file, err := os.Create(path)
	if err != nil {
		return nil, fmt.Errorf("creating %s: %w", path, err)
	}

	t := &table{path: path, file: file, writer: csv.NewWriter(file)}
	if err := t.writer.Write(header); err != nil {
		_ = file.Close()
		return nil, fmt.Errorf("writing header of %s: %w", path, err)
	}
	return t, nil
}

func (t *table) writeRow(step int, label Consensus.Label, users int, value string) error {

	record := []string{strconv.Itoa(step), string(label), strconv.Itoa(users), value}
	if err := t.writer.Write(record); err != nil {
		return fmt.Errorf("writing step %d to %s: %w", step, t.path, err)
	}
	return nil
}

// close flushes buffered rows before closing the file
func (t *table) close() error {

	t.writer.Flush()
	err := t.writer.Error()
	if err != nil {
		err = fmt.Errorf("flushing %s: %w", t.path, err)
	}
	return multierr.Append(err, t.file.Close())
}

// tables owns the three outputs of a run
type tables struct {
	latency, gas, energy *table
}

func openTables(dir string) (ts *tables, err error) {

	ts = &tables{}
	defer func() {
		if err != nil {
			err = multierr.Append(err, ts.close())
			ts = nil
		}
	}()

	if ts.latency, err = openTable(filepath.Join(dir, LatencyFile), LatencyHeader); err != nil {
		return
	}
	if ts.gas, err = openTable(filepath.Join(dir, GasFile), GasHeader); err != nil {
		return
	}
	ts.energy, err = openTable(filepath.Join(dir, EnergyFile), EnergyHeader)
	return
}

func (ts *tables) close() error {

	var err error
	for _, t := range []*table{ts.latency, ts.gas, ts.energy} {
		if t != nil {
			err = multierr.Append(err, t.close())
		}
	}
	return err
}

func (ts *tables) paths() []string {
	return []string{ts.latency.path, ts.gas.path, ts.energy.path}
}
