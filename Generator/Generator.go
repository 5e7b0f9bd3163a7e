// Package Generator writes the synthetic latency, gas and energy tables. Each step draws
// one user count, labels it with the next consensus in the cycle and appends one row to
// every table. Rows are written as they are drawn and never kept.
package Generator

import (
	"VeraoNet/Consensus"
	"VeraoNet/DB"
	"VeraoNet/ID"
	"VeraoNet/Sampler"
	"fmt"
	"io"
	"math/rand"
	"os"
	"strconv"
	"time"

	"go.uber.org/multierr"
	"go.uber.org/zap"
)

const (
	DefaultUsers = 500
	DefaultSteps = 50
	DefaultOut   = "../results"
)

// Config is fixed for the lifetime of a Generator. Validate rejects a negative Steps
// (it is not treated as a header-only run) and an empty Out (it is not treated as the
// current directory). Steps of 0 writes header-only tables.
type Config struct {
	Users int
	Steps int
	Out   string
}

func DefaultConfig() Config {
	return Config{Users: DefaultUsers, Steps: DefaultSteps, Out: DefaultOut}
}

func (c Config) Validate() error {
	if c.Steps < 0 {
		return fmt.Errorf("steps must not be negative, got %d", c.Steps)
	}
	if c.Out == "" {
		return fmt.Errorf("output directory must be set")
	}
	return nil
}

type Generator struct {
	logger  *zap.SugaredLogger
	cfg     Config
	runID   ID.RunID
	sampler *Sampler.Sampler
	out     io.Writer
	history *DB.History

	Paths []string
	Tally Tally
}

func NewGenerator(logger *zap.SugaredLogger, cfg Config, runID ID.RunID, rng *rand.Rand, out io.Writer) *Generator {
	return &Generator{
		logger:  logger,
		cfg:     cfg,
		runID:   runID,
		sampler: Sampler.NewSampler(rng),
		out:     out,
		Tally:   make(Tally),
	}
}

// WithHistory records every finished run in h
func (g *Generator) WithHistory(h *DB.History) *Generator {
	g.history = h
	return g
}

func (g *Generator) Run() error {

	if err := g.cfg.Validate(); err != nil {
		return err
	}

	started := time.Now()
	g.logger.Infow("generation started", "users", g.cfg.Users, "steps", g.cfg.Steps, "out", g.cfg.Out)

	if err := os.MkdirAll(g.cfg.Out, 0o755); err != nil {
		return fmt.Errorf("creating output directory: %w", err)
	}

	if err := g.emit(); err != nil {
		return err
	}

	fmt.Fprintf(g.out, "[OK] Wrote:\n  - %s\n  - %s\n  - %s\n", g.Paths[0], g.Paths[1], g.Paths[2])
	g.logTally()

	if g.history != nil {
		if err := g.history.AddRun(g.record(started)); err != nil {
			return fmt.Errorf("recording run history: %w", err)
		}
	}
	return nil

}

func (g *Generator) emit() (err error) {

	ts, err := openTables(g.cfg.Out)
	if err != nil {
		return err
	}
	defer func() {
		err = multierr.Append(err, ts.close())
	}()
	g.Paths = ts.paths()

	for i := 1; i <= g.cfg.Steps; i++ {
		if err = g.step(ts, i); err != nil {
			return err
		}
	}
	return nil
}

func (g *Generator) step(ts *tables, i int) error {

	users := g.sampler.SampleUsers(g.cfg.Users)
	row := g.sampler.SampleRow(users)
	consensus := Consensus.ForStep(i)

	lat := g.sampler.Latency(consensus, row.LatencyMS)
	if err := ts.latency.writeRow(i, consensus, users, strconv.Itoa(lat)); err != nil {
		return err
	}

	gas := g.sampler.Gas(consensus)
	if err := ts.gas.writeRow(i, consensus, users, strconv.Itoa(gas)); err != nil {
		return err
	}

	energy := g.sampler.Energy(consensus)
	if err := ts.energy.writeRow(i, consensus, users, strconv.FormatFloat(energy, 'f', -1, 64)); err != nil {
		return err
	}

	g.logger.Debugw("step", "test", i, "consensus", consensus, "users", users,
		"baseLatency", row.LatencyMS, "latency", lat, "gas", gas, "energy", energy)
	g.Tally.add(consensus, users, lat, gas, energy)
	return nil

}

func (g *Generator) logTally() {

	for _, l := range Consensus.Cycle {
		lt, ok := g.Tally[l]
		if !ok {
			continue
		}
		g.logger.Infow("consensus summary",
			"consensus", l,
			"rows", lt.Latency.Count,
			"meanUsers", lt.Users.Mean(),
			"meanLatencyMs", lt.Latency.Mean(),
			"maxLatencyMs", lt.Latency.Max,
			"meanGasGwei", lt.Gas.Mean(),
			"meanEnergy", lt.Energy.Mean(),
		)
	}

}

func (g *Generator) record(started time.Time) *DB.RunRecord {

	rec := &DB.RunRecord{
		ID:       g.runID.String(),
		Started:  started.UnixNano(),
		Finished: time.Now().UnixNano(),
		Users:    g.cfg.Users,
		Steps:    g.cfg.Steps,
		Out:      g.cfg.Out,
		Paths:    g.Paths,
		Labels:   make(map[string]DB.LabelStats, len(g.Tally)),
	}
	for l, lt := range g.Tally {
		rec.Labels[string(l)] = DB.LabelStats{
			Rows:        lt.Latency.Count,
			MeanUsers:   lt.Users.Mean(),
			MeanLatency: lt.Latency.Mean(),
			MeanGas:     lt.Gas.Mean(),
			MeanEnergy:  lt.Energy.Mean(),
		}
	}
	return rec

}
