// Package Switch runs the adaptive consensus policy over a stream of metrics
package Switch

import (
	"VeraoNet/Consensus"
	"VeraoNet/Metrics"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strconv"
	"time"

	"go.uber.org/multierr"
	"go.uber.org/zap"
)

var DecisionsHeader = []string{"Test", "Users", "Latency_ms", "SelectedConsensus"}

// ErrNoMetrics is returned when a single decision is requested from an empty source
var ErrNoMetrics = errors.New("metrics source is empty")

type Config struct {
	Thresholds Consensus.Thresholds
	// Interval <= 0 means a single decision (or a full replay)
	Interval time.Duration
	Oneshot  bool
	// Replay decides on every observation until the source is exhausted
	Replay bool
	// Decisions is an optional CSV path every decision is appended to
	Decisions string
}

type Switcher struct {
	logger   *zap.SugaredLogger
	cfg      Config
	source   Metrics.MetricsSource
	out      io.Writer
	commands <-chan string

	decisions *csv.Writer
	taken     int

	Summary *Summary
}

func NewSwitcher(logger *zap.SugaredLogger, cfg Config, source Metrics.MetricsSource, out io.Writer) *Switcher {
	return &Switcher{
		logger:  logger,
		cfg:     cfg,
		source:  source,
		out:     out,
		Summary: NewSummary(DefaultWindow),
	}
}

// WithCommands lets an interval run be driven from the terminal: decide/d, stats/s,
// quit/q
func (s *Switcher) WithCommands(cli <-chan string) *Switcher {
	s.commands = cli
	return s
}

func (s *Switcher) Run() (err error) {

	if err := s.cfg.Thresholds.Validate(); err != nil {
		return err
	}

	if s.cfg.Decisions != "" {
		file, cerr := os.Create(s.cfg.Decisions)
		if cerr != nil {
			return fmt.Errorf("creating decisions file: %w", cerr)
		}
		s.decisions = csv.NewWriter(file)
		defer func() {
			s.decisions.Flush()
			err = multierr.Combine(err, s.decisions.Error(), file.Close())
		}()
		if err := s.decisions.Write(DecisionsHeader); err != nil {
			return fmt.Errorf("writing decisions header: %w", err)
		}
	}
	defer s.logSummary()

	t := s.cfg.Thresholds
	fmt.Fprintf(s.out, "Using thresholds: low=%d med=%d high=%d latency_thr=%dms energy_thr=%.2f\n",
		t.LowLoad, t.MediumLoad, t.HighLoad, t.LatencyThreshold, t.EnergyThreshold)

	switch {
	case s.cfg.Replay && (s.cfg.Interval <= 0 || s.cfg.Oneshot):
		return s.replay()
	case s.cfg.Interval <= 0 || s.cfg.Oneshot:
		err := s.decide()
		if errors.Is(err, io.EOF) {
			return ErrNoMetrics
		}
		return err
	default:
		return s.loop()
	}

}

func (s *Switcher) replay() error {

	for {
		if err := s.decide(); err != nil {
			if errors.Is(err, io.EOF) {
				s.logger.Infow("replay finished", "decisions", s.taken)
				return nil
			}
			return err
		}
	}

}

func (s *Switcher) loop() error {

	ticker := time.NewTicker(s.cfg.Interval)
	defer ticker.Stop()
	done := make(chan os.Signal, 1)
	signal.Notify(done, os.Interrupt)
	defer signal.Stop(done)

	commands := s.commands
	for {
		select {
		case <-ticker.C:
			if stop := s.tick(); stop {
				return nil
			}
		case cmd, ok := <-commands:
			if !ok {
				commands = nil
				continue
			}
			switch cmd {
			case "decide", "d":
				if stop := s.tick(); stop {
					return nil
				}
			case "stats", "s":
				s.logSummary()
			case "quit", "q", "exit":
				s.logger.Infow("quit requested")
				return nil
			default:
				s.logger.Warnw("unknown command", "command", cmd)
			}
		case <-done:
			fmt.Fprintln(s.out, "\nreceived interrupt, exiting.")
			return nil
		}
	}

}

// tick takes one decision in interval mode and reports whether the source is done
func (s *Switcher) tick() bool {

	err := s.decide()
	switch {
	case err == nil:
		return false
	case errors.Is(err, io.EOF):
		s.logger.Infow("metrics source exhausted", "decisions", s.taken)
		return true
	default:
		s.logger.Warnw("metrics read error", "error", err)
		return false
	}

}

func (s *Switcher) decide() error {

	m, err := s.source.Next()
	if err != nil {
		return err
	}

	label, why := Consensus.Decide(m, s.cfg.Thresholds)
	s.taken++
	s.Summary.Add(label, m)

	test := m.Test
	if test == "" {
		test = strconv.Itoa(s.taken)
	}
	s.printDecision(test, m, label, why)

	if s.decisions != nil {
		record := []string{test, strconv.Itoa(m.ActiveUsers), strconv.Itoa(m.LatencyMS), string(label)}
		if err := s.decisions.Write(record); err != nil {
			return fmt.Errorf("writing decision %s: %w", test, err)
		}
	}
	return nil

}

func (s *Switcher) printDecision(test string, m Metrics.NodeMetrics, c Consensus.Label, why string) {
	fmt.Fprintf(s.out,
		"\n[VERAONET] decision %s @ %s\n"+
			"   users=%d  tps=%.1f  latency_ms=%d  energy_norm=%.2f\n"+
			"   -> SELECTED CONSENSUS: %s\n   reason: %s\n",
		test, time.Now().Format(time.RFC3339),
		m.ActiveUsers, m.ThroughputTPS, m.LatencyMS, m.EnergyNormalized,
		c, why,
	)
}

func (s *Switcher) logSummary() {

	reports, err := s.Summary.Report()
	if err != nil {
		s.logger.Warnw("summarising decisions", "error", err)
		return
	}
	for _, r := range reports {
		s.logger.Infow("decision summary",
			"consensus", r.Label,
			"decisions", r.Decisions,
			"meanLatencyMs", r.MeanLatency,
			"medianLatencyMs", r.MedianLatency,
			"p95LatencyMs", r.P95Latency,
			"meanUsers", r.MeanUsers,
		)
	}

}
