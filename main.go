package main

import (
	"VeraoNet/CLI"
	"VeraoNet/Config"
	"VeraoNet/Consensus"
	"VeraoNet/DB"
	"VeraoNet/Generator"
	"VeraoNet/ID"
	"VeraoNet/Log"
	"VeraoNet/Metrics"
	"VeraoNet/Switch"
	"fmt"
	"math/rand"
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/pflag"
)

var (
	mode = pflag.StringP("mode",
		"m",
		"generate",
		"what to run, generate: write the metric tables, switch: run the adaptive consensus switcher")
	users = pflag.IntP("users",
		"u",
		Generator.DefaultUsers,
		"mean of the per-step user sampling")
	steps = pflag.IntP("steps",
		"s",
		Generator.DefaultSteps,
		"number of rows per output table")
	out = pflag.StringP("out",
		"o",
		Generator.DefaultOut,
		"output directory, created if absent")
	seed = pflag.Int64("seed",
		0,
		"seed for the random generator, 0 seeds from the clock")
	configPath = pflag.StringP("config",
		"c",
		"",
		"optional run config file (.toml, .yaml, .json)")
	loggerLevel = pflag.IntP("loggerLevel",
		"l",
		0,
		"the log level, 0: info, 1: debug")
	logFile = pflag.String("logFile",
		"",
		"write logs to this rotating file instead of stderr")
	history = pflag.String("history",
		"",
		"bolt database recording every generator run")

	thresholdsPath = pflag.String("thresholds",
		"",
		"switch: thresholds file (.toml, .yaml, .json)")
	interval = pflag.Int("interval",
		0,
		"switch: seconds between decisions, 0 takes a single decision")
	oneshot = pflag.Bool("oneshot",
		false,
		"switch: take a single decision and exit")
	replay = pflag.Bool("replay",
		false,
		"switch: decide on every row of --metricsCSV")
	metricsCSV = pflag.String("metricsCSV",
		"",
		"switch: CSV to read metrics from instead of the random source")
	decisions = pflag.String("decisions",
		"",
		"switch: CSV every decision is written to")
)

func main() {

	/*******************************************************************/
	pflag.Parse()

	var file *Config.File
	if *configPath != "" {
		var err error
		if file, err = Config.Load(*configPath); err != nil {
			fmt.Fprintln(os.Stderr, err)
			os.Exit(1)
		}
		applyFile(file)
	}

	/*******************************************************************/
	runID := ID.RunID{Seed: *seed, Started: time.Now().UnixNano()}
	if runID.Seed == 0 {
		runID.Seed = time.Now().UnixNano()
	}
	logger := Log.LoggerInit(*loggerLevel, runID, *logFile)
	defer logger.Sync()
	rng := rand.New(rand.NewSource(runID.Seed))

	/*******************************************************************/
	var node Consensus.Node

	switch *mode {
	case "generate":
		g := Generator.NewGenerator(logger, Generator.Config{Users: *users, Steps: *steps, Out: *out}, runID, rng, os.Stdout)
		if *history != "" {
			h, err := DB.OpenHistory(*history)
			CheckErr(logger, err)
			defer h.Close()
			g.WithHistory(h)
		}
		node = g

	case "switch":
		thr := Consensus.DefaultThresholds()
		if file != nil && file.Thresholds != nil {
			thr = *file.Thresholds
		}
		if *thresholdsPath != "" {
			var err error
			thr, err = Config.LoadThresholds(*thresholdsPath)
			CheckErr(logger, err)
		}

		var source Metrics.MetricsSource
		if *metricsCSV != "" {
			csvSrc, err := Metrics.NewCSVSource(*metricsCSV)
			CheckErr(logger, err)
			defer csvSrc.Close()
			source = csvSrc
			if *replay && *decisions == "" {
				*decisions = filepath.Join(filepath.Dir(*metricsCSV), "decisions.csv")
			}
		} else {
			source = Metrics.NewRandomSource(rng)
		}

		sw := Switch.NewSwitcher(logger, Switch.Config{
			Thresholds: thr,
			Interval:   time.Duration(*interval) * time.Second,
			Oneshot:    *oneshot,
			Replay:     *replay,
			Decisions:  *decisions,
		}, source, os.Stdout)
		if *interval > 0 && !*oneshot {
			cli := make(chan string)
			go CLI.Input(os.Stdin, cli)
			sw.WithCommands(cli)
		}
		node = sw

	default:
		logger.Fatalw("unknown mode", "mode", *mode)
	}

	CheckErr(logger, node.Run())
	if *mode == "switch" && *decisions != "" {
		fmt.Printf("Wrote decisions to %s\n", *decisions)
	}
	/*******************************************************************/

}

// applyFile fills every flag the user did not set from the config file
func applyFile(f *Config.File) {

	gen := f.Generator
	if gen.Users != nil && !pflag.CommandLine.Changed("users") {
		*users = *gen.Users
	}
	if gen.Steps != nil && !pflag.CommandLine.Changed("steps") {
		*steps = *gen.Steps
	}
	if gen.Out != nil && !pflag.CommandLine.Changed("out") {
		*out = *gen.Out
	}
	if gen.Seed != nil && !pflag.CommandLine.Changed("seed") {
		*seed = *gen.Seed
	}

}
