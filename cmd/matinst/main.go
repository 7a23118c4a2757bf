// Copyright 2023-2026 The GoMLX Authors. SPDX-License-Identifier: Apache-2.0

// matinst loads an instruction program, runs it against the inputs of a configuration file and prints the
// outputs and execution statistics.
//
// Usage:
//
//	matinst [flags] program.txt
package main

import (
	"context"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"time"

	"github.com/gomlx/matinst/config"
	"github.com/gomlx/matinst/engine"
	"github.com/gomlx/matinst/program"
	"github.com/gomlx/matinst/stats/promstats"
	"github.com/janpfeifer/must"
	"github.com/schollz/progressbar/v3"
	"gonum.org/v1/gonum/mat"
	"k8s.io/klog/v2"
)

var (
	flagConfig = flag.String("config", "", "YAML configuration file with the engine settings and the program inputs.")
	flagDevice = flag.String("device", "",
		"Default device (CP, GPU or SPARK) for instructions without an exec-type prefix. Overrides the configuration.")
	flagTasks  = flag.Int("tasks", 1, "Number of concurrent copies of the program to run on each repetition.")
	flagRepeat = flag.Int("repeat", 1, "Number of times to run the program. A progress bar is displayed if > 1.")
	flagPrint  = flag.String("print", "",
		"Comma-separated list of buffers to print after running. Use \"*\" to print all outputs of the program.")
	flagStats        = flag.Bool("stats", false, "Print execution statistics at the end. Overrides the configuration.")
	flagHeavyHitters = flag.Int("heavy_hitters", 0, "Number of heavy hitter instructions to report. "+
		"0 uses the configuration value.")
	flagMetricsAddr = flag.String("metrics_addr", "",
		"If set, serve Prometheus metrics on this address (e.g. \":9090\") under /metrics while running.")
)

func main() {
	klog.InitFlags(nil)
	flag.Parse()
	args := flag.Args()
	if len(args) != 1 {
		klog.Errorf("Expected exactly one program file, got %d arguments. See 'matinst -help'.", len(args))
		os.Exit(1)
	}

	cfg := config.Default()
	if *flagConfig != "" {
		cfg = must.M1(config.Load(*flagConfig))
	}
	if *flagDevice != "" {
		cfg.DefaultDevice = *flagDevice
	}
	if *flagStats {
		cfg.Stats.Enabled = true
	}
	if *flagHeavyHitters > 0 {
		cfg.Stats.HeavyHitters = *flagHeavyHitters
	}

	e, err := engine.New(cfg)
	if err != nil {
		klog.Errorf("Failed to create engine: %+v", err)
		os.Exit(1)
	}
	must.M(e.LoadInputs())
	p, err := e.CompileFile(args[0])
	if err != nil {
		klog.Errorf("%v", err)
		os.Exit(1)
	}

	if *flagMetricsAddr != "" {
		serveMetrics(e, *flagMetricsAddr)
	}

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt)
	defer cancel()
	if err := run(ctx, e, p); err != nil {
		klog.Errorf("%v", err)
		os.Exit(1)
	}

	if *flagPrint != "" {
		printBuffers(e, p, *flagPrint)
	}
	if cfg.Stats.Enabled {
		fmt.Print(e.Stats.Report(cfg.Stats.HeavyHitters))
	}
}

// run the program *flagRepeat times, each time with *flagTasks concurrent copies.
func run(ctx context.Context, e *engine.Engine, p *program.Program) error {
	var bar *progressbar.ProgressBar
	if *flagRepeat > 1 {
		bar = progressbar.NewOptions(*flagRepeat,
			progressbar.OptionSetDescription("running"),
			progressbar.OptionShowIts(),
			progressbar.OptionSetItsString("runs"),
			progressbar.OptionSetTheme(progressbar.ThemeASCII),
			progressbar.OptionSetWriter(os.Stderr),
			progressbar.OptionClearOnFinish(),
		)
	}
	for range max(*flagRepeat, 1) {
		if *flagTasks > 1 {
			if err := program.FirstError(e.RunTasks(ctx, p, *flagTasks)); err != nil {
				return err
			}
		} else if err := e.Run(ctx, p); err != nil {
			return err
		}
		if bar != nil {
			_ = bar.Add(1)
		}
	}
	if bar != nil {
		_ = bar.Finish()
	}
	return nil
}

// serveMetrics starts an HTTP server exposing the statistics of the engine for Prometheus.
func serveMetrics(e *engine.Engine, addr string) {
	handler := must.M1(promstats.Handler(e.Stats, e.Config.Stats.HeavyHitters))
	mux := http.NewServeMux()
	mux.Handle("/metrics", handler)
	server := &http.Server{
		Addr:              addr,
		Handler:           mux,
		ReadHeaderTimeout: 5 * time.Second,
	}
	go func() {
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			klog.Warningf("metrics server on %q failed: %v", addr, err)
		}
	}()
	klog.V(1).Infof("serving metrics on %s/metrics", addr)
}

// printBuffers prints the comma-separated list of buffers, "*" standing for all program outputs.
func printBuffers(e *engine.Engine, p *program.Program, list string) {
	var names []string
	for _, name := range strings.Split(list, ",") {
		name = strings.TrimSpace(name)
		switch name {
		case "":
		case "*":
			names = append(names, p.Outputs()...)
		default:
			names = append(names, name)
		}
	}
	for _, name := range names {
		shape, found := e.Pool.Shape(name)
		if !found {
			fmt.Printf("%s: <undefined>\n", name)
			continue
		}
		if shape.IsScalar() {
			fmt.Printf("%s = %g\n", name, must.M1(e.Pool.Scalar(name)))
			continue
		}
		_, values := must.M2(e.Pool.Matrix(name))
		fmt.Printf("%s %s:\n", name, shape)
		if len(values) == 0 {
			fmt.Println("\t[]")
			continue
		}
		m := mat.NewDense(shape.Rows(), shape.Cols(), values)
		fmt.Printf("%v\n", mat.Formatted(m, mat.Prefix(""), mat.Excerpt(8)))
	}
}
