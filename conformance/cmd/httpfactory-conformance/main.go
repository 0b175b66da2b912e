// © Copyright 2025-2026, Query.Farm LLC - https://query.farm
// SPDX-License-Identifier: Apache-2.0

package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/Query-farm/httpfactory/conformance"
	"github.com/Query-farm/httpfactory/conformance/report"
	"github.com/Query-farm/httpfactory/reference"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// errFailed signals a completed run with failing cases.
var errFailed = errors.New("conformance run failed")

// config is the resolved configuration of one run.
type config struct {
	Format   report.Format
	Output   string
	Compress report.Compression
	Run      string
	Otel     bool
	LogLevel slog.Level
}

func main() {
	if err := newRootCommand(viper.New()).Execute(); err != nil {
		if !errors.Is(err, errFailed) {
			fmt.Fprintln(os.Stderr, err)
		}
		os.Exit(1)
	}
}

// newRootCommand builds the command with its flags bound to v.
func newRootCommand(v *viper.Viper) *cobra.Command {
	var cfgFile string

	cmd := &cobra.Command{
		Use:           "httpfactory-conformance",
		Short:         "Run the HTTP message factory conformance suites against the reference implementation",
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(v, cfgFile)
			if err != nil {
				return err
			}
			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGTERM, syscall.SIGINT)
			defer stop()
			return run(ctx, cfg)
		},
	}

	flags := cmd.Flags()
	flags.StringVar(&cfgFile, "config", "", "config file (yaml, toml or json)")
	flags.String("format", string(report.FormatText), "report format: text, json or arrow")
	flags.StringP("output", "o", "-", "report destination, - for stdout")
	flags.String("compress", string(report.CompressionNone), "report compression: none or zstd")
	flags.String("run", "", "only run cases whose suite/case name matches this regexp")
	flags.Bool("otel", false, "export traces and metrics for each case to stderr")
	flags.String("log-level", "warn", "log level: debug, info, warn or error")

	for _, name := range []string{"format", "output", "compress", "run", "otel", "log-level"} {
		if err := v.BindPFlag(name, flags.Lookup(name)); err != nil {
			panic(fmt.Sprintf("binding flag %q: %v", name, err))
		}
	}
	v.SetEnvPrefix("HTTPFACTORY")
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()

	return cmd
}

// loadConfig merges flags, HTTPFACTORY_* environment variables and the
// optional config file, in that order of precedence.
func loadConfig(v *viper.Viper, cfgFile string) (config, error) {
	if cfgFile != "" {
		v.SetConfigFile(cfgFile)
		if err := v.ReadInConfig(); err != nil {
			return config{}, fmt.Errorf("reading config %s: %w", cfgFile, err)
		}
	}

	var cfg config
	var err error
	if cfg.Format, err = report.ParseFormat(v.GetString("format")); err != nil {
		return config{}, err
	}
	if cfg.Compress, err = report.ParseCompression(v.GetString("compress")); err != nil {
		return config{}, err
	}
	if err := cfg.LogLevel.UnmarshalText([]byte(v.GetString("log-level"))); err != nil {
		return config{}, fmt.Errorf("invalid log level: %w", err)
	}
	cfg.Output = v.GetString("output")
	cfg.Run = v.GetString("run")
	cfg.Otel = v.GetBool("otel")
	return cfg, nil
}

func run(ctx context.Context, cfg config) (err error) {
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: cfg.LogLevel}))
	slog.SetDefault(logger)

	runner := conformance.NewRunner()
	runner.SetImplementation("github.com/Query-farm/httpfactory/reference")
	runner.SetLogger(logger)
	if err := runner.SetFilter(cfg.Run); err != nil {
		return err
	}

	if cfg.Otel {
		shutdown, err := setupTelemetry(runner)
		if err != nil {
			return err
		}
		defer func() {
			if serr := shutdown(context.Background()); serr != nil {
				logger.Error("telemetry shutdown failed", "err", serr)
			}
		}()
	}

	rep := runner.Run(ctx, conformance.AllSuites(reference.NewFactory())...)

	out := os.Stdout
	if cfg.Output != "" && cfg.Output != "-" {
		f, cerr := os.Create(cfg.Output)
		if cerr != nil {
			return fmt.Errorf("creating report file: %w", cerr)
		}
		defer func() {
			if cerr := f.Close(); cerr != nil && err == nil {
				err = fmt.Errorf("closing report file: %w", cerr)
			}
		}()
		out = f
	}

	w, err := report.NewWriter(out, cfg.Compress)
	if err != nil {
		return err
	}
	encode := func() error { return rep.Encode(w, cfg.Format) }
	if cfg.Format == report.FormatText && cfg.Compress == report.CompressionNone && out == os.Stdout {
		encode = func() error { return rep.WriteColorText(w) }
	}
	if err := encode(); err != nil {
		w.Close()
		return fmt.Errorf("writing report: %w", err)
	}
	if err := w.Close(); err != nil {
		return fmt.Errorf("flushing report: %w", err)
	}

	if ctx.Err() != nil {
		return ctx.Err()
	}
	if rep.Failed() {
		return errFailed
	}
	return nil
}
