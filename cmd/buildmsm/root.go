package main

import (
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/spf13/cobra"

	"github.com/stephenliu1989/msmbuilder-legacy/internal/config"
	"github.com/stephenliu1989/msmbuilder-legacy/stationary"
	"github.com/stephenliu1989/msmbuilder-legacy/symmetrize"
)

func newRootCmd() *cobra.Command {
	var configFile string

	cmd := &cobra.Command{
		Use:   "buildmsm [assignments]",
		Short: "Estimate transition-count and transition-probability matrices from assignments",
		Long: `Estimates the counts and transition matrices from an assignments file.
Reversible models can be calculated either from naive symmetrization
(Transpose) or estimation of the most likely reversible matrices (MLE,
recommended). Also calculates the equilibrium populations of the model.`,
		Args:          cobra.MaximumNArgs(1),
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(configFile, cmd.Flags())
			if err != nil {
				return err
			}
			if len(args) == 1 {
				cfg.Input = args[0]
			}
			if err = cfg.Validate(); err != nil {
				return err
			}
			logger, err := newLogger(cfg.Log, cmd.ErrOrStderr())
			if err != nil {
				return err
			}

			return run(cmd.Context(), cfg, logger)
		},
	}

	f := cmd.Flags()
	f.StringVarP(&configFile, "config", "c", "", "TOML configuration file (default $"+config.EnvPrefix+"_CONFIG)")
	f.StringP("input", "i", "", "assignments file (or the positional argument)")
	f.StringP("output-dir", "o", "./Data", "directory for the model outputs")
	f.IntP("lag-time", "l", 1, "lag time in frames")
	f.Int("n-states", 0, "number of states (0: largest label + 1)")
	f.StringP("symmetrize", "s", symmetrize.MLE.String(), "symmetrization method: MLE, Transpose or None")
	f.Float64P("prior", "p", 0, "strength of the symmetric pseudo-count prior (MLE)")
	f.Bool("sliding-window", true, "count every frame as a start frame (false: every lag-time frames)")
	f.Bool("trimming", true, "restrict the model to its maximal ergodic subset")
	f.Float64("min-support", 1, "smallest in+out count a state needs to survive trimming")
	f.String("zero-row-policy", stationary.ZeroRowKeep.String(), "empty rows of the transition matrix: keep or self-loop")
	f.Float64("mle-tolerance", symmetrize.DefaultTolerance, "MLE relative convergence threshold")
	f.Int("mle-max-iter", symmetrize.DefaultMaxIter, "MLE iteration cap")
	f.Bool("mle-fallback", false, "fall back to Transpose when MLE does not converge")
	f.Int("dense-limit", stationary.DefaultDenseLimit, "largest model solved by dense eigen decomposition")
	f.BoolP("force", "f", false, "overwrite existing outputs")
	f.String("metrics-file", "", "write diagnostics in Prometheus text format to this file")
	f.String("log-level", "info", "log level: debug, info, warn, error")
	f.String("log-format", "text", "log format: text or json")

	return cmd
}

// newLogger builds the slog logger described by lc, writing to w.
func newLogger(lc config.LogConfig, w io.Writer) (*slog.Logger, error) {
	var level slog.Level
	if err := level.UnmarshalText([]byte(lc.Level)); err != nil {
		return nil, fmt.Errorf("log level %q: %w", lc.Level, err)
	}
	opts := &slog.HandlerOptions{Level: level}

	var h slog.Handler
	if strings.EqualFold(lc.Format, "json") {
		h = slog.NewJSONHandler(w, opts)
	} else {
		h = slog.NewTextHandler(w, opts)
	}

	return slog.New(h), nil
}
