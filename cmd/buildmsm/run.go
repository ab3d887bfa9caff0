package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/stephenliu1989/msmbuilder-legacy/assignments"
	"github.com/stephenliu1989/msmbuilder-legacy/diagnostics"
	"github.com/stephenliu1989/msmbuilder-legacy/internal/config"
	"github.com/stephenliu1989/msmbuilder-legacy/msm"
	"github.com/stephenliu1989/msmbuilder-legacy/msmio"
	"github.com/stephenliu1989/msmbuilder-legacy/stationary"
	"github.com/stephenliu1989/msmbuilder-legacy/symmetrize"
)

// errNoAssignedFrames is returned when n_states must be inferred but no frame
// carries a label.
var errNoAssignedFrames = errors.New("buildmsm: no assigned frames to infer n_states from")

// run executes one build: guard outputs, load, estimate, write, report.
func run(ctx context.Context, cfg config.Config, logger *slog.Logger) error {
	runID := uuid.NewString()
	logger = logger.With(
		slog.String("component", "buildmsm"),
		slog.String("run_id", runID),
	)

	paths := msmio.OutputPaths(cfg.OutputDir)
	guarded := paths.All()
	if cfg.MetricsFile != "" {
		guarded = append(guarded, cfg.MetricsFile)
	}
	if !cfg.Force {
		if err := msmio.CheckNotExist(guarded...); err != nil {
			return err
		}
	}

	a, err := msmio.LoadAssignments(cfg.Input)
	if err != nil {
		return err
	}
	nStates := cfg.NStates
	if nStates == 0 {
		maxLabel := assignments.MaxLabel(a)
		if maxLabel < 0 {
			return errNoAssignedFrames
		}
		nStates = maxLabel + 1
	}
	framesBefore := assignments.CountAssigned(a)
	logger.Info("loaded assignments",
		slog.String("input", cfg.Input),
		slog.Int("trajectories", len(a)),
		slog.Int("frames", assignments.Frames(a)),
		slog.Int("assigned_frames", framesBefore),
		slog.Int("n_states", nStates),
	)

	opts, err := engineOptions(cfg)
	if err != nil {
		return err
	}
	rec := diagnostics.NewRecorder()
	prom := diagnostics.NewPrometheus("msmbuild", map[string]string{"run_id": runID})
	opts = append(opts, msm.WithDiagnostics(diagnostics.Multi(
		rec,
		prom,
		diagnostics.NewLogger(logger, slog.LevelDebug),
	)))

	if err = ctx.Err(); err != nil {
		return err
	}
	start := time.Now()
	model, err := msm.Build(a, cfg.LagTime, nStates, opts...)
	if err != nil {
		return err
	}
	if model.MLEFallback {
		logger.Warn("MLE did not converge; used Transpose symmetrization",
			slog.Int("iterations", model.MLEIterations))
	}
	if n := len(model.DegenerateRows); n > 0 {
		logger.Warn("transition matrix has empty rows",
			slog.Int("rows", n),
			slog.String("policy", cfg.ZeroRowPolicy))
	}

	framesAfter := assignments.CountAssigned(model.Assignments)
	framesPct := 0.0
	if framesBefore > 0 {
		framesPct = 100 * (1 - float64(framesAfter)/float64(framesBefore))
	}
	level := slog.LevelInfo
	if model.DiscardedFraction > 0 {
		level = slog.LevelWarn
	}
	logger.Log(ctx, level, "ergodic trimming discarded",
		slog.Float64("states_pct", 100*model.DiscardedFraction),
		slog.Float64("frames_pct", framesPct),
		slog.Int("states_kept", model.TMatrix.Rows()),
	)
	logger.Info("model estimated",
		slog.String("method", model.Method.String()),
		slog.Int("mle_iterations", model.MLEIterations),
		slog.Duration("elapsed", time.Since(start)),
	)

	written, err := msmio.WriteModel(paths, model)
	for _, p := range written {
		logger.Info("Wrote", slog.String("path", p))
	}
	if err != nil {
		return err
	}

	manifest := msmio.Manifest{
		RunID:     runID,
		CreatedAt: time.Now().UTC().Truncate(time.Second),
		Input:     cfg.Input,
		Parameters: msmio.ManifestParameters{
			LagTime:       cfg.LagTime,
			NStates:       nStates,
			Symmetrize:    cfg.Symmetrize,
			Prior:         cfg.Prior,
			SlidingWindow: cfg.SlidingWindow,
			Trimming:      cfg.Trimming,
			MinSupport:    cfg.MinSupport,
			ZeroRowPolicy: cfg.ZeroRowPolicy,
		},
		Result: msmio.ManifestResult{
			Method:             model.Method.String(),
			StatesKept:         model.TMatrix.Rows(),
			DiscardedStatesPct: 100 * model.DiscardedFraction,
			DiscardedFramesPct: framesPct,
			Transitions:        model.Transitions,
			MLEIterations:      model.MLEIterations,
			MLEFallback:        model.MLEFallback,
			DegenerateRows:     model.DegenerateRows,
		},
		Diagnostics: rec.Snapshot(),
		Outputs:     paths.All(),
	}
	if err = msmio.WriteManifest(paths.Manifest, manifest); err != nil {
		return err
	}
	logger.Info("Wrote", slog.String("path", paths.Manifest))

	if cfg.MetricsFile != "" {
		if err = prom.WriteTextfile(cfg.MetricsFile); err != nil {
			return fmt.Errorf("write metrics: %w", err)
		}
		logger.Info("Wrote", slog.String("path", cfg.MetricsFile))
	}

	return nil
}

// engineOptions translates the configuration into msm options.
func engineOptions(cfg config.Config) ([]msm.Option, error) {
	method, err := symmetrize.ParseMethod(cfg.Symmetrize)
	if err != nil {
		return nil, err
	}
	policy, err := stationary.ParseZeroRowPolicy(cfg.ZeroRowPolicy)
	if err != nil {
		return nil, err
	}

	return []msm.Option{
		msm.WithSymmetrize(method),
		msm.WithPrior(cfg.Prior),
		msm.WithSlidingWindow(cfg.SlidingWindow),
		msm.WithTrimming(cfg.Trimming),
		msm.WithMinSupport(cfg.MinSupport),
		msm.WithMLETolerance(cfg.MLETolerance),
		msm.WithMLEMaxIter(cfg.MLEMaxIter),
		msm.WithMLEFallback(cfg.MLEFallback),
		msm.WithZeroRowPolicy(policy),
		msm.WithDenseLimit(cfg.DenseLimit),
		// The loaded matrix is private to this run.
		msm.WithInPlaceRemap(),
	}, nil
}
