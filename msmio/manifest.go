package msmio

import (
	"bytes"
	"fmt"
	"os"
	"time"

	"github.com/BurntSushi/toml"
)

// Manifest records how a model was built. It is written next to the model
// outputs as Model.toml.
type Manifest struct {
	RunID     string    `toml:"run_id"`
	CreatedAt time.Time `toml:"created_at"`
	Input     string    `toml:"input"`

	Parameters ManifestParameters `toml:"parameters"`
	Result     ManifestResult     `toml:"result"`

	// Diagnostics holds every value reported by the engine.
	Diagnostics map[string]float64 `toml:"diagnostics"`

	// Outputs lists the files written, in write order.
	Outputs []string `toml:"outputs"`
}

// ManifestParameters are the build inputs.
type ManifestParameters struct {
	LagTime       int     `toml:"lag_time"`
	NStates       int     `toml:"n_states"`
	Symmetrize    string  `toml:"symmetrize"`
	Prior         float64 `toml:"prior"`
	SlidingWindow bool    `toml:"sliding_window"`
	Trimming      bool    `toml:"trimming"`
	MinSupport    float64 `toml:"min_support"`
	ZeroRowPolicy string  `toml:"zero_row_policy"`
}

// ManifestResult summarizes the estimated model.
type ManifestResult struct {
	Method             string  `toml:"method"`
	StatesKept         int     `toml:"states_kept"`
	DiscardedStatesPct float64 `toml:"discarded_states_pct"`
	DiscardedFramesPct float64 `toml:"discarded_frames_pct"`
	Transitions        int     `toml:"transitions"`
	MLEIterations      int     `toml:"mle_iterations"`
	MLEFallback        bool    `toml:"mle_fallback"`
	DegenerateRows     []int   `toml:"degenerate_rows"`
}

// WriteManifest encodes m as TOML into path.
func WriteManifest(path string, m Manifest) error {
	var buf bytes.Buffer
	if err := toml.NewEncoder(&buf).Encode(m); err != nil {
		return fmt.Errorf("encode manifest: %w", err)
	}
	if err := os.WriteFile(path, buf.Bytes(), 0o644); err != nil {
		return fmt.Errorf("write manifest: %w", err)
	}

	return nil
}

// ReadManifest decodes a manifest written by WriteManifest.
func ReadManifest(path string) (Manifest, error) {
	var m Manifest
	if _, err := toml.DecodeFile(path, &m); err != nil {
		return Manifest{}, fmt.Errorf("read manifest: %w", err)
	}

	return m, nil
}
