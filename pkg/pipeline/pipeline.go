// Package pipeline provides the load → resolve → write pipeline for
// deconflict.
//
// This package centralizes the caching and orchestration logic shared by
// the CLI commands so that resolve and check behave identically on the
// same input.
//
// # Architecture
//
// The pipeline consists of three stages:
//
//  1. Load: Read and validate the layout document
//  2. Resolve: Run the bounded conflict repair loop
//  3. Write: Emit the resolved layout, if an output path is set
//
// Resolution is a pure function of the layout bytes and the tuning
// config, so stage 2 is cached under a key derived from both hashes.
//
// # Usage
//
// Create a Runner and execute the pipeline:
//
//	runner := pipeline.NewRunner(cache, nil, logger)
//	opts := pipeline.Options{
//	    Input:  "layout.json",
//	    Output: "resolved.json",
//	}
//	result, err := runner.Execute(ctx, opts)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	fmt.Print(result.Report.Text())
package pipeline

import (
	"fmt"
	"io"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/deconflict/pkg/layout"
	"github.com/matzehuels/deconflict/pkg/resolve"
)

// Options contains all configuration for the resolution pipeline.
// This struct supports JSON serialization for job queues.
type Options struct {
	// Input is the path of the layout document to resolve. Ignored when
	// Layout is set directly.
	Input string `json:"input,omitempty"`

	// Output is the path the resolved layout is written to. Empty means
	// the pipeline does not write a file.
	Output string `json:"output,omitempty"`

	// ConfigPath points at a TOML tuning file. Empty means compiled-in
	// defaults.
	ConfigPath string `json:"config_path,omitempty"`

	// MaxIterations overrides the iteration cap when positive.
	MaxIterations int `json:"max_iterations,omitempty"`

	// Refresh bypasses the cache and recomputes.
	Refresh bool `json:"refresh,omitempty"`

	// Scope namespaces cache keys, for shared backends.
	Scope string `json:"scope,omitempty"`

	// Runtime options (not serialized)
	Layout *layout.Layout  `json:"-"` // in-memory input, takes precedence over Input
	Config *resolve.Config `json:"-"` // explicit tuning, takes precedence over ConfigPath
	Logger *log.Logger     `json:"-"`

	// validated tracks whether ValidateAndSetDefaults has been called.
	validated bool `json:"-"`
}

// Result contains the outputs of a pipeline run.
type Result struct {
	// Layout is the resolved layout.
	Layout *layout.Layout

	// LayoutHash is the content hash of the input layout.
	LayoutHash string

	// Report is the resolution run report.
	Report *resolve.Report

	// CacheInfo tracks whether the resolve stage hit the cache.
	CacheInfo CacheInfo
}

// CacheInfo tracks cache hits for the pipeline.
type CacheInfo struct {
	ResolveHit bool // Whether the resolved layout came from cache
}

// ValidateAndSetDefaults checks required fields and applies defaults.
// This method is idempotent - calling it multiple times has the same
// effect as calling it once.
func (o *Options) ValidateAndSetDefaults() error {
	if o.validated {
		return nil
	}
	if o.Layout == nil && o.Input == "" {
		return fmt.Errorf("input path or layout is required")
	}
	if o.MaxIterations < 0 {
		return fmt.Errorf("max_iterations must not be negative")
	}
	if o.Logger == nil {
		o.Logger = log.NewWithOptions(io.Discard, log.Options{})
	}
	o.validated = true
	return nil
}

// ResolveConfig materializes the effective tuning: explicit Config,
// then ConfigPath, then compiled-in defaults, with the MaxIterations
// override applied last.
func (o *Options) ResolveConfig() (resolve.Config, error) {
	var cfg resolve.Config
	switch {
	case o.Config != nil:
		cfg = *o.Config
	case o.ConfigPath != "":
		loaded, err := resolve.LoadConfig(o.ConfigPath)
		if err != nil {
			return resolve.Config{}, err
		}
		cfg = loaded
	default:
		cfg = resolve.DefaultConfig()
	}
	if o.MaxIterations > 0 {
		cfg.MaxIterations = o.MaxIterations
	}
	if err := cfg.Validate(); err != nil {
		return resolve.Config{}, err
	}
	return cfg, nil
}
