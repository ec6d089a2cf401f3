package domain

import "fmt"

// Options holds the resurrection engine configuration, loaded from
// .lazarus.yaml with flag overrides layered on top.
type Options struct {
	MaxIterations     int            `yaml:"max_iterations"      json:"max_iterations"`
	PackageManager    PackageManager `yaml:"package_manager"     json:"package_manager,omitempty"`
	BuildCommand      string         `yaml:"build_command"       json:"build_command,omitempty"`
	TimeoutMs         int64          `yaml:"timeout_ms"          json:"timeout_ms"`
	MaxBatchSize      int            `yaml:"max_batch_size"      json:"max_batch_size"`
	RiskSizeThreshold int            `yaml:"risk_size_threshold" json:"risk_size_threshold"`
	SkipNativeModules bool           `yaml:"skip_native_modules" json:"skip_native_modules,omitempty"`
}

// NoProgressThreshold is the number of consecutive flat-error-count
// iterations tolerated before the validator gives up, provided no untried
// strategy remains for any outstanding error.
const NoProgressThreshold = 2

// DefaultOptions returns the engine defaults.
func DefaultOptions() Options {
	return Options{
		MaxIterations:     10,
		TimeoutMs:         300_000,
		MaxBatchSize:      5,
		RiskSizeThreshold: 8,
	}
}

// Validate catches typos in user-provided raw input before merging defaults.
func (o Options) Validate() error {
	if o.MaxIterations < 0 {
		return fmt.Errorf("max_iterations must be non-negative, got %d", o.MaxIterations)
	}
	if o.TimeoutMs < 0 {
		return fmt.Errorf("timeout_ms must be non-negative, got %d", o.TimeoutMs)
	}
	if o.MaxBatchSize < 0 {
		return fmt.Errorf("max_batch_size must be non-negative, got %d", o.MaxBatchSize)
	}
	switch o.PackageManager {
	case "", PMNpm, PMYarn, PMPnpm:
	default:
		return fmt.Errorf("unknown package_manager %q (want npm, yarn, or pnpm)", o.PackageManager)
	}
	return nil
}

// WithDefaults overlays engine defaults under unset (zero) values.
func (o Options) WithDefaults() Options {
	def := DefaultOptions()
	if o.MaxIterations == 0 {
		o.MaxIterations = def.MaxIterations
	}
	if o.TimeoutMs == 0 {
		o.TimeoutMs = def.TimeoutMs
	}
	if o.MaxBatchSize == 0 {
		o.MaxBatchSize = def.MaxBatchSize
	}
	if o.RiskSizeThreshold == 0 {
		o.RiskSizeThreshold = def.RiskSizeThreshold
	}
	return o
}

// BatchOptions derives the planner bounds from the engine options.
func (o Options) BatchOptions() BatchOptions {
	return BatchOptions{
		MaxBatchSize:      o.MaxBatchSize,
		RiskSizeThreshold: o.RiskSizeThreshold,
	}
}

// CompileOptions derives the compiler invocation options.
func (o Options) CompileOptions() CompileOptions {
	return CompileOptions{
		PackageManager: o.PackageManager,
		BuildCommand:   o.BuildCommand,
		TimeoutMs:      o.TimeoutMs,
	}
}
