package tile

import (
	"flag"
	"time"
)

// Config holds the tiling engine's default bin sizes, applied by the
// *Default split helpers when a caller doesn't pin down its own bin
// width, the same RegisterFlagsAndApplyDefaults convention
// aggregate.Config and the teacher's app.Config follow.
type Config struct {
	DefaultValueBinSize    float64       `yaml:"default_value_bin_size"`
	DefaultTimeBinDuration time.Duration `yaml:"default_time_bin_duration"`
}

// RegisterFlagsAndApplyDefaults applies the tiling engine's defaults
// and registers flags under prefix.
func (c *Config) RegisterFlagsAndApplyDefaults(prefix string, f *flag.FlagSet) {
	c.DefaultValueBinSize = 1.0
	c.DefaultTimeBinDuration = time.Hour
	f.Float64Var(&c.DefaultValueBinSize, prefix+"tile.default-value-bin-size", 1.0, "Default bin width used by ValueSplitDefault when the caller does not specify one.")
	f.DurationVar(&c.DefaultTimeBinDuration, prefix+"tile.default-time-bin-duration", time.Hour, "Default bin duration used by TimeSplitDefault when the caller does not specify one.")
}

// DefaultConfig returns the tiling engine's built-in bin-size defaults.
func DefaultConfig() Config {
	cfg := Config{}
	cfg.RegisterFlagsAndApplyDefaults("", flag.NewFlagSet("", flag.ContinueOnError))
	return cfg
}
