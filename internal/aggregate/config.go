package aggregate

import "flag"

// Config holds the aggregation engine's skiplist tuning parameters,
// registered the way the teacher's cmd/tempo/app.Config registers
// every module's Config: yaml tags for file-based config, flag.Var
// calls sharing the same prefix for command-line overrides.
type Config struct {
	MaxLevel         int     `yaml:"max_level"`
	LevelProbability float64 `yaml:"level_probability"`
}

// RegisterFlagsAndApplyDefaults applies the accumulator's defaults and
// registers flags under prefix, mirroring app.Config.RegisterFlagsAndApplyDefaults.
func (c *Config) RegisterFlagsAndApplyDefaults(prefix string, f *flag.FlagSet) {
	c.MaxLevel = maxLevel
	c.LevelProbability = levelProbability
	f.IntVar(&c.MaxLevel, prefix+"aggregate.max-level", maxLevel, "Maximum skiplist level for the aggregation accumulator.")
	f.Float64Var(&c.LevelProbability, prefix+"aggregate.level-probability", levelProbability, "Probability of promoting a skiplist node to the next level up.")
}

// DefaultConfig returns a Config populated the same way an empty flag
// set would: the package's built-in skiplist defaults.
func DefaultConfig() Config {
	cfg := Config{}
	cfg.RegisterFlagsAndApplyDefaults("", flag.NewFlagSet("", flag.ContinueOnError))
	return cfg
}
