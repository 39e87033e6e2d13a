package tetris

import (
	"fmt"
	"time"
)

// Config holds board dimensions, randomness and timing for a game
type Config struct {
	Width  int    `mapstructure:"width" json:"width"`
	Height int    `mapstructure:"height" json:"height"`
	Seed   uint64 `mapstructure:"seed" json:"seed"`

	PollInterval        time.Duration `mapstructure:"poll_interval" json:"poll_interval"`
	InitialFallInterval time.Duration `mapstructure:"initial_fall_interval" json:"initial_fall_interval"`
	FallIntervalStep    time.Duration `mapstructure:"fall_interval_step" json:"fall_interval_step"`
	MinFallInterval     time.Duration `mapstructure:"min_fall_interval" json:"min_fall_interval"`

	InputPoll     time.Duration `mapstructure:"input_poll" json:"input_poll"`
	InputInterval time.Duration `mapstructure:"input_interval" json:"input_interval"`
}

// DefaultConfig returns a 10x20 board with classic timings
func DefaultConfig() Config {
	return Config{
		Width:               10,
		Height:              20,
		PollInterval:        10 * time.Millisecond,
		InitialFallInterval: 500 * time.Millisecond,
		FallIntervalStep:    40 * time.Millisecond,
		MinFallInterval:     100 * time.Millisecond,
		InputPoll:           10 * time.Millisecond,
		InputInterval:       80 * time.Millisecond,
	}
}

// Validate checks that the config can run a game
func (cfg Config) Validate() error {
	if cfg.Width < 4 {
		return fmt.Errorf("%w: width %d is narrower than 4", ErrInvalidConfig, cfg.Width)
	}
	if cfg.Height < 4 {
		return fmt.Errorf("%w: height %d is shorter than 4", ErrInvalidConfig, cfg.Height)
	}
	if cfg.PollInterval <= 0 {
		return fmt.Errorf("%w: poll interval must be positive", ErrInvalidConfig)
	}
	if cfg.InputPoll <= 0 {
		return fmt.Errorf("%w: input poll must be positive", ErrInvalidConfig)
	}
	if cfg.InputInterval < 0 || cfg.FallIntervalStep < 0 {
		return fmt.Errorf("%w: intervals cannot be negative", ErrInvalidConfig)
	}
	if cfg.MinFallInterval <= 0 || cfg.InitialFallInterval < cfg.MinFallInterval {
		return fmt.Errorf("%w: fall interval %v must be at least the minimum %v",
			ErrInvalidConfig, cfg.InitialFallInterval, cfg.MinFallInterval)
	}
	return nil
}

// FallInterval returns the gravity period at level
func (cfg Config) FallInterval(level int) time.Duration {
	interval := cfg.InitialFallInterval - time.Duration(level)*cfg.FallIntervalStep
	if interval < cfg.MinFallInterval {
		return cfg.MinFallInterval
	}
	return interval
}
