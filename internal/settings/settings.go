package settings

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/kirsle/configdir"
	"github.com/mitchellh/mapstructure"
	"github.com/spf13/viper"
	"github.com/tursodatabase/tursotris/internal/tetris"
	"golang.org/x/exp/slices"
)

const (
	configName = "settings"
	configType = "json"
	envPrefix  = "TURSOTRIS"
)

// ErrUnknownKey is returned when setting a key that has no default
var ErrUnknownKey = errors.New("unknown setting")

// Settings is the persisted CLI configuration
type Settings struct {
	v   *viper.Viper
	dir string
}

// ReadSettings loads settings.json from configPath, or from the user config
// directory when configPath is empty, creating it on first use
func ReadSettings(configPath string) (*Settings, error) {
	if configPath == "" {
		configPath = configdir.LocalConfig("tursotris")
	}
	if err := configdir.MakePath(configPath); err != nil {
		return nil, err
	}

	v := viper.New()
	v.SetConfigName(configName)
	v.SetConfigType(configType)
	v.AddConfigPath(configPath)
	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	setDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("failed to read settings: %w", err)
		}
		// Force config creation
		if err := v.SafeWriteConfig(); err != nil {
			return nil, err
		}
	}
	return &Settings{v: v, dir: configPath}, nil
}

func setDefaults(v *viper.Viper) {
	game := tetris.DefaultConfig()
	v.SetDefault("game.width", game.Width)
	v.SetDefault("game.height", game.Height)
	v.SetDefault("game.seed", game.Seed)
	v.SetDefault("game.poll_interval", game.PollInterval.String())
	v.SetDefault("game.initial_fall_interval", game.InitialFallInterval.String())
	v.SetDefault("game.fall_interval_step", game.FallIntervalStep.String())
	v.SetDefault("game.min_fall_interval", game.MinFallInterval.String())
	v.SetDefault("game.input_poll", game.InputPoll.String())
	v.SetDefault("game.input_interval", game.InputInterval.String())
	v.SetDefault("autoplay.hold", "120ms")
	v.SetDefault("autoplay.gap", "40ms")
	v.SetDefault("server.addr", "localhost:8080")
	v.SetDefault("log_file", ".tursotris.log")
}

// Path returns the settings file location
func (s *Settings) Path() string {
	return filepath.Join(s.dir, configName+"."+configType)
}

// Game decodes the game section into a validated config
func (s *Settings) Game() (tetris.Config, error) {
	cfg := tetris.DefaultConfig()
	decoder, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		DecodeHook:       mapstructure.StringToTimeDurationHookFunc(),
		WeaklyTypedInput: true,
		Result:           &cfg,
	})
	if err != nil {
		return cfg, err
	}
	if err := decoder.Decode(s.v.AllSettings()["game"]); err != nil {
		return cfg, fmt.Errorf("%w: %v", tetris.ErrInvalidConfig, err)
	}
	return cfg, cfg.Validate()
}

// AutoplayHold returns how long the autoplayer keeps a key down
func (s *Settings) AutoplayHold() time.Duration {
	return s.v.GetDuration("autoplay.hold")
}

// AutoplayGap returns the pause between autoplayer key presses
func (s *Settings) AutoplayGap() time.Duration {
	return s.v.GetDuration("autoplay.gap")
}

// ServerAddr returns the listen address of the serve command
func (s *Settings) ServerAddr() string {
	return s.v.GetString("server.addr")
}

// LogFile returns the log file path
func (s *Settings) LogFile() string {
	return s.v.GetString("log_file")
}

// Keys returns every known setting in sorted order
func (s *Settings) Keys() []string {
	keys := s.v.AllKeys()
	slices.Sort(keys)
	return keys
}

// Get returns the effective value of key, env overrides included
func (s *Settings) Get(key string) string {
	return s.v.GetString(key)
}

// Set stores value under key and saves the file. Game values are validated first.
func (s *Settings) Set(key string, value string) error {
	key = strings.ToLower(key)
	known := false
	for _, k := range s.Keys() {
		known = known || k == key
	}
	if !known {
		return fmt.Errorf("%w: %s", ErrUnknownKey, key)
	}

	previous := s.v.Get(key)
	s.v.Set(key, value)
	if err := s.validate(key); err != nil {
		s.v.Set(key, previous)
		return err
	}
	return s.v.WriteConfig()
}

func (s *Settings) validate(key string) error {
	switch {
	case strings.HasPrefix(key, "game."):
		_, err := s.Game()
		return err
	case strings.HasPrefix(key, "autoplay."):
		if _, err := time.ParseDuration(s.v.GetString(key)); err != nil {
			return fmt.Errorf("invalid %s: %w", key, err)
		}
	}
	return nil
}
