package config

import (
	"os"
	"strings"

	"github.com/arthur-debert/aka/pkg/errors"
	"github.com/go-viper/mapstructure/v2"
	"github.com/knadh/koanf/parsers/toml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
)

// EnvPrefix is the prefix for environment overrides.
const EnvPrefix = "AKA_"

// Variables sharing the prefix that are runtime state rather than settings.
var nonSettingEnv = map[string]bool{
	"AKA_DEPTH":       true,
	"AKA_VERBOSE":     true,
	"AKA_PROFILE_DIR": true,
	"AKA_CONFIG_DIR":  true,
}

// Load builds the configuration from the embedded defaults, the settings
// file at settingsPath (skipped when empty or missing) and the environment.
func Load(settingsPath string) (*Config, error) {
	k := koanf.New(".")

	// 1. Embedded defaults
	if err := k.Load(&rawBytesProvider{bytes: defaultConfig}, toml.Parser()); err != nil {
		return nil, errors.Wrap(err, errors.ErrConfigLoad, "failed to load defaults")
	}

	// 2. Settings file if it exists
	if settingsPath != "" {
		if _, err := os.Stat(settingsPath); err == nil {
			if err := k.Load(file.Provider(settingsPath), toml.Parser()); err != nil {
				return nil, errors.Wrapf(err, errors.ErrConfigParse, "failed to load settings from %s", settingsPath).
					WithDetail("path", settingsPath)
			}
		}
	}

	// 3. Environment variables
	if err := k.Load(env.Provider(EnvPrefix, ".", envKey), nil); err != nil {
		return nil, errors.Wrap(err, errors.ErrConfigLoad, "failed to load environment overrides")
	}

	var cfg Config
	unmarshalConf := koanf.UnmarshalConf{
		Tag: "koanf",
		DecoderConfig: &mapstructure.DecoderConfig{
			Result:           &cfg,
			WeaklyTypedInput: true,
			DecodeHook: mapstructure.ComposeDecodeHookFunc(
				mapstructure.StringToTimeDurationHookFunc(),
			),
		},
	}
	if err := k.UnmarshalWithConf("", &cfg, unmarshalConf); err != nil {
		return nil, errors.Wrap(err, errors.ErrConfigParse, "invalid launcher settings")
	}

	postProcess(&cfg)
	return &cfg, nil
}

// envKey maps AKA_MAX_DEPTH to max_depth and AKA_RELAY__CHUNK_SIZE to
// relay.chunk_size. Runtime-state variables map to "" and are skipped.
func envKey(s string) string {
	if nonSettingEnv[s] {
		return ""
	}
	key := strings.ToLower(strings.TrimPrefix(s, EnvPrefix))
	return strings.ReplaceAll(key, "__", ".")
}

func postProcess(cfg *Config) {
	if cfg.CanonicalName == "" {
		cfg.CanonicalName = DefaultCanonicalName
	}
	if cfg.MaxDepth < 0 {
		cfg.MaxDepth = DefaultMaxDepth
	}
	if cfg.Relay.ChunkSize <= 0 {
		cfg.Relay.ChunkSize = DefaultChunkSize
	}
	if cfg.Relay.LineEnding == "" {
		cfg.Relay.LineEnding = DefaultLineEnding
	}
}
