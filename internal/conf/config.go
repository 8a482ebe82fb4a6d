// Package conf loads and validates engine configuration.
package conf

import (
	"embed"
	"fmt"
	"io/fs"
	"log"
	"strings"
	"sync"

	"github.com/spf13/viper"
)

//go:embed config.yaml
var configFiles embed.FS

// EngineConfig holds the tunables the engine needs before it can open an
// output stream: sample rate, buffer size hint, which device (or the
// dummy sink) to use, and where to write logs.
type EngineConfig struct {
	Debug bool // true to panic when an output callback asks for more frames than the maximum window

	Audio struct {
		SampleRate     uint32 // output sample rate in Hz, e.g. 44100
		Channels       uint16 // must be 2 (stereo-only)
		BufferSizeHint uint32 // frames per callback the host driver is asked for
		DeviceName     string // empty selects the host driver's default device
		DummyOutput    bool   // true drives the engine with a no-device ticker sink
	}

	Log LogConfig
}

// LogConfig defines where and how engine logs are written.
type LogConfig struct {
	Enabled  bool   // true to enable file logging
	Path     string // path to the log file
	Level    string // trace, debug, info, warn, error
	MaxSizeMB int   // max size in megabytes before rotation
	Backups   int   // number of rotated backups to keep
}

var (
	instance      *EngineConfig
	once          sync.Once
	instanceMutex sync.RWMutex
)

// Load reads config.yaml (or a file at path, if non-empty), merges
// DAW_-prefixed environment variable overrides, validates the result,
// and returns the populated EngineConfig.
func Load(path string) (*EngineConfig, error) {
	instanceMutex.Lock()
	defer instanceMutex.Unlock()

	v := viper.New()
	v.SetConfigType("yaml")
	v.SetEnvPrefix("DAW")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	setDefaults(v)

	if err := v.ReadConfig(strings.NewReader(getDefaultConfig())); err != nil {
		return nil, fmt.Errorf("error reading embedded default config: %w", err)
	}

	if path != "" {
		v.SetConfigFile(path)
		if err := v.MergeInConfig(); err != nil {
			return nil, fmt.Errorf("error reading config file %q: %w", path, err)
		}
	}

	cfg := &EngineConfig{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("error unmarshaling config into struct: %w", err)
	}

	if err := Validate(cfg); err != nil {
		return nil, err
	}

	instance = cfg
	return cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("audio.samplerate", 44100)
	v.SetDefault("audio.channels", 2)
	v.SetDefault("audio.buffersizehint", 1024)
	v.SetDefault("audio.dummyoutput", false)
	v.SetDefault("log.enabled", true)
	v.SetDefault("log.path", "daw-engine.log")
	v.SetDefault("log.level", "info")
	v.SetDefault("log.maxsizemb", 100)
	v.SetDefault("log.backups", 3)
}

// getDefaultConfig reads the embedded default configuration.
func getDefaultConfig() string {
	data, err := fs.ReadFile(configFiles, "config.yaml")
	if err != nil {
		log.Fatalf("error reading embedded config file: %v", err)
	}
	return string(data)
}

// Current returns the most recently loaded config, loading defaults
// via Load("") on first access if nothing has been loaded yet.
func Current() *EngineConfig {
	once.Do(func() {
		if instance == nil {
			if _, err := Load(""); err != nil {
				log.Fatalf("error loading default settings: %v", err)
			}
		}
	})
	instanceMutex.RLock()
	defer instanceMutex.RUnlock()
	return instance
}
