// Package config loads qrx settings. Layers, lowest first: the embedded
// defaults, the user's config file, QRX_ environment variables and finally
// overrides supplied by the caller (usually command-line flags).
package config

import (
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/adrg/xdg"
	"github.com/go-viper/mapstructure/v2"
	"github.com/knadh/koanf/parsers/toml"
	koanfyaml "github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/confmap"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"

	"github.com/genomicx/qrx/pkg/errors"
	"github.com/genomicx/qrx/pkg/labels"
	"github.com/genomicx/qrx/pkg/logging"
)

const (
	// EnvPrefix marks environment variables read into the config.
	// A double underscore separates nesting levels.
	EnvPrefix = "QRX_"
	// PathEnv points at an alternative config file
	PathEnv = "QRX_CONFIG"
	// FileName is the default config file name under the qrx config dir
	FileName = "config.toml"
)

// Config is the effective qrx configuration
type Config struct {
	Defaults Defaults                     `koanf:"defaults"`
	Options  map[string]map[string]string `koanf:"options"`
	Export   Export                       `koanf:"export"`
	PDF      labels.Options               `koanf:"pdf"`
	Batch    Batch                        `koanf:"batch"`
	Output   Output                       `koanf:"output"`
	Serve    Serve                        `koanf:"serve"`

	// Source is the user config file that was merged, empty when none
	Source string `koanf:"-"`

	k *koanf.Koanf
}

// Defaults apply when a command does not say otherwise
type Defaults struct {
	Format  string `koanf:"format"`
	Caption string `koanf:"caption"`
	Scale   int    `koanf:"scale"`
}

// Export sizes
type Export struct {
	Size         int    `koanf:"size"`
	RasterFormat string `koanf:"raster_format"`
	ArchiveSize  int    `koanf:"archive_size"`
}

// Batch mode settings
type Batch struct {
	Debounce time.Duration `koanf:"debounce"`
}

// Output selects how command results are printed
type Output struct {
	Format string `koanf:"format"`
}

// Serve configures the HTTP API
type Serve struct {
	Addr        string        `koanf:"addr"`
	MaxBatch    int           `koanf:"max_batch"`
	ReadTimeout time.Duration `koanf:"read_timeout"`
}

// LoadOptions controls which layers Load reads
type LoadOptions struct {
	// Path is an explicit config file. A missing explicit file is an error;
	// a missing default file is not.
	Path string
	// Overrides are dotted keys applied last, e.g. "defaults.format"
	Overrides map[string]interface{}
	// NoFile skips the config file layer entirely
	NoFile bool
	// SkipEnv ignores QRX_ variables
	SkipEnv bool
}

// DefaultPath returns $XDG_CONFIG_HOME/qrx/config.toml
func DefaultPath() string {
	xdg.Reload()
	return filepath.Join(xdg.ConfigHome, "qrx", FileName)
}

// Load builds the configuration from every layer and validates it
func Load(opts LoadOptions) (*Config, error) {
	logger := logging.GetLogger("config")
	k := koanf.New(".")

	if err := k.Load(&rawBytesProvider{bytes: defaultConfig}, toml.Parser()); err != nil {
		return nil, errors.Wrap(err, errors.ErrInternal, "embedded defaults are invalid")
	}

	source := ""
	if !opts.NoFile {
		path, explicit := resolvePath(opts.Path)
		if _, err := os.Stat(path); err == nil {
			if err := k.Load(file.Provider(path), parserFor(path)); err != nil {
				return nil, errors.Wrapf(err, errors.ErrConfigParse, "failed to parse config file %s", path).
					WithDetail("path", path)
			}
			source = path
			logger.Debug().Str("path", path).Msg("Loaded config file")
		} else if explicit {
			return nil, errors.Wrapf(err, errors.ErrConfigLoad, "config file %s not found", path).
				WithDetail("path", path)
		}
	}

	if !opts.SkipEnv {
		if err := k.Load(env.Provider(EnvPrefix, ".", envKey), nil); err != nil {
			return nil, errors.Wrap(err, errors.ErrConfigLoad, "failed to read environment")
		}
	}

	if len(opts.Overrides) > 0 {
		if err := k.Load(confmap.Provider(opts.Overrides, "."), nil); err != nil {
			return nil, errors.Wrap(err, errors.ErrConfigLoad, "failed to apply overrides")
		}
	}

	var cfg Config
	unmarshalConf := koanf.UnmarshalConf{
		Tag: "koanf",
		DecoderConfig: &mapstructure.DecoderConfig{
			Result:           &cfg,
			WeaklyTypedInput: true,
			DecodeHook: mapstructure.ComposeDecodeHookFunc(
				mapstructure.StringToTimeDurationHookFunc(),
				mapstructure.StringToSliceHookFunc(","),
			),
		},
	}
	if err := k.UnmarshalWithConf("", &cfg, unmarshalConf); err != nil {
		return nil, errors.Wrap(err, errors.ErrConfigParse, "failed to decode configuration")
	}
	cfg.Source = source
	cfg.k = k

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Default returns the embedded defaults alone
func Default() *Config {
	cfg, err := Load(LoadOptions{NoFile: true, SkipEnv: true})
	if err != nil {
		panic(err)
	}
	return cfg
}

// resolvePath picks the config file: an explicit path, then QRX_CONFIG,
// then the XDG default. The bool reports whether the choice was explicit.
func resolvePath(path string) (string, bool) {
	if path != "" {
		return path, true
	}
	if p := os.Getenv(PathEnv); p != "" {
		return p, true
	}
	return DefaultPath(), false
}

// envKey maps QRX_PDF__PAGE_SIZE to pdf.page_size
func envKey(s string) string {
	s = strings.TrimPrefix(s, EnvPrefix)
	if s == "CONFIG" || s == "LOG_FILE" {
		return ""
	}
	return strings.ReplaceAll(strings.ToLower(s), "__", ".")
}

func parserFor(path string) koanf.Parser {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return koanfyaml.Parser()
	default:
		return toml.Parser()
	}
}
