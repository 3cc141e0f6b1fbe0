package cli

import (
	"os"

	"github.com/BurntSushi/toml"

	"github.com/imgrid/imgrid/pkg/errors"
)

// config mirrors the optional TOML config file at ~/.config/imgrid/config.toml.
// Every field is a default; command-line flags override it.
//
// Example:
//
//	resize = true
//	background = [255, 255, 255]
//	jpeg_quality = 90
//	workers = 4
type config struct {
	Resize      bool  `toml:"resize"`
	Fill        bool  `toml:"fill"`
	Background  []int `toml:"background"`
	Workers     int   `toml:"workers"`
	JPEGQuality int   `toml:"jpeg_quality"`
}

// loadConfig reads the config file if present. A missing file yields the
// zero config; a malformed one is an error so typos don't silently vanish.
func loadConfig() (config, error) {
	var cfg config
	path, err := configPath()
	if err != nil {
		return cfg, nil
	}
	return loadConfigFile(path)
}

func loadConfigFile(path string) (config, error) {
	var cfg config
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return cfg, nil
	}
	if _, err := toml.DecodeFile(path, &cfg); err != nil {
		return cfg, errors.Wrap(errors.ErrCodeInvalidInput, err, "parse config %s", path)
	}
	if cfg.Background != nil && len(cfg.Background) != 3 {
		return cfg, errors.New(errors.ErrCodeInvalidBackground,
			"config background must be [R, G, B], got %d values", len(cfg.Background))
	}
	return cfg, nil
}
