// Package config loads the toolchain's optional configuration file,
// mirroring the toml-backed Config pattern the rest of this repository's
// family of tools use: defaults baked into Go, overridden by an optional
// file on disk, never required to exist.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"runtime"

	"github.com/BurntSushi/toml"
)

// Config holds the driver's tunable defaults.
type Config struct {
	// Emit settings: how IR is produced and written.
	Emit struct {
		EmitIr         bool   `toml:"emit_ir"`
		IrDir          string `toml:"ir_dir"`
		StrictPos      bool   `toml:"strict_pos"`
		AllowScopeBlocks bool `toml:"allow_scope_blocks"`
	} `toml:"emit"`

	// Driver settings: CLI behavior when flags are omitted.
	Driver struct {
		DefaultMode  string `toml:"default_mode"` // "compile" or "reconstruct"
		OutputSuffix string `toml:"output_suffix"`
		ColorDiags   bool   `toml:"color_diags"`
	} `toml:"driver"`

	// Display settings for the optional TUI.
	Display struct {
		ShowAddresses bool `toml:"show_addresses"`
		ContextLines  int  `toml:"context_lines"`
		ColorOutput   bool `toml:"color_output"`
	} `toml:"display"`
}

// DefaultConfig returns a Config with baked-in defaults, used when no
// config file exists and for every key a config file leaves out. A file
// that fails to parse makes LoadFrom return an error instead.
func DefaultConfig() *Config {
	cfg := &Config{}

	cfg.Emit.EmitIr = false
	cfg.Emit.IrDir = os.TempDir()
	cfg.Emit.StrictPos = false
	cfg.Emit.AllowScopeBlocks = false

	cfg.Driver.DefaultMode = "compile"
	cfg.Driver.OutputSuffix = ".ir"
	cfg.Driver.ColorDiags = true

	cfg.Display.ShowAddresses = true
	cfg.Display.ContextLines = 5
	cfg.Display.ColorOutput = true

	return cfg
}

// GetConfigPath returns the platform-specific config file path, creating
// its containing directory if it doesn't yet exist.
func GetConfigPath() string {
	var configDir string

	switch runtime.GOOS {
	case "windows":
		configDir = os.Getenv("APPDATA")
		if configDir == "" {
			configDir = filepath.Join(os.Getenv("USERPROFILE"), "AppData", "Roaming")
		}
		configDir = filepath.Join(configDir, "atf2ael")

	case "darwin", "linux":
		homeDir, err := os.UserHomeDir()
		if err != nil {
			return "config.toml"
		}
		configDir = filepath.Join(homeDir, ".config", "atf2ael")

	default:
		return "config.toml"
	}

	if err := os.MkdirAll(configDir, 0750); err != nil {
		return "config.toml"
	}

	return filepath.Join(configDir, "config.toml")
}

// Load loads configuration from the default config path.
func Load() (*Config, error) {
	return LoadFrom(GetConfigPath())
}

// LoadFrom loads configuration from path, returning defaults untouched if
// the file does not exist.
func LoadFrom(path string) (*Config, error) {
	cfg := DefaultConfig()

	if _, err := os.Stat(path); os.IsNotExist(err) {
		return cfg, nil
	}

	if _, err := toml.DecodeFile(path, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	return cfg, nil
}

// SaveTo writes cfg to path as TOML, creating its directory if needed.
func (c *Config) SaveTo(path string) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0750); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	f, err := os.Create(path) // #nosec G304 -- user config file path
	if err != nil {
		return fmt.Errorf("failed to create config file: %w", err)
	}
	defer f.Close()

	encoder := toml.NewEncoder(f)
	if err := encoder.Encode(c); err != nil {
		return fmt.Errorf("failed to encode config: %w", err)
	}

	return nil
}
