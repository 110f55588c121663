package task

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/tailscale/hujson"
)

// Config holds all configuration options.
type Config struct {
	// From config files (serialized)
	TaskFile      string   `json:"task_file"`
	Editor        string   `json:"editor,omitempty"`
	IconSet       string   `json:"icon_set,omitempty"`
	CarryOver     *bool    `json:"carry_over,omitempty"`
	ArchiveDays   int      `json:"archive_days,omitempty"`
	ArchivePolicy string   `json:"archive_policy,omitempty"`
	RankLimit     int      `json:"rank_limit,omitempty"`
	AgingScale    *float64 `json:"aging_scale,omitempty"`

	// Resolved paths (computed, not serialized)
	EffectiveCwd string `json:"-"` // Absolute working directory (from -C flag or os.Getwd)
	TaskFileAbs  string `json:"-"` // Absolute path to the task file

	// Sources tracks which config files were loaded (for diagnostics)
	Sources ConfigSources `json:"-"`
}

// ConfigSources tracks which config files were loaded.
type ConfigSources struct {
	Global  string // Path to global config if loaded, empty otherwise
	Project string // Path to project config if loaded, empty otherwise
}

// CarryOverEnabled reports whether daily sections carry over unfinished
// entries. Defaults to true when unset.
func (c Config) CarryOverEnabled() bool {
	return c.CarryOver == nil || *c.CarryOver
}

// DefaultAgingScale returns the aging scale applied to tasks that have
// none of their own.
func (c Config) DefaultAgingScale() float64 {
	if c.AgingScale == nil || *c.AgingScale <= 0 {
		return 1
	}

	return *c.AgingScale
}

// Defaults.
const (
	DefaultTaskFile    = "tasks.md"
	DefaultIconSet     = "default"
	DefaultArchiveDays = 14
	DefaultRankLimit   = 10
)

// DefaultConfig returns the default configuration.
func DefaultConfig() Config {
	return Config{
		TaskFile:      DefaultTaskFile,
		IconSet:       DefaultIconSet,
		ArchiveDays:   DefaultArchiveDays,
		ArchivePolicy: "full",
		RankLimit:     DefaultRankLimit,
	}
}

// ConfigFileName is the default project config file name.
const ConfigFileName = ".pt.json"

// getGlobalConfigPath returns the path to the global config file.
// Uses $XDG_CONFIG_HOME/pt/config.json if set, otherwise ~/.config/pt/config.json.
// Returns empty string if home directory cannot be determined.
func getGlobalConfigPath(env map[string]string) string {
	if xdgConfig := env["XDG_CONFIG_HOME"]; xdgConfig != "" {
		return filepath.Join(xdgConfig, "pt", "config.json")
	}

	if home := env["HOME"]; home != "" {
		return filepath.Join(home, ".config", "pt", "config.json")
	}

	return ""
}

// LoadConfigInput holds the inputs for LoadConfig.
type LoadConfigInput struct {
	WorkDirOverride  string            // -C/--cwd flag value; if empty, os.Getwd() is used
	ConfigPath       string            // -c/--config flag value
	TaskFileOverride string            // --file flag value; empty means no override
	Env              map[string]string // environment variables
}

// LoadConfig loads configuration with the following precedence (highest wins):
// 1. Defaults
// 2. Global user config (~/.config/pt/config.json or $XDG_CONFIG_HOME/pt/config.json)
// 3. Project config file at default location (.pt.json, if exists)
// 4. Explicit config file via configPath (if non-empty)
// 5. CLI overrides.
//
// All paths in the returned Config are resolved to absolute paths.
func LoadConfig(input LoadConfigInput) (Config, error) {
	// Resolve effective working directory
	workDir := input.WorkDirOverride
	if workDir == "" {
		var err error

		workDir, err = os.Getwd()
		if err != nil {
			return Config{}, fmt.Errorf("cannot get working directory: %w", err)
		}
	}

	cfg := DefaultConfig()

	// Load global config if it exists
	globalCfg, globalPath, err := loadGlobalConfig(input.Env)
	if err != nil {
		return Config{}, err
	}

	cfg.Sources.Global = globalPath
	cfg = mergeConfig(cfg, globalCfg)

	// Load project/explicit config file
	projectCfg, projectPath, err := loadProjectConfig(workDir, input.ConfigPath)
	if err != nil {
		return Config{}, err
	}

	cfg.Sources.Project = projectPath
	cfg = mergeConfig(cfg, projectCfg)

	// Apply CLI overrides
	if input.TaskFileOverride != "" {
		cfg.TaskFile = input.TaskFileOverride
	}

	// Validate
	validateErr := validateConfig(cfg)
	if validateErr != nil {
		return Config{}, validateErr
	}

	// Resolve all paths to absolute
	cfg.EffectiveCwd = workDir

	if filepath.IsAbs(cfg.TaskFile) {
		cfg.TaskFileAbs = cfg.TaskFile
	} else {
		cfg.TaskFileAbs = filepath.Join(workDir, cfg.TaskFile)
	}

	return cfg, nil
}

// loadGlobalConfig loads the global user config file if it exists.
// Returns the config, the path if loaded, and any error.
func loadGlobalConfig(env map[string]string) (Config, string, error) {
	globalCfgPath := getGlobalConfigPath(env)
	if globalCfgPath == "" {
		return Config{}, "", nil
	}

	globalCfg, explicitEmpty, loaded, err := loadConfigFile(globalCfgPath, false)
	if err != nil {
		return Config{}, "", err
	}

	if !loaded {
		return Config{}, "", nil
	}

	if explicitEmpty["task_file"] {
		return Config{}, "", fmt.Errorf("%w %s: %w", ErrConfigInvalid, globalCfgPath, ErrTaskFileEmpty)
	}

	return globalCfg, globalCfgPath, nil
}

// loadProjectConfig loads the project config file (.pt.json) or an explicit config file.
// Returns the config, the path if loaded, and any error.
func loadProjectConfig(workDir, configPath string) (Config, string, error) {
	var cfgFile string

	var mustExist bool

	if configPath != "" {
		// Explicit config file - must exist
		cfgFile = configPath
		if !filepath.IsAbs(cfgFile) {
			cfgFile = filepath.Join(workDir, cfgFile)
		}

		mustExist = true

		// Check existence first to provide a clear "not found" error
		_, statErr := os.Stat(cfgFile)
		if statErr != nil {
			return Config{}, "", fmt.Errorf("%w: %s", ErrConfigFileNotFound, configPath)
		}
	} else {
		// Default project config file - optional
		cfgFile = filepath.Join(workDir, ConfigFileName)
		mustExist = false
	}

	fileCfg, explicitEmpty, loaded, err := loadConfigFile(cfgFile, mustExist)
	if err != nil {
		return Config{}, "", err
	}

	if !loaded {
		return Config{}, "", nil
	}

	if explicitEmpty["task_file"] {
		return Config{}, "", fmt.Errorf("%w %s: %w", ErrConfigInvalid, cfgFile, ErrTaskFileEmpty)
	}

	return fileCfg, cfgFile, nil
}

// loadConfigFile loads a config file. If mustExist is false, missing files return zero config.
// Returns the config, a map of explicitly empty fields, whether file was loaded, and any error.
func loadConfigFile(path string, mustExist bool) (Config, map[string]bool, bool, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) && !mustExist {
			return Config{}, nil, false, nil
		}

		if mustExist {
			return Config{}, nil, false, fmt.Errorf("%w: %s", ErrConfigFileRead, path)
		}

		return Config{}, nil, false, nil
	}

	cfg, explicitEmpty, parseErr := parseConfig(data)
	if parseErr != nil {
		return Config{}, nil, false, fmt.Errorf("%w %s: %w", ErrConfigInvalid, path, parseErr)
	}

	return cfg, explicitEmpty, true, nil
}

func parseConfig(data []byte) (Config, map[string]bool, error) {
	// Standardize JSONC to JSON
	standardized, err := hujson.Standardize(data)
	if err != nil {
		return Config{}, nil, fmt.Errorf("invalid JSONC: %w", err)
	}

	var cfg Config

	unmarshalErr := json.Unmarshal(standardized, &cfg)
	if unmarshalErr != nil {
		return Config{}, nil, fmt.Errorf("invalid JSON: %w", unmarshalErr)
	}

	// Check which fields were explicitly set to empty
	var raw map[string]any

	_ = json.Unmarshal(standardized, &raw)

	explicitEmpty := make(map[string]bool)

	if val, exists := raw["task_file"]; exists {
		if str, ok := val.(string); ok && str == "" {
			explicitEmpty["task_file"] = true
		}
	}

	return cfg, explicitEmpty, nil
}

func mergeConfig(base, overlay Config) Config {
	if overlay.TaskFile != "" {
		base.TaskFile = overlay.TaskFile
	}

	if overlay.Editor != "" {
		base.Editor = overlay.Editor
	}

	if overlay.IconSet != "" {
		base.IconSet = overlay.IconSet
	}

	if overlay.CarryOver != nil {
		base.CarryOver = overlay.CarryOver
	}

	if overlay.ArchiveDays > 0 {
		base.ArchiveDays = overlay.ArchiveDays
	}

	if overlay.ArchivePolicy != "" {
		base.ArchivePolicy = overlay.ArchivePolicy
	}

	if overlay.RankLimit > 0 {
		base.RankLimit = overlay.RankLimit
	}

	if overlay.AgingScale != nil {
		base.AgingScale = overlay.AgingScale
	}

	return base
}

func validateConfig(cfg Config) error {
	if cfg.TaskFile == "" {
		return ErrTaskFileEmpty
	}

	if !IsValidIconSet(cfg.IconSet) {
		return fmt.Errorf("%w: %s", ErrInvalidIconSet, cfg.IconSet)
	}

	if _, err := ParseArchivePolicy(cfg.ArchivePolicy); err != nil {
		return fmt.Errorf("%w: %s", err, cfg.ArchivePolicy)
	}

	return nil
}

// IsValidIconSet reports whether the icon_set value is recognized.
func IsValidIconSet(s string) bool {
	switch s {
	case "default", "dots", "check", "simple":
		return true
	default:
		return false
	}
}

// FormatConfig renders the serializable config fields as indented JSON
// for print-config.
func FormatConfig(cfg Config) (string, error) {
	data, err := json.MarshalIndent(cfg, "", "  ")
	if err != nil {
		return "", fmt.Errorf("format config: %w", err)
	}

	return string(data), nil
}
