package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/spf13/viper"
)

// Paths records which config files LoadConfig considered.
type Paths struct {
	Default string
	Global  string
	Project string
}

var (
	currentConfig *viper.Viper
	currentPaths  Paths
)

// LoadConfig merges default, global and project config, later files
// taking priority. NESTPROP_* environment variables override all of them.
func LoadConfig(projectDir string) (Paths, error) {
	v := viper.New()
	v.SetConfigType("yaml")
	v.SetEnvPrefix("NESTPROP")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	setDefaults(v)

	paths := Paths{
		Default: defaultConfigPath(),
		Global:  globalConfigPath(),
		Project: projectConfigPath(projectDir),
	}

	for i, path := range []string{paths.Default, paths.Global, paths.Project} {
		if err := mergeConfigFile(v, path, i == 0); err != nil {
			return paths, err
		}
	}

	currentConfig = v
	currentPaths = paths
	return paths, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("defaults.proposal", "identity")
	v.SetDefault("defaults.output_dir", "nestprop_output")
	v.SetDefault("defaults.samples", 100)
	v.SetDefault("logging.level", "debug")
}

// CurrentPaths returns the paths used by the last LoadConfig.
func CurrentPaths() Paths {
	return currentPaths
}

// GetConfig returns a config value as a string.
func GetConfig(key string) (string, bool) {
	if key == "" || currentConfig == nil {
		return "", false
	}
	if !currentConfig.IsSet(key) {
		return "", false
	}
	return valueToString(currentConfig.Get(key)), true
}

// String returns a non-blank config value or fallback.
func String(key, fallback string) string {
	if value, ok := GetConfig(key); ok && strings.TrimSpace(value) != "" {
		return value
	}
	return fallback
}

// Int returns a positive integer config value or fallback.
func Int(key string, fallback int) int {
	value, ok := GetConfig(key)
	if !ok {
		return fallback
	}
	parsed, err := strconv.Atoi(strings.TrimSpace(value))
	if err != nil || parsed <= 0 {
		return fallback
	}
	return parsed
}

// StringMap returns the leaf values below a section, keyed relative to it.
func StringMap(section string) map[string]string {
	out := map[string]string{}
	if currentConfig == nil {
		return out
	}
	flattenSettings("", currentConfig.GetStringMap(section), out)
	return out
}

// SetConfig writes a value to the global config file.
func SetConfig(key, value string) error {
	if key == "" {
		return errors.New("config key is required")
	}

	globalPath := globalConfigPath()
	if globalPath == "" {
		return errors.New("global config path is not available")
	}
	if err := os.MkdirAll(filepath.Dir(globalPath), 0o755); err != nil {
		return fmt.Errorf("create config dir: %w", err)
	}

	v := viper.New()
	v.SetConfigType("yaml")
	v.SetConfigFile(globalPath)
	if fileExists(globalPath) {
		if err := v.ReadInConfig(); err != nil {
			return fmt.Errorf("read global config: %w", err)
		}
	}

	v.Set(key, value)
	if err := v.WriteConfigAs(globalPath); err != nil {
		return fmt.Errorf("write global config: %w", err)
	}

	if currentConfig != nil {
		currentConfig.Set(key, value)
	}
	return nil
}

// ListConfig returns every loaded setting with dotted keys.
func ListConfig() (map[string]string, error) {
	if currentConfig == nil {
		return nil, errors.New("config not loaded")
	}
	flattened := map[string]string{}
	flattenSettings("", currentConfig.AllSettings(), flattened)
	return flattened, nil
}

func defaultConfigPath() string {
	if path, ok := os.LookupEnv("NESTPROP_DEFAULT_CONFIG"); ok && path != "" {
		return path
	}

	var candidates []string
	if exe, err := os.Executable(); err == nil {
		candidates = append(candidates, filepath.Join(filepath.Dir(exe), "config", "default.yaml"))
	}
	if dir := configDir(); dir != "" {
		candidates = append(candidates, filepath.Join(dir, "default.yaml"))
	}

	for _, candidate := range candidates {
		if fileExists(candidate) {
			return candidate
		}
	}
	return ""
}

func globalConfigPath() string {
	if path, ok := os.LookupEnv("NESTPROP_GLOBAL_CONFIG"); ok && path != "" {
		return path
	}
	dir := configDir()
	if dir == "" {
		return ""
	}
	return filepath.Join(dir, "config.yaml")
}

func projectConfigPath(projectDir string) string {
	if projectDir == "" {
		return ""
	}
	if info, err := os.Stat(projectDir); err != nil || !info.IsDir() {
		return ""
	}

	name := os.Getenv("NESTPROP_PROJECT_CONFIG_NAME")
	if name == "" {
		name = ".nestprop.yaml"
	}
	return filepath.Join(projectDir, name)
}

func configDir() string {
	if path, ok := os.LookupEnv("NESTPROP_CONFIG_DIR"); ok && path != "" {
		return path
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".config", "nestprop")
}

func mergeConfigFile(v *viper.Viper, path string, first bool) error {
	if !fileExists(path) {
		return nil
	}

	v.SetConfigFile(path)
	if first {
		if err := v.ReadInConfig(); err != nil {
			return fmt.Errorf("read config %s: %w", path, err)
		}
		return nil
	}
	if err := v.MergeInConfig(); err != nil {
		return fmt.Errorf("merge config %s: %w", path, err)
	}
	return nil
}

func fileExists(path string) bool {
	if path == "" {
		return false
	}
	info, err := os.Stat(path)
	return err == nil && !info.IsDir()
}

func valueToString(value interface{}) string {
	switch typed := value.(type) {
	case []string:
		return strings.Join(typed, ",")
	case []interface{}:
		parts := make([]string, 0, len(typed))
		for _, item := range typed {
			parts = append(parts, fmt.Sprint(item))
		}
		return strings.Join(parts, ",")
	default:
		return fmt.Sprint(value)
	}
}

func flattenSettings(prefix string, value interface{}, out map[string]string) {
	switch typed := value.(type) {
	case nil:
		return
	case map[string]interface{}:
		for key, item := range typed {
			next := key
			if prefix != "" {
				next = prefix + "." + key
			}
			flattenSettings(next, item, out)
		}
	default:
		if prefix != "" {
			out[prefix] = valueToString(value)
		}
	}
}
