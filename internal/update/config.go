package update

import (
	"os"
	"strconv"
	"strings"

	"github.com/BurntSushi/toml"
)

type RuntimeConfig struct {
	DatabasePath         string  `toml:"database_path"`
	DesktopNotifications bool    `toml:"desktop_notifications"`
	Sensitivity          float64 `toml:"sensitivity"`
	LearningEnabled      bool    `toml:"learning_enabled"`
	DispatcherBuffer     int     `toml:"dispatcher_buffer"`
}

func DefaultRuntimeConfig() RuntimeConfig {
	return RuntimeConfig{
		DatabasePath:         "anchora.db",
		DesktopNotifications: false,
		Sensitivity:          0.3,
		LearningEnabled:      true,
		DispatcherBuffer:     64,
	}
}

// LoadRuntimeConfig reads a TOML config file over the defaults. A missing
// file is not an error, the defaults stand.
func LoadRuntimeConfig(path string) (RuntimeConfig, error) {
	cfg := DefaultRuntimeConfig()
	path = strings.TrimSpace(path)
	if path == "" {
		return cfg, nil
	}
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return cfg, nil
	}
	if _, err := toml.DecodeFile(path, &cfg); err != nil {
		return DefaultRuntimeConfig(), err
	}
	return cfg, nil
}

func RuntimeConfigFromEnv(base RuntimeConfig) RuntimeConfig {
	cfg := base
	if v, ok := getEnvString("ANCHORA_DB_PATH"); ok {
		cfg.DatabasePath = v
	}
	if v, ok := getEnvBool("ANCHORA_DESKTOP_NOTIFICATIONS"); ok {
		cfg.DesktopNotifications = v
	}
	if v, ok := getEnvFloat("ANCHORA_SENSITIVITY"); ok && v > 0 && v < 1 {
		cfg.Sensitivity = v
	}
	if v, ok := getEnvBool("ANCHORA_LEARNING"); ok {
		cfg.LearningEnabled = v
	}
	if v, ok := getEnvInt("ANCHORA_DISPATCHER_BUFFER"); ok && v > 0 {
		cfg.DispatcherBuffer = v
	}
	return cfg
}

func getEnvString(name string) (string, bool) {
	raw := strings.TrimSpace(os.Getenv(name))
	if raw == "" {
		return "", false
	}
	return raw, true
}

func getEnvInt(name string) (int, bool) {
	raw := strings.TrimSpace(os.Getenv(name))
	if raw == "" {
		return 0, false
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		return 0, false
	}
	return v, true
}

func getEnvFloat(name string) (float64, bool) {
	raw := strings.TrimSpace(os.Getenv(name))
	if raw == "" {
		return 0, false
	}
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return 0, false
	}
	return v, true
}

func getEnvBool(name string) (bool, bool) {
	raw := strings.TrimSpace(strings.ToLower(os.Getenv(name)))
	if raw == "" {
		return false, false
	}
	switch raw {
	case "1", "true", "yes", "y", "on":
		return true, true
	case "0", "false", "no", "n", "off":
		return false, true
	default:
		return false, false
	}
}
