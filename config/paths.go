package config

import (
	"os"
	"path/filepath"
	"runtime"
	"strings"
)

// GetConfigDir returns the platform-specific configuration directory
// Linux/Mac: ~/.config/chatwire
// Windows: C:\Users\username\.config\chatwire
func GetConfigDir() string {
	return filepath.Join(GetHomeDir(), ".config", "chatwire")
}

// GetSettingsFilePath returns the path to settings.toml, or CHATWIRE_CONFIG when set
func GetSettingsFilePath() string {
	if path := os.Getenv("CHATWIRE_CONFIG"); path != "" {
		return ExpandPath(path)
	}
	return filepath.Join(GetConfigDir(), "settings.toml")
}

// GetHomeDir returns the user's home directory, falling back to the
// filesystem root when none is set.
func GetHomeDir() string {
	if home, err := os.UserHomeDir(); err == nil && home != "" {
		return home
	}
	if runtime.GOOS == "windows" {
		return "C:\\"
	}
	return "/"
}

// ExpandPath expands a leading ~ and $VARS; "" stays "".
func ExpandPath(path string) string {
	if path == "" {
		return ""
	}
	if path == "~" || strings.HasPrefix(path, "~/") {
		path = filepath.Join(GetHomeDir(), strings.TrimPrefix(path, "~"))
	}
	return filepath.Clean(os.ExpandEnv(path))
}

// EnsureDir creates a directory if it doesn't exist (0700 - user-only access)
func EnsureDir(path string) error {
	return os.MkdirAll(path, 0700)
}

func FileExists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}
