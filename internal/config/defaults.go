package config

import (
	"os"
	"path/filepath"
)

// Default returns the built-in configuration rooted under the user's home
// directory. The identity salt is intentionally left empty; the daemon
// refuses to start until one is configured. DatabasePath and SocketPath are
// left empty too, so applyFallbacks derives them from the effective LogDir
// whether it comes from here or from a config file.
func Default() Config {
	dataDir := defaultDataDir()
	return Config{
		LibraryDir: filepath.Join(dataDir, "library"),
		LogDir:     filepath.Join(dataDir, "logs"),
		Identity: Identity{
			MinLength: 8,
		},
		Logging: Logging{
			Format: "console",
			Level:  "info",
		},
	}
}

func defaultDataDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return "scorevault-data"
	}
	return filepath.Join(home, ".local", "share", "scorevault")
}
