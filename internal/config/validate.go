package config

import (
	"errors"
	"fmt"
	"strings"
)

// Validate checks that the configuration is complete enough for the daemon.
func (c *Config) Validate() error {
	var problems []string

	if strings.TrimSpace(c.LibraryDir) == "" {
		problems = append(problems, "library_dir must be set")
	}
	if strings.TrimSpace(c.DatabasePath) == "" {
		problems = append(problems, "database_path must be set")
	}
	if strings.TrimSpace(c.SocketPath) == "" {
		problems = append(problems, "socket_path must be set")
	}
	if strings.TrimSpace(c.Identity.Salt) == "" {
		problems = append(problems, "identity.salt must be set (public file ids are derived from it)")
	}
	switch strings.ToLower(strings.TrimSpace(c.Logging.Format)) {
	case "", "console", "json":
	default:
		problems = append(problems, fmt.Sprintf("logging.format %q is not supported (use console or json)", c.Logging.Format))
	}

	if len(problems) > 0 {
		return errors.New("invalid configuration: " + strings.Join(problems, "; "))
	}
	return nil
}
