// Package config provides configuration file parsing for idiomine.
package config

import (
	"bufio"
	"os"
	"path/filepath"
	"strings"
)

// Dir returns the idiomine config directory, respecting XDG_CONFIG_HOME.
// Defaults to ~/.config/idiomine if XDG_CONFIG_HOME is not set.
func Dir() (string, error) {
	base := os.Getenv("XDG_CONFIG_HOME")
	if base == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", err
		}
		base = filepath.Join(home, ".config")
	}
	return filepath.Join(base, "idiomine"), nil
}

// IgnoreConfig holds the identifier patterns excluded from mining. Each
// entry is either an exact identifier name or a prefix pattern ending in
// "*" (e.g. "tmp*").
type IgnoreConfig struct {
	exact    map[string]bool
	prefixes []string
}

// Match reports whether the identifier name is excluded.
func (c *IgnoreConfig) Match(name string) bool {
	if c.exact[name] {
		return true
	}
	for _, prefix := range c.prefixes {
		if strings.HasPrefix(name, prefix) {
			return true
		}
	}
	return false
}

// LoadIgnore reads the ignore file at {dir}/ignore and returns the parsed
// config. If the file does not exist, an empty config is returned without
// an error. Blank lines and lines starting with "#" are skipped.
func LoadIgnore(dir string) (*IgnoreConfig, error) {
	cfg := &IgnoreConfig{
		exact: make(map[string]bool),
	}

	path := filepath.Join(dir, "ignore")
	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return cfg, err
	}
	defer f.Close()

	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())

		// Skip blank lines and comments.
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}

		if strings.HasSuffix(line, "*") {
			prefix := strings.TrimSuffix(line, "*")
			if prefix != "" {
				cfg.prefixes = append(cfg.prefixes, prefix)
			}
			continue
		}

		cfg.exact[line] = true
	}

	if err := scanner.Err(); err != nil {
		return cfg, err
	}

	return cfg, nil
}
