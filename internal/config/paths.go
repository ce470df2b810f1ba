package config

import (
	"os"
	"path/filepath"
)

// DefaultProjectConfigPath is where init writes the project config.
var DefaultProjectConfigPath = filepath.Join(".github", "changelog.json")

// projectConfigCandidates are searched in order when no path is given.
var projectConfigCandidates = []string{
	DefaultProjectConfigPath,
	filepath.Join(".github", "changelog.yml"),
	filepath.Join(".github", "changelog.yaml"),
	".changelogen.yml",
	".changelogen.yaml",
}

// UserConfigPath returns the path to the user-level config file.
// This follows the XDG Base Directory Specification:
// - Linux: ~/.config/changelogen/config.yml
// - macOS: ~/Library/Application Support/changelogen/config.yml
// - Windows: %APPDATA%\changelogen\config.yml
func UserConfigPath() (string, error) {
	dir, err := UserConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "config.yml"), nil
}

// UserConfigDir returns the path to the user-level config directory.
func UserConfigDir() (string, error) {
	configDir, err := os.UserConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(configDir, "changelogen"), nil
}

// FindProjectConfig returns the first existing project config file
// relative to the current directory, or "".
func FindProjectConfig() string {
	return FindProjectConfigIn(".")
}

// FindProjectConfigIn is FindProjectConfig rooted at dir. An empty dir
// means the current directory.
func FindProjectConfigIn(dir string) string {
	for _, candidate := range projectConfigCandidates {
		path := filepath.Join(dir, candidate)
		if fileExists(path) {
			return path
		}
	}
	return ""
}
