// Package configpaths resolves where prebuild looks for configuration files.
package configpaths

import (
	"os"
	"path/filepath"
	"strings"
)

const (
	appName  = "mavesp-prebuild"
	fileBase = "prebuild"
)

// DefaultConfigDir returns the per-user configuration directory.
func DefaultConfigDir() (string, error) {
	dir, err := os.UserConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, appName), nil
}

// ConfigCandidatePaths returns config file candidates grouped by format, in
// priority order. An explicit userCfg is only tried for the format its
// extension names; without an extension it is tried for all three.
func ConfigCandidatePaths(userCfg string) (jsonPaths, yamlPaths, tomlPaths []string) {
	if userCfg != "" {
		switch strings.ToLower(filepath.Ext(userCfg)) {
		case ".json":
			jsonPaths = append(jsonPaths, userCfg)
		case ".yaml", ".yml":
			yamlPaths = append(yamlPaths, userCfg)
		case ".toml":
			tomlPaths = append(tomlPaths, userCfg)
		default:
			jsonPaths = append(jsonPaths, userCfg)
			yamlPaths = append(yamlPaths, userCfg)
			tomlPaths = append(tomlPaths, userCfg)
		}
	}

	dirs := []string{"."}
	if dir, err := DefaultConfigDir(); err == nil {
		dirs = append(dirs, dir)
	}
	if dir := SystemConfigDir(); dir != "" {
		dirs = append(dirs, dir)
	}

	for _, dir := range dirs {
		base := filepath.Join(dir, fileBase)
		jsonPaths = append(jsonPaths, base+".json")
		yamlPaths = append(yamlPaths, base+".yaml", base+".yml")
		tomlPaths = append(tomlPaths, base+".toml")
	}
	return jsonPaths, yamlPaths, tomlPaths
}
