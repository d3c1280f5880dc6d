package client

import (
	"errors"
	"fmt"
	"io/fs"
	"net/url"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

const (
	envAPIURL = "TECHWIKI_API_URL"
	envEditor = "TECHWIKI_EDITOR"

	defaultAPIURL  = "http://localhost:8080"
	configFileName = "config.yaml"
)

// GlobalConfig is the per-user settings file.
type GlobalConfig struct {
	APIURL string `yaml:"api_url,omitempty"`
	// Editor is recorded as author on create and as editedBy on edit.
	Editor string `yaml:"editor,omitempty"`
}

// configDir is swapped by tests.
var configDir = func() (string, error) {
	base, err := os.UserConfigDir()
	if err != nil {
		return "", fmt.Errorf("locate user config directory: %w", err)
	}
	return filepath.Join(base, "techwiki"), nil
}

// GetConfigPath returns the location of the user config file.
func GetConfigPath() (string, error) {
	dir, err := configDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, configFileName), nil
}

// LoadGlobalConfig returns nil without error when no file exists.
func LoadGlobalConfig() (*GlobalConfig, error) {
	path, err := GetConfigPath()
	if err != nil {
		return nil, err
	}

	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}

	var config GlobalConfig
	if err := yaml.Unmarshal(data, &config); err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	return &config, nil
}

// SaveGlobalConfig validates and writes the config, readable by the owner only.
func SaveGlobalConfig(config *GlobalConfig) error {
	if config == nil {
		return errors.New("config cannot be nil")
	}
	if config.APIURL != "" {
		if err := validateAPIURL(config.APIURL); err != nil {
			return err
		}
	}

	path, err := GetConfigPath()
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("create config directory: %w", err)
	}

	data, err := yaml.Marshal(config)
	if err != nil {
		return fmt.Errorf("encode config: %w", err)
	}
	if err := os.WriteFile(path, data, 0o600); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	return nil
}

// DeleteGlobalConfig removes the config file; a missing file is not an error.
func DeleteGlobalConfig() error {
	path, err := GetConfigPath()
	if err != nil {
		return err
	}
	if err := os.Remove(path); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("remove %s: %w", path, err)
	}
	return nil
}

func validateAPIURL(raw string) error {
	u, err := url.Parse(raw)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return fmt.Errorf("invalid API URL %q: want http(s)://host[:port]", raw)
	}
	return nil
}

// SettingSource reports where a resolved setting came from.
type SettingSource string

const (
	SourceFlag         SettingSource = "flag"
	SourceEnv          SettingSource = "env"
	SourceGlobalConfig SettingSource = "global_config"
	SourceDefault      SettingSource = "default"
)

// resolve walks flag, environment and config file in that order. The config
// file is only read when neither of the first two is set.
func resolve(flagValue, envKey string, fromConfig func(*GlobalConfig) string) (string, SettingSource, error) {
	if flagValue != "" {
		return flagValue, SourceFlag, nil
	}
	if v := os.Getenv(envKey); v != "" {
		return v, SourceEnv, nil
	}

	config, err := LoadGlobalConfig()
	if err != nil {
		return "", "", err
	}
	if config != nil {
		if v := fromConfig(config); v != "" {
			return v, SourceGlobalConfig, nil
		}
	}
	return "", SourceDefault, nil
}

// ResolveAPIURL picks the API base URL: flag, then env, then the config
// file, then the local default. A trailing slash is removed.
func ResolveAPIURL(flagURL string) (string, SettingSource, error) {
	v, source, err := resolve(flagURL, envAPIURL, func(c *GlobalConfig) string { return c.APIURL })
	if err != nil {
		return "", "", err
	}
	if source == SourceDefault {
		return defaultAPIURL, source, nil
	}
	v = strings.TrimRight(v, "/")
	if err := validateAPIURL(v); err != nil {
		return "", "", fmt.Errorf("api url from %s: %w", source, err)
	}
	return v, source, nil
}

// ResolveEditor picks the editor name: flag, then env, then the config file.
// An empty result is allowed; the server records edits as anonymous.
func ResolveEditor(flagEditor string) (string, error) {
	v, _, err := resolve(flagEditor, envEditor, func(c *GlobalConfig) string { return c.Editor })
	return v, err
}
